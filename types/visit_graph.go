package types

// VisitGraph of the states observed in consecutive steps and the actions between them
type VisitGraph struct {
	Nodes map[string]*Node `json:"nodes"`
}

func NewVisitGraph() *VisitGraph {
	return &VisitGraph{
		Nodes: make(map[string]*Node),
	}
}

// Update records the transition and returns true if from was not seen before
func (v *VisitGraph) Update(from State, action Action, to State) bool {
	fromKey := from.Hash()
	toKey := to.Hash()
	new := false
	if _, ok := v.Nodes[fromKey]; !ok {
		v.Nodes[fromKey] = NewNode(from)
		new = true
	}
	if _, ok := v.Nodes[toKey]; !ok {
		v.Nodes[toKey] = NewNode(to)
	}
	v.Nodes[fromKey].Visits += 1
	v.Nodes[fromKey].AddNext(action, toKey)
	v.Nodes[toKey].AddPrev(action, fromKey)
	return new
}

func (v *VisitGraph) GetVisits() map[string]int {
	results := make(map[string]int)
	for k, n := range v.Nodes {
		results[k] = n.Visits
	}
	return results
}

type Node struct {
	Key    string `json:"key"`
	State  State  `json:"state"`
	Visits int    `json:"visits"`
	// Next, Prev: each action can lead to many states
	Next map[Action]map[string]bool `json:"next"`
	Prev map[Action]map[string]bool `json:"prev"`
}

func NewNode(s State) *Node {
	return &Node{
		Key:    s.Hash(),
		State:  s,
		Visits: 0,
		Next:   make(map[Action]map[string]bool),
		Prev:   make(map[Action]map[string]bool),
	}
}

func (n *Node) AddPrev(a Action, prev string) {
	if _, ok := n.Prev[a]; !ok {
		n.Prev[a] = make(map[string]bool)
	}
	n.Prev[a][prev] = true
}

func (n *Node) AddNext(a Action, next string) {
	if _, ok := n.Next[a]; !ok {
		n.Next[a] = make(map[string]bool)
	}
	n.Next[a][next] = true
}

type transitionAnalyzer struct {
	graph *VisitGraph
}

// TransitionAnalyzer builds the visit graph over the steps of every trial
func TransitionAnalyzer() Analyzer {
	return &transitionAnalyzer{graph: NewVisitGraph()}
}

func (t *transitionAnalyzer) Analyze(_ int, _ string, _ *TrialRecord, trace *Trace) {
	for i := 0; i+1 < trace.Len(); i++ {
		from, _ := trace.Get(i)
		to, _ := trace.Get(i + 1)
		t.graph.Update(from.State, from.Action, to.State)
	}
}

func (t *transitionAnalyzer) DataSet() DataSet {
	return t.graph
}

func (t *transitionAnalyzer) Reset() {
	t.graph = NewVisitGraph()
}
