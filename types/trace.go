package types

// Violation class of an attempted move
type Violation int

const (
	NoViolation Violation = iota
	MinorViolation
	MajorViolation
	MinorAccident
	MajorAccident
)

// NumViolationClasses including NoViolation
const NumViolationClasses = 5

func (v Violation) String() string {
	switch v {
	case NoViolation:
		return "none"
	case MinorViolation:
		return "minor-violation"
	case MajorViolation:
		return "major-violation"
	case MinorAccident:
		return "minor-accident"
	case MajorAccident:
		return "major-accident"
	}
	return "unknown"
}

// Step of a trial as observed by the environment
type Step struct {
	Step      int       `json:"step"`
	Location  Location  `json:"location"`
	State     State     `json:"state"`
	Action    Action    `json:"action"`
	Reward    float64   `json:"reward"`
	Violation Violation `json:"violation"`
	Deadline  int       `json:"deadline"`
}

// Trace of a trial as a sequence of steps
type Trace struct {
	Steps []Step `json:"steps"`
}

func NewTrace() *Trace {
	return &Trace{
		Steps: make([]Step, 0),
	}
}

func (t *Trace) Append(step Step) {
	t.Steps = append(t.Steps, step)
}

func (t *Trace) Len() int {
	return len(t.Steps)
}

func (t *Trace) Get(i int) (Step, bool) {
	if i < 0 || i >= len(t.Steps) {
		return Step{}, false
	}
	return t.Steps[i], true
}

func (t *Trace) Last() (Step, bool) {
	return t.Get(len(t.Steps) - 1)
}

func (t *Trace) Slice(from, to int) *Trace {
	sliced := NewTrace()
	for i := from; i < to && i < len(t.Steps); i++ {
		step := t.Steps[i]
		step.Step = i - from
		sliced.Append(step)
	}
	return sliced
}
