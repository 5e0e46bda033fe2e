package monitor

import (
	"strconv"
	"sync"

	"github.com/zeu5/smartcab-rl/types"
	"golang.org/x/exp/slices"
)

// RunStatus summarizes the trials of an experiment run seen so far
type RunStatus struct {
	Experiment     string  `json:"experiment"`
	Run            int     `json:"run"`
	Trials         int     `json:"trials"`
	TrainingTrials int     `json:"training_trials"`
	TestingTrials  int     `json:"testing_trials"`
	Epsilon        float64 `json:"epsilon"`
	Alpha          float64 `json:"alpha"`
	States         int     `json:"states"`
}

type runState struct {
	experiment string
	run        int
	records    []*types.TrialRecord
	table      types.TableSnapshot
}

// Store keeps the trials and the latest value table of every experiment run.
// Writers are the simulator sinks, readers the http handlers
type Store struct {
	lock  *sync.Mutex
	runs  map[string]*runState
	order []string
}

func NewStore() *Store {
	return &Store{
		lock:  new(sync.Mutex),
		runs:  make(map[string]*runState),
		order: make([]string, 0),
	}
}

func runKey(experiment string, run int) string {
	return experiment + "/" + strconv.Itoa(run)
}

func (s *Store) get(experiment string, run int) *runState {
	key := runKey(experiment, run)
	r, ok := s.runs[key]
	if !ok {
		r = &runState{
			experiment: experiment,
			run:        run,
			records:    make([]*types.TrialRecord, 0),
		}
		s.runs[key] = r
		s.order = append(s.order, key)
	}
	return r
}

func (s *Store) add(experiment string, run int, record *types.TrialRecord) {
	copied := *record
	s.lock.Lock()
	defer s.lock.Unlock()
	r := s.get(experiment, run)
	r.records = append(r.records, &copied)
}

func (s *Store) publish(experiment string, run int, table types.TableSnapshot) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.get(experiment, run).table = table
}

// Sink that records into the store under the experiment run
func (s *Store) Sink(experiment string, run int) types.SnapshotSink {
	return &storeSink{store: s, experiment: experiment, run: run}
}

// Status of every run in the order they started
func (s *Store) Status() []RunStatus {
	s.lock.Lock()
	defer s.lock.Unlock()
	out := make([]RunStatus, 0, len(s.order))
	for _, key := range s.order {
		r := s.runs[key]
		status := RunStatus{
			Experiment: r.experiment,
			Run:        r.run,
			Trials:     len(r.records),
			States:     len(r.table),
		}
		for _, rec := range r.records {
			if rec.Testing {
				status.TestingTrials += 1
			} else {
				status.TrainingTrials += 1
			}
		}
		if len(r.records) > 0 {
			last := r.records[len(r.records)-1]
			status.Epsilon = last.Epsilon
			status.Alpha = last.Alpha
		}
		out = append(out, status)
	}
	return out
}

// Trials of the run filtered by phase, nil phase returns all of them.
// Returns false for an unknown run
func (s *Store) Trials(experiment string, run int, testing *bool) ([]types.TrialRecord, bool) {
	s.lock.Lock()
	defer s.lock.Unlock()
	r, ok := s.runs[runKey(experiment, run)]
	if !ok {
		return nil, false
	}
	out := make([]types.TrialRecord, 0, len(r.records))
	for _, rec := range r.records {
		if testing == nil || rec.Testing == *testing {
			out = append(out, *rec)
		}
	}
	return out, true
}

// RunRating of a run that finished at least one testing trial
type RunRating struct {
	Experiment string       `json:"experiment"`
	Run        int          `json:"run"`
	Rating     types.Rating `json:"rating"`
}

// Ratings of every run with testing trials, sorted by experiment and run
func (s *Store) Ratings() []RunRating {
	s.lock.Lock()
	defer s.lock.Unlock()
	out := make([]RunRating, 0)
	for _, r := range s.runs {
		if rating, ok := types.Ratings(r.records); ok {
			out = append(out, RunRating{Experiment: r.experiment, Run: r.run, Rating: rating})
		}
	}
	slices.SortFunc(out, func(a, b RunRating) int {
		if a.Experiment != b.Experiment {
			if a.Experiment < b.Experiment {
				return -1
			}
			return 1
		}
		return a.Run - b.Run
	})
	return out
}

// Table is a copy of the latest published value table of the run
func (s *Store) Table(experiment string, run int) (types.TableSnapshot, bool) {
	s.lock.Lock()
	defer s.lock.Unlock()
	r, ok := s.runs[runKey(experiment, run)]
	if !ok || r.table == nil {
		return nil, false
	}
	out := make(types.TableSnapshot, len(r.table))
	for state, actions := range r.table {
		values := make(map[string]float64, len(actions))
		for a, v := range actions {
			values[a] = v
		}
		out[state] = values
	}
	return out, true
}

type storeSink struct {
	store      *Store
	experiment string
	run        int
}

func (s *storeSink) Record(r *types.TrialRecord) error {
	s.store.add(s.experiment, s.run, r)
	return nil
}

func (s *storeSink) Publish(table types.TableSnapshot) {
	s.store.publish(s.experiment, s.run, table)
}

func (s *storeSink) Close() error {
	return nil
}
