package types

// World is a simulated environment that runs trials for its primary driver.
// Reset starts a new trial, Step advances it by one time step
type World interface {
	Reset(testing bool) error
	Step() error
	// Done is true once the current trial reached the destination or ran out of time
	Done() bool
	// Record of the current trial; Trial, Epsilon and Alpha are filled by the simulator
	Record() *TrialRecord
	// Trace of the current trial
	Trace() *Trace
}

// Parameters of a driver at a trial boundary
type Parameters struct {
	Learning bool    `json:"learning"`
	Testing  bool    `json:"testing"`
	Trial    int     `json:"trial"`
	Epsilon  float64 `json:"epsilon"`
	Alpha    float64 `json:"alpha"`
}

// Tunable drivers expose their exploration and learning parameters
type Tunable interface {
	Parameters() Parameters
}

// TableSnapshot is a copy of a value table keyed by State.Hash and action name
type TableSnapshot map[string]map[string]float64

// Snapshotter drivers can copy their value table
type Snapshotter interface {
	Snapshot() TableSnapshot
}

// Sink receives the record of every finished trial
type Sink interface {
	Record(*TrialRecord) error
	Close() error
}

// SnapshotSink additionally receives the value table after every trial
type SnapshotSink interface {
	Sink
	Publish(TableSnapshot)
}
