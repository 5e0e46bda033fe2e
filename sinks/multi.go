package sinks

import (
	"github.com/pkg/errors"
	"github.com/zeu5/smartcab-rl/types"
)

// Multi fans out records and snapshots to all of its sinks
type Multi []types.Sink

var _ types.SnapshotSink = Multi{}

// Record on every sink, returning the first error after trying all of them
func (m Multi) Record(r *types.TrialRecord) error {
	var first error
	for _, s := range m {
		if err := s.Record(r); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (m Multi) Publish(snapshot types.TableSnapshot) {
	for _, s := range m {
		if ss, ok := s.(types.SnapshotSink); ok {
			ss.Publish(snapshot)
		}
	}
}

func (m Multi) Close() error {
	var first error
	for _, s := range m {
		if err := s.Close(); err != nil && first == nil {
			first = errors.Wrap(err, "closing sink")
		}
	}
	return first
}
