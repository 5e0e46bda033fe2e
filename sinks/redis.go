package sinks

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/zeu5/smartcab-rl/types"
)

// RedisSinkConfig of a stream sink
type RedisSinkConfig struct {
	Addr     string
	Password string
	DB       int
	// stream the trials are added to
	Stream     string
	Experiment string
	Run        int
	Timeout    time.Duration
}

// RedisSink adds every trial to a redis stream and keeps the latest
// value table under <stream>:table:<experiment>
type RedisSink struct {
	client *redis.Client
	config *RedisSinkConfig
	// last failed snapshot publication, reported on Close
	publishErr error
}

var _ types.SnapshotSink = &RedisSink{}

// NewRedisSink connects to the server and fails if it is unreachable
func NewRedisSink(ctx context.Context, config *RedisSinkConfig) (*RedisSink, error) {
	if config.Timeout == 0 {
		config.Timeout = time.Second
	}
	if config.Stream == "" {
		config.Stream = "smartcab:trials"
	}
	client := redis.NewClient(&redis.Options{
		Addr:        config.Addr,
		Password:    config.Password,
		DB:          config.DB,
		DialTimeout: config.Timeout,
	})
	pingCtx, cancel := context.WithTimeout(ctx, config.Timeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, errors.Wrapf(err, "connecting to redis at %s", config.Addr)
	}
	return &RedisSink{client: client, config: config}, nil
}

// StreamValues flattens the record into stream entry fields
func StreamValues(experiment string, run int, r *types.TrialRecord) map[string]interface{} {
	values := map[string]interface{}{
		"experiment":       experiment,
		"run":              run,
		"trial":            r.Trial,
		"testing":          r.Testing,
		"epsilon":          r.Epsilon,
		"alpha":            r.Alpha,
		"initial_deadline": r.InitialDeadline,
		"final_deadline":   r.FinalDeadline,
		"net_reward":       r.NetReward,
		"success":          r.Success,
		"steps":            r.Steps,
	}
	for class, c := range r.Actions {
		values["actions_"+types.Violation(class).String()] = c
	}
	return values
}

func (s *RedisSink) Record(r *types.TrialRecord) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.Timeout)
	defer cancel()
	err := s.client.XAdd(ctx, &redis.XAddArgs{
		Stream: s.config.Stream,
		Values: StreamValues(s.config.Experiment, s.config.Run, r),
	}).Err()
	return errors.Wrapf(err, "adding trial %d to stream %s", r.Trial, s.config.Stream)
}

func (s *RedisSink) tableKey() string {
	return s.config.Stream + ":table:" + s.config.Experiment
}

func (s *RedisSink) Publish(snapshot types.TableSnapshot) {
	bs, err := json.Marshal(snapshot)
	if err != nil {
		s.publishErr = err
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.config.Timeout)
	defer cancel()
	if err := s.client.Set(ctx, s.tableKey(), bs, 0).Err(); err != nil {
		s.publishErr = err
	}
}

func (s *RedisSink) Close() error {
	if err := s.client.Close(); err != nil {
		return err
	}
	return errors.Wrap(s.publishErr, "publishing table")
}
