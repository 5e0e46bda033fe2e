package monitor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/zeu5/smartcab-rl/types"
)

func record(trial int, testing, success bool) *types.TrialRecord {
	return &types.TrialRecord{
		Trial:   trial,
		Testing: testing,
		Epsilon: 0.1,
		Actions: [types.NumViolationClasses]int{10, 0, 0, 0, 0},
		Success: success,
		Steps:   10,
	}
}

func populatedStore() *Store {
	store := NewStore()
	sink := store.Sink("optimized", 0)
	sink.Record(record(1, false, false))
	sink.Record(record(2, false, true))
	sink.Record(record(3, true, true))
	sink.Publish(types.TableSnapshot{"(forward, green, none, none, none)": {"forward": 1.5, "none": 0}})
	store.Sink("baseline", 0).Record(record(1, false, false))
	return store
}

func get(t *testing.T, s *Server, target string, out interface{}) int {
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	if out != nil && w.Code == http.StatusOK {
		if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
			t.Fatalf("decoding %s: %s", target, err)
		}
	}
	return w.Code
}

func TestStatus(t *testing.T) {
	s := NewServer(context.Background(), "", populatedStore(), nil)
	var out struct {
		Runs []RunStatus `json:"runs"`
	}
	if code := get(t, s, "/status", &out); code != http.StatusOK {
		t.Fatalf("unexpected status %d", code)
	}
	expected := []RunStatus{
		{Experiment: "optimized", Run: 0, Trials: 3, TrainingTrials: 2, TestingTrials: 1, Epsilon: 0.1, States: 1},
		{Experiment: "baseline", Run: 0, Trials: 1, TrainingTrials: 1, Epsilon: 0.1},
	}
	if diff := cmp.Diff(expected, out.Runs); diff != "" {
		t.Errorf("unexpected status (-want +got):\n%s", diff)
	}
}

func TestTrials(t *testing.T) {
	s := NewServer(context.Background(), "", populatedStore(), nil)
	var out struct {
		Trials []types.TrialRecord `json:"trials"`
	}
	if code := get(t, s, "/trials?experiment=optimized&testing=false", &out); code != http.StatusOK {
		t.Fatalf("unexpected status %d", code)
	}
	if len(out.Trials) != 2 || out.Trials[1].Trial != 2 {
		t.Errorf("expected the two training trials, got %+v", out.Trials)
	}
	if code := get(t, s, "/trials?experiment=optimized", &out); code != http.StatusOK || len(out.Trials) != 3 {
		t.Errorf("expected all trials without a phase filter")
	}

	for target, code := range map[string]int{
		"/trials":                                  http.StatusBadRequest,
		"/trials?experiment=optimized&run=x":       http.StatusBadRequest,
		"/trials?experiment=optimized&testing=huh": http.StatusBadRequest,
		"/trials?experiment=missing":               http.StatusNotFound,
	} {
		if got := get(t, s, target, nil); got != code {
			t.Errorf("%s: expected %d, got %d", target, code, got)
		}
	}
}

func TestRatingsAndTable(t *testing.T) {
	s := NewServer(context.Background(), "", populatedStore(), nil)
	var ratings struct {
		Ratings []RunRating `json:"ratings"`
	}
	get(t, s, "/ratings", &ratings)
	if len(ratings.Ratings) != 1 || ratings.Ratings[0].Experiment != "optimized" {
		t.Fatalf("only the tested run should be rated, got %+v", ratings.Ratings)
	}
	if r := ratings.Ratings[0].Rating; r.Safety != types.GradeAPlus || r.Reliability != types.GradeAPlus {
		t.Errorf("unexpected rating %+v", r)
	}

	var table struct {
		Table types.TableSnapshot `json:"table"`
	}
	if code := get(t, s, "/table?experiment=optimized&run=0", &table); code != http.StatusOK {
		t.Fatalf("unexpected status %d", code)
	}
	if table.Table["(forward, green, none, none, none)"]["forward"] != 1.5 {
		t.Errorf("unexpected table %v", table.Table)
	}
	if code := get(t, s, "/table?experiment=baseline", nil); code != http.StatusNotFound {
		t.Errorf("expected not found for a run without table, got %d", code)
	}
}

func TestStoreCopiesRecords(t *testing.T) {
	store := NewStore()
	r := record(1, false, false)
	store.Sink("exp", 1).Record(r)
	r.Success = true
	trials, _ := store.Trials("exp", 1, nil)
	if trials[0].Success {
		t.Errorf("store should keep its own copy of the record")
	}
}
