package types

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// TrialRecord summarizes a finished trial
type TrialRecord struct {
	Trial           int                      `json:"trial"`
	Testing         bool                     `json:"testing"`
	Epsilon         float64                  `json:"epsilon"`
	Alpha           float64                  `json:"alpha"`
	InitialDeadline int                      `json:"initial_deadline"`
	FinalDeadline   int                      `json:"final_deadline"`
	NetReward       float64                  `json:"net_reward"`
	Actions         [NumViolationClasses]int `json:"actions"`
	Success         bool                     `json:"success"`
	Steps           int                      `json:"steps"`
}

// TotalActions taken during the trial
func (r *TrialRecord) TotalActions() int {
	total := 0
	for _, c := range r.Actions {
		total += c
	}
	return total
}

// BadActions counts every action that resulted in a violation or an accident
func (r *TrialRecord) BadActions() int {
	return r.TotalActions() - r.Actions[NoViolation]
}

// AverageReward per action, 0 for empty trials
func (r *TrialRecord) AverageReward() float64 {
	total := r.TotalActions()
	if total == 0 {
		return 0
	}
	return r.NetReward / float64(total)
}

// Grade of a rating, from best to worst
type Grade string

const (
	GradeAPlus Grade = "A+"
	GradeA     Grade = "A"
	GradeB     Grade = "B"
	GradeC     Grade = "C"
	GradeD     Grade = "D"
	GradeF     Grade = "F"
)

// Rating of the learned policy computed over the testing trials
type Rating struct {
	Safety      Grade   `json:"safety"`
	Reliability Grade   `json:"reliability"`
	SuccessRate float64 `json:"success_rate"`
	GoodRatio   float64 `json:"good_ratio"`
	Trials      int     `json:"trials"`
}

// Ratings grades safety and reliability over the testing trials in records.
// Returns false when there is no testing trial to rate
func Ratings(records []*TrialRecord) (Rating, bool) {
	testing := make([]*TrialRecord, 0)
	for _, r := range records {
		if r.Testing {
			testing = append(testing, r)
		}
	}
	if len(testing) == 0 {
		return Rating{}, false
	}

	successes := make([]float64, len(testing))
	var counts [NumViolationClasses]float64
	for i, r := range testing {
		if r.Success {
			successes[i] = 1
		}
		for class, c := range r.Actions {
			counts[class] += float64(c)
		}
	}
	successRate := stat.Mean(successes, nil)
	total := floats.Sum(counts[:])
	goodRatio := 1.0
	if total > 0 {
		goodRatio = counts[NoViolation] / total
	}

	return Rating{
		Safety:      safetyGrade(goodRatio, counts, len(testing)),
		Reliability: reliabilityGrade(successRate),
		SuccessRate: successRate,
		GoodRatio:   goodRatio,
		Trials:      len(testing),
	}, true
}

func safetyGrade(goodRatio float64, counts [NumViolationClasses]float64, trials int) Grade {
	switch {
	case goodRatio == 1:
		return GradeAPlus
	case counts[MajorAccident] > 0:
		return GradeF
	case counts[MinorAccident] > 0:
		return GradeD
	case counts[MajorViolation] > 0:
		return GradeC
	case counts[MinorViolation] >= float64(trials)/2:
		return GradeB
	}
	return GradeA
}

func reliabilityGrade(successRate float64) Grade {
	switch {
	case successRate == 1:
		return GradeAPlus
	case successRate >= 0.9:
		return GradeA
	case successRate >= 0.8:
		return GradeB
	case successRate >= 0.7:
		return GradeC
	case successRate >= 0.6:
		return GradeD
	}
	return GradeF
}
