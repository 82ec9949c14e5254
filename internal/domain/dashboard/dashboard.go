// Package dashboard rolls up record collections into presentation counts.
// Pure grouping and averaging; empty input yields all-zero rollups.
package dashboard

import (
	"math"
	"time"

	"github.com/hrforge/talentd/internal/domain/model"
	"github.com/hrforge/talentd/internal/domain/workflow"
)

// Evaluation score bucket boundaries on the [1,10] scale.
const (
	bucketLow  = 5.0
	bucketMid  = 7.0
	bucketHigh = 8.5
)

// Score bucket labels.
const (
	BucketBelow5 = "<5"
	Bucket5to7   = "5-7"
	Bucket7to85  = "7-8.5"
	BucketTop    = "8.5+"
)

const hoursPerYear = 24 * 365

// EmployeeStats aggregates the employee collection.
type EmployeeStats struct {
	Total          int            `json:"total"`
	ByDepartment   map[string]int `json:"by_department"`
	BySkillLevel   map[string]int `json:"by_skill_level"`
	AvgTenureYears float64        `json:"avg_tenure_years"`
}

// EvaluationStats aggregates approved evaluations.
type EvaluationStats struct {
	Total        int            `json:"total"`
	AvgScore     float64        `json:"avg_score"`
	Distribution map[string]int `json:"distribution"`
}

// EquipmentStats aggregates the equipment collection.
type EquipmentStats struct {
	Total    int            `json:"total"`
	ByStatus map[string]int `json:"by_status"`
}

// TrainingStats aggregates completed and upcoming trainings.
type TrainingStats struct {
	Total      int            `json:"total"`
	ByCategory map[string]int `json:"by_category"`
	AvgScore   float64        `json:"avg_score"`
	Upcoming   int            `json:"upcoming"`
}

// Rollups is the full dashboard payload.
type Rollups struct {
	Employees   EmployeeStats   `json:"employees"`
	Evaluations EvaluationStats `json:"evaluations"`
	Equipment   EquipmentStats  `json:"equipment"`
	Training    TrainingStats   `json:"training"`
}

// Input bundles the record collections a rollup consumes. The aggregator
// only reads; ownership stays with the caller.
type Input struct {
	Employees   []model.Employee
	Evaluations []workflow.Evaluation
	Equipment   []model.Equipment
	Trainings   []model.Training
}

// Aggregate computes all rollups relative to now (used for tenure and for
// splitting upcoming trainings from past ones).
func Aggregate(in Input, now time.Time) Rollups {
	return Rollups{
		Employees:   employeeStats(in.Employees, now),
		Evaluations: evaluationStats(in.Evaluations),
		Equipment:   equipmentStats(in.Equipment),
		Training:    trainingStats(in.Trainings, now),
	}
}

func employeeStats(employees []model.Employee, now time.Time) EmployeeStats {
	stats := EmployeeStats{
		Total:        len(employees),
		ByDepartment: map[string]int{},
		BySkillLevel: map[string]int{},
	}

	totalYears := 0.0
	tenured := 0
	for _, e := range employees {
		stats.ByDepartment[orUndefined(e.Department)]++
		stats.BySkillLevel[orUndefined(string(e.SkillLevel))]++
		if !e.HireDate.IsZero() && e.HireDate.Before(now) {
			totalYears += now.Sub(e.HireDate).Hours() / hoursPerYear
			tenured++
		}
	}
	if tenured > 0 {
		stats.AvgTenureYears = round1(totalYears / float64(tenured))
	}
	return stats
}

// evaluationStats considers approved records only; drafts and rejections do
// not count toward the published averages.
func evaluationStats(evaluations []workflow.Evaluation) EvaluationStats {
	stats := EvaluationStats{
		Distribution: map[string]int{
			BucketBelow5: 0,
			Bucket5to7:   0,
			Bucket7to85:  0,
			BucketTop:    0,
		},
	}

	total := 0.0
	for _, ev := range evaluations {
		if ev.State != workflow.StateApproved {
			continue
		}
		stats.Total++
		total += ev.WeightedAverage
		stats.Distribution[bucketFor(ev.WeightedAverage)]++
	}
	if stats.Total > 0 {
		stats.AvgScore = round1(total / float64(stats.Total))
	}
	return stats
}

func equipmentStats(equipment []model.Equipment) EquipmentStats {
	stats := EquipmentStats{
		Total:    len(equipment),
		ByStatus: map[string]int{},
	}
	for _, eq := range equipment {
		stats.ByStatus[orUndefined(string(eq.Status))]++
	}
	return stats
}

func trainingStats(trainings []model.Training, now time.Time) TrainingStats {
	stats := TrainingStats{
		ByCategory: map[string]int{},
	}

	total := 0.0
	scored := 0
	for _, t := range trainings {
		switch t.Status {
		case model.TrainingCompleted:
			stats.Total++
			stats.ByCategory[orUndefined(t.Category)]++
			if t.Score > 0 {
				total += t.Score
				scored++
			}
		case model.TrainingPlanned:
			if !t.StartDate.Before(now) {
				stats.Upcoming++
			}
		}
	}
	if scored > 0 {
		stats.AvgScore = round1(total / float64(scored))
	}
	return stats
}

func bucketFor(score float64) string {
	switch {
	case score < bucketLow:
		return BucketBelow5
	case score < bucketMid:
		return Bucket5to7
	case score < bucketHigh:
		return Bucket7to85
	default:
		return BucketTop
	}
}

func orUndefined(s string) string {
	if s == "" {
		return "undefined"
	}
	return s
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
