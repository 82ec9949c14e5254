package dashboard_test

import (
	"testing"
	"time"

	"github.com/hrforge/talentd/internal/domain/dashboard"
	"github.com/hrforge/talentd/internal/domain/model"
	"github.com/hrforge/talentd/internal/domain/workflow"
	. "github.com/smartystreets/goconvey/convey"
)

func TestAggregateEmployees(t *testing.T) {
	Convey("Given a rollup clock and an employee collection", t, func() {
		now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

		employees := []model.Employee{
			{ID: "e1", Department: "engineering", SkillLevel: model.SkillAdvanced, HireDate: now.AddDate(-2, 0, 0)},
			{ID: "e2", Department: "engineering", SkillLevel: model.SkillBasic, HireDate: now.AddDate(-4, 0, 0)},
			{ID: "e3", Department: "design", SkillLevel: model.SkillAdvanced, HireDate: now.AddDate(-3, 0, 0)},
			{ID: "e4"},
		}

		Convey("When aggregating", func() {
			rollups := dashboard.Aggregate(dashboard.Input{Employees: employees}, now)
			stats := rollups.Employees

			Convey("Then counts should group by department and skill level", func() {
				So(stats.Total, ShouldEqual, 4)
				So(stats.ByDepartment["engineering"], ShouldEqual, 2)
				So(stats.ByDepartment["design"], ShouldEqual, 1)
				So(stats.ByDepartment["undefined"], ShouldEqual, 1)
				So(stats.BySkillLevel["advanced"], ShouldEqual, 2)
				So(stats.BySkillLevel["basic"], ShouldEqual, 1)
				So(stats.BySkillLevel["undefined"], ShouldEqual, 1)
			})

			Convey("Then tenure should average the dated employees only", func() {
				So(stats.AvgTenureYears, ShouldAlmostEqual, 3.0, 0.1)
			})
		})

		Convey("When the collection is empty", func() {
			rollups := dashboard.Aggregate(dashboard.Input{}, now)

			Convey("Then all rollups should be zero valued", func() {
				So(rollups.Employees.Total, ShouldEqual, 0)
				So(rollups.Employees.AvgTenureYears, ShouldEqual, 0)
				So(rollups.Evaluations.Total, ShouldEqual, 0)
				So(rollups.Equipment.Total, ShouldEqual, 0)
				So(rollups.Training.Total, ShouldEqual, 0)
			})
		})
	})
}

func TestAggregateEvaluations(t *testing.T) {
	Convey("Given an evaluation collection in mixed states", t, func() {
		now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

		evaluations := []workflow.Evaluation{
			{ID: "v1", State: workflow.StateApproved, WeightedAverage: 9.0},
			{ID: "v2", State: workflow.StateApproved, WeightedAverage: 7.5},
			{ID: "v3", State: workflow.StateApproved, WeightedAverage: 6.0},
			{ID: "v4", State: workflow.StateApproved, WeightedAverage: 4.5},
			{ID: "v5", State: workflow.StateSubmitted, WeightedAverage: 9.9},
			{ID: "v6", State: workflow.StateRejected, WeightedAverage: 8.8},
			{ID: "v7", State: workflow.StateDraft},
		}

		Convey("When aggregating", func() {
			stats := dashboard.Aggregate(dashboard.Input{Evaluations: evaluations}, now).Evaluations

			Convey("Then only approved evaluations should count", func() {
				So(stats.Total, ShouldEqual, 4)
				// (9.0 + 7.5 + 6.0 + 4.5) / 4, rounded to one decimal.
				So(stats.AvgScore, ShouldAlmostEqual, 6.8, 0.0001)
			})

			Convey("Then the distribution should bucket by weighted average", func() {
				So(stats.Distribution[dashboard.BucketBelow5], ShouldEqual, 1)
				So(stats.Distribution[dashboard.Bucket5to7], ShouldEqual, 1)
				So(stats.Distribution[dashboard.Bucket7to85], ShouldEqual, 1)
				So(stats.Distribution[dashboard.BucketTop], ShouldEqual, 1)
			})
		})

		Convey("When a score lands exactly on a bucket boundary", func() {
			boundary := []workflow.Evaluation{
				{ID: "b1", State: workflow.StateApproved, WeightedAverage: 5.0},
				{ID: "b2", State: workflow.StateApproved, WeightedAverage: 7.0},
				{ID: "b3", State: workflow.StateApproved, WeightedAverage: 8.5},
			}

			stats := dashboard.Aggregate(dashboard.Input{Evaluations: boundary}, now).Evaluations

			Convey("Then the boundary should belong to the upper bucket", func() {
				So(stats.Distribution[dashboard.BucketBelow5], ShouldEqual, 0)
				So(stats.Distribution[dashboard.Bucket5to7], ShouldEqual, 1)
				So(stats.Distribution[dashboard.Bucket7to85], ShouldEqual, 1)
				So(stats.Distribution[dashboard.BucketTop], ShouldEqual, 1)
			})
		})
	})
}

func TestAggregateEquipmentAndTraining(t *testing.T) {
	Convey("Given equipment and training collections", t, func() {
		now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

		equipment := []model.Equipment{
			{ID: "q1", Status: model.EquipmentAssigned},
			{ID: "q2", Status: model.EquipmentAssigned},
			{ID: "q3", Status: model.EquipmentMaintenance},
			{ID: "q4"},
		}

		trainings := []model.Training{
			{ID: "t1", Category: "security", Status: model.TrainingCompleted, Score: 8.0},
			{ID: "t2", Category: "security", Status: model.TrainingCompleted, Score: 6.0},
			{ID: "t3", Category: "leadership", Status: model.TrainingCompleted},
			{ID: "t4", Category: "security", Status: model.TrainingPlanned, StartDate: now.AddDate(0, 1, 0)},
			{ID: "t5", Category: "security", Status: model.TrainingPlanned, StartDate: now.AddDate(0, -1, 0)},
			{ID: "t6", Category: "security", Status: model.TrainingCancelled},
		}

		Convey("When aggregating", func() {
			rollups := dashboard.Aggregate(dashboard.Input{Equipment: equipment, Trainings: trainings}, now)

			Convey("Then equipment should group by status", func() {
				So(rollups.Equipment.Total, ShouldEqual, 4)
				So(rollups.Equipment.ByStatus["assigned"], ShouldEqual, 2)
				So(rollups.Equipment.ByStatus["maintenance"], ShouldEqual, 1)
				So(rollups.Equipment.ByStatus["undefined"], ShouldEqual, 1)
			})

			Convey("Then training totals should cover completed sessions only", func() {
				So(rollups.Training.Total, ShouldEqual, 3)
				So(rollups.Training.ByCategory["security"], ShouldEqual, 2)
				So(rollups.Training.ByCategory["leadership"], ShouldEqual, 1)
			})

			Convey("Then the training average should skip unassessed sessions", func() {
				So(rollups.Training.AvgScore, ShouldAlmostEqual, 7.0, 0.0001)
			})

			Convey("Then only future planned sessions should count as upcoming", func() {
				So(rollups.Training.Upcoming, ShouldEqual, 1)
			})
		})
	})
}
