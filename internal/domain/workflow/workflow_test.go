package workflow_test

import (
	"errors"
	"testing"
	"time"

	"github.com/hrforge/talentd/internal/domain/scoreset"
	"github.com/hrforge/talentd/internal/domain/workflow"
	. "github.com/smartystreets/goconvey/convey"
)

func mustScores(t *testing.T, values map[string]float64) scoreset.ScoreSet {
	t.Helper()
	weights := make(map[string]float64, len(values))
	for name := range values {
		weights[name] = 1.0 / float64(len(values))
	}
	s, err := scoreset.New(values, weights)
	if err != nil {
		t.Fatalf("building score set: %v", err)
	}
	return s
}

func TestEvaluationLifecycle(t *testing.T) {
	Convey("Given a draft evaluation", t, func() {
		scores := mustScores(t, map[string]float64{
			"technical":    8.0,
			"productivity": 7.0,
			"teamwork":     9.0,
			"attendance":   8.0,
		})
		e := workflow.NewEvaluation("eval-1", "emp-1", "2026-Q1", scores)
		now := time.Now().UTC()

		Convey("Then it should start in draft", func() {
			So(e.State, ShouldEqual, workflow.StateDraft)
			So(e.State.Terminal(), ShouldBeFalse)
		})

		Convey("When submitting", func() {
			err := e.Submit(now)

			Convey("Then the weighted average and recommendation should be set", func() {
				So(err, ShouldBeNil)
				So(e.State, ShouldEqual, workflow.StateSubmitted)
				So(e.WeightedAverage, ShouldAlmostEqual, 8.0, 0.0001)
				So(e.Recommendation, ShouldEqual, workflow.RecommendRetain)
				So(e.SubmittedAt, ShouldEqual, now)
			})

			Convey("And submitting again should fail without mutation", func() {
				So(err, ShouldBeNil)
				firstAvg := e.WeightedAverage

				again := e.Submit(now.Add(time.Minute))
				So(errors.Is(again, workflow.ErrInvalidTransition), ShouldBeTrue)
				So(e.WeightedAverage, ShouldEqual, firstAvg)
				So(e.SubmittedAt, ShouldEqual, now)
			})
		})

		Convey("When approving a submitted evaluation", func() {
			So(e.Submit(now), ShouldBeNil)
			decidedAt := now.Add(time.Hour)
			err := e.Approve("manager-1", decidedAt)

			Convey("Then the record should reach the terminal approved state", func() {
				So(err, ShouldBeNil)
				So(e.State, ShouldEqual, workflow.StateApproved)
				So(e.State.Terminal(), ShouldBeTrue)
				So(e.Approver, ShouldEqual, "manager-1")
				So(e.DecidedAt, ShouldEqual, decidedAt)
			})

			Convey("And further transitions should be refused", func() {
				So(err, ShouldBeNil)
				So(errors.Is(e.Approve("manager-2", decidedAt), workflow.ErrInvalidTransition), ShouldBeTrue)
				So(errors.Is(e.Reject("manager-2", "late objection", decidedAt), workflow.ErrInvalidTransition), ShouldBeTrue)
				So(e.Approver, ShouldEqual, "manager-1")
			})
		})

		Convey("When rejecting a submitted evaluation", func() {
			So(e.Submit(now), ShouldBeNil)
			err := e.Reject("manager-1", "insufficient evidence for the teamwork score", now)

			Convey("Then the record should reach the terminal rejected state", func() {
				So(err, ShouldBeNil)
				So(e.State, ShouldEqual, workflow.StateRejected)
				So(e.RejectReason, ShouldEqual, "insufficient evidence for the teamwork score")
			})
		})

		Convey("When rejecting without a reason", func() {
			So(e.Submit(now), ShouldBeNil)
			err := e.Reject("manager-1", "  ", now)

			Convey("Then it should fail with the missing-reason error", func() {
				So(errors.Is(err, workflow.ErrMissingReason), ShouldBeTrue)
				So(e.State, ShouldEqual, workflow.StateSubmitted)
			})
		})

		Convey("When approving without an approver identity", func() {
			So(e.Submit(now), ShouldBeNil)
			err := e.Approve("", now)

			Convey("Then it should fail without mutation", func() {
				So(errors.Is(err, workflow.ErrInvalidTransition), ShouldBeTrue)
				So(e.State, ShouldEqual, workflow.StateSubmitted)
			})
		})

		Convey("When approving straight from draft", func() {
			err := e.Approve("manager-1", now)

			Convey("Then it should be refused", func() {
				So(errors.Is(err, workflow.ErrInvalidTransition), ShouldBeTrue)
				So(e.State, ShouldEqual, workflow.StateDraft)
			})
		})

		Convey("When replacing scores in draft", func() {
			replacement := mustScores(t, map[string]float64{"technical": 5.0, "teamwork": 5.0})
			err := e.SetScores(replacement)

			Convey("Then it should succeed", func() {
				So(err, ShouldBeNil)
				So(e.Scores.Len(), ShouldEqual, 2)
			})
		})

		Convey("When replacing scores after submit", func() {
			So(e.Submit(now), ShouldBeNil)
			replacement := mustScores(t, map[string]float64{"technical": 5.0, "teamwork": 5.0})
			err := e.SetScores(replacement)

			Convey("Then scores should be frozen", func() {
				So(errors.Is(err, workflow.ErrInvalidTransition), ShouldBeTrue)
				So(e.Scores.Len(), ShouldEqual, 4)
			})
		})
	})
}

func TestRecommendationBands(t *testing.T) {
	Convey("Given weighted averages across the scale", t, func() {
		cases := []struct {
			avg  float64
			want workflow.Recommendation
		}{
			{9.2, workflow.RecommendPromote},
			{8.5, workflow.RecommendPromote},
			{8.49, workflow.RecommendRetain},
			{7.0, workflow.RecommendRetain},
			{6.99, workflow.RecommendImprove},
			{5.0, workflow.RecommendImprove},
			{4.99, workflow.RecommendReplace},
			{1.0, workflow.RecommendReplace},
		}

		Convey("Then each average should land in its band", func() {
			for _, c := range cases {
				So(workflow.RecommendationFor(c.avg), ShouldEqual, c.want)
			}
		})
	})
}

func TestStateString(t *testing.T) {
	Convey("Given workflow states", t, func() {
		Convey("Then each should have a stable wire name", func() {
			So(workflow.StateDraft.String(), ShouldEqual, "draft")
			So(workflow.StateSubmitted.String(), ShouldEqual, "submitted")
			So(workflow.StateApproved.String(), ShouldEqual, "approved")
			So(workflow.StateRejected.String(), ShouldEqual, "rejected")
			So(workflow.State(42).String(), ShouldEqual, "unknown")
		})
	})
}
