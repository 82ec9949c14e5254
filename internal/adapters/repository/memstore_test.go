package repository_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/hrforge/talentd/internal/adapters/repository"
	"github.com/hrforge/talentd/internal/domain/model"
	"github.com/hrforge/talentd/internal/domain/workflow"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMemEvaluationStore(t *testing.T) {
	Convey("Given an in-memory evaluation store", t, func() {
		store := repository.NewMemEvaluationStore()
		ctx := context.Background()

		Convey("When creating a record without an ID", func() {
			created, err := store.Create(ctx, workflow.Evaluation{EmployeeID: "emp-1", Period: "2026-Q2"})

			Convey("Then an ID should be assigned and the record retrievable", func() {
				So(err, ShouldBeNil)
				So(created.ID, ShouldNotBeBlank)

				got, err := store.Get(ctx, created.ID)
				So(err, ShouldBeNil)
				So(got.EmployeeID, ShouldEqual, "emp-1")
				So(store.Count(ctx), ShouldEqual, 1)
			})
		})

		Convey("When creating a record with a caller-chosen ID", func() {
			created, err := store.Create(ctx, workflow.Evaluation{ID: "eval-1", EmployeeID: "emp-1"})

			Convey("Then the ID should be kept", func() {
				So(err, ShouldBeNil)
				So(created.ID, ShouldEqual, "eval-1")
			})

			Convey("And a second create with the same ID should be refused", func() {
				So(err, ShouldBeNil)
				_, err := store.Create(ctx, workflow.Evaluation{ID: "eval-1"})
				So(errors.Is(err, repository.ErrAlreadyExists), ShouldBeTrue)
			})
		})

		Convey("When a custom ID generator is configured", func() {
			var n int
			seq := repository.NewMemEvaluationStore(repository.WithIDGenerator(func() string {
				n++
				return fmt.Sprintf("eval-%d", n)
			}))

			first, err1 := seq.Create(ctx, workflow.Evaluation{})
			second, err2 := seq.Create(ctx, workflow.Evaluation{})

			Convey("Then IDs should come from the generator", func() {
				So(err1, ShouldBeNil)
				So(first.ID, ShouldEqual, "eval-1")
				So(err2, ShouldBeNil)
				So(second.ID, ShouldEqual, "eval-2")
			})
		})

		Convey("When getting an unknown ID", func() {
			_, err := store.Get(ctx, "missing")

			Convey("Then it should report not found", func() {
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When updating a record", func() {
			created, err := store.Create(ctx, workflow.Evaluation{EmployeeID: "emp-1"})
			So(err, ShouldBeNil)

			Convey("And the mutation succeeds", func() {
				updated, err := store.Update(ctx, created.ID, func(ev *workflow.Evaluation) error {
					ev.Period = "2026-Q3"
					return nil
				})

				Convey("Then the committed state should carry the change", func() {
					So(err, ShouldBeNil)
					So(updated.Period, ShouldEqual, "2026-Q3")

					got, err := store.Get(ctx, created.ID)
					So(err, ShouldBeNil)
					So(got.Period, ShouldEqual, "2026-Q3")
				})
			})

			Convey("And the mutation fails", func() {
				boom := errors.New("transition refused")
				_, err := store.Update(ctx, created.ID, func(ev *workflow.Evaluation) error {
					ev.Period = "should-not-commit"
					return boom
				})

				Convey("Then the record should be left untouched", func() {
					So(errors.Is(err, boom), ShouldBeTrue)

					got, getErr := store.Get(ctx, created.ID)
					So(getErr, ShouldBeNil)
					So(got.Period, ShouldBeBlank)
				})
			})

			Convey("And the ID is unknown", func() {
				_, err := store.Update(ctx, "missing", func(*workflow.Evaluation) error { return nil })
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When many goroutines update the same record", func() {
			created, err := store.Create(ctx, workflow.Evaluation{})
			So(err, ShouldBeNil)

			const updates = 100
			var wg sync.WaitGroup
			for i := 0; i < updates; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					_, _ = store.Update(ctx, created.ID, func(ev *workflow.Evaluation) error {
						ev.WeightedAverage++
						return nil
					})
				}()
			}
			wg.Wait()

			Convey("Then every update should be serialized", func() {
				got, err := store.Get(ctx, created.ID)
				So(err, ShouldBeNil)
				So(got.WeightedAverage, ShouldEqual, float64(updates))
			})
		})

		Convey("When listing", func() {
			for i := 0; i < 3; i++ {
				_, err := store.Create(ctx, workflow.Evaluation{ID: fmt.Sprintf("eval-%d", i)})
				So(err, ShouldBeNil)
			}

			Convey("Then the snapshot should hold every record", func() {
				So(store.List(ctx), ShouldHaveLength, 3)
				So(store.Count(ctx), ShouldEqual, 3)
			})
		})
	})
}

func TestMemCheckinStore(t *testing.T) {
	Convey("Given an in-memory check-in store", t, func() {
		store := repository.NewMemCheckinStore()
		ctx := context.Background()

		record := model.CheckinRecord{
			MessageID:  "msg-1",
			InternID:   "intern-1",
			Message:    "made great progress this week",
			Sentiment:  "positive",
			Confidence: 0.9,
		}

		Convey("When storing a classified check-in", func() {
			err := store.Put(ctx, record)

			Convey("Then it should be retrievable by message ID", func() {
				So(err, ShouldBeNil)

				got, err := store.Get(ctx, "msg-1")
				So(err, ShouldBeNil)
				So(got.Sentiment, ShouldEqual, "positive")
				So(got.ClassifiedAt.IsZero(), ShouldBeFalse)
				So(store.Count(ctx), ShouldEqual, 1)
			})
		})

		Convey("When storing with an explicit classification time", func() {
			ts := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
			stamped := record
			stamped.ClassifiedAt = ts

			err := store.Put(ctx, stamped)

			Convey("Then the caller's timestamp should be kept", func() {
				So(err, ShouldBeNil)

				got, err := store.Get(ctx, "msg-1")
				So(err, ShouldBeNil)
				So(got.ClassifiedAt.Equal(ts), ShouldBeTrue)
			})
		})

		Convey("When a replay arrives for an already classified message", func() {
			So(store.Put(ctx, record), ShouldBeNil)

			replay := record
			replay.Sentiment = "negative"
			err := store.Put(ctx, replay)

			Convey("Then the first classification should win", func() {
				So(err, ShouldBeNil)

				got, getErr := store.Get(ctx, "msg-1")
				So(getErr, ShouldBeNil)
				So(got.Sentiment, ShouldEqual, "positive")
				So(store.Count(ctx), ShouldEqual, 1)
			})
		})

		Convey("When the message ID is blank", func() {
			err := store.Put(ctx, model.CheckinRecord{})

			Convey("Then the record should be rejected", func() {
				So(errors.Is(err, repository.ErrInvalidRecord), ShouldBeTrue)
			})
		})

		Convey("When the message is unknown", func() {
			_, err := store.Get(ctx, "still-queued")

			Convey("Then it should report not found", func() {
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When many goroutines store distinct check-ins", func() {
			const n = 50
			var wg sync.WaitGroup
			for i := 0; i < n; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					rec := record
					rec.MessageID = fmt.Sprintf("msg-%d", i)
					_ = store.Put(ctx, rec)
				}(i)
			}
			wg.Wait()

			Convey("Then every record should be stored", func() {
				So(store.Count(ctx), ShouldEqual, n)
				So(store.List(ctx), ShouldHaveLength, n)
			})
		})
	})
}

func TestMemDirectoryStore(t *testing.T) {
	Convey("Given an in-memory directory store", t, func() {
		store := repository.NewMemDirectoryStore()
		ctx := context.Background()

		Convey("When upserting an employee", func() {
			created, err := store.UpsertEmployee(ctx, model.Employee{
				Name:       "Dana Reeve",
				Department: "engineering",
				SkillLevel: model.SkillAdvanced,
			})

			Convey("Then an ID should be assigned", func() {
				So(err, ShouldBeNil)
				So(created.ID, ShouldNotBeBlank)
				So(store.Employees(ctx), ShouldHaveLength, 1)
			})

			Convey("And upserting the same ID should replace the record", func() {
				So(err, ShouldBeNil)

				created.Department = "platform"
				updated, err := store.UpsertEmployee(ctx, created)
				So(err, ShouldBeNil)
				So(updated.ID, ShouldEqual, created.ID)

				employees := store.Employees(ctx)
				So(employees, ShouldHaveLength, 1)
				So(employees[0].Department, ShouldEqual, "platform")
			})
		})

		Convey("When upserting an employee without a name", func() {
			_, err := store.UpsertEmployee(ctx, model.Employee{Department: "engineering"})

			Convey("Then it should be rejected", func() {
				So(errors.Is(err, repository.ErrInvalidRecord), ShouldBeTrue)
			})
		})

		Convey("When upserting equipment", func() {
			created, err := store.UpsertEquipment(ctx, model.Equipment{
				Name:   "MacBook Pro 16",
				Status: model.EquipmentAssigned,
			})

			Convey("Then the record should be listed", func() {
				So(err, ShouldBeNil)
				So(created.ID, ShouldNotBeBlank)
				So(store.Equipment(ctx), ShouldHaveLength, 1)
			})

			Convey("And a nameless record should be rejected", func() {
				So(err, ShouldBeNil)
				_, err := store.UpsertEquipment(ctx, model.Equipment{Status: model.EquipmentAvailable})
				So(errors.Is(err, repository.ErrInvalidRecord), ShouldBeTrue)
			})
		})

		Convey("When upserting a training", func() {
			created, err := store.UpsertTraining(ctx, model.Training{
				Category: "security",
				Status:   model.TrainingCompleted,
				Score:    8.5,
			})

			Convey("Then the record should be listed", func() {
				So(err, ShouldBeNil)
				So(created.ID, ShouldNotBeBlank)
				So(store.Trainings(ctx), ShouldHaveLength, 1)
			})

			Convey("And a record without a category should be rejected", func() {
				So(err, ShouldBeNil)
				_, err := store.UpsertTraining(ctx, model.Training{Status: model.TrainingPlanned})
				So(errors.Is(err, repository.ErrInvalidRecord), ShouldBeTrue)
			})
		})
	})
}
