// Package model contains the value objects the engine consumes. All records
// are owned by the caller; the engine never retains references across calls.
package model

import "time"

// SkillLevel buckets an employee's overall proficiency.
type SkillLevel string

const (
	SkillBasic        SkillLevel = "basic"
	SkillIntermediate SkillLevel = "intermediate"
	SkillAdvanced     SkillLevel = "advanced"
	SkillExpert       SkillLevel = "expert"
)

// Employee is the profile slice the engine needs for dashboards and history.
type Employee struct {
	ID         string
	Name       string
	Department string
	SkillLevel SkillLevel
	HireDate   time.Time
}

// EquipmentStatus is the lifecycle state of an assigned asset.
type EquipmentStatus string

const (
	EquipmentAvailable   EquipmentStatus = "available"
	EquipmentAssigned    EquipmentStatus = "assigned"
	EquipmentMaintenance EquipmentStatus = "maintenance"
	EquipmentReturned    EquipmentStatus = "returned"
	EquipmentRetired     EquipmentStatus = "retired"
)

// Equipment is an asset record as seen by the dashboard rollups.
type Equipment struct {
	ID         string
	Name       string
	EmployeeID string
	Status     EquipmentStatus
}

// TrainingStatus tracks a training session through planning and delivery.
type TrainingStatus string

const (
	TrainingPlanned   TrainingStatus = "planned"
	TrainingOngoing   TrainingStatus = "ongoing"
	TrainingCompleted TrainingStatus = "completed"
	TrainingCancelled TrainingStatus = "cancelled"
)

// Training is a training record. Score is the post-training assessment on
// the [1,10] scale, zero when not assessed.
type Training struct {
	ID         string
	EmployeeID string
	Category   string
	Status     TrainingStatus
	Score      float64
	StartDate  time.Time
}

// CheckinEvent is a progress check-in as received from the intake channel,
// before classification. MessageID carries the idempotency key.
type CheckinEvent struct {
	MessageID  string
	InternID   string
	Message    string
	ReceivedAt time.Time
}

// CheckinRecord is a classified check-in. Sentiment fields are computed once
// per message and immutable thereafter.
type CheckinRecord struct {
	MessageID  string
	InternID   string
	Message    string
	ReceivedAt time.Time

	Sentiment         string
	Confidence        float64
	RequiresAttention bool
	ClassifiedAt      time.Time
}
