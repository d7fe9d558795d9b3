package amqp

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"bookkeeping/internal/core"
)

// EventOp is the kind of change a RecordEvent reports.
type EventOp string

const (
	OpCreated EventOp = "created"
	OpUpdated EventOp = "updated"
	OpDeleted EventOp = "deleted"
)

// RecordEvent announces a successful change to a record. Deletes carry no
// Record payload.
type RecordEvent struct {
	Op        EventOp      `json:"op"`
	RecordID  int64        `json:"recordId"`
	UserID    int64        `json:"userId"`
	Record    *core.Record `json:"record,omitempty"`
	Timestamp time.Time    `json:"timestamp"`
}

// NewRecordEvent builds an event for a created or updated record.
func NewRecordEvent(op EventOp, r core.Record) RecordEvent {
	return RecordEvent{
		Op:        op,
		RecordID:  r.ID,
		UserID:    r.UserID,
		Record:    &r,
		Timestamp: time.Now().UTC(),
	}
}

// NewDeleteEvent builds an event for a removed record.
func NewDeleteEvent(recordID, userID int64) RecordEvent {
	return RecordEvent{
		Op:        OpDeleted,
		RecordID:  recordID,
		UserID:    userID,
		Timestamp: time.Now().UTC(),
	}
}

// Validate checks the fields a consumer relies on.
func (e RecordEvent) Validate() error {
	switch e.Op {
	case OpCreated, OpUpdated:
		if e.Record == nil {
			return fmt.Errorf("%s event without record", e.Op)
		}
	case OpDeleted:
	default:
		return fmt.Errorf("unknown event op %q", e.Op)
	}
	if e.RecordID <= 0 {
		return errors.New("event without record id")
	}
	return nil
}

// ToJSON encodes the event.
func (e RecordEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// RecordEventFromJSON decodes and validates an event.
func RecordEventFromJSON(data []byte) (RecordEvent, error) {
	var e RecordEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return RecordEvent{}, err
	}
	if err := e.Validate(); err != nil {
		return RecordEvent{}, err
	}
	return e, nil
}
