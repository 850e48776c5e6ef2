package entity

import (
	"time"

	"github.com/google/uuid"
)

// SwapStatus is the lifecycle state of a swap request. PENDING is the only
// non-terminal state; once a request is ACCEPTED or REJECTED it never
// changes again.
type SwapStatus string

const (
	SwapPending  SwapStatus = "PENDING"
	SwapAccepted SwapStatus = "ACCEPTED"
	SwapRejected SwapStatus = "REJECTED"
)

func (s SwapStatus) Terminal() bool {
	return s == SwapAccepted || s == SwapRejected
}

// SwapRequest is one proposed exchange of two slots between two users.
// Everything except status is immutable after insert.
type SwapRequest struct {
	ID              uuid.UUID  `db:"id" json:"id"`
	RequesterID     uuid.UUID  `db:"requester_id" json:"requester_id"`
	ResponderID     uuid.UUID  `db:"responder_id" json:"responder_id"`
	RequesterSlotID uuid.UUID  `db:"requester_slot_id" json:"requester_slot_id"`
	ResponderSlotID uuid.UUID  `db:"responder_slot_id" json:"responder_slot_id"`
	Status          SwapStatus `db:"status" json:"status"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updated_at"`
}

// SwapRequestDetail enriches a request with both parties' names and both
// slots' title/times, as shown in the incoming/outgoing listings.
type SwapRequestDetail struct {
	SwapRequest
	RequesterName      string    `db:"requester_name" json:"requester_name"`
	ResponderName      string    `db:"responder_name" json:"responder_name"`
	RequesterSlotTitle string    `db:"requester_slot_title" json:"requester_slot_title"`
	RequesterSlotStart time.Time `db:"requester_slot_start" json:"requester_slot_start"`
	RequesterSlotEnd   time.Time `db:"requester_slot_end" json:"requester_slot_end"`
	ResponderSlotTitle string    `db:"responder_slot_title" json:"responder_slot_title"`
	ResponderSlotStart time.Time `db:"responder_slot_start" json:"responder_slot_start"`
	ResponderSlotEnd   time.Time `db:"responder_slot_end" json:"responder_slot_end"`
}
