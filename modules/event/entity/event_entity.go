package entity

import (
	"time"

	"github.com/google/uuid"
)

// EventStatus is the visibility/ownership state of a slot.
type EventStatus string

const (
	StatusBusy        EventStatus = "BUSY"
	StatusSwappable   EventStatus = "SWAPPABLE"
	StatusSwapPending EventStatus = "SWAP_PENDING"
)

func (s EventStatus) Valid() bool {
	switch s {
	case StatusBusy, StatusSwappable, StatusSwapPending:
		return true
	}
	return false
}

// ownerTransitions is the central transition table for owner-driven status
// changes. Moves in or out of SWAP_PENDING belong to the negotiation engine
// exclusively and are therefore absent here.
var ownerTransitions = map[EventStatus]map[EventStatus]bool{
	StatusBusy:      {StatusBusy: true, StatusSwappable: true},
	StatusSwappable: {StatusSwappable: true, StatusBusy: true},
}

// CanOwnerTransition reports whether a slot owner may move an event from one
// status to another.
func CanOwnerTransition(from, to EventStatus) bool {
	return ownerTransitions[from][to]
}

// Event represents one user's time slot.
type Event struct {
	ID        uuid.UUID   `db:"id" json:"id"`
	OwnerID   uuid.UUID   `db:"owner_id" json:"owner_id"`
	Title     string      `db:"title" json:"title"`
	StartTime time.Time   `db:"start_time" json:"start_time"`
	EndTime   time.Time   `db:"end_time" json:"end_time"`
	Status    EventStatus `db:"status" json:"status"`
	CreatedAt time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt time.Time   `db:"updated_at" json:"updated_at"`
}

// MarketplaceSlot is a swappable event annotated with its owner's public
// identity, as projected for other users.
type MarketplaceSlot struct {
	Event
	OwnerName string `db:"owner_name" json:"owner_name"`
	OwnerSlug string `db:"owner_slug" json:"owner_slug"`
}
