package dto

import (
	"github.com/google/uuid"
)

type CreateSwapRequest struct {
	RequesterSlotID uuid.UUID `json:"requester_slot_id"`
	ResponderSlotID uuid.UUID `json:"responder_slot_id"`
}

type RespondSwapRequest struct {
	Accept bool `json:"accept"`
}
