package request

import (
	"encoding/json"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation"
)

type CreateReservationRequest struct {
	StationID       uint `json:"station_id" binding:"required"`
	SlotID          uint `json:"slot_id" binding:"required"`
	DurationMinutes int  `json:"duration_minutes" binding:"required"`
}

func (req *CreateReservationRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.StationID, validation.Required, validation.Min(uint(1))),
		validation.Field(&req.SlotID, validation.Required, validation.Min(uint(1))),
		validation.Field(&req.DurationMinutes, validation.Required, validation.Min(1)),
	)
}

type StartReservationRequest struct {
	UnlockCode string `json:"unlock_code" binding:"required"`
}

func (req *StartReservationRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.UnlockCode, validation.Required, validation.Length(4, 16)),
	)
}

type UpdateReservationRequest struct {
	Rating   *int    `json:"rating"`
	Feedback *string `json:"feedback"`
}

// updatableReservationFields is the whitelist for the generic patch path.
// Everything else, in particular status, price and slot_id, must go through
// the dedicated transition endpoints.
var updatableReservationFields = map[string]bool{
	"rating":   true,
	"feedback": true,
}

// ParseUpdateReservation decodes the patch body and rejects any field
// outside the whitelist instead of silently ignoring it.
func ParseUpdateReservation(body []byte) (UpdateReservationRequest, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return UpdateReservationRequest{}, fmt.Errorf("malformed JSON body: %w", err)
	}

	for field := range raw {
		if !updatableReservationFields[field] {
			return UpdateReservationRequest{}, fmt.Errorf("field %q cannot be updated through this endpoint", field)
		}
	}

	var req UpdateReservationRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return UpdateReservationRequest{}, fmt.Errorf("malformed JSON body: %w", err)
	}

	return req, nil
}

func (req *UpdateReservationRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Rating, validation.Min(1), validation.Max(5)),
		validation.Field(&req.Feedback, validation.Length(0, 500)),
	)
}
