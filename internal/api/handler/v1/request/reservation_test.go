package request_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mertdogan/sportspot-api/internal/api/handler/v1/request"
)

func TestParseUpdateReservation(t *testing.T) {
	req, err := request.ParseUpdateReservation([]byte(`{"rating": 5, "feedback": "clean gear"}`))
	require.NoError(t, err)
	require.NotNil(t, req.Rating)
	assert.Equal(t, 5, *req.Rating)
	require.NotNil(t, req.Feedback)
	assert.Equal(t, "clean gear", *req.Feedback)
}

func TestParseUpdateReservationPartial(t *testing.T) {
	req, err := request.ParseUpdateReservation([]byte(`{"feedback": "net was torn"}`))
	require.NoError(t, err)
	assert.Nil(t, req.Rating)
	require.NotNil(t, req.Feedback)
}

func TestParseUpdateReservationRejectsProtectedFields(t *testing.T) {
	bodies := []string{
		`{"status": "completed"}`,
		`{"rating": 5, "price": 1}`,
		`{"slot_id": 2}`,
		`{"unlock_code": "AAAA2222"}`,
	}

	for _, body := range bodies {
		_, err := request.ParseUpdateReservation([]byte(body))
		assert.Error(t, err, "body %s should be rejected", body)
	}
}

func TestParseUpdateReservationMalformed(t *testing.T) {
	_, err := request.ParseUpdateReservation([]byte(`{"rating":`))
	assert.Error(t, err)
}

func TestUpdateReservationRequestValidate(t *testing.T) {
	bad := 9
	req := request.UpdateReservationRequest{Rating: &bad}
	assert.Error(t, req.Validate())

	good := 3
	req = request.UpdateReservationRequest{Rating: &good}
	assert.NoError(t, req.Validate())
}

func TestCreateReservationRequestValidate(t *testing.T) {
	req := request.CreateReservationRequest{StationID: 1, SlotID: 10, DurationMinutes: 60}
	assert.NoError(t, req.Validate())

	req = request.CreateReservationRequest{StationID: 0, SlotID: 10, DurationMinutes: 60}
	assert.Error(t, req.Validate())

	req = request.CreateReservationRequest{StationID: 1, SlotID: 10, DurationMinutes: 0}
	assert.Error(t, req.Validate())
}
