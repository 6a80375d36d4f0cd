package events

import (
	"context"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventJSON(t *testing.T) {
	e := Event{
		Type:       TypeRideRequestAdmitted,
		RiderID:    "auth0|r1",
		Line:       "driver",
		RecordID:   "17",
		OccurredAt: time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC),
	}
	b, err := json.Marshal(e)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"type": "ride_request.admitted",
		"riderId": "auth0|r1",
		"line": "driver",
		"recordId": "17",
		"occurredAt": "2026-02-01T10:00:00Z"
	}`, string(b))
}

func TestRecorder(t *testing.T) {
	var r Recorder
	require.NoError(t, r.Publish(context.Background(), Event{Type: TypeAutonomousRideAdmitted}))
	assert.Len(t, r.Events, 1)

	r.Err = assert.AnError
	assert.ErrorIs(t, r.Publish(context.Background(), Event{}), assert.AnError)
	assert.Len(t, r.Events, 1)
}

func TestKafkaPublisherClosesWithoutWrites(t *testing.T) {
	p := NewKafkaPublisher([]string{"localhost:9092"}, "rider-engagements")
	assert.NoError(t, p.Close())
}
