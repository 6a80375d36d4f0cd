package engagement_test

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/semanticallynull/mobility-backend/engagement"
)

func TestLineJSON(t *testing.T) {
	b, err := json.Marshal(engagement.Engagement{Line: engagement.LineAutonomous, Kind: engagement.KindAutonomousRide, ID: "4", Status: "en_route"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"line":"autonomous","kind":"autonomous_ride","id":"4","status":"en_route"}`, string(b))

	var l engagement.Line
	require.NoError(t, json.Unmarshal([]byte(`"Carshare"`), &l))
	assert.Equal(t, engagement.LineCarshare, l)
	assert.Error(t, json.Unmarshal([]byte(`"scooter"`), &l))
}

func TestLinesPrecedence(t *testing.T) {
	assert.Equal(t, []engagement.Line{engagement.LineDriver, engagement.LineAutonomous, engagement.LineCarshare}, engagement.Lines)
}

func TestIntegrityErrorMessage(t *testing.T) {
	err := &engagement.IntegrityError{Entity: "ride_request", EntityID: "9", Missing: "location", MissingID: "3"}
	assert.EqualError(t, err, "ride_request 9 references missing location 3")
	assert.ErrorIs(t, err, engagement.ErrIntegrity)
}
