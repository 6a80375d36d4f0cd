// Package engagement decides which service line, if any, a rider is
// currently engaged with, follows a ride request until a driver is
// assigned, and folds the per-line histories into one time-ordered view.
//
// It never mutates line entities except through admission, which checks for
// an active engagement and inserts the new request in one rider-locked
// transaction.
package engagement

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// PollInterval is the minimum spacing between poll-status calls a client
// should use. Worst-case assignment notification latency is one interval.
const PollInterval = 5 * time.Second

// ActiveRideMessage is shown both when the banner reports an active ride and
// when admission is refused, so the two paths read the same.
const ActiveRideMessage = "You already have an active ride."

var (
	ErrNotFound          = errors.New("not found")
	ErrForbidden         = errors.New("forbidden")
	ErrIntegrity         = errors.New("integrity fault")
	ErrAdmissionConflict = errors.New("rider already has an active engagement")
	ErrInvalidRequest    = errors.New("invalid request")
)

// IntegrityError reports an entity referencing another that does not exist.
// It matches ErrIntegrity with errors.Is.
type IntegrityError struct {
	Entity    string
	EntityID  string
	Missing   string
	MissingID string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("%s %s references missing %s %s", e.Entity, e.EntityID, e.Missing, e.MissingID)
}

func (e *IntegrityError) Is(target error) bool {
	return target == ErrIntegrity
}

// Line is one of the three service lines.
type Line int

const (
	LineDriver Line = iota + 1
	LineAutonomous
	LineCarshare
)

// Lines in arbitration precedence order.
var Lines = []Line{LineDriver, LineAutonomous, LineCarshare}

func (l Line) String() string {
	switch l {
	case LineDriver:
		return "driver"
	case LineAutonomous:
		return "autonomous"
	case LineCarshare:
		return "carshare"
	}
	return "unknown"
}

func (l Line) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.String())
}

func (l *Line) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, ok := ParseLine(s)
	if !ok {
		return fmt.Errorf("unknown line %q", s)
	}
	*l = parsed
	return nil
}

func ParseLine(s string) (Line, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "driver":
		return LineDriver, true
	case "autonomous":
		return LineAutonomous, true
	case "carshare":
		return LineCarshare, true
	}
	return 0, false
}

// Kind names the entity behind an engagement. The driver line is engaged
// either by a trip or by a ride request still waiting for one; carshare by
// a rental or a booking.
type Kind string

const (
	KindTrip           Kind = "trip"
	KindRideRequest    Kind = "ride_request"
	KindAutonomousRide Kind = "autonomous_ride"
	KindRental         Kind = "rental"
	KindBooking        Kind = "booking"
)

// Engagement is the arbiter's verdict for a rider with something open.
type Engagement struct {
	Line   Line   `json:"line"`
	Kind   Kind   `json:"kind"`
	ID     string `json:"id"`
	Status string `json:"status"`
}

// Phase is what a poller sees for a ride request.
type Phase string

const (
	PhasePending   Phase = "pending"
	PhaseAssigned  Phase = "assigned"
	PhaseCancelled Phase = "cancelled"
)

// Terminal reports whether a poller should stop on this phase.
func (p Phase) Terminal() bool {
	return p == PhaseAssigned || p == PhaseCancelled
}

type Resolution struct {
	Phase  Phase  `json:"phase"`
	TripID *int64 `json:"tripId,omitempty"`
	// Status is the request's own status field, normalized.
	Status string `json:"status"`
}
