package engagement

import (
	"database/sql"
	"strconv"
	"strings"
	"time"

	"github.com/semanticallynull/mobility-backend/autonomous"
	"github.com/semanticallynull/mobility-backend/carshare"
	"github.com/semanticallynull/mobility-backend/internal/status"
	"github.com/semanticallynull/mobility-backend/trip"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentOther     PaymentStatus = "other"
)

// NormalizePaymentStatus folds the payment vocabularies of the three lines
// into pending, completed or other.
func NormalizePaymentStatus(raw string) PaymentStatus {
	switch status.Normalize(raw) {
	case "pending", "processing", "unpaid", "awaiting", "awaiting_payment", "requires_payment":
		return PaymentPending
	case "completed", "paid", "succeeded", "settled":
		return PaymentCompleted
	}
	return PaymentOther
}

// Record is one past or present engagement in the unified history.
type Record struct {
	Line          Line          `json:"line"`
	ID            string        `json:"id"`
	RequestedAt   *time.Time    `json:"requestedAt"`
	StartedAt     *time.Time    `json:"startedAt"`
	EndedAt       *time.Time    `json:"endedAt"`
	Status        string        `json:"status"`
	Counterparty  string        `json:"counterparty"`
	Amount        *int64        `json:"amount"`
	PaymentStatus PaymentStatus `json:"paymentStatus"`
}

func fromTrip(t trip.Trip) Record {
	return Record{
		Line:          LineDriver,
		ID:            strconv.FormatInt(t.ID, 10),
		RequestedAt:   nullTime(t.RequestedAt),
		StartedAt:     nullTime(t.StartedAt),
		EndedAt:       nullTime(t.EndedAt),
		Status:        status.Normalize(t.Status),
		Counterparty:  strings.TrimSpace(t.DriverName),
		Amount:        nullInt(t.FareCents),
		PaymentStatus: NormalizePaymentStatus(t.PaymentStatus),
	}
}

func fromAutonomous(r autonomous.Ride) Record {
	return Record{
		Line:          LineAutonomous,
		ID:            strconv.FormatInt(r.ID, 10),
		RequestedAt:   nullTime(r.RequestedAt),
		StartedAt:     nullTime(r.StartedAt),
		EndedAt:       nullTime(r.EndedAt),
		Status:        status.Normalize(r.Status),
		Counterparty:  strings.TrimSpace(r.Vehicle),
		Amount:        nullInt(r.FareCents),
		PaymentStatus: NormalizePaymentStatus(r.PaymentStatus),
	}
}

// fromRental uses the rental's creation as its request time; a rental has
// no separate request step.
func fromRental(r carshare.Rental) Record {
	requested := r.CreatedAt
	started := r.StartedAt
	counterparty := r.VehicleLabel
	if r.VehicleName.Valid && strings.TrimSpace(r.VehicleName.String) != "" {
		counterparty = strings.TrimSpace(r.VehicleName.String)
	}
	return Record{
		Line:          LineCarshare,
		ID:            r.ID.String(),
		RequestedAt:   &requested,
		StartedAt:     &started,
		EndedAt:       nullTime(r.EndedAt),
		Status:        r.Status(),
		Counterparty:  counterparty,
		Amount:        nullInt(r.TotalCents),
		PaymentStatus: NormalizePaymentStatus(r.PaymentStatus),
	}
}

func nullTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

func nullInt(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}
