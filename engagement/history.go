package engagement

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"go.opentelemetry.io/otel/attribute"
)

type Filter string

const (
	FilterAll        Filter = "all"
	FilterDriver     Filter = "driver"
	FilterAutonomous Filter = "autonomous"
	FilterCarshare   Filter = "carshare"
)

// ParseFilter maps a query value to a Filter. Anything unrecognised,
// including the empty string, means FilterAll.
func ParseFilter(s string) Filter {
	switch f := Filter(strings.ToLower(strings.TrimSpace(s))); f {
	case FilterDriver, FilterAutonomous, FilterCarshare:
		return f
	}
	return FilterAll
}

func (f Filter) Includes(l Line) bool {
	if f == FilterAll {
		return true
	}
	return string(f) == l.String()
}

// Counts are per-line record totals taken before the filter is applied, so
// a client can label its filter tabs.
type Counts struct {
	Driver     int `json:"driver"`
	Autonomous int `json:"autonomous"`
	Carshare   int `json:"carshare"`
	Total      int `json:"total"`
}

func (c *Counts) add(l Line) {
	switch l {
	case LineDriver:
		c.Driver++
	case LineAutonomous:
		c.Autonomous++
	case LineCarshare:
		c.Carshare++
	}
	c.Total++
}

type History struct {
	Records []Record `json:"records"`
	Counts  Counts   `json:"counts"`
	Filter  Filter   `json:"filter"`
}

// ListHistory merges the rider's trips, autonomous rides and carshare
// rentals into one sequence, newest request first. Records without a
// request time sort after every timestamped record, keeping their relative
// load order.
func (s *Service) ListHistory(ctx context.Context, riderID string, filter Filter) (History, error) {
	ctx, span := tracer.Start(ctx, "engagement.ListHistory")
	defer span.End()
	span.SetAttributes(attribute.String("history.filter", string(filter)))

	if riderID == "" {
		return History{}, ErrInvalidRequest
	}

	records, err := s.loadRecords(ctx, riderID)
	if err != nil {
		span.RecordError(err)
		return History{}, err
	}

	slices.SortStableFunc(records, compareRequested)

	h := History{Records: make([]Record, 0, len(records)), Filter: filter}
	for _, r := range records {
		h.Counts.add(r.Line)
		if filter.Includes(r.Line) {
			h.Records = append(h.Records, r)
		}
	}
	span.SetAttributes(attribute.Int("history.total", h.Counts.Total))
	return h, nil
}

func (s *Service) loadRecords(ctx context.Context, riderID string) ([]Record, error) {
	trips, err := s.store.TripsByRider(ctx, riderID)
	if err != nil {
		return nil, fmt.Errorf("list trips: %w", err)
	}
	rides, err := s.store.AutonomousRidesByRider(ctx, riderID)
	if err != nil {
		return nil, fmt.Errorf("list autonomous rides: %w", err)
	}

	records := make([]Record, 0, len(trips)+len(rides))
	for _, t := range trips {
		records = append(records, fromTrip(t))
	}
	for _, r := range rides {
		records = append(records, fromAutonomous(r))
	}

	cust, err := s.store.CarshareCustomer(ctx, riderID)
	if err != nil {
		return nil, fmt.Errorf("carshare customer: %w", err)
	}
	if cust == nil {
		return records, nil
	}
	rentals, err := s.store.RentalsByCustomer(ctx, cust.ID)
	if err != nil {
		return nil, fmt.Errorf("list rentals: %w", err)
	}
	for _, r := range rentals {
		records = append(records, fromRental(r))
	}
	return records, nil
}

// compareRequested orders by RequestedAt descending with nil last.
func compareRequested(a, b Record) int {
	switch {
	case a.RequestedAt == nil && b.RequestedAt == nil:
		return 0
	case a.RequestedAt == nil:
		return 1
	case b.RequestedAt == nil:
		return -1
	}
	return b.RequestedAt.Compare(*a.RequestedAt)
}
