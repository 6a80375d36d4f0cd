package engagement

import (
	"context"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"

	"github.com/semanticallynull/mobility-backend/internal/events"
)

var tracer = otel.Tracer("engagement")

// Notifier supplies a rider's unread notification count.
type Notifier interface {
	UnreadCount(ctx context.Context, riderID string) (int, error)
}

type Service struct {
	store    Store
	notifier Notifier
	events   events.Publisher
	logger   *slog.Logger
	metrics  *metrics
	now      func() time.Time
}

type Options struct {
	// Notifier may be nil, in which case the unread count is always zero.
	Notifier Notifier
	// Events defaults to events.NopPublisher.
	Events events.Publisher
	// Logger defaults to slog.Default.
	Logger *slog.Logger
	// Registerer receives the engagement metrics. Nil skips registration.
	Registerer prometheus.Registerer
	// Now defaults to time.Now.
	Now func() time.Time
}

func NewService(store Store, opts Options) *Service {
	s := &Service{
		store:    store,
		notifier: opts.Notifier,
		events:   opts.Events,
		logger:   opts.Logger,
		metrics:  newMetrics(opts.Registerer),
		now:      opts.Now,
	}
	if s.events == nil {
		s.events = events.NopPublisher{}
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}
