package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/semanticallynull/mobility-backend/autonomous"
	"github.com/semanticallynull/mobility-backend/carshare"
	"github.com/semanticallynull/mobility-backend/engagement"
	"github.com/semanticallynull/mobility-backend/internal/middleware"
	"github.com/semanticallynull/mobility-backend/internal/o11y"
	"github.com/semanticallynull/mobility-backend/riderequest"
	"github.com/semanticallynull/mobility-backend/vehicle"
)

// Engagement is the rider-facing engagement service.
type Engagement interface {
	FindActiveEngagement(ctx context.Context, riderID string) (*engagement.Engagement, error)
	Resolve(ctx context.Context, rideRequestID int64, riderID string) (engagement.Resolution, error)
	ListHistory(ctx context.Context, riderID string, filter engagement.Filter) (engagement.History, error)
	BuildSummary(ctx context.Context, riderID string) (engagement.Summary, error)
	AdmitRideRequest(ctx context.Context, riderID string, p engagement.RideRequestParams) (*riderequest.RideRequest, error)
	AdmitAutonomousRide(ctx context.Context, riderID string, p engagement.AutonomousRideParams) (*autonomous.Ride, error)
	AdmitCarshareBooking(ctx context.Context, riderID string, p engagement.BookingParams) (*carshare.Booking, error)
}

type VehicleFinder interface {
	GetVehicle(ctx context.Context, label string) (vehicle.Vehicle, error)
}

// PollThrottle limits how often one rider may poll one request.
type PollThrottle interface {
	Allow(ctx context.Context, riderID string, rideRequestID int64) (bool, time.Duration, error)
}

type Config struct {
	// Auth establishes the rider's identity; middleware.RequireRider runs
	// after it.
	Auth gin.HandlerFunc

	MetricsUsername string
	MetricsPassword string
}

type API struct {
	r        *gin.Engine
	svc      Engagement
	vehicles VehicleFinder
	throttle PollThrottle
}

// New builds the router. throttle may be nil.
func New(svc Engagement, vehicles VehicleFinder, throttle PollThrottle, obs *o11y.Observability, cfg Config) *API {
	a := &API{
		r:        gin.New(),
		svc:      svc,
		vehicles: vehicles,
		throttle: throttle,
	}
	// Handlers pass c as the context; let it carry the request's span.
	a.r.ContextWithFallback = true

	a.r.Use(
		middleware.Tracing(),
		middleware.Logging(obs.Logger),
		middleware.Metrics(obs.Registry),
		gin.Recovery(),
	)

	a.r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if cfg.MetricsUsername != "" {
		metrics := promhttp.HandlerFor(obs.Registry, promhttp.HandlerOpts{})
		a.r.GET("/metrics",
			gin.BasicAuth(gin.Accounts{cfg.MetricsUsername: cfg.MetricsPassword}),
			gin.WrapH(metrics),
		)
	}

	rider := a.r.Group("/")
	if cfg.Auth != nil {
		rider.Use(cfg.Auth)
	}
	rider.Use(middleware.RequireRider())
	{
		rider.GET("/rider/active-status", a.activeStatusHandler)
		rider.GET("/rider/history", a.historyHandler)
		rider.GET("/rider/summary", a.summaryHandler)
		rider.POST("/ride-requests", a.createRideRequestHandler)
		rider.GET("/ride-requests/:id/status", a.rideRequestStatusHandler)
		rider.POST("/autonomous-rides", a.createAutonomousRideHandler)
		rider.POST("/carshare/bookings", a.createBookingHandler)
	}

	return a
}

func (a *API) Router() *gin.Engine {
	return a.r
}

func riderID(c *gin.Context) string {
	id, _ := middleware.GetRiderID(c)
	return id
}
