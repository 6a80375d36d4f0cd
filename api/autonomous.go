package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/semanticallynull/mobility-backend/autonomous"
	"github.com/semanticallynull/mobility-backend/engagement"
)

type autonomousRideResponse struct {
	ID          int64      `json:"id"`
	Pickup      string     `json:"pickup"`
	Dropoff     string     `json:"dropoff"`
	Vehicle     string     `json:"vehicle,omitempty"`
	Status      string     `json:"status"`
	RequestedAt *time.Time `json:"requestedAt,omitempty"`
}

func toAutonomousRideResponse(r autonomous.Ride) autonomousRideResponse {
	resp := autonomousRideResponse{
		ID:      r.ID,
		Pickup:  r.Pickup,
		Dropoff: r.Dropoff,
		Vehicle: r.Vehicle,
		Status:  r.Status,
	}
	if r.RequestedAt.Valid {
		resp.RequestedAt = &r.RequestedAt.Time
	}
	return resp
}

type createAutonomousRideRequest struct {
	Pickup  string `json:"pickup" binding:"required"`
	Dropoff string `json:"dropoff" binding:"required"`
}

func (a *API) createAutonomousRideHandler(c *gin.Context) {
	var req createAutonomousRideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": err.Error()})
		return
	}

	ride, err := a.svc.AdmitAutonomousRide(c, riderID(c), engagement.AutonomousRideParams{
		Pickup:  req.Pickup,
		Dropoff: req.Dropoff,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toAutonomousRideResponse(*ride))
}
