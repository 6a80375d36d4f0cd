package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/semanticallynull/mobility-backend/carshare"
	"github.com/semanticallynull/mobility-backend/engagement"
)

type bookingResponse struct {
	ID           uuid.UUID              `json:"id"`
	VehicleID    uuid.UUID              `json:"vehicleId"`
	VehicleLabel string                 `json:"vehicleLabel"`
	VehicleName  string                 `json:"vehicleName,omitempty"`
	StartTime    time.Time              `json:"startTime"`
	EndTime      time.Time              `json:"endTime"`
	Status       carshare.BookingStatus `json:"status"`
	CreatedAt    time.Time              `json:"createdAt"`
}

func toBookingResponse(b carshare.Booking, now time.Time) bookingResponse {
	return bookingResponse{
		ID:           b.ID,
		VehicleID:    b.VehicleID,
		VehicleLabel: b.VehicleLabel,
		VehicleName:  b.VehicleName.String,
		StartTime:    b.StartTime,
		EndTime:      b.EndTime,
		Status:       b.StatusAt(now),
		CreatedAt:    b.CreatedAt,
	}
}

type createBookingRequest struct {
	VehicleLabel string `json:"vehicleLabel" binding:"required"`
	StartTime    string `json:"startTime" binding:"required"`
	EndTime      string `json:"endTime" binding:"required"`
}

func (a *API) createBookingHandler(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": err.Error()})
		return
	}

	startTime, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": "Invalid startTime format"})
		return
	}
	endTime, err := time.Parse(time.RFC3339, req.EndTime)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": "Invalid endTime format"})
		return
	}

	// Availability is checked under the vehicle's lock during admission.
	v, err := a.vehicles.GetVehicle(c, req.VehicleLabel)
	if err != nil {
		writeError(c, err)
		return
	}

	b, err := a.svc.AdmitCarshareBooking(c, riderID(c), engagement.BookingParams{
		VehicleID: v.ID,
		StartTime: startTime,
		EndTime:   endTime,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	if b.VehicleLabel == "" {
		b.VehicleLabel = v.Label
	}
	c.JSON(http.StatusCreated, toBookingResponse(*b, time.Now()))
}
