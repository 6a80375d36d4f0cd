package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/semanticallynull/mobility-backend/carshare"
	"github.com/semanticallynull/mobility-backend/engagement"
	"github.com/semanticallynull/mobility-backend/internal/middleware"
	"github.com/semanticallynull/mobility-backend/vehicle"
)

// writeError maps service errors to responses. Not-found and not-yours are
// deliberately indistinguishable to the caller.
func writeError(c *gin.Context, err error) {
	logger := middleware.GetLogger(c)

	var conflict *engagement.ConflictError
	switch {
	case errors.Is(err, engagement.ErrNotFound), errors.Is(err, engagement.ErrForbidden):
		c.JSON(http.StatusNotFound, gin.H{"code": "REQUEST_NOT_FOUND", "message": "Ride request not found"})
	case errors.As(err, &conflict):
		c.JSON(http.StatusConflict, gin.H{
			"code":       "ACTIVE_RIDE",
			"message":    engagement.ActiveRideMessage,
			"activeLine": conflict.Active.Line,
		})
	case errors.Is(err, engagement.ErrAdmissionConflict):
		c.JSON(http.StatusConflict, gin.H{"code": "ACTIVE_RIDE", "message": engagement.ActiveRideMessage})
	case errors.Is(err, engagement.ErrIntegrity):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"code":    "REQUEST_UNAVAILABLE",
			"message": "This ride request can't be shown right now",
		})
	case errors.Is(err, vehicle.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"code": "VEHICLE_NOT_FOUND", "message": "Vehicle not found"})
	case errors.Is(err, vehicle.ErrNotAvailable):
		c.JSON(http.StatusConflict, gin.H{"code": "VEHICLE_NOT_AVAILABLE", "message": vehicle.ErrNotAvailable.Error()})
	case errors.Is(err, carshare.ErrInvalidDuration):
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_DURATION", "message": "Booking duration must be between 1 and 24 hours"})
	case errors.Is(err, carshare.ErrOverlap):
		c.JSON(http.StatusConflict, gin.H{"code": "BOOKING_OVERLAP", "message": "Booking overlaps with existing booking"})
	case errors.Is(err, engagement.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": err.Error()})
	default:
		logger.ErrorContext(c, "request failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
