package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/semanticallynull/mobility-backend/engagement"
	"github.com/semanticallynull/mobility-backend/internal/middleware"
	"github.com/semanticallynull/mobility-backend/riderequest"
)

var pollIntervalSeconds = strconv.Itoa(int(engagement.PollInterval / time.Second))

type rideRequestResponse struct {
	ID               int64     `json:"id"`
	PickupLocationID *int64    `json:"pickupLocationId,omitempty"`
	Dropoff          string    `json:"dropoff"`
	RideType         string    `json:"rideType,omitempty"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"createdAt"`
	// PollInterval tells the client how often to poll the status, in seconds.
	PollInterval int `json:"pollInterval"`
}

func toRideRequestResponse(rr riderequest.RideRequest) rideRequestResponse {
	resp := rideRequestResponse{
		ID:           rr.ID,
		Dropoff:      rr.Dropoff,
		RideType:     rr.RideType,
		Status:       rr.Status,
		CreatedAt:    rr.CreatedAt,
		PollInterval: int(engagement.PollInterval / time.Second),
	}
	if rr.PickupLocationID.Valid {
		id := rr.PickupLocationID.Int64
		resp.PickupLocationID = &id
	}
	return resp
}

type createRideRequestRequest struct {
	PickupLocationID *int64 `json:"pickupLocationId"`
	Dropoff          string `json:"dropoff" binding:"required"`
	RideType         string `json:"rideType"`
}

func (a *API) createRideRequestHandler(c *gin.Context) {
	var req createRideRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": err.Error()})
		return
	}

	rr, err := a.svc.AdmitRideRequest(c, riderID(c), engagement.RideRequestParams{
		PickupLocationID: req.PickupLocationID,
		Dropoff:          req.Dropoff,
		RideType:         req.RideType,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.Header("X-Poll-Interval", pollIntervalSeconds)
	c.JSON(http.StatusCreated, toRideRequestResponse(*rr))
}

func (a *API) rideRequestStatusHandler(c *gin.Context) {
	logger := middleware.GetLogger(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		// Malformed ids are reported like unknown ones.
		writeError(c, engagement.ErrNotFound)
		return
	}

	rider := riderID(c)
	if a.throttle != nil {
		ok, wait, err := a.throttle.Allow(c, rider, id)
		if err != nil {
			logger.WarnContext(c, "poll throttle unavailable", "error", err)
		}
		if !ok {
			secs := max(int((wait+time.Second-1)/time.Second), 1)
			c.Header("Retry-After", strconv.Itoa(secs))
			c.Header("X-Poll-Interval", pollIntervalSeconds)
			c.JSON(http.StatusTooManyRequests, gin.H{
				"code":    "POLL_TOO_SOON",
				"message": "Poll no more often than every " + pollIntervalSeconds + " seconds",
			})
			return
		}
	}

	res, err := a.svc.Resolve(c, id, rider)
	if err != nil {
		writeError(c, err)
		return
	}

	c.Header("X-Poll-Interval", pollIntervalSeconds)
	c.JSON(http.StatusOK, res)
}
