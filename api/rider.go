package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/semanticallynull/mobility-backend/engagement"
)

type activeStatusResponse struct {
	HasActiveRide bool                   `json:"hasActiveRide"`
	Engagement    *engagement.Engagement `json:"engagement"`
	Message       string                 `json:"message,omitempty"`
}

func (a *API) activeStatusHandler(c *gin.Context) {
	e, err := a.svc.FindActiveEngagement(c, riderID(c))
	if err != nil {
		writeError(c, err)
		return
	}

	resp := activeStatusResponse{HasActiveRide: e != nil, Engagement: e}
	if e != nil {
		resp.Message = engagement.ActiveRideMessage
	}
	c.JSON(http.StatusOK, resp)
}

func (a *API) historyHandler(c *gin.Context) {
	h, err := a.svc.ListHistory(c, riderID(c), engagement.ParseFilter(c.Query("filter")))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, h)
}

func (a *API) summaryHandler(c *gin.Context) {
	s, err := a.svc.BuildSummary(c, riderID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}
