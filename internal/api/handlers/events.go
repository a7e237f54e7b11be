package handlers

import (
	"net/http"

	"pinsync/internal/events"
	"pinsync/internal/logger"

	"github.com/gin-gonic/gin"
)

type EventsHandler struct {
	tracker *events.Tracker
	logger  *logger.Logger
}

func NewEventsHandler(tracker *events.Tracker, logger *logger.Logger) *EventsHandler {
	return &EventsHandler{tracker: tracker, logger: logger}
}

var knownEvents = map[string]string{
	"page_visit":  events.EventPageVisit,
	"search":      events.EventSearch,
	"add_to_cart": events.EventAddToCart,
	"checkout":    events.EventCheckout,
}

// Track accepts one storefront conversion event. It always answers 202 for
// known event names: a tracking failure must never surface to the shopper.
func (h *EventsHandler) Track(c *gin.Context) {
	eventName, ok := knownEvents[c.Param("name")]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown event name"})
		return
	}

	var request struct {
		ExternalID string                 `json:"external_id"`
		Em         string                 `json:"em"`
		Fn         string                 `json:"fn"`
		Ln         string                 `json:"ln"`
		Ge         string                 `json:"ge"`
		Db         string                 `json:"db"`
		CustomData map[string]interface{} `json:"custom_data"`
	}
	// An empty body is fine; only custom data is optional payload.
	if err := c.ShouldBindJSON(&request); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.tracker.Track(c.Request.Context(), eventName, events.TrackRequest{
		ClientIP:   c.ClientIP(),
		UserAgent:  c.Request.UserAgent(),
		ExternalID: request.ExternalID,
		Em:         request.Em,
		Fn:         request.Fn,
		Ln:         request.Ln,
		Ge:         request.Ge,
		Db:         request.Db,
		CustomData: request.CustomData,
	})

	c.JSON(http.StatusAccepted, gin.H{"message": "Event accepted"})
}
