package handler

import (
	"net/http"

	"github.com/blues/aidlink/internal/dashboard"
	"github.com/blues/aidlink/internal/logic"
	"github.com/gin-gonic/gin"
)

type EventHandler struct {
	api *logic.Facade
}

func NewEventHandler(api *logic.Facade) *EventHandler {
	return &EventHandler{api: api}
}

// GetPastEvents 获取链上事件，q 参数按事件名、哈希、地址过滤
func (h *EventHandler) GetPastEvents(c *gin.Context) {
	events, err := h.api.GetPastEvents(c.Request.Context())
	if err != nil {
		errorFromLogic(c, err, "Failed to load blockchain events. Please try again.")
		return
	}

	if q := c.Query("q"); q != "" {
		events = dashboard.FilterEvents(events, q)
	}
	SuccessResponse(c, http.StatusOK, "", events)
}
