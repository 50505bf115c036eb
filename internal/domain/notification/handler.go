package notification

import (
	"log/slog"
	"net/http"

	"herald/internal/common"

	"github.com/gin-gonic/gin"
)

// Handler handles HTTP requests for the notification domain.
type Handler struct {
	manager *Manager
	service *Service
}

// NewHandler creates a new notification handler.
func NewHandler(manager *Manager, service *Service) *Handler {
	return &Handler{manager: manager, service: service}
}

// Notify handles POST /api/v1/notify
// Dispatches a notification to a single recipient synchronously and
// returns the per-channel results.
func (h *Handler) Notify(c *gin.Context) {
	var req NotifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Error(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	results, err := h.manager.Notify(c.Request.Context(), req.Recipient, req.Template, req.Variables, req.Channels)
	if err != nil {
		slog.Error("notify failed",
			"error", err,
			"template", req.Template,
			"recipient", req.Recipient.ID,
		)
		common.HandleError(c, err)
		return
	}

	common.Success(c, http.StatusOK, gin.H{"results": results})
}

// LaunchCampaign handles POST /api/v1/campaigns
// Enqueues a bulk dispatch and returns 202 Accepted with the campaign ID.
func (h *Handler) LaunchCampaign(c *gin.Context) {
	var req CampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Error(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	resp, err := h.service.Launch(c.Request.Context(), &req)
	if err != nil {
		slog.Error("launch campaign failed",
			"error", err,
			"template", req.Template,
			"channels", req.Channels,
		)
		common.HandleError(c, err)
		return
	}

	common.Success(c, http.StatusAccepted, resp)
}

// GetCampaign handles GET /api/v1/campaigns/:id
// Returns the aggregate counts for a finished campaign.
func (h *Handler) GetCampaign(c *gin.Context) {
	id := c.Param("id")

	report, err := h.service.GetReport(c.Request.Context(), id)
	if err != nil {
		common.HandleError(c, err)
		return
	}

	common.Success(c, http.StatusOK, report)
}

// RegisterRoutes registers notification routes to the given router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/notify", h.Notify)
	rg.POST("/campaigns", h.LaunchCampaign)
	rg.GET("/campaigns/:id", h.GetCampaign)
}
