// Package api is the HTTP surface the dashboard talks to. Handlers hold no
// state of their own: they read from the sync cache and call the mutation
// and scan services.
package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"assetdesk/internal/orchestrator"
	"assetdesk/internal/scanflow"
	"assetdesk/internal/security"
	"assetdesk/internal/stats"
	"assetdesk/internal/synccache"
	custom_error "assetdesk/pkg/errors"
	"assetdesk/pkg/models"
	"assetdesk/pkg/qrtag"
)

type Handler struct {
	cache              *synccache.Cache
	mutations          *orchestrator.Service
	scans              *scanflow.Service
	logger             *zap.Logger
	warrantyWindowDays int
}

func NewHandler(cache *synccache.Cache, mutations *orchestrator.Service, scans *scanflow.Service, warrantyWindowDays int, logger *zap.Logger) *Handler {
	return &Handler{
		cache:              cache,
		mutations:          mutations,
		scans:              scans,
		logger:             logger,
		warrantyWindowDays: warrantyWindowDays,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine, jwtSecret []byte) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	protected := router.Group("")
	protected.Use(security.JWTMiddleware(jwtSecret))
	{
		protected.POST("/refresh", h.Refresh)

		protected.GET("/assets", h.ListAssets)
		protected.POST("/assets", security.Authorize("admin"), h.CreateAsset)
		protected.PATCH("/assets/:id", security.Authorize("admin"), h.UpdateAsset)
		protected.DELETE("/assets/:id", security.Authorize("admin"), h.DeleteAsset)
		protected.GET("/assets/:id/qr", h.AssetQRPayload)

		protected.GET("/requests", h.ListRequests)
		protected.GET("/assignments", h.ListAssignments)
		protected.POST("/assignments", security.Authorize("admin"), h.CreateAssignment)

		protected.GET("/notifications", h.ListNotifications)
		protected.POST("/notifications/:id/read", h.MarkNotificationRead)
		protected.GET("/activity", h.ListActivity)

		protected.GET("/stats", h.GetStats)
		protected.GET("/stats/categories", h.GetCategoryStats)
		protected.GET("/stats/warranty", h.GetUpcomingWarrantyExpirations)
		protected.GET("/stats/maintenance/overdue", h.GetOverdueMaintenance)

		protected.POST("/scan/decode", h.ScanDecode)
		protected.POST("/scan/commit", h.CommitScannedAsset)
		protected.DELETE("/scan/local/:localId", h.RemoveLocalAsset)
		protected.GET("/my-assets", h.ListMyAssets)
	}
}

func (h *Handler) Refresh(c *gin.Context) {
	if err := h.cache.Refresh(c.Request.Context()); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Unable to refresh from remote store", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "refreshed"})
}

func (h *Handler) ListAssets(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"assets":  h.cache.Assets(),
		"loading": h.cache.Loading(),
	})
}

func (h *Handler) CreateAsset(c *gin.Context) {
	var req models.AssetCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	asset, err := h.mutations.CreateAsset(c.Request.Context(), req)
	if err != nil {
		h.writeMutationError(c, err, "Failed to create asset")
		return
	}

	c.JSON(http.StatusCreated, asset)
}

func (h *Handler) UpdateAsset(c *gin.Context) {
	var req models.AssetUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	asset, err := h.mutations.UpdateAsset(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.writeMutationError(c, err, "Failed to update asset")
		return
	}

	c.JSON(http.StatusOK, asset)
}

func (h *Handler) DeleteAsset(c *gin.Context) {
	if err := h.mutations.DeleteAsset(c.Request.Context(), c.Param("id")); err != nil {
		h.writeMutationError(c, err, "Failed to delete asset")
		return
	}
	c.Status(http.StatusNoContent)
}

// AssetQRPayload returns the scannable payload for an existing asset, for
// the QR-rendering UI.
func (h *Handler) AssetQRPayload(c *gin.Context) {
	id := c.Param("id")
	if _, ok := h.cache.AssetByID(id); !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unable to locate asset with given id"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"payload": qrtag.Encode(id)})
}

func (h *Handler) ListRequests(c *gin.Context) {
	c.JSON(http.StatusOK, h.cache.Requests())
}

func (h *Handler) ListAssignments(c *gin.Context) {
	c.JSON(http.StatusOK, h.cache.Assignments())
}

func (h *Handler) CreateAssignment(c *gin.Context) {
	var req models.AssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	assignment, err := h.mutations.CreateAssignment(c.Request.Context(), req)

	var partial *custom_error.PartialStepError
	if errors.As(err, &partial) {
		// The assignment row exists; only the asset update failed. A generic
		// retry would duplicate the assignment, so the caller needs to know.
		c.JSON(http.StatusMultiStatus, gin.H{
			"assignment": assignment,
			"error":      "Assignment recorded but asset update failed",
			"details":    partial.Error(),
		})
		return
	}
	if err != nil {
		h.writeMutationError(c, err, "Failed to create assignment")
		return
	}

	c.JSON(http.StatusCreated, assignment)
}

func (h *Handler) ListNotifications(c *gin.Context) {
	c.JSON(http.StatusOK, h.cache.Notifications())
}

func (h *Handler) MarkNotificationRead(c *gin.Context) {
	if err := h.mutations.MarkNotificationRead(c.Request.Context(), c.Param("id")); err != nil {
		h.writeMutationError(c, err, "Failed to mark notification read")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) ListActivity(c *gin.Context) {
	c.JSON(http.StatusOK, h.cache.Activity())
}

func (h *Handler) GetStats(c *gin.Context) {
	c.JSON(http.StatusOK, stats.Summarize(h.cache.Assets(), time.Now().UTC()))
}

func (h *Handler) GetCategoryStats(c *gin.Context) {
	c.JSON(http.StatusOK, stats.TotalsByCategory(h.cache.Assets()))
}

func (h *Handler) GetUpcomingWarrantyExpirations(c *gin.Context) {
	windowDays := h.warrantyWindowDays
	if raw := c.Query("window_days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid window_days"})
			return
		}
		windowDays = parsed
	}

	c.JSON(http.StatusOK, stats.UpcomingWarrantyExpirations(h.cache.Assets(), time.Now().UTC(), windowDays))
}

func (h *Handler) GetOverdueMaintenance(c *gin.Context) {
	c.JSON(http.StatusOK, stats.OverdueMaintenance(h.cache.Assets(), time.Now().UTC()))
}

func (h *Handler) ScanDecode(c *gin.Context) {
	var req struct {
		Payload string `json:"payload" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	c.JSON(http.StatusOK, h.scans.Resolve(req.Payload))
}

func (h *Handler) CommitScannedAsset(c *gin.Context) {
	var asset models.EnrichedAsset
	if err := c.ShouldBindJSON(&asset); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	local, err := h.scans.Commit(security.UserID(c), asset)

	var persistence *custom_error.LocalPersistenceError
	if errors.As(err, &persistence) {
		// Kept for the session, just not durable. Tell the caller instead of
		// failing the whole operation.
		c.JSON(http.StatusOK, gin.H{"asset": local, "persisted": false})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to commit scanned asset", "details": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"asset": local, "persisted": true})
}

func (h *Handler) RemoveLocalAsset(c *gin.Context) {
	if err := h.scans.RemoveLocal(security.UserID(c), c.Param("localId")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove local asset", "details": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) ListMyAssets(c *gin.Context) {
	c.JSON(http.StatusOK, h.scans.ListMyAssets(security.UserID(c)))
}

func (h *Handler) writeMutationError(c *gin.Context, err error, message string) {
	var unique *custom_error.UniqueViolationError
	if errors.As(err, &unique) {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Serial number already registered"})
		return
	}

	var remote *custom_error.RemoteWriteError
	if errors.As(err, &remote) {
		c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"error": message, "details": remote.Message})
		return
	}

	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": message, "details": err.Error()})
}
