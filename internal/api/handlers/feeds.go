package handlers

import (
	"net/http"

	"pinsync/internal/feed"
	"pinsync/internal/logger"
	"pinsync/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type FeedsHandler struct {
	db         *gorm.DB
	logger     *logger.Logger
	exporter   *feed.Exporter
	reconciler *feed.Reconciler
}

func NewFeedsHandler(db *gorm.DB, logger *logger.Logger, exporter *feed.Exporter, reconciler *feed.Reconciler) *FeedsHandler {
	return &FeedsHandler{
		db:         db,
		logger:     logger,
		exporter:   exporter,
		reconciler: reconciler,
	}
}

// Regenerate re-exports the catalog files and runs a steady-state
// reconciliation pass. This is the manual admin trigger; the cron surface
// does the same on a schedule.
func (h *FeedsHandler) Regenerate(c *gin.Context) {
	var storefronts []models.Storefront
	if err := h.db.Find(&storefronts).Error; err != nil {
		h.logger.Error("Failed to load storefronts: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load storefronts"})
		return
	}

	exported, err := h.exporter.Export(storefronts)
	if err != nil {
		h.logger.Error("Feed export failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Feed export failed"})
		return
	}

	createdCount := h.reconciler.Reconcile(storefronts, false)

	c.JSON(http.StatusOK, gin.H{
		"message":        "Feeds regenerated",
		"feeds_exported": exported,
		"feeds_created":  createdCount,
	})
}
