package handlers

import (
	"net/http"

	"pinsync/internal/account"
	"pinsync/internal/feed"
	"pinsync/internal/logger"
	"pinsync/internal/models"
	"pinsync/internal/pinterest"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AccountHandler struct {
	db         *gorm.DB
	logger     *logger.Logger
	service    *account.Service
	client     *pinterest.Client
	exporter   *feed.Exporter
	reconciler *feed.Reconciler
}

func NewAccountHandler(db *gorm.DB, logger *logger.Logger, service *account.Service, client *pinterest.Client, exporter *feed.Exporter, reconciler *feed.Reconciler) *AccountHandler {
	return &AccountHandler{
		db:         db,
		logger:     logger,
		service:    service,
		client:     client,
		exporter:   exporter,
		reconciler: reconciler,
	}
}

// Connect stores the token bundle from the completed OAuth exchange and runs
// the install-policy feed registration.
func (h *AccountHandler) Connect(c *gin.Context) {
	var request struct {
		AccessToken  string `json:"access_token" binding:"required"`
		RefreshToken string `json:"refresh_token"`
		AdvertiserID string `json:"advertiser_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	bundle := account.TokenBundle{
		AccessToken:  request.AccessToken,
		RefreshToken: request.RefreshToken,
	}
	if err := h.service.Connect(bundle, request.AdvertiserID); err != nil {
		h.logger.Error("Failed to store connection: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store connection"})
		return
	}

	storefronts, err := h.loadStorefronts()
	if err != nil {
		h.logger.Error("Failed to load storefronts: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Connected, but feed setup failed"})
		return
	}

	exported, err := h.exporter.Export(storefronts)
	if err != nil {
		h.logger.Error("Feed export failed: %v", err)
	}
	createdCount := h.reconciler.Reconcile(storefronts, true)

	c.JSON(http.StatusOK, gin.H{
		"message":        "Account connected",
		"feeds_exported": exported,
		"feeds_created":  createdCount,
	})
}

// Disconnect tears down the connection and reports a structured result.
func (h *AccountHandler) Disconnect(c *gin.Context) {
	result := h.service.Disconnect(h.client)

	status := http.StatusOK
	if !result.Success {
		status = http.StatusBadGateway
	}
	c.JSON(status, result)
}

// Status reports whether the account is connected.
func (h *AccountHandler) Status(c *gin.Context) {
	advertiserID, _ := h.service.AdvertiserID()
	c.JSON(http.StatusOK, gin.H{
		"connected":     h.service.IsConnected(),
		"advertiser_id": advertiserID,
	})
}

func (h *AccountHandler) loadStorefronts() ([]models.Storefront, error) {
	var storefronts []models.Storefront
	err := h.db.Find(&storefronts).Error
	return storefronts, err
}
