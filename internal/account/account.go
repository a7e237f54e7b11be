package account

import (
	"encoding/json"
	"fmt"

	"pinsync/internal/logger"
	"pinsync/internal/metadata"
)

// TokenBundle is what the OAuth token exchange (an external call) returns.
type TokenBundle struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	Scope        string `json:"scope"`
}

// Result is the structured outcome of an admin-triggered operation, so the
// UI can render specific remediation messaging.
type Result struct {
	Success    bool     `json:"success"`
	ErrorTypes []string `json:"error_types"`
}

// FeedDeleter is the slice of the platform client disconnect needs.
type FeedDeleter interface {
	DeleteFeed(feedID string) error
}

// Service owns the connection state: tokens, advertiser ID and persisted
// integration error records.
type Service struct {
	store  metadata.Store
	logger *logger.Logger
}

func NewService(store metadata.Store, logger *logger.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// AccessToken implements pinterest.TokenSource.
func (s *Service) AccessToken() (string, bool) {
	token, err := s.store.Get(metadata.KeyAccessToken)
	if err != nil || token == "" {
		return "", false
	}
	return token, true
}

// AdvertiserID returns the connected ad account ID.
func (s *Service) AdvertiserID() (string, bool) {
	id, err := s.store.Get(metadata.KeyAdvertiserID)
	if err != nil || id == "" {
		return "", false
	}
	return id, true
}

// IsConnected reports whether an access token is stored.
func (s *Service) IsConnected() bool {
	_, ok := s.AccessToken()
	return ok
}

// Connect persists the token bundle and advertiser ID.
func (s *Service) Connect(bundle TokenBundle, advertiserID string) error {
	if bundle.AccessToken == "" {
		return fmt.Errorf("token bundle has no access token")
	}
	if err := s.store.Set(metadata.KeyAccessToken, bundle.AccessToken); err != nil {
		return fmt.Errorf("failed to store access token: %w", err)
	}
	if bundle.RefreshToken != "" {
		if err := s.store.Set(metadata.KeyRefreshToken, bundle.RefreshToken); err != nil {
			return fmt.Errorf("failed to store refresh token: %w", err)
		}
	}
	if err := s.store.Set(metadata.KeyAdvertiserID, advertiserID); err != nil {
		return fmt.Errorf("failed to store advertiser id: %w", err)
	}
	s.logger.Info("account: connected to ad account %s", advertiserID)
	return nil
}

// Disconnect tears the connection down: registered feeds are deleted on the
// platform, then all local connection state is purged. Individual failures
// are collected into the result instead of aborting.
func (s *Service) Disconnect(client FeedDeleter) Result {
	var errorTypes []string

	for _, feedID := range s.registeredFeeds() {
		if err := client.DeleteFeed(feedID); err != nil {
			s.logger.Error("account: failed to delete feed %s on disconnect: %v", feedID, err)
			errorTypes = appendUnique(errorTypes, "feed_deletion")
		}
	}

	if err := s.store.Delete(metadata.KeyRegisteredFeed); err != nil {
		s.logger.Error("account: failed to clear registered feed set: %v", err)
		errorTypes = appendUnique(errorTypes, "local_state")
	}
	for _, prefix := range []string{"auth/", metadata.SnapshotPrefix, metadata.ErrorPrefix, "buffers/"} {
		if err := s.store.DeleteByPrefix(prefix); err != nil {
			s.logger.Error("account: failed to purge %s state: %v", prefix, err)
			errorTypes = appendUnique(errorTypes, "local_state")
		}
	}

	return Result{Success: len(errorTypes) == 0, ErrorTypes: errorTypes}
}

// RecordError persists one integration error record under its category,
// e.g. errors/website_claiming/{website}.
func (s *Service) RecordError(category, key, errorID string, data interface{}) {
	record := struct {
		IntegrationErrorID string      `json:"integration_error_id"`
		Data               interface{} `json:"data"`
	}{IntegrationErrorID: errorID, Data: data}

	payload, err := json.Marshal(record)
	if err != nil {
		s.logger.Error("account: failed to marshal error record %s: %v", errorID, err)
		return
	}
	storeKey := metadata.ErrorPrefix + category + "/" + key
	if err := s.store.Set(storeKey, string(payload)); err != nil {
		s.logger.Error("account: failed to persist error record %s: %v", storeKey, err)
	}
}

func (s *Service) registeredFeeds() []string {
	value, err := s.store.Get(metadata.KeyRegisteredFeed)
	if err != nil {
		return nil
	}
	var ids []string
	if err := json.Unmarshal([]byte(value), &ids); err != nil {
		return nil
	}
	return ids
}

func appendUnique(list []string, value string) []string {
	for _, existing := range list {
		if existing == value {
			return list
		}
	}
	return append(list, value)
}
