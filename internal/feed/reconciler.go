package feed

import (
	"encoding/json"
	"os"

	"pinsync/internal/logger"
	"pinsync/internal/metadata"
	"pinsync/internal/models"
	"pinsync/internal/pinterest"
)

// API is the slice of the platform client the reconciler needs.
type API interface {
	GetFeeds() ([]pinterest.Feed, error)
	CreateFeed(feed pinterest.Feed) (*pinterest.Feed, error)
	DeleteFeed(feedID string) error
}

// Reconciler converges the platform's registered catalog feeds onto exactly
// one feed per (storefront, locale) the merchant actually serves, and keeps
// the locally persisted registered-feed set honest about partial failures.
type Reconciler struct {
	client    API
	store     metadata.Store
	exportDir string
	logger    *logger.Logger
}

func NewReconciler(client API, store metadata.Store, exportDir string, logger *logger.Logger) *Reconciler {
	return &Reconciler{
		client:    client,
		store:     store,
		exportDir: exportDir,
		logger:    logger,
	}
}

// Reconcile diffs the desired feed set against the platform's actual feed
// list and issues create/delete calls to converge. Returns the number of
// successful creates. Individual feed failures are logged and skipped; the
// run continues.
//
// Install policy (initialInstall=true): a remote feed with a matching name
// is an orphan from an incomplete prior uninstall: delete it, then create
// fresh. Steady-state policy: a matching remote feed whose ID we already
// track is confirmed live and left untouched; a matching feed we do not
// track is replaced; feeds we track but no longer want are deleted, and a
// failed delete keeps its ID tracked so the next run retries it.
func (r *Reconciler) Reconcile(storefronts []models.Storefront, initialInstall bool) int {
	registered := r.loadRegistered()

	remote, err := r.client.GetFeeds()
	if err != nil {
		r.logger.Error("reconcile: failed to list remote feeds: %v", err)
		return 0
	}
	remoteByName := make(map[string]pinterest.Feed, len(remote))
	for _, f := range remote {
		remoteByName[f.Name] = f
	}

	var seen []string
	created := 0
	processed := map[string]bool{}

	for _, sf := range storefronts {
		if !SupportedCountry(sf.Country) {
			r.logger.Info("reconcile: country %s not supported for feeds, skipping store %s", sf.Country, sf.StoreCode)
			continue
		}

		if _, err := os.Stat(FilePath(r.exportDir, sf)); err != nil {
			r.logger.Info("reconcile: feed file for store %s not readable, skipping: %v", sf.StoreCode, err)
			continue
		}

		// Multiple stores can map to the same physical feed file.
		dedupeKey := sf.BaseURL + "|" + sf.Locale
		if processed[dedupeKey] {
			continue
		}
		processed[dedupeKey] = true

		location := SourceURL(sf)
		desired := pinterest.Feed{
			Name:            FeedName(sf.Locale, location),
			DefaultLocale:   sf.Locale,
			DefaultCountry:  sf.Country,
			DefaultCurrency: sf.Currency,
			Format:          "XML",
			Location:        location,
		}

		existing, exists := remoteByName[desired.Name]

		if initialInstall {
			if exists {
				if err := r.client.DeleteFeed(existing.ID); err != nil {
					r.logger.Error("reconcile: failed to delete orphan feed %s (%s): %v", existing.ID, existing.Name, err)
				}
			}
			if id, ok := r.create(desired); ok {
				seen = append(seen, id)
				created++
			}
			continue
		}

		if exists {
			if contains(registered, existing.ID) {
				// Confirmed live, nothing to do.
				seen = append(seen, existing.ID)
				continue
			}
			// Name collision with a feed we do not track: replace it.
			if err := r.client.DeleteFeed(existing.ID); err != nil {
				r.logger.Error("reconcile: failed to delete untracked feed %s (%s): %v", existing.ID, existing.Name, err)
				continue
			}
		}

		if id, ok := r.create(desired); ok {
			seen = append(seen, id)
			created++
		}
	}

	if !initialInstall {
		// Feeds we tracked but did not want this run are stale. A failed
		// delete is re-tracked so it is retried instead of forgotten.
		for _, id := range registered {
			if contains(seen, id) {
				continue
			}
			if err := r.client.DeleteFeed(id); err != nil {
				r.logger.Error("reconcile: failed to delete stale feed %s, keeping it tracked: %v", id, err)
				seen = append(seen, id)
			} else {
				r.logger.Info("reconcile: deleted stale feed %s", id)
			}
		}
	}

	// Persist whatever actually converged, success or not.
	r.persistRegistered(dedupe(seen))
	return created
}

func (r *Reconciler) create(desired pinterest.Feed) (string, bool) {
	createdFeed, err := r.client.CreateFeed(desired)
	if err != nil {
		r.logger.Error("reconcile: failed to create feed %s: %v", desired.Name, err)
		return "", false
	}
	r.logger.Info("reconcile: created feed %s (%s)", createdFeed.ID, desired.Name)
	return createdFeed.ID, true
}

func (r *Reconciler) loadRegistered() []string {
	value, err := r.store.Get(metadata.KeyRegisteredFeed)
	if err == metadata.ErrNotFound {
		return nil
	}
	if err != nil {
		r.logger.Error("reconcile: failed to load registered feed set: %v", err)
		return nil
	}

	var ids []string
	if err := json.Unmarshal([]byte(value), &ids); err != nil {
		r.logger.Error("reconcile: discarding corrupt registered feed set: %v", err)
		return nil
	}
	return ids
}

func (r *Reconciler) persistRegistered(ids []string) {
	data, err := json.Marshal(ids)
	if err != nil {
		r.logger.Error("reconcile: failed to marshal registered feed set: %v", err)
		return
	}
	if err := r.store.Set(metadata.KeyRegisteredFeed, string(data)); err != nil {
		r.logger.Error("reconcile: failed to persist registered feed set: %v", err)
	}
}

func contains(ids []string, id string) bool {
	for _, existing := range ids {
		if existing == id {
			return true
		}
	}
	return false
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
