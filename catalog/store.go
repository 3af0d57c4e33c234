// Package catalog owns the authoritative in-memory catalog for the running
// session and reconciles it with the local cache and the remote store.
//
// Bootstrap policy: the remote document is the sole source of truth at
// startup. The cache snapshot is written on every mutation but only read
// back through an explicit RestoreFromCache, never preferred silently.
package catalog

import (
	"context"
	"encoding/json"
	"slices"
	"sync"

	"github.com/flokiorg/storehub/cache"
	"github.com/flokiorg/storehub/constants"
	"github.com/flokiorg/storehub/events"
	"github.com/flokiorg/storehub/logger"
	"github.com/flokiorg/storehub/remote"
)

// DocumentClient is the remote store boundary. Implemented by remote.Client.
type DocumentClient interface {
	FetchDocument(ctx context.Context) (*remote.RemoteDocument, error)
	WriteDocument(ctx context.Context, content []byte, expected remote.VersionToken, message string) (remote.VersionToken, error)
}

// AdminGate is consulted before every mutating call. Implemented by
// auth.Session.
type AdminGate interface {
	IsAdmin() bool
}

type Store struct {
	mu        sync.RWMutex
	entries   []App
	favorites []string
	token     remote.VersionToken
	status    SyncStatus

	cache     *cache.Store
	remote    DocumentClient
	session   AdminGate
	publisher events.EventPublisher

	pushCh chan []byte
	wg     sync.WaitGroup
}

func NewStore(cacheStore *cache.Store, remoteClient DocumentClient, session AdminGate, publisher events.EventPublisher) *Store {
	return &Store{
		entries:   []App{},
		favorites: []string{},
		cache:     cacheStore,
		remote:    remoteClient,
		session:   session,
		publisher: publisher,
		pushCh:    make(chan []byte, 1),
	}
}

// Start loads favorites, bootstraps the catalog from the remote store and
// starts the push worker. It never fails: a bad bootstrap leaves an empty,
// read-only catalog in degraded mode.
func (s *Store) Start(ctx context.Context) {
	s.loadFavorites()
	s.Bootstrap(ctx)

	s.wg.Add(1)
	go s.runPushWorker(ctx)
}

// WaitShutdown blocks until the push worker has exited.
func (s *Store) WaitShutdown() {
	s.wg.Wait()
}

// Bootstrap replaces the in-memory catalog with the remote document. On any
// failure, including a missing document on first run, the catalog degrades
// to empty and the failure is surfaced as an event rather than an error.
func (s *Store) Bootstrap(ctx context.Context) {
	doc, err := s.remote.FetchDocument(ctx)
	if err != nil {
		logger.Logger.Warn().Err(err).Msg("Catalog bootstrap failed, starting with empty catalog")
		s.mu.Lock()
		s.entries = []App{}
		s.token = remote.VersionToken{}
		s.mu.Unlock()
		s.setStatus(constants.SYNC_STATE_DEGRADED, constants.SYNC_REASON_BOOTSTRAP)
		s.publisher.Publish(&events.Event{
			Event:      "catalog_degraded",
			Properties: map[string]interface{}{"reason": err.Error()},
		})
		return
	}

	apps, err := ParseDocument(doc.Content)
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Remote catalog document is malformed")
		s.mu.Lock()
		s.entries = []App{}
		s.token = doc.Token
		s.mu.Unlock()
		s.setStatus(constants.SYNC_STATE_DEGRADED, constants.SYNC_REASON_BOOTSTRAP)
		s.publisher.Publish(&events.Event{
			Event:      "catalog_degraded",
			Properties: map[string]interface{}{"reason": err.Error()},
		})
		return
	}

	s.mu.Lock()
	s.entries = apps
	s.token = doc.Token
	s.mu.Unlock()
	s.setStatus(constants.SYNC_STATE_SYNCED, "")
	logger.Logger.Info().Int("apps", len(apps)).Msg("Catalog bootstrapped from remote store")
}

// List returns a snapshot of the catalog in insertion order.
func (s *Store) List() []App {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.entries)
}

func (s *Store) Find(id string) (App, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, app := range s.entries {
		if app.ID == id {
			return app, nil
		}
	}
	return App{}, ErrAppNotFound
}

// Create appends a new entry. The id must be non-empty and unused.
func (s *Store) Create(app App) error {
	if !s.session.IsAdmin() {
		return ErrNotAdmin
	}

	s.mu.Lock()
	if app.ID == "" {
		s.mu.Unlock()
		return ErrEmptyID
	}
	if s.indexOf(app.ID) >= 0 {
		s.mu.Unlock()
		return ErrDuplicateID
	}
	s.entries = append(s.entries, app)
	snapshot := slices.Clone(s.entries)
	s.mu.Unlock()

	s.persistAndPush(snapshot)
	return nil
}

// Update replaces the entry that currently has originalID, in place, so the
// entry keeps its position even across a rename. A rename may not collide
// with any other entry.
func (s *Store) Update(originalID string, app App) error {
	if !s.session.IsAdmin() {
		return ErrNotAdmin
	}

	s.mu.Lock()
	if app.ID == "" {
		s.mu.Unlock()
		return ErrEmptyID
	}
	idx := s.indexOf(originalID)
	if idx < 0 {
		s.mu.Unlock()
		return ErrAppNotFound
	}
	if app.ID != originalID && s.indexOf(app.ID) >= 0 {
		s.mu.Unlock()
		return ErrDuplicateID
	}
	s.entries[idx] = app
	snapshot := slices.Clone(s.entries)
	s.mu.Unlock()

	s.persistAndPush(snapshot)
	return nil
}

// Delete removes the entry with id. A missing id is a no-op, not an error.
func (s *Store) Delete(id string) error {
	if !s.session.IsAdmin() {
		return ErrNotAdmin
	}

	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return nil
	}
	s.entries = slices.Delete(s.entries, idx, idx+1)
	snapshot := slices.Clone(s.entries)
	s.mu.Unlock()

	s.persistAndPush(snapshot)
	return nil
}

// caller must hold s.mu
func (s *Store) indexOf(id string) int {
	for i, app := range s.entries {
		if app.ID == id {
			return i
		}
	}
	return -1
}

// ToggleFavorite flips membership of id in the favorites set and reports the
// new state. Favorites are not admin-gated, never replicate to the remote
// store, and may reference ids that no longer exist in the catalog.
func (s *Store) ToggleFavorite(id string) bool {
	s.mu.Lock()
	idx := slices.Index(s.favorites, id)
	favorited := idx < 0
	if favorited {
		s.favorites = append(s.favorites, id)
	} else {
		s.favorites = slices.Delete(s.favorites, idx, idx+1)
	}
	encoded, err := json.Marshal(s.favorites)
	s.mu.Unlock()

	if err == nil {
		s.cache.Save(constants.FAVORITES_CACHE_KEY, encoded)
	}
	return favorited
}

func (s *Store) Favorites() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.favorites)
}

func (s *Store) loadFavorites() {
	encoded, err := s.cache.Load(constants.FAVORITES_CACHE_KEY)
	if err != nil {
		logger.Logger.Warn().Err(err).Msg("Failed to load favorites from cache, starting empty")
		return
	}
	if encoded == nil {
		return
	}
	var favorites []string
	if err := json.Unmarshal(encoded, &favorites); err != nil {
		logger.Logger.Warn().Err(err).Msg("Corrupt favorites cache entry, starting empty")
		return
	}
	s.mu.Lock()
	s.favorites = favorites
	s.mu.Unlock()
}

// RestoreFromCache replaces the in-memory catalog with the last cached
// snapshot. This is a deliberate operator action for recovering after a
// degraded bootstrap; nothing reads the cache snapshot implicitly.
func (s *Store) RestoreFromCache() error {
	if !s.session.IsAdmin() {
		return ErrNotAdmin
	}

	encoded, err := s.cache.Load(constants.CATALOG_CACHE_KEY)
	if err != nil {
		return err
	}
	if encoded == nil {
		return ErrNoCachedCatalog
	}
	apps, err := ParseDocument(encoded)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.entries = apps
	s.mu.Unlock()
	logger.Logger.Info().Int("apps", len(apps)).Msg("Catalog restored from local cache")
	return nil
}

func (s *Store) persistAndPush(snapshot []App) {
	content, err := MarshalDocument(snapshot)
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to serialize catalog snapshot")
		return
	}
	s.cache.Save(constants.CATALOG_CACHE_KEY, content)
	s.enqueuePush(content)
}
