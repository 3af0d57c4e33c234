package api

import (
	"context"
	"fmt"
	"strings"

	"github.com/flokiorg/storehub/auth"
	"github.com/flokiorg/storehub/catalog"
	"github.com/flokiorg/storehub/config"
	"github.com/flokiorg/storehub/constants"
	"github.com/flokiorg/storehub/events"
	"github.com/flokiorg/storehub/pkg/version"
)

type api struct {
	store          *catalog.Store
	session        *auth.Session
	cfg            config.Config
	eventPublisher events.EventPublisher
}

func NewAPI(store *catalog.Store, session *auth.Session, cfg config.Config, eventPublisher events.EventPublisher) API {
	return &api{
		store:          store,
		session:        session,
		cfg:            cfg,
		eventPublisher: eventPublisher,
	}
}

// ListApps returns the catalog in insertion order, optionally filtered by a
// case-insensitive name/description search.
func (a *api) ListApps(search string) *ListAppsResponse {
	apps := a.store.List()
	if search == "" {
		return &ListAppsResponse{Apps: apps}
	}

	q := strings.ToLower(search)
	filtered := []catalog.App{}
	for _, app := range apps {
		if strings.Contains(strings.ToLower(app.Name), q) ||
			strings.Contains(strings.ToLower(app.Description), q) {
			filtered = append(filtered, app)
		}
	}
	return &ListAppsResponse{Apps: filtered}
}

func (a *api) ListFeaturedApps() *ListAppsResponse {
	featured := []catalog.App{}
	for _, app := range a.store.List() {
		if app.Featured {
			featured = append(featured, app)
		}
	}
	return &ListAppsResponse{Apps: featured}
}

func (a *api) GetApp(id string) (*catalog.App, error) {
	app, err := a.store.Find(id)
	if err != nil {
		return nil, err
	}
	return &app, nil
}

func (a *api) CreateApp(createAppRequest *CreateAppRequest) (*catalog.App, error) {
	app := catalog.App{
		ID:          createAppRequest.ID,
		Name:        createAppRequest.Name,
		Description: createAppRequest.Description,
		Category:    createAppRequest.Category,
		Version:     createAppRequest.Version,
		Url:         createAppRequest.Url,
		Repo:        createAppRequest.Repo,
		Icon:        createAppRequest.Icon,
		Featured:    createAppRequest.Featured,
	}
	if err := a.store.Create(app); err != nil {
		return nil, err
	}
	return &app, nil
}

func (a *api) UpdateApp(id string, updateAppRequest *UpdateAppRequest) error {
	app := catalog.App{
		ID:          updateAppRequest.ID,
		Name:        updateAppRequest.Name,
		Description: updateAppRequest.Description,
		Category:    updateAppRequest.Category,
		Version:     updateAppRequest.Version,
		Url:         updateAppRequest.Url,
		Repo:        updateAppRequest.Repo,
		Icon:        updateAppRequest.Icon,
		Featured:    updateAppRequest.Featured,
	}
	return a.store.Update(id, app)
}

func (a *api) DeleteApp(id string) error {
	return a.store.Delete(id)
}

func (a *api) ListFavorites() *ListFavoritesResponse {
	return &ListFavoritesResponse{Favorites: a.store.Favorites()}
}

func (a *api) ToggleFavorite(id string) *ToggleFavoriteResponse {
	return &ToggleFavoriteResponse{
		ID:        id,
		Favorited: a.store.ToggleFavorite(id),
	}
}

func (a *api) Unlock(unlockRequest *UnlockRequest) bool {
	if !a.session.Login(unlockRequest.UnlockPassword) {
		return false
	}
	a.eventPublisher.Publish(&events.Event{Event: "admin_unlocked"})
	return true
}

func (a *api) Logout() {
	a.session.Logout()
	a.eventPublisher.Publish(&events.Event{Event: "admin_logged_out"})
}

func (a *api) GetInfo() *InfoResponse {
	status := a.store.SyncStatus()
	env := a.cfg.GetEnv()
	return &InfoResponse{
		Version:   version.Tag,
		AppCount:  len(a.store.List()),
		SyncState: status.State,
		Degraded:  status.State == constants.SYNC_STATE_DEGRADED,
		AdminMode: a.session.IsAdmin(),
		RemoteRepo: fmt.Sprintf("%s/%s@%s:%s",
			env.CatalogRepoOwner, env.CatalogRepoName, env.CatalogRepoBranch, env.CatalogFilePath),
	}
}

func (a *api) GetSyncStatus() catalog.SyncStatus {
	return a.store.SyncStatus()
}

func (a *api) RetrySync(ctx context.Context) error {
	return a.store.Resync(ctx)
}

func (a *api) ForceSync(ctx context.Context) error {
	return a.store.ForcePush(ctx)
}

func (a *api) RestoreCache() error {
	return a.store.RestoreFromCache()
}
