package api

import (
	"context"

	"github.com/flokiorg/storehub/catalog"
)

type API interface {
	ListApps(search string) *ListAppsResponse
	ListFeaturedApps() *ListAppsResponse
	GetApp(id string) (*catalog.App, error)
	CreateApp(createAppRequest *CreateAppRequest) (*catalog.App, error)
	UpdateApp(id string, updateAppRequest *UpdateAppRequest) error
	DeleteApp(id string) error

	ListFavorites() *ListFavoritesResponse
	ToggleFavorite(id string) *ToggleFavoriteResponse

	Unlock(unlockRequest *UnlockRequest) bool
	Logout()

	GetInfo() *InfoResponse
	GetSyncStatus() catalog.SyncStatus
	RetrySync(ctx context.Context) error
	ForceSync(ctx context.Context) error
	RestoreCache() error
}

type ListAppsResponse struct {
	Apps []catalog.App `json:"apps"`
}

type ListFavoritesResponse struct {
	Favorites []string `json:"favorites"`
}

type ToggleFavoriteResponse struct {
	ID        string `json:"id"`
	Favorited bool   `json:"favorited"`
}

type CreateAppRequest struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Version     string `json:"version"`
	Url         string `json:"url"`
	Repo        string `json:"repo"`
	Icon        string `json:"icon"`
	Featured    bool   `json:"featured"`
}

type UpdateAppRequest struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Version     string `json:"version"`
	Url         string `json:"url"`
	Repo        string `json:"repo"`
	Icon        string `json:"icon"`
	Featured    bool   `json:"featured"`
}

type UnlockRequest struct {
	UnlockPassword  string  `json:"unlockPassword"`
	Permission      string  `json:"permission"`
	TokenExpiryDays *uint64 `json:"tokenExpiryDays"`
}

type InfoResponse struct {
	Version    string `json:"version"`
	AppCount   int    `json:"appCount"`
	SyncState  string `json:"syncState"`
	Degraded   bool   `json:"degraded"`
	Unlocked   bool   `json:"unlocked"`
	AdminMode  bool   `json:"adminMode"`
	WorkDir    string `json:"workDir,omitempty"`
	RemoteRepo string `json:"remoteRepo"`
}
