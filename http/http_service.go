package http

import (
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/flokiorg/storehub/api"
	"github.com/flokiorg/storehub/catalog"
	"github.com/flokiorg/storehub/config"
	"github.com/flokiorg/storehub/constants"
	"github.com/flokiorg/storehub/events"
	"github.com/flokiorg/storehub/logger"
	"github.com/flokiorg/storehub/service"
)

type authTokenResponse struct {
	Token string `json:"token"`
}

type jwtCustomClaims struct {
	Permission string `json:"permission,omitempty"` // "full" or "readonly"
	jwt.RegisteredClaims
}

type HttpService struct {
	api            api.API
	cfg            config.Config
	eventPublisher events.EventPublisher
}

func NewHttpService(svc service.Service, eventPublisher events.EventPublisher) *HttpService {
	return &HttpService{
		api:            api.NewAPI(svc.GetCatalogStore(), svc.GetSession(), svc.GetConfig(), eventPublisher),
		cfg:            svc.GetConfig(),
		eventPublisher: eventPublisher,
	}
}

func (httpSvc *HttpService) RegisterSharedRoutes(e *echo.Echo) {
	e.HideBanner = true

	e.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "DENY",
		ReferrerPolicy:     "no-referrer",
	}))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogRemoteIP:  true,
		LogUserAgent: true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, values middleware.RequestLoggerValues) error {
			logger.HttpLogger.Info().
				Str("uri", values.URI).
				Int("status", values.Status).
				Str("remote_ip", values.RemoteIP).
				Str("user_agent", values.UserAgent).
				Str("request_id", values.RequestID).
				Msg("handled API request")
			return nil
		},
	}))

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())

	// public catalog routes
	e.GET("/api/info", httpSvc.infoHandler)
	e.GET("/api/apps", httpSvc.appsListHandler)
	e.GET("/api/apps/featured", httpSvc.featuredAppsHandler)
	e.GET("/api/apps/:id", httpSvc.appsShowHandler)
	e.GET("/api/favorites", httpSvc.favoritesListHandler)
	e.POST("/api/favorites/:id", httpSvc.toggleFavoriteHandler)
	e.GET("/api/sync/status", httpSvc.syncStatusHandler)

	// allow one unlock request per second
	unlockRateLimiter := middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(1))
	e.POST("/api/unlock", httpSvc.unlockHandler, unlockRateLimiter)

	// restricted routes
	jwtConfig := echojwt.Config{
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(jwtCustomClaims)
		},
		KeyFunc: func(token *jwt.Token) (interface{}, error) {
			return []byte(httpSvc.cfg.GetJWTSecret()), nil
		},
		TokenLookup: "header:Authorization:Bearer ,query:token",
	}

	readOnlyApiGroup := e.Group("/api")
	readOnlyApiGroup.Use(echojwt.WithConfig(jwtConfig))
	readOnlyApiGroup.POST("/logout", httpSvc.logoutHandler)

	fullAccessApiGroup := e.Group("/api")
	fullAccessApiGroup.Use(echojwt.WithConfig(jwtConfig))
	fullAccessApiGroup.Use(httpSvc.requireFullAccess)

	fullAccessApiGroup.POST("/apps", httpSvc.appsCreateHandler)
	fullAccessApiGroup.PUT("/apps/:id", httpSvc.appsUpdateHandler)
	fullAccessApiGroup.DELETE("/apps/:id", httpSvc.appsDeleteHandler)
	fullAccessApiGroup.POST("/sync/retry", httpSvc.syncRetryHandler)
	fullAccessApiGroup.POST("/sync/force", httpSvc.syncForceHandler)
	fullAccessApiGroup.POST("/cache/restore", httpSvc.cacheRestoreHandler)
}

func (httpSvc *HttpService) infoHandler(c echo.Context) error {
	// report whether the caller holds a valid token
	unlocked := false
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
				return []byte(httpSvc.cfg.GetJWTSecret()), nil
			})
			if err == nil && token != nil && token.Valid {
				unlocked = true
			}
		}
	}

	responseBody := httpSvc.api.GetInfo()
	responseBody.Unlocked = unlocked
	if unlocked {
		responseBody.WorkDir = httpSvc.cfg.GetDefaultWorkDir()
	}

	return c.JSON(http.StatusOK, responseBody)
}

func (httpSvc *HttpService) appsListHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, httpSvc.api.ListApps(c.QueryParam("search")))
}

func (httpSvc *HttpService) featuredAppsHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, httpSvc.api.ListFeaturedApps())
}

func (httpSvc *HttpService) appsShowHandler(c echo.Context) error {
	app, err := httpSvc.api.GetApp(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "App not found",
		})
	}
	return c.JSON(http.StatusOK, app)
}

func (httpSvc *HttpService) appsCreateHandler(c echo.Context) error {
	var requestData api.CreateAppRequest
	if err := c.Bind(&requestData); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: fmt.Sprintf("Bad request: %s", err.Error()),
		})
	}

	responseBody, err := httpSvc.api.CreateApp(&requestData)
	if err != nil {
		return httpSvc.catalogErrorResponse(c, err, "Failed to create app")
	}

	return c.JSON(http.StatusOK, responseBody)
}

func (httpSvc *HttpService) appsUpdateHandler(c echo.Context) error {
	var requestData api.UpdateAppRequest
	if err := c.Bind(&requestData); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: fmt.Sprintf("Bad request: %s", err.Error()),
		})
	}

	if err := httpSvc.api.UpdateApp(c.Param("id"), &requestData); err != nil {
		return httpSvc.catalogErrorResponse(c, err, "Failed to update app")
	}

	return c.NoContent(http.StatusNoContent)
}

func (httpSvc *HttpService) appsDeleteHandler(c echo.Context) error {
	if err := httpSvc.api.DeleteApp(c.Param("id")); err != nil {
		return httpSvc.catalogErrorResponse(c, err, "Failed to delete app")
	}
	return c.NoContent(http.StatusNoContent)
}

func (httpSvc *HttpService) favoritesListHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, httpSvc.api.ListFavorites())
}

func (httpSvc *HttpService) toggleFavoriteHandler(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "App ID is required",
		})
	}
	return c.JSON(http.StatusOK, httpSvc.api.ToggleFavorite(id))
}

func (httpSvc *HttpService) syncStatusHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, httpSvc.api.GetSyncStatus())
}

func (httpSvc *HttpService) syncRetryHandler(c echo.Context) error {
	if err := httpSvc.api.RetrySync(c.Request().Context()); err != nil {
		return httpSvc.catalogErrorResponse(c, err, "Failed to re-sync catalog")
	}
	return c.NoContent(http.StatusNoContent)
}

func (httpSvc *HttpService) syncForceHandler(c echo.Context) error {
	if err := httpSvc.api.ForceSync(c.Request().Context()); err != nil {
		return httpSvc.catalogErrorResponse(c, err, "Failed to force push catalog")
	}
	return c.NoContent(http.StatusNoContent)
}

func (httpSvc *HttpService) cacheRestoreHandler(c echo.Context) error {
	if err := httpSvc.api.RestoreCache(); err != nil {
		return httpSvc.catalogErrorResponse(c, err, "Failed to restore catalog from cache")
	}
	return c.NoContent(http.StatusNoContent)
}

func (httpSvc *HttpService) unlockHandler(c echo.Context) error {
	var unlockRequest api.UnlockRequest
	if err := c.Bind(&unlockRequest); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: fmt.Sprintf("Bad request: %s", err.Error()),
		})
	}

	if unlockRequest.Permission == "" {
		unlockRequest.Permission = constants.PERMISSION_FULL
	}
	if !slices.Contains([]string{constants.PERMISSION_FULL, constants.PERMISSION_READONLY}, unlockRequest.Permission) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Permission field is unknown",
		})
	}

	if !httpSvc.api.Unlock(&unlockRequest) {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "Invalid password",
		})
	}

	token, err := httpSvc.createJWT(unlockRequest.TokenExpiryDays, unlockRequest.Permission)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: fmt.Sprintf("Failed to save session: %s", err.Error()),
		})
	}

	return c.JSON(http.StatusOK, &authTokenResponse{
		Token: token,
	})
}

func (httpSvc *HttpService) logoutHandler(c echo.Context) error {
	httpSvc.api.Logout()
	return c.NoContent(http.StatusNoContent)
}

func (httpSvc *HttpService) requireFullAccess(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := c.Get("user").(*jwt.Token)
		claims := token.Claims.(*jwtCustomClaims)

		if claims.Permission == "" || claims.Permission == constants.PERMISSION_FULL {
			return next(c)
		}

		return c.JSON(http.StatusForbidden, ErrorResponse{
			Message: "This operation requires full access permissions",
		})
	}
}

func (httpSvc *HttpService) createJWT(tokenExpiryDays *uint64, permission string) (string, error) {
	expiryDays := uint64(30)
	if tokenExpiryDays != nil {
		expiryDays = *tokenExpiryDays
	}

	claims := &jwtCustomClaims{
		Permission: permission,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour * 24 * time.Duration(expiryDays))),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(httpSvc.cfg.GetJWTSecret()))
}

// maps catalog errors onto response codes: validation problems are the
// caller's fault, a refused admin gate is forbidden, everything else is ours
func (httpSvc *HttpService) catalogErrorResponse(c echo.Context, err error, logMsg string) error {
	switch {
	case errors.Is(err, catalog.ErrNotAdmin):
		return c.JSON(http.StatusForbidden, ErrorResponse{Message: err.Error()})
	case errors.Is(err, catalog.ErrEmptyID), errors.Is(err, catalog.ErrDuplicateID):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Message: err.Error()})
	case errors.Is(err, catalog.ErrAppNotFound), errors.Is(err, catalog.ErrNoCachedCatalog):
		return c.JSON(http.StatusNotFound, ErrorResponse{Message: err.Error()})
	default:
		logger.Logger.Error().Err(err).Msg(logMsg)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: fmt.Sprintf("%s: %s", logMsg, err.Error()),
		})
	}
}
