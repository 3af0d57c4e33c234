package config

type AppConfig struct {
	Workdir     string `envconfig:"WORK_DIR"`
	Port        string `envconfig:"PORT" default:"1620"`
	DatabaseUri string `envconfig:"DATABASE_URI" default:"storehub.db"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	LogToFile   bool   `envconfig:"LOG_TO_FILE" default:"true"`
	BaseUrl     string `envconfig:"BASE_URL"`
	FrontendUrl string `envconfig:"FRONTEND_URL"`

	LogDBQueries bool `envconfig:"LOG_DB_QUERIES" default:"false"`

	// Reference sha256 digest (hex) of the admin secret. This is a UX gate
	// for the admin mode, not a security boundary: anyone with access to the
	// deployment config can read it.
	AdminPasswordHash string `envconfig:"ADMIN_PASSWORD_HASH"`

	// JWT secret for API sessions. Generated at startup when empty, which
	// invalidates tokens across restarts.
	JWTSecret string `envconfig:"JWT_SECRET"`

	GithubAPIBaseUrl   string `envconfig:"GITHUB_API_BASE_URL" default:"https://api.github.com"`
	GithubToken        string `envconfig:"GITHUB_TOKEN"`
	CatalogRepoOwner   string `envconfig:"CATALOG_REPO_OWNER" default:"flokiorg"`
	CatalogRepoName    string `envconfig:"CATALOG_REPO_NAME" default:"lokihub-store"`
	CatalogRepoBranch  string `envconfig:"CATALOG_REPO_BRANCH" default:"main"`
	CatalogFilePath    string `envconfig:"CATALOG_FILE_PATH" default:"apps.json"`
	CatalogAuthorName  string `envconfig:"CATALOG_AUTHOR_NAME" default:"storehub"`
	CatalogAuthorEmail string `envconfig:"CATALOG_AUTHOR_EMAIL" default:"storehub@flokiorg.github.io"`
}

func (c *AppConfig) GetBaseFrontendUrl() string {
	url := c.FrontendUrl
	if url == "" {
		url = c.BaseUrl
	}
	return url
}

type Config interface {
	GetEnv() *AppConfig
	GetJWTSecret() string
	GetAdminPasswordHash() string
	GetDefaultWorkDir() string
}
