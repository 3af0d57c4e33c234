package config

import (
	"crypto/rand"
	"encoding/hex"
	"path/filepath"

	"github.com/adrg/xdg"

	"github.com/flokiorg/storehub/logger"
)

type config struct {
	Env       *AppConfig
	jwtSecret string
}

func NewConfig(env *AppConfig) (*config, error) {
	cfg := &config{
		Env: env,
	}

	cfg.jwtSecret = env.JWTSecret
	if cfg.jwtSecret == "" {
		hexSecret, err := randomHex(32)
		if err != nil {
			logger.Logger.Error().Err(err).Msg("failed to generate JWT secret")
			return nil, err
		}
		cfg.jwtSecret = hexSecret
		logger.Logger.Info().Msg("Generated new JWT secret")
	}

	return cfg, nil
}

func (cfg *config) GetEnv() *AppConfig {
	return cfg.Env
}

func (cfg *config) GetJWTSecret() string {
	return cfg.jwtSecret
}

func (cfg *config) GetAdminPasswordHash() string {
	return cfg.Env.AdminPasswordHash
}

func (cfg *config) GetDefaultWorkDir() string {
	if cfg.Env.Workdir != "" {
		return cfg.Env.Workdir
	}
	return filepath.Join(xdg.DataHome, "storehub")
}

func randomHex(n int) (string, error) {
	bytes := make([]byte, n)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
