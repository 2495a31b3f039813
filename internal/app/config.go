package app

import (
	"time"

	"github.com/yungbote/classmode-backend/internal/platform/logger"
	"github.com/yungbote/classmode-backend/internal/utils"
)

type Config struct {
	ServiceName    string
	Environment    string
	Version        string
	JWTSecretKey   string
	AccessTokenTTL time.Duration
	SweepInterval  time.Duration
}

func LoadConfig(log *logger.Logger) Config {
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTLSeconds := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	sweepIntervalSeconds := utils.GetEnvAsInt("ORPHAN_SWEEP_INTERVAL", 600, log)
	return Config{
		ServiceName:    utils.GetEnv("SERVICE_NAME", "classmode", log),
		Environment:    utils.GetEnv("ENVIRONMENT", "development", log),
		Version:        utils.GetEnv("SERVICE_VERSION", "dev", log),
		JWTSecretKey:   jwtSecretKey,
		AccessTokenTTL: time.Duration(accessTokenTTLSeconds) * time.Second,
		SweepInterval:  time.Duration(sweepIntervalSeconds) * time.Second,
	}
}
