package config

import (
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	applog "storefront/internal/log"
)

type Config struct {
	Port           string
	APIURL         string
	DBDSN          string
	UploadDir      string
	LogFile        string
	Secret         string
	TokenTTL       time.Duration
	BodyLimit      int
	LoginRateLimit int
	SeedDemo       bool
}

// Load reads .env (if any) and then the process environment.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		applog.Warn("config.dotenv", err, nil)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}
	api := os.Getenv("API_URL")
	if api == "" {
		api = "/api/v1"
	}
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		dsn = "storefront.db"
	}
	uploads := os.Getenv("UPLOAD_DIR")
	if uploads == "" {
		uploads = "./public/uploads"
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = os.Getenv("secret")
	}
	if secret == "" {
		// tokens will not survive a restart
		applog.Warn("config.secret.missing", nil, nil)
		secret = uuid.NewString()
	}

	cfg := Config{
		Port:           port,
		APIURL:         api,
		DBDSN:          dsn,
		UploadDir:      uploads,
		LogFile:        os.Getenv("LOG_FILE"),
		Secret:         secret,
		TokenTTL:       durationEnv("TOKEN_TTL", 24*time.Hour),
		BodyLimit:      intEnv("BODY_LIMIT_MB", 10) << 20,
		LoginRateLimit: intEnv("LOGIN_RATE_LIMIT", 5),
		SeedDemo:       boolEnv("SEED_DEMO", false),
	}
	applog.Info(nil, "config.loaded", map[string]any{
		"port":       cfg.Port,
		"api_url":    cfg.APIURL,
		"db_dsn":     cfg.DBDSN,
		"upload_dir": cfg.UploadDir,
		"log_file":   cfg.LogFile,
		"token_ttl":  cfg.TokenTTL.String(),
		"seed_demo":  cfg.SeedDemo,
	})
	return cfg
}

func intEnv(key string, def int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return def
	}
	return v
}

func boolEnv(key string, def bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return def
	}
	return v
}

func durationEnv(key string, def time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil || v <= 0 {
		return def
	}
	return v
}
