package config

import (
	"strings" // For splitting list values
	"time"    // Durations for timeouts and TTLs

	"github.com/ilyakaznacheev/cleanenv" // Env parsing with defaults
	"github.com/joho/godotenv"           // For loading .env files
)

// Config holds the application configuration
type Config struct {
	AppPort         string        `env:"APP_PORT" env-default:"8080"`                                     // Application port
	IsProd          bool          `env:"IS_PROD" env-default:"false"`                                     // Is production environment
	LogLevel        string        `env:"LOG_LEVEL" env-default:"info"`                                    // Logrus level name
	SecretKey       string        `env:"SECRET_KEY" env-default:"dev-change-this-key"`                    // Session signing key
	SessionTTL      time.Duration `env:"SESSION_TTL" env-default:"24h"`                                   // Session cookie lifetime
	DatabaseURL     string        `env:"DATABASE_URL" env-default:"sqlite://hospital_management.sqlite3"` // Relational store URL
	RedisAddr       string        `env:"REDIS_ADDR" env-default:"localhost:6379"`                         // Document store address
	RedisPass       string        `env:"REDIS_PASS"`                                                      // Document store password
	RedisDB         int           `env:"REDIS_DB" env-default:"0"`                                        // Document store database number
	DocStoreTimeout time.Duration `env:"DOCSTORE_TIMEOUT" env-default:"5s"`                               // Document store dial timeout
	StrokeDataPath  string        `env:"STROKE_DATA_PATH" env-default:"dataset/stroke_data.csv"`          // Dataset CSV path
	ChartsDir       string        `env:"CHARTS_DIR" env-default:"static/charts"`                          // Generated charts directory
	ActivityLimit   int           `env:"ACTIVITY_LIMIT" env-default:"50"`                                 // Audit entries shown on the activity page
	CORSOrigins     string        `env:"CORS_ALLOWED_ORIGINS" env-default:"http://localhost:8080"`        // Comma separated origins
	MaxUploadBytes  int64         `env:"MAX_UPLOAD_BYTES" env-default:"10485760"`                         // Upload size cap
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	_ = godotenv.Load() // Load .env file if present
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// AllowedOrigins splits CORSOrigins into a clean list
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
