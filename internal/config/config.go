package config

import (
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration (env + Viper).
type Config struct {
	Env          string
	Port         string
	DatabaseURL  string
	RedisURL     string
	OwnerKeyHash string // bcrypt hash of the operator key presented on owner-only routes
	OwnerAddress string // cash account credited by withdraw-all-funds
}

// Load loads config from env and optional .env file.
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	port := viper.GetString("PORT")
	if port == "" {
		port = "8080"
	}
	env := viper.GetString("APP_ENV")
	if env == "" {
		env = "development"
	}

	dbURL := viper.GetString("DATABASE_URL_DEV")
	if env == "production" {
		dbURL = viper.GetString("DATABASE_URL_PROD")
	} else if env == "test" {
		dbURL = viper.GetString("DATABASE_URL_TEST")
	}
	if dbURL == "" {
		dbURL = os.Getenv("DATABASE_URL")
	}

	return &Config{
		Env:          env,
		Port:         port,
		DatabaseURL:  dbURL,
		RedisURL:     viper.GetString("REDIS_URL"),
		OwnerKeyHash: viper.GetString("OWNER_KEY_HASH"),
		OwnerAddress: ownerAddress(viper.GetString("OWNER_ADDRESS")),
	}, nil
}

func ownerAddress(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "owner"
	}
	return s
}
