package config

import (
	"crypto/rsa"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr     string
	DatabaseURL  string
	LogLevel     string
	CookieDomain string

	AccessKey     *rsa.PrivateKey
	RefreshSecret []byte

	KafkaBrokers []string
	BcryptCost   int
}

func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	cfg := &Config{
		HTTPAddr:      getenv("HTTP_ADDR", ":8080"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		LogLevel:      getenv("LOG_LEVEL", "info"),
		CookieDomain:  getenv("COOKIE_DOMAIN", "localhost"),
		RefreshSecret: []byte(os.Getenv("REFRESH_SECRET")),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("missing required env DATABASE_URL")
	}
	if len(cfg.RefreshSecret) == 0 {
		return nil, fmt.Errorf("missing required env REFRESH_SECRET")
	}

	key, err := loadAccessKey()
	if err != nil {
		return nil, err
	}
	cfg.AccessKey = key

	if addr := os.Getenv("KAFKA_ADDRESS"); addr != "" {
		cfg.KafkaBrokers = strings.Split(addr, ",")
	}

	if raw := os.Getenv("BCRYPT_COST"); raw != "" {
		cost, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid BCRYPT_COST %q: %w", raw, err)
		}
		cfg.BcryptCost = cost
	}

	return cfg, nil
}

// loadAccessKey reads the RSA signing key for access tokens, either inline
// from ACCESS_PRIVATE_KEY or from the file named by ACCESS_PRIVATE_KEY_FILE.
func loadAccessKey() (*rsa.PrivateKey, error) {
	pemData := []byte(os.Getenv("ACCESS_PRIVATE_KEY"))
	if len(pemData) == 0 {
		path := os.Getenv("ACCESS_PRIVATE_KEY_FILE")
		if path == "" {
			return nil, fmt.Errorf("missing required env ACCESS_PRIVATE_KEY or ACCESS_PRIVATE_KEY_FILE")
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read access key file: %w", err)
		}
		pemData = data
	}

	key, err := jwt.ParseRSAPrivateKeyFromPEM(pemData)
	if err != nil {
		return nil, fmt.Errorf("parse access key: %w", err)
	}
	return key, nil
}

func getenv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
