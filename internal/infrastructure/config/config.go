package config

import (
	"encoding/base64"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr     string
	BookingURL   string
	BookingToken string
	DatabaseURL  string // optional; enables the submission log

	SessionHashKey  []byte // base64
	SessionBlockKey []byte // base64

	NoticeTTL time.Duration

	DevMode bool
}

func FromEnv() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		HTTPAddr:     envDefault("HTTP_ADDR", ":8080"),
		BookingURL:   strings.TrimSpace(os.Getenv("BOOKING_API_URL")),
		BookingToken: strings.TrimSpace(os.Getenv("BOOKING_API_TOKEN")),
		DatabaseURL:  strings.TrimSpace(os.Getenv("DATABASE_URL")),
		DevMode:      strings.TrimSpace(os.Getenv("DEV_MODE")) == "1",
	}
	if cfg.BookingURL == "" {
		return cfg, fmt.Errorf("BOOKING_API_URL is required")
	}

	ttlSec, err := strconv.Atoi(envDefault("NOTICE_TTL_SECONDS", "6"))
	if err != nil || ttlSec < 1 {
		return cfg, fmt.Errorf("invalid NOTICE_TTL_SECONDS")
	}
	cfg.NoticeTTL = time.Duration(ttlSec) * time.Second

	// Session keys are only needed by the web surface; the server command
	// checks for them. The CLI booking path runs without cookies.
	cfg.SessionHashKey, err = optionalB64("SESSION_HASH_KEY")
	if err != nil {
		return cfg, err
	}
	cfg.SessionBlockKey, err = optionalB64("SESSION_BLOCK_KEY")
	if err != nil {
		return cfg, err
	}
	return cfg, nil
}

// HasSessionKeys reports whether both cookie keys were supplied.
func (c Config) HasSessionKeys() bool {
	return len(c.SessionHashKey) > 0 && len(c.SessionBlockKey) > 0
}

func envDefault(k, d string) string {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return d
	}
	return v
}

func optionalB64(k string) ([]byte, error) {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return nil, nil
	}
	if b, err := base64.StdEncoding.DecodeString(v); err == nil {
		return b, nil
	}
	b, err := base64.RawStdEncoding.DecodeString(v)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", k, err)
	}
	return b, nil
}
