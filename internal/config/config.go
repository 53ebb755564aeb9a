package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds everything the process needs, resolved once at startup.
type Config struct {
	SheetID       string
	WebhookURL    string
	WebhookAPIKey string

	// Webhook contract knobs. The upstream automation engine's expectations
	// drifted over time, so both the auth header name and the payload shape
	// are pinned here rather than hardcoded.
	APIKeyHeader string
	PayloadShape string // "single" or "batch"

	Port            string
	CacheTTL        time.Duration
	PollInterval    time.Duration
	PollTimeout     time.Duration
	DispatchTimeout time.Duration

	GoogleCreds []byte
	RosterPath  string
}

const (
	defaultAPIKeyHeader = "X-API-KEY"
	defaultPayloadShape = "single"
)

// Load resolves settings from the environment first, then a secrets file
// (secrets.json, overridable via SECRETS_FILE), then — for the Google
// credentials only — a local credentials.json. Any missing required value
// is a fatal error; no partial operation is allowed.
func Load() (Config, error) {
	secrets, err := loadSecretsFile()
	if err != nil {
		return Config{}, err
	}

	lookup := func(key string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return secrets[key]
	}

	cfg := Config{
		SheetID:       lookup("SHEET_ID"),
		WebhookURL:    lookup("N8N_WEBHOOK"),
		WebhookAPIKey: lookup("N8N_API_KEY"),
		APIKeyHeader:  defaultAPIKeyHeader,
		PayloadShape:  defaultPayloadShape,
		Port:          "8080",
		RosterPath:    "input/accounts.csv",
	}

	var missing []string
	for _, req := range []struct{ key, val string }{
		{"SHEET_ID", cfg.SheetID},
		{"N8N_WEBHOOK", cfg.WebhookURL},
		{"N8N_API_KEY", cfg.WebhookAPIKey},
	} {
		if req.val == "" {
			missing = append(missing, req.key)
		}
	}
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("missing required settings: %v (set env vars or secrets.json entries)", missing)
	}

	if v := lookup("WEBHOOK_API_KEY_HEADER"); v != "" {
		cfg.APIKeyHeader = v
	}
	if v := lookup("WEBHOOK_PAYLOAD_SHAPE"); v != "" {
		if v != "single" && v != "batch" {
			return Config{}, fmt.Errorf("WEBHOOK_PAYLOAD_SHAPE must be 'single' or 'batch', got %q", v)
		}
		cfg.PayloadShape = v
	}
	if v := lookup("PORT"); v != "" {
		cfg.Port = v
	}
	if v := lookup("ACCOUNTS_ROSTER"); v != "" {
		cfg.RosterPath = v
	}

	cfg.CacheTTL, err = secondsSetting(lookup, "CACHE_TTL_SECONDS", 120)
	if err != nil {
		return Config{}, err
	}
	cfg.PollInterval, err = secondsSetting(lookup, "POLL_INTERVAL_SECONDS", 5)
	if err != nil {
		return Config{}, err
	}
	cfg.PollTimeout, err = secondsSetting(lookup, "POLL_TIMEOUT_SECONDS", 180)
	if err != nil {
		return Config{}, err
	}
	cfg.DispatchTimeout, err = secondsSetting(lookup, "DISPATCH_TIMEOUT_SECONDS", 60)
	if err != nil {
		return Config{}, err
	}

	cfg.GoogleCreds, err = loadGoogleCreds(lookup)
	if err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func loadSecretsFile() (map[string]string, error) {
	path := os.Getenv("SECRETS_FILE")
	if path == "" {
		path = "secrets.json"
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading secrets file %s: %w", path, err)
	}
	var secrets map[string]string
	if err := json.Unmarshal(data, &secrets); err != nil {
		return nil, fmt.Errorf("parsing secrets file %s: %w", path, err)
	}
	return secrets, nil
}

// loadGoogleCreds accepts either an inline service-account JSON blob or a
// path to a credentials file (default credentials.json).
func loadGoogleCreds(lookup func(string) string) ([]byte, error) {
	if blob := lookup("GOOGLE_CREDENTIALS"); blob != "" {
		if !json.Valid([]byte(blob)) {
			return nil, fmt.Errorf("GOOGLE_CREDENTIALS is not valid JSON")
		}
		return []byte(blob), nil
	}
	path := lookup("GOOGLE_CREDENTIALS_FILE")
	if path == "" {
		path = "credentials.json"
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("google credentials unavailable: set GOOGLE_CREDENTIALS or provide %s: %w", path, err)
	}
	return data, nil
}

func secondsSetting(lookup func(string) string, key string, def int) (time.Duration, error) {
	raw := lookup(key)
	if raw == "" {
		return time.Duration(def) * time.Second, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer number of seconds, got %q", key, raw)
	}
	return time.Duration(n) * time.Second, nil
}
