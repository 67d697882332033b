package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/yosuke-furukawa/json5/encoding/json5"
)

const (
	DirName         = "jobassist"
	ConfigFileName  = "config.json"
	ProxiesFileName = "proxies.txt"
)

// Config contains the jobs API credentials and default search settings.
type Config struct {
	APIKey          string   `json:"api_key"`
	Provider        string   `json:"provider"`
	Endpoint        string   `json:"endpoint,omitempty"`
	Language        string   `json:"language,omitempty"`
	DefaultLocation string   `json:"default_location"`
	JobsPerPlatform int      `json:"jobs_per_platform"`
	Recency         string   `json:"recency"`
	Platforms       []string `json:"platforms"`
	TimeoutSeconds  int      `json:"timeout_seconds"`
}

func DefaultConfig() Config {
	return Config{
		APIKey:          envString("JOBASSIST_API_KEY", envString("SERPAPI_API_KEY", "")),
		Provider:        envString("JOBASSIST_PROVIDER", "scrapingdog"),
		Endpoint:        envString("JOBASSIST_ENDPOINT", ""),
		Language:        envString("JOBASSIST_LANGUAGE", ""),
		DefaultLocation: envString("JOBASSIST_DEFAULT_LOCATION", ""),
		JobsPerPlatform: envInt("JOBASSIST_JOBS_PER_PLATFORM", 5),
		Recency:         envString("JOBASSIST_RECENCY", "1 week"),
		Platforms:       envList("JOBASSIST_PLATFORMS", []string{"LinkedIn", "Indeed", "Glassdoor", "ZipRecruiter"}),
		TimeoutSeconds:  envInt("JOBASSIST_TIMEOUT_SECONDS", 30),
	}
}

func ConfigDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, DirName), nil
}

func ConfigPath() (string, error) {
	if path := strings.TrimSpace(os.Getenv("JOBASSIST_CONFIG")); path != "" {
		return path, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName), nil
}

func ProxiesPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ProxiesFileName), nil
}

// Load reads the config file at the default path over env defaults.
func Load() (Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), err
	}
	return LoadFrom(path)
}

// LoadFrom reads a json5 config file. A missing or blank file yields the
// defaults. Keys absent from the file keep their default values.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return cfg, nil
	}

	if err := json5.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects values that would break a search.
func (c Config) Validate() error {
	if c.JobsPerPlatform < 0 {
		return fmt.Errorf("jobs_per_platform must not be negative, got %d", c.JobsPerPlatform)
	}
	if c.TimeoutSeconds < 0 {
		return fmt.Errorf("timeout_seconds must not be negative, got %d", c.TimeoutSeconds)
	}
	return nil
}

// HasAPIKey reports whether the jobs API can be used.
func (c Config) HasAPIKey() bool {
	return strings.TrimSpace(c.APIKey) != ""
}

// Init writes default config.json and proxies.txt if they don't already exist.
func Init() ([]string, error) {
	var created []string

	dir, err := ConfigDir()
	if err != nil {
		return created, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return created, err
	}

	configPath := filepath.Join(dir, ConfigFileName)
	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		cfg := DefaultConfig()
		cfg.APIKey = ""
		if err := writeConfig(configPath, cfg); err != nil {
			return created, err
		}
		created = append(created, configPath)
	}

	proxiesPath := filepath.Join(dir, ProxiesFileName)
	if _, err := os.Stat(proxiesPath); errors.Is(err, os.ErrNotExist) {
		if err := os.WriteFile(proxiesPath, []byte(""), 0o644); err != nil {
			return created, err
		}
		created = append(created, proxiesPath)
	}

	return created, nil
}

func writeConfig(path string, cfg Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o600)
}

// LoadProxies resolves the proxy list from the flag, then JOBASSIST_PROXIES,
// then proxies.txt.
func LoadProxies(flagValue string) ([]string, error) {
	if strings.TrimSpace(flagValue) != "" {
		return splitCSV(flagValue), nil
	}

	if env := strings.TrimSpace(os.Getenv("JOBASSIST_PROXIES")); env != "" {
		return splitCSV(env), nil
	}

	path, err := ProxiesPath()
	if err != nil {
		return nil, err
	}
	return readProxiesFile(path)
}

func readProxiesFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var proxies []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		proxies = append(proxies, line)
	}
	return proxies, nil
}

func envString(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func envInt(key string, fallback int) int {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func envList(key string, fallback []string) []string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return splitCSV(val)
	}
	return fallback
}

// SplitCSV splits a comma separated flag value, dropping blanks.
func SplitCSV(value string) []string {
	return splitCSV(value)
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}
