package config

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

const configDir = ".graphchat"
const configFile = "config.json"

// DefaultServer is used when no server has been configured.
const DefaultServer = "http://localhost:8000"

type Config struct {
	Server   string `json:"server,omitempty"`
	ThreadID string `json:"thread_id,omitempty"`
	DarkMode bool   `json:"dark_mode,omitempty"`
	Profile  string `json:"-"`
}

func configPath(profile string) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot find home directory: %w", err)
	}
	filename := configFile
	if profile != "" {
		filename = fmt.Sprintf("config-%s.json", profile)
	}
	return filepath.Join(home, configDir, filename), nil
}

func Load(profile string) (*Config, error) {
	path, err := configPath(profile)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{Profile: profile}, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.Profile = profile
	return &cfg, nil
}

func (c *Config) Save() error {
	path, err := configPath(c.Profile)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// ServerOrDefault resolves the chat server URL.
func (c *Config) ServerOrDefault() string {
	if c.Server != "" {
		return c.Server
	}
	return DefaultServer
}

// EnsureThreadID returns the active thread, minting and persisting one the
// first time a conversation starts.
func (c *Config) EnsureThreadID() (string, error) {
	if c.ThreadID != "" {
		return c.ThreadID, nil
	}
	c.ThreadID = NewThreadID()
	if err := c.Save(); err != nil {
		return "", err
	}
	return c.ThreadID, nil
}

// SetThreadID switches the active thread and persists the choice.
func (c *Config) SetThreadID(id string) error {
	c.ThreadID = id
	return c.Save()
}

// SetDarkMode persists the theme preference.
func (c *Config) SetDarkMode(on bool) error {
	c.DarkMode = on
	return c.Save()
}

// NewThreadID mints a fresh conversation identifier.
func NewThreadID() string {
	id, err := uuid.NewRandom()
	if err != nil {
		return fmt.Sprintf("thread-%d-%06d", time.Now().UnixNano(), rand.Intn(1000000))
	}
	return id.String()
}

func ListProfiles() ([]string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("cannot find home directory: %w", err)
	}
	dir := filepath.Join(home, configDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading config directory: %w", err)
	}
	var profiles []string
	for _, e := range entries {
		name := e.Name()
		if name == configFile {
			profiles = append(profiles, "default")
			continue
		}
		if strings.HasPrefix(name, "config-") && strings.HasSuffix(name, ".json") {
			profiles = append(profiles, strings.TrimSuffix(strings.TrimPrefix(name, "config-"), ".json"))
		}
	}
	return profiles, nil
}

func ProfileName(profile string) string {
	if profile == "" {
		return "default"
	}
	return profile
}
