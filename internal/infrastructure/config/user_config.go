package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// UserConfig is what the client remembers between runs besides the session.
// The token lives in the session store, never here.
type UserConfig struct {
	LastUsername string `json:"last_username,omitempty"`
	LastGalaxy   int    `json:"last_galaxy,omitempty"`
	LastSystem   int    `json:"last_system,omitempty"`
}

// UserConfigHandler reads and rewrites the preferences file. The dashboard
// and a one-shot command may both write it, so every save replaces the file
// through a rename.
type UserConfigHandler struct {
	mu   sync.Mutex
	path string
}

func NewUserConfigHandler() (*UserConfigHandler, error) {
	dir, err := StateDir()
	if err != nil {
		return nil, fmt.Errorf("locate state directory: %w", err)
	}
	return NewUserConfigHandlerAt(filepath.Join(dir, "preferences.json"))
}

func NewUserConfigHandlerAt(path string) (*UserConfigHandler, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create preferences directory: %w", err)
	}
	return &UserConfigHandler{path: path}, nil
}

// Load returns empty preferences when the file does not exist yet.
func (h *UserConfigHandler) Load() (*UserConfig, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.read()
}

func (h *UserConfigHandler) read() (*UserConfig, error) {
	prefs := &UserConfig{}
	data, err := os.ReadFile(h.path)
	if errors.Is(err, fs.ErrNotExist) {
		return prefs, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read preferences: %w", err)
	}
	if err := json.Unmarshal(data, prefs); err != nil {
		return nil, fmt.Errorf("parse preferences %s: %w", h.path, err)
	}
	return prefs, nil
}

func (h *UserConfigHandler) update(change func(*UserConfig)) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	prefs, err := h.read()
	if err != nil {
		return err
	}
	change(prefs)

	data, err := json.MarshalIndent(prefs, "", "  ")
	if err != nil {
		return fmt.Errorf("encode preferences: %w", err)
	}
	tmp := h.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write preferences: %w", err)
	}
	if err := os.Rename(tmp, h.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("write preferences: %w", err)
	}
	return nil
}

// SetLastUsername prefills the login form next time.
func (h *UserConfigHandler) SetLastUsername(username string) error {
	return h.update(func(p *UserConfig) { p.LastUsername = username })
}

// SetLastSystem reopens the galaxy view where the commander left it.
func (h *UserConfigHandler) SetLastSystem(galaxy, system int) error {
	return h.update(func(p *UserConfig) {
		p.LastGalaxy = galaxy
		p.LastSystem = system
	})
}

func (h *UserConfigHandler) GetConfigPath() string {
	return h.path
}
