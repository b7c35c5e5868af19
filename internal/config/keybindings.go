package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Keybinding overrides the keys of one action within a scope.
type Keybinding struct {
	Scope  string   `toml:"scope"`
	Action string   `toml:"action"`
	Keys   []string `toml:"keys"`
}

type keybindingsFile struct {
	Binding []Keybinding `toml:"binding"`
}

// KeybindingsPath is keybindings.toml in the config directory.
func KeybindingsPath() string {
	return filepath.Join(Dir(), "keybindings.toml")
}

// LoadKeybindings reads overrides from path. A missing file yields none.
func LoadKeybindings(path string) ([]Keybinding, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read keybindings: %w", err)
	}
	return ParseKeybindings(data)
}

// ParseKeybindings parses [[binding]] entries.
func ParseKeybindings(data []byte) ([]Keybinding, error) {
	var f keybindingsFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse keybindings.toml: %w", err)
	}
	for i, b := range f.Binding {
		if b.Scope == "" || b.Action == "" {
			return nil, fmt.Errorf("binding[%d]: scope and action are required", i)
		}
		if len(b.Keys) == 0 {
			return nil, fmt.Errorf("binding[%d] %s/%s: keys are required", i, b.Scope, b.Action)
		}
	}
	return f.Binding, nil
}

// SaveKeybindings writes items to path as [[binding]] entries.
func SaveKeybindings(path string, items []Keybinding) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write keybindings: %w", err)
	}
	if err := toml.NewEncoder(f).Encode(keybindingsFile{Binding: items}); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode keybindings: %w", err)
	}
	return f.Close()
}
