package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/jask/rowshift/internal/policy"
	"github.com/jask/rowshift/internal/table"
)

// Config holds application configuration.
type Config struct {
	Database DatabaseConfig
	Behavior BehaviorConfig
	Rows     RowsConfig
	Handles  HandlesConfig
	UI       UIConfig
	Debug    DebugConfig
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string
}

// BehaviorConfig tunes pointer gestures.
type BehaviorConfig struct {
	DragSensitivity      int  `mapstructure:"drag_sensitivity"`
	AutoscrollGutter     int  `mapstructure:"autoscroll_gutter"`
	EnableUnselectedDrag bool `mapstructure:"enable_unselected_drag"`
}

// RowsConfig holds the whitelist/blacklist selectors for each capability.
type RowsConfig struct {
	Selectable    []string
	NotSelectable []string `mapstructure:"not_selectable"`
	Draggable     []string
	NotDraggable  []string `mapstructure:"not_draggable"`
	Droppable     []string
	NotDroppable  []string `mapstructure:"not_droppable"`
}

// HandlesConfig chooses which part of a row selects and which starts a drag.
type HandlesConfig struct {
	Select string
	Drag   string
}

// UIConfig holds presentation settings.
type UIConfig struct {
	CellHeight int `mapstructure:"cell_height"`
	Tables     []string
}

// DebugConfig holds diagnostics settings.
type DebugConfig struct {
	LogFile string `mapstructure:"log_file"`
}

const (
	HandleAll   = "all"
	HandleCells = "cells"
	HandleGrip  = "grip"
	HandleNone  = "none"
)

// Dir is the directory holding config.toml and keybindings.toml.
func Dir() string {
	if p := os.Getenv("ROWSHIFT_CONFIG"); p != "" {
		return filepath.Dir(p)
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "rowshift")
}

// Path is the config file: ROWSHIFT_CONFIG, or config.toml in Dir.
func Path() string {
	if p := os.Getenv("ROWSHIFT_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(Dir(), "config.toml")
}

// Load reads configuration from file and env. Env var overrides use prefix ROWSHIFT_.
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("database.path", filepath.Join(os.Getenv("HOME"), ".local", "share", "rowshift", "rowshift.db"))
	v.SetDefault("behavior.drag_sensitivity", 10)
	v.SetDefault("behavior.autoscroll_gutter", 10)
	v.SetDefault("behavior.enable_unselected_drag", false)
	v.SetDefault("rows.selectable", []string{"*"})
	v.SetDefault("rows.not_selectable", []string{"noselect"})
	v.SetDefault("rows.draggable", []string{"*"})
	v.SetDefault("rows.not_draggable", []string{"nodrag"})
	v.SetDefault("rows.droppable", []string{"*"})
	v.SetDefault("rows.not_droppable", []string{"nodrop"})
	v.SetDefault("handles.select", HandleCells)
	v.SetDefault("handles.drag", HandleGrip)
	v.SetDefault("ui.cell_height", 16)
	v.SetDefault("ui.tables", []string{})
	v.SetDefault("debug.log_file", "")

	v.SetConfigType("toml")

	cfgPath := os.Getenv("ROWSHIFT_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(Dir())
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("ROWSHIFT")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks selector syntax and handle names.
func (c Config) Validate() error {
	if _, err := c.Filters(); err != nil {
		return err
	}
	for key, val := range map[string]string{"handles.select": c.Handles.Select, "handles.drag": c.Handles.Drag} {
		switch val {
		case HandleAll, HandleCells, HandleGrip, HandleNone:
		default:
			return fmt.Errorf("%s: unknown handle %q", key, val)
		}
	}
	if c.Behavior.DragSensitivity < 0 || c.Behavior.AutoscrollGutter < 0 {
		return fmt.Errorf("behavior: sensitivity and gutter must not be negative")
	}
	if c.UI.CellHeight <= 0 {
		return fmt.Errorf("ui.cell_height must be positive")
	}
	return nil
}

// Filters builds the row capability filters.
func (c Config) Filters() (policy.Filters, error) {
	var f policy.Filters
	var err error
	if f.Selectable, err = policy.NewPair(c.Rows.Selectable, c.Rows.NotSelectable); err != nil {
		return f, fmt.Errorf("rows.selectable: %w", err)
	}
	if f.Draggable, err = policy.NewPair(c.Rows.Draggable, c.Rows.NotDraggable); err != nil {
		return f, fmt.Errorf("rows.draggable: %w", err)
	}
	if f.Droppable, err = policy.NewPair(c.Rows.Droppable, c.Rows.NotDroppable); err != nil {
		return f, fmt.Errorf("rows.droppable: %w", err)
	}
	return f, nil
}

// TableBehavior converts the behavior section for the table package.
func (c Config) TableBehavior() table.Behavior {
	return table.Behavior{
		DragSensitivity:      c.Behavior.DragSensitivity,
		AutoscrollGutter:     c.Behavior.AutoscrollGutter,
		EnableUnselectedDrag: c.Behavior.EnableUnselectedDrag,
	}
}

// Save writes the provided config to disk, creating the config directory if needed.
func Save(cfg Config) error {
	path := Path()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("database.path", cfg.Database.Path)
	v.Set("behavior.drag_sensitivity", cfg.Behavior.DragSensitivity)
	v.Set("behavior.autoscroll_gutter", cfg.Behavior.AutoscrollGutter)
	v.Set("behavior.enable_unselected_drag", cfg.Behavior.EnableUnselectedDrag)
	v.Set("rows.selectable", cfg.Rows.Selectable)
	v.Set("rows.not_selectable", cfg.Rows.NotSelectable)
	v.Set("rows.draggable", cfg.Rows.Draggable)
	v.Set("rows.not_draggable", cfg.Rows.NotDraggable)
	v.Set("rows.droppable", cfg.Rows.Droppable)
	v.Set("rows.not_droppable", cfg.Rows.NotDroppable)
	v.Set("handles.select", cfg.Handles.Select)
	v.Set("handles.drag", cfg.Handles.Drag)
	v.Set("ui.cell_height", cfg.UI.CellHeight)
	v.Set("ui.tables", cfg.UI.Tables)
	v.Set("debug.log_file", cfg.Debug.LogFile)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
