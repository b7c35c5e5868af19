package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jask/rowshift/internal/table"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("ROWSHIFT_CONFIG", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := cfg.TableBehavior(); got != table.DefaultBehavior() {
		t.Fatalf("behavior = %+v, want %+v", got, table.DefaultBehavior())
	}
	if cfg.Handles.Select != HandleCells || cfg.Handles.Drag != HandleGrip {
		t.Fatalf("handles = %+v", cfg.Handles)
	}
	if cfg.UI.CellHeight != 16 {
		t.Fatalf("cell height = %d, want 16", cfg.UI.CellHeight)
	}
	if len(cfg.Rows.NotDraggable) != 1 || cfg.Rows.NotDraggable[0] != "nodrag" {
		t.Fatalf("not_draggable = %v", cfg.Rows.NotDraggable)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	path := writeConfig(t, `
[behavior]
drag_sensitivity = 4
enable_unselected_drag = true

[rows]
not_draggable = ["nodrag", "@selected"]

[handles]
select = "all"
drag = "none"
`)
	t.Setenv("ROWSHIFT_CONFIG", path)
	t.Setenv("ROWSHIFT_BEHAVIOR_AUTOSCROLL_GUTTER", "3")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	b := cfg.TableBehavior()
	if b.DragSensitivity != 4 || b.AutoscrollGutter != 3 || !b.EnableUnselectedDrag {
		t.Fatalf("behavior = %+v", b)
	}
	if cfg.Handles.Select != HandleAll || cfg.Handles.Drag != HandleNone {
		t.Fatalf("handles = %+v", cfg.Handles)
	}
	if _, err := cfg.Filters(); err != nil {
		t.Fatalf("Filters: %v", err)
	}
}

func TestLoadRejectsBadSelector(t *testing.T) {
	path := writeConfig(t, `
[rows]
not_droppable = ["tr.nodrop:first"]
`)
	t.Setenv("ROWSHIFT_CONFIG", path)
	if _, err := Load(); err == nil {
		t.Fatal("expected selector error")
	}
}

func TestLoadRejectsUnknownHandle(t *testing.T) {
	path := writeConfig(t, `
[handles]
drag = "handlebar"
`)
	t.Setenv("ROWSHIFT_CONFIG", path)
	if _, err := Load(); err == nil {
		t.Fatal("expected handle error")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	t.Setenv("ROWSHIFT_CONFIG", path)
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	cfg.Behavior.DragSensitivity = 7
	cfg.UI.Tables = []string{"demo"}
	if err := Save(cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := Load()
	if err != nil {
		t.Fatalf("Load after save: %v", err)
	}
	if got.Behavior.DragSensitivity != 7 {
		t.Fatalf("drag sensitivity = %d, want 7", got.Behavior.DragSensitivity)
	}
	if len(got.UI.Tables) != 1 || got.UI.Tables[0] != "demo" {
		t.Fatalf("tables = %v", got.UI.Tables)
	}
}

func TestParseKeybindings(t *testing.T) {
	items, err := ParseKeybindings([]byte(`
[[binding]]
scope = "table"
action = "enter"
keys = ["o"]
`))
	if err != nil {
		t.Fatalf("ParseKeybindings: %v", err)
	}
	if len(items) != 1 || items[0].Action != "enter" || items[0].Keys[0] != "o" {
		t.Fatalf("items = %+v", items)
	}

	if _, err := ParseKeybindings([]byte(`
[[binding]]
scope = "table"
action = "enter"
`)); err == nil {
		t.Fatal("expected missing keys error")
	}
}

func TestLoadKeybindingsMissingFile(t *testing.T) {
	items, err := LoadKeybindings(filepath.Join(t.TempDir(), "none.toml"))
	if err != nil || items != nil {
		t.Fatalf("LoadKeybindings = %v, %v; want nil, nil", items, err)
	}
}

func TestSaveKeybindingsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "keybindings.toml")
	want := []Keybinding{
		{Scope: "global", Action: "quit", Keys: []string{"q", "ctrl+c"}},
		{Scope: "table", Action: "enter", Keys: []string{"enter", "o"}},
	}
	if err := SaveKeybindings(path, want); err != nil {
		t.Fatalf("SaveKeybindings: %v", err)
	}
	got, err := LoadKeybindings(path)
	if err != nil {
		t.Fatalf("LoadKeybindings: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("items = %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i].Scope != want[i].Scope || got[i].Action != want[i].Action || strings.Join(got[i].Keys, ",") != strings.Join(want[i].Keys, ",") {
			t.Fatalf("item %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestPathFollowsEnv(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("ROWSHIFT_CONFIG", "")
	if got, want := Path(), filepath.Join(home, ".config", "rowshift", "config.toml"); got != want {
		t.Fatalf("Path = %q, want %q", got, want)
	}
	t.Setenv("ROWSHIFT_CONFIG", "/tmp/x/rs.toml")
	if got := Path(); got != "/tmp/x/rs.toml" {
		t.Fatalf("Path = %q", got)
	}
	if got := KeybindingsPath(); got != "/tmp/x/keybindings.toml" {
		t.Fatalf("KeybindingsPath = %q", got)
	}
}
