package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"github.com/jask/rowshift/internal/config"
)

type Action string

type Binding struct {
	Action Action
	Keys   []string
	Help   string
	Scopes []string
}

type KeyRegistry struct {
	bindingsByScope map[string][]*Binding
	indexByScope    map[string]map[string]*Binding
}

const (
	scopeGlobal = "global"
	scopeTable  = "table"
	scopeSearch = "search"
)

const (
	actionQuit      Action = "quit"
	actionNextTable Action = "next_table"
	actionMoveUp    Action = "move_up"
	actionMoveDown  Action = "move_down"
	actionExtendUp  Action = "extend_up"
	actionExtendDn  Action = "extend_down"
	actionAddUp     Action = "add_up"
	actionAddDown   Action = "add_down"
	actionToggle    Action = "toggle_select"
	actionEnter     Action = "enter"
	actionClear     Action = "clear_selection"
	actionFirst     Action = "jump_top"
	actionLast      Action = "jump_bottom"
	actionAppend    Action = "append_rows"
	actionSearch    Action = "search"
	actionConfirm   Action = "confirm"
	actionCancel    Action = "cancel"
)

func NewKeyRegistry() *KeyRegistry {
	r := &KeyRegistry{
		bindingsByScope: make(map[string][]*Binding),
		indexByScope:    make(map[string]map[string]*Binding),
	}

	reg := func(scope string, action Action, keys []string, help string) {
		r.Register(Binding{Action: action, Keys: keys, Help: help, Scopes: []string{scope}})
	}

	reg(scopeGlobal, actionQuit, []string{"q", "ctrl+c"}, "quit")
	reg(scopeGlobal, actionNextTable, []string{"tab"}, "next table")

	// Plain arrows move the selected rows; modifiers grow the selection.
	reg(scopeTable, actionMoveUp, []string{"up", "k"}, "move up")
	reg(scopeTable, actionMoveDown, []string{"down", "j"}, "move down")
	reg(scopeTable, actionExtendUp, []string{"shift+up", "K"}, "extend up")
	reg(scopeTable, actionExtendDn, []string{"shift+down", "J"}, "extend down")
	reg(scopeTable, actionAddUp, []string{"ctrl+up", "ctrl+shift+up"}, "add up")
	reg(scopeTable, actionAddDown, []string{"ctrl+down", "ctrl+shift+down"}, "add down")
	reg(scopeTable, actionToggle, []string{"space", " "}, "toggle")
	reg(scopeTable, actionEnter, []string{"enter"}, "open")
	reg(scopeTable, actionClear, []string{"esc", "u"}, "clear sel")
	reg(scopeTable, actionFirst, []string{"g", "home"}, "top")
	reg(scopeTable, actionLast, []string{"G", "end"}, "bottom")
	reg(scopeTable, actionAppend, []string{"a"}, "add rows")
	reg(scopeTable, actionSearch, []string{"/"}, "jump")

	reg(scopeSearch, actionConfirm, []string{"enter"}, "jump")
	reg(scopeSearch, actionCancel, []string{"esc"}, "cancel")

	return r
}

func (r *KeyRegistry) Register(b Binding) {
	if r == nil {
		return
	}
	for _, scope := range b.Scopes {
		scope = strings.TrimSpace(scope)
		if scope == "" || len(b.Keys) == 0 {
			continue
		}
		if _, ok := r.indexByScope[scope]; !ok {
			r.indexByScope[scope] = make(map[string]*Binding)
		}
		normKeys := normalizeKeyList(b.Keys)
		if len(normKeys) == 0 || r.scopeHasAnyKey(scope, normKeys) {
			continue
		}

		copyBinding := b
		copyBinding.Keys = normKeys
		copyBinding.Scopes = []string{scope}
		r.bindingsByScope[scope] = append(r.bindingsByScope[scope], &copyBinding)
		for _, k := range copyBinding.Keys {
			r.indexByScope[scope][k] = &copyBinding
		}
	}
}

func (r *KeyRegistry) BindingsForScope(scope string) []Binding {
	if r == nil {
		return nil
	}
	items := r.bindingsByScope[scope]
	out := make([]Binding, 0, len(items))
	for _, b := range items {
		out = append(out, *b)
	}
	return out
}

// Lookup finds the binding for keyName in scope, falling back to the
// global scope.
func (r *KeyRegistry) Lookup(keyName, scope string) *Binding {
	if r == nil || keyName == "" {
		return nil
	}
	keyName = normalizeKeyName(keyName)
	if b := r.lookupInScope(keyName, scope); b != nil {
		return b
	}
	if scope != scopeGlobal {
		return r.lookupInScope(keyName, scopeGlobal)
	}
	return nil
}

func (r *KeyRegistry) HelpBindings(scope string) []key.Binding {
	items := r.BindingsForScope(scope)
	out := make([]key.Binding, 0, len(items))
	for _, b := range items {
		out = append(out, key.NewBinding(key.WithKeys(b.Keys...), key.WithHelp(b.Keys[0], b.Help)))
	}
	return out
}

// ApplyKeybindingConfig replaces the keys of existing actions. Unknown
// scopes or actions, duplicate entries and keys already bound to another
// action in the same scope are errors; the registry is left unchanged then.
func (r *KeyRegistry) ApplyKeybindingConfig(items []config.Keybinding) error {
	if r == nil || len(items) == 0 {
		return nil
	}
	type pair struct {
		scope  string
		action Action
	}
	seenPair := make(map[pair]bool)
	staged := make(map[*Binding][]string)
	for _, o := range items {
		scope := strings.TrimSpace(o.Scope)
		if scope == "" {
			return fmt.Errorf("keybinding: scope is required")
		}
		action := Action(strings.TrimSpace(o.Action))
		if action == "" {
			return fmt.Errorf("keybinding scope=%q: action is required", scope)
		}
		keys := normalizeKeyList(o.Keys)
		if len(keys) == 0 {
			return fmt.Errorf("keybinding scope=%q action=%q: keys are required", scope, action)
		}
		bindings := r.bindingsByScope[scope]
		if len(bindings) == 0 {
			return fmt.Errorf("keybinding scope=%q action=%q: unknown scope", scope, action)
		}
		var target *Binding
		for _, b := range bindings {
			if b.Action == action {
				target = b
				break
			}
		}
		if target == nil {
			return fmt.Errorf("keybinding scope=%q action=%q: unknown action in scope", scope, action)
		}
		p := pair{scope: scope, action: action}
		if seenPair[p] {
			return fmt.Errorf("keybinding scope=%q action=%q: duplicated entry", scope, action)
		}
		seenPair[p] = true
		staged[target] = keys
	}

	// Conflicts are checked against the final key sets of every scope.
	for scope, bindings := range r.bindingsByScope {
		owner := make(map[string]Action)
		for _, b := range bindings {
			keys := b.Keys
			if k, ok := staged[b]; ok {
				keys = k
			}
			for _, k := range keys {
				if other, ok := owner[k]; ok && other != b.Action {
					return fmt.Errorf("keybinding scope=%q: key %q bound to both %q and %q", scope, k, other, b.Action)
				}
				owner[k] = b.Action
			}
		}
	}

	for b, keys := range staged {
		b.Keys = keys
	}
	r.rebuildIndex()
	return nil
}

func (r *KeyRegistry) ExportKeybindingConfig() []config.Keybinding {
	if r == nil {
		return nil
	}
	var out []config.Keybinding
	for scope, bindings := range r.bindingsByScope {
		for _, b := range bindings {
			out = append(out, config.Keybinding{
				Scope:  scope,
				Action: string(b.Action),
				Keys:   append([]string(nil), b.Keys...),
			})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Scope != out[j].Scope {
			return out[i].Scope < out[j].Scope
		}
		return out[i].Action < out[j].Action
	})
	return out
}

func (r *KeyRegistry) lookupInScope(keyName, scope string) *Binding {
	if scope == "" {
		return nil
	}
	return r.indexByScope[scope][keyName]
}

func (r *KeyRegistry) scopeHasAnyKey(scope string, keys []string) bool {
	lookup := r.indexByScope[scope]
	for _, k := range keys {
		if _, exists := lookup[k]; exists {
			return true
		}
	}
	return false
}

func (r *KeyRegistry) rebuildIndex() {
	r.indexByScope = make(map[string]map[string]*Binding, len(r.bindingsByScope))
	for scope, bindings := range r.bindingsByScope {
		r.indexByScope[scope] = make(map[string]*Binding)
		for _, b := range bindings {
			for _, k := range b.Keys {
				r.indexByScope[scope][k] = b
			}
		}
	}
}

func normalizeKeyList(keys []string) []string {
	out := make([]string, 0, len(keys))
	seen := make(map[string]bool)
	for _, k := range keys {
		n := normalizeKeyName(k)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

func normalizeKeyName(k string) string {
	if k == " " {
		return "space"
	}
	trimmed := strings.TrimSpace(k)
	if trimmed == "" {
		return ""
	}
	if len(trimmed) == 1 {
		// Single uppercase runes stay distinct from their lowercase key.
		if ch := trimmed[0]; ch >= 'A' && ch <= 'Z' {
			return trimmed
		}
	}
	s := strings.ToLower(trimmed)
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "control+", "ctrl+")
	s = strings.ReplaceAll(s, "ctl+", "ctrl+")
	s = strings.ReplaceAll(s, "return", "enter")
	s = strings.ReplaceAll(s, "spacebar", "space")
	return s
}
