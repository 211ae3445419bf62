// Package prefs persists per-user UI preferences as TOML. Paths are resolved
// by config; Load degrades to defaults on any read or parse problem.
package prefs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// Prefs holds user preferences for the terminal UI.
type Prefs struct {
	Theme           string `toml:"theme"`
	LastPage        string `toml:"last_page"`
	RestoreLastPage bool   `toml:"restore_last_page"`
}

// Defaults returns the preferences used when no file exists.
func Defaults() Prefs {
	return Prefs{Theme: ThemeDark, RestoreLastPage: true}
}

// Load reads preferences from path, falling back to defaults if missing or invalid.
func Load(path string) Prefs {
	p := Defaults()
	data, err := os.ReadFile(path)
	if err != nil {
		return p
	}
	if err := toml.Unmarshal(data, &p); err != nil {
		return Defaults()
	}
	p.normalize()
	return p
}

// Save writes preferences atomically, creating directories as needed.
func Save(path string, p Prefs) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("prefs path is empty")
	}
	p.normalize()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}
	data, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace prefs: %w", err)
	}
	return nil
}

// ToggleTheme flips between the dark and light palettes.
func (p Prefs) ToggleTheme() Prefs {
	if p.Theme == ThemeLight {
		p.Theme = ThemeDark
	} else {
		p.Theme = ThemeLight
	}
	return p
}

func (p *Prefs) normalize() {
	p.Theme = strings.ToLower(strings.TrimSpace(p.Theme))
	if p.Theme != ThemeLight {
		p.Theme = ThemeDark
	}
	p.LastPage = strings.TrimSpace(p.LastPage)
}
