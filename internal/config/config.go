package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	AppName               = "taskdeck"
	DefaultConfigFileName = "config.toml"
	EnvConfigPath         = "TASKDECK_CONFIG"

	RemovalDeep    = "deep"
	RemovalShallow = "shallow"
)

type Keymap struct {
	Quit      string `toml:"quit"`
	Add       string `toml:"add"`
	Undo      string `toml:"undo"`
	Redo      string `toml:"redo"`
	Remove    string `toml:"remove"`
	Edit      string `toml:"edit"`
	Up        string `toml:"up"`
	Down      string `toml:"down"`
	Confirm   string `toml:"confirm"`
	Cancel    string `toml:"cancel"`
	NextField string `toml:"next_field"`
	PrevField string `toml:"prev_field"`
}

type Category struct {
	Name     string     `toml:"name"`
	Children []Category `toml:"children,omitempty"`
}

type Config struct {
	JournalPath string     `toml:"journal_path"`
	LogFile     string     `toml:"log_file"`
	LogLevel    string     `toml:"log_level"`
	LogFormat   string     `toml:"log_format"`
	RootName    string     `toml:"root_name"`
	Indent      int        `toml:"indent"`
	TreeRemoval string     `toml:"tree_removal"`
	Categories  []Category `toml:"categories"`
	Keys        Keymap     `toml:"keys"`
}

// ResolveConfigPath picks $TASKDECK_CONFIG, then the XDG config dir, then
// ~/.config, then the working directory.
func ResolveConfigPath() string {
	if p := strings.TrimSpace(os.Getenv(EnvConfigPath)); p != "" {
		return p
	}
	if xdg := strings.TrimSpace(os.Getenv("XDG_CONFIG_HOME")); xdg != "" {
		return filepath.Join(xdg, AppName, DefaultConfigFileName)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config", AppName, DefaultConfigFileName)
	}
	return DefaultConfigFileName
}

func LoadOrCreate(path string) (Config, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		cfg := Default()
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return cfg, nil
	}

	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		return Default(), err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.normalize()
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	switch c.TreeRemoval {
	case RemovalDeep, RemovalShallow:
	default:
		return fmt.Errorf("tree_removal must be %q or %q, got %q", RemovalDeep, RemovalShallow, c.TreeRemoval)
	}
	if c.Indent < 0 {
		return fmt.Errorf("indent must not be negative, got %d", c.Indent)
	}
	return nil
}

// normalize fills fields a hand-edited file may have left empty.
func (c *Config) normalize() {
	def := Default()
	if c.RootName == "" {
		c.RootName = def.RootName
	}
	if c.Indent == 0 {
		c.Indent = def.Indent
	}
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
	if c.LogFormat == "" {
		c.LogFormat = def.LogFormat
	}
	if c.Categories == nil {
		c.Categories = def.Categories
	}
	c.TreeRemoval = strings.ToLower(strings.TrimSpace(c.TreeRemoval))
	if c.TreeRemoval == "" {
		c.TreeRemoval = def.TreeRemoval
	}
	k := &c.Keys
	fill := func(dst *string, v string) {
		if *dst == "" {
			*dst = v
		}
	}
	fill(&k.Quit, def.Keys.Quit)
	fill(&k.Add, def.Keys.Add)
	fill(&k.Undo, def.Keys.Undo)
	fill(&k.Redo, def.Keys.Redo)
	fill(&k.Remove, def.Keys.Remove)
	fill(&k.Edit, def.Keys.Edit)
	fill(&k.Up, def.Keys.Up)
	fill(&k.Down, def.Keys.Down)
	fill(&k.Confirm, def.Keys.Confirm)
	fill(&k.Cancel, def.Keys.Cancel)
	fill(&k.NextField, def.Keys.NextField)
	fill(&k.PrevField, def.Keys.PrevField)
}

func write(path string, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func Default() Config {
	return Config{
		JournalPath: "",
		LogFile:     "",
		LogLevel:    "info",
		LogFormat:   "text",
		RootName:    "Tasks",
		Indent:      4,
		TreeRemoval: RemovalDeep,
		Categories: []Category{
			{Name: "Work"},
			{Name: "Personal"},
			{Name: "Studies"},
		},
		Keys: Keymap{
			Quit:      "q",
			Add:       "a",
			Undo:      "u",
			Redo:      "ctrl+r",
			Remove:    "d",
			Edit:      "e",
			Up:        "k",
			Down:      "j",
			Confirm:   "enter",
			Cancel:    "esc",
			NextField: "tab",
			PrevField: "shift+tab",
		},
	}
}
