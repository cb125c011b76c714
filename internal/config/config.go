package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	AppName               = "taskdeck"
	DefaultConfigFileName = "config.toml"
	DefaultDBName         = "todo.db"
	DefaultLogName        = "taskdeck.log"

	// EnvConfigPath overrides the config file location.
	EnvConfigPath = "TASKDECK_CONFIG"
)

type Keymap struct {
	Quit           string `toml:"quit"`
	Add            string `toml:"add"`
	Up             string `toml:"up"`
	Down           string `toml:"down"`
	Left           string `toml:"left"`
	Right          string `toml:"right"`
	Toggle         string `toml:"toggle"`
	Delete         string `toml:"delete"`
	Edit           string `toml:"edit"`
	Confirm        string `toml:"confirm"`
	Cancel         string `toml:"cancel"`
	SortCycle      string `toml:"sort_cycle"`
	SortDirection  string `toml:"sort_direction"`
	SwitchView     string `toml:"switch_view"`
	NextCategory   string `toml:"next_category"`
	AddCategory    string `toml:"add_category"`
	EditCategory   string `toml:"edit_category"`
	ToggleVisible  string `toml:"toggle_visible"`
	ToggleAllShown string `toml:"toggle_all_visible"`
	PrevMonth      string `toml:"prev_month"`
	NextMonth      string `toml:"next_month"`
	MoveHere       string `toml:"move_here"`
	NextDayTask    string `toml:"next_day_task"`
	PrevDayTask    string `toml:"prev_day_task"`
	Theme          string `toml:"theme"`
}

type Config struct {
	DBPath           string `toml:"db_path"`
	LogPath          string `toml:"log_path"`
	LogLevel         string `toml:"log_level"`
	DefaultSort      string `toml:"default_sort"`
	DefaultDirection string `toml:"default_direction"`
	Locale           string `toml:"locale"`
	Keys             Keymap `toml:"keys"`
}

// ResolveConfigPath returns $TASKDECK_CONFIG when set, otherwise
// config.toml under the user config directory, falling back to the working
// directory when that cannot be determined.
func ResolveConfigPath() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return DefaultConfigFileName
	}
	return filepath.Join(dir, AppName, DefaultConfigFileName)
}

// LoadOrCreate reads the config at path, writing the defaults there first
// if the file does not exist. Relative db and log paths are resolved
// against the config file's directory.
func LoadOrCreate(path string) (Config, error) {
	cfg := defaultConfig()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return cfg.resolve(filepath.Dir(path)), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.fillDefaults(defaultConfig())
	return cfg.resolve(filepath.Dir(path)), nil
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

func (c *Config) fillDefaults(d Config) {
	orDefault(&c.DBPath, d.DBPath)
	orDefault(&c.LogPath, d.LogPath)
	orDefault(&c.LogLevel, d.LogLevel)
	orDefault(&c.DefaultSort, d.DefaultSort)
	orDefault(&c.DefaultDirection, d.DefaultDirection)
	orDefault(&c.Locale, d.Locale)

	k, dk := &c.Keys, d.Keys
	orDefault(&k.Quit, dk.Quit)
	orDefault(&k.Add, dk.Add)
	orDefault(&k.Up, dk.Up)
	orDefault(&k.Down, dk.Down)
	orDefault(&k.Left, dk.Left)
	orDefault(&k.Right, dk.Right)
	orDefault(&k.Toggle, dk.Toggle)
	orDefault(&k.Delete, dk.Delete)
	orDefault(&k.Edit, dk.Edit)
	orDefault(&k.Confirm, dk.Confirm)
	orDefault(&k.Cancel, dk.Cancel)
	orDefault(&k.SortCycle, dk.SortCycle)
	orDefault(&k.SortDirection, dk.SortDirection)
	orDefault(&k.SwitchView, dk.SwitchView)
	orDefault(&k.NextCategory, dk.NextCategory)
	orDefault(&k.AddCategory, dk.AddCategory)
	orDefault(&k.EditCategory, dk.EditCategory)
	orDefault(&k.ToggleVisible, dk.ToggleVisible)
	orDefault(&k.ToggleAllShown, dk.ToggleAllShown)
	orDefault(&k.PrevMonth, dk.PrevMonth)
	orDefault(&k.NextMonth, dk.NextMonth)
	orDefault(&k.MoveHere, dk.MoveHere)
	orDefault(&k.NextDayTask, dk.NextDayTask)
	orDefault(&k.PrevDayTask, dk.PrevDayTask)
	orDefault(&k.Theme, dk.Theme)
}

func orDefault(v *string, d string) {
	if *v == "" {
		*v = d
	}
}

func (c Config) resolve(dir string) Config {
	if !filepath.IsAbs(c.DBPath) {
		c.DBPath = filepath.Join(dir, c.DBPath)
	}
	if !filepath.IsAbs(c.LogPath) {
		c.LogPath = filepath.Join(dir, c.LogPath)
	}
	return c
}

func Default() Config {
	return defaultConfig()
}

func defaultConfig() Config {
	return Config{
		DBPath:           DefaultDBName,
		LogPath:          DefaultLogName,
		LogLevel:         "info",
		DefaultSort:      "priority",
		DefaultDirection: "ascending",
		Locale:           "en",
		Keys: Keymap{
			Quit:           "q",
			Add:            "a",
			Up:             "k",
			Down:           "j",
			Left:           "h",
			Right:          "l",
			Toggle:         " ",
			Delete:         "d",
			Edit:           "e",
			Confirm:        "enter",
			Cancel:         "esc",
			SortCycle:      "s",
			SortDirection:  "r",
			SwitchView:     "v",
			NextCategory:   "c",
			AddCategory:    "C",
			EditCategory:   "E",
			ToggleVisible:  "x",
			ToggleAllShown: "X",
			PrevMonth:      "[",
			NextMonth:      "]",
			MoveHere:       "m",
			NextDayTask:    "tab",
			PrevDayTask:    "shift+tab",
			Theme:          "t",
		},
	}
}
