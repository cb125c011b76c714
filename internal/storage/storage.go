// Package storage persists the task list, categories and theme in a SQLite
// key/value table.
package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
	_ "modernc.org/sqlite"

	"taskdeck/internal/task"
)

const (
	keyTasks      = "tasks"
	keyCategories = "categories"
	keyTheme      = "theme"
)

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

type Store struct {
	db     *sql.DB
	logger *log.Logger

	tasksSchema      *jsonschema.Schema
	categoriesSchema *jsonschema.Schema
}

// Open opens or creates the database at dbPath. A nil logger discards.
func Open(dbPath string, logger *log.Logger) (*Store, error) {
	if dbPath == "" {
		return nil, errors.New("db path is empty")
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, err
	}
	tasksSchema, categoriesSchema, err := compileSchemas()
	if err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", sqliteDSN(dbPath))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	s := &Store{
		db:               db,
		logger:           logger,
		tasksSchema:      tasksSchema,
		categoriesSchema: categoriesSchema,
	}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	const ddl = `
CREATE TABLE IF NOT EXISTS kv (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL
);`
	_, err := s.db.Exec(ddl)
	return err
}

func (s *Store) get(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?;`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read %s: %w", key, err)
	}
	return value, true, nil
}

func (s *Store) set(key, value string) error {
	_, err := s.db.Exec(`INSERT INTO kv (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value;`, key, value)
	if err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

// Load reads the persisted tasks and categories. A value that is not valid
// JSON or does not match its schema is dropped with a warning, so the store
// starts from the empty or default collection instead of failing.
func (s *Store) Load() (task.State, error) {
	tasks, err := load[[]task.Task](s, keyTasks, s.tasksSchema)
	if err != nil {
		return task.State{}, err
	}
	categories, err := load[[]task.Category](s, keyCategories, s.categoriesSchema)
	if err != nil {
		return task.State{}, err
	}
	s.logger.Info("state loaded", "tasks", len(tasks), "categories", len(categories))
	return task.State{Tasks: tasks, Categories: categories}, nil
}

func load[T any](s *Store, key string, schema *jsonschema.Schema) (T, error) {
	var zero T
	raw, ok, err := s.get(key)
	if err != nil || !ok {
		return zero, err
	}
	v, err := decode[T](raw, schema)
	if err != nil {
		s.logger.Warn("discarding malformed state", "key", key, "err", err)
		return zero, nil
	}
	return v, nil
}

func decode[T any](raw string, schema *jsonschema.Schema) (T, error) {
	var v T
	var doc any
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return v, fmt.Errorf("parse: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return v, fmt.Errorf("validate: %w", err)
	}
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		var zero T
		return zero, fmt.Errorf("decode: %w", err)
	}
	return v, nil
}

func (s *Store) SaveTasks(tasks []task.Task) error {
	if tasks == nil {
		tasks = []task.Task{}
	}
	return s.save(keyTasks, tasks)
}

func (s *Store) SaveCategories(categories []task.Category) error {
	if categories == nil {
		categories = []task.Category{}
	}
	return s.save(keyCategories, categories)
}

func (s *Store) save(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.set(key, string(data))
}

// Theme returns the saved theme. Anything other than "dark" reads as light.
func (s *Store) Theme() (Theme, error) {
	raw, _, err := s.get(keyTheme)
	if err != nil {
		return ThemeLight, err
	}
	if Theme(raw) == ThemeDark {
		return ThemeDark, nil
	}
	return ThemeLight, nil
}

func (s *Store) SetTheme(t Theme) error {
	return s.set(keyTheme, string(t))
}

func sqliteDSN(path string) string {
	if strings.HasPrefix(path, "file:") {
		return path
	}
	abs, err := filepath.Abs(path)
	if err == nil {
		path = abs
	}
	u := url.URL{
		Scheme: "file",
		Path:   path,
	}
	q := u.Query()
	q.Set("mode", "rwc")
	q.Set("_pragma", "busy_timeout(5000)")
	u.RawQuery = q.Encode()
	return u.String()
}
