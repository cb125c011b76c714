package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"golang.org/x/text/language"

	"taskdeck/internal/config"
	"taskdeck/internal/logging"
	"taskdeck/internal/storage"
	"taskdeck/internal/task"
	"taskdeck/internal/ui"
)

func main() {
	configPath := config.ResolveConfigPath()
	cfg, err := config.LoadOrCreate(configPath)
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	opts := logging.DefaultOptions()
	opts.Level = logging.ParseLevel(cfg.LogLevel)
	logger, logFile, err := logging.OpenFile(cfg.LogPath, opts)
	if err != nil {
		fmt.Printf("failed to open log: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()

	store, err := storage.Open(cfg.DBPath, logger)
	if err != nil {
		fmt.Printf("failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	state, err := store.Load()
	if err != nil {
		fmt.Printf("failed to load tasks: %v\n", err)
		os.Exit(1)
	}

	tasks := task.NewStore(state, storeOptions(cfg, logger, store)...)
	unsubscribe := tasks.Subscribe(func(c task.Change) {
		logger.Debug("store changed", "kind", c.Kind, "id", c.ID)
	})
	defer unsubscribe()
	logger.Info("starting", "config", configPath, "db", cfg.DBPath)

	if err := ui.Run(tasks, store, cfg, logger); err != nil {
		fmt.Printf("error running program: %v\n", err)
		os.Exit(1)
	}
}

// storeOptions turns config into store options. Bad values are logged and
// replaced by defaults rather than refusing to start.
func storeOptions(cfg config.Config, logger *log.Logger, persister task.Persister) []task.Option {
	criterion, err := task.ParseCriterion(cfg.DefaultSort)
	if err != nil {
		logger.Warn("using default sort", "err", err)
		criterion = task.ByPriority
	}
	direction, err := task.ParseDirection(cfg.DefaultDirection)
	if err != nil {
		logger.Warn("using default sort direction", "err", err)
		direction = task.Ascending
	}
	locale, err := language.Parse(cfg.Locale)
	if err != nil {
		logger.Warn("using default locale", "locale", cfg.Locale, "err", err)
		locale = language.English
	}
	return []task.Option{
		task.WithPersister(persister),
		task.WithLogger(logger),
		task.WithSort(criterion, direction),
		task.WithLocale(locale),
	}
}
