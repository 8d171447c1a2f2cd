package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/kumoworks/kumo/internal/config"
	"github.com/kumoworks/kumo/internal/level"
	"github.com/kumoworks/kumo/internal/savegame"
	"github.com/kumoworks/kumo/internal/script"
)

// world bundles everything a command needs to talk to one level's
// interpreter session.
type world struct {
	cfg      config.Config
	logger   *log.Logger
	store    *savegame.Store
	savegame *savegame.Savegame
	level    *level.Level
	player   *level.Player
	hud      *level.Hud
	manager  *level.FinishSignal
	session  *script.Session
}

// openWorld loads the config, opens slot storage, loads the level and
// builds an initialized session. Scripts are not loaded yet; check wants
// to own that step.
func openWorld(levelArg string) (*world, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}
	logger := newLogger(cfg.Logging.Level)

	dbPath := flagDBPath
	if dbPath == "" {
		dbPath = cfg.Savegame.Database
	}
	store, err := savegame.Open(dbPath)
	if err != nil {
		return nil, err
	}

	lv, err := level.LoadFile(resolveLevelPath(cfg, levelArg))
	if err != nil {
		store.Close()
		return nil, err
	}

	w := &world{
		cfg:      cfg,
		logger:   logger,
		store:    store,
		savegame: savegame.New(store, logger),
		level:    lv,
		player:   level.NewPlayer(lv.StartPosition),
		hud:      level.NewHud(),
		manager:  &level.FinishSignal{},
	}

	session, err := script.New(script.Config{
		Level:    w.level,
		Player:   w.player,
		Hud:      w.hud,
		Manager:  w.manager,
		Savegame: w.savegame,
		Logger:   logger,
	})
	if err != nil {
		store.Close()
		return nil, err
	}
	if err := session.Initialize(); err != nil {
		store.Close()
		return nil, err
	}
	w.session = session
	return w, nil
}

// close tears the session down before releasing storage.
func (w *world) close() {
	w.session.Terminate()
	w.store.Close()
}

// resolveLevelPath turns a bare level name into a path inside the
// configured levels directory. Explicit paths pass through untouched.
func resolveLevelPath(cfg config.Config, arg string) string {
	if strings.ContainsRune(arg, os.PathSeparator) || fileExists(arg) {
		return arg
	}
	name := arg
	if filepath.Ext(name) == "" {
		name += ".yaml"
	}
	candidate := filepath.Join(config.ExpandHome(cfg.Levels.Dir), name)
	if fileExists(candidate) {
		return candidate
	}
	return arg
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// fatal prints the error and exits.
func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
