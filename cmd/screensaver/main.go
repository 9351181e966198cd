package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	singleinstance "github.com/allan-simon/go-singleinstance"
	log "github.com/sirupsen/logrus"
	flag "github.com/spf13/pflag"

	"github.com/alswo471/screensaver/pkg/config"
)

const version = "1.0.0"

func main() {
	var (
		configPath   string
		preview      bool
		activate     bool
		settingsPort int
		noTray       bool
		debug        bool
		showVersion  bool
	)

	flag.StringVar(&configPath, "config", "", "Path to config file")
	flag.BoolVar(&preview, "preview", false, "Activate immediately in preview mode")
	flag.BoolVar(&activate, "activate", false, "Activate immediately")
	flag.IntVar(&settingsPort, "settings-port", 8377, "Port for the settings page (0 picks a free port)")
	flag.BoolVar(&noTray, "no-tray", false, "Disable the tray icon")
	flag.BoolVar(&debug, "debug", false, "Enable debug logging")
	flag.BoolVar(&showVersion, "version", false, "Print version and exit")
	flag.Parse()

	if showVersion {
		fmt.Printf("screensaver %s\n", version)
		os.Exit(0)
	}

	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	if debug || os.Getenv("SCREENSAVER_DEBUG") != "" {
		log.SetLevel(log.DebugLevel)
	}

	if configPath != "" {
		if err := os.Setenv("SCREENSAVER_CONFIG", configPath); err != nil {
			log.WithError(err).Fatal("failed to set config path")
		}
	}

	lockFile, err := singleinstance.CreateLockFile(lockPath())
	if err != nil {
		fmt.Fprintln(os.Stderr, "screensaver is already running")
		os.Exit(0)
	}
	defer func() { _ = lockFile.Close() }()

	// A broken config file is not fatal: run with defaults.
	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Warn("could not load configuration, using defaults")
	}
	store := config.NewStore(cfg)

	deps, err := NewDependencies(store, Options{
		TrayEnabled:  !noTray && trayLikelyAvailable(),
		SettingsPort: settingsPort,
	})
	if err != nil {
		log.WithError(err).Fatal("failed to initialize")
	}
	defer deps.Close()

	app := NewApplication(deps)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info("shutdown signal received")
		app.Stop()
	}()

	if preview || activate {
		deps.Session.Activate(preview)
	}

	if err := app.Run(); err != nil {
		log.WithError(err).Fatal("application error")
	}
}

// lockPath places the single-instance lock next to the config file.
func lockPath() string {
	if cfgPath := config.Path(); cfgPath != "" {
		return filepath.Join(filepath.Dir(cfgPath), "screensaver.lock")
	}
	return filepath.Join(os.TempDir(), "screensaver.lock")
}

// trayLikelyAvailable is a cheap startup heuristic: a graphical session is
// a prerequisite for a tray host. A false positive only costs a dead icon
// thread; the session itself falls back to settings-window restore.
func trayLikelyAvailable() bool {
	switch {
	case os.Getenv("DISPLAY") != "", os.Getenv("WAYLAND_DISPLAY") != "":
		return true
	case os.Getenv("OS") == "Windows_NT":
		return true
	}
	return false
}
