// Package main is the entry point for the modelview desktop viewer.
package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/modelview/internal/config"
	"github.com/Faultbox/modelview/internal/logger"
	"github.com/Faultbox/modelview/internal/store"
	"github.com/Faultbox/modelview/internal/viewer"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg); err != nil {
		logger.Error("viewer error", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

// run owns the viewer so its deferred cleanup completes before main exits.
func run(cfg *config.Config) error {
	logger.Info("=== modelview ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	st, initial := openStore(cfg, config.Args())

	v, err := viewer.New(cfg, st)
	if err != nil {
		return fmt.Errorf("failed to create viewer: %w", err)
	}
	defer v.Close()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Store.Timeout)
	if err := v.RefreshCatalog(ctx); err != nil {
		logger.Warn("could not list models", zap.Error(err))
	}
	cancel()

	if initial != "" {
		v.Open(initial)
	} else {
		v.Next()
	}

	if err := v.Run(); err != nil {
		return err
	}

	logger.Info("viewer closed normally")
	return nil
}

// openStore builds the configured store and picks the model to show first.
// For the files store the arguments are files and directories to browse;
// for the http store the first argument is a model id.
func openStore(cfg *config.Config, args []string) (store.Store, store.ID) {
	switch cfg.Store.Kind {
	case config.StoreHTTP:
		remote := store.NewHTTP(cfg.Store.BaseURL, cfg.Store.Timeout)
		logger.Info("using model API", zap.String("url", remote.BaseURL))
		var initial store.ID
		if len(args) > 0 {
			initial = store.ID(args[0])
		}
		return store.WithLocal(remote), initial

	default:
		paths := append(append([]string(nil), cfg.Store.Paths...), args...)
		files := store.NewFiles(paths...)
		return files, firstFile(paths)
	}
}

// firstFile returns the first argument that names a file, not a directory.
func firstFile(paths []string) store.ID {
	for _, p := range paths {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return store.ID(p)
		}
	}
	return ""
}
