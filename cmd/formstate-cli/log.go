package main

import (
	"log/slog"
	"os"

	"github.com/goliatone/go-formstate/pkg/config"
)

func slogger(cfg config.File) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Level()}))
}
