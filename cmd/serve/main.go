package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/bridgekeeper/internal/logging"
	"github.com/dmitrijs2005/bridgekeeper/internal/server/httpapi"
	"github.com/dmitrijs2005/bridgekeeper/internal/static"
)

func main() {
	cfg, err := static.LoadConfig(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	log, err := logging.New(cfg.LogFormat, os.Stdout)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := httpapi.NewServer(cfg.Addr(), static.NewHandler(cfg.BuildDirectory, log), log)
	if err != nil {
		log.Error(ctx, "listen failed", "error", err)
		stop()
		os.Exit(1)
	}

	log.Info(ctx, "serving static files", "dir", cfg.BuildDirectory, "addr", srv.Addr())
	if err := srv.Run(ctx); err != nil {
		log.Error(ctx, "static server failed", "error", err)
		stop()
		os.Exit(1)
	}
}
