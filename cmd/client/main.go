package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/bridgekeeper/internal/client/cli"
	"github.com/dmitrijs2005/bridgekeeper/internal/client/config"
	"github.com/dmitrijs2005/bridgekeeper/internal/logging"
)

func main() {
	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	log, err := logging.New(cfg.LogFormat, os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.NewApp(cfg, log, os.Stdout).Run(ctx); err != nil {
		log.Error(ctx, "workflow failed", "error", err)
		stop()
		os.Exit(1)
	}
}
