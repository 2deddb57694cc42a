package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/simonev/internal/ctl"
	"github.com/okian/simonev/pkg/logger"
)

func main() {
	if err := logger.InitWith(os.Stderr, logger.FormatText); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := ctl.NewApp(os.Stdout).RunContext(ctx, os.Args); err != nil {
		os.Stderr.WriteString("simonevctl: " + err.Error() + "\n")
		stop()
		os.Exit(1)
	}
}
