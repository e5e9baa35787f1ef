package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/lnquy/threadpool/internal/cli"
)

func main() {
	// Default worker count is GOMAXPROCS, so honour the container CPU quota first.
	undo, err := maxprocs.Set(maxprocs.Logger(logrus.Debugf))
	if err != nil {
		logrus.Warnf("main: failed to set GOMAXPROCS: %v", err)
	}
	defer undo()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.Execute(ctx); err != nil {
		logrus.Errorf("main: %v", err)
		stop()
		undo()
		os.Exit(1)
	}
}
