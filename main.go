package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/tphakala/trapstats/cmd"
	"github.com/tphakala/trapstats/internal/buildinfo"
	"github.com/tphakala/trapstats/internal/runtime"
)

// buildDate and version are set at build time via ldflags
var (
	buildDate string
	version   string
)

func main() {
	os.Exit(mainWithExitCode())
}

func mainWithExitCode() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt := runtime.New(&buildinfo.Context{
		Version:   version,
		BuildDate: buildDate,
	})

	err := cmd.RootCommand(rt).ExecuteContext(ctx)
	if finishErr := rt.Finish(); err == nil {
		err = finishErr
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to process data: %v\n", err)
		return 1
	}
	return 0
}
