// Package main is the entry point for the dwipe command.
//
// It sets up logging, cancels the run on SIGINT or SIGTERM so no new file
// is started, and exits with the code chosen by the cli package.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"dwipe/internal/cli"
	"dwipe/internal/logging"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	os.Exit(runSafely(os.Args[1:], run, os.Stderr))
}

func runSafely(args []string, runner func([]string) int, errWriter io.Writer) (exitCode int) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(errWriter, "dwipe: panic: %v\n%s", r, debug.Stack())
			exitCode = cli.ExitFailure
		}
	}()

	return runner(args)
}

func run(args []string) int {
	logging.SetDefault(logging.NewAppLogger())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := cli.NewRootCmd(buildVersion())
	cmd.SetArgs(args)
	return cli.Execute(ctx, cmd)
}

func buildVersion() string {
	if version != "dev" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return version
}
