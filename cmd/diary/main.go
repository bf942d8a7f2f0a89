package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/gophdiary/internal/buildinfo"
	"github.com/dmitrijs2005/gophdiary/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	cmd := cli.NewRootCommand(os.Stdin, os.Stdout, buildinfo.Current())
	cmd.SetContext(ctx)
	code := cli.Run(cmd, os.Args[1:], os.Stderr)

	stop()
	os.Exit(code)
}
