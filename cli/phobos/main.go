// Package main is the phobos command itself.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	phoboscli "github.com/dfki-ric/phobos/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	app := phoboscli.NewApp(os.Stdout, os.Stderr)
	err := app.RunContext(ctx, os.Args)
	stop()
	if err != nil {
		log.Fatal(err)
	}
}
