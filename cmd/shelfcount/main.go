package main

import (
	"context"
	"os"

	"github.com/blackwell-systems/shelfcount/internal/app"
	"github.com/charmbracelet/fang"
)

// version is set by goreleaser via ldflags.
var version = "dev"

func main() {
	app.SetVersion(version)
	root := app.NewRootCmd()

	if err := fang.Execute(
		context.Background(),
		root,
		fang.WithVersion(version),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(1)
	}
}
