package main

import (
	"context"
	"os"
	"syscall"

	"charm.land/fang/v2"
	"github.com/mylucky2d3d/crawler/cmd"
	"github.com/mylucky2d3d/crawler/version"
)

func main() {
	if err := fang.Execute(
		context.Background(),
		cmd.NewRootCmd(),
		fang.WithVersion(version.GetVersion()),
		fang.WithNotifySignal(os.Interrupt, syscall.SIGTERM),
	); err != nil {
		os.Exit(1)
	}
}
