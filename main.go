// Package main is the entry point of the changescope CLI.
package main

import (
	"github.com/huangsam/changescope/cmd"
	"github.com/huangsam/changescope/internal/contract"
	"github.com/huangsam/changescope/internal/iocache"
)

func main() {
	err := cmd.Execute()

	iocache.CloseCaching()
	if profErr := cmd.StopProfiling(); profErr != nil {
		contract.LogWarn("Failed to stop profiling", profErr)
	}

	if err != nil {
		contract.LogFatal("Command failed", err)
	}
}
