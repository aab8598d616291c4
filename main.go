// Package main is the entry point for the teamspot CLI.
package main

import (
	"github.com/huangsam/teamspot/cmd"
	"github.com/huangsam/teamspot/internal/contract"
	"github.com/huangsam/teamspot/internal/iocache"
)

func main() {
	cmd.SetCacheManager(iocache.Manager)
	err := cmd.Execute()
	iocache.CloseCaching()
	if err != nil {
		contract.LogFatal("Cannot execute command", err)
	}
}
