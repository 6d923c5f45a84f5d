// main is the entry point for the diffeffort CLI.
package main

import (
	"github.com/huangsam/diffeffort/cmd"
	"github.com/huangsam/diffeffort/internal/contract"
	"github.com/huangsam/diffeffort/internal/iocache"
)

func main() {
	defer iocache.CloseStores()
	cmd.SetCacheManager(iocache.Manager)

	if err := cmd.Execute(); err != nil {
		contract.LogFatal("Error starting CLI", err)
	}
	if err := cmd.StopProfiling(); err != nil {
		contract.LogFatal("Error stopping profiling", err)
	}
}
