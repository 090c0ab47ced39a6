// Command locscore scores and ranks locations against monthly benchmarks.
package main

import (
	"github.com/huangsam/locscore/cmd"
	"github.com/huangsam/locscore/internal/contract"
	"github.com/huangsam/locscore/internal/iocache"
	"go.uber.org/zap"
)

func main() {
	cmd.SetCacheManager(iocache.Manager)

	err := cmd.Execute()

	if stopErr := cmd.StopProfiling(); stopErr != nil {
		contract.LogWarn("Failed to stop profiling", stopErr)
	}
	iocache.CloseCaching()
	_ = zap.L().Sync()

	if err != nil {
		contract.LogFatal("Command failed", err)
	}
}
