package cli

import (
	"fmt"
	"sync"

	"scriptfetch/internal/state"
	"scriptfetch/internal/utils"
)

var (
	globalShutdownOnce sync.Once
	globalShutdownErr  error
	globalShutdownFn   = defaultGlobalShutdown
)

func defaultGlobalShutdown() error {
	if GlobalService != nil {
		GlobalService.Close()
		GlobalService = nil
	}
	state.CloseDB()
	err := ReleaseLock()
	utils.CloseDebug()
	utils.ConfigureDebug("")
	if err != nil {
		return fmt.Errorf("failed to release lock: %w", err)
	}
	return nil
}

func executeGlobalShutdown(reason string) error {
	// Ensure shutdown only happens once even if multiple paths reach it.
	globalShutdownOnce.Do(func() {
		utils.Debug("Executing shutdown (%s)", reason)
		globalShutdownErr = globalShutdownFn()
		if globalShutdownErr != nil {
			globalShutdownErr = fmt.Errorf("shutdown failed: %w", globalShutdownErr)
		}
	})
	return globalShutdownErr
}

func resetGlobalShutdownCoordinatorForTest(fn func() error) {
	globalShutdownOnce = sync.Once{}
	globalShutdownErr = nil
	if fn != nil {
		globalShutdownFn = fn
		return
	}
	globalShutdownFn = defaultGlobalShutdown
}
