package cli

import (
	"fmt"
	"imagefetch/internal/state"
	"imagefetch/internal/utils"
	"sync"
)

var (
	globalShutdownOnce sync.Once
	globalShutdownErr  error
	globalShutdownFn   = defaultGlobalShutdown
)

func defaultGlobalShutdown() error {
	var err error
	if GlobalFetcher != nil {
		err = GlobalFetcher.Close()
	}
	state.CloseDB()
	utils.CloseDebug()
	return err
}

func executeGlobalShutdown(reason string) error {
	// A signal can arrive while the session is already returning.
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
