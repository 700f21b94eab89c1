package cli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExecuteGlobalShutdownRunsOnce(t *testing.T) {
	calls := 0
	resetGlobalShutdownCoordinatorForTest(func() error {
		calls++
		return errors.New("close failed")
	})
	t.Cleanup(func() { resetGlobalShutdownCoordinatorForTest(nil) })

	err := executeGlobalShutdown("first")
	assert.EqualError(t, err, "shutdown failed: close failed")
	err = executeGlobalShutdown("second")
	assert.EqualError(t, err, "shutdown failed: close failed")
	assert.Equal(t, 1, calls)
}

func TestDefaultShutdownWithoutService(t *testing.T) {
	GlobalService = nil
	resetGlobalShutdownCoordinatorForTest(nil)
	t.Cleanup(func() { resetGlobalShutdownCoordinatorForTest(nil) })

	assert.NoError(t, executeGlobalShutdown("idle"))
}
