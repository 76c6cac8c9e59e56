package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExecuteUnknownCommand(t *testing.T) {
	rootCmd.SetArgs([]string{"somersault"})
	defer rootCmd.SetArgs(nil)

	err := Execute()
	assert.Error(t, err)
}
