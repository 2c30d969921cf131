package cli

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mrz1836/commitkit/internal/errors"
)

func TestExitCodeForError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"generic", stderrors.New("boom"), ExitError},
		{"already reported", errors.ErrAlreadyReported, ExitError},
		{"commit failed", fmt.Errorf("%w: group 2 of 3", errors.ErrCommitFailed), ExitError},
		{"too many files", &errors.TooManyFilesError{Count: 40, Limit: 30}, ExitError},
		{"exit code 2 wrapper", errors.NewExitCode2Error(stderrors.New("bad")), ExitInvalidInput},
		{"invalid output format", fmt.Errorf("%w: yaml", errors.ErrInvalidOutputFormat), ExitInvalidInput},
		{"unknown flag", stderrors.New("unknown flag: --dryrun"), ExitInvalidInput},
		{"mutually exclusive", stderrors.New("if any flags in the group [verbose quiet] are set none of the others can be"), ExitInvalidInput},
		{"extra args", stderrors.New(`unknown command "now" for "commitkit auto"`), ExitInvalidInput},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ExitCodeForError(tc.err))
		})
	}
}

func TestIsValidOutputFormat(t *testing.T) {
	assert.True(t, IsValidOutputFormat(OutputText))
	assert.True(t, IsValidOutputFormat(OutputJSON))
	assert.False(t, IsValidOutputFormat("yaml"))
	assert.False(t, IsValidOutputFormat(""))
}
