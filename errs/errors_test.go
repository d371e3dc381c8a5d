package errs

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsRecoverable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"missing base", ErrMissingBaseFit, true},
		{"wrapped no fit", fmt.Errorf("P50: %w", ErrInvalidSegmentModel), true},
		{"insufficient wells", ErrInsufficientWells, true},
		{"degenerate", fmt.Errorf("probit: %w", ErrDegenerateStatistics), true},
		{"shape mismatch", ErrShapeMismatch, false},
		{"wrapped window", fmt.Errorf("well A: %w", ErrInvalidWindow), false},
		{"nil", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, IsRecoverable(tt.err))
		})
	}
}
