package trader

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/signalline/futures-trader/internal/api"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name         string
		err          error
		wantCategory Category
		wantHint     string
	}{
		{
			name:         "insufficient margin",
			err:          &api.APIError{Code: -2019, Message: "Margin is insufficient."},
			wantCategory: CategoryInsufficientMargin,
			wantHint:     "Deposit funds or reduce order size",
		},
		{
			name:         "insufficient margin uppercase",
			err:          &api.APIError{Code: -2019, Message: "MARGIN IS INSUFFICIENT."},
			wantCategory: CategoryInsufficientMargin,
			wantHint:     "Deposit funds or reduce order size",
		},
		{
			name:         "lot size filter",
			err:          &api.APIError{Code: -1111, Message: "Filter failure: LOT_SIZE"},
			wantCategory: CategoryFilterViolation,
			wantHint:     "Price or quantity violates symbol trading rules",
		},
		{
			name:         "lot size filter underscore form",
			err:          &api.APIError{Code: -1111, Message: "FILTER_LOT_SIZE violated"},
			wantCategory: CategoryFilterViolation,
			wantHint:     "Price or quantity violates symbol trading rules",
		},
		{
			name:         "price filter underscore form",
			err:          &api.APIError{Code: -4016, Message: "rejected by filter_price check"},
			wantCategory: CategoryFilterViolation,
			wantHint:     "Price or quantity violates symbol trading rules",
		},
		{
			name:         "other api error",
			err:          &api.APIError{Code: -1121, Message: "Invalid symbol."},
			wantCategory: CategoryGenericAPIError,
			wantHint:     "",
		},
		{
			name:         "request error",
			err:          &api.RequestError{Reason: "timeout"},
			wantCategory: CategoryNetworkOrFormat,
			wantHint:     "Check connectivity/parameters",
		},
		{
			name:         "wrapped api error",
			err:          fmt.Errorf("submit: %w", &api.APIError{Code: -2019, Message: "Margin is insufficient."}),
			wantCategory: CategoryInsufficientMargin,
			wantHint:     "Deposit funds or reduce order size",
		},
		{
			name:         "unexpected error",
			err:          errors.New("boom"),
			wantCategory: CategoryUnknown,
			wantHint:     "",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			diagnosis := Classify(tc.err)
			assert.Equal(t, tc.wantCategory, diagnosis.Category)
			assert.Equal(t, tc.wantHint, diagnosis.Hint)
		})
	}
}

// Margin messages that also mention a filter must resolve to the margin
// category: the table is evaluated in order, first match wins.
func TestClassifyFirstMatchWins(t *testing.T) {
	diagnosis := Classify(&api.APIError{Code: -2019, Message: "Margin is insufficient. filter_price"})
	assert.Equal(t, CategoryInsufficientMargin, diagnosis.Category)
}
