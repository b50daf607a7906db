package trader

import (
	"errors"
	"strings"

	"github.com/signalline/futures-trader/internal/api"
)

// Category buckets a failed submission into an actionable group.
type Category string

const (
	CategoryInsufficientMargin Category = "INSUFFICIENT_MARGIN"
	CategoryFilterViolation    Category = "FILTER_VIOLATION"
	CategoryGenericAPIError    Category = "GENERIC_API_ERROR"
	CategoryNetworkOrFormat    Category = "NETWORK_OR_FORMAT_ERROR"
	CategoryUnknown            Category = "UNKNOWN_ERROR"
)

// Diagnosis pairs a failure category with a remediation hint for the user.
// Hint is empty when there is nothing actionable to suggest.
type Diagnosis struct {
	Category Category
	Hint     string
}

// Classify maps a submission failure to a diagnosis. Exchange rejections are
// matched case-insensitively on the message, first match wins. Matching also
// accepts the "Filter failure: ..." phrasing the futures API uses for
// PRICE_FILTER and LOT_SIZE rejections.
func Classify(err error) Diagnosis {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		msg := strings.ToLower(apiErr.Message)
		switch {
		case strings.Contains(msg, "margin is insufficient"):
			return Diagnosis{
				Category: CategoryInsufficientMargin,
				Hint:     "Deposit funds or reduce order size",
			}
		case strings.Contains(msg, "filter_price"),
			strings.Contains(msg, "filter_lot_size"),
			strings.Contains(msg, "filter failure"):
			return Diagnosis{
				Category: CategoryFilterViolation,
				Hint:     "Price or quantity violates symbol trading rules",
			}
		}
		return Diagnosis{Category: CategoryGenericAPIError}
	}

	var reqErr *api.RequestError
	if errors.As(err, &reqErr) {
		return Diagnosis{
			Category: CategoryNetworkOrFormat,
			Hint:     "Check connectivity/parameters",
		}
	}

	return Diagnosis{Category: CategoryUnknown}
}
