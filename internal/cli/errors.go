package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/valutatrade/internal/common"
)

// describeError turns a service error into one line for the user.
func describeError(err error) string {
	var (
		insufficient *common.InsufficientFundsError
		notFound     *common.CurrencyNotFoundError
		validation   *common.ValidationError
		auth         *common.AuthenticationError
		api          *common.ApiRequestError
		db           *common.DatabaseError
		cfg          *common.ConfigurationError
	)

	switch {
	case errors.As(err, &insufficient):
		return fmt.Sprintf("Insufficient funds: available %s %s, required %s %s",
			insufficient.Available.String(), insufficient.Code,
			insufficient.Required.String(), insufficient.Code)
	case errors.As(err, &notFound):
		if strings.Contains(notFound.Code, "->") {
			return fmt.Sprintf("No rate available for %s. Try 'update-rates' later.", notFound.Code)
		}
		return fmt.Sprintf("Unknown currency %q. Use 'currencies' to list supported codes.", notFound.Code)
	case errors.As(err, &validation):
		return fmt.Sprintf("Invalid %s: %s", validation.Field, validation.Detail)
	case errors.As(err, &auth):
		return "Authentication failed: " + auth.Detail
	case errors.As(err, &api):
		return "Rate service unavailable: " + api.Reason + ". Try again later."
	case errors.As(err, &db):
		return "Storage error: " + db.Err.Error()
	case errors.As(err, &cfg):
		return "Configuration error: " + cfg.Detail
	default:
		return "Error: " + err.Error()
	}
}
