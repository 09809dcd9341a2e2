package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/go-order-api-server/internal/domains/orders/domain"
	"github.com/Apurer/go-order-api-server/internal/domains/orders/ports"
)

var (
	// ErrInvalidInput signals the request violated a structural invariant.
	ErrInvalidInput = errors.New("invalid order request")
	// ErrCommitFailed signals the atomic unit could not be applied. The
	// caller may retry the whole flow from validation; no partial write
	// survived.
	ErrCommitFailed = errors.New("order commit failed")
)

func mapRequestError(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidInput, err)
}

// mapCommitError keeps the taxonomy errors intact and folds everything else
// (storage conflicts, timeouts, underlying faults) into ErrCommitFailed.
func mapCommitError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrInsufficientStock) || errors.Is(err, ports.ErrProductNotFound) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrCommitFailed, err)
}
