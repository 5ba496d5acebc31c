package services

import (
	"context"
	"errors"
	"fmt"

	"repairshop_backend/internal/repositories"
)

// --- Custom Service Errors ---
var (
	// ErrValidation marks input rejected before any mutation.
	ErrValidation = errors.New("validation failed")

	ErrProductNotFound     = errors.New("product not found")
	ErrInvoiceNotFound     = errors.New("invoice not found")
	ErrRepairOrderNotFound = errors.New("repair order not found")
	ErrTechnicianNotFound  = errors.New("technician not found")
	ErrPredictionNotFound  = errors.New("restock prediction not found")
	ErrCartNotFound        = errors.New("cart not found")

	ErrEmptyCart            = fmt.Errorf("%w: cart is empty", ErrValidation)
	ErrCustomerNameRequired = fmt.Errorf("%w: customer name is required", ErrValidation)

	// Stock and uniqueness conflicts.
	ErrOutOfStock         = errors.New("product is out of stock")
	ErrInsufficientStock  = errors.New("insufficient stock for product")
	ErrDuplicateSKU       = errors.New("sku already exists")
	ErrCheckoutInProgress = errors.New("checkout already in progress for cart")

	// ErrCheckoutFailed is the single failure reported for an aborted checkout.
	ErrCheckoutFailed = errors.New("checkout failed")

	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserNotFound       = errors.New("user not found")
)

// translateRepoError maps record-store errors onto service errors. notFound is the
// entity specific error used for repositories.ErrNotFound.
func translateRepoError(err error, notFound error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	case errors.Is(err, repositories.ErrNotFound):
		return fmt.Errorf("%w: %v", notFound, err)
	case errors.Is(err, repositories.ErrInvalidPatch):
		return fmt.Errorf("%w: %v", ErrValidation, err)
	case errors.Is(err, repositories.ErrDuplicateKey):
		return fmt.Errorf("%w: %v", ErrDuplicateSKU, err)
	case errors.Is(err, repositories.ErrNegativeStock):
		return fmt.Errorf("%w: %v", ErrInsufficientStock, err)
	}
	return err
}

func validationError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
