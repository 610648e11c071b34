package repos

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound              = errors.New("not found")
	ErrProductNotFound       = fmt.Errorf("product %w", ErrNotFound)
	ErrValidation            = errors.New("validation error")
	ErrConflict              = errors.New("already exists")
	ErrInsufficientInventory = errors.New("insufficient inventory")
	// ErrPersistence marks a failed snapshot write. The in-memory change that
	// preceded it is kept.
	ErrPersistence = errors.New("persistence failure")
)

// InventoryError reports a line that asks for more units than are in stock.
type InventoryError struct {
	ProductID int
	Name      string
	Requested int
	Available int
}

func (e *InventoryError) Error() string {
	return fmt.Sprintf("insufficient inventory for product %d (%s): requested %d, available %d",
		e.ProductID, e.Name, e.Requested, e.Available)
}

func (e *InventoryError) Is(target error) bool { return target == ErrInsufficientInventory }

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func fmtConflict(field, value string) error {
	return fmt.Errorf("%w: %s %q", ErrConflict, field, value)
}
