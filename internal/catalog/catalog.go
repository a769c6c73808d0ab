package catalog

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested menu item does not exist.
var ErrNotFound = errors.New("menu item not found")

// MenuItem represents a dish or drink available for ordering.
type MenuItem struct {
	ID        int
	Name      string
	Price     decimal.Decimal
	Image     string
	Category  string
	Available bool
}

// Repository defines read operations for the menu catalog.
type Repository interface {
	List(ctx context.Context) ([]MenuItem, error)
	GetByID(ctx context.Context, id int) (*MenuItem, error)
}
