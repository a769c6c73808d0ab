package order

import (
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Status is the lifecycle state of an order. Wire values are kept in Spanish
// for compatibility with the deployed dashboards.
type Status string

const (
	StatusPending   Status = "Pendiente"
	StatusConfirmed Status = "Confirmada"
	StatusCancelled Status = "Cancelada"
	StatusCompleted Status = "Completada"
)

// ErrInvalidStatus is returned by ParseStatus for unknown status values.
var ErrInvalidStatus = errors.New("invalid order status")

// ParseStatus converts a wire status value into a Status.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return Status(s), nil
	default:
		return "", ErrInvalidStatus
	}
}

// Client identifies one table session. ID is assigned once by the ledger and
// is the sole correlation key between a browser session and its order.
type Client struct {
	ID        string
	Name      string
	Phone     string
	UpdatedAt time.Time
}

// Line is one menu item plus its ordered quantity within an order.
type Line struct {
	ItemID    int
	Name      string
	Price     decimal.Decimal
	Image     string
	Category  string
	Available bool
	Quantity  int
}

// Order aggregates a client's full cart plus status. All instances are owned
// by the Ledger; callers only ever see copies.
type Order struct {
	ID     int64
	Client Client
	Lines  []Line
	Status Status
	Total  decimal.Decimal
}

// clone returns a deep copy safe to hand outside the ledger lock.
func (o *Order) clone() *Order {
	c := *o
	c.Lines = make([]Line, len(o.Lines))
	copy(c.Lines, o.Lines)
	return &c
}

// Sentinel errors for submission validation, in fail-fast order.
var (
	ErrClientRequired = errors.New("client name and phone are required")
	ErrLinesRequired  = errors.New("order must contain at least one item")
	ErrStatusRequired = errors.New("order status is required")
	ErrNotFound       = errors.New("client not found")
)

// InvalidQuantityError indicates a submitted line has a non-positive quantity.
type InvalidQuantityError struct {
	ItemID int
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("quantity must be greater than 0 for item %d", e.ItemID)
}

// SubmitRequest holds the input for an order submission.
type SubmitRequest struct {
	ClientID string
	Name     string
	Phone    string
	Lines    []Line
	Status   Status
}

// Validate checks the request without touching any ledger state. The first
// violation wins.
func (r *SubmitRequest) Validate() error {
	if r.Name == "" || r.Phone == "" {
		return ErrClientRequired
	}
	if len(r.Lines) == 0 {
		return ErrLinesRequired
	}
	if r.Status == "" {
		return ErrStatusRequired
	}
	if _, err := ParseStatus(string(r.Status)); err != nil {
		return err
	}
	for i := range r.Lines {
		if r.Lines[i].Quantity <= 0 {
			return &InvalidQuantityError{ItemID: r.Lines[i].ItemID}
		}
	}
	return nil
}

// Notifier receives the full order detail exactly once per order identity.
// Delivery is fire-and-forget; implementations must not block the caller.
type Notifier interface {
	NotifyNewOrder(o *Order)
}

// NopNotifier discards all notifications.
type NopNotifier struct{}

func (NopNotifier) NotifyNewOrder(*Order) {}
