package order

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Ledger is the process-wide store of all orders. It is created empty at
// startup and keeps every order for the process lifetime; orders are never
// deleted so reservation lookups always succeed after a session exists.
//
// The original event loop serialized all mutations; Go handlers run
// concurrently, so the ledger guards its state with a mutex instead.
type Ledger struct {
	notifier Notifier

	mu       sync.Mutex
	orders   []*Order
	byClient map[string]*Order
	emitted  map[int64]struct{}
	nextID   int64
}

// NewLedger creates an empty ledger. Order ids come from a monotonic counter
// seeded once from wall-clock millis, so they stay unique under concurrent
// session creation while remaining sortable by creation like timestamp ids.
func NewLedger(notifier Notifier) *Ledger {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &Ledger{
		notifier: notifier,
		byClient: make(map[string]*Order),
		emitted:  make(map[int64]struct{}),
		nextID:   time.Now().UnixMilli(),
	}
}

// CreateSession generates a fresh client id and registers an empty pending
// order for it. There are no error conditions.
func (l *Ledger) CreateSession() string {
	clientID := uuid.NewString()

	l.mu.Lock()
	defer l.mu.Unlock()

	l.nextID++
	o := &Order{
		ID:     l.nextID,
		Client: Client{ID: clientID},
		Status: StatusPending,
		Total:  decimal.Zero,
	}
	l.orders = append(l.orders, o)
	l.byClient[clientID] = o
	return clientID
}

// Submit merges a submission into the client's order and recomputes its
// total. Incoming lines replace the quantity of an existing line with the
// same item id; resubmission overwrites, it never double-counts. The first
// successful submission for an order triggers exactly one notification;
// later submissions for the same order are silent.
//
// Validation runs before any state is touched, so a rejected request leaves
// the ledger unchanged.
func (l *Ledger) Submit(req SubmitRequest) (*Order, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var firstEmission *Order

	l.mu.Lock()
	o, ok := l.byClient[req.ClientID]
	if !ok {
		l.mu.Unlock()
		return nil, ErrNotFound
	}

	o.Client.Name = req.Name
	o.Client.Phone = req.Phone
	o.Client.UpdatedAt = time.Now()
	o.Status = req.Status

	for _, in := range req.Lines {
		merged := false
		for i := range o.Lines {
			if o.Lines[i].ItemID == in.ItemID {
				o.Lines[i].Quantity = in.Quantity
				merged = true
				break
			}
		}
		if !merged {
			o.Lines = append(o.Lines, in)
		}
	}

	o.Total = computeTotal(o.Lines)

	if _, seen := l.emitted[o.ID]; !seen {
		l.emitted[o.ID] = struct{}{}
		firstEmission = o.clone()
	}
	result := o.clone()
	l.mu.Unlock()

	// Fire-and-forget, outside the lock: observers must never gate the
	// submitter's response.
	if firstEmission != nil {
		l.notifier.NotifyNewOrder(firstEmission)
	}
	return result, nil
}

// FindByClientID returns a copy of the client's order.
func (l *Ledger) FindByClientID(clientID string) (*Order, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	o, ok := l.byClient[clientID]
	if !ok {
		return nil, ErrNotFound
	}
	return o.clone(), nil
}

// ListAll returns a snapshot of every order in insertion order.
func (l *Ledger) ListAll() []*Order {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]*Order, len(l.orders))
	for i, o := range l.orders {
		out[i] = o.clone()
	}
	return out
}

// computeTotal sums price * quantity over all lines.
func computeTotal(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for i := range lines {
		qty := decimal.NewFromInt(int64(lines[i].Quantity))
		total = total.Add(lines[i].Price.Mul(qty))
	}
	return total
}
