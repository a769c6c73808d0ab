package catalog

import (
	"context"
	_ "embed"
	"encoding/json"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

//go:embed menu.json
var menuData []byte

// menuItemJSON mirrors the on-disk catalog format. Prices are plain JSON
// numbers; they are converted to decimal on load and never touched again.
type menuItemJSON struct {
	ID        int     `json:"id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Image     string  `json:"image"`
	Category  string  `json:"category"`
	Available bool    `json:"state"`
}

var _ Repository = (*StaticRepository)(nil)

// StaticRepository serves the embedded menu catalog. The catalog is immutable
// for the process lifetime, so all reads are lock-free.
type StaticRepository struct {
	items []MenuItem
	byID  map[int]*MenuItem
}

// NewStaticRepository parses the embedded menu file.
func NewStaticRepository() (*StaticRepository, error) {
	var raw []menuItemJSON
	if err := json.Unmarshal(menuData, &raw); err != nil {
		return nil, errors.Wrap(err, "parse embedded menu")
	}

	r := &StaticRepository{
		items: make([]MenuItem, len(raw)),
		byID:  make(map[int]*MenuItem, len(raw)),
	}
	for i, m := range raw {
		r.items[i] = MenuItem{
			ID:        m.ID,
			Name:      m.Name,
			Price:     decimal.NewFromFloat(m.Price),
			Image:     m.Image,
			Category:  m.Category,
			Available: m.Available,
		}
		r.byID[m.ID] = &r.items[i]
	}
	return r, nil
}

// List returns every menu item in catalog order.
func (r *StaticRepository) List(_ context.Context) ([]MenuItem, error) {
	out := make([]MenuItem, len(r.items))
	copy(out, r.items)
	return out, nil
}

// GetByID returns a single menu item by its identifier.
func (r *StaticRepository) GetByID(_ context.Context, id int) (*MenuItem, error) {
	item, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	m := *item
	return &m, nil
}
