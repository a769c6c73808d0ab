package api

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tableside/tableside/internal/catalog"
	"github.com/tableside/tableside/internal/order"
)

// Wire types. Field names are kept from the original deployed API (Spanish
// on the outer payloads, English inside cliente/producto objects), so the
// existing frontend and dashboards keep working unchanged. Money crosses the
// wire as plain JSON numbers; decimals exist only on the domain side.

type clientWire struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Date  string `json:"date"`
}

type lineWire struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Image    string  `json:"image"`
	Category string  `json:"category"`
	State    bool    `json:"state"`
	Quantity int     `json:"quantity"`
}

type orderWire struct {
	ID        int64      `json:"id"`
	Cliente   clientWire `json:"cliente"`
	Productos []lineWire `json:"productos"`
	Estado    string     `json:"estado"`
	Total     float64    `json:"total"`
}

type menuItemWire struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Image    string  `json:"image"`
	Category string  `json:"category"`
	State    bool    `json:"state"`
}

type submitWire struct {
	Cliente struct {
		Name  string `json:"name"`
		Phone string `json:"phone"`
	} `json:"cliente"`
	Productos []lineWire `json:"productos"`
	Estado    string     `json:"estado"`
}

func toWireOrder(o *order.Order) orderWire {
	lines := make([]lineWire, len(o.Lines))
	for i := range o.Lines {
		lines[i] = toWireLine(&o.Lines[i])
	}

	date := ""
	if !o.Client.UpdatedAt.IsZero() {
		date = o.Client.UpdatedAt.UTC().Format(time.RFC3339)
	}

	return orderWire{
		ID: o.ID,
		Cliente: clientWire{
			ID:    o.Client.ID,
			Name:  o.Client.Name,
			Phone: o.Client.Phone,
			Date:  date,
		},
		Productos: lines,
		Estado:    string(o.Status),
		Total:     o.Total.InexactFloat64(),
	}
}

func toWireLine(l *order.Line) lineWire {
	return lineWire{
		ID:       l.ItemID,
		Name:     l.Name,
		Price:    l.Price.InexactFloat64(),
		Image:    l.Image,
		Category: l.Category,
		State:    l.Available,
		Quantity: l.Quantity,
	}
}

func toDomainLines(in []lineWire) []order.Line {
	lines := make([]order.Line, len(in))
	for i, l := range in {
		lines[i] = order.Line{
			ItemID:    l.ID,
			Name:      l.Name,
			Price:     decimal.NewFromFloat(l.Price),
			Image:     l.Image,
			Category:  l.Category,
			Available: l.State,
			Quantity:  l.Quantity,
		}
	}
	return lines
}

func (h *Handler) toWireMenuItem(m catalog.MenuItem) menuItemWire {
	return menuItemWire{
		ID:       m.ID,
		Name:     m.Name,
		Price:    m.Price.InexactFloat64(),
		Image:    h.imageBaseURL + m.Image,
		Category: m.Category,
		State:    m.Available,
	}
}
