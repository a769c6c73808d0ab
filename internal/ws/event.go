package ws

import (
	"time"

	"github.com/go-faster/jx"

	"github.com/tableside/tableside/internal/order"
)

// eventNewOrder is the only server-to-client event type.
const eventNewOrder = "new-order"

// newOrderFrame encodes the full order detail as a broadcast frame:
// {"event":"new-order","data":{...}}. Encoding happens once per emission,
// not once per observer.
func newOrderFrame(o *order.Order) []byte {
	var e jx.Encoder
	e.Obj(func(e *jx.Encoder) {
		e.Field("event", func(e *jx.Encoder) {
			e.Str(eventNewOrder)
		})
		e.Field("data", func(e *jx.Encoder) {
			encodeOrder(e, o)
		})
	})
	return e.Bytes()
}

func encodeOrder(e *jx.Encoder, o *order.Order) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("id", func(e *jx.Encoder) {
			e.Int64(o.ID)
		})
		e.Field("cliente", func(e *jx.Encoder) {
			encodeClient(e, o.Client)
		})
		e.Field("productos", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for i := range o.Lines {
					encodeLine(e, &o.Lines[i])
				}
			})
		})
		e.Field("estado", func(e *jx.Encoder) {
			e.Str(string(o.Status))
		})
		e.Field("total", func(e *jx.Encoder) {
			e.Float64(o.Total.InexactFloat64())
		})
	})
}

func encodeClient(e *jx.Encoder, c order.Client) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("id", func(e *jx.Encoder) {
			e.Str(c.ID)
		})
		e.Field("name", func(e *jx.Encoder) {
			e.Str(c.Name)
		})
		e.Field("phone", func(e *jx.Encoder) {
			e.Str(c.Phone)
		})
		e.Field("date", func(e *jx.Encoder) {
			if c.UpdatedAt.IsZero() {
				e.Str("")
				return
			}
			e.Str(c.UpdatedAt.UTC().Format(time.RFC3339))
		})
	})
}

func encodeLine(e *jx.Encoder, l *order.Line) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("id", func(e *jx.Encoder) {
			e.Int(l.ItemID)
		})
		e.Field("name", func(e *jx.Encoder) {
			e.Str(l.Name)
		})
		e.Field("price", func(e *jx.Encoder) {
			e.Float64(l.Price.InexactFloat64())
		})
		e.Field("image", func(e *jx.Encoder) {
			e.Str(l.Image)
		})
		e.Field("category", func(e *jx.Encoder) {
			e.Str(l.Category)
		})
		e.Field("state", func(e *jx.Encoder) {
			e.Bool(l.Available)
		})
		e.Field("quantity", func(e *jx.Encoder) {
			e.Int(l.Quantity)
		})
	})
}
