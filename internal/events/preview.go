package events

import (
	"github.com/shopspring/decimal"
)

// Prices the backend falls back to when a tier price is left empty
var (
	DefaultPriceVIP      = decimal.NewFromInt(100)
	DefaultPriceStandard = decimal.NewFromInt(75)
	DefaultPriceEconomy  = decimal.NewFromInt(50)
)

// Layout bounds: rows are lettered A-Z
const (
	MaxSeatRows = 26
	MaxSeatCols = 100
)

// TierPrices are the per-tier seat prices of the creation form
type TierPrices struct {
	VIP      decimal.Decimal
	Standard decimal.Decimal
	Economy  decimal.Decimal
}

// TierPreview is one tier of the layout preview
type TierPreview struct {
	Tier  Tier            `json:"tier"`
	Rows  int             `json:"rows"`
	Seats int             `json:"seats"`
	Price decimal.Decimal `json:"price"`
}

// SeatsPreview is the tier split shown while filling the creation form
type SeatsPreview struct {
	Rows       int             `json:"rows"`
	Cols       int             `json:"cols"`
	Tiers      []TierPreview   `json:"tiers"`
	TotalSeats int             `json:"total_seats"`
	TotalValue decimal.Decimal `json:"total_value"`
}

// Preview splits rows the way the backend assigns tiers: rows A-B are VIP,
// C-E Standard and the rest Economy.
// Rows and cols are clamped to the layout bounds.
func Preview(rows, cols int, prices TierPrices) SeatsPreview {
	rows = min(max(rows, 0), MaxSeatRows)
	cols = min(max(cols, 0), MaxSeatCols)

	vipRows := min(2, rows)
	standardRows := min(3, max(0, rows-2))
	economyRows := max(0, rows-5)

	p := SeatsPreview{Rows: rows, Cols: cols, TotalValue: decimal.Zero}
	for _, t := range []TierPreview{
		{Tier: TierVIP, Rows: vipRows, Price: prices.VIP},
		{Tier: TierStandard, Rows: standardRows, Price: prices.Standard},
		{Tier: TierEconomy, Rows: economyRows, Price: prices.Economy},
	} {
		t.Seats = t.Rows * cols
		p.TotalSeats += t.Seats
		p.TotalValue = p.TotalValue.Add(t.Price.Mul(decimal.NewFromInt(int64(t.Seats))))
		p.Tiers = append(p.Tiers, t)
	}
	return p
}

// Prices parses the request's tier prices, using the backend defaults for
// empty or malformed values
func (r CreateEventRequest) Prices() TierPrices {
	return TierPrices{
		VIP:      parsePrice(r.PriceVIP, DefaultPriceVIP),
		Standard: parsePrice(r.PriceStandard, DefaultPriceStandard),
		Economy:  parsePrice(r.PriceEconomy, DefaultPriceEconomy),
	}
}

func parsePrice(s string, fallback decimal.Decimal) decimal.Decimal {
	if s == "" {
		return fallback
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fallback
	}
	return d
}
