package analytics

import (
	"math"
	"sort"
)

// Class is an ABC tier.
type Class string

const (
	ClassA Class = "A"
	ClassB Class = "B"
	ClassC Class = "C"
)

// Default cumulative share limits, in percent.
const (
	DefaultAThreshold = 80.0
	DefaultBThreshold = 95.0
)

// InventoryItem is a single product in an inventory snapshot.
type InventoryItem struct {
	ID            string
	UnitPrice     float64
	StockQuantity float64
	PeriodSales   float64
}

// Value is unit price times stock on hand.
func (i InventoryItem) Value() float64 {
	return i.UnitPrice * i.StockQuantity
}

// Turnover is period sales over stock on hand; undefined with no stock.
func (i InventoryItem) Turnover() NullFloat {
	if i.StockQuantity == 0 {
		return Null()
	}
	return Float(i.PeriodSales / i.StockQuantity)
}

// ClassifyOptions configures Classify. Zero thresholds use 80/95.
type ClassifyOptions struct {
	AThreshold float64
	BThreshold float64
	// Ranked returns items by descending value instead of input order.
	Ranked bool
}

// ClassifiedItem is the ABC result for one item.
type ClassifiedItem struct {
	ID              string
	Value           float64
	Turnover        NullFloat
	ValueShare      float64 // percent of total value
	CumulativeShare float64 // running percent in rank order
	Class           Class
	Rank            int // 1 is the most valuable
}

// ClassSummary aggregates one tier.
type ClassSummary struct {
	Class Class   `json:"class"`
	Count int     `json:"count"`
	Value float64 `json:"value"`
	Share float64 `json:"share"`
}

// ABCResult is the classification of a snapshot.
type ABCResult struct {
	Items      []ClassifiedItem
	TotalValue float64
	Summary    []ClassSummary
}

// Classify ranks items by value and assigns A while the cumulative share is
// within AThreshold, B within BThreshold, C otherwise. Equal values keep
// their input order.
func Classify(snapshot []InventoryItem, opts ClassifyOptions) (*ABCResult, error) {
	aLimit, bLimit := opts.AThreshold, opts.BThreshold
	if aLimit == 0 {
		aLimit = DefaultAThreshold
	}
	if bLimit == 0 {
		bLimit = DefaultBThreshold
	}
	if aLimit <= 0 || aLimit > bLimit || bLimit > 100 {
		return nil, newError(KindInvalidParameter, "thresholds must satisfy 0 < A <= B <= 100, got %.2f and %.2f", aLimit, bLimit)
	}
	if len(snapshot) == 0 {
		return nil, newError(KindEmptyInventory, "no inventory items")
	}

	values := make([]float64, len(snapshot))
	total := 0.0
	for i, item := range snapshot {
		if err := validateItem(item); err != nil {
			return nil, err
		}
		values[i] = item.Value()
		total += values[i]
	}
	if total == 0 {
		return nil, newError(KindEmptyInventory, "total inventory value is zero")
	}

	order := make([]int, len(snapshot))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return values[order[a]] > values[order[b]]
	})

	items := make([]ClassifiedItem, len(snapshot))
	cumulative := 0.0
	for rank, idx := range order {
		share := 100 * values[idx] / total
		cumulative += share

		class := ClassC
		switch {
		case cumulative <= aLimit:
			class = ClassA
		case cumulative <= bLimit:
			class = ClassB
		}

		items[idx] = ClassifiedItem{
			ID:              snapshot[idx].ID,
			Value:           values[idx],
			Turnover:        snapshot[idx].Turnover(),
			ValueShare:      share,
			CumulativeShare: cumulative,
			Class:           class,
			Rank:            rank + 1,
		}
	}

	result := &ABCResult{
		Items:      items,
		TotalValue: total,
		Summary:    summarize(items, total),
	}
	if opts.Ranked {
		ranked := make([]ClassifiedItem, len(order))
		for pos, idx := range order {
			ranked[pos] = items[idx]
		}
		result.Items = ranked
	}
	return result, nil
}

func validateItem(item InventoryItem) error {
	fields := []struct {
		name  string
		value float64
	}{
		{"price", item.UnitPrice},
		{"stock", item.StockQuantity},
		{"sales", item.PeriodSales},
	}
	for _, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) || f.value < 0 {
			return newError(KindInvalidParameter, "item %q: %s must be a finite non-negative number", item.ID, f.name)
		}
	}
	return nil
}

func summarize(items []ClassifiedItem, total float64) []ClassSummary {
	summary := []ClassSummary{{Class: ClassA}, {Class: ClassB}, {Class: ClassC}}
	for _, item := range items {
		var s *ClassSummary
		switch item.Class {
		case ClassA:
			s = &summary[0]
		case ClassB:
			s = &summary[1]
		default:
			s = &summary[2]
		}
		s.Count++
		s.Value += item.Value
	}
	for i := range summary {
		summary[i].Share = 100 * summary[i].Value / total
	}
	return summary
}
