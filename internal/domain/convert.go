package domain

import (
	"context"
	"strings"
	"time"

	"github.com/andresuchdata/retail-analytics/backend-go/internal/analytics"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// ParseSales turns dashboard records into an ordered series.
func ParseSales(records []SalesRecord) (analytics.Series, error) {
	points := make([]analytics.Point, len(records))
	for i, r := range records {
		date, err := time.Parse(analytics.DateLayout, strings.TrimSpace(r.Date))
		if err != nil {
			return analytics.Series{}, &analytics.Error{
				Kind:    analytics.KindInvalidParameter,
				Message: "invalid date " + r.Date + ", expected YYYY-MM-DD",
			}
		}
		points[i] = analytics.Point{Date: date, Value: r.Sales}
	}
	return analytics.NewSeries(points)
}

// ParseInventory maps dashboard rows onto engine items.
func ParseInventory(records []InventoryRecord) []analytics.InventoryItem {
	items := make([]analytics.InventoryItem, len(records))
	for i, r := range records {
		items[i] = analytics.InventoryItem{
			ID:            r.Product,
			UnitPrice:     r.Price,
			StockQuantity: r.Stock,
			PeriodSales:   r.Sales,
		}
	}
	return items
}

func formatDates(dates []time.Time) []string {
	out := make([]string, len(dates))
	for i, d := range dates {
		out[i] = d.Format(analytics.DateLayout)
	}
	return out
}

// NewForecastResponse flattens a forecast into parallel arrays.
func NewForecastResponse(res *analytics.ForecastResult) *ForecastResponse {
	model := res.Model
	return &ForecastResponse{
		Dates:  formatDates(res.Dates()),
		Values: res.Values(),
		Model:  &model,
	}
}

// NewTrendResponse flattens a trend table into parallel arrays.
func NewTrendResponse(res *analytics.TrendResult) *TrendResponse {
	n := len(res.Points)
	out := &TrendResponse{
		Dates:  make([]string, n),
		Sales:  make([]float64, n),
		MA7:    make([]analytics.NullFloat, n),
		MA30:   make([]analytics.NullFloat, n),
		Growth: make([]analytics.NullFloat, n),
	}
	for i, p := range res.Points {
		out.Dates[i] = p.Date.Format(analytics.DateLayout)
		out.Sales[i] = p.Observed
		out.MA7[i] = p.ShortMA
		out.MA30[i] = p.LongMA
		out.Growth[i] = p.Growth
	}
	return out
}

// NewInventoryResponse flattens an ABC result into parallel arrays.
func NewInventoryResponse(res *analytics.ABCResult) *InventoryResponse {
	n := len(res.Items)
	out := &InventoryResponse{
		Products:        make([]string, n),
		Turnover:        make([]analytics.NullFloat, n),
		Value:           make([]float64, n),
		ValueShare:      make([]float64, n),
		CumulativeShare: make([]float64, n),
		ABCClass:        make([]string, n),
		Rank:            make([]int, n),
		TotalValue:      res.TotalValue,
		Summary:         res.Summary,
	}
	for i, item := range res.Items {
		out.Products[i] = item.ID
		out.Turnover[i] = item.Turnover
		out.Value[i] = item.Value
		out.ValueShare[i] = item.ValueShare
		out.CumulativeShare[i] = item.CumulativeShare
		out.ABCClass[i] = string(item.Class)
		out.Rank[i] = item.Rank
	}
	return out
}

// NewEOQResponse rounds the quantity to whole units and orders per year to
// one decimal; costs keep full precision.
func NewEOQResponse(res analytics.EOQResult) *EOQResponse {
	return &EOQResponse{
		EOQ:           roundInt(res.EOQ),
		TotalCost:     res.TotalCost,
		OrderingCost:  res.OrderingCost,
		HoldingCost:   res.HoldingCost,
		OptimalOrders: roundPlaces(res.OptimalOrdersPerYear, 1),
	}
}

// NewROPResponse rounds every quantity to whole units.
func NewROPResponse(res analytics.ROPResult) *ROPResponse {
	return &ROPResponse{
		ROP:            roundInt(res.ROP),
		SafetyStock:    roundInt(res.SafetyStock),
		LeadTimeDemand: roundInt(res.LeadTimeDemand),
		ServiceLevel:   roundInt(res.ServiceLevel),
	}
}

// NewEOQCurveResponse converts the cost curve.
func NewEOQCurveResponse(points []analytics.CostPoint, eoq analytics.EOQResult) *EOQCurveResponse {
	out := &EOQCurveResponse{
		EOQData: make([]CostPoint, len(points)),
		EOQ:     roundInt(eoq.EOQ),
	}
	for i, p := range points {
		out.EOQData[i] = CostPoint{
			Quantity:     p.Quantity,
			OrderingCost: p.OrderingCost,
			HoldingCost:  p.HoldingCost,
			TotalCost:    p.TotalCost,
		}
	}
	return out
}

// NewErrorDetail exposes an error as kind + message.
func NewErrorDetail(err error) *ErrorDetail {
	var e *analytics.Error
	if errors.As(err, &e) {
		return &ErrorDetail{Kind: string(e.Kind), Message: e.Message}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &ErrorDetail{Kind: "TimeoutError", Message: err.Error()}
	}
	return &ErrorDetail{Kind: "InternalError", Message: err.Error()}
}

func roundInt(v float64) int64 {
	return decimal.NewFromFloat(v).Round(0).IntPart()
}

func roundPlaces(v float64, places int32) float64 {
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}
