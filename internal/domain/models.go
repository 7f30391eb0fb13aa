// backend-go/internal/domain/models.go
package domain

import (
	"encoding/json"

	"github.com/andresuchdata/retail-analytics/backend-go/internal/analytics"
	"github.com/pkg/errors"
)

// SalesRecord is one dated sales observation as sent by the dashboard
type SalesRecord struct {
	Date  string  `json:"date"`
	Sales float64 `json:"sales"`
}

// UnmarshalJSON requires the sales figure so a missing value is not read as 0.
func (r *SalesRecord) UnmarshalJSON(data []byte) error {
	var raw struct {
		Date  string   `json:"date"`
		Sales *float64 `json:"sales"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Sales == nil {
		return errors.Errorf("sales record %q: missing sales", raw.Date)
	}
	*r = SalesRecord{Date: raw.Date, Sales: *raw.Sales}
	return nil
}

// InventoryRecord is one product row of an inventory snapshot
type InventoryRecord struct {
	Product string  `json:"product"`
	Price   float64 `json:"price"`
	Stock   float64 `json:"stock"`
	Sales   float64 `json:"sales"`
}

// ForecastRequest asks for Periods projected points from SalesData
type ForecastRequest struct {
	SalesData []SalesRecord `json:"sales_data"`
	Periods   int           `json:"periods"`
}

// ForecastResponse holds projected dates and values as parallel arrays
type ForecastResponse struct {
	Dates  []string                `json:"dates"`
	Values []float64               `json:"values"`
	Model  *analytics.ModelSummary `json:"model,omitempty"`
}

// SeriesForecastRequest is one series inside a batch
type SeriesForecastRequest struct {
	ID        string        `json:"id"`
	SalesData []SalesRecord `json:"sales_data"`
	Periods   int           `json:"periods"`
}

// BatchForecastRequest forecasts several series, e.g. one per SKU
type BatchForecastRequest struct {
	Series []SeriesForecastRequest `json:"series"`
}

// BatchForecastItem carries either a forecast or the failure for one series
type BatchForecastItem struct {
	ID     string       `json:"id"`
	Dates  []string     `json:"dates,omitempty"`
	Values []float64    `json:"values,omitempty"`
	Error  *ErrorDetail `json:"error,omitempty"`
}

// BatchForecastResponse keeps the order of the request
type BatchForecastResponse struct {
	Results []BatchForecastItem `json:"results"`
}

// ErrorDetail is the structured failure (kind + message) returned to callers
type ErrorDetail struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// TrendRequest asks for moving averages and growth over SalesData
type TrendRequest struct {
	SalesData []SalesRecord `json:"sales_data"`
}

// TrendResponse is the trend table as parallel arrays; undefined entries are null
type TrendResponse struct {
	Dates  []string              `json:"dates"`
	Sales  []float64             `json:"sales"`
	MA7    []analytics.NullFloat `json:"ma_7"`
	MA30   []analytics.NullFloat `json:"ma_30"`
	Growth []analytics.NullFloat `json:"growth"`
}

// InventoryRequest asks for turnover and ABC classes
type InventoryRequest struct {
	InventoryData []InventoryRecord `json:"inventory_data"`
	Ranked        bool              `json:"ranked"`
}

// InventoryResponse is the classification as parallel arrays
type InventoryResponse struct {
	Products        []string                 `json:"products"`
	Turnover        []analytics.NullFloat    `json:"turnover"`
	Value           []float64                `json:"value"`
	ValueShare      []float64                `json:"value_share"`
	CumulativeShare []float64                `json:"cumulative_share"`
	ABCClass        []string                 `json:"abc_class"`
	Rank            []int                    `json:"rank"`
	TotalValue      float64                  `json:"total_value"`
	Summary         []analytics.ClassSummary `json:"summary"`
}

// EOQRequest optionally overrides the configured EOQ constants
type EOQRequest struct {
	AnnualDemand *float64 `json:"annual_demand"`
	OrderCost    *float64 `json:"order_cost"`
	HoldingCost  *float64 `json:"holding_cost"`
}

// EOQResponse mirrors the PPIC calculator output
type EOQResponse struct {
	EOQ           int64   `json:"eoq"`
	TotalCost     float64 `json:"total_cost"`
	OrderingCost  float64 `json:"ordering_cost"`
	HoldingCost   float64 `json:"holding_cost"`
	OptimalOrders float64 `json:"optimal_orders"`
}

// ROPRequest optionally overrides the configured ROP constants. ServiceLevel
// (percent) is used only when Z is absent.
type ROPRequest struct {
	DailyDemand  *float64 `json:"daily_demand"`
	LeadTimeDays *float64 `json:"lead_time_days"`
	Z            *float64 `json:"z"`
	ServiceLevel *float64 `json:"service_level"`
	DemandStdDev *float64 `json:"demand_std_dev"`
}

// ROPResponse mirrors the PPIC calculator output
type ROPResponse struct {
	ROP            int64 `json:"rop"`
	SafetyStock    int64 `json:"safety_stock"`
	LeadTimeDemand int64 `json:"lead_time_demand"`
	ServiceLevel   int64 `json:"service_level"`
}

// EOQCurveRequest evaluates annual cost for candidate order quantities
type EOQCurveRequest struct {
	EOQRequest
	Quantities []float64 `json:"quantities"`
}

// CostPoint is one row of the EOQ cost curve
type CostPoint struct {
	Quantity     float64 `json:"quantity"`
	OrderingCost float64 `json:"ordering_cost"`
	HoldingCost  float64 `json:"holding_cost"`
	TotalCost    float64 `json:"total_cost"`
}

// EOQCurveResponse carries the cost curve and the optimum it bottoms out at
type EOQCurveResponse struct {
	EOQData []CostPoint `json:"eoq_data"`
	EOQ     int64       `json:"eoq"`
}
