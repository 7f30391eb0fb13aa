package analytics

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// ReplenishmentParams are the fixed inputs of the EOQ and ROP formulas.
type ReplenishmentParams struct {
	AnnualDemand float64 // D, units per year
	OrderCost    float64 // S, cost per order
	HoldingCost  float64 // H, cost per unit per year
	DailyDemand  float64 // d, units per day
	LeadTimeDays float64 // L
	ServiceZ     float64 // Z
	DemandStdDev float64 // sigma of daily demand
}

// EOQResult is the economic order quantity and its cost split.
type EOQResult struct {
	EOQ                  float64
	OrderingCost         float64
	HoldingCost          float64
	TotalCost            float64
	OptimalOrdersPerYear float64
}

// ROPResult is the reorder point with its components.
type ROPResult struct {
	ROP            float64
	SafetyStock    float64
	LeadTimeDemand float64
	ServiceLevel   float64 // percent, from the normal CDF of Z
}

// CostPoint is the annual cost of ordering a fixed quantity.
type CostPoint struct {
	Quantity     float64
	OrderingCost float64
	HoldingCost  float64
	TotalCost    float64
}

// DefaultCurveQuantities are the order sizes 50, 100, ..., 500.
func DefaultCurveQuantities() []float64 {
	out := make([]float64, 0, 10)
	for q := 50; q <= 500; q += 50 {
		out = append(out, float64(q))
	}
	return out
}

// EconomicOrderQuantity computes sqrt(2DS/H) and the resulting annual costs.
// With zero demand or zero order cost the quantity is 0 and so are the
// per-order terms.
func EconomicOrderQuantity(demand, orderCost, holdingCost float64) (EOQResult, error) {
	if err := requireFinite(demand, orderCost, holdingCost); err != nil {
		return EOQResult{}, err
	}
	if holdingCost <= 0 {
		return EOQResult{}, newError(KindInvalidParameter, "holding cost must be positive, got %g", holdingCost)
	}
	if demand < 0 || orderCost < 0 {
		return EOQResult{}, newError(KindInvalidParameter, "demand and order cost must be non-negative, got %g and %g", demand, orderCost)
	}

	eoq := math.Sqrt(2 * demand * orderCost / holdingCost)
	res := EOQResult{EOQ: eoq}
	if eoq > 0 {
		res.OptimalOrdersPerYear = demand / eoq
		res.OrderingCost = res.OptimalOrdersPerYear * orderCost
		res.HoldingCost = eoq / 2 * holdingCost
	}
	res.TotalCost = res.OrderingCost + res.HoldingCost
	if err := requireFiniteResult(res.EOQ, res.OptimalOrdersPerYear, res.OrderingCost, res.HoldingCost, res.TotalCost); err != nil {
		return EOQResult{}, err
	}
	return res, nil
}

// ReorderPoint computes d*L + Z*sigma*sqrt(L).
func ReorderPoint(dailyDemand, leadTimeDays, z, stdDev float64) (ROPResult, error) {
	if err := requireFinite(dailyDemand, leadTimeDays, z, stdDev); err != nil {
		return ROPResult{}, err
	}
	if leadTimeDays < 0 {
		return ROPResult{}, newError(KindInvalidParameter, "lead time must be non-negative, got %g", leadTimeDays)
	}
	if dailyDemand < 0 || stdDev < 0 {
		return ROPResult{}, newError(KindInvalidParameter, "daily demand and deviation must be non-negative, got %g and %g", dailyDemand, stdDev)
	}

	leadTimeDemand := dailyDemand * leadTimeDays
	safetyStock := z * stdDev * math.Sqrt(leadTimeDays)
	rop := leadTimeDemand + safetyStock
	if err := requireFiniteResult(leadTimeDemand, safetyStock, rop); err != nil {
		return ROPResult{}, err
	}
	return ROPResult{
		ROP:            rop,
		SafetyStock:    safetyStock,
		LeadTimeDemand: leadTimeDemand,
		ServiceLevel:   100 * distuv.UnitNormal.CDF(z),
	}, nil
}

// ZForServiceLevel converts a cycle service level in percent to a Z-score.
func ZForServiceLevel(percent float64) (float64, error) {
	if math.IsNaN(percent) || percent <= 0 || percent >= 100 {
		return 0, newError(KindInvalidParameter, "service level must be within (0, 100), got %g", percent)
	}
	return distuv.UnitNormal.Quantile(percent / 100), nil
}

// EOQCostCurve evaluates ordering, holding and total cost for each quantity.
func EOQCostCurve(demand, orderCost, holdingCost float64, quantities []float64) ([]CostPoint, error) {
	if _, err := EconomicOrderQuantity(demand, orderCost, holdingCost); err != nil {
		return nil, err
	}
	if len(quantities) == 0 {
		quantities = DefaultCurveQuantities()
	}

	points := make([]CostPoint, len(quantities))
	for i, q := range quantities {
		if math.IsNaN(q) || math.IsInf(q, 0) || q <= 0 {
			return nil, newError(KindInvalidParameter, "order quantity must be positive, got %g", q)
		}
		ordering := demand / q * orderCost
		holding := q / 2 * holdingCost
		if err := requireFiniteResult(ordering, holding, ordering+holding); err != nil {
			return nil, err
		}
		points[i] = CostPoint{
			Quantity:     q,
			OrderingCost: ordering,
			HoldingCost:  holding,
			TotalCost:    ordering + holding,
		}
	}
	return points, nil
}

func requireFinite(values ...float64) error {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return newError(KindInvalidParameter, "parameters must be finite numbers")
		}
	}
	return nil
}

// requireFiniteResult rejects finite inputs whose products overflow float64.
func requireFiniteResult(values ...float64) error {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return newError(KindInvalidParameter, "parameters are too large, result overflows")
		}
	}
	return nil
}
