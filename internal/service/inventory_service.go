package service

import (
	"context"

	"github.com/andresuchdata/retail-analytics/backend-go/internal/analytics"
	"github.com/andresuchdata/retail-analytics/backend-go/internal/config"
	"github.com/andresuchdata/retail-analytics/backend-go/internal/domain"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// InventoryService serves ABC classification and the EOQ/ROP calculators.
type InventoryService struct {
	defaults analytics.ReplenishmentParams
}

func NewInventoryService(cfg config.ReplenishmentConfig) *InventoryService {
	return &InventoryService{
		defaults: analytics.ReplenishmentParams{
			AnnualDemand: cfg.AnnualDemand,
			OrderCost:    cfg.OrderCost,
			HoldingCost:  cfg.HoldingCost,
			DailyDemand:  cfg.DailyDemand,
			LeadTimeDays: cfg.LeadTimeDays,
			ServiceZ:     cfg.ServiceZ,
			DemandStdDev: cfg.DemandStdDev,
		},
	}
}

// Defaults returns the configured replenishment constants.
func (s *InventoryService) Defaults() analytics.ReplenishmentParams {
	return s.defaults
}

func (s *InventoryService) ClassifyInventory(ctx context.Context, req domain.InventoryRequest) (*domain.InventoryResponse, error) {
	res, err := analytics.Classify(domain.ParseInventory(req.InventoryData), analytics.ClassifyOptions{Ranked: req.Ranked})
	if err != nil {
		return nil, errors.Wrap(err, "inventory analysis")
	}

	log.Debug().
		Int("items", len(res.Items)).
		Float64("total_value", res.TotalValue).
		Msg("inventory: classified snapshot")

	return domain.NewInventoryResponse(res), nil
}

func (s *InventoryService) EOQ(ctx context.Context, req domain.EOQRequest) (*domain.EOQResponse, error) {
	p := s.eoqParams(req)
	res, err := analytics.EconomicOrderQuantity(p.AnnualDemand, p.OrderCost, p.HoldingCost)
	if err != nil {
		return nil, errors.Wrap(err, "eoq")
	}
	return domain.NewEOQResponse(res), nil
}

func (s *InventoryService) ROP(ctx context.Context, req domain.ROPRequest) (*domain.ROPResponse, error) {
	p := s.defaults
	if req.DailyDemand != nil {
		p.DailyDemand = *req.DailyDemand
	}
	if req.LeadTimeDays != nil {
		p.LeadTimeDays = *req.LeadTimeDays
	}
	if req.DemandStdDev != nil {
		p.DemandStdDev = *req.DemandStdDev
	}
	switch {
	case req.Z != nil:
		p.ServiceZ = *req.Z
	case req.ServiceLevel != nil:
		z, err := analytics.ZForServiceLevel(*req.ServiceLevel)
		if err != nil {
			return nil, errors.Wrap(err, "rop")
		}
		p.ServiceZ = z
	}

	res, err := analytics.ReorderPoint(p.DailyDemand, p.LeadTimeDays, p.ServiceZ, p.DemandStdDev)
	if err != nil {
		return nil, errors.Wrap(err, "rop")
	}
	return domain.NewROPResponse(res), nil
}

func (s *InventoryService) EOQCurve(ctx context.Context, req domain.EOQCurveRequest) (*domain.EOQCurveResponse, error) {
	p := s.eoqParams(req.EOQRequest)
	points, err := analytics.EOQCostCurve(p.AnnualDemand, p.OrderCost, p.HoldingCost, req.Quantities)
	if err != nil {
		return nil, errors.Wrap(err, "eoq curve")
	}
	eoq, err := analytics.EconomicOrderQuantity(p.AnnualDemand, p.OrderCost, p.HoldingCost)
	if err != nil {
		return nil, errors.Wrap(err, "eoq curve")
	}
	return domain.NewEOQCurveResponse(points, eoq), nil
}

func (s *InventoryService) eoqParams(req domain.EOQRequest) analytics.ReplenishmentParams {
	p := s.defaults
	if req.AnnualDemand != nil {
		p.AnnualDemand = *req.AnnualDemand
	}
	if req.OrderCost != nil {
		p.OrderCost = *req.OrderCost
	}
	if req.HoldingCost != nil {
		p.HoldingCost = *req.HoldingCost
	}
	return p
}
