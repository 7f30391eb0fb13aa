package main

import (
	"encoding/json"
	"io"
	"os"

	"github.com/andresuchdata/retail-analytics/backend-go/internal/analytics"
	"github.com/andresuchdata/retail-analytics/backend-go/internal/cache"
	"github.com/andresuchdata/retail-analytics/backend-go/internal/chart"
	"github.com/andresuchdata/retail-analytics/backend-go/internal/config"
	"github.com/andresuchdata/retail-analytics/backend-go/internal/dataset"
	"github.com/andresuchdata/retail-analytics/backend-go/internal/domain"
	"github.com/andresuchdata/retail-analytics/backend-go/internal/service"
	"github.com/andresuchdata/retail-analytics/backend-go/pkg/logger"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

type runner struct {
	cfg       *config.Config
	stdin     io.Reader
	stdout    io.Writer
	inventory *service.InventoryService
}

func newInputFlag(usage string) *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "input",
		Aliases: []string{"i"},
		Usage:   usage + " (- for stdin)",
		Value:   "-",
	}
}

func newChartFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:  "chart",
		Usage: "Also write a PNG line chart to this path",
	}
}

func newApp(cfg *config.Config, stdin io.Reader, stdout io.Writer) *cli.App {
	r := &runner{
		cfg:       cfg,
		stdin:     stdin,
		stdout:    stdout,
		inventory: service.NewInventoryService(cfg.Replenishment),
	}
	rep := r.inventory.Defaults()

	return &cli.App{
		Name:   "analytics",
		Usage:  "Sales forecasting and inventory optimisation from CSV files",
		Writer: stdout,
		Commands: []*cli.Command{
			{
				Name:  "forecast",
				Usage: "Fit ARIMA(1,1,1) to a date,sales CSV and project future periods",
				Flags: []cli.Flag{
					newInputFlag("Sales CSV with date and sales columns"),
					&cli.IntFlag{
						Name:    "periods",
						Aliases: []string{"p"},
						Usage:   "Number of periods to project",
						Value:   cfg.Forecast.DefaultHorizon,
					},
					newChartFlag(),
				},
				Action: r.forecast,
			},
			{
				Name:  "trends",
				Usage: "Moving averages and period-over-period growth of a date,sales CSV",
				Flags: []cli.Flag{
					newInputFlag("Sales CSV with date and sales columns"),
					&cli.IntFlag{Name: "short-window", Usage: "Short moving average window", Value: analytics.DefaultShortWindow},
					&cli.IntFlag{Name: "long-window", Usage: "Long moving average window", Value: analytics.DefaultLongWindow},
					newChartFlag(),
				},
				Action: r.trends,
			},
			{
				Name:  "abc",
				Usage: "Turnover and ABC classification of a product,price,stock,sales CSV",
				Flags: []cli.Flag{
					newInputFlag("Inventory CSV with product, price, stock and sales columns"),
					&cli.Float64Flag{Name: "a-threshold", Usage: "Cumulative value share (percent) closing class A", Value: analytics.DefaultAThreshold},
					&cli.Float64Flag{Name: "b-threshold", Usage: "Cumulative value share (percent) closing class B", Value: analytics.DefaultBThreshold},
					&cli.BoolFlag{Name: "ranked", Usage: "List items by descending value instead of input order"},
				},
				Action: r.abc,
			},
			{
				Name:  "eoq",
				Usage: "Economic order quantity",
				Flags: []cli.Flag{
					&cli.Float64Flag{Name: "annual-demand", Usage: "Units per year", Value: rep.AnnualDemand},
					&cli.Float64Flag{Name: "order-cost", Usage: "Cost per order", Value: rep.OrderCost},
					&cli.Float64Flag{Name: "holding-cost", Usage: "Holding cost per unit per year", Value: rep.HoldingCost},
					&cli.Float64SliceFlag{Name: "curve", Usage: "Also evaluate total cost at these order quantities"},
				},
				Action: r.eoq,
			},
			{
				Name:  "rop",
				Usage: "Reorder point with safety stock",
				Flags: []cli.Flag{
					&cli.Float64Flag{Name: "daily-demand", Usage: "Units per day", Value: rep.DailyDemand},
					&cli.Float64Flag{Name: "lead-time", Usage: "Lead time in days", Value: rep.LeadTimeDays},
					&cli.Float64Flag{Name: "z", Usage: "Service factor", Value: rep.ServiceZ},
					&cli.Float64Flag{Name: "service-level", Usage: "Cycle service level in percent; overrides --z"},
					&cli.Float64Flag{Name: "std-dev", Usage: "Standard deviation of daily demand", Value: rep.DemandStdDev},
				},
				Action: r.rop,
			},
			{
				Name:  "cache",
				Usage: "Manage the Redis forecast cache used by the server",
				Subcommands: []*cli.Command{
					{
						Name:   "flush",
						Usage:  "Delete every cached forecast",
						Action: r.flushCache,
					},
				},
			},
		},
	}
}

func (r *runner) open(path string) (io.ReadCloser, error) {
	if path == "" || path == "-" {
		return io.NopCloser(r.stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open input")
	}
	return f, nil
}

func (r *runner) loadSeries(path string) (analytics.Series, error) {
	in, err := r.open(path)
	if err != nil {
		return analytics.Series{}, err
	}
	defer in.Close()

	records, err := dataset.LoadSales(in)
	if err != nil {
		return analytics.Series{}, errors.Wrap(err, "read sales")
	}
	return domain.ParseSales(records)
}

func (r *runner) write(v interface{}) error {
	enc := json.NewEncoder(r.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeChart(path string, png []byte) error {
	if err := os.WriteFile(path, png, 0o644); err != nil {
		return errors.Wrap(err, "write chart")
	}
	logger.Log.Info().Str("path", path).Int("bytes", len(png)).Msg("chart written")
	return nil
}

func (r *runner) forecast(c *cli.Context) error {
	series, err := r.loadSeries(c.String("input"))
	if err != nil {
		return err
	}

	res, err := analytics.Forecast(series, c.Int("periods"))
	if err != nil {
		return err
	}

	if path := c.String("chart"); path != "" {
		png, err := chart.RenderForecast("Sales forecast", series, res)
		if err != nil {
			return err
		}
		if err := writeChart(path, png); err != nil {
			return err
		}
	}
	return r.write(domain.NewForecastResponse(res))
}

func (r *runner) trends(c *cli.Context) error {
	series, err := r.loadSeries(c.String("input"))
	if err != nil {
		return err
	}

	res, err := analytics.AnalyzeTrend(series, analytics.TrendOptions{
		ShortWindow: c.Int("short-window"),
		LongWindow:  c.Int("long-window"),
	})
	if err != nil {
		return err
	}

	if path := c.String("chart"); path != "" {
		png, err := chart.RenderTrend("Sales trend", res)
		if err != nil {
			return err
		}
		if err := writeChart(path, png); err != nil {
			return err
		}
	}
	return r.write(domain.NewTrendResponse(res))
}

func (r *runner) abc(c *cli.Context) error {
	in, err := r.open(c.String("input"))
	if err != nil {
		return err
	}
	defer in.Close()

	records, err := dataset.LoadInventory(in)
	if err != nil {
		return errors.Wrap(err, "read inventory")
	}

	res, err := analytics.Classify(domain.ParseInventory(records), analytics.ClassifyOptions{
		AThreshold: c.Float64("a-threshold"),
		BThreshold: c.Float64("b-threshold"),
		Ranked:     c.Bool("ranked"),
	})
	if err != nil {
		return err
	}
	return r.write(domain.NewInventoryResponse(res))
}

func (r *runner) eoq(c *cli.Context) error {
	demand := c.Float64("annual-demand")
	orderCost := c.Float64("order-cost")
	holdingCost := c.Float64("holding-cost")
	req := domain.EOQRequest{AnnualDemand: &demand, OrderCost: &orderCost, HoldingCost: &holdingCost}

	resp, err := r.inventory.EOQ(c.Context, req)
	if err != nil {
		return err
	}
	if !c.IsSet("curve") {
		return r.write(resp)
	}

	curve, err := r.inventory.EOQCurve(c.Context, domain.EOQCurveRequest{
		EOQRequest: req,
		Quantities: c.Float64Slice("curve"),
	})
	if err != nil {
		return err
	}
	return r.write(struct {
		*domain.EOQResponse
		EOQData []domain.CostPoint `json:"eoq_data"`
	}{resp, curve.EOQData})
}

func (r *runner) flushCache(c *cli.Context) error {
	if !r.cfg.Cache.Enabled {
		return errors.New("forecast cache is disabled, set CACHE_ENABLED=true")
	}

	fc, err := cache.NewForecastCache(r.cfg.Cache)
	if err != nil {
		return err
	}
	defer fc.Close()

	if err := fc.InvalidateAll(c.Context); err != nil {
		return errors.Wrap(err, "flush forecast cache")
	}
	logger.Log.Info().Msg("forecast cache flushed")
	return r.write(map[string]bool{"flushed": true})
}

func (r *runner) rop(c *cli.Context) error {
	demand := c.Float64("daily-demand")
	lead := c.Float64("lead-time")
	stdDev := c.Float64("std-dev")
	req := domain.ROPRequest{DailyDemand: &demand, LeadTimeDays: &lead, DemandStdDev: &stdDev}

	if c.IsSet("service-level") {
		level := c.Float64("service-level")
		req.ServiceLevel = &level
	} else {
		z := c.Float64("z")
		req.Z = &z
	}

	resp, err := r.inventory.ROP(c.Context, req)
	if err != nil {
		return err
	}
	return r.write(resp)
}
