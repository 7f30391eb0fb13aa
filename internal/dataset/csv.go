// Package dataset loads sales histories and inventory snapshots from CSV.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/andresuchdata/retail-analytics/backend-go/internal/domain"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// Column names are matched case-insensitively after trimming.
var (
	salesColumns     = []string{"date", "sales"}
	inventoryColumns = []string{"product", "price", "stock", "sales"}
)

// LoadSales reads a CSV with date and sales columns.
func LoadSales(r io.Reader) ([]domain.SalesRecord, error) {
	var out []domain.SalesRecord
	err := readRows(r, salesColumns, func(line int, get func(string) string) error {
		sales, err := parseNumber(get("sales"))
		if err != nil {
			return fmt.Errorf("line %d: sales: %w", line, err)
		}
		out = append(out, domain.SalesRecord{Date: get("date"), Sales: sales})
		return nil
	})
	return out, err
}

// LoadInventory reads a CSV with product, price, stock and sales columns.
func LoadInventory(r io.Reader) ([]domain.InventoryRecord, error) {
	var out []domain.InventoryRecord
	err := readRows(r, inventoryColumns, func(line int, get func(string) string) error {
		rec := domain.InventoryRecord{Product: get("product")}
		fields := []struct {
			name string
			dst  *float64
		}{
			{"price", &rec.Price},
			{"stock", &rec.Stock},
			{"sales", &rec.Sales},
		}
		for _, f := range fields {
			v, err := parseNumber(get(f.name))
			if err != nil {
				return fmt.Errorf("line %d: %s: %w", line, f.name, err)
			}
			*f.dst = v
		}
		out = append(out, rec)
		return nil
	})
	return out, err
}

func readRows(r io.Reader, required []string, fn func(line int, get func(string) string) error) error {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return errors.New("empty csv")
	}
	if err != nil {
		return errors.Wrap(err, "failed to read CSV header")
	}

	colMap := make(map[string]int)
	for i, col := range header {
		colMap[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(col, "\ufeff")))] = i
	}
	for _, col := range required {
		if _, ok := colMap[col]; !ok {
			return errors.Errorf("missing column %q", col)
		}
	}

	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			return nil
		}
		line++
		if err != nil {
			return errors.Wrapf(err, "line %d", line)
		}

		get := func(col string) string {
			idx := colMap[col]
			if idx >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[idx])
		}
		if err := fn(line, get); err != nil {
			return err
		}
	}
}

func parseNumber(raw string) (float64, error) {
	if raw == "" {
		return 0, errors.New("empty value")
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(raw, ",", ""))
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", raw)
	}
	return d.InexactFloat64(), nil
}
