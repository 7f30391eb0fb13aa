package dataset

import (
	"strings"
	"testing"

	"github.com/andresuchdata/retail-analytics/backend-go/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSales(t *testing.T) {
	in := "Date, Sales\n2024-01-01, 1200\n2024-02-01,\"1,350.5\"\n2024-03-01,0\n"
	got, err := LoadSales(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, []domain.SalesRecord{
		{Date: "2024-01-01", Sales: 1200},
		{Date: "2024-02-01", Sales: 1350.5},
		{Date: "2024-03-01", Sales: 0},
	}, got)
}

func TestLoadSalesErrors(t *testing.T) {
	_, err := LoadSales(strings.NewReader(""))
	assert.Error(t, err)

	_, err = LoadSales(strings.NewReader("date,amount\n2024-01-01,1\n"))
	assert.ErrorContains(t, err, `missing column "sales"`)

	_, err = LoadSales(strings.NewReader("date,sales\n2024-01-01,abc\n"))
	assert.ErrorContains(t, err, "line 2")

	_, err = LoadSales(strings.NewReader("date,sales\n2024-01-01,5\n2024-02-01,\n"))
	assert.ErrorContains(t, err, "line 3: sales: empty value")
}

func TestLoadInventory(t *testing.T) {
	in := "product,price,stock,sales\nP1,10000,100,50\nP2,5000,0,10\n"
	got, err := LoadInventory(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, []domain.InventoryRecord{
		{Product: "P1", Price: 10000, Stock: 100, Sales: 50},
		{Product: "P2", Price: 5000, Stock: 0, Sales: 10},
	}, got)
}

func TestLoadInventoryRejectsEmptyCells(t *testing.T) {
	in := "product,price,stock,sales\nP1,10000,100,50\nP2,5000, ,10\n"
	_, err := LoadInventory(strings.NewReader(in))
	assert.ErrorContains(t, err, "line 3: stock: empty value")
}
