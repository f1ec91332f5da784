package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hotelgrid/procure/catalog"
)

func TestStockStatusDerivation(t *testing.T) {
	tests := []struct {
		name       string
		current    int
		reorderAt  int
		maxLevel   int
		wantStatus catalog.StockStatus
	}{
		{"zero stock is out", 0, 10, 100, catalog.StockStatusOutOfStock},
		{"negative stock is out", -5, 10, 100, catalog.StockStatusOutOfStock},
		{"at reorder point is low", 10, 10, 100, catalog.StockStatusLowStock},
		{"below reorder point is low", 3, 10, 100, catalog.StockStatusLowStock},
		{"between bands is normal", 50, 10, 100, catalog.StockStatusNormal},
		{"at max level is overstock", 100, 10, 100, catalog.StockStatusOverstock},
		{"above max level is overstock", 250, 10, 100, catalog.StockStatusOverstock},
		{"out of stock wins over overstock config", 0, 10, 0, catalog.StockStatusOutOfStock},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alloc := &catalog.StockAllocation{
				CurrentStock:  tt.current,
				ReorderPoint:  tt.reorderAt,
				MaxStockLevel: tt.maxLevel,
			}
			assert.Equal(t, tt.wantStatus, alloc.StockStatus())
		})
	}
}

func TestNeedsReorder(t *testing.T) {
	alloc := &catalog.StockAllocation{CurrentStock: 10, ReorderPoint: 10}
	assert.True(t, alloc.NeedsReorder())

	alloc.CurrentStock = 11
	assert.False(t, alloc.NeedsReorder())

	alloc.CurrentStock = 0
	assert.True(t, alloc.NeedsReorder())
}
