package service

import (
	"testing"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func newTestProduct(id int, price string, colors ...string) *model.Product {
	return &model.Product{
		ID:     id,
		Name:   "Test Product",
		Price:  decimal.RequireFromString(price),
		Brand:  "Flora Beauty",
		Image:  "https://example.com/p.jpg",
		Colors: colors,
		Stock:  20,
	}
}

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

// decimal 經過 JSON 後精度表示會變，金額用 Equal 比較
func requireSameItems(t *testing.T, want, got []model.CartItem) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		require.True(t, want[i].Price.Equal(got[i].Price), "price of line %d: want %s got %s", i, want[i].Price, got[i].Price)
		w, g := want[i], got[i]
		w.Price, g.Price = decimal.Zero, decimal.Zero
		require.Equal(t, w, g)
	}
}
