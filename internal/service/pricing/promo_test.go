package pricing

import (
	"testing"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/stretchr/testify/require"
)

func TestPromoLookupCaseInsensitive(t *testing.T) {
	table := DefaultPromoTable()

	for _, code := range []string{"FLORA10", "flora10", "  Flora10 "} {
		p, ok := table.Lookup(code)
		require.True(t, ok, code)
		require.Equal(t, "FLORA10", p.Code)
	}

	_, ok := table.Lookup("FLORA99")
	require.False(t, ok)
}

func TestPromoValidate(t *testing.T) {
	table := DefaultPromoTable()

	_, err := table.Validate("   ", d(100))
	require.ErrorIs(t, err, ErrPromoCodeEmpty)

	_, err = table.Validate("NOPE", d(100))
	require.ErrorIs(t, err, ErrPromoCodeNotFound)

	// FLORA20 需要最低 150
	_, err = table.Validate("FLORA20", d(100))
	require.ErrorIs(t, err, ErrPromoMinOrder)

	promo, err := table.Validate("flora20", d(200))
	require.NoError(t, err)
	require.Equal(t, model.PromoKindPercentage, promo.Kind)

	// 剛好等於最低金額可以使用
	_, err = table.Validate("BIENVENUE", d(50))
	require.NoError(t, err)
}

func TestPromoRejectedLeavesTotalUnchanged(t *testing.T) {
	c := DefaultCalculator()
	table := DefaultPromoTable()

	cart := items(100)
	before := c.Summarize(cart, nil)

	promo, err := table.Validate("FLORA20", Subtotal(cart))
	require.Error(t, err)
	require.Nil(t, promo)
	after := c.Summarize(cart, promo)
	requireDecimal(t, before.Total, after.Total)

	cart = items(200)
	before = c.Summarize(cart, nil)
	promo, err = table.Validate("FLORA20", Subtotal(cart))
	require.NoError(t, err)
	after = c.Summarize(cart, promo)
	requireDecimal(t, d(40), after.Discount)
	requireDecimal(t, before.Total.Sub(d(40)), after.Total)
}
