package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tourbooking/internal/domain"
)

var (
	lunch = domain.Upsell{ID: "u-lunch", Name: "Lunch", UnitPrice: 300, PricingType: domain.UpsellPerPerson}
	boat  = domain.Upsell{ID: "u-boat", Name: "Private boat", UnitPrice: 5000, PricingType: domain.UpsellPerBooking}
)

func TestToggleUpsell_SelectAndDeselect(t *testing.T) {
	sel := ToggleUpsell(nil, lunch, 3, true)
	require.Len(t, sel, 1)
	assert.Equal(t, 3, sel[0].Quantity)
	assert.Equal(t, int64(900), sel[0].TotalPrice)

	sel = ToggleUpsell(sel, boat, 3, true)
	require.Len(t, sel, 2)
	assert.Equal(t, 1, sel[1].Quantity)
	assert.Equal(t, int64(5000), sel[1].TotalPrice)
	assert.Equal(t, int64(5900), SumUpsells(sel))

	sel = ToggleUpsell(sel, lunch, 3, false)
	require.Len(t, sel, 1)
	assert.Equal(t, "u-boat", sel[0].UpsellID)
}

func TestToggleUpsell_NoDuplicates(t *testing.T) {
	sel := ToggleUpsell(nil, lunch, 2, true)
	sel = ToggleUpsell(sel, lunch, 4, true)
	require.Len(t, sel, 1)
	assert.Equal(t, 4, sel[0].Quantity)
}

func TestToggleUpsell_DoesNotMutateInput(t *testing.T) {
	orig := ToggleUpsell(nil, lunch, 2, true)
	_ = ToggleUpsell(orig, boat, 2, true)
	_ = ToggleUpsell(orig, lunch, 2, false)
	require.Len(t, orig, 1)
	assert.Equal(t, "u-lunch", orig[0].UpsellID)
}

func TestToggleUpsell_OnThenOffRestoresList(t *testing.T) {
	transfer := domain.Upsell{ID: "u-transfer", Name: "Hotel transfer", UnitPrice: 800, PricingType: domain.UpsellPerBooking}
	before := ToggleUpsell(ToggleUpsell(nil, lunch, 2, true), boat, 2, true)

	after := ToggleUpsell(ToggleUpsell(before, transfer, 2, true), transfer, 2, false)
	assert.Equal(t, before, after)
}

func TestSelectUpsellCount(t *testing.T) {
	sel := SelectUpsellCount(nil, boat, 2)
	require.Len(t, sel, 1)
	assert.Equal(t, int64(10000), sel[0].TotalPrice)

	sel = SelectUpsellCount(sel, boat, 0)
	assert.Empty(t, sel)
}

func TestRepriceUpsells(t *testing.T) {
	sel := ToggleUpsell(nil, lunch, 2, true)
	sel = ToggleUpsell(sel, boat, 2, true)

	repriced := RepriceUpsells(sel, 5)
	assert.Equal(t, 5, repriced[0].Quantity)
	assert.Equal(t, int64(1500), repriced[0].TotalPrice)
	assert.Equal(t, 1, repriced[1].Quantity)
	assert.Equal(t, int64(5000), repriced[1].TotalPrice)
	assert.Equal(t, 2, sel[0].Quantity, "input must not change")
}

func TestSumUpsells_Empty(t *testing.T) {
	assert.Equal(t, int64(0), SumUpsells(nil))
}
