package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeTotalsBelowFreeShipping(t *testing.T) {
	totals := ComputeTotals(20)

	assert.Equal(t, 20.0, totals.Subtotal)
	assert.Equal(t, 2.0, totals.Tax)
	assert.Equal(t, 4.99, totals.Shipping)
	assert.Equal(t, 26.99, totals.Total)
}

func TestComputeTotalsFreeShippingAtThreshold(t *testing.T) {
	totals := ComputeTotals(50)

	assert.Equal(t, 0.0, totals.Shipping)
	assert.Equal(t, 55.0, totals.Total)
}

func TestComputeTotalsEmptyCart(t *testing.T) {
	totals := ComputeTotals(0)

	assert.Zero(t, totals.Subtotal)
	assert.Zero(t, totals.Tax)
	assert.Zero(t, totals.Shipping)
	assert.Zero(t, totals.Total)
}

func TestComputeTotalsRounding(t *testing.T) {
	// 33.333 * 0.1 = 3.3333, arrondi au centime
	totals := ComputeTotals(33.333)

	assert.Equal(t, 33.33, totals.Subtotal)
	assert.Equal(t, 3.33, totals.Tax)
	assert.Equal(t, 41.65, totals.Total)
}
