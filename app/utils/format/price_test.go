package format

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestPrice(t *testing.T) {
	assert.Equal(t, "150,00 ₽", Price(decimal.RequireFromString("150")))
	assert.Contains(t, Price(decimal.RequireFromString("1500.5")), "1 500,50")
}
