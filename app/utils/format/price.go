package format

import (
	"github.com/leekchan/accounting"
	"github.com/shopspring/decimal"
)

var rubles = accounting.Accounting{
	Symbol:    "₽",
	Precision: 2,
	Thousand:  " ",
	Decimal:   ",",
	Format:    "%v %s",
}

// Price renders an amount the way listing cards show it, e.g. "1 500,00 ₽".
func Price(amount decimal.Decimal) string {
	return rubles.FormatMoneyDecimal(amount)
}
