package shared

import "github.com/shopspring/decimal"

// Money values travel as JSON numbers, matching what API clients send.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// SumMoney adds up values
func SumMoney(values ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}
