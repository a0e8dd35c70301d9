package domain

// Currency is an ISO 4217 currency code.
type Currency string

// Supported currencies.
const (
	CurrencyINR Currency = "INR"
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyGBP Currency = "GBP"
	CurrencyJPY Currency = "JPY"
	CurrencyAUD Currency = "AUD"
	CurrencyCAD Currency = "CAD"
	CurrencySGD Currency = "SGD"
	CurrencyCHF Currency = "CHF"
	CurrencyCNY Currency = "CNY"
)

var validCurrencies = map[Currency]bool{
	CurrencyINR: true,
	CurrencyUSD: true,
	CurrencyEUR: true,
	CurrencyGBP: true,
	CurrencyJPY: true,
	CurrencyAUD: true,
	CurrencyCAD: true,
	CurrencySGD: true,
	CurrencyCHF: true,
	CurrencyCNY: true,
}

// IsValid checks if the currency is supported.
func (c Currency) IsValid() bool {
	return validCurrencies[c]
}
