package models

// Quote is the last-traded price for a single symbol. Valid is false when the
// provider returned the symbol without a usable numeric price.
type Quote struct {
	Price float64 `json:"price"`
	Valid bool    `json:"valid"`
}

// MarketSnapshot maps ticker symbols to their latest quotes. A total fetch
// failure is represented by an empty (but never nil) snapshot, so callers
// handle "no data" via emptiness rather than a distinct null state.
type MarketSnapshot map[string]Quote

// Volatility returns the price of the volatility symbol (^VIX) if present and
// valid, otherwise the provided default.
func (s MarketSnapshot) Volatility(fallback float64) float64 {
	if q, ok := s[VolatilitySymbol]; ok && q.Valid {
		return q.Price
	}
	return fallback
}

// VolatilitySymbol is the ticker used as the VIX-like volatility reading.
const VolatilitySymbol = "^VIX"

// DefaultTickers is the asset universe tracked when no explicit list is
// configured: broad market, gold, ESG, crypto, volatility and defense names.
var DefaultTickers = []string{
	"^GSPC", "GLD", "ICLN", "BTC-USD", "^VIX", "LMT", "NOC", "ESGU", "SLV", "ETH-USD",
}
