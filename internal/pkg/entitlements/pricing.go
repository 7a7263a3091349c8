package entitlements

import (
	"log"

	"github.com/tablefox/TableFox/app/models"
)

// Fallback pricing formula when no active tier covers the requested count:
// the first restaurant costs the base price, each additional one the
// increment.
const (
	FallbackBasePrice = 20.0
	FallbackIncrement = 10.0
)

// Currency for all quotes. Tier pricing is flat monthly USD.
const Currency = "USD"

// TierCatalog is the read side of the pricing tier store used for selection.
type TierCatalog interface {
	ListActiveByCapacity() ([]models.PricingTier, error)
}

// Quote is a monthly price for operating a number of restaurants.
type Quote struct {
	TierName     string  `json:"tier_name,omitempty"`
	MonthlyPrice float64 `json:"monthly_price"`
}

// PriceSelector picks the cheapest active tier covering a restaurant count.
type PriceSelector struct {
	tiers TierCatalog
}

// NewPriceSelector creates a selector backed by the given catalog.
func NewPriceSelector(tiers TierCatalog) *PriceSelector {
	return &PriceSelector{tiers: tiers}
}

// PriceFor returns the monthly price quote for operating count restaurants.
// The catalog is ordered by capacity, so the first covering tier is the
// minimum-capacity match. Catalog lookup failures fall back to the formula;
// a quote must never fail.
func (s *PriceSelector) PriceFor(count int) Quote {
	if count <= 0 {
		return Quote{MonthlyPrice: 0}
	}

	tiers, err := s.tiers.ListActiveByCapacity()
	if err != nil {
		log.Printf("pricing: tier catalog lookup failed, using fallback formula: %v", err)
		return fallbackQuote(count)
	}

	for _, tier := range tiers {
		if tier.Covers(count) {
			return Quote{TierName: tier.Name, MonthlyPrice: tier.Price}
		}
	}
	return fallbackQuote(count)
}

func fallbackQuote(count int) Quote {
	return Quote{MonthlyPrice: FallbackBasePrice + FallbackIncrement*float64(count-1)}
}
