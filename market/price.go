package market

// BestPrice returns the best achievable price from an offer list already
// sorted by ParseOffers. The list head is the best price for either
// direction. Calling this on an empty list is a caller contract violation,
// reported as ErrEmptyOffers
func BestPrice(offers []Offer) (float64, error) {
	if len(offers) == 0 {
		return 0, ErrEmptyOffers
	}

	return offers[0].Price, nil
}
