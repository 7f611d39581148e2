package market

// TradeType is the direction of a marketplace trade.
// BUY means acquiring the stable asset by paying fiat,
// SELL means disposing of the stable asset for fiat
type TradeType string

const (
	TradeTypeBUY  TradeType = "BUY"
	TradeTypeSELL TradeType = "SELL"
)

func (t TradeType) String() string {
	return string(t)
}

// Opposite returns the inverse trade direction
func (t TradeType) Opposite() TradeType {
	if t == TradeTypeBUY {
		return TradeTypeSELL
	}

	return TradeTypeBUY
}

// Seller is the advertiser metadata attached to an offer
type Seller struct {
	Name string `json:"name"`

	// IsMerchant marks marketplace-certified advertisers
	IsMerchant bool `json:"is_merchant"`

	// MonthFinishRate is the rolling completion rate, 0-100
	MonthFinishRate float64 `json:"month_finish_rate"`

	// MonthOrdersCount is the rolling order count
	MonthOrdersCount int `json:"month_orders_count"`

	// UserID is the opaque marketplace user identifier
	UserID string `json:"user_id"`
}

// Offer is a single advertisement to trade the stable asset
// against one fiat currency. Offers are immutable and live only
// for the duration of one planning step
type Offer struct {
	// CurrencyCode is the fiat currency the offer is denominated in
	CurrencyCode string `json:"currency_code"`

	Seller Seller `json:"seller"`

	TradeType TradeType `json:"trade_type"`

	// Price is the fiat cost per unit of the stable asset
	Price float64 `json:"price"`

	// MinAmount is the minimum transaction amount, in fiat
	MinAmount float64 `json:"min_amount"`

	// TradableFunds is the remaining liquidity of the offer
	TradableFunds float64 `json:"tradable_funds"`

	// OfferID is the marketplace-assigned advertisement identifier
	OfferID string `json:"offer_id"`
}

// TradeMethod is a distinct payment rail extracted from offer records
type TradeMethod struct {
	ShortName   string `json:"short_name"`
	DisplayName string `json:"display_name"`
}

// OfferQuery describes a single marketplace offer lookup
type OfferQuery struct {
	// Fiat is the fiat currency code to trade the asset against
	Fiat string

	// PayType is the payment method short name filter, empty for any
	PayType string

	// MerchantOnly restricts results to certified merchants
	MerchantOnly bool

	// Amount is the fiat transaction amount.
	// A nil amount means unspecified (probe query), which the
	// marketplace treats differently from an explicit zero
	Amount *float64

	TradeType TradeType

	// Rows is the requested result set size
	Rows int
}
