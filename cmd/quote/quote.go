package quote

import (
	"context"
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"

	"github.com/valexandro/binance-p2p-currency-converter/cmd/env"
	"github.com/valexandro/binance-p2p-currency-converter/convert"
	"github.com/valexandro/binance-p2p-currency-converter/market"
)

// quoteCfg wraps the one-shot quote configuration
type quoteCfg struct {
	fromCurrency string
	toCurrency   string
	fromMethod   string
	toMethod     string

	merchantOnly bool

	fromAmount float64
	toAmount   float64

	timeout time.Duration
}

// NewQuoteCmd creates the quote subcommand
func NewQuoteCmd() *ffcli.Command {
	cfg := &quoteCfg{}

	fs := flag.NewFlagSet("quote", flag.ExitOnError)
	cfg.registerFlags(fs)

	return &ffcli.Command{
		Name:       "quote",
		ShortUsage: "quote [flags]",
		LongHelp:   "Plans a single fiat-to-fiat conversion and prints the quote",
		FlagSet:    fs,
		Exec:       cfg.exec,
		Options: []ff.Option{
			ff.WithEnvVars(),
			ff.WithEnvVarPrefix(env.Prefix),
		},
	}
}

func (c *quoteCfg) registerFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.fromCurrency, "from", "", "the source fiat currency code")
	fs.StringVar(&c.toCurrency, "to", "", "the destination fiat currency code")
	fs.StringVar(&c.fromMethod, "from-method", "", "the source payment method short name, if any")
	fs.StringVar(&c.toMethod, "to-method", "", "the destination payment method short name, if any")
	fs.BoolVar(&c.merchantOnly, "merchant-only", false, "restrict offers to certified merchants")
	fs.Float64Var(&c.fromAmount, "from-amount", 0, "the known source amount")
	fs.Float64Var(&c.toAmount, "to-amount", 0, "the known destination amount")
	fs.DurationVar(&c.timeout, "timeout", time.Second*30, "the marketplace HTTP client timeout")
}

func (c *quoteCfg) exec(ctx context.Context, _ []string) error {
	fromCode := strings.ToUpper(strings.TrimSpace(c.fromCurrency))
	toCode := strings.ToUpper(strings.TrimSpace(c.toCurrency))

	if fromCode == "" || toCode == "" {
		return fmt.Errorf("both -from and -to currencies are required")
	}

	if fromCode == toCode {
		return fmt.Errorf("-from and -to currencies must differ")
	}

	// Exactly one amount must be known
	if (c.fromAmount > 0) == (c.toAmount > 0) {
		return fmt.Errorf("exactly one of -from-amount and -to-amount must be set")
	}

	var (
		filledIsDestination = c.toAmount > 0

		req = convert.PlanRequest{
			FilledCurrency:      fromCode,
			OtherCurrency:       toCode,
			FilledPayType:       c.fromMethod,
			OtherPayType:        c.toMethod,
			MerchantOnly:        c.merchantOnly,
			FilledAmount:        c.fromAmount,
			FilledIsDestination: filledIsDestination,
		}
	)

	if filledIsDestination {
		req.FilledCurrency, req.OtherCurrency = toCode, fromCode
		req.FilledPayType, req.OtherPayType = c.toMethod, c.fromMethod
		req.FilledAmount = c.toAmount
	}

	planner := convert.NewPlanner(market.NewBinanceClient(c.timeout))

	plan, err := planner.Plan(ctx, req)
	if err != nil {
		return fmt.Errorf("unable to plan conversion: %w", err)
	}

	var (
		fromAmount = plan.FilledAmount
		toAmount   = plan.OtherAmount()
		rate       = plan.OtherBest / plan.FilledBest
	)

	if filledIsDestination {
		fromAmount, toAmount = toAmount, fromAmount
		rate = plan.FilledBest / plan.OtherBest
	}

	fmt.Printf("%.2f %s -> %.2f %s\n", fromAmount, fromCode, toAmount, toCode)
	fmt.Printf("Rate: 1 %s = %.6f %s\n", fromCode, rate, toCode)
	fmt.Printf("Best %s price: %.4f, best %s price: %.4f (per USDT)\n",
		req.FilledCurrency, plan.FilledBest,
		req.OtherCurrency, plan.OtherBest,
	)

	fmt.Println("\nTop offers:")

	for i, offer := range plan.FilledOffers {
		if i == 3 {
			break
		}

		fmt.Printf("  [%s] %.4f by %s (%.1f%%, %d orders)\n",
			offer.CurrencyCode,
			offer.Price,
			offer.Seller.Name,
			offer.Seller.MonthFinishRate,
			offer.Seller.MonthOrdersCount,
		)
	}

	for i, offer := range plan.OtherOffers {
		if i == 3 {
			break
		}

		fmt.Printf("  [%s] %.4f by %s (%.1f%%, %d orders)\n",
			offer.CurrencyCode,
			offer.Price,
			offer.Seller.Name,
			offer.Seller.MonthFinishRate,
			offer.Seller.MonthOrdersCount,
		)
	}

	return nil
}
