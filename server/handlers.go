package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/valexandro/binance-p2p-currency-converter/convert"
	"github.com/valexandro/binance-p2p-currency-converter/market"
	"github.com/valexandro/binance-p2p-currency-converter/storage/types"
)

var (
	errInvalidBody       = errors.New("invalid request body")
	errAmountRequired    = errors.New("exactly one of from_amount and to_amount must be set")
	errInvalidAmount     = errors.New("amount must be greater than zero")
	errSameCurrency      = errors.New("from and to currencies must differ")
	errUnknownCurrency   = errors.New("unknown currency")
	errNoOffers          = errors.New("no offers found for the selected currency and payment method")
	errUnableToFetch     = errors.New("unable to fetch currencies")
	errUnableToFetchPM   = errors.New("unable to fetch payment methods")
	errMarketUnavailable = errors.New("marketplace unavailable, try again later")
)

func (s *Server) Convert(w http.ResponseWriter, r *http.Request) {
	var req ConvertRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errInvalidBody)

		return
	}

	// Exactly-one-of semantics, validated before the planner is invoked
	if (req.FromAmount == nil) == (req.ToAmount == nil) {
		writeError(w, http.StatusBadRequest, errAmountRequired)

		return
	}

	var (
		filledIsDestination = req.ToAmount != nil

		filledAmount float64
	)

	if filledIsDestination {
		filledAmount = *req.ToAmount
	} else {
		filledAmount = *req.FromAmount
	}

	if filledAmount <= 0 {
		writeError(w, http.StatusBadRequest, errInvalidAmount)

		return
	}

	fromCode := strings.ToUpper(strings.TrimSpace(req.FromCurrency))
	toCode := strings.ToUpper(strings.TrimSpace(req.ToCurrency))

	if fromCode == toCode {
		writeError(w, http.StatusBadRequest, errSameCurrency)

		return
	}

	// Resolve both currency records
	fromCurrency, err := s.storage.GetCurrencyByCode(r.Context(), fromCode)
	if err != nil {
		writeLookupError(w, err)

		return
	}

	toCurrency, err := s.storage.GetCurrencyByCode(r.Context(), toCode)
	if err != nil {
		writeLookupError(w, err)

		return
	}

	// The filled side is whichever currency's amount is known
	planReq := convert.PlanRequest{
		FilledCurrency:      fromCurrency.Code,
		OtherCurrency:       toCurrency.Code,
		FilledPayType:       req.FromPaymentMethod,
		OtherPayType:        req.ToPaymentMethod,
		MerchantOnly:        req.MerchantOnly,
		FilledAmount:        filledAmount,
		FilledIsDestination: filledIsDestination,
	}

	if filledIsDestination {
		planReq.FilledCurrency, planReq.OtherCurrency = toCurrency.Code, fromCurrency.Code
		planReq.FilledPayType, planReq.OtherPayType = req.ToPaymentMethod, req.FromPaymentMethod
	}

	plan, err := s.planner.Plan(r.Context(), planReq)
	if err != nil {
		s.logger.Debug(
			"unable to plan conversion",
			"from", fromCode,
			"to", toCode,
			"err", err,
		)

		writePlanError(w, err)

		return
	}

	resp := &ConvertResponse{
		FromCurrency: fromCurrency,
		ToCurrency:   toCurrency,
	}

	if filledIsDestination {
		resp.ToAmount = plan.FilledAmount
		resp.FromAmount = plan.OtherAmount()
		resp.ToBestPrice = plan.FilledBest
		resp.FromBestPrice = plan.OtherBest
		resp.ToOffers = plan.FilledOffers
		resp.FromOffers = plan.OtherOffers
	} else {
		resp.FromAmount = plan.FilledAmount
		resp.ToAmount = plan.OtherAmount()
		resp.FromBestPrice = plan.FilledBest
		resp.ToBestPrice = plan.OtherBest
		resp.FromOffers = plan.FilledOffers
		resp.ToOffers = plan.OtherOffers
	}

	resp.Rate = resp.ToBestPrice / resp.FromBestPrice

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) Currencies(w http.ResponseWriter, r *http.Request) {
	items, err := s.storage.ListCurrencies(r.Context())
	if err != nil {
		s.logger.Debug(
			"unable to fetch currencies",
			"err", err,
		)

		writeError(w, http.StatusInternalServerError, errUnableToFetch)

		return
	}

	writeJSON(w, http.StatusOK, &CurrenciesResponse{Results: items})
}

func (s *Server) PaymentMethods(w http.ResponseWriter, r *http.Request) {
	code := strings.ToUpper(strings.TrimSpace(chi.URLParam(r, "code")))

	if _, err := s.storage.GetCurrencyByCode(r.Context(), code); err != nil {
		writeLookupError(w, err)

		return
	}

	items, err := s.storage.ListPaymentMethods(r.Context(), code)
	if err != nil {
		s.logger.Debug(
			"unable to fetch payment methods",
			"currency", code,
			"err", err,
		)

		writeError(w, http.StatusInternalServerError, errUnableToFetchPM)

		return
	}

	writeJSON(w, http.StatusOK, &PaymentMethodsResponse{Results: items})
}

func (s *Server) SyncPaymentMethods(w http.ResponseWriter, r *http.Request) {
	code := strings.ToUpper(strings.TrimSpace(chi.URLParam(r, "code")))

	items, err := s.syncer.SyncPaymentMethods(r.Context(), code)
	if err != nil {
		s.logger.Debug(
			"unable to sync payment methods",
			"currency", code,
			"err", err,
		)

		writePlanError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, &PaymentMethodsResponse{Results: items})
}

// writeLookupError maps reference-data lookup failures
func writeLookupError(w http.ResponseWriter, err error) {
	if errors.Is(err, types.ErrNotFound) {
		writeError(w, http.StatusBadRequest, errUnknownCurrency)

		return
	}

	writeError(w, http.StatusInternalServerError, errUnableToFetch)
}

// writePlanError maps marketplace failures to user-facing responses:
// missing liquidity and upstream refusals warrant a selection change,
// transport failures warrant a retry
func writePlanError(w http.ResponseWriter, err error) {
	var marketErr *market.MarketplaceError

	switch {
	case errors.Is(err, types.ErrNotFound):
		writeError(w, http.StatusBadRequest, errUnknownCurrency)
	case errors.Is(err, convert.ErrInvalidAmount):
		writeError(w, http.StatusBadRequest, errInvalidAmount)
	case errors.Is(err, market.ErrNoOffers):
		writeError(w, http.StatusNotFound, errNoOffers)
	case errors.As(err, &marketErr):
		writeError(w, http.StatusBadGateway, marketErr)
	case errors.Is(err, market.ErrUnavailable):
		writeError(w, http.StatusServiceUnavailable, errMarketUnavailable)
	default:
		writeError(w, http.StatusInternalServerError, err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(v) //nolint:errcheck // Fine to ignore
}

func writeError(w http.ResponseWriter, status int, err error) {
	resp := &ErrorResponse{
		Error: err.Error(),
	}

	writeJSON(w, status, resp)
}
