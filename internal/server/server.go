// Package server exposes the calculators over a stateless JSON API.
package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/iwvelando/finance-tracker/internal/calculator"
	"github.com/iwvelando/finance-tracker/internal/config"
	"github.com/iwvelando/finance-tracker/pkg/constants"
	"github.com/iwvelando/finance-tracker/pkg/datetime"
	"github.com/iwvelando/finance-tracker/pkg/deposits"
	"github.com/iwvelando/finance-tracker/pkg/loans"
	"github.com/iwvelando/finance-tracker/pkg/output"
	"github.com/iwvelando/finance-tracker/pkg/series"
	"github.com/iwvelando/finance-tracker/pkg/validation"
	"github.com/iwvelando/finance-tracker/pkg/xirr"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type handler struct {
	logger         *zap.Logger
	maxRequestSize int64
	version        string
	now            func() time.Time
}

// NewHandler constructs the HTTP handler serving the calculation API.
func NewHandler(logger *zap.Logger, maxRequestSize int64, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxRequestSize <= 0 {
		maxRequestSize = constants.DefaultMaxUploadSizeBytes
	}
	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{logger: logger, maxRequestSize: maxRequestSize, version: trimmedVersion, now: time.Now}
	return h.routes()
}

func (h *handler) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/xirr", h.handleXIRR)
	mux.HandleFunc("/api/deposits", h.handleDeposits)
	mux.HandleFunc("/api/sip", h.handleSIP)
	mux.HandleFunc("/api/loan", h.handleLoan)
	mux.HandleFunc("/api/series/changes", h.handleSeriesChanges)
	mux.HandleFunc("/api/calculate", h.handleCalculate)
	mux.HandleFunc("/api/version", h.handleVersion)
	return mux
}

type xirrResponse struct {
	Rate       float64 `json:"rate"`
	Iterations int     `json:"iterations"`
	Converged  bool    `json:"converged"`
}

type depositQuote struct {
	Name           string  `json:"name"`
	Maturity       float64 `json:"maturity"`
	Interest       float64 `json:"interest"`
	EffectiveYield float64 `json:"effectiveYield"`
}

type depositsRequest struct {
	Deposits []config.Deposit `json:"deposits"`
}

type depositsResponse struct {
	Quotes []depositQuote `json:"quotes"`
}

type sipResponse struct {
	Invested    float64 `json:"invested"`
	FutureValue float64 `json:"futureValue"`
	Gain        float64 `json:"gain"`
}

type loanRequest struct {
	config.Loan
	AsOf string `json:"asOf"`
}

type loanProjection struct {
	PayoffDate    string  `json:"payoffDate"`
	Months        int     `json:"months"`
	TotalInterest float64 `json:"totalInterest"`
	TotalPaid     float64 `json:"totalPaid"`
}

type loanResponse struct {
	PaidInstallments      int             `json:"paidInstallments"`
	TotalInstallments     int             `json:"totalInstallments"`
	TotalAmountPaid       float64         `json:"totalAmountPaid"`
	TotalInterestPaid     float64         `json:"totalInterestPaid"`
	TotalAmountPayable    float64         `json:"totalAmountPayable"`
	TotalInterestOverLoan float64         `json:"totalInterestOverLoan"`
	RemainingAmount       float64         `json:"remainingAmount"`
	RemainingMonths       int             `json:"remainingMonths"`
	RemainingYears        float64         `json:"remainingYears"`
	XIRR                  float64         `json:"xirr"`
	XIRRConverged         bool            `json:"xirrConverged"`
	Projection            *loanProjection `json:"projection,omitempty"`
}

type seriesResponse struct {
	Day1          float64  `json:"day1"`
	Week1         float64  `json:"week1"`
	Month1        float64  `json:"month1"`
	Month3        float64  `json:"month3"`
	Month6        float64  `json:"month6"`
	Year1         float64  `json:"year1"`
	Volatility    *float64 `json:"volatility,omitempty"`
	AverageVolume *float64 `json:"averageVolume,omitempty"`
}

type calculateValue struct {
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
}

type calculateResult struct {
	Name   string           `json:"name"`
	Kind   string           `json:"kind"`
	Values []calculateValue `json:"values"`
	Notes  []string         `json:"notes,omitempty"`
}

type calculateResponse struct {
	Results  []calculateResult `json:"results"`
	CSV      string            `json:"csv"`
	Warnings []string          `json:"warnings,omitempty"`
	Duration string            `json:"duration"`
}

func (h *handler) handleXIRR(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleXIRR"
	var req config.CashFlowSet
	if !h.decode(w, r, &req, op) {
		return
	}

	flows, err := req.ToCashFlows()
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}
	guess := req.Guess
	if guess == 0 {
		guess = constants.DefaultGuess
	}

	result, err := xirr.NewSolver(h.logger).Solve(flows, guess)
	if err != nil {
		h.respondCalculationError(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusOK, xirrResponse{Rate: result.Rate, Iterations: result.Iterations, Converged: result.Converged})
}

func (h *handler) handleDeposits(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleDeposits"
	var req depositsRequest
	if !h.decode(w, r, &req, op) {
		return
	}

	fds := make([]deposits.FixedDeposit, 0, len(req.Deposits))
	for _, d := range req.Deposits {
		fds = append(fds, d.ToFixedDeposit())
	}
	quotes, err := deposits.Compare(fds)
	if err != nil {
		h.respondCalculationError(w, err, op)
		return
	}

	resp := depositsResponse{Quotes: make([]depositQuote, 0, len(quotes))}
	for _, q := range quotes {
		resp.Quotes = append(resp.Quotes, depositQuote{
			Name:           q.Name,
			Maturity:       q.Maturity,
			Interest:       q.Interest,
			EffectiveYield: q.EffectiveYield,
		})
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *handler) handleSIP(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleSIP"
	var req config.SIP
	if !h.decode(w, r, &req, op) {
		return
	}

	fv, err := deposits.SIPFutureValue(req.Amount, req.Rate, req.PeriodsPerYear, req.Periods)
	if err != nil {
		h.respondCalculationError(w, err, op)
		return
	}
	invested := deposits.SIPInvested(req.Amount, req.Periods)
	h.writeJSON(w, http.StatusOK, sipResponse{Invested: invested, FutureValue: fv, Gain: fv - invested})
}

func (h *handler) handleLoan(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleLoan"
	var req loanRequest
	if !h.decode(w, r, &req, op) {
		return
	}

	asOf := datetime.Day(h.now())
	if req.AsOf != "" {
		parsed, err := datetime.ParseDate(req.AsOf)
		if err != nil {
			h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
			return
		}
		asOf = parsed
	}

	state, err := req.ToLoanState()
	if err != nil {
		h.respondCalculationError(w, err, op)
		return
	}
	details, err := loans.NewAnalyzer(h.logger).Details(state, asOf)
	if err != nil {
		h.respondCalculationError(w, err, op)
		return
	}

	resp := loanResponse{
		PaidInstallments:      details.PaidInstallments,
		TotalInstallments:     state.TotalInstallments,
		TotalAmountPaid:       details.TotalAmountPaid,
		TotalInterestPaid:     details.TotalInterestPaid,
		TotalAmountPayable:    details.TotalAmountPayable,
		TotalInterestOverLoan: details.TotalInterestOverLoan,
		RemainingAmount:       details.RemainingAmount,
		RemainingMonths:       details.RemainingMonths,
		RemainingYears:        details.RemainingYears,
		XIRR:                  details.XIRR,
		XIRRConverged:         details.XIRRConverged,
	}

	if req.InterestRate > 0 && state.RemainingPrincipal > 0 {
		projection, err := loans.NewScheduleGenerator(h.logger).Project(state.RemainingPrincipal, req.InterestRate, state.EMI, asOf)
		if err != nil {
			h.respondCalculationError(w, err, op)
			return
		}
		resp.Projection = &loanProjection{
			PayoffDate:    datetime.Format(projection.PayoffDate),
			Months:        projection.Months(),
			TotalInterest: projection.TotalInterest,
			TotalPaid:     projection.TotalPaid,
		}
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *handler) handleSeriesChanges(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleSeriesChanges"
	var req config.Series
	if !h.decode(w, r, &req, op) {
		return
	}

	prices, err := req.PricePoints()
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	changes := series.ChangesOverWindows(prices)
	resp := seriesResponse{
		Day1:   changes.Day1,
		Week1:  changes.Week1,
		Month1: changes.Month1,
		Month3: changes.Month3,
		Month6: changes.Month6,
		Year1:  changes.Year1,
	}
	if req.VolatilityWindow > 0 {
		v := series.Volatility(prices, req.VolatilityWindow)
		resp.Volatility = &v
	}
	if len(req.Volumes) > 0 {
		volumes, err := req.VolumePoints()
		if err != nil {
			h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
			return
		}
		window := req.VolumeWindow
		if window == 0 {
			window = len(volumes)
		}
		avg := series.AverageVolume(volumes, window)
		resp.AverageVolume = &avg
	}
	h.writeJSON(w, http.StatusOK, resp)
}

// handleCalculate runs a whole calculation file, sent either as the raw YAML
// body or as the "file" field of a multipart upload.
func (h *handler) handleCalculate(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleCalculate"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	r.Body = http.MaxBytesReader(w, r.Body, h.maxRequestSize)

	data, err := h.readCalculationFile(r)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request exceeds limit of %d bytes", h.maxRequestSize), op)
			return
		}
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	var conf config.Configuration
	if err := yaml.Unmarshal(data, &conf); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("error reading config data, %v", err), op)
		return
	}

	results, err := calculator.NewRunner(h.logger).Run(&conf, h.now())
	if err != nil {
		h.respondCalculationError(w, err, op)
		return
	}

	var csvBuf bytes.Buffer
	if err := output.CsvFormat(&csvBuf, results); err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to render csv: %v", err), op)
		return
	}

	resp := calculateResponse{
		Results:  make([]calculateResult, 0, len(results)),
		CSV:      csvBuf.String(),
		Warnings: conf.ValidateConfiguration(),
		Duration: time.Since(start).String(),
	}
	for _, result := range results {
		out := calculateResult{Name: result.Name, Kind: string(result.Kind), Notes: result.Notes}
		for _, v := range result.Values {
			out.Values = append(out.Values, calculateValue{Label: v.Label, Amount: v.Amount})
		}
		resp.Results = append(resp.Results, out)
	}

	h.logger.Info("calculation completed",
		zap.String("op", op),
		zap.Int("results", len(results)),
		zap.Duration("duration", time.Since(start)),
	)
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *handler) readCalculationFile(r *http.Request) ([]byte, error) {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return io.ReadAll(r.Body)
	}

	if err := r.ParseMultipartForm(h.maxRequestSize); err != nil {
		return nil, err
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		return nil, errors.New("missing configuration file")
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			h.logger.Warn("failed to close uploaded file",
				zap.String("op", "server.handleCalculate"),
				zap.Error(closeErr),
			)
		}
	}()
	return io.ReadAll(file)
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

// decode reads a JSON POST body into dst. It writes the error response and
// returns false when the request cannot be used.
func (h *handler) decode(w http.ResponseWriter, r *http.Request, dst interface{}, op string) bool {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return false
	}

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, h.maxRequestSize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request exceeds limit of %d bytes", h.maxRequestSize), op)
			return false
		}
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), op)
		return false
	}
	return true
}

// respondCalculationError maps calculation failures onto HTTP statuses.
func (h *handler) respondCalculationError(w http.ResponseWriter, err error, op string) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, validation.ErrInvalidInput), errors.Is(err, validation.ErrDegenerateInput):
		status = http.StatusBadRequest
	case errors.Is(err, validation.ErrNonConvergence):
		status = http.StatusUnprocessableEntity
	case isDateError(err):
		status = http.StatusBadRequest
	}
	h.respondErrorWithOp(w, status, err.Error(), op)
}

func isDateError(err error) bool {
	var parseErr *time.ParseError
	return errors.As(err, &parseErr)
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Error("calculation request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)
	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
