// Package server exposes the affordability calculator over a stateless JSON
// API. Clients send the whole calculator state with every request; the server
// keeps none.
package server

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/iwvelando/home-affordability/internal/affordability"
	"github.com/iwvelando/home-affordability/internal/config"
	"github.com/iwvelando/home-affordability/internal/observability"
	"github.com/iwvelando/home-affordability/internal/optimizer"
	"github.com/iwvelando/home-affordability/pkg/constants"
	"github.com/iwvelando/home-affordability/pkg/formulas"
	"github.com/iwvelando/home-affordability/pkg/loans"
	"github.com/iwvelando/home-affordability/pkg/mathutil"
	"github.com/iwvelando/home-affordability/pkg/output"
	"github.com/iwvelando/home-affordability/pkg/validation"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type handler struct {
	logger         *zap.Logger
	conf           *config.Configuration
	calculator     affordability.Calculator
	closingCosts   formulas.ClosingCosts
	metrics        *observability.Metrics
	maxRequestSize int64
	version        string
}

// NewHandler constructs the HTTP handler that serves the affordability API.
// A nil configuration means the built-in defaults and nil metrics get a
// private registry.
func NewHandler(logger *zap.Logger, conf *config.Configuration, metrics *observability.Metrics, maxRequestSize int64, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if conf == nil {
		conf = config.Default()
	}
	if metrics == nil {
		metrics = observability.NewMetrics()
	}
	if maxRequestSize <= 0 {
		maxRequestSize = constants.DefaultMaxRequestSizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{
		logger:         logger,
		conf:           conf,
		calculator:     conf.Calculator(),
		closingCosts:   conf.ClosingCostTable(),
		metrics:        metrics,
		maxRequestSize: maxRequestSize,
		version:        trimmedVersion,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.ZapLoggerMiddleware(logger))
	r.Use(observability.MetricsMiddleware(metrics))
	r.Use(middleware.Recoverer)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		h.writeJSON(w, http.StatusNotFound, map[string]string{"error": http.StatusText(http.StatusNotFound)})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		h.writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": http.StatusText(http.StatusMethodNotAllowed)})
	})

	r.Get("/healthz", h.handleHealth)
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/quote", h.handleQuote)
		r.Post("/state/events", h.handleEvents)
		r.Post("/upfront-cost", h.handleUpfrontCost)
		r.Post("/formulas/pmt", h.handlePMT)
		r.Post("/formulas/ltv", h.handleLTV)
		r.Post("/amortization", h.handleAmortization)
		r.Post("/max-price", h.handleMaxPrice)
		r.Get("/schedule", h.handleSchedule)
		r.Get("/config", h.handleConfigExport)
		r.Get("/stats", h.handleStats)
		r.Get("/version", h.handleVersion)
	})

	return r
}

type quoteRequest struct {
	PurchasePrice   string `json:"purchasePrice"`
	DownPayment     string `json:"downPayment"`
	Amortization    *int   `json:"amortization,omitempty"`
	NewConstruction bool   `json:"newConstruction"`
	InterestRate    string `json:"interestRate"`
}

// events replays the form fields in the order a user fills them in.
func (q quoteRequest) events() []affordability.Event {
	events := []affordability.Event{
		affordability.SetPurchasePrice{Text: q.PurchasePrice},
		affordability.SetDownPayment{Text: q.DownPayment},
	}
	if q.Amortization != nil {
		events = append(events, affordability.SetAmortization{Years: *q.Amortization})
	}
	return append(events,
		affordability.SetNewConstruction{On: q.NewConstruction},
		affordability.SetInterestRate{Text: q.InterestRate},
	)
}

type eventsRequest struct {
	State  affordability.State `json:"state"`
	Events []eventPayload      `json:"events"`
}

type upfrontCostRequest struct {
	Price        float64  `json:"price"`
	GST          *float64 `json:"gst,omitempty"`
	PropertyType string   `json:"propertyType"`
	Ownership    string   `json:"ownership"`
	DownPayment  struct {
		Type  string  `json:"type"`
		Value float64 `json:"value"`
	} `json:"downPayment"`
}

type rangeResponse struct {
	Min *float64 `json:"min"`
	Max *float64 `json:"max"`
}

type pmtRequest struct {
	Rate         float64 `json:"rate"`
	NumPeriods   float64 `json:"numPeriods"`
	PresentValue float64 `json:"presentValue"`
	FutureValue  float64 `json:"futureValue"`
}

type ltvRequest struct {
	Loan  float64 `json:"loan"`
	Value float64 `json:"value"`
}

type amortizationRequest struct {
	Principal      float64 `json:"principal"`
	InterestRate   float64 `json:"interestRate"`
	Years          int     `json:"years"`
	ExtraPrincipal float64 `json:"extraPrincipal"`
	Yearly         bool    `json:"yearly"`
}

func (h *handler) handleQuote(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleQuote"

	var req quoteRequest
	if !h.decodeBody(w, r, &req, op) {
		return
	}

	session := affordability.NewSession(h.logger, h.calculator)
	session.Dispatch(req.events()...)
	h.writeQuote(w, session, op)
}

func (h *handler) handleEvents(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleEvents"

	var req eventsRequest
	if !h.decodeBody(w, r, &req, op) {
		return
	}

	events, err := toEvents(req.Events)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	session := affordability.ResumeSession(h.logger, h.calculator, req.State)
	session.Dispatch(events...)
	h.writeQuote(w, session, op)
}

func (h *handler) writeQuote(w http.ResponseWriter, session *affordability.Session, op string) {
	doc := output.NewDocument(session.Evaluate())
	doc.QuoteID = uuid.NewString()

	h.metrics.IncrQuote(string(h.calculator.PrincipalMode))
	h.logger.Debug("quote evaluated",
		zap.String("op", op),
		zap.String("quoteId", doc.QuoteID),
		zap.Int("amortization", doc.Amortization.Years),
		zap.Int("costItems", len(doc.Costs)),
	)

	h.writeJSON(w, http.StatusOK, doc)
}

func (h *handler) handleUpfrontCost(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleUpfrontCost"

	var req upfrontCostRequest
	if !h.decodeBody(w, r, &req, op) {
		return
	}

	gst := h.calculator.GST
	if req.GST != nil {
		gst = *req.GST
	}
	propertyType := req.PropertyType
	if propertyType == "" {
		propertyType = h.conf.PropertyType
	}

	for _, check := range []error{
		validation.ValidateRate("gst", gst),
		validation.ValidatePropertyType(propertyType),
		validation.ValidateOwnership(req.Ownership),
		validation.ValidateDownPaymentKind(req.DownPayment.Type),
	} {
		if check != nil {
			h.respondErrorWithOp(w, http.StatusBadRequest, check.Error(), op)
			return
		}
	}

	result := formulas.CalculateUpfrontCostWith(formulas.UpfrontDetails{
		GST:          gst,
		Price:        req.Price,
		PropertyType: formulas.PropertyType(propertyType),
		Ownership:    formulas.Ownership(req.Ownership),
		DownPayment: formulas.DownPayment{
			Kind:  formulas.DownPaymentKind(req.DownPayment.Type),
			Value: req.DownPayment.Value,
		},
	}, h.closingCosts, h.calculator.Schedule)

	h.writeJSON(w, http.StatusOK, rangeResponse{
		Min: mathutil.FinitePtr(result.Min),
		Max: mathutil.FinitePtr(result.Max),
	})
}

func (h *handler) handlePMT(w http.ResponseWriter, r *http.Request) {
	var req pmtRequest
	if !h.decodeBody(w, r, &req, "server.handlePMT") {
		return
	}

	payment := formulas.CalculatePMT(req.Rate, req.NumPeriods, req.PresentValue, req.FutureValue)
	h.writeJSON(w, http.StatusOK, map[string]*float64{"payment": mathutil.FinitePtr(payment)})
}

func (h *handler) handleLTV(w http.ResponseWriter, r *http.Request) {
	var req ltvRequest
	if !h.decodeBody(w, r, &req, "server.handleLTV") {
		return
	}

	ltv := formulas.CalculateLTV(formulas.LoanValue{Loan: req.Loan, Value: req.Value})
	h.writeJSON(w, http.StatusOK, map[string]*float64{"ltv": mathutil.FinitePtr(ltv)})
}

func (h *handler) handleAmortization(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleAmortization"

	var req amortizationRequest
	if !h.decodeBody(w, r, &req, op) {
		return
	}

	schedule, err := loans.NewScheduleGenerator(h.logger).GenerateSchedule(loans.Loan{
		Principal:      req.Principal,
		InterestRate:   req.InterestRate,
		Years:          req.Years,
		ExtraPrincipal: req.ExtraPrincipal,
	})
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	h.writeJSON(w, http.StatusOK, output.NewScheduleDocument(schedule, req.Yearly))
}

func (h *handler) handleMaxPrice(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleMaxPrice"

	var directive optimizer.Directive
	if !h.decodeBody(w, r, &directive, op) {
		return
	}

	summary, err := optimizer.NewRunner(h.logger, h.calculator).Run(directive)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	h.writeJSON(w, http.StatusOK, summary)
}

func (h *handler) handleSchedule(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]formulas.Schedule{"brackets": h.calculator.Schedule})
}

func (h *handler) handleConfigExport(w http.ResponseWriter, r *http.Request) {
	yamlBytes, err := yaml.Marshal(h.conf)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to encode configuration: %v", err), "server.handleConfigExport")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"configYaml": string(yamlBytes),
	})
}

func (h *handler) handleStats(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]map[string]float64{
		"quotes": {
			string(affordability.PrincipalLegacy):    h.metrics.Quotes(string(affordability.PrincipalLegacy)),
			string(affordability.PrincipalCorrected): h.metrics.Quotes(string(affordability.PrincipalCorrected)),
		},
	})
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// decodeBody reads a size-limited JSON body into dst. It writes the error
// response itself and reports whether the handler should continue.
func (h *handler) decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}, op string) bool {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxRequestSize)
	data, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request exceeds limit of %d bytes", h.maxRequestSize), op)
			return false
		}
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to read request: %v", err), op)
		return false
	}

	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), op)
		return false
	}
	return true
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	fields := []zap.Field{
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	}
	if status >= http.StatusInternalServerError {
		h.logger.Error("affordability request failed", fields...)
	} else {
		h.logger.Warn("affordability request rejected", fields...)
	}

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response",
			zap.String("op", "server.writeJSON"),
			zap.Error(err),
		)
	}
}
