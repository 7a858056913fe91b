// Package analytics serves the read-only month views over the ledger.
package analytics

import (
	"bytes"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/tally/internal/core"
	"github.com/MrJamesThe3rd/tally/internal/http/respond"
	"github.com/MrJamesThe3rd/tally/internal/ledger"
	"github.com/MrJamesThe3rd/tally/internal/report"
)

type Handler struct {
	ledger *ledger.Service
}

func NewHandler(l *ledger.Service) *Handler {
	return &Handler{ledger: l}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/balance", h.balance)
	r.Get("/spending", h.spending)
	r.Get("/income", h.income)
	r.Get("/savings", h.savings)
	r.Get("/health", h.health)
	r.Get("/series", h.series)
	r.Get("/trend.png", h.trendChart)
	r.Get("/advice", h.advice)
	r.Get("/report", h.report)
}

func (h *Handler) balance(w http.ResponseWriter, r *http.Request) {
	b, err := h.ledger.Balance(r.Context())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toBalance(b))
}

func (h *Handler) spending(w http.ResponseWriter, r *http.Request) {
	s, err := h.ledger.Spending(r.Context())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toSpending(s))
}

func (h *Handler) income(w http.ResponseWriter, r *http.Request) {
	i, err := h.ledger.Income(r.Context())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toIncome(i))
}

func (h *Handler) savings(w http.ResponseWriter, r *http.Request) {
	ms, err := h.ledger.Savings(r.Context())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toSavings(ms))
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	hs, err := h.ledger.Health(r.Context())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toHealth(hs))
}

func (h *Handler) series(w http.ResponseWriter, r *http.Request) {
	points, err := h.ledger.Series(r.Context())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	resp := make([]overviewResponse, 0, len(points))
	for _, p := range points {
		resp = append(resp, toOverview(p))
	}

	respond.JSON(w, http.StatusOK, resp)
}

// trendChart renders the monthly series as a PNG. At least two months of
// data are needed.
func (h *Handler) trendChart(w http.ResponseWriter, r *http.Request) {
	points, err := h.ledger.Series(r.Context())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := report.WriteTrendChart(&buf, points); err != nil {
		respond.Error(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	_, _ = buf.WriteTo(w)
}

func (h *Handler) advice(w http.ResponseWriter, r *http.Request) {
	a, err := h.ledger.Advice(r.Context())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toAdvice(a))
}

// report returns the monthly report as JSON, or as a plain-text table with
// format=text.
func (h *Handler) report(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format != "" && format != "json" && format != "text" {
		respond.Error(w, r, core.Invalid("format", "must be \"json\" or \"text\", got %q", format))
		return
	}

	rep, err := h.ledger.Report(r.Context())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	if format != "text" {
		respond.JSON(w, http.StatusOK, toReport(rep))
		return
	}

	var buf bytes.Buffer
	if err := report.WriteText(&buf, rep); err != nil {
		respond.Error(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = buf.WriteTo(w)
}
