package transaction

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/tally/internal/core"
	"github.com/MrJamesThe3rd/tally/internal/http/respond"
	"github.com/MrJamesThe3rd/tally/internal/ledger"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

type Handler struct {
	ledger *ledger.Service
}

func NewHandler(l *ledger.Service) *Handler {
	return &Handler{ledger: l}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
}

type createTransactionRequest struct {
	Date        string           `json:"date"` // YYYY-MM-DD; today when empty
	Type        transaction.Type `json:"type"`
	Category    string           `json:"category"`
	Amount      int64            `json:"amount"`
	Description string           `json:"description"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := respond.Decode(w, r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	date := h.ledger.Today()

	if req.Date != "" {
		d, err := transaction.ParseDate(req.Date)
		if err != nil {
			respond.Error(w, r, err)
			return
		}

		date = d
	}

	res, err := h.ledger.AddTransaction(r.Context(), transaction.CreateParams{
		Date:        date,
		Type:        req.Type,
		Category:    req.Category,
		Amount:      req.Amount,
		Description: req.Description,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, createResponse{
		Transaction: toResponse(*res.Transaction),
		Alert:       toAlertResponse(res.Alert),
	})
}

// list supports type, start_date, end_date (inclusive) and days (the last
// N days including today). Results are newest first.
func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter, err := h.parseFilter(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	txs, err := h.ledger.ListTransactions(r.Context(), filter)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	transaction.SortByDate(txs, true)

	respond.JSON(w, http.StatusOK, toResponseList(txs))
}

func (h *Handler) parseFilter(r *http.Request) (transaction.ListFilter, error) {
	q := r.URL.Query()
	filter := transaction.ListFilter{}

	if s := q.Get("days"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			return filter, core.Invalid("days", "%q is not a positive number of days", s)
		}

		filter = transaction.LastDays(h.ledger.Today(), n)
	}

	if s := q.Get("type"); s != "" {
		t := transaction.Type(s)
		if !t.Valid() {
			return filter, core.Invalid("type", "must be %q or %q, got %q", transaction.TypeIncome, transaction.TypeExpense, s)
		}

		filter.Type = &t
	}

	if s := q.Get("start_date"); s != "" {
		d, err := transaction.ParseDate(s)
		if err != nil {
			return filter, err
		}

		filter.StartDate = &d
	}

	if s := q.Get("end_date"); s != "" {
		d, err := transaction.ParseDate(s)
		if err != nil {
			return filter, err
		}

		filter.EndDate = &d
	}

	return filter, nil
}
