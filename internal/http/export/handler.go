package export

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/tally/internal/export"
	"github.com/MrJamesThe3rd/tally/internal/http/respond"
	"github.com/MrJamesThe3rd/tally/internal/ledger"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

type Handler struct {
	svc    *export.Service
	ledger *ledger.Service
}

func NewHandler(svc *export.Service, l *ledger.Service) *Handler {
	return &Handler{svc: svc, ledger: l}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.download)
	r.Post("/summary", h.summary)
}

type exportRequest struct {
	Format    export.Format `json:"format"`
	Range     export.Range  `json:"range"`
	StartDate string        `json:"start_date,omitempty"` // custom range only, inclusive
	EndDate   string        `json:"end_date,omitempty"`
}

func (req exportRequest) params() (export.Params, error) {
	p := export.Params{Format: req.Format, Range: req.Range}

	if p.Format == "" {
		p.Format = export.FormatCSV
	}

	if req.StartDate != "" {
		d, err := transaction.ParseDate(req.StartDate)
		if err != nil {
			return p, err
		}

		p.Start = d
	}

	if req.EndDate != "" {
		d, err := transaction.ParseDate(req.EndDate)
		if err != nil {
			return p, err
		}

		p.End = d
	}

	return p, nil
}

type summaryResponse struct {
	Count   int    `json:"count"`
	Summary string `json:"summary"`
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (export.Params, bool) {
	var req exportRequest
	if err := respond.Decode(w, r, &req); err != nil {
		respond.Error(w, r, err)
		return export.Params{}, false
	}

	p, err := req.params()
	if err != nil {
		respond.Error(w, r, err)
		return export.Params{}, false
	}

	return p, true
}

// summary previews what a download with the same body would contain.
func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	p, ok := h.decode(w, r)
	if !ok {
		return
	}

	txs, err := h.svc.Select(r.Context(), p, h.ledger.Today())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, summaryResponse{Count: len(txs), Summary: export.Summary(txs)})
}

func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	p, ok := h.decode(w, r)
	if !ok {
		return
	}

	today := h.ledger.Today()

	var buf bytes.Buffer
	if _, err := h.svc.Export(r.Context(), &buf, p, today); err != nil {
		respond.Error(w, r, err)
		return
	}

	contentType := "text/csv; charset=utf-8"
	if p.Format == export.FormatJSON {
		contentType = "application/json"
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=\"tally_export_%s.%s\"", today.Format("20060102"), p.Format))

	_, _ = buf.WriteTo(w)
}
