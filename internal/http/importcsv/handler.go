package importcsv

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tally/internal/core"
	"github.com/MrJamesThe3rd/tally/internal/http/respond"
	"github.com/MrJamesThe3rd/tally/internal/importer"
	"github.com/MrJamesThe3rd/tally/internal/ledger"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

// maxUpload bounds the multipart form kept in memory.
const maxUpload = 10 << 20

type Handler struct {
	importSvc *importer.Service
	ledger    *ledger.Service
}

func NewHandler(importSvc *importer.Service, l *ledger.Service) *Handler {
	return &Handler{
		importSvc: importSvc,
		ledger:    l,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.importFile)
}

type transactionResponse struct {
	Date        string           `json:"date"`
	Type        transaction.Type `json:"type"`
	Category    string           `json:"category"`
	Amount      int64            `json:"amount"`
	Description string           `json:"description"`
}

type skippedResponse struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

type importResponse struct {
	BatchID      uuid.UUID             `json:"batch_id"`
	Imported     int                   `json:"imported"`
	Transactions []transactionResponse `json:"transactions"`
	Skipped      []skippedResponse     `json:"skipped"`
}

// importFile takes a multipart "file" (.csv or .json) and an optional
// "dedupe" flag, on unless sent as false. Rows that fail validation are
// reported, not fatal.
func (h *Handler) importFile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUpload); err != nil {
		respond.Error(w, r, core.Invalid("form", "failed to parse form: %v", err))
		return
	}

	dedupe := true

	if s := r.FormValue("dedupe"); s != "" {
		v, err := strconv.ParseBool(s)
		if err != nil {
			respond.Error(w, r, core.Invalid("dedupe", "%q is not a boolean", s))
			return
		}

		dedupe = v
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respond.Error(w, r, core.Invalid("file", "field is required"))
		return
	}
	defer file.Close()

	format, err := importer.FormatFromPath(header.Filename)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	records, err := h.importSvc.Parse(format, file)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	result, err := h.ledger.Import(r.Context(), records, dedupe)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toImportResponse(result))
}

func toImportResponse(res *transaction.ImportResult) importResponse {
	resp := importResponse{
		BatchID:      res.BatchID,
		Imported:     len(res.Added),
		Transactions: make([]transactionResponse, 0, len(res.Added)),
		Skipped:      make([]skippedResponse, 0, len(res.Skipped)),
	}

	for _, tx := range res.Added {
		resp.Transactions = append(resp.Transactions, transactionResponse{
			Date:        tx.Date.Format(transaction.DateLayout),
			Type:        tx.Type,
			Category:    tx.Category,
			Amount:      tx.Amount,
			Description: tx.Description,
		})
	}

	for _, s := range res.Skipped {
		resp.Skipped = append(resp.Skipped, skippedResponse{Index: s.Index, Reason: s.Reason})
	}

	return resp
}
