package backup

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/tally/internal/backup"
	"github.com/MrJamesThe3rd/tally/internal/http/respond"
	"github.com/MrJamesThe3rd/tally/internal/ledger"
)

type Handler struct {
	svc    *backup.Service
	ledger *ledger.Service
}

func NewHandler(svc *backup.Service, l *ledger.Service) *Handler {
	return &Handler{svc: svc, ledger: l}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Post("/{name}/restore", h.restore)
}

type archiveResponse struct {
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	Size      int64     `json:"size"`
}

func toArchiveResponse(a backup.Archive) archiveResponse {
	return archiveResponse{Name: a.Name, CreatedAt: a.CreatedAt, Size: a.Size}
}

type restoreResponse struct {
	Archive string   `json:"archive"`
	Files   []string `json:"files"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	archives, err := h.svc.List()
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	resp := make([]archiveResponse, 0, len(archives))
	for _, a := range archives {
		resp = append(resp, toArchiveResponse(a))
	}

	respond.JSON(w, http.StatusOK, resp)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	a, err := h.svc.Create()
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toArchiveResponse(a))
}

func (h *Handler) restore(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	files, err := h.svc.Restore(name)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	h.ledger.NotifyRestored(r.Context())

	respond.JSON(w, http.StatusOK, restoreResponse{Archive: name, Files: files})
}
