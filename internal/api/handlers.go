package api

import (
	"net/http"
	"strings"

	"github.com/harsh-0015/freelance-tracker/internal/middleware"
	"github.com/harsh-0015/freelance-tracker/internal/service"
)

// Services are the operations the API exposes.
type Services struct {
	TimeEntries *service.TimeEntryService
	Invoices    *service.InvoiceService
	Clients     *service.ClientService
	Dashboard   *service.DashboardService
}

type handlers struct {
	svc       Services
	connected func() bool
}

// ownFreelancerID reconciles a payload freelancerId with the authenticated
// freelancer, if any. A missing id is filled in when fill is set; a
// different id is rejected.
func ownFreelancerID(r *http.Request, id **string, fill bool) error {
	tokenID := middleware.GetFreelancerID(r.Context())
	if tokenID == "" {
		return nil
	}
	if *id == nil || strings.TrimSpace(**id) == "" {
		if fill {
			*id = &tokenID
		}
		return nil
	}
	if strings.TrimSpace(**id) != tokenID {
		return errForbidden
	}
	return nil
}

// Time entries

func (h *handlers) createTimeEntry(w http.ResponseWriter, r *http.Request) {
	var in service.TimeEntryInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, err)
		return
	}
	if err := ownFreelancerID(r, &in.FreelancerID, true); err != nil {
		writeError(w, err)
		return
	}

	entry, err := h.svc.TimeEntries.Create(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

func (h *handlers) listTimeEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := h.svc.TimeEntries.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *handlers) getTimeEntry(w http.ResponseWriter, r *http.Request) {
	entry, err := h.svc.TimeEntries.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (h *handlers) updateTimeEntry(w http.ResponseWriter, r *http.Request) {
	var in service.TimeEntryInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, err)
		return
	}
	if err := ownFreelancerID(r, &in.FreelancerID, false); err != nil {
		writeError(w, err)
		return
	}

	entry, err := h.svc.TimeEntries.Update(r.Context(), r.PathValue("id"), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

type deleteTimeEntryResponse struct {
	Message      string                 `json:"message"`
	DeletedEntry *service.TimeEntryView `json:"deletedEntry"`
}

func (h *handlers) deleteTimeEntry(w http.ResponseWriter, r *http.Request) {
	entry, err := h.svc.TimeEntries.Delete(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, deleteTimeEntryResponse{
		Message:      "Time entry deleted successfully",
		DeletedEntry: entry,
	})
}

// Invoices

func (h *handlers) createInvoice(w http.ResponseWriter, r *http.Request) {
	var in service.InvoiceInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, err)
		return
	}
	if err := ownFreelancerID(r, &in.FreelancerID, true); err != nil {
		writeError(w, err)
		return
	}

	invoice, err := h.svc.Invoices.Create(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, invoice)
}

func (h *handlers) listInvoices(w http.ResponseWriter, r *http.Request) {
	invoices, err := h.svc.Invoices.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, invoices)
}

func (h *handlers) topClients(w http.ResponseWriter, r *http.Request) {
	clients, err := h.svc.Invoices.TopClients(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, clients)
}

func (h *handlers) getInvoice(w http.ResponseWriter, r *http.Request) {
	invoice, err := h.svc.Invoices.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, invoice)
}

func (h *handlers) deleteInvoice(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Invoices.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Invoice deleted successfully"})
}

// Clients

func (h *handlers) createClient(w http.ResponseWriter, r *http.Request) {
	var in service.ClientInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, err)
		return
	}

	client, err := h.svc.Clients.Create(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, client)
}

func (h *handlers) listClients(w http.ResponseWriter, r *http.Request) {
	clients, err := h.svc.Clients.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, clients)
}

func (h *handlers) getClient(w http.ResponseWriter, r *http.Request) {
	client, err := h.svc.Clients.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, client)
}

func (h *handlers) deleteClient(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Clients.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Client deleted successfully"})
}

// Dashboard

func (h *handlers) dashboard(w http.ResponseWriter, r *http.Request) {
	summary, err := h.svc.Dashboard.Summary(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// Status

func (h *handlers) root(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("API is running..."))
}

type healthResponse struct {
	Status  string `json:"status"`
	Storage string `json:"storage"`
}

func (h *handlers) health(w http.ResponseWriter, r *http.Request) {
	if h.connected != nil && !h.connected() {
		writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "unavailable", Storage: "disconnected"})
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Storage: "connected"})
}
