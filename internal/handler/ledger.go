package handler

import (
	"net/http"
	"strconv"

	"github.com/Dan9191/installment-service/internal/models"
	"github.com/Dan9191/installment-service/internal/validation"
	"github.com/gorilla/mux"
)

const defaultProjectionMonths = 12

// ListPurchases handles GET /purchases?userId=&cardId=
func (h *Handler) ListPurchases(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	purchases, err := h.svc.ListPurchases(r.Context(), models.PurchaseFilter{
		UserID: q.Get("userId"),
		CardID: q.Get("cardId"),
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, purchases)
}

func (h *Handler) CreatePurchase(w http.ResponseWriter, r *http.Request) {
	var in validation.PurchaseInput
	if !h.decode(w, r, &in) {
		return
	}
	p, err := h.svc.CreatePurchase(r.Context(), in)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *Handler) UpdatePurchase(w http.ResponseWriter, r *http.Request) {
	var in validation.PurchaseInput
	if !h.decode(w, r, &in) {
		return
	}
	p, err := h.svc.UpdatePurchase(r.Context(), mux.Vars(r)["id"], in)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handler) DeletePurchase(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeletePurchase(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListPayments handles GET /payments?userId=&month=
func (h *Handler) ListPayments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := models.PaymentFilter{UserID: q.Get("userId")}
	if raw := q.Get("month"); raw != "" {
		month, err := validation.Month(raw)
		if err != nil {
			h.writeError(w, err)
			return
		}
		filter.Month = month
	}
	records, err := h.svc.ListPayments(r.Context(), filter)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (h *Handler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	var in validation.PaymentInput
	if !h.decode(w, r, &in) {
		return
	}
	rec, err := h.svc.CreatePayment(r.Context(), in)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

func (h *Handler) UpdatePayment(w http.ResponseWriter, r *http.Request) {
	var in validation.PaymentInput
	if !h.decode(w, r, &in) {
		return
	}
	rec, err := h.svc.UpdatePayment(r.Context(), mux.Vars(r)["id"], in)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h *Handler) DeletePayment(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeletePayment(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Dashboard handles GET /dashboard?month=&cardId=&userId=
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	month, err := h.month(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	q := r.URL.Query()
	dash, err := h.svc.Dashboard(r.Context(), month, q.Get("cardId"), q.Get("userId"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dash)
}

// Statement handles GET /statement?month=&userId=&cardId=
func (h *Handler) Statement(w http.ResponseWriter, r *http.Request) {
	month, err := h.month(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	q := r.URL.Query()
	st, err := h.svc.Statement(r.Context(), month, q.Get("userId"), q.Get("cardId"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// UserSummary handles GET /users/{id}/summary?month=
func (h *Handler) UserSummary(w http.ResponseWriter, r *http.Request) {
	month, err := h.month(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	summary, err := h.svc.UserSummary(r.Context(), mux.Vars(r)["id"], month)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// Projection handles GET /users/{id}/projection?month=&count=
func (h *Handler) Projection(w http.ResponseWriter, r *http.Request) {
	month, err := h.month(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	count := defaultProjectionMonths
	if raw := r.URL.Query().Get("count"); raw != "" {
		count, err = strconv.Atoi(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "count must be an integer"})
			return
		}
	}
	totals, err := h.svc.Projection(r.Context(), mux.Vars(r)["id"], month, count)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, totals)
}

// Logs handles GET /logs?action=&actor=&userId=&cardId=
func (h *Handler) Logs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	logs, err := h.svc.Logs(r.Context(), models.LogFilter{
		Action: q.Get("action"),
		Actor:  q.Get("actor"),
		UserID: q.Get("userId"),
		CardID: q.Get("cardId"),
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, logs)
}

// Rates handles GET /rates
func (h *Handler) Rates(w http.ResponseWriter, r *http.Request) {
	rates, err := h.svc.Rates(r.Context())
	if err != nil {
		h.log.Warnf("Failed to get exchange rates: %v", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "exchange rates unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, rates)
}
