package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/eymatos/jurisia/internal/services"
)

type AlertaHandler struct {
	alertas *services.AlertaService
}

func NewAlertaHandler(alertas *services.AlertaService) *AlertaHandler {
	return &AlertaHandler{alertas: alertas}
}

func (h *AlertaHandler) Crear(w http.ResponseWriter, r *http.Request) {
	var req services.NuevaAlerta
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "cuerpo inválido", http.StatusBadRequest)
		return
	}
	if req.Titulo == "" || req.CasoID == "" || req.FechaVencimiento.IsZero() {
		http.Error(w, "titulo, caso_id y fecha_vencimiento son requeridos", http.StatusBadRequest)
		return
	}

	alerta, err := h.alertas.Crear(r.Context(), req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(alerta)
}

func (h *AlertaHandler) PorCaso(w http.ResponseWriter, r *http.Request) {
	alertas, err := h.alertas.PorCaso(r.Context(), chi.URLParam(r, "casoId"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(alertas)
}

// Urgentes lists incomplete alerts due within ?horas= (default 48).
func (h *AlertaHandler) Urgentes(w http.ResponseWriter, r *http.Request) {
	horas, _ := strconv.Atoi(r.URL.Query().Get("horas"))
	alertas, err := h.alertas.Urgentes(r.Context(), horas)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(alertas)
}

func (h *AlertaHandler) Completar(w http.ResponseWriter, r *http.Request) {
	if err := h.alertas.Completar(r.Context(), chi.URLParam(r, "id")); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AlertaHandler) Eliminar(w http.ResponseWriter, r *http.Request) {
	if err := h.alertas.Eliminar(r.Context(), chi.URLParam(r, "id")); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
