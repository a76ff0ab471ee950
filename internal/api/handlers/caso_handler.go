package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/eymatos/jurisia/internal/services"
)

type CasoHandler struct {
	casos *services.CasoService
}

func NewCasoHandler(casos *services.CasoService) *CasoHandler {
	return &CasoHandler{casos: casos}
}

func (h *CasoHandler) Crear(w http.ResponseWriter, r *http.Request) {
	var req services.NuevoCaso
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "cuerpo inválido", http.StatusBadRequest)
		return
	}
	if req.Titulo == "" || req.ClienteID == "" {
		http.Error(w, "titulo y cliente_id son requeridos", http.StatusBadRequest)
		return
	}

	caso, err := h.casos.Crear(r.Context(), req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(caso)
}

func (h *CasoHandler) Listar(w http.ResponseWriter, r *http.Request) {
	casos, err := h.casos.Todos(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(casos)
}

// Obtener returns the full expediente: case, client, documents and alerts.
func (h *CasoHandler) Obtener(w http.ResponseWriter, r *http.Request) {
	caso, err := h.casos.PorID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if caso == nil {
		http.Error(w, "caso no encontrado", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(caso)
}
