package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/eymatos/jurisia/internal/services"
)

type IAHandler struct {
	ia *services.IAService
}

func NewIAHandler(ia *services.IAService) *IAHandler {
	return &IAHandler{ia: ia}
}

type redactarRequest struct {
	CasoID string `json:"caso_id"`
	Tipo   string `json:"tipo"`
}

// Redactar produces a first draft of a legal filing from the case record.
func (h *IAHandler) Redactar(w http.ResponseWriter, r *http.Request) {
	var req redactarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "cuerpo inválido", http.StatusBadRequest)
		return
	}
	if req.CasoID == "" || req.Tipo == "" {
		http.Error(w, "caso_id y tipo son requeridos", http.StatusBadRequest)
		return
	}

	borrador, err := h.ia.RedactarBorrador(r.Context(), req.CasoID, req.Tipo)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"borrador": borrador})
}
