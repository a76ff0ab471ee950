package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/eymatos/jurisia/internal/services"
)

type ChatHandler struct {
	chat *services.ChatService
}

func NewChatHandler(chat *services.ChatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

type preguntaRequest struct {
	Pregunta string `json:"pregunta"`
}

// PreguntarSobreCaso answers a question from the documents of one case.
func (h *ChatHandler) PreguntarSobreCaso(w http.ResponseWriter, r *http.Request) {
	var req preguntaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Pregunta == "" {
		http.Error(w, "la pregunta es requerida", http.StatusBadRequest)
		return
	}

	respuesta, err := h.chat.PreguntarSobreCaso(r.Context(), chi.URLParam(r, "casoId"), req.Pregunta)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(respuesta)
}

// PreguntarGlobal searches every case in the firm.
func (h *ChatHandler) PreguntarGlobal(w http.ResponseWriter, r *http.Request) {
	var req preguntaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Pregunta == "" {
		http.Error(w, "la pregunta es requerida", http.StatusBadRequest)
		return
	}

	respuesta, err := h.chat.PreguntarGlobal(r.Context(), req.Pregunta)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(respuesta)
}

// ConsultaGeneral answers without retrieving documents.
func (h *ChatHandler) ConsultaGeneral(w http.ResponseWriter, r *http.Request) {
	var req preguntaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Pregunta == "" {
		http.Error(w, "la pregunta es requerida", http.StatusBadRequest)
		return
	}

	respuesta, err := h.chat.ConsultaGeneral(r.Context(), req.Pregunta)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"respuesta": respuesta})
}
