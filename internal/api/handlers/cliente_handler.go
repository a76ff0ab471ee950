package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/eymatos/jurisia/internal/services"
)

type ClienteHandler struct {
	clientes *services.ClienteService
}

func NewClienteHandler(clientes *services.ClienteService) *ClienteHandler {
	return &ClienteHandler{clientes: clientes}
}

func (h *ClienteHandler) Crear(w http.ResponseWriter, r *http.Request) {
	var req services.NuevoCliente
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "cuerpo inválido", http.StatusBadRequest)
		return
	}
	if req.Nombre == "" {
		http.Error(w, "el nombre es requerido", http.StatusBadRequest)
		return
	}

	cliente, err := h.clientes.Crear(r.Context(), req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(cliente)
}

func (h *ClienteHandler) Listar(w http.ResponseWriter, r *http.Request) {
	clientes, err := h.clientes.Todos(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(clientes)
}

func (h *ClienteHandler) Obtener(w http.ResponseWriter, r *http.Request) {
	cliente, err := h.clientes.PorID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if cliente == nil {
		http.Error(w, "cliente no encontrado", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(cliente)
}
