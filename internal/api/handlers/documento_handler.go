package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	"github.com/eymatos/jurisia/internal/services"
)

const maxUploadBytes = 50 << 20 // 50 MB

type DocumentoHandler struct {
	documentos *services.DocumentoService
}

func NewDocumentoHandler(documentos *services.DocumentoService) *DocumentoHandler {
	return &DocumentoHandler{documentos: documentos}
}

// Subir receives a multipart upload (fields: file, caso_id), stores the file
// and responds with the pending Documento while the pipeline works in the
// background.
func (h *DocumentoHandler) Subir(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "formulario inválido", http.StatusBadRequest)
		return
	}

	casoID := r.FormValue("caso_id")
	if casoID == "" {
		casoID = r.FormValue("casoId")
	}
	if casoID == "" {
		http.Error(w, "caso_id es requerido", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "archivo inválido", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "no se pudo leer el archivo", http.StatusBadRequest)
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	// filepath.Base strips any path components a client might smuggle in
	doc, err := h.documentos.Subir(r.Context(), casoID, filepath.Base(header.Filename), contentType, data)
	if err != nil {
		if doc != nil {
			// stored but not enqueued; the client can hit reprocesar later
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusAccepted)
			json.NewEncoder(w).Encode(doc)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(doc)
}

func (h *DocumentoHandler) PorCaso(w http.ResponseWriter, r *http.Request) {
	docs, err := h.documentos.PorCaso(r.Context(), chi.URLParam(r, "casoId"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(docs)
}

func (h *DocumentoHandler) Obtener(w http.ResponseWriter, r *http.Request) {
	doc, err := h.documentos.PorID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if doc == nil {
		http.Error(w, "documento no encontrado", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(doc)
}

// Buscar does a plain-text search over a case's documents (?q=termino).
func (h *DocumentoHandler) Buscar(w http.ResponseWriter, r *http.Request) {
	termino := r.URL.Query().Get("q")
	if termino == "" {
		http.Error(w, "el parámetro q es requerido", http.StatusBadRequest)
		return
	}
	docs, err := h.documentos.Buscar(r.Context(), chi.URLParam(r, "casoId"), termino)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(docs)
}

// Reprocesar requeues a terminal document through the pipeline.
func (h *DocumentoHandler) Reprocesar(w http.ResponseWriter, r *http.Request) {
	doc, err := h.documentos.Reprocesar(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(doc)
}
