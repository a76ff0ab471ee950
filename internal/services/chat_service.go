package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/eymatos/jurisia/internal/core"
)

const (
	topKCaso   = 7
	topKGlobal = 10
)

// ChatService answers questions over the firm's document corpus. Retrieval
// and generation share the same flow: embed the question, pull the closest
// chunks (scoped to one case or firm-wide), and let the model answer strictly
// from those fragments.
type ChatService struct {
	indexer core.VectorIndexer
	llm     core.LegalAnalyzer
}

func NewChatService(indexer core.VectorIndexer, llm core.LegalAnalyzer) *ChatService {
	return &ChatService{indexer: indexer, llm: llm}
}

type Fuente struct {
	DocumentoID   string  `json:"documento_id"`
	NombreArchivo string  `json:"nombre_archivo"`
	Score         float64 `json:"score"`
}

type Respuesta struct {
	Respuesta string   `json:"respuesta"`
	Fuentes   []Fuente `json:"fuentes"`
}

// PreguntarSobreCaso answers a question using only the documents of one case.
func (s *ChatService) PreguntarSobreCaso(ctx context.Context, casoID, pregunta string) (*Respuesta, error) {
	return s.responder(ctx, pregunta, casoID, topKCaso)
}

// PreguntarGlobal searches across every case in the firm.
func (s *ChatService) PreguntarGlobal(ctx context.Context, pregunta string) (*Respuesta, error) {
	return s.responder(ctx, pregunta, "", topKGlobal)
}

func (s *ChatService) responder(ctx context.Context, pregunta, casoID string, topK int) (*Respuesta, error) {
	coincidencias, err := s.indexer.Query(ctx, pregunta, casoID, topK)
	if err != nil {
		return nil, fmt.Errorf("buscar contexto: %w", err)
	}
	if len(coincidencias) == 0 {
		return &Respuesta{
			Respuesta: "No encontré información relevante en los documentos para responder esta pregunta.",
		}, nil
	}

	var sb strings.Builder
	fuentes := make([]Fuente, 0, len(coincidencias))
	vistos := make(map[string]bool)
	for _, c := range coincidencias {
		fmt.Fprintf(&sb, "[Archivo: %s]: %s\n\n", c.NombreArchivo, c.Contenido)
		if !vistos[c.DocumentoID] {
			vistos[c.DocumentoID] = true
			fuentes = append(fuentes, Fuente{
				DocumentoID:   c.DocumentoID,
				NombreArchivo: c.NombreArchivo,
				Score:         c.Score,
			})
		}
	}

	respuesta, err := s.llm.AnswerWithContext(ctx, pregunta, sb.String())
	if err != nil {
		return nil, fmt.Errorf("generar respuesta: %w", err)
	}
	return &Respuesta{Respuesta: respuesta, Fuentes: fuentes}, nil
}

// ConsultaGeneral is the no-retrieval path: a general legal question answered
// from the model's own knowledge, without touching the index.
func (s *ChatService) ConsultaGeneral(ctx context.Context, pregunta string) (string, error) {
	return s.llm.ConsultaGeneral(ctx, pregunta)
}
