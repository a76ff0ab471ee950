package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/eymatos/jurisia/internal/core"
)

// IAService drafts first versions of legal filings from a case's record.
type IAService struct {
	db  core.DbClient
	llm core.LegalAnalyzer
}

func NewIAService(db core.DbClient, llm core.LegalAnalyzer) *IAService {
	return &IAService{db: db, llm: llm}
}

// RedactarBorrador builds the drafting context from the case, its client and
// its document summaries, then asks the model for a draft of the given type
// of filing.
func (s *IAService) RedactarBorrador(ctx context.Context, casoID, tipo string) (string, error) {
	caso, err := s.db.GetCasoByID(ctx, casoID)
	if err != nil {
		return "", err
	}
	if caso == nil {
		return "", fmt.Errorf("el caso especificado no existe")
	}

	clienteNombre := ""
	if cliente, err := s.db.GetClienteByID(ctx, caso.ClienteID); err == nil && cliente != nil {
		clienteNombre = cliente.Nombre
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Caso: %s\nExpediente: %s\nTribunal: %s\nEstatus: %s\n",
		caso.Titulo, caso.NumeroExpediente, caso.Tribunales, caso.Estatus)
	if caso.Descripcion != "" {
		fmt.Fprintf(&sb, "Descripción: %s\n", caso.Descripcion)
	}

	docs, err := s.db.ListDocumentosByCaso(ctx, casoID)
	if err != nil {
		return "", err
	}
	for _, d := range docs {
		if d.ResumenIA == "" {
			continue
		}
		fmt.Fprintf(&sb, "\nResumen de %s:\n%s\n", d.NombreArchivo, d.ResumenIA)
	}

	return s.llm.DraftLegalBrief(ctx, tipo, sb.String(), clienteNombre)
}
