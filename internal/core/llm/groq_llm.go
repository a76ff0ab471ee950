package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"github.com/eymatos/jurisia/internal/core"
	"github.com/eymatos/jurisia/internal/models"
	"github.com/eymatos/jurisia/internal/pkg/logger"
)

// GroqLLM is the chat-completion client used for every generative call.
// Groq exposes the OpenAI wire shape, so any compatible endpoint works by
// changing the base URL.
type GroqLLM struct {
	client openai.Client
	model  string
	log    *logger.Logger
}

var _ core.LegalAnalyzer = (*GroqLLM)(nil)

func NewGroqLLM(apiKey, baseURL, model string, log *logger.Logger) (*GroqLLM, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("groq: api key not set")
	}
	if model == "" {
		model = "llama-3.3-70b-versatile"
	}
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &GroqLLM{client: openai.NewClient(opts...), model: model, log: log}, nil
}

func (g *GroqLLM) complete(ctx context.Context, system, user string, temperature float64, jsonMode bool) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: g.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
		Temperature: openai.Float(temperature),
	}
	if jsonMode {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		}
	}

	resp, err := g.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion: empty response")
	}
	return resp.Choices[0].Message.Content, nil
}

const analisisPrompt = `Eres un asistente legal experto en la legislación de la República Dominicana.
Tu tarea es analizar el texto de documentos legales (instancias, sentencias, contratos).
Debes devolver un análisis en español profesional que incluya:
1. Un resumen ejecutivo del documento.
2. Identificación de las partes involucradas.
3. Puntos clave o cláusulas importantes.
4. Recomendación estratégica para el abogado basada en el ordenamiento jurídico dominicano.`

// AnalyzeLegalText returns the structured legal summary. On provider failure
// it returns a user-visible error string alongside the error so the pipeline
// can store something and keep going.
func (g *GroqLLM) AnalyzeLegalText(ctx context.Context, texto string) (string, error) {
	out, err := g.complete(ctx, analisisPrompt, "Analiza este texto legal: \n\n"+texto, 0.2, false)
	if err != nil {
		g.log.Error("legal analysis failed", "error", err)
		return fmt.Sprintf("No se pudo procesar el análisis de IA: %v", err), err
	}
	return out, nil
}

const plazosPromptFmt = `Eres un experto en derecho procesal dominicano. Analiza el siguiente texto y extrae TODAS las fechas límite, vencimientos o plazos mencionados.

CONSIDERACIONES ESPECIALES RD:
- Identifica plazos de octava franca, recursos de apelación (30 días), recursos de casación, etc.
- La fecha de hoy es: %s.
- Si el texto dice "en 10 días", calcula la fecha sumando 10 días a partir de hoy (asumiendo días calendarios a menos que se especifique lo contrario).
- Devuelve la fecha en formato ISO (YYYY-MM-DD).

Debes responder ÚNICAMENTE con un objeto JSON que contenga una propiedad "plazos" con un array de objetos:
{
  "plazos": [
    {
      "titulo": "Nombre corto del plazo",
      "descripcion": "Explicación breve citando el documento origen",
      "fechaVencimiento": "YYYY-MM-DD",
      "prioridad": "baja" | "media" | "alta" | "critica"
    }
  ]
}
Si no hay plazos claros, devuelve {"plazos": []}.`

// DetectDeadlines asks the model for every deadline in the text, relative
// deadlines resolved against referencia. Temperature is pinned to zero and
// the response is forced into JSON-object mode; the payload is still treated
// as untrusted and validated by parseDeadlines. Any failure degrades to an
// empty list.
func (g *GroqLLM) DetectDeadlines(ctx context.Context, texto string, referencia time.Time) ([]models.PlazoDetectado, error) {
	system := fmt.Sprintf(plazosPromptFmt, referencia.Format("2006-01-02"))
	out, err := g.complete(ctx, system, "Extrae plazos de este texto: \n\n"+texto, 0, true)
	if err != nil {
		g.log.Error("deadline detection failed", "error", err)
		return nil, nil
	}
	plazos, err := parseDeadlines(out)
	if err != nil {
		g.log.Warn("deadline payload unparseable, treating as none", "error", err)
		return nil, nil
	}
	return plazos, nil
}

// parseDeadlines decodes the model's JSON payload. A missing or empty
// "plazos" array means no deadlines; items with a blank title are dropped.
// Date and priority validation happens where alerts are materialized.
func parseDeadlines(payload string) ([]models.PlazoDetectado, error) {
	var envelope struct {
		Plazos []models.PlazoDetectado `json:"plazos"`
	}
	if err := json.Unmarshal([]byte(payload), &envelope); err != nil {
		return nil, fmt.Errorf("decode plazos: %w", err)
	}
	out := envelope.Plazos[:0]
	for _, p := range envelope.Plazos {
		if p.Titulo == "" {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

const ragPrompt = `Eres un Consultor Jurídico de IA experto en leyes de la República Dominicana.
Tu objetivo es ayudar al abogado analizando los fragmentos de documentos proporcionados (contexto).

REGLAS DE RESPUESTA:
1. Solo responde basándote en el CONTEXTO proporcionado y en las leyes de la República Dominicana (ej: Código Civil, Código de Trabajo, Ley 108-05).
2. Si la respuesta no está en el contexto, di: "No encuentro información específica sobre eso en los documentos cargados".
3. Si el contexto menciona fechas o nombres de archivos, cítalos rigurosamente.
4. Utiliza terminología procesal dominicana (ej: "Octava Franca", "Emplazamiento", "Sentencia In Voce").
5. Responde de forma clara y profesional en español.`

// AnswerWithContext answers strictly from the supplied fragments. Unlike the
// pipeline calls, a failure here is surfaced to the caller: the user asked
// directly and has no fallback.
func (g *GroqLLM) AnswerWithContext(ctx context.Context, pregunta, contexto string) (string, error) {
	user := fmt.Sprintf("CONTEXTO RECUPERADO DEL EXPEDIENTE:\n%s\n\nPREGUNTA DEL ABOGADO: %s", contexto, pregunta)
	out, err := g.complete(ctx, ragPrompt, user, 0.1, false)
	if err != nil {
		return "", fmt.Errorf("respuesta con contexto: %w", err)
	}
	return out, nil
}

const consultaGeneralPrompt = `Eres un Consultor Jurídico Senior de IA. Tu especialidad es el derecho general, con énfasis en la legislación dominicana.
Tu objetivo es ayudar a abogados a:
1. Redactar borradores de cláusulas o contratos.
2. Explicar términos legales complejos.
3. Orientar sobre procedimientos procesales.
4. Analizar situaciones jurídicas hipotéticas.

REGLAS:
- Responde de forma profesional, estructurada y precisa.
- Siempre aclara que tus respuestas son informativas y deben ser revisadas por un profesional.
- Si citas leyes, asegúrate de mencionar que se basan en la normativa vigente.`

func (g *GroqLLM) ConsultaGeneral(ctx context.Context, pregunta string) (string, error) {
	out, err := g.complete(ctx, consultaGeneralPrompt, pregunta, 0.2, false)
	if err != nil {
		return "", fmt.Errorf("consulta general: %w", err)
	}
	return out, nil
}

const redaccionPromptFmt = `Eres un abogado senior experto en redacción jurídica de la República Dominicana.
Tu tarea es redactar un borrador de un documento legal de tipo: "%s".

DATOS DEL CLIENTE: %s
CONTEXTO DEL EXPEDIENTE (Hechos y Análisis):
%s

REGLAS FORMALES DE REDACCIÓN:
1. Estructura clásica: Encabezado (Poder Judicial), Datos de las partes, "RELACIÓN DE HECHOS", "FUNDAMENTOS DE DERECHO" y "CONCLUSIONES".
2. Cita leyes dominicanas vigentes relacionadas con el contexto (ej: Código de Trabajo si es laboral, Código Civil si es daños y perjuicios).
3. Usa lenguaje solemne y técnico (ej: "A tales fines y bajo toda clase de reservas de derecho...").
4. Utiliza marcadores de posición para datos faltantes como "[NOMBRE DEL ALGUACIL]", "[FECHA DEL ACTO]", "[TRIBUNAL COMPETENTE]".
5. El tono debe ser persuasivo y firme si es una demanda, o neutral y protector si es un contrato.

IMPORTANTE: Solo devuelve el texto del documento legal, sin comentarios adicionales antes o después.`

// DraftLegalBrief produces a first draft of a legal filing. Rendering the
// draft into a .docx is a presentation concern outside this client.
func (g *GroqLLM) DraftLegalBrief(ctx context.Context, tipo, contextoExpediente, clienteNombre string) (string, error) {
	if clienteNombre == "" {
		clienteNombre = "Parte Interesada"
	}
	system := fmt.Sprintf(redaccionPromptFmt, tipo, clienteNombre, contextoExpediente)
	out, err := g.complete(ctx, system,
		fmt.Sprintf("Redacta el borrador del documento %q basado en la información proporcionada.", tipo), 0.5, false)
	if err != nil {
		return "", fmt.Errorf("redacción legal: %w", err)
	}
	return out, nil
}
