package models

import (
	"time"
)

// Usuario represents an authenticated member of the firm.
type Usuario struct {
	ID             string    `db:"id" json:"id"`
	NombreCompleto string    `db:"nombre_completo" json:"nombre_completo"`
	Email          string    `db:"email" json:"email"`
	PasswordHash   string    `db:"password_hash" json:"-"`
	Rol            string    `db:"rol" json:"rol"` // admin | abogado | asistente
	Activo         bool      `db:"activo" json:"activo"`
	FechaCreacion  time.Time `db:"fecha_creacion" json:"fecha_creacion"`
	UltimaConexion time.Time `db:"ultima_conexion" json:"ultima_conexion"`
}

// Cliente is a client of the firm, either a natural or a juridical person.
type Cliente struct {
	ID                 string    `db:"id" json:"id"`
	Nombre             string    `db:"nombre" json:"nombre"`
	DocumentoIdentidad string    `db:"documento_identidad" json:"documento_identidad"` // cedula o RNC
	TipoPersona        string    `db:"tipo_persona" json:"tipo_persona"`               // Fisica | Juridica
	Email              string    `db:"email" json:"email,omitempty"`
	Telefono           string    `db:"telefono" json:"telefono,omitempty"`
	Direccion          string    `db:"direccion" json:"direccion,omitempty"`
	FechaRegistro      time.Time `db:"fecha_registro" json:"fecha_registro"`
}

// Caso is a legal matter (expediente) owned by exactly one Cliente.
type Caso struct {
	ID                  string    `db:"id" json:"id"`
	Titulo              string    `db:"titulo" json:"titulo"`
	Descripcion         string    `db:"descripcion" json:"descripcion,omitempty"`
	NumeroExpediente    string    `db:"numero_expediente" json:"numero_expediente,omitempty"`
	Tribunales          string    `db:"tribunales" json:"tribunales,omitempty"`
	Estatus             string    `db:"estatus" json:"estatus"` // Abierto | Cerrado | En Espera | Sentencia
	ClienteID           string    `db:"cliente_id" json:"cliente_id"`
	FechaApertura       time.Time `db:"fecha_apertura" json:"fecha_apertura"`
	UltimaActualizacion time.Time `db:"ultima_actualizacion" json:"ultima_actualizacion"`

	Cliente    *Cliente    `db:"-" json:"cliente,omitempty"`
	Documentos []Documento `db:"-" json:"documentos,omitempty"`
	Alertas    []Alerta    `db:"-" json:"alertas,omitempty"`
}

// EstadoDocumento is the persisted pipeline status of a Documento.
// The failure states keep a stuck document observable and requeueable
// instead of silently stalling at "pendiente".
type EstadoDocumento string

const (
	EstadoPendiente        EstadoDocumento = "pendiente"
	EstadoExtrayendo       EstadoDocumento = "extrayendo"
	EstadoResumiendo       EstadoDocumento = "resumiendo"
	EstadoIndexando        EstadoDocumento = "indexando"
	EstadoDetectandoPlazos EstadoDocumento = "detectando_plazos"
	EstadoProcesado        EstadoDocumento = "procesado"
	EstadoFalloExtraccion  EstadoDocumento = "fallo_extraccion"
	EstadoFalloIndexacion  EstadoDocumento = "fallo_indexacion"
)

// Documento is an uploaded file attached to a Caso. Text, summary and vector
// reference start unset and are filled by the ingestion pipeline, each stage
// writing only its own field.
type Documento struct {
	ID             string          `db:"id" json:"id"`
	CasoID         string          `db:"caso_id" json:"caso_id"`
	NombreArchivo  string          `db:"nombre_archivo" json:"nombre_archivo"`
	RutaURL        string          `db:"ruta_url" json:"ruta_url"`
	TipoMimetype   string          `db:"tipo_mimetype" json:"tipo_mimetype"`
	ContenidoTexto string          `db:"contenido_texto" json:"contenido_texto,omitempty"`
	ResumenIA      string          `db:"resumen_ia" json:"resumen_ia,omitempty"`
	VectorID       string          `db:"vector_id" json:"vector_id,omitempty"`
	Estado         EstadoDocumento `db:"estado" json:"estado"`
	FechaSubida    time.Time       `db:"fecha_subida" json:"fecha_subida"`
}

// PrioridadAlerta is the ordered urgency scale for procedural deadlines.
type PrioridadAlerta string

const (
	PrioridadBaja    PrioridadAlerta = "baja"
	PrioridadMedia   PrioridadAlerta = "media"
	PrioridadAlta    PrioridadAlerta = "alta"
	PrioridadCritica PrioridadAlerta = "critica"
)

// ParsePrioridad maps a free-form priority string onto the enum, defaulting
// to media when the value is absent or unrecognized.
func ParsePrioridad(s string) PrioridadAlerta {
	switch PrioridadAlerta(s) {
	case PrioridadBaja, PrioridadMedia, PrioridadAlta, PrioridadCritica:
		return PrioridadAlerta(s)
	}
	return PrioridadMedia
}

// Alerta is a procedural deadline attached to a Caso. It is created either by
// hand or by the deadline materializer; DocumentoOrigenID points back at the
// Documento whose ingestion produced it (empty for manual alerts).
type Alerta struct {
	ID                string          `db:"id" json:"id"`
	Titulo            string          `db:"titulo" json:"titulo"`
	Descripcion       string          `db:"descripcion" json:"descripcion,omitempty"`
	FechaVencimiento  time.Time       `db:"fecha_vencimiento" json:"fecha_vencimiento"`
	Prioridad         PrioridadAlerta `db:"prioridad" json:"prioridad"`
	Completada        bool            `db:"completada" json:"completada"`
	Notificada        bool            `db:"notificada" json:"notificada"`
	CasoID            string          `db:"caso_id" json:"caso_id"`
	DocumentoOrigenID string          `db:"documento_origen_id" json:"documento_origen_id,omitempty"`
	FechaCreacion     time.Time       `db:"fecha_creacion" json:"fecha_creacion"`

	Caso *Caso `db:"-" json:"caso,omitempty"`
}

// PlazoDetectado is one deadline candidate as returned by the language model.
// It is untrusted input: FechaVencimiento is validated before an Alerta is
// created and Prioridad goes through ParsePrioridad.
type PlazoDetectado struct {
	Titulo           string `json:"titulo"`
	Descripcion      string `json:"descripcion"`
	FechaVencimiento string `json:"fechaVencimiento"` // YYYY-MM-DD
	Prioridad        string `json:"prioridad"`
}

// DocumentoChunk is one overlapping window of a document's extracted text,
// stored with its embedding in the vector index.
type DocumentoChunk struct {
	ID            string    `db:"id" json:"id"` // {documentoID}_chunk_{n}
	DocumentoID   string    `db:"documento_id" json:"documento_id"`
	CasoID        string    `db:"caso_id" json:"caso_id"`
	NombreArchivo string    `db:"nombre_archivo" json:"nombre_archivo"`
	ChunkIndex    int       `db:"chunk_index" json:"chunk_index"`
	Contenido     string    `db:"contenido" json:"contenido"`
	Embedding     []float32 `db:"embedding" json:"-"`
	FechaCreacion time.Time `db:"fecha_creacion" json:"fecha_creacion"`
}

// Coincidencia is one scored match from a semantic search over the chunks.
type Coincidencia struct {
	DocumentoID   string  `json:"documento_id"`
	CasoID        string  `json:"caso_id"`
	NombreArchivo string  `json:"nombre_archivo"`
	ChunkIndex    int     `json:"chunk_index"`
	Contenido     string  `json:"contenido"`
	Score         float64 `json:"score"`
}
