package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/pgvector/pgvector-go"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/eymatos/jurisia/internal/config"
	"github.com/eymatos/jurisia/internal/core"
	"github.com/eymatos/jurisia/internal/models"
)

type DatabaseClient struct {
	db *sql.DB
}

func NewDatabaseClient(ctx context.Context, cfg *config.Config) (core.DbClient, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database client configuration is nil")
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is empty")
	}

	dsn := cfg.DatabaseURL
	if cfg.SslCertPath != "" {
		if _, err := os.Stat(cfg.SslCertPath); err != nil {
			return nil, fmt.Errorf("ssl cert not accessible at %q: %w", cfg.SslCertPath, err)
		}
		u, err := url.Parse(cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid DATABASE_URL: %w", err)
		}
		q := u.Query()
		q.Set("sslmode", "verify-ca")
		q.Set("sslrootcert", cfg.SslCertPath)
		u.RawQuery = q.Encode()
		dsn = u.String()
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)
	db.SetConnMaxIdleTime(10 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	if err := EnsureBootstrapped(ctx, db, cfg.EmbedDim); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("bootstrap: %w", err)
	}

	return &DatabaseClient{db: db}, nil
}

func (c *DatabaseClient) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// usuarios

func (c *DatabaseClient) CreateUsuario(ctx context.Context, u *models.Usuario) error {
	if u == nil {
		return errors.New("nil usuario")
	}
	const q = `
		INSERT INTO usuarios (id, nombre_completo, email, password_hash, rol, activo, fecha_creacion, ultima_conexion)
		VALUES ($1, $2, $3, $4, $5, $6, now(), now())
	`
	_, err := c.db.ExecContext(ctx, q, u.ID, u.NombreCompleto, u.Email, u.PasswordHash, u.Rol, u.Activo)
	return err
}

func (c *DatabaseClient) GetUsuarioByEmail(ctx context.Context, email string) (*models.Usuario, error) {
	const q = `
		SELECT id, nombre_completo, email, password_hash, rol, activo, fecha_creacion, ultima_conexion
		FROM usuarios WHERE email = $1
	`
	var u models.Usuario
	err := c.db.QueryRowContext(ctx, q, email).Scan(
		&u.ID, &u.NombreCompleto, &u.Email, &u.PasswordHash, &u.Rol, &u.Activo, &u.FechaCreacion, &u.UltimaConexion,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *DatabaseClient) TouchUltimaConexion(ctx context.Context, id string) error {
	_, err := c.db.ExecContext(ctx, `UPDATE usuarios SET ultima_conexion = now() WHERE id = $1`, id)
	return err
}

// clientes

func (c *DatabaseClient) CreateCliente(ctx context.Context, cl *models.Cliente) error {
	if cl == nil {
		return errors.New("nil cliente")
	}
	const q = `
		INSERT INTO clientes (id, nombre, documento_identidad, tipo_persona, email, telefono, direccion, fecha_registro)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7, now())
	`
	_, err := c.db.ExecContext(ctx, q,
		cl.ID, cl.Nombre, cl.DocumentoIdentidad, cl.TipoPersona, cl.Email, cl.Telefono, cl.Direccion)
	return err
}

const clienteColumns = `
	id, nombre, COALESCE(documento_identidad, ''), tipo_persona,
	COALESCE(email, ''), COALESCE(telefono, ''), COALESCE(direccion, ''), fecha_registro
`

func (c *DatabaseClient) GetClienteByID(ctx context.Context, id string) (*models.Cliente, error) {
	q := `SELECT ` + clienteColumns + ` FROM clientes WHERE id = $1`
	return c.scanCliente(c.db.QueryRowContext(ctx, q, id))
}

func (c *DatabaseClient) GetClienteByDocumentoIdentidad(ctx context.Context, documento string) (*models.Cliente, error) {
	q := `SELECT ` + clienteColumns + ` FROM clientes WHERE documento_identidad = $1`
	return c.scanCliente(c.db.QueryRowContext(ctx, q, documento))
}

func (c *DatabaseClient) scanCliente(row *sql.Row) (*models.Cliente, error) {
	var cl models.Cliente
	err := row.Scan(&cl.ID, &cl.Nombre, &cl.DocumentoIdentidad, &cl.TipoPersona,
		&cl.Email, &cl.Telefono, &cl.Direccion, &cl.FechaRegistro)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cl, nil
}

func (c *DatabaseClient) ListClientes(ctx context.Context) ([]models.Cliente, error) {
	q := `SELECT ` + clienteColumns + ` FROM clientes ORDER BY nombre ASC`
	rows, err := c.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Cliente
	for rows.Next() {
		var cl models.Cliente
		if err := rows.Scan(&cl.ID, &cl.Nombre, &cl.DocumentoIdentidad, &cl.TipoPersona,
			&cl.Email, &cl.Telefono, &cl.Direccion, &cl.FechaRegistro); err != nil {
			return nil, err
		}
		out = append(out, cl)
	}
	return out, rows.Err()
}

func (c *DatabaseClient) CountClientes(ctx context.Context) (int, error) {
	var n int
	err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM clientes`).Scan(&n)
	return n, err
}

// casos

func (c *DatabaseClient) CreateCaso(ctx context.Context, cs *models.Caso) error {
	if cs == nil {
		return errors.New("nil caso")
	}
	const q = `
		INSERT INTO casos (id, titulo, descripcion, numero_expediente, tribunales, estatus, cliente_id, fecha_apertura, ultima_actualizacion)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, now(), now())
	`
	_, err := c.db.ExecContext(ctx, q,
		cs.ID, cs.Titulo, cs.Descripcion, cs.NumeroExpediente, cs.Tribunales, cs.Estatus, cs.ClienteID)
	return err
}

func (c *DatabaseClient) UpdateCasoExpediente(ctx context.Context, id, numeroExpediente string) error {
	const q = `
		UPDATE casos SET numero_expediente = $2, ultima_actualizacion = now() WHERE id = $1
	`
	res, err := c.db.ExecContext(ctx, q, id, numeroExpediente)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("caso not found: %s", id)
	}
	return nil
}

const casoColumns = `
	c.id, c.titulo, COALESCE(c.descripcion, ''), COALESCE(c.numero_expediente, ''), COALESCE(c.tribunales, ''),
	c.estatus, c.cliente_id, c.fecha_apertura, c.ultima_actualizacion
`

func scanCaso(rows interface{ Scan(...any) error }) (models.Caso, error) {
	var cs models.Caso
	err := rows.Scan(&cs.ID, &cs.Titulo, &cs.Descripcion, &cs.NumeroExpediente, &cs.Tribunales,
		&cs.Estatus, &cs.ClienteID, &cs.FechaApertura, &cs.UltimaActualizacion)
	return cs, err
}

func (c *DatabaseClient) GetCasoByID(ctx context.Context, id string) (*models.Caso, error) {
	q := `SELECT ` + casoColumns + ` FROM casos c WHERE c.id = $1`
	cs, err := scanCaso(c.db.QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cs, nil
}

func (c *DatabaseClient) ListCasos(ctx context.Context) ([]models.Caso, error) {
	q := `SELECT ` + casoColumns + ` FROM casos c ORDER BY c.fecha_apertura DESC`
	return c.queryCasos(ctx, q)
}

func (c *DatabaseClient) ListCasosRecientes(ctx context.Context, limit int) ([]models.Caso, error) {
	q := `SELECT ` + casoColumns + ` FROM casos c ORDER BY c.fecha_apertura DESC LIMIT $1`
	return c.queryCasos(ctx, q, limit)
}

func (c *DatabaseClient) queryCasos(ctx context.Context, q string, args ...any) ([]models.Caso, error) {
	rows, err := c.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Caso
	for rows.Next() {
		cs, err := scanCaso(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, cs)
	}
	return out, rows.Err()
}

func (c *DatabaseClient) CountCasos(ctx context.Context) (int, error) {
	var n int
	err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM casos`).Scan(&n)
	return n, err
}

func (c *DatabaseClient) EstatusDistribucion(ctx context.Context) (map[string]int, error) {
	rows, err := c.db.QueryContext(ctx, `SELECT estatus, COUNT(*) FROM casos GROUP BY estatus`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]int{}
	for rows.Next() {
		var estatus string
		var n int
		if err := rows.Scan(&estatus, &n); err != nil {
			return nil, err
		}
		out[estatus] = n
	}
	return out, rows.Err()
}

// documentos

const documentoColumns = `
	id, caso_id, nombre_archivo, ruta_url, tipo_mimetype,
	COALESCE(contenido_texto, ''), COALESCE(resumen_ia, ''), COALESCE(vector_id, ''), estado, fecha_subida
`

func scanDocumento(row interface{ Scan(...any) error }) (models.Documento, error) {
	var d models.Documento
	err := row.Scan(&d.ID, &d.CasoID, &d.NombreArchivo, &d.RutaURL, &d.TipoMimetype,
		&d.ContenidoTexto, &d.ResumenIA, &d.VectorID, &d.Estado, &d.FechaSubida)
	return d, err
}

func (c *DatabaseClient) CreateDocumento(ctx context.Context, d *models.Documento) error {
	if d == nil {
		return errors.New("nil documento")
	}
	const q = `
		INSERT INTO documentos (id, caso_id, nombre_archivo, ruta_url, tipo_mimetype, estado, fecha_subida)
		VALUES ($1, $2, $3, $4, $5, $6, now())
	`
	_, err := c.db.ExecContext(ctx, q, d.ID, d.CasoID, d.NombreArchivo, d.RutaURL, d.TipoMimetype, d.Estado)
	return err
}

func (c *DatabaseClient) GetDocumentoByID(ctx context.Context, id string) (*models.Documento, error) {
	q := `SELECT ` + documentoColumns + ` FROM documentos WHERE id = $1`
	d, err := scanDocumento(c.db.QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (c *DatabaseClient) ListDocumentosByCaso(ctx context.Context, casoID string) ([]models.Documento, error) {
	q := `SELECT ` + documentoColumns + ` FROM documentos WHERE caso_id = $1 ORDER BY fecha_subida DESC`
	return c.queryDocumentos(ctx, q, casoID)
}

// SearchDocumentos does plain substring matching over extracted text, AI
// summary and filename, scoped to one case.
func (c *DatabaseClient) SearchDocumentos(ctx context.Context, casoID, termino string) ([]models.Documento, error) {
	q := `SELECT ` + documentoColumns + `
		FROM documentos
		WHERE caso_id = $1
		  AND (contenido_texto ILIKE $2 OR resumen_ia ILIKE $2 OR nombre_archivo ILIKE $2)
		ORDER BY fecha_subida DESC`
	return c.queryDocumentos(ctx, q, casoID, "%"+termino+"%")
}

func (c *DatabaseClient) queryDocumentos(ctx context.Context, q string, args ...any) ([]models.Documento, error) {
	rows, err := c.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Documento
	for rows.Next() {
		d, err := scanDocumento(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (c *DatabaseClient) UpdateDocumentoTexto(ctx context.Context, id, texto string) error {
	return c.updateDocumentoField(ctx, id, "contenido_texto", texto)
}

func (c *DatabaseClient) UpdateDocumentoResumen(ctx context.Context, id, resumen string) error {
	return c.updateDocumentoField(ctx, id, "resumen_ia", resumen)
}

func (c *DatabaseClient) UpdateDocumentoVectorID(ctx context.Context, id, vectorID string) error {
	return c.updateDocumentoField(ctx, id, "vector_id", vectorID)
}

func (c *DatabaseClient) updateDocumentoField(ctx context.Context, id, column, value string) error {
	q := fmt.Sprintf(`UPDATE documentos SET %s = $2 WHERE id = $1`, column)
	res, err := c.db.ExecContext(ctx, q, id, value)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("documento not found: %s", id)
	}
	return nil
}

func (c *DatabaseClient) UpdateDocumentoEstado(ctx context.Context, id string, estado models.EstadoDocumento) error {
	res, err := c.db.ExecContext(ctx, `UPDATE documentos SET estado = $2 WHERE id = $1`, id, string(estado))
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("documento not found: %s", id)
	}
	return nil
}

// ResetDocumentosEnProceso returns every document whose processing never
// reached a terminal state, resetting in-flight ones to pendiente. A crashed
// or restarted process loses its in-memory queue, so these are exactly the
// documents that need re-enqueueing on startup.
func (c *DatabaseClient) ResetDocumentosEnProceso(ctx context.Context) ([]string, error) {
	const q = `
		UPDATE documentos SET estado = 'pendiente'
		WHERE estado IN ('pendiente', 'extrayendo', 'resumiendo', 'indexando', 'detectando_plazos')
		RETURNING id
	`
	rows, err := c.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// chunks

// UpsertChunks writes chunk rows in a single transaction. Chunk ids are
// deterministic ({documentoID}_chunk_{n}) so re-ingesting the same document
// replaces its rows instead of duplicating them.
func (c *DatabaseClient) UpsertChunks(ctx context.Context, chunks []models.DocumentoChunk) error {
	if len(chunks) == 0 {
		return nil
	}
	tx, err := c.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}

	const q = `
		INSERT INTO documento_chunks
			(id, documento_id, caso_id, nombre_archivo, chunk_index, contenido, embedding, fecha_creacion)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now())
		ON CONFLICT (id) DO UPDATE SET
			contenido = EXCLUDED.contenido,
			embedding = EXCLUDED.embedding,
			nombre_archivo = EXCLUDED.nombre_archivo
	`
	stmt, err := tx.PrepareContext(ctx, q)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	defer stmt.Close()

	for i := range chunks {
		ch := &chunks[i]
		vec := pgvector.NewVector(ch.Embedding)
		if _, err := stmt.ExecContext(ctx,
			ch.ID, ch.DocumentoID, ch.CasoID, ch.NombreArchivo, ch.ChunkIndex, ch.Contenido, vec,
		); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// SearchChunks ranks chunks by cosine distance to queryVec. casoID == ""
// searches the whole index; otherwise matches are limited to that case.
func (c *DatabaseClient) SearchChunks(ctx context.Context, queryVec []float32, casoID string, topK int) ([]models.Coincidencia, error) {
	vec := pgvector.NewVector(queryVec)

	var (
		rows *sql.Rows
		err  error
	)
	if casoID == "" {
		const q = `
			SELECT documento_id, caso_id, nombre_archivo, chunk_index, contenido,
				1 - (embedding <=> $1) AS score
			FROM documento_chunks
			ORDER BY embedding <=> $1
			LIMIT $2
		`
		rows, err = c.db.QueryContext(ctx, q, vec, topK)
	} else {
		const q = `
			SELECT documento_id, caso_id, nombre_archivo, chunk_index, contenido,
				1 - (embedding <=> $1) AS score
			FROM documento_chunks
			WHERE caso_id = $2
			ORDER BY embedding <=> $1
			LIMIT $3
		`
		rows, err = c.db.QueryContext(ctx, q, vec, casoID, topK)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Coincidencia
	for rows.Next() {
		var m models.Coincidencia
		if err := rows.Scan(&m.DocumentoID, &m.CasoID, &m.NombreArchivo, &m.ChunkIndex, &m.Contenido, &m.Score); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// alertas

const alertaColumns = `
	id, titulo, COALESCE(descripcion, ''), fecha_vencimiento, prioridad, completada, notificada,
	caso_id, COALESCE(documento_origen_id, ''), fecha_creacion
`

func scanAlerta(row interface{ Scan(...any) error }) (models.Alerta, error) {
	var a models.Alerta
	err := row.Scan(&a.ID, &a.Titulo, &a.Descripcion, &a.FechaVencimiento, &a.Prioridad,
		&a.Completada, &a.Notificada, &a.CasoID, &a.DocumentoOrigenID, &a.FechaCreacion)
	return a, err
}

func (c *DatabaseClient) CreateAlerta(ctx context.Context, a *models.Alerta) error {
	if a == nil {
		return errors.New("nil alerta")
	}
	const q = `
		INSERT INTO alertas
			(id, titulo, descripcion, fecha_vencimiento, prioridad, completada, notificada, caso_id, documento_origen_id, fecha_creacion)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9, ''), now())
	`
	_, err := c.db.ExecContext(ctx, q,
		a.ID, a.Titulo, a.Descripcion, a.FechaVencimiento, string(a.Prioridad),
		a.Completada, a.Notificada, a.CasoID, a.DocumentoOrigenID)
	return err
}

func (c *DatabaseClient) ListAlertasByCaso(ctx context.Context, casoID string) ([]models.Alerta, error) {
	q := `SELECT ` + alertaColumns + ` FROM alertas WHERE caso_id = $1 ORDER BY fecha_vencimiento ASC`
	return c.queryAlertas(ctx, q, casoID)
}

func (c *DatabaseClient) ListAlertasUrgentes(ctx context.Context, horizonte time.Duration) ([]models.Alerta, error) {
	limite := time.Now().Add(horizonte)
	q := `SELECT ` + alertaColumns + `
		FROM alertas
		WHERE fecha_vencimiento <= $1 AND completada = false
		ORDER BY fecha_vencimiento ASC`
	return c.queryAlertas(ctx, q, limite)
}

func (c *DatabaseClient) ListAlertasProximas(ctx context.Context, desde, hasta time.Time) ([]models.Alerta, error) {
	q := `SELECT ` + alertaColumns + `
		FROM alertas
		WHERE fecha_vencimiento BETWEEN $1 AND $2 AND completada = false
		ORDER BY fecha_vencimiento ASC`
	return c.queryAlertas(ctx, q, desde, hasta)
}

func (c *DatabaseClient) ListAlertasPorNotificar(ctx context.Context, hasta time.Time) ([]models.Alerta, error) {
	q := `SELECT ` + alertaColumns + `
		FROM alertas
		WHERE notificada = false AND completada = false AND fecha_vencimiento <= $1
		ORDER BY fecha_vencimiento ASC`
	return c.queryAlertas(ctx, q, hasta)
}

func (c *DatabaseClient) queryAlertas(ctx context.Context, q string, args ...any) ([]models.Alerta, error) {
	rows, err := c.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Alerta
	for rows.Next() {
		a, err := scanAlerta(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (c *DatabaseClient) MarkAlertaCompletada(ctx context.Context, id string) error {
	return c.markAlerta(ctx, id, "completada")
}

func (c *DatabaseClient) MarkAlertaNotificada(ctx context.Context, id string) error {
	return c.markAlerta(ctx, id, "notificada")
}

func (c *DatabaseClient) markAlerta(ctx context.Context, id, column string) error {
	q := fmt.Sprintf(`UPDATE alertas SET %s = true WHERE id = $1`, column)
	res, err := c.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("alerta not found: %s", id)
	}
	return nil
}

func (c *DatabaseClient) DeleteAlerta(ctx context.Context, id string) error {
	_, err := c.db.ExecContext(ctx, `DELETE FROM alertas WHERE id = $1`, id)
	return err
}

func (c *DatabaseClient) CountAlertasCriticas(ctx context.Context) (int, error) {
	var n int
	err := c.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM alertas WHERE prioridad = 'critica' AND completada = false`).Scan(&n)
	return n, err
}
