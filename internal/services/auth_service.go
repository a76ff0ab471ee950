package services

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/eymatos/jurisia/internal/core"
	"github.com/eymatos/jurisia/internal/models"
)

var ErrCredencialesInvalidas = fmt.Errorf("credenciales inválidas")

type AuthService struct {
	db        core.DbClient
	jwtSecret []byte
}

func NewAuthService(db core.DbClient, jwtSecret string) *AuthService {
	return &AuthService{db: db, jwtSecret: []byte(jwtSecret)}
}

type Registro struct {
	NombreCompleto string `json:"nombre_completo"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	Rol            string `json:"rol"`
}

func (s *AuthService) Registrar(ctx context.Context, datos Registro) (*models.Usuario, error) {
	existente, err := s.db.GetUsuarioByEmail(ctx, datos.Email)
	if err != nil {
		return nil, err
	}
	if existente != nil {
		return nil, fmt.Errorf("ya existe un usuario con este email")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(datos.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	rol := datos.Rol
	switch rol {
	case "admin", "abogado", "asistente":
	default:
		rol = "asistente"
	}

	usuario := &models.Usuario{
		ID:             uuid.NewString(),
		NombreCompleto: datos.NombreCompleto,
		Email:          datos.Email,
		PasswordHash:   string(hash),
		Rol:            rol,
		Activo:         true,
	}
	if err := s.db.CreateUsuario(ctx, usuario); err != nil {
		return nil, err
	}
	return usuario, nil
}

// Login verifies the credentials and returns a signed token valid for 8 hours
// together with the user. The last-connection timestamp is updated on success.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *models.Usuario, error) {
	usuario, err := s.db.GetUsuarioByEmail(ctx, email)
	if err != nil {
		return "", nil, err
	}
	if usuario == nil || !usuario.Activo {
		return "", nil, ErrCredencialesInvalidas
	}
	if err := bcrypt.CompareHashAndPassword([]byte(usuario.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrCredencialesInvalidas
	}

	claims := jwt.MapClaims{
		"sub":   usuario.ID,
		"email": usuario.Email,
		"rol":   usuario.Rol,
		"exp":   time.Now().Add(8 * time.Hour).Unix(),
		"iat":   time.Now().Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return "", nil, fmt.Errorf("firmar token: %w", err)
	}

	if err := s.db.TouchUltimaConexion(ctx, usuario.ID); err != nil {
		return "", nil, err
	}
	return token, usuario, nil
}
