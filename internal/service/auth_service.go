package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MarcoAguilar2002/perfum/internal/dto"
	"github.com/MarcoAguilar2002/perfum/internal/middleware"
	"github.com/MarcoAguilar2002/perfum/internal/model"
	"github.com/MarcoAguilar2002/perfum/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrCredencialesInvalidas = errors.New("email o contraseña incorrectos")
	ErrUsuarioInactivo       = errors.New("el usuario está desactivado")
	ErrEmailDuplicado        = errors.New("ya existe un usuario con ese email")
)

// AuthService handles login, token issuing and user management.
type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error)
	CrearUsuario(ctx context.Context, req dto.CrearUsuarioRequest) (*dto.UsuarioResponse, error)
	ListarUsuarios(ctx context.Context, incluirInactivos bool) ([]dto.UsuarioResponse, error)
	ActualizarUsuario(ctx context.Context, id uuid.UUID, req dto.ActualizarUsuarioRequest) (*dto.UsuarioResponse, error)
	DesactivarUsuario(ctx context.Context, id uuid.UUID) error
	ReactivarUsuario(ctx context.Context, id uuid.UUID) error
}

type authService struct {
	repo          repository.PerfilRepository
	jwtSecret     string
	accessExpiry  time.Duration
	refreshExpiry time.Duration
}

func NewAuthService(repo repository.PerfilRepository, jwtSecret string, accessExpiry, refreshExpiry time.Duration) AuthService {
	return &authService{
		repo:          repo,
		jwtSecret:     jwtSecret,
		accessExpiry:  accessExpiry,
		refreshExpiry: refreshExpiry,
	}
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	perfil, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCredencialesInvalidas
		}
		return nil, fmt.Errorf("error consultando el usuario: %w", err)
	}
	if !perfil.Activo {
		return nil, ErrUsuarioInactivo
	}
	if err := bcrypt.CompareHashAndPassword([]byte(perfil.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrCredencialesInvalidas
	}
	return s.issueTokens(perfil)
}

// Refresh exchanges a valid refresh token for a new token pair. The user is
// re-read so a deactivation between tokens cuts the session off.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error) {
	claims := &middleware.JWTClaims{}
	token, err := jwt.ParseWithClaims(refreshToken, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrCredencialesInvalidas
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, ErrCredencialesInvalidas
	}
	perfil, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, ErrCredencialesInvalidas
	}
	if !perfil.Activo {
		return nil, ErrUsuarioInactivo
	}
	return s.issueTokens(perfil)
}

func (s *authService) issueTokens(perfil *model.Perfil) (*dto.LoginResponse, error) {
	now := time.Now()

	claims := middleware.JWTClaims{
		UserID: perfil.ID.String(),
		Email:  perfil.Email,
		Rol:    perfil.Rol,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessExpiry)),
		},
	}
	if perfil.SedeID != nil {
		sede := perfil.SedeID.String()
		claims.SedeID = &sede
	}

	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwtSecret))
	if err != nil {
		return nil, fmt.Errorf("error firmando el token: %w", err)
	}

	refreshClaims := claims
	refreshClaims.ExpiresAt = jwt.NewNumericDate(now.Add(s.refreshExpiry))
	refresh, err := jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims).SignedString([]byte(s.jwtSecret))
	if err != nil {
		return nil, fmt.Errorf("error firmando el refresh token: %w", err)
	}

	return &dto.LoginResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    int(s.accessExpiry.Seconds()),
		User:         perfilToResponse(perfil),
	}, nil
}

func (s *authService) CrearUsuario(ctx context.Context, req dto.CrearUsuarioRequest) (*dto.UsuarioResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("error generando el hash: %w", err)
	}

	perfil := &model.Perfil{
		Email:        req.Email,
		PasswordHash: string(hash),
		Nombre:       req.Nombre,
		Apellido:     req.Apellido,
		Rol:          req.Rol,
		Activo:       true,
	}
	if req.SedeID != nil {
		sedeID, err := uuid.Parse(*req.SedeID)
		if err != nil {
			return nil, fmt.Errorf("sede_id inválido: %w", err)
		}
		perfil.SedeID = &sedeID
	}

	if err := s.repo.Create(ctx, perfil); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailDuplicado
		}
		return nil, fmt.Errorf("error creando el usuario: %w", err)
	}

	resp := perfilToResponse(perfil)
	return &resp, nil
}

func (s *authService) ListarUsuarios(ctx context.Context, incluirInactivos bool) ([]dto.UsuarioResponse, error) {
	var perfiles []model.Perfil
	var err error
	if incluirInactivos {
		perfiles, err = s.repo.ListAll(ctx)
	} else {
		perfiles, err = s.repo.List(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("error listando usuarios: %w", err)
	}

	out := make([]dto.UsuarioResponse, 0, len(perfiles))
	for i := range perfiles {
		out = append(out, perfilToResponse(&perfiles[i]))
	}
	return out, nil
}

func (s *authService) ActualizarUsuario(ctx context.Context, id uuid.UUID, req dto.ActualizarUsuarioRequest) (*dto.UsuarioResponse, error) {
	perfil, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoEncontrado
		}
		return nil, fmt.Errorf("error consultando el usuario: %w", err)
	}

	if req.Nombre != nil {
		perfil.Nombre = req.Nombre
	}
	if req.Apellido != nil {
		perfil.Apellido = req.Apellido
	}
	if req.Rol != "" {
		perfil.Rol = req.Rol
	}
	if req.SedeID != nil {
		sedeID, err := uuid.Parse(*req.SedeID)
		if err != nil {
			return nil, fmt.Errorf("sede_id inválido: %w", err)
		}
		perfil.SedeID = &sedeID
	}
	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("error generando el hash: %w", err)
		}
		perfil.PasswordHash = string(hash)
	}

	if err := s.repo.Update(ctx, perfil); err != nil {
		return nil, fmt.Errorf("error actualizando el usuario: %w", err)
	}
	resp := perfilToResponse(perfil)
	return &resp, nil
}

func (s *authService) DesactivarUsuario(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return fmt.Errorf("error desactivando el usuario: %w", err)
	}
	return nil
}

func (s *authService) ReactivarUsuario(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Reactivar(ctx, id); err != nil {
		return fmt.Errorf("error reactivando el usuario: %w", err)
	}
	return nil
}

func perfilToResponse(p *model.Perfil) dto.UsuarioResponse {
	resp := dto.UsuarioResponse{
		ID:       p.ID.String(),
		Email:    p.Email,
		Nombre:   p.Nombre,
		Apellido: p.Apellido,
		Rol:      p.Rol,
		Activo:   p.Activo,
	}
	if p.SedeID != nil {
		sede := p.SedeID.String()
		resp.SedeID = &sede
	}
	if p.Sede != nil {
		resp.Sede = &p.Sede.Nombre
	}
	return resp
}
