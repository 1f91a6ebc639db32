package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/MarcoAguilar2002/perfum/internal/dto"
	"github.com/MarcoAguilar2002/perfum/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildAuthSvc() (service.AuthService, *stubPerfilRepo) {
	repo := newStubPerfilRepo()
	svc := service.NewAuthService(repo, "test-secret", 8*time.Hour, 24*time.Hour)
	return svc, repo
}

func seedUsuario(t *testing.T, svc service.AuthService, email, password, rol string) dto.UsuarioResponse {
	t.Helper()
	resp, err := svc.CrearUsuario(context.Background(), dto.CrearUsuarioRequest{
		Email:    email,
		Password: password,
		Rol:      rol,
	})
	require.NoError(t, err)
	return *resp
}

func TestLogin_OK(t *testing.T) {
	svc, _ := buildAuthSvc()
	seedUsuario(t, svc, "gerente@test.local", "secreto123", "gerente")

	resp, err := svc.Login(context.Background(), dto.LoginRequest{
		Email:    "gerente@test.local",
		Password: "secreto123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, "gerente", resp.User.Rol)
}

func TestLogin_PasswordIncorrecto(t *testing.T) {
	svc, _ := buildAuthSvc()
	seedUsuario(t, svc, "admin@test.local", "correcta", "admin")

	_, err := svc.Login(context.Background(), dto.LoginRequest{
		Email:    "admin@test.local",
		Password: "incorrecta",
	})
	assert.ErrorIs(t, err, service.ErrCredencialesInvalidas)
}

func TestLogin_UsuarioNoExiste(t *testing.T) {
	svc, _ := buildAuthSvc()
	_, err := svc.Login(context.Background(), dto.LoginRequest{
		Email:    "nadie@test.local",
		Password: "lo-que-sea",
	})
	assert.ErrorIs(t, err, service.ErrCredencialesInvalidas)
}

func TestLogin_UsuarioDesactivado(t *testing.T) {
	svc, repo := buildAuthSvc()
	u := seedUsuario(t, svc, "ex@test.local", "clave123", "vendedor")

	for _, p := range repo.perfiles {
		if p.Email == u.Email {
			p.Activo = false
		}
	}

	_, err := svc.Login(context.Background(), dto.LoginRequest{
		Email:    "ex@test.local",
		Password: "clave123",
	})
	assert.ErrorIs(t, err, service.ErrUsuarioInactivo)
}

func TestCrearUsuario_EmailDuplicado(t *testing.T) {
	svc, _ := buildAuthSvc()
	seedUsuario(t, svc, "dup@test.local", "clave123", "vendedor")

	_, err := svc.CrearUsuario(context.Background(), dto.CrearUsuarioRequest{
		Email:    "dup@test.local",
		Password: "otra456",
		Rol:      "gerente",
	})
	assert.ErrorIs(t, err, service.ErrEmailDuplicado)
}

func TestRefresh_DevuelveNuevoPar(t *testing.T) {
	svc, _ := buildAuthSvc()
	seedUsuario(t, svc, "refresh@test.local", "clave123", "admin")

	login, err := svc.Login(context.Background(), dto.LoginRequest{
		Email:    "refresh@test.local",
		Password: "clave123",
	})
	require.NoError(t, err)

	renovado, err := svc.Refresh(context.Background(), login.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, renovado.AccessToken)
	assert.Equal(t, login.User.ID, renovado.User.ID)
}

func TestRefresh_TokenInvalido(t *testing.T) {
	svc, _ := buildAuthSvc()
	_, err := svc.Refresh(context.Background(), "no-es-un-jwt")
	assert.ErrorIs(t, err, service.ErrCredencialesInvalidas)
}
