package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Retail-api/internal/application/auth"
	"github.com/jhoicas/Retail-api/internal/application/dto"
	"github.com/jhoicas/Retail-api/internal/domain"
	"github.com/jhoicas/Retail-api/internal/domain/entity"
	"github.com/jhoicas/Retail-api/internal/infrastructure/docstore"
	"github.com/jhoicas/Retail-api/internal/infrastructure/memstore"
	"github.com/jhoicas/Retail-api/pkg/logger"
	"github.com/jhoicas/Retail-api/pkg/session"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

var t0 = time.Date(2026, 5, 10, 8, 0, 0, 0, time.UTC)

type fixture struct {
	users   *docstore.UserRepo
	clients *docstore.ClientRepo
	codec   *session.Codec
	uc      *auth.AuthUseCase
}

func setup(t *testing.T) *fixture {
	t.Helper()
	store := memstore.New()
	f := &fixture{
		users:   docstore.NewUserRepository(store),
		clients: docstore.NewClientRepository(store),
	}
	codec, err := session.NewCodec("secret-de-pruebas", "retail-test", 7*24*time.Hour)
	require.NoError(t, err)
	f.codec = codec
	f.uc = auth.NewAuthUseCase(f.users, f.clients, codec, 24*time.Hour, logger.Nop()).
		WithClock(func() time.Time { return t0 })
	require.NoError(t, f.clients.Create(context.Background(), &entity.Client{ID: "T1", Name: "Tienda Norte", Status: entity.ClientStatusActive}))
	return f
}

func (f *fixture) addUser(t *testing.T, id, email, password, role, clientID string, active bool) *entity.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	u := &entity.User{
		ID: id, Email: email, PasswordHash: string(hash), Name: id, Role: role,
		ClientID: clientID, IsActive: active, CreatedAt: t0, UpdatedAt: t0,
	}
	require.NoError(t, f.users.Create(context.Background(), u))
	return u
}

func (f *fixture) at(now time.Time) *auth.AuthUseCase {
	return f.uc.WithClock(func() time.Time { return now })
}

// ──────────────────────────────────────────────────────────────────────────────
// Login
// ──────────────────────────────────────────────────────────────────────────────

func TestLogin_Exitoso(t *testing.T) {
	f := setup(t)
	f.addUser(t, "u1", "Vendedor@Tienda.co", "clave-segura", entity.RoleSales, "T1", true)

	resp, err := f.uc.Login(context.Background(), dto.LoginRequest{Email: "vendedor@tienda.co", Password: "clave-segura"})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "u1", resp.User.ID)
	assert.Equal(t, "T1", resp.User.ClientID)
	assert.False(t, resp.User.IsSuperAdmin)

	claims, err := f.codec.WithClock(func() time.Time { return t0 }).Decode(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, entity.RoleSales, claims.Role)
	assert.Equal(t, "T1", claims.ClientID)
	assert.True(t, claims.IssuedAt.Equal(t0))
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	f := setup(t)
	f.addUser(t, "u1", "a@tienda.co", "clave-segura", entity.RoleSales, "T1", true)

	_, err := f.uc.Login(context.Background(), dto.LoginRequest{Email: "a@tienda.co", Password: "otra"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = f.uc.Login(context.Background(), dto.LoginRequest{Email: "nadie@tienda.co", Password: "clave-segura"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials, "email desconocido y password incorrecto son indistinguibles")
}

func TestLogin_CuentaInactiva(t *testing.T) {
	f := setup(t)
	f.addUser(t, "u1", "a@tienda.co", "clave-segura", entity.RoleSales, "T1", false)

	_, err := f.uc.Login(context.Background(), dto.LoginRequest{Email: "a@tienda.co", Password: "clave-segura"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// ──────────────────────────────────────────────────────────────────────────────
// Resolve
// ──────────────────────────────────────────────────────────────────────────────

func loginToken(t *testing.T, f *fixture, email, password string) string {
	t.Helper()
	resp, err := f.uc.Login(context.Background(), dto.LoginRequest{Email: email, Password: password})
	require.NoError(t, err)
	return resp.Token
}

func TestResolve_SesionValida(t *testing.T) {
	f := setup(t)
	f.addUser(t, "u1", "a@tienda.co", "clave-segura", entity.RoleAdmin, "T1", true)
	tok := loginToken(t, f, "a@tienda.co", "clave-segura")

	u := f.at(t0.Add(23 * time.Hour)).Resolve(context.Background(), tok)
	require.NotNil(t, u)
	assert.Equal(t, "u1", u.ID)
}

func TestResolve_VencidaA24Horas(t *testing.T) {
	f := setup(t)
	f.addUser(t, "u1", "a@tienda.co", "clave-segura", entity.RoleAdmin, "T1", true)
	tok := loginToken(t, f, "a@tienda.co", "clave-segura")

	assert.Nil(t, f.at(t0.Add(24*time.Hour)).Resolve(context.Background(), tok),
		"el cookie sigue vivo pero la sesión de 24h no")
}

func TestResolve_LeeDatosFrescos(t *testing.T) {
	f := setup(t)
	f.addUser(t, "u1", "a@tienda.co", "clave-segura", entity.RoleAdmin, "T1", true)
	tok := loginToken(t, f, "a@tienda.co", "clave-segura")

	stored, err := f.users.FindByID(context.Background(), "u1")
	require.NoError(t, err)
	stored.Role = entity.RoleViewer
	require.NoError(t, f.users.Update(context.Background(), stored))

	u := f.uc.Resolve(context.Background(), tok)
	require.NotNil(t, u)
	assert.Equal(t, entity.RoleViewer, u.Role, "el rol viene del almacenamiento, no del token")
}

func TestResolve_UsuarioDesactivado(t *testing.T) {
	f := setup(t)
	f.addUser(t, "u1", "a@tienda.co", "clave-segura", entity.RoleAdmin, "T1", true)
	tok := loginToken(t, f, "a@tienda.co", "clave-segura")

	stored, err := f.users.FindByID(context.Background(), "u1")
	require.NoError(t, err)
	stored.IsActive = false
	require.NoError(t, f.users.Update(context.Background(), stored))

	assert.Nil(t, f.uc.Resolve(context.Background(), tok))
}

func TestResolve_CredencialesInvalidas(t *testing.T) {
	f := setup(t)
	assert.Nil(t, f.uc.Resolve(context.Background(), ""))
	assert.Nil(t, f.uc.Resolve(context.Background(), "no-es-un-token"))

	// Token bien firmado de un usuario que no existe.
	tok, err := f.codec.WithClock(func() time.Time { return t0 }).Encode(session.Claims{UserID: "fantasma", IssuedAt: t0})
	require.NoError(t, err)
	assert.Nil(t, f.uc.Resolve(context.Background(), tok))
}

// ──────────────────────────────────────────────────────────────────────────────
// RegisterUser
// ──────────────────────────────────────────────────────────────────────────────

func TestRegisterUser(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	out, err := f.uc.RegisterUser(ctx, dto.CreateUserRequest{ClientID: "T1", Email: "nuevo@tienda.co", Password: "clave-segura", Role: entity.RoleManager})
	require.NoError(t, err)
	assert.Equal(t, "nuevo@tienda.co", out.Name, "sin nombre se usa el email")
	assert.True(t, out.IsActive)

	_, err = f.uc.Login(ctx, dto.LoginRequest{Email: "NUEVO@tienda.co", Password: "clave-segura"})
	assert.NoError(t, err)

	_, err = f.uc.RegisterUser(ctx, dto.CreateUserRequest{ClientID: "T1", Email: "Nuevo@Tienda.co", Password: "clave-segura", Role: entity.RoleSales})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	_, err = f.uc.RegisterUser(ctx, dto.CreateUserRequest{Email: "sin@tenant.co", Password: "clave-segura", Role: entity.RoleAdmin})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.RegisterUser(ctx, dto.CreateUserRequest{ClientID: "T9", Email: "x@tienda.co", Password: "clave-segura", Role: entity.RoleAdmin})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	sa, err := f.uc.RegisterUser(ctx, dto.CreateUserRequest{Email: "root@retail.co", Password: "clave-segura", Role: entity.RoleSuperAdmin})
	require.NoError(t, err)
	assert.True(t, sa.IsSuperAdmin)
	assert.Empty(t, sa.ClientID)
}
