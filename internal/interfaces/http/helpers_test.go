package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	appanalytics "github.com/jhoicas/Retail-api/internal/application/analytics"
	"github.com/jhoicas/Retail-api/internal/application/auth"
	"github.com/jhoicas/Retail-api/internal/application/billing"
	"github.com/jhoicas/Retail-api/internal/application/dto"
	"github.com/jhoicas/Retail-api/internal/application/usecase"
	"github.com/jhoicas/Retail-api/internal/domain/entity"
	"github.com/jhoicas/Retail-api/internal/infrastructure/docstore"
	"github.com/jhoicas/Retail-api/internal/infrastructure/locking"
	"github.com/jhoicas/Retail-api/internal/infrastructure/memstore"
	"github.com/jhoicas/Retail-api/internal/infrastructure/metrics"
	apphttp "github.com/jhoicas/Retail-api/internal/interfaces/http"
	"github.com/jhoicas/Retail-api/pkg/logger"
	"github.com/jhoicas/Retail-api/pkg/session"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testSecret   = "test-secret-key-for-unit-tests"
	testPassword = "password-segura"
)

// testEnv aplicación completa sobre el store en memoria con dos tenants sembrados.
type testEnv struct {
	app     *fiber.App
	metrics *metrics.Metrics

	tenantA, tenantB string
	superID          string
	adminAID         string
	salesAID         string
	salesBID         string
}

type envOption func(*apphttp.RouterDeps)

func withLoginLimit(n int) envOption {
	return func(d *apphttp.RouterDeps) { d.LoginPerMinute = n }
}

// buildTestApp construye la API completa:
//   - store en memoria y repositorios docstore
//   - lock local por factura y sin caché de series
//   - usuarios: super admin global, admin y vendedor de A, vendedor de B
func buildTestApp(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()
	return buildTestAppWithLocker(t, nil, opts...)
}

func buildTestAppWithLocker(t *testing.T, locker billing.InvoiceLocker, opts ...envOption) *testEnv {
	t.Helper()
	ctx := context.Background()
	log := logger.Nop()

	store := memstore.New()
	userRepo := docstore.NewUserRepository(store)
	clientRepo := docstore.NewClientRepository(store)
	invoiceRepo := docstore.NewInvoiceRepository(store)

	codec, err := session.NewCodec(testSecret, "retail-api-test", 7*24*time.Hour)
	require.NoError(t, err)

	m := metrics.New("retail_test")
	authUC := auth.NewAuthUseCase(userRepo, clientRepo, codec, 24*time.Hour, log)
	clientUC := usecase.NewClientUseCase(clientRepo)
	seriesUC := appanalytics.NewCategorySeriesUseCase(docstore.NewAnalyticsRepository(store), nil, time.Minute, log)

	deps := apphttp.RouterDeps{
		AuthUC:         authUC,
		AccountUC:      usecase.NewAccountUseCase(userRepo, log),
		ClientUC:       clientUC,
		InvoiceUC:      billing.NewInvoiceUseCase(invoiceRepo, seriesUC, m, log),
		PaymentUC:      billing.NewPaymentUseCase(invoiceRepo, locking.NewKeyedLocker(time.Second), m, log),
		SeriesUC:       seriesUC,
		Metrics:        m,
		Cookies:        apphttp.CookieConfig{AuthMaxAge: 7 * 24 * time.Hour, SelectedClientMaxAge: 30 * 24 * time.Hour},
		LoginPerMinute: 1000,
		ServiceName:    "retail-api-test",
		Log:            log,
	}
	if locker != nil {
		deps.PaymentUC = billing.NewPaymentUseCase(invoiceRepo, locker, m, log)
	}
	for _, opt := range opts {
		opt(&deps)
	}

	app := fiber.New()
	apphttp.Router(app, deps)

	env := &testEnv{app: app, metrics: m}
	a, err := clientUC.Create(ctx, dto.CreateClientRequest{Name: "Tienda A"})
	require.NoError(t, err)
	b, err := clientUC.Create(ctx, dto.CreateClientRequest{Name: "Tienda B"})
	require.NoError(t, err)
	env.tenantA, env.tenantB = a.ID, b.ID

	register := func(email, role, clientID string) string {
		u, err := authUC.RegisterUser(ctx, dto.CreateUserRequest{
			ClientID: clientID, Email: email, Password: testPassword, Role: role,
		})
		require.NoError(t, err)
		return u.ID
	}
	env.superID = register("root@retail.test", entity.RoleSuperAdmin, "")
	env.adminAID = register("admin@a.test", entity.RoleAdmin, env.tenantA)
	env.salesAID = register("ventas@a.test", entity.RoleSales, env.tenantA)
	env.salesBID = register("ventas@b.test", entity.RoleSales, env.tenantB)
	return env
}

// doRequest ejecuta la petición contra la app y devuelve respuesta y cuerpo.
func doRequest(t *testing.T, app *fiber.App, method, path string, body any, cookies ...*http.Cookie) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	_ = resp.Body.Close()
	return resp, out
}

func newRequest(t *testing.T, method, path string) *http.Request {
	t.Helper()
	return httptest.NewRequest(method, path, nil)
}

// login inicia sesión y devuelve el cookie auth-token.
func login(t *testing.T, app *fiber.App, email string) *http.Cookie {
	t.Helper()
	resp, _ := doRequest(t, app, http.MethodPost, "/api/auth/login", dto.LoginRequest{Email: email, Password: testPassword})
	require.Equal(t, http.StatusOK, resp.StatusCode, "login de %s", email)
	c := findCookie(resp, apphttp.CookieAuthToken)
	require.NotNil(t, c, "el login debe emitir el cookie de sesión")
	return &http.Cookie{Name: c.Name, Value: c.Value}
}

func findCookie(resp *http.Response, name string) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func decodeJSON[T any](t *testing.T, body []byte) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(body, &out), "cuerpo: %s", body)
	return out
}

// createInvoice crea una factura de total 1000 con abono inicial opcional.
func createInvoice(t *testing.T, app *fiber.App, cookie *http.Cookie, clientID string, initial int64) dto.InvoiceResponse {
	t.Helper()
	in := map[string]any{
		"customerName": "Cliente final",
		"items": []map[string]any{
			{"description": "Camisa", "category": "ropa", "quantity": 2, "unitPrice": "500"},
		},
	}
	if clientID != "" {
		in["clientId"] = clientID
	}
	if initial > 0 {
		in["initialPayment"] = initial
	}
	resp, body := doRequest(t, app, http.MethodPost, "/api/invoices", in, cookie)
	require.Equal(t, http.StatusCreated, resp.StatusCode, "cuerpo: %s", body)
	return decodeJSON[dto.InvoiceResponse](t, body)
}
