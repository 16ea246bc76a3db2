package http_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Retail-api/internal/application/dto"
	apphttp "github.com/jhoicas/Retail-api/internal/interfaces/http"
)

func invoiceClients(list dto.InvoiceListResponse) []string {
	out := make([]string, 0, len(list.Items))
	for _, it := range list.Items {
		out = append(out, it.ClientID)
	}
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Super admin sin tenant: lecturas globales, escrituras rechazadas
// ──────────────────────────────────────────────────────────────────────────────

func TestScope_SuperAdminSinTenant(t *testing.T) {
	env := buildTestApp(t)
	invA := createInvoice(t, env.app, login(t, env.app, "ventas@a.test"), "", 300)
	createInvoice(t, env.app, login(t, env.app, "ventas@b.test"), "", 0)
	root := login(t, env.app, "root@retail.test")

	reads := []struct {
		name string
		path string
	}{
		{"listar facturas", "/api/invoices"},
		{"obtener factura", "/api/invoices/" + invA.ID},
		{"serie por categoría", "/api/dashboard/category-series"},
		{"listar usuarios", "/api/users"},
	}
	for _, tc := range reads {
		t.Run(tc.name, func(t *testing.T) {
			resp, body := doRequest(t, env.app, http.MethodGet, tc.path, nil, root)
			assert.Equal(t, http.StatusOK, resp.StatusCode, "cuerpo: %s", body)
		})
	}

	writes := []struct {
		name   string
		method string
		path   string
		body   any
	}{
		{"crear factura", http.MethodPost, "/api/invoices", map[string]any{
			"customerName": "X", "items": []map[string]any{{"description": "a", "quantity": 1, "unitPrice": 10}},
		}},
		{"registrar abono", http.MethodPost, "/api/invoices/" + invA.ID + "/payments", map[string]any{"amount": 10}},
		{"revertir por índice", http.MethodPatch, "/api/invoices/payments/revert", map[string]any{"invoiceId": invA.ID, "paymentIndex": 0}},
		{"revertir por id", http.MethodDelete, "/api/invoices/" + invA.ID + "/payments/" + invA.AdditionalPayment[0].ID, nil},
	}
	for _, tc := range writes {
		t.Run(tc.name, func(t *testing.T) {
			resp, body := doRequest(t, env.app, tc.method, tc.path, tc.body, root)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "cuerpo: %s", body)
		})
	}

	// Ninguna escritura rechazada tocó la factura.
	resp, body := doRequest(t, env.app, http.MethodGet, "/api/invoices/"+invA.ID, nil, root)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decodeJSON[dto.InvoiceResponse](t, body)
	assert.Len(t, got.AdditionalPayment, 1)
	assert.Equal(t, invA.Version, got.Version)
}

func TestScope_SuperAdminListadoGlobal(t *testing.T) {
	env := buildTestApp(t)
	createInvoice(t, env.app, login(t, env.app, "ventas@a.test"), "", 0)
	createInvoice(t, env.app, login(t, env.app, "ventas@b.test"), "", 0)
	root := login(t, env.app, "root@retail.test")

	resp, body := doRequest(t, env.app, http.MethodGet, "/api/invoices", nil, root)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.ElementsMatch(t, []string{env.tenantA, env.tenantB}, invoiceClients(decodeJSON[dto.InvoiceListResponse](t, body)))

	resp, body = doRequest(t, env.app, http.MethodGet, "/api/invoices?clientId="+env.tenantB, nil, root)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{env.tenantB}, invoiceClients(decodeJSON[dto.InvoiceListResponse](t, body)))

	resp, body = doRequest(t, env.app, http.MethodGet, "/api/dashboard/category-series", nil, root)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	series := decodeJSON[dto.CategorySeriesDTO](t, body)
	assert.Equal(t, "global", series.Scope)
	require.Len(t, series.Series, 1)
	assert.Equal(t, "ropa", series.Series[0].Category)
	assert.Equal(t, 2, series.Series[0].Invoices)
}

// ──────────────────────────────────────────────────────────────────────────────
// Super admin con override
// ──────────────────────────────────────────────────────────────────────────────

func TestScope_SuperAdminEscribeConOverride(t *testing.T) {
	env := buildTestApp(t)
	root := login(t, env.app, "root@retail.test")

	inv := createInvoice(t, env.app, root, env.tenantB, 0)
	assert.Equal(t, env.tenantB, inv.ClientID, "clientId del body manda")

	selected := &http.Cookie{Name: apphttp.CookieSelectedClient, Value: env.tenantA}
	resp, body := doRequest(t, env.app, http.MethodPost, "/api/invoices/"+inv.ID+"/payments",
		map[string]any{"amount": 100}, root, selected)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode, "con tenant A seleccionado la factura de B no existe: %s", body)

	resp, body = doRequest(t, env.app, http.MethodPost, "/api/invoices/"+inv.ID+"/payments",
		map[string]any{"amount": 100, "clientId": env.tenantB}, root, selected)
	require.Equal(t, http.StatusOK, resp.StatusCode, "el clientId explícito tiene prioridad sobre el cookie: %s", body)

	resp, body = doRequest(t, env.app, http.MethodPost, "/api/invoices", map[string]any{
		"customerName": "Y", "items": []map[string]any{{"description": "b", "quantity": 1, "unitPrice": 10}},
	}, root, selected)
	require.Equal(t, http.StatusCreated, resp.StatusCode, "cuerpo: %s", body)
	assert.Equal(t, env.tenantA, decodeJSON[dto.InvoiceResponse](t, body).ClientID, "sin clientId se usa el tenant seleccionado")
}

func TestScope_SuperAdminOverrideATenantInexistente(t *testing.T) {
	env := buildTestApp(t)
	root := login(t, env.app, "root@retail.test")
	const ghost = "tenant-que-no-existe"

	resp, body := doRequest(t, env.app, http.MethodPost, "/api/invoices", map[string]any{
		"clientId": ghost, "customerName": "Z",
		"items": []map[string]any{{"description": "c", "quantity": 1, "unitPrice": 10}},
	}, root)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode, "cuerpo: %s", body)
	assert.Equal(t, "NOT_FOUND", decodeJSON[dto.ErrorResponse](t, body).Code)

	resp, _ = doRequest(t, env.app, http.MethodGet, "/api/invoices?clientId="+ghost, nil, root)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	stale := &http.Cookie{Name: apphttp.CookieSelectedClient, Value: ghost}
	resp, _ = doRequest(t, env.app, http.MethodGet, "/api/dashboard/category-series", nil, root, stale)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode, "un cookie selectedClient obsoleto también se valida")

	// No se creó nada fuera de los tenants existentes.
	resp, body = doRequest(t, env.app, http.MethodGet, "/api/invoices", nil, root)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decodeJSON[dto.InvoiceListResponse](t, body).Items)
}

// ──────────────────────────────────────────────────────────────────────────────
// Usuario regular: el override se ignora
// ──────────────────────────────────────────────────────────────────────────────

func TestScope_UsuarioRegularIgnoraOverride(t *testing.T) {
	env := buildTestApp(t)
	salesA := login(t, env.app, "ventas@a.test")
	invB := createInvoice(t, env.app, login(t, env.app, "ventas@b.test"), "", 0)

	inv := createInvoice(t, env.app, salesA, env.tenantB, 0)
	assert.Equal(t, env.tenantA, inv.ClientID, "el clientId enviado por un usuario regular se ignora")

	resp, body := doRequest(t, env.app, http.MethodGet, "/api/invoices?clientId="+env.tenantB, nil, salesA)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{env.tenantA}, invoiceClients(decodeJSON[dto.InvoiceListResponse](t, body)))

	resp, _ = doRequest(t, env.app, http.MethodGet, "/api/invoices/"+invB.ID, nil, salesA)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode, "otra factura de otro tenant se reporta como inexistente")

	selected := &http.Cookie{Name: apphttp.CookieSelectedClient, Value: env.tenantB}
	resp, _ = doRequest(t, env.app, http.MethodPost, "/api/invoices/"+invB.ID+"/payments",
		map[string]any{"amount": 100, "clientId": env.tenantB}, salesA, selected)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body = doRequest(t, env.app, http.MethodGet, "/api/dashboard/category-series?clientId="+env.tenantB, nil, salesA)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, env.tenantA, decodeJSON[dto.CategorySeriesDTO](t, body).Scope)
}

func TestScope_ListadoDeUsuariosPorRol(t *testing.T) {
	env := buildTestApp(t)

	resp, _ := doRequest(t, env.app, http.MethodGet, "/api/users", nil, login(t, env.app, "ventas@a.test"))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body := doRequest(t, env.app, http.MethodGet, "/api/users", nil, login(t, env.app, "admin@a.test"))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decodeJSON[dto.UserListResponse](t, body)
	ids := make([]string, 0, len(list.Items))
	for _, u := range list.Items {
		ids = append(ids, u.ID)
	}
	assert.ElementsMatch(t, []string{env.adminAID, env.salesAID}, ids)

	resp, body = doRequest(t, env.app, http.MethodGet, "/api/users", nil, login(t, env.app, "root@retail.test"))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decodeJSON[dto.UserListResponse](t, body).Items, 4)
}

func TestScope_ClientsSoloSuperAdmin(t *testing.T) {
	env := buildTestApp(t)

	resp, _ := doRequest(t, env.app, http.MethodGet, "/api/clients", nil, login(t, env.app, "admin@a.test"))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	root := login(t, env.app, "root@retail.test")
	resp, body := doRequest(t, env.app, http.MethodPost, "/api/clients", dto.CreateClientRequest{Name: "Tienda C"}, root)
	require.Equal(t, http.StatusCreated, resp.StatusCode, "cuerpo: %s", body)

	resp, body = doRequest(t, env.app, http.MethodGet, "/api/clients", nil, root)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decodeJSON[dto.ClientListResponse](t, body).Items, 3)
}
