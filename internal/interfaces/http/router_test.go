package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pintureria-api/internal/bootstrap"
	apphttp "github.com/jhoicas/pintureria-api/internal/interfaces/http"
	"github.com/jhoicas/pintureria-api/pkg/config"
	"github.com/jhoicas/pintureria-api/pkg/logger"
)

type apiClient struct {
	t   *testing.T
	app *fiber.App
}

func newAPI(t *testing.T) *apiClient {
	t.Helper()
	cfg := &config.Config{
		App:   config.AppConfig{Env: "test", Name: "pintureria-test", StoreName: "Pinturería Test"},
		JWT:   config.JWTConfig{Secret: testJWTSecret, Expiration: testExpMin, Issuer: testIssuer},
		Sales: config.SalesConfig{OverdueAfterDays: 30},
	}
	log := logger.Nop()
	svc := bootstrap.NewServices(bootstrap.NewMemoryStorage(), cfg, log)

	app := fiber.New()
	app.Use(apphttp.RequestLogger(log))
	apphttp.Router(app, svc.RouterDeps())
	return &apiClient{t: t, app: app}
}

// do envía la petición y decodifica el cuerpo JSON en un mapa.
func (a *apiClient) do(method, path, token string, body any) (int, map[string]any) {
	a.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(a.t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(a.t, err)
	out := map[string]any{}
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(a.t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

// login registra un usuario con el rol dado y devuelve su token.
func (a *apiClient) login(email, role string) string {
	a.t.Helper()
	status, _ := a.do(http.MethodPost, "/api/auth/register", "", map[string]any{
		"email": email, "password": "secreto123", "role": role,
	})
	require.Equal(a.t, http.StatusCreated, status)
	status, body := a.do(http.MethodPost, "/api/auth/login", "", map[string]any{
		"email": email, "password": "secreto123",
	})
	require.Equal(a.t, http.StatusOK, status)
	return body["token"].(string)
}

func (a *apiClient) id(body map[string]any) string {
	a.t.Helper()
	id, ok := body["id"].(string)
	require.True(a.t, ok, "respuesta sin id: %v", body)
	return id
}

// seed crea un producto con 10 unidades y un cliente con cupo 100.
func (a *apiClient) seed(admin string) (productID, customerID string) {
	a.t.Helper()
	status, body := a.do(http.MethodPost, "/api/products", admin, map[string]any{
		"name": "Vinilo blanco", "selling_price": "20", "min_stock_level": 2,
	})
	require.Equal(a.t, http.StatusCreated, status, body)
	productID = a.id(body)

	status, body = a.do(http.MethodPost, "/api/inventory/intake", admin, map[string]any{
		"product_id": productID, "quantity": 10, "batch_number": "L-1", "expiry_date": "2027-01-31",
	})
	require.Equal(a.t, http.StatusCreated, status, body)

	status, body = a.do(http.MethodPost, "/api/customers", admin, map[string]any{
		"name": "Ferretería El Sol", "credit_limit": "100", "opening_debt": "30",
	})
	require.Equal(a.t, http.StatusCreated, status, body)
	return productID, a.id(body)
}

func saleBody(customerID, productID string, qty int, total, method, paid string) map[string]any {
	return map[string]any{
		"customer_id": customerID,
		"items": []map[string]any{{
			"product_id": productID, "quantity": qty, "unit_price": "20", "line_total": total,
		}},
		"subtotal":       total,
		"total":          total,
		"payment_method": method,
		"paid_amount":    paid,
	}
}

func TestAPI_VentaDeContadoCompleta(t *testing.T) {
	api := newAPI(t)
	admin := api.login("admin@pintureria.test", "admin")
	productID, customerID := api.seed(admin)

	status, body := api.do(http.MethodPost, "/api/sales", admin, saleBody(customerID, productID, 2, "40", "cash", "0"))
	require.Equal(t, http.StatusCreated, status, body)

	summary := body["payment_summary"].(map[string]any)
	assert.Equal(t, "70", summary["grand_total"])
	assert.Equal(t, "0", summary["final_debt"])

	sale := body["sale"].(map[string]any)
	invoice := body["invoice"].(map[string]any)
	assert.Equal(t, "paid", sale["payment_status"])
	assert.Equal(t, "INV-000001", sale["invoice_number"])

	status, body = api.do(http.MethodGet, "/api/customers/"+customerID, admin, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "0", body["current_debt"])

	status, body = api.do(http.MethodGet, "/api/products/"+productID+"/stock", admin, nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 8, body["available"])

	status, body = api.do(http.MethodGet, "/api/sales/"+sale["id"].(string), admin, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, invoice["id"], body["invoice"].(map[string]any)["id"])

	req := httptest.NewRequest(http.MethodGet, "/api/invoices/"+invoice["id"].(string)+"/pdf", nil)
	req.Header.Set("Authorization", "Bearer "+admin)
	resp, err := api.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	pdf, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))
}

func TestAPI_CreditoExcedido_DevuelveDetalles(t *testing.T) {
	api := newAPI(t)
	admin := api.login("admin@pintureria.test", "admin")
	productID, customerID := api.seed(admin)

	status, body := api.do(http.MethodPost, "/api/sales", admin, saleBody(customerID, productID, 5, "100", "credit", "0"))
	require.Equal(t, http.StatusUnprocessableEntity, status, body)
	assert.Equal(t, "CREDIT_LIMIT_EXCEEDED", body["code"])
	details := body["details"].(map[string]any)
	assert.Equal(t, "70", details["available"])
	assert.Equal(t, "100", details["requested"])

	_, body = api.do(http.MethodGet, "/api/products/"+productID+"/stock", admin, nil)
	assert.EqualValues(t, 10, body["available"], "un rechazo no descuenta stock")
}

func TestAPI_StockInsuficiente_DevuelveDetalles(t *testing.T) {
	api := newAPI(t)
	admin := api.login("admin@pintureria.test", "admin")
	productID, customerID := api.seed(admin)

	status, body := api.do(http.MethodPost, "/api/sales", admin, saleBody(customerID, productID, 11, "220", "cash", "0"))
	require.Equal(t, http.StatusConflict, status, body)
	assert.Equal(t, "INSUFFICIENT_STOCK", body["code"])
	details := body["details"].(map[string]any)
	assert.Equal(t, productID, details["product_id"])
	assert.EqualValues(t, 10, details["available"])
	assert.EqualValues(t, 11, details["requested"])
}

func TestAPI_Validacion_IndicaCampo(t *testing.T) {
	api := newAPI(t)
	admin := api.login("admin@pintureria.test", "admin")
	productID, customerID := api.seed(admin)

	status, body := api.do(http.MethodPost, "/api/sales", admin, saleBody(customerID, productID, 0, "0", "cash", "0"))
	require.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", body["code"])
	assert.Equal(t, "items[0].quantity", body["details"].(map[string]any)["field"])
}

func TestAPI_RecursoInexistente_404(t *testing.T) {
	api := newAPI(t)
	admin := api.login("admin@pintureria.test", "admin")

	status, body := api.do(http.MethodGet, "/api/sales/no-existe", admin, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", body["code"])
}

func TestAPI_Roles(t *testing.T) {
	api := newAPI(t)
	admin := api.login("admin@pintureria.test", "admin")
	vendedor := api.login("ventas@pintureria.test", "vendedor")
	bodeguero := api.login("bodega@pintureria.test", "bodeguero")
	productID, customerID := api.seed(admin)

	status, body := api.do(http.MethodPost, "/api/sales", vendedor, saleBody(customerID, productID, 1, "20", "cash", "0"))
	require.Equal(t, http.StatusCreated, status, body)
	saleID := body["sale"].(map[string]any)["id"].(string)

	status, _ = api.do(http.MethodPost, "/api/sales/"+saleID+"/cancel", vendedor, nil)
	assert.Equal(t, http.StatusForbidden, status, "solo admin anula ventas")

	status, _ = api.do(http.MethodPost, "/api/sales", bodeguero, saleBody(customerID, productID, 1, "20", "cash", "0"))
	assert.Equal(t, http.StatusForbidden, status, "bodeguero no vende")

	status, _ = api.do(http.MethodPost, "/api/inventory/intake", vendedor, map[string]any{
		"product_id": productID, "quantity": 1, "batch_number": "L-2",
	})
	assert.Equal(t, http.StatusForbidden, status, "vendedor no recibe mercancía")

	status, body = api.do(http.MethodPost, "/api/sales/"+saleID+"/cancel", admin, nil)
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, "cancelled", body["sale"].(map[string]any)["payment_status"])

	status, body = api.do(http.MethodPost, "/api/sales/"+saleID+"/cancel", admin, nil)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "CONFLICT", body["code"])
}

func TestAPI_PagoYLedger(t *testing.T) {
	api := newAPI(t)
	admin := api.login("admin@pintureria.test", "admin")
	_, customerID := api.seed(admin)

	status, body := api.do(http.MethodPost, "/api/payments", admin, map[string]any{
		"customer_id": customerID, "amount": "10", "method": "cash",
	})
	require.Equal(t, http.StatusCreated, status, body)
	assert.Equal(t, "20", body["balance_after"])

	req := httptest.NewRequest(http.MethodGet, "/api/customers/"+customerID+"/ledger", nil)
	req.Header.Set("Authorization", "Bearer "+admin)
	resp, err := api.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	var entries []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&entries))
	require.Len(t, entries, 2)
	assert.Equal(t, "payment", entries[0]["reason"])
	assert.Equal(t, "opening_balance", entries[1]["reason"])

	status, body = api.do(http.MethodPost, "/api/customers/"+customerID+"/ledger/reconcile", admin, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "0", body["drift"])
}

func TestAPI_Me(t *testing.T) {
	api := newAPI(t)
	token := api.login("bodega@pintureria.test", "bodeguero")

	status, body := api.do(http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "bodega@pintureria.test", body["email"])
	assert.Equal(t, "bodeguero", body["role"])

	status, body = api.do(http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "MISSING_TOKEN", body["code"])
}

func TestAPI_EmailDuplicado(t *testing.T) {
	api := newAPI(t)
	api.login("admin@pintureria.test", "admin")

	status, body := api.do(http.MethodPost, "/api/auth/register", "", map[string]any{
		"email": "ADMIN@pintureria.test", "password": "otraclave1",
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "EMAIL_EXISTS", body["code"])
}
