package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/wrapntrack/wrapntrack-backend/internal/accounts"
	"github.com/wrapntrack/wrapntrack-backend/internal/inventory"
	"github.com/wrapntrack/wrapntrack-backend/internal/orders"
	pkgauth "github.com/wrapntrack/wrapntrack-backend/pkg/auth"
	"github.com/wrapntrack/wrapntrack-backend/pkg/config"
	"github.com/wrapntrack/wrapntrack-backend/pkg/enums"
)

type stubAccountsService struct {
	loginResult *accounts.LoginResponse
	loginErr    error
}

func (s *stubAccountsService) Register(context.Context, accounts.RegisterRequest) (*accounts.RegisterResponse, error) {
	return &accounts.RegisterResponse{EmailSent: true}, nil
}

func (s *stubAccountsService) VerifyCode(context.Context, accounts.VerifyRequest) error { return nil }

func (s *stubAccountsService) ResendCode(context.Context, accounts.ResendRequest) (bool, error) {
	return true, nil
}

func (s *stubAccountsService) Login(context.Context, accounts.LoginRequest) (*accounts.LoginResponse, error) {
	return s.loginResult, s.loginErr
}

func (s *stubAccountsService) ForgotPassword(context.Context, accounts.ForgotPasswordRequest) (bool, error) {
	return true, nil
}

func (s *stubAccountsService) ResetPassword(context.Context, accounts.ResetPasswordRequest) error {
	return nil
}

func (s *stubAccountsService) ChangeEmail(context.Context, uuid.UUID, accounts.ChangeEmailRequest) (bool, error) {
	return true, nil
}

func (s *stubAccountsService) GetByID(context.Context, uuid.UUID) (*accounts.AccountDTO, error) {
	return &accounts.AccountDTO{}, nil
}

type stubOrdersService struct {
	listed []orders.OrderDTO
}

func (s *stubOrdersService) CreateOrder(_ context.Context, req orders.CreateOrderRequest) (*orders.OrderDTO, error) {
	return &orders.OrderDTO{ID: "WNT-1", CustomerName: req.CustomerName}, nil
}

func (s *stubOrdersService) UpdateOrder(_ context.Context, orderID string, _ orders.UpdateOrderRequest) (*orders.OrderDTO, error) {
	return &orders.OrderDTO{ID: orderID}, nil
}

func (s *stubOrdersService) GetOrder(_ context.Context, orderID string) (*orders.OrderDTO, error) {
	return &orders.OrderDTO{ID: orderID}, nil
}

func (s *stubOrdersService) ListOrders(context.Context) ([]orders.OrderDTO, error) {
	return s.listed, nil
}

type stubInventoryService struct {
	page *inventory.ListResponse
}

func (s *stubInventoryService) CreateItem(context.Context, inventory.CreateItemRequest) (*inventory.ItemDTO, error) {
	return &inventory.ItemDTO{}, nil
}

func (s *stubInventoryService) GetItem(context.Context, uuid.UUID) (*inventory.ItemDTO, error) {
	return &inventory.ItemDTO{}, nil
}

func (s *stubInventoryService) UpdateItem(context.Context, uuid.UUID, inventory.UpdateItemRequest) (*inventory.ItemDTO, error) {
	return &inventory.ItemDTO{}, nil
}

func (s *stubInventoryService) ArchiveItem(context.Context, uuid.UUID) error { return nil }

func (s *stubInventoryService) RestoreItem(context.Context, uuid.UUID) error { return nil }

func (s *stubInventoryService) ListItems(context.Context, inventory.ListRequest) (*inventory.ListResponse, error) {
	if s.page != nil {
		return s.page, nil
	}
	return &inventory.ListResponse{Items: []inventory.ItemDTO{}}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{Secret: "router-secret", Issuer: "wrapntrack-test", ExpirationMinutes: 60},
	}
}

func testRouter(ordersSvc orders.Service) http.Handler {
	return NewRouter(Deps{
		Config:    testConfig(),
		Accounts:  &stubAccountsService{},
		Inventory: &stubInventoryService{},
		Orders:    ordersSvc,
	})
}

func bearerToken(t *testing.T, cfg *config.Config, verified bool) string {
	t.Helper()
	token, err := pkgauth.MintAccessToken(cfg.JWT, time.Now(), pkgauth.AccessTokenPayload{
		AccountID: uuid.New(),
		Role:      enums.AccountRoleUser,
		Verified:  verified,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestHealthLive(t *testing.T) {
	router := testRouter(&stubOrdersService{})

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if resp.Header().Get("X-WNT-Env") != "test" {
		t.Fatalf("expected env header, got %q", resp.Header().Get("X-WNT-Env"))
	}

	var payload struct {
		Success bool `json:"success"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if !payload.Success {
		t.Fatalf("expected success envelope")
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	router := testRouter(&stubOrdersService{})

	for _, path := range []string{"/api/orders", "/api/inventory", "/api/suppliers", "/api/inventory/reports/summary"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401 got %d", path, resp.Code)
		}
	}
}

func TestOrderListWithToken(t *testing.T) {
	router := testRouter(&stubOrdersService{listed: []orders.OrderDTO{{ID: "WNT-7", CustomerName: "Maria"}}})

	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	req.Header.Set("Authorization", "Bearer "+bearerToken(t, testConfig(), true))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if !strings.Contains(resp.Body.String(), "WNT-7") {
		t.Fatalf("expected listed order in body: %s", resp.Body.String())
	}
}

func TestOrderCreateRequiresVerifiedAccount(t *testing.T) {
	router := testRouter(&stubOrdersService{})

	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(`{}`))
	req.Header.Set("Authorization", "Bearer "+bearerToken(t, testConfig(), false))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}

	var payload struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if payload.Error.Code != "NOT_VERIFIED" {
		t.Fatalf("expected NOT_VERIFIED got %s", payload.Error.Code)
	}
}

func TestPublicCatalogNeedsNoToken(t *testing.T) {
	router := testRouter(&stubOrdersService{})

	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestRegisterRejectsMalformedBody(t *testing.T) {
	router := testRouter(&stubOrdersService{})

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(`{"email":`))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestUnknownRouteReturns404(t *testing.T) {
	router := testRouter(&stubOrdersService{})

	req := httptest.NewRequest(http.MethodGet, "/api/nope", nil)
	req.Header.Set("Authorization", "Bearer "+bearerToken(t, testConfig(), true))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}
