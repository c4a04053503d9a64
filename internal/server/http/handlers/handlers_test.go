package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/tomasvalko/minimart/internal/domain/errors"
	"github.com/tomasvalko/minimart/internal/domain/model"
	pkgAuth "github.com/tomasvalko/minimart/internal/pkg/auth"
	"github.com/tomasvalko/minimart/internal/server/http/dto"
	"github.com/tomasvalko/minimart/internal/server/http/middleware"
	testhelpers "github.com/tomasvalko/minimart/internal/test"
	"github.com/tomasvalko/minimart/internal/usecase"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func performRequest(router *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func withClaims(claims pkgAuth.Claims) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ClaimsContextKey, claims)
		c.Next()
	}
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return out
}

func TestAuthHandlerRegister(t *testing.T) {
	cases := []struct {
		name       string
		body       string
		registerFn func(context.Context, string, string) (*model.User, error)
		wantStatus int
	}{
		{
			name:       "success",
			body:       `{"username":"alice","password":"secret"}`,
			wantStatus: http.StatusOK,
		},
		{
			name:       "missing fields",
			body:       `{"username":"alice"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "malformed json",
			body:       `{`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "duplicate username",
			body: `{"username":"alice","password":"secret"}`,
			registerFn: func(context.Context, string, string) (*model.User, error) {
				return nil, domainErrors.ErrAlreadyExists
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "storage failure",
			body: `{"username":"alice","password":"secret"}`,
			registerFn: func(context.Context, string, string) (*model.User, error) {
				return nil, context.DeadlineExceeded
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			handler := NewAuthHandler(testhelpers.AuthFacadeStub{RegisterFn: tc.registerFn})
			router := gin.New()
			router.POST("/api/v1/user/add", handler.Register)

			w := performRequest(router, http.MethodPost, "/api/v1/user/add", tc.body)
			if w.Code != tc.wantStatus {
				t.Fatalf("expected %d, got %d: %s", tc.wantStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestAuthHandlerLoginSetsCookie(t *testing.T) {
	handler := NewAuthHandler(testhelpers.AuthFacadeStub{})
	router := gin.New()
	router.POST("/api/v1/user/login", handler.Login)

	w := performRequest(router, http.MethodPost, "/api/v1/user/login", `{"username":"alice","password":"secret"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	cookies := w.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != "access_token" || cookies[0].Value != "session-token" {
		t.Fatalf("unexpected cookies: %+v", cookies)
	}
	if got := w.Header().Get("Authorization"); got != "Bearer session-token" {
		t.Fatalf("unexpected Authorization header %q", got)
	}
}

func TestAuthHandlerLoginRejectsBadCredentials(t *testing.T) {
	handler := NewAuthHandler(testhelpers.AuthFacadeStub{
		AuthenticateFn: func(context.Context, string, string) (string, error) {
			return "", domainErrors.ErrInvalidCredentials
		},
	})
	router := gin.New()
	router.POST("/api/v1/user/login", handler.Login)

	w := performRequest(router, http.MethodPost, "/api/v1/user/login", `{"username":"alice","password":"wrong"}`)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	if len(w.Result().Cookies()) != 0 {
		t.Fatal("no cookie may be set on failed login")
	}
}

func TestAuthHandlerLogoutClearsCookie(t *testing.T) {
	handler := NewAuthHandler(testhelpers.AuthFacadeStub{})
	router := gin.New()
	router.POST("/api/v1/user/logout", handler.Logout)

	w := performRequest(router, http.MethodPost, "/api/v1/user/logout", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	cookies := w.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Value != "" || cookies[0].MaxAge >= 0 {
		t.Fatalf("expected expired cookie, got %+v", cookies)
	}
}

func TestAuthHandlerWhoami(t *testing.T) {
	handler := NewAuthHandler(testhelpers.AuthFacadeStub{})
	router := gin.New()
	router.GET("/api/v1/user/whoami", withClaims(pkgAuth.Claims{UserID: 7, Username: "alice"}), handler.Whoami)

	w := performRequest(router, http.MethodGet, "/api/v1/user/whoami", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	resp := decodeBody[dto.WhoamiResponse](t, w)
	if resp.Username != "alice" {
		t.Fatalf("unexpected whoami body: %+v", resp)
	}
}

func TestUserHandlerGetOne(t *testing.T) {
	handler := NewUserHandler(testhelpers.UserAdminFacadeStub{
		UserFn: func(_ context.Context, username string) (*model.User, error) {
			if username != "alice" {
				return nil, domainErrors.ErrNotFound
			}
			return &model.User{ID: 7, Username: "alice"}, nil
		},
	})
	router := gin.New()
	router.GET("/api/v1/user/getone", handler.GetOne)

	w := performRequest(router, http.MethodGet, "/api/v1/user/getone?username=alice", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	resp := decodeBody[dto.UserResponse](t, w)
	if resp.ID != 7 || resp.Username != "alice" {
		t.Fatalf("unexpected body: %+v", resp)
	}

	if w := performRequest(router, http.MethodGet, "/api/v1/user/getone?username=ghost", ""); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	if w := performRequest(router, http.MethodGet, "/api/v1/user/getone", ""); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without username, got %d", w.Code)
	}
}

func TestUserHandlerGetAll(t *testing.T) {
	handler := NewUserHandler(testhelpers.UserAdminFacadeStub{
		UsersFn: func(context.Context) ([]model.User, error) {
			return []model.User{{ID: 1, Username: "alice"}, {ID: 2, Username: "bob"}}, nil
		},
	})
	router := gin.New()
	router.GET("/api/v1/user/getall", handler.GetAll)

	w := performRequest(router, http.MethodGet, "/api/v1/user/getall", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	resp := decodeBody[[]dto.UserResponse](t, w)
	if len(resp) != 2 {
		t.Fatalf("expected 2 users, got %+v", resp)
	}
}

func TestUserHandlerUpdate(t *testing.T) {
	handler := NewUserHandler(testhelpers.UserAdminFacadeStub{
		UpdateFn: func(_ context.Context, id int64, username, password *string) (*model.User, error) {
			if id != 7 {
				return nil, domainErrors.ErrNotFound
			}
			name := "alice"
			if username != nil {
				name = *username
			}
			return &model.User{ID: id, Username: name}, nil
		},
	})
	router := gin.New()
	router.PUT("/api/v1/user/update/:id", handler.Update)

	w := performRequest(router, http.MethodPut, "/api/v1/user/update/7", `{"username":"alicia"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := decodeBody[dto.UserResponse](t, w)
	if resp.Username != "alicia" {
		t.Fatalf("unexpected body: %+v", resp)
	}

	if w := performRequest(router, http.MethodPut, "/api/v1/user/update/999", `{"username":"x"}`); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	if w := performRequest(router, http.MethodPut, "/api/v1/user/update/abc", `{"username":"x"}`); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad id, got %d", w.Code)
	}
}

func TestUserHandlerDelete(t *testing.T) {
	handler := NewUserHandler(testhelpers.UserAdminFacadeStub{
		DeleteFn: func(_ context.Context, username string) error {
			if username != "alice" {
				return domainErrors.ErrNotFound
			}
			return nil
		},
	})
	router := gin.New()
	router.DELETE("/api/v1/user/delete", handler.Delete)

	if w := performRequest(router, http.MethodDelete, "/api/v1/user/delete?username=alice", ""); w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w := performRequest(router, http.MethodDelete, "/api/v1/user/delete?username=ghost", ""); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	if w := performRequest(router, http.MethodDelete, "/api/v1/user/delete", ""); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without username, got %d", w.Code)
	}
}

func TestStockHandlerGetOne(t *testing.T) {
	handler := NewStockHandler(testhelpers.StockFacadeStub{
		ItemFn: func(_ context.Context, id int64) (*model.StockItem, error) {
			if id != 3 {
				return nil, domainErrors.ErrNotFound
			}
			return &model.StockItem{ID: 3, Category: "fruit", Name: "apple", Amount: 10}, nil
		},
	})
	router := gin.New()
	router.GET("/api/v1/stock/one/:id", handler.GetOne)

	w := performRequest(router, http.MethodGet, "/api/v1/stock/one/3", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	resp := decodeBody[dto.StockItemResponse](t, w)
	if resp.Name != "apple" || resp.Amount != 10 {
		t.Fatalf("unexpected body: %+v", resp)
	}

	if w := performRequest(router, http.MethodGet, "/api/v1/stock/one/999", ""); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	if w := performRequest(router, http.MethodGet, "/api/v1/stock/one/abc", ""); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestStockHandlerListings(t *testing.T) {
	handler := NewStockHandler(testhelpers.StockFacadeStub{
		ByCatFn: func(_ context.Context, category string) ([]model.StockItem, error) {
			if category != "fruit" {
				return nil, nil
			}
			return []model.StockItem{{ID: 1, Category: "fruit", Name: "apple", Amount: 10}}, nil
		},
		ItemsFn: func(context.Context) ([]model.StockItem, error) { return nil, nil },
	})
	router := gin.New()
	router.GET("/api/v1/stock", handler.ByCategory)
	router.GET("/api/v1/stock/all", handler.All)

	if w := performRequest(router, http.MethodGet, "/api/v1/stock?category=fruit", ""); w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w := performRequest(router, http.MethodGet, "/api/v1/stock?category=empty", ""); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for empty category, got %d", w.Code)
	}
	if w := performRequest(router, http.MethodGet, "/api/v1/stock", ""); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without category, got %d", w.Code)
	}
	if w := performRequest(router, http.MethodGet, "/api/v1/stock/all", ""); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for empty inventory, got %d", w.Code)
	}
}

func TestStockHandlerCheck(t *testing.T) {
	handler := NewStockHandler(testhelpers.StockFacadeStub{
		CheckFn: func(_ context.Context, items []model.LineItem) (*model.StockCheck, error) {
			return &model.StockCheck{
				Available: false,
				Missing:   []model.MissingItem{{ID: items[0].ID, Requested: items[0].Amount, Available: 1}},
			}, nil
		},
	})
	router := gin.New()
	router.POST("/api/v1/stock/check", handler.Check)

	w := performRequest(router, http.MethodPost, "/api/v1/stock/check", `{"items":[{"id":3,"amount":5}]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := decodeBody[dto.CheckResponse](t, w)
	if resp.Available || len(resp.Missing) != 1 || resp.Missing[0].ID != 3 {
		t.Fatalf("unexpected body: %+v", resp)
	}
}

func TestStockHandlerCheckAcceptsItemIDAlias(t *testing.T) {
	var got []model.LineItem
	handler := NewStockHandler(testhelpers.StockFacadeStub{
		CheckFn: func(_ context.Context, items []model.LineItem) (*model.StockCheck, error) {
			got = items
			return &model.StockCheck{Available: true, Missing: []model.MissingItem{}}, nil
		},
	})
	router := gin.New()
	router.POST("/api/v1/stock/check", handler.Check)

	w := performRequest(router, http.MethodPost, "/api/v1/stock/check", `{"items":[{"item_id":9,"amount":2}]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if len(got) != 1 || got[0].ID != 9 || got[0].Amount != 2 {
		t.Fatalf("item_id alias not resolved: %+v", got)
	}
}

func TestStockHandlerDecrease(t *testing.T) {
	handler := NewStockHandler(testhelpers.StockFacadeStub{
		DecreaseFn: func(_ context.Context, items []model.LineItem) (*model.StockDecrement, error) {
			return &model.StockDecrement{Success: false, Decreased: []int64{1}, NotFound: []int64{2}}, nil
		},
	})
	router := gin.New()
	router.POST("/api/v1/stock/decrease", handler.Decrease)

	// Partial failure still answers 200 with a structured report.
	w := performRequest(router, http.MethodPost, "/api/v1/stock/decrease", `{"items":[{"id":1,"amount":1},{"id":2,"amount":1}]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	resp := decodeBody[dto.DecreaseResponse](t, w)
	if resp.Success || len(resp.Decreased) != 1 || len(resp.NotFound) != 1 {
		t.Fatalf("unexpected body: %+v", resp)
	}
	if !strings.Contains(w.Body.String(), `"not_found"`) {
		t.Fatalf("response must use not_found key: %s", w.Body.String())
	}
}

func TestStockHandlerRejectsInvalidItems(t *testing.T) {
	handler := NewStockHandler(testhelpers.StockFacadeStub{
		CheckFn: func(context.Context, []model.LineItem) (*model.StockCheck, error) {
			return nil, domainErrors.ErrInvalidItems
		},
		DecreaseFn: func(context.Context, []model.LineItem) (*model.StockDecrement, error) {
			return nil, domainErrors.ErrInvalidItems
		},
	})
	router := gin.New()
	router.POST("/api/v1/stock/check", handler.Check)
	router.POST("/api/v1/stock/decrease", handler.Decrease)

	for _, target := range []string{"/api/v1/stock/check", "/api/v1/stock/decrease"} {
		if w := performRequest(router, http.MethodPost, target, `{"items":[{"id":1,"amount":0}]}`); w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 on %s, got %d", target, w.Code)
		}
		if w := performRequest(router, http.MethodPost, target, `{}`); w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 on %s without items, got %d", target, w.Code)
		}
	}
}

func TestStockHandlerCreateAndReplace(t *testing.T) {
	handler := NewStockHandler(testhelpers.StockFacadeStub{
		ReplaceFn: func(_ context.Context, item model.StockItem) (*model.StockItem, error) {
			if item.ID == 999 {
				return nil, domainErrors.ErrNotFound
			}
			return &item, nil
		},
	})
	router := gin.New()
	router.POST("/api/v1/stock/create", handler.Create)
	router.POST("/api/v1/stock/increase-one", handler.ReplaceOne)

	w := performRequest(router, http.MethodPost, "/api/v1/stock/create", `{"category":"fruit","name":"apple","amount":5}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if w := performRequest(router, http.MethodPost, "/api/v1/stock/create", `{"name":"apple"}`); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing category, got %d", w.Code)
	}

	w = performRequest(router, http.MethodPost, "/api/v1/stock/increase-one", `{"id":3,"category":"fruit","name":"apple","amount":7}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := decodeBody[dto.StockItemResponse](t, w)
	if resp.ID != 3 || resp.Amount != 7 {
		t.Fatalf("unexpected body: %+v", resp)
	}
	if w := performRequest(router, http.MethodPost, "/api/v1/stock/increase-one", `{"id":999,"category":"fruit","name":"apple","amount":7}`); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestOrderHandlerPlaceCreated(t *testing.T) {
	facade := &testhelpers.OrderFacadeStub{
		PlaceFn: func(_ context.Context, userID int64, username string, items []model.LineItem) (*usecase.Placement, error) {
			return &usecase.Placement{Order: &model.Order{ID: 15, UserID: userID, Username: username, Items: items, Status: model.OrderStatusCreated}}, nil
		},
	}
	handler := NewOrderHandler(facade)
	router := gin.New()
	router.POST("/api/v1/order", withClaims(pkgAuth.Claims{UserID: 7, Username: "alice"}), handler.Place)

	w := performRequest(router, http.MethodPost, "/api/v1/order", `{"items":[{"id":1,"amount":2}]}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	resp := decodeBody[dto.PlacementResponse](t, w)
	if resp.OrderID != 15 || resp.UserID != 7 || resp.Username != "alice" {
		t.Fatalf("unexpected body: %+v", resp)
	}
}

func TestOrderHandlerPlaceShortfall(t *testing.T) {
	facade := &testhelpers.OrderFacadeStub{
		PlaceFn: func(context.Context, int64, string, []model.LineItem) (*usecase.Placement, error) {
			return &usecase.Placement{Missing: []model.MissingItem{{ID: 1, Requested: 5, Available: 2}}}, nil
		},
	}
	handler := NewOrderHandler(facade)
	router := gin.New()
	router.POST("/api/v1/order", withClaims(pkgAuth.Claims{UserID: 7, Username: "alice"}), handler.Place)

	w := performRequest(router, http.MethodPost, "/api/v1/order", `{"items":[{"id":1,"amount":5}]}`)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", w.Code)
	}
	resp := decodeBody[dto.CheckResponse](t, w)
	if resp.Available || len(resp.Missing) != 1 || resp.Missing[0].Requested != 5 {
		t.Fatalf("unexpected body: %+v", resp)
	}
}

func TestOrderHandlerPlaceErrorMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "invalid items", err: domainErrors.ErrInvalidItems, wantStatus: http.StatusBadRequest},
		{name: "decrement rejected", err: domainErrors.ErrDecrementFailed, wantStatus: http.StatusConflict},
		{name: "stock unreachable", err: domainErrors.ErrStockUnavailable, wantStatus: http.StatusBadGateway},
		{name: "storage failure", err: context.DeadlineExceeded, wantStatus: http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			facade := &testhelpers.OrderFacadeStub{
				PlaceFn: func(context.Context, int64, string, []model.LineItem) (*usecase.Placement, error) {
					return nil, tc.err
				},
			}
			handler := NewOrderHandler(facade)
			router := gin.New()
			router.POST("/api/v1/order", withClaims(pkgAuth.Claims{UserID: 7, Username: "alice"}), handler.Place)

			w := performRequest(router, http.MethodPost, "/api/v1/order", `{"items":[{"id":1,"amount":1}]}`)
			if w.Code != tc.wantStatus {
				t.Fatalf("expected %d, got %d: %s", tc.wantStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestOrderHandlerListMine(t *testing.T) {
	facade := &testhelpers.OrderFacadeStub{
		OrdersFn: func(_ context.Context, userID int64) ([]model.Order, error) {
			return []model.Order{{ID: 1, UserID: userID, Username: "alice", Items: []model.LineItem{{ID: 2, Amount: 3}}, Status: model.OrderStatusCreated}}, nil
		},
	}
	handler := NewOrderHandler(facade)
	router := gin.New()
	router.GET("/api/v1/order/me", withClaims(pkgAuth.Claims{UserID: 7, Username: "alice"}), handler.ListMine)

	w := performRequest(router, http.MethodGet, "/api/v1/order/me", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	resp := decodeBody[[]dto.OrderResponse](t, w)
	if len(resp) != 1 || resp[0].UserID != 7 || len(resp[0].Items) != 1 {
		t.Fatalf("unexpected body: %+v", resp)
	}
}

func TestOrderHandlerGetByID(t *testing.T) {
	facade := &testhelpers.OrderFacadeStub{
		OrderFn: func(_ context.Context, orderID int64) (*model.Order, error) {
			if orderID != 15 {
				return nil, domainErrors.ErrNotFound
			}
			return &model.Order{ID: 15, UserID: 7, Username: "alice", Status: model.OrderStatusCreated}, nil
		},
	}
	handler := NewOrderHandler(facade)
	router := gin.New()
	router.GET("/api/v1/order/:id", handler.GetByID)

	if w := performRequest(router, http.MethodGet, "/api/v1/order/15", ""); w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w := performRequest(router, http.MethodGet, "/api/v1/order/999", ""); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	if w := performRequest(router, http.MethodGet, "/api/v1/order/abc", ""); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}
