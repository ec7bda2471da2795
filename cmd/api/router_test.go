package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rafabene/marketplace-backend/internal/app"
	"github.com/rafabene/marketplace-backend/internal/handlers/dto"
	"github.com/rafabene/marketplace-backend/internal/handlers/middleware"
	"github.com/rafabene/marketplace-backend/internal/infrastructure/config"
	"github.com/rafabene/marketplace-backend/internal/infrastructure/logging"
	"github.com/rafabene/marketplace-backend/internal/testutil"
)

const routerTestSecret = "router-test-secret"

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	t.Setenv("ENV", "test")
	t.Setenv("AUTH_JWT_SECRET", routerTestSecret)
	t.Setenv("API_BASE_URL", "http://api.test")
	t.Setenv("STORAGE_LOCAL_DIR", t.TempDir())

	cfg, err := config.Load()
	require.NoError(t, err)

	application, err := app.NewWithDB(context.Background(), cfg, logging.NewNopLogger(), testutil.NewSQLiteDB(t))
	require.NoError(t, err)
	return newRouter(cfg, application)
}

func bearer(t *testing.T, subject string) string {
	t.Helper()
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, middleware.Claims{
		Email: subject + "@example.com",
		Name:  subject,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte(routerTestSecret))
	require.NoError(t, err)
	return "Bearer " + raw
}

func do(router http.Handler, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRouter_Health(t *testing.T) {
	router := newTestRouter(t)

	w := do(router, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","env":"test"}`, w.Body.String())
}

func TestRouter_GuestShoppingFlow(t *testing.T) {
	router := newTestRouter(t)
	seller := bearer(t, "bbbbbbbb-0000-0000-0000-000000000001")

	// vendedor publica um produto
	w := do(router, http.MethodPost, "/api/v1/products",
		`{"title":"Vintage Camera","category":"photo","price":"2500.00","stock":2}`,
		map[string]string{"Authorization": seller})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var product dto.ProductResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &product))
	assert.Equal(t, "THB", product.Currency)

	t.Run("busca pública com a linguagem de consulta", func(t *testing.T) {
		w := do(router, http.MethodGet, "/api/v1/products?q=camera+category:photo+price%3C3000", "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var page dto.ProductListResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
		require.Len(t, page.Data, 1)
		assert.Equal(t, product.ID, page.Data[0].ID)

		w = do(router, http.MethodGet, "/api/v1/products?q=price%3C100", "", nil)
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
		assert.Empty(t, page.Data)
	})

	t.Run("consulta malformada vira 400", func(t *testing.T) {
		w := do(router, http.MethodGet, "/api/v1/products?q=price%3Cabc", "", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))
	})

	t.Run("visitante monta o carrinho com o token opaco", func(t *testing.T) {
		w := do(router, http.MethodPost, "/api/v1/cart", "", nil)
		require.Equal(t, http.StatusCreated, w.Code)
		var guest dto.GuestCartResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &guest))
		require.NotEmpty(t, guest.Token)

		headers := map[string]string{middleware.CartTokenHeader: guest.Token}
		w = do(router, http.MethodPost, "/api/v1/cart/items",
			`{"entity_type":"product","entity_id":"`+product.ID+`","quantity":2}`, headers)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var cart dto.CartResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cart))
		assert.Equal(t, "5000.00", cart.Subtotal)
		assert.Equal(t, "THB", cart.Currency)

		w = do(router, http.MethodPost, "/api/v1/cart/items",
			`{"entity_type":"product","entity_id":"`+product.ID+`","quantity":1}`, headers)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("token de carrinho desconhecido", func(t *testing.T) {
		w := do(router, http.MethodGet, "/api/v1/cart", "", map[string]string{middleware.CartTokenHeader: "unknown"})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("checkout exige autenticação", func(t *testing.T) {
		w := do(router, http.MethodPost, "/api/v1/checkout", `{"card_token":"tokn_test"}`, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("checkout sem gateway configurado", func(t *testing.T) {
		buyer := map[string]string{"Authorization": bearer(t, "bbbbbbbb-0000-0000-0000-000000000002")}
		w := do(router, http.MethodPost, "/api/v1/cart/items",
			`{"entity_type":"product","entity_id":"`+product.ID+`","quantity":1}`, buyer)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		w = do(router, http.MethodPost, "/api/v1/checkout", `{"card_token":"tokn_test"}`, buyer)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestRouter_DraftListingsStayPrivate(t *testing.T) {
	router := newTestRouter(t)
	sellerID := "bbbbbbbb-0000-0000-0000-000000000010"
	seller := map[string]string{"Authorization": bearer(t, sellerID)}
	other := map[string]string{"Authorization": bearer(t, "bbbbbbbb-0000-0000-0000-000000000011")}

	w := do(router, http.MethodPost, "/api/v1/products",
		`{"title":"Secret Prototype","category":"gadgets","price":"99.00","stock":1,"status":"draft"}`, seller)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var draft dto.ProductResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &draft))

	list := func(query string, headers map[string]string) (int, dto.ProductListResponse) {
		w := do(router, http.MethodGet, "/api/v1/products"+query, "", headers)
		var page dto.ProductListResponse
		if w.Code == http.StatusOK {
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
		}
		return w.Code, page
	}

	t.Run("visitante não lista rascunhos", func(t *testing.T) {
		code, page := list("", nil)
		require.Equal(t, http.StatusOK, code)
		assert.Empty(t, page.Data)

		code, _ = list("?status=draft", nil)
		assert.Equal(t, http.StatusForbidden, code)
		code, _ = list("?q=status:draft", nil)
		assert.Equal(t, http.StatusForbidden, code)

		code, page = list("?seller_id="+sellerID, nil)
		require.Equal(t, http.StatusOK, code)
		assert.Empty(t, page.Data)
	})

	t.Run("outro usuário também não", func(t *testing.T) {
		code, _ := list("?seller_id="+sellerID+"&status=draft", other)
		assert.Equal(t, http.StatusForbidden, code)

		w := do(router, http.MethodGet, "/api/v1/products/"+draft.ID, "", other)
		assert.Equal(t, http.StatusNotFound, w.Code)
		w = do(router, http.MethodGet, "/api/v1/products/"+draft.ID, "", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("o vendedor enxerga os próprios rascunhos", func(t *testing.T) {
		code, page := list("?seller_id="+sellerID+"&status=draft", seller)
		require.Equal(t, http.StatusOK, code)
		require.Len(t, page.Data, 1)
		assert.Equal(t, draft.ID, page.Data[0].ID)

		w := do(router, http.MethodGet, "/api/v1/products/"+draft.ID, "", seller)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
