package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecoshop/backend/config"
	"github.com/ecoshop/backend/internal/domain"
	"github.com/ecoshop/backend/internal/infrastructure/catalog"
	"github.com/ecoshop/backend/internal/infrastructure/store"
	"github.com/ecoshop/backend/internal/usecase"
)

// TestMain sets up test environment before running tests
func TestMain(m *testing.M) {
	// Set Gin to test mode once for all tests
	gin.SetMode(gin.TestMode)

	os.Exit(m.Run())
}

// stubSearcher is a ProductSearcher returning canned results
type stubSearcher struct {
	products  []domain.Product
	err       error
	lastQuery string
}

func (s *stubSearcher) Search(ctx context.Context, query string) ([]domain.Product, error) {
	s.lastQuery = query
	if s.err != nil {
		return nil, s.err
	}
	return s.products, nil
}

// stubPages is a domain.PageFetcher returning a canned page
type stubPages struct {
	page *domain.PageData
	err  error
}

func (s *stubPages) Fetch(ctx context.Context, pageURL string) (*domain.PageData, error) {
	return s.page, s.err
}

type testServer struct {
	router   *gin.Engine
	searcher *stubSearcher
	pages    *stubPages
}

// setupTestRouter creates a test router backed by in-memory services
func setupTestRouter(t *testing.T) *testServer {
	t.Helper()

	cfg := &config.Config{
		Server: config.ServerConfig{
			Port:           "3001",
			Environment:    "test",
			AllowedOrigins: []string{"http://localhost:5173"},
		},
	}

	cat, err := catalog.Default()
	require.NoError(t, err)

	states := store.NewMemoryStore()
	searcher := &stubSearcher{}
	pages := &stubPages{}

	handler := NewHandler(HandlerDeps{
		Search:  searcher,
		Catalog: cat,
		Cart:    usecase.NewCartService(states, zerolog.Nop()),
		Points:  usecase.NewPointsService(states, zerolog.Nop()),
		Pages:   pages,
	}, zerolog.Nop())

	return &testServer{
		router:   SetupRouter(cfg, handler, zerolog.Nop()),
		searcher: searcher,
		pages:    pages,
	}
}

func (s *testServer) do(method, path, body string, headers ...string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response), w.Body.String())
	return response
}

func TestHealthCheckEndpoint(t *testing.T) {
	t.Run("returns ok status", func(t *testing.T) {
		srv := setupTestRouter(t)

		w := srv.do("GET", "/health", "")
		assert.Equal(t, http.StatusOK, w.Code)

		response := decode(t, w)
		assert.Equal(t, "ok", response["status"])
		assert.Equal(t, "Eco Shopping Backend is running", response["message"])
	})

	t.Run("accepts GET requests only", func(t *testing.T) {
		srv := setupTestRouter(t)

		for _, method := range []string{"POST", "PUT", "DELETE", "PATCH"} {
			w := srv.do(method, "/health", "")
			assert.Equal(t, http.StatusNotFound, w.Code, method)
		}
	})
}

func TestSearchEndpoint(t *testing.T) {
	t.Run("returns products", func(t *testing.T) {
		srv := setupTestRouter(t)
		srv.searcher.products = []domain.Product{{ID: "live-1", Name: "Bamboo Toothbrush", Price: 4.99}}

		w := srv.do("POST", "/api/search", `{"query":"bamboo toothbrush"}`)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "bamboo toothbrush", srv.searcher.lastQuery)

		var response struct {
			Products []domain.Product `json:"products"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		require.Len(t, response.Products, 1)
		assert.Equal(t, "Bamboo Toothbrush", response.Products[0].Name)
	})

	t.Run("empty product list is an empty array", func(t *testing.T) {
		srv := setupTestRouter(t)
		srv.searcher.products = []domain.Product{}

		w := srv.do("POST", "/api/search", `{"query":"nothing"}`)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"products":[]}`, w.Body.String())
	})

	t.Run("rejects invalid queries", func(t *testing.T) {
		srv := setupTestRouter(t)

		bodies := []string{`{}`, `{"query":""}`, `{"query":"   "}`, `{"query":42}`, `not json`}
		for _, body := range bodies {
			w := srv.do("POST", "/api/search", body)
			assert.Equal(t, http.StatusBadRequest, w.Code, body)
			assert.Equal(t, "Query parameter is required and must be a non-empty string", decode(t, w)["error"])
		}
	})

	t.Run("search failure is a 500", func(t *testing.T) {
		srv := setupTestRouter(t)
		srv.searcher.err = errors.New("product search unavailable: quota")

		w := srv.do("POST", "/api/search", `{"query":"shoes"}`)
		assert.Equal(t, http.StatusInternalServerError, w.Code)

		response := decode(t, w)
		assert.Equal(t, "Failed to search products", response["error"])
		assert.Equal(t, "product search unavailable: quota", response["message"])
	})
}

func TestExtractProductEndpoint(t *testing.T) {
	srv := setupTestRouter(t)
	srv.pages.page = &domain.PageData{Name: "Hemp Tote", Price: 18}

	w := srv.do("POST", "/api/extract-product", `{"url":"https://shop.example.com/products/tote"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Hemp Tote", decode(t, w)["name"])

	w = srv.do("POST", "/api/extract-product", `{"url":"ftp://shop.example.com"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	srv.pages.err = domain.ErrUpstreamFailure
	w = srv.do("POST", "/api/extract-product", `{"url":"https://shop.example.com/products/tote"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestCategoryEndpoints(t *testing.T) {
	srv := setupTestRouter(t)

	w := srv.do("GET", "/api/categories", "")
	require.Equal(t, http.StatusOK, w.Code)
	categories, ok := decode(t, w)["categories"].([]interface{})
	require.True(t, ok)
	assert.Contains(t, categories, "makeup")

	w = srv.do("GET", "/api/categories/Makeup", "")
	require.Equal(t, http.StatusOK, w.Code)
	response := decode(t, w)
	assert.Equal(t, "Makeup", response["category"])
	products, ok := response["products"].([]interface{})
	require.True(t, ok)
	assert.NotEmpty(t, products)

	w = srv.do("GET", "/api/categories/spaceships", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"category":"spaceships","products":[]}`, w.Body.String())
}

func TestCartEndpoints(t *testing.T) {
	srv := setupTestRouter(t)
	client := []string{ClientIDHeader, "client-1"}

	item := `{"id":"p1","name":"Bamboo Toothbrush","price":4.5,"sourceUrl":"https://example.com/p1"}`
	w := srv.do("POST", "/api/cart/items", item, client...)
	require.Equal(t, http.StatusOK, w.Code)
	w = srv.do("POST", "/api/cart/items", item, client...)
	require.Equal(t, http.StatusOK, w.Code)

	var cart domain.Cart
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cart))
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
	assert.Equal(t, 9.0, cart.Total)
	assert.Equal(t, 2, cart.ItemCount)

	// Other clients do not see this cart
	w = srv.do("GET", "/api/cart", "")
	assert.JSONEq(t, `{"items":[],"total":0,"itemCount":0}`, w.Body.String())

	w = srv.do("POST", "/api/cart/items", `{"name":"No id"}`, client...)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = srv.do("PATCH", "/api/cart/items/p1", `{"quantity":5}`, client...)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cart))
	assert.Equal(t, 5, cart.ItemCount)

	w = srv.do("PATCH", "/api/cart/items/p1", `{}`, client...)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = srv.do("PATCH", "/api/cart/items/missing", `{"quantity":1}`, client...)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = srv.do("DELETE", "/api/cart/items/missing", "", client...)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = srv.do("DELETE", "/api/cart/items/p1", "", client...)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"items":[],"total":0,"itemCount":0}`, w.Body.String())

	srv.do("POST", "/api/cart/items", item, client...)
	w = srv.do("DELETE", "/api/cart", "", client...)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"items":[],"total":0,"itemCount":0}`, w.Body.String())
}

func TestPointsEndpoints(t *testing.T) {
	srv := setupTestRouter(t)

	w := srv.do("GET", "/api/points", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"points":0}`, w.Body.String())

	w = srv.do("POST", "/api/points/add", `{"amount":30}`)
	assert.JSONEq(t, `{"points":30}`, w.Body.String())

	w = srv.do("POST", "/api/points/receipts", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"points":40,"awarded":10}`, w.Body.String())

	w = srv.do("POST", "/api/points/subtract", `{"amount":100}`)
	assert.JSONEq(t, `{"points":0}`, w.Body.String())

	w = srv.do("POST", "/api/points/add", `{"amount":-5}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = srv.do("POST", "/api/points/subtract", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	srv.do("POST", "/api/points/add", `{"amount":12}`)
	w = srv.do("DELETE", "/api/points", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"points":0}`, w.Body.String())

	w = srv.do("GET", "/api/points", "")
	assert.JSONEq(t, `{"points":0}`, w.Body.String())

	srv.do("POST", "/api/points/receipts", "")
	w = srv.do("POST", "/api/points/add", `{"amount":9223372036854775807}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `{"points":9223372036854775807}`, w.Body.String())

	w = srv.do("GET", "/api/points", "")
	assert.Equal(t, `{"points":9223372036854775807}`, w.Body.String())
}

func TestCORSIntegration(t *testing.T) {
	srv := setupTestRouter(t)

	w := srv.do("OPTIONS", "/api/cart/items/p1", "", "Origin", "http://localhost:5173")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestClientID(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"", "anonymous"},
		{"   ", "anonymous"},
		{"abc", "abc"},
		{strings.Repeat("x", 200), strings.Repeat("x", maxClientIDLen)},
	}

	for _, tt := range tests {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest("GET", "/", nil)
		c.Request.Header.Set(ClientIDHeader, tt.header)
		assert.Equal(t, tt.want, clientID(c))
	}
}
