package http

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	scalargo "github.com/bdpiprava/scalar-go"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/ecoshop/backend/internal/domain"
	"github.com/ecoshop/backend/internal/infrastructure/logging"
	"github.com/ecoshop/backend/internal/usecase"
)

// ClientIDHeader identifies whose cart and points a request touches
const (
	ClientIDHeader  = "X-Client-ID"
	defaultClientID = "anonymous"
	maxClientIDLen  = 128
)

// ProductSearcher runs product searches
type ProductSearcher interface {
	Search(ctx context.Context, query string) ([]domain.Product, error)
}

// CartManager manages per-client carts
type CartManager interface {
	Get(ctx context.Context, clientID string) (*domain.Cart, error)
	AddItem(ctx context.Context, clientID string, product domain.Product) (*domain.Cart, error)
	RemoveItem(ctx context.Context, clientID, id string) (*domain.Cart, error)
	UpdateQuantity(ctx context.Context, clientID, id string, quantity int) (*domain.Cart, error)
	Clear(ctx context.Context, clientID string) (*domain.Cart, error)
}

// PointsManager manages per-client point balances
type PointsManager interface {
	Balance(ctx context.Context, clientID string) (int64, error)
	Add(ctx context.Context, clientID string, amount int64) (int64, error)
	Subtract(ctx context.Context, clientID string, amount int64) (int64, error)
	AwardReceipt(ctx context.Context, clientID string) (int64, error)
	Reset(ctx context.Context, clientID string) error
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	search  ProductSearcher
	catalog domain.Catalog
	cart    CartManager
	points  PointsManager
	pages   domain.PageFetcher
	docsDir string
	logger  zerolog.Logger
}

// HandlerDeps groups the services a Handler serves. Pages may be nil.
type HandlerDeps struct {
	Search  ProductSearcher
	Catalog domain.Catalog
	Cart    CartManager
	Points  PointsManager
	Pages   domain.PageFetcher
	DocsDir string
}

// NewHandler creates a new HTTP handler
func NewHandler(deps HandlerDeps, logger zerolog.Logger) *Handler {
	return &Handler{
		search:  deps.Search,
		catalog: deps.Catalog,
		cart:    deps.Cart,
		points:  deps.Points,
		pages:   deps.Pages,
		docsDir: deps.DocsDir,
		logger:  logging.Component(logger, "http"),
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Eco Shopping Backend is running",
	})
}

// Docs serves the Scalar API reference for the OpenAPI document in docsDir
func (h *Handler) Docs(c *gin.Context) {
	html, err := scalargo.NewV2(
		scalargo.WithSpecDir(h.docsDir),
		scalargo.WithMetaDataOpts(
			scalargo.WithTitle("EcoShop API"),
		),
	)
	if err != nil {
		h.logger.Error().Err(err).Str("dir", h.docsDir).Msg("render api docs")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "API documentation unavailable"})
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

// SearchProducts handles POST /api/search
func (h *Handler) SearchProducts(c *gin.Context) {
	var req domain.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Query) == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Query parameter is required and must be a non-empty string",
		})
		return
	}

	products, err := h.search.Search(c.Request.Context(), req.Query)
	if err != nil {
		h.logger.Error().Err(err).Str("query", req.Query).Msg("search failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to search products",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": products})
}

// ExtractProduct handles POST /api/extract-product
func (h *Handler) ExtractProduct(c *gin.Context) {
	var req struct {
		URL string `json:"url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || !isHTTPURL(req.URL) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "URL is required and must be an absolute http(s) URL"})
		return
	}
	if h.pages == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Page extraction is not configured"})
		return
	}

	page, err := h.pages.Fetch(c.Request.Context(), req.URL)
	if err != nil {
		h.logger.Warn().Err(err).Str("url", req.URL).Msg("extract product failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to extract product",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, page)
}

// ListCategories handles GET /api/categories
func (h *Handler) ListCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": h.catalog.Categories()})
}

// CategoryProducts handles GET /api/categories/:category
func (h *Handler) CategoryProducts(c *gin.Context) {
	category := c.Param("category")
	c.JSON(http.StatusOK, gin.H{
		"category": category,
		"products": h.catalog.CategoryProducts(category),
	})
}

// GetCart handles GET /api/cart
func (h *Handler) GetCart(c *gin.Context) {
	cart, err := h.cart.Get(c.Request.Context(), clientID(c))
	h.respondCart(c, cart, err)
}

// AddCartItem handles POST /api/cart/items
func (h *Handler) AddCartItem(c *gin.Context) {
	var product domain.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		h.respondError(c, domain.ErrInvalidRequest)
		return
	}

	cart, err := h.cart.AddItem(c.Request.Context(), clientID(c), product)
	h.respondCart(c, cart, err)
}

// UpdateCartItem handles PATCH /api/cart/items/:id
func (h *Handler) UpdateCartItem(c *gin.Context) {
	var req struct {
		Quantity *int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Quantity == nil {
		h.respondError(c, domain.ErrInvalidQuantity)
		return
	}

	cart, err := h.cart.UpdateQuantity(c.Request.Context(), clientID(c), c.Param("id"), *req.Quantity)
	h.respondCart(c, cart, err)
}

// RemoveCartItem handles DELETE /api/cart/items/:id
func (h *Handler) RemoveCartItem(c *gin.Context) {
	cart, err := h.cart.RemoveItem(c.Request.Context(), clientID(c), c.Param("id"))
	h.respondCart(c, cart, err)
}

// ClearCart handles DELETE /api/cart
func (h *Handler) ClearCart(c *gin.Context) {
	cart, err := h.cart.Clear(c.Request.Context(), clientID(c))
	h.respondCart(c, cart, err)
}

// GetPoints handles GET /api/points
func (h *Handler) GetPoints(c *gin.Context) {
	points, err := h.points.Balance(c.Request.Context(), clientID(c))
	h.respondPoints(c, points, err)
}

// AddPoints handles POST /api/points/add
func (h *Handler) AddPoints(c *gin.Context) {
	amount, ok := h.bindAmount(c)
	if !ok {
		return
	}
	points, err := h.points.Add(c.Request.Context(), clientID(c), amount)
	h.respondPoints(c, points, err)
}

// SubtractPoints handles POST /api/points/subtract
func (h *Handler) SubtractPoints(c *gin.Context) {
	amount, ok := h.bindAmount(c)
	if !ok {
		return
	}
	points, err := h.points.Subtract(c.Request.Context(), clientID(c), amount)
	h.respondPoints(c, points, err)
}

// AwardReceipt handles POST /api/points/receipts
func (h *Handler) AwardReceipt(c *gin.Context) {
	points, err := h.points.AwardReceipt(c.Request.Context(), clientID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"points": points, "awarded": usecase.ReceiptAward})
}

// ResetPoints handles DELETE /api/points
func (h *Handler) ResetPoints(c *gin.Context) {
	if err := h.points.Reset(c.Request.Context(), clientID(c)); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"points": 0})
}

func (h *Handler) bindAmount(c *gin.Context) (int64, bool) {
	var req struct {
		Amount *int64 `json:"amount"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Amount == nil {
		h.respondError(c, domain.ErrInvalidAmount)
		return 0, false
	}
	return *req.Amount, true
}

func (h *Handler) respondCart(c *gin.Context, cart *domain.Cart, err error) {
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (h *Handler) respondPoints(c *gin.Context, points int64, err error) {
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"points": points})
}

// respondError maps domain errors onto status codes
func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest),
		errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrInvalidAmount):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrItemNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		h.logger.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal server error",
			"message": err.Error(),
		})
	}
}

// clientID reads the caller's client id, falling back to the shared anonymous client
func clientID(c *gin.Context) string {
	id := strings.TrimSpace(c.GetHeader(ClientIDHeader))
	if id == "" {
		return defaultClientID
	}
	if len(id) > maxClientIDLen {
		id = id[:maxClientIDLen]
	}
	return id
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
