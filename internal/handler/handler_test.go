package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"inventory/internal/database"
	"inventory/internal/repository"
	"inventory/internal/service"
	"inventory/pkg/logger"
	"inventory/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Open("file:" + t.Name() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	productRepo := repository.NewProductRepository(db)
	warehouseRepo := repository.NewWarehouseRepository(db)
	stockRepo := repository.NewStockRepository(db)
	stockTxRepo := repository.NewStockTxRepository(db)
	txManager := repository.NewTransactionManager(db)
	log := logger.Nop()

	catalog := service.NewCatalogService(productRepo, warehouseRepo, log)
	ledger := service.NewLedgerService(productRepo, warehouseRepo, stockRepo, stockTxRepo, txManager, nil, log)
	reports := service.NewReportService(productRepo, warehouseRepo, stockRepo, stockTxRepo)

	router := gin.New()
	root := router.Group("")
	NewCatalogHandler(catalog).RegisterRoutes(root)
	NewLedgerHandler(ledger).RegisterRoutes(root)
	NewReportHandler(reports).RegisterRoutes(root)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, response.Response) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var envelope response.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return rec, envelope
}

func createCatalog(t *testing.T, router *gin.Engine) {
	t.Helper()
	rec, _ := doJSON(t, router, http.MethodPost, "/api/products", gin.H{
		"code": "SKU1", "name": "Widget", "unit": "pcs", "min_quantity": 5,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	rec, _ = doJSON(t, router, http.MethodPost, "/api/warehouses", gin.H{
		"code": "WH1", "name": "Main",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
}

func TestCreateProductEndpoint(t *testing.T) {
	router := setupRouter(t)

	rec, envelope := doJSON(t, router, http.MethodPost, "/api/products", gin.H{
		"code": "SKU1", "name": "Widget", "unit": "pcs",
	})
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "success", envelope.Status)

	// Duplicate code conflicts.
	rec, envelope = doJSON(t, router, http.MethodPost, "/api/products", gin.H{
		"code": "SKU1", "name": "Other", "unit": "box",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "error", envelope.Status)

	// Missing required fields are rejected before the service runs.
	rec, _ = doJSON(t, router, http.MethodPost, "/api/products", gin.H{"code": "SKU2"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStockInEndpoint(t *testing.T) {
	router := setupRouter(t)
	createCatalog(t, router)

	rec, envelope := doJSON(t, router, http.MethodPost, "/api/stock/in", gin.H{
		"product_code": "SKU1", "warehouse_code": "WH1", "quantity": 10,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	entry := envelope.Data.(map[string]interface{})
	assert.Equal(t, "IN", entry["transaction_type"])
	assert.EqualValues(t, 10, entry["quantity"])

	// Unknown product maps to 404.
	rec, _ = doJSON(t, router, http.MethodPost, "/api/stock/in", gin.H{
		"product_code": "NOPE", "warehouse_code": "WH1", "quantity": 1,
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStockOutEndpoint(t *testing.T) {
	router := setupRouter(t)
	createCatalog(t, router)

	rec, _ := doJSON(t, router, http.MethodPost, "/api/stock/in", gin.H{
		"product_code": "SKU1", "warehouse_code": "WH1", "quantity": 10,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, envelope := doJSON(t, router, http.MethodPost, "/api/stock/out", gin.H{
		"product_code": "SKU1", "warehouse_code": "WH1", "quantity": 3,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	entry := envelope.Data.(map[string]interface{})
	assert.Equal(t, "OUT", entry["transaction_type"])

	// Over-withdrawal conflicts and leaves the balance alone.
	rec, envelope = doJSON(t, router, http.MethodPost, "/api/stock/out", gin.H{
		"product_code": "SKU1", "warehouse_code": "WH1", "quantity": 100,
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, envelope.Error, "insufficient stock")

	rec, envelope = doJSON(t, router, http.MethodGet, "/api/stock/SKU1?warehouse=WH1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	view := envelope.Data.(map[string]interface{})
	assert.EqualValues(t, 7, view["quantity"])
}

func TestStockQueryEndpoints(t *testing.T) {
	router := setupRouter(t)
	createCatalog(t, router)

	rec, _ := doJSON(t, router, http.MethodPost, "/api/stock/in", gin.H{
		"product_code": "SKU1", "warehouse_code": "WH1", "quantity": 4,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, envelope := doJSON(t, router, http.MethodGet, "/api/stock", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	views := envelope.Data.([]interface{})
	assert.Len(t, views, 1)

	// Total 4 is below the minimum of 5.
	rec, envelope = doJSON(t, router, http.MethodGet, "/api/stock/low", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	items := envelope.Data.([]interface{})
	require.Len(t, items, 1)
	item := items[0].(map[string]interface{})
	assert.Equal(t, "SKU1", item["product_code"])
	assert.EqualValues(t, 1, item["deficit"])

	rec, envelope = doJSON(t, router, http.MethodGet, "/api/transactions?product=SKU1&type=IN", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	txs := envelope.Data.([]interface{})
	assert.Len(t, txs, 1)

	rec, envelope = doJSON(t, router, http.MethodGet, "/api/summary", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	summary := envelope.Data.(map[string]interface{})
	assert.EqualValues(t, 1, summary["total_products"])
	assert.EqualValues(t, 1, summary["total_warehouses"])
	assert.EqualValues(t, 1, summary["total_stock_items"])
	assert.EqualValues(t, 1, summary["total_transactions"])

	rec, _ = doJSON(t, router, http.MethodGet, "/api/stock/NOPE", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateProductEndpoint(t *testing.T) {
	router := setupRouter(t)
	createCatalog(t, router)

	rec, _ := doJSON(t, router, http.MethodPut, "/api/products/SKU1", gin.H{
		"min_quantity": 20,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec, envelope := doJSON(t, router, http.MethodGet, "/api/products", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	products := envelope.Data.([]interface{})
	require.Len(t, products, 1)
	product := products[0].(map[string]interface{})
	assert.EqualValues(t, 20, product["min_quantity"])

	rec, _ = doJSON(t, router, http.MethodPut, "/api/products/NOPE", gin.H{"name": "x"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
