package handler

import (
	"net/http"

	"inventory/internal/service"
	"inventory/pkg/response"

	"github.com/gin-gonic/gin"
)

type CatalogHandler struct {
	catalogService service.CatalogService
}

func NewCatalogHandler(catalogService service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

func (h *CatalogHandler) RegisterRoutes(router *gin.RouterGroup) {
	api := router.Group("/api")
	{
		api.GET("/products", h.ListProducts)
		api.POST("/products", h.CreateProduct)
		api.PUT("/products/:code", h.UpdateProduct)
		api.GET("/warehouses", h.ListWarehouses)
		api.POST("/warehouses", h.CreateWarehouse)
	}
}

// ListProducts returns the full product catalog ordered by code
// @Summary      List products
// @Tags         catalog
// @Produce      json
// @Success      200  {object}  response.Response{data=[]model.Product}
// @Failure      500  {object}  response.Response
// @Router       /api/products [get]
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	products, err := h.catalogService.ListProducts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to list products: "+err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, products))
}

// CreateProduct registers a new product code
// @Summary      Create product
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateProductRequest  true  "Create Product Payload"
// @Success      201      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/products [post]
func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var req service.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	created, err := h.catalogService.AddProduct(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
	if !created {
		c.JSON(http.StatusConflict, response.Error(http.StatusConflict, "Product code already exists: "+req.Code))
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, gin.H{"code": req.Code}))
}

// UpdateProduct updates a product's mutable fields by code
// @Summary      Update product
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Param        code     path      string                        true  "Product code"
// @Param        payload  body      service.UpdateProductRequest  true  "Update Product Payload"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/products/{code} [put]
func (h *CatalogHandler) UpdateProduct(c *gin.Context) {
	code := c.Param("code")

	var req service.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	if err := h.catalogService.UpdateProduct(c.Request.Context(), code, req); err != nil {
		status := statusFor(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"code": code}))
}

// ListWarehouses returns all warehouses ordered by code
// @Summary      List warehouses
// @Tags         catalog
// @Produce      json
// @Success      200  {object}  response.Response{data=[]model.Warehouse}
// @Failure      500  {object}  response.Response
// @Router       /api/warehouses [get]
func (h *CatalogHandler) ListWarehouses(c *gin.Context) {
	warehouses, err := h.catalogService.ListWarehouses(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to list warehouses: "+err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, warehouses))
}

// CreateWarehouse registers a new warehouse code
// @Summary      Create warehouse
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateWarehouseRequest  true  "Create Warehouse Payload"
// @Success      201      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/warehouses [post]
func (h *CatalogHandler) CreateWarehouse(c *gin.Context) {
	var req service.CreateWarehouseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	created, err := h.catalogService.AddWarehouse(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
	if !created {
		c.JSON(http.StatusConflict, response.Error(http.StatusConflict, "Warehouse code already exists: "+req.Code))
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, gin.H{"code": req.Code}))
}
