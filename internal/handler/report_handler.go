package handler

import (
	"net/http"

	"inventory/internal/repository"
	"inventory/internal/service"
	"inventory/pkg/pagination"
	"inventory/pkg/response"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	reportService service.ReportService
}

func NewReportHandler(reportService service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

func (h *ReportHandler) RegisterRoutes(router *gin.RouterGroup) {
	api := router.Group("/api")
	{
		api.GET("/stock", h.GetAllStock)
		api.GET("/stock/low", h.GetLowStock)
		api.GET("/stock/:product", h.GetStock)
		api.GET("/transactions", h.GetTransactions)
		api.GET("/summary", h.GetSummary)
	}
}

// GetAllStock lists every pair currently holding stock
// @Summary      List stock
// @Tags         report
// @Produce      json
// @Success      200  {object}  response.Response{data=[]model.StockView}
// @Failure      500  {object}  response.Response
// @Router       /api/stock [get]
func (h *ReportHandler) GetAllStock(c *gin.Context) {
	views, err := h.reportService.GetAllStock(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to list stock: "+err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, views))
}

// GetStock reads a product's stock, for one warehouse or across all
// @Summary      Check stock
// @Tags         report
// @Produce      json
// @Param        product    path      string  true   "Product code"
// @Param        warehouse  query     string  false  "Warehouse code"
// @Success      200        {object}  response.Response
// @Failure      404        {object}  response.Response
// @Router       /api/stock/{product} [get]
func (h *ReportHandler) GetStock(c *gin.Context) {
	productCode := c.Param("product")
	warehouseCode := c.Query("warehouse")

	if warehouseCode != "" {
		view, err := h.reportService.GetStock(c.Request.Context(), productCode, warehouseCode)
		if err != nil {
			status := statusFor(err)
			c.JSON(status, response.Error(status, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.Success(http.StatusOK, view))
		return
	}

	views, err := h.reportService.GetStockByProduct(c.Request.Context(), productCode)
	if err != nil {
		status := statusFor(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, views))
}

// GetLowStock lists products below their minimum quantity
// @Summary      Low stock
// @Tags         report
// @Produce      json
// @Success      200  {object}  response.Response{data=[]model.LowStockItem}
// @Failure      500  {object}  response.Response
// @Router       /api/stock/low [get]
func (h *ReportHandler) GetLowStock(c *gin.Context) {
	items, err := h.reportService.GetLowStockProducts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to list low stock: "+err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, items))
}

// GetTransactions lists journal entries, most recent first
// @Summary      Transaction history
// @Tags         report
// @Produce      json
// @Param        product    query     string  false  "Product code"
// @Param        warehouse  query     string  false  "Warehouse code"
// @Param        type       query     string  false  "IN or OUT"
// @Param        limit      query     int     false  "Max rows (default 50)"
// @Success      200        {object}  response.Response{data=[]model.TransactionView}
// @Failure      500        {object}  response.Response
// @Router       /api/transactions [get]
func (h *ReportHandler) GetTransactions(c *gin.Context) {
	params := pagination.Parse(c)
	filter := repository.TransactionFilter{
		ProductCode:     c.Query("product"),
		WarehouseCode:   c.Query("warehouse"),
		TransactionType: c.Query("type"),
		Limit:           params.Limit,
	}

	views, err := h.reportService.GetTransactions(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to list transactions: "+err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, views))
}

// GetSummary reports headline counters for the whole store
// @Summary      Stock summary
// @Tags         report
// @Produce      json
// @Success      200  {object}  response.Response{data=model.StockSummary}
// @Failure      500  {object}  response.Response
// @Router       /api/summary [get]
func (h *ReportHandler) GetSummary(c *gin.Context) {
	summary, err := h.reportService.GetStockSummary(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to build summary: "+err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, summary))
}
