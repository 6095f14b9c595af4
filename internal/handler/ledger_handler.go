package handler

import (
	"net/http"

	"inventory/internal/service"
	"inventory/pkg/response"

	"github.com/gin-gonic/gin"
)

type LedgerHandler struct {
	ledgerService service.LedgerService
}

func NewLedgerHandler(ledgerService service.LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerService: ledgerService}
}

func (h *LedgerHandler) RegisterRoutes(router *gin.RouterGroup) {
	api := router.Group("/api")
	{
		api.POST("/stock/in", h.StockIn)
		api.POST("/stock/out", h.StockOut)
	}
}

// StockIn receives goods into a warehouse
// @Summary      Stock in
// @Description  Atomically increments the pair's stock and appends an IN transaction
// @Tags         ledger
// @Accept       json
// @Produce      json
// @Param        payload  body      service.StockInRequest  true  "Stock In Payload"
// @Success      201      {object}  response.Response{data=model.StockTransaction}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/stock/in [post]
func (h *LedgerHandler) StockIn(c *gin.Context) {
	var req service.StockInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	entry, err := h.ledgerService.StockIn(c.Request.Context(), req)
	if err != nil {
		status := statusFor(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, entry))
}

// StockOut issues goods from a warehouse
// @Summary      Stock out
// @Description  Atomically decrements the pair's stock and appends an OUT transaction; rejected outright when stock is insufficient
// @Tags         ledger
// @Accept       json
// @Produce      json
// @Param        payload  body      service.StockOutRequest  true  "Stock Out Payload"
// @Success      201      {object}  response.Response{data=model.StockTransaction}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/stock/out [post]
func (h *LedgerHandler) StockOut(c *gin.Context) {
	var req service.StockOutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	entry, err := h.ledgerService.StockOut(c.Request.Context(), req)
	if err != nil {
		status := statusFor(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, entry))
}
