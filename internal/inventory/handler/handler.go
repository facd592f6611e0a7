package handler

import (
	"net/http"
	"time"

	"github.com/fekuna/omnipos-stocktake-service/internal/export"
	"github.com/fekuna/omnipos-stocktake-service/internal/inventory"
	"github.com/fekuna/omnipos-stocktake-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-stocktake-service/internal/logger"
	"github.com/fekuna/omnipos-stocktake-service/internal/model"
	"github.com/fekuna/omnipos-stocktake-service/internal/response"
	"github.com/gin-gonic/gin"
)

type InventoryHandler struct {
	uc     inventory.UseCase
	now    func() time.Time
	logger logger.ZapLogger
}

func NewInventoryHandler(uc inventory.UseCase, now func() time.Time, log logger.ZapLogger) *InventoryHandler {
	return &InventoryHandler{
		uc:     uc,
		now:    now,
		logger: log,
	}
}

func (h *InventoryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	stock := rg.Group("/stock")
	stock.POST("", h.AddStock)
	stock.GET("/replenishments", h.ListReplenishments)
	stock.GET("/replenishments/export", h.ExportReplenishments)
}

func (h *InventoryHandler) AddStock(c *gin.Context) {
	var input dto.AddStockInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err)
		return
	}

	event, err := h.uc.AddStock(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	if event == nil {
		response.Error(c, h.logger, model.ErrProductNotFound)
		return
	}

	c.JSON(http.StatusCreated, event)
}

func (h *InventoryHandler) ListReplenishments(c *gin.Context) {
	events, err := h.uc.ListReplenishments(c.Request.Context(), &dto.ReplenishmentFilters{ProductID: c.Query("product_id")})
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"replenishments": events, "total": len(events)})
}

func (h *InventoryHandler) ExportReplenishments(c *gin.Context) {
	events, err := h.uc.ListReplenishments(c.Request.Context(), &dto.ReplenishmentFilters{ProductID: c.Query("product_id")})
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}

	format := response.Format(c)
	data, contentType, err := export.Render(format, events, export.ReplenishmentColumns)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}

	response.Attachment(c, export.PurchasesFileName(h.now(), format), contentType, data)
}
