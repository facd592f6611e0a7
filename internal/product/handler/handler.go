package handler

import (
	"net/http"
	"time"

	"github.com/fekuna/omnipos-stocktake-service/internal/export"
	"github.com/fekuna/omnipos-stocktake-service/internal/logger"
	"github.com/fekuna/omnipos-stocktake-service/internal/model"
	"github.com/fekuna/omnipos-stocktake-service/internal/product"
	"github.com/fekuna/omnipos-stocktake-service/internal/product/dto"
	"github.com/fekuna/omnipos-stocktake-service/internal/response"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ProductHandler struct {
	uc     product.UseCase
	now    func() time.Time
	logger logger.ZapLogger
}

func NewProductHandler(uc product.UseCase, now func() time.Time, log logger.ZapLogger) *ProductHandler {
	return &ProductHandler{
		uc:     uc,
		now:    now,
		logger: log,
	}
}

func (h *ProductHandler) RegisterRoutes(rg *gin.RouterGroup) {
	products := rg.Group("/products")
	products.GET("", h.ListProducts)
	products.POST("", h.CreateProduct)
	products.GET("/export", h.ExportProducts)
	products.GET("/:id", h.GetProduct)
	products.PUT("/:id", h.UpdateProduct)
	products.DELETE("/:id", h.DeleteProduct)
}

func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var input dto.CreateProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err)
		return
	}

	p, err := h.uc.AddProduct(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewProductResponse(p))
}

func (h *ProductHandler) GetProduct(c *gin.Context) {
	p, err := h.uc.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	if p == nil {
		response.Error(c, h.logger, model.ErrProductNotFound)
		return
	}

	c.JSON(http.StatusOK, dto.NewProductResponse(p))
}

func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	var input dto.UpdateProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err)
		return
	}
	input.ID = c.Param("id")

	p, err := h.uc.UpdateProduct(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	if p == nil {
		response.Error(c, h.logger, model.ErrProductNotFound)
		return
	}

	c.JSON(http.StatusOK, dto.NewProductResponse(p))
}

func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	deleted, err := h.uc.DeleteProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	if !deleted {
		response.Error(c, h.logger, model.ErrProductNotFound)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *ProductHandler) ListProducts(c *gin.Context) {
	products, err := h.uc.ListProducts(c.Request.Context(), &dto.ProductFilters{SearchQuery: c.Query("q")})
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": dto.NewProductResponses(products), "total": len(products)})
}

func (h *ProductHandler) ExportProducts(c *gin.Context) {
	products, err := h.uc.ListProducts(c.Request.Context(), nil)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}

	format := response.Format(c)
	data, contentType, err := export.Render(format, products, export.ProductColumns)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}

	h.logger.Info("products exported", zap.Int("rows", len(products)), zap.String("format", format))
	response.Attachment(c, export.InventoryFileName(h.now(), format), contentType, data)
}
