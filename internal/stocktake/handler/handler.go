package handler

import (
	"net/http"

	"github.com/fekuna/omnipos-stocktake-service/internal/export"
	"github.com/fekuna/omnipos-stocktake-service/internal/logger"
	"github.com/fekuna/omnipos-stocktake-service/internal/model"
	"github.com/fekuna/omnipos-stocktake-service/internal/response"
	"github.com/fekuna/omnipos-stocktake-service/internal/stocktake"
	"github.com/fekuna/omnipos-stocktake-service/internal/stocktake/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type StocktakeHandler struct {
	uc     stocktake.UseCase
	logger logger.ZapLogger
}

func NewStocktakeHandler(uc stocktake.UseCase, log logger.ZapLogger) *StocktakeHandler {
	return &StocktakeHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *StocktakeHandler) RegisterRoutes(rg *gin.RouterGroup) {
	st := rg.Group("/stocktake")
	st.POST("/reconcile", h.Reconcile)
	st.POST("/finalize", h.Finalize)
	st.POST("/draft/export", h.ExportDraft)

	reports := rg.Group("/reports")
	reports.GET("", h.ListReports)
	reports.GET("/:id", h.GetReport)
	reports.GET("/:id/export", h.ExportReport)
}

func (h *StocktakeHandler) Reconcile(c *gin.Context) {
	var input dto.ReconcileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err)
		return
	}

	result, err := h.uc.Reconcile(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Finalize archives either reviewed items or raw counts. Items win when both are sent.
func (h *StocktakeHandler) Finalize(c *gin.Context) {
	var input dto.FinalizeRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err)
		return
	}

	var (
		report *model.MonthEndReport
		err    error
	)
	if input.Items != nil {
		report, err = h.uc.FinalizeMonth(c.Request.Context(), input.Items)
	} else {
		report, err = h.uc.FinalizeCounts(c.Request.Context(), &dto.ReconcileInput{Counts: input.Counts})
	}
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, report)
}

func (h *StocktakeHandler) ExportDraft(c *gin.Context) {
	var input dto.ReconcileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err)
		return
	}

	result, err := h.uc.Reconcile(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}

	format := response.Format(c)
	data, contentType, err := export.Render(format, result.Items, export.SaleItemColumns)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}

	response.Attachment(c, export.DraftFileName(format), contentType, data)
}

func (h *StocktakeHandler) ListReports(c *gin.Context) {
	reports, err := h.uc.ListReports(c.Request.Context())
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reports": reports, "total": len(reports)})
}

func (h *StocktakeHandler) GetReport(c *gin.Context) {
	report, err := h.uc.GetReport(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	if report == nil {
		response.Error(c, h.logger, model.ErrReportNotFound)
		return
	}

	c.JSON(http.StatusOK, report)
}

func (h *StocktakeHandler) ExportReport(c *gin.Context) {
	report, err := h.uc.GetReport(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	if report == nil {
		response.Error(c, h.logger, model.ErrReportNotFound)
		return
	}

	format := response.Format(c)
	data, contentType, err := export.Render(format, report.Details, export.SaleItemColumns)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}

	h.logger.Info("report exported", zap.String("report_id", report.ID), zap.String("format", format))
	response.Attachment(c, export.ReportFileName(report.Date, format), contentType, data)
}
