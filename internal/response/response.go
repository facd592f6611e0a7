package response

import (
	"errors"
	"net/http"

	"github.com/fekuna/omnipos-stocktake-service/internal/export"
	"github.com/fekuna/omnipos-stocktake-service/internal/logger"
	"github.com/fekuna/omnipos-stocktake-service/internal/model"
	"github.com/fekuna/omnipos-stocktake-service/internal/state"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const noDataNotice = "No data to export"

// Error writes err with the status its kind maps to.
func Error(c *gin.Context, log logger.ZapLogger, err error) {
	_ = c.Error(err)

	var ve *model.ValidationError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":      ve.Error(),
			"field":      ve.Field,
			"constraint": ve.Constraint,
		})
	case errors.Is(err, model.ErrProductNotFound), errors.Is(err, model.ErrReportNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, export.ErrNoData):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"notice": noDataNotice})
	case errors.Is(err, state.ErrPersistence):
		log.Error("persistence failure", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save changes"})
	default:
		log.Error("unexpected error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// BadRequest reports a malformed request body.
func BadRequest(c *gin.Context, err error) {
	_ = c.Error(err)
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
}

// Attachment sends data as a downloadable file.
func Attachment(c *gin.Context, fileName, contentType string, data []byte) {
	c.Header("Content-Disposition", `attachment; filename="`+fileName+`"`)
	c.Data(http.StatusOK, contentType, data)
}

// Format reads ?format= and defaults to CSV.
func Format(c *gin.Context) string {
	if c.Query("format") == export.FormatXLSX {
		return export.FormatXLSX
	}
	return export.FormatCSV
}
