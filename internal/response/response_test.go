package response

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fekuna/omnipos-stocktake-service/internal/export"
	"github.com/fekuna/omnipos-stocktake-service/internal/logger"
	"github.com/fekuna/omnipos-stocktake-service/internal/model"
	"github.com/fekuna/omnipos-stocktake-service/internal/state"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestErrorMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	testCases := []struct {
		name     string
		err      error
		expected int
		body     string
	}{
		{name: "validation", err: model.NewValidationError("quantity", "gt=0", ""), expected: http.StatusBadRequest, body: `"field":"quantity"`},
		{name: "product not found", err: model.ErrProductNotFound, expected: http.StatusNotFound},
		{name: "report not found", err: fmt.Errorf("lookup: %w", model.ErrReportNotFound), expected: http.StatusNotFound},
		{name: "no data", err: export.ErrNoData, expected: http.StatusUnprocessableEntity, body: "No data to export"},
		{name: "persistence", err: fmt.Errorf("%w: %w", state.ErrPersistence, errors.New("disk full")), expected: http.StatusInternalServerError},
		{name: "other", err: errors.New("boom"), expected: http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			Error(c, logger.NewNop(), tc.err)

			assert.Equal(t, tc.expected, w.Code)
			if tc.body != "" {
				assert.Contains(t, w.Body.String(), tc.body)
			}
		})
	}
}

func TestFormat(t *testing.T) {
	gin.SetMode(gin.TestMode)

	for query, expected := range map[string]string{"": "csv", "?format=xlsx": "xlsx", "?format=pdf": "csv"} {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/export"+query, nil)
		assert.Equal(t, expected, Format(c), query)
	}
}
