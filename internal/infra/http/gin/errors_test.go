package ginserver

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	gin "github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"teamdesk/internal/domain/shared/apperr"
)

func TestStatusForKinds(t *testing.T) {
	cases := map[apperr.Kind]int{
		apperr.KindValidation:      http.StatusBadRequest,
		apperr.KindInvalidCursor:   http.StatusBadRequest,
		apperr.KindMissingIdentity: http.StatusBadRequest,
		apperr.KindInvalidOp:       http.StatusBadRequest,
		apperr.KindForbidden:       http.StatusForbidden,
		apperr.KindNotFound:        http.StatusNotFound,
		apperr.KindConflict:        http.StatusConflict,
		apperr.KindStorage:         http.StatusInternalServerError,
	}
	for kind, want := range cases {
		assert.Equal(t, want, statusFor(kind), "kind %s", kind)
	}
}

func TestWriteErrorMasksStorageDetails(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	writeError(c, nil, errors.New("mongo: connection refused at 10.0.0.5"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal error"}`, rec.Body.String())
}

func TestWriteErrorClientFault(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	writeError(c, nil, apperr.NotFound("conversation"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "conversation not found")
	assert.Contains(t, rec.Body.String(), `"kind":"not_found"`)
}
