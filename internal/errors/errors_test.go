package errors

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestValidation_StatusByCode(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := map[string]int{
		ErrCodeInvalidInput:       http.StatusBadRequest,
		ErrCodeTokenExpired:       http.StatusBadRequest,
		ErrCodeConflict:           http.StatusConflict,
		ErrCodeInvalidCredentials: http.StatusUnauthorized,
	}

	for code, status := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		Validation(c, NewFieldError(code, "field", "message"))

		assert.Equal(t, status, w.Code, code)
		assert.JSONEq(t, `{"code":"`+code+`","message":"Validation failed","details":[{"field":"field","message":"message"}]}`, w.Body.String())
	}
}

func TestValidationError_Error(t *testing.T) {
	assert.Equal(t, "password: too short", NewValidationError("password", "too short").Error())
	assert.Equal(t, "validation failed", (&ValidationError{}).Error())
}
