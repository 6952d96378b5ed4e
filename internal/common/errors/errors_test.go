package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// StandardError Tests
// ==========================

func TestStandardError_IsMatchesByCode(t *testing.T) {
	err := fmt.Errorf("delete: %w", NewNotFoundError("rec-1"))

	assert.True(t, stderrors.Is(err, &StandardError{Code: ErrCodeNotFound}))
	assert.False(t, stderrors.Is(err, &StandardError{Code: ErrCodeForbidden}))
	assert.True(t, HasCode(err, ErrCodeNotFound))
}

func TestAsStandardError(t *testing.T) {
	assert.Nil(t, AsStandardError(nil))

	plain := AsStandardError(stderrors.New("boom"))
	assert.Equal(t, ErrCodeInternal, plain.Code)
	assert.Equal(t, "boom", plain.Details)

	wrapped := AsStandardError(fmt.Errorf("ctx: %w", NewForbiddenError("rec-2")))
	assert.Equal(t, ErrCodeForbidden, wrapped.Code)
}

func TestMalformedResponseCarriesRawText(t *testing.T) {
	err := NewMalformedResponseError("no json here")
	assert.Equal(t, UserNoticeValidationFailed, err.Message)
	assert.Equal(t, "no json here", err.Metadata["raw"])
}

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want int
	}{
		{ErrCodeMalformedResponse, http.StatusUnprocessableEntity},
		{ErrCodeInvalidForm, http.StatusBadRequest},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeForbidden, http.StatusForbidden},
		{ErrCodeUnauthorized, http.StatusUnauthorized},
		{ErrCodeStoreUnavailable, http.StatusServiceUnavailable},
		{ErrorCode("SOMETHING_NEW"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, GetHTTPStatus(tt.code))
		})
	}
}

func TestGetErrorCategory(t *testing.T) {
	assert.Equal(t, "MODEL", GetErrorCategory(ErrCodeTransportFailure))
	assert.Equal(t, "REPORT", GetErrorCategory(ErrCodeInvalidReport))
	assert.Equal(t, "STORE", GetErrorCategory(ErrCodeForbidden))
	assert.Equal(t, "AUTH", GetErrorCategory(ErrCodeUnauthorized))
	assert.Equal(t, "VALIDATION", GetErrorCategory(ErrCodeInvalidForm))
	assert.Equal(t, "OTHER", GetErrorCategory(ErrCodeInternal))
}

func TestIsRetryableErrorCode(t *testing.T) {
	assert.True(t, IsRetryableErrorCode(ErrCodeStoreUnavailable))
	assert.False(t, IsRetryableErrorCode(ErrCodeForbidden))
}

// ==========================
// Responder Tests
// ==========================

type recordingLogger struct {
	warns  []map[string]interface{}
	errors []map[string]interface{}
}

func (l *recordingLogger) Warn(_ string, fields map[string]interface{}) {
	l.warns = append(l.warns, fields)
}

func (l *recordingLogger) Error(_ string, fields map[string]interface{}) {
	l.errors = append(l.errors, fields)
}

func TestResponder_Respond(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   ErrorCode
		validate   func(t *testing.T, body ErrorBody, log *recordingLogger)
	}{
		{
			name:       "malformed response hides raw text from client",
			err:        NewMalformedResponseError("sorry, I cannot help"),
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   ErrCodeMalformedResponse,
			validate: func(t *testing.T, body ErrorBody, log *recordingLogger) {
				assert.Nil(t, body.Error.Metadata)
				assert.Equal(t, UserNoticeValidationFailed, body.Error.Message)
				require.Len(t, log.warns, 1)
				assert.Equal(t, "sorry, I cannot help", log.warns[0]["raw"])
			},
		},
		{
			name:       "unknown error becomes internal without details",
			err:        stderrors.New("pq: connection refused"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   ErrCodeInternal,
			validate: func(t *testing.T, body ErrorBody, log *recordingLogger) {
				assert.Empty(t, body.Error.Details)
				require.Len(t, log.errors, 1)
				assert.Equal(t, "pq: connection refused", log.errors[0]["details"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := &recordingLogger{}
			responder := NewResponder(log)

			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/api/validations", nil)

			responder.Respond(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.True(t, c.IsAborted())

			var body ErrorBody
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.wantCode, body.Error.Code)

			if tt.validate != nil {
				tt.validate(t, body, log)
			}
		})
	}
}
