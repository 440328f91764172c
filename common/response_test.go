package common

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type strictPatch struct {
	Title *string `json:"title" binding:"omitnil,min=1"`
	Kind  *string `json:"kind" binding:"omitnil,oneof=a b"`
}

type createInput struct {
	Name  string `json:"name" binding:"required,min=2"`
	Email string `json:"email" binding:"required,email"`
}

func newContext(method, body string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return c, w
}

func TestBindStrict(t *testing.T) {
	UseJSONFieldNames()

	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"valid", `{"title":"x"}`, ""},
		{"empty object", `{}`, ""},
		{"unknown field", `{"id":3}`, "id"},
		{"wrong type", `{"title":5}`, "title"},
		{"empty title", `{"title":""}`, "title"},
		{"bad choice", `{"kind":"c"}`, "kind"},
		{"trailing data", `{} {}`, "body"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newContext(http.MethodPut, tt.body)
			var patch strictPatch
			err := BindStrict(c, &patch)
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			errs := ValidationErrors(err)
			require.Len(t, errs, 1)
			assert.Equal(t, tt.field, errs[0].Field)
		})
	}
}

func TestValidationErrors_Messages(t *testing.T) {
	UseJSONFieldNames()

	c, w := newContext(http.MethodPost, `{"name":"a","email":"nope"}`)
	var input createInput
	err := c.ShouldBindJSON(&input)
	require.Error(t, err)
	AbortValidation(c, err)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{
		"message": "`+MsgInvalidData+`",
		"errors": [
			{"field": "name", "message": "`+MsgFieldTooShort+`"},
			{"field": "email", "message": "`+MsgFieldInvalidEmail+`"}
		]
	}`, w.Body.String())
}

func TestParseID(t *testing.T) {
	for _, tt := range []struct {
		param string
		want  uint
		ok    bool
	}{
		{"12", 12, true},
		{"0", 0, false},
		{"-4", 0, false},
		{"abc", 0, false},
	} {
		c, w := newContext(http.MethodGet, "")
		c.Params = gin.Params{{Key: "id", Value: tt.param}}
		id, ok := ParseID(c)
		assert.Equal(t, tt.ok, ok, tt.param)
		assert.Equal(t, tt.want, id, tt.param)
		if !ok {
			assert.Equal(t, http.StatusBadRequest, w.Code)
		}
	}
}

func TestAbortInternal_HidesError(t *testing.T) {
	c, w := newContext(http.MethodGet, "")
	AbortInternal(c, zap.NewNop(), errors.New("pq: relation missing"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"message":"`+MsgInternal+`"}`, w.Body.String())
	assert.Len(t, c.Errors, 1)
}

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestID(), RequestLogger(zap.NewNop()), Recovery(zap.NewNop()))
	router.GET("/id", func(c *gin.Context) { c.String(http.StatusOK, RequestIDFrom(c)) })
	router.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/id", nil))
	assert.NotEmpty(t, w.Body.String())
	assert.Equal(t, w.Body.String(), w.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/id", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Body.String())

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"message":"`+MsgInternal+`"}`, w.Body.String())
}
