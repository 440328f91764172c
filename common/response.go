package common

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
}

var tagNamesOnce sync.Once

// UseJSONFieldNames makes validation errors report the JSON key instead of
// the Go field name.
func UseJSONFieldNames() {
	tagNamesOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			if name == "" {
				return fld.Name
			}
			return name
		})
	})
}

// BindStrict decodes a JSON body rejecting unknown keys, then runs the
// binding validator on the result.
func BindStrict(c *gin.Context, obj any) error {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return err
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(obj); err != nil {
		return err
	}
	if dec.More() {
		return errors.New("unexpected data after JSON body")
	}
	return binding.Validator.ValidateStruct(obj)
}

func ParseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 0)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: MsgInvalidData,
			Errors:  []FieldError{{Field: "id", Message: MsgInvalidID}},
		})
		return 0, false
	}
	return uint(id), true
}

// ValidationErrors maps binding/decoding failures to per-field messages.
func ValidationErrors(err error) []FieldError {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make([]FieldError, 0, len(verrs))
		for _, fe := range verrs {
			out = append(out, FieldError{Field: fe.Field(), Message: fieldMessage(fe)})
		}
		return out
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		field := typeErr.Field
		if field == "" {
			field = "body"
		}
		return []FieldError{{Field: field, Message: MsgFieldInvalid}}
	}

	if field, ok := strings.CutPrefix(err.Error(), "json: unknown field "); ok {
		if unquoted, err := strconv.Unquote(field); err == nil {
			field = unquoted
		}
		return []FieldError{{Field: field, Message: MsgFieldUnknown}}
	}

	return []FieldError{{Field: "body", Message: MsgFieldInvalid}}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return MsgFieldRequired
	case "min":
		return MsgFieldTooShort
	case "email":
		return MsgFieldInvalidEmail
	case "oneof":
		return MsgFieldInvalidChoice
	}
	return MsgFieldInvalid
}

func AbortValidation(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{
		Message: MsgInvalidData,
		Errors:  ValidationErrors(err),
	})
}

func AbortMessage(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Message: message})
}

// AbortInternal logs err and answers the generic 500 body. The error text
// never reaches the client.
func AbortInternal(c *gin.Context, log *zap.Logger, err error) {
	_ = c.Error(err)
	log.Error("request failed",
		zap.Error(err),
		zap.String("path", c.Request.URL.Path),
		zap.String("request_id", RequestIDFrom(c)),
	)
	c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Message: MsgInternal})
}
