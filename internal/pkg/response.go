package pkg

import (
	"errors"
	"net/http"
	"reflect"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/TechnoWorldDev/BRR-FE-sub005/internal/domain"
)

// Response is the standard JSON envelope for API responses.
type Response struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// ValidationErrorResponse is the JSON envelope for validation error responses.
type ValidationErrorResponse struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors"`
}

// Success sends a 200 JSON response with the given data.
func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Response{
		Code:    http.StatusOK,
		Message: "success",
		Data:    data,
	})
}

// List sends a 200 JSON response carrying a list view: items plus the
// pagination and filter state they were fetched for.
func List(c *gin.Context, view any) {
	Success(c, view)
}

// Error sends a JSON error response. A *domain.AppError is mapped to its HTTP
// status; its message is exposed only for user-facing codes.
func Error(c *gin.Context, err error) {
	status := domain.HTTPStatusCode(err)
	c.JSON(status, Response{
		Code:    status,
		Message: SafeMessage(err, "internal error"),
		Data:    nil,
	})
}

// SafeMessage returns the message of a user-facing AppError (not found,
// validation, unauthorized, forbidden) and fallback for anything else, so
// upstream and internal details never reach the browser.
func SafeMessage(err error, fallback string) string {
	var appErr *domain.AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		switch appErr.Code {
		case domain.CodeNotFound, domain.CodeValidation, domain.CodeUnauthorized, domain.CodeForbidden:
			return appErr.Message
		}
	}
	return fallback
}

// BindAndValidate binds the request to obj and validates it. On failure it
// sends a 400 with per-field errors and returns false:
//
//	if !pkg.BindAndValidate(c, &req) { return }
func BindAndValidate(c *gin.Context, obj any) bool {
	if err := c.ShouldBind(obj); err != nil {
		validationError(c, err, obj)
		return false
	}
	return true
}

func validationError(c *gin.Context, err error, obj any) {
	fields, ok := FieldErrors(err, obj)
	if !ok {
		c.JSON(http.StatusBadRequest, Response{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
			Data:    nil,
		})
		return
	}

	c.JSON(http.StatusBadRequest, ValidationErrorResponse{
		Code:    http.StatusBadRequest,
		Message: "validation error",
		Errors:  fields,
	})
}

// FieldErrors flattens validator errors into field -> rule ("oneof=A B").
// Field names prefer the json tag of obj when obj is a struct. It reports
// false when err is not a validation error.
func FieldErrors(err error, obj any) (map[string]string, bool) {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return nil, false
	}

	jsonTags := buildJSONTagMap(obj)
	fields := make(map[string]string, len(ve))
	for _, fe := range ve {
		name, ok := jsonTags[fe.StructField()]
		if !ok {
			name = strings.ToLower(fe.Field())
		}
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		fields[name] = rule
	}
	return fields, true
}

// FieldErrorSummary renders field errors as "field: rule" pairs in field
// order, for toasts.
func FieldErrorSummary(fields map[string]string) string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+fields[name])
	}
	return strings.Join(parts, ", ")
}

func buildJSONTagMap(obj any) map[string]string {
	if obj == nil {
		return nil
	}
	t := reflect.TypeOf(obj)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}
	m := make(map[string]string, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if name := jsonTagName(f.Tag.Get("json")); name != "" {
			m[f.Name] = name
		}
	}
	return m
}

func jsonTagName(tag string) string {
	name, _, _ := strings.Cut(tag, ",")
	if name == "-" {
		return ""
	}
	return name
}
