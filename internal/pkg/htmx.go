package pkg

import (
	"net/http"

	"github.com/gin-gonic/gin"
	jsoniter "github.com/json-iterator/go"
)

// htmx request and response headers.
const (
	HeaderHXRequest     = "HX-Request"
	HeaderHXTriggerName = "HX-Trigger-Name"
	HeaderHXTrigger     = "HX-Trigger"
	HeaderHXReplaceURL  = "HX-Replace-Url"
	HeaderHXReswap      = "HX-Reswap"
	HeaderHXRedirect    = "HX-Redirect"
)

// Client-side events raised through HX-Trigger.
const (
	EventShowToast   = "showToast"
	EventListRefresh = "listRefresh"
)

// Toast types understood by the dashboard's toast container.
const (
	ToastTypeSuccess = "success"
	ToastTypeError   = "error"
)

var triggerJSON = jsoniter.ConfigCompatibleWithStandardLibrary

const triggersKey = "pkg.hx_triggers"

// IsHTMX reports whether the request was issued by htmx.
func IsHTMX(c *gin.Context) bool {
	return c.GetHeader(HeaderHXRequest) == "true"
}

// Trigger adds a client-side event to the HX-Trigger header. Events added in
// the same request are merged into one JSON object.
func Trigger(c *gin.Context, event string, detail any) {
	events, _ := c.Get(triggersKey)
	m, _ := events.(map[string]any)
	if m == nil {
		m = make(map[string]any, 2)
		c.Set(triggersKey, m)
	}
	m[event] = detail

	header, err := triggerJSON.Marshal(m)
	if err != nil {
		return
	}
	c.Header(HeaderHXTrigger, string(header))
}

// Toast raises a showToast event.
func Toast(c *gin.Context, message, toastType string) {
	Trigger(c, EventShowToast, map[string]string{
		"message": message,
		"type":    toastType,
	})
}

// ToastError shows an error toast and tells htmx not to swap the response,
// keeping the current table in place.
func ToastError(c *gin.Context, message string) {
	Toast(c, message, ToastTypeError)
	c.Header(HeaderHXReswap, "none")
	c.Status(http.StatusOK)
}

// BindOrToast binds the request to obj like BindAndValidate, but reports a
// failure as an error toast for htmx controls: message, followed by the
// offending fields when the body failed validation. The bind error is
// returned for logging.
func BindOrToast(c *gin.Context, obj any, message string) error {
	err := c.ShouldBind(obj)
	if err == nil {
		return nil
	}
	if fields, ok := FieldErrors(err, obj); ok {
		message += " (" + FieldErrorSummary(fields) + ")"
	}
	ToastError(c, message)
	return err
}

// TriggerName returns the name attribute of the control that issued an htmx
// request, or "".
func TriggerName(c *gin.Context) string {
	if !IsHTMX(c) {
		return ""
	}
	return c.GetHeader(HeaderHXTriggerName)
}

// ReplaceURL asks htmx to replace the browser URL without navigating.
func ReplaceURL(c *gin.Context, url string) {
	c.Header(HeaderHXReplaceURL, url)
}
