package validation

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"
)

// Override replaces the structured 422 body for one route with a fixed status and detail.
type Override struct {
	Status int
	Detail string
}

// BindAndValidate decodes the JSON body into `out` with DecodeStrict and runs validation.
// On failure it records a *RequestError on the context and returns it; the handler should return
// and let Responder write the response.
func BindAndValidate(c *gin.Context, out interface{}, v *validatorv10.Validate) error {
	var body []byte
	if c.Request.Body != nil {
		var err error
		if body, err = c.GetRawData(); err != nil {
			reqErr := FromBindError(err)
			_ = c.Error(reqErr).SetType(gin.ErrorTypeBind)
			return reqErr
		}
	}
	if err := DecodeStrict(body, out); err != nil {
		reqErr := FromBindError(err)
		_ = c.Error(reqErr).SetType(gin.ErrorTypeBind)
		return reqErr
	}

	if err := v.Struct(out); err != nil {
		var reqErr *RequestError
		var ve validatorv10.ValidationErrors
		if errors.As(err, &ve) {
			reqErr = FromValidationErrors(ve)
		} else {
			reqErr = FromBindError(err)
		}
		_ = c.Error(reqErr).SetType(gin.ErrorTypeBind)
		return reqErr
	}
	return nil
}

// Responder writes request validation failures once the handler chain returns.
// Routes listed in overrides (keyed by gin route path) get their fixed status and detail,
// everything else gets 422 with the list of field errors.
func Responder(overrides map[string]Override) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}
		var reqErr *RequestError
		for _, ginErr := range c.Errors.ByType(gin.ErrorTypeBind) {
			if errors.As(ginErr.Err, &reqErr) {
				break
			}
		}
		if reqErr == nil {
			return
		}

		if o, ok := overrides[c.FullPath()]; ok {
			c.JSON(o.Status, gin.H{"detail": o.Detail})
			return
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": reqErr.Fields})
	}
}
