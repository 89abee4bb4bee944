package http

import (
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"postboard/pkg/apperror"
	"postboard/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var fieldNamesOnce sync.Once

// useJSONFieldNames makes validation errors report json tag names, so a
// missing "username" is reported as username and not Username.
func useJSONFieldNames() {
	fieldNamesOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return field.Name
			}
			return name
		})
	})
}

func respondError(c *gin.Context, log *logger.Logger, err error) {
	status := apperror.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		log.Error("[%s %s] %v", c.Request.Method, c.FullPath(), err)
	}
	c.JSON(status, gin.H{"error": apperror.PublicMessage(err)})
}

// bindError turns a gin binding failure into a validation error naming every
// missing field.
func bindError(err error) error {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		fields := make([]string, 0, len(validationErrors))
		for _, fe := range validationErrors {
			fields = append(fields, fe.Field())
		}
		return apperror.Validation("missing required fields: " + strings.Join(fields, ", "))
	}
	return apperror.Validation("invalid request body")
}

// bindOptional binds the body if there is one. An absent body leaves req
// untouched.
func bindOptional(c *gin.Context, req interface{}) error {
	if c.Request.Body == nil || c.Request.Body == http.NoBody || c.Request.ContentLength == 0 {
		return nil
	}
	if err := c.ShouldBind(req); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return bindError(err)
	}
	return nil
}
