package api

import (
	"errors"
	"net/http"
	"sync"

	"gymclass/internal/timerange"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

var registerOnce sync.Once

// RegisterValidators installs the custom binding tags on gin's validator.
// Safe to call more than once.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
			return timerange.ValidClock(fl.Field().String())
		})
		_ = v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
			_, err := timerange.ParseDate(fl.Field().String())
			return err == nil
		})
	})
}

// BindJSON binds the request body into req. On failure it writes a 400
// envelope and returns false.
func BindJSON(c *gin.Context, req any) bool {
	return bindWith(c, req, c.ShouldBindJSON)
}

// BindQuery is BindJSON for query strings.
func BindQuery(c *gin.Context, req any) bool {
	return bindWith(c, req, c.ShouldBindQuery)
}

func bindWith(c *gin.Context, req any, bind func(any) error) bool {
	err := bind(req)
	if err == nil {
		return true
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make([]ValidationError, 0, len(verrs))
		for _, fe := range verrs {
			details = append(details, ValidationError{
				Field:   fe.Field(),
				Tag:     fe.Tag(),
				Message: errorMessage(fe),
			})
		}
		FailWithDetails(c, http.StatusBadRequest, "Validation failed", details)
		return false
	}

	FailWithDetails(c, http.StatusBadRequest, "Invalid request body", err.Error())
	return false
}

func errorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return err.Field() + " is required"
	case "email":
		return err.Field() + " must be a valid email address"
	case "min":
		return err.Field() + " must be at least " + err.Param()
	case "max":
		return err.Field() + " must be at most " + err.Param()
	case "gte":
		return err.Field() + " must be greater than or equal to " + err.Param()
	case "lte":
		return err.Field() + " must be less than or equal to " + err.Param()
	case "oneof":
		return err.Field() + " must be one of: " + err.Param()
	case "hhmm":
		return err.Field() + " must be in HH:mm format (e.g., 10:00)"
	case "isodate":
		return err.Field() + " must be in ISO format (YYYY-MM-DD)"
	default:
		return err.Field() + " is invalid"
	}
}
