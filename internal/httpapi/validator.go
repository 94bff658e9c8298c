package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/tanqtrail-arch/Absence/internal/model"
)

// RequestValidator plugs go-playground/validator into echo's c.Validate.
type RequestValidator struct {
	v *validator.Validate
}

// NewRequestValidator registers the domain tags slotdate, slottime and eventtype.
func NewRequestValidator() *RequestValidator {
	v := validator.New()

	mustRegister(v, "slotdate", func(fl validator.FieldLevel) bool {
		return model.IsValidDate(fl.Field().String())
	})
	mustRegister(v, "slottime", func(fl validator.FieldLevel) bool {
		return model.IsValidSlotTime(fl.Field().String())
	})
	mustRegister(v, "eventtype", func(fl validator.FieldLevel) bool {
		return model.EventType(fl.Field().String()).IsValid()
	})
	mustRegister(v, "topic", func(fl validator.FieldLevel) bool {
		topic := fl.Field().String()
		for _, t := range model.ConsultationTopics {
			if t == topic {
				return true
			}
		}
		return false
	})

	return &RequestValidator{v: v}
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s validation: %v", tag, err))
	}
}

// Validate implements echo.Validator.
func (rv *RequestValidator) Validate(i interface{}) error {
	if err := rv.v.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, describe(err))
	}
	return nil
}

func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed on %s", fe.Field(), fe.Tag()))
	}
	return strings.Join(msgs, "; ")
}
