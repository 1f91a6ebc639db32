package handler

import (
	"errors"
	"net/http"
	"reflect"
	"strconv"

	"github.com/MarcoAguilar2002/perfum/internal/apierror"
	"github.com/MarcoAguilar2002/perfum/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON invalido: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

func parsePositiveInt(raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, strconv.ErrRange
	}
	return n, nil
}

// respondServiceError maps business-layer sentinels to HTTP statuses.
// Anything unknown is surfaced as a 500 with a generic message.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNoEncontrado):
		c.JSON(http.StatusNotFound, apierror.New("Registro no encontrado"))
	case errors.Is(err, service.ErrCarritoVacio),
		errors.Is(err, service.ErrCantidadInvalida):
		c.JSON(http.StatusUnprocessableEntity, apierror.New(err.Error()))
	case errors.Is(err, service.ErrSinSedeAsignada):
		c.JSON(http.StatusForbidden, apierror.New(err.Error()))
	case errors.Is(err, service.ErrInventarioDuplicado),
		errors.Is(err, service.ErrClienteDuplicado),
		errors.Is(err, service.ErrCategoriaDuplicada),
		errors.Is(err, service.ErrEmailDuplicado),
		errors.Is(err, service.ErrVentaYaCancelada):
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
	default:
		c.JSON(http.StatusInternalServerError, apierror.New("Error interno"))
	}
}
