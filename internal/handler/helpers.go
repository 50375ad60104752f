package handler

import (
	"errors"
	"net/http"
	"reflect"

	"pudahuelpos/internal/apierror"
	"pudahuelpos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
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
// Returns false and writes the error response if validation fails;
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

// abortWithError maps a service error to its HTTP status and writes the
// envelope. Sentinels carry the status semantics; anything unknown is a 500
// routed through the error handler middleware (no internals leak).
func abortWithError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrVentaNoEncontrada),
		errors.Is(err, service.ErrClienteNoEncontrado),
		errors.Is(err, service.ErrProductoNoEncontrado),
		errors.Is(err, service.ErrTurnoNoEncontrado):
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
	case errors.Is(err, service.ErrTurnoYaAbierto),
		errors.Is(err, service.ErrStockInsuficiente):
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
	case errors.Is(err, service.ErrCarritoVacio),
		errors.Is(err, service.ErrSinTurnoActivo),
		errors.Is(err, service.ErrEfectivoInsuficiente),
		errors.Is(err, service.ErrClienteRequerido),
		errors.Is(err, service.ErrNadaParaDevolver),
		errors.Is(err, service.ErrClienteNoAutorizado),
		errors.Is(err, service.ErrLimiteExcedido),
		errors.Is(err, service.ErrMontoInvalido),
		errors.Is(err, service.ErrMontoExcedeSaldo),
		errors.Is(err, service.ErrAperturaInvalida),
		errors.Is(err, service.ErrCierreInvalido),
		errors.Is(err, service.ErrProveedorRequerido):
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, apierror.New("Error interno del servidor"))
	}
}

// parseID reads a UUID path param, writing the 400 response on failure.
func parseID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return uuid.Nil, false
	}
	return id, true
}
