package handler

import (
	"net/http"

	"pudahuelpos/internal/dto"
	"pudahuelpos/internal/service"

	"github.com/gin-gonic/gin"
)

type GastoHandler struct{ svc service.GastoService }

func NewGastoHandler(svc service.GastoService) *GastoHandler { return &GastoHandler{svc: svc} }

// Registrar godoc
// @Summary Registra un gasto de caja en el turno abierto
// @Tags gastos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.RegistrarGastoRequest true "Datos del gasto"
// @Success 201 {object} dto.GastoResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/gastos [post]
func (h *GastoHandler) Registrar(c *gin.Context) {
	var req dto.RegistrarGastoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Registrar(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListarTurnoActual returns the open shift's expenses with their sum.
func (h *GastoHandler) ListarTurnoActual(c *gin.Context) {
	resp, err := h.svc.ListarTurnoActual(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListarPorTurno returns the expenses of a given shift (open or closed).
func (h *GastoHandler) ListarPorTurno(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ListarPorTurno(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
