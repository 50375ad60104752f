package handler

import (
	"net/http"
	"strconv"

	"pudahuelpos/internal/apierror"
	"pudahuelpos/internal/dto"
	"pudahuelpos/internal/service"

	"github.com/gin-gonic/gin"
)

type TurnoHandler struct{ svc service.TurnoService }

func NewTurnoHandler(svc service.TurnoService) *TurnoHandler { return &TurnoHandler{svc: svc} }

// Abrir godoc
// @Summary Abre un nuevo turno
// @Tags turnos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.AbrirTurnoRequest true "Datos de apertura"
// @Success 201 {object} dto.TurnoResponse
// @Failure 400 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Router /v1/turnos/abrir [post]
func (h *TurnoHandler) Abrir(c *gin.Context) {
	var req dto.AbrirTurnoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Abrir(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Cerrar godoc
// @Summary Cierra el turno abierto con el arqueo ciego de efectivo
// @Tags turnos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CerrarTurnoRequest true "Efectivo contado"
// @Success 200 {object} dto.TurnoResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/turnos/cerrar [post]
func (h *TurnoHandler) Cerrar(c *gin.Context) {
	var req dto.CerrarTurnoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Cerrar(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Actual returns the open shift, 404 when the register is closed.
func (h *TurnoHandler) Actual(c *gin.Context) {
	resp, err := h.svc.Actual(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	if resp == nil {
		c.JSON(http.StatusNotFound, apierror.New("No hay un turno abierto"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Resumen godoc
// @Summary Resumen en vivo del turno abierto
// @Tags turnos
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.ResumenTurnoResponse
// @Router /v1/turnos/resumen [get]
func (h *TurnoHandler) Resumen(c *gin.Context) {
	resp, err := h.svc.Resumen(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Historial returns a paginated list of closed shifts.
func (h *TurnoHandler) Historial(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	resp, err := h.svc.Historial(c.Request.Context(), page, limit)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
