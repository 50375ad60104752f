package handler

import (
	"net/http"

	"pudahuelpos/internal/dto"
	"pudahuelpos/internal/service"

	"github.com/gin-gonic/gin"
)

type FiadoHandler struct{ svc service.FiadoService }

func NewFiadoHandler(svc service.FiadoService) *FiadoHandler { return &FiadoHandler{svc: svc} }

// Crear godoc
// @Summary Crea un cliente de fiado
// @Tags fiados
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CrearClienteRequest true "Datos del cliente"
// @Success 201 {object} dto.ClienteResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/fiados [post]
func (h *FiadoHandler) Crear(c *gin.Context) {
	var req dto.CrearClienteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Listar returns every credit client with balance and headroom.
func (h *FiadoHandler) Listar(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// Detalle godoc
// @Summary Cliente con su historial de movimientos
// @Tags fiados
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID del cliente"
// @Success 200 {object} dto.ClienteDetalleResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/fiados/{id} [get]
func (h *FiadoHandler) Detalle(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Detalle(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RegistrarPago godoc
// @Summary Registra un abono o pago total de la deuda
// @Tags fiados
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID del cliente"
// @Param body body dto.RegistrarPagoRequest true "Modo y monto"
// @Success 200 {object} dto.ClienteResponse
// @Failure 400 {object} apierror.APIError
// @Failure 404 {object} apierror.APIError
// @Router /v1/fiados/{id}/pagos [post]
func (h *FiadoHandler) RegistrarPago(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.RegistrarPagoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RegistrarPago(c.Request.Context(), id, req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// SetAutorizacion toggles whether the client may buy on credit (admin only).
func (h *FiadoHandler) SetAutorizacion(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.AutorizacionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.SetAutorizacion(c.Request.Context(), id, req.Autorizado)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
