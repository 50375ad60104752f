package handler

import (
	"net/http"

	"pudahuelpos/internal/dto"
	"pudahuelpos/internal/service"

	"github.com/gin-gonic/gin"
)

type VentaHandler struct{ svc service.VentaService }

func NewVentaHandler(svc service.VentaService) *VentaHandler { return &VentaHandler{svc: svc} }

// Registrar godoc
// @Summary Registra una venta en el turno abierto
// @Tags ventas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.RegistrarVentaRequest true "Carrito y metodo de pago"
// @Success 201 {object} dto.VentaResponse
// @Failure 400 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Router /v1/ventas [post]
func (h *VentaHandler) Registrar(c *gin.Context) {
	var req dto.RegistrarVentaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RegistrarVenta(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Devolucion godoc
// @Summary Registra una devolucion parcial o total de una venta
// @Tags ventas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de la venta original"
// @Param body body dto.RegistrarDevolucionRequest true "Cantidades a devolver"
// @Success 201 {object} dto.VentaResponse
// @Failure 400 {object} apierror.APIError
// @Failure 404 {object} apierror.APIError
// @Router /v1/ventas/{id}/devolucion [post]
func (h *VentaHandler) Devolucion(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.RegistrarDevolucionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RegistrarDevolucion(c.Request.Context(), id, req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// CambiarMetodoPago godoc
// @Summary Corrige el metodo de pago de una venta (solo metadato)
// @Tags ventas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de la venta"
// @Param body body dto.CambiarMetodoPagoRequest true "Nuevo metodo"
// @Success 200 {object} dto.VentaResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/ventas/{id}/metodo-pago [patch]
func (h *VentaHandler) CambiarMetodoPago(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.CambiarMetodoPagoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CambiarMetodoPago(c.Request.Context(), id, req.MetodoPago)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Listar returns a paginated list of tickets, default today's.
func (h *VentaHandler) Listar(c *gin.Context) {
	var filter dto.VentaFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "filtros invalidos"})
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Obtener returns one ticket with its frozen line items.
func (h *VentaHandler) Obtener(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ObtenerPorID(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
