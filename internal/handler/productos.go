package handler

import (
	"net/http"

	"pudahuelpos/internal/dto"
	"pudahuelpos/internal/service"

	"github.com/gin-gonic/gin"
)

type ProductoHandler struct{ svc service.ProductoService }

func NewProductoHandler(svc service.ProductoService) *ProductoHandler {
	return &ProductoHandler{svc: svc}
}

// Crear godoc
// @Summary Crea un producto en el catalogo
// @Tags productos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CrearProductoRequest true "Datos del producto"
// @Success 201 {object} dto.ProductoResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/productos [post]
func (h *ProductoHandler) Crear(c *gin.Context) {
	var req dto.CrearProductoRequest
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

// Listar returns the catalog filtered by barcode, name or category.
func (h *ProductoHandler) Listar(c *gin.Context) {
	var filter dto.ProductoFilter
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

// StockBajo lists active products at or under their alert threshold.
func (h *ProductoHandler) StockBajo(c *gin.Context) {
	resp, err := h.svc.ListarStockBajo(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// Obtener returns one product by id.
func (h *ProductoHandler) Obtener(c *gin.Context) {
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

// Actualizar godoc
// @Summary Actualiza datos del producto (no toca el stock)
// @Tags productos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID del producto"
// @Param body body dto.ActualizarProductoRequest true "Campos a actualizar"
// @Success 200 {object} dto.ProductoResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/productos/{id} [put]
func (h *ProductoHandler) Actualizar(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.ActualizarProductoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), id, req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AjustarStock godoc
// @Summary Aplica un ajuste manual de stock (delta con motivo)
// @Tags productos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID del producto"
// @Param body body dto.AjustarStockRequest true "Delta y motivo"
// @Success 200 {object} dto.ProductoResponse
// @Failure 400 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Router /v1/productos/{id}/stock [patch]
func (h *ProductoHandler) AjustarStock(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.AjustarStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AjustarStock(c.Request.Context(), id, req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Desactivar soft-deletes a product; its history stays intact.
func (h *ProductoHandler) Desactivar(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Desactivar(c.Request.Context(), id); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
