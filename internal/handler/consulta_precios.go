package handler

import (
	"errors"
	"net/http"

	"github.com/MarcoAguilar2002/perfum/internal/apierror"
	"github.com/MarcoAguilar2002/perfum/internal/service"

	"github.com/gin-gonic/gin"
)

// ConsultaPreciosHandler serves the public price check endpoint.
// No authentication required — no side effects whatsoever.
type ConsultaPreciosHandler struct {
	svc service.ProductoService
}

func NewConsultaPreciosHandler(svc service.ProductoService) *ConsultaPreciosHandler {
	return &ConsultaPreciosHandler{svc: svc}
}

// GetPrecioPorBarcode godoc
// @Summary Consulta de precio por codigo de barras (sin autenticacion)
// @Tags precio
// @Produce json
// @Param barcode path string true "Codigo de barras"
// @Success 200 {object} dto.ConsultaPreciosResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/precio/{barcode} [get]
func (h *ConsultaPreciosHandler) GetPrecioPorBarcode(c *gin.Context) {
	barcode := c.Param("barcode")

	resp, err := h.svc.ConsultarPrecio(c.Request.Context(), barcode)
	if err != nil {
		if errors.Is(err, service.ErrNoEncontrado) {
			c.JSON(http.StatusNotFound, apierror.New("Producto no encontrado"))
			return
		}
		c.JSON(http.StatusInternalServerError, apierror.New("Error interno"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
