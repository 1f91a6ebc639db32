package handler

import (
	"net/http"

	"github.com/MarcoAguilar2002/perfum/internal/apierror"
	"github.com/MarcoAguilar2002/perfum/internal/dto"
	"github.com/MarcoAguilar2002/perfum/internal/middleware"
	"github.com/MarcoAguilar2002/perfum/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type VentasHandler struct{ svc service.VentaService }

func NewVentasHandler(svc service.VentaService) *VentasHandler { return &VentasHandler{svc: svc} }

// Registrar godoc
// @Summary      Registrar una nueva venta
// @Description  Crea la venta con sus detalles y descuenta stock por línea en la sede del vendedor.
// @Tags         ventas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.RegistrarVentaRequest true "Detalle de la venta"
// @Success      201  {object} dto.VentaResponse
// @Failure      403  {object} apierror.APIError
// @Failure      422  {object} apierror.APIError
// @Router       /v1/ventas [post]
func (h *VentasHandler) Registrar(c *gin.Context) {
	var req dto.RegistrarVentaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.RegistrarVenta(c.Request.Context(), usuarioID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Cancelar godoc
// @Summary      Cancelar venta
// @Description  Marca la venta como cancelada. El stock descontado al vender NO se repone.
// @Tags         ventas
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID de la venta"
// @Success      200 {object} dto.VentaResponse
// @Failure      409 {object} apierror.APIError
// @Router       /v1/ventas/{id}/cancelar [post]
func (h *VentasHandler) Cancelar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.svc.CancelarVenta(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *VentasHandler) ObtenerPorID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.svc.ObtenerPorID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Listar godoc
// @Summary      Listar ventas
// @Tags         ventas
// @Produce      json
// @Security     BearerAuth
// @Param        estado  query string false "pendiente | completada | cancelada | all"
// @Param        sede_id query string false "Filtro por sede"
// @Param        desde   query string false "Fecha YYYY-MM-DD"
// @Param        hasta   query string false "Fecha YYYY-MM-DD"
// @Success      200 {object} dto.VentaListResponse
// @Router       /v1/ventas [get]
func (h *VentasHandler) Listar(c *gin.Context) {
	var filter dto.VentaFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar ventas"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Recibo streams the PDF receipt of a sale.
func (h *VentasHandler) Recibo(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	path, err := h.svc.GenerarRecibo(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.Header("Content-Disposition", "inline; filename=recibo.pdf")
	c.File(path)
}
