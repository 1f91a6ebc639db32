package handler

import (
	"net/http"

	"github.com/MarcoAguilar2002/perfum/internal/apierror"
	"github.com/MarcoAguilar2002/perfum/internal/dto"
	"github.com/MarcoAguilar2002/perfum/internal/repository"
	"github.com/MarcoAguilar2002/perfum/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type InventarioHandler struct{ svc service.InventarioService }

func NewInventarioHandler(svc service.InventarioService) *InventarioHandler {
	return &InventarioHandler{svc: svc}
}

// Crear godoc
// @Summary      Crear registro de inventario
// @Description  Vincula un producto a una sede con su stock inicial. Un par (producto, sede) solo puede existir una vez.
// @Tags         inventario
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CrearInventarioRequest true "Registro"
// @Success      201  {object} dto.InventarioResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/inventario [post]
func (h *InventarioHandler) Crear(c *gin.Context) {
	var req dto.CrearInventarioRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CrearRegistro(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *InventarioHandler) Listar(c *gin.Context) {
	var filter dto.InventarioFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar inventario"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *InventarioHandler) ObtenerPorID(c *gin.Context) {
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

func (h *InventarioHandler) ActualizarUmbrales(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.ActualizarInventarioRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ActualizarUmbrales(c.Request.Context(), id, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AjustarStock godoc
// @Summary      Ajuste manual de stock
// @Description  Aplica un delta manual (positivo o negativo) al stock de un registro. Rechaza ajustes que dejarían el stock en negativo.
// @Tags         inventario
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                  true "UUID del registro"
// @Param        body body dto.AjustarStockRequest true "Delta y motivo"
// @Success      200  {object} dto.InventarioResponse
// @Failure      422  {object} apierror.APIError
// @Router       /v1/inventario/{id}/ajustar [patch]
func (h *InventarioHandler) AjustarStock(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.AjustarStockRequest
	if !bindAndValidate(c, &req) {
		return
	}

	// The negative guard lives here, not in the ledger. It projects from a
	// read made in this request; a concurrent adjustment between this read
	// and the write can still drive the stored value below zero.
	actual, err := h.svc.ObtenerPorID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if actual.StockActual+req.Cantidad < 0 {
		c.JSON(http.StatusUnprocessableEntity, apierror.New("El ajuste dejaría el stock en negativo"))
		return
	}

	resp, err := h.svc.AjustarStock(c.Request.Context(), id, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *InventarioHandler) Eliminar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	if err := h.svc.Eliminar(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListarMovimientos exposes the stock audit trail.
func (h *InventarioHandler) ListarMovimientos(c *gin.Context) {
	filter := repository.MovimientoStockFilter{
		Tipo: c.Query("tipo"),
	}
	if raw := c.Query("producto_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("producto_id invalido"))
			return
		}
		filter.ProductoID = &id
	}
	if raw := c.Query("sede_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("sede_id invalido"))
			return
		}
		filter.SedeID = &id
	}
	if page, err := parsePositiveInt(c.Query("page")); err == nil {
		filter.Page = page
	}
	if limit, err := parsePositiveInt(c.Query("limit")); err == nil {
		filter.Limit = limit
	}

	resp, err := h.svc.ListarMovimientos(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar movimientos"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
