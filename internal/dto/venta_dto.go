package dto

import "github.com/shopspring/decimal"

// ─── Filter / List ──────────────────────────────────────────────────────────

// VentaFilter is bound from the query string of GET /v1/ventas.
type VentaFilter struct {
	SedeID string `form:"sede_id"`
	Estado string `form:"estado"` // pendiente | completada | cancelada | all
	Desde  string `form:"desde"`  // YYYY-MM-DD
	Hasta  string `form:"hasta"`  // YYYY-MM-DD
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

type DetalleVentaRequest struct {
	ProductoID     string          `json:"producto_id"     validate:"required,uuid"`
	Cantidad       int             `json:"cantidad"        validate:"required,min=1"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario" validate:"required"`
}

type RegistrarVentaRequest struct {
	ClienteID  *string               `json:"cliente_id"  validate:"omitempty,uuid"`
	MetodoPago string                `json:"metodo_pago" validate:"required,oneof=efectivo tarjeta transferencia otro"`
	Notas      *string               `json:"notas"`
	Detalles   []DetalleVentaRequest `json:"detalles"    validate:"dive"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type DetalleVentaResponse struct {
	ProductoID     string          `json:"producto_id"`
	Producto       string          `json:"producto"`
	Marca          *string         `json:"marca"`
	Cantidad       int             `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}

type VentaResponse struct {
	ID         string                 `json:"id"`
	SedeID     *string                `json:"sede_id"`
	ClienteID  *string                `json:"cliente_id"`
	Cliente    *string                `json:"cliente"`
	UserID     *string                `json:"user_id"`
	Total      decimal.Decimal        `json:"total"`
	MetodoPago string                 `json:"metodo_pago"`
	Estado     string                 `json:"estado"`
	Notas      *string                `json:"notas"`
	Detalles   []DetalleVentaResponse `json:"detalles"`
	CreatedAt  string                 `json:"created_at"`
}

type VentaListResponse struct {
	Data  []VentaResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}
