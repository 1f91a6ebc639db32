package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearInventarioRequest struct {
	ProductoID  string `json:"producto_id"  validate:"required,uuid"`
	SedeID      string `json:"sede_id"      validate:"required,uuid"`
	StockActual int    `json:"stock_actual" validate:"min=0"`
	StockMinimo int    `json:"stock_minimo" validate:"min=0"`
	StockMaximo int    `json:"stock_maximo" validate:"min=0"`
}

type ActualizarInventarioRequest struct {
	StockMinimo *int `json:"stock_minimo" validate:"omitempty,min=0"`
	StockMaximo *int `json:"stock_maximo" validate:"omitempty,min=0"`
}

// AjustarStockRequest is the manual adjustment path. Cantidad is the delta:
// positive for entrada, negative for salida.
type AjustarStockRequest struct {
	Cantidad int     `json:"cantidad" validate:"required"`
	Motivo   *string `json:"motivo"`
}

// ─── Filter ──────────────────────────────────────────────────────────────────

type InventarioFilter struct {
	SedeID     string `form:"sede_id"`
	ProductoID string `form:"producto_id"`
	BajoMinimo bool   `form:"bajo_minimo"`
	Page       int    `form:"page,default=1"   validate:"min=1"`
	Limit      int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type InventarioResponse struct {
	ID          string           `json:"id"`
	ProductoID  string           `json:"producto_id"`
	SedeID      string           `json:"sede_id"`
	Producto    *string          `json:"producto"`
	Marca       *string          `json:"marca"`
	PrecioVenta *decimal.Decimal `json:"precio_venta"`
	Sede        *string          `json:"sede"`
	StockActual int              `json:"stock_actual"`
	StockMinimo int              `json:"stock_minimo"`
	StockMaximo int              `json:"stock_maximo"`
	UpdatedAt   string           `json:"updated_at"`
}

type InventarioListResponse struct {
	Data  []InventarioResponse `json:"data"`
	Total int64                `json:"total"`
	Page  int                  `json:"page"`
	Limit int                  `json:"limit"`
}

type MovimientoStockResponse struct {
	ID            string  `json:"id"`
	ProductoID    string  `json:"producto_id"`
	SedeID        string  `json:"sede_id"`
	Producto      *string `json:"producto"`
	Tipo          string  `json:"tipo"`
	Cantidad      int     `json:"cantidad"`
	StockAnterior int     `json:"stock_anterior"`
	StockNuevo    int     `json:"stock_nuevo"`
	Motivo        string  `json:"motivo"`
	ReferenciaID  *string `json:"referencia_id"`
	CreatedAt     string  `json:"created_at"`
}

type MovimientoListResponse struct {
	Data  []MovimientoStockResponse `json:"data"`
	Total int64                     `json:"total"`
	Page  int                       `json:"page"`
	Limit int                       `json:"limit"`
}
