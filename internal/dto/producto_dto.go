package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearProductoRequest struct {
	Nombre       string          `json:"nombre"        validate:"required,min=2,max=120"`
	Descripcion  *string         `json:"descripcion"`
	Marca        *string         `json:"marca"`
	CategoriaID  *string         `json:"categoria_id"  validate:"omitempty,uuid"`
	PrecioCompra decimal.Decimal `json:"precio_compra" validate:"required,min=0"`
	PrecioVenta  decimal.Decimal `json:"precio_venta"  validate:"required,min=0"`
	CodigoBarras *string         `json:"codigo_barras" validate:"omitempty,min=8,max=18"`
	ImagenURL    *string         `json:"imagen_url"`
}

type ActualizarProductoRequest struct {
	Nombre       *string          `json:"nombre"        validate:"omitempty,min=2,max=120"`
	Descripcion  *string          `json:"descripcion"`
	Marca        *string          `json:"marca"`
	CategoriaID  *string          `json:"categoria_id"  validate:"omitempty,uuid"`
	PrecioCompra *decimal.Decimal `json:"precio_compra"`
	PrecioVenta  *decimal.Decimal `json:"precio_venta"`
	CodigoBarras *string          `json:"codigo_barras" validate:"omitempty,min=8,max=18"`
	ImagenURL    *string          `json:"imagen_url"`
	Activo       *bool            `json:"activo"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type ProductoFilter struct {
	Nombre      string `form:"nombre"`
	Marca       string `form:"marca"`
	CategoriaID string `form:"categoria_id"`
	Barcode     string `form:"barcode"`
	Activo      string `form:"activo"` // "true" (default) | "false" | "all"
	Page        int    `form:"page,default=1"   validate:"min=1"`
	Limit       int    `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductoResponse struct {
	ID           string          `json:"id"`
	Nombre       string          `json:"nombre"`
	Descripcion  *string         `json:"descripcion"`
	Marca        *string         `json:"marca"`
	CategoriaID  *string         `json:"categoria_id"`
	Categoria    *string         `json:"categoria"`
	PrecioCompra decimal.Decimal `json:"precio_compra"`
	PrecioVenta  decimal.Decimal `json:"precio_venta"`
	CodigoBarras *string         `json:"codigo_barras"`
	ImagenURL    *string         `json:"imagen_url"`
	Activo       bool            `json:"activo"`
	CreatedAt    string          `json:"created_at"`
}

type ProductoListResponse struct {
	Data  []ProductoResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}

// ConsultaPreciosResponse is returned by the public price check endpoint (no auth required).
type ConsultaPreciosResponse struct {
	Nombre      string          `json:"nombre"`
	Marca       *string         `json:"marca"`
	PrecioVenta decimal.Decimal `json:"precio_venta"`
}
