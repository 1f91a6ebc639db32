package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Producto is a catalog item (a perfume). Identity is immutable; pricing and
// activo are mutable. Stock is NOT tracked here — see Inventario, which holds
// one row per (producto, sede).
type Producto struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre       string    `gorm:"index;not null"`
	Descripcion  *string
	Marca        *string         `gorm:"index"`
	CategoriaID  *uuid.UUID      `gorm:"type:uuid;index"`
	PrecioCompra decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	PrecioVenta  decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CodigoBarras *string         `gorm:"uniqueIndex"`
	ImagenURL    *string
	Activo       bool `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Categoria *Categoria `gorm:"foreignKey:CategoriaID"`
}
