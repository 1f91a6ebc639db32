package model

import (
	"time"

	"github.com/google/uuid"
)

// MovimientoStock registra cada cambio de stock de un producto en una sede.
// Se crea automáticamente al vender, ajustar, o crear un registro de inventario.
type MovimientoStock struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductoID    uuid.UUID `gorm:"type:uuid;not null;index"`
	SedeID        uuid.UUID `gorm:"type:uuid;not null;index"`
	Tipo          string    `gorm:"not null"` // "venta" | "ajuste_manual" | "creacion"
	Cantidad      int       `gorm:"not null"` // positive = entrada, negative = salida
	StockAnterior int       `gorm:"not null"`
	StockNuevo    int       `gorm:"not null"`
	Motivo        string
	ReferenciaID  *uuid.UUID `gorm:"type:uuid"` // venta_id if applicable
	CreatedAt     time.Time

	Producto *Producto `gorm:"foreignKey:ProductoID"`
	Sede     *Sede     `gorm:"foreignKey:SedeID"`
}

// TableName overrides GORM's default pluralization (movimiento_stocks → movimientos_stock).
func (MovimientoStock) TableName() string { return "movimientos_stock" }
