package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Estados de una venta.
const (
	VentaPendiente  = "pendiente"
	VentaCompletada = "completada"
	VentaCancelada  = "cancelada"
)

// Venta is the sale header. Total always equals the sum of its detalles'
// subtotals — computed by the venta service at creation, not enforced by the
// database.
type Venta struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SedeID     *uuid.UUID `gorm:"type:uuid;index"`
	ClienteID  *uuid.UUID `gorm:"type:uuid;index"`
	UserID     *uuid.UUID `gorm:"type:uuid;index"`
	Total      decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	MetodoPago string          `gorm:"type:varchar(20);not null"`
	Estado     string          `gorm:"type:varchar(20);not null;default:'completada';index"`
	Notas      *string
	CreatedAt  time.Time

	Detalles []DetalleVenta `gorm:"foreignKey:VentaID"`
	Cliente  *Cliente       `gorm:"foreignKey:ClienteID"`
	Sede     *Sede          `gorm:"foreignKey:SedeID"`
}

// TableName overrides GORM's default pluralization.
func (Venta) TableName() string { return "ventas" }

// DetalleVenta is a sale line item. It never exists without its parent Venta.
type DetalleVenta struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VentaID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductoID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Cantidad       int             `gorm:"not null"`
	PrecioUnitario decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CreatedAt      time.Time

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

// TableName overrides GORM's default pluralization.
func (DetalleVenta) TableName() string { return "detalle_ventas" }
