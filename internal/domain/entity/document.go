package entity

import "github.com/shopspring/decimal"

// Estados de una nota de empenho.
const (
	DocumentOpen      = "OPEN"
	DocumentClosed    = "CLOSED"
	DocumentCancelled = "CANCELLED"
)

// Document es la nota de empenho: el documento de compromiso bajo el cual se
// reciben uno o más lotes. El ID lo asigna el negocio (número tecleado por el
// operador), no el sistema.
type Document struct {
	ID         string          `json:"id"`
	Supplier   string          `json:"supplier"`
	Date       string          `json:"date"` // fecha de emisión tal como la teclea el operador
	Status     string          `json:"status"`
	TotalValue decimal.Decimal `json:"totalValue"`
}
