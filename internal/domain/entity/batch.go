package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Batch representa un lote: la cantidad de un producto recibida bajo una nota
// de empenho. Cada entrada de la misma referencia crea un lote nuevo; el saldo
// se consume lote a lote, del más antiguo al más reciente (FIFO).
//
// Los tags JSON siguen los nombres de columna del backend de planilla.
type Batch struct {
	ID             string          `json:"id"`
	DocumentID     string          `json:"neId"` // nota de empenho de origen
	Name           string          `json:"name"`
	Unit           string          `json:"unit"`
	QtyPerPackage  decimal.Decimal `json:"qtyPerPackage"`
	InitialQty     decimal.Decimal `json:"initialQty"`
	UnitValue      decimal.Decimal `json:"unitValue"`
	CurrentBalance decimal.Decimal `json:"currentBalance"` // 0 <= CurrentBalance <= InitialQty; lo mantiene el backend
	MinStock       decimal.Decimal `json:"minStock"`
	CreatedAt      time.Time       `json:"createdAt"` // clave de orden FIFO
}

// HasStock indica si el lote todavía tiene saldo disponible.
func (b Batch) HasStock() bool {
	return b.CurrentBalance.GreaterThan(decimal.Zero)
}

// BalanceValue valor monetario del saldo actual (saldo * valor unitario).
func (b Batch) BalanceValue() decimal.Decimal {
	return b.CurrentBalance.Mul(b.UnitValue)
}
