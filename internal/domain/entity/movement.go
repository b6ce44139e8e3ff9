package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento del libro de inventario.
const (
	MovementEntry    = "ENTRY"    // entrada por nota de empenho
	MovementExit     = "EXIT"     // salida hacia un solicitante
	MovementReversal = "REVERSAL" // estorno de una salida
)

// Acciones de mutación del backend remoto. Son a la vez las claves de la tabla
// de permisos del Access Gate y los valores de ?action= del endpoint.
const (
	ActionSaveUser   = "saveUser"
	ActionCreateNE   = "createNE"
	ActionDistribute = "distribute"
	ActionReverse    = "reverse"
)

// Movement es un asiento append-only del libro: una vez creado nunca se edita
// ni se borra. Un estorno crea un movimiento REVERSAL nuevo y marca el
// original con IsReversed; el flag jamás se pone sobre el estorno mismo.
type Movement struct {
	ID          string          `json:"id"`
	Date        time.Time       `json:"date"`
	Type        string          `json:"type"`
	DocumentID  string          `json:"neId"`
	BatchID     string          `json:"productId"`
	ProductName string          `json:"productName"` // denormalizado para listados
	Quantity    decimal.Decimal `json:"quantity"`    // siempre positiva; el signo lo da Type
	Value       decimal.Decimal `json:"value"`       // Quantity * valor unitario del lote al momento del movimiento
	UserEmail   string          `json:"userEmail"`
	Note        string          `json:"observation"`
	IsReversed  bool            `json:"isReversed"`
}
