package dto

import "github.com/shopspring/decimal"

// AllocationRequest consulta de reparto FIFO sin registrar nada.
type AllocationRequest struct {
	ProductName string          `json:"productName" validate:"required"`
	Quantity    decimal.Decimal `json:"quantity" validate:"required"`
}

// DistributeRequest salida de material: reparte por FIFO y registra.
type DistributeRequest struct {
	ProductName string          `json:"productName" validate:"required"`
	Quantity    decimal.Decimal `json:"quantity" validate:"required"`
	Observation string          `json:"observation" validate:"omitempty,max=500"`
}

// ReceiptResponse identificador devuelto por el backend tras una mutación.
type ReceiptResponse struct {
	ReceiptID string `json:"receiptId"`
}
