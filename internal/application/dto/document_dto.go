package dto

import "github.com/shopspring/decimal"

// DocumentItemRequest renglón de una nota de empenho.
type DocumentItemRequest struct {
	Name          string          `json:"name" validate:"required"`
	Unit          string          `json:"unit" validate:"required"`
	QtyPerPackage decimal.Decimal `json:"qtyPerPackage"`
	InitialQty    decimal.Decimal `json:"initialQty" validate:"required"`
	UnitValue     decimal.Decimal `json:"unitValue" validate:"required"`
	MinStock      decimal.Decimal `json:"minStock"`
}

// CreateDocumentRequest alta de una nota de empenho con sus lotes iniciales.
type CreateDocumentRequest struct {
	Number   string                `json:"number" validate:"required"`
	Supplier string                `json:"supplier" validate:"required"`
	Date     string                `json:"date" validate:"required"`
	Items    []DocumentItemRequest `json:"items" validate:"required,min=1"`
}
