package entity

import (
	"time"

	"github.com/jhoicas/almoxen-core/pkg/normalize"
)

// RawSnapshot es el volcado completo del backend (?action=getAll) antes de
// normalizar. La planilla entrega todo con tipado laxo: números como texto,
// decimales con coma, booleanos como "TRUE". Por eso los campos son `any` y
// la única puerta hacia el dominio es DecodeSnapshot.
type RawSnapshot struct {
	Users     []RawUser     `json:"users"`
	Products  []RawBatch    `json:"products"`
	Movements []RawMovement `json:"movements"`
	Nes       []RawDocument `json:"nes"`
}

// RawUser fila de usuario sin normalizar.
type RawUser struct {
	Email    any `json:"email"`
	Name     any `json:"name"`
	Role     any `json:"role"`
	Active   any `json:"active"`
	Password any `json:"password"`
}

// RawBatch fila de lote sin normalizar.
type RawBatch struct {
	ID             any `json:"id"`
	NeID           any `json:"neId"`
	Name           any `json:"name"`
	Unit           any `json:"unit"`
	QtyPerPackage  any `json:"qtyPerPackage"`
	InitialQty     any `json:"initialQty"`
	UnitValue      any `json:"unitValue"`
	CurrentBalance any `json:"currentBalance"`
	MinStock       any `json:"minStock"`
	CreatedAt      any `json:"createdAt"`
}

// RawMovement fila de movimiento sin normalizar.
type RawMovement struct {
	ID          any `json:"id"`
	Date        any `json:"date"`
	Type        any `json:"type"`
	NeID        any `json:"neId"`
	ProductID   any `json:"productId"`
	ProductName any `json:"productName"`
	Quantity    any `json:"quantity"`
	Value       any `json:"value"`
	UserEmail   any `json:"userEmail"`
	Observation any `json:"observation"`
	IsReversed  any `json:"isReversed"`
}

// RawDocument fila de nota de empenho sin normalizar.
type RawDocument struct {
	ID         any `json:"id"`
	Supplier   any `json:"supplier"`
	Date       any `json:"date"`
	Status     any `json:"status"`
	TotalValue any `json:"totalValue"`
}

// Snapshot es la copia en memoria, ya tipada, de las cuatro colecciones.
// El Sync Cache la trata como inmutable: cada refresh produce un Snapshot
// nuevo que reemplaza al anterior de forma atómica.
type Snapshot struct {
	Users     []User
	Batches   []Batch
	Movements []Movement
	Documents []Document
}

// EmptySnapshot snapshot vacío para arrancar sin red y sin cache local.
func EmptySnapshot() *Snapshot {
	return &Snapshot{
		Users:     []User{},
		Batches:   []Batch{},
		Movements: []Movement{},
		Documents: []Document{},
	}
}

// DecodeSnapshot normaliza un volcado crudo a entidades de dominio. A partir
// de aquí el resto del núcleo solo ve tipos estrictos; la ambigüedad de la
// planilla no puede filtrarse más allá de esta frontera.
func DecodeSnapshot(raw *RawSnapshot) *Snapshot {
	if raw == nil {
		return EmptySnapshot()
	}
	snap := &Snapshot{
		Users:     make([]User, 0, len(raw.Users)),
		Batches:   make([]Batch, 0, len(raw.Products)),
		Movements: make([]Movement, 0, len(raw.Movements)),
		Documents: make([]Document, 0, len(raw.Nes)),
	}

	for _, u := range raw.Users {
		snap.Users = append(snap.Users, User{
			Email:    normalize.Text(u.Email),
			Name:     normalize.Text(u.Name),
			Role:     normalize.Text(u.Role),
			Active:   normalize.Bool(u.Active),
			Password: normalize.Text(u.Password),
		})
	}

	for _, p := range raw.Products {
		initial := normalize.Number(p.InitialQty)
		balance := normalize.Number(p.CurrentBalance)
		// Fila corrupta sin saldo legible: se asume el lote intacto.
		if p.CurrentBalance == nil && p.InitialQty != nil {
			balance = initial
		}
		snap.Batches = append(snap.Batches, Batch{
			ID:             normalize.Text(p.ID),
			DocumentID:     normalize.Text(p.NeID),
			Name:           normalize.Text(p.Name),
			Unit:           normalize.Text(p.Unit),
			QtyPerPackage:  normalize.Number(p.QtyPerPackage),
			InitialQty:     initial,
			UnitValue:      normalize.Number(p.UnitValue),
			CurrentBalance: balance,
			MinStock:       normalize.Number(p.MinStock),
			CreatedAt:      parseTime(normalize.Text(p.CreatedAt)),
		})
	}

	for _, m := range raw.Movements {
		snap.Movements = append(snap.Movements, Movement{
			ID:          normalize.Text(m.ID),
			Date:        parseTime(normalize.Text(m.Date)),
			Type:        normalize.Text(m.Type),
			DocumentID:  normalize.Text(m.NeID),
			BatchID:     normalize.Text(m.ProductID),
			ProductName: normalize.Text(m.ProductName),
			Quantity:    normalize.Number(m.Quantity),
			Value:       normalize.Number(m.Value),
			UserEmail:   normalize.Text(m.UserEmail),
			Note:        normalize.Text(m.Observation),
			IsReversed:  normalize.Bool(m.IsReversed),
		})
	}

	for _, d := range raw.Nes {
		snap.Documents = append(snap.Documents, Document{
			ID:         normalize.Text(d.ID),
			Supplier:   normalize.Text(d.Supplier),
			Date:       normalize.Text(d.Date),
			Status:     normalize.Text(d.Status),
			TotalValue: normalize.Number(d.TotalValue),
		})
	}

	return snap
}

// Formatos de fecha que aparecen en la planilla. El primero es el que escribe
// este cliente (RFC3339); el resto cubre filas tecleadas a mano.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseTime(s string) time.Time {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	// Fecha ilegible: time.Time cero ordena primero y el sort estable conserva
	// el orden que entregó el snapshot.
	return time.Time{}
}
