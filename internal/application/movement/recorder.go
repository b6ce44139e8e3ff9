// Package movement convierte un plan de distribución (o una entrada manual)
// en asientos inmutables del libro y los envía al backend como una sola
// mutación atómica. Nunca descuenta saldos localmente: tras el acuse fuerza un
// refresh del cache y confía en los saldos autoritativos del backend, así la
// aritmética del cliente no puede divergir de la del servidor.
//
// Ningún método reintenta solo: reenviar una distribución cuyo acuse se
// perdió podría descontar dos veces. Cada envío lleva un attemptId para que
// un backend que registre intentos pueda descartar duplicados.
package movement

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/almoxen-core/internal/application/access"
	"github.com/jhoicas/almoxen-core/internal/application/allocation"
	"github.com/jhoicas/almoxen-core/internal/application/synccache"
	"github.com/jhoicas/almoxen-core/internal/domain"
	"github.com/jhoicas/almoxen-core/internal/domain/entity"
	"github.com/jhoicas/almoxen-core/pkg/logger"
)

// Submitter puerto de salida hacia el backend para las mutaciones.
type Submitter interface {
	Post(ctx context.Context, action string, payload any) (string, error)
}

// Recorder registra movimientos en el libro remoto.
type Recorder struct {
	cache  *synccache.Cache
	client Submitter
	gate   *access.Gate
	log    *logger.Logger
}

// NewRecorder construye el registrador.
func NewRecorder(cache *synccache.Cache, client Submitter, gate *access.Gate, log *logger.Logger) *Recorder {
	return &Recorder{cache: cache, client: client, gate: gate, log: log}
}

// ── Payloads de mutación (contrato del backend) ───────────────────────────────

type distributePayload struct {
	Movements []entity.Movement `json:"movements"`
	AttemptID string            `json:"attemptId"`
}

type reversePayload struct {
	MovementID       string          `json:"movementId"`
	ReversalMovement entity.Movement `json:"reversalMovement"`
	AttemptID        string          `json:"attemptId"`
}

type createDocumentPayload struct {
	NE        entity.Document   `json:"ne"`
	Items     []entity.Batch    `json:"items"`
	Movements []entity.Movement `json:"movements"`
	AttemptID string            `json:"attemptId"`
}

// ── Operaciones ───────────────────────────────────────────────────────────────

// Distribute materializa un movimiento EXIT por cada descuento del plan y
// envía el conjunto como una sola mutación (no una llamada por renglón), para
// que el backend lo aplique atómicamente. Devuelve el receiptId si el backend
// emitió uno.
func (r *Recorder) Distribute(ctx context.Context, draws []allocation.Draw, actorEmail, note string) (string, error) {
	if len(draws) == 0 {
		return "", fmt.Errorf("%w: distribución sin renglones", domain.ErrValidation)
	}
	for _, d := range draws {
		if !d.Qty.GreaterThan(decimal.Zero) {
			return "", fmt.Errorf("%w: cantidad no positiva para el lote %s", domain.ErrValidation, d.BatchID)
		}
	}
	if err := r.gate.Authorize(actorEmail, entity.ActionDistribute); err != nil {
		return "", err
	}

	now := time.Now().UTC()
	movements := make([]entity.Movement, 0, len(draws))
	for _, d := range draws {
		name := "Unknown"
		if b, ok := r.cache.FindBatch(d.BatchID); ok {
			name = b.Name
		}
		movements = append(movements, entity.Movement{
			ID:          "MOV-" + uuid.NewString(),
			Date:        now,
			Type:        entity.MovementExit,
			DocumentID:  d.DocumentID,
			BatchID:     d.BatchID,
			ProductName: name,
			Quantity:    d.Qty,
			Value:       d.Qty.Mul(d.UnitValue),
			UserEmail:   actorEmail,
			Note:        note,
		})
	}

	receipt, err := r.client.Post(ctx, entity.ActionDistribute, distributePayload{
		Movements: movements,
		AttemptID: uuid.NewString(),
	})
	if err != nil {
		return "", err
	}

	r.refreshAfterMutation(ctx, entity.ActionDistribute)
	return receipt, nil
}

// Reverse estorna una salida: crea un movimiento REVERSAL con el mismo lote y
// cantidad, más la instrucción de marcar el original como estornado. El
// original jamás se edita ni se borra.
func (r *Recorder) Reverse(ctx context.Context, movementID, actorEmail string) error {
	r.cache.EnsureFresh(ctx)

	original, ok := r.cache.FindMovement(movementID)
	if !ok {
		// Cache posiblemente viejo: el llamador puede refrescar y reintentar.
		return fmt.Errorf("%w: movimiento %s", domain.ErrNotFound, movementID)
	}
	if original.IsReversed {
		return fmt.Errorf("%w: %s", domain.ErrAlreadyReversed, movementID)
	}
	if original.Type != entity.MovementExit {
		return fmt.Errorf("%w: solo una salida puede estornarse", domain.ErrValidation)
	}
	if err := r.gate.Authorize(actorEmail, entity.ActionReverse); err != nil {
		return err
	}

	reversal := entity.Movement{
		ID:          "REV-" + uuid.NewString(),
		Date:        time.Now().UTC(),
		Type:        entity.MovementReversal,
		DocumentID:  original.DocumentID,
		BatchID:     original.BatchID,
		ProductName: original.ProductName,
		Quantity:    original.Quantity,
		Value:       original.Value,
		UserEmail:   actorEmail,
		Note:        "ESTORNO referente à saída: " + original.ID,
	}

	if _, err := r.client.Post(ctx, entity.ActionReverse, reversePayload{
		MovementID:       movementID,
		ReversalMovement: reversal,
		AttemptID:        uuid.NewString(),
	}); err != nil {
		return err
	}

	r.refreshAfterMutation(ctx, entity.ActionReverse)
	return nil
}

// DocumentInput metadatos de la nota de empenho a registrar.
type DocumentInput struct {
	Number   string
	Supplier string
	Date     string
}

// LineItem renglón de la nota: crea un lote y su movimiento ENTRY.
type LineItem struct {
	Name          string
	Unit          string
	QtyPerPackage decimal.Decimal
	InitialQty    decimal.Decimal
	UnitValue     decimal.Decimal
	MinStock      decimal.Decimal
}

// CreateDocument registra una nota de empenho con sus lotes y movimientos
// ENTRY, todos con el mismo timestamp, en una sola mutación atómica.
func (r *Recorder) CreateDocument(ctx context.Context, meta DocumentInput, items []LineItem, actorEmail string) error {
	if strings.TrimSpace(meta.Number) == "" || strings.TrimSpace(meta.Supplier) == "" {
		return fmt.Errorf("%w: número y proveedor son obligatorios", domain.ErrValidation)
	}
	if len(items) == 0 {
		return fmt.Errorf("%w: la nota no tiene renglones", domain.ErrValidation)
	}
	for _, it := range items {
		if strings.TrimSpace(it.Name) == "" {
			return fmt.Errorf("%w: renglón sin nombre de producto", domain.ErrValidation)
		}
		if !it.InitialQty.GreaterThan(decimal.Zero) {
			return fmt.Errorf("%w: cantidad inicial no positiva en %s", domain.ErrValidation, it.Name)
		}
		if it.UnitValue.IsNegative() {
			return fmt.Errorf("%w: valor unitario negativo en %s", domain.ErrValidation, it.Name)
		}
	}
	if err := r.gate.Authorize(actorEmail, entity.ActionCreateNE); err != nil {
		return err
	}

	now := time.Now().UTC()
	total := decimal.Zero
	batches := make([]entity.Batch, 0, len(items))
	movements := make([]entity.Movement, 0, len(items))

	for _, it := range items {
		batchID := "P-" + uuid.NewString()
		batches = append(batches, entity.Batch{
			ID:             batchID,
			DocumentID:     meta.Number,
			Name:           it.Name,
			Unit:           it.Unit,
			QtyPerPackage:  it.QtyPerPackage,
			InitialQty:     it.InitialQty,
			UnitValue:      it.UnitValue,
			CurrentBalance: it.InitialQty,
			MinStock:       it.MinStock,
			CreatedAt:      now,
		})
		value := it.InitialQty.Mul(it.UnitValue)
		total = total.Add(value)
		movements = append(movements, entity.Movement{
			ID:          "MOV-IN-" + uuid.NewString(),
			Date:        now,
			Type:        entity.MovementEntry,
			DocumentID:  meta.Number,
			BatchID:     batchID,
			ProductName: it.Name,
			Quantity:    it.InitialQty,
			Value:       value,
			UserEmail:   actorEmail,
			Note:        "Entrada Inicial de Nota de Empenho",
		})
	}

	doc := entity.Document{
		ID:         meta.Number,
		Supplier:   meta.Supplier,
		Date:       meta.Date,
		Status:     entity.DocumentOpen,
		TotalValue: total,
	}

	if _, err := r.client.Post(ctx, entity.ActionCreateNE, createDocumentPayload{
		NE:        doc,
		Items:     batches,
		Movements: movements,
		AttemptID: uuid.NewString(),
	}); err != nil {
		return err
	}

	r.refreshAfterMutation(ctx, entity.ActionCreateNE)
	return nil
}

// refreshAfterMutation fuerza el fetch post-mutación (lectura de lo escrito
// dentro de esta instancia). La mutación ya fue aceptada: un fallo aquí solo
// retrasa la visibilidad de los saldos nuevos.
func (r *Recorder) refreshAfterMutation(ctx context.Context, action string) {
	if err := r.cache.Refresh(ctx); err != nil {
		r.log.Warn().Err(err).Str("action", action).Msg("refresh posterior a la mutación falló")
	}
}
