// Package allocation decide, dada una cantidad pedida de un producto, de qué
// lotes se descuenta y en qué orden: siempre del lote más antiguo al más
// reciente (FIFO por fecha de creación). El cálculo es una proyección pura
// sobre el snapshot cacheado: sin mutación y sin red, seguro de repetir
// mientras el operador edita la cantidad en pantalla.
package allocation

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/almoxen-core/internal/application/synccache"
	"github.com/jhoicas/almoxen-core/internal/domain/entity"
)

// Draw un descuento planificado sobre un lote.
type Draw struct {
	BatchID    string          `json:"batchId"`
	DocumentID string          `json:"documentId"`
	Qty        decimal.Decimal `json:"qty"`
	UnitValue  decimal.Decimal `json:"unitValue"`
}

// Result plan de distribución: descuentos ordenados FIFO y el faltante que no
// pudo cubrirse (cero = pedido totalmente satisfacible).
type Result struct {
	Draws     []Draw          `json:"draws"`
	Shortfall decimal.Decimal `json:"shortfall"`
}

// Engine motor de asignación sobre el Sync Cache.
type Engine struct {
	cache *synccache.Cache
}

// NewEngine construye el motor.
func NewEngine(cache *synccache.Cache) *Engine {
	return &Engine{cache: cache}
}

// Allocate calcula el plan FIFO para productName. La única suspensión posible
// es el read-through del cache; el plan en sí es síncrono y puro.
func (e *Engine) Allocate(ctx context.Context, productName string, requested decimal.Decimal) Result {
	return Plan(e.cache.Batches(ctx), productName, requested)
}

// Plan es el algoritmo puro: filtra lotes del producto con saldo, los ordena
// por fecha de creación ascendente y recorre descontando min(saldo, restante)
// hasta agotar el pedido o los lotes.
//
// Empates de fecha: sort estable, se conserva el orden en que el snapshot
// entregó los lotes (sin clave secundaria).
func Plan(batches []entity.Batch, productName string, requested decimal.Decimal) Result {
	result := Result{Draws: []Draw{}, Shortfall: requested}

	// Pedido no positivo: sin descuentos, el faltante devuelve la entrada tal
	// cual. El llamador debería rechazarlo antes de llegar aquí.
	if !requested.GreaterThan(decimal.Zero) {
		return result
	}

	eligible := make([]entity.Batch, 0, len(batches))
	for _, b := range batches {
		if b.Name == productName && b.HasStock() {
			eligible = append(eligible, b)
		}
	}
	sort.SliceStable(eligible, func(i, j int) bool {
		return eligible[i].CreatedAt.Before(eligible[j].CreatedAt)
	})

	remaining := requested
	for _, b := range eligible {
		if !remaining.GreaterThan(decimal.Zero) {
			break
		}
		take := decimal.Min(b.CurrentBalance, remaining)
		result.Draws = append(result.Draws, Draw{
			BatchID:    b.ID,
			DocumentID: b.DocumentID,
			Qty:        take,
			UnitValue:  b.UnitValue,
		})
		remaining = remaining.Sub(take)
	}

	result.Shortfall = remaining
	return result
}

// StockLine saldo consolidado de un producto a través de todos sus lotes.
type StockLine struct {
	Name         string          `json:"name"`
	TotalBalance decimal.Decimal `json:"totalBalance"`
	Unit         string          `json:"unit"`
}

// ConsolidatedStock agrega el saldo por nombre de producto, omitiendo los
// productos sin saldo. El orden sigue la primera aparición en el snapshot.
func (e *Engine) ConsolidatedStock(ctx context.Context) []StockLine {
	batches := e.cache.Batches(ctx)

	index := make(map[string]int, len(batches))
	lines := make([]StockLine, 0, len(batches))
	for _, b := range batches {
		i, ok := index[b.Name]
		if !ok {
			index[b.Name] = len(lines)
			lines = append(lines, StockLine{Name: b.Name, TotalBalance: decimal.Zero, Unit: b.Unit})
			i = len(lines) - 1
		}
		lines[i].TotalBalance = lines[i].TotalBalance.Add(b.CurrentBalance)
	}

	withStock := lines[:0]
	for _, l := range lines {
		if l.TotalBalance.GreaterThan(decimal.Zero) {
			withStock = append(withStock, l)
		}
	}
	return withStock
}
