package allocation_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almoxen-core/internal/application/allocation"
	"github.com/jhoicas/almoxen-core/internal/application/synccache"
	"github.com/jhoicas/almoxen-core/internal/domain/entity"
	"github.com/jhoicas/almoxen-core/internal/infrastructure/localstore"
	"github.com/jhoicas/almoxen-core/pkg/logger"
)

var (
	t1 = time.Date(2026, 1, 10, 8, 0, 0, 0, time.UTC)
	t2 = time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)
)

func batch(id, neID, name string, createdAt time.Time, balance, unitValue float64) entity.Batch {
	return entity.Batch{
		ID:             id,
		DocumentID:     neID,
		Name:           name,
		InitialQty:     decimal.NewFromFloat(balance),
		CurrentBalance: decimal.NewFromFloat(balance),
		UnitValue:      decimal.NewFromFloat(unitValue),
		CreatedAt:      createdAt,
	}
}

func dosLotes() []entity.Batch {
	// Deliberadamente en orden inverso al cronológico: el plan debe reordenar.
	return []entity.Batch{
		batch("B2", "NE-2", "Papel A4", t2, 5, 2.5),
		batch("B1", "NE-1", "Papel A4", t1, 10, 2.0),
	}
}

func qty(f float64) decimal.Decimal { return decimal.NewFromFloat(f) }

// ──────────────────────────────────────────────────────────────────────────────
// Escenario A: pedido de 12 sobre lotes [10@t1, 5@t2] → 10 de B1, 2 de B2,
// faltante cero.
// ──────────────────────────────────────────────────────────────────────────────

func TestPlan_EscenarioA_PedidoCubierto(t *testing.T) {
	res := allocation.Plan(dosLotes(), "Papel A4", qty(12))

	require.Len(t, res.Draws, 2)
	assert.Equal(t, "B1", res.Draws[0].BatchID, "el lote más antiguo primero")
	assert.True(t, res.Draws[0].Qty.Equal(qty(10)))
	assert.Equal(t, "B2", res.Draws[1].BatchID)
	assert.True(t, res.Draws[1].Qty.Equal(qty(2)))
	assert.True(t, res.Shortfall.IsZero())
	assert.True(t, res.Draws[0].UnitValue.Equal(qty(2.0)))
	assert.True(t, res.Draws[1].UnitValue.Equal(qty(2.5)))
}

// Escenario B: pedido de 20 → se agotan ambos lotes y quedan 5 sin cubrir.
func TestPlan_EscenarioB_ConFaltante(t *testing.T) {
	res := allocation.Plan(dosLotes(), "Papel A4", qty(20))

	require.Len(t, res.Draws, 2)
	assert.True(t, res.Draws[0].Qty.Equal(qty(10)))
	assert.True(t, res.Draws[1].Qty.Equal(qty(5)))
	assert.True(t, res.Shortfall.Equal(qty(5)))
}

func TestPlan_SinLotesElegibles(t *testing.T) {
	res := allocation.Plan(dosLotes(), "Tóner", qty(3))
	assert.Empty(t, res.Draws)
	assert.True(t, res.Shortfall.Equal(qty(3)), "sin lotes, el faltante es el pedido completo")
}

func TestPlan_PedidoNoPositivo(t *testing.T) {
	res := allocation.Plan(dosLotes(), "Papel A4", qty(0))
	assert.Empty(t, res.Draws)
	assert.True(t, res.Shortfall.IsZero())

	res = allocation.Plan(dosLotes(), "Papel A4", qty(-4))
	assert.Empty(t, res.Draws)
	assert.True(t, res.Shortfall.Equal(qty(-4)), "el faltante devuelve la entrada no positiva tal cual")
}

func TestPlan_IgnoraLotesSinSaldo(t *testing.T) {
	lotes := dosLotes()
	lotes = append(lotes, entity.Batch{
		ID: "B0", Name: "Papel A4", CreatedAt: t1.Add(-time.Hour),
		CurrentBalance: decimal.Zero, UnitValue: qty(1.0),
	})

	res := allocation.Plan(lotes, "Papel A4", qty(1))
	require.Len(t, res.Draws, 1)
	assert.Equal(t, "B1", res.Draws[0].BatchID, "un lote agotado jamás aparece en el plan")
}

// ──────────────────────────────────────────────────────────────────────────────
// Propiedades del plan.
// ──────────────────────────────────────────────────────────────────────────────

// Σ draws = pedido − faltante, y faltante ≥ 0, para pedidos positivos.
func TestPlan_SumaDeDescuentos(t *testing.T) {
	for _, pedido := range []float64{1, 7.5, 10, 12, 15, 20, 100} {
		res := allocation.Plan(dosLotes(), "Papel A4", qty(pedido))

		sum := decimal.Zero
		for _, d := range res.Draws {
			sum = sum.Add(d.Qty)
		}
		assert.True(t, sum.Add(res.Shortfall).Equal(qty(pedido)),
			"pedido %v: suma %s + faltante %s", pedido, sum, res.Shortfall)
		assert.False(t, res.Shortfall.IsNegative())
	}
}

// Ningún descuento excede el saldo del lote y el orden es FIFO no decreciente.
func TestPlan_CotasYOrdenFIFO(t *testing.T) {
	lotes := dosLotes()
	res := allocation.Plan(lotes, "Papel A4", qty(14))

	byID := map[string]entity.Batch{}
	for _, b := range lotes {
		byID[b.ID] = b
	}
	var prev time.Time
	for _, d := range res.Draws {
		b := byID[d.BatchID]
		assert.True(t, d.Qty.LessThanOrEqual(b.CurrentBalance))
		assert.True(t, d.Qty.GreaterThan(decimal.Zero))
		assert.False(t, b.CreatedAt.Before(prev), "los descuentos deben ir en orden FIFO")
		prev = b.CreatedAt
	}
}

// Con el snapshot sin cambios, dos llamadas dan exactamente el mismo plan.
func TestPlan_Idempotente(t *testing.T) {
	a := allocation.Plan(dosLotes(), "Papel A4", qty(12))
	b := allocation.Plan(dosLotes(), "Papel A4", qty(12))
	assert.Equal(t, a, b)
}

// Empate de fecha: sin clave secundaria, se conserva el orden del snapshot.
func TestPlan_EmpateDeFechaConservaOrdenDeEntrada(t *testing.T) {
	lotes := []entity.Batch{
		batch("BX", "NE-9", "Tóner", t1, 4, 1.0),
		batch("BY", "NE-8", "Tóner", t1, 4, 1.0),
	}

	res := allocation.Plan(lotes, "Tóner", qty(6))
	require.Len(t, res.Draws, 2)
	assert.Equal(t, "BX", res.Draws[0].BatchID)
	assert.Equal(t, "BY", res.Draws[1].BatchID)
}

func TestPlan_NoMutaLosLotes(t *testing.T) {
	lotes := dosLotes()
	antes := lotes[0].CurrentBalance

	_ = allocation.Plan(lotes, "Papel A4", qty(12))
	assert.True(t, lotes[0].CurrentBalance.Equal(antes), "el plan es una proyección pura")
}

// ──────────────────────────────────────────────────────────────────────────────
// Stock consolidado
// ──────────────────────────────────────────────────────────────────────────────

type fetcherFijo struct{ snap entity.RawSnapshot }

func (f *fetcherFijo) GetAll(ctx context.Context) (*entity.RawSnapshot, error) {
	return &f.snap, nil
}

func TestConsolidatedStock_AgregaPorProducto(t *testing.T) {
	store, err := localstore.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	fetcher := &fetcherFijo{snap: entity.RawSnapshot{
		Products: []entity.RawBatch{
			{ID: "B1", Name: "Papel A4", Unit: "caixa", InitialQty: "10", CurrentBalance: "10", CreatedAt: "2026-01-10T08:00:00Z"},
			{ID: "B2", Name: "Caneta", Unit: "cx", InitialQty: "7", CurrentBalance: "0", CreatedAt: "2026-01-11T08:00:00Z"},
			{ID: "B3", Name: "Papel A4", Unit: "caixa", InitialQty: "5", CurrentBalance: "5", CreatedAt: "2026-02-01T08:00:00Z"},
		},
	}}
	cache := synccache.New(fetcher, store, logger.Nop(), 5*time.Minute, time.Second)
	require.NoError(t, cache.Refresh(context.Background()))

	lines := allocation.NewEngine(cache).ConsolidatedStock(context.Background())

	// Caneta quedó en cero y no aparece; Papel A4 suma sus dos lotes.
	require.Len(t, lines, 1)
	assert.Equal(t, "Papel A4", lines[0].Name)
	assert.Equal(t, "caixa", lines[0].Unit)
	assert.True(t, lines[0].TotalBalance.Equal(qty(15)))
}
