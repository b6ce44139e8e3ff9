// Package reports contiene las proyecciones de solo lectura sobre el snapshot
// cacheado: el resumen del panel, el historial de movimientos y la prueba de
// conexión de la página de ajustes. Nada aquí muta estado.
package reports

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/almoxen-core/internal/application/synccache"
	"github.com/jhoicas/almoxen-core/internal/domain/entity"
)

// Pinger puerto para la prueba de conexión contra el backend.
type Pinger interface {
	Ping(ctx context.Context) (time.Duration, error)
}

// Service proyecciones de lectura.
type Service struct {
	cache  *synccache.Cache
	pinger Pinger
}

// NewService construye el servicio.
func NewService(cache *synccache.Cache, pinger Pinger) *Service {
	return &Service{cache: cache, pinger: pinger}
}

// MonthlyOutflow valor de salidas agregado por mes.
type MonthlyOutflow struct {
	Month string          `json:"month"`
	Value decimal.Decimal `json:"value"`
}

// ProductUsage consumo acumulado de un producto (inicial − saldo).
type ProductUsage struct {
	Name  string          `json:"name"`
	Value decimal.Decimal `json:"value"`
}

// CriticalItem producto en o por debajo de su stock mínimo.
type CriticalItem struct {
	Name    string          `json:"name"`
	Balance decimal.Decimal `json:"balance"`
	Min     decimal.Decimal `json:"min"`
	Unit    string          `json:"unit"`
}

// Stats resumen del panel.
type Stats struct {
	TotalStockValue     decimal.Decimal  `json:"totalStockValue"`
	TotalItems          int              `json:"totalItems"`
	LowStockCount       int              `json:"lowStockCount"`
	CurrentMonthOutflow decimal.Decimal  `json:"currentMonthOutflow"`
	MonthlyOutflow      []MonthlyOutflow `json:"monthlyOutflow"`
	TopProducts         []ProductUsage   `json:"topProducts"`
	CriticalItems       []CriticalItem   `json:"criticalItems"`
}

const topN = 5 // productos y críticos mostrados en los widgets del panel

// meses abreviados pt-BR para la serie mensual del panel.
var monthAbbr = [...]string{"jan", "fev", "mar", "abr", "mai", "jun", "jul", "ago", "set", "out", "nov", "dez"}

// Dashboard calcula el resumen del panel sobre el snapshot actual. Los
// estornos quedan fuera de las series de salida: un EXIT marcado IsReversed
// nunca cuenta como consumo.
func (s *Service) Dashboard(ctx context.Context) Stats {
	s.cache.EnsureFresh(ctx)
	snap := s.cache.Snapshot()
	now := time.Now()

	stats := Stats{
		TotalStockValue:     decimal.Zero,
		TotalItems:          len(snap.Batches),
		CurrentMonthOutflow: decimal.Zero,
		MonthlyOutflow:      []MonthlyOutflow{},
		TopProducts:         []ProductUsage{},
		CriticalItems:       []CriticalItem{},
	}

	for _, b := range snap.Batches {
		stats.TotalStockValue = stats.TotalStockValue.Add(b.BalanceValue())
		if b.CurrentBalance.LessThanOrEqual(b.MinStock) {
			stats.LowStockCount++
		}
	}

	// Serie mensual de salidas, en orden de primera aparición en el snapshot.
	monthIndex := map[string]int{}
	for _, m := range snap.Movements {
		if m.Type != entity.MovementExit || m.IsReversed {
			continue
		}
		key := monthAbbr[m.Date.Month()-1]
		i, ok := monthIndex[key]
		if !ok {
			monthIndex[key] = len(stats.MonthlyOutflow)
			stats.MonthlyOutflow = append(stats.MonthlyOutflow, MonthlyOutflow{Month: key, Value: decimal.Zero})
			i = len(stats.MonthlyOutflow) - 1
		}
		stats.MonthlyOutflow[i].Value = stats.MonthlyOutflow[i].Value.Add(m.Value)

		if m.Date.Month() == now.Month() && m.Date.Year() == now.Year() {
			stats.CurrentMonthOutflow = stats.CurrentMonthOutflow.Add(m.Value)
		}
	}

	// Top consumidos: inicial − saldo, descendente.
	usage := make([]ProductUsage, 0, len(snap.Batches))
	for _, b := range snap.Batches {
		usage = append(usage, ProductUsage{Name: b.Name, Value: b.InitialQty.Sub(b.CurrentBalance)})
	}
	sort.SliceStable(usage, func(i, j int) bool {
		return usage[i].Value.GreaterThan(usage[j].Value)
	})
	if len(usage) > topN {
		usage = usage[:topN]
	}
	stats.TopProducts = usage

	// Críticos: en o bajo el mínimo, del saldo más bajo al más alto.
	for _, b := range snap.Batches {
		if b.CurrentBalance.LessThanOrEqual(b.MinStock) && !b.CurrentBalance.IsNegative() {
			stats.CriticalItems = append(stats.CriticalItems, CriticalItem{
				Name:    b.Name,
				Balance: b.CurrentBalance,
				Min:     b.MinStock,
				Unit:    b.Unit,
			})
		}
	}
	sort.SliceStable(stats.CriticalItems, func(i, j int) bool {
		return stats.CriticalItems[i].Balance.LessThan(stats.CriticalItems[j].Balance)
	})
	if len(stats.CriticalItems) > topN {
		stats.CriticalItems = stats.CriticalItems[:topN]
	}

	return stats
}

// Movements historial completo, del más reciente al más antiguo.
func (s *Service) Movements(ctx context.Context) []entity.Movement {
	src := s.cache.Movements(ctx)
	out := make([]entity.Movement, len(src))
	copy(out, src)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out
}

// ConnectionStatus resultado de la prueba de conexión de ajustes.
type ConnectionStatus struct {
	OK      bool   `json:"ok"`
	Latency int64  `json:"latencyMs"`
	Message string `json:"message"`
}

// TestConnection hace un fetch mínimo y reporta latencia o el error legible.
func (s *Service) TestConnection(ctx context.Context) ConnectionStatus {
	latency, err := s.pinger.Ping(ctx)
	if err != nil {
		return ConnectionStatus{OK: false, Message: err.Error()}
	}
	return ConnectionStatus{OK: true, Latency: latency.Milliseconds(), Message: "conectado"}
}
