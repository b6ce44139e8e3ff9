package entity_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almoxen-core/internal/domain/entity"
)

func TestDecodeSnapshot_TipadoLaxo(t *testing.T) {
	// Mezcla deliberada de tipos: la planilla entrega números como texto,
	// decimales con coma y booleanos como "TRUE".
	raw := &entity.RawSnapshot{}
	require.NoError(t, json.Unmarshal([]byte(`{
		"users":[
			{"email":"ana@org.br","name":"Ana","role":"ADMIN","active":"TRUE","password":"abc"},
			{"email":"leo@org.br","name":"Leo","role":"OPERATOR","active":false}
		],
		"products":[
			{"id":"P-1","neId":"NE-1","name":"Papel A4","unit":"caixa","qtyPerPackage":"10",
			 "initialQty":"1.234,56","unitValue":"25,90","currentBalance":40,"minStock":"5",
			 "createdAt":"2026-03-01T10:00:00Z"}
		],
		"movements":[
			{"id":"M-1","date":"2026-03-02 14:30:00","type":"EXIT","neId":"NE-1","productId":"P-1",
			 "productName":"Papel A4","quantity":"3","value":"77,70","userEmail":"ana@org.br",
			 "observation":"entrega","isReversed":"TRUE"}
		],
		"nes":[
			{"id":"NE-1","supplier":"Fornecedor X","date":"2026-02-28","status":"OPEN","totalValue":"31.976,64"}
		]
	}`), raw))

	snap := entity.DecodeSnapshot(raw)

	require.Len(t, snap.Users, 2)
	assert.True(t, snap.Users[0].Active)
	assert.False(t, snap.Users[1].Active)
	assert.Empty(t, snap.Users[1].Password)

	require.Len(t, snap.Batches, 1)
	b := snap.Batches[0]
	assert.True(t, b.InitialQty.Equal(decimal.RequireFromString("1234.56")), "inicial %s", b.InitialQty)
	assert.True(t, b.UnitValue.Equal(decimal.RequireFromString("25.9")))
	assert.True(t, b.CurrentBalance.Equal(decimal.NewFromInt(40)))
	assert.Equal(t, time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC), b.CreatedAt)

	require.Len(t, snap.Movements, 1)
	m := snap.Movements[0]
	assert.Equal(t, entity.MovementExit, m.Type)
	assert.True(t, m.IsReversed)
	assert.Equal(t, "entrega", m.Note)
	assert.Equal(t, 2026, m.Date.Year())

	require.Len(t, snap.Documents, 1)
	assert.True(t, snap.Documents[0].TotalValue.Equal(decimal.RequireFromString("31976.64")))
}

func TestDecodeSnapshot_SaldoAusenteAsumeLoteIntacto(t *testing.T) {
	raw := &entity.RawSnapshot{
		Products: []entity.RawBatch{
			{ID: "P-1", Name: "Caneta", InitialQty: "50"},
		},
	}
	snap := entity.DecodeSnapshot(raw)
	require.Len(t, snap.Batches, 1)
	assert.True(t, snap.Batches[0].CurrentBalance.Equal(decimal.NewFromInt(50)))
}

func TestDecodeSnapshot_FechaIlegibleQuedaEnCero(t *testing.T) {
	raw := &entity.RawSnapshot{
		Products: []entity.RawBatch{
			{ID: "P-1", Name: "Caneta", CreatedAt: "03/02/2026"},
		},
	}
	snap := entity.DecodeSnapshot(raw)
	require.Len(t, snap.Batches, 1)
	assert.True(t, snap.Batches[0].CreatedAt.IsZero())
}

func TestDecodeSnapshot_NilDevuelveVacio(t *testing.T) {
	snap := entity.DecodeSnapshot(nil)
	require.NotNil(t, snap)
	assert.Empty(t, snap.Users)
	assert.Empty(t, snap.Batches)
	assert.Empty(t, snap.Movements)
	assert.Empty(t, snap.Documents)
}
