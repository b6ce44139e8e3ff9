// Package normalize convierte los campos de tipado laxo del backend de
// planilla (números como texto, coma decimal, booleanos como "TRUE") en
// valores canónicos. Nunca lanza panic y nunca produce NaN: toda entrada
// ilegible colapsa al valor cero del tipo.
package normalize

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Number convierte cualquier celda en un decimal. Acepta nil, cadena vacía,
// números nativos, json.Number y cadenas con separador decimal coma o punto.
// Entrada no interpretable devuelve cero.
func Number(raw any) decimal.Decimal {
	switch v := raw.(type) {
	case nil:
		return decimal.Zero
	case decimal.Decimal:
		return v
	case float64:
		return decimal.NewFromFloat(v)
	case float32:
		return decimal.NewFromFloat32(v)
	case int:
		return decimal.NewFromInt(int64(v))
	case int64:
		return decimal.NewFromInt(v)
	case json.Number:
		return fromString(v.String())
	case string:
		return fromString(v)
	default:
		return decimal.Zero
	}
}

func fromString(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	// "1.234,56": punto como millar, coma como decimal. Con solo coma, la coma
	// es el separador decimal.
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Bool normaliza flags como `active` e `isReversed`: true o "TRUE"/"true"
// valen true, cualquier otra cosa vale false.
func Bool(raw any) bool {
	switch v := raw.(type) {
	case bool:
		return v
	case string:
		return strings.EqualFold(strings.TrimSpace(v), "true")
	default:
		return false
	}
}

// Text devuelve la celda como cadena. Los IDs de nota de empenho los teclea
// una persona y la planilla a veces los entrega como número.
func Text(raw any) string {
	switch v := raw.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}
