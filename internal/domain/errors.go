package domain

import "errors"

// Errores de dominio (sin dependencias externas). La taxonomía separa los
// fallos deterministas (validación, permisos) de los fallos de red
// recuperables, para que el llamador sepa si tiene sentido reintentar.
var (
	// ErrValidation entrada rechazada antes de cualquier llamada de red.
	ErrValidation = errors.New("entrada inválida")
	// ErrAccessDenied el rol de la sesión no permite la mutación.
	ErrAccessDenied = errors.New("acceso denegado")
	// ErrUnauthorized credenciales inválidas o sesión inexistente.
	ErrUnauthorized = errors.New("no autorizado")
	// ErrNotFound el recurso no existe en el snapshot cacheado.
	ErrNotFound = errors.New("recurso no encontrado")
	// ErrAlreadyReversed el movimiento ya fue estornado; estornar dos veces es
	// un error de lógica, no un fallo transitorio.
	ErrAlreadyReversed = errors.New("movimiento ya estornado")
	// ErrTransient timeout o fallo de red; reintentar es decisión del llamador.
	ErrTransient = errors.New("fallo transitorio de red")
	// ErrMalformedResponse el backend devolvió algo que no es JSON (típicamente
	// una página HTML de login cuando la sesión remota expiró).
	ErrMalformedResponse = errors.New("respuesta del servidor inválida")
	// ErrBackend el backend respondió success:false; el mensaje se propaga tal cual.
	ErrBackend = errors.New("error reportado por el backend")
)
