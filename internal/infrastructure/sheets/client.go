// Package sheets implementa el adaptador hacia el backend autoritativo: un
// Web App (Apps Script) delante de una planilla que expone dos primitivas,
// "fetch de snapshot completo" y "append de mutación". No existe fetch
// incremental ni notificación push; el Sync Cache sondea y este cliente solo
// traduce errores a la taxonomía de dominio.
package sheets

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jhoicas/almoxen-core/internal/domain"
	"github.com/jhoicas/almoxen-core/internal/domain/entity"
	"github.com/jhoicas/almoxen-core/pkg/logger"
)

// Client cliente HTTP del backend de planilla.
// Usa net/http de la librería estándar; el endpoint no tiene SDK.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *logger.Logger
}

// NewClient construye el cliente. El timeout de red queda holgado porque el
// timeout duro por operación lo impone el llamador vía context.
func NewClient(baseURL string, log *logger.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimSpace(baseURL),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		log:        log,
	}
}

// Configured indica si hay una URL de backend utilizable.
func (c *Client) Configured() bool {
	return strings.HasPrefix(c.baseURL, "http")
}

// envelope cuerpo de toda mutación POST: {action, payload}.
type envelope struct {
	Action  string `json:"action"`
	Payload any    `json:"payload"`
}

// mutationResult respuesta de toda mutación.
type mutationResult struct {
	Success   bool   `json:"success"`
	Error     string `json:"error,omitempty"`
	ReceiptID string `json:"receiptId,omitempty"`
}

// GetAll trae el snapshot completo (?action=getAll). El parámetro t actúa de
// cache-buster contra los proxies de Apps Script.
func (c *Client) GetAll(ctx context.Context) (*entity.RawSnapshot, error) {
	if !c.Configured() {
		return nil, fmt.Errorf("%w: REMOTE_API_URL no configurada", domain.ErrTransient)
	}

	url := fmt.Sprintf("%s?action=getAll&t=%d", c.baseURL, time.Now().UnixMilli())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: construir request: %v", domain.ErrTransient, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrTransient, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: HTTP %d", domain.ErrTransient, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: leer respuesta: %v", domain.ErrTransient, err)
	}

	if looksLikeHTML(body) {
		// Síntoma clásico de sesión expirada: el proveedor redirige a su
		// página de login en vez de devolver JSON.
		return nil, fmt.Errorf("%w: el backend devolvió una página de login", domain.ErrMalformedResponse)
	}

	var raw entity.RawSnapshot
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}

	// El endpoint también puede responder {"error": "..."} con HTTP 200.
	var errBody struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &errBody) == nil && errBody.Error != "" {
		return nil, fmt.Errorf("%w: %s", domain.ErrBackend, errBody.Error)
	}

	return &raw, nil
}

// Post envía una mutación (?action=<action>, cuerpo {action,payload}) y
// devuelve el receiptId si el backend emitió uno. Un success:false se traduce
// a ErrBackend con el mensaje del servidor tal cual.
//
// El Content-Type text/plain es deliberado: Apps Script rechaza el preflight
// CORS de application/json.
func (c *Client) Post(ctx context.Context, action string, payload any) (string, error) {
	if !c.Configured() {
		return "", fmt.Errorf("%w: REMOTE_API_URL no configurada", domain.ErrTransient)
	}

	body, err := json.Marshal(envelope{Action: action, Payload: payload})
	if err != nil {
		return "", fmt.Errorf("%w: serializar payload: %v", domain.ErrValidation, err)
	}

	url := fmt.Sprintf("%s?action=%s", c.baseURL, action)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(string(body)))
	if err != nil {
		return "", fmt.Errorf("%w: construir request: %v", domain.ErrTransient, err)
	}
	req.Header.Set("Content-Type", "text/plain;charset=utf-8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrTransient, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: leer respuesta: %v", domain.ErrTransient, err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: HTTP %d", domain.ErrTransient, resp.StatusCode)
	}
	if looksLikeHTML(respBody) {
		return "", fmt.Errorf("%w: el backend devolvió una página de login", domain.ErrMalformedResponse)
	}

	var result mutationResult
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}
	if !result.Success {
		if result.Error == "" {
			result.Error = "el servidor rechazó la operación"
		}
		return "", fmt.Errorf("%w: %s", domain.ErrBackend, result.Error)
	}

	c.log.Debug().Str("action", action).Str("receipt_id", result.ReceiptID).Msg("mutación aceptada por el backend")
	return result.ReceiptID, nil
}

// Ping mide la latencia de un getAll mínimo; lo usa la página de ajustes.
// Cualquier fallo cuenta como prueba fallida, incluido un error declarado por
// el propio backend: "alcanzable pero roto" no es "conectado".
func (c *Client) Ping(ctx context.Context) (time.Duration, error) {
	start := time.Now()
	if _, err := c.GetAll(ctx); err != nil {
		return 0, err
	}
	return time.Since(start), nil
}

func looksLikeHTML(body []byte) bool {
	trimmed := strings.TrimSpace(string(body))
	lower := strings.ToLower(trimmed)
	return strings.HasPrefix(lower, "<!doctype html") || strings.Contains(lower, "<html")
}
