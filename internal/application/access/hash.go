package access

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"regexp"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

// Parámetros PBKDF2. El salt es fijo de sistema: las credenciales ya
// guardadas en la planilla fueron derivadas con él, cambiarlo invalidaría
// todos los logins existentes.
const (
	pbkdf2Iterations = 100_000
	pbkdf2KeyLen     = 32
	systemSalt       = "DTIC_ALMOXARIFADO_SECURE_SALT_2026"
)

// hexHash64 forma de un hash PBKDF2 almacenado: 64 caracteres hexadecimales.
var hexHash64 = regexp.MustCompile(`^[0-9a-fA-F]{64}$`)

// HashPassword deriva la credencial a guardar: PBKDF2-SHA256 en hex minúscula.
func HashPassword(plain string) string {
	key := pbkdf2.Key([]byte(plain), []byte(systemSalt), pbkdf2Iterations, pbkdf2KeyLen, sha256.New)
	return hex.EncodeToString(key)
}

// VerifyPassword compara una contraseña contra la credencial almacenada.
// Detecta por forma si la credencial es un hash PBKDF2 o texto plano legado
// (filas anteriores a la migración); una credencial vacía nunca valida.
func VerifyPassword(stored, plain string) bool {
	stored = strings.TrimSpace(stored)
	if stored == "" {
		return false
	}
	if hexHash64.MatchString(stored) {
		derived := HashPassword(plain)
		return subtle.ConstantTimeCompare([]byte(strings.ToLower(stored)), []byte(derived)) == 1
	}
	// Comparación texto plano legado.
	return subtle.ConstantTimeCompare([]byte(stored), []byte(plain)) == 1
}
