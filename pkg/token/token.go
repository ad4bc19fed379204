// Package token genera los tokens de capacidad de los enlaces públicos de
// confirmación. Quien posee el token puede confirmar el movimiento, sin
// autenticación, así que el token debe ser imposible de adivinar y no debe
// registrarse completo en los logs.
package token

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// rawLen bytes de entropía por token (256 bits).
const rawLen = 32

// New genera un token opaco URL-safe de alta entropía (43 caracteres
// base64url sin padding).
func New() (string, error) {
	buf := make([]byte, rawLen)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generar token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// Abbrev devuelve un prefijo corto del token, apto para logs y mensajes de
// error. Nunca registrar el token completo.
func Abbrev(t string) string {
	if len(t) <= 8 {
		return t
	}
	return t[:8] + "…"
}
