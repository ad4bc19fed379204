package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound         = errors.New("recurso no encontrado")
	ErrInvalidInput     = errors.New("entrada inválida")
	ErrDuplicate        = errors.New("recurso duplicado")
	ErrUnauthorized     = errors.New("no autorizado")
	ErrForbidden        = errors.New("acceso denegado")
	ErrInvalidState     = errors.New("estado inválido para la operación")
	ErrAlreadyConfirmed = errors.New("el movimiento ya fue confirmado")
	ErrCancelled        = errors.New("el movimiento fue cancelado")
	ErrExpired          = errors.New("el enlace de confirmación expiró")
)
