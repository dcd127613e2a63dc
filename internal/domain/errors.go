package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrValidation         = errors.New("entrada inválida")
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrNegativeStock      = errors.New("la cantidad en stock no puede quedar negativa")
	ErrConflict           = errors.New("conflicto con una mutación concurrente, reintente")
	ErrExternalService    = errors.New("servicio externo no disponible")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrInvalidToken       = errors.New("token inválido o expirado")
	ErrForbidden          = errors.New("acceso denegado")
)
