package auth

import "errors"

var (
	ErrEmailPasswordRequired = errors.New("Correo y contraseña son requeridos")
	ErrInvalidEmail          = errors.New("Correo inválido")
	ErrIncorrectPassword     = errors.New("Contraseña incorrecta")
	ErrNotAuthenticated      = errors.New("No autenticado")
)
