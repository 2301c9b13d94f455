package projects

import "errors"

var (
	ErrProjectNotFound        = errors.New("Proyecto anual no encontrado")
	ErrDuplicateActiveProject = errors.New("Ya existe un proyecto activo para este techo en el año indicado")
	// ErrUsedExceedsAssigned is only returned when the optional overdraw
	// guard is enabled; the legacy system allows negative disponible.
	ErrUsedExceedsAssigned = errors.New("El monto ejercido excede el monto asignado")
)
