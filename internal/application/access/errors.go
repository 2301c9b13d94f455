package access

import "errors"

var (
	// ErrNoPositionsAssigned means the user has zero active position
	// assignments. Callers answer 404, not an empty list, so "user has no
	// role" stays distinguishable from "role has no matching data".
	ErrNoPositionsAssigned = errors.New("El usuario no tiene puestos asignados")
)
