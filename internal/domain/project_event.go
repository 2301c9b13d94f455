package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Ledger event types recorded in proyectos_historial.
const (
	ProjectEventCreated             = "CREATED"
	ProjectEventAmountsUpdated      = "AMOUNTS_UPDATED"
	ProjectEventUsedOverwritten     = "USED_OVERWRITTEN"
	ProjectEventHistoricalIncrement = "HISTORICAL_INCREMENT"
	ProjectEventDeactivated         = "DEACTIVATED"
)

// ProjectLedgerEvent is an audit row written in the same transaction as every
// ledger mutation (legacy proyectos_historial). Detail carries the before/after
// amounts as JSON.
type ProjectLedgerEvent struct {
	ID        uint           `gorm:"column:id_historial;primaryKey" json:"id_historial"`
	ProjectID uint           `gorm:"column:id_proyecto;not null;index" json:"id_proyecto"`
	EventType string         `gorm:"column:tipo_evento;not null" json:"tipo_evento"`
	Detail    datatypes.JSON `gorm:"column:detalle" json:"detalle"`
	CreatedAt time.Time      `json:"createdAt"`
}

func (ProjectLedgerEvent) TableName() string {
	return "proyectos_historial"
}
