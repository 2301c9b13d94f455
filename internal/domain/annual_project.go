package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status values for AnnualProject.Status (legacy estado column).
const (
	ProjectActive   = 1
	ProjectInactive = 0
)

// AnnualProject is the yearly ledger row against one budget ceiling (legacy
// proyectos_anuales). Available is derived (asignado - ejercido, 3 decimals)
// but persisted, and must be recomputed inside the same transaction as any
// change to Assigned or Used. At most one estado=1 row exists per
// (id_techo, anio) pair.
type AnnualProject struct {
	ID          uint            `gorm:"column:id_proyecto;primaryKey" json:"id_proyecto"`
	Year        int             `gorm:"column:anio;not null" json:"anio"`
	CeilingID   uint            `gorm:"column:id_techo;not null;index" json:"id_techo"`
	Assigned    decimal.Decimal `gorm:"column:asignado;type:decimal(18,3);not null;default:0" json:"asignado"`
	Used        decimal.Decimal `gorm:"column:ejercido;type:decimal(18,3);not null;default:0" json:"ejercido"`
	Available   decimal.Decimal `gorm:"column:disponible;type:decimal(18,3);not null;default:0" json:"disponible"`
	Description string          `gorm:"column:descripcion" json:"descripcion"`
	Status      int             `gorm:"column:estado;not null" json:"estado"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`

	Ceiling *BudgetCeiling `gorm:"foreignKey:CeilingID;references:ID" json:"techo,omitempty"`
}

func (AnnualProject) TableName() string {
	return "proyectos_anuales"
}
