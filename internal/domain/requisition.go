package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Requisition is a purchase-request line drawing against a budget ceiling
// (legacy requisiciones). Produced by the procurement workflow; read-only here.
// Month is 1-12 or null when the request carries no month.
type Requisition struct {
	ID              uint            `gorm:"column:id_requisicion;primaryKey" json:"id_requisicion"`
	CeilingID       uint            `gorm:"column:id_techo;not null;index" json:"id_techo"`
	FinancialAreaID uint            `gorm:"column:id_area_fin;not null;index" json:"id_area_fin"`
	ProductID       uint            `gorm:"column:id_producto;not null" json:"id_producto"`
	Quantity        decimal.Decimal `gorm:"column:cantidad;type:decimal(18,3);not null;default:0" json:"cantidad"`
	Month           *int            `gorm:"column:mes" json:"mes"`
	RequestedByID   uint            `gorm:"column:id_usuario_solicita;not null" json:"id_usuario_solicita"`
	ApprovedByID    *uint           `gorm:"column:id_usuario_aprueba" json:"id_usuario_aprueba"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`

	Product *Product `gorm:"foreignKey:ProductID;references:ID" json:"producto,omitempty"`
}

func (Requisition) TableName() string {
	return "requisiciones"
}
