package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BudgetCeiling is a funding envelope for one (financial area, chapter,
// funding source) tuple (legacy techos_presupuestales). Owned by the catalog
// service; this subsystem only reads it.
type BudgetCeiling struct {
	ID              uint            `gorm:"column:id_techo;primaryKey" json:"id_techo"`
	FinancialAreaID uint            `gorm:"column:id_area_fin;not null" json:"id_area_fin"`
	ChapterID       uint            `gorm:"column:id_capitulo;not null" json:"id_capitulo"`
	FundingSourceID uint            `gorm:"column:id_fuente;not null" json:"id_fuente"`
	BudgetedAmount  decimal.Decimal `gorm:"column:cantidad_presupuestada;type:decimal(18,3);not null;default:0" json:"cantidad_presupuestada"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`

	FinancialArea *FinancialArea `gorm:"foreignKey:FinancialAreaID;references:ID" json:"area_financiera,omitempty"`
	Chapter       *Chapter       `gorm:"foreignKey:ChapterID;references:ID" json:"capitulo,omitempty"`
	FundingSource *FundingSource `gorm:"foreignKey:FundingSourceID;references:ID" json:"fuente_financiamiento,omitempty"`
}

func (BudgetCeiling) TableName() string {
	return "techos_presupuestales"
}
