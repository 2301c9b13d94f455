package domain

import "github.com/shopspring/decimal"

// Chapter is a fiscal chapter (legacy capitulos), e.g. "2000 Materiales".
type Chapter struct {
	ID   uint   `gorm:"column:id_capitulo;primaryKey" json:"id_capitulo"`
	Key  string `gorm:"column:clave;not null" json:"clave"`
	Name string `gorm:"column:nombre;not null" json:"nombre"`
}

func (Chapter) TableName() string {
	return "capitulos"
}

// FundingSource is a funding source (legacy fuentes_financiamiento).
type FundingSource struct {
	ID   uint   `gorm:"column:id_fuente;primaryKey" json:"id_fuente"`
	Name string `gorm:"column:nombre;not null" json:"nombre"`
}

func (FundingSource) TableName() string {
	return "fuentes_financiamiento"
}

// Product is a purchasable item referenced by requisitions (legacy productos).
type Product struct {
	ID        uint            `gorm:"column:id_producto;primaryKey" json:"id_producto"`
	Name      string          `gorm:"column:nombre;not null" json:"nombre"`
	UnitPrice decimal.Decimal `gorm:"column:precio_unitario;type:decimal(18,3);not null;default:0" json:"precio_unitario"`
}

func (Product) TableName() string {
	return "productos"
}
