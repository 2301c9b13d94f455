package domain

// AdministrativeArea is the organisational/infrastructure side of an area
// (legacy areas_administrativas). Position assignments point here.
type AdministrativeArea struct {
	ID   uint   `gorm:"column:id_area;primaryKey" json:"id_area"`
	Name string `gorm:"column:nombre;not null" json:"nombre"`
}

func (AdministrativeArea) TableName() string {
	return "areas_administrativas"
}

// FinancialArea is the budget side of an area (legacy areas_financieras).
// Budget ceilings and analyst assignments reference financial areas; the
// id_area column is the translation relation back to the administrative area.
type FinancialArea struct {
	ID                   uint   `gorm:"column:id_area_fin;primaryKey" json:"id_area_fin"`
	Name                 string `gorm:"column:nombre;not null" json:"nombre"`
	AdministrativeAreaID *uint  `gorm:"column:id_area" json:"id_area"`
}

func (FinancialArea) TableName() string {
	return "areas_financieras"
}
