package domain

// PositionAssignment ties a user to a position, optionally scoped to an
// administrative area (legacy puestos_usuarios). A user may hold several
// concurrent assignments; only estado=1 rows count for visibility.
type PositionAssignment struct {
	ID                   uint  `gorm:"column:id_puesto_usuario;primaryKey" json:"id_puesto_usuario"`
	UserID               uint  `gorm:"column:id_usuario;not null;index" json:"id_usuario"`
	PositionID           uint  `gorm:"column:id_puesto;not null" json:"id_puesto"`
	AdministrativeAreaID *uint `gorm:"column:id_area" json:"id_area"`
	Active               int   `gorm:"column:estado;not null" json:"estado"`
}

func (PositionAssignment) TableName() string {
	return "puestos_usuarios"
}

// AnalystArea grants an analyst explicit visibility over one financial area
// (legacy analistas_areas), independent of the analyst's own assignment area.
type AnalystArea struct {
	ID              uint `gorm:"column:id_analista_area;primaryKey" json:"id_analista_area"`
	UserID          uint `gorm:"column:id_usuario;not null;index" json:"id_usuario"`
	FinancialAreaID uint `gorm:"column:id_area_fin;not null" json:"id_area_fin"`
}

func (AnalystArea) TableName() string {
	return "analistas_areas"
}
