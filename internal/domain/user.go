package domain

import "time"

// User carries only what login needs (legacy usuarios). The user catalog CRUD
// lives in a separate admin service.
type User struct {
	ID           uint      `gorm:"column:id_usuario;primaryKey" json:"id_usuario"`
	Fullname     string    `gorm:"column:nombre_completo;not null" json:"nombre_completo"`
	Email        string    `gorm:"column:correo;not null;uniqueIndex" json:"correo"`
	PasswordHash string    `gorm:"column:password_hash;not null" json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (User) TableName() string {
	return "usuarios"
}
