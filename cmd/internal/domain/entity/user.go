package entity

import (
	"remino/cmd/internal/utils/uid"

	"gorm.io/gorm"
)

// User is the general basic structure of all users across the platform.
// Credentials live with the identity provider, SubUUID links both sides.
type User struct {
	ID        int64  `gorm:"primaryKey;autoIncrement:false"`
	SubUUID   string `gorm:"not null;uniqueIndex"`
	Username  string `gorm:"not null;uniqueIndex"`
	Email     string `gorm:"not null;uniqueIndex"`
	CreatedAt int64  `gorm:"not null;autoCreateTime:false"`
	UpdatedAt int64  `gorm:"not null;autoUpdateTime:false"`
}

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == 0 {
		u.ID = uid.Generate()
	}
	return nil
}
