package entity

import (
	"remino/cmd/internal/utils/uid"

	"gorm.io/gorm"
)

type Category struct {
	ID          int64  `gorm:"primaryKey;autoIncrement:false"`
	UserID      int64  `gorm:"not null;uniqueIndex:idx_category_owner_name"`
	Name        string `gorm:"not null;uniqueIndex:idx_category_owner_name"`
	Description string `gorm:"not null;default:''"`
	CreatedAt   int64  `gorm:"not null;autoCreateTime:false"`

	// NotesCount is only filled by queries selecting it explicitly.
	NotesCount int64 `gorm:"->;-:migration"`

	// Relations
	User User `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE;"`
}

func (c *Category) BeforeCreate(*gorm.DB) error {
	if c.ID == 0 {
		c.ID = uid.Generate()
	}
	return nil
}

func (c *Category) OwnerID() int64 {
	return c.UserID
}
