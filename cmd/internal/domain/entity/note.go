package entity

import (
	"remino/cmd/internal/utils/uid"

	"gorm.io/gorm"
)

type Note struct {
	ID         int64  `gorm:"primaryKey;autoIncrement:false"`
	UserID     int64  `gorm:"not null;index"`
	Title      string `gorm:"not null"`
	Content    string `gorm:"not null"`
	CategoryID *int64 `gorm:"index"`
	ImageKey   string `gorm:"not null;default:''"`
	FileKey    string `gorm:"not null;default:''"`
	IsShared   bool   `gorm:"not null;default:false"`
	CreatedAt  int64  `gorm:"not null;autoCreateTime:false"`
	UpdatedAt  int64  `gorm:"not null;autoUpdateTime:false"`

	// Relations
	User       User      `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE;"`
	Category   *Category `gorm:"foreignKey:CategoryID;references:ID;constraint:OnDelete:SET NULL;"`
	SharedWith []*User   `gorm:"many2many:note_shares;constraint:OnDelete:CASCADE;"`
}

func (n *Note) BeforeCreate(*gorm.DB) error {
	if n.ID == 0 {
		n.ID = uid.Generate()
	}
	return nil
}

func (n *Note) OwnerID() int64 {
	return n.UserID
}

func (n *Note) IsSharedWith(userID int64) bool {
	return sharedWith(n.SharedWith, userID)
}

func (n *Note) Collaborators() []*User {
	return n.SharedWith
}
