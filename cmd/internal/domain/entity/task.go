package entity

import (
	"remino/cmd/internal/utils/uid"

	"gorm.io/gorm"
)

type Task struct {
	ID          int64  `gorm:"primaryKey;autoIncrement:false"`
	UserID      int64  `gorm:"not null;index"`
	Title       string `gorm:"not null"`
	Description string `gorm:"not null"`
	DueDate     int64  `gorm:"not null;index"`
	IsCompleted bool   `gorm:"not null;default:false"`
	CategoryID  *int64 `gorm:"index"`
	IsShared    bool   `gorm:"not null;default:false"`
	CreatedAt   int64  `gorm:"not null;autoCreateTime:false"`
	UpdatedAt   int64  `gorm:"not null;autoUpdateTime:false"`

	// Relations
	User       User      `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE;"`
	Category   *Category `gorm:"foreignKey:CategoryID;references:ID;constraint:OnDelete:SET NULL;"`
	SharedWith []*User   `gorm:"many2many:task_shares;constraint:OnDelete:CASCADE;"`
}

func (t *Task) BeforeCreate(*gorm.DB) error {
	if t.ID == 0 {
		t.ID = uid.Generate()
	}
	return nil
}

func (t *Task) OwnerID() int64 {
	return t.UserID
}

func (t *Task) IsSharedWith(userID int64) bool {
	return sharedWith(t.SharedWith, userID)
}

func (t *Task) Collaborators() []*User {
	return t.SharedWith
}
