package repository

import (
	"errors"

	"remino/cmd/internal/domain/entity"

	"gorm.io/gorm"
)

type DefaultUserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *DefaultUserRepository {
	return &DefaultUserRepository{db: db}
}

// FindAllByEmails returns the users whose email exactly matches one of emails.
func (u *DefaultUserRepository) FindAllByEmails(emails []string) ([]*entity.User, error) {
	if len(emails) == 0 {
		return []*entity.User{}, nil
	}

	var users []*entity.User
	err := u.db.Where("email IN ?", emails).Order("id").Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (u *DefaultUserRepository) FindByID(id int64) (*entity.User, error) {
	return u.first("id = ?", id)
}

func (u *DefaultUserRepository) FindByEmail(email string) (*entity.User, error) {
	return u.first("email = ?", email)
}

func (u *DefaultUserRepository) FindByUsername(username string) (*entity.User, error) {
	return u.first("username = ?", username)
}

func (u *DefaultUserRepository) FindBySub(sub string) (*entity.User, error) {
	return u.first("sub_uuid = ?", sub)
}

func (u *DefaultUserRepository) ExistsByEmail(email string) (bool, error) {
	return u.exists("email = ?", email)
}

func (u *DefaultUserRepository) ExistsByUsername(username string) (bool, error) {
	return u.exists("username = ?", username)
}

func (u *DefaultUserRepository) Save(user *entity.User) error {
	return u.db.Save(user).Error
}

func (u *DefaultUserRepository) first(query string, args ...any) (*entity.User, error) {
	var user entity.User
	err := u.db.Where(query, args...).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (u *DefaultUserRepository) exists(query string, args ...any) (bool, error) {
	var count int64
	err := u.db.Model(&entity.User{}).Where(query, args...).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
