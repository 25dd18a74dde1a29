package repository

import (
	"errors"

	"remino/cmd/internal/domain/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const categoryWithCount = "categories.*, " +
	"(SELECT COUNT(*) FROM notes WHERE notes.category_id = categories.id) AS notes_count"

type DefaultCategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *DefaultCategoryRepository {
	return &DefaultCategoryRepository{db: db}
}

// FindAllByOwner lists the categories of userID ordered by name, with their note count.
func (d *DefaultCategoryRepository) FindAllByOwner(userID int64) ([]*entity.Category, error) {
	var categories []*entity.Category
	err := d.db.
		Select(categoryWithCount).
		Preload("User").
		Where("categories.user_id = ?", userID).
		Order("categories.name ASC").
		Find(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

func (d *DefaultCategoryRepository) FindByID(id int64) (*entity.Category, error) {
	var category entity.Category
	err := d.db.
		Select(categoryWithCount).
		Preload("User").
		Where("categories.id = ?", id).
		First(&category).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &category, nil
}

// ExistsByOwnerAndName reports whether userID already owns a category called name,
// ignoring the category with id exceptID.
func (d *DefaultCategoryRepository) ExistsByOwnerAndName(userID int64, name string, exceptID int64) (bool, error) {
	var count int64
	err := d.db.Model(&entity.Category{}).
		Where("user_id = ? AND name = ? AND id <> ?", userID, name, exceptID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (d *DefaultCategoryRepository) Save(category *entity.Category) error {
	return d.db.Omit(clause.Associations).Save(category).Error
}

func (d *DefaultCategoryRepository) Delete(category *entity.Category) error {
	return d.db.Delete(category).Error
}
