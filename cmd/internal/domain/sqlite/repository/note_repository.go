package repository

import (
	"errors"

	"remino/cmd/internal/domain/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var noteOrderings = []string{"created_at", "updated_at"}

const defaultNoteOrder = "notes.updated_at DESC"

type DefaultNoteRepository struct {
	db *gorm.DB
}

func NewNoteRepository(db *gorm.DB) *DefaultNoteRepository {
	return &DefaultNoteRepository{db: db}
}

// FindVisible lists every note owned by or shared with userID, each exactly once.
func (d *DefaultNoteRepository) FindVisible(userID int64, q entity.ListQuery) ([]*entity.Note, error) {
	tx := d.db.Model(&entity.Note{}).
		Select("notes.*").
		Joins("LEFT JOIN categories ON categories.id = notes.category_id")

	tx = noteShares.visibleTo(tx, "notes", userID)
	tx = searchScope(tx, q.Search, "notes.title", "notes.content", "categories.name")

	var notes []*entity.Note
	err := withNoteRelations(tx).
		Order(orderClause(q.Ordering, "notes", noteOrderings, defaultNoteOrder)).
		Find(&notes).Error
	if err != nil {
		return nil, err
	}
	return notes, nil
}

func (d *DefaultNoteRepository) FindByID(id int64) (*entity.Note, error) {
	var note entity.Note
	err := withNoteRelations(d.db).First(&note, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &note, nil
}

// Create inserts the note and its collaborator set in a single transaction.
func (d *DefaultNoteRepository) Create(note *entity.Note) error {
	return d.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(note).Error; err != nil {
			return err
		}
		return noteShares.replace(tx, note.ID, note.SharedWith)
	})
}

// Save persists the note fields and, when replaceShares is set, rewrites the
// collaborator set to note.SharedWith. Both happen in one transaction.
func (d *DefaultNoteRepository) Save(note *entity.Note, replaceShares bool) error {
	return d.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(note).Error; err != nil {
			return err
		}

		if !replaceShares {
			return nil
		}
		return noteShares.replace(tx, note.ID, note.SharedWith)
	})
}

func (d *DefaultNoteRepository) Delete(note *entity.Note) error {
	return d.db.Delete(note).Error
}

func withNoteRelations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("User").
		Preload("Category").
		Preload("SharedWith", func(db *gorm.DB) *gorm.DB {
			return db.Order("users.id")
		})
}
