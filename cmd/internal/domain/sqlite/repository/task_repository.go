package repository

import (
	"errors"

	"remino/cmd/internal/domain/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var taskOrderings = []string{"due_date", "created_at", "updated_at"}

const defaultTaskOrder = "tasks.due_date DESC"

type DefaultTaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *DefaultTaskRepository {
	return &DefaultTaskRepository{db: db}
}

// FindVisible lists every task owned by or shared with userID, each exactly once.
func (d *DefaultTaskRepository) FindVisible(userID int64, q entity.ListQuery) ([]*entity.Task, error) {
	tx := d.db.Model(&entity.Task{}).
		Select("tasks.*").
		Joins("LEFT JOIN categories ON categories.id = tasks.category_id")

	tx = taskShares.visibleTo(tx, "tasks", userID)
	tx = searchScope(tx, q.Search, "tasks.title", "tasks.description", "categories.name")

	var tasks []*entity.Task
	err := withTaskRelations(tx).
		Order(orderClause(q.Ordering, "tasks", taskOrderings, defaultTaskOrder)).
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

func (d *DefaultTaskRepository) FindByID(id int64) (*entity.Task, error) {
	var task entity.Task
	err := withTaskRelations(d.db).First(&task, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &task, nil
}

// FindPendingDueBetween returns the incomplete tasks whose due date lies in
// [from, to] (both inclusive), with their owner loaded.
func (d *DefaultTaskRepository) FindPendingDueBetween(from, to int64) ([]*entity.Task, error) {
	var tasks []*entity.Task
	err := d.db.
		Preload("User").
		Where("is_completed = ? AND due_date >= ? AND due_date <= ?", false, from, to).
		Order("due_date ASC").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// Create inserts the task and its collaborator set in a single transaction.
func (d *DefaultTaskRepository) Create(task *entity.Task) error {
	return d.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(task).Error; err != nil {
			return err
		}
		return taskShares.replace(tx, task.ID, task.SharedWith)
	})
}

// Save persists the task fields and, when replaceShares is set, rewrites the
// collaborator set to task.SharedWith. Both happen in one transaction.
func (d *DefaultTaskRepository) Save(task *entity.Task, replaceShares bool) error {
	return d.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(task).Error; err != nil {
			return err
		}

		if !replaceShares {
			return nil
		}
		return taskShares.replace(tx, task.ID, task.SharedWith)
	})
}

func (d *DefaultTaskRepository) Delete(task *entity.Task) error {
	return d.db.Delete(task).Error
}

func withTaskRelations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("User").
		Preload("Category").
		Preload("SharedWith", func(db *gorm.DB) *gorm.DB {
			return db.Order("users.id")
		})
}
