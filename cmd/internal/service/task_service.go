package service

import (
	"context"

	"remino/cmd/internal/contract"
	"remino/cmd/internal/domain/entity"
	"remino/cmd/internal/domain/events"
	"remino/cmd/internal/domain/policy"
	"remino/cmd/internal/utils"
	"remino/cmd/internal/utils/apierror"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
)

type TaskService struct {
	TaskRepo     TaskRepository
	UserRepo     UserRepository
	CategoryRepo CategoryRepository
	Events       Publisher
	Policy       *policy.SharePolicy
	Validate     *validator.Validate
}

func NewTaskService(
	taskRepo TaskRepository,
	userRepo UserRepository,
	categoryRepo CategoryRepository,
	publisher Publisher,
	validate *validator.Validate,
) *TaskService {
	return &TaskService{
		TaskRepo:     taskRepo,
		UserRepo:     userRepo,
		CategoryRepo: categoryRepo,
		Events:       publisher,
		Policy:       policy.NewSharePolicy(),
		Validate:     validate,
	}
}

func (t *TaskService) ListTasks(actor *entity.User, q entity.ListQuery) ([]*contract.TaskResponse, apierror.ErrorResponse) {
	tasks, err := t.TaskRepo.FindVisible(actor.ID, q)
	if err != nil {
		log.Errorf("failed to fetch tasks of user %d: %v", actor.ID, err)
		return nil, apierror.InternalServerError
	}

	resp := make([]*contract.TaskResponse, len(tasks))
	for i, task := range tasks {
		resp[i] = toTaskResponse(task)
	}
	return resp, nil
}

func (t *TaskService) GetTask(actor *entity.User, id int64) (*contract.TaskResponse, apierror.ErrorResponse) {
	task, apierr := t.fetchTask(id)
	if apierr != nil {
		return nil, apierr
	}

	if apierr := t.Policy.CanRead(task, actor); apierr != nil {
		return nil, apierr
	}
	return toTaskResponse(task), nil
}

// CreateTask persists a task owned by actor, see NoteService.CreateNote.
func (t *TaskService) CreateTask(ctx context.Context, actor *entity.User, req *contract.TaskRequest) (*contract.TaskResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if valerr := t.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	dueDate, err := utils.ParseTimestamp(req.DueDate)
	if err != nil {
		return nil, apierror.InvalidDueDateFieldError
	}

	category, apierr := ownedCategory(t.CategoryRepo, actor, req.Category)
	if apierr != nil {
		return nil, apierr
	}

	collaborators, apierr := resolveCollaborators(t.UserRepo, actor, req.SharedWith)
	if apierr != nil {
		return nil, apierr
	}

	now := utils.NowUTC()
	task := &entity.Task{
		UserID:      actor.ID,
		Title:       req.Title,
		Description: req.Description,
		DueDate:     dueDate,
		IsCompleted: req.IsCompleted,
		CategoryID:  req.Category,
		IsShared:    len(collaborators) > 0,
		CreatedAt:   now,
		UpdatedAt:   now,
		User:        *actor,
		Category:    category,
		SharedWith:  collaborators,
	}

	if err := t.TaskRepo.Create(task); err != nil {
		log.Errorf("failed to create task: %v", err)
		return nil, apierror.InternalServerError
	}

	t.publishShared(ctx, actor, task)
	return toTaskResponse(task), nil
}

func (t *TaskService) ReplaceTask(ctx context.Context, actor *entity.User, id int64, req *contract.TaskRequest) (*contract.TaskResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if valerr := t.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}
	return t.UpdateTask(ctx, actor, id, req.ToUpdate())
}

// UpdateTask follows the same all-or-nothing rules as NoteService.UpdateNote.
func (t *TaskService) UpdateTask(ctx context.Context, actor *entity.User, id int64, req *contract.UpdateTaskRequest) (*contract.TaskResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if valerr := t.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	var dueDate *int64
	if req.DueDate != nil {
		parsed, err := utils.ParseTimestamp(*req.DueDate)
		if err != nil {
			return nil, apierror.InvalidDueDateFieldError
		}
		dueDate = &parsed
	}

	task, apierr := t.fetchTask(id)
	if apierr != nil {
		return nil, apierr
	}

	if apierr := t.Policy.CanWrite(task, actor); apierr != nil {
		return nil, apierr
	}

	category, apierr := categoryChange(t.CategoryRepo, actor, req.Category)
	if apierr != nil {
		return nil, apierr
	}

	var collaborators []*entity.User
	if req.SharedWith != nil {
		collaborators, apierr = resolveCollaborators(t.UserRepo, actor, req.SharedWith)
		if apierr != nil {
			return nil, apierr
		}
	}

	// Nothing can be rejected from here on.
	cs := &changeSet{}
	setValue(cs, req.Title, &task.Title)
	setValue(cs, req.Description, &task.Description)
	setValue(cs, dueDate, &task.DueDate)
	setValue(cs, req.IsCompleted, &task.IsCompleted)
	if req.Category.Set {
		cs.setCategory(req.Category.Value, &task.CategoryID)
		task.Category = category
	}

	if req.SharedWith != nil {
		cs.setShares(collaborators, &task.SharedWith, &task.IsShared)
	}

	if cs.dirty {
		task.UpdatedAt = utils.NowUTC()
		if err := t.TaskRepo.Save(task, cs.replaceShares); err != nil {
			log.Errorf("failed to update task %d: %v", task.ID, err)
			return nil, apierror.InternalServerError
		}
	}

	if cs.replaceShares {
		t.publishShared(ctx, actor, task)
	}
	return toTaskResponse(task), nil
}

func (t *TaskService) DeleteTask(actor *entity.User, id int64) apierror.ErrorResponse {
	task, apierr := t.fetchTask(id)
	if apierr != nil {
		return apierr
	}

	if apierr := t.Policy.CanWrite(task, actor); apierr != nil {
		return apierr
	}

	if err := t.TaskRepo.Delete(task); err != nil {
		log.Errorf("failed to delete task %d: %v", task.ID, err)
		return apierror.InternalServerError
	}
	return nil
}

func (t *TaskService) fetchTask(id int64) (*entity.Task, apierror.ErrorResponse) {
	task, err := t.TaskRepo.FindByID(id)
	if err != nil {
		log.Errorf("failed to fetch task %d: %v", id, err)
		return nil, apierror.InternalServerError
	}

	if task == nil {
		return nil, apierror.NotFoundError
	}
	return task, nil
}

func (t *TaskService) publishShared(ctx context.Context, owner *entity.User, task *entity.Task) {
	if len(task.SharedWith) == 0 {
		return
	}

	t.Events.Publish(ctx, &events.TaskShared{
		SharedPayload: sharedPayload(task.ID, task.Title, owner, task.SharedWith),
	})
}

func toTaskResponse(task *entity.Task) *contract.TaskResponse {
	return &contract.TaskResponse{
		ID:          task.ID,
		User:        toUserResponse(&task.User),
		Title:       task.Title,
		Description: task.Description,
		DueDate:     utils.FormatEpoch(task.DueDate),
		IsCompleted: task.IsCompleted,
		Category:    task.CategoryID,
		IsShared:    task.IsShared,
		SharedUsers: toUserResponses(task.SharedWith),
		CreatedAt:   utils.FormatEpoch(task.CreatedAt),
		UpdatedAt:   utils.FormatEpoch(task.UpdatedAt),
	}
}
