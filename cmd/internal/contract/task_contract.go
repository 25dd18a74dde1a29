package contract

// TaskRequest is the full body accepted on POST and PUT. See NoteRequest for the
// meaning of a nil SharedWith.
type TaskRequest struct {
	Title       string   `json:"title" validate:"required,max=255"`
	Description string   `json:"description" validate:"required,max=1000000"`
	DueDate     string   `json:"due_date" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	IsCompleted bool     `json:"is_completed"`
	Category    *int64   `json:"category" validate:"omitnil,gt=0"`
	SharedWith  []string `json:"shared_with" validate:"omitempty,max=100,dive,required,email"`
}

type UpdateTaskRequest struct {
	Title       *string    `json:"title" validate:"omitnil,min=1,max=255"`
	Description *string    `json:"description" validate:"omitnil,max=1000000"`
	DueDate     *string    `json:"due_date" validate:"omitnil,datetime=2006-01-02T15:04:05Z07:00"`
	IsCompleted *bool      `json:"is_completed"`
	Category    NullableID `json:"category"`
	SharedWith  []string   `json:"shared_with" validate:"omitempty,max=100,dive,required,email"`
}

func (r *TaskRequest) ToUpdate() *UpdateTaskRequest {
	return &UpdateTaskRequest{
		Title:       &r.Title,
		Description: &r.Description,
		DueDate:     &r.DueDate,
		IsCompleted: &r.IsCompleted,
		Category:    Of(r.Category),
		SharedWith:  r.SharedWith,
	}
}

type TaskResponse struct {
	ID          int64           `json:"id"`
	User        *UserResponse   `json:"user"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	DueDate     string          `json:"due_date"`
	IsCompleted bool            `json:"is_completed"`
	Category    *int64          `json:"category"`
	IsShared    bool            `json:"is_shared"`
	SharedUsers []*UserResponse `json:"shared_users"`
	CreatedAt   string          `json:"created_at"`
	UpdatedAt   string          `json:"updated_at"`
}
