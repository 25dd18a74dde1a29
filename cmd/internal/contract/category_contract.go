package contract

type CategoryRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=10000"`
}

type UpdateCategoryRequest struct {
	Name        *string `json:"name" validate:"omitnil,min=1,max=100"`
	Description *string `json:"description" validate:"omitnil,max=10000"`
}

func (r *CategoryRequest) ToUpdate() *UpdateCategoryRequest {
	return &UpdateCategoryRequest{Name: &r.Name, Description: &r.Description}
}

type CategoryResponse struct {
	ID          int64         `json:"id"`
	User        *UserResponse `json:"user"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	NotesCount  int64         `json:"notes_count"`
	CreatedAt   string        `json:"created_at"`
}
