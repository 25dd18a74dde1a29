package contract

const MaxAttachmentSizeBytes = 30 * 1024 * 1024

var (
	ValidImageTypes = []string{"png", "jpg", "jpeg", "jfif", "webp", "gif"}
	ValidFileTypes  = []string{"pdf", "txt", "md", "csv", "doc", "docx", "xls", "xlsx", "zip", "png", "jpg", "jpeg"}
)

// NoteRequest is the full body accepted on POST and PUT.
//
// SharedWith keeps JSON semantics: a missing key (or null) decodes to nil and leaves
// the collaborators untouched on PUT, while [] clears them.
type NoteRequest struct {
	Title      string   `json:"title" validate:"required,max=255"`
	Content    string   `json:"content" validate:"required,max=1000000"`
	Category   *int64   `json:"category" validate:"omitnil,gt=0"`
	SharedWith []string `json:"shared_with" validate:"omitempty,max=100,dive,required,email"`
}

type UpdateNoteRequest struct {
	Title      *string    `json:"title" validate:"omitnil,min=1,max=255"`
	Content    *string    `json:"content" validate:"omitnil,max=1000000"`
	Category   NullableID `json:"category"`
	SharedWith []string   `json:"shared_with" validate:"omitempty,max=100,dive,required,email"`
}

// ToUpdate turns a full PUT body into the partial form used by the service.
func (r *NoteRequest) ToUpdate() *UpdateNoteRequest {
	return &UpdateNoteRequest{
		Title:      &r.Title,
		Content:    &r.Content,
		Category:   Of(r.Category),
		SharedWith: r.SharedWith,
	}
}

type NoteResponse struct {
	ID          int64           `json:"id"`
	User        *UserResponse   `json:"user"`
	Title       string          `json:"title"`
	Content     string          `json:"content"`
	Category    *int64          `json:"category"`
	Image       *string         `json:"image"`
	File        *string         `json:"file"`
	IsShared    bool            `json:"is_shared"`
	SharedUsers []*UserResponse `json:"shared_users"`
	CreatedAt   string          `json:"created_at"`
	UpdatedAt   string          `json:"updated_at"`
}
