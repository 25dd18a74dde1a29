package contract

type RegisterRequest struct {
	Username  string `json:"username" validate:"required,min=2,max=150,nospaces"`
	Email     string `json:"email" validate:"required,email,max=254"`
	Password  string `json:"password" validate:"required,min=8,max=64,hasupper,haslower,hasdigit" sanitize:"-"`
	Password2 string `json:"password2" validate:"required" sanitize:"-"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required,max=150"`
	Password string `json:"password" validate:"required,max=64" sanitize:"-"`
}

type RegisterResponse struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Access   string `json:"access"`
	IDToken  string `json:"id_token,omitempty"`
}

type LoginResponse struct {
	Message  string `json:"message"`
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Token    string `json:"token"`
	IDToken  string `json:"id_token,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// UserResponse is the public projection of a user, embedded in every owned resource.
type UserResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}
