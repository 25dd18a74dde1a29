package service

import (
	"context"
	"errors"

	"remino/cmd/internal/contract"
	"remino/cmd/internal/domain/entity"
	"remino/cmd/internal/infrastructure/identity"
	"remino/cmd/internal/utils"
	"remino/cmd/internal/utils/apierror"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
)

type AuthService struct {
	UserRepo  UserRepository
	TokenRepo TokenRepository
	Provider  identity.Provider
	Validate  *validator.Validate
}

func NewAuthService(userRepo UserRepository, tokenRepo TokenRepository, provider identity.Provider, validate *validator.Validate) *AuthService {
	return &AuthService{
		UserRepo:  userRepo,
		TokenRepo: tokenRepo,
		Provider:  provider,
		Validate:  validate,
	}
}

// Register creates the credentials on the identity provider and the user in our
// database, then logs the user in.
func (a *AuthService) Register(ctx context.Context, req *contract.RegisterRequest) (*contract.RegisterResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := a.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	if req.Password != req.Password2 {
		return nil, apierror.PasswordMismatchError
	}

	if apierr := a.checkAvailable(req.Username, req.Email); apierr != nil {
		return nil, apierr
	}

	sub, err := a.Provider.Register(ctx, req.Username, req.Email, req.Password)
	if err != nil {
		return nil, fromIdentityError(err)
	}

	now := utils.NowUTC()
	user := &entity.User{
		SubUUID:   sub,
		Username:  req.Username,
		Email:     req.Email,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := a.UserRepo.Save(user); err != nil {
		log.Errorf("failed to create user %s: %v", req.Username, err)
		if rerr := a.Provider.Remove(ctx, req.Username); rerr != nil {
			log.Errorf("failed to revert identity of %s: %v", req.Username, rerr)
		}
		return nil, apierror.InternalServerError
	}

	session, err := a.Provider.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		return nil, fromIdentityError(err)
	}

	return &contract.RegisterResponse{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
		Access:   session.AccessToken,
		IDToken:  session.IDToken,
	}, nil
}

func (a *AuthService) Login(ctx context.Context, req *contract.LoginRequest) (*contract.LoginResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := a.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	session, err := a.Provider.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		return nil, fromIdentityError(err)
	}

	user, err := a.UserRepo.FindByUsername(req.Username)
	if err != nil {
		log.Errorf("failed to fetch user %s: %v", req.Username, err)
		return nil, apierror.InternalServerError
	}

	if user == nil {
		log.Warnf("user %s authenticated but has no local record", req.Username)
		return nil, apierror.InvalidCredentialsError
	}

	return &contract.LoginResponse{
		Message:  "Login successful",
		UserID:   user.ID,
		Username: user.Username,
		Token:    session.AccessToken,
		IDToken:  session.IDToken,
	}, nil
}

// Logout revokes the presented token until its natural expiry.
func (a *AuthService) Logout(ctx context.Context, actor *entity.User, token string) (*contract.MessageResponse, apierror.ErrorResponse) {
	data, err := a.Provider.Verify(ctx, token)
	if err != nil {
		return nil, apierror.InvalidAuthTokenError
	}

	if err := a.TokenRepo.Revoke(data.JTI, data.ExpiresAt); err != nil {
		log.Errorf("failed to revoke token of user %d: %v", actor.ID, err)
		return nil, apierror.InternalServerError
	}

	if err := a.Provider.SignOut(ctx, token); err != nil {
		log.Warnf("identity provider sign out of user %d failed: %v", actor.ID, err)
	}
	return &contract.MessageResponse{Message: "Successfully logged out"}, nil
}

// Authenticate resolves a bearer token into the user it belongs to.
func (a *AuthService) Authenticate(ctx context.Context, token string) (*entity.User, apierror.ErrorResponse) {
	data, err := a.Provider.Verify(ctx, token)
	if err != nil {
		log.Debugf("rejected token: %v", err)
		return nil, apierror.InvalidAuthTokenError
	}

	revoked, err := a.TokenRepo.IsRevoked(data.JTI)
	if err != nil {
		log.Errorf("failed to check token revocation: %v", err)
		return nil, apierror.InternalServerError
	}

	if revoked {
		return nil, apierror.InvalidAuthTokenError
	}

	user, err := a.UserRepo.FindBySub(data.Sub)
	if err != nil {
		log.Errorf("failed to fetch user by sub %s: %v", data.Sub, err)
		return nil, apierror.InternalServerError
	}

	if user == nil {
		// Valid token, but the user is gone from our database
		return nil, apierror.IDPUserNotFoundError
	}
	return user, nil
}

func (a *AuthService) checkAvailable(username, email string) apierror.ErrorResponse {
	taken, err := a.UserRepo.ExistsByUsername(username)
	if err != nil {
		log.Errorf("failed to check if username %s exists: %v", username, err)
		return apierror.InternalServerError
	}

	if taken {
		return apierror.IDPUsernameTakenError
	}

	taken, err = a.UserRepo.ExistsByEmail(email)
	if err != nil {
		log.Errorf("failed to check if email %s exists: %v", email, err)
		return apierror.InternalServerError
	}

	if taken {
		return apierror.RegisterEmailTakenError
	}
	return nil
}

func fromIdentityError(err error) apierror.ErrorResponse {
	switch {
	case errors.Is(err, identity.ErrUsernameTaken):
		return apierror.IDPUsernameTakenError
	case errors.Is(err, identity.ErrInvalidCredentials):
		return apierror.InvalidCredentialsError
	case errors.Is(err, identity.ErrInvalidPassword):
		return apierror.IDPInvalidPasswordError
	case errors.Is(err, identity.ErrInvalidParameter):
		return apierror.IDPInvalidParameterError
	case errors.Is(err, identity.ErrTooManyRequests):
		return apierror.IDPTooManyRequestsError
	case errors.Is(err, identity.ErrUserNotConfirmed):
		return apierror.IDPUserNotConfirmedError
	case errors.Is(err, identity.ErrUserNotFound):
		return apierror.InvalidCredentialsError
	case errors.Is(err, identity.ErrInvalidToken):
		return apierror.InvalidAuthTokenError
	}

	log.Errorf("identity provider failure: %v", err)
	return apierror.InternalServerError
}
