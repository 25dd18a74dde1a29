package cognitoclient

import (
	"context"
	"errors"
	"fmt"

	"remino/cmd/internal/infrastructure/identity"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	cognito "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"github.com/aws/smithy-go"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/gommon/log"
)

// API is the subset of the Cognito client used here.
type API interface {
	SignUp(ctx context.Context, in *cognito.SignUpInput, opts ...func(*cognito.Options)) (*cognito.SignUpOutput, error)
	AdminConfirmSignUp(ctx context.Context, in *cognito.AdminConfirmSignUpInput, opts ...func(*cognito.Options)) (*cognito.AdminConfirmSignUpOutput, error)
	AdminDeleteUser(ctx context.Context, in *cognito.AdminDeleteUserInput, opts ...func(*cognito.Options)) (*cognito.AdminDeleteUserOutput, error)
	InitiateAuth(ctx context.Context, in *cognito.InitiateAuthInput, opts ...func(*cognito.Options)) (*cognito.InitiateAuthOutput, error)
	GlobalSignOut(ctx context.Context, in *cognito.GlobalSignOutInput, opts ...func(*cognito.Options)) (*cognito.GlobalSignOutOutput, error)
}

// Client is an identity.Provider backed by a Cognito user pool. Access tokens are
// verified locally against the pool's JWKS.
type Client struct {
	api         API
	jwks        keyfunc.Keyfunc
	userPoolID  string
	appClientID string
	issuer      string
}

type accessClaims struct {
	jwt.RegisteredClaims
	TokenUse string `json:"token_use"`
	ClientID string `json:"client_id"`
}

func New(ctx context.Context, region, userPoolID, appClientID string) (*Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	// URL where Cognito publishes its public keys
	jwksURL := fmt.Sprintf("%s/.well-known/jwks.json", issuerURL(region, userPoolID))
	jwks, err := keyfunc.NewDefaultCtx(ctx, []string{jwksURL})
	if err != nil {
		return nil, fmt.Errorf("failed to create JWKS from resource at %s: %w", jwksURL, err)
	}

	log.Infof("JWKS initialized. Keys loaded from %s", jwksURL)
	return NewWithAPI(cognito.NewFromConfig(cfg), jwks, region, userPoolID, appClientID), nil
}

func NewWithAPI(api API, jwks keyfunc.Keyfunc, region, userPoolID, appClientID string) *Client {
	return &Client{
		api:         api,
		jwks:        jwks,
		userPoolID:  userPoolID,
		appClientID: appClientID,
		issuer:      issuerURL(region, userPoolID),
	}
}

// Register signs the user up and confirms the account right away, so the returned
// sub can log in immediately.
func (c *Client) Register(ctx context.Context, username, email, password string) (string, error) {
	out, err := c.api.SignUp(ctx, &cognito.SignUpInput{
		ClientId: aws.String(c.appClientID),
		Username: aws.String(username),
		Password: aws.String(password),
		UserAttributes: []types.AttributeType{
			{Name: aws.String("email"), Value: aws.String(email)},
		},
	})
	if err != nil {
		return "", mapError("SignUp", err)
	}

	_, err = c.api.AdminConfirmSignUp(ctx, &cognito.AdminConfirmSignUpInput{
		UserPoolId: aws.String(c.userPoolID),
		Username:   aws.String(username),
	})
	if err != nil {
		return "", mapError("AdminConfirmSignUp", err)
	}
	return aws.ToString(out.UserSub), nil
}

func (c *Client) Remove(ctx context.Context, username string) error {
	_, err := c.api.AdminDeleteUser(ctx, &cognito.AdminDeleteUserInput{
		UserPoolId: aws.String(c.userPoolID),
		Username:   aws.String(username),
	})
	return mapError("AdminDeleteUser", err)
}

func (c *Client) Authenticate(ctx context.Context, username, password string) (*identity.Session, error) {
	out, err := c.api.InitiateAuth(ctx, &cognito.InitiateAuthInput{
		AuthFlow: types.AuthFlowTypeUserPasswordAuth,
		AuthParameters: map[string]string{
			"USERNAME": username,
			"PASSWORD": password,
		},
		ClientId: aws.String(c.appClientID),
	})
	if err != nil {
		return nil, mapError("InitiateAuth", err)
	}

	// A challenge (new password, MFA...) is not something this API can complete.
	if out.AuthenticationResult == nil {
		log.Warnf("cognito: login of %s returned challenge %s", username, out.ChallengeName)
		return nil, identity.ErrInvalidCredentials
	}

	return &identity.Session{
		AccessToken: aws.ToString(out.AuthenticationResult.AccessToken),
		IDToken:     aws.ToString(out.AuthenticationResult.IdToken),
	}, nil
}

// Verify parses AND validates the access token signature locally.
func (c *Client) Verify(_ context.Context, token string) (*identity.TokenData, error) {
	var claims accessClaims
	_, err := jwt.ParseWithClaims(token, &claims, c.jwks.Keyfunc,
		jwt.WithIssuer(c.issuer),
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", identity.ErrInvalidToken, err)
	}

	if claims.TokenUse != "access" || claims.ClientID != c.appClientID {
		return nil, fmt.Errorf("%w: not an access token of this client", identity.ErrInvalidToken)
	}

	return &identity.TokenData{
		Sub:       claims.Subject,
		JTI:       claims.ID,
		ExpiresAt: claims.ExpiresAt.UnixMilli(),
	}, nil
}

// GlobalSignOut signs out all the user sessions in all devices.
func (c *Client) SignOut(ctx context.Context, token string) error {
	_, err := c.api.GlobalSignOut(ctx, &cognito.GlobalSignOutInput{
		AccessToken: aws.String(token),
	})
	return mapError("GlobalSignOut", err)
}

func issuerURL(region, userPoolID string) string {
	return fmt.Sprintf("https://cognito-idp.%s.amazonaws.com/%s", region, userPoolID)
}

// mapError translates Cognito exceptions into identity sentinels. Unknown errors
// are returned as they are.
func mapError(op string, err error) error {
	if err == nil {
		return nil
	}

	var (
		usernameExists  *types.UsernameExistsException
		invalidPassword *types.InvalidPasswordException
		invalidParam    *types.InvalidParameterException
		tooManyRequests *types.TooManyRequestsException
		notAuthorized   *types.NotAuthorizedException
		notConfirmed    *types.UserNotConfirmedException
		notFound        *types.UserNotFoundException
	)

	var sentinel error
	switch {
	case errors.As(err, &usernameExists):
		sentinel = identity.ErrUsernameTaken
	case errors.As(err, &invalidPassword):
		sentinel = identity.ErrInvalidPassword
	case errors.As(err, &invalidParam):
		sentinel = identity.ErrInvalidParameter
	case errors.As(err, &tooManyRequests):
		sentinel = identity.ErrTooManyRequests
	case errors.As(err, &notAuthorized):
		sentinel = identity.ErrInvalidCredentials
	case errors.As(err, &notConfirmed):
		sentinel = identity.ErrUserNotConfirmed
	case errors.As(err, &notFound):
		sentinel = identity.ErrUserNotFound
	}

	if sentinel != nil {
		return fmt.Errorf("%w: %v", sentinel, err)
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		log.Errorf("cognito %s failed: %s (%s)", op, apiErr.ErrorCode(), apiErr.ErrorMessage())
	}
	return fmt.Errorf("cognito %s: %w", op, err)
}
