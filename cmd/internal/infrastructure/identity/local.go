package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"remino/cmd/internal/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const localIssuer = "remino"

// Credential is a locally stored password hash, linked to entity.User by SubUUID.
type Credential struct {
	SubUUID      string `gorm:"primaryKey;column:sub_uuid"`
	Username     string `gorm:"not null;uniqueIndex"`
	PasswordHash string `gorm:"not null"`
	CreatedAt    int64  `gorm:"not null;autoCreateTime:false"`
}

func (Credential) TableName() string {
	return "credentials"
}

// LocalProvider keeps bcrypt hashed credentials in the application database and
// issues HS256 signed JWTs.
type LocalProvider struct {
	db     *gorm.DB
	secret []byte
	ttl    time.Duration
	cost   int
}

type LocalOption func(*LocalProvider)

// WithBcryptCost overrides bcrypt.DefaultCost.
func WithBcryptCost(cost int) LocalOption {
	return func(p *LocalProvider) {
		p.cost = cost
	}
}

func NewLocalProvider(db *gorm.DB, secret string, ttl time.Duration, opts ...LocalOption) *LocalProvider {
	p := &LocalProvider{
		db:     db,
		secret: []byte(secret),
		ttl:    ttl,
		cost:   bcrypt.DefaultCost,
	}

	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *LocalProvider) Register(ctx context.Context, username, _, password string) (string, error) {
	var count int64
	err := p.db.WithContext(ctx).
		Model(&Credential{}).
		Where("username = ?", username).
		Count(&count).Error
	if err != nil {
		return "", err
	}

	if count > 0 {
		return "", ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", ErrInvalidPassword
		}
		return "", err
	}

	cred := &Credential{
		SubUUID:      uuid.NewString(),
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    utils.NowUTC(),
	}
	if err := p.db.WithContext(ctx).Create(cred).Error; err != nil {
		return "", err
	}
	return cred.SubUUID, nil
}

func (p *LocalProvider) Remove(ctx context.Context, username string) error {
	return p.db.WithContext(ctx).
		Where("username = ?", username).
		Delete(&Credential{}).Error
}

func (p *LocalProvider) Authenticate(ctx context.Context, username, password string) (*Session, error) {
	var cred Credential
	err := p.db.WithContext(ctx).Where("username = ?", username).First(&cred).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}

	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := p.issue(cred.SubUUID)
	if err != nil {
		return nil, err
	}
	return &Session{AccessToken: token}, nil
}

func (p *LocalProvider) Verify(_ context.Context, token string) (*TokenData, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return p.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(localIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if claims.Subject == "" || claims.ID == "" {
		return nil, fmt.Errorf("%w: missing sub or jti", ErrInvalidToken)
	}

	return &TokenData{
		Sub:       claims.Subject,
		JTI:       claims.ID,
		ExpiresAt: claims.ExpiresAt.UnixMilli(),
	}, nil
}

// SignOut has nothing to do locally, logout is enforced through token revocation.
func (p *LocalProvider) SignOut(context.Context, string) error {
	return nil
}

func (p *LocalProvider) issue(sub string) (string, error) {
	now := time.Now().UTC()
	claims := jwt.RegisteredClaims{
		Issuer:    localIssuer,
		Subject:   sub,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(p.ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(p.secret)
}
