package repository

import (
	"remino/cmd/internal/domain/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DefaultTokenRepository struct {
	db *gorm.DB
}

func NewTokenRepository(db *gorm.DB) *DefaultTokenRepository {
	return &DefaultTokenRepository{db: db}
}

func (r *DefaultTokenRepository) Revoke(jti string, expiresAt int64) error {
	token := &entity.RevokedToken{JTI: jti, ExpiresAt: expiresAt}
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(token).Error
}

func (r *DefaultTokenRepository) IsRevoked(jti string) (bool, error) {
	var count int64
	err := r.db.Model(&entity.RevokedToken{}).
		Where("jti = ?", jti).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// DeleteExpired drops revocations of tokens that expired before the given instant.
func (r *DefaultTokenRepository) DeleteExpired(before int64) (int64, error) {
	res := r.db.
		Where("expires_at < ?", before).
		Delete(&entity.RevokedToken{})
	return res.RowsAffected, res.Error
}
