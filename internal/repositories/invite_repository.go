package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"redbutton/internal/models/db_models"
)

type InviteRepository interface {
	Insert(ctx context.Context, invite *db_models.Invite) error
	FindByToken(ctx context.Context, token string) (*db_models.Invite, error)
	FindPendingByEmail(ctx context.Context, email string) (*db_models.Invite, error)
	Save(ctx context.Context, invite *db_models.Invite) error
}

type inviteRepository struct {
	db *gorm.DB
}

func NewInviteRepository(db *gorm.DB) InviteRepository {
	return &inviteRepository{
		db: db,
	}
}

func (r *inviteRepository) Insert(ctx context.Context, invite *db_models.Invite) error {
	return r.db.WithContext(ctx).Create(invite).Error
}

func (r *inviteRepository) FindByToken(ctx context.Context, token string) (*db_models.Invite, error) {
	var invite db_models.Invite
	err := r.db.WithContext(ctx).First(&invite, "token = ?", token).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &invite, nil
}

func (r *inviteRepository) FindPendingByEmail(ctx context.Context, email string) (*db_models.Invite, error) {
	var invite db_models.Invite
	err := r.db.WithContext(ctx).
		Where("email = ? AND status = ?", email, db_models.InviteStatusPending).
		First(&invite).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &invite, nil
}

func (r *inviteRepository) Save(ctx context.Context, invite *db_models.Invite) error {
	return r.db.WithContext(ctx).Save(invite).Error
}
