package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"redbutton/internal/models/db_models"
)

type UserDataRepository interface {
	Insert(ctx context.Context, data *db_models.UserData) error
	FindByUserID(ctx context.Context, userID string) (*db_models.UserData, error)
	FindByStripeCustomerID(ctx context.Context, customerID string) (*db_models.UserData, error)
	Save(ctx context.Context, data *db_models.UserData) error
}

type userDataRepository struct {
	db *gorm.DB
}

func NewUserDataRepository(db *gorm.DB) UserDataRepository {
	return &userDataRepository{
		db: db,
	}
}

func (r *userDataRepository) Insert(ctx context.Context, data *db_models.UserData) error {
	return r.db.WithContext(ctx).Create(data).Error
}

func (r *userDataRepository) FindByUserID(ctx context.Context, userID string) (*db_models.UserData, error) {
	var data db_models.UserData
	err := r.db.WithContext(ctx).First(&data, "user_id = ?", userID).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &data, nil
}

func (r *userDataRepository) FindByStripeCustomerID(ctx context.Context, customerID string) (*db_models.UserData, error) {
	var data db_models.UserData
	err := r.db.WithContext(ctx).First(&data, "stripe_customer_id = ?", customerID).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &data, nil
}

func (r *userDataRepository) Save(ctx context.Context, data *db_models.UserData) error {
	return r.db.WithContext(ctx).Save(data).Error
}
