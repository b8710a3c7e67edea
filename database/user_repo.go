package database

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/rpupo63/tagblog/errs"
	"github.com/rpupo63/tagblog/models"
)

type UserRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) *UserRepo {
	return &UserRepo{db}
}

// FindByUsername returns the user with the given name.
func (r *UserRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewNotFound("user")
	}
	if err != nil {
		return nil, errs.NewDatabaseError("find", "user", err)
	}
	return &user, nil
}

// Add inserts a user. A taken username yields an already-exists error.
func (r *UserRepo) Add(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if errs.IsDuplicateKey(err) {
			return errs.NewAlreadyExists("user " + user.Username)
		}
		return errs.NewDatabaseError("create", "user", err)
	}
	return nil
}
