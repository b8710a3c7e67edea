package database

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

type Database struct {
	db           *gorm.DB
	blogpostRepo *BlogpostRepo
	tagRepo      *TagRepo
	userRepo     *UserRepo
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		db:           db,
		blogpostRepo: NewBlogpostRepo(db),
		tagRepo:      NewTagRepo(db),
		userRepo:     NewUserRepo(db),
	}
}

// Accessor methods for each repository

func (d Database) BlogpostRepo() *BlogpostRepo {
	return d.blogpostRepo
}

func (d Database) TagRepo() *TagRepo {
	return d.tagRepo
}

func (d Database) UserRepo() *UserRepo {
	return d.userRepo
}

// Ping checks that the primary connection is alive.
func (d Database) Ping(ctx context.Context) error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return fmt.Errorf("getting sql.DB: %w", err)
	}
	return sqlDB.PingContext(ctx)
}
