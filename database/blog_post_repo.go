package database

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/rpupo63/tagblog/errs"
	"github.com/rpupo63/tagblog/models"
)

// likeEscape is the escape character used in every LIKE pattern handed to
// Search.
const likeEscape = "/"

type BlogpostRepo struct {
	db *gorm.DB
}

func NewBlogpostRepo(db *gorm.DB) *BlogpostRepo {
	return &BlogpostRepo{db}
}

func withTags(db *gorm.DB) *gorm.DB {
	return db.Preload("Tags", func(db *gorm.DB) *gorm.DB {
		return db.Order("tags.name ASC")
	})
}

// Page returns up to limit posts starting at offset, ordered by id, together
// with the total number of posts.
func (r *BlogpostRepo) Page(ctx context.Context, offset, limit int) ([]models.Blogpost, int64, error) {
	return r.page(ctx, nil, offset, limit)
}

// Search is Page restricted to posts where every pattern matches the title or
// the body. Patterns are LIKE patterns escaped with '/'.
func (r *BlogpostRepo) Search(ctx context.Context, patterns []string, offset, limit int) ([]models.Blogpost, int64, error) {
	return r.page(ctx, matchingAll(patterns), offset, limit)
}

// matchingAll ANDs one (title OR body) condition per pattern, which selects the
// intersection over patterns of the posts matching each one.
func matchingAll(patterns []string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		for _, p := range patterns {
			db = db.Where("(title LIKE ? ESCAPE '"+likeEscape+"' OR body LIKE ? ESCAPE '"+likeEscape+"')", p, p)
		}
		return db
	}
}

func (r *BlogpostRepo) page(ctx context.Context, scope func(*gorm.DB) *gorm.DB, offset, limit int) ([]models.Blogpost, int64, error) {
	base := r.db.WithContext(ctx).Model(&models.Blogpost{})
	if scope != nil {
		base = scope(base)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, errs.NewDatabaseError("count", "blog posts", err)
	}

	posts := []models.Blogpost{}
	if total == 0 || int64(offset) >= total {
		return posts, total, nil
	}

	err := withTags(base.Session(&gorm.Session{})).
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, 0, errs.NewDatabaseError("find", "blog posts", err)
	}
	return posts, total, nil
}

// FindByID returns a blog post with its tags.
func (r *BlogpostRepo) FindByID(ctx context.Context, id uint) (*models.Blogpost, error) {
	var post models.Blogpost
	err := withTags(r.db.WithContext(ctx)).First(&post, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewNotFound("blog post")
	}
	if err != nil {
		return nil, errs.NewDatabaseError("find", "blog post", err)
	}
	return &post, nil
}

// Add inserts a new blog post and links it to post.Tags, which must already
// exist.
func (r *BlogpostRepo) Add(ctx context.Context, post *models.Blogpost) error {
	if err := r.db.WithContext(ctx).Omit("Tags.*").Create(post).Error; err != nil {
		return errs.NewDatabaseError("create", "blog post", err)
	}
	return nil
}

// Replace overwrites title, body and the full tag set of an existing post.
func (r *BlogpostRepo) Replace(ctx context.Context, post *models.Blogpost) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Blogpost
		if err := tx.Select("id").First(&existing, post.ID).Error; err != nil {
			return err
		}

		if err := tx.Model(&existing).Updates(map[string]interface{}{
			"title": post.Title,
			"body":  post.Body,
		}).Error; err != nil {
			return err
		}

		if len(post.Tags) == 0 {
			return tx.Model(&existing).Association("Tags").Clear()
		}
		return tx.Model(&existing).Association("Tags").Replace(post.Tags)
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.NewNotFound("blog post")
	}
	if err != nil {
		return errs.NewDatabaseError("update", "blog post", err)
	}
	return nil
}

// Delete removes a post and its tag links. Deleting an unknown id succeeds.
func (r *BlogpostRepo) Delete(ctx context.Context, id uint) error {
	if id == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Select("Tags").Delete(&models.Blogpost{ID: id}).Error; err != nil {
		return errs.NewDatabaseError("delete", "blog post", err)
	}
	return nil
}
