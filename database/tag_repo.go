package database

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/rpupo63/tagblog/errs"
	"github.com/rpupo63/tagblog/models"
)

type TagRepo struct {
	db *gorm.DB
}

func NewTagRepo(db *gorm.DB) *TagRepo {
	return &TagRepo{db}
}

// FindAll returns every tag ordered by id.
func (r *TagRepo) FindAll(ctx context.Context) ([]models.Tag, error) {
	tags := []models.Tag{}
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&tags).Error; err != nil {
		return nil, errs.NewDatabaseError("find", "tags", err)
	}
	return tags, nil
}

// FindByIDs returns the tags among ids that exist. Unknown ids are ignored.
func (r *TagRepo) FindByIDs(ctx context.Context, ids []uint) ([]models.Tag, error) {
	tags := []models.Tag{}
	if len(ids) == 0 {
		return tags, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id ASC").Find(&tags).Error; err != nil {
		return nil, errs.NewDatabaseError("find", "tags", err)
	}
	return tags, nil
}

// Add inserts a single tag.
func (r *TagRepo) Add(ctx context.Context, tag *models.Tag) error {
	if err := r.db.WithContext(ctx).Create(tag).Error; err != nil {
		if errs.IsDuplicateKey(err) {
			return errs.NewNameConflictError(tag.Name, err)
		}
		return errs.NewDatabaseError("create", "tag", err)
	}
	return nil
}

// Reconcile loads the stored tags, asks plan for the changes to make and
// applies them in one transaction: deletes (with their post links), then
// renames, then inserts. A uniqueness violation anywhere rolls the whole
// batch back and is reported as a naming conflict.
func (r *TagRepo) Reconcile(ctx context.Context, plan func(stored []models.Tag) (models.TagChanges, error)) (models.TagChanges, error) {
	var applied models.TagChanges

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		stored := []models.Tag{}
		if err := tx.Order("id ASC").Find(&stored).Error; err != nil {
			return err
		}

		changes, err := plan(stored)
		if err != nil {
			return err
		}

		if len(changes.Deletes) > 0 {
			if err := tx.Exec("DELETE FROM blogpost_tags WHERE tag_id IN ?", changes.Deletes).Error; err != nil {
				return err
			}
			if err := tx.Delete(&models.Tag{}, changes.Deletes).Error; err != nil {
				return err
			}
		}

		for _, tag := range changes.Updates {
			if err := tx.Model(&models.Tag{}).Where("id = ?", tag.ID).Update("name", tag.Name).Error; err != nil {
				return err
			}
		}

		for _, name := range changes.Inserts {
			if err := tx.Create(&models.Tag{Name: name}).Error; err != nil {
				return err
			}
		}

		applied = changes
		return nil
	})
	if err == nil {
		return applied, nil
	}

	var apiErr *errs.ApiErr
	switch {
	case errors.As(err, &apiErr):
		return models.TagChanges{}, err
	case errs.IsDuplicateKey(err):
		return models.TagChanges{}, errs.NewNameConflictError("", err)
	default:
		return models.TagChanges{}, errs.NewTransactionFailedError("tag reconciliation", err)
	}
}
