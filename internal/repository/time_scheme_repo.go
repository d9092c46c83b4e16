package repository

import (
	"context"

	"gorm.io/gorm"

	"planboard/backend/internal/model"
)

// TimeSchemeRepository 作息方案数据访问接口
type TimeSchemeRepository interface {
	Create(ctx context.Context, scheme *model.TimeScheme) error
	GetByID(ctx context.Context, id string) (*model.TimeScheme, error)
	List(ctx context.Context) ([]model.TimeScheme, error)
	// ReplacePeriods 在事务中全量替换方案节次：先删除旧节次，再批量插入新节次
	ReplacePeriods(ctx context.Context, schemeID string, periods []model.SchemePeriod) error
	Update(ctx context.Context, scheme *model.TimeScheme) error
	Delete(ctx context.Context, id string) error
}

type timeSchemeRepo struct {
	db *gorm.DB
}

// NewTimeSchemeRepo 创建 TimeSchemeRepository 实例
func NewTimeSchemeRepo(db *gorm.DB) TimeSchemeRepository {
	return &timeSchemeRepo{db: db}
}

func (r *timeSchemeRepo) Create(ctx context.Context, scheme *model.TimeScheme) error {
	return r.db.WithContext(ctx).Create(scheme).Error
}

func (r *timeSchemeRepo) GetByID(ctx context.Context, id string) (*model.TimeScheme, error) {
	var scheme model.TimeScheme
	err := r.db.WithContext(ctx).Preload("Periods", func(db *gorm.DB) *gorm.DB {
		return db.Order("period_index ASC")
	}).First(&scheme, "scheme_id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &scheme, nil
}

func (r *timeSchemeRepo) List(ctx context.Context) ([]model.TimeScheme, error) {
	var schemes []model.TimeScheme
	err := r.db.WithContext(ctx).Preload("Periods", func(db *gorm.DB) *gorm.DB {
		return db.Order("period_index ASC")
	}).Order("name ASC").Find(&schemes).Error
	return schemes, err
}

func (r *timeSchemeRepo) ReplacePeriods(ctx context.Context, schemeID string, periods []model.SchemePeriod) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("scheme_id = ?", schemeID).
			Delete(&model.SchemePeriod{}).Error; err != nil {
			return err
		}
		if len(periods) > 0 {
			if err := tx.Create(&periods).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *timeSchemeRepo) Update(ctx context.Context, scheme *model.TimeScheme) error {
	return r.db.WithContext(ctx).Model(&model.TimeScheme{}).
		Where("scheme_id = ?", scheme.SchemeID).Update("name", scheme.Name).Error
}

func (r *timeSchemeRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&model.TimeScheme{}, "scheme_id = ?", id).Error
}
