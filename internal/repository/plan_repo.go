package repository

import (
	"context"

	"gorm.io/gorm"

	"planboard/backend/internal/model"
)

// PlanRepository 计划数据访问接口
type PlanRepository interface {
	Create(ctx context.Context, plan *model.Plan) error
	GetByID(ctx context.Context, id string) (*model.Plan, error)
	// List 按分类过滤，category 为空时返回全部
	List(ctx context.Context, category string) ([]model.Plan, error)
	Update(ctx context.Context, plan *model.Plan) error
	Delete(ctx context.Context, id string) error
}

type planRepo struct {
	db *gorm.DB
}

// NewPlanRepo 创建 PlanRepository 实例
func NewPlanRepo(db *gorm.DB) PlanRepository {
	return &planRepo{db: db}
}

func (r *planRepo) Create(ctx context.Context, plan *model.Plan) error {
	return r.db.WithContext(ctx).Create(plan).Error
}

func (r *planRepo) GetByID(ctx context.Context, id string) (*model.Plan, error) {
	var plan model.Plan
	err := r.db.WithContext(ctx).First(&plan, "plan_id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *planRepo) List(ctx context.Context, category string) ([]model.Plan, error) {
	var plans []model.Plan
	q := r.db.WithContext(ctx).Order("priority ASC, created_at ASC")
	if category != "" {
		q = q.Where("category = ?", category)
	}
	err := q.Find(&plans).Error
	return plans, err
}

func (r *planRepo) Update(ctx context.Context, plan *model.Plan) error {
	return r.db.WithContext(ctx).Save(plan).Error
}

func (r *planRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&model.Plan{}, "plan_id = ?", id).Error
}
