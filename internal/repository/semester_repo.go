package repository

import (
	"context"

	"gorm.io/gorm"

	"planboard/backend/internal/model"
)

// SemesterRepository 学期数据访问接口
type SemesterRepository interface {
	Create(ctx context.Context, semester *model.Semester) error
	GetByID(ctx context.Context, id string) (*model.Semester, error)
	// GetCurrent 获取当前激活学期
	GetCurrent(ctx context.Context) (*model.Semester, error)
	List(ctx context.Context) ([]model.Semester, error)
	Update(ctx context.Context, semester *model.Semester) error
	Delete(ctx context.Context, id string) error
	// ClearActive 取消所有学期的激活状态（激活新学期前调用）
	ClearActive(ctx context.Context) error
}

type semesterRepo struct {
	db *gorm.DB
}

// NewSemesterRepo 创建 SemesterRepository 实例
func NewSemesterRepo(db *gorm.DB) SemesterRepository {
	return &semesterRepo{db: db}
}

func (r *semesterRepo) Create(ctx context.Context, semester *model.Semester) error {
	return r.db.WithContext(ctx).Create(semester).Error
}

func (r *semesterRepo) GetByID(ctx context.Context, id string) (*model.Semester, error) {
	var sem model.Semester
	err := r.db.WithContext(ctx).
		Preload("Scheme.Periods").Preload("Scheme").
		First(&sem, "semester_id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &sem, nil
}

func (r *semesterRepo) GetCurrent(ctx context.Context) (*model.Semester, error) {
	var sem model.Semester
	err := r.db.WithContext(ctx).
		Preload("Scheme.Periods").Preload("Scheme").
		First(&sem, "is_active = ?", true).Error
	if err != nil {
		return nil, err
	}
	return &sem, nil
}

func (r *semesterRepo) List(ctx context.Context) ([]model.Semester, error) {
	var sems []model.Semester
	err := r.db.WithContext(ctx).Order("start_date DESC").Find(&sems).Error
	return sems, err
}

func (r *semesterRepo) Update(ctx context.Context, semester *model.Semester) error {
	return r.db.WithContext(ctx).Save(semester).Error
}

func (r *semesterRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&model.Semester{}, "semester_id = ?", id).Error
}

func (r *semesterRepo) ClearActive(ctx context.Context) error {
	return r.db.WithContext(ctx).Model(&model.Semester{}).
		Where("is_active = ?", true).Update("is_active", false).Error
}
