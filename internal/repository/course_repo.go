package repository

import (
	"context"

	"gorm.io/gorm"

	"planboard/backend/internal/model"
)

// CourseRepository 课表条目数据访问接口
type CourseRepository interface {
	Create(ctx context.Context, course *model.Course) error
	GetByID(ctx context.Context, id string) (*model.Course, error)
	ListBySemester(ctx context.Context, semesterID string) ([]model.Course, error)
	Update(ctx context.Context, course *model.Course) error
	Delete(ctx context.Context, id string) error
	// ReplaceImported 在事务中全量替换 ICS 导入的课程：
	// 先硬删除该学期 source=ics 的旧数据，再批量插入新数据。
	// 手动创建的课程不受影响。
	ReplaceImported(ctx context.Context, semesterID string, courses []model.Course) error
}

type courseRepo struct {
	db *gorm.DB
}

// NewCourseRepo 创建 CourseRepository 实例
func NewCourseRepo(db *gorm.DB) CourseRepository {
	return &courseRepo{db: db}
}

func (r *courseRepo) Create(ctx context.Context, course *model.Course) error {
	return r.db.WithContext(ctx).Create(course).Error
}

func (r *courseRepo) GetByID(ctx context.Context, id string) (*model.Course, error) {
	var course model.Course
	err := r.db.WithContext(ctx).First(&course, "course_id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *courseRepo) ListBySemester(ctx context.Context, semesterID string) ([]model.Course, error) {
	var courses []model.Course
	err := r.db.WithContext(ctx).
		Where("semester_id = ?", semesterID).
		Order("weekday ASC, period_index ASC").
		Find(&courses).Error
	return courses, err
}

func (r *courseRepo) Update(ctx context.Context, course *model.Course) error {
	return r.db.WithContext(ctx).Save(course).Error
}

func (r *courseRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&model.Course{}, "course_id = ?", id).Error
}

func (r *courseRepo) ReplaceImported(ctx context.Context, semesterID string, courses []model.Course) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 硬删除旧导入（替换场景，无需软删除审计）
		if err := tx.Unscoped().
			Where("semester_id = ? AND source = ?", semesterID, "ics").
			Delete(&model.Course{}).Error; err != nil {
			return err
		}
		if len(courses) > 0 {
			if err := tx.Create(&courses).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
