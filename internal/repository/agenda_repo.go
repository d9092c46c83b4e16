package repository

import (
	"context"

	"gorm.io/gorm"

	"planboard/backend/internal/model"
)

// AgendaRepository agenda 日程数据访问接口。
// 日期桶读写部分即 agenda.Store 的 GORM 实现。
type AgendaRepository interface {
	// ── agenda.Store ──
	BucketDates(ctx context.Context, sourceID string) ([]string, error)
	GetBucket(ctx context.Context, dateKey string) ([]model.AgendaEntry, error)
	SetBucket(ctx context.Context, dateKey string, entries []model.AgendaEntry) error
	DeleteBucket(ctx context.Context, dateKey string) error

	// ── 查询与手动条目 ──
	ListRange(ctx context.Context, fromKey, toKey string) ([]model.AgendaEntry, error)
	GetEntry(ctx context.Context, entryID string) (*model.AgendaEntry, error)
	CreateEntry(ctx context.Context, entry *model.AgendaEntry) error
	DeleteEntry(ctx context.Context, entryID string) error
}

type agendaRepo struct {
	db *gorm.DB
}

// NewAgendaRepo 创建 AgendaRepository 实例
func NewAgendaRepo(db *gorm.DB) AgendaRepository {
	return &agendaRepo{db: db}
}

func (r *agendaRepo) BucketDates(ctx context.Context, sourceID string) ([]string, error) {
	var dates []string
	err := r.db.WithContext(ctx).Model(&model.AgendaEntry{}).
		Distinct("date_key").
		Where("source_id = ?", sourceID).
		Order("date_key ASC").
		Pluck("date_key", &dates).Error
	return dates, err
}

func (r *agendaRepo) GetBucket(ctx context.Context, dateKey string) ([]model.AgendaEntry, error) {
	var entries []model.AgendaEntry
	err := r.db.WithContext(ctx).
		Where("date_key = ?", dateKey).
		Order("time ASC, entry_id ASC").
		Find(&entries).Error
	return entries, err
}

func (r *agendaRepo) SetBucket(ctx context.Context, dateKey string, entries []model.AgendaEntry) error {
	// 整桶替换在单事务内完成：对同一存储只有投影方写入（单写者约定）
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("date_key = ?", dateKey).
			Delete(&model.AgendaEntry{}).Error; err != nil {
			return err
		}
		if len(entries) > 0 {
			if err := tx.Create(&entries).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *agendaRepo) DeleteBucket(ctx context.Context, dateKey string) error {
	return r.db.WithContext(ctx).
		Where("date_key = ?", dateKey).
		Delete(&model.AgendaEntry{}).Error
}

func (r *agendaRepo) ListRange(ctx context.Context, fromKey, toKey string) ([]model.AgendaEntry, error) {
	var entries []model.AgendaEntry
	err := r.db.WithContext(ctx).
		Where("date_key >= ? AND date_key <= ?", fromKey, toKey).
		Order("date_key ASC, time ASC, entry_id ASC").
		Find(&entries).Error
	return entries, err
}

func (r *agendaRepo) GetEntry(ctx context.Context, entryID string) (*model.AgendaEntry, error) {
	var entry model.AgendaEntry
	err := r.db.WithContext(ctx).First(&entry, "entry_id = ?", entryID).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *agendaRepo) CreateEntry(ctx context.Context, entry *model.AgendaEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *agendaRepo) DeleteEntry(ctx context.Context, entryID string) error {
	return r.db.WithContext(ctx).Delete(&model.AgendaEntry{}, "entry_id = ?", entryID).Error
}
