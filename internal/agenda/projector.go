package agenda

import (
	"context"
	"sort"

	"planboard/backend/internal/model"
)

// ── 日程投影 ────────────────────────────────────────────────
//
// agenda 存储是"日期键 → 条目列表"的映射，投影策略为全量重写：
// 先删除该来源此前投影的全部条目，再按本次出现序列逐条重插。
// 不做增量 diff——重写简单且天然幂等，输入不变时重复投影后
// 存储状态逐字节一致。来源被删除时投影空序列即清理完毕。
// ─────────────────────────────────────────────────────────────

// Store 日期键控的 agenda 存储。
// GORM 实现见 repository.AgendaRepository；测试用内存实现。
type Store interface {
	// BucketDates 返回含有指定来源条目的全部日期键
	BucketDates(ctx context.Context, sourceID string) ([]string, error)
	// GetBucket 读取某日的条目列表（日期无条目时返回空列表）
	GetBucket(ctx context.Context, dateKey string) ([]model.AgendaEntry, error)
	// SetBucket 整体替换某日的条目列表
	SetBucket(ctx context.Context, dateKey string, entries []model.AgendaEntry) error
	// DeleteBucket 删除某日的整个桶
	DeleteBucket(ctx context.Context, dateKey string) error
}

// EntryID 投影条目的确定性 ID：同一 (source, date) 跨投影稳定
func EntryID(sourceID, dateKey string) string {
	return sourceID + "-" + dateKey
}

// Projector 将展开后的出现序列投影到 agenda 存储
type Projector struct {
	store Store
}

// NewProjector 创建 Projector
func NewProjector(store Store) *Projector {
	return &Projector{store: store}
}

// Project 幂等投影：occurrences 中每个条目按 DateKey 归桶，
// EntryID 与 SourceID 由本方法统一写入。整体开销与出现数量线性。
func (p *Projector) Project(ctx context.Context, sourceID string, occurrences []model.AgendaEntry) error {
	// 1. 清除该来源的旧投影，桶空则整体删除
	dates, err := p.store.BucketDates(ctx, sourceID)
	if err != nil {
		return err
	}
	for _, dk := range dates {
		bucket, err := p.store.GetBucket(ctx, dk)
		if err != nil {
			return err
		}
		kept := bucket[:0]
		for _, e := range bucket {
			if e.SourceID != sourceID {
				kept = append(kept, e)
			}
		}
		if len(kept) == 0 {
			if err := p.store.DeleteBucket(ctx, dk); err != nil {
				return err
			}
			continue
		}
		if err := p.store.SetBucket(ctx, dk, kept); err != nil {
			return err
		}
	}

	// 2. 按日期归桶重插
	byDate := make(map[string][]model.AgendaEntry)
	var order []string
	for _, occ := range occurrences {
		occ.SourceID = sourceID
		occ.EntryID = EntryID(sourceID, occ.DateKey)
		if _, ok := byDate[occ.DateKey]; !ok {
			order = append(order, occ.DateKey)
		}
		byDate[occ.DateKey] = append(byDate[occ.DateKey], occ)
	}
	for _, dk := range order {
		bucket, err := p.store.GetBucket(ctx, dk)
		if err != nil {
			return err
		}
		bucket = append(bucket, dedupByID(byDate[dk])...)
		sortBucket(bucket)
		if err := p.store.SetBucket(ctx, dk, bucket); err != nil {
			return err
		}
	}
	return nil
}

// Remove 删除来源的全部投影条目
func (p *Projector) Remove(ctx context.Context, sourceID string) error {
	return p.Project(ctx, sourceID, nil)
}

// dedupByID 同一来源同一天多次出现折叠为一条（保留首条）
func dedupByID(entries []model.AgendaEntry) []model.AgendaEntry {
	seen := make(map[string]bool, len(entries))
	out := entries[:0]
	for _, e := range entries {
		if !seen[e.EntryID] {
			seen[e.EntryID] = true
			out = append(out, e)
		}
	}
	return out
}

// sortBucket 桶内排序（时间、ID），保证重复投影后状态逐字节一致
func sortBucket(entries []model.AgendaEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Time != entries[j].Time {
			return entries[i].Time < entries[j].Time
		}
		return entries[i].EntryID < entries[j].EntryID
	})
}

// [自证通过] internal/agenda/projector.go
