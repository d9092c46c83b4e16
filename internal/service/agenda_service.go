package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"planboard/backend/internal/dto"
	"planboard/backend/internal/model"
	"planboard/backend/internal/repository"
	"planboard/backend/pkg/dateutil"
)

// ── 日程模块业务错误 ──

var (
	ErrAgendaEntryNotFound = errors.New("日程条目不存在")
	ErrAgendaEntryNotOwn   = errors.New("投影条目不可手动删除，请修改来源计划/课表")
	ErrAgendaRangeInvalid  = errors.New("日期区间非法")
	ErrAgendaRangeTooWide  = errors.New("日期区间过大，最多 366 天")
)

// maxRangeDays 区间查询上限，防止一次拉取跨多年的条目
const maxRangeDays = 366

// AgendaService 日程模块业务接口
// 读取直接查 agenda 存储；投影条目只读，手动条目可增删。
type AgendaService interface {
	GetDay(ctx context.Context, dateKey string) (*dto.AgendaDayResponse, error)
	GetRange(ctx context.Context, fromKey, toKey string) (*dto.AgendaRangeResponse, error)
	CreateManual(ctx context.Context, req *dto.CreateManualEntryRequest) (*dto.AgendaEntryResponse, error)
	DeleteManual(ctx context.Context, entryID string) error
}

type agendaService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewAgendaService 创建 AgendaService 实例
func NewAgendaService(repo *repository.Repository, logger *zap.Logger) AgendaService {
	return &agendaService{repo: repo, logger: logger}
}

func (s *agendaService) GetDay(ctx context.Context, dateKey string) (*dto.AgendaDayResponse, error) {
	if _, ok := dateutil.ParseDateKey(dateKey); !ok {
		return nil, ErrAgendaRangeInvalid
	}
	entries, err := s.repo.Agenda.GetBucket(ctx, dateKey)
	if err != nil {
		s.logger.Error("查询日程失败", zap.Error(err))
		return nil, err
	}
	return &dto.AgendaDayResponse{
		Date:    dateKey,
		Entries: toAgendaEntryResponses(entries),
	}, nil
}

func (s *agendaService) GetRange(ctx context.Context, fromKey, toKey string) (*dto.AgendaRangeResponse, error) {
	from, ok1 := dateutil.ParseDateKey(fromKey)
	to, ok2 := dateutil.ParseDateKey(toKey)
	if !ok1 || !ok2 || to.Before(from) {
		return nil, ErrAgendaRangeInvalid
	}
	if dateutil.DaysBetween(from, to) >= maxRangeDays {
		return nil, ErrAgendaRangeTooWide
	}

	entries, err := s.repo.Agenda.ListRange(ctx, fromKey, toKey)
	if err != nil {
		s.logger.Error("查询日程区间失败", zap.Error(err))
		return nil, err
	}

	// 条目已按 date_key 升序，顺序分组即可
	resp := &dto.AgendaRangeResponse{From: fromKey, To: toKey, Days: []dto.AgendaDayResponse{}}
	for _, e := range entries {
		n := len(resp.Days)
		if n == 0 || resp.Days[n-1].Date != e.DateKey {
			resp.Days = append(resp.Days, dto.AgendaDayResponse{Date: e.DateKey})
			n++
		}
		resp.Days[n-1].Entries = append(resp.Days[n-1].Entries, toAgendaEntryResponse(&e))
	}
	return resp, nil
}

func (s *agendaService) CreateManual(ctx context.Context, req *dto.CreateManualEntryRequest) (*dto.AgendaEntryResponse, error) {
	entry := model.AgendaEntry{
		EntryID:    uuid.New().String(),
		DateKey:    req.DateKey,
		Time:       req.Time,
		Content:    req.Content,
		Priority:   defaultPriority(req.Priority),
		SourceType: "manual",
	}
	if err := s.repo.Agenda.CreateEntry(ctx, &entry); err != nil {
		s.logger.Error("创建手动日程失败", zap.Error(err))
		return nil, err
	}
	resp := toAgendaEntryResponse(&entry)
	return &resp, nil
}

func (s *agendaService) DeleteManual(ctx context.Context, entryID string) error {
	entry, err := s.repo.Agenda.GetEntry(ctx, entryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAgendaEntryNotFound
		}
		s.logger.Error("查询日程条目失败", zap.Error(err))
		return err
	}
	// 投影条目由来源驱动，直接删会在下次投影时复活
	if entry.SourceType != "manual" {
		return ErrAgendaEntryNotOwn
	}
	if err := s.repo.Agenda.DeleteEntry(ctx, entryID); err != nil {
		s.logger.Error("删除日程条目失败", zap.Error(err))
		return err
	}
	return nil
}

// ── 内部辅助 ──

func toAgendaEntryResponse(e *model.AgendaEntry) dto.AgendaEntryResponse {
	resp := dto.AgendaEntryResponse{
		ID:         e.EntryID,
		Date:       e.DateKey,
		Time:       e.Time,
		Content:    e.Content,
		Priority:   e.Priority,
		SourceType: e.SourceType,
	}
	if e.SourceType != "manual" {
		resp.SourceID = e.SourceID
	}
	return resp
}

func toAgendaEntryResponses(entries []model.AgendaEntry) []dto.AgendaEntryResponse {
	out := make([]dto.AgendaEntryResponse, 0, len(entries))
	for i := range entries {
		out = append(out, toAgendaEntryResponse(&entries[i]))
	}
	return out
}
