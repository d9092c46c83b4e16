package service

import (
	"context"
	"fmt"
	"sort"

	"gorm.io/gorm"

	"planboard/backend/internal/model"
)

// ── Mock PlanRepository ──

type mockPlanRepo struct {
	plans map[string]*model.Plan
	seq   int
}

func newMockPlanRepo() *mockPlanRepo {
	return &mockPlanRepo{plans: make(map[string]*model.Plan)}
}

func (m *mockPlanRepo) Create(_ context.Context, plan *model.Plan) error {
	if plan.PlanID == "" {
		m.seq++
		plan.PlanID = fmt.Sprintf("plan-%03d", m.seq)
	}
	m.plans[plan.PlanID] = plan
	return nil
}

func (m *mockPlanRepo) GetByID(_ context.Context, id string) (*model.Plan, error) {
	if p, ok := m.plans[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPlanRepo) List(_ context.Context, category string) ([]model.Plan, error) {
	var ids []string
	for id, p := range m.plans {
		if category != "" && p.Category != category {
			continue
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)
	var result []model.Plan
	for _, id := range ids {
		result = append(result, *m.plans[id])
	}
	return result, nil
}

func (m *mockPlanRepo) Update(_ context.Context, plan *model.Plan) error {
	m.plans[plan.PlanID] = plan
	return nil
}

func (m *mockPlanRepo) Delete(_ context.Context, id string) error {
	delete(m.plans, id)
	return nil
}

// ── Mock SemesterRepository ──

type mockSemesterRepo struct {
	semesters map[string]*model.Semester
	seq       int
}

func newMockSemesterRepo() *mockSemesterRepo {
	return &mockSemesterRepo{semesters: make(map[string]*model.Semester)}
}

func (m *mockSemesterRepo) Create(_ context.Context, semester *model.Semester) error {
	if semester.SemesterID == "" {
		m.seq++
		semester.SemesterID = fmt.Sprintf("sem-%03d", m.seq)
	}
	m.semesters[semester.SemesterID] = semester
	return nil
}

func (m *mockSemesterRepo) GetByID(_ context.Context, id string) (*model.Semester, error) {
	if s, ok := m.semesters[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSemesterRepo) GetCurrent(_ context.Context) (*model.Semester, error) {
	for _, s := range m.semesters {
		if s.IsActive {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSemesterRepo) List(_ context.Context) ([]model.Semester, error) {
	var ids []string
	for id := range m.semesters {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	var result []model.Semester
	for _, id := range ids {
		result = append(result, *m.semesters[id])
	}
	return result, nil
}

func (m *mockSemesterRepo) Update(_ context.Context, semester *model.Semester) error {
	m.semesters[semester.SemesterID] = semester
	return nil
}

func (m *mockSemesterRepo) Delete(_ context.Context, id string) error {
	delete(m.semesters, id)
	return nil
}

func (m *mockSemesterRepo) ClearActive(_ context.Context) error {
	for _, s := range m.semesters {
		s.IsActive = false
	}
	return nil
}

// ── Mock TimeSchemeRepository ──

type mockSchemeRepo struct {
	schemes map[string]*model.TimeScheme
	seq     int
}

func newMockSchemeRepo() *mockSchemeRepo {
	return &mockSchemeRepo{schemes: make(map[string]*model.TimeScheme)}
}

func (m *mockSchemeRepo) Create(_ context.Context, scheme *model.TimeScheme) error {
	if scheme.SchemeID == "" {
		m.seq++
		scheme.SchemeID = fmt.Sprintf("scheme-%03d", m.seq)
	}
	m.schemes[scheme.SchemeID] = scheme
	return nil
}

func (m *mockSchemeRepo) GetByID(_ context.Context, id string) (*model.TimeScheme, error) {
	if s, ok := m.schemes[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSchemeRepo) List(_ context.Context) ([]model.TimeScheme, error) {
	var ids []string
	for id := range m.schemes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	var result []model.TimeScheme
	for _, id := range ids {
		result = append(result, *m.schemes[id])
	}
	return result, nil
}

func (m *mockSchemeRepo) ReplacePeriods(_ context.Context, schemeID string, periods []model.SchemePeriod) error {
	s, ok := m.schemes[schemeID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	s.Periods = periods
	return nil
}

func (m *mockSchemeRepo) Update(_ context.Context, scheme *model.TimeScheme) error {
	m.schemes[scheme.SchemeID] = scheme
	return nil
}

func (m *mockSchemeRepo) Delete(_ context.Context, id string) error {
	delete(m.schemes, id)
	return nil
}

// ── Mock CourseRepository ──

type mockCourseRepo struct {
	courses map[string]*model.Course
	seq     int
}

func newMockCourseRepo() *mockCourseRepo {
	return &mockCourseRepo{courses: make(map[string]*model.Course)}
}

func (m *mockCourseRepo) Create(_ context.Context, course *model.Course) error {
	if course.CourseID == "" {
		m.seq++
		course.CourseID = fmt.Sprintf("course-%03d", m.seq)
	}
	m.courses[course.CourseID] = course
	return nil
}

func (m *mockCourseRepo) GetByID(_ context.Context, id string) (*model.Course, error) {
	if c, ok := m.courses[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCourseRepo) ListBySemester(_ context.Context, semesterID string) ([]model.Course, error) {
	var ids []string
	for id, c := range m.courses {
		if c.SemesterID == semesterID {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	var result []model.Course
	for _, id := range ids {
		result = append(result, *m.courses[id])
	}
	return result, nil
}

func (m *mockCourseRepo) Update(_ context.Context, course *model.Course) error {
	m.courses[course.CourseID] = course
	return nil
}

func (m *mockCourseRepo) Delete(_ context.Context, id string) error {
	delete(m.courses, id)
	return nil
}

func (m *mockCourseRepo) ReplaceImported(_ context.Context, semesterID string, courses []model.Course) error {
	for id, c := range m.courses {
		if c.SemesterID == semesterID && c.Source == "ics" {
			delete(m.courses, id)
		}
	}
	for i := range courses {
		c := courses[i]
		if c.CourseID == "" {
			m.seq++
			c.CourseID = fmt.Sprintf("course-%03d", m.seq)
		}
		m.courses[c.CourseID] = &c
	}
	return nil
}

// ── Mock AgendaRepository ──
// 同时实现 agenda.Store，桶语义与 GORM 实现一致。

type mockAgendaRepo struct {
	buckets map[string][]model.AgendaEntry
}

func newMockAgendaRepo() *mockAgendaRepo {
	return &mockAgendaRepo{buckets: make(map[string][]model.AgendaEntry)}
}

func (m *mockAgendaRepo) BucketDates(_ context.Context, sourceID string) ([]string, error) {
	var dates []string
	for dk, bucket := range m.buckets {
		for _, e := range bucket {
			if e.SourceID == sourceID {
				dates = append(dates, dk)
				break
			}
		}
	}
	sort.Strings(dates)
	return dates, nil
}

func (m *mockAgendaRepo) GetBucket(_ context.Context, dateKey string) ([]model.AgendaEntry, error) {
	return append([]model.AgendaEntry(nil), m.buckets[dateKey]...), nil
}

func (m *mockAgendaRepo) SetBucket(_ context.Context, dateKey string, entries []model.AgendaEntry) error {
	m.buckets[dateKey] = append([]model.AgendaEntry(nil), entries...)
	return nil
}

func (m *mockAgendaRepo) DeleteBucket(_ context.Context, dateKey string) error {
	delete(m.buckets, dateKey)
	return nil
}

func (m *mockAgendaRepo) ListRange(_ context.Context, fromKey, toKey string) ([]model.AgendaEntry, error) {
	var dates []string
	for dk := range m.buckets {
		if dk >= fromKey && dk <= toKey {
			dates = append(dates, dk)
		}
	}
	sort.Strings(dates)
	var result []model.AgendaEntry
	for _, dk := range dates {
		result = append(result, m.buckets[dk]...)
	}
	return result, nil
}

func (m *mockAgendaRepo) GetEntry(_ context.Context, entryID string) (*model.AgendaEntry, error) {
	for _, bucket := range m.buckets {
		for i := range bucket {
			if bucket[i].EntryID == entryID {
				e := bucket[i]
				return &e, nil
			}
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAgendaRepo) CreateEntry(_ context.Context, entry *model.AgendaEntry) error {
	m.buckets[entry.DateKey] = append(m.buckets[entry.DateKey], *entry)
	return nil
}

func (m *mockAgendaRepo) DeleteEntry(_ context.Context, entryID string) error {
	for dk, bucket := range m.buckets {
		for i := range bucket {
			if bucket[i].EntryID == entryID {
				m.buckets[dk] = append(bucket[:i], bucket[i+1:]...)
				if len(m.buckets[dk]) == 0 {
					delete(m.buckets, dk)
				}
				return nil
			}
		}
	}
	return gorm.ErrRecordNotFound
}
