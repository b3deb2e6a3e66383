package service

import (
	"encoding/json"

	"gorm.io/gorm"

	"github.com/Egoriy286/yandex-cloud-instance-start/internal/database"
	"github.com/Egoriy286/yandex-cloud-instance-start/internal/model"
)

// AutoStartRecordService persists and queries auto-start cycle outcomes.
type AutoStartRecordService struct {
	db *gorm.DB
}

// NewAutoStartRecordService creates the service on the shared database.
func NewAutoStartRecordService() *AutoStartRecordService {
	return &AutoStartRecordService{
		db: database.GetDB(),
	}
}

// NewAutoStartRecordServiceWithDB creates the service on an explicit
// database connection (for tests).
func NewAutoStartRecordServiceWithDB(db *gorm.DB) *AutoStartRecordService {
	return &AutoStartRecordService{db: db}
}

// Record stores one cycle outcome.
func (s *AutoStartRecordService) Record(trigger string, result *model.AutoStartResult) (*model.AutoStartRecord, error) {
	detail, err := json.Marshal(result)
	if err != nil {
		return nil, err
	}

	record := &model.AutoStartRecord{
		Trigger:      trigger,
		TotalStopped: result.TotalStopped,
		StartedCount: len(result.Started),
		FailedCount:  len(result.Failed),
		Detail:       string(detail),
		Error:        result.Error,
	}

	if err := s.db.Create(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

// List returns cycle records newest first.
func (s *AutoStartRecordService) List(pageNum, pageSize int) ([]model.AutoStartRecord, *model.PageInfo, error) {
	if pageNum <= 0 {
		pageNum = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}

	var total int64
	if err := s.db.Model(&model.AutoStartRecord{}).Count(&total).Error; err != nil {
		return nil, nil, err
	}

	var records []model.AutoStartRecord
	err := s.db.Order("id DESC").
		Offset((pageNum - 1) * pageSize).
		Limit(pageSize).
		Find(&records).Error
	if err != nil {
		return nil, nil, err
	}

	pageInfo := &model.PageInfo{
		PageNum:   pageNum,
		PageSize:  pageSize,
		Total:     int(total),
		TotalPage: (int(total) + pageSize - 1) / pageSize,
	}

	return records, pageInfo, nil
}
