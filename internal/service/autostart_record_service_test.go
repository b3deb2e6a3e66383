package service

import (
	"encoding/json"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Egoriy286/yandex-cloud-instance-start/internal/model"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&model.AutoStartRecord{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestRecordAndList(t *testing.T) {
	s := NewAutoStartRecordServiceWithDB(testDB(t))

	result := &model.AutoStartResult{
		Started:      []model.InstanceRef{{ID: "i-1", Name: "vm-1"}},
		Failed:       []model.InstanceFailure{{ID: "i-2", Name: "vm-2", Error: "boom"}},
		TotalStopped: 2,
	}

	record, err := s.Record(model.TriggerScheduled, result)
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if record.ID == 0 {
		t.Error("record id not assigned")
	}
	if record.TotalStopped != 2 || record.StartedCount != 1 || record.FailedCount != 1 {
		t.Errorf("counts = %d/%d/%d", record.TotalStopped, record.StartedCount, record.FailedCount)
	}

	var detail model.AutoStartResult
	if err := json.Unmarshal([]byte(record.Detail), &detail); err != nil {
		t.Fatalf("detail is not valid JSON: %v", err)
	}
	if len(detail.Started) != 1 || detail.Started[0].ID != "i-1" {
		t.Errorf("detail = %+v", detail)
	}

	records, pageInfo, err := s.List(1, 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 1 || pageInfo.Total != 1 {
		t.Errorf("list = %d records, total %d", len(records), pageInfo.Total)
	}
}

func TestListNewestFirst(t *testing.T) {
	s := NewAutoStartRecordServiceWithDB(testDB(t))

	for i := 0; i < 3; i++ {
		if _, err := s.Record(model.TriggerManual, &model.AutoStartResult{}); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	records, _, err := s.List(1, 2)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("len = %d, want 2", len(records))
	}
	if records[0].ID < records[1].ID {
		t.Errorf("records not newest first: %d before %d", records[0].ID, records[1].ID)
	}
}
