package db

import (
	"testing"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func TestJournal_NilIsNoop(t *testing.T) {
	var j *Journal
	if err := j.Record(&Delivery{RequestID: "req-1"}); err != nil {
		t.Errorf("expected nil journal to drop deliveries, got %v", err)
	}
	if err := NewJournal(nil).Record(&Delivery{RequestID: "req-1"}); err != nil {
		t.Errorf("expected journal without db to drop deliveries, got %v", err)
	}
}

func TestJournal_RecordBuildsInsert(t *testing.T) {
	// dry run without the default transaction never opens a connection
	database, err := gorm.Open(postgres.Open("host=localhost user=skybot dbname=skybot sslmode=disable"), &gorm.Config{
		DryRun:                 true,
		DisableAutomaticPing:   true,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("open dry run db: %v", err)
	}
	stmt := database.Session(&gorm.Session{DryRun: true}).Create(&Delivery{RequestID: "req-1", EventKind: "text"}).Statement
	if got := stmt.Table; got != "deliveries" {
		t.Errorf("expected deliveries table, got %s", got)
	}

	if err := NewJournal(database).Record(&Delivery{RequestID: "req-1", EventKind: "text", Replies: 2}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestConnect_RequiresDSN(t *testing.T) {
	if _, err := Connect(""); err == nil {
		t.Errorf("expected error for empty dsn")
	}
}
