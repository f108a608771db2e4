package health

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestStatusMemory(t *testing.T) {
	r := NewService(nil, 5).Status(context.Background())
	if !r.OK || r.Checks["database"] != "memory" || r.Products != 5 {
		t.Fatalf("unexpected report: %+v", r)
	}
}

func TestStatusPingsDatabase(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectPing()
	r := NewService(db, 1).Status(context.Background())
	if !r.OK || r.Checks["database"] != "ok" {
		t.Fatalf("unexpected report: %+v", r)
	}

	mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	r = NewService(db, 1).Status(context.Background())
	if r.OK || r.Checks["database"] != "unreachable" {
		t.Fatalf("unexpected report: %+v", r)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
