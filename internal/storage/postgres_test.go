package storage

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPostgresStore_GetMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	s := NewPostgresStore(db)

	mock.ExpectQuery(regexp.QuoteMeta(getRecordQuery)).WithArgs("cart_1").
		WillReturnRows(sqlmock.NewRows([]string{"value"}))

	_, ok, err := s.Get(context.Background(), "cart_1")
	if err != nil || ok {
		t.Fatalf("expected missing record without error, got ok=%v err=%v", ok, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresStore_PutAndGet(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	s := NewPostgresStore(db)

	mock.ExpectExec(regexp.QuoteMeta(putRecordQuery)).WithArgs("cart_1", `{"items":[]}`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(getRecordQuery)).WithArgs("cart_1").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow([]byte(`{"items":[]}`)))

	ctx := context.Background()
	if err := s.Put(ctx, "cart_1", []byte(`{"items":[]}`)); err != nil {
		t.Fatalf("put: %v", err)
	}
	v, ok, err := s.Get(ctx, "cart_1")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if string(v) != `{"items":[]}` {
		t.Fatalf("unexpected value %s", v)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresStore_GetMany(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	s := NewPostgresStore(db)

	rows := sqlmock.NewRows([]string{"key", "value"}).
		AddRow("cart_2", []byte(`{}`)).
		AddRow("orders_2", []byte(`[]`))
	mock.ExpectQuery("FROM records WHERE key = ANY").WithArgs(sqlmock.AnyArg()).WillReturnRows(rows)

	got, err := s.GetMany(context.Background(), []string{"cart_2", "orders_2", "addresses_2"})
	if err != nil {
		t.Fatalf("get many: %v", err)
	}
	if len(got) != 2 || string(got["orders_2"]) != "[]" {
		t.Fatalf("unexpected records: %v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresStore_DeleteError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	s := NewPostgresStore(db)

	boom := errors.New("connection reset")
	mock.ExpectExec(regexp.QuoteMeta(deleteRecordQuery)).WithArgs("cart_9").WillReturnError(boom)

	if err := s.Delete(context.Background(), "cart_9"); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}
