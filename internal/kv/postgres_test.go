package kv

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPostgresStore_Get(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()

	s := NewPostgresStore(db)
	q := regexp.QuoteMeta(`SELECT value FROM kv_blobs WHERE key = $1`)

	mock.ExpectQuery(q).
		WithArgs("@RocketShoes:cart").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow([]byte(`[]`)))

	v, ok, err := s.Get(context.Background(), "@RocketShoes:cart")
	if err != nil || !ok || string(v) != "[]" {
		t.Fatalf("get: v=%s ok=%v err=%v", v, ok, err)
	}

	mock.ExpectQuery(q).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"value"}))

	if _, ok, err := s.Get(context.Background(), "missing"); err != nil || ok {
		t.Fatalf("missing key: ok=%v err=%v", ok, err)
	}

	boom := errors.New("connection reset")
	mock.ExpectQuery(q).WithArgs("broken").WillReturnError(boom)

	if _, _, err := s.Get(context.Background(), "broken"); !errors.Is(err, boom) {
		t.Fatalf("err=%v want %v", err, boom)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPostgresStore_SetUpserts(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()

	s := NewPostgresStore(db)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO kv_blobs (key, value, updated_at)`)).
		WithArgs("@RocketShoes:cart", []byte(`[{"amount":1,"id":3}]`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := s.Set(context.Background(), "@RocketShoes:cart", []byte(`[{"amount":1,"id":3}]`)); err != nil {
		t.Fatalf("set: %v", err)
	}

	if err := s.Set(context.Background(), "", nil); !errors.Is(err, ErrEmptyKey) {
		t.Fatalf("empty key err=%v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
