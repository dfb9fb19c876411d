package store

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestStudySessionStoreWrapsDriverErrors(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	boom := errors.New("disk I/O error")
	mock.ExpectQuery(`SELECT .* FROM study_sessions WHERE user_id = \?`).
		WithArgs(int64(7)).
		WillReturnError(boom)
	mock.ExpectExec(`INSERT INTO study_sessions`).
		WillReturnError(boom)

	ss := NewStudySessionStore(db)

	_, err = ss.ListByUser(context.Background(), 7)
	if !errors.Is(err, boom) {
		t.Fatalf("list err = %v, want wrapped %v", err, boom)
	}
	if !strings.HasPrefix(err.Error(), "list study sessions:") {
		t.Errorf("list err = %q, want context prefix", err)
	}

	_, err = ss.Create(context.Background(), 7, "Math", time.Now(), 1, 3)
	if !errors.Is(err, boom) {
		t.Fatalf("create err = %v, want wrapped %v", err, boom)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestUserStoreNonUniqueErrorIsNotDuplicate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(`INSERT INTO users`).WillReturnError(errors.New("database is locked"))

	_, err = NewUserStore(db).Create(context.Background(), "alice", "a@example.com", "hash")
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.Is(err, ErrDuplicate) {
		t.Error("a non-constraint failure must not map to ErrDuplicate")
	}
}
