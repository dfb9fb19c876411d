package study

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dukerupert/studytracker/internal/database"
	"github.com/dukerupert/studytracker/internal/model"
	"github.com/dukerupert/studytracker/internal/store"
	"github.com/dukerupert/studytracker/internal/validate"
)

type recordedEvent struct {
	userID int64
	action string
	id     int64
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (n *recordingNotifier) Notify(userID int64, action string, id int64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, recordedEvent{userID, action, id})
}

func setupService(t *testing.T) (*Service, *recordingNotifier, *model.User, *model.User) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	us := store.NewUserStore(db)
	alice, err := us.Create(context.Background(), "alice", "alice@example.com", "hash")
	if err != nil {
		t.Fatalf("create alice: %v", err)
	}
	bob, err := us.Create(context.Background(), "bob", "bob@example.com", "hash")
	if err != nil {
		t.Fatalf("create bob: %v", err)
	}

	n := &recordingNotifier{}
	svc := NewService(store.NewStudySessionStore(db), n, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return svc, n, alice, bob
}

func validInput() Input {
	return Input{
		Subject:   "Math",
		Timestamp: time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC),
		Duration:  1.5,
		Rating:    4,
	}
}

func TestCreateThenGetRoundTrip(t *testing.T) {
	svc, n, alice, _ := setupService(t)
	ctx := context.Background()
	in := validInput()

	created, err := svc.Create(ctx, alice.ID, in)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := svc.Get(ctx, alice.ID, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.UserID != alice.ID {
		t.Errorf("owner = %d, want %d", got.UserID, alice.ID)
	}
	if got.Subject != in.Subject {
		t.Errorf("subject = %q, want %q", got.Subject, in.Subject)
	}
	if !got.StartedAt.Equal(in.Timestamp) {
		t.Errorf("timestamp = %v, want %v", got.StartedAt, in.Timestamp)
	}
	if got.DurationHours != in.Duration {
		t.Errorf("duration = %v, want %v", got.DurationHours, in.Duration)
	}
	if got.ProductivityRating != in.Rating {
		t.Errorf("rating = %d, want %d", got.ProductivityRating, in.Rating)
	}

	if len(n.events) != 1 || n.events[0].action != "created" || n.events[0].userID != alice.ID {
		t.Errorf("notifications = %+v", n.events)
	}
}

func TestCreateValidation(t *testing.T) {
	svc, _, alice, _ := setupService(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		mut   func(*Input)
		field string
	}{
		{"empty subject", func(in *Input) { in.Subject = "" }, "subject"},
		{"blank subject", func(in *Input) { in.Subject = "   " }, "subject"},
		{"long subject", func(in *Input) { in.Subject = strings.Repeat("x", 101) }, "subject"},
		{"zero duration", func(in *Input) { in.Duration = 0 }, "duration"},
		{"negative duration", func(in *Input) { in.Duration = -1 }, "duration"},
		{"rating too low", func(in *Input) { in.Rating = 0 }, "productivity_rating"},
		{"rating too high", func(in *Input) { in.Rating = 6 }, "productivity_rating"},
		{"missing timestamp", func(in *Input) { in.Timestamp = time.Time{} }, "date_time"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mut(&in)
			_, err := svc.Create(ctx, alice.ID, in)
			var verr *validate.Error
			if !errors.As(err, &verr) {
				t.Fatalf("err = %v, want *validate.Error", err)
			}
			if _, ok := verr.Fields[tt.field]; !ok {
				t.Errorf("expected error on %q, got %v", tt.field, verr.Fields)
			}
		})
	}

	list, _ := svc.List(ctx, alice.ID)
	if len(list) != 0 {
		t.Errorf("invalid input was stored: %d rows", len(list))
	}
}

func TestSubjectAtLimitAccepted(t *testing.T) {
	svc, _, alice, _ := setupService(t)
	in := validInput()
	in.Subject = strings.Repeat("x", 100)
	if _, err := svc.Create(context.Background(), alice.ID, in); err != nil {
		t.Fatalf("create: %v", err)
	}
}

func TestOwnershipIsolation(t *testing.T) {
	svc, n, alice, bob := setupService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, alice.ID, validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.Get(ctx, bob.ID, created.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("get by non-owner err = %v, want ErrNotFound", err)
	}
	if _, err := svc.Get(ctx, bob.ID, 9999); !errors.Is(err, ErrNotFound) {
		t.Errorf("get missing err = %v, want ErrNotFound", err)
	}
	if _, err := svc.Update(ctx, bob.ID, created.ID, validInput()); !errors.Is(err, ErrNotFound) {
		t.Errorf("update by non-owner err = %v, want ErrNotFound", err)
	}
	if err := svc.Delete(ctx, bob.ID, created.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("delete by non-owner err = %v, want ErrNotFound", err)
	}

	bobList, err := svc.List(ctx, bob.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, s := range bobList {
		if s.UserID != bob.ID {
			t.Errorf("bob's list contains session owned by %d", s.UserID)
		}
	}

	for _, e := range n.events {
		if e.userID == bob.ID {
			t.Errorf("unexpected notification for failed mutation: %+v", e)
		}
	}
}

func TestUpdateAndDelete(t *testing.T) {
	svc, n, alice, _ := setupService(t)
	ctx := context.Background()

	created, _ := svc.Create(ctx, alice.ID, validInput())

	blank := validInput()
	blank.Subject = " \t "
	var verr *validate.Error
	if _, err := svc.Update(ctx, alice.ID, created.ID, blank); !errors.As(err, &verr) {
		t.Fatalf("blank subject update err = %v, want *validate.Error", err)
	}

	in := validInput()
	in.Subject = "  Physics "
	in.Rating = 2
	updated, err := svc.Update(ctx, alice.ID, created.ID, in)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.ID != created.ID || updated.UserID != alice.ID {
		t.Errorf("id/owner changed: %+v", updated)
	}
	if updated.Subject != "Physics" || updated.ProductivityRating != 2 {
		t.Errorf("updated = %+v", updated)
	}

	if err := svc.Delete(ctx, alice.ID, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Get(ctx, alice.ID, created.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("get after delete err = %v, want ErrNotFound", err)
	}

	var actions []string
	for _, e := range n.events {
		actions = append(actions, e.action)
	}
	if strings.Join(actions, ",") != "created,updated,deleted" {
		t.Errorf("actions = %v", actions)
	}
}

func TestServiceWithoutNotifier(t *testing.T) {
	svc, _, alice, _ := setupService(t)
	svc.notifier = nil
	if _, err := svc.Create(context.Background(), alice.ID, validInput()); err != nil {
		t.Fatalf("create: %v", err)
	}
}
