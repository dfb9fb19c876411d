// Package study implements the owner-scoped create/read/update/delete
// operations over a user's study sessions.
package study

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/dukerupert/studytracker/internal/model"
	"github.com/dukerupert/studytracker/internal/store"
	"github.com/dukerupert/studytracker/internal/validate"
)

// ErrNotFound is returned for a missing session and for one owned by another
// user alike.
var ErrNotFound = errors.New("study session not found")

// Notifier is told about every successful mutation.
type Notifier interface {
	Notify(userID int64, action string, sessionID int64)
}

type Service struct {
	store    *store.StudySessionStore
	notifier Notifier
	logger   *slog.Logger
}

func NewService(s *store.StudySessionStore, n Notifier, logger *slog.Logger) *Service {
	return &Service{store: s, notifier: n, logger: logger}
}

func (s *Service) notify(userID int64, action string, id int64) {
	if s.notifier != nil {
		s.notifier.Notify(userID, action, id)
	}
}

// Create stores a new session owned by ownerID.
func (s *Service) Create(ctx context.Context, ownerID int64, in Input) (*model.StudySession, error) {
	in.Subject = strings.TrimSpace(in.Subject)
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	sess, err := s.store.Create(ctx, ownerID, in.Subject, in.Timestamp, in.Duration, in.Rating)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("study session created", "user_id", ownerID, "id", sess.ID)
	s.notify(ownerID, "created", sess.ID)
	return sess, nil
}

// List returns the owner's sessions, most recent first.
func (s *Service) List(ctx context.Context, ownerID int64) ([]model.StudySession, error) {
	return s.store.ListByUser(ctx, ownerID)
}

func (s *Service) Get(ctx context.Context, ownerID, id int64) (*model.StudySession, error) {
	sess, err := s.store.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, ErrNotFound
	}
	return sess, nil
}

// Update replaces the editable fields; id and owner never change.
func (s *Service) Update(ctx context.Context, ownerID, id int64, in Input) (*model.StudySession, error) {
	in.Subject = strings.TrimSpace(in.Subject)
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	sess, err := s.store.Update(ctx, ownerID, id, in.Subject, in.Timestamp, in.Duration, in.Rating)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, ErrNotFound
	}
	s.notify(ownerID, "updated", id)
	return sess, nil
}

func (s *Service) Delete(ctx context.Context, ownerID, id int64) error {
	ok, err := s.store.Delete(ctx, ownerID, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	s.notify(ownerID, "deleted", id)
	return nil
}

// Subjects lists the owner's distinct subjects alphabetically.
func (s *Service) Subjects(ctx context.Context, ownerID int64) ([]string, error) {
	return s.store.Subjects(ctx, ownerID)
}
