package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dukerupert/studytracker/internal/model"
	"github.com/dukerupert/studytracker/internal/store"
	"github.com/dukerupert/studytracker/internal/validate"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials covers both unknown usernames and wrong passwords.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("unauthenticated")
	// ErrSessionNotStarted means Signup stored the account but could not log
	// it in; the credentials work on the login page.
	ErrSessionNotStarted = errors.New("account created, session not started")
)

// dummyHash is compared against when the username does not exist so both
// failure paths cost one bcrypt comparison.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("studytracker-dummy"), bcrypt.DefaultCost)

// SignupInput is the account creation form.
type SignupInput struct {
	Username        string `form:"username" validate:"required,max=150"`
	Email           string `form:"email" validate:"required,email"`
	Password        string `form:"password" validate:"required,maxbytes=72"`
	PasswordConfirm string `form:"password_confirm" validate:"required,eqfield=Password"`
}

func (SignupInput) FieldMessages() map[string]string {
	return map[string]string{
		"password_confirm.eqfield": "Passwords do not match",
		"password.max":             "Ensure this value has at most 72 bytes.",
	}
}

// Gateway owns account creation, credential checks and the login session
// lifecycle.
type Gateway struct {
	users    *store.UserStore
	sessions *store.AuthSessionStore
	cost     int
	logger   *slog.Logger
}

func NewGateway(users *store.UserStore, sessions *store.AuthSessionStore, logger *slog.Logger) *Gateway {
	return &Gateway{
		users:    users,
		sessions: sessions,
		cost:     bcrypt.DefaultCost,
		logger:   logger,
	}
}

// Signup creates the account and logs the caller in. Validation problems,
// including a taken username, come back as *validate.Error and leave no
// account behind. If only the login session fails, the account is kept and
// the error wraps ErrSessionNotStarted.
func (g *Gateway) Signup(ctx context.Context, in SignupInput) (*model.User, *model.AuthSession, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if err := validate.Struct(in); err != nil {
		return nil, nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), g.cost)
	if err != nil {
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := g.users.Create(ctx, in.Username, in.Email, string(hash))
	if errors.Is(err, store.ErrDuplicate) {
		verr := &validate.Error{}
		verr.Add("username", "A user with that username already exists.")
		return nil, nil, verr
	}
	if err != nil {
		return nil, nil, err
	}

	g.logger.Info("account created", "user_id", user.ID)

	sess, err := g.sessions.Create(ctx, user.ID)
	if err != nil {
		g.logger.Error("start session after signup", "user_id", user.ID, "error", err)
		return user, nil, fmt.Errorf("%w: %v", ErrSessionNotStarted, err)
	}
	return user, sess, nil
}

// Login checks credentials and starts a session.
func (g *Gateway) Login(ctx context.Context, username, password string) (*model.AuthSession, error) {
	user, err := g.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, err
	}
	if user == nil {
		bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return g.sessions.Create(ctx, user.ID)
}

// Logout ends the session behind token, if any.
func (g *Gateway) Logout(ctx context.Context, token string) {
	if token == "" {
		return
	}
	sess, err := g.sessions.GetByToken(ctx, token)
	if err != nil {
		g.logger.Error("logout lookup", "error", err)
		return
	}
	if sess == nil {
		return
	}
	if err := g.sessions.Delete(ctx, sess.ID); err != nil {
		g.logger.Error("logout delete", "error", err)
	}
}

// Authenticate resolves a session token to the signed-in user.
func (g *Gateway) Authenticate(ctx context.Context, token string) (AuthContext, error) {
	if token == "" {
		return AuthContext{}, ErrUnauthenticated
	}
	sess, err := g.sessions.GetByToken(ctx, token)
	if err != nil {
		return AuthContext{}, err
	}
	if sess == nil {
		return AuthContext{}, ErrUnauthenticated
	}
	user, err := g.users.GetByID(ctx, sess.UserID)
	if err != nil {
		return AuthContext{}, err
	}
	if user == nil {
		return AuthContext{}, ErrUnauthenticated
	}
	return AuthContext{UserID: user.ID, Username: user.Username, SessionID: sess.ID}, nil
}

// PurgeExpired drops expired sessions.
func (g *Gateway) PurgeExpired(ctx context.Context) (int64, error) {
	return g.sessions.DeleteExpired(ctx)
}
