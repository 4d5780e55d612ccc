package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	cache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"okeiko-booking-backend/config"
	"okeiko-booking-backend/internal/model"
	"okeiko-booking-backend/internal/rowstore"
)

// Role separates the teacher (administrator) from reserving members.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// ErrInvalidCredentials is returned for any failed login. The caller gets no
// hint whether the id or the password was wrong.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Session is the explicit per-login state object handed to every handler.
// Name is the member identity the booking engine keys reservations on.
type Session struct {
	Token  string `json:"token"`
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Role   Role   `json:"role"`
}

// IsAdmin reports whether the session belongs to the administrator.
func (s Session) IsAdmin() bool {
	return s.Role == RoleAdmin
}

// Service validates credentials against the configured admin account and the
// users table, and keeps live sessions in a TTL cache.
type Service struct {
	rows     rowstore.Store
	cfg      config.AuthConfig
	sessions *cache.Cache
	logger   *zap.Logger
}

// NewService creates the auth service. Sessions expire after the configured
// TTL; expired entries are swept at twice that interval.
func NewService(rows rowstore.Store, cfg config.AuthConfig, logger *zap.Logger) *Service {
	ttl := time.Duration(cfg.SessionTTLMinutes) * time.Minute
	return &Service{
		rows:     rows,
		cfg:      cfg,
		sessions: cache.New(ttl, 2*ttl),
		logger:   logger,
	}
}

// verify checks a presented password against a stored one. The users table
// predates hashing, so a stored value is either a bcrypt hash or legacy
// plaintext; plaintext falls back to a constant-time compare.
func verify(stored, presented string) bool {
	if strings.HasPrefix(stored, "$2a$") || strings.HasPrefix(stored, "$2b$") || strings.HasPrefix(stored, "$2y$") {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(presented)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(presented)) == 1
}

// Login authenticates the credentials and issues a session token.
func (s *Service) Login(ctx context.Context, userID, password string) (Session, error) {
	userID = strings.TrimSpace(userID)

	if userID == s.cfg.AdminID && verify(s.cfg.AdminPassword, password) {
		return s.issue(Session{UserID: userID, Name: s.cfg.AdminName, Role: RoleAdmin}), nil
	}

	rows, err := s.rows.ReadAll(ctx, rowstore.TableUsers)
	if err != nil {
		return Session{}, err
	}
	for _, row := range rows {
		user := model.User{
			UserID:   strings.TrimSpace(row["user_id"]),
			Password: row["password"],
			Name:     strings.TrimSpace(row["name"]),
			Email:    row["email"],
		}
		if user.UserID != userID {
			continue
		}
		if !verify(user.Password, password) {
			break
		}
		if user.Name == "" {
			user.Name = userID
		}
		return s.issue(Session{UserID: userID, Name: user.Name, Role: RoleMember}), nil
	}

	s.logger.Info("login rejected", zap.String("user_id", userID))
	return Session{}, ErrInvalidCredentials
}

func (s *Service) issue(session Session) Session {
	session.Token = uuid.NewString()
	s.sessions.SetDefault(session.Token, session)
	s.logger.Info("session issued",
		zap.String("user_id", session.UserID),
		zap.String("role", string(session.Role)),
	)
	return session
}

// Lookup resolves a token to its live session.
func (s *Service) Lookup(token string) (Session, bool) {
	v, found := s.sessions.Get(token)
	if !found {
		return Session{}, false
	}
	return v.(Session), true
}

// Logout drops the session; a stale or unknown token is fine.
func (s *Service) Logout(token string) {
	s.sessions.Delete(token)
}
