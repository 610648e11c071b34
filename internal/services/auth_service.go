package services

import (
	"errors"
	"fmt"

	"shopfront/internal/domain"
	"shopfront/internal/repos"
	"shopfront/internal/validate"
)

var (
	ErrBadCreds  = errors.New("invalid username or password")
	ErrNoSession = errors.New("no session")
)

type AuthService struct {
	Users    *repos.Store
	Sessions *repos.SessionRepo
}

func NewAuthService(store *repos.Store, sessions *repos.SessionRepo) *AuthService {
	return &AuthService{Users: store, Sessions: sessions}
}

type Registration struct {
	Username string
	Email    string
	Password string
	FullName *string
}

// Register creates a regular account and signs it in on sid.
func (s *AuthService) Register(sid string, r Registration) (domain.User, error) {
	u, err := s.Users.CreateUser(domain.NewUser{
		Username: r.Username,
		Email:    r.Email,
		Password: domain.PlaintextCredential(r.Password),
		FullName: r.FullName,
	})
	if err = settled("auth.register", err); err != nil {
		return domain.User{}, err
	}
	if err := s.Sessions.Bind(sid, u.ID); err != nil {
		return domain.User{}, fmt.Errorf("bind session: %w", err)
	}
	return u, nil
}

// Login accepts either the username or the email address as login.
func (s *AuthService) Login(sid, login, password string) (domain.User, error) {
	var (
		u   domain.User
		err error
	)
	// Usernames cannot contain "@", so an email-shaped login is an email.
	if email, ok := validate.Email(login); ok {
		u, err = s.Users.GetUserByEmail(email)
	} else {
		u, err = s.Users.GetUserByUsername(login)
	}
	if err != nil || !u.Password.Verify(password) {
		return domain.User{}, ErrBadCreds
	}
	if err := s.Sessions.Bind(sid, u.ID); err != nil {
		return domain.User{}, fmt.Errorf("bind session: %w", err)
	}
	return u, nil
}

func (s *AuthService) Logout(sid string) error {
	return s.Sessions.Unbind(sid)
}

func (s *AuthService) CurrentUser(sid string) (domain.User, error) {
	if sid == "" {
		return domain.User{}, ErrNoSession
	}
	id, err := s.Sessions.UserID(sid)
	if errors.Is(err, repos.ErrNotFound) {
		return domain.User{}, ErrNoSession
	}
	if err != nil {
		return domain.User{}, err
	}
	u, err := s.Users.GetUser(id)
	if errors.Is(err, repos.ErrNotFound) {
		// The user is gone; the session is useless.
		_ = s.Sessions.Unbind(sid)
		return domain.User{}, ErrNoSession
	}
	return u, err
}

// ChangePassword replaces the password after checking the current one and
// signs out every other session of the user.
func (s *AuthService) ChangePassword(sid string, userID int, current, next string) error {
	u, err := s.Users.GetUser(userID)
	if err != nil {
		return err
	}
	if !u.Password.Verify(current) {
		return ErrBadCreds
	}
	cred, err := domain.HashPassword(next)
	if err != nil {
		return err
	}
	_, err = s.Users.UpdateUserPassword(userID, cred)
	if err = settled("auth.password", err); err != nil {
		return err
	}
	return s.Sessions.UnbindUserExcept(userID, sid)
}
