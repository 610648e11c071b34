package repos

import (
	"strings"

	"shopfront/internal/domain"
)

// CreateUser stores a new user, hashing a plaintext credential first.
// Usernames and emails are unique ignoring case. On ErrPersistence the
// returned user is still committed in memory.
func (s *Store) CreateUser(in domain.NewUser) (domain.User, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.TrimSpace(in.Email)
	if username == "" || email == "" {
		return domain.User{}, invalid("username and email are required")
	}
	cred, err := in.Password.Hashed()
	if err != nil {
		return domain.User{}, invalid("password: %v", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.findUser(func(u domain.User) bool { return strings.EqualFold(u.Username, username) }); ok {
		return domain.User{}, fmtConflict("username", username)
	}
	if _, ok := s.findUser(func(u domain.User) bool { return strings.EqualFold(u.Email, email) }); ok {
		return domain.User{}, fmtConflict("email", email)
	}

	u := domain.User{
		ID:        s.nextUserID,
		Username:  username,
		Email:     email,
		Password:  cred,
		FullName:  in.FullName,
		IsAdmin:   in.IsAdmin,
		CreatedAt: s.now(),
	}
	s.nextUserID++
	s.users[u.ID] = u
	return u, s.saveUsers()
}

func (s *Store) GetUser(id int) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return domain.User{}, ErrNotFound
	}
	return u, nil
}

func (s *Store) GetUserByUsername(username string) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.findUser(func(u domain.User) bool { return strings.EqualFold(u.Username, username) })
	if !ok {
		return domain.User{}, ErrNotFound
	}
	return u, nil
}

func (s *Store) GetUserByEmail(email string) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.findUser(func(u domain.User) bool { return strings.EqualFold(u.Email, email) })
	if !ok {
		return domain.User{}, ErrNotFound
	}
	return u, nil
}

func (s *Store) ListUsers() []domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.User, 0, len(s.users))
	for _, id := range sortedKeys(s.users) {
		out = append(out, s.users[id])
	}
	return out
}

// UpdateUserPassword replaces the stored credential.
func (s *Store) UpdateUserPassword(id int, cred domain.Credential) (domain.User, error) {
	hashed, err := cred.Hashed()
	if err != nil {
		return domain.User{}, invalid("password: %v", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return domain.User{}, ErrNotFound
	}
	u.Password = hashed
	s.users[id] = u
	return u, s.saveUsers()
}

// findUser returns the lowest-id user matching pred. Callers hold s.mu.
func (s *Store) findUser(pred func(domain.User) bool) (domain.User, bool) {
	for _, id := range sortedKeys(s.users) {
		if u := s.users[id]; pred(u) {
			return u, true
		}
	}
	return domain.User{}, false
}
