// Package users is the user directory: account records, credentials and
// roles, stored as one JSON array in the record store.
package users

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/skillflow/skillflow-server/internal/audit"
	"github.com/skillflow/skillflow-server/internal/models"
	"github.com/skillflow/skillflow-server/internal/store"
)

var (
	ErrInvalidEmail       = errors.New("invalid email format")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

type Service struct {
	st             store.Store
	audit          *audit.Service
	bootstrapEmail string
}

// NewService builds the directory. bootstrapEmail is the one address that
// receives the admin role on self-registration.
func NewService(st store.Store, auditSvc *audit.Service, bootstrapEmail string) *Service {
	return &Service{st: st, audit: auditSvc, bootstrapEmail: bootstrapEmail}
}

// All returns every account, password hashes included. Callers exposing
// users over the API must use User.Safe.
func (s *Service) All(ctx context.Context) []models.User {
	blob, ok, err := s.st.Get(ctx, store.UsersKey)
	if err != nil {
		slog.Error("failed to read user directory", "error", err)
		return nil
	}
	if !ok {
		return nil
	}

	var list []models.User
	if err := json.Unmarshal(blob, &list); err != nil {
		slog.Error("corrupt user directory blob", "error", err)
		return nil
	}
	return list
}

func (s *Service) save(ctx context.Context, list []models.User) error {
	if list == nil {
		list = []models.User{}
	}
	blob, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("failed to marshal user directory: %w", err)
	}
	return s.st.Set(ctx, store.UsersKey, blob)
}

// GetByID looks a user up by id.
func (s *Service) GetByID(ctx context.Context, id string) (models.User, error) {
	for _, u := range s.All(ctx) {
		if u.ID == id {
			return u, nil
		}
	}
	return models.User{}, ErrUserNotFound
}

// GetByEmail looks a user up by exact, case-sensitive email match.
func (s *Service) GetByEmail(ctx context.Context, email string) (models.User, error) {
	for _, u := range s.All(ctx) {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, ErrUserNotFound
}

// Register creates a self-service account. The bootstrap address becomes an
// admin, everyone else a regular user.
func (s *Service) Register(ctx context.Context, name, email, password string) (models.User, error) {
	if !ValidEmail(email) {
		return models.User{}, ErrInvalidEmail
	}

	list := s.All(ctx)
	for _, u := range list {
		if u.Email == email {
			return models.User{}, ErrEmailTaken
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	role := models.RoleUser
	if email == s.bootstrapEmail {
		role = models.RoleAdmin
	}

	user := models.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		JoinedAt:     time.Now(),
	}

	if err := s.save(ctx, append(list, user)); err != nil {
		return models.User{}, err
	}

	s.audit.Log(ctx, "User Registered", "New user registered: "+email, email)
	return user, nil
}

// VerifyLogin checks credentials and returns the account on success. Only
// successful logins are audited.
func (s *Service) VerifyLogin(ctx context.Context, email, password string) (models.User, error) {
	user, err := s.GetByEmail(ctx, email)
	if err != nil {
		return models.User{}, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return models.User{}, ErrInvalidCredentials
	}

	s.audit.Log(ctx, "User Login", "Successful login", email)
	return user, nil
}

// AdminCreateUser creates an account with a caller-specified role. The
// service accepts any of the three roles; which ones the UI offers at
// creation time is a product question, not enforced here.
func (s *Service) AdminCreateUser(ctx context.Context, name, email, role, password, performedBy string) (models.User, error) {
	if !ValidEmailStrict(email) {
		return models.User{}, ErrInvalidEmail
	}

	list := s.All(ctx)
	for _, u := range list {
		if u.Email == email {
			return models.User{}, ErrEmailTaken
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		JoinedAt:     time.Now(),
	}

	if err := s.save(ctx, append(list, user)); err != nil {
		return models.User{}, err
	}

	s.audit.Log(ctx, "Admin Create User", "Created "+role+": "+email, performedBy)
	return user, nil
}

// Update is the partial-update payload for UpdateUser; nil fields are left
// untouched.
type Update struct {
	Name  *string
	Email *string
	Role  *string
}

// UpdateUser applies a partial update. An email change is revalidated and
// rechecked for uniqueness excluding the user itself.
func (s *Service) UpdateUser(ctx context.Context, id string, upd Update, performedBy string) (models.User, error) {
	list := s.All(ctx)
	idx := -1
	for i, u := range list {
		if u.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return models.User{}, ErrUserNotFound
	}

	oldEmail := list[idx].Email
	if upd.Email != nil && *upd.Email != oldEmail {
		if !ValidEmailStrict(*upd.Email) {
			return models.User{}, ErrInvalidEmail
		}
		for _, u := range list {
			if u.Email == *upd.Email {
				return models.User{}, ErrEmailTaken
			}
		}
		list[idx].Email = *upd.Email
	}
	if upd.Name != nil {
		list[idx].Name = *upd.Name
	}
	if upd.Role != nil {
		list[idx].Role = *upd.Role
	}

	if err := s.save(ctx, list); err != nil {
		return models.User{}, err
	}

	s.audit.Log(ctx, "Update User", "Updated info for "+oldEmail, performedBy)
	return list[idx], nil
}

// ResetPassword overwrites the stored hash unconditionally when the id
// exists. Minimum-length policy belongs to the handler.
func (s *Service) ResetPassword(ctx context.Context, id, newPassword, performedBy string) error {
	list := s.All(ctx)
	for i, u := range list {
		if u.ID == id {
			hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
			if err != nil {
				return fmt.Errorf("failed to hash password: %w", err)
			}
			list[i].PasswordHash = string(hash)
			if err := s.save(ctx, list); err != nil {
				return err
			}
			s.audit.Log(ctx, "Reset Password", "Forced password reset for "+u.Email, performedBy)
			return nil
		}
	}
	return ErrUserNotFound
}

// Delete removes the account and cascades to the user's skill collection.
// Forbidding self-deletion is the handler's job.
func (s *Service) Delete(ctx context.Context, id, performedBy string) error {
	list := s.All(ctx)
	idx := -1
	for i, u := range list {
		if u.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return ErrUserNotFound
	}

	deletedEmail := list[idx].Email
	list = append(list[:idx], list[idx+1:]...)
	if err := s.save(ctx, list); err != nil {
		return err
	}
	if err := s.st.Remove(ctx, store.UserDataKey(id)); err != nil {
		slog.Error("failed to remove user data", "error", err, "user_id", id)
	}

	s.audit.Log(ctx, "Delete User", "Permanently deleted user: "+deletedEmail, performedBy)
	return nil
}

// SeedBootstrapAdmin ensures the bootstrap admin account exists. No-op when
// the address is already registered or no password is configured.
func (s *Service) SeedBootstrapAdmin(ctx context.Context, name, password string) error {
	if password == "" {
		return nil
	}
	if _, err := s.GetByEmail(ctx, s.bootstrapEmail); err == nil {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	admin := models.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        s.bootstrapEmail,
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
		JoinedAt:     time.Now(),
	}
	return s.save(ctx, append(s.All(ctx), admin))
}

// ReplaceAll overwrites the whole directory. Used by system restore only.
func (s *Service) ReplaceAll(ctx context.Context, list []models.User) error {
	return s.save(ctx, list)
}
