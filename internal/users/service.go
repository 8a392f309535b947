package users

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/homemade/pickleshop/internal/records"
	pkgerrors "github.com/homemade/pickleshop/pkg/errors"
	"github.com/homemade/pickleshop/pkg/logger"
	"github.com/homemade/pickleshop/pkg/security"
)

type Service interface {
	Signup(ctx context.Context, input SignupInput) (string, error)
	// Login only checks that both fields are present. It never consults the
	// users table, so any non-empty username/password pair is accepted.
	Login(ctx context.Context, username, password string) bool
}

type SignupInput struct {
	Username string
	Email    string
	Password string
}

type service struct {
	store   records.Store
	table   string
	encoder security.PasswordEncoder
	logg    *logger.Logger
	now     func() time.Time
	newID   func() string
}

func NewService(store records.Store, table string, encoder security.PasswordEncoder, logg *logger.Logger) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("record store required")
	}
	if table == "" {
		return nil, fmt.Errorf("users table required")
	}
	if encoder == nil {
		return nil, fmt.Errorf("password encoder required")
	}
	return &service{
		store:   store,
		table:   table,
		encoder: encoder,
		logg:    logg,
		now:     time.Now,
		newID:   uuid.NewString,
	}, nil
}

func (s *service) Signup(ctx context.Context, input SignupInput) (string, error) {
	userID := s.newID()
	password, err := s.encoder.Encode(input.Password)
	if err != nil {
		return userID, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "encode password")
	}

	err = s.store.Put(ctx, s.table, records.Record{
		"user_id":    userID,
		"username":   input.Username,
		"email":      input.Email,
		"password":   password,
		"created_at": s.now().UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return userID, err
	}
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"user_id":         userID,
		"password_scheme": s.encoder.Scheme(),
	}), "users.signup.recorded")
	return userID, nil
}

func (s *service) Login(ctx context.Context, username, password string) bool {
	if username == "" || password == "" {
		return false
	}
	s.logg.Info(s.logg.WithField(ctx, "username", username), "users.login.accepted")
	return true
}
