package service

import (
	"context"

	"minoj/internal/model"
	"minoj/internal/registry"
	"minoj/internal/repository"
	"minoj/pkg/utils/logger"

	"go.uber.org/zap"
)

// UserService owns user registration and renames. Every new user joins
// contest 0.
type UserService struct {
	users    *registry.Users
	contests *registry.Contests
	store    *repository.Store
	bumper   VersionBumper
}

// NewUserService creates the service
func NewUserService(users *registry.Users, contests *registry.Contests,
	store *repository.Store, bumper VersionBumper) *UserService {
	return &UserService{
		users:    users,
		contests: contests,
		store:    store,
		bumper:   bumper,
	}
}

// Create registers a new user and enrolls it in contest 0
func (s *UserService) Create(ctx context.Context, name string) (*model.User, error) {
	user, err := s.users.Create(name)
	if err != nil {
		return nil, err
	}
	s.contests.Enroll(0, *user.ID)

	if !s.store.Available() {
		user.Warning = MirrorWarning
	} else if err := s.store.CreateUser(ctx, user); err != nil {
		logger.Warn(ctx, "mirror create user", zap.Uint64("user_id", *user.ID), zap.Error(err))
		user.Warning = MirrorWarning
	}
	s.bump(ctx)
	return user, nil
}

// Update renames an existing user
func (s *UserService) Update(ctx context.Context, id uint64, name string) (*model.User, error) {
	user, err := s.users.Update(id, name)
	if err != nil {
		return nil, err
	}

	if !s.store.Available() {
		user.Warning = MirrorWarning
	} else if err := s.store.UpdateUser(ctx, user); err != nil {
		logger.Warn(ctx, "mirror update user", zap.Uint64("user_id", id), zap.Error(err))
		user.Warning = MirrorWarning
	}
	s.bump(ctx)
	return user, nil
}

// List returns all users in ascending id order
func (s *UserService) List(ctx context.Context) []model.User {
	return s.users.List()
}

func (s *UserService) bump(ctx context.Context) {
	if s.bumper != nil {
		s.bumper.Bump(ctx)
	}
}
