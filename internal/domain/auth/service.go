package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"edushareqa/internal/pkg/jwt"
	"edushareqa/internal/pkg/logger"

	"go.uber.org/zap"
)

type Service struct {
	users UserRepository
	jwt   *jwt.Service
	log   *zap.Logger
}

func NewService(users UserRepository, jwtService *jwt.Service, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{users: users, jwt: jwtService, log: log.Named("auth")}
}

// Login checks the password of the user identified by username or email
// and issues an access token.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	u, err := s.users.GetByLogin(ctx, strings.TrimSpace(req.Login))
	if errors.Is(err, ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := CheckPassword(req.Password, u.PasswordHash); err != nil {
		logger.FromContext(ctx, s.log).Info("failed login", zap.Int64("user_id", u.ID))
		return nil, ErrInvalidCredentials
	}

	return s.issue(u)
}

func (s *Service) issue(u *User) (*LoginResponse, error) {
	token, err := s.jwt.GenerateToken(u.ID, u.RoleList())
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}
	return &LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.jwt.TTL().Seconds()),
		User:        ToResponse(u),
	}, nil
}

// Register creates a student account and logs it in.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*LoginResponse, error) {
	u, err := s.CreateUser(ctx, CreateUserRequest{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Role:     RoleStudent,
	})
	if err != nil {
		return nil, err
	}
	return s.issue(u)
}

func (s *Service) GetByID(ctx context.Context, id int64) (*User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *Service) CreateUser(ctx context.Context, req CreateUserRequest) (*User, error) {
	if req.Role != RoleStudent && req.Role != RoleTeacher {
		return nil, ErrInvalidRole
	}
	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &User{
		Username:     strings.TrimSpace(req.Username),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hash,
		FullName:     strings.TrimSpace(req.FullName),
	}
	u.SetRoles(req.Role)
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	logger.FromContext(ctx, s.log).Info("user created",
		zap.Int64("id", u.ID), zap.String("role", string(req.Role)))
	return u, nil
}

func (s *Service) ListUsers(ctx context.Context, f UserFilter) ([]User, int64, error) {
	if f.Role != "" && !f.Role.Valid() {
		return nil, 0, ErrInvalidRole
	}
	f.Params = f.Params.Normalize()
	return s.users.List(ctx, f)
}

func (s *Service) DeleteUser(ctx context.Context, actorID, id int64) error {
	if actorID == id {
		return ErrCannotDeleteSelf
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	logger.FromContext(ctx, s.log).Info("user deleted", zap.Int64("id", id))
	return nil
}

func (s *Service) UpdateProfile(ctx context.Context, userID int64, req UpdateProfileRequest) (*User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	applyProfile(u, req)
	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// ChangePassword requires the current password before storing the new one.
func (s *Service) ChangePassword(ctx context.Context, userID int64, req ChangePasswordRequest) error {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := CheckPassword(req.OldPassword, u.PasswordHash); err != nil {
		return ErrWrongPassword
	}
	hash, err := HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	u.PasswordHash = hash
	if err := s.users.Update(ctx, u); err != nil {
		return err
	}
	logger.FromContext(ctx, s.log).Info("password changed", zap.Int64("user_id", u.ID))
	return nil
}

// UpdateTeacher lets an admin edit the profile of a teacher account.
func (s *Service) UpdateTeacher(ctx context.Context, id int64, req UpdateProfileRequest) (*User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !u.HasRole(RoleTeacher) {
		return nil, ErrNotTeacher
	}
	applyProfile(u, req)
	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}
	logger.FromContext(ctx, s.log).Info("teacher updated", zap.Int64("id", u.ID))
	return u, nil
}

func applyProfile(u *User, req UpdateProfileRequest) {
	if req.FullName != nil {
		u.FullName = strings.TrimSpace(*req.FullName)
	}
	if req.Email != nil {
		u.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
}
