package auth

import (
	"context"
	"errors"

	"edushareqa/internal/database"
	"edushareqa/internal/pkg/pagination"

	"gorm.io/gorm"
)

type UserFilter struct {
	Role    Role
	Keyword string
	pagination.Params
}

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByLogin(ctx context.Context, login string) (*User, error)
	List(ctx context.Context, f UserFilter) ([]User, int64, error)
	Update(ctx context.Context, u *User) error
	Delete(ctx context.Context, id int64) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, u *User) error {
	err := r.db.WithContext(ctx).Create(u).Error
	if database.IsUniqueViolation(err) {
		return ErrUserAlreadyExists
	}
	return err
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).First(&u, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByLogin matches either the username or the email.
func (r *userRepository) GetByLogin(ctx context.Context, login string) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).
		Where("username = ? OR email = ?", login, login).
		First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) List(ctx context.Context, f UserFilter) ([]User, int64, error) {
	q := r.db.WithContext(ctx).Model(&User{})
	if f.Role != "" {
		q = q.Where("roles LIKE ?", "%"+string(f.Role)+"%")
	}
	if f.Keyword != "" {
		kw := "%" + f.Keyword + "%"
		q = q.Where("username LIKE ? OR email LIKE ? OR full_name LIKE ?", kw, kw, kw)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []User
	err := q.Order("id ASC").Offset(f.Offset()).Limit(f.PageSize).Find(&users).Error
	return users, total, err
}

func (r *userRepository) Update(ctx context.Context, u *User) error {
	err := r.db.WithContext(ctx).Save(u).Error
	if database.IsUniqueViolation(err) {
		return ErrUserAlreadyExists
	}
	return err
}

func (r *userRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&User{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}
