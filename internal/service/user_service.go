package service

import (
	"errors"
	"fmt"

	"school_edu_backend/internal/model"
	"school_edu_backend/internal/repository"
	"school_edu_backend/internal/util"
	"school_edu_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// UserService 班级名单与账号管理
type UserService struct {
	UserRepo *repository.UserRepository
}

func NewUserService(userRepo *repository.UserRepository) *UserService {
	return &UserService{
		UserRepo: userRepo,
	}
}

// GetUsers 获取用户列表，支持分页和筛选
func (s *UserService) GetUsers(filter repository.UserFilter, page, limit int) ([]model.User, int64, error) {
	if filter.Role != "" && filter.Role != model.Student && filter.Role != model.Teacher && filter.Role != model.Admin {
		return nil, 0, fmt.Errorf("%w: unknown role %q", util.ErrValidation, filter.Role)
	}
	users, total, err := s.UserRepo.List(filter, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	return users, total, nil
}

func (s *UserService) GetUserByID(id uint) (*model.User, error) {
	user, err := s.UserRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrUserNotFound
	}
	return user, err
}

// DisableUser 禁用/启用用户，禁用后无法登录
func (s *UserService) DisableUser(operatorID, id uint, disable bool) error {
	if operatorID == id && disable {
		return fmt.Errorf("%w: cannot disable yourself", util.ErrValidation)
	}
	if _, err := s.GetUserByID(id); err != nil {
		return err
	}
	if err := s.UserRepo.SetDisabled(id, disable); err != nil {
		return fmt.Errorf("disable user: %w", err)
	}

	logger.Log.Info("User status changed",
		zap.Uint("userID", id),
		zap.Uint("operatorID", operatorID),
		zap.Bool("disabled", disable),
	)
	return nil
}
