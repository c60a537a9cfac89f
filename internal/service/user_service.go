package service

import (
	"errors"
	"fmt"
	"time"

	"momentocake-admin/internal/model"
	"momentocake-admin/internal/repository"
	"momentocake-admin/pkg/validator"

	"github.com/google/uuid"
)

var (
	ErrEmailExists          = errors.New("email already exists")
	ErrPermissionsForbidden = errors.New("cannot modify this user's permissions")
	ErrLastAdmin            = errors.New("cannot demote or deactivate the last admin")
)

type UserService interface {
	CreateUser(req *CreateUserRequest, creator *model.User) (*model.User, error)
	UpdateUser(userID uuid.UUID, req *UpdateUserRequest, updater *model.User) (*model.User, error)
	DeleteUser(userID uuid.UUID, deleter *model.User) error
	UpdateUserPermissions(userID uuid.UUID, req *UpdatePermissionsRequest, updater *model.User) (*model.User, error)
	GetAllUsers() ([]model.UserResponse, error)
	GetUserByID(id uuid.UUID) (*model.UserResponse, error)
}

type CreateUserRequest struct {
	Email       string         `json:"email" validate:"required,email"`
	Password    string         `json:"password" validate:"required,min=6"`
	DisplayName string         `json:"display_name" validate:"required"`
	PhoneNumber string         `json:"phone_number"`
	Role        model.UserRole `json:"role" validate:"required,oneof=admin atendente"`
}

type UpdateUserRequest struct {
	Email       string         `json:"email" validate:"required,email"`
	Password    *string        `json:"password,omitempty" validate:"omitempty,min=6"` // Optional
	DisplayName string         `json:"display_name" validate:"required"`
	PhoneNumber string         `json:"phone_number"`
	Role        model.UserRole `json:"role" validate:"required,oneof=admin atendente"`
	IsActive    *bool          `json:"is_active"`
}

// UpdatePermissionsRequest carries a role plus, for atendentes, the custom
// permission override map.
type UpdatePermissionsRequest struct {
	Role              model.UserRole      `json:"role" validate:"required,oneof=admin atendente"`
	CustomPermissions model.PermissionMap `json:"custom_permissions"`
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) CreateUser(req *CreateUserRequest, creator *model.User) (*model.User, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	existing, _ := s.userRepo.FindByEmail(req.Email)
	if existing != nil {
		return nil, ErrEmailExists
	}

	user := &model.User{
		Email:       req.Email,
		DisplayName: req.DisplayName,
		PhoneNumber: req.PhoneNumber,
		Role:        req.Role,
		IsActive:    true,
	}
	user.CreatedBy = creator.ID.String()
	user.UpdatedBy = creator.ID.String()

	if err := user.SetPassword(req.Password); err != nil {
		return nil, errors.New("failed to hash password")
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *userService) UpdateUser(userID uuid.UUID, req *UpdateUserRequest, updater *model.User) (*model.User, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	if req.Email != user.Email {
		existing, _ := s.userRepo.FindByEmail(req.Email)
		if existing != nil {
			return nil, ErrEmailExists
		}
	}

	// Demoting or deactivating the only remaining admin would lock the
	// system out of user management.
	losesAdmin := user.Role == model.RoleAdmin &&
		(req.Role != model.RoleAdmin || (req.IsActive != nil && !*req.IsActive))
	if losesAdmin {
		admins, err := s.userRepo.CountAdmins()
		if err != nil {
			return nil, err
		}
		if admins <= 1 {
			return nil, ErrLastAdmin
		}
	}

	user.Email = req.Email
	user.DisplayName = req.DisplayName
	user.PhoneNumber = req.PhoneNumber
	s.applyRoleChange(user, req.Role)
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	user.UpdatedBy = updater.ID.String()

	if req.Password != nil && *req.Password != "" {
		if err := user.SetPassword(*req.Password); err != nil {
			return nil, errors.New("failed to hash password")
		}
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}

	return s.userRepo.FindByID(userID)
}

func (s *userService) DeleteUser(userID uuid.UUID, deleter *model.User) error {
	if deleter.ID == userID {
		return errors.New("cannot delete your own account")
	}
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return ErrUserNotFound
	}
	if user.Role == model.RoleAdmin {
		admins, err := s.userRepo.CountAdmins()
		if err != nil {
			return err
		}
		if admins <= 1 {
			return ErrLastAdmin
		}
	}
	return s.userRepo.Delete(userID)
}

// UpdateUserPermissions persists a permission edit. Self-edits and admin
// targets are rejected before anything is looked at. The role is always
// persisted; the custom map and its audit pair only survive for atendentes,
// and a switch to admin clears all three.
func (s *userService) UpdateUserPermissions(userID uuid.UUID, req *UpdatePermissionsRequest, updater *model.User) (*model.User, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	target, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	if !model.CanModifyUserPermissions(updater, target) {
		return nil, ErrPermissionsForbidden
	}

	for feature, entry := range req.CustomPermissions {
		if !model.ValidFeature(string(feature)) {
			return nil, fmt.Errorf("unknown feature key: %s", feature)
		}
		for _, action := range entry.Actions {
			if !model.ValidAction(string(action)) {
				return nil, fmt.Errorf("unknown action: %s", action)
			}
		}
	}

	target.Role = req.Role
	if req.Role == model.RoleAtendente {
		now := time.Now()
		updaterID := updater.ID.String()
		target.CustomPermissions = req.CustomPermissions
		target.PermissionsModifiedBy = &updaterID
		target.PermissionsModifiedAt = &now
	} else {
		// Admins carry no custom record
		target.CustomPermissions = nil
		target.PermissionsModifiedBy = nil
		target.PermissionsModifiedAt = nil
	}
	target.UpdatedBy = updater.ID.String()

	if err := s.userRepo.Update(target); err != nil {
		return nil, err
	}

	return s.userRepo.FindByID(userID)
}

// applyRoleChange keeps the custom-permission fields consistent with the
// role: a user promoted to admin loses the override record.
func (s *userService) applyRoleChange(user *model.User, newRole model.UserRole) {
	if user.Role == newRole {
		return
	}
	user.Role = newRole
	if newRole == model.RoleAdmin {
		user.CustomPermissions = nil
		user.PermissionsModifiedBy = nil
		user.PermissionsModifiedAt = nil
	}
}

func (s *userService) GetAllUsers() ([]model.UserResponse, error) {
	users, err := s.userRepo.FindAll()
	if err != nil {
		return nil, err
	}

	responses := make([]model.UserResponse, len(users))
	for i, user := range users {
		responses[i] = user.ToResponse()
	}
	return responses, nil
}

func (s *userService) GetUserByID(id uuid.UUID) (*model.UserResponse, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return nil, ErrUserNotFound
	}
	response := user.ToResponse()
	return &response, nil
}
