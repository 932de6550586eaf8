package usecase

import (
	"fmt"
	"time"

	"github.com/aerostock/aerostock-api/internal/application/dto"
	"github.com/aerostock/aerostock-api/internal/domain"
	"github.com/aerostock/aerostock-api/internal/domain/authz"
	"github.com/aerostock/aerostock-api/internal/domain/entity"
	"github.com/aerostock/aerostock-api/internal/domain/repository"
)

// UserUseCase administración de usuarios (solo admin).
type UserUseCase struct {
	userRepo repository.UserRepository
}

// NewUserUseCase construye el caso de uso.
func NewUserUseCase(userRepo repository.UserRepository) *UserUseCase {
	return &UserUseCase{userRepo: userRepo}
}

// List lista usuarios con paginación.
func (uc *UserUseCase) List(actor entity.Actor, limit, offset int) ([]dto.UserResponse, error) {
	if !authz.Allowed(actor.Role, authz.CapManageUsers) {
		return nil, domain.ErrPermissionDenied
	}
	users, err := uc.userRepo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, dto.UserResponse{
			ID:        u.ID,
			Email:     u.Email,
			Name:      u.Name,
			Role:      u.Role,
			Status:    u.Status,
			CreatedAt: u.CreatedAt,
			UpdatedAt: u.UpdatedAt,
		})
	}
	return out, nil
}

// Update cambia nombre, rol o estado de un usuario. Un admin no puede
// degradarse a sí mismo (evita quedarse sin administradores por accidente).
func (uc *UserUseCase) Update(actor entity.Actor, id string, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	if !authz.Allowed(actor.Role, authz.CapManageUsers) {
		return nil, domain.ErrPermissionDenied
	}
	user, err := uc.userRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if in.Role != "" {
		switch in.Role {
		case entity.RoleAdmin, entity.RoleApproveAuthority, entity.RoleStoreUser, entity.RoleProjectUser:
		default:
			return nil, fmt.Errorf("rol %q desconocido: %w", in.Role, domain.ErrInvalidInput)
		}
		if user.ID == actor.ID && in.Role != entity.RoleAdmin {
			return nil, fmt.Errorf("un admin no puede cambiarse su propio rol: %w", domain.ErrInvalidInput)
		}
		user.Role = in.Role
	}
	if in.Name != "" {
		user.Name = in.Name
	}
	if in.Status != "" {
		if in.Status != "active" && in.Status != "inactive" {
			return nil, fmt.Errorf("estado %q desconocido: %w", in.Status, domain.ErrInvalidInput)
		}
		if user.ID == actor.ID && in.Status == "inactive" {
			return nil, fmt.Errorf("un admin no puede desactivarse a sí mismo: %w", domain.ErrInvalidInput)
		}
		user.Status = in.Status
	}
	user.UpdatedAt = time.Now()
	if err := uc.userRepo.Update(user); err != nil {
		return nil, err
	}
	return &dto.UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Role:      user.Role,
		Status:    user.Status,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}, nil
}
