package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/Retail-api/internal/application/auth"
	"github.com/jhoicas/Retail-api/internal/application/dto"
	"github.com/jhoicas/Retail-api/internal/application/tenant"
	"github.com/jhoicas/Retail-api/internal/domain"
	"github.com/jhoicas/Retail-api/internal/domain/repository"
)

// AccountUseCase administración de cuentas de usuario.
type AccountUseCase struct {
	repo repository.UserRepository
	now  func() time.Time
	log  zerolog.Logger
}

// NewAccountUseCase construye el caso de uso con el puerto de persistencia.
func NewAccountUseCase(repo repository.UserRepository, log zerolog.Logger) *AccountUseCase {
	return &AccountUseCase{repo: repo, now: time.Now, log: log}
}

// WithClock reemplaza el reloj (tests).
func (uc *AccountUseCase) WithClock(now func() time.Time) *AccountUseCase {
	cp := *uc
	cp.now = now
	return &cp
}

// ToggleUserActive invierte isActive del usuario objetivo.
// El privilegio del solicitante se vuelve a leer del almacenamiento en cada llamada:
// inexistente, inactivo o sin rol super_admin es ErrForbidden. Un super admin no puede
// cambiar su propio estado.
func (uc *AccountUseCase) ToggleUserActive(ctx context.Context, requesterID, targetUserID string) (*dto.ToggleStatusResponse, error) {
	if requesterID == "" || targetUserID == "" {
		return nil, domain.ErrInvalidInput
	}
	requester, err := uc.repo.FindByID(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	if requester == nil || !requester.IsActive || !requester.IsSuperAdmin() {
		return nil, domain.ErrForbidden
	}
	if requesterID == targetUserID {
		return nil, fmt.Errorf("no se puede cambiar el estado propio: %w", domain.ErrInvalidInput)
	}

	target, err := uc.repo.FindByID(ctx, targetUserID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, domain.ErrUserNotFound
	}

	now := uc.now()
	target.IsActive = !target.IsActive
	target.StatusChangedBy = requester.ID
	target.StatusChangedAt = &now
	target.UpdatedAt = now
	if err := uc.repo.Update(ctx, target); err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("user_id", target.ID).
		Str("changed_by", requester.ID).
		Bool("is_active", target.IsActive).
		Msg("estado de usuario actualizado")

	return &dto.ToggleStatusResponse{Success: true, IsActive: target.IsActive, Email: target.Email}, nil
}

// ListUsers lista los usuarios del alcance (todos si es global).
func (uc *AccountUseCase) ListUsers(ctx context.Context, scope tenant.Scope, page dto.PageRequest) (*dto.UserListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.ListByClient(ctx, scope.FilterClientID(), page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		items = append(items, *auth.ToUserResponse(u))
	}
	return &dto.UserListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}
