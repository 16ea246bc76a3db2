// Package auth login y resolución de identidad a partir de la credencial de sesión.
package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Retail-api/internal/application/dto"
	"github.com/jhoicas/Retail-api/internal/domain"
	"github.com/jhoicas/Retail-api/internal/domain/entity"
	"github.com/jhoicas/Retail-api/internal/domain/repository"
	"github.com/jhoicas/Retail-api/pkg/session"
)

// AuthUseCase casos de uso de autenticación: alta de usuarios, login y resolución de sesión.
type AuthUseCase struct {
	userRepo   repository.UserRepository
	clientRepo repository.ClientRepository
	codec      *session.Codec
	sessionTTL time.Duration
	now        func() time.Time
	log        zerolog.Logger
}

// NewAuthUseCase construye el caso de uso. sessionTTL es la ventana de validez de la sesión
// (más corta que la vida del cookie, que es el maxAge del codec).
func NewAuthUseCase(
	userRepo repository.UserRepository,
	clientRepo repository.ClientRepository,
	codec *session.Codec,
	sessionTTL time.Duration,
	log zerolog.Logger,
) *AuthUseCase {
	return &AuthUseCase{
		userRepo:   userRepo,
		clientRepo: clientRepo,
		codec:      codec,
		sessionTTL: sessionTTL,
		now:        time.Now,
		log:        log,
	}
}

// WithClock reemplaza el reloj del caso de uso y del codec (tests).
func (uc *AuthUseCase) WithClock(now func() time.Time) *AuthUseCase {
	cp := *uc
	cp.now = now
	cp.codec = uc.codec.WithClock(now)
	return &cp
}

// RegisterUser crea un usuario: hashea el password con bcrypt y persiste.
// Devuelve ErrEmailAlreadyExists si el email ya existe (sin distinguir mayúsculas).
func (uc *AuthUseCase) RegisterUser(ctx context.Context, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	if !entity.ValidRole(in.Role) {
		return nil, fmt.Errorf("rol %q: %w", in.Role, domain.ErrInvalidInput)
	}
	clientID := strings.TrimSpace(in.ClientID)
	if clientID == "" && in.Role != entity.RoleSuperAdmin {
		return nil, fmt.Errorf("clientId obligatorio para el rol %s: %w", in.Role, domain.ErrInvalidInput)
	}
	if clientID != "" {
		client, err := uc.clientRepo.GetByID(ctx, clientID)
		if err != nil {
			return nil, err
		}
		if client == nil {
			return nil, domain.ErrNotFound
		}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	name := in.Name
	if name == "" {
		name = in.Email
	}
	user := &entity.User{
		ID:           uuid.New().String(),
		ClientID:     clientID,
		Email:        strings.TrimSpace(in.Email),
		PasswordHash: string(hash),
		Name:         name,
		Role:         in.Role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return ToUserResponse(user), nil
}

// Login verifica email/password y emite la credencial.
// Email desconocido o password incorrecto: ErrInvalidCredentials. Cuenta inactiva: ErrForbidden.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, domain.ErrForbidden
	}
	token, err := uc.codec.Encode(session.Claims{
		UserID:       user.ID,
		Email:        user.Email,
		Role:         user.Role,
		IsSuperAdmin: user.IsSuperAdmin(),
		ClientID:     user.ClientID,
		IssuedAt:     uc.now(),
	})
	if err != nil {
		return nil, fmt.Errorf("emitir credencial: %w", err)
	}
	return &dto.LoginResponse{
		Success: true,
		User:    *ToUserResponse(user),
		Token:   token,
	}, nil
}

// Resolve convierte la credencial en el usuario actual, o nil si no hay sesión válida:
// token malformado o vencido, usuario inexistente, inactivo o error de almacenamiento.
// Los datos se leen siempre del almacenamiento; los claims solo aportan el id.
func (uc *AuthUseCase) Resolve(ctx context.Context, credential string) *entity.User {
	if credential == "" {
		return nil
	}
	claims, err := uc.codec.Decode(credential)
	if err != nil {
		uc.log.Debug().Err(err).Msg("credencial rechazada")
		return nil
	}
	if session.IsExpired(claims, uc.sessionTTL, uc.now()) {
		uc.log.Debug().Str("user_id", claims.UserID).Msg("sesión vencida")
		return nil
	}
	user, err := uc.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		uc.log.Warn().Err(err).Str("user_id", claims.UserID).Msg("no se pudo resolver la sesión")
		return nil
	}
	if user == nil || !user.IsActive {
		return nil
	}
	return user
}

// CookieMaxAge vida del cookie auth-token.
func (uc *AuthUseCase) CookieMaxAge() time.Duration {
	return uc.codec.MaxAge()
}

// ToUserResponse mapea la entidad a su salida pública.
func ToUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:              u.ID,
		ClientID:        u.ClientID,
		Email:           u.Email,
		Name:            u.Name,
		Role:            u.Role,
		IsSuperAdmin:    u.IsSuperAdmin(),
		IsActive:        u.IsActive,
		StatusChangedBy: u.StatusChangedBy,
		StatusChangedAt: u.StatusChangedAt,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}
