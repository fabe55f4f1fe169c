package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/estoque-api/internal/application/dto"
	"github.com/jhoicas/estoque-api/internal/domain"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
	"github.com/jhoicas/estoque-api/pkg/jwt"
)

// MinPasswordLength longitud mínima exigida al crear usuarios.
const MinPasswordLength = 6

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// Session sesión autenticada tal como la ve el middleware HTTP.
type Session struct {
	entity.Identity
	TokenID   string
	ExpiresAt time.Time
}

// AuthUseCase casos de uso de autenticación: login, identificación de sesión, logout y alta de usuarios.
type AuthUseCase struct {
	userRepo repository.UserRepository
	sessions repository.SessionStore
	jwtCfg   JWTConfig

	dummyOnce sync.Once
	dummyHash []byte
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, sessions repository.SessionStore, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, sessions: sessions, jwtCfg: jwtCfg}
}

// Authenticate verifica login/contraseña. Login inexistente y contraseña incorrecta devuelven
// el mismo ErrAuthFailed; en ambos casos se ejecuta una comparación bcrypt.
func (uc *AuthUseCase) Authenticate(ctx context.Context, login, password string) (entity.Identity, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return entity.Identity{}, domain.Invalid("login y contraseña son requeridos")
	}
	user, err := uc.userRepo.GetByLogin(ctx, login)
	if err != nil {
		return entity.Identity{}, err
	}
	if user == nil {
		_ = bcrypt.CompareHashAndPassword(uc.dummy(), []byte(password))
		return entity.Identity{}, domain.ErrAuthFailed
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return entity.Identity{}, domain.ErrAuthFailed
	}
	return entity.Identity{UserID: user.ID, DisplayName: user.Name}, nil
}

// Login autentica y emite el token de sesión firmado.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	id, err := uc.Authenticate(ctx, in.Login, in.Password)
	if err != nil {
		return nil, err
	}
	token, tokenID, err := jwt.Generate(uc.jwtCfg.Secret, id.UserID, id.DisplayName, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, fmt.Errorf("generar token: %w", err)
	}
	return &dto.LoginResponse{
		Token:     token,
		TokenID:   tokenID,
		ExpiresAt: time.Now().Add(time.Duration(uc.jwtCfg.ExpMinutes) * time.Minute),
		User:      dto.UserResponse{ID: id.UserID, Name: id.DisplayName},
	}, nil
}

// Identify valida el token y comprueba que la sesión no haya sido revocada.
// Devuelve ErrUnauthorized si el token no sirve; otros errores son fallos del almacén de sesiones.
func (uc *AuthUseCase) Identify(ctx context.Context, token string) (*Session, error) {
	claims, err := jwt.Parse(uc.jwtCfg.Secret, token)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}
	revoked, err := uc.sessions.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("consultar sesión: %w", err)
	}
	if revoked {
		return nil, domain.ErrUnauthorized
	}
	s := &Session{
		Identity: entity.Identity{UserID: claims.UserID, DisplayName: claims.Name},
		TokenID:  claims.ID,
	}
	if claims.ExpiresAt != nil {
		s.ExpiresAt = claims.ExpiresAt.Time
	}
	return s, nil
}

// Logout revoca la sesión hasta su expiración natural.
func (uc *AuthUseCase) Logout(ctx context.Context, s *Session) error {
	if s == nil || s.TokenID == "" {
		return nil
	}
	ttl := time.Until(s.ExpiresAt)
	if ttl <= 0 {
		return nil
	}
	return uc.sessions.Revoke(ctx, s.TokenID, ttl)
}

// RegisterUser crea un usuario con la contraseña hasheada (bcrypt). Sólo lo usa el proceso administrativo.
func (uc *AuthUseCase) RegisterUser(ctx context.Context, name, login, password string) (*entity.User, error) {
	name = strings.TrimSpace(name)
	login = strings.TrimSpace(login)
	if name == "" || login == "" {
		return nil, domain.Invalid("nombre y login son requeridos")
	}
	if len(password) < MinPasswordLength {
		return nil, domain.Invalid(fmt.Sprintf("la contraseña debe tener al menos %d caracteres", MinPasswordLength))
	}
	existing, err := uc.userRepo.GetByLogin(ctx, login)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &entity.User{Name: name, Login: login, PasswordHash: string(hash)}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.ErrDuplicate
		}
		return nil, err
	}
	return user, nil
}

func (uc *AuthUseCase) dummy() []byte {
	uc.dummyOnce.Do(func() {
		uc.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("estoque-api/dummy"), bcrypt.DefaultCost)
	})
	return uc.dummyHash
}
