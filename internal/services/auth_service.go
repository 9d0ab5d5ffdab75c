package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/oficina-digital/vistoria/internal/logx"
	"github.com/oficina-digital/vistoria/internal/models"
	"github.com/oficina-digital/vistoria/internal/repository"
	"github.com/oficina-digital/vistoria/internal/validate"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const invalidCredentials = "Usuário ou Senha incorretos"

// ErrInvalidToken indica token ausente de assinatura válida, expirado ou com claims incompletas.
var ErrInvalidToken = errors.New("token inválido")

// LoginGuard conta falhas de login e bloqueia e-mails temporariamente.
type LoginGuard interface {
	IsLocked(ctx context.Context, key string) (bool, error)
	AllowRate(ctx context.Context, key string, limit int64, window time.Duration) (bool, int64, error)
	SetLock(ctx context.Context, key string, ttl time.Duration) error
	Del(ctx context.Context, keys ...string)
}

// AuthService autentica usuários e emite os tokens JWT.
type AuthService struct {
	Users     repository.UserRepository
	Guard     LoginGuard
	Secret    []byte
	TTL       time.Duration
	FailLimit int64
	LockTTL   time.Duration
	Cost      int
	Now       func() time.Time
	Logger    *logx.Logger
}

// NewAuthService cria um novo AuthService.
func NewAuthService(users repository.UserRepository, guard LoginGuard, secret string, ttl time.Duration, failLimit int64, lockTTL time.Duration, logger *logx.Logger) *AuthService {
	return &AuthService{
		Users:     users,
		Guard:     guard,
		Secret:    []byte(secret),
		TTL:       ttl,
		FailLimit: failLimit,
		LockTTL:   lockTTL,
		Cost:      bcrypt.DefaultCost,
		Now:       time.Now,
		Logger:    logger,
	}
}

// HashPassword gera o hash bcrypt da senha.
func HashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func (s *AuthService) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

func failKey(email string) string { return "login:fail:" + email }
func lockKey(email string) string { return "login:lock:" + email }

// Login confere as credenciais e emite o token de acesso.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	email := strings.TrimSpace(req.Email)
	if email == "" || req.Password == "" {
		return nil, models.NewValidation("E-mail e senha são obrigatórios.")
	}

	if s.Guard != nil {
		locked, err := s.Guard.IsLocked(ctx, lockKey(email))
		if err != nil && s.Logger != nil {
			s.Logger.Warnf("login guard unavailable: %v", err)
		}
		if locked {
			return nil, models.NewErrorResponse(http.StatusTooManyRequests, "Muitas tentativas de login. Tente novamente mais tarde.")
		}
	}

	user, err := s.Users.GetUserByEmail(ctx, email)
	if err != nil {
		var errorResponse *models.ErrorResponse
		if errors.As(err, &errorResponse) && errorResponse.StatusCode == http.StatusNotFound {
			return nil, s.loginFailed(ctx, email)
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, s.loginFailed(ctx, email)
	}

	if s.Guard != nil {
		s.Guard.Del(ctx, failKey(email), lockKey(email))
	}

	token, err := s.IssueToken(*user)
	if err != nil {
		return nil, err
	}
	return &models.LoginResponse{
		Message: fmt.Sprintf("Login bem-sucedido! Bem-vindo, %s.", user.Name),
		Token:   token,
		User:    *user,
	}, nil
}

func (s *AuthService) loginFailed(ctx context.Context, email string) error {
	if s.Guard == nil || s.FailLimit <= 0 {
		return models.NewUnauthorized(invalidCredentials)
	}
	allowed, _, err := s.Guard.AllowRate(ctx, failKey(email), s.FailLimit, s.LockTTL)
	if err != nil {
		if s.Logger != nil {
			s.Logger.Warnf("login guard unavailable: %v", err)
		}
		return models.NewUnauthorized(invalidCredentials)
	}
	if !allowed {
		if err := s.Guard.SetLock(ctx, lockKey(email), s.LockTTL); err != nil && s.Logger != nil {
			s.Logger.Warnf("failed to lock %s: %v", email, err)
		}
		if s.Logger != nil {
			s.Logger.Infof("login locked for %s", email)
		}
	}
	return models.NewUnauthorized(invalidCredentials)
}

// IssueToken assina um JWT HS256 com id, role e oficina do usuário.
func (s *AuthService) IssueToken(user models.User) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"id":         user.ID,
		"role":       string(user.Role),
		"oficina_id": user.OficinaID,
		"iat":        now.Unix(),
		"exp":        now.Add(s.TTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.Secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// VerifyToken valida assinatura e expiração e devolve o chamador.
func (s *AuthService) VerifyToken(tokenStr string) (models.Caller, error) {
	tok, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("algoritmo inválido")
		}
		return s.Secret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil || !tok.Valid {
		return models.Caller{}, ErrInvalidToken
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return models.Caller{}, ErrInvalidToken
	}

	id, ok := claims["id"].(float64)
	role, _ := claims["role"].(string)
	if !ok || id <= 0 || role == "" {
		return models.Caller{}, ErrInvalidToken
	}
	caller := models.Caller{UserID: int64(id), Role: models.Role(role)}
	if oficina, ok := claims["oficina_id"].(float64); ok {
		oficinaID := int64(oficina)
		caller.OficinaID = &oficinaID
	}
	return caller, nil
}

// ChangePassword troca a senha do próprio usuário após conferir a senha atual.
func (s *AuthService) ChangePassword(ctx context.Context, caller models.Caller, req models.ChangePasswordRequest) error {
	if req.OldPassword == "" || req.NewPassword == "" {
		return models.NewValidation("A senha antiga e a nova senha são obrigatórias.")
	}
	if err := validate.Password(req.NewPassword); err != nil {
		return models.NewValidation(err.Error())
	}

	user, err := s.Users.GetUserByID(ctx, caller.UserID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.OldPassword)) != nil {
		return models.NewUnauthorized("A senha antiga está incorreta.")
	}

	hash, err := HashPassword(req.NewPassword, s.Cost)
	if err != nil {
		return err
	}
	return s.Users.UpdatePassword(ctx, user.ID, hash)
}
