package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/course-marketplace/internal/domain/entity"
	repo "github.com/oksasatya/course-marketplace/internal/domain/repository"
	"github.com/oksasatya/course-marketplace/pkg/helpers"
)

// UserService covers registration, login sessions and profile reads.
type UserService struct {
	Repo          repo.UserRepository
	Ledger        repo.LedgerRepository
	JWT           *helpers.JWTManager
	Redis         *redis.Client
	Logger        *logrus.Logger
	SignupBalance int64
}

type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

const sessionTTL = 24 * time.Hour

func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

func NewUserService(repo repo.UserRepository, ledger repo.LedgerRepository, jwt *helpers.JWTManager, rdb *redis.Client, logger *logrus.Logger, signupBalance int64) *UserService {
	return &UserService{
		Repo:          repo,
		Ledger:        ledger,
		JWT:           jwt,
		Redis:         rdb,
		Logger:        logger,
		SignupBalance: signupBalance,
	}
}

type LoginResponse struct {
	UserID       string `json:"user_id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	Role         string `json:"role"`
	TokenBalance int64  `json:"tokenBalance"`
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// Register creates an account. Role defaults to student.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*LoginResponse, TokenPair, error) {
	role := entity.Role(strings.ToLower(strings.TrimSpace(in.Role)))
	if role == "" {
		role = entity.RoleStudent
	}
	if !role.Valid() {
		return nil, TokenPair{}, ErrInvalidRole
	}
	hash, err := helpers.HashPassword(in.Password)
	if errors.Is(err, helpers.ErrPasswordTooLong) {
		return nil, TokenPair{}, ErrPasswordTooLong
	}
	if err != nil {
		return nil, TokenPair{}, err
	}
	u := &entity.User{
		Name:         in.Name,
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		Password:     hash,
		Role:         role,
		TokenBalance: s.SignupBalance,
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, TokenPair{}, ErrEmailTaken
		}
		return nil, TokenPair{}, unavailable("create user", err)
	}
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"user_id": u.ID, "role": u.Role}).Info("user registered")
	}
	pair, err := s.IssueTokens(ctx, u)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return toLoginResponse(u), pair, nil
}

// Authenticate validates email/password and returns the user without issuing tokens.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*entity.User, error) {
	u, err := s.Repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, repo.ErrNotFound) || (err == nil && u == nil) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, unavailable("load user", err)
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// IssueTokens generates access/refresh tokens and records a session in Redis.
func (s *UserService) IssueTokens(ctx context.Context, u *entity.User) (TokenPair, error) {
	sid := uuid.NewString()
	access, aexp, err := s.JWT.GenerateAccessToken(u.ID, sid, string(u.Role))
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate access token failed")
		}
		return TokenPair{}, err
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(u.ID, sid, string(u.Role))
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate refresh token failed")
		}
		return TokenPair{}, err
	}

	if s.Redis != nil {
		fields := map[string]any{
			"user_id":    u.ID,
			"email":      u.Email,
			"name":       u.Name,
			"role":       string(u.Role),
			"sid":        sid,
			"created_at": nowRFC3339(),
		}
		key := helpers.SessionKey(u.ID)
		pipe := s.Redis.Pipeline()
		pipe.HSet(ctx, key, fields)
		pipe.Expire(ctx, key, sessionTTL)
		if _, rErr := pipe.Exec(ctx); rErr != nil && s.Logger != nil {
			s.Logger.WithError(rErr).WithField("key", key).Warn("redis pipeline failed")
		}
	}

	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}

func (s *UserService) Login(ctx context.Context, email, password string) (*LoginResponse, TokenPair, error) {
	u, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, TokenPair{}, err
	}
	pair, err := s.IssueTokens(ctx, u)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return toLoginResponse(u), pair, nil
}

// Refresh rotates the session id and both tokens.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (TokenPair, string, error) {
	claims, err := s.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		return TokenPair{}, "", ErrInvalidCredentials
	}
	u, err := s.Repo.GetByID(ctx, claims.UserID)
	if errors.Is(err, repo.ErrNotFound) || (err == nil && u == nil) {
		return TokenPair{}, "", ErrInvalidCredentials
	}
	if err != nil {
		return TokenPair{}, "", unavailable("load user", err)
	}
	if s.Redis != nil {
		data, rErr := s.Redis.HGetAll(ctx, helpers.SessionKey(u.ID)).Result()
		if rErr != nil || len(data) == 0 || data["sid"] != claims.SessionID {
			return TokenPair{}, "", ErrInvalidCredentials
		}
	}
	pair, err := s.IssueTokens(ctx, u)
	if err != nil {
		return TokenPair{}, "", err
	}
	return pair, u.ID, nil
}

// Logout drops the Redis session so outstanding access tokens stop working.
func (s *UserService) Logout(ctx context.Context, userID string) {
	if s.Redis == nil || userID == "" {
		return
	}
	if err := helpers.RedisDel(ctx, s.Redis, helpers.SessionKey(userID)); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", userID).Warn("redis session delete failed")
	}
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, unavailable("load user", err)
	}
	return u, nil
}

// Transactions lists ledger entries where the user paid or was paid.
func (s *UserService) Transactions(ctx context.Context, userID string) ([]entity.Transaction, error) {
	txs, err := s.Ledger.ListByUser(ctx, userID)
	if err != nil {
		return nil, unavailable("list transactions", err)
	}
	return txs, nil
}

func toLoginResponse(u *entity.User) *LoginResponse {
	return &LoginResponse{UserID: u.ID, Email: u.Email, Name: u.Name, Role: string(u.Role), TokenBalance: u.TokenBalance}
}
