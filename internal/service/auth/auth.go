package auth

import (
	"context"
	"fmt"
	"time"

	"humanizer-service/internal/domain/subscription"
	"humanizer-service/internal/domain/user"
	xerrors "humanizer-service/internal/pkg/errors"
	"humanizer-service/internal/pkg/jwt"
	"humanizer-service/internal/pkg/ratelimit"
	"humanizer-service/internal/repository/postgres"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	db          *postgres.DB
	userRepo    *postgres.UserRepository
	subRepo     *postgres.SubscriptionRepository
	catalog     *subscription.Catalog
	jwtManager  *jwt.Manager
	rateLimiter *ratelimit.Limiter
	logger      *zap.Logger
}

func NewAuthService(
	db *postgres.DB,
	userRepo *postgres.UserRepository,
	subRepo *postgres.SubscriptionRepository,
	catalog *subscription.Catalog,
	jwtManager *jwt.Manager,
	rateLimiter *ratelimit.Limiter,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		db:          db,
		userRepo:    userRepo,
		subRepo:     subRepo,
		catalog:     catalog,
		jwtManager:  jwtManager,
		rateLimiter: rateLimiter,
		logger:      logger,
	}
}

// Register creates a new account together with its starter subscription.
// Both rows land in one transaction so a half-created account cannot exist.
func (s *AuthService) Register(ctx context.Context, req *user.RegisterRequest) (*user.LoginResponse, error) {
	exists, err := s.userRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, xerrors.ErrDuplicateEntry
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	plan, ok := s.catalog.Find(subscription.DefaultPlanID)
	if !ok {
		return nil, fmt.Errorf("default plan %q missing from catalog", subscription.DefaultPlanID)
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	u := &user.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hashedPassword),
	}
	if err := s.userRepo.CreateWithTx(ctx, tx, u); err != nil {
		return nil, err
	}

	now := time.Now()
	sub := &subscription.Subscription{
		UserID:       u.ID,
		PlanType:     plan.ID,
		CreditsTotal: plan.Credits,
		StartDate:    now,
		EndDate:      now.AddDate(0, 1, 0),
		Active:       true,
	}
	if err := s.subRepo.CreateWithTx(ctx, tx, sub); err != nil {
		return nil, fmt.Errorf("failed to create subscription: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit registration: %w", err)
	}

	s.logger.Info("user registered",
		zap.Int64("user_id", u.ID),
		zap.String("plan", plan.ID))

	return s.issueToken(u)
}

// Login authenticates with email/password. Attempts are rate limited per
// IP and email pair.
func (s *AuthService) Login(ctx context.Context, req *user.LoginRequest, ip string) (*user.LoginResponse, error) {
	allowed, remaining, err := s.rateLimiter.CheckLoginAttempt(ctx, ip, req.Email)
	if err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}
	if !allowed {
		return nil, xerrors.ErrRateLimited
	}

	u, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, xerrors.ErrUnauthorized
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Warn("failed login attempt",
			zap.String("email", req.Email),
			zap.Int64("attempts_remaining", remaining-1))
		return nil, xerrors.ErrUnauthorized
	}

	if err := s.rateLimiter.ResetLoginAttempts(ctx, ip, req.Email); err != nil {
		s.logger.Error("failed to reset login attempts", zap.Error(err))
	}

	return s.issueToken(u)
}

func (s *AuthService) issueToken(u *user.User) (*user.LoginResponse, error) {
	token, _, err := s.jwtManager.Generate(u.ID, u.Email, u.IsAdmin)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &user.LoginResponse{
		Token: token,
		User:  u.Profile(),
	}, nil
}

// GetProfile returns the account behind an authenticated request.
func (s *AuthService) GetProfile(ctx context.Context, userID int64) (*user.Profile, error) {
	u, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return u.Profile(), nil
}

// UpdateProfile applies the provided fields; empty fields keep their value.
func (s *AuthService) UpdateProfile(ctx context.Context, userID int64, req *user.UpdateProfileRequest) (*user.Profile, error) {
	u, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		u.Name = req.Name
	}
	if req.Email != "" && req.Email != u.Email {
		exists, err := s.userRepo.ExistsByEmail(ctx, req.Email)
		if err != nil {
			return nil, fmt.Errorf("failed to check email: %w", err)
		}
		if exists {
			return nil, xerrors.ErrDuplicateEntry
		}
		u.Email = req.Email
	}

	if err := s.userRepo.Update(ctx, u); err != nil {
		return nil, err
	}
	return u.Profile(), nil
}
