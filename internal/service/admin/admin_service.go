package admin

import (
	"context"
	"fmt"
	"time"

	"humanizer-service/internal/domain/subscription"
	"humanizer-service/internal/domain/text"
	"humanizer-service/internal/domain/user"
	xerrors "humanizer-service/internal/pkg/errors"
	"humanizer-service/internal/repository/postgres"
	"humanizer-service/internal/service/stats"

	"go.uber.org/zap"
)

type AdminService struct {
	userRepo *postgres.UserRepository
	subRepo  *postgres.SubscriptionRepository
	textRepo *postgres.TextRepository
	usage    *stats.Aggregator
	logger   *zap.Logger
}

func NewAdminService(
	userRepo *postgres.UserRepository,
	subRepo *postgres.SubscriptionRepository,
	textRepo *postgres.TextRepository,
	usage *stats.Aggregator,
	logger *zap.Logger,
) *AdminService {
	return &AdminService{
		userRepo: userRepo,
		subRepo:  subRepo,
		textRepo: textRepo,
		usage:    usage,
		logger:   logger,
	}
}

type UserListResponse struct {
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
	Data  []user.Profile `json:"data"`
}

// UserDetail bundles everything an operator sees on one account.
type UserDetail struct {
	User         *user.Profile                      `json:"user"`
	Subscription *subscription.SubscriptionResponse `json:"subscription,omitempty"`
	Statistics   *text.StatisticsResponse           `json:"statistics"`
	RecordCount  int64                              `json:"record_count"`
}

type PlatformStats struct {
	TotalUsers          int64                `json:"total_users"`
	NewUsersLast7Days   int64                `json:"new_users_last_7_days"`
	TotalHumanizations  int64                `json:"total_humanizations"`
	HumanizationsLast7D int64                `json:"humanizations_last_7_days"`
	TotalCharacters     int64                `json:"total_characters"`
	PlanBreakdown       []postgres.PlanCount `json:"plan_breakdown"`
}

// ListUsers pages through all accounts, newest first.
func (s *AdminService) ListUsers(ctx context.Context, page, limit int) (*UserListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	users, total, err := s.userRepo.List(ctx, limit, (page-1)*limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	profiles := make([]user.Profile, 0, len(users))
	for i := range users {
		profiles = append(profiles, *users[i].Profile())
	}

	return &UserListResponse{Total: total, Page: page, Limit: limit, Data: profiles}, nil
}

// GetUserDetail returns one account with its subscription and usage.
func (s *AdminService) GetUserDetail(ctx context.Context, userID int64) (*UserDetail, error) {
	u, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	detail := &UserDetail{User: u.Profile()}

	current, err := s.subRepo.FindActiveByUser(ctx, userID)
	switch {
	case err == nil:
		status := "inactive"
		if current.Active {
			status = "active"
		}
		detail.Subscription = &subscription.SubscriptionResponse{
			ID:           current.ID,
			PlanID:       current.PlanType,
			UserID:       current.UserID,
			Status:       status,
			CreditsTotal: current.CreditsTotal,
			CreditsUsed:  current.CreditsUsed,
			StartDate:    current.StartDate,
			EndDate:      current.EndDate,
		}
	case xerrors.Is(err, xerrors.ErrNoActiveSubscription):
		// shown without a subscription block
	default:
		return nil, fmt.Errorf("failed to load subscription: %w", err)
	}

	detail.Statistics, err = s.usage.ForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load statistics: %w", err)
	}

	detail.RecordCount, err = s.textRepo.CountByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count records: %w", err)
	}

	return detail, nil
}

// GetPlatformStats aggregates service-wide usage counters.
func (s *AdminService) GetPlatformStats(ctx context.Context) (*PlatformStats, error) {
	out := &PlatformStats{}
	since := time.Now().AddDate(0, 0, -7)

	var err error
	if out.TotalUsers, err = s.userRepo.CountAll(ctx); err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	if out.NewUsersLast7Days, err = s.userRepo.CountCreatedSince(ctx, since); err != nil {
		return nil, fmt.Errorf("failed to count new users: %w", err)
	}
	if out.TotalHumanizations, err = s.textRepo.CountAll(ctx); err != nil {
		return nil, fmt.Errorf("failed to count humanizations: %w", err)
	}
	if out.HumanizationsLast7D, err = s.textRepo.CountCreatedSince(ctx, since); err != nil {
		return nil, fmt.Errorf("failed to count recent humanizations: %w", err)
	}
	if out.TotalCharacters, err = s.textRepo.SumCharacters(ctx); err != nil {
		return nil, fmt.Errorf("failed to sum characters: %w", err)
	}
	if out.PlanBreakdown, err = s.subRepo.CountByPlan(ctx); err != nil {
		return nil, fmt.Errorf("failed to break down plans: %w", err)
	}

	return out, nil
}

// PromoteUser grants admin rights to an account.
func (s *AdminService) PromoteUser(ctx context.Context, userID int64) error {
	if err := s.userRepo.SetAdmin(ctx, userID, true); err != nil {
		return err
	}
	s.logger.Info("user promoted to admin", zap.Int64("user_id", userID))
	return nil
}
