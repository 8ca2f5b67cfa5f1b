// internal/service/text/text_service.go
package text

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"humanizer-service/internal/domain/text"
	xerrors "humanizer-service/internal/pkg/errors"
	"humanizer-service/internal/service/credits"
	"humanizer-service/internal/service/estimator"
	"humanizer-service/internal/service/humanizer"

	"go.uber.org/zap"
)

// CreditLedger settles credit reservations for the pipeline.
type CreditLedger interface {
	Reserve(ctx context.Context, userID int64, amount int) (*credits.Reservation, error)
	Commit(res *credits.Reservation)
	Release(ctx context.Context, res *credits.Reservation) error
}

// HistoryStore appends and retrieves immutable humanization records.
type HistoryStore interface {
	Insert(ctx context.Context, rec *text.TextAnalysis) error
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]text.TextAnalysis, int64, error)
	FindByIDForUser(ctx context.Context, id, userID int64) (*text.TextAnalysis, error)
}

// UsageRecorder folds completed work into per-account counters.
type UsageRecorder interface {
	Record(ctx context.Context, userID int64, charCount, creditsSpent int, level text.Level) error
}

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// Service runs the credit-gated humanization pipeline: estimate, reserve,
// transform, persist, commit, record usage.
type Service struct {
	primary  humanizer.Strategy
	fallback humanizer.Strategy
	ledger   CreditLedger
	history  HistoryStore
	usage    UsageRecorder
	logger   *zap.Logger
}

func NewService(
	primary humanizer.Strategy,
	fallback humanizer.Strategy,
	ledger CreditLedger,
	history HistoryStore,
	usage UsageRecorder,
	logger *zap.Logger,
) *Service {
	return &Service{
		primary:  primary,
		fallback: fallback,
		ledger:   ledger,
		history:  history,
		usage:    usage,
		logger:   logger,
	}
}

// Humanize runs one request through the pipeline. Credits are charged only
// for a result that was actually delivered: any failure after the
// reservation releases it before returning.
func (s *Service) Humanize(ctx context.Context, userID int64, req *text.HumanizeRequest) (*text.HumanizeResponse, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, xerrors.Wrap(xerrors.ErrInvalidInput, "text is required")
	}

	level := text.NormalizeLevel(req.Level)
	charCount := utf8.RuneCountInString(req.Text)
	cost := estimator.Estimate(req.Text)

	res, err := s.ledger.Reserve(ctx, userID, cost)
	if err != nil {
		return nil, err
	}

	humanized, strategyName, err := s.transform(ctx, req.Text, level)
	if err != nil {
		s.release(ctx, res)
		return nil, fmt.Errorf("%w: %v", xerrors.ErrHumanizationFailed, err)
	}

	rec := &text.TextAnalysis{
		UserID:         userID,
		OriginalText:   req.Text,
		HumanizedText:  humanized,
		CharacterCount: charCount,
		CreditsUsed:    cost,
	}
	if err := s.history.Insert(ctx, rec); err != nil {
		// The result was produced but could not be recorded. Refund and
		// still hand the text back rather than losing the work; the gap is
		// logged for reconciliation.
		s.release(ctx, res)
		s.logger.Error("failed to persist humanization, returning unbilled result",
			zap.Int64("user_id", userID),
			zap.String("reservation", res.Reference),
			zap.Error(err),
		)
		return &text.HumanizeResponse{
			OriginalText:   req.Text,
			HumanizedText:  humanized,
			CharacterCount: charCount,
			CreditsUsed:    0,
		}, nil
	}

	s.ledger.Commit(res)

	if err := s.usage.Record(ctx, userID, charCount, cost, level); err != nil {
		// Statistics failures never roll back the transformation itself.
		s.logger.Warn("failed to update usage statistics",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
	}

	s.logger.Info("text humanized",
		zap.Int64("user_id", userID),
		zap.Int64("record_id", rec.ID),
		zap.String("strategy", strategyName),
		zap.String("level", string(level)),
		zap.Int("characters", charCount),
		zap.Int("credits", cost),
	)

	return &text.HumanizeResponse{
		ID:             rec.ID,
		OriginalText:   rec.OriginalText,
		HumanizedText:  rec.HumanizedText,
		CharacterCount: rec.CharacterCount,
		CreditsUsed:    rec.CreditsUsed,
		CreatedAt:      rec.CreatedAt,
	}, nil
}

// transform invokes the primary strategy and retries once against the
// fallback on operational failure. The retry is invisible to the caller
// unless the fallback fails too.
func (s *Service) transform(ctx context.Context, input string, level text.Level) (string, string, error) {
	out, err := s.primary.Humanize(ctx, input, level)
	if err == nil {
		return out, s.primary.Name(), nil
	}

	// A cancelled request must not proceed to the fallback and get charged.
	if ctxErr := ctx.Err(); ctxErr != nil {
		return "", "", ctxErr
	}

	if s.fallback == nil || s.fallback == s.primary {
		return "", "", err
	}

	s.logger.Warn("humanization strategy failed, retrying with fallback",
		zap.String("strategy", s.primary.Name()),
		zap.Error(err),
	)

	out, fbErr := s.fallback.Humanize(ctx, input, level)
	if fbErr != nil {
		return "", "", fmt.Errorf("primary: %v; fallback: %v", err, fbErr)
	}

	return out, s.fallback.Name(), nil
}

func (s *Service) release(ctx context.Context, res *credits.Reservation) {
	if err := s.ledger.Release(ctx, res); err != nil {
		s.logger.Error("failed to release credit reservation",
			zap.String("reservation", res.Reference),
			zap.Int64("user_id", res.UserID),
			zap.Error(err),
		)
	}
}

// History returns an account's records newest-first.
func (s *Service) History(ctx context.Context, userID int64, page, limit int) (*text.HistoryResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > maxPageSize {
		limit = defaultPageSize
	}

	records, total, err := s.history.ListByUser(ctx, userID, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []text.TextAnalysis{}
	}

	return &text.HistoryResponse{
		Total: total,
		Page:  page,
		Limit: limit,
		Data:  records,
	}, nil
}

// Get returns one record owned by the account.
func (s *Service) Get(ctx context.Context, userID, id int64) (*text.TextAnalysis, error) {
	return s.history.FindByIDForUser(ctx, id, userID)
}
