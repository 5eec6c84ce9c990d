package settlement

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jlgsjlgs/HowMuchAh-backend/internal/domain"
	"github.com/jlgsjlgs/HowMuchAh-backend/internal/metrics"
	"github.com/jlgsjlgs/HowMuchAh-backend/internal/usecase/netting"
)

// SettlementService settles a group's outstanding expenses and serves the
// resulting settlement records
type SettlementService struct {
	TxManager domain.TxManager
	// Repos serves reads that do not need the group lock.
	Repos     domain.Repositories
	Cache     domain.SettlementCache
	Publisher domain.SettlementPublisher
	Metrics   *metrics.Recorder
	Logger    *slog.Logger

	now func() time.Time
}

// Option configures optional collaborators of a SettlementService
type Option func(*SettlementService)

// WithCache sets the cache used for settlement detail lookups
func WithCache(cache domain.SettlementCache) Option {
	return func(s *SettlementService) { s.Cache = cache }
}

// WithPublisher sets where settlement.completed events are sent
func WithPublisher(publisher domain.SettlementPublisher) Option {
	return func(s *SettlementService) { s.Publisher = publisher }
}

// WithMetrics sets the metrics recorder
func WithMetrics(recorder *metrics.Recorder) Option {
	return func(s *SettlementService) { s.Metrics = recorder }
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(s *SettlementService) { s.Logger = logger }
}

// NewSettlementService creates a new SettlementService instance
func NewSettlementService(txManager domain.TxManager, repos domain.Repositories, opts ...Option) *SettlementService {
	s := &SettlementService{
		TxManager: txManager,
		Repos:     repos,
		Cache:     nopCache{},
		Publisher: nopPublisher{},
		Logger:    slog.Default(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ExecuteSettlement settles every unsettled expense of a group in one atomic step.
// Logic:
//  1. Lock the group row so concurrent settlements of the same group serialize
//  2. Check the requester is a member (or the owner)
//  3. Load unsettled splits; none means ErrNothingToSettle
//  4. Per currency, in sorted order: aggregate balances, then minimize transactions
//  5. Persist the settlement event, even when it has no transactions
//  6. Persist the transactions
//  7. Mark every split, then every expense, of the group as settled
//  8. Reload the event and attach user summaries
//
// Every step shares one transaction. Any failure rolls back all writes.
func (s *SettlementService) ExecuteSettlement(ctx context.Context, requesterID, groupID uuid.UUID) (*domain.SettlementView, error) {
	start := time.Now()

	var (
		committed *domain.SettlementGroup
		view      *domain.SettlementView
	)
	err := s.TxManager.WithinTransaction(ctx, func(ctx context.Context, repos domain.Repositories) error {
		// 1. Lock the group
		if _, err := repos.Groups.LockByID(ctx, groupID); err != nil {
			return err
		}

		// 2. Membership
		if err := ensureMember(ctx, repos.Groups, groupID, requesterID); err != nil {
			return err
		}

		// 3. Unsettled splits
		splits, err := repos.Splits.FindUnsettledByGroupID(ctx, groupID)
		if err != nil {
			return err
		}
		if len(splits) == 0 {
			return domain.ErrNothingToSettle
		}

		// 4. Aggregate and minimize per currency
		event := &domain.SettlementGroup{
			ID:        uuid.New(),
			GroupID:   groupID,
			SettledAt: s.now().UTC(),
		}
		plans, err := netting.PlanByCurrency(splits, event.ID)
		if err != nil {
			return err
		}
		event.Transactions = netting.Flatten(plans)
		if err := event.Validate(); err != nil {
			return fmt.Errorf("%w: %w", domain.ErrInvariantViolation, err)
		}

		// 5. Settlement event
		if err := repos.Settlements.CreateGroup(ctx, event); err != nil {
			return err
		}

		// 6. Transactions
		if len(event.Transactions) == 0 {
			s.Logger.InfoContext(ctx, "all balances cancel out, recording empty settlement",
				"group_id", groupID, "settlement_id", event.ID, "split_count", len(splits))
		} else if err := repos.Settlements.CreateTransactions(ctx, event.Transactions); err != nil {
			return err
		}

		// 7. Mark splits, then expenses
		if _, err := repos.Splits.MarkAllSettledByGroupID(ctx, groupID); err != nil {
			return err
		}
		if _, err := repos.Expenses.MarkAllSettledByGroupID(ctx, groupID); err != nil {
			return err
		}

		// 8. Reload with user summaries
		committed, err = repos.Settlements.GetByID(ctx, event.ID)
		if err != nil {
			return err
		}
		view, err = buildView(ctx, repos.Users, committed)
		return err
	})
	if err != nil {
		s.Metrics.ObserveSettlement(outcomeOf(err), time.Since(start))
		return nil, err
	}

	s.afterCommit(ctx, requesterID, committed, view, time.Since(start))
	return view, nil
}

// afterCommit runs the side effects of a durable settlement. Failures are
// logged only: the settlement has already happened.
func (s *SettlementService) afterCommit(ctx context.Context, requesterID uuid.UUID, committed *domain.SettlementGroup, view *domain.SettlementView, elapsed time.Duration) {
	outcome := metrics.OutcomeSettled
	if len(committed.Transactions) == 0 {
		outcome = metrics.OutcomePerfectWash
	}
	s.Metrics.ObserveSettlement(outcome, elapsed)
	for _, tx := range committed.Transactions {
		s.Metrics.AddTransactions(tx.Currency, 1)
	}

	s.Logger.InfoContext(ctx, "settlement committed",
		"group_id", committed.GroupID,
		"settlement_id", committed.ID,
		"requester_id", requesterID,
		"transaction_count", len(committed.Transactions),
	)

	if err := s.Cache.Set(ctx, view); err != nil {
		s.Logger.WarnContext(ctx, "failed to cache settlement", "settlement_id", committed.ID, "error", err)
	}

	event := domain.NewSettlementCompleted(requesterID, committed)
	if err := s.Publisher.PublishSettlementCompleted(ctx, event); err != nil {
		s.Logger.WarnContext(ctx, "failed to publish settlement event", "settlement_id", committed.ID, "error", err)
	}
}

// GetSettlementHistory lists a group's settlements, newest first
func (s *SettlementService) GetSettlementHistory(ctx context.Context, requesterID, groupID uuid.UUID) ([]domain.SettlementSummary, error) {
	if _, err := s.Repos.Groups.GetByID(ctx, groupID); err != nil {
		return nil, err
	}
	if err := ensureMember(ctx, s.Repos.Groups, groupID, requesterID); err != nil {
		return nil, err
	}
	return s.Repos.Settlements.ListByGroupID(ctx, groupID)
}

// GetSettlementDetail returns one settlement with its transactions.
// Settlements never change, so a cached view is served when present; the
// membership check still runs on every call.
func (s *SettlementService) GetSettlementDetail(ctx context.Context, requesterID, settlementID uuid.UUID) (*domain.SettlementView, error) {
	cached, hit, err := s.Cache.Get(ctx, settlementID)
	if err != nil {
		s.Logger.WarnContext(ctx, "settlement cache lookup failed", "settlement_id", settlementID, "error", err)
		hit = false
	}
	s.Metrics.ObserveCacheLookup(hit)
	if hit {
		if err := ensureMember(ctx, s.Repos.Groups, cached.GroupID, requesterID); err != nil {
			return nil, err
		}
		return cached, nil
	}

	event, err := s.Repos.Settlements.GetByID(ctx, settlementID)
	if err != nil {
		return nil, err
	}
	if err := ensureMember(ctx, s.Repos.Groups, event.GroupID, requesterID); err != nil {
		return nil, err
	}

	view, err := buildView(ctx, s.Repos.Users, event)
	if err != nil {
		return nil, err
	}
	if err := s.Cache.Set(ctx, view); err != nil {
		s.Logger.WarnContext(ctx, "failed to cache settlement", "settlement_id", settlementID, "error", err)
	}
	return view, nil
}

// PreviewSettlement computes what settling the group right now would produce,
// without taking the lock or writing anything
func (s *SettlementService) PreviewSettlement(ctx context.Context, requesterID, groupID uuid.UUID) (*domain.SettlementPreview, error) {
	if _, err := s.Repos.Groups.GetByID(ctx, groupID); err != nil {
		return nil, err
	}
	if err := ensureMember(ctx, s.Repos.Groups, groupID, requesterID); err != nil {
		return nil, err
	}

	splits, err := s.Repos.Splits.FindUnsettledByGroupID(ctx, groupID)
	if err != nil {
		return nil, err
	}

	plans, err := netting.PlanByCurrency(splits, uuid.Nil)
	if err != nil {
		return nil, err
	}
	return &domain.SettlementPreview{GroupID: groupID, Currencies: plans}, nil
}

func ensureMember(ctx context.Context, groups domain.GroupRepository, groupID, userID uuid.UUID) error {
	ok, err := groups.IsMember(ctx, groupID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrNotGroupMember
	}
	return nil
}

func outcomeOf(err error) string {
	switch {
	case errors.Is(err, domain.ErrNothingToSettle):
		return metrics.OutcomeNothingToSettle
	case errors.Is(err, domain.ErrGroupNotFound), errors.Is(err, domain.ErrNotGroupMember):
		return metrics.OutcomeRejected
	default:
		return metrics.OutcomeFailed
	}
}

type nopCache struct{}

func (nopCache) Get(context.Context, uuid.UUID) (*domain.SettlementView, bool, error) {
	return nil, false, nil
}

func (nopCache) Set(context.Context, *domain.SettlementView) error { return nil }

type nopPublisher struct{}

func (nopPublisher) PublishSettlementCompleted(context.Context, domain.SettlementCompleted) error {
	return nil
}
