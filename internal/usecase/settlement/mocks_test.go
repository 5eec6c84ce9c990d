package settlement

import (
	"context"

	"github.com/google/uuid"
	"github.com/jlgsjlgs/HowMuchAh-backend/internal/domain"
	"github.com/stretchr/testify/mock"
)

// MockGroupRepository is a mock implementation of GroupRepository for testing
type MockGroupRepository struct {
	mock.Mock
}

func (m *MockGroupRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Group, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Group), args.Error(1)
}

func (m *MockGroupRepository) LockByID(ctx context.Context, id uuid.UUID) (*domain.Group, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Group), args.Error(1)
}

func (m *MockGroupRepository) IsMember(ctx context.Context, groupID, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, groupID, userID)
	return args.Bool(0), args.Error(1)
}

// MockExpenseSplitRepository is a mock implementation of ExpenseSplitRepository for testing
type MockExpenseSplitRepository struct {
	mock.Mock
}

func (m *MockExpenseSplitRepository) FindUnsettledByGroupID(ctx context.Context, groupID uuid.UUID) ([]domain.ExpenseSplit, error) {
	args := m.Called(ctx, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ExpenseSplit), args.Error(1)
}

func (m *MockExpenseSplitRepository) MarkAllSettledByGroupID(ctx context.Context, groupID uuid.UUID) (int64, error) {
	args := m.Called(ctx, groupID)
	return args.Get(0).(int64), args.Error(1)
}

// MockExpenseRepository is a mock implementation of ExpenseRepository for testing
type MockExpenseRepository struct {
	mock.Mock
}

func (m *MockExpenseRepository) MarkAllSettledByGroupID(ctx context.Context, groupID uuid.UUID) (int64, error) {
	args := m.Called(ctx, groupID)
	return args.Get(0).(int64), args.Error(1)
}

// MockSettlementRepository is a mock implementation of SettlementRepository for testing
type MockSettlementRepository struct {
	mock.Mock
}

func (m *MockSettlementRepository) CreateGroup(ctx context.Context, group *domain.SettlementGroup) error {
	args := m.Called(ctx, group)
	return args.Error(0)
}

func (m *MockSettlementRepository) CreateTransactions(ctx context.Context, transactions []domain.SettlementTransaction) error {
	args := m.Called(ctx, transactions)
	return args.Error(0)
}

func (m *MockSettlementRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.SettlementGroup, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SettlementGroup), args.Error(1)
}

func (m *MockSettlementRepository) ListByGroupID(ctx context.Context, groupID uuid.UUID) ([]domain.SettlementSummary, error) {
	args := m.Called(ctx, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SettlementSummary), args.Error(1)
}

// MockUserRepository is a mock implementation of UserRepository for testing
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.UserSummary, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.UserSummary), args.Error(1)
}

// MockTxManager runs the callback against its repositories unless the
// expectation returns an error first
type MockTxManager struct {
	mock.Mock
	Repos domain.Repositories
}

func (m *MockTxManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context, repos domain.Repositories) error) error {
	args := m.Called(ctx)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(ctx, m.Repos)
}

// MockSettlementCache is a mock implementation of SettlementCache for testing
type MockSettlementCache struct {
	mock.Mock
}

func (m *MockSettlementCache) Get(ctx context.Context, id uuid.UUID) (*domain.SettlementView, bool, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*domain.SettlementView), args.Bool(1), args.Error(2)
}

func (m *MockSettlementCache) Set(ctx context.Context, view *domain.SettlementView) error {
	args := m.Called(ctx, view)
	return args.Error(0)
}

// MockSettlementPublisher is a mock implementation of SettlementPublisher for testing
type MockSettlementPublisher struct {
	mock.Mock
}

func (m *MockSettlementPublisher) PublishSettlementCompleted(ctx context.Context, event domain.SettlementCompleted) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

type mocks struct {
	groups      *MockGroupRepository
	splits      *MockExpenseSplitRepository
	expenses    *MockExpenseRepository
	settlements *MockSettlementRepository
	users       *MockUserRepository
	tx          *MockTxManager
	cache       *MockSettlementCache
	publisher   *MockSettlementPublisher
}

func newMocks() *mocks {
	m := &mocks{
		groups:      new(MockGroupRepository),
		splits:      new(MockExpenseSplitRepository),
		expenses:    new(MockExpenseRepository),
		settlements: new(MockSettlementRepository),
		users:       new(MockUserRepository),
		cache:       new(MockSettlementCache),
		publisher:   new(MockSettlementPublisher),
	}
	m.tx = &MockTxManager{Repos: m.repos()}
	return m
}

func (m *mocks) repos() domain.Repositories {
	return domain.Repositories{
		Groups:      m.groups,
		Splits:      m.splits,
		Expenses:    m.expenses,
		Settlements: m.settlements,
		Users:       m.users,
	}
}

func (m *mocks) service() *SettlementService {
	return NewSettlementService(m.tx, m.repos(), WithCache(m.cache), WithPublisher(m.publisher))
}
