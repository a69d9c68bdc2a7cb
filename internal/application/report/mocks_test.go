package report

import (
	"bytes"
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"github.com/kkambbaki/backend/internal/domain/game"
	"github.com/kkambbaki/backend/internal/domain/identity"
	"github.com/kkambbaki/backend/internal/domain/report"
	"github.com/kkambbaki/backend/internal/infrastructure/llm"
	"github.com/kkambbaki/backend/internal/infrastructure/mail"
	"github.com/kkambbaki/backend/internal/infrastructure/printing"
)

// MockReportRepository is a mock implementation of report.ReportRepository
type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) GetOrCreate(ctx context.Context, userID, childID int64) (*report.Report, bool, error) {
	args := m.Called(ctx, userID, childID)
	if args.Get(0) == nil {
		return nil, false, args.Error(2)
	}
	return args.Get(0).(*report.Report), args.Bool(1), args.Error(2)
}

func (m *MockReportRepository) FindByID(ctx context.Context, id int64) (*report.Report, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*report.Report), args.Error(1)
}

func (m *MockReportRepository) FindByUserAndChild(ctx context.Context, userID, childID int64) (*report.Report, error) {
	args := m.Called(ctx, userID, childID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*report.Report), args.Error(1)
}

func (m *MockReportRepository) FindDetail(ctx context.Context, userID, childID int64) (*report.Report, error) {
	args := m.Called(ctx, userID, childID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*report.Report), args.Error(1)
}

func (m *MockReportRepository) LockByID(ctx context.Context, id int64) (*report.Report, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*report.Report), args.Error(1)
}

func (m *MockReportRepository) Update(ctx context.Context, r *report.Report) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

// MockGameReportRepository is a mock implementation of report.GameReportRepository
type MockGameReportRepository struct {
	mock.Mock
}

func (m *MockGameReportRepository) GetOrCreate(ctx context.Context, reportID, gameID int64) (*report.GameReport, bool, error) {
	args := m.Called(ctx, reportID, gameID)
	if args.Get(0) == nil {
		return nil, false, args.Error(2)
	}
	return args.Get(0).(*report.GameReport), args.Bool(1), args.Error(2)
}

func (m *MockGameReportRepository) FindByReport(ctx context.Context, reportID int64) ([]report.GameReport, error) {
	args := m.Called(ctx, reportID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]report.GameReport), args.Error(1)
}

func (m *MockGameReportRepository) Update(ctx context.Context, gr *report.GameReport) error {
	args := m.Called(ctx, gr)
	return args.Error(0)
}

// MockAdviceRepository is a mock implementation of report.AdviceRepository
type MockAdviceRepository struct {
	mock.Mock
}

func (m *MockAdviceRepository) Create(ctx context.Context, a *report.Advice) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockAdviceRepository) DeleteByGameReport(ctx context.Context, gameReportID int64) error {
	args := m.Called(ctx, gameReportID)
	return args.Error(0)
}

func (m *MockAdviceRepository) FindByGameReport(ctx context.Context, gameReportID int64) ([]report.Advice, error) {
	args := m.Called(ctx, gameReportID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]report.Advice), args.Error(1)
}

// MockPinRepository is a mock implementation of report.PinRepository
type MockPinRepository struct {
	mock.Mock
}

func (m *MockPinRepository) FindByUser(ctx context.Context, userID int64) (*report.Pin, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*report.Pin), args.Error(1)
}

func (m *MockPinRepository) Save(ctx context.Context, p *report.Pin) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

// MockGameRepository is a mock implementation of game.GameRepository
type MockGameRepository struct {
	mock.Mock
}

func (m *MockGameRepository) FindByID(ctx context.Context, id int64) (*game.Game, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*game.Game), args.Error(1)
}

func (m *MockGameRepository) FindByCode(ctx context.Context, code game.Code) (*game.Game, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*game.Game), args.Error(1)
}

func (m *MockGameRepository) FindActive(ctx context.Context) ([]game.Game, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]game.Game), args.Error(1)
}

func (m *MockGameRepository) Upsert(ctx context.Context, g *game.Game) error {
	args := m.Called(ctx, g)
	return args.Error(0)
}

// MockResultRepository is a mock implementation of game.ResultRepository
type MockResultRepository struct {
	mock.Mock
}

func (m *MockResultRepository) Create(ctx context.Context, r *game.Result) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockResultRepository) FindByID(ctx context.Context, id int64) (*game.Result, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*game.Result), args.Error(1)
}

func (m *MockResultRepository) FindByChildAndGame(ctx context.Context, childID, gameID int64, limit int) ([]game.Result, error) {
	args := m.Called(ctx, childID, gameID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]game.Result), args.Error(1)
}

func (m *MockResultRepository) FindLatestByChildAndGame(ctx context.Context, childID, gameID int64) (*game.Result, error) {
	args := m.Called(ctx, childID, gameID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*game.Result), args.Error(1)
}

func (m *MockResultRepository) CountByChildAndGame(ctx context.Context, childID, gameID int64) (int64, error) {
	args := m.Called(ctx, childID, gameID)
	return args.Get(0).(int64), args.Error(1)
}

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, u *identity.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, u *identity.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id int64) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*identity.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

// MockChildRepository is a mock implementation of identity.ChildRepository
type MockChildRepository struct {
	mock.Mock
}

func (m *MockChildRepository) FindByParentID(ctx context.Context, parentID int64) (*identity.Child, error) {
	args := m.Called(ctx, parentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Child), args.Error(1)
}

func (m *MockChildRepository) FindByID(ctx context.Context, id int64) (*identity.Child, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Child), args.Error(1)
}

func (m *MockChildRepository) Save(ctx context.Context, child *identity.Child) error {
	args := m.Called(ctx, child)
	return args.Error(0)
}

// MockEnqueuer is a mock TaskEnqueuer
type MockEnqueuer struct {
	mock.Mock
}

func (m *MockEnqueuer) Enqueue(ctx context.Context, name string, payload any) (string, error) {
	args := m.Called(ctx, name, payload)
	return args.String(0), args.Error(1)
}

// MockBotTokens is a mock BotTokenIssuer and BotTokenConsumer
type MockBotTokens struct {
	mock.Mock
}

func (m *MockBotTokens) CreateForReport(ctx context.Context, userID int64) (*identity.BotToken, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.BotToken), args.Error(1)
}

func (m *MockBotTokens) Consume(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockAdvisor is a mock AdviceGenerator
type MockAdvisor struct {
	mock.Mock
}

func (m *MockAdvisor) Generate(ctx context.Context, code game.Code, gr *report.GameReport, recent []game.Result) ([]llm.AdviceItem, error) {
	args := m.Called(ctx, code, gr, recent)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]llm.AdviceItem), args.Error(1)
}

// MockPDFSource is a mock PDFSource and ExpiredPDFCleaner
type MockPDFSource struct {
	mock.Mock
}

func (m *MockPDFSource) Generate(ctx context.Context, url string) (*printing.GeneratedPDF, error) {
	args := m.Called(ctx, url)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*printing.GeneratedPDF), args.Error(1)
}

func (m *MockPDFSource) Open(ctx context.Context, p string) (io.ReadCloser, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return io.NopCloser(bytes.NewReader(args.Get(0).([]byte))), args.Error(1)
}

func (m *MockPDFSource) CleanupExpired(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// failingSender rejects every message
type failingSender struct {
	err error
}

func (s failingSender) Send(context.Context, *mail.Message) error {
	return s.err
}
