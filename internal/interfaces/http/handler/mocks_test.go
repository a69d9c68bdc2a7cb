package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	gameapp "github.com/kkambbaki/backend/internal/application/game"
	identityapp "github.com/kkambbaki/backend/internal/application/identity"
	reportapp "github.com/kkambbaki/backend/internal/application/report"
	"github.com/kkambbaki/backend/internal/domain/game"
	"github.com/kkambbaki/backend/internal/domain/identity"
	"github.com/kkambbaki/backend/internal/interfaces/http/dto"
	"github.com/kkambbaki/backend/internal/interfaces/http/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

// asUser stands in for the auth middleware chain
func asUser(userID int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.AuthUserIDKey, userID)
		c.Next()
	}
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

// envelope decodes the response with data kept raw
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *dto.ErrorInfo  `json:"error"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

func decodeData[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	env := decode(t, rec)
	require.True(t, env.Success, rec.Body.String())
	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

func intPtr(v int) *int { return &v }

type mockAuthService struct{ mock.Mock }

func (m *mockAuthService) Login(ctx context.Context, input identityapp.LoginInput) (*identityapp.AuthResult, error) {
	args := m.Called(ctx, input)
	if r, ok := args.Get(0).(*identityapp.AuthResult); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAuthService) Register(ctx context.Context, input identityapp.RegisterInput) (*identityapp.AuthResult, error) {
	args := m.Called(ctx, input)
	if r, ok := args.Get(0).(*identityapp.AuthResult); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAuthService) Refresh(ctx context.Context, refreshToken string) (*identityapp.TokenPairResult, error) {
	args := m.Called(ctx, refreshToken)
	if r, ok := args.Get(0).(*identityapp.TokenPairResult); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAuthService) Verify(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

func (m *mockAuthService) Logout(ctx context.Context, input identityapp.LogoutInput) error {
	return m.Called(ctx, input).Error(0)
}

func (m *mockAuthService) CheckUsername(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

type mockUserService struct{ mock.Mock }

func (m *mockUserService) UpdateEmail(ctx context.Context, userID int64, email string) (*identityapp.UserInfo, error) {
	args := m.Called(ctx, userID, email)
	if r, ok := args.Get(0).(*identityapp.UserInfo); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserService) GetChild(ctx context.Context, userID int64) (*identity.Child, error) {
	args := m.Called(ctx, userID)
	if r, ok := args.Get(0).(*identity.Child); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserService) UpsertChild(ctx context.Context, userID int64, input identityapp.ChildInput) (*identity.Child, error) {
	args := m.Called(ctx, userID, input)
	if r, ok := args.Get(0).(*identity.Child); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockSessionService struct{ mock.Mock }

func (m *mockSessionService) ListActive(ctx context.Context) ([]gameapp.GameInfo, error) {
	args := m.Called(ctx)
	if r, ok := args.Get(0).([]gameapp.GameInfo); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockSessionService) StartBBStar(ctx context.Context, userID, childID int64) (*gameapp.StartResult, error) {
	args := m.Called(ctx, userID, childID)
	if r, ok := args.Get(0).(*gameapp.StartResult); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockSessionService) StartKidsTraffic(ctx context.Context, userID int64) (*gameapp.StartResult, error) {
	args := m.Called(ctx, userID)
	if r, ok := args.Get(0).(*gameapp.StartResult); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockSessionService) Finish(ctx context.Context, userID int64, via game.Code, input gameapp.FinishInput) (*gameapp.FinishResult, error) {
	args := m.Called(ctx, userID, via, input)
	if r, ok := args.Get(0).(*gameapp.FinishResult); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockRankingService struct{ mock.Mock }

func (m *mockRankingService) Board(ctx context.Context) (*game.Board, error) {
	args := m.Called(ctx)
	if r, ok := args.Get(0).(*game.Board); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRankingService) Record(ctx context.Context, input gameapp.RankingInput) (*gameapp.RankingRecorded, error) {
	args := m.Called(ctx, input)
	if r, ok := args.Get(0).(*gameapp.RankingRecorded); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockReportService struct{ mock.Mock }

func (m *mockReportService) Detail(ctx context.Context, input reportapp.DetailInput) (*reportapp.ReportDetail, error) {
	args := m.Called(ctx, input)
	if r, ok := args.Get(0).(*reportapp.ReportDetail); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockReportService) CheckStatus(ctx context.Context, userID int64) (*reportapp.StatusResult, error) {
	args := m.Called(ctx, userID)
	if r, ok := args.Get(0).(*reportapp.StatusResult); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockReportService) RequestEmail(ctx context.Context, input reportapp.EmailRequestInput) error {
	return m.Called(ctx, input).Error(0)
}

func (m *mockReportService) SetPin(ctx context.Context, userID int64, pin string) error {
	return m.Called(ctx, userID, pin).Error(0)
}

var (
	_ AuthUseCases    = (*mockAuthService)(nil)
	_ UserUseCases    = (*mockUserService)(nil)
	_ SessionUseCases = (*mockSessionService)(nil)
	_ RankingUseCases = (*mockRankingService)(nil)
	_ ReportUseCases  = (*mockReportService)(nil)
)
