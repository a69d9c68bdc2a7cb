package report

import (
	"context"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/kkambbaki/backend/internal/domain/game"
	"github.com/kkambbaki/backend/internal/domain/identity"
	"github.com/kkambbaki/backend/internal/domain/report"
	"github.com/kkambbaki/backend/internal/domain/shared"
)

var (
	ErrChildNotFound  = shared.ErrNotFound.WithMessage(shared.MsgChildNotFound)
	ErrReportNotFound = shared.ErrNotFound.WithMessage(shared.MsgReportNotFound)
	ErrNoEmailAddress = shared.ErrNotFound.WithMessage("이메일 주소가 제공되지 않았으며, 사용자 이메일도 없습니다.")
)

// Response messages
const (
	MsgEmailQueued = "리포트 이메일 전송이 시작되었습니다."
	MsgPinSet      = "Report pin set successfully."
)

// TaskEnqueuer queues background tasks by name
type TaskEnqueuer interface {
	Enqueue(ctx context.Context, name string, payload any) (string, error)
}

// BotTokenIssuer creates the token the PDF renderer signs in with
type BotTokenIssuer interface {
	CreateForReport(ctx context.Context, userID int64) (*identity.BotToken, error)
}

// Service serves the report endpoints
type Service struct {
	userRepo   identity.UserRepository
	childRepo  identity.ChildRepository
	reportRepo report.ReportRepository
	pinRepo    report.PinRepository
	gameRepo   game.GameRepository
	resultRepo game.ResultRepository
	txScope    TransactionScope
	tasks      TaskEnqueuer
	botTokens  BotTokenIssuer
	reportURL  string
	logger     *zap.Logger
	now        func() time.Time
}

// Dependencies groups the collaborators of Service
type Dependencies struct {
	UserRepo   identity.UserRepository
	ChildRepo  identity.ChildRepository
	ReportRepo report.ReportRepository
	PinRepo    report.PinRepository
	GameRepo   game.GameRepository
	ResultRepo game.ResultRepository
	TxScope    TransactionScope
	Tasks      TaskEnqueuer
	BotTokens  BotTokenIssuer
	// ReportURL is the frontend page the PDF is rendered from
	ReportURL string
}

// NewService creates a new report service
func NewService(deps Dependencies, logger *zap.Logger) *Service {
	return &Service{
		userRepo:   deps.UserRepo,
		childRepo:  deps.ChildRepo,
		reportRepo: deps.ReportRepo,
		pinRepo:    deps.PinRepo,
		gameRepo:   deps.GameRepo,
		resultRepo: deps.ResultRepo,
		txScope:    deps.TxScope,
		tasks:      deps.Tasks,
		botTokens:  deps.BotTokens,
		reportURL:  deps.ReportURL,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *Service) child(ctx context.Context, userID int64) (*identity.Child, error) {
	child, err := s.childRepo.FindByParentID(ctx, userID)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, ErrChildNotFound
		}
		return nil, err
	}
	return child, nil
}

// Detail returns the user's report. Callers signed in with a JWT must
// present the report PIN once one is enabled.
func (s *Service) Detail(ctx context.Context, input DetailInput) (*ReportDetail, error) {
	if !input.ViaBotToken {
		if err := s.checkPin(ctx, input.UserID, input.PIN); err != nil {
			return nil, err
		}
	}

	child, err := s.child(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	rep, err := s.reportRepo.FindDetail(ctx, input.UserID, child.ID)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}

	upToDate := make(map[int64]bool, len(rep.GameReports))
	for i := range rep.GameReports {
		gr := &rep.GameReports[i]
		latest, err := latestSessionID(ctx, s.resultRepo, child.ID, gr.GameID)
		if err != nil {
			return nil, err
		}
		upToDate[gr.ID] = gr.IsUpToDate(latest)
	}
	return toReportDetail(rep, child, upToDate), nil
}

func (s *Service) checkPin(ctx context.Context, userID int64, presented *string) error {
	pin, err := s.pinRepo.FindByUser(ctx, userID)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil
		}
		return err
	}
	if !pin.IsEnabled() {
		return nil
	}
	if presented == nil {
		return report.ErrPinRequired
	}
	if err := report.ValidatePin(*presented); err != nil {
		return err
	}
	if !pin.Verify(*presented) {
		return report.ErrPinMismatch
	}
	return nil
}

// SetPin stores a new report PIN for the user and enables it
func (s *Service) SetPin(ctx context.Context, userID int64, pin string) error {
	existing, err := s.pinRepo.FindByUser(ctx, userID)
	if err != nil {
		if !shared.IsNotFound(err) {
			return err
		}
		existing = report.NewPin(userID)
	}
	if err := existing.Set(pin, s.now()); err != nil {
		return err
	}
	if err := s.pinRepo.Save(ctx, existing); err != nil {
		return err
	}
	s.logger.Info("Report pin set", zap.Int64("user_id", userID))
	return nil
}

// RequestEmail queues the report email. The address falls back to the
// user's own email. The renderer opens the report with a fresh bot token
// that the task consumes after sending.
func (s *Service) RequestEmail(ctx context.Context, input EmailRequestInput) error {
	to := input.Email
	if to == "" {
		user, err := s.userRepo.FindByID(ctx, input.UserID)
		if err != nil {
			return err
		}
		to = user.Email
	}
	if to == "" {
		return ErrNoEmailAddress
	}

	token, err := s.botTokens.CreateForReport(ctx, input.UserID)
	if err != nil {
		return err
	}
	payload := SendReportEmailPayload{
		ToEmail:    to,
		SiteURL:    ReportPageURL(s.reportURL, token.Token),
		BotTokenID: &token.ID,
	}
	payload.applyDefaults()
	taskID, err := s.tasks.Enqueue(ctx, TaskSendReportEmail, payload)
	if err != nil {
		return err
	}
	s.logger.Info("Report email queued",
		zap.Int64("user_id", input.UserID),
		zap.String("to", to),
		zap.String("task_id", taskID),
	)
	return nil
}

// ReportPageURL appends the bot token to the frontend report page URL
func ReportPageURL(base, token string) string {
	return base + "?BOT_TOKEN=" + url.QueryEscape(token)
}
