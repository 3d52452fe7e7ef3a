package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/AbelC27/AcessIT/internal/accessit/schedule"
	"github.com/AbelC27/AcessIT/internal/accessit/store"
	"github.com/AbelC27/AcessIT/internal/accessit/types"
	"github.com/AbelC27/AcessIT/internal/device"
	"github.com/AbelC27/AcessIT/internal/metrics"
)

var (
	ErrInvalidCode  = errors.New("ble_code is required")
	ErrInvalidLogID = errors.New("log_id is required")
	ErrUserNotFound = errors.New("user not found")
)

const directionEntry = "entry"

// Message strings are part of the wire contract with the mobile client and
// the admin console and must not be reworded.
const (
	msgGrantedEntry    = "Acces permis"
	msgGrantedResponse = "Acces permis!"
	msgPending         = "pending"
	msgAdminGranted    = "Acces permis de admin"
	msgAdminDenied     = "Acces respins de admin"
)

// Deps wires an AccessService.  Unlocker may be nil (no actuator configured).
// Logger, Metrics, Now and DefaultSchedule default sensibly when zero.
type Deps struct {
	Users    store.UserStore
	Logs     store.AccessLogStore
	Unlocker device.Unlocker
	Logger   *zap.Logger
	Metrics  *metrics.Metrics

	// Now supplies the instant decisions are evaluated at.  Tests inject a
	// fixed clock; production leaves it nil for time.Now.
	Now func() time.Time

	// DefaultSchedule is applied when a user record has no schedule.
	DefaultSchedule string
}

// AccessService is the decision engine: it turns a scanned credential code
// into an audited grant/pending decision, answers status polls, and applies
// administrative overrides.
type AccessService struct {
	users           store.UserStore
	logs            store.AccessLogStore
	unlocker        device.Unlocker
	logger          *zap.Logger
	metrics         *metrics.Metrics
	now             func() time.Time
	defaultSchedule string
}

func NewAccessService(d Deps) *AccessService {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Metrics == nil {
		// Unregistered instruments; callers that care pass their own.
		d.Metrics = metrics.New(prometheus.NewRegistry())
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.DefaultSchedule == "" {
		d.DefaultSchedule = schedule.DefaultWindow
	}
	return &AccessService{
		users:           d.Users,
		logs:            d.Logs,
		unlocker:        d.Unlocker,
		logger:          d.Logger,
		metrics:         d.Metrics,
		now:             d.Now,
		defaultSchedule: d.DefaultSchedule,
	}
}

// Validate resolves a scanned credential code, evaluates the user's allowed
// window, appends the decision to the audit log and answers the scanner.
// The log write must succeed before the caller sees a decision; on a grant,
// the unlock command is fired afterwards and its failure does not revoke
// the grant.
func (s *AccessService) Validate(ctx context.Context, bleCode string) (types.ValidateResponse, error) {
	timer := prometheus.NewTimer(s.metrics.ValidateDuration)
	defer timer.ObserveDuration()

	bleCode = strings.TrimSpace(bleCode)
	if bleCode == "" {
		return types.ValidateResponse{}, ErrInvalidCode
	}

	users, err := s.users.FetchUserByCode(ctx, bleCode)
	if err != nil {
		return types.ValidateResponse{}, fmt.Errorf("fetch user: %w", err)
	}
	if len(users) == 0 {
		s.metrics.UserLookupMissesTotal.Inc()
		return types.ValidateResponse{}, ErrUserNotFound
	}
	user := users[0]

	windowSpec := strings.TrimSpace(user.AllowedSchedule)
	if windowSpec == "" {
		windowSpec = s.defaultSchedule
	}

	now := s.now()
	within := s.withinWindow(windowSpec, now, user.ID)

	logID := uuid.NewString()
	rec := store.AccessLogRecord{
		ID:        logID,
		UserID:    user.ID,
		Timestamp: now.UTC(),
		Direction: directionEntry,
		IsVisitor: false,
	}

	var resp types.ValidateResponse
	if within {
		rec.Status = store.StatusGranted
		rec.Message = msgGrantedEntry
		resp = types.ValidateResponse{Granted: true, Message: msgGrantedResponse, LogID: logID}
	} else {
		rec.Status = store.StatusPending
		rec.Message = msgPending
		resp = types.ValidateResponse{Granted: false, Message: msgPending, LogID: logID}
	}

	if err := s.logs.AppendLog(ctx, rec); err != nil {
		return types.ValidateResponse{}, fmt.Errorf("append access log: %w", err)
	}
	s.metrics.DecisionsTotal.WithLabelValues(string(rec.Status)).Inc()

	s.logger.Info("access decision",
		zap.String("log_id", logID),
		zap.String("user_id", user.ID),
		zap.String("status", string(rec.Status)),
		zap.String("window", windowSpec),
	)

	if within {
		s.fireUnlock(ctx, user.ID, logID)
	}

	return resp, nil
}

// withinWindow evaluates the user's window, treating an unparseable spec as
// unrestricted: broken schedule data must not lock anyone out.
func (s *AccessService) withinWindow(spec string, now time.Time, userID string) bool {
	w, err := schedule.Parse(spec)
	if err != nil {
		s.logger.Warn("unparseable schedule, not restricting",
			zap.String("user_id", userID),
			zap.String("schedule", spec),
			zap.Error(err),
		)
		return true
	}
	return w.Contains(now)
}

// fireUnlock sends the unlock command for a granted decision.  The decision
// is already durably recorded; an actuator failure is logged and counted
// but never surfaced to the scanner.
func (s *AccessService) fireUnlock(ctx context.Context, userID, logID string) {
	if s.unlocker == nil {
		return
	}
	if err := s.unlocker.Unlock(ctx, userID); err != nil {
		s.metrics.UnlockFailuresTotal.Inc()
		s.logger.Warn("door unlock failed",
			zap.String("log_id", logID),
			zap.String("user_id", userID),
			zap.Error(err),
		)
	}
}

// Status answers a poll for a previously issued decision.
func (s *AccessService) Status(ctx context.Context, logID string) (types.StatusResponse, error) {
	logID = strings.TrimSpace(logID)
	if logID == "" {
		return types.StatusResponse{}, ErrInvalidLogID
	}

	rec, err := s.logs.GetLog(ctx, logID)
	if err != nil {
		if errors.Is(err, store.ErrLogNotFound) {
			return types.StatusResponse{}, err
		}
		return types.StatusResponse{}, fmt.Errorf("get access log: %w", err)
	}

	return types.StatusResponse{
		Granted: rec.Status == store.StatusGranted,
		Message: rec.Message,
	}, nil
}

// Approve applies an administrative override: approve=true grants, false
// denies.  The write is unconditional: any record, in any state, is
// overwritten, and an unknown id is acknowledged all the same.
func (s *AccessService) Approve(ctx context.Context, logID string, approve bool) error {
	logID = strings.TrimSpace(logID)
	if logID == "" {
		return ErrInvalidLogID
	}

	status := store.StatusDenied
	message := msgAdminDenied
	if approve {
		status = store.StatusGranted
		message = msgAdminGranted
	}

	if err := s.logs.UpdateLogStatus(ctx, logID, status, message); err != nil {
		if errors.Is(err, store.ErrLogNotFound) {
			// Blind ack: backends that can detect a missing record stay
			// observationally identical to ones that cannot.
			s.logger.Warn("override for unknown log id", zap.String("log_id", logID))
			return nil
		}
		return fmt.Errorf("update access log: %w", err)
	}

	s.metrics.OverridesTotal.WithLabelValues(string(status)).Inc()
	s.logger.Info("admin override",
		zap.String("log_id", logID),
		zap.String("status", string(status)),
	)
	return nil
}
