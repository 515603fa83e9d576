package intake

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/example/meeting-intake/internal/domain/booking"
	"github.com/example/meeting-intake/internal/internaltypes"
	"github.com/example/meeting-intake/internal/metrics"
)

type Status string

const (
	StatusIdle      Status = "idle"
	StatusPending   Status = "pending"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Attempt is one recorded submission outcome.
type Attempt struct {
	Outcome    string
	DurationID string
	Date       string
	UserEmail  string
	Detail     string
	CreatedAt  time.Time
}

// AttemptRecorder persists submission outcomes. A nil recorder disables the
// log.
type AttemptRecorder interface {
	Record(ctx context.Context, a Attempt) error
}

// Coordinator drives the single network call of the intake step. While a call
// is in flight no new one may start; the controller's disabled flag mirrors
// that. The remote outcome never propagates past here as an error: success
// goes to the callback, failure becomes exactly one notice.
type Coordinator struct {
	booker   booking.Booker
	notifier *Notifier
	recorder AttemptRecorder
	logger   *zap.Logger

	mu     sync.Mutex
	status Status
	reason string
}

func NewCoordinator(b booking.Booker, n *Notifier, rec AttemptRecorder, logger *zap.Logger) *Coordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Coordinator{booker: b, notifier: n, recorder: rec, logger: logger, status: StatusIdle}
}

func (c *Coordinator) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

func (c *Coordinator) Pending() bool { return c.Status() == StatusPending }

// FailureReason is the user-facing message of the last failed attempt, empty
// otherwise.
func (c *Coordinator) FailureReason() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reason
}

// Submit performs the booking call. A second submission while one is pending
// is refused with ErrSubmissionPending and causes no network traffic. On
// success onSuccess is invoked with the raw service response; on failure the
// extracted message is pushed to the notifier and the coordinator stays
// retryable.
func (c *Coordinator) Submit(ctx context.Context, req booking.Request, onSuccess func(json.RawMessage)) error {
	c.mu.Lock()
	if c.status == StatusPending {
		c.mu.Unlock()
		return internaltypes.ErrSubmissionPending
	}
	c.status = StatusPending
	c.reason = ""
	c.mu.Unlock()

	raw, err := c.booker.Book(ctx, req)

	c.mu.Lock()
	if err != nil {
		c.status = StatusFailed
		c.reason = booking.ErrorMessage(err)
	} else {
		c.status = StatusSucceeded
	}
	reason := c.reason
	c.mu.Unlock()

	if err != nil {
		c.logger.Warn("booking submission failed",
			zap.String("provider", c.booker.Name()),
			zap.Error(err),
		)
		if c.notifier != nil {
			c.notifier.Push(reason)
		}
		metrics.SubmissionsTotal.WithLabelValues("failed").Inc()
		c.record(ctx, req, "failed", err.Error())
		return nil
	}

	c.logger.Info("booking submitted",
		zap.String("provider", c.booker.Name()),
		zap.String("date", req["date"]),
		zap.String("duration_id", req["duration_id"]),
	)
	metrics.SubmissionsTotal.WithLabelValues("succeeded").Inc()
	c.record(ctx, req, "succeeded", "")
	if onSuccess != nil {
		onSuccess(raw)
	}
	return nil
}

func (c *Coordinator) record(ctx context.Context, req booking.Request, outcome, detail string) {
	if c.recorder == nil {
		return
	}
	a := Attempt{
		Outcome:    outcome,
		DurationID: req["duration_id"],
		Date:       req["date"],
		UserEmail:  req["user_email"],
		Detail:     detail,
		CreatedAt:  time.Now().UTC(),
	}
	if err := c.recorder.Record(ctx, a); err != nil {
		c.logger.Warn("record submission attempt", zap.Error(err))
	}
}
