// Package tracker contains the application-tracking business logic.
// It is transport-agnostic: the HTTP handlers in this package delegate
// here, and any future transport can reuse the same Service.
//
// Status rules live in the lifecycle package; this layer loads the
// record, merges caller-supplied fields over it, asks lifecycle to
// validate, and persists the validated patch in a single write.
package tracker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"kazitracker/tracker-service/internal/lifecycle"
)

// ─── Service ─────────────────────────────────────────────────────────────────

// Service encapsulates application CRUD and status transitions.
type Service struct {
	pool *pgxpool.Pool
	rdb  *redis.Client
}

// NewService returns a configured Service.
func NewService(pool *pgxpool.Pool, rdb *redis.Client) *Service {
	return &Service{pool: pool, rdb: rdb}
}

// Application is the JSON shape returned to the Gateway / web client.
// OfferDetails is decoded from the stored payload string; a corrupted
// payload degrades to null rather than failing the whole response.
type Application struct {
	ID              string                  `json:"id"`
	JobID           string                  `json:"jobId"`
	ResumeID        *string                 `json:"resumeId"`
	Status          string                  `json:"status"`
	AppliedDate     *time.Time              `json:"appliedDate"`
	InterviewDate   *time.Time              `json:"interviewDate"`
	OfferDate       *time.Time              `json:"offerDate"`
	RejectedDate    *time.Time              `json:"rejectedDate"`
	RejectionReason *string                 `json:"rejectionReason"`
	OfferDetails    *lifecycle.OfferDetails `json:"offerDetails"`
	Notes           *string                 `json:"notes"`
	CreatedAt       time.Time               `json:"createdAt"`
	UpdatedAt       time.Time               `json:"updatedAt"`

	rawOfferDetails *string
}

const appColumns = `id, job_id, resume_id, status,
	       applied_date, interview_date, offer_date, rejected_date,
	       rejection_reason, offer_details, notes, created_at, updated_at`

// scanApplication reads one row and decodes the offer payload.
func scanApplication(row pgx.Row) (*Application, error) {
	var a Application
	err := row.Scan(
		&a.ID, &a.JobID, &a.ResumeID, &a.Status,
		&a.AppliedDate, &a.InterviewDate, &a.OfferDate, &a.RejectedDate,
		&a.RejectionReason, &a.rawOfferDetails, &a.Notes,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	a.decodeOffer()
	return &a, nil
}

// decodeOffer fills OfferDetails from the stored payload string.
// Malformed payloads are logged and shown as null — never an error.
func (a *Application) decodeOffer() {
	if a.rawOfferDetails == nil || *a.rawOfferDetails == "" {
		return
	}
	details, ok := lifecycle.DecodeOfferDetails(*a.rawOfferDetails)
	if !ok {
		slog.Warn("offer payload decode degraded",
			"applicationId", a.ID, "rawLen", len(*a.rawOfferDetails))
		return
	}
	a.OfferDetails = &details
}

// ─── CRUD ─────────────────────────────────────────────────────────────────────

// ListApplications returns all applications for the given user, newest
// first. If statusFilter is non-empty, only that status is returned.
func (s *Service) ListApplications(ctx context.Context, userID, statusFilter string) ([]Application, error) {
	base := `SELECT ` + appColumns + ` FROM applications WHERE user_id = $1`

	var (
		rows pgx.Rows
		err  error
	)
	if statusFilter != "" {
		if _, perr := lifecycle.ParseStatus(statusFilter); perr != nil {
			return nil, &ValidationError{Msg: perr.Error()}
		}
		rows, err = s.pool.Query(ctx, base+` AND status = $2 ORDER BY updated_at DESC`, userID, statusFilter)
	} else {
		rows, err = s.pool.Query(ctx, base+` ORDER BY updated_at DESC`, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("listApplications query: %w", err)
	}
	defer rows.Close()

	apps := make([]Application, 0)
	for rows.Next() {
		var a Application
		if err := rows.Scan(
			&a.ID, &a.JobID, &a.ResumeID, &a.Status,
			&a.AppliedDate, &a.InterviewDate, &a.OfferDate, &a.RejectedDate,
			&a.RejectionReason, &a.rawOfferDetails, &a.Notes,
			&a.CreatedAt, &a.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("listApplications scan: %w", err)
		}
		a.decodeOffer()
		apps = append(apps, a)
	}
	return apps, nil
}

// GetApplication returns a single application by ID, validating ownership.
func (s *Service) GetApplication(ctx context.Context, userID, appID string) (*Application, error) {
	a, err := scanApplication(s.pool.QueryRow(ctx,
		`SELECT `+appColumns+` FROM applications WHERE id = $1 AND user_id = $2`,
		appID, userID,
	))
	if err != nil {
		return nil, ErrNotFound
	}
	return a, nil
}

// CreateApplication inserts a new application at the Saved initial
// status for the given job.
func (s *Service) CreateApplication(ctx context.Context, userID, jobID string, resumeID, notes *string) (*Application, error) {
	a, err := scanApplication(s.pool.QueryRow(ctx,
		`INSERT INTO applications (user_id, job_id, resume_id, status, notes)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+appColumns,
		userID, jobID, resumeID, string(lifecycle.StatusSaved), notes,
	))
	if err != nil {
		return nil, fmt.Errorf("createApplication: %w", err)
	}
	return a, nil
}

// DeleteApplication removes an application, validating ownership.
func (s *Service) DeleteApplication(ctx context.Context, userID, appID string) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM applications WHERE id = $1 AND user_id = $2`,
		appID, userID,
	)
	if err != nil {
		return fmt.Errorf("deleteApplication: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// AddNote sets or replaces the free-text note on an application.
func (s *Service) AddNote(ctx context.Context, userID, appID, note string) (*Application, error) {
	a, err := scanApplication(s.pool.QueryRow(ctx,
		`UPDATE applications SET notes = $1, updated_at = NOW()
		 WHERE id = $2 AND user_id = $3
		 RETURNING `+appColumns,
		note, appID, userID,
	))
	if err != nil {
		return nil, ErrNotFound
	}
	return a, nil
}

// ─── Status transition ────────────────────────────────────────────────────────

// TransitionInput carries the caller-supplied fields accompanying a
// status transition request.
type TransitionInput struct {
	NewStatus       string                  `json:"newStatus"`
	AppliedDate     *time.Time              `json:"appliedDate"`
	InterviewDate   *time.Time              `json:"interviewDate"`
	OfferDate       *time.Time              `json:"offerDate"`
	RejectedDate    *time.Time              `json:"rejectedDate"`
	RejectionReason string                  `json:"rejectionReason"`
	OfferDetails    *lifecycle.OfferDetails `json:"offerDetails"`
}

// Transition moves an application to a new status.
//
// The sequence is validate-then-persist: lifecycle validates the merged
// record+input fields, then a single UPDATE guarded by the expected
// current status persists the patch. If another request moved the card
// in between, the guard misses and ErrConflict is returned instead of
// silently overwriting.
func (s *Service) Transition(ctx context.Context, userID, appID string, in TransitionInput) (*Application, error) {
	to, err := lifecycle.ParseStatus(in.NewStatus)
	if err != nil {
		return nil, &ValidationError{Msg: err.Error()}
	}

	// Fetch current state (also validates ownership)
	current, err := s.GetApplication(ctx, userID, appID)
	if err != nil {
		return nil, err
	}
	from, err := lifecycle.ParseStatus(current.Status)
	if err != nil {
		return nil, fmt.Errorf("stored status %q on application %s: %w", current.Status, appID, err)
	}

	merged := mergeFields(recordFields(current), inputFields(in))

	validated, err := lifecycle.ValidateTransition(lifecycle.TransitionRequest{
		From:   from,
		To:     to,
		Fields: merged,
	})
	if err != nil {
		return nil, err
	}
	if err := lifecycle.ValidateDateOrder(validated.Fields); err != nil {
		return nil, err
	}

	var rejectionReason *string
	if validated.Fields.RejectionReason != "" {
		rejectionReason = &validated.Fields.RejectionReason
	}
	var offerPayload *string
	switch {
	case validated.Fields.OfferDetails != nil:
		encoded := lifecycle.EncodeOfferDetails(*validated.Fields.OfferDetails)
		offerPayload = &encoded
	case from != lifecycle.StatusRejected:
		// A stored payload that failed to decode stays untouched as
		// opaque bytes rather than being clobbered by this transition.
		// Re-applying after a rejection clears it: fresh cycle.
		offerPayload = current.rawOfferDetails
	}

	// Single write, compare-and-swap on the status we validated against.
	a, err := scanApplication(s.pool.QueryRow(ctx,
		`UPDATE applications
		 SET status           = $1,
		     applied_date     = $2,
		     interview_date   = $3,
		     offer_date       = $4,
		     rejected_date    = $5,
		     rejection_reason = $6,
		     offer_details    = $7,
		     updated_at       = NOW()
		 WHERE id = $8 AND user_id = $9 AND status = $10
		 RETURNING `+appColumns,
		string(validated.Status),
		validated.Fields.AppliedDate, validated.Fields.InterviewDate,
		validated.Fields.OfferDate, validated.Fields.RejectedDate,
		rejectionReason, offerPayload,
		appID, userID, string(from),
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Row existed moments ago; the status guard missed.
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("transition update: %w", err)
	}

	s.publishStatusChanged(ctx, userID, appID, from, validated.Status)

	return a, nil
}

// AllowedTargets returns the statuses the application can move to from
// its current status.
func (s *Service) AllowedTargets(ctx context.Context, userID, appID string) ([]lifecycle.Status, error) {
	current, err := s.GetApplication(ctx, userID, appID)
	if err != nil {
		return nil, err
	}
	status, err := lifecycle.ParseStatus(current.Status)
	if err != nil {
		return nil, fmt.Errorf("stored status %q on application %s: %w", current.Status, appID, err)
	}
	targets, err := lifecycle.AllowedTargets(status)
	if err != nil {
		return nil, fmt.Errorf("allowedTargets: %w", err)
	}
	return targets, nil
}

// publishStatusChanged emits the transition event for SSE forwarding.
// Publishing is non-fatal: the transition has already been persisted.
func (s *Service) publishStatusChanged(ctx context.Context, userID, appID string, from, to lifecycle.Status) {
	event, _ := json.Marshal(map[string]string{
		"type":          "EVENT_STATUS_CHANGED",
		"applicationId": appID,
		"userId":        userID,
		"from":          string(from),
		"to":            string(to),
	})
	if err := s.rdb.Publish(ctx, "EVENT_STATUS_CHANGED", event).Err(); err != nil {
		slog.Warn("publish EVENT_STATUS_CHANGED failed", "err", err)
	}
}

// ─── Sentinel errors ─────────────────────────────────────────────────────────

// ErrNotFound is returned when an application is missing or does not
// belong to the user.
var ErrNotFound = fmt.Errorf("application not found")

// ErrConflict is returned when the status changed between validation
// and the guarded write (a concurrent transition won the race).
var ErrConflict = fmt.Errorf("application status changed concurrently, reload and retry")

// ValidationError wraps a user-facing validation message.
type ValidationError struct{ Msg string }

func (e *ValidationError) Error() string { return e.Msg }
