// Package deadline tracks follow-up deadlines attached to applications
// (respond to an offer, send a thank-you note, chase a recruiter).
// A cron scheduler publishes EVENT_DEADLINE_DUE for deadlines coming
// due so the Gateway can surface reminders.
package deadline

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// Deadline is the JSON shape returned to the Gateway / web client.
type Deadline struct {
	ID            string     `json:"id"`
	ApplicationID string     `json:"applicationId"`
	Title         string     `json:"title"`
	DueDate       time.Time  `json:"dueDate"`
	Type          string     `json:"type"`     // response, interview, follow_up
	Priority      string     `json:"priority"` // low, medium, high
	Completed     bool       `json:"completed"`
	Notes         *string    `json:"notes"`
	NotifiedAt    *time.Time `json:"notifiedAt"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

const deadlineColumns = `id, application_id, title, due_date, type, priority,
	       completed, notes, notified_at, created_at, updated_at`

// Service encapsulates deadline CRUD and due-reminder publishing.
type Service struct {
	pool *pgxpool.Pool
	rdb  *redis.Client
}

// NewService returns a configured Service.
func NewService(pool *pgxpool.Pool, rdb *redis.Client) *Service {
	return &Service{pool: pool, rdb: rdb}
}

func scanDeadline(row pgx.Row) (*Deadline, error) {
	var d Deadline
	err := row.Scan(
		&d.ID, &d.ApplicationID, &d.Title, &d.DueDate, &d.Type, &d.Priority,
		&d.Completed, &d.Notes, &d.NotifiedAt, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// List returns the user's deadlines ordered by due date.
func (s *Service) List(ctx context.Context, userID string) ([]Deadline, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+deadlineColumns+` FROM deadlines
		 WHERE user_id = $1 ORDER BY due_date`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list deadlines query: %w", err)
	}
	defer rows.Close()

	out := make([]Deadline, 0)
	for rows.Next() {
		var d Deadline
		if err := rows.Scan(
			&d.ID, &d.ApplicationID, &d.Title, &d.DueDate, &d.Type, &d.Priority,
			&d.Completed, &d.Notes, &d.NotifiedAt, &d.CreatedAt, &d.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("list deadlines scan: %w", err)
		}
		out = append(out, d)
	}
	return out, nil
}

// CreateInput carries the fields for a new deadline. Type and Priority
// default to "response" and "medium" when empty, matching the UI's
// quick-add flow.
type CreateInput struct {
	ApplicationID string    `json:"applicationId"`
	Title         string    `json:"title"`
	DueDate       time.Time `json:"dueDate"`
	Type          string    `json:"type"`
	Priority      string    `json:"priority"`
	Notes         *string   `json:"notes"`
}

// Create inserts a deadline after checking that the application exists
// and belongs to the user.
func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (*Deadline, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM applications WHERE id = $1 AND user_id = $2)`,
		in.ApplicationID, userID,
	).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("create deadline ownership check: %w", err)
	}
	if !exists {
		return nil, ErrNotFound
	}

	if in.Type == "" {
		in.Type = "response"
	}
	if in.Priority == "" {
		in.Priority = "medium"
	}

	d, err := scanDeadline(s.pool.QueryRow(ctx,
		`INSERT INTO deadlines (user_id, application_id, title, due_date, type, priority, notes)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+deadlineColumns,
		userID, in.ApplicationID, in.Title, in.DueDate, in.Type, in.Priority, in.Notes,
	))
	if err != nil {
		return nil, fmt.Errorf("create deadline: %w", err)
	}
	return d, nil
}

// Complete marks a deadline done, validating ownership.
func (s *Service) Complete(ctx context.Context, userID, deadlineID string) (*Deadline, error) {
	d, err := scanDeadline(s.pool.QueryRow(ctx,
		`UPDATE deadlines SET completed = true, updated_at = NOW()
		 WHERE id = $1 AND user_id = $2
		 RETURNING `+deadlineColumns,
		deadlineID, userID,
	))
	if err != nil {
		return nil, ErrNotFound
	}
	return d, nil
}

// Delete removes a deadline, validating ownership.
func (s *Service) Delete(ctx context.Context, userID, deadlineID string) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM deadlines WHERE id = $1 AND user_id = $2`,
		deadlineID, userID,
	)
	if err != nil {
		return fmt.Errorf("delete deadline: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ErrNotFound is returned when a deadline (or its application) is
// missing or does not belong to the user.
var ErrNotFound = fmt.Errorf("deadline not found")
