package deadline

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler wraps robfig/cron and periodically publishes
// EVENT_DEADLINE_DUE for uncompleted deadlines inside the lookahead
// window. Each deadline is notified once: notified_at is stamped in
// the same statement that selects it.
type Scheduler struct {
	cron      *cron.Cron
	svc       *Service
	spec      string // cron spec, e.g. "@every 15m"
	lookahead time.Duration
}

// NewScheduler creates a Scheduler that fires every intervalMinutes
// minutes and looks lookahead into the future for due deadlines.
func NewScheduler(svc *Service, intervalMinutes int, lookahead time.Duration) *Scheduler {
	return &Scheduler{
		cron:      cron.New(cron.WithLogger(cron.DefaultLogger)),
		svc:       svc,
		spec:      fmt.Sprintf("@every %dm", intervalMinutes),
		lookahead: lookahead,
	}
}

// Start registers the job and starts the scheduler. Also runs one sweep
// immediately so reminders are not delayed by the first tick.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.runSweep(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	log.Printf("[deadline] Cron started — spec: %s, lookahead: %s", s.spec, s.lookahead)

	go s.runSweep(ctx)

	return nil
}

// Stop gracefully shuts down the scheduler.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Println("[deadline] Cron stopped")
}

// dueDeadline is the row shape the sweep works with.
type dueDeadline struct {
	ID            string
	UserID        string
	ApplicationID string
	Title         string
	DueDate       time.Time
}

// runSweep claims every unnotified deadline due within the lookahead
// window and publishes one event per deadline.
func (s *Scheduler) runSweep(ctx context.Context) {
	rows, err := s.svc.pool.Query(ctx,
		`UPDATE deadlines
		 SET notified_at = NOW()
		 WHERE completed = false
		   AND notified_at IS NULL
		   AND due_date <= NOW() + $1
		 RETURNING id, user_id, application_id, title, due_date`,
		s.lookahead,
	)
	if err != nil {
		log.Printf("[deadline] sweep query error: %v", err)
		return
	}
	defer rows.Close()

	due := make([]dueDeadline, 0)
	for rows.Next() {
		var d dueDeadline
		if err := rows.Scan(&d.ID, &d.UserID, &d.ApplicationID, &d.Title, &d.DueDate); err != nil {
			log.Printf("[deadline] sweep scan error: %v", err)
			return
		}
		due = append(due, d)
	}

	if len(due) == 0 {
		return
	}
	log.Printf("[deadline] sweep found %d due deadline(s)", len(due))

	for _, d := range due {
		event, _ := json.Marshal(map[string]string{
			"type":          "EVENT_DEADLINE_DUE",
			"deadlineId":    d.ID,
			"applicationId": d.ApplicationID,
			"userId":        d.UserID,
			"title":         d.Title,
			"dueAt":         d.DueDate.UTC().Format(time.RFC3339),
		})
		if err := s.svc.rdb.Publish(ctx, "EVENT_DEADLINE_DUE", event).Err(); err != nil {
			log.Printf("[deadline] publish EVENT_DEADLINE_DUE failed for %s: %v", d.ID, err)
		}
	}
}
