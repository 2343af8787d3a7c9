// Package schedule starts new games on a cron schedule.
package schedule

import (
	"context"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/szokereso/internal/game"
)

// Scheduler wraps a gocron scheduler running game jobs.
type Scheduler struct {
	s gocron.Scheduler
}

// NewGameJob returns the task that rolls the table over to a new game.
func NewGameJob(table *game.Table, timeout time.Duration) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		var ent game.Entered
		err := table.Exec(func(e *game.Engine) (err error) {
			ent, err = e.NewGame(ctx)
			return err
		})
		if err != nil {
			log.Error().Err(err).Msg("[Scheduler] new game failed")
			return
		}
		log.Info().Int("game", ent.GameNumber).Str("lang", ent.Lang).Str("mode", ent.Mode).Msg("[Scheduler] new game started")
	}
}

// Start schedules task on the standard five-field cron expression and
// starts the scheduler.
func Start(expr string, task func()) (*Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}
	_, err = s.NewJob(
		gocron.CronJob(expr, false),
		gocron.NewTask(task),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = s.Shutdown()
		return nil, err
	}
	s.Start()
	log.Info().Str("cron", expr).Msg("new-game schedule started")
	return &Scheduler{s: s}, nil
}

// Stop waits for running jobs and stops the scheduler.
func (s *Scheduler) Stop() error {
	return s.s.Shutdown()
}
