package services

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/robfig/cron/v3"
)

// Scheduler runs periodic maintenance jobs.
type Scheduler struct {
	*cron.Cron
}

// cronLogger adapts the logger to cron.Logger.
type cronLogger struct {
	logger *log.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error(msg, append(keysAndValues, "err", err)...)
}

func NewScheduler(ctx context.Context) *Scheduler {
	logger := cronLogger{log.FromContext(ctx).WithPrefix("cron")}
	return &Scheduler{
		Cron: cron.New(cron.WithLogger(logger), cron.WithChain(cron.Recover(logger))),
	}
}

// AddTokenReaper schedules PurgeExpired on spec. An empty spec adds nothing.
func (s *Scheduler) AddTokenReaper(ctx context.Context, spec string, reset *PasswordResetService) error {
	if spec == "" {
		return nil
	}
	logger := log.FromContext(ctx).WithPrefix("reaper")
	_, err := s.Cron.AddFunc(spec, func() {
		n, err := reset.PurgeExpired(ctx)
		if err != nil {
			logger.Error("purge expired reset tokens", "err", err)
			return
		}
		if n > 0 {
			logger.Info("purged expired reset tokens", "count", n)
		}
	})
	return err
}

// Shutdown stops the scheduler and waits up to 30s for running jobs.
func (s *Scheduler) Shutdown() {
	ctx, cancel := context.WithTimeout(s.Cron.Stop(), 30*time.Second)
	defer cancel()
	<-ctx.Done()
}
