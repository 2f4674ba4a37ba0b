package jobs

import (
	"context"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

// Job is a unit of background work run on a schedule.
type Job interface {
	Name() string
	Execute(ctx context.Context)
}

// Scheduler runs registered jobs on cron schedules. A run that is still in
// progress when the next one is due causes that next run to be skipped.
type Scheduler struct {
	cron   *cron.Cron
	ctx    context.Context
	cancel context.CancelFunc
}

func NewScheduler() *Scheduler {
	logger := cron.PrintfLogger(log.StandardLogger())
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron: cron.New(
			cron.WithLogger(logger),
			cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
		),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Register adds job under spec, e.g. "@every 1m" or "*/5 * * * *".
func (s *Scheduler) Register(spec string, job Job) error {
	_, err := s.cron.AddFunc(spec, func() {
		log.WithField("job", job.Name()).Debug("Running scheduled job")
		job.Execute(s.ctx)
	})
	if err != nil {
		return errors.Wrapf(err, "invalid schedule %q for job %s", spec, job.Name())
	}
	log.WithFields(log.Fields{"job": job.Name(), "schedule": spec}).Info("Scheduled job registered")
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop prevents new runs and waits for running jobs to finish. If ctx ends
// first, running jobs are cancelled and ctx's error is returned.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	defer s.cancel()

	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
