package main

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Job is a unit of scheduled work.
type Job interface {
	Run() error
	Name() string
}

// Scheduler runs jobs on cron schedules.
type Scheduler struct {
	cron *cron.Cron
	log  *zap.SugaredLogger
}

func NewScheduler(log *zap.SugaredLogger) *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		log:  log.With("component", "scheduler"),
	}
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("scheduler started")
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info("scheduler stopped")
}

// AddJob registers job with a standard cron spec or a descriptor such as
// "@every 15m".
func (s *Scheduler) AddJob(schedule string, job Job) error {
	_, err := s.cron.AddFunc(schedule, func() {
		s.runJob(job)
	})
	if err != nil {
		return err
	}

	s.log.Infow("job registered", "schedule", schedule, "job", job.Name())
	return nil
}

// RunNow executes a job immediately, outside its schedule.
func (s *Scheduler) RunNow(job Job) {
	s.runJob(job)
}

func (s *Scheduler) runJob(job Job) {
	s.log.Debugw("running job", "job", job.Name())
	if err := job.Run(); err != nil {
		s.log.Errorw("job failed", "job", job.Name(), "err", err)
		return
	}
	s.log.Debugw("job completed", "job", job.Name())
}

// checkJob runs one aggregator round per tick.
type checkJob struct {
	ctx     context.Context
	agg     *Aggregator
	timeout time.Duration
}

func (j *checkJob) Name() string {
	return "yield_check"
}

func (j *checkJob) Run() error {
	ctx, cancel := context.WithTimeout(j.ctx, j.timeout)
	defer cancel()
	_, err := j.agg.Check(ctx)
	return err
}
