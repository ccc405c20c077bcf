package services

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// CronService manages the scheduled background jobs: the nightly trip
// generation run and the weekly retirement sweep. The generator itself takes
// the current date as a parameter; this service is the only place that binds
// it to the wall clock.
type CronService struct {
	cron         *cron.Cron
	generatorSvc *TripGeneratorService
	windowDays   int
	generateSpec string
	retireSpec   string
	log          *logrus.Logger
}

// NewCronService creates a new CronService
func NewCronService(generatorSvc *TripGeneratorService, windowDays int, generateSpec, retireSpec string, log *logrus.Logger) *CronService {
	return &CronService{
		cron:         cron.New(cron.WithSeconds()),
		generatorSvc: generatorSvc,
		windowDays:   windowDays,
		generateSpec: generateSpec,
		retireSpec:   retireSpec,
		log:          log,
	}
}

// Start schedules and starts all cron jobs
func (s *CronService) Start() error {
	if _, err := s.cron.AddFunc(s.generateSpec, s.generateTripsJob); err != nil {
		return fmt.Errorf("failed to schedule trip generation job: %w", err)
	}
	s.log.Infof("Scheduled: trip generation (%s)", s.generateSpec)

	if _, err := s.cron.AddFunc(s.retireSpec, s.retireTripsJob); err != nil {
		return fmt.Errorf("failed to schedule trip retirement job: %w", err)
	}
	s.log.Infof("Scheduled: trip retirement sweep (%s)", s.retireSpec)

	s.cron.Start()
	s.log.Info("Cron service started")

	return nil
}

// Stop stops all cron jobs and waits for running ones to finish
func (s *CronService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info("Cron service stopped")
}

func (s *CronService) generateTripsJob() {
	startTime := time.Now()

	result, err := s.generatorSvc.Generate(time.Now(), s.windowDays)
	if err != nil {
		s.log.WithError(err).Error("Scheduled trip generation failed")
		return
	}

	s.log.WithFields(logrus.Fields{
		"created":  result.Created,
		"retired":  result.Retired,
		"duration": time.Since(startTime).String(),
	}).Info("Scheduled trip generation completed")
}

func (s *CronService) retireTripsJob() {
	retired, err := s.generatorSvc.Retire(time.Now())
	if err != nil {
		s.log.WithError(err).Error("Scheduled trip retirement failed")
		return
	}

	s.log.WithField("retired", retired).Info("Scheduled trip retirement completed")
}

// JobStatus describes one scheduled job for the admin status endpoint.
type JobStatus struct {
	ID      int       `json:"id"`
	NextRun time.Time `json:"next_run"`
	PrevRun time.Time `json:"prev_run"`
}

// GetJobStatus returns the status of the scheduled jobs
func (s *CronService) GetJobStatus() map[string]interface{} {
	entries := s.cron.Entries()

	jobs := make([]JobStatus, 0, len(entries))
	for _, entry := range entries {
		jobs = append(jobs, JobStatus{
			ID:      int(entry.ID),
			NextRun: entry.Next,
			PrevRun: entry.Prev,
		})
	}

	return map[string]interface{}{
		"running":   len(entries) > 0,
		"job_count": len(entries),
		"jobs":      jobs,
	}
}
