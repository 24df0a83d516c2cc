package service

import (
	"github.com/okian/quizpattern/internal/domain/analysis"
	"github.com/okian/quizpattern/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of analysis workers per run.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the capacity of the partition queue of a run.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithSource sets the event log loaded by Start.
func WithSource(src Source) Option {
	return func(s *Service) {
		s.source = src
	}
}

// WithAnalysisOptions sets the options of every analysis run.
func WithAnalysisOptions(opts analysis.Options) Option {
	return func(s *Service) {
		s.analysis = opts
	}
}
