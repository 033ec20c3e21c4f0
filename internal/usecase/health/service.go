// Package health aggregates dependency checks for the /health endpoint.
package health

import (
	"context"

	"go.uber.org/zap"

	"github.com/kailas-cloud/neuralsearch/internal/logger"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
	// CheckSkipped marks a check that depends on a failed one.
	CheckSkipped CheckResult = "skipped"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	db         DBPinger
	collection CollectionChecker
	embedding  EmbeddingChecker
}

// New creates a Service. collection and embedding can be nil.
func New(db DBPinger, collection CollectionChecker, embedding EmbeddingChecker) *Service {
	return &Service{db: db, collection: collection, embedding: embedding}
}

// Check runs health checks against all components. Failures are logged with
// the request logger; the report itself carries no error details.
func (s *Service) Check(ctx context.Context) Report {
	log := logger.FromContext(ctx)
	checks := make(map[string]CheckResult)

	dbOK := true
	if err := s.db.Ping(ctx); err != nil {
		log.Warn("health: database check failed", zap.Error(err))
		checks["database"] = CheckError
		dbOK = false
	} else {
		checks["database"] = CheckOK
	}

	if s.collection != nil {
		switch {
		case !dbOK:
			checks["collection"] = CheckSkipped
		default:
			if err := s.collection.CheckCollection(ctx); err != nil {
				log.Warn("health: collection check failed", zap.Error(err))
				checks["collection"] = CheckError
			} else {
				checks["collection"] = CheckOK
			}
		}
	}

	if s.embedding != nil {
		if err := s.embedding.HealthCheck(ctx); err != nil {
			log.Warn("health: embedding check failed", zap.Error(err))
			checks["embedding"] = CheckError
		} else {
			checks["embedding"] = CheckOK
		}
	}

	status := Healthy
	for _, v := range checks {
		if v != CheckOK {
			status = Degraded
			break
		}
	}

	return Report{Status: status, Checks: checks}
}
