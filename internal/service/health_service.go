package service

import (
	"context"
	"time"

	"toy-catalog/internal/logger"

	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.opentelemetry.io/otel"
)

const (
	StatusUp   = "UP"
	StatusDown = "DOWN"
)

// Pinger is satisfied by *mongo.Client.
type Pinger interface {
	Ping(ctx context.Context, rp *readpref.ReadPref) error
}

type HealthService struct {
	mongo   Pinger
	timeout time.Duration
}

type HealthStatus struct {
	Mongo string
}

func (s HealthStatus) Up() bool {
	return s.Mongo == StatusUp
}

var HealthServiceTracer = otel.Tracer("HealthService")

func NewHealthService(mongo Pinger) *HealthService {
	return &HealthService{
		mongo:   mongo,
		timeout: 2 * time.Second,
	}
}

func (s *HealthService) Check(ctx context.Context) HealthStatus {
	ctx, span := HealthServiceTracer.Start(ctx, "HealthService.Check")
	defer span.End()

	status := HealthStatus{Mongo: StatusUp}

	mongoCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.mongo.Ping(mongoCtx, nil); err != nil {
		logger.Err(ctx, "MongoDB ping failed", err)
		status.Mongo = StatusDown
	}

	return status
}
