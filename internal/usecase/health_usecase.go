package usecase

import (
	"context"
	"time"

	"go-jobboard-backend/internal/domain"
)

// Pinger is anything that can report reachability, e.g. a pgx pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

type healthUsecase struct {
	deps map[string]Pinger
}

// NewHealthUsecase takes named dependencies; nil entries are reported as disabled.
func NewHealthUsecase(deps map[string]Pinger) domain.HealthUsecase {
	return &healthUsecase{deps: deps}
}

func (u *healthUsecase) Check(ctx context.Context) (map[string]string, bool) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	status := map[string]string{"status": "ok"}
	healthy := true
	for name, dep := range u.deps {
		if dep == nil {
			status[name] = "disabled"
			continue
		}
		if err := dep.Ping(ctx); err != nil {
			status[name] = "down"
			healthy = false
			continue
		}
		status[name] = "up"
	}
	if !healthy {
		status["status"] = "degraded"
	}
	return status, healthy
}
