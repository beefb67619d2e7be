package domain

import "context"

type HealthUsecase interface {
	// Check reports each dependency as up, down or disabled, and whether all are usable.
	Check(ctx context.Context) (map[string]string, bool)
}
