package generator

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/singleflight"

	"github.com/julianstephens/studyplan/internal/lockfile"
	"github.com/julianstephens/studyplan/internal/logger"
	"github.com/julianstephens/studyplan/internal/models"
)

// Guarded allows one generation at a time. Concurrent callers in the same
// process share the in-flight result; other processes are kept out by a
// lockfile.
type Guarded struct {
	inner    Generator
	lockPath string
	group    singleflight.Group
}

func NewGuarded(inner Generator, lockPath string) *Guarded {
	return &Guarded{inner: inner, lockPath: lockPath}
}

func (g *Guarded) Generate(ctx context.Context) (models.GeneratedPlan, error) {
	v, err, shared := g.group.Do("generate", func() (interface{}, error) {
		lock, err := lockfile.Acquire(g.lockPath)
		if err != nil {
			if errors.Is(err, lockfile.ErrLocked) {
				return nil, fmt.Errorf("%w: %v", ErrGenerationInFlight, err)
			}
			return nil, err
		}
		defer func() {
			if err := lock.Release(); err != nil {
				logger.Warn("Failed to release generation lock", "path", lock.Path(), "error", err)
			}
		}()
		return g.inner.Generate(ctx)
	})
	if shared {
		logger.Debug("Joined in-flight plan generation")
	}
	if err != nil {
		return models.GeneratedPlan{}, err
	}
	return v.(models.GeneratedPlan), nil
}
