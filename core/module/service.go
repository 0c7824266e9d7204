package module

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/planner/core/calsync"
)

var (
	// errors
	ErrNotFound = errors.New("module not found")
)

type (
	Repository interface {
		CreateModule(ctx context.Context, mod Module) (Module, error)
		QueryAllModules(ctx context.Context) ([]Module, error) // sorted by name, ascending
		GetModuleByID(ctx context.Context, id uuid.UUID) (Module, error)
		// EventIdentifiersForModule returns the non-empty calendar event
		// identifiers of the module's assessments and their tasks.
		EventIdentifiersForModule(ctx context.Context, id uuid.UUID) ([]string, error)
		// DeleteModulesByID cascades to owned assessments and their tasks.
		DeleteModulesByID(ctx context.Context, ids ...uuid.UUID) error
	}

	Service struct {
		repo   Repository
		calSvc *calsync.Service
	}
)

func NewService(repo Repository, calSvc *calsync.Service) *Service {
	return &Service{repo: repo, calSvc: calSvc}
}

func (svc *Service) Create(ctx context.Context, nm NewModule) (Module, error) {
	mod := Module{
		Code:      nm.Code,
		Name:      nm.Name,
		Level:     nm.Level,
		Leader:    nm.Leader,
		CreatedAt: time.Now().UTC(),
	}
	return svc.repo.CreateModule(ctx, mod)
}

func (svc *Service) QueryAll(ctx context.Context) ([]Module, error) {
	return svc.repo.QueryAllModules(ctx)
}

func (svc *Service) GetByID(ctx context.Context, id uuid.UUID) (Module, error) {
	return svc.repo.GetModuleByID(ctx, id)
}

// Delete removes the module and, by cascade, all its assessments and
// tasks. Calendar reminders of the deleted entities are cleaned up
// asynchronously; the domain delete never waits on, nor fails because
// of, calendar cleanup.
func (svc *Service) Delete(ctx context.Context, id uuid.UUID) error {
	eventIDs, err := svc.repo.EventIdentifiersForModule(ctx, id)
	if err != nil {
		return err
	}
	for _, eventID := range eventIDs {
		svc.calSvc.DeleteEventAsync(eventID)
	}
	return svc.repo.DeleteModulesByID(ctx, id)
}
