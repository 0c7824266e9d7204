package dummydb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/trezcool/planner/core/module"
)

type moduleRepository struct {
	db *DB
}

var _ module.Repository = (*moduleRepository)(nil) // interface compliance check

func NewModuleRepository(db *DB) module.Repository {
	return &moduleRepository{db: db}
}

func (repo *moduleRepository) query() []module.Module {
	mods := make([]module.Module, 0, len(repo.db.module.table))
	for _, mod := range repo.db.module.table {
		mods = append(mods, *mod)
	}
	return mods
}

func (repo *moduleRepository) CreateModule(ctx context.Context, mod module.Module) (module.Module, error) {
	repo.db.module.Lock()
	defer repo.db.module.Unlock()

	mod.ID = uuid.New()
	repo.db.module.table[mod.ID] = &mod
	return mod, nil
}

func (repo *moduleRepository) QueryAllModules(ctx context.Context) ([]module.Module, error) {
	repo.db.module.RLock()
	defer repo.db.module.RUnlock()

	mods := repo.query()
	sort.Slice(mods, func(i, j int) bool { return mods[i].Name < mods[j].Name })
	return mods, nil
}

func (repo *moduleRepository) GetModuleByID(ctx context.Context, id uuid.UUID) (module.Module, error) {
	repo.db.module.RLock()
	defer repo.db.module.RUnlock()

	if mod, ok := repo.db.module.table[id]; ok {
		return *mod, nil
	}
	return module.Module{}, module.ErrNotFound
}

func (repo *moduleRepository) EventIdentifiersForModule(ctx context.Context, id uuid.UUID) ([]string, error) {
	repo.db.assessment.RLock()
	defer repo.db.assessment.RUnlock()
	repo.db.task.RLock()
	defer repo.db.task.RUnlock()

	var ids []string
	for _, asmt := range repo.db.assessment.table {
		if asmt.ModuleID != id {
			continue
		}
		if asmt.EventIdentifier != "" {
			ids = append(ids, asmt.EventIdentifier)
		}
		for _, tsk := range repo.db.task.table {
			if tsk.AssessmentID == asmt.ID && tsk.EventIdentifier != "" {
				ids = append(ids, tsk.EventIdentifier)
			}
		}
	}
	return ids, nil
}

func (repo *moduleRepository) DeleteModulesByID(ctx context.Context, ids ...uuid.UUID) error {
	repo.db.module.Lock()
	defer repo.db.module.Unlock()
	repo.db.assessment.Lock()
	defer repo.db.assessment.Unlock()
	repo.db.task.Lock()
	defer repo.db.task.Unlock()

	for _, id := range ids {
		for asmtID, asmt := range repo.db.assessment.table {
			if asmt.ModuleID != id {
				continue
			}
			for tskID, tsk := range repo.db.task.table {
				if tsk.AssessmentID == asmtID {
					delete(repo.db.task.table, tskID)
				}
			}
			delete(repo.db.assessment.table, asmtID)
		}
		delete(repo.db.module.table, id)
	}
	return nil
}
