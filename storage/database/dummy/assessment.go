package dummydb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/trezcool/planner/core/assessment"
)

type assessmentRepository struct {
	db *DB
}

var _ assessment.Repository = (*assessmentRepository)(nil) // interface compliance check

func NewAssessmentRepository(db *DB) assessment.Repository {
	return &assessmentRepository{db: db}
}

func (repo *assessmentRepository) query() []assessment.Assessment {
	asmts := make([]assessment.Assessment, 0, len(repo.db.assessment.table))
	for _, asmt := range repo.db.assessment.table {
		asmts = append(asmts, *asmt)
	}
	return asmts
}

func (repo *assessmentRepository) ModuleExists(ctx context.Context, moduleID uuid.UUID) (bool, error) {
	repo.db.module.RLock()
	defer repo.db.module.RUnlock()

	_, ok := repo.db.module.table[moduleID]
	return ok, nil
}

func (repo *assessmentRepository) CreateAssessment(ctx context.Context, a assessment.Assessment) (assessment.Assessment, error) {
	repo.db.assessment.Lock()
	defer repo.db.assessment.Unlock()

	a.ID = uuid.New()
	repo.db.assessment.table[a.ID] = &a
	return a, nil
}

func (repo *assessmentRepository) QueryAllAssessments(ctx context.Context, qf assessment.QueryFilter) ([]assessment.Assessment, error) {
	repo.db.assessment.RLock()
	defer repo.db.assessment.RUnlock()

	asmts := repo.query()
	if qf.Priority != "" {
		var filtered []assessment.Assessment
		for _, a := range asmts {
			if a.Priority == qf.Priority {
				filtered = append(filtered, a)
			}
		}
		asmts = filtered
	}
	if asmts != nil && qf.ModuleID != nil {
		var filtered []assessment.Assessment
		for _, a := range asmts {
			if a.ModuleID == *qf.ModuleID {
				filtered = append(filtered, a)
			}
		}
		asmts = filtered
	}

	sort.Slice(asmts, func(i, j int) bool { return asmts[i].Due.After(asmts[j].Due) })
	return asmts, nil
}

func (repo *assessmentRepository) GetAssessmentByID(ctx context.Context, id uuid.UUID) (assessment.Assessment, error) {
	repo.db.assessment.RLock()
	defer repo.db.assessment.RUnlock()

	if asmt, ok := repo.db.assessment.table[id]; ok {
		return *asmt, nil
	}
	return assessment.Assessment{}, assessment.ErrNotFound
}

func (repo *assessmentRepository) UpdateAssessment(ctx context.Context, a assessment.Assessment) error {
	repo.db.assessment.Lock()
	defer repo.db.assessment.Unlock()

	if _, ok := repo.db.assessment.table[a.ID]; !ok {
		return assessment.ErrNotFound
	}
	repo.db.assessment.table[a.ID] = &a
	return nil
}

func (repo *assessmentRepository) TaskEventIdentifiersForAssessment(ctx context.Context, id uuid.UUID) ([]string, error) {
	repo.db.task.RLock()
	defer repo.db.task.RUnlock()

	var ids []string
	for _, tsk := range repo.db.task.table {
		if tsk.AssessmentID == id && tsk.EventIdentifier != "" {
			ids = append(ids, tsk.EventIdentifier)
		}
	}
	return ids, nil
}

func (repo *assessmentRepository) DeleteAssessmentsByID(ctx context.Context, ids ...uuid.UUID) error {
	repo.db.assessment.Lock()
	defer repo.db.assessment.Unlock()
	repo.db.task.Lock()
	defer repo.db.task.Unlock()

	for _, id := range ids {
		for tskID, tsk := range repo.db.task.table {
			if tsk.AssessmentID == id {
				delete(repo.db.task.table, tskID)
			}
		}
		delete(repo.db.assessment.table, id)
	}
	return nil
}
