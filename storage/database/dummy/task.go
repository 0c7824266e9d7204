package dummydb

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/planner/core/assessment"
	"github.com/trezcool/planner/core/task"
)

type taskRepository struct {
	db *DB
}

var _ task.Repository = (*taskRepository)(nil) // interface compliance check

func NewTaskRepository(db *DB) task.Repository {
	return &taskRepository{db: db}
}

func (repo *taskRepository) query() []task.Task {
	tasks := make([]task.Task, 0, len(repo.db.task.table))
	for _, tsk := range repo.db.task.table {
		tasks = append(tasks, *tsk)
	}
	return tasks
}

func (repo *taskRepository) CreateTask(ctx context.Context, t task.Task) (task.Task, error) {
	repo.db.task.Lock()
	defer repo.db.task.Unlock()

	t.ID = uuid.New()
	repo.db.task.table[t.ID] = &t
	return t, nil
}

func (repo *taskRepository) QueryAllTasks(ctx context.Context, qf task.QueryFilter) ([]task.Task, error) {
	repo.db.task.RLock()
	defer repo.db.task.RUnlock()

	tasks := repo.query()
	if qf.AssessmentID != nil {
		var filtered []task.Task
		for _, t := range tasks {
			if t.AssessmentID == *qf.AssessmentID {
				filtered = append(filtered, t)
			}
		}
		tasks = filtered
	}
	if tasks != nil && qf.Done != nil {
		var filtered []task.Task
		for _, t := range tasks {
			if t.Done() == *qf.Done {
				filtered = append(filtered, t)
			}
		}
		tasks = filtered
	}

	sort.Slice(tasks, func(i, j int) bool {
		if !tasks[i].EndDate.Equal(tasks[j].EndDate) {
			return tasks[i].EndDate.Before(tasks[j].EndDate)
		}
		return tasks[i].Progress < tasks[j].Progress
	})
	return tasks, nil
}

func (repo *taskRepository) GetTaskByID(ctx context.Context, id uuid.UUID) (task.Task, error) {
	repo.db.task.RLock()
	defer repo.db.task.RUnlock()

	if tsk, ok := repo.db.task.table[id]; ok {
		return *tsk, nil
	}
	return task.Task{}, task.ErrNotFound
}

func (repo *taskRepository) UpdateTask(ctx context.Context, t task.Task) error {
	repo.db.task.Lock()
	defer repo.db.task.Unlock()

	if _, ok := repo.db.task.table[t.ID]; !ok {
		return task.ErrNotFound
	}
	repo.db.task.table[t.ID] = &t
	return nil
}

func (repo *taskRepository) DeleteTasksByID(ctx context.Context, ids ...uuid.UUID) error {
	repo.db.task.Lock()
	defer repo.db.task.Unlock()

	for _, id := range ids {
		delete(repo.db.task.table, id)
	}
	return nil
}

func (repo *taskRepository) GetAssessmentDates(ctx context.Context, assessmentID uuid.UUID) (handIn, due time.Time, err error) {
	repo.db.assessment.RLock()
	defer repo.db.assessment.RUnlock()

	if asmt, ok := repo.db.assessment.table[assessmentID]; ok {
		return asmt.HandIn, asmt.Due, nil
	}
	return time.Time{}, time.Time{}, assessment.ErrNotFound
}
