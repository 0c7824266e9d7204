package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/planner/core/assessment"
	"github.com/trezcool/planner/core/task"
)

type taskRepository struct {
	db *sqlx.DB
}

var _ task.Repository = (*taskRepository)(nil) // interface compliance check

func NewTaskRepository(db *sqlx.DB) task.Repository {
	return &taskRepository{db: db}
}

func (repo *taskRepository) CreateTask(ctx context.Context, t task.Task) (task.Task, error) {
	t.ID = uuid.New()
	const q = `
		INSERT INTO task (
			id, assessment_id, name, notes, progress, start_date, end_date,
			add_to_calendar, reminder_before, event_identifier, created_at, updated_at
		) VALUES (
			:id, :assessment_id, :name, :notes, :progress, :start_date, :end_date,
			:add_to_calendar, :reminder_before, :event_identifier, :created_at, :updated_at
		)`
	if _, err := repo.db.NamedExecContext(ctx, q, t); err != nil {
		return task.Task{}, errors.Wrap(err, "inserting task")
	}
	return t, nil
}

func (repo *taskRepository) QueryAllTasks(ctx context.Context, qf task.QueryFilter) ([]task.Task, error) {
	q := `SELECT * FROM task`
	var args []interface{}

	clause := " WHERE "
	if qf.AssessmentID != nil {
		args = append(args, *qf.AssessmentID)
		q += clause + "assessment_id = ?"
		clause = " AND "
	}
	if qf.Done != nil {
		if *qf.Done {
			q += clause + "progress = 100"
		} else {
			q += clause + "progress < 100"
		}
	}
	q += " ORDER BY end_date ASC, progress ASC"

	var tasks []task.Task
	if err := repo.db.SelectContext(ctx, &tasks, repo.db.Rebind(q), args...); err != nil {
		return nil, errors.Wrap(err, "selecting tasks")
	}
	return tasks, nil
}

func (repo *taskRepository) GetTaskByID(ctx context.Context, id uuid.UUID) (task.Task, error) {
	var t task.Task
	const q = `SELECT * FROM task WHERE id = $1`
	if err := repo.db.GetContext(ctx, &t, q, id); err != nil {
		if err == sql.ErrNoRows {
			return task.Task{}, task.ErrNotFound
		}
		return task.Task{}, errors.Wrap(err, "selecting task")
	}
	return t, nil
}

func (repo *taskRepository) UpdateTask(ctx context.Context, t task.Task) error {
	const q = `
		UPDATE task SET
			assessment_id = :assessment_id,
			name = :name,
			notes = :notes,
			progress = :progress,
			start_date = :start_date,
			end_date = :end_date,
			add_to_calendar = :add_to_calendar,
			reminder_before = :reminder_before,
			event_identifier = :event_identifier,
			updated_at = :updated_at
		WHERE id = :id`
	res, err := repo.db.NamedExecContext(ctx, q, t)
	if err != nil {
		return errors.Wrap(err, "updating task")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return task.ErrNotFound
	}
	return nil
}

func (repo *taskRepository) DeleteTasksByID(ctx context.Context, ids ...uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	q, args, err := sqlx.In(`DELETE FROM task WHERE id IN (?)`, ids)
	if err != nil {
		return errors.Wrap(err, "building task delete")
	}
	if _, err = repo.db.ExecContext(ctx, repo.db.Rebind(q), args...); err != nil {
		return errors.Wrap(err, "deleting tasks")
	}
	return nil
}

func (repo *taskRepository) GetAssessmentDates(ctx context.Context, assessmentID uuid.UUID) (handIn, due time.Time, err error) {
	var dates struct {
		HandIn time.Time `db:"hand_in"`
		Due    time.Time `db:"due"`
	}
	const q = `SELECT hand_in, due FROM assessment WHERE id = $1`
	if err = repo.db.GetContext(ctx, &dates, q, assessmentID); err != nil {
		if err == sql.ErrNoRows {
			return time.Time{}, time.Time{}, assessment.ErrNotFound
		}
		return time.Time{}, time.Time{}, errors.Wrap(err, "selecting assessment dates")
	}
	return dates.HandIn, dates.Due, nil
}
