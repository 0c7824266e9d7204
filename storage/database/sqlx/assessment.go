package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/planner/core/assessment"
)

type assessmentRepository struct {
	db *sqlx.DB
}

var _ assessment.Repository = (*assessmentRepository)(nil) // interface compliance check

func NewAssessmentRepository(db *sqlx.DB) assessment.Repository {
	return &assessmentRepository{db: db}
}

func (repo *assessmentRepository) ModuleExists(ctx context.Context, moduleID uuid.UUID) (bool, error) {
	var exists bool
	const q = `SELECT EXISTS (SELECT 1 FROM module WHERE id = $1)`
	if err := repo.db.GetContext(ctx, &exists, q, moduleID); err != nil {
		return false, errors.Wrap(err, "checking module existence")
	}
	return exists, nil
}

func (repo *assessmentRepository) CreateAssessment(ctx context.Context, a assessment.Assessment) (assessment.Assessment, error) {
	a.ID = uuid.New()
	const q = `
		INSERT INTO assessment (
			id, module_id, name, priority, weightage, mark_achieved, notes,
			hand_in, due, add_to_calendar, reminder_before, event_identifier,
			created_at, updated_at
		) VALUES (
			:id, :module_id, :name, :priority, :weightage, :mark_achieved, :notes,
			:hand_in, :due, :add_to_calendar, :reminder_before, :event_identifier,
			:created_at, :updated_at
		)`
	if _, err := repo.db.NamedExecContext(ctx, q, a); err != nil {
		return assessment.Assessment{}, errors.Wrap(err, "inserting assessment")
	}
	return a, nil
}

func (repo *assessmentRepository) QueryAllAssessments(ctx context.Context, qf assessment.QueryFilter) ([]assessment.Assessment, error) {
	q := `SELECT * FROM assessment`
	var args []interface{}

	clause := " WHERE "
	if qf.Priority != "" {
		args = append(args, qf.Priority)
		q += clause + "priority = ?"
		clause = " AND "
	}
	if qf.ModuleID != nil {
		args = append(args, *qf.ModuleID)
		q += clause + "module_id = ?"
	}
	q += " ORDER BY due DESC"

	var asmts []assessment.Assessment
	if err := repo.db.SelectContext(ctx, &asmts, repo.db.Rebind(q), args...); err != nil {
		return nil, errors.Wrap(err, "selecting assessments")
	}
	return asmts, nil
}

func (repo *assessmentRepository) GetAssessmentByID(ctx context.Context, id uuid.UUID) (assessment.Assessment, error) {
	var a assessment.Assessment
	const q = `SELECT * FROM assessment WHERE id = $1`
	if err := repo.db.GetContext(ctx, &a, q, id); err != nil {
		if err == sql.ErrNoRows {
			return assessment.Assessment{}, assessment.ErrNotFound
		}
		return assessment.Assessment{}, errors.Wrap(err, "selecting assessment")
	}
	return a, nil
}

func (repo *assessmentRepository) UpdateAssessment(ctx context.Context, a assessment.Assessment) error {
	const q = `
		UPDATE assessment SET
			module_id = :module_id,
			name = :name,
			priority = :priority,
			weightage = :weightage,
			mark_achieved = :mark_achieved,
			notes = :notes,
			hand_in = :hand_in,
			due = :due,
			add_to_calendar = :add_to_calendar,
			reminder_before = :reminder_before,
			event_identifier = :event_identifier,
			updated_at = :updated_at
		WHERE id = :id`
	res, err := repo.db.NamedExecContext(ctx, q, a)
	if err != nil {
		return errors.Wrap(err, "updating assessment")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return assessment.ErrNotFound
	}
	return nil
}

func (repo *assessmentRepository) TaskEventIdentifiersForAssessment(ctx context.Context, id uuid.UUID) ([]string, error) {
	var ids []string
	const q = `SELECT event_identifier FROM task WHERE assessment_id = $1 AND event_identifier <> ''`
	if err := repo.db.SelectContext(ctx, &ids, q, id); err != nil {
		return nil, errors.Wrap(err, "selecting task event identifiers")
	}
	return ids, nil
}

func (repo *assessmentRepository) DeleteAssessmentsByID(ctx context.Context, ids ...uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	q, args, err := sqlx.In(`DELETE FROM assessment WHERE id IN (?)`, ids)
	if err != nil {
		return errors.Wrap(err, "building assessment delete")
	}
	if _, err = repo.db.ExecContext(ctx, repo.db.Rebind(q), args...); err != nil {
		return errors.Wrap(err, "deleting assessments")
	}
	return nil
}
