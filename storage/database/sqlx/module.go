package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/planner/core/module"
)

type moduleRepository struct {
	db *sqlx.DB
}

var _ module.Repository = (*moduleRepository)(nil) // interface compliance check

func NewModuleRepository(db *sqlx.DB) module.Repository {
	return &moduleRepository{db: db}
}

func (repo *moduleRepository) CreateModule(ctx context.Context, mod module.Module) (module.Module, error) {
	mod.ID = uuid.New()
	const q = `
		INSERT INTO module (id, code, name, level, leader, created_at)
		VALUES (:id, :code, :name, :level, :leader, :created_at)`
	if _, err := repo.db.NamedExecContext(ctx, q, mod); err != nil {
		return module.Module{}, errors.Wrap(err, "inserting module")
	}
	return mod, nil
}

func (repo *moduleRepository) QueryAllModules(ctx context.Context) ([]module.Module, error) {
	var mods []module.Module
	const q = `SELECT * FROM module ORDER BY name ASC`
	if err := repo.db.SelectContext(ctx, &mods, q); err != nil {
		return nil, errors.Wrap(err, "selecting modules")
	}
	return mods, nil
}

func (repo *moduleRepository) GetModuleByID(ctx context.Context, id uuid.UUID) (module.Module, error) {
	var mod module.Module
	const q = `SELECT * FROM module WHERE id = $1`
	if err := repo.db.GetContext(ctx, &mod, q, id); err != nil {
		if err == sql.ErrNoRows {
			return module.Module{}, module.ErrNotFound
		}
		return module.Module{}, errors.Wrap(err, "selecting module")
	}
	return mod, nil
}

func (repo *moduleRepository) EventIdentifiersForModule(ctx context.Context, id uuid.UUID) ([]string, error) {
	var ids []string
	const q = `
		SELECT a.event_identifier FROM assessment a
		WHERE a.module_id = $1 AND a.event_identifier <> ''
		UNION ALL
		SELECT t.event_identifier FROM task t
		JOIN assessment a ON a.id = t.assessment_id
		WHERE a.module_id = $1 AND t.event_identifier <> ''`
	if err := repo.db.SelectContext(ctx, &ids, q, id); err != nil {
		return nil, errors.Wrap(err, "selecting module event identifiers")
	}
	return ids, nil
}

func (repo *moduleRepository) DeleteModulesByID(ctx context.Context, ids ...uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	q, args, err := sqlx.In(`DELETE FROM module WHERE id IN (?)`, ids)
	if err != nil {
		return errors.Wrap(err, "building module delete")
	}
	if _, err = repo.db.ExecContext(ctx, repo.db.Rebind(q), args...); err != nil {
		return errors.Wrap(err, "deleting modules")
	}
	return nil
}
