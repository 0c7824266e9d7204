package dummydb

import (
	"sync"

	"github.com/google/uuid"

	"github.com/trezcool/planner/core/assessment"
	"github.com/trezcool/planner/core/module"
	"github.com/trezcool/planner/core/task"
)

type (
	DB struct {
		module     *moduleTable
		assessment *assessmentTable
		task       *taskTable
	}

	moduleTable struct {
		sync.RWMutex
		table map[uuid.UUID]*module.Module
	}

	assessmentTable struct {
		sync.RWMutex
		table map[uuid.UUID]*assessment.Assessment
	}

	taskTable struct {
		sync.RWMutex
		table map[uuid.UUID]*task.Task
	}
)

func Open() (*DB, error) {
	db := &DB{
		module:     &moduleTable{table: make(map[uuid.UUID]*module.Module)},
		assessment: &assessmentTable{table: make(map[uuid.UUID]*assessment.Assessment)},
		task:       &taskTable{table: make(map[uuid.UUID]*task.Task)},
	}
	return db, nil
}
