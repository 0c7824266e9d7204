package main

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strconv"
	"testing"

	"github.com/jmoiron/sqlx"

	"github.com/trezcool/planner/core/assessment"
	"github.com/trezcool/planner/core/task"
	dummydb "github.com/trezcool/planner/storage/database/dummy"
)

func setup(t *testing.T) *commandLine {
	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags)

	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("setup() failed: %v", err)
	}

	return &commandLine{
		db:       &sqlx.DB{},
		modRepo:  dummydb.NewModuleRepository(db),
		asmtRepo: dummydb.NewAssessmentRepository(db),
		taskRepo: dummydb.NewTaskRepository(db),
	}
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
}

func Test_commandLine_migrate(t *testing.T) {
	cli := setup(t)

	gooseRunFunc = func(command string, db *sql.DB, fsys fs.FS, dir string, args ...string) error {
		switch command {
		case "up", "up-by-one", "down", "fix", "redo", "reset", "status", "version": // pass
		case "up-to", "down-to":
			if len(args) == 0 {
				return fmt.Errorf("%s must be of form: goose [OPTIONS] DRIVER DBSTRING %s VERSION", command, command)
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		case "create":
			if len(args) == 0 {
				return fmt.Errorf("create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]")
			}
		default:
			return fmt.Errorf("%q: no such command", command)
		}
		return nil
	}

	tests := []cliTest{
		{name: "no subcommand", args: []string{"migrate"}, wantErr: errHelp},
		{name: "unknown subcommand", args: []string{"migrate", "lol"}, wantErrStr: "\"lol\": no such command"},
		{name: "up-to: no args", args: []string{"migrate", "up-to"}, wantErrStr: "up-to must be of form: goose [OPTIONS] DRIVER DBSTRING up-to VERSION"},
		{name: "up-to: non-int arg", args: []string{"migrate", "up-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "down-to: no args", args: []string{"migrate", "down-to"}, wantErrStr: "down-to must be of form: goose [OPTIONS] DRIVER DBSTRING down-to VERSION"},
		{name: "up", args: []string{"migrate", "up"}},
		{name: "up-by-one", args: []string{"migrate", "up-by-one"}},
		{name: "up-to", args: []string{"migrate", "up-to", "2"}},
		{name: "down", args: []string{"migrate", "down"}},
		{name: "down-to", args: []string{"migrate", "down-to", "1"}},
		{name: "redo", args: []string{"migrate", "redo"}},
		{name: "reset", args: []string{"migrate", "reset"}},
		{name: "status", args: []string{"migrate", "status"}},
		{name: "version", args: []string{"migrate", "version"}},
		{name: "create", args: []string{"migrate", "create", "course", "sql"}},
		{name: "fix", args: []string{"migrate", "fix"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			if err := cli.run(args); err != nil {
				if tt.wantErr != nil {
					if err != tt.wantErr {
						t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
					}
				} else if tt.wantErrStr != "" {
					if err.Error() != tt.wantErrStr {
						t.Errorf("cli.run() error.Error() = %s, wantErrStr %s", err.Error(), tt.wantErrStr)
					}
				} else {
					t.Errorf("cli.run() unexpected error = %v", err)
				}
			}
		})
	}
}

func Test_commandLine_seedDemo(t *testing.T) {
	cli := setup(t)
	ctx := context.Background()

	if err := cli.run([]string{"admin", "seeddemo"}); err != nil {
		t.Fatalf("cli.run() failed: %v", err)
	}

	mods, err := cli.modRepo.QueryAllModules(ctx)
	if err != nil {
		t.Fatalf("QueryAllModules() failed: %v", err)
	}
	if len(mods) != 3 {
		t.Errorf("seeddemo loaded %d modules, want 3", len(mods))
	}

	asmts, err := cli.asmtRepo.QueryAllAssessments(ctx, assessment.QueryFilter{})
	if err != nil {
		t.Fatalf("QueryAllAssessments() failed: %v", err)
	}
	if len(asmts) != 6 {
		t.Errorf("seeddemo loaded %d assessments, want 6", len(asmts))
	}

	tasks, err := cli.taskRepo.QueryAllTasks(ctx, task.QueryFilter{})
	if err != nil {
		t.Fatalf("QueryAllTasks() failed: %v", err)
	}
	if len(tasks) != 3 {
		t.Errorf("seeddemo loaded %d tasks, want 3", len(tasks))
	}

	// seeding twice replaces, not duplicates
	if err = cli.run([]string{"admin", "seeddemo"}); err != nil {
		t.Fatalf("cli.run() failed: %v", err)
	}
	mods, _ = cli.modRepo.QueryAllModules(ctx)
	if len(mods) != 3 {
		t.Errorf("second seeddemo left %d modules, want 3", len(mods))
	}
}
