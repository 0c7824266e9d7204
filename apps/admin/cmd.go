package main

import (
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/trezcool/planner/core/assessment"
	"github.com/trezcool/planner/core/module"
	"github.com/trezcool/planner/core/task"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	db       *sqlx.DB
	modRepo  module.Repository
	asmtRepo assessment.Repository
	taskRepo task.Repository
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  migrate COMMAND [ARGS] - run a goose migration command (up, down, status, ...)")
	fmt.Println("  seeddemo               - wipe the database and load the demo data set")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "seeddemo":
		return cli.seedDemo()
	default:
		cli.printUsage()
		return errHelp
	}
}
