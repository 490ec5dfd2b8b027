package main

import (
	"fmt"

	"github.com/golang-migrate/migrate/v4"

	"github.com/saikalpataru/sadhana/storage/database"
)

var newMigrateFunc = database.NewMigrate // mockable

func (cli *commandLine) migrate(args []string) error {
	if len(args) == 0 {
		cli.printUsage()
		return errHelp
	}

	m, err := newMigrateFunc(cli.db, cli.engine)
	if err != nil {
		return err
	}

	switch args[0] {
	case "up":
		err = m.Up()
	case "down":
		err = m.Steps(-1)
	case "version":
		v, dirty, verr := m.Version()
		if verr == migrate.ErrNilVersion {
			fmt.Println("version: none")
			return nil
		}
		if verr != nil {
			return verr
		}
		fmt.Printf("version: %d (dirty: %v)\n", v, dirty)
		return nil
	default:
		return fmt.Errorf("%q: no such command", args[0])
	}

	if err == migrate.ErrNoChange {
		return nil
	}
	return err
}
