package main

import (
	"fmt"
	"os"

	"github.com/ahmetcoskunkizilkaya/nyumba-backend/internal/cli"
	"github.com/ahmetcoskunkizilkaya/nyumba-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/nyumba-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/nyumba-backend/internal/logging"
	"gorm.io/gorm"
)

func main() {
	cfg := config.Load()
	logging.Setup(cfg.LogLevel)

	open := func() (*gorm.DB, error) {
		if database.DB != nil {
			return database.DB, nil
		}
		if err := database.Connect(cfg); err != nil {
			return nil, err
		}
		return database.DB, nil
	}

	err := cli.NewRootCmd(open).Execute()
	_ = database.Close()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
