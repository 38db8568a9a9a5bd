package main

import (
	"flag"

	"acenumerik.fr/configs"
	"acenumerik.fr/configs/configslog"
	"acenumerik.fr/database"

	"go.uber.org/zap"
)

func main() {
	configslog.InitLogger()
	defer configslog.SyncLogger()

	dropFlag := flag.Bool("drop", false, "Drop every application table before migrating")
	migrateFlag := flag.Bool("migrate", false, "Run the schema migrations")
	seedFlag := flag.Bool("seed", false, "Run the idempotent seeders")
	flag.Parse()

	if _, err := configs.Load(); err != nil {
		configslog.Log.Fatal("Failed to load configuration", zap.Error(err))
	}

	db := configs.InitDB()
	defer configs.CloseDB()

	database.Initialize(db, *dropFlag, *migrateFlag, *seedFlag)
}
