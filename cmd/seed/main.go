// cmd/seed/main.go
package main

import (
	"context"
	"flag"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/javajoker/chemist-backend/internal/config"
	"github.com/javajoker/chemist-backend/internal/database"
	"github.com/javajoker/chemist-backend/internal/repository"
	"github.com/javajoker/chemist-backend/internal/seed"
	"github.com/javajoker/chemist-backend/internal/services"
)

func main() {
	clearFirst := flag.Bool("clear", false, "remove existing inventory before seeding")
	clearOnly := flag.Bool("clear-only", false, "remove existing inventory and exit")
	randomSeed := flag.Int64("seed", time.Now().UnixNano(), "random seed for generated prices and quantities")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if cfg.Database.Driver == "memory" {
		logrus.Fatal("Seeding needs a persistent database, set DB_DRIVER=postgres or start the server with DB_SEED=true")
	}

	db, err := database.Initialize(cfg.Database)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to connect to database")
	}
	defer database.Close(db)

	if err := database.RunMigrations(db); err != nil {
		logrus.WithError(err).Fatal("Failed to run migrations")
	}

	store := repository.NewGormStore(db)
	medicineService := services.NewMedicineService(store, cfg.Inventory, services.SystemClock)
	seeder := seed.NewSeeder(store, medicineService, services.SystemClock, *randomSeed)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if *clearFirst || *clearOnly {
		if err := seeder.Clear(ctx); err != nil {
			logrus.WithError(err).Fatal("Failed to clear inventory")
		}
		if *clearOnly {
			return
		}
	}

	summary, err := seeder.Run(ctx)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to seed inventory")
	}

	logrus.Infof("Seeded %d categories, %d manufacturers and %d medicines",
		summary.Categories, summary.Manufacturers, summary.Medicines)
}
