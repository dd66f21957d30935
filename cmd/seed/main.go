package main

import (
	"flag"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"propwatch/server/config"
	"propwatch/server/internal/database"
	"propwatch/server/internal/seed"
)

func main() {
	datasetPath := flag.String("dataset", "data/england.yaml", "path to the yaml dataset to seed")
	flag.Parse()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	store, err := database.Open(cfg)
	if err != nil {
		logger.WithError(err).Fatal("Failed to open database")
	}
	defer store.Close()

	dataset, err := seed.LoadDataset(*datasetPath)
	if err != nil {
		logger.WithError(err).Fatal("Failed to load dataset")
	}

	if err := seed.Run(store, dataset, logger); err != nil {
		logger.WithError(err).Fatal("Seeding failed")
	}
	logger.Info("Seeding completed")
}
