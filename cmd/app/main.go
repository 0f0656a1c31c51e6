package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"tracker/internal"
	"tracker/internal/address"
	"tracker/internal/data"
	"tracker/internal/entity"
	"tracker/internal/feed"
	"tracker/internal/input"
	"tracker/internal/nlog"
	"tracker/internal/service"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func main() {
	configFolder := flag.String("config", ".", "Folder containing the .cfg file")
	flag.Parse()

	cfg, err := internal.LoadConfig(*configFolder)
	if err != nil {
		fmt.Printf("Could not load the configuration: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logDir := cfg.LogDirectory
	if logDir == "" {
		logDir = filepath.Join(cfg.FolderPath, "logs")
	}
	serviceLogger, err := nlog.NewServiceLogger(logDir, cfg.EnableLogging)
	if err != nil {
		fmt.Printf("Could not set up logging: %v\n", err)
		os.Exit(1)
	}
	go serviceLogger.Run(ctx)
	defer serviceLogger.CloseAll()

	mainLog, _ := serviceLogger.RegisterSubsystem("app")
	serviceLog, _ := serviceLogger.RegisterSubsystem("service")
	inputLog, _ := serviceLogger.RegisterSubsystem("input")

	db, err := gorm.Open(sqlite.Open(filepath.Join(cfg.FolderPath, cfg.DBName)), &gorm.Config{})
	if err != nil {
		fmt.Printf("Could not open the database: %v\n", err)
		os.Exit(1)
	}
	if err := db.AutoMigrate(&entity.SystemState{}, &entity.Account{}); err != nil {
		fmt.Printf("Could not migrate the database: %v\n", err)
		os.Exit(1)
	}

	storage := data.NewStorageManager(db)

	var publisher feed.Publisher = feed.NopPublisher{}
	if cfg.FeedPort != 0 {
		zmqPublisher, err := feed.NewZMQPublisher(cfg.FeedPort)
		if err != nil {
			fmt.Printf("Could not start the transition feed: %v\n", err)
			os.Exit(1)
		}
		publisher = zmqPublisher
	}
	defer publisher.Close()

	keyring := address.NewKeyring(cfg.SecretKey)
	trackerAddress := address.Resolve(cfg.TrackerSeed)
	mainLog.Logf("Tracker address for seed %q is %s", cfg.TrackerSeed, trackerAddress)

	trackerService := service.NewLocalTrackerService(
		trackerAddress,
		keyring,
		storage.GetAccountRepository(),
		publisher,
		serviceLog,
	)

	inputManager := input.NewInputManager()
	inputManager.SetLogger(inputLog)
	inputManager.SetTrackerService(trackerService)
	inputManager.SetKeyring(keyring)
	inputManager.SetEpochCache(storage)

	iptCfg := &input.IptConfig{
		ServerPort:        cfg.HTTPServerPort,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		TemplateDirectory: cfg.TemplateDirectory,
		SecretKey:         cfg.SecretKey,
	}

	if err := inputManager.Run(ctx, iptCfg); err != nil {
		fmt.Printf("HTTP server error: %v\n", err)
		os.Exit(1)
	}

	<-ctx.Done()
	fmt.Printf("Shutting off...\n")
}
