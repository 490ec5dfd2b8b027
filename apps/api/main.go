package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	echoapi "github.com/saikalpataru/sadhana/apps/api/echo"
	"github.com/saikalpataru/sadhana/core"
	"github.com/saikalpataru/sadhana/core/course"
	"github.com/saikalpataru/sadhana/core/material"
	"github.com/saikalpataru/sadhana/core/practice"
	"github.com/saikalpataru/sadhana/core/user"
	emailsvc "github.com/saikalpataru/sadhana/services/email"
	logsvc "github.com/saikalpataru/sadhana/services/logger"
	"github.com/saikalpataru/sadhana/storage/database"
)

const shutdownTimeout = 20 * time.Second

func main() {
	// =========================================================================
	// Set up Dependencies

	std := log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf, err := core.NewConfig()
	if err != nil {
		std.Fatalf("loading config: %v", err)
	}

	var logger core.Logger
	if conf.Debug {
		logger = logsvc.NewConsoleLogger(std)
	} else {
		logger = logsvc.NewRollbarLogger(std, conf)
	}

	// set up DB
	db, err := database.Open(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("opening database: %v", err), err)
	}
	defer func() {
		if err = db.Close(); err != nil {
			logger.Error("closing database", err)
		}
	}()
	if err = database.Migrate(db, conf.Database.Engine); err != nil {
		logger.Fatal(fmt.Sprintf("migrating database: %v", err), err)
	}
	if err = database.Seed(context.Background(), db, conf); err != nil {
		logger.Fatal(fmt.Sprintf("seeding database: %v", err), err)
	}

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}
	usrSvc := user.NewService(conf, database.NewUserRepository(db), mailSvc)
	courseSvc := course.NewService(database.NewCourseRepository(db))
	practiceSvc := practice.NewService(database.NewPracticeRepository(db))
	materialSvc := material.NewService(database.NewMaterialRepository(db))

	validate, translator := core.NewValidator()

	// =========================================================================
	// Start API Service

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:        conf,
			Logger:      logger,
			DB:          db,
			UserSvc:     usrSvc,
			CourseSvc:   courseSvc,
			PracticeSvc: practiceSvc,
			MaterialSvc: materialSvc,
			Validate:    validate,
			Translator:  translator,
		},
	)

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}
