package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	echoapi "github.com/Hanish3/college-portal/apps/mockapi/echo"
	"github.com/Hanish3/college-portal/core"
	logsvc "github.com/Hanish3/college-portal/services/logger"
	"github.com/Hanish3/college-portal/storage/database"
	dummydb "github.com/Hanish3/college-portal/storage/database/dummy"
	sqlxrepos "github.com/Hanish3/college-portal/storage/database/sqlx"
)

func main() {
	logger := setUpLogger()

	repo, cleanup, err := setUpRepository()
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up storage: %v", err))
	}
	defer cleanup()

	if err = database.Seed(context.Background(), repo); err != nil {
		logger.Fatal(fmt.Sprintf("seeding fixtures: %v", err))
	}
	logger.Info(fmt.Sprintf("demo course %s, assessment %s", database.SeedCourseID, database.SeedAssessmentID))

	shutdown := make(chan struct{}, 1)
	server := echoapi.NewServer(
		&echoapi.Options{
			Address:  core.Conf.Server.Addr,
			Repo:     repo,
			Logger:   logger,
			Shutdown: shutdown,
		},
	)

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("server listening on " + core.Conf.Server.Addr)
		serverErrors <- server.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err = <-serverErrors:
		logger.Fatal(fmt.Sprintf("server error: %v", err))
	case <-shutdown:
		logger.Warn("shutdown signalled by error handler")
	case sig := <-quit:
		logger.Info(fmt.Sprintf("%v: shutting down", sig))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err = server.Stop(ctx); err != nil {
		logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err))
	}
}

func setUpLogger() core.Logger {
	std := log.New(os.Stdout, "MOCKAPI : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	if core.Conf.RollbarToken != "" {
		logger := logsvc.NewRollbarLogger(std, core.Conf)
		logger.Enable(!core.Conf.Debug)
		return logger
	}
	return logsvc.NewStdLogger(std)
}

// setUpRepository picks the backing store: Postgres when database
// credentials are configured, the in-memory dummy otherwise.
func setUpRepository() (database.Repository, func(), error) {
	if core.Conf.Database.User == "" {
		db, err := dummydb.Open()
		if err != nil {
			return nil, nil, err
		}
		return dummydb.NewRepository(db), func() {}, nil
	}

	db, err := database.Open(core.Conf)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() { _ = db.Close() }
	if err = database.Ping(db); err != nil {
		cleanup()
		return nil, nil, err
	}
	if err = database.Migrate(db); err != nil {
		cleanup()
		return nil, nil, err
	}
	return sqlxrepos.NewRepository(db), cleanup, nil
}
