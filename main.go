package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/zabuzara/project-milestone-dashboard-backend/config"
	"github.com/zabuzara/project-milestone-dashboard-backend/handlers"
	"github.com/zabuzara/project-milestone-dashboard-backend/jobs"
	"github.com/zabuzara/project-milestone-dashboard-backend/logging"
	"github.com/zabuzara/project-milestone-dashboard-backend/repositories"
	"github.com/zabuzara/project-milestone-dashboard-backend/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Logger.Fatalf("Event ID: CONFIG_ERROR, Description: Failed to load configuration: %v", err)
	}
	logging.InitLogger(cfg.LogFile, cfg.LogLevel)
	logging.Logger.Info("Event ID: SERVICE_START, Description: Starting Milestones Service...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		logging.Logger.Fatalf("Event ID: DB_CONNECTION_FAILED, Description: Database connection for MongoDB failed: %v", err)
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			logging.Logger.Errorf("Event ID: DB_DISCONNECT_FAILED, Description: MongoDB disconnect error: %v", err)
		}
	}()

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		logging.Logger.Fatalf("Event ID: DB_PING_FAILED, Description: MongoDB connection ping error: %v", err)
	}
	logging.Logger.Infof("Event ID: DB_CONNECTED, Description: Successfully connected to MongoDB at %s.", cfg.MongoURI)

	db := client.Database(cfg.MongoDBName)
	if err := repositories.EnsureSchema(ctx, db); err != nil {
		logging.Logger.Fatalf("Event ID: DB_SCHEMA_FAILED, Description: Failed to prepare collections in %s: %v", cfg.MongoDBName, err)
	}
	logging.Logger.Infof("Event ID: DB_COLLECTION_SET, Description: Using MongoDB collections %s, %s and %s in %s",
		repositories.ProjectCollection, repositories.MilestoneCollection, repositories.MemberCollection, cfg.MongoDBName)

	breaker := repositories.NewBreaker("mongodb-cb", cfg.DBBreakerMaxFailures, cfg.DBBreakerTimeout())
	memberRepo := repositories.NewMemberRepository(db.Collection(repositories.MemberCollection), breaker)
	milestoneRepo := repositories.NewMilestoneRepository(db.Collection(repositories.MilestoneCollection), breaker)
	projectRepo := repositories.NewProjectRepository(db.Collection(repositories.ProjectCollection), breaker)

	memberService := services.NewMemberService(memberRepo)
	milestoneService := services.NewMilestoneService(milestoneRepo, projectRepo, memberRepo)
	projectService := services.NewProjectService(projectRepo, milestoneRepo, milestoneService)

	router := handlers.NewRouter(handlers.RouterConfig{
		Members:    handlers.NewMemberHandler(memberService),
		Milestones: handlers.NewMilestoneHandler(milestoneService),
		Projects:   handlers.NewProjectHandler(projectService),
		Ping: func(ctx context.Context) error {
			return client.Ping(ctx, readpref.Primary())
		},
		AllowedOrigin:  cfg.CORSAllowedOrigin,
		RequestTimeout: cfg.RequestTimeout(),
	})

	reporter := jobs.NewStatusReporter(milestoneService, projectService, cfg.RequestTimeout())
	if err := reporter.Start(cfg.StatusReportSchedule); err != nil {
		logging.Logger.Fatalf("Event ID: CONFIG_ERROR, Description: Invalid status report schedule %q: %v", cfg.StatusReportSchedule, err)
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.ServerPort),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logging.Logger.Infof("Event ID: SERVER_START_INFO, Description: Server running on http://localhost%s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Logger.Fatalf("Event ID: SERVER_FATAL_ERROR, Description: Server failed to start: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logging.Logger.Info("Event ID: SERVICE_SHUTDOWN, Description: Shutting down Milestones Service...")
	reporter.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logging.Logger.Errorf("Event ID: SERVER_SHUTDOWN_FAILED, Description: Graceful shutdown failed: %v", err)
	}
}
