// Copyright Tellus Operations and each contributor.
// SPDX-License-Identifier: MIT

// Package main is the attendance service API that resolves calendar event
// references into online-meeting identities and aggregates their attendance
// reports.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/tellus-ops/attendance-service/internal/handlers"
	"github.com/tellus-ops/attendance-service/internal/infrastructure/graph"
	"github.com/tellus-ops/attendance-service/internal/infrastructure/graph/api"
	"github.com/tellus-ops/attendance-service/internal/infrastructure/messaging"
	"github.com/tellus-ops/attendance-service/internal/logging"
	"github.com/tellus-ops/attendance-service/internal/service"
)

func main() {
	env := parseEnv()
	flags := parseFlags(env.Port)

	logging.InitStructureLogConfig()

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	gracefulCloseWG := sync.WaitGroup{}

	// Setup NATS connection
	natsConn, err := setupNATS(ctx, env, &gracefulCloseWG, done)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error setting up NATS")
		return
	}

	// Get the key-value stores for the service.
	repos, err := getKeyValueStores(ctx, natsConn)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error getting key-value stores")
		return
	}

	// Initialize the upstream Graph client factory.
	clientFactory := graph.NewClientFactory(graph.FactoryConfig{
		API:          api.Config{BaseURL: env.Graph.BaseURL},
		AuthHost:     env.Graph.AuthHost,
		ClientID:     env.Graph.ClientID,
		ClientSecret: env.Graph.ClientSecret,
		DirectoryID:  env.Graph.DirectoryID,
	})

	// Initialize services
	serviceConfig := service.ServiceConfig{
		DefaultTenantID: env.DefaultTenantID,
		RequestTimeout:  env.RequestTimeout,
	}
	messageBuilder := messaging.NewMessageBuilder(natsConn)
	tokenRefreshService := service.NewTokenRefreshService(clientFactory, repos.Token)
	credentialService := service.NewCredentialService(
		clientFactory,
		repos.Credential,
		repos.Token,
		tokenRefreshService,
		serviceConfig,
	)
	attendanceService := service.NewAttendanceService(
		credentialService,
		service.NewMeetingIdentityService(),
		messageBuilder,
		serviceConfig,
	)

	// Initialize handlers
	attendanceHandler := handlers.NewAttendanceHandler(attendanceService)

	httpServer := setupHTTPServer(flags, attendanceHandler, &gracefulCloseWG)

	// This next line blocks until SIGINT or SIGTERM is received.
	<-done

	gracefulShutdown(httpServer, natsConn, &gracefulCloseWG, cancel)
}

// gracefulShutdown drains the HTTP server and the NATS connection, then waits
// for every shutdown step to complete.
func gracefulShutdown(httpServer *http.Server, natsConn interface{ Drain() error }, gracefulCloseWG *sync.WaitGroup, cancel context.CancelFunc) {
	slog.Info("shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), gracefulShutdownSeconds*time.Second)
	defer shutdownCancel()

	go func() {
		defer gracefulCloseWG.Done()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			slog.With(logging.ErrKey, err).Error("error shutting down http server")
		}
	}()

	// Drain allows in-flight publishes to flush before the connection closes;
	// the ClosedHandler decrements the wait group.
	if err := natsConn.Drain(); err != nil {
		slog.With(logging.ErrKey, err).Error("error draining NATS connection")
	}

	gracefulCloseWG.Wait()
	slog.Info("shutdown complete")
}
