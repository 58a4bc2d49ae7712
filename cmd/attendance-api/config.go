// Copyright Tellus Operations and each contributor.
// SPDX-License-Identifier: MIT

package main

import (
	"flag"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/tellus-ops/attendance-service/internal/logging"
	"github.com/tellus-ops/attendance-service/pkg/constants"
)

// flags are the command line flags for the attendance service.
type flags struct {
	Debug bool
	Port  string
	Bind  string
}

// environment are the environment variables for the attendance service.
type environment struct {
	Port            string
	NatsURL         string
	DefaultTenantID string
	RequestTimeout  time.Duration
	Graph           graphConfig
}

// graphConfig holds upstream Microsoft Graph configuration.
type graphConfig struct {
	BaseURL      string
	AuthHost     string
	ClientID     string
	ClientSecret string
	DirectoryID  string
}

// parseFlags parses command line flags for the attendance service
func parseFlags(defaultPort string) flags {
	var debug = flag.Bool("d", false, "enable debug logging")
	var port = flag.String("p", defaultPort, "listen port")
	var bind = flag.String("bind", "*", "interface to bind on")

	flag.Usage = func() {
		flag.PrintDefaults()
		os.Exit(2)
	}
	flag.Parse()

	// Based on the debug flag, set the log level environment variable used by [logging.InitStructureLogConfig]
	if *debug {
		err := os.Setenv("LOG_LEVEL", "debug")
		if err != nil {
			slog.With(logging.ErrKey, err).Error("error setting log level")
			os.Exit(1)
		}
	}

	return flags{
		Debug: *debug,
		Port:  *port,
		Bind:  *bind,
	}
}

// parseEnv parses environment variables for the attendance service
func parseEnv() environment {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	natsURL := os.Getenv("NATS_URL")
	if natsURL == "" {
		natsURL = "nats://localhost:4222"
	}

	defaultTenantID := os.Getenv("DEFAULT_TENANT_ID")
	if defaultTenantID == "" {
		defaultTenantID = constants.DefaultTenantID
	}

	requestTimeoutSeconds := constants.RequestTimeoutSeconds
	if raw := os.Getenv("REQUEST_TIMEOUT_SECONDS"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			slog.With(logging.ErrKey, err, "value", raw).Error("invalid REQUEST_TIMEOUT_SECONDS provided")
			os.Exit(1)
		}
		requestTimeoutSeconds = parsed
	}

	return environment{
		Port:            port,
		NatsURL:         natsURL,
		DefaultTenantID: defaultTenantID,
		RequestTimeout:  time.Duration(requestTimeoutSeconds) * time.Second,
		Graph:           parseGraphConfig(),
	}
}

// parseGraphConfig parses upstream Graph configuration from environment variables
func parseGraphConfig() graphConfig {
	baseURL := os.Getenv("GRAPH_BASE_URL")
	if baseURL != "" {
		if _, err := url.Parse(baseURL); err != nil {
			slog.With(logging.ErrKey, err, "url", baseURL).Error("invalid GRAPH_BASE_URL provided, using default")
			baseURL = ""
		}
	}

	clientID := os.Getenv("GRAPH_CLIENT_ID")
	if clientID == "" {
		slog.Error("GRAPH_CLIENT_ID environment variable is required but not set")
		os.Exit(1)
	}

	clientSecret := os.Getenv("GRAPH_CLIENT_SECRET")
	if clientSecret == "" {
		slog.Error("GRAPH_CLIENT_SECRET environment variable is required but not set")
		os.Exit(1)
	}

	directoryID := os.Getenv("GRAPH_DIRECTORY_ID")
	if directoryID == "" {
		slog.Error("GRAPH_DIRECTORY_ID environment variable is required but not set")
		os.Exit(1)
	}

	return graphConfig{
		BaseURL:      baseURL,
		AuthHost:     os.Getenv("GRAPH_AUTH_HOST"),
		ClientID:     clientID,
		ClientSecret: clientSecret,
		DirectoryID:  directoryID,
	}
}
