// Copyright Tellus Operations and each contributor.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/tellus-ops/attendance-service/internal/infrastructure/store"
	"github.com/tellus-ops/attendance-service/internal/logging"
)

const gracefulShutdownSeconds = 25

// repositories are the KV-backed stores used by the service.
type repositories struct {
	Credential *store.NatsCredentialRepository
	Token      *store.NatsTokenRepository
}

// setupNATS creates the NATS connection with graceful shutdown handling.
func setupNATS(ctx context.Context, env environment, gracefulCloseWG *sync.WaitGroup, done chan os.Signal) (*nats.Conn, error) {
	gracefulCloseWG.Add(1)
	natsConn, err := nats.Connect(
		env.NatsURL,
		nats.DrainTimeout(gracefulShutdownSeconds*time.Second),
		nats.ErrorHandler(func(_ *nats.Conn, s *nats.Subscription, err error) {
			if s != nil {
				slog.With(logging.ErrKey, err, "subject", s.Subject, "queue", s.Queue).Error("async NATS error")
			} else {
				slog.With(logging.ErrKey, err).Error("async NATS error outside subscription")
			}
		}),
		nats.ClosedHandler(func(_ *nats.Conn) {
			if ctx.Err() != nil {
				// Graceful shutdown: decrement the wait group but do not exit,
				// so other shutdown steps can complete.
				gracefulCloseWG.Done()
				return
			}
			// Otherwise max reconnect attempts have been exhausted.
			slog.Error("NATS max-reconnects exhausted; connection closed")
			done <- os.Interrupt
			time.Sleep(5 * time.Second)
			os.Exit(1)
		}),
	)
	if err != nil {
		return nil, err
	}

	return natsConn, nil
}

// getKeyValueStores binds the JetStream KV buckets used by the service.
func getKeyValueStores(ctx context.Context, natsConn *nats.Conn) (*repositories, error) {
	js, err := jetstream.New(natsConn)
	if err != nil {
		return nil, err
	}

	credentialsKV, err := js.KeyValue(ctx, store.KVStoreNameTenantCredentials)
	if err != nil {
		return nil, err
	}

	tokensKV, err := js.KeyValue(ctx, store.KVStoreNameDelegatedTokens)
	if err != nil {
		return nil, err
	}

	return &repositories{
		Credential: store.NewNatsCredentialRepository(credentialsKV),
		Token:      store.NewNatsTokenRepository(tokensKV),
	}, nil
}
