// Copyright Tellus Operations and each contributor.
// SPDX-License-Identifier: MIT

package graph

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/tellus-ops/attendance-service/internal/domain"
	"github.com/tellus-ops/attendance-service/internal/domain/models"
	"github.com/tellus-ops/attendance-service/internal/infrastructure/graph/api"
)

const (
	// DefaultAuthHost is the Microsoft identity platform host.
	DefaultAuthHost = "https://login.microsoftonline.com"

	// GraphDefaultScope requests every application permission the tenant
	// admin consented to for the client-credentials grant.
	GraphDefaultScope = "https://graph.microsoft.com/.default"
)

// FactoryConfig holds the configuration shared by every client the factory
// builds, plus the app registration used for delegated token refreshes.
type FactoryConfig struct {
	API api.Config

	// Optional: override the identity platform host for testing.
	AuthHost string

	// App registration used for the delegated refresh-token grant.
	ClientID     string
	ClientSecret string
	DirectoryID  string
}

// ClientFactory builds Graph provider clients bound to an authorization mode
// and performs delegated token refreshes.
type ClientFactory struct {
	config FactoryConfig
}

// Ensure ClientFactory implements both factory and exchanger interfaces
var (
	_ domain.CalendarClientFactory = (*ClientFactory)(nil)
	_ domain.TokenExchanger        = (*ClientFactory)(nil)
)

// NewClientFactory creates a new Graph client factory.
func NewClientFactory(config FactoryConfig) *ClientFactory {
	if config.AuthHost == "" {
		config.AuthHost = DefaultAuthHost
	}
	return &ClientFactory{config: config}
}

func (f *ClientFactory) tokenURL(directoryID string) string {
	return fmt.Sprintf("%s/%s/oauth2/v2.0/token", f.config.AuthHost, directoryID)
}

// WithAccessToken returns a provider client that authorizes every call with
// the given bearer token (interactive session or refreshed delegated token).
func (f *ClientFactory) WithAccessToken(accessToken string) domain.CalendarClient {
	source := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})
	return NewProvider(api.NewClient(f.config.API, source))
}

// WithClientCredentials returns a provider client that acquires application
// tokens through the client-credentials grant against the tenant's directory.
func (f *ClientFactory) WithClientCredentials(record *models.CredentialRecord) domain.CalendarClient {
	conf := &clientcredentials.Config{
		ClientID:     record.ClientID,
		ClientSecret: record.ClientSecret,
		TokenURL:     f.tokenURL(record.DirectoryID),
		Scopes:       []string{GraphDefaultScope},
		AuthStyle:    oauth2.AuthStyleInParams,
	}
	return NewProvider(api.NewClient(f.config.API, conf.TokenSource(context.Background())))
}

// RefreshToken performs the refresh-token grant and returns the renewed pair.
// The provider may rotate the refresh token; when it does not return a new
// one, the old token stays valid and is carried forward.
func (f *ClientFactory) RefreshToken(ctx context.Context, refreshToken string) (*models.DelegatedTokenRecord, error) {
	conf := &oauth2.Config{
		ClientID:     f.config.ClientID,
		ClientSecret: f.config.ClientSecret,
		Endpoint: oauth2.Endpoint{
			TokenURL:  f.tokenURL(f.config.DirectoryID),
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}

	// A token with only a refresh token forces the refresh grant.
	token, err := conf.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken}).Token()
	if err != nil {
		return nil, domain.NewUpstreamError("token refresh failed", 0, err)
	}

	record := &models.DelegatedTokenRecord{
		AccessToken:           token.AccessToken,
		RefreshToken:          token.RefreshToken,
		ExpiresAtEpochSeconds: token.Expiry.Unix(),
	}
	if record.RefreshToken == "" {
		record.RefreshToken = refreshToken
	}
	return record, nil
}
