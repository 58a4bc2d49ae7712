// Copyright Tellus Operations and each contributor.
// SPDX-License-Identifier: MIT

package service

import "time"

type Service interface {
	ServiceReady() bool
}

// ServiceConfig is the configuration for the Services.
type ServiceConfig struct {
	// DefaultTenantID is the tenant used when a request carries none.
	DefaultTenantID string
	// RequestTimeout bounds one whole attendance lookup across every
	// upstream call it makes. Zero selects the default.
	RequestTimeout time.Duration
}
