// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides outbound integrations for the zero-vault server.
//
// The primary abstraction is [Mailer], which decouples the service layer from
// the mail provider. The package ships an HTTP/REST implementation
// ([NewHTTPMailer]) that talks to the provider's JSON API.
//
// Error values defined in errors.go are mapped from HTTP status codes by
// mapHTTPError so that callers can use [errors.Is] for provider-agnostic
// error handling.
package adapter

import "context"

// Mailer delivers transactional mail. Implementations are responsible for
// serialisation, authentication, and mapping transport-level errors to the
// sentinel values defined in this package.
//
// Reset tokens travel through the mailer exactly once, in the raw form; they
// must never be logged by an implementation.
type Mailer interface {
	// SendPasswordReset delivers the password-reset message for email,
	// embedding the raw reset token into the reset link.
	SendPasswordReset(ctx context.Context, email, resetToken string) error
}
