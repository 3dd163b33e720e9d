// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import "errors"

// Sentinel errors used by the authentication middleware when parsing the
// "Authorization" HTTP header. Callers can match against them with [errors.Is].
var (
	// ErrEmptyAuthorizationHeader is returned by the auth middleware when the
	// incoming request does not include an "Authorization" header at all.
	// Malformed headers that do contain a value are reported through
	// utils.ParseBearerToken instead.
	ErrEmptyAuthorizationHeader = errors.New("empty `Authorization` header")
)
