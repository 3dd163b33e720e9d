// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup.
//
// Returns nil if the configuration is valid, or a sentinel error otherwise.
func (cfg *StructuredConfig) validate() error {
	if cfg.Storage.DB.DSN == "" {
		return ErrInvalidStorageConfigs
	}

	if cfg.App.AccessTokenSignKey == "" || cfg.App.RefreshTokenSignKey == "" {
		return ErrInvalidAppConfigs
	}

	// the two keys must differ: a single key would let an access token be
	// replayed as a refresh token
	if cfg.App.AccessTokenSignKey == cfg.App.RefreshTokenSignKey {
		return ErrInvalidAppConfigs
	}

	if cfg.Server.HTTPAddress == "" {
		return ErrInvalidServerConfigs
	}

	return nil
}
