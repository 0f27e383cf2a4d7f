// SPDX-License-Identifier: Apache-2.0

package config

import "time"

// defaultConfig carries fallback values merged in after all explicit sources.
// Because mergo keeps the first non-zero value, these only fill fields that
// no other source provided.
func defaultConfig() *StructuredConfig {
	return &StructuredConfig{
		App: App{
			TokenIssuer:          "go-user-accounts",
			BearerTokenDuration:  time.Hour,
			ConfirmTokenDuration: 24 * time.Hour,
			ResetTokenDuration:   time.Hour,
			BaseURL:              "http://localhost:8080",
		},
		Server: Server{
			HTTPAddress:    "localhost:8080",
			RequestTimeout: 30 * time.Second,
		},
		Workers: Workers{
			MailQueueSize: 128,
		},
	}
}

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup.
//
// Returns nil if the configuration is valid, or a descriptive error otherwise.
func (cfg *StructuredConfig) validate() error {
	if cfg.App.TokenSignKey == "" {
		return ErrInvalidAppConfigs
	}

	if cfg.Storage.DB.DSN == "" {
		return ErrInvalidStorageConfigs
	}

	if cfg.Mail.Host != "" && cfg.Mail.From == "" {
		return ErrInvalidMailConfigs
	}

	return nil
}
