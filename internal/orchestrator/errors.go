// Copyright (c) 2025 adjiap
// SPDX-License-Identifier: MIT

package orchestrator

// =============================================================================
// ERROR TYPES
// =============================================================================

// ConfigError reports that a command cannot run until the user fixes their
// settings, as opposed to a transport failure (backend.ClientError) or bad
// input data (conversation.ValidationError). It names the setting so the
// front end can point the user at it.
type ConfigError struct {
	Setting string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Setting == "" {
		return e.Message
	}
	return e.Setting + ": " + e.Message
}

// newConfigError builds a ConfigError for a named setting.
func newConfigError(setting, message string) *ConfigError {
	return &ConfigError{Setting: setting, Message: message}
}
