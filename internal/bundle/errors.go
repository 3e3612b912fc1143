package bundle

import "fmt"

// ConfigError reports a package that violates the layout the launcher relies on.
// It is raised at startup and is not meant to be recovered from.
type ConfigError struct {
	Subject string
	Err     error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid package configuration: %s: %v", e.Subject, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Cause lets github.com/pkg/errors walk through the error.
func (e *ConfigError) Cause() error {
	return e.Err
}

func newConfigError(subject string, err error) *ConfigError {
	return &ConfigError{Subject: subject, Err: err}
}
