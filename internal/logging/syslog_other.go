//go:build windows || plan9 || js

package logging

import (
	"errors"

	"github.com/sirupsen/logrus"
)

func newSyslogHook() (logrus.Hook, error) {
	return nil, errors.New("system log not available on this platform")
}
