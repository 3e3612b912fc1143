//go:build !windows && !plan9 && !js

package logging

import (
	"log/syslog"

	"github.com/sirupsen/logrus"
	logrussyslog "github.com/sirupsen/logrus/hooks/syslog"
)

const syslogTag = "launcher"

func newSyslogHook() (logrus.Hook, error) {
	return logrussyslog.NewSyslogHook("", "", syslog.LOG_INFO|syslog.LOG_USER, syslogTag)
}
