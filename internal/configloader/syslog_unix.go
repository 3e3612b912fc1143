//go:build !windows && !plan9 && !js

package configloader

// The system log is the default sink for the companion output
const syslogAvailable = true
