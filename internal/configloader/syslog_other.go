//go:build windows || plan9 || js

package configloader

const syslogAvailable = false
