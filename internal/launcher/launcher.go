package launcher

import (
	"os"
	"os/exec"
	"io"
	"path/filepath"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
	"minefield.dev/launcher/internal/bundle"
	"minefield.dev/launcher/internal/environment"
	"minefield.dev/launcher/internal/loadercache"
	"minefield.dev/launcher/pkg/eventemitter"
)

// Variables set for the companion executable
const (
	BACKTRACE_VARIABLE          = "RUST_BACKTRACE"
	FALLBACK_LIBRARY_VARIABLE   = "DYLD_FALLBACK_LIBRARY_PATH"
	LOADER_MODULE_FILE_VARIABLE = "GDK_PIXBUF_MODULE_FILE"
)

// Time left to the relays to drain after the companion exited while
// something it spawned still holds its output open
const RELAY_DETACH_DELAY = 2 * time.Second

var ErrAlreadyStarted = errors.New("launcher already started")

type Options struct {
	Logger          logrus.FieldLogger
	Fs              afero.Fs
	Probe           HostProbe
	Environ         func() []string
	Args            []string
	ExecutableKey   string
	LoaderCacheFile string
	EnvironmentFile string
}

// Launcher starts the companion executable of a bundle and supervises it
// until it exits. A Launcher runs once.
type Launcher struct {
	bundle  *bundle.Bundle
	options Options

	mutex   sync.Mutex
	started bool
	state   State

	// Event emitters
	StateChangedEventEmitter *eventemitter.EventEmitter[State]
}

func NewLauncher(bundle *bundle.Bundle, options Options) (instance *Launcher) {
	if options.Logger == nil {
		options.Logger = logrus.StandardLogger()
	}
	if options.Fs == nil {
		options.Fs = afero.NewOsFs()
	}
	if options.Probe == nil {
		options.Probe = func() bool { return false }
	}
	if options.Environ == nil {
		options.Environ = os.Environ
	}
	return &Launcher{
		bundle:                   bundle,
		options:                  options,
		state:                    NOT_STARTED,
		StateChangedEventEmitter: &eventemitter.EventEmitter[State]{},
	}
}

func (l *Launcher) State() State {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	return l.state
}

func (l *Launcher) setState(state State) {
	l.mutex.Lock()
	l.state = state
	l.mutex.Unlock()
	if err := l.StateChangedEventEmitter.Emit(state); err != nil {
		l.options.Logger.Debugf("State %s not published: %v", state, err)
	}
}

// Run starts the companion executable and blocks until it exits. The child
// exit code is returned as is; err only reports launcher faults.
func (l *Launcher) Run() (exitCode int, err error) {
	l.mutex.Lock()
	if l.started {
		l.mutex.Unlock()
		return -1, ErrAlreadyStarted
	}
	l.started = true
	l.mutex.Unlock()

	var command *exec.Cmd
	if command, err = l.prepare(); err != nil {
		l.setState(TERMINATED)
		return -1, err
	}
	return l.supervise(command)
}

func (l *Launcher) prepare() (command *exec.Cmd, err error) {
	logger := l.options.Logger

	var executablePath string
	if executablePath, err = l.bundle.ExecutablePath(l.options.ExecutableKey); err != nil {
		return nil, err
	}
	libraryPath := l.bundle.LibraryPath()

	childEnvironment := environment.New(l.options.Environ())
	if l.options.EnvironmentFile != "" {
		environmentFilePath := filepath.Join(l.bundle.ResourcePath(), l.options.EnvironmentFile)
		if err = childEnvironment.LoadFile(l.options.Fs, environmentFilePath); err != nil {
			return nil, err
		}
	}
	if previous, ok := childEnvironment.Get(FALLBACK_LIBRARY_VARIABLE); ok && previous != libraryPath {
		logger.Debugf("Overriding %s=%s", FALLBACK_LIBRARY_VARIABLE, previous)
	}
	childEnvironment.Set(BACKTRACE_VARIABLE, "1")
	childEnvironment.Set(FALLBACK_LIBRARY_VARIABLE, libraryPath)

	if l.options.Probe() {
		logger.Debug("External image loader install found, keeping the bundled loader cache untouched")
		childEnvironment.Unset(LOADER_MODULE_FILE_VARIABLE)
	} else {
		cachePath := filepath.Join(libraryPath, l.options.LoaderCacheFile)
		var changed bool
		if changed, err = loadercache.Patch(l.options.Fs, cachePath, libraryPath); err != nil {
			return nil, err
		}
		logger.WithField("changed", changed).Debugf("Loader cache %s points to %s", cachePath, libraryPath)
		childEnvironment.Set(LOADER_MODULE_FILE_VARIABLE, cachePath)
	}

	command = exec.Command(executablePath, l.options.Args...)
	command.Env = childEnvironment.Slice()
	return command, nil
}

func (l *Launcher) supervise(command *exec.Cmd) (exitCode int, err error) {
	logger := l.options.Logger
	defer l.setState(TERMINATED)

	// exec copies the child pipes into these writers and stops copying
	// RELAY_DETACH_DELAY after the child exits
	stdoutReader, stdoutWriter := io.Pipe()
	stderrReader, stderrWriter := io.Pipe()
	command.Stdout = stdoutWriter
	command.Stderr = stderrWriter
	command.WaitDelay = RELAY_DETACH_DELAY

	relays := new(errgroup.Group)
	relays.Go(func() error { return relay(logger, STDOUT, stdoutReader) })
	relays.Go(func() error { return relay(logger, STDERR, stderrReader) })
	detach := func() error {
		stdoutWriter.Close()
		stderrWriter.Close()
		return relays.Wait()
	}

	if err = command.Start(); err != nil {
		detach()
		return -1, errors.Wrapf(err, "starting %s", command.Path)
	}
	logger.Infof("Started %s (pid %d)", command.Path, command.Process.Pid)
	l.setState(RUNNING)

	waitErr := command.Wait()
	relayErr := detach()

	var exitError *exec.ExitError
	switch {
	case waitErr == nil, errors.As(waitErr, &exitError):
	case errors.Is(waitErr, exec.ErrWaitDelay):
		logger.Debugf("Detached from output still held open after %s exited", filepath.Base(command.Path))
	default:
		return -1, errors.Wrapf(waitErr, "waiting for %s", command.Path)
	}
	exitCode = command.ProcessState.ExitCode()
	logger.Infof("%s exited: %s", filepath.Base(command.Path), command.ProcessState)

	if relayErr != nil {
		logger.Warn(relayErr)
	}
	return exitCode, nil
}
