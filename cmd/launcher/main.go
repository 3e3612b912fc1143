package main

import (
	"os"
	"runtime/debug"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"minefield.dev/launcher/internal/bundle"
	"minefield.dev/launcher/internal/configloader"
	"minefield.dev/launcher/internal/launcher"
	"minefield.dev/launcher/internal/logging"
)

// Name of the current application. Used to load the configuration.
const APPLICATION_NAME = "launcher"

func main() {
	// Parsing the command line argument to change settings file location.
	// Unknown flags, such as the process serial number added by Finder, are ignored;
	// positional arguments and everything after "--" go to the companion.
	pflag.CommandLine.ParseErrorsWhitelist.UnknownFlags = true
	configurationFilePath := pflag.String("config", "", "Configuration file path")
	pflag.Parse()

	// Loading application configuration
	configuration, err := configloader.LoadConfiguration(APPLICATION_NAME, *configurationFilePath)
	if err != nil {
		logrus.Fatalf("%+v", err)
	}
	if err = logging.Configure(logrus.StandardLogger(), configuration); err != nil {
		logrus.Fatalf("%+v", err)
	}
	if *configurationFilePath != "" {
		logrus.Infof("Loaded config file %s", *configurationFilePath)
	}
	logrus.Debugf("Setting log level to %s", logrus.GetLevel())

	if bi, ok := debug.ReadBuildInfo(); ok {
		logrus.Debug("Launching launcher v.", bi.Main.Version)
	}

	root := configuration.BundlePath
	if root == "" {
		var executablePath string
		if executablePath, err = os.Executable(); err != nil {
			logrus.Fatalf("Cannot locate the launcher executable: %v", err)
		}
		root = bundle.Locate(executablePath)
	}

	fs := afero.NewOsFs()
	applicationBundle, err := bundle.Open(fs, root)
	if err != nil {
		logrus.Fatal(err)
	}
	logrus.Debugf("Opened package %s from %s", applicationBundle.Root(), applicationBundle.Descriptor())

	instance := launcher.NewLauncher(applicationBundle, launcher.Options{
		Logger:          logrus.StandardLogger(),
		Fs:              fs,
		Probe:           launcher.PathProbe(fs, configuration.ExternalLibraryPath),
		Environ:         os.Environ,
		Args:            pflag.Args(),
		ExecutableKey:   configuration.ExecutableKey,
		LoaderCacheFile: configuration.LoaderCacheFile,
		EnvironmentFile: configuration.EnvironmentFile,
	})
	instance.StateChangedEventEmitter.Subscribe(func(state launcher.State) {
		logrus.Debugf("Companion %s", state)
	})

	exitCode, err := instance.Run()
	instance.StateChangedEventEmitter.Close()
	if err != nil {
		logrus.Fatalf("%+v", err)
	}
	logrus.Debugf("Companion exit code %d", exitCode)
}
