package bundle_test

import (
	"errors"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"minefield.dev/launcher/internal/bundle"
)

const propertyList = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>CFBundleExecutable</key>
	<string>launcher</string>
	<key>RustBinaryName</key>
	<string>mines</string>
	<key>LSMinimumSystemVersion</key>
	<integer>10</integer>
</dict>
</plist>
`

func newApplicationFs(t *testing.T) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/Applications/Mines.app/Contents/Info.plist", []byte(propertyList), 0644))
	require.NoError(t, afero.WriteFile(fs, "/Applications/Mines.app/Contents/Resources/mines", []byte("binary"), 0755))
	require.NoError(t, fs.MkdirAll("/Applications/Mines.app/Contents/Resources/lib", 0755))
	return fs
}

func TestLocate(t *testing.T) {
	tests := []struct {
		description string
		in          string
		out         string
	}{
		{
			description: "application bundle",
			in:          "/Applications/Mines.app/Contents/MacOS/launcher",
			out:         "/Applications/Mines.app",
		},
		{
			description: "flat package",
			in:          "/opt/mines/launcher",
			out:         "/opt/mines",
		},
		{
			description: "MacOS folder outside Contents",
			in:          "/opt/MacOS/launcher",
			out:         "/opt/MacOS",
		},
	}

	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			assert.Equal(t, tt.out, bundle.Locate(tt.in))
		})
	}
}

func TestOpenPropertyList(t *testing.T) {
	instance, err := bundle.Open(newApplicationFs(t), "/Applications/Mines.app")
	require.NoError(t, err)

	assert.Equal(t, "/Applications/Mines.app", instance.Root())
	assert.Equal(t, "/Applications/Mines.app/Contents/Info.plist", instance.Descriptor())
	assert.Equal(t, "/Applications/Mines.app/Contents/Resources", instance.ResourcePath())
	assert.Equal(t, "/Applications/Mines.app/Contents/Resources/lib", instance.LibraryPath())

	name, err := instance.Lookup("RustBinaryName")
	require.NoError(t, err)
	assert.Equal(t, "mines", name)

	executablePath, err := instance.ExecutablePath("RustBinaryName")
	require.NoError(t, err)
	assert.Equal(t, "/Applications/Mines.app/Contents/Resources/mines", executablePath)
}

func TestOpenFlatDescriptor(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/opt/mines/bundle.toml", []byte("RustBinaryName = \"mines\"\n"), 0644))
	require.NoError(t, afero.WriteFile(fs, "/opt/mines/Resources/mines", []byte("binary"), 0755))

	instance, err := bundle.Open(fs, "/opt/mines")
	require.NoError(t, err)
	assert.Equal(t, "/opt/mines/Resources", instance.ResourcePath())

	executablePath, err := instance.ExecutablePath("RustBinaryName")
	require.NoError(t, err)
	assert.Equal(t, "/opt/mines/Resources/mines", executablePath)
}

func TestOpenWithoutDescriptor(t *testing.T) {
	_, err := bundle.Open(afero.NewMemMapFs(), "/opt/empty")
	var configError *bundle.ConfigError
	require.True(t, errors.As(err, &configError))
	assert.Equal(t, "package descriptor", configError.Subject)
}

func TestOpenWithoutResources(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/Applications/Mines.app/Contents/Info.plist", []byte(propertyList), 0644))

	_, err := bundle.Open(fs, "/Applications/Mines.app")
	var configError *bundle.ConfigError
	require.True(t, errors.As(err, &configError))
	assert.Equal(t, "resource path", configError.Subject)
}

func TestOpenMalformedDescriptor(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/opt/mines/bundle.toml", []byte("= broken"), 0644))
	require.NoError(t, fs.MkdirAll("/opt/mines/Resources", 0755))

	_, err := bundle.Open(fs, "/opt/mines")
	assert.Error(t, err)
}

func TestMetadataErrors(t *testing.T) {
	instance, err := bundle.Open(newApplicationFs(t), "/Applications/Mines.app")
	require.NoError(t, err)

	_, err = instance.Lookup("Missing")
	assert.EqualError(t, err, `invalid package configuration: metadata key "Missing": missing`)

	_, err = instance.Lookup("LSMinimumSystemVersion")
	var configError *bundle.ConfigError
	require.True(t, errors.As(err, &configError))
	assert.Contains(t, configError.Error(), "expected a string")
}

func TestExecutablePathRejectsUnsafeNames(t *testing.T) {
	for _, name := range []string{"", "..", "../mines", "bin/mines"} {
		t.Run(name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			descriptor := "RustBinaryName = \"" + name + "\"\n"
			require.NoError(t, afero.WriteFile(fs, "/opt/mines/bundle.toml", []byte(descriptor), 0644))
			require.NoError(t, fs.MkdirAll("/opt/mines/Resources/bin", 0755))

			instance, err := bundle.Open(fs, "/opt/mines")
			require.NoError(t, err)
			_, err = instance.ExecutablePath("RustBinaryName")
			assert.Error(t, err)
		})
	}
}

func TestExecutablePathMissingFile(t *testing.T) {
	fs := newApplicationFs(t)
	require.NoError(t, fs.Remove("/Applications/Mines.app/Contents/Resources/mines"))

	instance, err := bundle.Open(fs, "/Applications/Mines.app")
	require.NoError(t, err)
	_, err = instance.ExecutablePath("RustBinaryName")
	var configError *bundle.ConfigError
	require.True(t, errors.As(err, &configError))
	assert.Equal(t, `executable "mines"`, configError.Subject)
}
