package bundle

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

// Package layouts
const (
	CONTENTS_FOLDER      = "Contents"
	EXECUTABLES_FOLDER   = "MacOS"
	RESOURCES_FOLDER     = "Resources"
	LIBRARIES_FOLDER     = "lib"
	PROPERTY_LIST_FILE   = "Info.plist"
	FLAT_DESCRIPTOR_FILE = "bundle.toml"
)

// Bundle is an opened application package.
type Bundle struct {
	root         string
	resourcePath string
	descriptor   string
	metadata     Metadata
	fs           afero.Fs
}

// Locate returns the package root that holds the given launcher executable.
// Inside a macOS application the launcher lives in <root>/Contents/MacOS.
func Locate(executablePath string) string {
	executableFolder := filepath.Dir(executablePath)
	contentsFolder := filepath.Dir(executableFolder)
	if filepath.Base(executableFolder) == EXECUTABLES_FOLDER && filepath.Base(contentsFolder) == CONTENTS_FOLDER {
		return filepath.Dir(contentsFolder)
	}
	return executableFolder
}

// Open reads the descriptor of the package rooted at root and checks that its
// resource folder exists.
func Open(fs afero.Fs, root string) (instance *Bundle, err error) {
	if root, err = filepath.Abs(root); err != nil {
		return nil, newConfigError("package root", err)
	}
	instance = &Bundle{root: root, fs: fs}

	propertyListPath := filepath.Join(root, CONTENTS_FOLDER, PROPERTY_LIST_FILE)
	flatDescriptorPath := filepath.Join(root, FLAT_DESCRIPTOR_FILE)
	switch {
	case fileExists(fs, propertyListPath):
		instance.descriptor = propertyListPath
		instance.resourcePath = filepath.Join(root, CONTENTS_FOLDER, RESOURCES_FOLDER)
		instance.metadata, err = readPropertyList(fs, propertyListPath)
	case fileExists(fs, flatDescriptorPath):
		instance.descriptor = flatDescriptorPath
		instance.resourcePath = filepath.Join(root, RESOURCES_FOLDER)
		instance.metadata, err = readTOML(fs, flatDescriptorPath)
	default:
		return nil, newConfigError("package descriptor",
			errors.Errorf("neither %s nor %s found", propertyListPath, flatDescriptorPath))
	}
	if err != nil {
		return nil, newConfigError("package descriptor", err)
	}

	if isDirectory, _ := afero.DirExists(fs, instance.resourcePath); !isDirectory {
		return nil, newConfigError("resource path", errors.Errorf("%s is not a directory", instance.resourcePath))
	}
	return
}

func (b *Bundle) Root() string {
	return b.root
}

// Descriptor is the path of the file the metadata was read from.
func (b *Bundle) Descriptor() string {
	return b.descriptor
}

// ResourcePath is the absolute path of the package resource folder.
func (b *Bundle) ResourcePath() string {
	return b.resourcePath
}

// LibraryPath is the folder holding the bundled shared libraries.
func (b *Bundle) LibraryPath() string {
	return filepath.Join(b.resourcePath, LIBRARIES_FOLDER)
}

// Lookup returns the metadata value stored under key.
func (b *Bundle) Lookup(key string) (string, error) {
	value, ok := b.metadata[key]
	if !ok {
		return "", newConfigError(fmt.Sprintf("metadata key %q", key), errors.New("missing"))
	}
	text, ok := value.(string)
	if !ok {
		return "", newConfigError(fmt.Sprintf("metadata key %q", key), errors.Errorf("expected a string, got %T", value))
	}
	return text, nil
}

// ExecutablePath resolves the resource named by the metadata key to a file
// inside the resource folder.
func (b *Bundle) ExecutablePath(key string) (string, error) {
	name, err := b.Lookup(key)
	if err != nil {
		return "", err
	}
	subject := fmt.Sprintf("executable %q", name)
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", newConfigError(subject, errors.New("not a plain file name"))
	}
	executablePath := filepath.Join(b.resourcePath, name)
	info, err := b.fs.Stat(executablePath)
	if err != nil {
		return "", newConfigError(subject, err)
	}
	if info.IsDir() {
		return "", newConfigError(subject, errors.Errorf("%s is a directory", executablePath))
	}
	return executablePath, nil
}

func fileExists(fs afero.Fs, path string) bool {
	info, err := fs.Stat(path)
	return err == nil && !info.IsDir()
}
