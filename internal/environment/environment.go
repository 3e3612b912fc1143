package environment

import (
	"os"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

// Environment is the variable set handed to the child process.
type Environment map[string]string

// New builds an Environment from KEY=VALUE entries as returned by os.Environ.
// Later entries win; entries without '=' are ignored.
func New(base []string) Environment {
	environment := make(Environment, len(base))
	for _, entry := range base {
		if key, value, ok := strings.Cut(entry, "="); ok && key != "" {
			environment[key] = value
		}
	}
	return environment
}

func (e Environment) Set(key string, value string) {
	e[key] = value
}

func (e Environment) Get(key string) (value string, ok bool) {
	value, ok = e[key]
	return
}

func (e Environment) Unset(key string) {
	delete(e, key)
}

func (e Environment) Merge(variables map[string]string) {
	for key, value := range variables {
		e[key] = value
	}
}

// LoadFile merges the dotenv file at path. A missing file is not an error.
func (e Environment) LoadFile(fs afero.Fs, path string) (err error) {
	var file afero.File
	if file, err = fs.Open(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrapf(err, "opening environment file %s", path)
	}
	defer file.Close()

	var variables map[string]string
	if variables, err = godotenv.Parse(file); err != nil {
		return errors.Wrapf(err, "parsing environment file %s", path)
	}
	e.Merge(variables)
	return nil
}

// Slice returns the sorted KEY=VALUE entries expected by exec.Cmd.
func (e Environment) Slice() []string {
	entries := make([]string, 0, len(e))
	for key, value := range e {
		entries = append(entries, key+"="+value)
	}
	sort.Strings(entries)
	return entries
}
