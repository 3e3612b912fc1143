// Package loadercache repairs the module registry consumed by the image loader
// library so that every registered module points into the bundled lib folder.
//
// The registry is line oriented: comment lines start with '#', module lines
// carry a quoted path ending in ".so", anything else is module detail.
package loadercache

import (
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

const (
	commentMarker = "#"
	moduleSuffix  = `.so"`
)

// RewriteLine returns line with its module path moved under libraryPath and
// reports whether the line changed.
func RewriteLine(line string, libraryPath string) (string, bool) {
	if strings.HasPrefix(line, commentMarker) {
		return "", line != ""
	}
	suffixIndex := strings.Index(line, moduleSuffix)
	if suffixIndex < 0 {
		return line, false
	}
	pathEnd := suffixIndex + len(moduleSuffix) - 1
	pathStart := strings.LastIndex(line[:suffixIndex], `"`) + 1
	prefix := line[:pathStart]
	if pathStart == 0 {
		prefix = `"`
	}

	modulePath := line[pathStart:pathEnd]
	relocated := path.Join(libraryPath, path.Base(modulePath))
	if relocated == modulePath {
		return line, false
	}
	return prefix + relocated + line[pathEnd:], true
}

// Rewrite applies RewriteLine to every line of content. Comment lines are
// blanked rather than removed so the line count is preserved.
func Rewrite(content string, libraryPath string) (string, bool) {
	lines := strings.Split(content, "\n")
	changed := false
	for index, line := range lines {
		var lineChanged bool
		lines[index], lineChanged = RewriteLine(line, libraryPath)
		changed = changed || lineChanged
	}
	return strings.Join(lines, "\n"), changed
}

// Patch rewrites the cache file at cachePath in place. The file is replaced
// atomically and only when its content changes.
func Patch(fs afero.Fs, cachePath string, libraryPath string) (changed bool, err error) {
	var info os.FileInfo
	if info, err = fs.Stat(cachePath); err != nil {
		return false, errors.Wrapf(err, "reading loader cache %s", cachePath)
	}
	var data []byte
	if data, err = afero.ReadFile(fs, cachePath); err != nil {
		return false, errors.Wrapf(err, "reading loader cache %s", cachePath)
	}

	var rewritten string
	if rewritten, changed = Rewrite(string(data), libraryPath); !changed {
		return false, nil
	}

	if err = writeAtomically(fs, cachePath, []byte(rewritten), info.Mode().Perm()); err != nil {
		return false, errors.Wrapf(err, "writing loader cache %s", cachePath)
	}
	return true, nil
}

func writeAtomically(fs afero.Fs, filePath string, data []byte, mode os.FileMode) (err error) {
	temporary, err := afero.TempFile(fs, filepath.Dir(filePath), "."+filepath.Base(filePath)+".")
	if err != nil {
		return err
	}
	temporaryPath := temporary.Name()
	defer func() {
		if err != nil {
			fs.Remove(temporaryPath)
		}
	}()

	if _, err = temporary.Write(data); err != nil {
		temporary.Close()
		return err
	}
	if err = temporary.Sync(); err != nil {
		temporary.Close()
		return err
	}
	if err = temporary.Close(); err != nil {
		return err
	}
	if err = fs.Chmod(temporaryPath, mode); err != nil {
		return err
	}
	return fs.Rename(temporaryPath, filePath)
}
