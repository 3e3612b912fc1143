package launcher

import "github.com/spf13/afero"

// HostProbe reports whether the host already provides the image loader
// libraries through an external package manager.
type HostProbe func() bool

// PathProbe reports true when path exists on fs.
func PathProbe(fs afero.Fs, path string) HostProbe {
	return func() bool {
		exists, _ := afero.Exists(fs, path)
		return exists
	}
}
