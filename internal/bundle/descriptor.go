package bundle

import (
	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"howett.net/plist"
)

// Metadata is the read-only key lookup of a package descriptor.
type Metadata map[string]interface{}

func readPropertyList(fs afero.Fs, path string) (metadata Metadata, err error) {
	var data []byte
	if data, err = afero.ReadFile(fs, path); err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	metadata = make(Metadata)
	if _, err = plist.Unmarshal(data, &metadata); err != nil {
		return nil, errors.Wrapf(err, "decoding %s", path)
	}
	return
}

func readTOML(fs afero.Fs, path string) (metadata Metadata, err error) {
	var data []byte
	if data, err = afero.ReadFile(fs, path); err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	metadata = make(Metadata)
	if err = toml.Unmarshal(data, &metadata); err != nil {
		return nil, errors.Wrapf(err, "decoding %s", path)
	}
	return
}
