package launcher

import (
	"bufio"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	STDOUT = "stdout"
	STDERR = "stderr"
)

// relay logs every line read from reader until the stream is closed.
// A trailing line without newline is logged when the stream ends. After a
// read error the rest of the stream is discarded so the writer never blocks.
func relay(logger logrus.FieldLogger, stream string, reader io.Reader) error {
	entry := logger.WithField("stream", stream)
	buffered := bufio.NewReader(reader)
	for {
		line, err := buffered.ReadString('\n')
		if line != "" {
			entry.Info(strings.ToValidUTF8(strings.TrimSuffix(line, "\n"), "\uFFFD"))
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			io.Copy(io.Discard, buffered)
			return errors.Wrapf(err, "reading child %s", stream)
		}
	}
}
