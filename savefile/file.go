package savefile

import (
	"os"

	"github.com/wippyai/savedump/binary"
	"github.com/wippyai/savedump/errors"
)

// Create writes a dump of objects to the file at path, replacing it. The
// file is only touched once the whole dump has been encoded.
func Create(path string, objects []Object, opts ...Option) (Summary, error) {
	w := binary.NewWriter()
	sum, err := WriteFile(w, objects, opts...)
	if err != nil {
		return Summary{}, err
	}
	if err := os.WriteFile(path, w.Bytes(), 0o644); err != nil {
		return Summary{}, errors.Wrap(errors.PhaseWrite, errors.KindIO, err, "write "+path)
	}
	return sum, nil
}
