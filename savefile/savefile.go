package savefile

import (
	"go.uber.org/zap"

	"github.com/wippyai/savedump/binary"
	"github.com/wippyai/savedump/errors"
	"github.com/wippyai/savedump/schema"
	"github.com/wippyai/savedump/types"
)

const (
	// Magic opens every dump.
	Magic = "SAVE"
	// Version is the format version written after the magic.
	Version = 0
)

// Summary describes a written dump. The stream itself does not record the
// object count, so callers that need to read it back keep Objects elsewhere.
type Summary struct {
	Objects int
	Types   int
	Bytes   int
}

// WriteFile appends a complete dump of objects to w.
//
// The dump is encoded into a stage of w and committed only when every step
// succeeded, so on error w is left exactly as it was.
func WriteFile(w *binary.Writer, objects []Object, opts ...Option) (Summary, error) {
	cfg := newConfig(opts)
	if w == nil {
		return Summary{}, errors.InvalidInput(errors.PhaseWrite, "writer is nil")
	}
	if err := w.Err(); err != nil {
		return Summary{}, err
	}

	roots := make([]*types.Type, 0, len(objects))
	seen := make(map[*types.Type]bool)
	for i, obj := range objects {
		if err := obj.validate(i); err != nil {
			return Summary{}, err
		}
		if !seen[obj.Type] {
			seen[obj.Type] = true
			roots = append(roots, obj.Type)
		}
	}

	table, err := schema.Build(roots...)
	if err != nil {
		return Summary{}, err
	}

	stage := w.Stage()
	writeHeader(stage)
	if err := table.WriteTo(stage); err != nil {
		return Summary{}, err
	}
	for _, obj := range objects {
		id, ok := table.ID(obj.Type.Name())
		if !ok {
			return Summary{}, errors.NotFound(errors.PhaseWrite, "type", obj.Type.Name())
		}
		stage.Int32(id)
		stage.Int(len(obj.Data))
		stage.Uintptr(obj.Addr)
		stage.Dump(obj.Data)
	}
	if err := w.Commit(stage); err != nil {
		return Summary{}, err
	}

	sum := Summary{Objects: len(objects), Types: table.Len(), Bytes: stage.Len()}
	cfg.logger.Debug("dump written",
		zap.Int("objects", sum.Objects),
		zap.Int("types", sum.Types),
		zap.Int("bytes", sum.Bytes),
		zap.Bool("little_endian", w.LittleEndian()),
	)
	return sum, nil
}

func writeHeader(w *binary.Writer) {
	w.Magic(Magic)
	w.Int32(Version)
	if w.LittleEndian() {
		w.Int32(1)
	} else {
		w.Int32(0)
	}
}
