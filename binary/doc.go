// Package binary provides the growable byte writer behind the dump format.
//
// The writer appends fixed-width integers in host byte order (or an order set
// with WithByteOrder), length-prefixed strings, raw byte regions and
// zero-filled alignment padding. Growth reallocates to 1.5x the requested
// size and never reorders or drops previously written bytes.
//
//	w := binary.NewWriter()
//	w.Magic("SAVE")
//	w.Int32(0)
//	w.String("int32")
//	if err := w.Err(); err != nil {
//	    return err
//	}
//
// Strings are encoded as a 4-byte length followed by the raw bytes with no
// terminator. A Writer is owned by one goroutine at a time.
package binary
