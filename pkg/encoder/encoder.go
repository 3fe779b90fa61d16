// Package encoder contains the byte encodings used for opaque pagination cursors.
package encoder

// Encoder turns raw cursor bytes into an opaque string and back.
type Encoder interface {
	Decode(string) ([]byte, error)
	Encode([]byte) (string, error)
}
