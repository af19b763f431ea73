package catalog

import (
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
)

// Payload is the tradable thing an item wraps. The catalog never looks
// inside it beyond asking for its canonical name.
type Payload interface {
	// CanonicalName is the stable name item ids are derived from
	CanonicalName() string

	// Clone returns an independent copy
	Clone() Payload
}

// Codec turns payloads into the string stored under an item's "nbt" key and
// back.
type Codec interface {
	Encode(p Payload) (string, error)
	Decode(s string) (Payload, error)
}

// Blob is a named binary payload
type Blob struct {
	Name string
	Data []byte
}

// CanonicalName implements Payload
func (b *Blob) CanonicalName() string {
	return b.Name
}

// Clone implements Payload
func (b *Blob) Clone() Payload {
	data := make([]byte, len(b.Data))
	copy(data, b.Data)
	return &Blob{Name: b.Name, Data: data}
}

// BlobCodec is the default Codec. A Blob is framed as
// uvarint(len(name)) | name | data and the frame is base64 encoded.
type BlobCodec struct{}

var errTruncatedFrame = errors.New("truncated payload frame")

// Encode implements Codec
func (BlobCodec) Encode(p Payload) (string, error) {
	b, ok := p.(*Blob)
	if !ok {
		return "", fmt.Errorf("unsupported payload type %T", p)
	}

	frame := binary.AppendUvarint(nil, uint64(len(b.Name)))
	frame = append(frame, b.Name...)
	frame = append(frame, b.Data...)
	return base64.StdEncoding.EncodeToString(frame), nil
}

// Decode implements Codec
func (BlobCodec) Decode(s string) (Payload, error) {
	frame, err := base64.StdEncoding.Strict().DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid base64 input: %w", err)
	}

	nameLen, n := binary.Uvarint(frame)
	if n <= 0 {
		return nil, errTruncatedFrame
	}
	frame = frame[n:]
	if nameLen > uint64(len(frame)) {
		return nil, errTruncatedFrame
	}

	name := string(frame[:nameLen])
	if name == "" {
		return nil, errors.New("payload has no name")
	}

	data := make([]byte, len(frame)-int(nameLen))
	copy(data, frame[nameLen:])
	return &Blob{Name: name, Data: data}, nil
}
