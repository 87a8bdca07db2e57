package result

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// wrapperKey is the top-level key of the wrapped envelope.
const wrapperKey = "result"

// Shape tags how a body was decoded.
type Shape int

const (
	// ShapeUnparsable means neither envelope shape matched.
	ShapeUnparsable Shape = iota
	// ShapeWrapped means the result object was found under "result".
	ShapeWrapped
	// ShapeDirect means the result object was the top-level document.
	ShapeDirect
)

// String returns the shape name.
func (s Shape) String() string {
	switch s {
	case ShapeWrapped:
		return "wrapped"
	case ShapeDirect:
		return "direct"
	default:
		return "unparsable"
	}
}

// Envelope is the server's result object.
type Envelope[T any] struct {
	Code    *int   `json:"code"`
	ErrCode string `json:"err_code"`
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

// Decode reads body as an envelope. The first attempt decodes a generic
// object and unwraps "result" when present, else decodes the object
// directly. If that fails for any reason the raw body is decoded directly
// as a second attempt; that attempt rejects unknown fields, so a
// malformed "result" value cannot pass as an empty direct envelope.
// The error is set only for ShapeUnparsable.
func Decode[T any](body []byte) (Envelope[T], Shape, error) {
	env, shape, err := decodeGeneric[T](body)
	if err == nil {
		return env, shape, nil
	}

	env, err = decodeStrict[T](body)
	if err == nil {
		return env, ShapeDirect, nil
	}
	return Envelope[T]{}, ShapeUnparsable, err
}

func decodeGeneric[T any](body []byte) (Envelope[T], Shape, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(body, &doc); err != nil {
		return Envelope[T]{}, ShapeUnparsable, err
	}
	if doc == nil {
		return Envelope[T]{}, ShapeUnparsable, errNullDocument
	}

	if inner, ok := doc[wrapperKey]; ok {
		env, err := decodeDirect[T](inner)
		if err != nil {
			return Envelope[T]{}, ShapeUnparsable, fmt.Errorf("decode %q: %w", wrapperKey, err)
		}
		return env, ShapeWrapped, nil
	}

	env, err := decodeDirect[T](body)
	if err != nil {
		return Envelope[T]{}, ShapeUnparsable, err
	}
	return env, ShapeDirect, nil
}

var errNullDocument = fmt.Errorf("document is null")

func decodeStrict[T any](raw []byte) (Envelope[T], error) {
	var env Envelope[T]
	if isNull(raw) {
		return env, errNullDocument
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&env); err != nil {
		return Envelope[T]{}, err
	}
	if dec.More() {
		return Envelope[T]{}, fmt.Errorf("unexpected data after envelope")
	}
	return env, nil
}

func isNull(raw []byte) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func decodeDirect[T any](raw []byte) (Envelope[T], error) {
	var env Envelope[T]
	if isNull(raw) {
		return env, errNullDocument
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return Envelope[T]{}, err
	}
	return env, nil
}
