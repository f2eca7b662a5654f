// Package jsoncompat selects the json implementation used by the services.
// sonic is the default, build with -tags jsonstd to use encoding/json.
package jsoncompat

type Encoder interface {
	Encode(v any) error
}

type Decoder interface {
	Decode(v any) error
}
