// Package json 提供高性能 JSON 序列化封装。
// amd64/arm64 上使用 sonic, 其余平台回退到标准库 encoding/json。
package json

import (
	stdjson "encoding/json"
	"io"
	"runtime"

	"github.com/bytedance/sonic"
)

// Encoder is a JSON encoder interface.
type Encoder interface {
	Encode(v interface{}) error
}

// Decoder is a JSON decoder interface.
type Decoder interface {
	Decode(v interface{}) error
}

var (
	// Marshal encodes v into JSON bytes.
	Marshal func(v interface{}) ([]byte, error)

	// Unmarshal decodes JSON bytes into v.
	Unmarshal func(data []byte, v interface{}) error

	// NewEncoder creates a JSON encoder writing to w.
	NewEncoder func(w io.Writer) Encoder

	// NewDecoder creates a JSON decoder reading from r.
	NewDecoder func(r io.Reader) Decoder
)

func init() {
	// sonic 仅支持 amd64 与 arm64。
	if runtime.GOARCH == "amd64" || runtime.GOARCH == "arm64" {
		Marshal = sonic.Marshal
		Unmarshal = sonic.Unmarshal
		NewEncoder = func(w io.Writer) Encoder {
			return sonic.ConfigDefault.NewEncoder(w)
		}
		NewDecoder = func(r io.Reader) Decoder {
			return sonic.ConfigDefault.NewDecoder(r)
		}
		return
	}

	Marshal = stdjson.Marshal
	Unmarshal = stdjson.Unmarshal
	NewEncoder = func(w io.Writer) Encoder {
		return stdjson.NewEncoder(w)
	}
	NewDecoder = func(r io.Reader) Decoder {
		return stdjson.NewDecoder(r)
	}
}
