package store

import (
	"bytes"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v5"
)

var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

var (
	encoderOnce sync.Once
	encoder     *zstd.Encoder
	decoderOnce sync.Once
	decoder     *zstd.Decoder
)

func zstdEncoder() *zstd.Encoder {
	encoderOnce.Do(func() {
		encoder, _ = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	})
	return encoder
}

func zstdDecoder() *zstd.Decoder {
	decoderOnce.Do(func() {
		decoder, _ = zstd.NewReader(nil)
	})
	return decoder
}

// compress leaves data that already is a zstd frame alone.
func compress(data []byte) []byte {
	if bytes.HasPrefix(data, zstdMagic) {
		return data
	}
	return zstdEncoder().EncodeAll(data, make([]byte, 0, len(data)/2))
}

// decompress returns data unchanged unless it carries a zstd frame header.
func decompress(data []byte) ([]byte, error) {
	if !bytes.HasPrefix(data, zstdMagic) {
		return data, nil
	}
	return zstdDecoder().DecodeAll(data, nil)
}

// pack encodes v with msgpack and compresses the result.
func pack(v any) ([]byte, error) {
	b, err := msgpack.Marshal(v)
	if err != nil {
		return nil, err
	}
	return compress(b), nil
}

func unpack(data []byte, v any) error {
	b, err := decompress(data)
	if err != nil {
		return err
	}
	return msgpack.Unmarshal(b, v)
}
