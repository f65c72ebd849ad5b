package store

import (
	json "github.com/goccy/go-json"
)

// BlobCodec serializes payment data for the blob columns: JSON for the
// structure, zstd on top since payment blobs repeat long hex strings.
type BlobCodec struct {
	compressor CompressorInterface
}

func NewBlobCodec(compressor CompressorInterface) *BlobCodec {
	return &BlobCodec{compressor: compressor}
}

func (bc *BlobCodec) Encode(v interface{}) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return bc.compressor.Compress(data)
}

func (bc *BlobCodec) Decode(blob []byte, v interface{}) error {
	data, err := bc.compressor.Decompress(blob)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}
