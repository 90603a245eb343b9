package crate

import (
	"encoding/binary"
	"fmt"

	"github.com/pierrec/lz4/v4"
)

// Compressed sections use raw LZ4 blocks behind a one-byte chunking
// envelope: a chunk count (0 means the remainder is a single block),
// then per chunk a 4-byte compressed length and the block itself.

// decompressLZ4 expands an enveloped buffer into uncompressedSize bytes.
func decompressLZ4(src []byte, uncompressedSize uint64) ([]byte, error) {
	if len(src) == 0 {
		return nil, fmt.Errorf("lz4: empty input")
	}

	nChunks := int(src[0])
	src = src[1:]
	dst := make([]byte, uncompressedSize)

	if nChunks == 0 {
		n, err := lz4.UncompressBlock(src, dst)
		if err != nil {
			return nil, fmt.Errorf("lz4: decompress block: %w", err)
		}
		return dst[:n], nil
	}

	written := 0
	for chunk := 0; chunk < nChunks; chunk++ {
		if len(src) < 4 {
			return nil, fmt.Errorf("lz4: truncated chunk header %d", chunk)
		}
		chunkSize := int(binary.LittleEndian.Uint32(src[:4]))
		src = src[4:]
		if chunkSize < 0 || chunkSize > len(src) {
			return nil, fmt.Errorf("lz4: chunk %d size %d exceeds input", chunk, chunkSize)
		}
		n, err := lz4.UncompressBlock(src[:chunkSize], dst[written:])
		if err != nil {
			return nil, fmt.Errorf("lz4: decompress chunk %d: %w", chunk, err)
		}
		src = src[chunkSize:]
		written += n
	}

	return dst[:written], nil
}

// compressLZ4 produces a single-block envelope. Tests use it to build
// decodable fixtures.
func compressLZ4(src []byte) ([]byte, error) {
	dst := make([]byte, 1+lz4.CompressBlockBound(len(src)))
	dst[0] = 0 // single block
	var c lz4.Compressor
	n, err := c.CompressBlock(src, dst[1:])
	if err != nil {
		return nil, fmt.Errorf("lz4: compress block: %w", err)
	}
	return dst[:1+n], nil
}
