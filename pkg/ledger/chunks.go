package ledger

import "fmt"

// DefaultChunkSize is the number of content bytes carried by one file append
// transaction. It is set explicitly on every append because the SDK's own
// default is 2048.
const DefaultChunkSize = 4096

// ChunkCount returns how many append transactions size bytes need.
func ChunkCount(size int, chunkSize int) int {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if size <= 0 {
		return 0
	}
	return (size + chunkSize - 1) / chunkSize
}

// CheckChunks fails with ErrTooManyChunks when size bytes do not fit in
// maxChunks appends. A zero maxChunks disables the check.
func CheckChunks(size int, chunkSize int, maxChunks uint64) error {
	if maxChunks == 0 {
		return nil
	}
	needed := ChunkCount(size, chunkSize)
	if uint64(needed) > maxChunks {
		return fmt.Errorf("%w: %d bytes need %d chunks, limit is %d", ErrTooManyChunks, size, needed, maxChunks)
	}
	return nil
}
