package wavstream

// ChunkInfo describes a chunk ReadWav skipped while looking for the fmt and
// data chunks.
type ChunkInfo struct {
	ID [4]byte
	// Size is the declared payload size, excluding the 8 byte chunk header.
	Size uint32
	// Offset is the position of the chunk header in the stream.
	Offset int64
	// BeforeFmt indicates the chunk appeared before the fmt chunk.
	BeforeFmt bool
}

// String implements the Stringer interface.
func (c ChunkInfo) String() string {
	return string(c.ID[:])
}

func cloneChunkInfos(chunks []ChunkInfo) []ChunkInfo {
	if len(chunks) == 0 {
		return nil
	}

	return append([]ChunkInfo(nil), chunks...)
}
