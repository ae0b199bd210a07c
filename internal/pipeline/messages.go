package pipeline

import (
	"github.com/quantarax/snapshot/internal/pack"
	"github.com/quantarax/snapshot/internal/pathwalk"
	"github.com/quantarax/snapshot/internal/snapshot"
)

// walkMessage carries one discovered path from the Walk stage to Chunk.
type walkMessage struct {
	entry pathwalk.Entry
	path  *snapshot.PathBuilder
}

// chunkMessage carries one cut chunk's bytes from Chunk to Pack-assemble,
// along with the builders that need its hash and pack location recorded.
type chunkMessage struct {
	path         *snapshot.PathBuilder
	chunkBuilder *snapshot.ChunkBuilder
	key          pack.ChunkKey
	data         []byte
}

// packChunkRef remembers, for one chunk embedded in a pack, which builders
// to update once that pack is prepared (or to fail, if preparation errors).
type packChunkRef struct {
	path         *snapshot.PathBuilder
	chunkBuilder *snapshot.ChunkBuilder
	key          pack.ChunkKey
}

// packMessage carries one fully assembled pack from Pack-assemble to
// Pack-prepare.
type packMessage struct {
	builder *pack.PackBuilder
	chunks  []packChunkRef
}

// preparedMessage carries one pack's preparation outcome from Pack-prepare
// to Store: either a PreparedPack ready to hand to the sink, or an error
// that must be propagated to every path with a chunk inside that pack.
type preparedMessage struct {
	prepared pack.PreparedPack
	chunks   []packChunkRef
	err      error
}
