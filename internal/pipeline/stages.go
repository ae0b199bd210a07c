package pipeline

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/quantarax/snapshot/internal/pack"
	"github.com/quantarax/snapshot/internal/pathwalk"
	"github.com/quantarax/snapshot/internal/snapshot"
)

// walkStage discovers every path under root, registers one PathBuilder per
// entry on snap, and forwards each to the chunk stage. It is the only
// writer of snap's expected path count.
func (p *Pipeline) walkStage(snap *snapshot.SnapshotBuilder, root string, out chan<- walkMessage) {
	defer close(out)

	start := time.Now()
	entries, err := pathwalk.Walk(root)
	if err != nil {
		snap.SetError(err)
		p.metrics.RecordWalkError("walk_failed")
		p.logger.Error(err, "walk failed")
		return
	}

	for _, entry := range entries {
		pb := snapshot.NewPathBuilder(entry.AbsPath, entry.RelPath)
		snap.AddPath(pb)
		if entry.Info.Size() == 0 {
			pb.SetExpectedChunkCount(0)
		}
		out <- walkMessage{entry: entry, path: pb}
	}
	snap.SetExpectedPathCount(len(entries))

	elapsed := time.Since(start)
	p.metrics.RecordWalk(len(entries), elapsed.Seconds())
	p.logger.WalkCompleted(p.snapshotID, root, len(entries), elapsed)
}

// chunkStage splits each walked file into content-defined chunks and
// forwards each chunk's bytes to pack-assemble. Empty files were already
// marked complete by the walk stage and are skipped here.
func (p *Pipeline) chunkStage(in <-chan walkMessage, out chan<- chunkMessage) {
	defer close(out)

	for msg := range in {
		if msg.entry.Info.Size() == 0 {
			continue
		}

		start := time.Now()
		cuts, err := p.chunker.Split(msg.entry.AbsPath)
		if err != nil {
			msg.path.SetError(fmt.Errorf("chunking %s: %w", msg.entry.RelPath, err))
			continue
		}

		f, err := os.Open(msg.entry.AbsPath)
		if err != nil {
			msg.path.SetError(fmt.Errorf("opening %s for chunk extraction: %w", msg.entry.RelPath, err))
			continue
		}

		msg.path.SetExpectedChunkCount(len(cuts))
		for idx, cut := range cuts {
			data := make([]byte, cut.Length)
			if _, err := f.ReadAt(data, cut.Offset); err != nil {
				msg.path.SetError(fmt.Errorf("reading chunk %d of %s: %w", idx, msg.entry.RelPath, err))
				break
			}

			cb := snapshot.NewChunkBuilder(idx, cut.Length)
			msg.path.AddChunk(cb)
			p.metrics.RecordChunkCut(cut.Length)
			p.logger.ChunkCut(p.snapshotID, msg.entry.RelPath, idx, cut.Length)

			out <- chunkMessage{
				path:         msg.path,
				chunkBuilder: cb,
				key:          pack.ChunkKey{PathRel: msg.entry.RelPath, ChunkIndex: idx},
				data:         data,
			}
		}
		f.Close()
		p.metrics.RecordChunkDuration(time.Since(start).Seconds())
	}
}

// packAssembleStage hashes each incoming chunk, appends it to the current
// pack buffer, and cuts a new pack once the buffer exceeds the configured
// target size. It owns exactly one PackBuilder at a time.
func (p *Pipeline) packAssembleStage(in <-chan chunkMessage, out chan<- packMessage) {
	defer close(out)

	current := p.newPackBuilder()
	var refs []packChunkRef
	assembleStart := time.Now()

	flush := func() {
		if len(refs) == 0 {
			return
		}
		p.metrics.RecordPackAssembled(time.Since(assembleStart).Seconds())
		out <- packMessage{builder: current, chunks: refs}
		current = p.newPackBuilder()
		refs = nil
		assembleStart = time.Now()
	}

	for msg := range in {
		msg.chunkBuilder.SetHash(p.hasher.Sum(msg.data))
		if err := current.AddChunk(msg.key, msg.data); err != nil {
			msg.chunkBuilder.SetError(err)
			continue
		}
		refs = append(refs, packChunkRef{path: msg.path, chunkBuilder: msg.chunkBuilder, key: msg.key})

		if current.Size() > p.cfg.PackSize {
			flush()
		}
	}
	flush()
}

// packPrepareStage runs as one of N workers pulling assembled packs off a
// shared channel and carrying each through hash/compress/encrypt/ECC.
func (p *Pipeline) packPrepareStage(in <-chan packMessage, out chan<- preparedMessage) {
	for msg := range in {
		p.metrics.RecordPackPrepareStart()
		start := time.Now()

		prepared, err := pack.Prepare(msg.builder, p.hasher, p.compressor, p.encryptor, p.ecc, p.passphrase)
		elapsed := time.Since(start)

		if err != nil {
			p.metrics.RecordPackPrepareComplete(false, 0, 0, elapsed.Seconds())
			p.logger.PackPrepareFailed(msg.builder.ID(), err)
			out <- preparedMessage{chunks: msg.chunks, err: err}
			continue
		}

		p.metrics.RecordPackPrepareComplete(true, msg.builder.Size(), int64(len(prepared.Data)), elapsed.Seconds())
		p.logger.PackPrepared(msg.builder.ID(), msg.builder.Size(), int64(len(prepared.Data)), elapsed)
		out <- preparedMessage{prepared: prepared, chunks: msg.chunks}
	}
}

// storeStage is the pipeline's terminal stage: on a prepared pack it
// records every embedded chunk's storage location and hands the pack to
// the sink; on a failed pack it propagates the error to every path with a
// chunk inside it, annotated with that chunk's index.
func (p *Pipeline) storeStage(in <-chan preparedMessage) {
	for msg := range in {
		if msg.err != nil {
			for _, ref := range msg.chunks {
				ref.path.SetError(fmt.Errorf("error creating pack with chunk %d: %w", ref.key.ChunkIndex, msg.err))
			}
			continue
		}

		start := time.Now()
		if err := p.sink.Store(msg.prepared); err != nil {
			for _, ref := range msg.chunks {
				ref.path.SetError(fmt.Errorf("storing pack %s for chunk %d of %s: %w", msg.prepared.ID, ref.key.ChunkIndex, ref.key.PathRel, err))
			}
			continue
		}
		p.metrics.RecordPackStored(int64(len(msg.prepared.Data)), time.Since(start).Seconds())
		p.logger.PackStored(msg.prepared.ID, int64(len(msg.prepared.Data)))

		locByKey := make(map[pack.ChunkKey]pack.ChunkLocation, len(msg.prepared.ChunkLocations))
		for _, loc := range msg.prepared.ChunkLocations {
			locByKey[loc.Key] = loc
		}
		for _, ref := range msg.chunks {
			loc := locByKey[ref.key]
			ref.chunkBuilder.SetLocation(snapshot.PackLocation{
				PackID: msg.prepared.ID,
				Offset: loc.Offset,
				Length: loc.Length,
			})
		}
	}
}

func (p *Pipeline) newPackBuilder() *pack.PackBuilder {
	capacity := p.cfg.PackSize + p.chunker.MaxBlockSize() + int64(p.encryptor.ExtraSpace())
	return pack.NewPackBuilder(uuid.New().String(), capacity)
}
