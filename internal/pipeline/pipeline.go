// Package pipeline wires the algorithm registries and the snapshot-state
// tree into the five-stage walk/chunk/pack-assemble/pack-prepare/store data
// plane: one goroutine each for Walk, Chunk, and Pack-assemble, N goroutines
// for Pack-prepare, and one for Store, connected by channels sized to
// impose the backpressure the concurrency model calls for.
package pipeline

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/quantarax/snapshot/internal/chunker"
	"github.com/quantarax/snapshot/internal/compress"
	"github.com/quantarax/snapshot/internal/config"
	"github.com/quantarax/snapshot/internal/ecc"
	"github.com/quantarax/snapshot/internal/encrypt"
	"github.com/quantarax/snapshot/internal/hash"
	"github.com/quantarax/snapshot/internal/observability"
	"github.com/quantarax/snapshot/internal/snapshot"
)

// unboundedCapacity is how large a buffered channel is given, when
// cfg.EventBufferSize is not positive, to stand in for the "unbounded"
// Walk->Chunk and Chunk->Pack-assemble queues: large
// enough that a single root's worth of paths or chunks essentially never
// blocks the producer, without the complexity of a dynamically growing
// channel implementation.
const unboundedCapacity = 4096

// Pipeline holds one fully-built set of algorithm instances and the
// collaborators (sink, logger, metrics) every run shares.
type Pipeline struct {
	cfg        *config.Config
	chunker    chunker.Chunker
	hasher     hash.Hasher
	compressor compress.Compressor
	encryptor  encrypt.Encryptor
	ecc        ecc.Codec
	sink       Sink
	logger     *observability.Logger
	metrics    *observability.Metrics

	snapshotID string
	passphrase string
}

// New builds a Pipeline from cfg, resolving every algorithm name against
// its registry once so every file in a run reuses the same instances.
func New(cfg *config.Config, sink Sink, logger *observability.Logger, metrics *observability.Metrics) (*Pipeline, error) {
	c, err := chunker.Build(cfg.ChunkerName, cfg.TargetBlockSize)
	if err != nil {
		return nil, fmt.Errorf("pipeline: building chunker: %w", err)
	}
	h, err := hash.Build(cfg.HasherName)
	if err != nil {
		return nil, fmt.Errorf("pipeline: building hasher: %w", err)
	}
	comp, err := compress.Build(cfg.CompressorName)
	if err != nil {
		return nil, fmt.Errorf("pipeline: building compressor: %w", err)
	}
	enc, err := encrypt.Build(cfg.EncryptorName)
	if err != nil {
		return nil, fmt.Errorf("pipeline: building encryptor: %w", err)
	}
	e, err := ecc.Build(cfg.ECCName)
	if err != nil {
		return nil, fmt.Errorf("pipeline: building ECC codec: %w", err)
	}

	return &Pipeline{
		cfg:        cfg,
		chunker:    c,
		hasher:     h,
		compressor: comp,
		encryptor:  enc,
		ecc:        e,
		sink:       sink,
		logger:     logger,
		metrics:    metrics,
	}, nil
}

// Run walks root, chunks and packs everything under it, and drives every
// chunk through to a stored, prepared pack. It blocks until every stage has
// drained and returns the completed snapshot-state tree. The passphrase is
// only consulted if the configured encryptor is not the identity encryptor.
// One Pipeline runs one snapshot at a time; start a second Pipeline for a
// concurrent run.
func (p *Pipeline) Run(ctx context.Context, root, passphrase string) (*snapshot.SnapshotBuilder, error) {
	p.snapshotID = uuid.New().String()
	p.passphrase = passphrase

	var span trace.Span
	ctx, span = otel.Tracer("snapshot-pipeline").Start(ctx, "pipeline.run")
	span.SetAttributes(
		attribute.String("snapshot.id", p.snapshotID),
		attribute.String("snapshot.root", root),
	)
	defer span.End()

	snap := snapshot.NewSnapshotBuilder(root)
	runLogger := p.logger.WithSnapshot(p.snapshotID)
	p.logger = runLogger

	monitor := NewMonitor(snap, runLogger, 0)
	monitor.Start()
	defer monitor.Stop()

	bufSize := p.cfg.EventBufferSize
	if bufSize <= 0 {
		bufSize = unboundedCapacity
	}
	walkOut := make(chan walkMessage, bufSize)
	chunkOut := make(chan chunkMessage, bufSize)
	packOut := make(chan packMessage) // rendezvous: cap 0
	preparedOut := make(chan preparedMessage) // rendezvous: cap 0

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		p.walkStage(snap, root, walkOut)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		p.chunkStage(walkOut, chunkOut)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		p.packAssembleStage(chunkOut, packOut)
	}()

	prepareWorkers := p.cfg.PrepareThreads
	if prepareWorkers < 1 {
		prepareWorkers = 1
	}
	var prepareWg sync.WaitGroup
	for i := 0; i < prepareWorkers; i++ {
		prepareWg.Add(1)
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer prepareWg.Done()
			p.packPrepareStage(packOut, preparedOut)
		}()
	}
	go func() {
		prepareWg.Wait()
		close(preparedOut)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		p.storeStage(preparedOut)
	}()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	// Stages don't select on ctx mid-flight, so cancellation changes only
	// the returned error, not how long Run takes to return.
	select {
	case <-done:
		return snap, nil
	case <-ctx.Done():
		<-done
		return snap, ctx.Err()
	}
}
