package pipeline

import "log/slog"

// Observer receives progress events from the batch scheduler. Chunk
// completions are reported from concurrent goroutines, so implementations
// must be safe for concurrent use.
type Observer interface {
	BatchStarted(batch, totalBatches, size int)
	ChunkDone(index int, err error)
}

// slogObserver reports progress through a structured logger.
type slogObserver struct {
	log *slog.Logger
}

// NewLogObserver returns an Observer backed by log.
func NewLogObserver(log *slog.Logger) Observer {
	if log == nil {
		log = slog.Default()
	}
	return &slogObserver{log: log}
}

func (o *slogObserver) BatchStarted(batch, totalBatches, size int) {
	o.log.Info("pipeline.batch.started",
		"batch", batch+1, "total_batches", totalBatches, "size", size)
}

func (o *slogObserver) ChunkDone(index int, err error) {
	if err != nil {
		o.log.Error("pipeline.chunk.failed", "chunk", index, "error", err)
		return
	}
	o.log.Info("pipeline.chunk.done", "chunk", index)
}
