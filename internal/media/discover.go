package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/vblogger/vblogger/internal/ffmpeg"
)

// progressInterval is how many processed files pass between progress logs.
const progressInterval = 20

// videoProber is the slice of the ffmpeg layer the walker needs.
type videoProber interface {
	ProbeVideo(ctx context.Context, path string) (*ffmpeg.VideoInfo, error)
}

// WalkerOptions carries the per-run curation thresholds.
type WalkerOptions struct {
	BlurThreshold     float64
	MinVideoDuration  time.Duration
	MinVideoDimension int
	// Concurrency is the number of files processed in parallel; values
	// below 1 mean serial processing.
	Concurrency int
}

// Walker enumerates a folder plus its immediate subfolders and routes every
// candidate file through conversion, quality filtering and metadata
// extraction. Per-file faults are absorbed here: one corrupt file never
// fails the run.
type Walker struct {
	logger    zerolog.Logger
	converter *Converter
	prober    videoProber
	opts      WalkerOptions
}

// NewWalker creates a walker.
func NewWalker(logger zerolog.Logger, converter *Converter, prober videoProber, opts WalkerOptions) *Walker {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	return &Walker{
		logger:    logger.With().Str("component", "walker").Logger(),
		converter: converter,
		prober:    prober,
		opts:      opts,
	}
}

// candidate is a supported file awaiting processing. The index preserves
// discovery order for tie-breaking the timestamp sort.
type candidate struct {
	path  string
	kind  Kind
	index int
}

// Discover walks root (depth 1), processes every supported file and returns
// the accepted items sorted ascending by timestamp. A missing or
// non-directory root is the one fatal condition; an empty result is not an
// error.
func (w *Walker) Discover(ctx context.Context, root string) ([]*Item, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root: %w", err)
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("root folder: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root folder %q is not a directory", root)
	}

	candidates, err := w.collect(root)
	if err != nil {
		return nil, err
	}

	w.logger.Info().Int("candidates", len(candidates)).Str("root", root).Msg("discovery started")

	items := w.processAll(ctx, candidates)

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].item.Timestamp.Equal(items[j].item.Timestamp) {
			return items[i].index < items[j].index
		}
		return items[i].item.Timestamp.Before(items[j].item.Timestamp)
	})

	out := make([]*Item, len(items))
	for i, r := range items {
		out[i] = r.item
	}

	w.logger.Info().Int("accepted", len(out)).Msg("discovery complete")
	return out, nil
}

// collect runs the two enumeration passes: files directly under root, then
// the entries of each direct subdirectory. Deeper nesting is not visited.
func (w *Walker) collect(root string) ([]candidate, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read root folder: %w", err)
	}

	var candidates []candidate
	var subdirs []string

	appendFile := func(dir string, name string) {
		kind, ok := classify(name)
		if !ok {
			return
		}
		candidates = append(candidates, candidate{
			path:  filepath.Join(dir, name),
			kind:  kind,
			index: len(candidates),
		})
	}

	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		if entry.IsDir() {
			subdirs = append(subdirs, filepath.Join(root, entry.Name()))
			continue
		}
		appendFile(root, entry.Name())
	}

	for _, dir := range subdirs {
		sub, err := os.ReadDir(dir)
		if err != nil {
			w.logger.Warn().Err(err).Str("dir", dir).Msg("skipping unreadable subfolder")
			continue
		}
		for _, entry := range sub {
			if strings.HasPrefix(entry.Name(), ".") || entry.IsDir() {
				continue
			}
			appendFile(dir, entry.Name())
		}
	}

	return candidates, nil
}

// accepted pairs an item with its discovery index.
type accepted struct {
	item  *Item
	index int
}

// processAll runs the convert -> filter -> extract chain over a worker
// pool. The result slice is the only shared state; appends go through a
// mutex.
func (w *Walker) processAll(ctx context.Context, candidates []candidate) []accepted {
	jobs := make(chan candidate)

	var mu sync.Mutex
	var results []accepted
	var processed atomic.Int64

	var wg sync.WaitGroup
	for i := 0; i < w.opts.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for c := range jobs {
				item := w.processOne(ctx, c)

				if n := processed.Add(1); n%progressInterval == 0 {
					w.logger.Info().Int64("processed", n).Int("total", len(candidates)).Msg("progress")
				}

				if item != nil {
					mu.Lock()
					results = append(results, accepted{item: item, index: c.index})
					mu.Unlock()
				}
			}
		}()
	}

	for _, c := range candidates {
		jobs <- c
	}
	close(jobs)
	wg.Wait()

	return results
}

// processOne turns a candidate into an item, or nil when the file is
// rejected or unprocessable. All failures are logged and absorbed.
func (w *Walker) processOne(ctx context.Context, c candidate) *Item {
	switch c.kind {
	case KindPhoto:
		return w.processPhoto(ctx, c.path)
	case KindVideo:
		return w.processVideo(ctx, c.path)
	default:
		return nil
	}
}

func (w *Walker) processPhoto(ctx context.Context, path string) *Item {
	processing := w.converter.EnsureDecodable(ctx, path)

	if IsBlurry(processing, w.opts.BlurThreshold) {
		w.logger.Info().Str("path", path).Msg("skipping blurry image")
		return nil
	}

	meta, err := readPhotoMeta(processing)
	if err != nil {
		w.logger.Warn().Err(err).Str("path", path).Msg("skipping unreadable photo")
		return nil
	}

	for _, d := range meta.Diagnostics {
		w.logger.Debug().Str("path", path).Str("reason", d).Msg("metadata fallback")
	}

	return &Item{
		Kind:           KindPhoto,
		SourcePath:     path,
		ProcessingPath: processing,
		Timestamp:      meta.Timestamp,
		Location:       meta.Location,
		Width:          meta.Width,
		Height:         meta.Height,
	}
}

func (w *Walker) processVideo(ctx context.Context, path string) *Item {
	info, err := os.Stat(path)
	if err != nil {
		w.logger.Warn().Err(err).Str("path", path).Msg("skipping unreadable video")
		return nil
	}

	probe, err := w.prober.ProbeVideo(ctx, path)
	if err != nil {
		w.logger.Warn().Err(err).Str("path", path).Msg("skipping unprobeable video")
		return nil
	}

	if probe.Duration < w.opts.MinVideoDuration ||
		probe.Width < w.opts.MinVideoDimension ||
		probe.Height < w.opts.MinVideoDimension {
		w.logger.Info().
			Str("path", path).
			Dur("duration", probe.Duration).
			Int("width", probe.Width).
			Int("height", probe.Height).
			Msg("skipping degenerate video")
		return nil
	}

	w.logger.Debug().
		Str("path", path).
		Dur("duration", probe.Duration).
		Float64("fps", probe.FPS).
		Msg("accepted video")

	return &Item{
		Kind:           KindVideo,
		SourcePath:     path,
		ProcessingPath: path,
		Timestamp:      info.ModTime(),
		Duration:       probe.Duration,
		Width:          probe.Width,
		Height:         probe.Height,
	}
}
