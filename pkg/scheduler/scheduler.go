package scheduler

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/joelsnl/noveldl/pkg/translator"
)

// ErrCancelled is the failure cause attached to chapters that were still
// incomplete when the run was cancelled.
var ErrCancelled = errors.New("translation cancelled")

const DefaultWorkers = 50

type Config struct {
	// Workers bounds concurrent outstanding translation requests.
	Workers int
	// AllowPartial delivers a chapter whose exhausted chunks keep their
	// source text, instead of failing the whole chapter. At least one
	// chunk must have translated for the chapter to count as delivered.
	AllowPartial bool
}

// Result is one resolved chapter. Results are emitted in ascending
// submission order: a chapter that finishes early is held back until every
// earlier chapter has resolved.
type Result struct {
	Index int
	Title string
	Text  string
	Err   error
}

// job is one chunk of one chapter. Workers pull chunk-level jobs so a
// many-chunk chapter interleaves fairly with single-chunk chapters instead
// of monopolizing a worker.
type job struct {
	index int
	chunk int
	text  string
}

type slot struct {
	title     string
	source    []string // original chunk text, for partial fallback
	chunks    []string // translated text per chunk
	errs      []error
	remaining int
	failure   error // chapter-level failure set by Fail or cancellation
	resolved  bool
}

// Scheduler runs a fixed pool of workers over a queue of chunk jobs and
// reassembles completed chapters in order.
//
// The results buffer and release cursor are the only state shared between
// workers; both live behind mu. Chapter records themselves are never
// touched here.
type Scheduler struct {
	tc  translator.ChunkTranslator
	cfg Config

	jobs chan job
	out  chan Result
	wg   sync.WaitGroup

	mu    sync.Mutex
	slots map[int]*slot
	order []int // submission order, pending release
}

func New(tc translator.ChunkTranslator, cfg Config) *Scheduler {
	if cfg.Workers < 1 {
		cfg.Workers = DefaultWorkers
	}
	return &Scheduler{
		tc:    tc,
		cfg:   cfg,
		jobs:  make(chan job, cfg.Workers*2),
		out:   make(chan Result, 64),
		slots: make(map[int]*slot),
	}
}

// Start launches the worker pool. The context is the cancellation entry
// point: once it is done no new chunk dispatches and retry sleeps abort.
func (s *Scheduler) Start(ctx context.Context) {
	for i := 0; i < s.cfg.Workers; i++ {
		s.wg.Add(1)
		go s.worker(ctx)
	}
	go func() {
		s.wg.Wait()
		s.finalize()
		close(s.out)
	}()
}

// Submit registers a chapter and enqueues one job per chunk. Chapters must
// be submitted in ascending index order; emission follows submission order.
// Blocks when the queue is full. On cancellation the not-yet-queued chunks
// are accounted as cancelled so the chapter still resolves.
func (s *Scheduler) Submit(ctx context.Context, index int, title, text string) error {
	chunks := s.tc.Split(text)

	sl := &slot{
		title:     title,
		source:    chunks,
		chunks:    make([]string, len(chunks)),
		errs:      make([]error, len(chunks)),
		remaining: len(chunks),
	}
	s.mu.Lock()
	s.slots[index] = sl
	s.order = append(s.order, index)
	if sl.remaining == 0 {
		// Empty chapter: nothing to translate, resolves immediately.
		sl.resolved = true
		s.flushLocked()
	}
	s.mu.Unlock()

	for i, chunk := range chunks {
		select {
		case s.jobs <- job{index: index, chunk: i, text: chunk}:
		case <-ctx.Done():
			s.mu.Lock()
			for k := i; k < len(chunks); k++ {
				s.recordLocked(job{index: index, chunk: k}, "", ErrCancelled)
			}
			s.mu.Unlock()
			return ctx.Err()
		}
	}
	return nil
}

// Fail registers a chapter that never reached translation (fetch or clean
// stage failure) as pre-resolved, so ordered release still accounts for it.
func (s *Scheduler) Fail(index int, title string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots[index] = &slot{title: title, failure: err, resolved: true}
	s.order = append(s.order, index)
	s.flushLocked()
}

// Done signals that no more chapters will be submitted. Workers drain the
// queue and the results channel closes once everything has resolved.
func (s *Scheduler) Done() {
	close(s.jobs)
}

// Results returns the ordered result stream. Finite, closed after Done()
// once all submitted chapters resolve; not restartable.
func (s *Scheduler) Results() <-chan Result {
	return s.out
}

func (s *Scheduler) worker(ctx context.Context) {
	defer s.wg.Done()
	for j := range s.jobs {
		// Cancellation check before each dispatch: queued jobs are
		// drained but never sent to the translator.
		if ctx.Err() != nil {
			s.record(j, "", ErrCancelled)
			continue
		}
		text, err := s.tc.TranslateChunk(ctx, j.text)
		if err != nil {
			if ctx.Err() != nil {
				err = ErrCancelled
			} else {
				err = &translator.TranslationError{ChunkIndex: j.chunk, Cause: err}
			}
			s.record(j, "", err)
			continue
		}
		s.record(j, text, nil)
	}
}

func (s *Scheduler) record(j job, text string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recordLocked(j, text, err)
}

func (s *Scheduler) recordLocked(j job, text string, err error) {
	sl := s.slots[j.index]
	if sl == nil || sl.resolved {
		return
	}
	sl.chunks[j.chunk] = text
	sl.errs[j.chunk] = err
	sl.remaining--
	if sl.remaining == 0 {
		sl.resolved = true
		s.flushLocked()
	}
}

// flushLocked releases resolved chapters from the head of the submission
// order. Called with mu held; the single cursor guarantees the consumer
// sees strictly increasing indices.
func (s *Scheduler) flushLocked() {
	for len(s.order) > 0 {
		idx := s.order[0]
		sl := s.slots[idx]
		if sl == nil || !sl.resolved {
			return
		}
		s.out <- s.assemble(idx, sl)
		delete(s.slots, idx)
		s.order = s.order[1:]
	}
}

// assemble concatenates a resolved chapter's chunks in chunk order, or
// reports its failure.
func (s *Scheduler) assemble(index int, sl *slot) Result {
	res := Result{Index: index, Title: sl.title}
	if sl.failure != nil {
		res.Err = sl.failure
		return res
	}

	var chunkErr error
	succeeded := 0
	for i := range sl.errs {
		if sl.errs[i] == nil {
			succeeded++
		} else if chunkErr == nil {
			chunkErr = sl.errs[i]
		}
	}

	if chunkErr == nil {
		res.Text = strings.Join(sl.chunks, "")
		return res
	}
	if s.cfg.AllowPartial && succeeded > 0 {
		var b strings.Builder
		for i := range sl.chunks {
			if sl.errs[i] != nil {
				b.WriteString(sl.source[i])
			} else {
				b.WriteString(sl.chunks[i])
			}
		}
		res.Text = b.String()
		return res
	}
	res.Err = chunkErr
	return res
}

// finalize runs after the worker pool exits. Any chapter still unresolved
// at that point was cut off by cancellation; it is reported failed rather
// than silently dropped.
func (s *Scheduler) finalize() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, idx := range s.order {
		if sl := s.slots[idx]; sl != nil && !sl.resolved {
			sl.failure = ErrCancelled
			sl.resolved = true
		}
	}
	s.flushLocked()
}
