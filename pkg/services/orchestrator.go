package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/joelsnl/noveldl/pkg/cleaner"
	"github.com/joelsnl/noveldl/pkg/data"
	"github.com/joelsnl/noveldl/pkg/integrations"
	"github.com/joelsnl/noveldl/pkg/scheduler"
	"github.com/joelsnl/noveldl/pkg/sources"
	"github.com/joelsnl/noveldl/pkg/translator"
)

// SkipPolicy decides what the document gets for a failed chapter.
type SkipPolicy int

const (
	// SkipFailedOmit leaves failed chapters out of the document.
	SkipFailedOmit SkipPolicy = iota
	// SkipFailedPlaceholder inserts a placeholder section naming the failure.
	SkipFailedPlaceholder
)

// Config is the pipeline configuration surface.
type Config struct {
	Workers          int
	TranslateEnabled bool
	SourceLang       string
	TargetLang       string
	MaxChunkChars    int
	MaxRetries       int
	BaseBackoff      time.Duration
	MaxBackoff       time.Duration
	AllowPartial     bool
	SkipFailed       SkipPolicy
}

// Progress is a pipeline status update. Done counts delivered plus failed
// chapters and only ever increases.
type Progress struct {
	ChapterIndex int
	ChapterTitle string
	Status       data.Status
	Done         int
	Total        int
	Err          error
}

type Failure struct {
	Index int
	Title string
	Err   error
}

// Report aggregates a run: every chapter ends up in exactly one list.
type Report struct {
	Delivered  []int
	Failed     []Failure
	OutputPath string
}

// Orchestrator drives the full flow per chapter: fetch, clean, translate
// (or passthrough), ordered delivery to the document builder. No single
// chapter's failure aborts the run.
type Orchestrator struct {
	parser  sources.Parser
	builder integrations.DocumentBuilder
	clean   *cleaner.Cleaner
	tc      translator.ChunkTranslator
	repo    *data.Repository
	cfg     Config

	progress chan Progress

	mu    sync.Mutex
	done  int
	total int
}

func NewOrchestrator(parser sources.Parser, builder integrations.DocumentBuilder, cfg Config) *Orchestrator {
	if cfg.Workers < 1 {
		cfg.Workers = scheduler.DefaultWorkers
	}

	var tc translator.ChunkTranslator = translator.Identity{}
	if cfg.TranslateEnabled {
		tc = translator.NewGoogleClient(translator.Config{
			SourceLang:    cfg.SourceLang,
			TargetLang:    cfg.TargetLang,
			MaxChunkChars: cfg.MaxChunkChars,
			Retry: translator.RetryPolicy{
				MaxAttempts: cfg.MaxRetries,
				BaseDelay:   cfg.BaseBackoff,
				MaxDelay:    cfg.MaxBackoff,
				Jitter:      0.5,
			},
		})
	}

	return &Orchestrator{
		parser:   parser,
		builder:  builder,
		clean:    cleaner.New(),
		tc:       tc,
		cfg:      cfg,
		progress: make(chan Progress, 100),
	}
}

// SetRepository attaches an optional library repository; chapter state is
// persisted as stages complete.
func (o *Orchestrator) SetRepository(repo *data.Repository) {
	o.repo = repo
}

// Progress returns the channel of status updates for the UI layer. Closed
// when the run finishes.
func (o *Orchestrator) Progress() <-chan Progress {
	return o.progress
}

// Run resolves the novel from its URL and processes every chapter.
// Cancelling ctx is the single cancellation entry point: it stops further
// fetching, cleaning and translation dispatch, and the report still covers
// whatever completed before the cutoff.
func (o *Orchestrator) Run(ctx context.Context, url string) (*Report, error) {
	novel, err := o.parser.GetNovelInfo(ctx, url)
	if err != nil {
		return nil, err
	}
	novel.Chapters, err = o.parser.GetChapterList(ctx, url)
	if err != nil {
		return nil, err
	}
	return o.RunNovel(ctx, novel)
}

// RunNovel processes an already-resolved novel.
func (o *Orchestrator) RunNovel(ctx context.Context, novel *data.Novel) (*Report, error) {
	defer close(o.progress)

	if err := o.builder.Init(novel); err != nil {
		return nil, err
	}
	if o.repo != nil {
		if err := o.repo.SaveNovel(novel); err == nil {
			for _, ch := range novel.Chapters {
				o.repo.SaveChapter(novel.ID, ch)
			}
		}
	}

	o.mu.Lock()
	o.total = len(novel.Chapters)
	o.mu.Unlock()

	sched := scheduler.New(o.tc, scheduler.Config{
		Workers:      o.cfg.Workers,
		AllowPartial: o.cfg.AllowPartial,
	})
	sched.Start(ctx)
	go o.produce(ctx, novel, sched)

	report := &Report{}
	for res := range sched.Results() {
		ch := novel.Chapters[res.Index]
		if res.Err != nil {
			ch.Fail(res.Err)
			report.Failed = append(report.Failed, Failure{Index: res.Index, Title: res.Title, Err: res.Err})
			if o.cfg.SkipFailed == SkipFailedPlaceholder {
				if err := o.builder.AddChapter(res.Index, res.Title, placeholderBody(res.Err)); err != nil {
					return report, err
				}
			}
		} else {
			if o.cfg.TranslateEnabled {
				ch.Translated = res.Text
				ch.Advance(data.StatusTranslated)
			}
			if err := o.builder.AddChapter(res.Index, res.Title, res.Text); err != nil {
				return report, err
			}
			ch.Advance(data.StatusDelivered)
			report.Delivered = append(report.Delivered, res.Index)
		}
		o.finish(novel.ID, ch)
	}

	path, err := o.builder.Finalize()
	if err != nil {
		return report, err
	}
	report.OutputPath = path
	if o.repo != nil && novel.ID != "" {
		o.repo.SetEpubPath(novel.ID, path)
	}
	return report, nil
}

// produce fetches and cleans chapters in index order and hands them to the
// scheduler. Fetching is sequential: the page fetcher rate-limits per site
// anyway, and sequential submission is what makes the scheduler's release
// order equal the chapter index order.
func (o *Orchestrator) produce(ctx context.Context, novel *data.Novel, sched *scheduler.Scheduler) {
	defer sched.Done()
	for _, ch := range novel.Chapters {
		if ctx.Err() != nil {
			sched.Fail(ch.Index, ch.Title, scheduler.ErrCancelled)
			continue
		}

		raw, err := o.parser.GetChapterContent(ctx, ch)
		if err != nil {
			if ctx.Err() != nil {
				err = scheduler.ErrCancelled
			}
			sched.Fail(ch.Index, ch.Title, err)
			continue
		}
		ch.Raw = raw
		ch.Advance(data.StatusFetched)
		o.emit(ch)

		ch.Cleaned = o.clean.Clean(raw)
		ch.Advance(data.StatusCleaned)
		if o.cfg.TranslateEnabled {
			ch.Advance(data.StatusTranslating)
		}
		o.emit(ch)

		// A cancellation error here is already accounted for by the
		// scheduler; remaining chapters get Fail()ed on the next spin.
		sched.Submit(ctx, ch.Index, ch.Title, ch.Cleaned)
	}
}

// finish records a terminal chapter state: bumps the monotonic counter,
// persists and publishes it.
func (o *Orchestrator) finish(novelID string, ch *data.Chapter) {
	o.mu.Lock()
	o.done++
	o.mu.Unlock()

	if o.repo != nil && novelID != "" {
		var errText string
		if ch.Err != nil {
			errText = ch.Err.Error()
		}
		o.repo.UpdateChapterStatus(novelID, ch.Index, ch.Status, errText)
	}
	o.emit(ch)
}

// emit publishes a progress update without blocking; a slow or absent UI
// must never stall the pipeline.
func (o *Orchestrator) emit(ch *data.Chapter) {
	o.mu.Lock()
	done, total := o.done, o.total
	o.mu.Unlock()

	select {
	case o.progress <- Progress{
		ChapterIndex: ch.Index,
		ChapterTitle: ch.Title,
		Status:       ch.Status,
		Done:         done,
		Total:        total,
		Err:          ch.Err,
	}:
	default:
	}
}

func placeholderBody(cause error) string {
	return fmt.Sprintf("This chapter could not be processed.\n\nReason: %v", cause)
}
