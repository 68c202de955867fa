package service

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/cbrief/chain-daily/internal/model"
	"github.com/cbrief/chain-daily/internal/repository"
	"github.com/cbrief/chain-daily/internal/repository/source"
	"github.com/cbrief/chain-daily/internal/service/filter"
)

// Synthesizer produces the single article for a run.
type Synthesizer interface {
	Synthesize(ctx context.Context, batch model.Batch, date time.Time) (model.Article, error)
}

// Illustrator produces illustrations for an article.
type Illustrator interface {
	Illustrate(ctx context.Context, article model.Article) []model.Illustration
	Requested(article model.Article) int
}

// Assembler builds the deliverable artifact.
type Assembler interface {
	Assemble(slug string, article model.Article, illustrations []model.Illustration) (model.Artifact, error)
}

// Pipeline runs the full daily flow: fetch, filter, synthesize,
// illustrate, assemble, dispatch. A nil mailer, post store, or archive
// marks that dispatch channel as skipped.
type Pipeline struct {
	sources     []source.Source
	synthesizer Synthesizer
	illustrator Illustrator
	assembler   Assembler

	mailer  repository.Mailer
	posts   repository.PostStore
	archive repository.Archive

	window     time.Duration
	minLength  int
	slugPrefix string
	outputDir  string
}

// PipelineDeps carries the collaborators for NewPipeline.
type PipelineDeps struct {
	Sources     []source.Source
	Synthesizer Synthesizer
	Illustrator Illustrator
	Assembler   Assembler

	Mailer  repository.Mailer
	Posts   repository.PostStore
	Archive repository.Archive

	Window     time.Duration
	MinLength  int
	SlugPrefix string
	OutputDir  string
}

// NewPipeline creates the orchestrator.
func NewPipeline(deps PipelineDeps) *Pipeline {
	return &Pipeline{
		sources:     deps.Sources,
		synthesizer: deps.Synthesizer,
		illustrator: deps.Illustrator,
		assembler:   deps.Assembler,
		mailer:      deps.Mailer,
		posts:       deps.Posts,
		archive:     deps.Archive,
		window:      deps.Window,
		minLength:   deps.MinLength,
		slugPrefix:  deps.SlugPrefix,
		outputDir:   deps.OutputDir,
	}
}

// Run executes one pipeline run for the given date. The returned
// record is always populated through the stage it reached; the error
// is non-nil only for an aborted run.
func (p *Pipeline) Run(ctx context.Context, date time.Time) (*model.RunRecord, error) {
	record := model.NewRunRecord(p.slugPrefix, date)
	log.Printf("🚀 Run %s starting (%d sources)", record.Slug, len(p.sources))

	// Fetching. A failed source contributes zero items but never
	// fails the run.
	var items []model.RawItem
	for _, src := range p.sources {
		fetched, err := src.Fetch(ctx, p.window)
		if err != nil {
			log.Printf("❌ Source %s failed: %v", src.Name(), err)
			record.FailedSources = append(record.FailedSources, src.Name())
			continue
		}
		log.Printf("📡 Source %s: %d items", src.Name(), len(fetched))
		items = append(items, fetched...)
	}
	record.FetchedItems = len(items)

	record.State = model.StateFiltering
	batch := filter.Apply(items, filter.Options{
		Window:    p.window,
		MinLength: p.minLength,
		Now:       windowEnd(date),
	})
	record.FilteredItems = len(batch.Items)
	log.Printf("🔍 Filtered: %d of %d items kept", record.FilteredItems, record.FetchedItems)

	if batch.IsEmpty() {
		return p.abort(record, model.AbortNoContent)
	}

	record.State = model.StateSynthesizing
	article, err := p.synthesizer.Synthesize(ctx, batch, date)
	if err != nil {
		log.Printf("❌ Synthesis failed: %v", err)
		return p.abort(record, model.AbortSynthesisFailure)
	}
	record.Article = &article

	// Illustrating is never skipped and never fatal: zero usable
	// illustrations just means a text-only document.
	record.State = model.StateIllustrating
	record.IllustrationsRequested = p.illustrator.Requested(article)
	illustrations := p.illustrator.Illustrate(ctx, article)
	for _, il := range illustrations {
		if il.Usable() {
			record.Illustrations++
		}
	}

	record.State = model.StateAssembling
	artifact, err := p.assembler.Assemble(record.Slug, article, illustrations)
	if err != nil {
		log.Printf("❌ Assembly failed: %v", err)
		return p.abort(record, model.AbortAssemblyFailure)
	}

	record.State = model.StateDispatching
	p.dispatch(ctx, record, artifact)
	p.writeBackup(record.Slug, article)

	record.State = model.StateDone
	log.Printf("🎉 %s", record.Summary())
	return record, nil
}

// dispatch attempts every configured channel independently and records
// each outcome. No channel failure stops the others.
func (p *Pipeline) dispatch(ctx context.Context, record *model.RunRecord, artifact model.Artifact) {
	if p.mailer != nil {
		switch err := p.mailer.SendReport(ctx, record, artifact); {
		case err == nil:
			record.MailStatus = model.DeliverySucceeded
			log.Printf("📧 Mail sent for %s", record.Slug)
		case repository.IsAmbiguousDelivery(err):
			record.MailStatus = model.DeliveryAmbiguous
			log.Printf("⚠️ Mail delivery ambiguous for %s: %v", record.Slug, err)
		default:
			record.MailStatus = model.DeliveryFailed
			log.Printf("❌ Mail failed for %s: %v", record.Slug, err)
		}
	}

	if p.posts != nil {
		if err := p.posts.UpsertPost(ctx, record.Slug, *record.Article); err != nil {
			record.PersistStatus = model.DeliveryFailed
			log.Printf("❌ Persist failed for %s: %v", record.Slug, err)
		} else {
			record.PersistStatus = model.DeliverySucceeded
			log.Printf("💾 Post upserted: %s", record.Slug)
		}
	}

	if p.archive != nil {
		if err := p.archive.StoreArtifact(ctx, record.Slug, artifact); err != nil {
			record.ArchiveStatus = model.DeliveryFailed
			log.Printf("❌ Archive failed for %s: %v", record.Slug, err)
		} else {
			record.ArchiveStatus = model.DeliverySucceeded
			log.Printf("☁️ Artifact archived: %s", record.Slug)
		}
	}
}

// writeBackup drops a markdown copy of the article in the output
// directory. Best effort: a failure is logged and otherwise ignored.
func (p *Pipeline) writeBackup(slug string, article model.Article) {
	if p.outputDir == "" {
		return
	}
	if err := os.MkdirAll(p.outputDir, 0o755); err != nil {
		log.Printf("⚠️ Backup directory unavailable: %v", err)
		return
	}

	content := fmt.Sprintf("# %s\n\n*%s*\n\n%s\n\n%s\n",
		article.Title, article.Date.Format("2006-01-02"), article.Description, article.Body())
	path := filepath.Join(p.outputDir, slug+".md")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		log.Printf("⚠️ Backup write failed: %v", err)
		return
	}
	log.Printf("📝 Markdown backup written: %s", path)
}

func (p *Pipeline) abort(record *model.RunRecord, reason model.AbortReason) (*model.RunRecord, error) {
	record.State = model.StateAborted
	record.AbortReason = reason
	log.Printf("🛑 %s", record.Summary())
	return record, fmt.Errorf("run %s aborted: %s", record.Slug, reason)
}

// windowEnd anchors the freshness window: a run for today measures
// from now, a backfill run measures from the end of its target day.
func windowEnd(date time.Time) time.Time {
	now := time.Now()
	if now.Format("2006-01-02") == date.Format("2006-01-02") {
		return now
	}
	return time.Date(date.Year(), date.Month(), date.Day(), 23, 59, 59, 0, date.Location())
}
