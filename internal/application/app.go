package application

import (
	"context"
	"fmt"
	"time"

	"github.com/cbrief/chain-daily/internal/infrastructure"
	"github.com/cbrief/chain-daily/internal/openrouter"
	"github.com/cbrief/chain-daily/internal/repository"
	"github.com/cbrief/chain-daily/internal/repository/source"
	"github.com/cbrief/chain-daily/internal/service"
	"github.com/cbrief/chain-daily/internal/service/assembler"
	"github.com/cbrief/chain-daily/internal/service/illustrator"
	"github.com/cbrief/chain-daily/internal/service/synthesizer"
)

// Application represents the application with all business logic components
type Application struct {
	Config   *infrastructure.Config
	Pipeline *service.Pipeline
	Archive  repository.Archive
	cleanup  func() error
}

// New creates a new application instance with all dependencies
func New(ctx context.Context) (*Application, error) {
	cfg, err := infrastructure.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	sourceConfigs, err := infrastructure.LoadSources(cfg.SourcesFile)
	if err != nil {
		return nil, fmt.Errorf("loading sources: %w", err)
	}
	sources := source.FromConfigs(sourceConfigs)

	client := openrouter.NewClient(cfg.OpenRouterAPIKey, cfg.OpenRouterBaseURL, cfg.TextModel, cfg.ImageModel)
	textGen := repository.NewTextGenerator(client)
	imageGen := repository.NewImageGenerator(client)

	synth := synthesizer.New(textGen, cfg.EnableSynthesis, cfg.TargetArticleChars)
	illus := illustrator.New(imageGen, illustrator.Options{
		Enabled:          cfg.EnableIllustrations,
		FallbackEnabled:  cfg.EnableIllustrationFallback,
		MaxIllustrations: cfg.MaxIllustrations,
		Retries:          cfg.IllustrationRetries,
		Delay:            time.Duration(cfg.IllustrationDelayMs) * time.Millisecond,
	})
	asm := assembler.New(assembler.NewPDFRenderer())

	var mailer repository.Mailer
	if cfg.EnableMail {
		mailer = repository.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort,
			cfg.SMTPUsername, cfg.SMTPPassword, cfg.MailFrom, cfg.MailTo)
	}

	db, err := repository.OpenPostgres(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("opening datastore: %w", err)
	}
	posts := repository.NewPostgresPostStore(db)

	var archive repository.Archive
	if cfg.EnableArchive {
		archive, err = repository.NewGCSArchive(ctx, cfg.ArchiveBucket)
		if err != nil {
			posts.Close()
			return nil, fmt.Errorf("creating archive: %w", err)
		}
	}

	pipeline := service.NewPipeline(service.PipelineDeps{
		Sources:     sources,
		Synthesizer: synth,
		Illustrator: illus,
		Assembler:   asm,
		Mailer:      mailer,
		Posts:       posts,
		Archive:     archive,
		Window:      time.Duration(cfg.WindowHours) * time.Hour,
		MinLength:   cfg.MinContentLength,
		SlugPrefix:  cfg.SlugPrefix,
		OutputDir:   cfg.OutputDir,
	})

	cleanup := func() error {
		if archive != nil {
			archive.Close()
		}
		return posts.Close()
	}

	return &Application{
		Config:   cfg,
		Pipeline: pipeline,
		Archive:  archive,
		cleanup:  cleanup,
	}, nil
}

// Close cleans up application resources
func (a *Application) Close() error {
	if a.cleanup != nil {
		return a.cleanup()
	}
	return nil
}
