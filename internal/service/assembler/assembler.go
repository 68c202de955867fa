package assembler

import (
	"archive/zip"
	"bytes"
	"fmt"
	"log"

	"github.com/cbrief/chain-daily/internal/model"
)

// Renderer turns an article and its illustrations into a paginated
// document. The PDF implementation is the default; the seam exists so
// the pipeline can be tested without a PDF library in the loop.
type Renderer interface {
	Render(article model.Article, illustrations []model.Illustration) ([]byte, error)
}

// Assembler builds the final deliverable artifact for a run.
type Assembler struct {
	renderer Renderer
}

// New creates an assembler around the given renderer.
func New(renderer Renderer) *Assembler {
	return &Assembler{renderer: renderer}
}

// Assemble renders the document and, when any usable illustrations
// exist, a zip bundle of their payloads. A render failure is fatal to
// the run; a bundle failure only drops the bundle.
func (a *Assembler) Assemble(slug string, article model.Article, illustrations []model.Illustration) (model.Artifact, error) {
	doc, err := a.renderer.Render(article, illustrations)
	if err != nil {
		return model.Artifact{}, fmt.Errorf("rendering document: %w", err)
	}

	artifact := model.Artifact{
		Filename: slug + ".pdf",
		Document: doc,
	}

	bundle, err := buildBundle(illustrations)
	if err != nil {
		log.Printf("❌ Illustration bundle failed, shipping document only: %v", err)
	} else if len(bundle) > 0 {
		artifact.BundleFilename = slug + "-illustrations.zip"
		artifact.Bundle = bundle
	}

	log.Printf("📄 Artifact assembled: %s (%d bytes, bundle: %v)",
		artifact.Filename, len(artifact.Document), artifact.HasBundle())
	return artifact, nil
}

// buildBundle zips the usable illustration payloads, cover first.
// Returns nil when there is nothing to bundle.
func buildBundle(illustrations []model.Illustration) ([]byte, error) {
	var usable []model.Illustration
	for _, il := range illustrations {
		if il.Usable() {
			usable = append(usable, il)
		}
	}
	if len(usable) == 0 {
		return nil, nil
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for i, il := range usable {
		name := fmt.Sprintf("%02d-section-%d.png", i, il.Section)
		if il.IsCover() {
			name = "00-cover.png"
		}
		w, err := zw.Create(name)
		if err != nil {
			return nil, fmt.Errorf("creating bundle entry %s: %w", name, err)
		}
		if _, err := w.Write(il.Payload); err != nil {
			return nil, fmt.Errorf("writing bundle entry %s: %w", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("closing bundle: %w", err)
	}
	return buf.Bytes(), nil
}
