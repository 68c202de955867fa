package model

// Artifact is the assembled deliverable for one run: the paginated
// document plus a secondary bundle of the successful illustration
// payloads. Created once by the assembler, not mutated afterwards.
type Artifact struct {
	Filename string `json:"filename"`
	Document []byte `json:"-"`

	BundleFilename string `json:"bundle_filename,omitempty"`
	Bundle         []byte `json:"-"`
}

// HasBundle reports whether a non-empty illustration bundle was built.
func (a Artifact) HasBundle() bool {
	return len(a.Bundle) > 0
}
