// Package profile loads the persona material the assistant speaks from:
// a markdown summary, plus resume and LinkedIn text extracted ahead of
// time. The summary doubles as the knowledge-store seed source.
package profile

import (
	"fmt"
	"os"
	"path/filepath"
)

type Profile struct {
	Name     string
	Summary  string
	Resume   string
	LinkedIn string
}

// Load reads summary.md, resume.txt and linkedin.txt from dir. The summary
// is required; resume and LinkedIn text are optional context.
func Load(dir, name string) (*Profile, error) {
	summary, err := os.ReadFile(filepath.Join(dir, "summary.md"))
	if err != nil {
		return nil, fmt.Errorf("failed to read profile summary: %w", err)
	}

	p := &Profile{
		Name:    name,
		Summary: string(summary),
	}

	if resume, err := os.ReadFile(filepath.Join(dir, "resume.txt")); err == nil {
		p.Resume = string(resume)
	}
	if linkedin, err := os.ReadFile(filepath.Join(dir, "linkedin.txt")); err == nil {
		p.LinkedIn = string(linkedin)
	}

	return p, nil
}
