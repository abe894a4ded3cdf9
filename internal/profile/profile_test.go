package profile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeProfileFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoad(t *testing.T) {
	t.Run("loads all three documents", func(t *testing.T) {
		dir := t.TempDir()
		writeProfileFile(t, dir, "summary.md", "# Summary\n### Q\nA\n")
		writeProfileFile(t, dir, "resume.txt", "resume text")
		writeProfileFile(t, dir, "linkedin.txt", "linkedin text")

		p, err := Load(dir, "Sam Shulman")
		require.NoError(t, err)
		assert.Equal(t, "Sam Shulman", p.Name)
		assert.Contains(t, p.Summary, "### Q")
		assert.Equal(t, "resume text", p.Resume)
		assert.Equal(t, "linkedin text", p.LinkedIn)
	})

	t.Run("resume and linkedin are optional", func(t *testing.T) {
		dir := t.TempDir()
		writeProfileFile(t, dir, "summary.md", "summary only")

		p, err := Load(dir, "Sam Shulman")
		require.NoError(t, err)
		assert.Empty(t, p.Resume)
		assert.Empty(t, p.LinkedIn)
	})

	t.Run("missing summary is an error", func(t *testing.T) {
		_, err := Load(t.TempDir(), "Sam Shulman")
		assert.Error(t, err)
	})
}

func TestSystemPrompt(t *testing.T) {
	p := &Profile{
		Name:     "Sam Shulman",
		Summary:  "the summary body",
		Resume:   "the resume body",
		LinkedIn: "the linkedin body",
	}

	prompt := p.SystemPrompt()

	assert.Contains(t, prompt, "You are acting as Sam Shulman")
	assert.Contains(t, prompt, "search_qa_database")
	assert.Contains(t, prompt, "record_unknown_question")
	assert.Contains(t, prompt, "send_followup_email")
	assert.Contains(t, prompt, "the summary body")
	assert.Contains(t, prompt, "the resume body")
	assert.Contains(t, prompt, "the linkedin body")
}
