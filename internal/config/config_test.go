package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

const sampleYAML = `
app:
  port: 38471
crawl:
  search_terms: ["software engineer", " backend engineer ", "software engineer"]
  locations: ["Israel", "Remote"]
  fetch_timeout_seconds: 600
  delay_base_seconds: 2
  delay_jitter_seconds: 2
sources:
  google_careers:
    enabled: true
    max_scrolls: 3
  linkedin:
    enabled: true
    max_pages: 2
    locale_filter: true
`

func TestLoadAndNormalize(t *testing.T) {
	cfg, err := Load(writeTemp(t, sampleYAML))
	require.NoError(t, err)

	out, res := NormalizeAndValidate(cfg)
	require.True(t, res.OK(), "errors: %v", res.Errors)
	require.Equal(t, []string{"software engineer", "backend engineer"}, out.Crawl.SearchTerms,
		"terms are trimmed and deduplicated")
	require.Equal(t, 38471, out.App.Port)
	require.True(t, out.Sources.LinkedIn.LocaleFilter)
}

func TestValidateRejectsNoSources(t *testing.T) {
	cfg, err := Load(writeTemp(t, `
app: {port: 38471}
crawl:
  search_terms: ["sre"]
  locations: ["Israel"]
  fetch_timeout_seconds: 60
`))
	require.NoError(t, err)

	_, res := NormalizeAndValidate(cfg)
	require.False(t, res.OK())
	require.Contains(t, res.Errors[0], "no sources enabled")
}

func TestValidateRejectsEmptyTerms(t *testing.T) {
	cfg, err := Load(writeTemp(t, `
app: {port: 38471}
crawl:
  locations: ["Israel"]
  fetch_timeout_seconds: 60
sources:
  linkedin: {enabled: true}
`))
	require.NoError(t, err)

	_, res := NormalizeAndValidate(cfg)
	require.False(t, res.OK())
}

func TestEnsureUserConfigCopiesOnce(t *testing.T) {
	dataDir := t.TempDir()
	defaultPath := writeTemp(t, sampleYAML)

	p, err := EnsureUserConfig(dataDir, defaultPath)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dataDir, "config.yml"), p)

	// mutate the user copy; a second bootstrap must leave it alone
	require.NoError(t, os.WriteFile(p, []byte("app: {port: 1}\n"), 0o644))
	p2, err := EnsureUserConfig(dataDir, defaultPath)
	require.NoError(t, err)
	require.Equal(t, p, p2)

	b, err := os.ReadFile(p2)
	require.NoError(t, err)
	require.Equal(t, "app: {port: 1}\n", string(b))
}
