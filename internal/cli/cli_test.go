package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qbank/internal/domain"
	"qbank/internal/locale"
	"qbank/internal/session"
)

func TestParseCmd_FromStdin(t *testing.T) {
	root := NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(
		":::QUESTION::: 2+2? || 3 || 4 || 4 :::END:::\n:::QUESTION::: broken :::END:::"))
	root.SetArgs([]string{"parse"})

	require.NoError(t, root.Execute())

	var qs []domain.Question
	require.NoError(t, json.Unmarshal(out.Bytes(), &qs))
	require.Len(t, qs, 1)
	assert.Equal(t, "2+2?", qs[0].Prompt)
	assert.Equal(t, []string{"3", "4"}, qs[0].Options)
	assert.Equal(t, "4", qs[0].AnswerKey)
	assert.NotEmpty(t, qs[0].ID)
	assert.Contains(t, errOut.String(), "dropped 1 malformed blocks")
}

func TestParseCmd_ArabicLocale(t *testing.T) {
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetIn(strings.NewReader(":::سؤال::: ما هو الماء؟ || سائل || غاز || سائل :::نهاية:::"))
	root.SetArgs([]string{"parse", "--locale", "ar"})

	require.NoError(t, root.Execute())

	var qs []domain.Question
	require.NoError(t, json.Unmarshal(out.Bytes(), &qs))
	require.Len(t, qs, 1)
	assert.Equal(t, "ما هو الماء؟", qs[0].Prompt)
}

func TestExtractCmd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.md")
	require.NoError(t, os.WriteFile(path, []byte("# Title\n\nSome *body* text.\n"), 0o600))

	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"extract", path})

	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "Title")
	assert.Contains(t, out.String(), "Some body text.")
}

type fakeExtractor struct{ text string }

func (f fakeExtractor) Extract(context.Context, domain.UploadedFile) (string, error) {
	return f.text, nil
}

type fakeModel struct{ reply string }

func (f fakeModel) Generate(context.Context, string, string) (string, error) { return f.reply, nil }
func (fakeModel) RequiresCredential() bool                                 { return true }

func TestREPL_Session(t *testing.T) {
	dir := t.TempDir()
	docPath := filepath.Join(dir, "cells.txt")
	require.NoError(t, os.WriteFile(docPath, []byte("ignored"), 0o600))
	exportPath := filepath.Join(dir, "bank.json")

	var n int
	s := session.New("cli-test", session.Deps{
		Extractor: fakeExtractor{text: "Cells are the unit of life."},
		Model:     fakeModel{reply: ":::QUESTION::: Unit of life? || Atom || Cell || Cell :::END:::"},
		IDs: domain.IDGeneratorFunc(func() string {
			n++
			return "id" + string(rune('0'+n))
		}),
		Locale: locale.MustLookup(locale.English),
	})
	defer s.Close()

	script := strings.Join([]string{
		"/load " + docPath,
		"make a quiz",
		"/key secret",
		"/settings hard true-false",
		"/settings extreme mixed",
		"make a quiz",
		"/questions",
		"/export " + exportPath,
		"/remove id1",
		"/remove id1",
		"/quit",
	}, "\n")
	var out bytes.Buffer
	require.NoError(t, newREPL(s, strings.NewReader(script), &out).run(context.Background()))

	text := out.String()
	assert.Contains(t, text, "Welcome to Q-Bank")
	assert.Contains(t, text, `Document "cells.txt" processed.`)
	assert.Contains(t, text, "! A model API key is required")
	assert.Contains(t, text, "Settings: ")
	assert.Contains(t, text, "model: Extracted 1 questions successfully!")
	assert.Contains(t, text, "[id1] Unit of life?")
	assert.Contains(t, text, "    B) Cell")
	assert.Contains(t, text, "Exported 1 questions to "+exportPath)
	assert.Contains(t, text, `No question "id1".`)

	raw, err := os.ReadFile(exportPath)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"prompt": "Unit of life?"`)

	snap, err := s.Snapshot()
	require.NoError(t, err)
	assert.Empty(t, snap.Questions)
	assert.Equal(t, domain.DifficultyHard, snap.Settings.Difficulty)
}

func TestREPL_ExportWriteFailureIsReported(t *testing.T) {
	if _, err := os.Stat("/dev/full"); err != nil {
		t.Skip("/dev/full not available")
	}
	s := session.New("cli-export", session.Deps{
		Extractor: fakeExtractor{},
		Model:     fakeModel{},
		IDs:       domain.IDGeneratorFunc(func() string { return "id" }),
		Locale:    locale.MustLookup(locale.English),
	})
	defer s.Close()

	var out bytes.Buffer
	require.NoError(t, newREPL(s, strings.NewReader("/export /dev/full\n/quit"), &out).run(context.Background()))

	assert.Contains(t, out.String(), "! ")
	assert.NotContains(t, out.String(), "Exported")
}
