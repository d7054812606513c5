package parser

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qbank/internal/domain"
	"qbank/internal/locale"
)

func sequentialIDs() domain.IDGenerator {
	n := 0
	return domain.IDGeneratorFunc(func() string {
		n++
		return fmt.Sprintf("q%d", n)
	})
}

func newTestParser(code string) *Parser {
	p := New(locale.MustLookup(code), sequentialIDs())
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	p.now = func() time.Time { return fixed }
	return p
}

func TestParse_RoundTrip(t *testing.T) {
	p := newTestParser(locale.English)
	reply := ":::QUESTION::: What is 2+2? || 3 || 4 || 5 || 6 || 4 :::END:::\n" +
		":::QUESTION:::Capital of France?||Paris||Rome||Paris:::END:::\n" +
		":::QUESTION::: The sky is blue || True || False || True :::END:::"

	res := p.Parse(reply)

	require.Len(t, res.Questions, 3)
	assert.Equal(t, "Extracted 3 questions successfully!", res.Display)
	assert.Zero(t, res.Dropped)

	first := res.Questions[0]
	assert.Equal(t, "q1", first.ID)
	assert.Equal(t, "What is 2+2?", first.Prompt)
	assert.Equal(t, []string{"3", "4", "5", "6"}, first.Options)
	assert.Equal(t, "4", first.AnswerKey)

	assert.Equal(t, "Capital of France?", res.Questions[1].Prompt)
	assert.Equal(t, []string{"Paris", "Rome"}, res.Questions[1].Options)
	assert.Equal(t, "q3", res.Questions[2].ID)
}

func TestParse_ThreeFieldsHasSingleOption(t *testing.T) {
	res := newTestParser(locale.English).Parse(":::QUESTION:::Q || only || A:::END:::")
	require.Len(t, res.Questions, 1)
	assert.Equal(t, []string{"only"}, res.Questions[0].Options)
	assert.Equal(t, "A", res.Questions[0].AnswerKey)
}

func TestParse_DropsBlocksWithTooFewFields(t *testing.T) {
	p := newTestParser(locale.English)
	reply := ":::QUESTION::: lonely prompt || answer :::END:::"

	res := p.Parse(reply)

	assert.Empty(t, res.Questions)
	assert.Equal(t, 1, res.Dropped)
	assert.Equal(t, reply, res.Display)
}

func TestParse_MixedReply(t *testing.T) {
	p := newTestParser(locale.English)
	reply := "Sure, here are some questions.\n" +
		":::QUESTION::: Q1 || A || B || A :::END:::\n" +
		"Some commentary in between || with || pipes.\n" +
		":::QUESTION::: broken || block :::END:::\n" +
		":::QUESTION::: Q2 || C || D || D :::END:::\nGood luck!"

	res := p.Parse(reply)

	require.Len(t, res.Questions, 2)
	assert.Equal(t, "Q1", res.Questions[0].Prompt)
	assert.Equal(t, "Q2", res.Questions[1].Prompt)
	assert.Equal(t, 1, res.Dropped)
	assert.Equal(t, "Extracted 2 questions successfully!", res.Display)
}

func TestParse_NoMatchPassthrough(t *testing.T) {
	reply := "The document describes photosynthesis in plants."
	res := newTestParser(locale.English).Parse(reply)
	assert.Empty(t, res.Questions)
	assert.Equal(t, reply, res.Display)
}

func TestParse_UnclosedBlockEndsScan(t *testing.T) {
	reply := ":::QUESTION::: Q1 || A || A :::END::: :::QUESTION::: Q2 || B || B"
	res := newTestParser(locale.English).Parse(reply)
	require.Len(t, res.Questions, 1)
	assert.Equal(t, "Q1", res.Questions[0].Prompt)
}

func TestParse_ShortestMatch(t *testing.T) {
	// The second opening marker belongs to the first body; the scanner does not nest.
	reply := ":::QUESTION::: a :::QUESTION::: b || c || d :::END::: e || f || g :::END:::"
	res := newTestParser(locale.English).Parse(reply)
	require.Len(t, res.Questions, 1)
	assert.Equal(t, "a :::QUESTION::: b", res.Questions[0].Prompt)
}

func TestParse_ArabicMarkers(t *testing.T) {
	p := newTestParser(locale.Arabic)
	reply := "إليك الأسئلة:\n:::سؤال::: ما عاصمة مصر؟ || القاهرة || الإسكندرية || القاهرة :::نهاية:::"

	res := p.Parse(reply)

	require.Len(t, res.Questions, 1)
	assert.Equal(t, "ما عاصمة مصر؟", res.Questions[0].Prompt)
	assert.Equal(t, "القاهرة", res.Questions[0].AnswerKey)
	assert.Equal(t, "تم استخراج 1 سؤال بنجاح!", res.Display)

	// English markers are plain prose in an Arabic deployment.
	en := ":::QUESTION::: Q || A || A :::END:::"
	assert.Equal(t, en, p.Parse(en).Display)
}

func TestParse_AnswerKeyNotValidatedAgainstOptions(t *testing.T) {
	res := newTestParser(locale.English).Parse(":::QUESTION::: Q || A || B || Z :::END:::")
	require.Len(t, res.Questions, 1)
	assert.Equal(t, "Z", res.Questions[0].AnswerKey)
	assert.NotContains(t, res.Questions[0].Options, "Z")
}

func TestParse_EmptyFieldsAreKept(t *testing.T) {
	res := newTestParser(locale.English).Parse(":::QUESTION::: || || :::END:::")
	require.Len(t, res.Questions, 1)
	assert.Equal(t, "", res.Questions[0].Prompt)
	assert.Equal(t, []string{""}, res.Questions[0].Options)
}

func TestParse_IsRepeatable(t *testing.T) {
	p := newTestParser(locale.English)
	reply := strings.Repeat(":::QUESTION::: Q || A || A :::END:::", 4)
	a, b := p.Parse(reply), p.Parse(reply)
	require.Len(t, a.Questions, 4)
	require.Len(t, b.Questions, 4)
	for i := range a.Questions {
		assert.Equal(t, a.Questions[i].Prompt, b.Questions[i].Prompt)
		assert.NotEqual(t, a.Questions[i].ID, b.Questions[i].ID)
	}
}
