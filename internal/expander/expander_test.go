package expander

import (
	"context"
	"errors"
	"testing"

	"github.com/sant0-9/expair/internal/llm"
	"github.com/sant0-9/expair/internal/tuning"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	content string
	err     error
	reqs    []*llm.CompletionRequest
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Ping(context.Context) error { return nil }

func (f *fakeProvider) Complete(_ context.Context, req *llm.CompletionRequest) (*llm.CompletionResponse, error) {
	f.reqs = append(f.reqs, req)
	if f.err != nil {
		return nil, f.err
	}
	return &llm.CompletionResponse{Content: f.content, Model: req.Model}, nil
}

var testSettings = Settings{
	Model:            "gpt-4o-mini",
	SystemPrompt:     "You expand notes",
	ExpandTextPrompt: "Expand",
	MaxWords:         3,
}

func TestMessagesScenario(t *testing.T) {
	e := New(&fakeProvider{}, testSettings, []tuning.Example{
		{ID: "1", AbbrevText: "q-n", ExpandedText: "quick-note", Lang: "English"},
	}, nil)

	got := e.Messages("pls rvw asap")

	want := []llm.Message{
		{Role: "system", Content: "You expand notes"},
		{Role: "user", Content: `Expand: "q-n"`},
		{Role: "assistant", Content: "quick-note"},
		{Role: "user", Content: `Expand: "pls rvw asap"`},
	}
	assert.Equal(t, want, got)
}

func TestMessagesShape(t *testing.T) {
	for n := 0; n <= 4; n++ {
		examples := make([]tuning.Example, n)
		for i := range examples {
			examples[i] = tuning.NewExample("English", string(rune('a'+i)), string(rune('A'+i)))
		}
		e := New(&fakeProvider{}, testSettings, examples, nil)

		msgs := e.Messages("target")
		require.Len(t, msgs, 1+2*n+1)
		assert.Equal(t, llm.RoleSystem, msgs[0].Role)
		for i, ex := range examples {
			assert.Equal(t, llm.RoleUser, msgs[1+2*i].Role)
			assert.Contains(t, msgs[1+2*i].Content, ex.AbbrevText)
			assert.Equal(t, llm.RoleAssistant, msgs[2+2*i].Role)
			assert.Equal(t, ex.ExpandedText, msgs[2+2*i].Content)
		}
		last := msgs[len(msgs)-1]
		assert.Equal(t, llm.RoleUser, last.Role)
		assert.Contains(t, last.Content, "target")
	}
}

func TestMaxWordsNotApplied(t *testing.T) {
	e := New(&fakeProvider{}, testSettings, nil, nil)
	text := "one two three four five six"

	msgs := e.Messages(text)
	assert.Contains(t, msgs[len(msgs)-1].Content, text)
}

func TestRequest(t *testing.T) {
	e := New(&fakeProvider{}, testSettings, nil, nil)
	req := e.Request("x")

	assert.Equal(t, "gpt-4o-mini", req.Model)
	assert.Equal(t, 1, req.N)
	assert.Equal(t, 1000, req.MaxTokens)
	assert.Len(t, req.Messages, 2)
}

func TestExamplesAreCopied(t *testing.T) {
	examples := []tuning.Example{{ID: "1", AbbrevText: "a", ExpandedText: "b", Lang: "English"}}
	e := New(&fakeProvider{}, testSettings, examples, nil)
	examples[0].AbbrevText = "changed"

	assert.Equal(t, "a", e.Examples()[0].AbbrevText)
}

func TestExpand(t *testing.T) {
	p := &fakeProvider{content: "please review as soon as possible"}
	e := New(p, testSettings, nil, nil)

	got, err := e.Expand(context.Background(), "pls rvw asap")
	require.NoError(t, err)
	assert.Equal(t, "please review as soon as possible", got)
	assert.Len(t, p.reqs, 1)
}

func TestExpandNoContent(t *testing.T) {
	e := New(&fakeProvider{content: "  "}, testSettings, nil, nil)

	_, err := e.Expand(context.Background(), "pls")
	assert.ErrorIs(t, err, ErrNoContent)
}

func TestExpandProviderErrorNotRetried(t *testing.T) {
	p := &fakeProvider{err: errors.New("connection refused")}
	e := New(p, testSettings, nil, nil)

	_, err := e.Expand(context.Background(), "pls")
	assert.EqualError(t, err, "connection refused")
	assert.Len(t, p.reqs, 1)
}
