package command

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sant0-9/expair/internal/config"
	"github.com/sant0-9/expair/internal/expander"
	"github.com/sant0-9/expair/internal/llm"
	"github.com/sant0-9/expair/internal/tuning"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeExpander struct {
	result string
	err    error
	texts  []string
}

func (f *fakeExpander) Expand(_ context.Context, text string) (string, error) {
	f.texts = append(f.texts, text)
	return f.result, f.err
}

type fakeEditor struct {
	mu       sync.Mutex
	text     string
	replaced int
}

func (e *fakeEditor) Selection() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.text
}

func (e *fakeEditor) ReplaceSelection(text string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.text = text
	e.replaced++
}

type recordedNotice struct {
	msg      string
	duration time.Duration
	hidden   bool
}

func (n *recordedNotice) Hide() { n.hidden = true }

type fakeNotifier struct {
	notices []*recordedNotice
}

func (f *fakeNotifier) Notify(msg string, d time.Duration) Notice {
	n := &recordedNotice{msg: msg, duration: d}
	f.notices = append(f.notices, n)
	return n
}

func (f *fakeNotifier) messages() []string {
	out := make([]string, len(f.notices))
	for i, n := range f.notices {
		out[i] = n.msg
	}
	return out
}

type fakeConfirmer struct {
	answer    bool
	err       error
	questions []string
}

func (f *fakeConfirmer) Confirm(_ context.Context, q string) (bool, error) {
	f.questions = append(f.questions, q)
	return f.answer, f.err
}

func TestBuildOneCommandPerLanguage(t *testing.T) {
	examples := []tuning.Example{
		{ID: "1", AbbrevText: "q-n", ExpandedText: "quick-note", Lang: "English"},
		{ID: "2", AbbrevText: "pq", ExpandedText: "porque", Lang: "Spanish"},
		{ID: "3", AbbrevText: "w", ExpandedText: "word", Lang: "English"},
	}

	scoped := make(map[string][]tuning.Example)
	commands := Build(examples, func(lang string, group []tuning.Example) Expander {
		scoped[lang] = group
		return &fakeExpander{}
	})

	require.Len(t, commands, 2)
	assert.Equal(t, "expand-with-ai-english", commands[0].ID)
	assert.Equal(t, "Expand abbreviations with AI (English)", commands[0].Name)
	assert.Equal(t, 2, commands[0].Examples)
	assert.Equal(t, "expand-with-ai-spanish", commands[1].ID)

	assert.Equal(t, []tuning.Example{examples[0], examples[2]}, scoped["English"])
	assert.Equal(t, []tuning.Example{examples[1]}, scoped["Spanish"])
	assert.NotSame(t, commands[0].expander, commands[1].expander)
}

func TestBuildNoExamples(t *testing.T) {
	commands := Build(nil, func(string, []tuning.Example) Expander { return &fakeExpander{} })
	assert.Empty(t, commands)
}

func TestID(t *testing.T) {
	assert.Equal(t, "expand-with-ai-haitian-creole", ID("Haitian Creole"))
	assert.Equal(t, "expand-with-ai-māori", ID("Māori"))
	assert.Equal(t, "expand-with-ai", ID("  "))
}

func TestFind(t *testing.T) {
	commands := []*Command{New("English", 1, &fakeExpander{}), New("German", 1, &fakeExpander{})}
	assert.Equal(t, "German", Find(commands, "german").Lang)
	assert.Nil(t, Find(commands, "French"))
}

func TestResolvePolicy(t *testing.T) {
	ctx := context.Background()

	keep, err := ResolvePolicy(ctx, config.PreserveAlways, nil)
	require.NoError(t, err)
	assert.True(t, keep)

	keep, err = ResolvePolicy(ctx, config.PreserveNever, nil)
	require.NoError(t, err)
	assert.False(t, keep)

	c := &fakeConfirmer{answer: true}
	keep, err = ResolvePolicy(ctx, config.PreserveAsk, c)
	require.NoError(t, err)
	assert.True(t, keep)
	assert.Equal(t, []string{MsgKeepOriginal}, c.questions)

	_, err = ResolvePolicy(ctx, config.PreserveAsk, nil)
	assert.ErrorIs(t, err, ErrNoConfirmer)
}

func TestReportFailure(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := zap.New(core)

	assert.Equal(t, MsgNoResults, ReportFailure(logger, expander.ErrNoContent))
	assert.Equal(t, "Expanding text error!\ntimeout", ReportFailure(logger, errors.New("timeout")))

	entries := logs.AllUntimed()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
}

func TestRunReplacesSelection(t *testing.T) {
	tests := []struct {
		name   string
		policy config.PreserveOriginal
		answer bool
		want   string
	}{
		{
			name:   "never",
			policy: config.PreserveNever,
			want:   "please review as soon as possible",
		},
		{
			name:   "always",
			policy: config.PreserveAlways,
			want:   "> [!ai-pre-analysis]- AI Original\n> pls rvw asap\n\nplease review as soon as possible",
		},
		{
			name:   "ask yes",
			policy: config.PreserveAsk,
			answer: true,
			want:   "> [!ai-pre-analysis]- AI Original\n> pls rvw asap\n\nplease review as soon as possible",
		},
		{
			name:   "ask no",
			policy: config.PreserveAsk,
			answer: false,
			want:   "please review as soon as possible",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exp := &fakeExpander{result: "please review as soon as possible"}
			ed := &fakeEditor{text: "pls rvw asap"}
			notifier := &fakeNotifier{}
			r := &Runner{Notifier: notifier, Confirmer: &fakeConfirmer{answer: tt.answer}, Policy: tt.policy}

			err := r.Run(context.Background(), New("English", 1, exp), ed)
			require.NoError(t, err)

			assert.Equal(t, tt.want, ed.text)
			assert.Equal(t, []string{"pls rvw asap"}, exp.texts)
			require.Len(t, notifier.notices, 1)
			assert.Equal(t, MsgExpanding, notifier.notices[0].msg)
			assert.True(t, notifier.notices[0].hidden)
		})
	}
}

func TestRunEmptySelection(t *testing.T) {
	exp := &fakeExpander{result: "x"}
	ed := &fakeEditor{text: "   "}
	notifier := &fakeNotifier{}
	r := &Runner{Notifier: notifier, Policy: config.PreserveNever}

	err := r.Run(context.Background(), New("English", 1, exp), ed)
	assert.ErrorIs(t, err, ErrEmptySelection)
	assert.Empty(t, exp.texts)
	assert.Equal(t, 0, ed.replaced)
	assert.Equal(t, []string{MsgSelectText}, notifier.messages())
}

func TestRunProviderError(t *testing.T) {
	exp := &fakeExpander{err: errors.New("network unreachable")}
	ed := &fakeEditor{text: "pls rvw asap"}
	notifier := &fakeNotifier{}
	r := &Runner{Notifier: notifier, Policy: config.PreserveAlways}

	err := r.Run(context.Background(), New("English", 1, exp), ed)
	require.Error(t, err)

	assert.Equal(t, "pls rvw asap", ed.text)
	assert.Equal(t, 0, ed.replaced)
	require.Len(t, notifier.notices, 2)
	assert.True(t, notifier.notices[0].hidden)
	assert.Equal(t, "Expanding text error!\nnetwork unreachable", notifier.notices[1].msg)
	assert.Equal(t, NoticeDuration, notifier.notices[1].duration)
}

func TestRunNoContent(t *testing.T) {
	for _, policy := range config.Policies {
		t.Run(string(policy), func(t *testing.T) {
			exp := &fakeExpander{err: expander.ErrNoContent}
			ed := &fakeEditor{text: "pls rvw asap"}
			notifier := &fakeNotifier{}
			confirmer := &fakeConfirmer{answer: true}
			r := &Runner{Notifier: notifier, Confirmer: confirmer, Policy: policy}

			err := r.Run(context.Background(), New("English", 1, exp), ed)
			assert.ErrorIs(t, err, expander.ErrNoContent)

			assert.Equal(t, 0, ed.replaced)
			assert.Empty(t, confirmer.questions)
			assert.Equal(t, []string{MsgExpanding, MsgNoResults}, notifier.messages())
			assert.True(t, notifier.notices[0].hidden)
		})
	}
}

func TestRunConfirmError(t *testing.T) {
	exp := &fakeExpander{result: "expanded"}
	ed := &fakeEditor{text: "abbr"}
	notifier := &fakeNotifier{}
	r := &Runner{Notifier: notifier, Confirmer: &fakeConfirmer{err: errors.New("prompt closed")}, Policy: config.PreserveAsk}

	err := r.Run(context.Background(), New("English", 1, exp), ed)
	assert.EqualError(t, err, "prompt closed")
	assert.Equal(t, 0, ed.replaced)
	assert.Equal(t, "Expanding text error!\nprompt closed", notifier.notices[len(notifier.notices)-1].msg)
}

func TestGoOverlappingInvocations(t *testing.T) {
	first := &fakeEditor{text: "a"}
	second := &fakeEditor{text: "b"}

	r1 := &Runner{Notifier: &fakeNotifier{}, Policy: config.PreserveNever}
	r2 := &Runner{Notifier: &fakeNotifier{}, Policy: config.PreserveNever}

	done1 := r1.Go(context.Background(), New("English", 1, &fakeExpander{result: "alpha"}), first)
	done2 := r2.Go(context.Background(), New("German", 1, &fakeExpander{result: "beta"}), second)

	assert.NoError(t, <-done1)
	assert.NoError(t, <-done2)
	assert.Equal(t, "alpha", first.Selection())
	assert.Equal(t, "beta", second.Selection())

	_, open := <-done1
	assert.False(t, open)
}

type echoProvider struct {
	requests []*llm.CompletionRequest
}

func (p *echoProvider) Name() string { return "echo" }

func (p *echoProvider) Ping(context.Context) error { return nil }

func (p *echoProvider) Complete(_ context.Context, req *llm.CompletionRequest) (*llm.CompletionResponse, error) {
	p.requests = append(p.requests, req)
	return &llm.CompletionResponse{Content: "expanded"}, nil
}

func TestFromConfigScopesExamplesPerLanguage(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.TuningExamples = append(cfg.TuningExamples,
		tuning.NewExample("Spanish", "pq", "porque"),
		tuning.NewExample("Spanish", "tb", "también"),
	)
	provider := &echoProvider{}

	commands := FromConfig(cfg, provider, nil)
	require.Len(t, commands, 2)

	spanish := Find(commands, "Spanish")
	require.NotNil(t, spanish)
	inv, err := spanish.Expand(context.Background(), "xq")
	require.NoError(t, err)
	assert.Equal(t, "expanded", inv.Expanded)

	require.Len(t, provider.requests, 1)
	req := provider.requests[0]
	assert.Len(t, req.Messages, 1+2*2+1)
	assert.Equal(t, cfg.OpenAI.Model, req.Model)
	for _, m := range req.Messages {
		assert.NotContains(t, m.Content, "q-n taking")
	}
}
