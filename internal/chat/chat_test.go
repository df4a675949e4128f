package chat

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"neochat/internal/llm"
	"neochat/internal/search"
	"neochat/internal/session"
	"neochat/pkg/logger"
)

type fakeRetriever struct {
	context string
	err     error
	lastK   int
}

func (f *fakeRetriever) Retrieve(_ context.Context, _ string, k int) (string, error) {
	f.lastK = k
	return f.context, f.err
}

type fakeModel struct {
	reply    string
	err      error
	received []llm.Message
}

func (f *fakeModel) Chat(_ context.Context, messages []llm.Message) (string, error) {
	f.received = messages
	return f.reply, f.err
}

type fakeSearcher struct {
	results []search.Result
	err     error
	query   string
}

func (f *fakeSearcher) Search(_ context.Context, query string, _ int) ([]search.Result, error) {
	f.query = query
	return f.results, f.err
}

func newTestSessions(t *testing.T) *session.Store {
	t.Helper()
	dir := t.TempDir()
	store, err := session.NewStore(filepath.Join(dir, "chat.db"), filepath.Join(dir, "backups"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func newOrchestrator(t *testing.T, retriever ContextRetriever, model llm.ChatModel, searcher search.Provider) (*Orchestrator, *session.Store) {
	t.Helper()
	sessions := newTestSessions(t)
	log := logger.New("chat-test", "")
	return NewOrchestrator(sessions, retriever, model, searcher, 4, 3, log), sessions
}

func TestTurn_InjectsRetrievedContext(t *testing.T) {
	retriever := &fakeRetriever{context: "cats are mammals"}
	model := &fakeModel{reply: "Cats are indeed mammals."}
	o, sessions := newOrchestrator(t, retriever, model, nil)
	sid := sessions.NewSession()

	reply, err := o.Turn(context.Background(), sid, "are cats mammals?", Options{})
	require.NoError(t, err)
	assert.Equal(t, "Cats are indeed mammals.", reply)
	assert.Equal(t, 4, retriever.lastK)

	// model sees system prompt, then the context-wrapped user message
	require.NotEmpty(t, model.received)
	assert.Equal(t, llm.RoleSystem, model.received[0].Role)
	last := model.received[len(model.received)-1]
	assert.Equal(t, llm.RoleUser, last.Role)
	assert.Contains(t, last.Content, "Context:\ncats are mammals")
	assert.Contains(t, last.Content, "Question: are cats mammals?")

	// stored history keeps the raw user message
	msgs, err := sessions.Load(sid)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "are cats mammals?", msgs[0].Content)
	assert.Equal(t, "Cats are indeed mammals.", msgs[1].Content)
}

func TestTurn_EmptyContextMeansPlainQuestion(t *testing.T) {
	model := &fakeModel{reply: "hello"}
	o, sessions := newOrchestrator(t, &fakeRetriever{}, model, nil)
	sid := sessions.NewSession()

	_, err := o.Turn(context.Background(), sid, "hi there", Options{})
	require.NoError(t, err)

	last := model.received[len(model.received)-1]
	assert.Equal(t, "hi there", last.Content)
}

func TestTurn_RetrievalFailureDegradesToNoContext(t *testing.T) {
	retriever := &fakeRetriever{err: errors.New("index corrupt")}
	model := &fakeModel{reply: "best effort"}
	o, sessions := newOrchestrator(t, retriever, model, nil)
	sid := sessions.NewSession()

	reply, err := o.Turn(context.Background(), sid, "what now?", Options{})
	require.NoError(t, err)
	assert.Equal(t, "best effort", reply)

	last := model.received[len(model.received)-1]
	assert.Equal(t, "what now?", last.Content)
}

func TestTurn_HistoryReplayedInOrder(t *testing.T) {
	model := &fakeModel{reply: "ok"}
	o, sessions := newOrchestrator(t, &fakeRetriever{}, model, nil)
	sid := sessions.NewSession()

	_, err := o.Turn(context.Background(), sid, "first", Options{})
	require.NoError(t, err)
	_, err = o.Turn(context.Background(), sid, "second", Options{})
	require.NoError(t, err)

	// system + (first, ok, second)
	require.Len(t, model.received, 4)
	assert.Equal(t, "first", model.received[1].Content)
	assert.Equal(t, llm.RoleAssistant, model.received[2].Role)
	assert.Equal(t, "second", model.received[3].Content)
}

func TestTurn_WebPrefixRoutesToSearch(t *testing.T) {
	searcher := &fakeSearcher{results: []search.Result{
		{Title: "Go", Snippet: "An open-source language.", Link: "https://go.dev"},
		{Title: "Docs", Snippet: "Reference.", Link: "https://go.dev/doc"},
	}}
	model := &fakeModel{reply: "should not be called"}
	o, sessions := newOrchestrator(t, &fakeRetriever{}, model, searcher)
	sid := sessions.NewSession()

	reply, err := o.Turn(context.Background(), sid, "web: golang", Options{})
	require.NoError(t, err)
	assert.Equal(t, "golang", searcher.query)
	assert.True(t, strings.HasPrefix(reply, "Web search results:\n\n"), reply)
	assert.Contains(t, reply, "- Go\nAn open-source language.\n(https://go.dev)")
	assert.Contains(t, reply, "- Docs")
	assert.Nil(t, model.received, "model must not run for web-prefixed messages")

	// both sides of the turn are persisted
	msgs, err := sessions.Load(sid)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "web: golang", msgs[0].Content)
}

func TestTurn_SearchFailureDegradesToNotice(t *testing.T) {
	searcher := &fakeSearcher{err: errors.New("quota exceeded")}
	o, sessions := newOrchestrator(t, &fakeRetriever{}, &fakeModel{}, searcher)
	sid := sessions.NewSession()

	reply, err := o.Turn(context.Background(), sid, "search: anything", Options{})
	require.NoError(t, err)
	assert.Contains(t, reply, "Web search failed: quota exceeded")
}

func TestTurn_NoSearcherConfigured(t *testing.T) {
	o, sessions := newOrchestrator(t, &fakeRetriever{}, &fakeModel{}, nil)
	sid := sessions.NewSession()

	reply, err := o.Turn(context.Background(), sid, "google: anything", Options{})
	require.NoError(t, err)
	assert.Equal(t, "Web search failed: no search provider configured.", reply)
}

func TestTurn_ModeChangesSystemPrompt(t *testing.T) {
	model := &fakeModel{reply: "ok"}
	o, sessions := newOrchestrator(t, &fakeRetriever{}, model, nil)
	sid := sessions.NewSession()

	_, err := o.Turn(context.Background(), sid, "hi", Options{Mode: ModeDetailed})
	require.NoError(t, err)
	assert.Contains(t, model.received[0].Content, "thorough")

	_, err = o.Turn(context.Background(), sid, "hi again", Options{Mode: ModeConcise})
	require.NoError(t, err)
	assert.Contains(t, model.received[0].Content, "short")
}

func TestTurn_ModelFailureDegradesToReply(t *testing.T) {
	model := &fakeModel{err: errors.New("upstream 500")}
	o, sessions := newOrchestrator(t, &fakeRetriever{}, model, nil)
	sid := sessions.NewSession()

	reply, err := o.Turn(context.Background(), sid, "hi", Options{})
	require.NoError(t, err, "a model failure must not abort the turn")
	assert.Equal(t, "LLM error: upstream 500", reply)

	// both sides of the turn are persisted, the failure notice included
	msgs, err := sessions.Load(sid)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, session.RoleUser, msgs[0].Role)
	assert.Equal(t, "hi", msgs[0].Content)
	assert.Equal(t, session.RoleAssistant, msgs[1].Role)
	assert.Equal(t, "LLM error: upstream 500", msgs[1].Content)
}

func TestTurn_RejectsEmptyInput(t *testing.T) {
	o, sessions := newOrchestrator(t, &fakeRetriever{}, &fakeModel{}, nil)
	sid := sessions.NewSession()

	_, err := o.Turn(context.Background(), sid, "   ", Options{})
	require.Error(t, err)
}

func TestStripWebPrefix(t *testing.T) {
	for _, tc := range []struct {
		in    string
		query string
		ok    bool
	}{
		{"web: latest news", "latest news", true},
		{"Search: go generics", "go generics", true},
		{"GOOGLE:weather", "weather", true},
		{"webinar schedule", "webinar schedule", false},
		{"tell me about web: prefixes", "tell me about web: prefixes", false},
	} {
		query, ok := stripWebPrefix(tc.in)
		assert.Equal(t, tc.ok, ok, tc.in)
		if tc.ok {
			assert.Equal(t, tc.query, query, tc.in)
		}
	}
}

func TestStripWebPrefix_CaseInsensitiveButQueryPreserved(t *testing.T) {
	query, ok := stripWebPrefix("Web: Boston Marathon")
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(query, "Boston"))
}
