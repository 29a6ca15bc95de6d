package rag

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gprmax-ragbot/db"
	"gprmax-ragbot/models"
)

// keywordEmbedder 단어 포함 여부로 벡터를 만드는 테스트용 Embedder
type keywordEmbedder struct {
	words []string
	calls int
	err   error
}

func (k *keywordEmbedder) vector(text string) []float32 {
	lower := strings.ToLower(text)
	v := make([]float32, len(k.words)+1)
	for i, w := range k.words {
		if strings.Contains(lower, w) {
			v[i] = 1
		}
	}
	v[len(k.words)] = 0.05
	return v
}

func (k *keywordEmbedder) EmbedDocuments(_ context.Context, texts []string) ([][]float32, error) {
	k.calls++
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = k.vector(t)
	}
	return out, nil
}

func (k *keywordEmbedder) EmbedQuery(_ context.Context, text string) ([]float32, error) {
	k.calls++
	if k.err != nil {
		return nil, k.err
	}
	return k.vector(text), nil
}

// fakeCompleter 프롬프트를 기록하고 정해진 응답을 반환합니다
type fakeCompleter struct {
	answer  string
	err     error
	block   chan struct{}
	prompts []string
}

func (f *fakeCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.block != nil {
		<-f.block
	}
	return f.answer, f.err
}

func chunk(text, section, page string) *models.Chunk {
	return &models.Chunk{
		Content: text,
		Meta:    map[string]string{models.MetaSection: section, models.MetaPage: page},
	}
}

func buildIndex(t *testing.T, embedder *keywordEmbedder) *db.Index {
	t.Helper()
	chunks := []*models.Chunk{
		chunk("gprMax can be installed with conda and pip.", "INSTALLATION", "2"),
		chunk("The essential commands are #domain, #dx_dy_dz and #time_window.", "ESSENTIAL COMMANDS", "5"),
		chunk("Heterogeneous soil can be modelled with #fractal_box.", "SOIL", "11"),
		chunk("PML absorbing boundaries surround the domain.", "PML", "14"),
	}
	path := filepath.Join(t.TempDir(), "vector_db.gob")
	_, err := db.Build(context.Background(), chunks, embedder, path, db.BuildOptions{})
	require.NoError(t, err)

	idx, err := db.Open(context.Background(), path)
	require.NoError(t, err)
	return idx
}

func words() []string {
	return []string{"install", "essential", "commands", "soil", "pml", "boundar"}
}

func TestRetriever_EssentialCommandsTop1(t *testing.T) {
	embedder := &keywordEmbedder{words: words()}
	idx := buildIndex(t, embedder)

	chunks, err := NewRetriever(idx, embedder, 5, 0).Retrieve(context.Background(), "What are the essential commands?")

	require.NoError(t, err)
	require.Len(t, chunks, 4)
	assert.Contains(t, chunks[0].Content, "essential commands")
}

func TestRetriever_DefaultTopK(t *testing.T) {
	r := NewRetriever(nil, nil, 0, 0)
	assert.Equal(t, DefaultTopK, r.topK)
}

func TestRetriever_MinSimilarityFilters(t *testing.T) {
	embedder := &keywordEmbedder{words: words()}
	idx := buildIndex(t, embedder)

	chunks, err := NewRetriever(idx, embedder, 5, 0.5).Retrieve(context.Background(), "install")

	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "INSTALLATION", chunks[0].Section())
}

func TestRetriever_EmbeddingErrorIsProviderError(t *testing.T) {
	embedder := &keywordEmbedder{words: words()}
	idx := buildIndex(t, embedder)
	embedder.err = errors.New("dial tcp: connection refused")

	_, err := NewRetriever(idx, embedder, 5, 0).Retrieve(context.Background(), "pml")

	assert.ErrorIs(t, err, models.ErrEmbeddingProvider)
}

func TestRetrieveFromPath_IndexNotFoundSkipsEmbedding(t *testing.T) {
	embedder := &keywordEmbedder{words: words()}

	_, err := RetrieveFromPath(context.Background(), filepath.Join(t.TempDir(), "none.gob"), embedder, "pml", 5)

	assert.ErrorIs(t, err, models.ErrIndexNotFound)
	assert.Equal(t, 0, embedder.calls)
}

func TestRetrieveFromPath_DimensionMismatch(t *testing.T) {
	embedder := &keywordEmbedder{words: words()}
	path := filepath.Join(t.TempDir(), "vector_db.gob")
	_, err := db.Build(context.Background(), []*models.Chunk{chunk("pml", "PML", "1")}, embedder, path, db.BuildOptions{})
	require.NoError(t, err)

	other := &keywordEmbedder{words: []string{"only"}}
	_, err = RetrieveFromPath(context.Background(), path, other, "pml", 5)

	assert.ErrorIs(t, err, models.ErrDimensionMismatch)
}

func TestGenerator_PromptLayout(t *testing.T) {
	g := NewGenerator(&fakeCompleter{}, Assistant{}, 0)
	chunks := []*models.Chunk{chunk("second by score", "B", "2"), chunk("first by score", "A", "1")}

	prompt := g.BuildPrompt("How do I install gprMax?", chunks)

	assert.Contains(t, prompt, "using only the context")
	assert.Contains(t, prompt, "official gprMax documentation")
	assert.Contains(t, prompt, DefaultAssistant.ReferenceURL)
	assert.Contains(t, prompt, "second by score\n\nfirst by score")
	assert.Less(t, strings.Index(prompt, "second by score"), strings.Index(prompt, "How do I install gprMax?"))
	assert.True(t, strings.HasSuffix(prompt, "Answer:"))
}

func TestGenerator_ReturnsRawText(t *testing.T) {
	completer := &fakeCompleter{answer: "  Use `#domain:` first.\n"}
	g := NewGenerator(completer, DefaultAssistant, time.Second)

	answer, err := g.Generate(context.Background(), "q", nil)

	require.NoError(t, err)
	assert.Equal(t, "  Use `#domain:` first.\n", answer)
	assert.Len(t, completer.prompts, 1)
}

func TestGenerator_FailureIsGenerationError(t *testing.T) {
	g := NewGenerator(&fakeCompleter{err: errors.New("500 internal")}, DefaultAssistant, time.Second)

	_, err := g.Generate(context.Background(), "q", nil)

	assert.ErrorIs(t, err, models.ErrGeneration)
	assert.NotErrorIs(t, err, models.ErrGenerationTimeout)
}

func TestGenerator_TimeoutIsGenerationTimeout(t *testing.T) {
	completer := &fakeCompleter{block: make(chan struct{})}
	defer close(completer.block)
	g := NewGenerator(completer, DefaultAssistant, 20*time.Millisecond)

	_, err := g.Generate(context.Background(), "q", nil)

	assert.ErrorIs(t, err, models.ErrGenerationTimeout)
	assert.ErrorIs(t, err, models.ErrGeneration)
}

func TestEngine_Ask(t *testing.T) {
	embedder := &keywordEmbedder{words: words()}
	idx := buildIndex(t, embedder)
	completer := &fakeCompleter{answer: "Use #domain, #dx_dy_dz and #time_window."}
	engine := NewEngine(NewRetriever(idx, embedder, 2, 0), NewGenerator(completer, DefaultAssistant, time.Second), nil)

	result, err := engine.Ask(context.Background(), "What are the essential commands?")

	require.NoError(t, err)
	assert.Equal(t, "Use #domain, #dx_dy_dz and #time_window.", result.Answer)
	require.Len(t, result.Sources, 2)
	assert.Equal(t, "Section: ESSENTIAL COMMANDS, Page: 5", result.Sources[0])
	require.Len(t, completer.prompts, 1)
	assert.Contains(t, completer.prompts[0], "The essential commands are")
}

func TestEngine_TimeoutReturnsNoPartialAnswer(t *testing.T) {
	embedder := &keywordEmbedder{words: words()}
	idx := buildIndex(t, embedder)
	completer := &fakeCompleter{answer: "late", block: make(chan struct{})}
	defer close(completer.block)
	engine := NewEngine(NewRetriever(idx, embedder, 5, 0), NewGenerator(completer, DefaultAssistant, 20*time.Millisecond), nil)

	result, err := engine.Ask(context.Background(), "pml")

	assert.Nil(t, result)
	assert.ErrorIs(t, err, models.ErrGeneration)
	assert.Equal(t, MsgTimeout, FallbackMessage(err))
}

func TestEngine_EmptyQuestion(t *testing.T) {
	engine := NewEngine(NewRetriever(nil, nil, 5, 0), NewGenerator(&fakeCompleter{}, DefaultAssistant, 0), nil)

	_, err := engine.Ask(context.Background(), "   ")

	assert.Error(t, err)
}

func TestBuildSources_Dedup(t *testing.T) {
	chunks := []*models.Chunk{
		chunk("a", "PML", "14"),
		chunk("b", "SOIL", "11"),
		chunk("c", "PML", "14"),
		chunk("d", "", ""),
		{Content: "e"},
	}

	sources := BuildSources(chunks)

	assert.Equal(t, []string{
		"Section: PML, Page: 14",
		"Section: SOIL, Page: 11",
		"Section: Unknown, Page: Unknown",
	}, sources)
}

func TestAssemble_KeepsAnswer(t *testing.T) {
	result := Assemble("answer", nil)

	assert.Equal(t, "answer", result.Answer)
	assert.Empty(t, result.Sources)
}

func TestFallbackMessage(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{models.ErrIndexNotFound, MsgNoIndex},
		{models.ErrGenerationTimeout, MsgTimeout},
		{models.ErrGeneration, MsgNoAnswer},
		{models.ErrDimensionMismatch, MsgIndexMismatch},
		{models.ErrEmbeddingProvider, MsgEmbedding},
		{errors.New("other"), MsgUnknown},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, FallbackMessage(c.err))
	}
	assert.NotEqual(t, FallbackMessage(models.ErrIndexNotFound), FallbackMessage(models.ErrGeneration))
}
