package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhishekgitt/geo-economy-analyzer-ai/domain/article"
	"github.com/abhishekgitt/geo-economy-analyzer-ai/domain/search"
)

type fakeFeed struct {
	records map[string][]article.Raw
	err     error
}

func (f *fakeFeed) FetchArticles(_ context.Context, query string) ([]article.Raw, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.records[query], nil
}

type fakeExtractor struct {
	bodies map[string]string
	calls  []string
	mu     sync.Mutex
}

func (f *fakeExtractor) ExtractFullText(_ context.Context, pageURL string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, pageURL)
	return f.bodies[pageURL]
}

type fakeArticleStore struct {
	mu     sync.Mutex
	byURL  map[string]article.Article
	nextID int64
}

func newFakeArticleStore() *fakeArticleStore {
	return &fakeArticleStore{byURL: map[string]article.Article{}}
}

func (f *fakeArticleStore) Upsert(_ context.Context, a article.Article) (article.Article, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if existing, ok := f.byURL[a.URL()]; ok {
		replaced := article.Reconstruct(existing.ID(), existing.URL(), a.Title(), a.Snippet(),
			a.Source(), a.PublishedAt(), existing.FetchedAt())
		f.byURL[a.URL()] = replaced
		return replaced, false, nil
	}
	f.nextID++
	created := article.Reconstruct(f.nextID, a.URL(), a.Title(), a.Snippet(),
		a.Source(), a.PublishedAt(), a.FetchedAt())
	f.byURL[a.URL()] = created
	return created, true, nil
}

func (f *fakeArticleStore) FindByURL(_ context.Context, url string) (article.Article, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.byURL[url]
	if !ok {
		return article.Article{}, errors.New("not found")
	}
	return a, nil
}

func (f *fakeArticleStore) All(context.Context) ([]article.Article, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]article.Article, 0, len(f.byURL))
	for id := int64(1); id <= f.nextID; id++ {
		for _, a := range f.byURL {
			if a.ID() == id {
				out = append(out, a)
			}
		}
	}
	return out, nil
}

func (f *fakeArticleStore) Count(context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.byURL)), nil
}

type fakeSummaryStore struct {
	mu        sync.Mutex
	byArticle map[int64]article.Summary
	pending   []article.Article
	listErr   error
}

func newFakeSummaryStore() *fakeSummaryStore {
	return &fakeSummaryStore{byArticle: map[int64]article.Summary{}}
}

func (f *fakeSummaryStore) UpsertForArticle(_ context.Context, a article.Article, s article.Summary) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byArticle[a.ID()] = s
	return nil
}

func (f *fakeSummaryStore) Unsummarized(context.Context) ([]article.Article, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.pending, nil
}

type fakeTopicStore struct {
	mu       sync.Mutex
	topics   map[string]article.Topic
	attached map[int64]map[string]bool
	nextID   int64
}

func newFakeTopicStore() *fakeTopicStore {
	return &fakeTopicStore{
		topics:   map[string]article.Topic{},
		attached: map[int64]map[string]bool{},
	}
}

func (f *fakeTopicStore) GetOrCreate(_ context.Context, name string) (article.Topic, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t, ok := f.topics[name]; ok {
		return t, false, nil
	}
	f.nextID++
	t := article.ReconstructTopic(f.nextID, name, article.Slugify(name))
	f.topics[name] = t
	return t, true, nil
}

func (f *fakeTopicStore) Attach(_ context.Context, a article.Article, t article.Topic) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.attached[a.ID()] == nil {
		f.attached[a.ID()] = map[string]bool{}
	}
	f.attached[a.ID()][t.Name()] = true
	return nil
}

func (f *fakeTopicStore) TopicsFor(_ context.Context, a article.Article) ([]article.Topic, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []article.Topic
	for name := range f.attached[a.ID()] {
		out = append(out, f.topics[name])
	}
	return out, nil
}

type fakeEmbedder struct {
	vector []float32
	err    error
}

func (f *fakeEmbedder) Embed(context.Context, string) ([]float32, error) {
	return f.vector, f.err
}

type fakeVectorStore struct {
	mu      sync.Mutex
	points  map[uint64]search.Point
	matches []search.Match
	upErr   error
	qErr    error
}

func newFakeVectorStore() *fakeVectorStore {
	return &fakeVectorStore{points: map[uint64]search.Point{}}
}

func (f *fakeVectorStore) EnsureCollection(context.Context) error { return nil }

func (f *fakeVectorStore) Upsert(_ context.Context, p search.Point) error {
	if f.upErr != nil {
		return f.upErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.points[p.ID] = p
	return nil
}

func (f *fakeVectorStore) Query(context.Context, []float32, int) ([]search.Match, error) {
	if f.qErr != nil {
		return nil, f.qErr
	}
	return f.matches, nil
}

type fakeGenerator struct {
	answer  string
	err     error
	prompts []string
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (search.Completion, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return search.Completion{}, f.err
	}
	return search.Completion{Text: f.answer, Model: "test-model"}, nil
}

func body(n int) string {
	return strings.TrimSpace(strings.Repeat("word ", n))
}

func newTestPipeline(feeds FeedFetcher, extractor TextExtractor) (*Pipeline, *fakeArticleStore, *fakeTopicStore, *fakeVectorStore, *fakeSummaryStore) {
	articles := newFakeArticleStore()
	topics := newFakeTopicStore()
	vectors := newFakeVectorStore()
	summaries := newFakeSummaryStore()
	tagger := NewTagger(topics, []string{"inflation", "layoffs"}, nil)
	indexer := NewIndexer(&fakeEmbedder{vector: []float32{1, 2}}, vectors, nil)
	p := NewPipeline(feeds, extractor, articles, summaries, tagger, indexer, PipelineConfig{
		Keywords:        []string{"inflation", "layoffs"},
		ChunkSize:       5,
		TopN:            20,
		MinArticleWords: 10,
		Workers:         2,
	}, nil)
	return p, articles, topics, vectors, summaries
}

func TestPipelineRun(t *testing.T) {
	feeds := &fakeFeed{records: map[string][]article.Raw{
		`("inflation" OR "layoffs")`: {
			{URL: "https://news.example/long", Title: "inflation up", Snippet: body(30), Source: "news.example"},
			{URL: "https://news.example/thin", Title: "layoffs loom", Snippet: "inflation short", Source: "news.example"},
			{URL: "https://news.example/long", Title: "duplicate", Snippet: body(30)},
			{URL: "https://news.example/hopeless", Title: "layoffs", Snippet: "tiny"},
		},
	}}
	extractor := &fakeExtractor{bodies: map[string]string{
		"https://news.example/thin": "inflation " + body(40),
	}}

	p, articles, topics, vectors, summaries := newTestPipeline(feeds, extractor)

	report, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, report.Fetched())
	assert.Equal(t, 3, report.Candidates(), "duplicates must be removed before ranking")
	assert.Equal(t, 2, report.Saved())
	assert.Equal(t, 1, report.Skipped(), "a candidate that stays thin after extraction is dropped")
	assert.Equal(t, 2, report.Indexed())
	assert.Equal(t, 0, report.Failures())

	count, _ := articles.Count(context.Background())
	assert.Equal(t, int64(2), count)

	// The thin candidate's snippet must be replaced by the extracted body.
	rescued, err := articles.FindByURL(context.Background(), "https://news.example/thin")
	require.NoError(t, err)
	assert.Greater(t, rescued.BodyWords(), 30)

	// Every persisted article is tagged, summarized and indexed.
	assert.Len(t, vectors.points, 2)
	assert.Len(t, summaries.byArticle, 2)
	attached, err := topics.TopicsFor(context.Background(), rescued)
	require.NoError(t, err)
	assert.NotEmpty(t, attached)
}

func TestPipelineRunNoKeywords(t *testing.T) {
	p, _, _, _, _ := newTestPipeline(&fakeFeed{}, &fakeExtractor{})
	p.cfg.Keywords = nil

	_, err := p.Run(context.Background())
	assert.ErrorIs(t, err, ErrNoKeywords)
}

func TestPipelineRunFeedFailureCounted(t *testing.T) {
	feeds := &fakeFeed{err: errors.New("feed down")}
	p, _, _, _, _ := newTestPipeline(feeds, &fakeExtractor{})

	report, err := p.Run(context.Background())
	require.NoError(t, err, "a failing feed query must not abort the run")
	assert.Equal(t, 1, report.Failures())
	assert.Equal(t, 0, report.Saved())
}

func TestPipelineSkipsExtractionForLongSnippets(t *testing.T) {
	feeds := &fakeFeed{records: map[string][]article.Raw{
		`("inflation" OR "layoffs")`: {
			{URL: "https://news.example/long", Title: "inflation", Snippet: body(50)},
		},
	}}
	extractor := &fakeExtractor{}
	p, _, _, _, _ := newTestPipeline(feeds, extractor)

	_, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, extractor.calls, "extraction must only run for thin snippets")
}

func TestTagger(t *testing.T) {
	topics := newFakeTopicStore()
	tagger := NewTagger(topics, []string{"inflation", "trade war", "layoffs"}, nil)
	a := article.Reconstruct(1, "https://news.example/1", "INFLATION and the Trade War", "a body", "s", nil, time.Time{})

	attached, err := tagger.Tag(context.Background(), a)
	require.NoError(t, err)
	require.Len(t, attached, 2)
	assert.Equal(t, "inflation", attached[0].Name())
	assert.Equal(t, "trade war", attached[1].Name())

	// Re-tagging stays idempotent at the store level.
	again, err := tagger.Tag(context.Background(), a)
	require.NoError(t, err)
	assert.Len(t, again, 2)
	got, _ := topics.TopicsFor(context.Background(), a)
	assert.Len(t, got, 2)
}

func TestTaggerSeedTopics(t *testing.T) {
	topics := newFakeTopicStore()
	tagger := NewTagger(topics, nil, nil)

	created, err := tagger.SeedTopics(context.Background(), []string{"inflation", "", "layoffs", "inflation"})
	require.NoError(t, err)
	assert.Equal(t, 2, created)
}

func TestIndexerUpsertArticle(t *testing.T) {
	vectors := newFakeVectorStore()
	ix := NewIndexer(&fakeEmbedder{vector: []float32{0.5}}, vectors, nil)
	a := article.Reconstruct(7, "https://news.example/1", "title", body(20), "src", nil, time.Time{})

	assert.True(t, ix.UpsertArticle(context.Background(), a))
	point, ok := vectors.points[7]
	require.True(t, ok)
	assert.Equal(t, "https://news.example/1", point.Payload.URL)
}

func TestIndexerUpsertArticleEmbedFailure(t *testing.T) {
	vectors := newFakeVectorStore()
	ix := NewIndexer(&fakeEmbedder{err: errors.New("quota")}, vectors, nil)
	a := article.Reconstruct(7, "https://news.example/1", "title", "text", "src", nil, time.Time{})

	assert.False(t, ix.UpsertArticle(context.Background(), a), "embed failure must report false, not panic or error")
	assert.Empty(t, vectors.points)
}

func TestIndexerUpsertArticleStoreFailure(t *testing.T) {
	vectors := newFakeVectorStore()
	vectors.upErr = errors.New("qdrant down")
	ix := NewIndexer(&fakeEmbedder{vector: []float32{1}}, vectors, nil)
	a := article.Reconstruct(7, "https://news.example/1", "title", "text", "src", nil, time.Time{})

	assert.False(t, ix.UpsertArticle(context.Background(), a))
}

func TestIndexerSearchSimilarDegradesToEmpty(t *testing.T) {
	ix := NewIndexer(&fakeEmbedder{err: errors.New("quota")}, newFakeVectorStore(), nil)
	assert.Nil(t, ix.SearchSimilar(context.Background(), "question", 5))

	vectors := newFakeVectorStore()
	vectors.qErr = errors.New("qdrant down")
	ix = NewIndexer(&fakeEmbedder{vector: []float32{1}}, vectors, nil)
	assert.Nil(t, ix.SearchSimilar(context.Background(), "question", 5))
}

func TestIndexerReindexAll(t *testing.T) {
	articles := newFakeArticleStore()
	for _, url := range []string{"https://news.example/1", "https://news.example/2"} {
		_, _, err := articles.Upsert(context.Background(), article.New(url, "t", body(20), "s", nil))
		require.NoError(t, err)
	}
	vectors := newFakeVectorStore()
	ix := NewIndexer(&fakeEmbedder{vector: []float32{1}}, vectors, nil)

	indexed, failed, err := ix.ReindexAll(context.Background(), articles)
	require.NoError(t, err)
	assert.Equal(t, 2, indexed)
	assert.Equal(t, 0, failed)
	assert.Len(t, vectors.points, 2)
}

func TestTruncateKeepsRuneBoundaries(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 100))
	assert.Equal(t, "ab", truncate("abcdef", 2))

	// "é" is two bytes; cutting at byte 2 would split it.
	cut := truncate("héllo", 2)
	assert.Equal(t, "h", cut)
	assert.True(t, utf8.ValidString(cut))

	cut = truncate(strings.Repeat("日", 10), 7)
	assert.True(t, utf8.ValidString(cut))
	assert.Equal(t, "日日", cut, "a three-byte rune must not be split at byte 7")
}

func TestSummarizerRun(t *testing.T) {
	summaries := newFakeSummaryStore()
	summaries.pending = []article.Article{
		article.Reconstruct(1, "https://news.example/1", "Inflation cools", body(40), "news.example", nil, time.Time{}),
		article.Reconstruct(2, "https://news.example/2", "Layoffs widen", body(40), "news.example", nil, time.Time{}),
	}
	gen := &fakeGenerator{answer: "A concise summary."}
	s := NewSummarizer(summaries, gen, nil)

	summarized, failed, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, summarized)
	assert.Equal(t, 0, failed)

	sum, ok := summaries.byArticle[1]
	require.True(t, ok)
	assert.Equal(t, "A concise summary.", sum.AISummary())
	assert.Equal(t, "test-model", sum.ModelVersion())
	require.NotNil(t, sum.SummarizedAt())
	require.NotNil(t, sum.Confidence())

	require.Len(t, gen.prompts, 2)
	assert.Contains(t, gen.prompts[0], "Inflation cools")
}

func TestSummarizerRunGeneratorFailure(t *testing.T) {
	summaries := newFakeSummaryStore()
	summaries.pending = []article.Article{
		article.Reconstruct(1, "https://news.example/1", "title", body(40), "src", nil, time.Time{}),
	}
	s := NewSummarizer(summaries, &fakeGenerator{err: errors.New("models exhausted")}, nil)

	summarized, failed, err := s.Run(context.Background())
	require.NoError(t, err, "per-article failures must not abort the pass")
	assert.Equal(t, 0, summarized)
	assert.Equal(t, 1, failed)
	assert.Empty(t, summaries.byArticle, "a failed article keeps its provisional summary")
}

func TestSummarizerRunNothingPending(t *testing.T) {
	gen := &fakeGenerator{answer: "unused"}
	s := NewSummarizer(newFakeSummaryStore(), gen, nil)

	summarized, failed, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, summarized)
	assert.Equal(t, 0, failed)
	assert.Empty(t, gen.prompts)
}

func TestAssistantAsk(t *testing.T) {
	vectors := newFakeVectorStore()
	vectors.matches = []search.Match{
		{ID: 1, Score: 0.9, Payload: search.Payload{Title: "Inflation cools", Source: "news.example", Snippet: "prices fell"}},
	}
	ix := NewIndexer(&fakeEmbedder{vector: []float32{1}}, vectors, nil)
	gen := &fakeGenerator{answer: "Inflation is cooling."}
	assistant := NewAssistant(ix, gen, 5, nil)

	answer, err := assistant.Ask(context.Background(), "What is happening with inflation?")
	require.NoError(t, err)
	assert.Equal(t, "Inflation is cooling.", answer.Text())
	require.Len(t, answer.Sources(), 1)

	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "Inflation cools")
	assert.Contains(t, gen.prompts[0], "What is happening with inflation?")
}

func TestAssistantAskWithoutContext(t *testing.T) {
	ix := NewIndexer(&fakeEmbedder{err: errors.New("quota")}, newFakeVectorStore(), nil)
	gen := &fakeGenerator{answer: "an ungrounded answer"}
	assistant := NewAssistant(ix, gen, 5, nil)

	answer, err := assistant.Ask(context.Background(), "anything?")
	require.NoError(t, err, "retrieval failure must degrade, not fail the question")
	assert.Equal(t, "an ungrounded answer", answer.Text())
	assert.Empty(t, answer.Sources())
}

func TestAssistantAskEmptyQuestion(t *testing.T) {
	assistant := NewAssistant(NewIndexer(&fakeEmbedder{}, newFakeVectorStore(), nil), &fakeGenerator{}, 5, nil)
	_, err := assistant.Ask(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyQuestion)
}

func TestAssistantGenerateFailure(t *testing.T) {
	ix := NewIndexer(&fakeEmbedder{vector: []float32{1}}, newFakeVectorStore(), nil)
	assistant := NewAssistant(ix, &fakeGenerator{err: errors.New("models exhausted")}, 5, nil)

	_, err := assistant.Ask(context.Background(), "a question")
	require.Error(t, err)
}
