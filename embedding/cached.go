package embedding

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultQueryCacheSize 캐시에 보관할 질문 임베딩 개수
const DefaultQueryCacheSize = 256

// Cached 같은 질문을 반복하면 저장된 질문 벡터를 재사용합니다.
// 문서 임베딩은 매번 전체 재생성이므로 캐시하지 않습니다.
type Cached struct {
	inner Embedder
	cache *lru.Cache[string, []float32]
}

// NewCached inner를 감싸는 질문 캐시를 생성합니다
func NewCached(inner Embedder, size int) *Cached {
	if size <= 0 {
		size = DefaultQueryCacheSize
	}
	cache, _ := lru.New[string, []float32](size)
	return &Cached{inner: inner, cache: cache}
}

// EmbedDocuments inner로 그대로 전달합니다
func (c *Cached) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	return c.inner.EmbedDocuments(ctx, texts)
}

// EmbedQuery 캐시에 있으면 저장된 벡터를, 없으면 inner 결과를 저장 후 반환합니다
func (c *Cached) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	if vec, ok := c.cache.Get(text); ok {
		return vec, nil
	}

	vec, err := c.inner.EmbedQuery(ctx, text)
	if err != nil {
		return nil, err
	}

	c.cache.Add(text, vec)
	return vec, nil
}
