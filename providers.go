package main

import (
	"context"
	"fmt"

	"gprmax-ragbot/embedding"
	"gprmax-ragbot/llm"
)

func noopClose() error { return nil }

// newEmbedder 설정된 임베딩 제공자를 생성합니다. 반환된 close는 항상 호출해야 합니다.
func newEmbedder(ctx context.Context, config *Config) (embedding.Embedder, func() error, error) {
	switch config.Embedding.Provider {
	case providerGemini:
		embedder, err := embedding.NewGemini(ctx, config.GeminiAPIKey, config.Embedding.Model)
		if err != nil {
			return nil, nil, err
		}
		return embedder, embedder.Close, nil
	case providerOpenAI:
		return embedding.NewOpenAI(config.OpenAIAPIKey, config.Embedding.Model), noopClose, nil
	case providerOllama:
		return embedding.NewOllama(config.Embedding.Model, config.Embedding.BaseURL), noopClose, nil
	default:
		return nil, nil, fmt.Errorf("알 수 없는 embedding.provider: %q", config.Embedding.Provider)
	}
}

// newCompleter 설정된 답변 생성 모델을 생성합니다
func newCompleter(ctx context.Context, config *Config) (llm.Completer, func() error, error) {
	gen := config.Generation
	switch gen.Provider {
	case providerGemini:
		completer, err := llm.NewGemini(ctx, config.GeminiAPIKey, gen.Model, gen.Temperature)
		if err != nil {
			return nil, nil, err
		}
		return completer, completer.Close, nil
	case providerOpenAI:
		return llm.NewOpenAI(config.OpenAIAPIKey, gen.Model, gen.BaseURL, gen.Temperature), noopClose, nil
	default:
		return nil, nil, fmt.Errorf("알 수 없는 generation.provider: %q", gen.Provider)
	}
}
