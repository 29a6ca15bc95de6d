package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const defaultGeminiModel = "gemini-2.5-flash"

// Gemini Gemini 생성 모델을 사용하는 Completer
type Gemini struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGemini 새로운 Gemini Completer를 생성합니다
func NewGemini(ctx context.Context, apiKey, model string, temperature float32) (*Gemini, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("Gemini 클라이언트 생성 실패: %w", err)
	}

	if model == "" {
		model = defaultGeminiModel
	}

	m := client.GenerativeModel(model)
	m.SetTemperature(temperature)

	return &Gemini{client: client, model: m}, nil
}

// Complete 프롬프트를 보내고 응답 텍스트를 합쳐서 반환합니다
func (g *Gemini) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}

	var answerParts []string
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				answerParts = append(answerParts, string(text))
			}
		}
	}

	if len(answerParts) == 0 {
		return "", errors.New("응답에 텍스트가 없습니다")
	}

	return strings.Join(answerParts, "\n"), nil
}

// Close 클라이언트를 닫습니다
func (g *Gemini) Close() error {
	return g.client.Close()
}
