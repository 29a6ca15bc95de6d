// Package llm 언어 모델 호출을 감싸는 Completer 구현을 제공합니다.
package llm

import "context"

// Completer 프롬프트 하나를 보내고 모델의 텍스트 응답을 받는 인터페이스
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}
