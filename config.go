package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gprmax-ragbot/chunker"
	"gprmax-ragbot/loader"
	"gprmax-ragbot/rag"

	"gopkg.in/yaml.v3"
)

const defaultConfigPath = "config.yaml"

// 제공자 이름
const (
	providerGemini = "gemini"
	providerOpenAI = "openai"
	providerOllama = "ollama"
)

// EmbeddingConfig 임베딩 제공자 설정
type EmbeddingConfig struct {
	Provider  string `yaml:"provider"`
	Model     string `yaml:"model"`
	BaseURL   string `yaml:"base_url"`
	BatchSize int    `yaml:"batch_size"`
}

// GenerationConfig 답변 생성 모델 설정
type GenerationConfig struct {
	Provider    string        `yaml:"provider"`
	Model       string        `yaml:"model"`
	BaseURL     string        `yaml:"base_url"`
	Temperature float32       `yaml:"temperature"`
	Timeout     time.Duration `yaml:"timeout"`
}

// AssistantConfig 프롬프트에 들어가는 제품 정보
type AssistantConfig struct {
	Product      string `yaml:"product"`
	ReferenceURL string `yaml:"reference_url"`
}

// Config 애플리케이션 설정 구조체
type Config struct {
	IndexPath     string           `yaml:"index_path"`
	SourcePath    string           `yaml:"source_path"`
	Include       []string         `yaml:"include"`
	ChunkSize     int              `yaml:"chunk_size"`
	ChunkOverlap  int              `yaml:"chunk_overlap"`
	TopK          int              `yaml:"top_k"`
	MinSimilarity float32          `yaml:"min_similarity"`
	Embedding     EmbeddingConfig  `yaml:"embedding"`
	Generation    GenerationConfig `yaml:"generation"`
	Assistant     AssistantConfig  `yaml:"assistant"`
	LogLevel      string           `yaml:"log_level"`

	// API 키는 설정 파일 또는 환경 변수로만 주입합니다 (환경 변수 우선)
	GeminiAPIKey string `yaml:"gemini_api_key"`
	OpenAIAPIKey string `yaml:"openai_api_key"`
}

// DefaultConfig 기본 설정을 반환합니다
func DefaultConfig() *Config {
	return &Config{
		IndexPath:    "./data/vector_db.gob",
		SourcePath:   "./docs",
		Include:      append([]string(nil), loader.DefaultInclude...),
		ChunkSize:    chunker.DefaultChunkSize,
		ChunkOverlap: chunker.DefaultChunkOverlap,
		TopK:         rag.DefaultTopK,
		Embedding: EmbeddingConfig{
			Provider:  providerGemini,
			BatchSize: 32,
		},
		Generation: GenerationConfig{
			Provider: providerGemini,
			Timeout:  rag.DefaultGenerationTimeout,
		},
		Assistant: AssistantConfig{
			Product:      rag.DefaultAssistant.Product,
			ReferenceURL: rag.DefaultAssistant.ReferenceURL,
		},
		LogLevel: "info",
	}
}

// LoadConfig 설정 파일을 로드합니다.
// 파일이 없으면 기본 설정 파일을 만들고, 기본값과 환경 변수로 계속 진행합니다.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = defaultConfigPath
	}

	config := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		if err := writeDefaultConfig(path); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, fmt.Errorf("설정 파일 읽기 실패: %w", err)
	default:
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("설정 파일 파싱 실패: %w", err)
		}
	}

	config.applyEnv()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return config, nil
}

func writeDefaultConfig(path string) error {
	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return fmt.Errorf("설정 파일 생성 실패: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("설정 파일 쓰기 실패: %w", err)
	}
	return nil
}

// applyEnv 환경 변수의 API 키로 덮어씁니다
func (c *Config) applyEnv() {
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.GeminiAPIKey = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		c.OpenAIAPIKey = v
	}
}

// Validate 설정 값을 검증합니다
func (c *Config) Validate() error {
	if c.IndexPath == "" {
		return errors.New("index_path가 설정되지 않았습니다")
	}
	if c.ChunkSize <= 0 {
		return fmt.Errorf("chunk_size는 0보다 커야 합니다: %d", c.ChunkSize)
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("chunk_overlap은 0 이상 chunk_size 미만이어야 합니다: %d", c.ChunkOverlap)
	}
	if c.TopK <= 0 {
		return fmt.Errorf("top_k는 0보다 커야 합니다: %d", c.TopK)
	}
	if c.MinSimilarity < 0 || c.MinSimilarity > 1 {
		return fmt.Errorf("min_similarity는 0과 1 사이여야 합니다: %v", c.MinSimilarity)
	}

	switch c.Embedding.Provider {
	case providerGemini, providerOpenAI, providerOllama:
	default:
		return fmt.Errorf("알 수 없는 embedding.provider: %q", c.Embedding.Provider)
	}

	switch c.Generation.Provider {
	case providerGemini, providerOpenAI:
	default:
		return fmt.Errorf("알 수 없는 generation.provider: %q", c.Generation.Provider)
	}

	return nil
}

// CheckCredentials 사용할 제공자에 필요한 API 키가 있는지 확인합니다
func (c *Config) CheckCredentials(generation bool) error {
	if c.Embedding.Provider == providerGemini && c.GeminiAPIKey == "" {
		return errors.New("gemini_api_key 또는 GEMINI_API_KEY가 설정되지 않았습니다")
	}
	if c.Embedding.Provider == providerOpenAI && c.OpenAIAPIKey == "" {
		return errors.New("openai_api_key 또는 OPENAI_API_KEY가 설정되지 않았습니다")
	}
	if !generation {
		return nil
	}
	if c.Generation.Provider == providerGemini && c.GeminiAPIKey == "" {
		return errors.New("gemini_api_key 또는 GEMINI_API_KEY가 설정되지 않았습니다")
	}
	// OpenAI 호환 서버(base_url 지정)는 키가 없어도 됨
	if c.Generation.Provider == providerOpenAI && c.OpenAIAPIKey == "" && c.Generation.BaseURL == "" {
		return errors.New("openai_api_key 또는 OPENAI_API_KEY가 설정되지 않았습니다")
	}
	return nil
}
