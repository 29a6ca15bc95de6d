package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"gprmax-ragbot/db"
	"gprmax-ragbot/embedding"
	"gprmax-ragbot/ingest"
	"gprmax-ragbot/rag"
	"gprmax-ragbot/ui"

	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "오류: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// app 명령 실행에 필요한 공통 상태
type app struct {
	configPath string
	debug      bool

	config *Config
	logger *slog.Logger
	stdout io.Writer
	stderr io.Writer
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}
	var reload bool

	root := &cobra.Command{
		Use:           "ragbot",
		Short:         "gprMax 문서 기반 질의응답 챗봇",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runChat(cmd.Context(), reload)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", defaultConfigPath, "설정 파일 경로")
	root.PersistentFlags().BoolVar(&a.debug, "debug", false, "디버그 로그 출력")
	root.Flags().BoolVar(&reload, "reload", false, "채팅 전에 문서를 다시 수집합니다")

	root.AddCommand(a.newIngestCmd(), a.newAskCmd())
	return root
}

func (a *app) setup() error {
	config, err := LoadConfig(a.configPath)
	if err != nil {
		return fmt.Errorf("설정 로드 실패: %w", err)
	}
	a.config = config
	a.logger = newLogger(a.stderr, config.LogLevel, a.debug)
	slog.SetDefault(a.logger)
	return nil
}

func (a *app) newIngestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "문서를 읽어 벡터 인덱스를 새로 만듭니다",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			flags := cmd.Flags()
			if flags.Changed("source") {
				a.config.SourcePath, _ = flags.GetString("source")
			}
			if flags.Changed("index") {
				a.config.IndexPath, _ = flags.GetString("index")
			}
			if flags.Changed("chunk-size") {
				a.config.ChunkSize, _ = flags.GetInt("chunk-size")
			}
			if flags.Changed("chunk-overlap") {
				a.config.ChunkOverlap, _ = flags.GetInt("chunk-overlap")
			}
			if err := a.config.Validate(); err != nil {
				return err
			}
			return a.runIngest(cmd.Context())
		},
	}
	cmd.Flags().String("source", "", "문서 파일 또는 디렉터리 (기본: source_path)")
	cmd.Flags().String("index", "", "인덱스 파일 경로 (기본: index_path)")
	cmd.Flags().Int("chunk-size", 0, "청크 크기(문자 수)")
	cmd.Flags().Int("chunk-overlap", 0, "청크 겹침(문자 수)")
	return cmd
}

func (a *app) newAskCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "질문 하나에 답하고 종료합니다",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runAsk(cmd.Context(), strings.Join(args, " "), asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "답변과 출처를 JSON으로 출력")
	return cmd
}

func (a *app) runIngest(ctx context.Context) error {
	if err := a.config.CheckCredentials(false); err != nil {
		return err
	}

	embedder, closeEmbedder, err := newEmbedder(ctx, a.config)
	if err != nil {
		return fmt.Errorf("임베딩 생성기 초기화 실패: %w", err)
	}
	defer closeEmbedder()

	opts := ingest.Options{
		SourcePath:   a.config.SourcePath,
		IndexPath:    a.config.IndexPath,
		ChunkSize:    a.config.ChunkSize,
		ChunkOverlap: a.config.ChunkOverlap,
		Include:      a.config.Include,
		BatchSize:    a.config.Embedding.BatchSize,
	}
	if progressEnabled() {
		opts.OnProgress = newEmbedProgress(a.stderr).Update
	}

	stats, err := ingest.Run(ctx, opts, embedder, a.logger)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.stdout, "✅ 인덱스 저장 완료! (문서 %d개, 청크 %d개) → %s\n", stats.Documents, stats.Chunks, stats.IndexPath)
	return nil
}

// openEngine 인덱스를 먼저 연 뒤 제공자를 만듭니다. 인덱스가 없으면 외부 호출 없이 실패합니다.
func (a *app) openEngine(ctx context.Context) (*rag.Engine, func(), error) {
	index, err := db.Open(ctx, a.config.IndexPath)
	if err != nil {
		return nil, nil, err
	}
	a.logger.Debug("인덱스 로드", "path", index.Path(), "chunks", index.Count(), "dimension", index.Dimension())

	if err := a.config.CheckCredentials(true); err != nil {
		return nil, nil, err
	}

	embedder, closeEmbedder, err := newEmbedder(ctx, a.config)
	if err != nil {
		return nil, nil, fmt.Errorf("임베딩 생성기 초기화 실패: %w", err)
	}
	completer, closeCompleter, err := newCompleter(ctx, a.config)
	if err != nil {
		closeEmbedder()
		return nil, nil, fmt.Errorf("답변 생성 모델 초기화 실패: %w", err)
	}

	assistant := rag.Assistant{
		Product:      a.config.Assistant.Product,
		ReferenceURL: a.config.Assistant.ReferenceURL,
	}
	engine := rag.NewEngine(
		rag.NewRetriever(index, embedding.NewCached(embedder, embedding.DefaultQueryCacheSize), a.config.TopK, a.config.MinSimilarity),
		rag.NewGenerator(completer, assistant, a.config.Generation.Timeout),
		a.logger,
	)

	cleanup := func() {
		closeCompleter()
		closeEmbedder()
	}
	return engine, cleanup, nil
}

func (a *app) runAsk(ctx context.Context, question string, asJSON bool) error {
	engine, cleanup, err := a.openEngine(ctx)
	if err != nil {
		return a.fail(err)
	}
	defer cleanup()

	result, err := engine.Ask(ctx, question)
	if err != nil {
		return a.fail(err)
	}

	if asJSON {
		enc := json.NewEncoder(a.stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	fmt.Fprintln(a.stdout, result.Answer)
	if len(result.Sources) > 0 {
		fmt.Fprintln(a.stdout, "\n📚 Sources:")
		for _, s := range result.Sources {
			fmt.Fprintf(a.stdout, "- %s\n", s)
		}
	}
	return nil
}

func (a *app) runChat(ctx context.Context, reload bool) error {
	if reload {
		fmt.Fprintln(a.stdout, "🔄 문서를 다시 수집하는 중...")
		if err := a.runIngest(ctx); err != nil {
			return err
		}
	} else if !db.Exists(a.config.IndexPath) {
		fmt.Fprintln(a.stderr, "⚠️  인덱스가 없습니다. --reload 옵션으로 문서를 먼저 수집할 수 있습니다.")
	}

	engine, cleanup, err := a.openEngine(ctx)
	if err != nil {
		return a.fail(err)
	}
	defer cleanup()

	if err := ui.Run(ctx, engine); err != nil {
		return fmt.Errorf("TUI 실행 실패: %w", err)
	}
	return nil
}

// fail 사용자에게 보여줄 안내 문구를 출력하고 원래 오류를 돌려줍니다
func (a *app) fail(err error) error {
	fmt.Fprintln(a.stderr, rag.FallbackMessage(err))
	return err
}
