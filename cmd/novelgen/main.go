// Package main 本地小说生成命令行工具（novelgen）
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"longnovel-ai/internal/application/batch"
	"longnovel-ai/internal/application/project"
	"longnovel-ai/internal/config"
	"longnovel-ai/internal/domain/entity"
	"longnovel-ai/internal/infrastructure/eino/callback"
	"longnovel-ai/internal/wire"
	"longnovel-ai/pkg/logger"
)

const localTenantSlug = "local"

var rootCmd = &cobra.Command{
	Use:   "novelgen",
	Short: "Generate a long-form novel from a creative premise",
	Long: `Generate a long-form novel from a creative premise.

Runs the full pipeline locally: outline, characters and worldview,
then chapter generation with consistency checks and memory updates.

Examples:
  novelgen --creative "一个少年在末日废土中寻找失踪的妹妹" --words 200000 --type scifi --chapters 5
  novelgen --interactive`,
	RunE: runGenerate,
}

func init() {
	rootCmd.Flags().String("creative", "", "creative premise for the novel")
	rootCmd.Flags().Int("words", 0, "target total word count (default 100000)")
	rootCmd.Flags().String("type", "", "genre tag, e.g. fantasy, scifi, romance")
	rootCmd.Flags().String("style", "", "writing style hint")
	rootCmd.Flags().Int("chapters", 1, "number of chapters to generate now")
	rootCmd.Flags().String("output", "", "output directory (default from config)")
	rootCmd.Flags().String("config", "", "config file path")
	rootCmd.Flags().Bool("interactive", false, "prompt for inputs interactively")
}

func main() {
	_ = godotenv.Load()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

type generateInput struct {
	Premise  string
	Words    int
	Genre    string
	Style    string
	Chapters int
	Output   string
}

func runGenerate(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	logger.Init(cfg.Observability.Logging.Level, cfg.Observability.Logging.Format)

	in := generateInput{}
	in.Premise, _ = cmd.Flags().GetString("creative")
	in.Words, _ = cmd.Flags().GetInt("words")
	in.Genre, _ = cmd.Flags().GetString("type")
	in.Style, _ = cmd.Flags().GetString("style")
	in.Chapters, _ = cmd.Flags().GetInt("chapters")
	in.Output, _ = cmd.Flags().GetString("output")

	if interactive, _ := cmd.Flags().GetBool("interactive"); interactive {
		if err := promptInput(&in); err != nil {
			return err
		}
	}
	if strings.TrimSpace(in.Premise) == "" {
		return fmt.Errorf("--creative is required (or use --interactive)")
	}
	if in.Chapters <= 0 {
		in.Chapters = 1
	}
	if in.Words <= 0 {
		in.Words = 100000
	}
	if in.Output == "" {
		in.Output = cfg.Workspace.OutputDir
	}

	ctx := context.Background()
	app, cleanup, err := wire.InitializeCLI(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initializing: %w", err)
	}
	defer cleanup()

	callback.Init(app.UsageRecorder, app.TenantCtx)

	tenant, err := ensureLocalTenant(ctx, app)
	if err != nil {
		return err
	}

	var settings *entity.ProjectSettings
	if in.Style != "" {
		settings = &entity.ProjectSettings{WritingStyle: in.Style}
	}
	proj, err := app.Projects.Create(ctx, project.CreateInput{
		TenantID:    tenant.ID,
		Title:       entity.TruncateRunes(in.Premise, 30),
		Premise:     in.Premise,
		Genre:       in.Genre,
		TargetWords: in.Words,
		Settings:    settings,
	})
	if err != nil {
		return fmt.Errorf("creating project: %w", err)
	}
	fmt.Printf("Project created: %s (%s)\n", proj.Title, proj.ID)

	fmt.Println("Generating outline...")
	outline, err := app.Outline.Generate(ctx, proj.ID)
	if err != nil {
		return fmt.Errorf("generating outline: %w", err)
	}
	fmt.Printf("Outline ready: %d chapters planned\n", outline.TotalChapters())

	fmt.Println("Building characters and worldview...")
	foundation, err := app.Foundation.Build(ctx, tenant.ID, proj.ID)
	if err != nil {
		return fmt.Errorf("building foundation: %w", err)
	}
	fmt.Printf("Foundation ready: %d characters, %d world settings\n",
		len(foundation.Characters), len(foundation.World))

	fmt.Printf("Generating %d chapter(s)...\n", in.Chapters)
	if err := generateChapters(ctx, app, tenant.ID, proj.ID, in.Chapters); err != nil {
		return err
	}

	outDir := filepath.Join(in.Output, proj.ID)
	written, err := exportChapters(ctx, app, proj.ID, in.Chapters, outDir)
	if err != nil {
		return fmt.Errorf("exporting chapters: %w", err)
	}
	fmt.Printf("Wrote %d chapter file(s) to %s\n", written, outDir)

	snapshotPath, err := app.Memory.Export(ctx, proj.ID, filepath.Join(outDir, cfg.Workspace.MemoryDir), cfg.Workspace.BackupKeep)
	if err != nil {
		return fmt.Errorf("exporting memory snapshot: %w", err)
	}
	fmt.Printf("Memory snapshot: %s\n", snapshotPath)
	return nil
}

// ensureLocalTenant 查找或创建本地租户，命令行模式下所有项目共用一个租户。
func ensureLocalTenant(ctx context.Context, app *wire.CLIApp) (*entity.Tenant, error) {
	tenant, err := app.TenantRepo.GetBySlug(ctx, localTenantSlug)
	if err != nil {
		return nil, fmt.Errorf("looking up local tenant: %w", err)
	}
	if tenant != nil {
		return tenant, nil
	}
	tenant = entity.NewTenant("Local", localTenantSlug)
	if err := app.TenantRepo.Create(ctx, tenant); err != nil {
		return nil, fmt.Errorf("creating local tenant: %w", err)
	}
	return tenant, nil
}

// generateChapters 分批生成章节，单批大小受 Runner 上限约束。
func generateChapters(ctx context.Context, app *wire.CLIApp, tenantID, projectID string, total int) error {
	const batchSize = 50
	for from := 1; from <= total; from += batchSize {
		to := from + batchSize - 1
		if to > total {
			to = total
		}
		result, err := app.Runner.Run(ctx, batch.Request{
			TenantID:    tenantID,
			ProjectID:   projectID,
			FromChapter: from,
			ToChapter:   to,
		})
		if err != nil {
			return fmt.Errorf("generating chapters %d-%d: %w", from, to, err)
		}
		for _, outcome := range result.Outcomes {
			status := "ok"
			if !outcome.Passed {
				status = "failed"
			}
			fmt.Printf("  chapter %d: %s (%d words, %d attempt(s))\n",
				outcome.ChapterNum, status, outcome.WordCount, outcome.Attempts)
		}
	}
	return nil
}

// exportChapters 将生成的章节写为 Markdown 文件。
func exportChapters(ctx context.Context, app *wire.CLIApp, projectID string, total int, outDir string) (int, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return 0, err
	}
	chapters, err := app.ChapterRepo.ListRange(ctx, projectID, 1, total)
	if err != nil {
		return 0, err
	}
	written := 0
	for _, ch := range chapters {
		if ch.ContentText == "" {
			continue
		}
		name := fmt.Sprintf("chapter_%03d.md", ch.SeqNum)
		var sb strings.Builder
		sb.WriteString("# 第" + strconv.Itoa(ch.SeqNum) + "章")
		if ch.Title != "" {
			sb.WriteString(" " + ch.Title)
		}
		sb.WriteString("\n\n")
		sb.WriteString(ch.ContentText)
		sb.WriteString("\n")
		if err := os.WriteFile(filepath.Join(outDir, name), []byte(sb.String()), 0o644); err != nil {
			return written, err
		}
		written++
	}
	return written, nil
}

// promptInput 交互式收集生成参数，已有的命令行参数作为默认值。
func promptInput(in *generateInput) error {
	reader := bufio.NewReader(os.Stdin)
	ask := func(label, current string) (string, error) {
		if current != "" {
			fmt.Printf("%s [%s]: ", label, current)
		} else {
			fmt.Printf("%s: ", label)
		}
		line, err := reader.ReadString('\n')
		if err != nil {
			return "", err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			return current, nil
		}
		return line, nil
	}

	var err error
	if in.Premise, err = ask("创意梗概", in.Premise); err != nil {
		return err
	}
	if in.Genre, err = ask("类型 (fantasy/scifi/...)", in.Genre); err != nil {
		return err
	}
	wordsStr, err := ask("目标总字数", strconv.Itoa(in.Words))
	if err != nil {
		return err
	}
	if v, convErr := strconv.Atoi(wordsStr); convErr == nil {
		in.Words = v
	}
	if in.Style, err = ask("写作风格", in.Style); err != nil {
		return err
	}
	chaptersStr, err := ask("本次生成章节数", strconv.Itoa(in.Chapters))
	if err != nil {
		return err
	}
	if v, convErr := strconv.Atoi(chaptersStr); convErr == nil {
		in.Chapters = v
	}
	return nil
}
