package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"fishbone/internal/fishbone"
	"fishbone/internal/llm"
	"fishbone/internal/report"
)

func main() {
	provider := flag.String("provider", "openai", "generation provider: openai or gemini")
	model := flag.String("model", "gpt-4o-mini", "generation model id")
	outDir := flag.String("out", ".", "directory for result artifacts")
	categoriesFlag := flag.String("categories", "", "comma-separated category override (default: 6M set)")
	flag.Parse()

	_ = godotenv.Load()

	envKey := "OPENAI_API_KEY"
	if strings.EqualFold(*provider, "gemini") {
		envKey = "GEMINI_API_KEY"
	}
	apiKey := os.Getenv(envKey)
	if apiKey == "" {
		log.Fatalf("%s is not set; put it in your environment or .env file", envKey)
	}
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatal(err)
	}

	var categories []string
	for _, c := range strings.Split(*categoriesFlag, ",") {
		if c = strings.TrimSpace(c); c != "" {
			categories = append(categories, c)
		}
	}

	ctx := context.Background()
	identifyCli, err := llm.New(ctx, *provider, apiKey, llm.Config{
		Model:     *model,
		MaxTokens: fishbone.IdentifyTokenBudget,
	})
	if err != nil {
		log.Fatal(err)
	}
	expandCli, err := llm.New(ctx, *provider, apiKey, llm.Config{
		Model:     *model,
		MaxTokens: fishbone.ExpandTokenBudget,
	})
	if err != nil {
		log.Fatal(err)
	}
	defer identifyCli.Close()
	defer expandCli.Close()

	mws := []llm.Middleware{llm.WithLogging(nil), llm.WithCache(64, 0)}
	analyzer := fishbone.NewAnalyzer(
		fishbone.Config{Model: *model},
		llm.Wrap(identifyCli, mws...),
		llm.Wrap(expandCli, mws...),
	)

	line := strings.Repeat("=", 50)
	fmt.Printf("\n%s\nFISHBONE ANALYSIS SYSTEM\n%s\n", line, line)

	count := 0
	in := bufio.NewScanner(os.Stdin)
loop:
	for {
		fmt.Print("\nEnter problem to analyze (or 'quit' to exit): ")
		if !in.Scan() {
			break
		}
		effect := strings.TrimSpace(in.Text())
		switch strings.ToLower(effect) {
		case "quit", "exit", "q":
			break loop
		case "":
			fmt.Println("Please enter a valid problem statement.")
			continue
		}

		fmt.Printf("\nAnalyzing: %s\n", effect)
		res, err := analyzer.Analyze(ctx, effect, categories)
		if err != nil {
			fmt.Printf("Error during analysis: %v\n", err)
			continue
		}

		report.Render(os.Stdout, res)
		path := filepath.Join(*outDir, report.Filename(time.Now()))
		if path, err = report.Save(res, path); err != nil {
			fmt.Printf("Error saving file: %v\n", err)
		} else {
			fmt.Printf("Results saved to: %s\n", path)
		}
		count++
	}

	fmt.Printf("\nSession completed. Analyses performed: %d\n", count)
}
