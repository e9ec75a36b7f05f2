package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"fishbone/internal/fishbone"
	"fishbone/internal/llm"
	"fishbone/internal/server"
)

func main() {
	port := flag.String("port", ":8080", "server port")
	provider := flag.String("provider", "openai", "generation provider: openai or gemini")
	model := flag.String("model", "gpt-4o-mini", "generation model id")
	flag.Parse()

	_ = godotenv.Load()

	apiKey := requireAPIKey(*provider)

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

	mws := []llm.Middleware{llm.WithLogging(nil), llm.WithCache(256, 0)}
	analyzer := fishbone.NewAnalyzer(
		fishbone.Config{Model: *model},
		llm.Wrap(identifyCli, mws...),
		llm.Wrap(expandCli, mws...),
	)

	h := withCORS(server.New(analyzer).Mux())

	log.Printf("Starting API server on %s", *port)
	log.Fatal(http.ListenAndServe(*port, h2c.NewHandler(h, &http2.Server{})))
}

func requireAPIKey(provider string) string {
	env := "OPENAI_API_KEY"
	if strings.EqualFold(provider, "gemini") {
		env = "GEMINI_API_KEY"
	}
	key := os.Getenv(env)
	if key == "" {
		log.Fatalf("%s is not set", env)
	}
	return key
}

// withCORS allows browser frontends to reach the Connect and websocket
// endpoints from another origin.
func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := strings.TrimSpace(r.Header.Get("Origin"))
		if origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Vary", "Origin")
		} else {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		}
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, Authorization, Connect-Protocol-Version, Connect-Timeout-Ms")
		if r.Method == http.MethodOptions {
			return
		}
		next.ServeHTTP(w, r)
	})
}
