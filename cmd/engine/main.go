package main

import (
	"log"
	"os"
	"strconv"

	"github.com/rawblock/shield-engine/internal/api"
	"github.com/rawblock/shield-engine/internal/approvals"
	"github.com/rawblock/shield-engine/internal/authn"
	"github.com/rawblock/shield-engine/internal/chain"
	"github.com/rawblock/shield-engine/internal/contractanalysis"
	"github.com/rawblock/shield-engine/internal/eventlog"
	"github.com/rawblock/shield-engine/internal/llm"
	"github.com/rawblock/shield-engine/internal/orchestrator"
	"github.com/rawblock/shield-engine/internal/receipt"
	"github.com/rawblock/shield-engine/internal/txanalysis"
)

func main() {
	log.Println("Starting Shield transaction-security gateway...")

	// ─── Required Environment Variables ─────────────────────────────────
	// All credentials MUST come from environment variables. No fallback
	// defaults for security-sensitive values. The binary reads only the
	// process environment; it does not load a .env file.
	// ────────────────────────────────────────────────────────────────────

	rpcURL := requireEnv("RPC_URL_ETH")
	explorerAPIKey := os.Getenv("EXPLORER_API_KEY")
	explorerURL := getEnvOrDefault("EXPLORER_URL", "")

	provider := chain.NewProvider(chain.Config{
		RPCURL:         rpcURL,
		ExplorerURL:    explorerURL,
		ExplorerAPIKey: explorerAPIKey,
	})

	ethPriceUSD := 3500.0
	if v := os.Getenv("ETH_PRICE_USD"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			ethPriceUSD = parsed
		}
	} else if os.Getenv("GIN_MODE") == "release" {
		log.Printf("WARNING: ETH_PRICE_USD is not set, falling back to the %.0f dev default in a release build.", ethPriceUSD)
	}

	var store *eventlog.Store
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		s, err := eventlog.Connect(dbURL)
		if err != nil {
			log.Printf("Warning: failed to connect to PostgreSQL, continuing without event logging: %v", err)
		} else {
			defer s.Close()
			if err := s.InitSchema(); err != nil {
				log.Printf("Warning: event log schema init failed: %v", err)
			}
			store = s
		}
	} else {
		log.Println("DATABASE_URL not set — running without a persisted event log")
	}

	wsHub := api.NewHub()
	go wsHub.Run()

	broadcaster := eventlog.NewBroadcaster(wsHub.Broadcast)

	var intentClassifier llm.IntentClassifier = llm.NewStub()
	var explainer llm.TextGenerator = llm.NewStub()
	if os.Getenv("LLM_API_KEY") == "" {
		log.Println("LLM_API_KEY not set — running with the deterministic stub classifier/explainer")
	}

	services := orchestrator.New(orchestrator.Services{
		TxAnalyzer:       txanalysis.New(provider),
		ContractAnalyzer: contractanalysis.New(provider),
		Approvals:        approvals.New(provider),
		Receipts:         receipt.New(provider, ethPriceUSD),
		LLM:              intentClassifier,
		Explainer:        explainer,
		EventLog:         store,
		Alerts:           broadcaster,
	})

	verifier := authn.NewVerifier()
	if verifier.DevMode() {
		log.Println("WARNING: neither JWT_SECRET nor API_AUTH_TOKEN is set. All protected endpoints are publicly accessible.")
	}

	r := api.SetupRouter(services, verifier, wsHub)

	port := getEnvOrDefault("PORT", "5339")
	log.Printf("Shield gateway listening on :%s\n", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// requireEnv reads a required environment variable and exits if it is
// not set, preventing the binary from starting with missing critical
// configuration.
func requireEnv(key string) string {
	val := os.Getenv(key)
	if val == "" {
		log.Fatalf("FATAL: Required environment variable %s is not set. "+
			"Set it in the environment before starting the gateway.", key)
	}
	return val
}

// getEnvOrDefault returns the env var value or a safe default for non-secret settings.
func getEnvOrDefault(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
