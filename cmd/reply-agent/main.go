package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mikey/llm-reply-agent/internal/adapters/journal"
	"github.com/mikey/llm-reply-agent/internal/adapters/notify"
	"github.com/mikey/llm-reply-agent/internal/config"
	"github.com/mikey/llm-reply-agent/internal/core"
	"github.com/mikey/llm-reply-agent/internal/factory"
	"github.com/mikey/llm-reply-agent/internal/logging"
	"github.com/mikey/llm-reply-agent/internal/prompts"
	"github.com/mikey/llm-reply-agent/internal/utils"
	"go.uber.org/zap"
)

var (
	// LLM provider flags
	provider    = flag.String("provider", "openai", "LLM provider (openai, gemini, bedrock, anthropic)")
	maxTokens   = flag.Int("max-tokens", 1000, "Maximum tokens for LLM response")
	temperature = flag.Float64("temperature", 0.4, "Temperature for LLM generation")
	topP        = flag.Float64("top-p", 0.9, "Top-p for LLM generation")
	maxBodySize = flag.Int("max-body-size", 4096, "Maximum message body size to send to LLM")

	// OpenAI flags
	openaiAPIKey    = flag.String("openai-api-key", "", "API key for OpenAI")
	openaiModelName = flag.String("openai-model", "gpt-4o", "OpenAI model name")

	// Gemini flags
	geminiAPIKey    = flag.String("gemini-api-key", "", "API key for Google Gemini")
	geminiModelName = flag.String("gemini-model", "gemini-pro", "Gemini model name")

	// Bedrock flags
	bedrockRegion  = flag.String("bedrock-region", "us-east-1", "AWS region for Bedrock")
	bedrockModelID = flag.String("bedrock-model", "anthropic.claude-v2", "Bedrock model ID")

	// Anthropic flags
	anthropicAPIKey    = flag.String("anthropic-api-key", "", "API key for Anthropic")
	anthropicModelName = flag.String("anthropic-model", "claude-sonnet-4-5-20250929", "Anthropic model name")

	// Orchestration flags
	approvalThreshold   = flag.Float64("threshold", 0.75, "Weighted score required to approve a reply")
	maxIterations       = flag.Int("max-iterations", 3, "Maximum generation attempts before escalation")
	confidenceThreshold = flag.Float64("confidence-threshold", 0.4, "Confidence below which a reply is escalated")

	// Input flags
	sender     = flag.String("sender", "cli@localhost", "Sender address attributed to the message")
	inputFile  = flag.String("file", "", "Input message file (use stdin if not specified)")
	scenarioID = flag.String("scenario", "", "Run a canned scenario instead of processing a message")
	verbose    = flag.Bool("verbose", false, "Enable verbose logging")
	jsonLog    = flag.Bool("json-log", false, "Output logs in JSON format")
	configFile = flag.String("config", "", "Path to config file (overrides command line flags)")
)

func main() {
	flag.Parse()

	var cfg *config.Config
	var err error

	// Initialize logger
	logger, err := logging.InitConsoleLogger(*verbose, *jsonLog)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Canned scenarios need no provider credentials
	if *scenarioID != "" {
		runScenario(logger, *scenarioID)
		return
	}

	// Load configuration from file if specified
	if *configFile != "" {
		cfg, err = config.New()
		if err != nil {
			logger.Fatal("Failed to load configuration", zap.Error(err))
		}
		logger.Info("Loaded configuration from file", zap.String("file", cfg.GetViper().ConfigFileUsed()))
	} else {
		// Create config from command line flags
		cfg = createConfigFromFlags()
	}

	// Load candidate profile and build prompts
	profile, err := prompts.LoadProfile(cfg.GetString("profile.path"))
	if err != nil {
		logger.Fatal("Failed to load candidate profile", zap.Error(err))
	}
	promptBuilder := prompts.NewBuilder(profile)
	textProcessor := utils.NewTextProcessor(logger)

	// Initialize LLM client
	llmFactory := factory.NewLLMFactory(cfg, logger, textProcessor, promptBuilder)
	llmClient, err := llmFactory.CreateLLMClient()
	if err != nil {
		logger.Fatal("Failed to create LLM client", zap.Error(err))
	}

	// Read message from file or stdin
	var messageReader io.Reader
	if *inputFile != "" {
		file, err := os.Open(*inputFile)
		if err != nil {
			logger.Fatal("Failed to open input file", zap.Error(err), zap.String("file", *inputFile))
		}
		defer file.Close()
		messageReader = file
		logger.Info("Reading message from file", zap.String("file", *inputFile))
	} else {
		messageReader = os.Stdin
		logger.Info("Reading message from stdin")
	}

	bodyBytes, err := io.ReadAll(bufio.NewReader(messageReader))
	if err != nil {
		logger.Fatal("Failed to read message body", zap.Error(err))
	}
	body := string(bodyBytes)

	// Assemble a self-contained service with in-process side effects
	llmTimeout, err := cfg.GetDuration("llm.timeout")
	if err != nil {
		logger.Fatal("Invalid llm.timeout", zap.Error(err))
	}
	notifierTimeout, err := cfg.GetDuration("notifier.timeout")
	if err != nil {
		logger.Fatal("Invalid notifier.timeout", zap.Error(err))
	}
	service := core.NewReplyAgentService(
		llmClient,
		llmClient,
		notify.NewLogNotifier(logger),
		journal.NewMemoryJournal(0, logger),
		core.NewRiskClassifier(
			cfg.GetFloat64("engine.confidence_threshold"),
			cfg.GetBool("engine.recheck_generated_text"),
			logger,
		),
		core.NewPendingStore(),
		logger,
		core.Params{
			ApprovalThreshold: cfg.GetFloat64("engine.approval_threshold"),
			MaxIterations:     cfg.GetInt("engine.max_iterations"),
			LLMTimeout:        llmTimeout,
			NotifierTimeout:   notifierTimeout,
		},
	)

	// Print message summary
	fmt.Printf("\n=== Message Summary ===\n")
	fmt.Printf("Sender: %s\n", *sender)
	fmt.Printf("Body length: %d bytes\n", len(body))
	fmt.Printf("\n")

	fmt.Printf("=== Processing ===\n")
	fmt.Printf("Provider: %s\n", cfg.GetString("llm.provider"))
	fmt.Printf("Approval threshold: %.2f\n", cfg.GetFloat64("engine.approval_threshold"))
	fmt.Printf("Max iterations: %d\n", cfg.GetInt("engine.max_iterations"))

	startTime := time.Now()
	outcome, err := service.Submit(context.Background(), *sender, body)
	if err != nil {
		logger.Fatal("Failed to process message", zap.Error(err))
	}
	duration := time.Since(startTime)

	// Print results
	fmt.Printf("\n=== Results ===\n")
	fmt.Printf("Status: %s\n", outcome.Status)
	fmt.Printf("Iterations: %d\n", outcome.Iterations)
	if outcome.Evaluation != nil {
		fmt.Printf("Score: %.4f\n", outcome.Evaluation.Aggregate)
		fmt.Printf("Feedback: %s\n", outcome.Evaluation.Feedback)
	}
	fmt.Printf("Processing time: %v\n", duration)

	encoded, err := json.MarshalIndent(outcome, "", "  ")
	if err != nil {
		logger.Fatal("Failed to encode outcome", zap.Error(err))
	}
	fmt.Printf("\n%s\n", encoded)

	// Close any resources that need closing
	if closer, ok := llmClient.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.Error("Failed to close LLM client", zap.Error(err))
		}
	}

	if code := exitCode(outcome); code != 0 {
		os.Exit(code)
	}
}

// exitCode maps an outcome to the process exit code. Escalations exit 2,
// distinct from the generic fatal-error exit 1.
func exitCode(outcome *core.ProcessingOutcome) int {
	if outcome.HumanInterventionRequired {
		return 2
	}
	return 0
}

// runScenario executes one canned scenario, or all of them for "all".
func runScenario(logger *zap.Logger, id string) {
	runner := core.NewScenarioRunner(logger)

	ids := []string{id}
	if id == "all" {
		ids = runner.ScenarioIDs()
	}

	failed := false
	for _, scenarioID := range ids {
		result, err := runner.Run(context.Background(), scenarioID)
		if err != nil {
			logger.Fatal("Failed to run scenario", zap.Error(err), zap.String("scenario", scenarioID))
		}
		status := "PASS"
		if !result.Passed {
			status = "FAIL"
			failed = true
		}
		fmt.Printf("%s %s", status, scenarioID)
		if len(result.Details) > 0 {
			fmt.Printf(" (%s)", strings.Join(result.Details, "; "))
		}
		fmt.Printf("\n")
	}

	if failed {
		os.Exit(1)
	}
}

// createConfigFromFlags creates a configuration from command line flags
func createConfigFromFlags() *config.Config {
	v := config.NewEmptyViper()

	// Set LLM provider
	v.Set("llm.provider", *provider)

	// Set provider-specific configuration
	switch *provider {
	case "openai":
		v.Set("openai.api_key", *openaiAPIKey)
		v.Set("openai.model_name", *openaiModelName)
		v.Set("openai.max_tokens", *maxTokens)
		v.Set("openai.temperature", *temperature)
		v.Set("openai.top_p", *topP)
		v.Set("openai.max_body_size", *maxBodySize)
	case "gemini":
		v.Set("gemini.api_key", *geminiAPIKey)
		v.Set("gemini.model_name", *geminiModelName)
		v.Set("gemini.max_tokens", *maxTokens)
		v.Set("gemini.temperature", *temperature)
		v.Set("gemini.top_p", *topP)
		v.Set("gemini.max_body_size", *maxBodySize)
	case "bedrock":
		v.Set("bedrock.region", *bedrockRegion)
		v.Set("bedrock.model_id", *bedrockModelID)
		v.Set("bedrock.max_tokens", *maxTokens)
		v.Set("bedrock.temperature", *temperature)
		v.Set("bedrock.top_p", *topP)
		v.Set("bedrock.max_body_size", *maxBodySize)
	case "anthropic":
		v.Set("anthropic.api_key", *anthropicAPIKey)
		v.Set("anthropic.model_name", *anthropicModelName)
		v.Set("anthropic.max_tokens", *maxTokens)
		v.Set("anthropic.max_body_size", *maxBodySize)
	}

	// Set orchestration thresholds
	v.Set("engine.approval_threshold", *approvalThreshold)
	v.Set("engine.max_iterations", *maxIterations)
	v.Set("engine.confidence_threshold", *confidenceThreshold)

	return config.NewFromViper(v)
}
