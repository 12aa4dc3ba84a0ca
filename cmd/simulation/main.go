package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"ai-assistant-be/internal/config"
	"ai-assistant-be/internal/dto"
	"ai-assistant-be/internal/pkg/logger"
	"ai-assistant-be/internal/repository/memory"
	"ai-assistant-be/internal/service"
	"ai-assistant-be/pkg/agent"
	"ai-assistant-be/pkg/prompt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/fatih/color"
	"github.com/google/uuid"
)

// Interactive terminal chat against the real pipeline: in-memory stores,
// the real catalog, prompt builder and completion provider. No HTTP, no
// database. Requires a provider key in the environment unless LLM_PROVIDER
// is ollama.

var (
	banner    = color.New(color.FgHiMagenta, color.Bold)
	agentTint = color.New(color.FgCyan, color.Bold)
	replyTint = color.New(color.FgGreen)
	metaTint  = color.New(color.FgHiBlack)
	errTint   = color.New(color.FgRed)
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	memFactory := memory.NewRepositoryFactory()
	registry := agent.NewRegistry()
	resolver := agent.NewResolver(registry, service.NewAgentSource(memFactory))
	counter := prompt.NewCounter("cl100k_base")

	settings := service.NewAiSettingService(memFactory, service.ChatDefaults{
		Provider:         cfg.LLM.Provider,
		Model:            cfg.LLM.Model,
		MaxTokens:        cfg.LLM.MaxTokens,
		MaxHistoryTurns:  cfg.LLM.MaxHistoryTurns,
		MaxContextTokens: cfg.LLM.MaxContextTokens,
	})

	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NewStdLogger(false, false))
	publisherService := service.NewPublisherService("CHAT_COMPLETED", pubSub)
	consumerService := service.NewConsumerService(pubSub, "CHAT_COMPLETED", memFactory)
	if err := consumerService.Consume(ctx); err != nil {
		errTint.Printf("usage consumer failed to start: %v\n", err)
	}

	chatService := service.NewChatService(
		memFactory,
		resolver,
		counter,
		settings,
		service.ProviderConfig{
			OpenAIKey:      cfg.LLM.OpenAIKey,
			AnthropicKey:   cfg.LLM.AnthropicKey,
			OllamaBaseURL:  cfg.LLM.OllamaBaseURL,
			RequestTimeout: time.Duration(cfg.LLM.RequestTimeoutSeconds) * time.Second,
		},
		nil, // no stored provider keys in simulation
		nil, // no rate limiting
		publisherService,
		nil,
		nil,
		logger.NewIsolatedLogger("logs/simulation.log"),
	)
	usageService := service.NewUsageService(memFactory, resolver)

	userId := uuid.New()
	current := agent.DefaultAgentID

	banner.Println("=== Assistant Simulation ===")
	metaTint.Printf("provider=%s model=%s user=%s\n", cfg.LLM.Provider, cfg.LLM.Model, userId)
	metaTint.Println("commands: /agents /use <id> /history /usage /clear /exit")
	printCatalog(ctx, resolver, userId)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		agentTint.Printf("\n[%s] ", current)
		fmt.Print("you> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			if handleCommand(ctx, line, &current, userId, resolver, chatService, usageService) {
				return
			}
			continue
		}

		res, err := chatService.SendMessage(ctx, userId, &dto.SendMessageRequest{
			AgentId: current,
			Message: line,
		})
		if err != nil {
			errTint.Printf("error: %v\n", err)
			continue
		}

		if res.Fallback {
			metaTint.Printf("(unknown agent, %s answered instead)\n", res.AgentName)
			current = res.AgentId
		}
		agentTint.Printf("%s> ", res.AgentName)
		replyTint.Println(res.Reply.Content)
		if res.Usage != nil {
			metaTint.Printf("(%d prompt + %d completion tokens)\n", res.Usage.PromptTokens, res.Usage.CompletionTokens)
		}
	}
}

// handleCommand returns true when the loop should exit.
func handleCommand(
	ctx context.Context,
	line string,
	current *string,
	userId uuid.UUID,
	resolver *agent.Resolver,
	chatService service.IChatService,
	usageService service.IUsageService,
) bool {
	fields := strings.Fields(line)
	switch fields[0] {
	case "/exit", "/quit":
		return true

	case "/agents":
		printCatalog(ctx, resolver, userId)

	case "/use":
		if len(fields) < 2 {
			errTint.Println("usage: /use <agent-id>")
			return false
		}
		catalog, err := resolver.ResolveCatalog(ctx, &userId)
		if err != nil {
			errTint.Printf("catalog: %v\n", err)
			return false
		}
		def, err := catalog.Resolve(fields[1])
		if err != nil {
			errTint.Printf("unknown agent %q, try /agents\n", fields[1])
			return false
		}
		*current = def.ID
		metaTint.Printf("switched to %s %s\n", def.Emoji, def.Name)

	case "/history":
		res, err := chatService.GetHistory(ctx, userId, *current)
		if err != nil {
			errTint.Printf("history: %v\n", err)
			return false
		}
		for _, turn := range res.Turns {
			agentTint.Printf("%s: ", turn.Role)
			fmt.Println(turn.Content)
		}
		if len(res.Turns) == 0 {
			metaTint.Println("(empty)")
		}

	case "/usage":
		res, err := usageService.GetSummary(ctx, userId)
		if err != nil {
			errTint.Printf("usage: %v\n", err)
			return false
		}
		metaTint.Printf("total: %d messages, %d tokens\n", res.TotalMessages, res.TotalTokens)
		for _, row := range res.Agents {
			fmt.Printf("  %-24s %d msg, %d+%d tokens\n",
				row.AgentId, row.MessageCount, row.PromptTokens, row.CompletionTokens)
		}

	case "/clear":
		if err := chatService.ClearHistory(ctx, userId, *current); err != nil {
			errTint.Printf("clear: %v\n", err)
			return false
		}
		metaTint.Println("history cleared")

	default:
		errTint.Printf("unknown command %s\n", fields[0])
	}
	return false
}

func printCatalog(ctx context.Context, resolver *agent.Resolver, userId uuid.UUID) {
	catalog, err := resolver.ResolveCatalog(ctx, &userId)
	if err != nil {
		errTint.Printf("catalog: %v\n", err)
		return
	}
	fmt.Println()
	for _, def := range catalog.All() {
		agentTint.Printf("  %-24s", def.ID)
		fmt.Printf(" %s %s", def.Emoji, def.Name)
		metaTint.Printf("  (%s)\n", def.Category)
	}
}
