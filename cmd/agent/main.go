package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"

	"github.com/Bakar31/ai-task-manager/internal/app/commands"
	"github.com/Bakar31/ai-task-manager/internal/app/dispatch"
	"github.com/Bakar31/ai-task-manager/internal/app/models"
	"github.com/Bakar31/ai-task-manager/internal/app/output"
	"github.com/Bakar31/ai-task-manager/internal/app/repositories"
	"github.com/Bakar31/ai-task-manager/internal/app/services"
	"github.com/Bakar31/ai-task-manager/internal/kafka"
	"github.com/Bakar31/ai-task-manager/internal/llm"
)

// maxIterations bounds the tool-call loop inside one user turn.
const maxIterations = 5

const systemPrompt = `You are an AI Task Manager assistant. Help users manage their tasks efficiently.
Use the provided tools to add tasks, update task status, list tasks, and generate reports.
When a request is ambiguous or missing required details, ask a clarifying question instead of guessing.
Be concise, helpful, and action-oriented in your responses.`

func initConfig() {
	viper.SetEnvPrefix("TASKMAN")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("llm.timeout", "30s")
	viper.SetDefault("report.periods", "daily,weekly,monthly,all")
	viper.SetDefault("default.priority", string(models.PriorityMedium))
	viper.SetDefault("default.status", string(models.StatusTodo))
}

func contractsFromConfig() commands.Contracts {
	contracts := commands.DefaultContracts()

	if periods := viper.GetString("report.periods"); periods != "" {
		contracts.Periods = strings.Split(periods, ",")
		for i := range contracts.Periods {
			contracts.Periods[i] = strings.TrimSpace(contracts.Periods[i])
		}
	}
	if p, ok := models.ParsePriority(viper.GetString("default.priority")); ok {
		contracts.DefaultPriority = p
	}
	if s, ok := models.ParseStatus(viper.GetString("default.status")); ok {
		contracts.DefaultStatus = s
	}

	return contracts
}

func main() {
	initConfig()

	apiKey := viper.GetString("groq.api.key")
	if apiKey == "" {
		fmt.Println("Error: TASKMAN_GROQ_API_KEY is not set.")
		os.Exit(1)
	}

	turnTimeout := viper.GetDuration("llm.timeout")
	if turnTimeout <= 0 {
		turnTimeout = 30 * time.Second
	}

	// Without a postgres DSN the agent keeps tasks in memory for the session.
	var repo repositories.TaskRepository
	if dsn := viper.GetString("postgres.dsn"); dsn != "" {
		pg, err := repositories.NewPostgresTaskRepo(dsn)
		if err != nil {
			log.Fatal(err)
		}
		repo = pg
	} else {
		repo = repositories.NewMemoryTaskRepo()
	}
	defer repo.Close()

	var cache repositories.TaskCache
	if addr := viper.GetString("redis.addr"); addr != "" {
		cache = repositories.NewRedisTaskCache(redis.NewClient(&redis.Options{Addr: addr}))
	}

	var events services.EventPublisher
	if broker := viper.GetString("kafka.broker"); broker != "" {
		topic := viper.GetString("kafka.topic")
		if topic == "" {
			log.Fatal("kafka.broker is set but kafka.topic is not")
		}
		producer := kafka.NewProducer(broker, topic)
		defer producer.Close()
		events = producer
	}

	contracts := contractsFromConfig()
	service := services.NewTaskService(repo, cache, events)
	dispatcher := dispatch.New(contracts, service)

	client := llm.NewClient(apiKey, viper.GetString("llm.model"), viper.GetString("llm.base.url"))
	tools := llm.Tools(contracts)
	showTools := viper.GetBool("show.tools")

	messages := []llm.Message{{Role: "system", Content: systemPrompt}}

	fmt.Println("AI Task Manager - Type 'exit' to quit")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("\nYou: ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if input == "exit" || input == "quit" {
			fmt.Println("Goodbye!")
			break
		}

		messages = append(messages, llm.Message{Role: "user", Content: input})

		reply, next := runTurn(turnTimeout, client, dispatcher, tools, messages, showTools)
		messages = next
		fmt.Printf("\nAssistant: %s\n", reply)
	}
}

// runTurn drives one user turn: call the model, execute any tool calls,
// feed the results back, repeat until the model answers in plain text or
// the iteration budget runs out. The turn timeout is the collaborator
// boundary: once exceeded, the turn is abandoned with a timed_out outcome
// and no further store mutation happens.
func runTurn(timeout time.Duration, client *llm.Client, dispatcher *dispatch.Dispatcher, tools []llm.Tool, messages []llm.Message, showTools bool) (string, []llm.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	for i := 0; i < maxIterations; i++ {
		msg, err := client.Chat(ctx, messages, tools)
		if err != nil {
			if ctx.Err() != nil {
				output.Render(os.Stderr, dispatch.TimedOut())
				return "That took too long, so I stopped before changing anything. Please try again.", messages
			}
			log.Printf("chat completion error: %v", err)
			return "I'm having trouble reaching the AI service. Please try again later.", messages
		}
		messages = append(messages, msg)

		if len(msg.ToolCalls) == 0 {
			if msg.Content == "" {
				return "I don't have a response for that.", messages
			}
			return msg.Content, messages
		}

		for n, call := range msg.ToolCalls {
			// Abandoned turns must not keep mutating the store. The calls
			// that never ran still need a tool reply each: the next request
			// replays the history, and the chat-completions contract rejects
			// an assistant tool_calls message with unanswered ids.
			if ctx.Err() != nil {
				output.Render(os.Stderr, dispatch.TimedOut())
				return "That took too long, so I stopped. Please try again.",
					answerAbandoned(messages, msg.ToolCalls[n:])
			}

			out := execute(ctx, dispatcher, call)
			if showTools {
				fmt.Fprintf(os.Stderr, "[tool] %s\n", call.Function.Name)
				output.Render(os.Stderr, out)
			}

			content, err := json.Marshal(out)
			if err != nil {
				content = []byte(`{"ok":false,"error":{"kind":"store_error","message":"failed to encode tool result"}}`)
			}
			messages = append(messages, llm.Message{
				Role:       "tool",
				ToolCallID: call.ID,
				Name:       call.Function.Name,
				Content:    string(content),
			})
		}
	}

	return "I'm having trouble completing that request. Please try again with more specific details.", messages
}

// answerAbandoned closes out tool calls an abandoned turn never executed,
// pairing each pending id with a timed_out outcome.
func answerAbandoned(messages []llm.Message, pending []llm.ToolCall) []llm.Message {
	content, err := json.Marshal(dispatch.TimedOut())
	if err != nil {
		content = []byte(`{"ok":false,"error":{"kind":"timed_out","message":"the request took too long and was abandoned"}}`)
	}
	for _, call := range pending {
		messages = append(messages, llm.Message{
			Role:       "tool",
			ToolCallID: call.ID,
			Name:       call.Function.Name,
			Content:    string(content),
		})
	}
	return messages
}

func execute(ctx context.Context, dispatcher *dispatch.Dispatcher, call llm.ToolCall) dispatch.Outcome {
	args, err := call.Args()
	if err != nil {
		return dispatch.Fail(&commands.ValidationError{Field: "arguments", Reason: err.Error()})
	}
	return dispatcher.Dispatch(ctx, call.Function.Name, args)
}
