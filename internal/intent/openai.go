package intent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// DefaultBaseURL is the OpenAI-compatible chat completions endpoint base.
const DefaultBaseURL = "https://api.openai.com/v1"

const systemPromptTemplate = `You are an intent parser for a voice todo assistant. Parse the user's voice command and return ONLY a JSON object with the function to call and its parameters.

Available functions:
- add_task: Add new task. Params: {task: string, priority?: "urgent"|"normal"|"low", deadline?: "today"|"tomorrow"|date}
- mark_complete: Mark task done. Params: {taskQuery: string}
- update_task: Edit task text. Params: {taskQuery: string, newText: string}
- delete_task: Remove task. Params: {taskQuery: string}
- add_deadline: Set due date. Params: {taskQuery: string, deadline: string}
- set_priority: Change priority. Params: {taskQuery: string, priority: "urgent"|"normal"|"low"}
- list_tasks: Read tasks. Params: {filter?: "urgent"|"today"|"all"}
- search_tasks: Find tasks. Params: {query: string}

Current tasks: %s

Examples:
"Add call John about the meeting" -> {"function": "add_task", "params": {"task": "call John about the meeting"}}
"Mark dentist done" -> {"function": "mark_complete", "params": {"taskQuery": "dentist"}}
"What needs my attention" -> {"function": "list_tasks", "params": {"filter": "urgent"}}
"Make grocery shopping urgent" -> {"function": "set_priority", "params": {"taskQuery": "grocery shopping", "priority": "urgent"}}
"Change call John to call John at 3pm" -> {"function": "update_task", "params": {"taskQuery": "call John", "newText": "call John at 3pm"}}

IMPORTANT: Return ONLY valid JSON. No explanation or extra text.`

// OpenAIParser extracts intents with an OpenAI-compatible chat completions
// API. Model replies are validated against a JSON Schema before being
// trusted; a malformed reply degrades to an error intent rather than a
// failed request.
type OpenAIParser struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
	log     zerolog.Logger
}

// NewOpenAIParser creates a parser for the given API key and model.
// An empty baseURL uses DefaultBaseURL.
func NewOpenAIParser(apiKey, model, baseURL string, log zerolog.Logger) *OpenAIParser {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &OpenAIParser{
		apiKey:  apiKey,
		model:   model,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: 15 * time.Second},
		log:     log.With().Str("component", "intent-openai").Logger(),
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// ParseIntent sends the transcript to the model and returns the validated
// intent. Transport and API failures return an error so the caller can fall
// back to the keyword parser.
func (p *OpenAIParser) ParseIntent(ctx context.Context, text string, currentTasks []string) (Intent, error) {
	tasks := "None"
	if len(currentTasks) > 0 {
		tasks = strings.Join(currentTasks, ", ")
	}

	payload := chatRequest{
		Model: p.model,
		Messages: []chatMessage{
			{Role: "system", Content: fmt.Sprintf(systemPromptTemplate, tasks)},
			{Role: "user", Content: text},
		},
		Temperature: 0.1,
		MaxTokens:   200,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return Intent{}, fmt.Errorf("marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return Intent{}, fmt.Errorf("create chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return Intent{}, fmt.Errorf("chat completion request: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			p.log.Debug().Err(err).Msg("close chat completion response body")
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return Intent{}, fmt.Errorf("chat completion request: status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Intent{}, fmt.Errorf("read chat completion body: %w", err)
	}

	var chat chatResponse
	if err := json.Unmarshal(raw, &chat); err != nil {
		return Intent{}, fmt.Errorf("decode chat completion: %w", err)
	}
	if len(chat.Choices) == 0 {
		return Intent{}, fmt.Errorf("chat completion returned no choices")
	}

	return p.decode(chat.Choices[0].Message.Content), nil
}

// decode parses and schema-validates the model's reply. Invalid replies
// degrade to an error intent the voice layer can speak.
func (p *OpenAIParser) decode(reply string) Intent {
	reply = strings.TrimSpace(reply)

	var loose any
	if err := json.Unmarshal([]byte(reply), &loose); err != nil {
		p.log.Warn().Str("reply", reply).Msg("model reply is not valid JSON")
		return ErrorIntent("Could not understand your request. Please try again.")
	}

	if err := compiledSchema.Validate(loose); err != nil {
		p.log.Warn().Err(err).Str("reply", reply).Msg("model reply failed schema validation")
		return ErrorIntent("Could not understand your request. Please try again.")
	}

	var intent Intent
	if err := json.Unmarshal([]byte(reply), &intent); err != nil {
		return ErrorIntent("Could not understand your request. Please try again.")
	}

	p.log.Debug().Str("function", intent.Function).Msg("parsed intent")
	return intent
}
