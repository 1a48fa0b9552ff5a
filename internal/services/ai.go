package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

type AIService struct {
	client chatCompleter
	model  string
}

// SuggestedTask is one open role the model proposes for a project.
type SuggestedTask struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

func NewAIService(apiKey, model string) *AIService {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &AIService{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

// SuggestTasksFromProject asks the model for tasks a team would need to build
// the described project.
func (s *AIService) SuggestTasksFromProject(ctx context.Context, title, description string) ([]SuggestedTask, error) {
	if s.client == nil {
		return nil, fmt.Errorf("OpenAI client not initialized")
	}

	prompt := fmt.Sprintf(`You help student teams plan side projects. Suggest the tasks (open roles) a small team would need to build the project below.

Project title: %s

Project description:
%s

Reply with a JSON object of this shape:
{
  "tasks": [
    {"title": "short task title", "description": "one or two sentences about the work"}
  ]
}

Rules:
- Suggest at most 5 tasks
- Keep titles under 60 characters
- Return only JSON`, title, description)

	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: s.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			ResponseFormat: &openai.ChatCompletionResponseFormat{
				Type: openai.ChatCompletionResponseFormatTypeJSONObject,
			},
			Temperature: 0.4,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	content := resp.Choices[0].Message.Content

	var out struct {
		Tasks []SuggestedTask `json:"tasks"`
	}
	if err := json.Unmarshal([]byte(content), &out); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w (response: %s)", err, content)
	}

	return out.Tasks, nil
}
