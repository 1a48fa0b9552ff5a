package services

import (
	"context"
	"errors"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChat struct {
	content string
	err     error
	got     openai.ChatCompletionRequest
}

func (f *fakeChat) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.got = req
	if f.err != nil {
		return openai.ChatCompletionResponse{}, f.err
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: f.content}},
		},
	}, nil
}

func projectServiceWithAI(client chatCompleter) *ProjectService {
	return &ProjectService{aiService: &AIService{client: client, model: "test-model"}}
}

func TestSuggestTasks(t *testing.T) {
	chat := &fakeChat{content: `{"tasks":[
		{"title":" Frontend ","description":"Build pages"},
		{"title":"","description":"dropped"},
		{"title":"Backend","description":"API"},
		{"title":"Design","description":""},
		{"title":"QA","description":""},
		{"title":"DevOps","description":""},
		{"title":"Marketing","description":""}
	]}`}
	service := projectServiceWithAI(chat)

	tasks, err := service.SuggestTasks(context.Background(), SuggestTasksInput{Title: "Recipe Finder", Description: "Find recipes"})
	require.NoError(t, err)
	require.Len(t, tasks, 5)
	assert.Equal(t, "Frontend", tasks[0].Title)
	assert.Equal(t, "DevOps", tasks[4].Title)

	assert.Equal(t, "test-model", chat.got.Model)
	require.NotNil(t, chat.got.ResponseFormat)
	assert.Contains(t, chat.got.Messages[0].Content, "Recipe Finder")
}

func TestSuggestTasksFailures(t *testing.T) {
	ctx := context.Background()

	_, err := projectServiceWithAI(&fakeChat{content: `{"tasks":[]}`}).SuggestTasks(ctx, SuggestTasksInput{Title: "x"})
	assert.ErrorIs(t, err, ErrAINoTasksGenerated)

	_, err = projectServiceWithAI(&fakeChat{content: "not json"}).SuggestTasks(ctx, SuggestTasksInput{Title: "x"})
	assert.Error(t, err)

	_, err = projectServiceWithAI(&fakeChat{err: errors.New("rate limited")}).SuggestTasks(ctx, SuggestTasksInput{Title: "x"})
	assert.Error(t, err)

	_, err = projectServiceWithAI(&fakeChat{}).SuggestTasks(ctx, SuggestTasksInput{Title: " "})
	assert.ErrorIs(t, err, ErrTitleRequired)
}
