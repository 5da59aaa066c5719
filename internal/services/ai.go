package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
	"github.com/taskforge/task-manager-api/internal/constants"
	"github.com/taskforge/task-manager-api/internal/models"
	"github.com/taskforge/task-manager-api/internal/policy"
)

// AIService extracts task drafts from free text with the OpenAI chat API.
type AIService struct {
	client *openai.Client
	model  string
}

// GeneratedTask is one task as returned by the model, before normalization.
type GeneratedTask struct {
	Name        string  `json:"task_name"`
	Description string  `json:"task_description"`
	DueDate     *string `json:"task_due_date"`
	Priority    *int    `json:"priority"`
}

// TaskDraft is a normalized, unsaved task suggestion.
type TaskDraft struct {
	Name        string           `json:"task_name"`
	Description *string          `json:"task_description"`
	DueDate     *models.Date     `json:"task_due_date"`
	Priority    *models.Priority `json:"priority"`
}

func NewAIService(apiKey string) *AIService {
	return NewAIServiceWithConfig(openai.DefaultConfig(apiKey))
}

// NewAIServiceWithConfig allows pointing the client at another base URL.
func NewAIServiceWithConfig(cfg openai.ClientConfig) *AIService {
	return &AIService{
		client: openai.NewClientWithConfig(cfg),
		model:  openai.GPT4o,
	}
}

// GenerateTasksFromText asks the model for the tasks mentioned in text
func (s *AIService) GenerateTasksFromText(ctx context.Context, text string, today models.Date) ([]GeneratedTask, error) {
	if s.client == nil {
		return nil, fmt.Errorf("OpenAI client not initialized")
	}

	prompt := fmt.Sprintf(`You extract actionable tasks from text.

Today is %s.

Text:
%s

Reply with a JSON object of this shape:
{
  "tasks": [
    {
      "task_name": "short title, at most 200 characters",
      "task_description": "details of the task",
      "task_due_date": "YYYY-MM-DD, or null when no deadline is given",
      "priority": 1 for high, 2 for medium, 3 for low, or null
    }
  ]
}

Rules:
- Return {"tasks": []} when the text contains no task
- Convert relative deadlines such as "tomorrow" or "next Friday" to dates
- Return JSON only`, today, text)

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
			Temperature: 0.3,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	content := resp.Choices[0].Message.Content

	var payload struct {
		Tasks []GeneratedTask `json:"tasks"`
	}
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w (response: %s)", err, content)
	}

	return payload.Tasks, nil
}

// GenerateDrafts turns free text into task drafts. Nothing is persisted.
func (s *TaskService) GenerateDrafts(ctx context.Context, user *models.User, text string) ([]TaskDraft, error) {
	if !policy.CanCreateTask(user.Role) {
		return nil, forbidden("create_task", "You are not authorized to create any task.")
	}
	if strings.TrimSpace(text) == "" {
		return nil, validationf("text is required")
	}
	if s.aiService == nil {
		return nil, ErrAIServiceNotConfigured
	}

	today := s.today()
	generated, err := s.aiService.GenerateTasksFromText(ctx, text, today)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tasks: %w", err)
	}

	return normalizeDrafts(generated, today), nil
}

// normalizeDrafts drops unnamed drafts and clears values a task could not hold.
func normalizeDrafts(generated []GeneratedTask, today models.Date) []TaskDraft {
	drafts := make([]TaskDraft, 0, len(generated))
	for _, g := range generated {
		if len(drafts) == constants.MaxAIGeneratedTasks {
			break
		}

		name := strings.TrimSpace(g.Name)
		if name == "" {
			continue
		}
		if runes := []rune(name); len(runes) > constants.MaxTaskNameLength {
			name = string(runes[:constants.MaxTaskNameLength])
		}

		draft := TaskDraft{Name: name}

		if desc := strings.TrimSpace(g.Description); desc != "" {
			draft.Description = &desc
		}

		if g.DueDate != nil {
			if due, err := models.ParseDate(*g.DueDate); err == nil && !due.Before(today) {
				draft.DueDate = &due
			}
		}

		if g.Priority != nil {
			if p := models.Priority(*g.Priority); p.Valid() {
				draft.Priority = &p
			}
		}

		drafts = append(drafts, draft)
	}

	return drafts
}
