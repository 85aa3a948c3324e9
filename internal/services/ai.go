package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/yukikurage/task-relations-api/internal/constants"
	apierrors "github.com/yukikurage/task-relations-api/internal/errors"
)

var (
	ErrAIServiceNotConfigured = apierrors.NewAPIError(apierrors.ErrCodeServiceUnavailable, "AI service is not configured")
	ErrDraftTextRequired      = apierrors.Validation("text is required")
	ErrDraftTextTooLong       = apierrors.Validation(fmt.Sprintf("text must be at most %d characters", constants.MaxDraftTextLength))
	ErrAINoTasksGenerated     = apierrors.Validation("AI did not generate any tasks")
)

type AIService struct {
	client *openai.Client
	model  string
}

// TaskDraft is a suggested task. Drafts are never persisted.
type TaskDraft struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Deadline    *time.Time `json:"deadline"`
}

func NewAIService(apiKey string) *AIService {
	return &AIService{
		client: openai.NewClient(apiKey),
		model:  openai.GPT4o,
	}
}

// DraftTasksFromText asks the model to extract tasks from free text
func (s *AIService) DraftTasksFromText(ctx context.Context, text string) ([]TaskDraft, error) {
	if s.client == nil {
		return nil, fmt.Errorf("OpenAI client not initialized")
	}

	currentTime := time.Now().UTC().Format(time.RFC3339)
	prompt := fmt.Sprintf(`You extract actionable tasks from text.

Current time: %s

Text:
%s

Reply with a JSON array only, no prose:
[
  {
    "name": "short task name",
    "description": "more detail, may be empty",
    "deadline": "RFC3339 timestamp, or null when no deadline is stated"
  }
]

Rules:
- Return [] when there are no tasks
- Resolve relative dates ("tomorrow", "next week") against the current time
- deadline must be an RFC3339 string or null`, currentTime, text)

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
			Temperature: 0.3,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	return parseDrafts(resp.Choices[0].Message.Content)
}

// parseDrafts decodes the model reply, tolerating a fenced code block
func parseDrafts(content string) ([]TaskDraft, error) {
	trimmed := strings.TrimSpace(content)
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(trimmed, "```")

	var drafts []TaskDraft
	if err := json.Unmarshal([]byte(strings.TrimSpace(trimmed)), &drafts); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w (response: %s)", err, content)
	}
	return drafts, nil
}

// DraftTasks returns task suggestions for text. Drafts without a name are
// dropped and deadlines more than a day in the past are cleared.
func (s *Coordinator) DraftTasks(ctx context.Context, text string) ([]TaskDraft, error) {
	if s.aiService == nil {
		return nil, ErrAIServiceNotConfigured
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrDraftTextRequired
	}
	if len(text) > constants.MaxDraftTextLength {
		return nil, ErrDraftTextTooLong
	}

	drafts, err := s.aiService.DraftTasksFromText(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tasks: %w", err)
	}

	return filterDrafts(drafts, time.Now())
}

func filterDrafts(drafts []TaskDraft, now time.Time) ([]TaskDraft, error) {
	if len(drafts) == 0 {
		return nil, ErrAINoTasksGenerated
	}
	if len(drafts) > constants.MaxAIGeneratedTasks {
		drafts = drafts[:constants.MaxAIGeneratedTasks]
	}

	cutoff := now.Add(-24 * time.Hour)
	valid := make([]TaskDraft, 0, len(drafts))
	for _, draft := range drafts {
		draft.Name = strings.TrimSpace(draft.Name)
		if draft.Name == "" {
			continue
		}
		if draft.Deadline != nil && draft.Deadline.Before(cutoff) {
			draft.Deadline = nil
		}
		valid = append(valid, draft)
	}

	if len(valid) == 0 {
		return nil, ErrAINoTasksGenerated
	}
	return valid, nil
}
