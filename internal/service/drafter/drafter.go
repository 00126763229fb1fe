package drafter

import (
	"BizDevCRM/entity"
	"BizDevCRM/internal/config"
	"BizDevCRM/internal/lib/sl"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sashabaranov/go-openai"
)

const systemPrompt = `You write short, professional business development proposals.
Address the contact by name, mention the company and its industry, reference the
template and rate card version given, and end with a clear call to action.
Plain text only, no markdown.`

// Drafter composes proposal bodies with a chat completion model.
type Drafter struct {
	client *openai.Client
	model  string
	log    *slog.Logger
}

func New(conf *config.Config, logger *slog.Logger) *Drafter {
	if !conf.OpenAI.Enabled || conf.OpenAI.ApiKey == "" {
		return nil
	}
	return &Drafter{
		client: openai.NewClient(conf.OpenAI.ApiKey),
		model:  conf.OpenAI.Model,
		log:    logger.With(sl.Module("drafter")),
	}
}

// Prompt builds the user message for a lead.
func Prompt(lead *entity.Lead, req *entity.DraftRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Company: %s\n", lead.CompanyName)
	if lead.IndustryName != "" {
		fmt.Fprintf(&b, "Industry: %s\n", lead.IndustryName)
	}
	if lead.ContactName != "" {
		fmt.Fprintf(&b, "Contact: %s\n", lead.ContactName)
	}
	fmt.Fprintf(&b, "Stage: %s\n", lead.Stage)
	if req.TemplateID != "" {
		fmt.Fprintf(&b, "Template: %s\n", req.TemplateID)
	}
	if req.RateCardVersion != "" {
		fmt.Fprintf(&b, "Rate card version: %s\n", req.RateCardVersion)
	}
	if req.Notes != "" {
		fmt.Fprintf(&b, "Notes: %s\n", req.Notes)
	}
	return b.String()
}

func (d *Drafter) Draft(ctx context.Context, lead *entity.Lead, req *entity.DraftRequest) (string, error) {
	resp, err := d.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: d.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: Prompt(lead, req)},
		},
		Temperature: 0.4,
	})
	if err != nil {
		return "", fmt.Errorf("openai completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai completion: no choices")
	}

	d.log.With(
		slog.String("lead", lead.ID),
		slog.Int("tokens", resp.Usage.TotalTokens),
	).Debug("proposal drafted")
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
