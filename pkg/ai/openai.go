package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"go-jobmatch-backend/internal/domain"

	openai "github.com/sashabaranov/go-openai"
)

const notSpecified = "Not specified"

// Client implements domain.AIService on top of OpenAI chat completions with
// JSON response format.
type Client struct {
	api   *openai.Client
	model string
}

func NewClient(apiKey, model string) *Client {
	return &Client{
		api:   openai.NewClient(apiKey),
		model: model,
	}
}

func (c *Client) complete(ctx context.Context, system, prompt string) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.3,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai: no choices in response")
	}
	return resp.Choices[0].Message.Content, nil
}

// ExtractProfile parses CV text into skills, languages and a short summary.
func (c *Client) ExtractProfile(ctx context.Context, cvText string) (*domain.ExtractedProfile, error) {
	prompt := fmt.Sprintf(`Extract the following information from this CV/resume text and return it as JSON:
- skills: array of technical and professional skills
- languages: array of languages spoken
- summary: a brief 2-3 sentence professional summary

CV Text:
%s

Return only valid JSON in this format:
{
  "skills": ["skill1", "skill2"],
  "languages": ["language1", "language2"],
  "summary": "brief professional summary"
}`, cvText)

	content, err := c.complete(ctx,
		"You are a professional CV parser. Extract structured data from CVs and return only valid JSON.",
		prompt)
	if err != nil {
		return nil, err
	}

	var profile domain.ExtractedProfile
	if err := json.Unmarshal([]byte(content), &profile); err != nil {
		return nil, fmt.Errorf("openai: malformed profile response: %w", err)
	}
	return &profile, nil
}

// ExtractJobFacts parses a job description into required skills and a summary.
func (c *Client) ExtractJobFacts(ctx context.Context, description string) (*domain.JobFacts, error) {
	prompt := fmt.Sprintf(`Extract the following information from this job description and return it as JSON:
- skills: array of required and preferred skills mentioned
- summary: a brief 2-3 sentence summary of the job

Job Description:
%s

Return only valid JSON in this format:
{
  "skills": ["skill1", "skill2"],
  "summary": "brief job summary"
}`, description)

	content, err := c.complete(ctx,
		"You are a professional job description parser. Extract structured data from job descriptions and return only valid JSON.",
		prompt)
	if err != nil {
		return nil, err
	}

	var facts domain.JobFacts
	if err := json.Unmarshal([]byte(content), &facts); err != nil {
		return nil, fmt.Errorf("openai: malformed job facts response: %w", err)
	}
	return &facts, nil
}

// ScoreMatch asks the model for a 0-100 fit score with a one-line rationale.
// The returned score is clamped to [0,100] no matter what the model sends
// back; a non-numeric score becomes 0.
func (c *Client) ScoreMatch(ctx context.Context, candidate domain.CandidateFacts, job domain.JobRequirements) (*domain.MatchResult, error) {
	prompt := fmt.Sprintf(`You are a job matching expert. Analyze the following candidate profile and job requirements, then provide a match score from 0-100 and a one-line reasoning.

Candidate Profile:
- Skills: %s
- Languages: %s
- Summary: %s
- Experience Years: %s

Job Requirements:
- Required Skills: %s
- Summary: %s
- Required Years: %s

Return only valid JSON in this format:
{
  "match_score": 85,
  "match_summary": "Strong match due to relevant experience in X and Y skills"
}`,
		joinOr(candidate.Skills),
		joinOr(candidate.Languages),
		textOr(candidate.Summary),
		yearsOr(candidate.ExperienceYears),
		joinOr(job.Skills),
		textOr(job.Summary),
		yearsOr(job.RequiredYears),
	)

	content, err := c.complete(ctx,
		"You are a professional job matching expert. Provide accurate match scores and concise reasoning.",
		prompt)
	if err != nil {
		return nil, err
	}

	var raw struct {
		Score   json.RawMessage `json:"match_score"`
		Summary string          `json:"match_summary"`
	}
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return nil, fmt.Errorf("openai: malformed score response: %w", err)
	}

	return &domain.MatchResult{
		Score:   clampScore(parseScore(raw.Score)),
		Summary: raw.Summary,
	}, nil
}

// parseScore tolerates the score arriving as a JSON number, a numeric
// string, or garbage. Garbage scores 0.
func parseScore(raw json.RawMessage) int {
	s := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	if s == "" {
		return 0
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f)
	}
	return 0
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func joinOr(items []string) string {
	if len(items) == 0 {
		return notSpecified
	}
	return strings.Join(items, ", ")
}

func textOr(s string) string {
	if s == "" {
		return "Not provided"
	}
	return s
}

func yearsOr(years *int) string {
	if years == nil {
		return notSpecified
	}
	return strconv.Itoa(*years)
}
