package main

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

// LLMClient talks to a chat-completions API to converse with the
// student and extract a structured profile from free text. It owns no
// ranking logic; every failure degrades to a safe default so the
// recommendation flow keeps working without it.
type LLMClient struct {
	cfg        LLMConfig
	httpClient *http.Client
	logger     zerolog.Logger
}

func NewLLMClient(cfg LLMConfig, logger zerolog.Logger) *LLMClient {
	return &LLMClient{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
		logger: logger.With().Str("component", "llm").Logger(),
	}
}

// Chat-completions wire types
type completionMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionFormat struct {
	Type string `json:"type"`
}

type completionRequest struct {
	Model          string              `json:"model"`
	Messages       []completionMessage `json:"messages"`
	Temperature    float64             `json:"temperature"`
	ResponseFormat *completionFormat   `json:"response_format,omitempty"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

const profileExtractionPrompt = `You are a strict JSON-producing assistant that extracts a student profile for an MSc student from the conversation.

Your ONLY output must be a single JSON object with these optional fields:
  - interests: string[]
  - avoid: string[]
  - goals: string[]
  - language_preference: "EN" | "IT" | "ANY"
  - workload_tolerance: "low" | "medium" | "high"
  - preferred_exam_types: string[]
  - liked_courses: string[]  (course codes)
  - disliked_courses: string[]  (course codes)
  - ready_for_recommendations: boolean

Rules:
  - Do NOT include any explanation text, comments, or Markdown.
  - Omit fields you are not confident about.
  - Use uppercase EN/IT/ANY for language_preference.
  - Use lowercase for workload_tolerance.
  - Set ready_for_recommendations to true ONLY when the profile is rich enough to support concrete course suggestions, or when the student explicitly asks for recommendations.`

// GenerateReply asks the model for the next assistant turn.
func (c *LLMClient) GenerateReply(messages []ChatMessage) (string, error) {
	apiMessages := make([]completionMessage, 0, len(messages))
	for _, m := range messages {
		apiMessages = append(apiMessages, completionMessage{Role: m.Role, Content: m.Content})
	}

	resp, err := c.complete(completionRequest{
		Model:       c.cfg.ReplyModel,
		Messages:    apiMessages,
		Temperature: c.cfg.ReplyTemperature,
	})
	if err != nil {
		return "", fmt.Errorf("generate reply: %w", err)
	}
	return resp, nil
}

// ExtractProfile asks the model for an updated profile as strict JSON
// and merges it with the previous profile. On any model or parsing
// failure the previous profile is returned unchanged.
func (c *LLMClient) ExtractProfile(messages []ChatMessage, previous *StudentProfile) StudentProfile {
	apiMessages := []completionMessage{
		{Role: "system", Content: profileExtractionPrompt},
	}
	for _, m := range messages {
		apiMessages = append(apiMessages, completionMessage{Role: m.Role, Content: m.Content})
	}

	if previous != nil {
		prevJSON, err := json.Marshal(previous)
		if err == nil {
			apiMessages = append(apiMessages, completionMessage{
				Role: "user",
				Content: "Here is the current known profile as JSON. Update it if needed, keeping consistent fields:\n" +
					string(prevJSON),
			})
		}
	}
	apiMessages = append(apiMessages, completionMessage{
		Role:    "user",
		Content: "Now respond ONLY with the updated profile as a single JSON object, with no surrounding text.",
	})

	fallback := StudentProfile{}
	if previous != nil {
		fallback = *previous
	}

	raw, err := c.complete(completionRequest{
		Model:          c.cfg.ProfileModel,
		Messages:       apiMessages,
		Temperature:    c.cfg.ProfileTemperature,
		ResponseFormat: &completionFormat{Type: "json_object"},
	})
	if err != nil {
		c.logger.Warn().Err(err).Msg("profile extraction failed, keeping previous profile")
		return fallback
	}

	var extracted StudentProfile
	if err := json.Unmarshal([]byte(raw), &extracted); err != nil {
		c.logger.Warn().Err(err).Msg("profile extraction returned invalid JSON")
		return fallback
	}

	return mergeProfiles(fallback, extracted)
}

// GenerateExplanations asks the model to briefly explain why each
// recommended course fits the profile. Returns an empty map on any
// failure so explanations never block a response.
func (c *LLMClient) GenerateExplanations(profile StudentProfile, recs []CourseRecommendation) map[string]string {
	if len(recs) == 0 {
		return map[string]string{}
	}

	type slimCourse struct {
		Code  string `json:"code"`
		Name  string `json:"name"`
		Group string `json:"group"`
	}
	slim := make([]slimCourse, 0, len(recs))
	for _, r := range recs {
		slim = append(slim, slimCourse{Code: r.Code, Name: r.Name, Group: r.Group})
	}

	payload, err := json.Marshal(map[string]any{
		"student_profile": profile,
		"courses":         slim,
	})
	if err != nil {
		return map[string]string{}
	}

	raw, err := c.complete(completionRequest{
		Model: c.cfg.ReplyModel,
		Messages: []completionMessage{
			{
				Role: "system",
				Content: "You are an academic advisor. Given a student profile and a list of courses, " +
					"explain briefly why each course fits the student. Write very concise, 1-2 sentence " +
					"explanations, focused on interests, dislikes, and goals. Respond ONLY with JSON of " +
					`the form: { "explanations": { "COURSE_CODE": "explanation", ... } }`,
			},
			{Role: "user", Content: string(payload)},
		},
		Temperature:    c.cfg.ReplyTemperature,
		ResponseFormat: &completionFormat{Type: "json_object"},
	})
	if err != nil {
		c.logger.Warn().Err(err).Msg("explanation generation failed")
		return map[string]string{}
	}

	var parsed struct {
		Explanations map[string]string `json:"explanations"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil || parsed.Explanations == nil {
		return map[string]string{}
	}
	return parsed.Explanations
}

// complete performs one chat-completions call and returns the first
// choice's content.
func (c *LLMClient) complete(reqBody completionRequest) (string, error) {
	if c.cfg.APIKey == "" {
		return "", fmt.Errorf("LLM_API_KEY is not set")
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, c.cfg.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var parsed completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("empty response from model")
	}

	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}

// mergeProfiles merges a newly extracted profile into the previous one:
// list fields append new items (deduped, order preserved), enums are
// replaced only by valid values, booleans are replaced outright.
func mergeProfiles(previous, extracted StudentProfile) StudentProfile {
	merged := previous

	merged.Interests = mergeLists(previous.Interests, extracted.Interests)
	merged.Goals = mergeLists(previous.Goals, extracted.Goals)
	merged.Avoid = mergeLists(previous.Avoid, extracted.Avoid)
	merged.PreferredExamTypes = mergeLists(previous.PreferredExamTypes, extracted.PreferredExamTypes)
	merged.LikedCourses = mergeLists(previous.LikedCourses, extracted.LikedCourses)
	merged.DislikedCourses = mergeLists(previous.DislikedCourses, extracted.DislikedCourses)

	if lang := strings.ToUpper(strings.TrimSpace(extracted.LanguagePreference)); lang == "EN" || lang == "IT" || lang == "ANY" {
		merged.LanguagePreference = lang
	}
	if wt := strings.ToLower(strings.TrimSpace(extracted.WorkloadTolerance)); wt == "low" || wt == "medium" || wt == "high" {
		merged.WorkloadTolerance = wt
	}
	if extracted.ReadyForRecommendations {
		merged.ReadyForRecommendations = true
	}

	return merged
}

func mergeLists(existing, incoming []string) []string {
	seen := make(map[string]bool, len(existing))
	out := append([]string{}, existing...)
	for _, item := range existing {
		seen[item] = true
	}
	for _, item := range incoming {
		item = strings.TrimSpace(item)
		if item != "" && !seen[item] {
			out = append(out, item)
			seen[item] = true
		}
	}
	return out
}
