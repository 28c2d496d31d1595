package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/noobkia1314/SmartMind/internal/models"
)

// ErrServiceOverloaded marks the transient "retry later" condition the model
// backend reports under load. Callers distinguish it from ordinary failures
// so the user sees a retry affordance instead of a generic error.
var ErrServiceOverloaded = errors.New("model service is overloaded")

// ErrNotConfigured is returned when no API key was provided.
var ErrNotConfigured = errors.New("gemini API key is not configured")

const defaultModel = "gemini-2.0-flash"

type Client struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		model:   defaultModel,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// GoalStructure is the generated decomposition of a free-text goal.
type GoalStructure struct {
	MindMap models.MindMapNode `json:"mindMap"`
	Tasks   []GeneratedTask    `json:"tasks"`
}

type GeneratedTask struct {
	Title    string `json:"title"`
	Category string `json:"category"`
}

type NutritionEstimate struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
}

type ExerciseEstimate struct {
	CaloriesBurned float64 `json:"caloriesBurned"`
}

func (c *Client) GenerateGoalStructure(ctx context.Context, goalText string) (GoalStructure, error) {
	prompt := fmt.Sprintf(`You are a personal goal coach. Decompose the following goal into a mind map of milestones and a list of starter tasks.
Goal: %q
Respond with JSON only, shaped as {"mindMap": {"id": string, "label": string, "children": [...]}, "tasks": [{"title": string, "category": string}]}.
Task categories should be one of Diet, Exercise, Reading, Finance or another short label that fits the goal.`, goalText)

	var structure GoalStructure
	if err := c.generateJSON(ctx, prompt, &structure); err != nil {
		return GoalStructure{}, err
	}
	if structure.MindMap.Label == "" && len(structure.Tasks) == 0 {
		return GoalStructure{}, errors.New("model returned an empty goal structure")
	}
	return structure, nil
}

func (c *Client) EstimateNutrition(ctx context.Context, foodName string) (NutritionEstimate, error) {
	prompt := fmt.Sprintf(`Estimate the nutrition of one serving of %q.
Respond with JSON only: {"calories": number, "protein": number} (calories in kcal, protein in grams).`, foodName)

	var estimate NutritionEstimate
	if err := c.generateJSON(ctx, prompt, &estimate); err != nil {
		return NutritionEstimate{}, err
	}
	return estimate, nil
}

func (c *Client) EstimateExerciseCalories(ctx context.Context, exerciseName string, value float64, unit models.ExerciseUnit, stats models.BodyStats) (ExerciseEstimate, error) {
	prompt := fmt.Sprintf(`Estimate calories burned by %q for %g %s, performed by a person weighing %gkg, %gcm tall, aged %d.
Respond with JSON only: {"caloriesBurned": number}.`,
		exerciseName, value, unit, stats.WeightKG, stats.HeightCM, stats.Age)

	var estimate ExerciseEstimate
	if err := c.generateJSON(ctx, prompt, &estimate); err != nil {
		return ExerciseEstimate{}, err
	}
	return estimate, nil
}

func (c *Client) GetCoachAdvice(ctx context.Context, progressSummary string) (string, error) {
	prompt := fmt.Sprintf(`You are a supportive but direct personal coach. Given this progress summary, give concise, actionable advice in a few short paragraphs.
%s`, progressSummary)

	return c.generateText(ctx, prompt)
}

type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	ResponseMIMEType string `json:"responseMimeType,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

func (c *Client) generateJSON(ctx context.Context, prompt string, out any) error {
	text, err := c.generate(ctx, prompt, &generationConfig{ResponseMIMEType: "application/json"})
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(stripFences(text)), out); err != nil {
		return fmt.Errorf("parsing model output: %w", err)
	}
	return nil
}

func (c *Client) generateText(ctx context.Context, prompt string) (string, error) {
	return c.generate(ctx, prompt, nil)
}

func (c *Client) generate(ctx context.Context, prompt string, config *generationConfig) (string, error) {
	if c.apiKey == "" {
		return "", ErrNotConfigured
	}

	body, err := json.Marshal(generateRequest{
		Contents:         []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: config,
	})
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Authorization", "Bearer "+c.apiKey)

	response, err := c.client.Do(request)
	if err != nil {
		return "", fmt.Errorf("calling model: %w", err)
	}
	defer response.Body.Close()

	payload, err := io.ReadAll(response.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	if response.StatusCode != http.StatusOK {
		if isOverloaded(response.StatusCode, payload) {
			return "", ErrServiceOverloaded
		}
		return "", fmt.Errorf("model returned status %d", response.StatusCode)
	}

	var parsed generateResponse
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return "", fmt.Errorf("parsing response: %w", err)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("model returned no candidates")
	}
	return parsed.Candidates[0].Content.Parts[0].Text, nil
}

func isOverloaded(status int, body []byte) bool {
	if status == http.StatusServiceUnavailable || status == http.StatusTooManyRequests {
		return true
	}
	return bytes.Contains(bytes.ToLower(body), []byte("overloaded"))
}

// stripFences removes the ```json fences some models wrap structured output in.
func stripFences(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	}
	return strings.TrimSpace(text)
}
