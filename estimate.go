package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// errEstimationFailed is the single terminal outcome for a failed estimate —
// provider unavailability, a malformed response, or unusable input all
// collapse into it. The meal handler aborts before persisting anything.
var errEstimationFailed = errors.New("estimation failed")

// nutritionEstimate is the structured result of analysing a free-text meal
// description. All values are per the full described portion and never negative.
type nutritionEstimate struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// nutritionSystemPrompt instructs the model to return only the four macro
// fields. Estimates are deliberately conservative: when unsure, it should
// under-estimate rather than over-estimate.
const nutritionSystemPrompt = `You are a nutrition assistant. Parse the meal description and return a JSON object with:
- "calories" (number, total for the full described portion)
- "protein" (number, grams of protein)
- "carbs" (number, grams of carbohydrates)
- "fat" (number, grams of fat)

Be conservative: when unsure, under-estimate rather than over-estimate.
Always provide your best estimate, even for unfamiliar or vague meals. Use your knowledge of similar foods to approximate. Only return {"error": "unrecognized"} if the input is not food at all (e.g. random characters, non-food objects).
Return only valid JSON, no explanation.`

/* ─── OpenAI HTTP client ─────────────────────────────────────────────── */

// openAIMessage is a single message in the OpenAI chat completions request.
type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// openAIRequest is the request body for the OpenAI chat completions API.
type openAIRequest struct {
	Model          string                 `json:"model"`
	Messages       []openAIMessage        `json:"messages"`
	Temperature    float64                `json:"temperature"`
	ResponseFormat map[string]interface{} `json:"response_format"`
}

// callOpenAI sends a chat completions request and returns the raw content string
// from the first choice. Uses raw net/http to avoid pulling in the OpenAI SDK.
func callOpenAI(ctx context.Context, messages []openAIMessage, baseURL string) (string, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return "", fmt.Errorf("OPENAI_API_KEY not set")
	}

	reqBody := openAIRequest{
		Model:       "gpt-4o-mini",
		Messages:    messages,
		Temperature: 0,
		ResponseFormat: map[string]interface{}{
			"type": "json_object",
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", baseURL+"/v1/chat/completions", bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+apiKey)

	client := &http.Client{Timeout: 15 * time.Second}
	resp, err := client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("openai returned status %d: %s", resp.StatusCode, string(respBytes))
	}

	// Parse the response to extract choices[0].message.content
	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(respBytes, &result); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}

	return result.Choices[0].Message.Content, nil
}

/* ─── Estimator ──────────────────────────────────────────────────────── */

// estimateNutrition analyses a free-text meal description into macros.
// One call per meal-logging action — no retry, no cache. Every failure mode
// wraps errEstimationFailed so callers have a single outcome to branch on.
func estimateNutrition(ctx context.Context, baseURL, mealText string) (nutritionEstimate, error) {
	var zero nutritionEstimate

	if strings.TrimSpace(mealText) == "" {
		return zero, fmt.Errorf("%w: empty meal description", errEstimationFailed)
	}

	messages := []openAIMessage{
		{Role: "system", Content: nutritionSystemPrompt},
		{Role: "user", Content: mealText},
	}

	content, err := callOpenAI(ctx, messages, baseURL)
	if err != nil {
		return zero, fmt.Errorf("%w: %v", errEstimationFailed, err)
	}

	// The model signals non-food input with an explicit error object.
	var errorResp struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal([]byte(content), &errorResp); err != nil {
		return zero, fmt.Errorf("%w: malformed provider response: %v", errEstimationFailed, err)
	}
	if errorResp.Error != "" {
		return zero, fmt.Errorf("%w: provider could not recognize input", errEstimationFailed)
	}

	var est nutritionEstimate
	if err := json.Unmarshal([]byte(content), &est); err != nil {
		return zero, fmt.Errorf("%w: malformed provider response: %v", errEstimationFailed, err)
	}
	if est.Calories < 0 || est.Protein < 0 || est.Carbs < 0 || est.Fat < 0 {
		return zero, fmt.Errorf("%w: negative macro values in provider response", errEstimationFailed)
	}

	return est, nil
}
