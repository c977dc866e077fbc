package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

// newMockOpenAI starts an httptest server and returns it with a function to
// set the next response's status and body.
func newMockOpenAI() (*httptest.Server, func(int, interface{})) {
	var mockStatus int
	var mockBody interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(mockStatus)
		json.NewEncoder(w).Encode(mockBody)
	}))

	setMock := func(status int, body interface{}) {
		mockStatus = status
		mockBody = body
	}
	return server, setMock
}

// openAIChatResponse wraps a content string in the OpenAI chat completions
// response shape (choices[0].message.content).
func openAIChatResponse(content string) map[string]interface{} {
	return map[string]interface{}{
		"choices": []map[string]interface{}{
			{
				"message": map[string]interface{}{
					"content": content,
				},
			},
		},
	}
}

func TestEstimateNutrition_Success(t *testing.T) {
	server, setMock := newMockOpenAI()
	defer server.Close()
	t.Setenv("OPENAI_API_KEY", "test-key")

	setMock(http.StatusOK, openAIChatResponse(`{"calories":420,"protein":32,"carbs":18,"fat":24}`))

	est, err := estimateNutrition(context.Background(), server.URL, "grilled chicken salad with avocado")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if est.Calories != 420 || est.Protein != 32 || est.Carbs != 18 || est.Fat != 24 {
		t.Errorf("estimate = %+v, want {420 32 18 24}", est)
	}
}

func TestEstimateNutrition_EmptyInput(t *testing.T) {
	// Base URL is never contacted for empty input — a bogus one proves it.
	_, err := estimateNutrition(context.Background(), "http://127.0.0.1:0", "   ")
	if !errors.Is(err, errEstimationFailed) {
		t.Errorf("expected errEstimationFailed, got %v", err)
	}
}

func TestEstimateNutrition_ProviderError(t *testing.T) {
	server, setMock := newMockOpenAI()
	defer server.Close()
	t.Setenv("OPENAI_API_KEY", "test-key")

	setMock(http.StatusInternalServerError, map[string]string{"error": "server error"})

	_, err := estimateNutrition(context.Background(), server.URL, "banana")
	if !errors.Is(err, errEstimationFailed) {
		t.Errorf("expected errEstimationFailed, got %v", err)
	}
}

func TestEstimateNutrition_MalformedContent(t *testing.T) {
	server, setMock := newMockOpenAI()
	defer server.Close()
	t.Setenv("OPENAI_API_KEY", "test-key")

	setMock(http.StatusOK, openAIChatResponse(`not valid json at all`))

	_, err := estimateNutrition(context.Background(), server.URL, "banana")
	if !errors.Is(err, errEstimationFailed) {
		t.Errorf("expected errEstimationFailed, got %v", err)
	}
}

func TestEstimateNutrition_Unrecognized(t *testing.T) {
	server, setMock := newMockOpenAI()
	defer server.Close()
	t.Setenv("OPENAI_API_KEY", "test-key")

	setMock(http.StatusOK, openAIChatResponse(`{"error":"unrecognized"}`))

	_, err := estimateNutrition(context.Background(), server.URL, "asdfghjkl")
	if !errors.Is(err, errEstimationFailed) {
		t.Errorf("expected errEstimationFailed, got %v", err)
	}
}

func TestEstimateNutrition_NegativeMacros(t *testing.T) {
	server, setMock := newMockOpenAI()
	defer server.Close()
	t.Setenv("OPENAI_API_KEY", "test-key")

	setMock(http.StatusOK, openAIChatResponse(`{"calories":-100,"protein":5,"carbs":5,"fat":5}`))

	_, err := estimateNutrition(context.Background(), server.URL, "mystery shake")
	if !errors.Is(err, errEstimationFailed) {
		t.Errorf("expected errEstimationFailed for negative calories, got %v", err)
	}
}

func TestEstimateNutrition_MissingAPIKey(t *testing.T) {
	server, setMock := newMockOpenAI()
	defer server.Close()
	t.Setenv("OPENAI_API_KEY", "")

	setMock(http.StatusOK, openAIChatResponse(`{"calories":1,"protein":0,"carbs":0,"fat":0}`))

	_, err := estimateNutrition(context.Background(), server.URL, "banana")
	if !errors.Is(err, errEstimationFailed) {
		t.Errorf("expected errEstimationFailed without API key, got %v", err)
	}
}
