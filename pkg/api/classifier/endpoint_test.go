package classifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/coursepulse/backend/config"
	"github.com/stretchr/testify/require"
)

func completionsResponse(content string) map[string]any {
	return map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"role": "assistant", "content": content}},
		},
	}
}

func Test_endpoint_Classify(t *testing.T) {
	var gotAuth string
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(
			completionsResponse(`{"has_teaching": true, "has_tips": true}`)))
	}))
	defer server.Close()

	endpoint := New(config.ClassifierConfigs{
		URL:    server.URL,
		APIKey: "secret",
		Model:  "gpt-4o-mini",
	})

	result, err := endpoint.Classify(context.Background(), "great lectures")
	require.NoError(t, err)
	require.True(t, result.HasTeaching)
	require.True(t, result.HasTips)

	// Fields the model omits default to false.
	require.False(t, result.HasAssessment)
	require.False(t, result.HasMaterials)

	require.Equal(t, "Bearer secret", gotAuth)
	require.Equal(t, "gpt-4o-mini", gotBody["model"])
}

func Test_endpoint_Classify_providerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	endpoint := New(config.ClassifierConfigs{URL: server.URL})

	_, err := endpoint.Classify(context.Background(), "great lectures")
	require.Error(t, err)
}

func Test_endpoint_Classify_malformedContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(completionsResponse("not json")))
	}))
	defer server.Close()

	endpoint := New(config.ClassifierConfigs{URL: server.URL})

	_, err := endpoint.Classify(context.Background(), "great lectures")
	require.Error(t, err)
}
