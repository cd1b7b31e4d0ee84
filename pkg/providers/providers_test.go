package providers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPrompt(t *testing.T) {
	assert.Equal(t, "pick one", buildPrompt("pick one", "", nil))
	assert.Equal(t,
		"you are a planner\n\nHere is what you remember:\na\nb\n\npick one",
		buildPrompt("pick one", "you are a planner", []string{"a", "b"}),
	)
}

func TestNew(t *testing.T) {
	ctx := context.Background()

	client, err := New(ctx, "OpenAI", WithBaseURL("http://localhost:1/v1/"), WithAPIKey("test"))
	require.NoError(t, err)
	assert.IsType(t, &OpenAIClient{}, client)

	_, err = New(ctx, "mystery")
	assert.Error(t, err)

	t.Setenv("GEMINI_API_KEY", "")
	_, err = New(ctx, Gemini)
	assert.Error(t, err)
}

func TestOpenAiBaseURL(t *testing.T) {
	ctx := context.Background()

	t.Setenv("OPENAI_API_BASE_URL", "")
	assert.Equal(t, defaultOpenAIBaseURL, OpenAi(ctx).BaseURL())

	t.Setenv("OPENAI_API_BASE_URL", "http://proxy.local/v1/")
	assert.Equal(t, "http://proxy.local/v1/", OpenAi(ctx).BaseURL())
	assert.Equal(t, "http://proxy.local/v1/", OpenAi(ctx, WithBaseURL("")).BaseURL())
	assert.Equal(t, "http://other.local/v1/", OpenAi(ctx, WithBaseURL("http://other.local/v1/")).BaseURL())
}
