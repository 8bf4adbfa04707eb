package bedrock

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fakeInvoker struct {
	input *bedrockruntime.InvokeModelInput
	body  string
	err   error
}

func (f *fakeInvoker) InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &bedrockruntime.InvokeModelOutput{Body: []byte(f.body)}, nil
}

func TestGenerate_Anthropic(t *testing.T) {
	invoker := &fakeInvoker{body: `{"content": [{"type": "text", "text": "{\"confidence\": 90}"}]}`}
	client := NewBedrockClient(invoker, "anthropic.claude-3-haiku-20240307-v1:0", 500, 0.1, 0.9, zaptest.NewLogger(t))

	text, err := client.Generate(context.Background(), "the prompt")
	require.NoError(t, err)
	assert.Equal(t, `{"confidence": 90}`, text)

	require.NotNil(t, invoker.input)
	assert.Equal(t, "anthropic.claude-3-haiku-20240307-v1:0", *invoker.input.ModelId)

	var payload struct {
		AnthropicVersion string `json:"anthropic_version"`
		MaxTokens        int    `json:"max_tokens"`
		Messages         []struct {
			Role    string `json:"role"`
			Content []struct {
				Text string `json:"text"`
			} `json:"content"`
		} `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(invoker.input.Body, &payload))
	assert.Equal(t, anthropicVersion, payload.AnthropicVersion)
	assert.Equal(t, 500, payload.MaxTokens)
	require.Len(t, payload.Messages, 1)
	assert.Equal(t, "the prompt", payload.Messages[0].Content[0].Text)
}

func TestGenerate_Titan(t *testing.T) {
	invoker := &fakeInvoker{body: `{"results": [{"outputText": "reply"}]}`}
	client := NewBedrockClient(invoker, "amazon.titan-text-express-v1", 500, 0.1, 0.9, zaptest.NewLogger(t))

	text, err := client.Generate(context.Background(), "the prompt")
	require.NoError(t, err)
	assert.Equal(t, "reply", text)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(invoker.input.Body, &payload))
	assert.Equal(t, "the prompt", payload["inputText"])
}

func TestGenerate_Generic(t *testing.T) {
	invoker := &fakeInvoker{body: `{"generation": "llama says hi"}`}
	client := NewBedrockClient(invoker, "meta.llama3-8b-instruct-v1:0", 500, 0.1, 0.9, zaptest.NewLogger(t))

	text, err := client.Generate(context.Background(), "the prompt")
	require.NoError(t, err)
	assert.Equal(t, "llama says hi", text)
}

func TestGenerate_Errors(t *testing.T) {
	client := NewBedrockClient(&fakeInvoker{err: errors.New("throttled")}, "amazon.titan-text-express-v1", 500, 0.1, 0.9, zaptest.NewLogger(t))
	_, err := client.Generate(context.Background(), "p")
	assert.ErrorContains(t, err, "throttled")

	client = NewBedrockClient(&fakeInvoker{body: `{"results": []}`}, "amazon.titan-text-express-v1", 500, 0.1, 0.9, zaptest.NewLogger(t))
	_, err = client.Generate(context.Background(), "p")
	assert.ErrorContains(t, err, "empty response")

	client = NewBedrockClient(&fakeInvoker{body: `{"content": []}`}, "anthropic.claude-3-haiku-20240307-v1:0", 500, 0.1, 0.9, zaptest.NewLogger(t))
	_, err = client.Generate(context.Background(), "p")
	assert.ErrorContains(t, err, "empty response")
}
