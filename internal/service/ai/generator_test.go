package ai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/openai/openai-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aipreacher/backend/internal/config"
)

type stubChatModel struct {
	reply string
	err   error
	got   []*schema.Message
}

func (m *stubChatModel) Generate(_ context.Context, input []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	m.got = input
	if m.err != nil {
		return nil, m.err
	}
	return schema.AssistantMessage(m.reply, nil), nil
}

func (m *stubChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	msg, err := m.Generate(ctx, input, opts...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{msg}), nil
}

func TestArkGeneratorPassesInstructionThrough(t *testing.T) {
	stub := &stubChatModel{reply: "  Grace and peace to you.  "}
	gen, err := NewArkGenerator(context.Background(), stub, time.Second)
	require.NoError(t, err)

	reply, err := gen.Generate(context.Background(), `Say "hi" {not a placeholder}`)
	require.NoError(t, err)
	assert.Equal(t, "Grace and peace to you.", reply)
	require.Len(t, stub.got, 1)
	assert.Equal(t, schema.User, stub.got[0].Role)
	assert.Equal(t, `Say "hi" {not a placeholder}`, stub.got[0].Content)
}

func TestArkGeneratorWrapsFailures(t *testing.T) {
	gen, err := NewArkGenerator(context.Background(), &stubChatModel{err: errors.New("upstream down")}, time.Second)
	require.NoError(t, err)

	_, err = gen.Generate(context.Background(), "hello")
	assert.ErrorIs(t, err, ErrGenerationUnavailable)

	gen, err = NewArkGenerator(context.Background(), &stubChatModel{reply: "   "}, time.Second)
	require.NoError(t, err)
	_, err = gen.Generate(context.Background(), "hello")
	assert.ErrorIs(t, err, ErrGenerationUnavailable)
}

func TestOpenAIGeneratorReadsOutputText(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/responses"), r.URL.Path)
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &body)

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
			"id": "resp_1",
			"object": "response",
			"created_at": 1700000000,
			"status": "completed",
			"model": "gpt-4o-mini",
			"output": [{
				"type": "message",
				"id": "msg_1",
				"status": "completed",
				"role": "assistant",
				"content": [{"type": "output_text", "text": "Be still, and know. Psalm 46:10", "annotations": []}]
			}]
		}`)
	}))
	defer srv.Close()

	maxTokens := 256
	gen := NewOpenAIGenerator("gpt-4o-mini", &maxTokens, time.Second,
		option.WithAPIKey("test"),
		option.WithBaseURL(srv.URL+"/v1/"),
		option.WithMaxRetries(0),
	)

	reply, err := gen.Generate(context.Background(), "pray for me")
	require.NoError(t, err)
	assert.Equal(t, "Be still, and know. Psalm 46:10", reply)
	assert.Equal(t, "gpt-4o-mini", body["model"])
	assert.EqualValues(t, 256, body["max_output_tokens"])
}

func TestOpenAIGeneratorWrapsHTTPErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"error": {"message": "boom", "type": "server_error"}}`)
	}))
	defer srv.Close()

	gen := NewOpenAIGenerator("gpt-4o-mini", nil, time.Second,
		option.WithAPIKey("test"),
		option.WithBaseURL(srv.URL+"/v1/"),
		option.WithMaxRetries(0),
	)

	_, err := gen.Generate(context.Background(), "pray for me")
	assert.ErrorIs(t, err, ErrGenerationUnavailable)
}

func TestNewGeneratorRequiresCredentials(t *testing.T) {
	_, err := NewGenerator(context.Background(), config.AIConfig{Provider: config.ProviderArk})
	assert.Error(t, err)

	_, err = NewGenerator(context.Background(), config.AIConfig{Provider: config.ProviderOpenAI})
	assert.Error(t, err)

	gen, err := NewGenerator(context.Background(), config.AIConfig{
		Provider:     config.ProviderOpenAI,
		OpenAIAPIKey: "k",
		OpenAIModel:  "gpt-4o-mini",
	})
	require.NoError(t, err)
	assert.IsType(t, &OpenAIGenerator{}, gen)
}

func TestUnavailableGenerator(t *testing.T) {
	_, err := Unavailable{Reason: "no model configured"}.Generate(context.Background(), "hi")
	assert.ErrorIs(t, err, ErrGenerationUnavailable)
	assert.Contains(t, err.Error(), "no model configured")
}
