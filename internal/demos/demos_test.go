package demos

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/chailab/internal/bridge"
	"github.com/2389/chailab/internal/webui"
)

func TestCatalog(t *testing.T) {
	assert.Equal(t, []string{"calculator", "echo", "experiment", "greet", "markdown", "random"}, Names())

	d, ok := Lookup("echo")
	require.True(t, ok)
	assert.Equal(t, KindChat, d.Kind)

	_, ok = Lookup("nope")
	assert.False(t, ok)
}

func TestEveryDemoBuilds(t *testing.T) {
	for _, d := range All() {
		t.Run(d.Name, func(t *testing.T) {
			h, err := d.Handler(webui.Options{})
			require.NoError(t, err)
			assert.Equal(t, d.Name, h.Name())

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/config", nil))
			require.Equal(t, http.StatusOK, rec.Code)

			var cfg map[string]any
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&cfg))
			assert.Equal(t, d.Title, cfg["title"])
		})
	}
}

func TestHandlerOverrides(t *testing.T) {
	d, _ := Lookup("greet")
	h, err := d.Handler(webui.Options{Name: "custom"}, bridge.WithTitle("Hi there"))
	require.NoError(t, err)
	assert.Equal(t, "custom", h.Name())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/config", nil))
	assert.Contains(t, rec.Body.String(), `"title":"Hi there"`)
}

func TestGreet(t *testing.T) {
	assert.Equal(t, "Hello, Ada!!!", Greet("Ada", 3))
	assert.Equal(t, "Hello, Ada", Greet("Ada", -2))
}

func TestGreetOverHTTP(t *testing.T) {
	d, _ := Lookup("greet")
	h, err := d.Handler(webui.Options{})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/predict", strings.NewReader(`{"inputs": ["Ada", 2]}`))
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success": true, "outputs": ["Hello, Ada!!"]}`, rec.Body.String())
}

func TestCalculate(t *testing.T) {
	tests := []struct {
		a, b    float64
		op      string
		want    float64
		wantErr error
	}{
		{4, 2, "+", 6, nil},
		{4, 2, "-", 2, nil},
		{4, 2, "*", 8, nil},
		{4, 2, " / ", 2, nil},
		{4, 0, "/", 0, ErrDivisionByZero},
		{4, 2, "%", 0, ErrUnknownOperator},
	}
	for _, tt := range tests {
		got, expr, err := Calculate(tt.a, tt.op, tt.b)
		if tt.wantErr != nil {
			assert.ErrorIs(t, err, tt.wantErr)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
		assert.Contains(t, expr, "=")
	}
}

func TestCalculatorOverHTTP(t *testing.T) {
	d, _ := Lookup("calculator")
	h, err := d.Handler(webui.Options{})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/predict", strings.NewReader(`{"inputs": [9, "/", "3"]}`)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success": true, "outputs": [3, "9 / 3 = 3"]}`, rec.Body.String())

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/predict", strings.NewReader(`{"inputs": [1, "/", 0]}`)))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"success": false, "error": "division by zero"}`, rec.Body.String())
}

func TestPreview(t *testing.T) {
	src, count := Preview("# Title\n\nsome *words* here")
	assert.Equal(t, "# Title\n\nsome *words* here", src)
	assert.Equal(t, "5 words", count)
}

func TestMarkdownOverHTTP(t *testing.T) {
	d, _ := Lookup("markdown")
	h, err := d.Handler(webui.Options{})
	require.NoError(t, err)

	body := `{"inputs": ["# Title\n\nsome *words* <script>alert(1)</script>"]}`
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/predict", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Outputs []string `json:"outputs"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Outputs, 2)
	assert.Contains(t, resp.Outputs[0], "<h1>Title</h1>")
	assert.Contains(t, resp.Outputs[0], "<em>words</em>")
	assert.NotContains(t, resp.Outputs[0], "<script>")
	assert.Equal(t, "5 words", resp.Outputs[1])
}

func TestAnalyze(t *testing.T) {
	out := Analyze("MNIST", "cnn", 0.01)
	assert.Contains(t, out, "Model: CNN")
	assert.Contains(t, out, "Accuracy: 0.901")
	assert.Contains(t, out, "Great results!")
	assert.Contains(t, out, "Learning rate is optimal.")

	out = Analyze("MNIST", "mlp", 0)
	assert.Contains(t, out, "Learning rate: 0.01")
}

func TestSlowEcho(t *testing.T) {
	orig := EchoDelay
	EchoDelay = time.Millisecond
	defer func() { EchoDelay = orig }()

	var b strings.Builder
	for chunk := range SlowEcho(context.Background(), "héllo", nil) {
		b.WriteString(chunk)
	}
	assert.Equal(t, "You typed: héllo", b.String())
}

func TestSlowEchoCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var chunks []string
	for chunk := range SlowEcho(ctx, "hello", nil) {
		chunks = append(chunks, chunk)
	}
	assert.Equal(t, []string{"You typed: "}, chunks)
}

func TestEchoOverHTTP(t *testing.T) {
	orig := EchoDelay
	EchoDelay = time.Millisecond
	defer func() { EchoDelay = orig }()

	d, _ := Lookup("echo")
	h, err := d.Handler(webui.Options{})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"message": "hi", "history": []}`)))
	require.Equal(t, http.StatusOK, rec.Code)

	var out webui.ChatResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	assert.Equal(t, "You typed: hi", out.Message)
	assert.Equal(t, []bridge.Message{
		{Role: bridge.RoleUser, Content: "hi"},
		{Role: bridge.RoleAssistant, Content: "You typed: hi"},
	}, out.History)
}

func TestRandomResponse(t *testing.T) {
	for range 20 {
		assert.Contains(t, Responses, RandomResponse("anything", nil))
	}
}
