package llm

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{"unauthorized", 401, ErrAuth},
		{"forbidden", 403, ErrAuth},
		{"throttled", 429, ErrRateLimited},
		{"missing model", 404, ErrUnsupportedModel},
		{"request timeout", 408, ErrTransient},
		{"server error", 500, ErrTransient},
		{"bad gateway", 502, ErrTransient},
		{"ok", 200, nil},
		{"plain bad request", 400, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyStatus(tt.status)
			if !errors.Is(got, tt.want) || (tt.want == nil && got != nil) {
				t.Errorf("ClassifyStatus(%d) = %v, want %v", tt.status, got, tt.want)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{
			name: "deadline exceeded",
			err:  context.DeadlineExceeded,
			want: ErrTransient,
		},
		{
			name: "status code in message",
			err:  errors.New("API returned unexpected status code: 429 you are being rate limited"),
			want: ErrRateLimited,
		},
		{
			name: "ollama status format",
			err:  errors.New("ollama error: status 500, body: internal"),
			want: ErrTransient,
		},
		{
			name: "api key text",
			err:  errors.New("incorrect API key provided"),
			want: ErrAuth,
		},
		{
			name: "model not found text",
			err:  errors.New("the model `gpt-9` does not exist"),
			want: ErrUnsupportedModel,
		},
		{
			name: "connection refused",
			err:  errors.New("dial tcp 127.0.0.1:11434: connect: connection refused"),
			want: ErrTransient,
		},
		{
			name: "already classified stays put",
			err:  fmt.Errorf("%w: openai: upstream", ErrRateLimited),
			want: ErrRateLimited,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify("test", tt.err)
			if !errors.Is(got, tt.want) {
				t.Errorf("Classify() = %v, want sentinel %v", got, tt.want)
			}
		})
	}
}

func TestClassifyUnknownKeepsCause(t *testing.T) {
	cause := errors.New("something odd")
	got := Classify("test", cause)
	if !errors.Is(got, cause) {
		t.Errorf("Classify() lost the original error: %v", got)
	}
	for _, sentinel := range []error{ErrAuth, ErrRateLimited, ErrUnsupportedModel, ErrTransient} {
		if errors.Is(got, sentinel) {
			t.Errorf("Classify() tagged unknown error with %v", sentinel)
		}
	}
}

func TestClassifyNil(t *testing.T) {
	if got := Classify("test", nil); got != nil {
		t.Errorf("Classify(nil) = %v, want nil", got)
	}
}
