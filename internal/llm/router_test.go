package llm

import (
	"context"
	"errors"
	"testing"
	"time"
)

type scriptedProvider struct {
	name  string
	calls int
	chat  func(call int) (*Response, error)
}

func (p *scriptedProvider) Name() string     { return p.name }
func (p *scriptedProvider) Models() []string { return []string{"test-model"} }
func (p *scriptedProvider) Chat(ctx context.Context, messages []Message, opts *ChatOptions) (*Response, error) {
	p.calls++
	return p.chat(p.calls)
}

func okResponse(provider string) *Response {
	return &Response{Content: "ok", Provider: provider, Model: "test-model"}
}

func TestRouterUsesPrimary(t *testing.T) {
	primary := &scriptedProvider{name: "openai", chat: func(int) (*Response, error) {
		return okResponse("openai"), nil
	}}
	backup := &scriptedProvider{name: "gemini", chat: func(int) (*Response, error) {
		return okResponse("gemini"), nil
	}}

	r := NewRouter("openai", WithFallbacks("gemini"), WithRetryDelay(time.Millisecond))
	r.RegisterProvider(primary)
	r.RegisterProvider(backup)

	resp, err := r.Chat(context.Background(), []Message{UserMessage("hi")}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if resp.Provider != "openai" {
		t.Errorf("Provider = %q, want openai", resp.Provider)
	}
	if backup.calls != 0 {
		t.Error("fallback was consulted although the primary succeeded")
	}
}

func TestRouterFallsBackOnFailure(t *testing.T) {
	primary := &scriptedProvider{name: "openai", chat: func(int) (*Response, error) {
		return nil, ErrProviderDown
	}}
	backup := &scriptedProvider{name: "gemini", chat: func(int) (*Response, error) {
		return okResponse("gemini"), nil
	}}

	r := NewRouter("openai", WithFallbacks("gemini"), WithRetryDelay(time.Millisecond))
	r.RegisterProvider(primary)
	r.RegisterProvider(backup)

	resp, err := r.Chat(context.Background(), []Message{UserMessage("hi")}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if resp.Provider != "gemini" {
		t.Errorf("Provider = %q, want gemini fallback", resp.Provider)
	}
	// A provider-down error is not retried on the same provider.
	if primary.calls != 1 {
		t.Errorf("primary calls = %d, want 1", primary.calls)
	}
}

func TestRouterRetriesRateLimitOnly(t *testing.T) {
	p := &scriptedProvider{name: "openai", chat: func(call int) (*Response, error) {
		if call < 3 {
			return nil, ErrRateLimit
		}
		return okResponse("openai"), nil
	}}

	r := NewRouter("openai", WithMaxRetries(2), WithRetryDelay(time.Millisecond))
	r.RegisterProvider(p)

	resp, err := r.Chat(context.Background(), []Message{UserMessage("hi")}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if resp.Content != "ok" {
		t.Errorf("Content = %q, want ok", resp.Content)
	}
	if p.calls != 3 {
		t.Errorf("calls = %d, want 3 (two rate-limited, one success)", p.calls)
	}
}

func TestRouterNoProviders(t *testing.T) {
	r := NewRouter("openai")
	_, err := r.Chat(context.Background(), []Message{UserMessage("hi")}, nil)
	if !errors.Is(err, ErrNoProviders) {
		t.Errorf("err = %v, want ErrNoProviders", err)
	}
	if r.Registered() {
		t.Error("Registered() must be false on an empty router")
	}
}

func TestRouterAllProvidersFail(t *testing.T) {
	p := &scriptedProvider{name: "openai", chat: func(int) (*Response, error) {
		return nil, ErrProviderDown
	}}
	r := NewRouter("openai", WithRetryDelay(time.Millisecond))
	r.RegisterProvider(p)

	_, err := r.Chat(context.Background(), []Message{UserMessage("hi")}, nil)
	if !errors.Is(err, ErrProviderDown) {
		t.Errorf("err = %v, want the last provider error wrapped", err)
	}
}
