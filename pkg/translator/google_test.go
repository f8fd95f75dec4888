package translator

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

// testPolicy keeps retry sleeps in the low milliseconds and removes jitter
// so attempt counts and timing are deterministic.
func testPolicy(attempts int) RetryPolicy {
	return RetryPolicy{
		MaxAttempts: attempts,
		BaseDelay:   time.Millisecond,
		MaxDelay:    5 * time.Millisecond,
		Jitter:      0,
	}
}

func testClient(t *testing.T, handler http.HandlerFunc, attempts int) *GoogleClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	g := NewGoogleClient(Config{Retry: testPolicy(attempts)})
	g.endpoint = srv.URL
	return g
}

func translationResponse(text string) string {
	return fmt.Sprintf(`{"sentences":[{"trans":%q}]}`, text)
}

func TestTranslateChunk(t *testing.T) {
	g := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != "你好" {
			t.Errorf("unexpected query text %q", got)
		}
		if r.URL.Query().Get("client") != "gtx" {
			t.Error("missing client=gtx")
		}
		fmt.Fprint(w, translationResponse("hello"))
	}, 1)

	got, err := g.TranslateChunk(context.Background(), "你好")
	if err != nil {
		t.Fatal(err)
	}
	if got != "hello" {
		t.Fatalf("got %q", got)
	}
}

func TestTranslateChunkBlankPassthrough(t *testing.T) {
	g := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("blank text must not hit the endpoint")
	}, 1)

	got, err := g.TranslateChunk(context.Background(), "   \n ")
	if err != nil {
		t.Fatal(err)
	}
	if got != "   \n " {
		t.Fatalf("blank text changed: %q", got)
	}
}

func TestTranslateChunkRetriesTransientFailures(t *testing.T) {
	// Fails every attempt but the last allowed one; must still succeed.
	var calls atomic.Int32
	g := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		fmt.Fprint(w, translationResponse("ok"))
	}, 3)

	got, err := g.TranslateChunk(context.Background(), "text")
	if err != nil {
		t.Fatal(err)
	}
	if got != "ok" {
		t.Fatalf("got %q", got)
	}
	if n := calls.Load(); n != 3 {
		t.Fatalf("expected 3 attempts, got %d", n)
	}
}

func TestTranslateChunkExhaustsAttempts(t *testing.T) {
	var calls atomic.Int32
	g := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}, 3)

	_, err := g.TranslateChunk(context.Background(), "text")
	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if n := calls.Load(); n != 3 {
		t.Fatalf("expected exactly 3 attempts, got %d", n)
	}
}

func TestTranslateChunkPermanentStatusFailsFast(t *testing.T) {
	var calls atomic.Int32
	g := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
	}, 5)

	_, err := g.TranslateChunk(context.Background(), "text")
	if err == nil {
		t.Fatal("expected error")
	}
	if n := calls.Load(); n != 1 {
		t.Fatalf("permanent failure retried: %d attempts", n)
	}
}

func TestTranslateChunkCancellation(t *testing.T) {
	g := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}, 5)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := g.TranslateChunk(ctx, "text")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestTranslateChunkUsesPostForLongText(t *testing.T) {
	long := strings.Repeat("字", getLimit+1)
	g := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST for long text, got %s", r.Method)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatal(err)
		}
		if r.PostForm.Get("q") != long {
			t.Error("form body lost the text")
		}
		fmt.Fprint(w, translationResponse("long"))
	}, 1)

	got, err := g.TranslateChunk(context.Background(), long)
	if err != nil {
		t.Fatal(err)
	}
	if got != "long" {
		t.Fatalf("got %q", got)
	}
}

func TestTranslateWrapsChunkFailure(t *testing.T) {
	g := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}, 1)
	g.cfg.MaxChunkChars = 10

	_, err := g.Translate(context.Background(), strings.Repeat("測試句子。", 10))
	var te *TranslationError
	if !errors.As(err, &te) {
		t.Fatalf("expected TranslationError, got %v", err)
	}
}

func TestTranslateJoinsChunksInOrder(t *testing.T) {
	var calls atomic.Int32
	g := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		n := calls.Add(1)
		fmt.Fprint(w, translationResponse(fmt.Sprintf("[%d]", n)))
	}, 1)
	g.cfg.MaxChunkChars = 6

	got, err := g.Translate(context.Background(), "第一句話完。第二句話完。第三句話完。")
	if err != nil {
		t.Fatal(err)
	}
	if got != "[1][2][3]" {
		t.Fatalf("got %q", got)
	}
}

func TestIdentityTranslator(t *testing.T) {
	id := Identity{}
	if chunks := id.Split("abc"); len(chunks) != 1 || chunks[0] != "abc" {
		t.Fatalf("got %q", chunks)
	}
	if chunks := id.Split(""); chunks != nil {
		t.Fatalf("expected nil for empty text, got %q", chunks)
	}
	got, err := id.TranslateChunk(context.Background(), "未翻譯")
	if err != nil || got != "未翻譯" {
		t.Fatalf("got %q, %v", got, err)
	}
}
