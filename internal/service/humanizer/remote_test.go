package humanizer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"humanizer-service/internal/domain/text"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemoteHumanizeSuccess(t *testing.T) {
	var got remoteRequest
	var gotAuth string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(remoteResponse{
			Humanized: "a friendlier version",
			Original:  got.Text,
			Status:    "done",
		})
	}))
	defer srv.Close()

	s := NewRemoteStrategy(srv.URL, "secret-key", time.Second)
	out, err := s.Humanize(context.Background(), "stiff prose", text.LevelSubstantial)
	require.NoError(t, err)

	assert.Equal(t, "a friendlier version", out)
	assert.Equal(t, "stiff prose", got.Text)
	assert.Equal(t, "most", got.Mode)
	assert.Equal(t, "Bearer secret-key", gotAuth)
}

func TestRemoteModeMapping(t *testing.T) {
	assert.Equal(t, "least", modeForLevel(text.LevelSlight))
	assert.Equal(t, "medium", modeForLevel(text.LevelModerate))
	assert.Equal(t, "most", modeForLevel(text.LevelSubstantial))
	assert.Equal(t, "medium", modeForLevel(text.Level("bogus")))
}

func TestRemoteHumanizeServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	s := NewRemoteStrategy(srv.URL, "k", time.Second)
	_, err := s.Humanize(context.Background(), "text", text.LevelModerate)
	assert.Error(t, err)
}

func TestRemoteHumanizeEmptyResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(remoteResponse{Status: "done"})
	}))
	defer srv.Close()

	s := NewRemoteStrategy(srv.URL, "k", time.Second)
	_, err := s.Humanize(context.Background(), "text", text.LevelModerate)
	assert.Error(t, err)
}

func TestRemoteHumanizeTimeout(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer srv.Close()
	defer close(block)

	s := NewRemoteStrategy(srv.URL, "k", 50*time.Millisecond)

	start := time.Now()
	_, err := s.Humanize(context.Background(), "text", text.LevelModerate)
	assert.Error(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestRemoteHumanizeContextCancel(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer srv.Close()
	defer close(block)

	s := NewRemoteStrategy(srv.URL, "k", 10*time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := s.Humanize(ctx, "text", text.LevelModerate)
	assert.Error(t, err)
}
