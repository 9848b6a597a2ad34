package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func TestNewGameIDIsUUID(t *testing.T) {
	a, b := NewGameID(), NewGameID()
	if _, err := uuid.Parse(a); err != nil {
		t.Errorf("expected a uuid, got %q: %v", a, err)
	}
	if a == b {
		t.Error("game ids should differ")
	}
}

func TestGameIDContextRoundTrip(t *testing.T) {
	ctx := context.Background()
	if GameIDFromContext(ctx) != "" {
		t.Error("expected empty id on a bare context")
	}
	ctx = WithGameID(ctx, "g-1")
	if got := GameIDFromContext(ctx); got != "g-1" {
		t.Errorf("expected g-1, got %q", got)
	}
}

func TestForGameAddsField(t *testing.T) {
	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf)
	defer func() { log.Logger = prev }()

	l := ForGame(WithGameID(context.Background(), "g-42"))
	l.Info().Msg("hello")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("bad log line %q: %v", buf.String(), err)
	}
	if entry["gameId"] != "g-42" {
		t.Errorf("expected gameId field, got %v", entry)
	}
}

func TestInitHonorsLogLevel(t *testing.T) {
	prev := log.Logger
	prevLevel := zerolog.GlobalLevel()
	defer func() {
		log.Logger = prev
		zerolog.SetGlobalLevel(prevLevel)
	}()

	t.Setenv("LOG_LEVEL", "warn")
	Init()
	if zerolog.GlobalLevel() != zerolog.WarnLevel {
		t.Errorf("expected warn level, got %v", zerolog.GlobalLevel())
	}

	t.Setenv("LOG_LEVEL", "bogus")
	Init()
	if zerolog.GlobalLevel() != zerolog.InfoLevel {
		t.Errorf("bad level should fall back to info, got %v", zerolog.GlobalLevel())
	}
}
