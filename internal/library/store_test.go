package library_test

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"podforge/internal/library"
	"podforge/internal/pipeline"
	"podforge/internal/testsupport"
)

func TestSaveAndGetEpisode(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	ep, err := store.Save(ctx, library.SaveRequest{
		Title:      "Morning Update",
		Mode:       "news-brief",
		Audio:      []byte("RIFF-fake-audio"),
		Transcript: "=== Morning Update ===\n\nHost A: hello\n",
		SourceURLs: []string{"https://example.com/a", "https://example.com/b"},
		Stats:      pipeline.Stats{TotalURLs: 2, Fetched: 2, Analyzed: 2, ScriptLines: 4, AudioChunks: 4},
	})
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if ep.ID == "" {
		t.Fatal("expected episode ID to be assigned")
	}
	if ep.Title != "Morning Update" {
		t.Fatalf("unexpected title: %q", ep.Title)
	}
	if ep.AudioPath == "" || ep.TranscriptPath == "" {
		t.Fatalf("expected artifact paths, got %#v", ep)
	}
	if !strings.Contains(ep.AudioPath, "podcast_") || !strings.HasSuffix(ep.AudioPath, ".wav") {
		t.Fatalf("unexpected audio file name: %q", ep.AudioPath)
	}

	audio, err := os.ReadFile(ep.AudioPath)
	if err != nil {
		t.Fatalf("read audio file: %v", err)
	}
	if string(audio) != "RIFF-fake-audio" {
		t.Fatalf("audio file content mismatch: %q", audio)
	}

	fetched, err := store.Get(ctx, ep.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if fetched.Stats.ScriptLines != 4 {
		t.Fatalf("unexpected stats: %+v", fetched.Stats)
	}
	if len(fetched.SourceURLs) != 2 || fetched.SourceURLs[0] != "https://example.com/a" {
		t.Fatalf("unexpected source urls: %v", fetched.SourceURLs)
	}
	if fetched.CreatedAt.IsZero() {
		t.Fatal("expected created_at to be set")
	}
}

func TestSaveTextOnlyEpisode(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ep, err := store.Save(context.Background(), library.SaveRequest{
		Title:      "No Audio",
		Transcript: "Host A: text only\n",
		SourceURLs: []string{"https://example.com/a"},
	})
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if ep.AudioPath != "" {
		t.Fatalf("expected empty audio path, got %q", ep.AudioPath)
	}
	if ep.TranscriptPath == "" {
		t.Fatal("expected transcript path")
	}
}

func TestSaveRejectsEmptyTranscript(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	if _, err := store.Save(context.Background(), library.SaveRequest{Title: "Broken"}); err == nil {
		t.Fatal("expected error for empty transcript")
	}
}

func TestSaveGeneratesTitleWhenMissing(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ep, err := store.Save(context.Background(), library.SaveRequest{
		Transcript: "Host A: hello\n",
		SourceURLs: []string{"https://example.com/a", "https://example.com/b", "https://example.com/c"},
	})
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if !strings.Contains(ep.Title, "3") {
		t.Fatalf("expected generated title mentioning source count, got %q", ep.Title)
	}
}

func TestListOrdersNewestFirst(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	for _, title := range []string{"first", "second", "third"} {
		if _, err := store.Save(ctx, library.SaveRequest{
			Title:      title,
			Transcript: "Host A: " + title + "\n",
		}); err != nil {
			t.Fatalf("Save %q failed: %v", title, err)
		}
	}

	episodes, err := store.List(ctx, 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(episodes) != 3 {
		t.Fatalf("expected 3 episodes, got %d", len(episodes))
	}
	if episodes[0].Title != "third" || episodes[2].Title != "first" {
		t.Fatalf("unexpected order: %q, %q, %q", episodes[0].Title, episodes[1].Title, episodes[2].Title)
	}

	limited, err := store.List(ctx, 2)
	if err != nil {
		t.Fatalf("List with limit failed: %v", err)
	}
	if len(limited) != 2 {
		t.Fatalf("expected 2 episodes, got %d", len(limited))
	}
}

func TestDeleteRemovesRowAndFiles(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	ep, err := store.Save(ctx, library.SaveRequest{
		Title:      "Doomed",
		Audio:      []byte("bytes"),
		Transcript: "Host A: goodbye\n",
	})
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if err := store.Delete(ctx, ep.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.Get(ctx, ep.ID); !errors.Is(err, library.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	for _, path := range []string{ep.AudioPath, ep.TranscriptPath} {
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Fatalf("expected %s to be removed", path)
		}
	}
}

func TestGetUnknownIDReturnsNotFound(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	if _, err := store.Get(context.Background(), "nope"); !errors.Is(err, library.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
