package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	s, err := Open(dsn)
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpen_PragmasAndTables(t *testing.T) {
	s := openTestStore(t)

	// journal_mode reports "memory" for in-memory databases.
	for pragma, want := range map[string]string{"foreign_keys": "1", "synchronous": "1"} {
		var got string
		if err := s.DB().QueryRow("PRAGMA " + pragma).Scan(&got); err != nil {
			t.Fatalf("PRAGMA %s: %v", pragma, err)
		}
		if got != want {
			t.Errorf("PRAGMA %s = %q, want %q", pragma, got, want)
		}
	}

	for _, tbl := range Tables {
		var name string
		err := s.DB().QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", tbl.Name).Scan(&name)
		if err != nil {
			t.Errorf("table %s missing: %v", tbl.Name, err)
		}
	}
}

func TestSequence_SharedAcrossTables(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	repo := s.EventRepo()

	first, err := s.seq.next(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if first != 1 {
		t.Fatalf("first sequence = %d, want 1", first)
	}

	if err := repo.AppendLLMRequest(ctx, LLMRequestEventData{Provider: "mock", Model: "m", Purpose: "p", Success: true}); err != nil {
		t.Fatal(err)
	}
	if err := repo.AppendAttempt(ctx, AttemptEventData{SessionID: "s1", KindID: "reading/fill-blanks", RecordID: 1}); err != nil {
		t.Fatal(err)
	}

	after, err := s.seq.next(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if after != 4 {
		t.Errorf("sequence after two appends = %d, want 4", after)
	}
}

func TestSequence_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seq.db")
	ctx := context.Background()

	s, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if _, err := s.seq.next(ctx); err != nil {
			t.Fatal(err)
		}
	}
	s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	got, err := s.seq.next(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if got != 4 {
		t.Errorf("sequence after reopen = %d, want 4", got)
	}
}

func TestDataPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dir)

	got, err := DataPath("langdrill.db")
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(dir, "langdrill", "langdrill.db"); got != want {
		t.Errorf("DataPath = %q, want %q", got, want)
	}
	if fi, err := os.Stat(filepath.Dir(got)); err != nil || !fi.IsDir() {
		t.Errorf("data dir not created: %v", err)
	}
}

func TestLLMEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	events := []LLMRequestEventData{
		{Provider: "openai", Model: "gpt-4o-mini", Purpose: "response-eval", InputTokens: 100, OutputTokens: 20, LatencyMs: 300, Success: true, RequestBody: "[user]\nhi", ResponseBody: `{"score":7}`},
		{Provider: "openai", Model: "gpt-4o-mini", Purpose: "response-eval", InputTokens: 50, OutputTokens: 10, LatencyMs: 100, Success: false, ErrorMessage: "boom"},
		{Provider: "gemini", Model: "gemini-flash", Purpose: "transcribe", InputTokens: 10, OutputTokens: 5, LatencyMs: 200, Success: true},
	}
	for _, e := range events {
		if err := repo.AppendLLMRequest(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	got, err := repo.QueryLLMEvents(ctx, QueryOpts{Limit: 10})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	if got[0].Purpose != "transcribe" {
		t.Errorf("newest purpose = %q, want transcribe", got[0].Purpose)
	}
	if got[0].Sequence <= got[1].Sequence {
		t.Errorf("events not ordered by sequence desc: %d, %d", got[0].Sequence, got[1].Sequence)
	}

	filtered, err := repo.QueryLLMEvents(ctx, QueryOpts{Purpose: "response-eval"})
	if err != nil {
		t.Fatalf("query purpose: %v", err)
	}
	if len(filtered) != 2 {
		t.Errorf("filtered len = %d, want 2", len(filtered))
	}

	one, err := repo.GetLLMEvent(ctx, got[2].ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if one == nil || one.ResponseBody != `{"score":7}` || !one.Success {
		t.Errorf("get = %+v", one)
	}
	if time.Since(one.Timestamp) > time.Minute {
		t.Errorf("timestamp %v not recent", one.Timestamp)
	}

	missing, err := repo.GetLLMEvent(ctx, 999)
	if err != nil || missing != nil {
		t.Errorf("get missing = %v, %v; want nil, nil", missing, err)
	}

	byPurpose, err := repo.LLMUsageByPurpose(ctx)
	if err != nil {
		t.Fatalf("usage by purpose: %v", err)
	}
	if len(byPurpose) != 2 {
		t.Fatalf("usage rows = %d, want 2", len(byPurpose))
	}
	if byPurpose[0].Purpose != "response-eval" || byPurpose[0].Calls != 2 || byPurpose[0].InputTokens != 150 || byPurpose[0].AvgLatencyMs != 200 {
		t.Errorf("usage[0] = %+v", byPurpose[0])
	}

	byModel, err := repo.LLMUsageByModel(ctx)
	if err != nil {
		t.Fatalf("usage by model: %v", err)
	}
	if len(byModel) != 2 || byModel[0].Model != "gpt-4o-mini" {
		t.Errorf("usage by model = %+v", byModel)
	}
}

func TestAttempts(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	data := []AttemptEventData{
		{SessionID: "s1", KindID: "reading/fill-blanks", RecordID: 1, Scored: true, Percent: 50, Correct: 1, Total: 2, Source: "local"},
		{SessionID: "s1", KindID: "reading/fill-blanks", RecordID: 2, Scored: true, Percent: 100, Correct: 2, Total: 2, Source: "local"},
		{SessionID: "s2", KindID: "writing/essay", RecordID: 1, Notice: "Evaluation failed: timeout"},
	}
	for _, d := range data {
		if err := repo.AppendAttempt(ctx, d); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	all, err := repo.QueryAttempts(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(all) != 3 || all[0].KindID != "writing/essay" {
		t.Fatalf("attempts = %+v", all)
	}

	reading, err := repo.QueryAttempts(ctx, QueryOpts{KindID: "reading/fill-blanks", Limit: 1})
	if err != nil {
		t.Fatalf("query kind: %v", err)
	}
	if len(reading) != 1 || reading[0].RecordID != 2 || !reading[0].Scored {
		t.Errorf("reading = %+v", reading)
	}

	stats, err := repo.AttemptStatsByKind(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("stats rows = %d, want 2", len(stats))
	}
	if stats[0].KindID != "reading/fill-blanks" || stats[0].Attempts != 2 || stats[0].Scored != 2 || stats[0].AvgPercent != 75 {
		t.Errorf("stats[0] = %+v", stats[0])
	}
	if stats[1].Scored != 0 || stats[1].AvgPercent != 0 {
		t.Errorf("stats[1] = %+v", stats[1])
	}
}

func TestProgressRepo(t *testing.T) {
	s := openTestStore(t)
	repo := s.ProgressRepo()
	ctx := context.Background()

	got, err := repo.Get(ctx, "reading/fill-blanks")
	if err != nil || got != nil {
		t.Fatalf("get empty = %q, %v", got, err)
	}

	if err := repo.Put(ctx, "reading/fill-blanks", []byte(`{"completed":1}`)); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := repo.Put(ctx, "reading/fill-blanks", []byte(`{"completed":2}`)); err != nil {
		t.Fatalf("put again: %v", err)
	}
	if err := repo.Put(ctx, "writing/essay", []byte(`{"completed":5}`)); err != nil {
		t.Fatalf("put essay: %v", err)
	}

	got, err = repo.Get(ctx, "reading/fill-blanks")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got) != `{"completed":2}` {
		t.Errorf("get = %s, want last write", got)
	}

	all, err := repo.All(ctx)
	if err != nil {
		t.Fatalf("all: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("all = %d entries, want 2", len(all))
	}

	if err := repo.Delete(ctx, "writing/essay"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	all, _ = repo.All(ctx)
	if _, ok := all["writing/essay"]; ok {
		t.Error("essay progress still present after delete")
	}
}
