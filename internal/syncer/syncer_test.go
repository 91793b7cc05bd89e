package syncer

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/time/rate"

	"github.com/starford/girogi/internal/apperr"
	"github.com/starford/girogi/internal/gemini"
	"github.com/starford/girogi/internal/storage"
	"github.com/starford/girogi/internal/tracker"
)

// fakeRemote records calls and returns scripted results.
type fakeRemote struct {
	stores    []gemini.Store
	listErr   error
	createErr error
	created   []string
	uploads   []string
	failOn    map[string]error
}

func (f *fakeRemote) ListStores(ctx context.Context) ([]gemini.Store, error) {
	return f.stores, f.listErr
}

func (f *fakeRemote) CreateStore(ctx context.Context, displayName string) (gemini.Store, error) {
	if f.createErr != nil {
		return gemini.Store{}, f.createErr
	}
	f.created = append(f.created, displayName)
	return gemini.Store{Name: "fileSearchStores/created", DisplayName: displayName}, nil
}

func (f *fakeRemote) UploadFile(ctx context.Context, storeID, filename string, content []byte) error {
	if err, ok := f.failOn[filename]; ok {
		return err
	}
	f.uploads = append(f.uploads, filename)
	return nil
}

func testSyncer(t *testing.T, client *fakeRemote, files map[string]string) (*Syncer, storage.Provider, string) {
	t.Helper()
	corpusDir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(corpusDir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	corpus, err := storage.NewFS(corpusDir)
	if err != nil {
		t.Fatal(err)
	}
	stateDir := t.TempDir()
	state, err := storage.NewFS(stateDir)
	if err != nil {
		t.Fatal(err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := New(client, corpus, state, "girogi-ai-archive", corpusDir, logger)
	s.limiter = rate.NewLimiter(rate.Inf, 1) // no pacing in tests
	return s, state, stateDir
}

func TestEnsureStore_ReusesExisting(t *testing.T) {
	client := &fakeRemote{stores: []gemini.Store{
		{Name: "fileSearchStores/other", DisplayName: "something-else"},
		{Name: "fileSearchStores/mine", DisplayName: "girogi-ai-archive"},
	}}
	s, state, _ := testSyncer(t, client, nil)

	id, err := s.EnsureStore(context.Background())
	if err != nil {
		t.Fatalf("EnsureStore: %v", err)
	}
	if id != "fileSearchStores/mine" {
		t.Errorf("id = %q", id)
	}
	if len(client.created) != 0 {
		t.Errorf("created stores on reuse: %v", client.created)
	}
	// Reuse must not rewrite the store config.
	if _, err := state.Read(ConfigFileName); err == nil {
		t.Error("store config written on reuse")
	}
}

func TestEnsureStore_CreatesAndPersistsConfig(t *testing.T) {
	client := &fakeRemote{}
	s, state, _ := testSyncer(t, client, nil)

	id, err := s.EnsureStore(context.Background())
	if err != nil {
		t.Fatalf("EnsureStore: %v", err)
	}
	if id != "fileSearchStores/created" {
		t.Errorf("id = %q", id)
	}
	if len(client.created) != 1 || client.created[0] != "girogi-ai-archive" {
		t.Errorf("created = %v", client.created)
	}

	cfg, err := LoadStoreConfig(state)
	if err != nil {
		t.Fatalf("LoadStoreConfig: %v", err)
	}
	if cfg.CorpusName != "fileSearchStores/created" {
		t.Errorf("CorpusName = %q", cfg.CorpusName)
	}
	if cfg.StoreName != "girogi-ai-archive" {
		t.Errorf("StoreName = %q", cfg.StoreName)
	}
	if cfg.CreatedAt == "" {
		t.Error("CreatedAt empty")
	}
}

func TestEnsureStore_ListFailureIsFatal(t *testing.T) {
	client := &fakeRemote{listErr: errors.New("network down")}
	s, _, _ := testSyncer(t, client, nil)

	_, err := s.EnsureStore(context.Background())
	if apperr.KindOf(err) != apperr.KindFatal {
		t.Errorf("kind = %v, want fatal", apperr.KindOf(err))
	}
}

func TestSync_UploadsOnlyUntracked(t *testing.T) {
	client := &fakeRemote{}
	s, state, _ := testSyncer(t, client, map[string]string{
		"a.md": "alpha",
		"b.md": "bravo",
		"c.md": "charlie",
	})
	if err := tracker.New(state).Save(map[string]struct{}{"b.md": {}}); err != nil {
		t.Fatal(err)
	}

	res, err := s.Sync(context.Background(), "fileSearchStores/x")
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if res.Uploaded != 2 || res.Failed != 0 || res.Skipped != 0 {
		t.Errorf("result = %+v", res)
	}
	for _, name := range client.uploads {
		if name == "b.md" {
			t.Error("already-tracked file was re-uploaded")
		}
	}
}

func TestSync_SecondRunUploadsNothing(t *testing.T) {
	client := &fakeRemote{}
	s, _, _ := testSyncer(t, client, map[string]string{"a.md": "alpha"})

	if _, err := s.Sync(context.Background(), "fileSearchStores/x"); err != nil {
		t.Fatal(err)
	}
	res, err := s.Sync(context.Background(), "fileSearchStores/x")
	if err != nil {
		t.Fatal(err)
	}
	if res.Uploaded != 0 {
		t.Errorf("second run uploaded %d files", res.Uploaded)
	}
	if len(client.uploads) != 1 {
		t.Errorf("total uploads = %d, want 1", len(client.uploads))
	}
}

func TestSync_SkipsOversizedWithoutTracking(t *testing.T) {
	client := &fakeRemote{}
	s, state, _ := testSyncer(t, client, map[string]string{
		"small.md": "fine",
		"huge.md":  strings.Repeat("x", maxFileSize+1),
	})

	res, err := s.Sync(context.Background(), "fileSearchStores/x")
	if err != nil {
		t.Fatal(err)
	}
	if res.Uploaded != 1 || res.Skipped != 1 {
		t.Errorf("result = %+v", res)
	}
	set := tracker.New(state).Load()
	if _, ok := set["huge.md"]; ok {
		t.Error("oversized file must not enter the tracker")
	}
	if _, ok := set["small.md"]; !ok {
		t.Error("uploaded file missing from tracker")
	}
}

func TestSync_FailureDoesNotAbortBatch(t *testing.T) {
	client := &fakeRemote{failOn: map[string]error{"bad.md": errors.New("rejected")}}
	s, state, _ := testSyncer(t, client, map[string]string{
		"aaa.md": "one",
		"bad.md": "two",
		"zzz.md": "three",
	})

	res, err := s.Sync(context.Background(), "fileSearchStores/x")
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if res.Uploaded != 2 || res.Failed != 1 {
		t.Errorf("result = %+v", res)
	}
	set := tracker.New(state).Load()
	if _, ok := set["bad.md"]; ok {
		t.Error("failed file must not enter the tracker")
	}
	if len(set) != 2 {
		t.Errorf("tracker size = %d, want 2", len(set))
	}
}

func TestSync_NoUploadsLeavesTrackerUntouched(t *testing.T) {
	client := &fakeRemote{}
	s, _, stateDir := testSyncer(t, client, nil)

	if _, err := s.Sync(context.Background(), "fileSearchStores/x"); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(stateDir, tracker.FileName)); !os.IsNotExist(err) {
		t.Error("tracker file written despite zero uploads")
	}
}

func TestSync_OnUploadCallback(t *testing.T) {
	client := &fakeRemote{failOn: map[string]error{"bad.md": errors.New("rejected")}}
	s, _, _ := testSyncer(t, client, map[string]string{
		"bad.md":  "x",
		"good.md": "y",
	})

	outcomes := map[string]bool{}
	s.OnUpload = func(name string, err error) { outcomes[name] = err == nil }

	if _, err := s.Sync(context.Background(), "fileSearchStores/x"); err != nil {
		t.Fatal(err)
	}
	if ok, seen := outcomes["good.md"]; !seen || !ok {
		t.Errorf("good.md outcome = %v, seen = %v", ok, seen)
	}
	if ok, seen := outcomes["bad.md"]; !seen || ok {
		t.Errorf("bad.md outcome = %v, seen = %v", ok, seen)
	}
}

func TestLoadStoreConfig_Missing(t *testing.T) {
	state, err := storage.NewFS(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	_, err = LoadStoreConfig(state)
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	if apperr.KindOf(err) != apperr.KindConfiguration {
		t.Errorf("kind = %v, want configuration", apperr.KindOf(err))
	}
}

func TestLoadStoreConfig_Corrupt(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ConfigFileName), []byte("{broken"), 0o644); err != nil {
		t.Fatal(err)
	}
	state, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	_, err = LoadStoreConfig(state)
	if apperr.KindOf(err) != apperr.KindConfiguration {
		t.Errorf("kind = %v, want configuration", apperr.KindOf(err))
	}
}
