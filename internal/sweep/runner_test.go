package sweep_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"stashsweep/internal/logging"
	"stashsweep/internal/report"
	"stashsweep/internal/stash"
	"stashsweep/internal/sweep"
	"stashsweep/internal/testsupport"
)

func sceneURL(id string) string {
	return fmt.Sprintf("http://stash.local:9999/scene/%s/screenshot?t=123", id)
}

type fakeLibrary struct {
	count       int
	scenes      []stash.Scene
	screenshots map[string][]byte
	fetchErrs   map[string]error
	findErr     error
	uploadErr   error

	fetchCalls int
	uploads    map[string][]byte
}

func newFakeLibrary() *fakeLibrary {
	return &fakeLibrary{
		screenshots: map[string][]byte{},
		fetchErrs:   map[string]error{},
		uploads:     map[string][]byte{},
	}
}

func (f *fakeLibrary) addScene(id, title string, screenshot []byte) {
	scene := stash.Scene{ID: id, Title: title}
	if screenshot != nil {
		scene.Paths.Screenshot = sceneURL(id)
		f.screenshots[sceneURL(id)] = screenshot
	}
	f.scenes = append(f.scenes, scene)
	f.count++
}

func (f *fakeLibrary) addSceneAt(id, title, url string, screenshot []byte) {
	scene := stash.Scene{ID: id, Title: title}
	scene.Paths.Screenshot = url
	f.screenshots[url] = screenshot
	f.scenes = append(f.scenes, scene)
	f.count++
}

func (f *fakeLibrary) FindScenes(ctx context.Context) (*stash.SceneList, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return &stash.SceneList{Count: f.count, Scenes: f.scenes}, nil
}

func (f *fakeLibrary) FetchScreenshot(ctx context.Context, url string) ([]byte, error) {
	f.fetchCalls++
	if err, ok := f.fetchErrs[url]; ok {
		return nil, err
	}
	data, ok := f.screenshots[url]
	if !ok {
		return nil, fmt.Errorf("%w: host returned 404", stash.ErrFetch)
	}
	return data, nil
}

func (f *fakeLibrary) ReplaceScreenshot(ctx context.Context, sceneID string, imageData []byte, filename string) error {
	if f.uploadErr != nil {
		return f.uploadErr
	}
	f.uploads[sceneID] = imageData
	// The host serves the new cover at the same URL from now on.
	f.screenshots[sceneURL(sceneID)] = imageData
	return nil
}

func newRunner(lib *fakeLibrary, opts sweep.Options) *sweep.Runner {
	return sweep.New(lib, logging.NewNop(), opts)
}

func TestRunConvertsOnlyWebPScreenshots(t *testing.T) {
	restore := sweep.SetTranscodeForTests(func(src []byte, quality int) ([]byte, error) {
		return []byte("jpeg-payload"), nil
	})
	t.Cleanup(restore)

	lib := newFakeLibrary()
	lib.addScene("1", "WebP One", testsupport.WebPBytes())
	lib.addScene("2", "Already JPEG", testsupport.JPEGBytes(t))
	lib.addScene("3", "No Screenshot", nil)
	lib.addScene("4", "WebP Two", testsupport.WebPBytes())
	lib.count = 351 // the host reports more scenes than this page carries

	stats, err := newRunner(lib, sweep.Options{}).Run(context.Background())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if stats.TotalScenes != 351 {
		t.Fatalf("total_scenes = %d, want host count 351", stats.TotalScenes)
	}
	if stats.WebPScreenshotsFound != 2 {
		t.Fatalf("webp_screenshots_found = %d, want 2", stats.WebPScreenshotsFound)
	}
	if stats.SuccessfullyReplaced != 2 {
		t.Fatalf("successfully_replaced = %d, want 2", stats.SuccessfullyReplaced)
	}
	if len(stats.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", stats.Errors)
	}
	if len(stats.Replacements) != 2 {
		t.Fatalf("replacements length = %d, want 2", len(stats.Replacements))
	}
	for _, repl := range stats.Replacements {
		if repl.Action != report.ActionConverted {
			t.Fatalf("unexpected action %q", repl.Action)
		}
		if repl.OriginalURL != sceneURL(repl.SceneID) {
			t.Fatalf("unexpected original_url %q", repl.OriginalURL)
		}
	}
	if string(lib.uploads["1"]) != "jpeg-payload" || string(lib.uploads["4"]) != "jpeg-payload" {
		t.Fatalf("uploads missing: %v", lib.uploads)
	}
	if _, ok := lib.uploads["2"]; ok {
		t.Fatal("jpeg screenshot must not be re-uploaded")
	}
}

func TestRunSniffsContentNotExtension(t *testing.T) {
	restore := sweep.SetTranscodeForTests(func(src []byte, quality int) ([]byte, error) {
		return []byte("jpeg-payload"), nil
	})
	t.Cleanup(restore)

	// One scene serves WebP bytes from a jpg-named URL, the other JPEG bytes
	// from a webp-named URL. Only the bytes decide.
	lib := newFakeLibrary()
	lib.addSceneAt("9", "Masquerading WebP", "http://stash.local:9999/scene/9/cover.jpg", testsupport.WebPBytes())
	lib.addSceneAt("10", "Masquerading JPEG", "http://stash.local:9999/scene/10/cover.webp", testsupport.JPEGBytes(t))

	stats, err := newRunner(lib, sweep.Options{}).Run(context.Background())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if stats.WebPScreenshotsFound != 1 || stats.SuccessfullyReplaced != 1 {
		t.Fatalf("webp under jpg-named URL not converted: %+v", stats)
	}
	if _, ok := lib.uploads["10"]; ok {
		t.Fatal("jpeg bytes under webp-named URL must not be re-uploaded")
	}
	if len(stats.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", stats.Errors)
	}
}

func TestRunSecondPassIsIdempotent(t *testing.T) {
	realJPEG := testsupport.JPEGBytes(t)
	restore := sweep.SetTranscodeForTests(func(src []byte, quality int) ([]byte, error) {
		return realJPEG, nil
	})
	t.Cleanup(restore)

	lib := newFakeLibrary()
	lib.addScene("1", "One", testsupport.WebPBytes())

	runner := newRunner(lib, sweep.Options{})

	first, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("first Run returned error: %v", err)
	}
	if first.SuccessfullyReplaced != 1 {
		t.Fatalf("first pass replaced = %d, want 1", first.SuccessfullyReplaced)
	}

	second, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("second Run returned error: %v", err)
	}
	if second.WebPScreenshotsFound != 0 {
		t.Fatalf("second pass found %d webp screenshots, want 0", second.WebPScreenshotsFound)
	}
	if second.SuccessfullyReplaced != 0 {
		t.Fatalf("second pass replaced = %d, want 0", second.SuccessfullyReplaced)
	}
	if len(second.Errors) != 0 {
		t.Fatalf("second pass errors: %v", second.Errors)
	}
}

func TestRunRecordsFetchFailureAndContinues(t *testing.T) {
	restore := sweep.SetTranscodeForTests(func(src []byte, quality int) ([]byte, error) {
		return []byte("jpeg-payload"), nil
	})
	t.Cleanup(restore)

	lib := newFakeLibrary()
	lib.addScene("7", "Gone", testsupport.WebPBytes())
	lib.addScene("8", "Fine", testsupport.WebPBytes())
	lib.fetchErrs[sceneURL("7")] = fmt.Errorf("%w: host returned 404", stash.ErrFetch)

	stats, err := newRunner(lib, sweep.Options{}).Run(context.Background())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if len(stats.Errors) != 1 {
		t.Fatalf("errors length = %d, want 1 (%v)", len(stats.Errors), stats.Errors)
	}
	if !strings.Contains(stats.Errors[0], "scene 7") {
		t.Fatalf("error must identify the scene: %q", stats.Errors[0])
	}
	if stats.SuccessfullyReplaced != 1 {
		t.Fatalf("healthy scene not converted: replaced = %d", stats.SuccessfullyReplaced)
	}
}

func TestRunRecordsUndecodableWebPWithoutHook(t *testing.T) {
	// No transcode hook: the corrupt WebP payload reaches the real decoder.
	lib := newFakeLibrary()
	lib.addScene("3", "Corrupt", testsupport.WebPBytes())

	stats, err := newRunner(lib, sweep.Options{}).Run(context.Background())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if stats.WebPScreenshotsFound != 1 {
		t.Fatalf("webp_screenshots_found = %d, want 1", stats.WebPScreenshotsFound)
	}
	if stats.SuccessfullyReplaced != 0 {
		t.Fatalf("corrupt webp must not count as replaced, got %d", stats.SuccessfullyReplaced)
	}
	if len(stats.Errors) != 1 || !strings.Contains(stats.Errors[0], "scene 3") {
		t.Fatalf("expected one error naming scene 3, got %v", stats.Errors)
	}
	if len(lib.uploads) != 0 {
		t.Fatalf("nothing should be uploaded, got %v", lib.uploads)
	}
}

func TestRunRecordsUploadFailure(t *testing.T) {
	restore := sweep.SetTranscodeForTests(func(src []byte, quality int) ([]byte, error) {
		return []byte("jpeg-payload"), nil
	})
	t.Cleanup(restore)

	lib := newFakeLibrary()
	lib.addScene("5", "Stubborn", testsupport.WebPBytes())
	lib.uploadErr = fmt.Errorf("%w: endpoint returned 500", stash.ErrUpload)

	stats, err := newRunner(lib, sweep.Options{}).Run(context.Background())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if stats.WebPScreenshotsFound != 1 {
		t.Fatalf("webp_screenshots_found = %d, want 1", stats.WebPScreenshotsFound)
	}
	if stats.SuccessfullyReplaced != 0 {
		t.Fatalf("failed upload must not count as replaced, got %d", stats.SuccessfullyReplaced)
	}
	if len(stats.Errors) != 1 || !strings.Contains(stats.Errors[0], "scene 5") {
		t.Fatalf("expected one error naming scene 5, got %v", stats.Errors)
	}
}

func TestRunEnumerationFailureIsFatal(t *testing.T) {
	lib := newFakeLibrary()
	lib.findErr = fmt.Errorf("%w: connection refused", stash.ErrConnection)

	stats, err := newRunner(lib, sweep.Options{}).Run(context.Background())
	if err == nil {
		t.Fatal("expected error when enumeration fails")
	}
	if !errors.Is(err, stash.ErrConnection) {
		t.Fatalf("expected ErrConnection, got %v", err)
	}
	if stats != nil {
		t.Fatalf("expected nil stats on fatal failure, got %+v", stats)
	}
	if lib.fetchCalls != 0 {
		t.Fatalf("no scene should be fetched, got %d calls", lib.fetchCalls)
	}
}

func TestRunDryRunTouchesNothing(t *testing.T) {
	transcodeCalls := 0
	restore := sweep.SetTranscodeForTests(func(src []byte, quality int) ([]byte, error) {
		transcodeCalls++
		return []byte("jpeg-payload"), nil
	})
	t.Cleanup(restore)

	lib := newFakeLibrary()
	lib.addScene("1", "Candidate", testsupport.WebPBytes())
	lib.addScene("2", "Plain", testsupport.JPEGBytes(t))

	stats, err := newRunner(lib, sweep.Options{DryRun: true}).Run(context.Background())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if stats.WebPScreenshotsFound != 1 {
		t.Fatalf("webp_screenshots_found = %d, want 1", stats.WebPScreenshotsFound)
	}
	if stats.SuccessfullyReplaced != 0 {
		t.Fatalf("dry run must not replace, got %d", stats.SuccessfullyReplaced)
	}
	if len(stats.Replacements) != 1 {
		t.Fatalf("replacements length = %d, want 1", len(stats.Replacements))
	}
	if stats.Replacements[0].Action != report.ActionWouldConvert {
		t.Fatalf("unexpected action %q", stats.Replacements[0].Action)
	}
	if transcodeCalls != 0 {
		t.Fatalf("dry run must not transcode, got %d calls", transcodeCalls)
	}
	if len(lib.uploads) != 0 {
		t.Fatalf("dry run must not upload, got %v", lib.uploads)
	}
}

func TestRunHonorsBatchLimit(t *testing.T) {
	restore := sweep.SetTranscodeForTests(func(src []byte, quality int) ([]byte, error) {
		return []byte("jpeg-payload"), nil
	})
	t.Cleanup(restore)

	lib := newFakeLibrary()
	lib.addScene("1", "A", testsupport.WebPBytes())
	lib.addScene("2", "B", testsupport.WebPBytes())
	lib.addScene("3", "C", testsupport.WebPBytes())

	stats, err := newRunner(lib, sweep.Options{BatchLimit: 2}).Run(context.Background())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if stats.SuccessfullyReplaced != 2 {
		t.Fatalf("replaced = %d, want 2", stats.SuccessfullyReplaced)
	}
	if lib.fetchCalls != 2 {
		t.Fatalf("scenes beyond the limit must not be fetched: %d calls", lib.fetchCalls)
	}
	if len(stats.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", stats.Errors)
	}
}

func TestRunPassesConfiguredQualityToTranscoder(t *testing.T) {
	gotQuality := 0
	restore := sweep.SetTranscodeForTests(func(src []byte, quality int) ([]byte, error) {
		gotQuality = quality
		return []byte("jpeg-payload"), nil
	})
	t.Cleanup(restore)

	lib := newFakeLibrary()
	lib.addScene("1", "A", testsupport.WebPBytes())

	if _, err := newRunner(lib, sweep.Options{JPEGQuality: 72}).Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if gotQuality != 72 {
		t.Fatalf("transcoder received quality %d, want 72", gotQuality)
	}
}
