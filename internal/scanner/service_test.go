package scanner

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/lehigh-university-libraries/tagscan/internal/extract"
	"github.com/lehigh-university-libraries/tagscan/internal/models"
	"github.com/lehigh-university-libraries/tagscan/internal/ocr"
	"github.com/lehigh-university-libraries/tagscan/internal/storage"
)

// pngBytes returns a small valid PNG; shade makes payloads differ.
func pngBytes(t *testing.T, shade uint8) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			img.Set(x, y, color.RGBA{shade, shade, shade, 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return buf.Bytes()
}

// fakeRecognizer returns fragments in order, one slice per call.
type fakeRecognizer struct {
	mu      sync.Mutex
	outputs [][]string
	err     error
	calls   atomic.Int32
}

func (f *fakeRecognizer) Recognize(ctx context.Context, img image.Image) ([]string, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.outputs) == 0 {
		return nil, nil
	}
	out := f.outputs[0]
	if len(f.outputs) > 1 {
		f.outputs = f.outputs[1:]
	}
	return out, nil
}

func submission(id string, data []byte, category models.CategoryChoice) Submission {
	return Submission{
		Payload:  models.ImagePayload{ID: id, Data: data},
		Category: category,
	}
}

func TestProcessAddsRecord(t *testing.T) {
	rec := &fakeRecognizer{outputs: [][]string{{"PREFEITURA", "PAT 12.345-6"}}}
	svc := NewService(rec, nil, nil)
	sess := storage.NewSession("Sala 3B")

	res, err := svc.Process(context.Background(), sess, submission("p1", pngBytes(t, 10), models.Preset("Mesas")))
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if res.Outcome != OutcomeAdded || res.AssetTag != "123456" || res.Category != "MESAS" {
		t.Errorf("Unexpected result %+v", res)
	}
	if res.Records != 1 || sess.Ledger.Len() != 1 {
		t.Errorf("Expected 1 record, got %d", sess.Ledger.Len())
	}
}

func TestProcessDuplicateIsIdempotent(t *testing.T) {
	rec := &fakeRecognizer{outputs: [][]string{{"12345"}}}
	svc := NewService(rec, nil, nil)
	sess := storage.NewSession("Sala 3B")
	data := pngBytes(t, 20)

	for i := 0; i < 2; i++ {
		if _, err := svc.Process(context.Background(), sess, submission("same", data, models.Preset("Mesas"))); err != nil {
			t.Fatalf("Process failed: %v", err)
		}
	}

	if sess.Ledger.Len() != 1 {
		t.Errorf("Expected 1 record, got %d", sess.Ledger.Len())
	}
	if n := rec.calls.Load(); n != 1 {
		t.Errorf("Expected recognizer to run once, ran %d times", n)
	}
}

func TestProcessNotFoundStillMarksSeen(t *testing.T) {
	rec := &fakeRecognizer{outputs: [][]string{{"no digits here"}}}
	svc := NewService(rec, nil, nil)
	sess := storage.NewSession("Sala 3B")
	data := pngBytes(t, 30)

	res, err := svc.Process(context.Background(), sess, submission("p1", data, models.Custom("lousa")))
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if res.Outcome != OutcomeNotFound {
		t.Errorf("Expected not_found, got %s", res.Outcome)
	}

	res, err = svc.Process(context.Background(), sess, submission("p1", data, models.Custom("lousa")))
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if res.Outcome != OutcomeDuplicate {
		t.Errorf("Expected duplicate on resubmission, got %s", res.Outcome)
	}
	if sess.Ledger.Len() != 0 {
		t.Errorf("Expected no records, got %d", sess.Ledger.Len())
	}
}

func TestProcessMissingCategory(t *testing.T) {
	rec := &fakeRecognizer{outputs: [][]string{{"12345"}}}
	svc := NewService(rec, nil, nil)
	sess := storage.NewSession("Sala 3B")

	_, err := svc.Process(context.Background(), sess, submission("p1", pngBytes(t, 40), models.Custom("  ")))
	if !errors.Is(err, ErrMissingCategory) {
		t.Fatalf("Expected ErrMissingCategory, got %v", err)
	}
	if rec.calls.Load() != 0 {
		t.Error("Recognizer must not run without a category")
	}
	if !sess.Gate.ShouldProcess("p1") {
		t.Error("Gate must not be updated without a category")
	}
}

func TestProcessDecodeFailure(t *testing.T) {
	rec := &fakeRecognizer{outputs: [][]string{{"12345"}}}
	svc := NewService(rec, nil, nil)
	sess := storage.NewSession("Sala 3B")

	_, err := svc.Process(context.Background(), sess, submission("p1", []byte("not an image"), models.Preset("Mesas")))
	if !errors.Is(err, ErrDecode) {
		t.Fatalf("Expected ErrDecode, got %v", err)
	}
	if sess.Ledger.Len() != 0 || rec.calls.Load() != 0 {
		t.Error("Expected no recognition and no records after decode failure")
	}
}

func TestProcessRecognizerFailure(t *testing.T) {
	rec := &fakeRecognizer{err: errors.New("engine crashed")}
	svc := NewService(rec, nil, nil)
	sess := storage.NewSession("Sala 3B")

	_, err := svc.Process(context.Background(), sess, submission("p1", pngBytes(t, 50), models.Preset("Mesas")))
	if !errors.Is(err, ErrRecognition) {
		t.Fatalf("Expected ErrRecognition, got %v", err)
	}
	if sess.Ledger.Len() != 0 {
		t.Error("Expected no records after recognizer failure")
	}
}

func TestProcessDefaultsPayloadIDToContentHash(t *testing.T) {
	rec := &fakeRecognizer{outputs: [][]string{{"11111"}, {"22222"}}}
	svc := NewService(rec, nil, nil)
	sess := storage.NewSession("Sala 3B")
	a, b := pngBytes(t, 60), pngBytes(t, 70)

	ids := map[string]bool{}
	for _, data := range [][]byte{a, a, b} {
		res, err := svc.Process(context.Background(), sess, submission("", data, models.Preset("Cadeiras")))
		if err != nil {
			t.Fatalf("Process failed: %v", err)
		}
		ids[res.PayloadID] = true
	}

	if len(ids) != 2 {
		t.Errorf("Expected 2 distinct payload ids, got %d", len(ids))
	}
	if got := sess.Ledger.Pivot().Column("CADEIRAS"); len(got) != 2 || got[0] != "11111" || got[1] != "22222" {
		t.Errorf("Unexpected CADEIRAS column %v", got)
	}
}

func TestProcessStrictExtractor(t *testing.T) {
	rec := &fakeRecognizer{outputs: [][]string{{"SALA 12345"}}}
	svc := NewService(rec, extract.New(extract.Options{Strict: true}), nil)
	sess := storage.NewSession("Sala 3B")

	res, err := svc.Process(context.Background(), sess, submission("p1", pngBytes(t, 80), models.Preset("Mesas")))
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if res.Outcome != OutcomeNotFound {
		t.Errorf("Expected strict extractor to reject debris, got %s", res.Outcome)
	}
}

func TestProcessConcurrentSamePayload(t *testing.T) {
	rec := &fakeRecognizer{outputs: [][]string{{"54321"}}}
	svc := NewService(ocr.NewLazy(func() (ocr.Recognizer, error) { return rec, nil }), nil, nil)
	sess := storage.NewSession("Sala 3B")
	data := pngBytes(t, 90)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Process(context.Background(), sess, submission("burst", data, models.Preset("Mesas"))); err != nil {
				t.Errorf("Process failed: %v", err)
			}
		}()
	}
	wg.Wait()

	if sess.Ledger.Len() != 1 {
		t.Errorf("Expected exactly 1 record, got %d", sess.Ledger.Len())
	}
}

func TestRead(t *testing.T) {
	rec := &fakeRecognizer{outputs: [][]string{{"ESCOLA", "0098765"}}}
	svc := NewService(rec, nil, nil)

	reading, err := svc.Read(context.Background(), pngBytes(t, 100))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if !reading.Found || reading.AssetTag != "0098765" || len(reading.Fragments) != 2 {
		t.Errorf("Unexpected reading %+v", reading)
	}
}
