package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"pdf-chatbot-be/internal/entity"
	"pdf-chatbot-be/internal/repository/contract"
	"pdf-chatbot-be/pkg/ocr"
	"pdf-chatbot-be/pkg/rasterizer"
	"pdf-chatbot-be/pkg/storage"

	"github.com/google/uuid"
)

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }

type fakePdfRepo struct {
	mu      sync.Mutex
	pdfs    map[uuid.UUID]*entity.Pdf
	deleted []uuid.UUID

	createErr error
	updateErr error
}

func newFakePdfRepo() *fakePdfRepo {
	return &fakePdfRepo{pdfs: map[uuid.UUID]*entity.Pdf{}}
}

func (r *fakePdfRepo) Create(_ context.Context, pdf *entity.Pdf) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	pdf.Id = uuid.New()
	clone := *pdf
	r.pdfs[pdf.Id] = &clone
	return nil
}

func (r *fakePdfRepo) Update(_ context.Context, pdf *entity.Pdf) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *pdf
	r.pdfs[pdf.Id] = &clone
	return nil
}

func (r *fakePdfRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.pdfs, id)
	r.deleted = append(r.deleted, id)
	return nil
}

func (r *fakePdfRepo) FindById(_ context.Context, id uuid.UUID) (*entity.Pdf, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	pdf, ok := r.pdfs[id]
	if !ok {
		return nil, nil
	}
	clone := *pdf
	return &clone, nil
}

type fakeEmbedRepo struct {
	mu       sync.Mutex
	upserted []entity.PageEmbedding

	upsertErr    error
	searchResult []*contract.ScoredPageEmbedding
	searchErr    error
	searchLimit  int
}

func (r *fakeEmbedRepo) Upsert(_ context.Context, e *entity.PageEmbedding) error {
	if r.upsertErr != nil {
		return r.upsertErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.upserted = append(r.upserted, *e)
	return nil
}

func (r *fakeEmbedRepo) CountByPdfId(_ context.Context, pdfId uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, e := range r.upserted {
		if e.PdfId == pdfId {
			n++
		}
	}
	return n, nil
}

func (r *fakeEmbedRepo) DeleteByPdfId(_ context.Context, pdfId uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.upserted[:0]
	for _, e := range r.upserted {
		if e.PdfId != pdfId {
			kept = append(kept, e)
		}
	}
	r.upserted = kept
	return nil
}

func (r *fakeEmbedRepo) SearchSimilarWithScore(_ context.Context, _ uuid.UUID, _ []float32, limit int) ([]*contract.ScoredPageEmbedding, error) {
	r.searchLimit = limit
	if r.searchErr != nil {
		return nil, r.searchErr
	}
	return r.searchResult, nil
}

type fakeStorage struct {
	mu      sync.Mutex
	objects map[string][]byte // key: bucket + "/" + path

	// failUpload, when set, decides per call whether the upload fails.
	failUpload  func(bucket, path string) error
	downloadErr error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: map[string][]byte{}}
}

func (s *fakeStorage) key(bucket, path string) string { return bucket + "/" + path }

func (s *fakeStorage) Upload(_ context.Context, bucket, path string, data []byte, _ string) error {
	if s.failUpload != nil {
		if err := s.failUpload(bucket, path); err != nil {
			return err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[s.key(bucket, path)] = append([]byte(nil), data...)
	return nil
}

func (s *fakeStorage) Download(_ context.Context, bucket, path string) ([]byte, error) {
	if s.downloadErr != nil {
		return nil, s.downloadErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[s.key(bucket, path)]
	if !ok {
		return nil, errors.New("object not found: " + s.key(bucket, path))
	}
	return data, nil
}

func (s *fakeStorage) List(_ context.Context, bucket, prefix string) ([]storage.ObjectInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var infos []storage.ObjectInfo
	keyPrefix := s.key(bucket, prefix) + "/"
	for k := range s.objects {
		if len(k) > len(keyPrefix) && k[:len(keyPrefix)] == keyPrefix {
			infos = append(infos, storage.ObjectInfo{Name: k[len(keyPrefix):]})
		}
	}
	return infos, nil
}

type fakeRecognizer struct {
	// results maps the image payload to the recognition outcome. Unknown
	// payloads come back as recognized text derived from the payload.
	results map[string]ocr.Result
}

func (r *fakeRecognizer) Recognize(_ context.Context, image []byte) ocr.Result {
	if r.results != nil {
		if res, ok := r.results[string(image)]; ok {
			return res
		}
	}
	return ocr.TextResult("text of " + string(image))
}

type fakeEmbedder struct {
	err   error
	calls int
}

func (e *fakeEmbedder) Generate(_ context.Context, text string) ([]float32, error) {
	e.calls++
	if e.err != nil {
		return nil, e.err
	}
	return []float32{1, 0, 0}, nil
}

func (e *fakeEmbedder) Dimension() int { return 3 }

// fakeRasterizer writes real page image files so the ingestion loop can
// read them back like it would with rendered output.
type fakeRasterizer struct {
	pageCount int
	err       error
}

func (r *fakeRasterizer) Rasterize(_ context.Context, _, outputDir string) ([]rasterizer.PageImage, error) {
	if r.err != nil {
		return nil, r.err
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, err
	}
	pages := make([]rasterizer.PageImage, 0, r.pageCount)
	for n := 1; n <= r.pageCount; n++ {
		path := filepath.Join(outputDir, rasterizer.PageImageName(n))
		if err := os.WriteFile(path, []byte(fmt.Sprintf("img-%d", n)), 0o644); err != nil {
			return nil, err
		}
		pages = append(pages, rasterizer.PageImage{Number: n, Path: path})
	}
	return pages, nil
}

type fakeSynthesizer struct {
	answer      string
	gotQuestion string
	gotContext  string
	gotModel    string
}

func (s *fakeSynthesizer) Synthesize(_ context.Context, question, contextText, model string) string {
	s.gotQuestion = question
	s.gotContext = contextText
	s.gotModel = model
	return s.answer
}
