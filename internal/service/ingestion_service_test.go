package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"pdf-chatbot-be/pkg/ocr"
	"pdf-chatbot-be/pkg/retry"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRetryPolicy() retry.Policy {
	return retry.Policy{MaxAttempts: 3, InitialInterval: time.Millisecond, Multiplier: 2}
}

func testBuckets() Buckets {
	return Buckets{Pdf: "pdfs", Image: "pdfimg", Text: "pdftxt"}
}

type ingestionFixture struct {
	pdfRepo    *fakePdfRepo
	embedRepo  *fakeEmbedRepo
	store      *fakeStorage
	recognizer *fakeRecognizer
	embedder   *fakeEmbedder
	raster     *fakeRasterizer
	svc        IIngestionService
}

func newIngestionFixture(t *testing.T, pageCount int) *ingestionFixture {
	t.Helper()
	f := &ingestionFixture{
		pdfRepo:    newFakePdfRepo(),
		embedRepo:  &fakeEmbedRepo{},
		store:      newFakeStorage(),
		recognizer: &fakeRecognizer{},
		embedder:   &fakeEmbedder{},
		raster:     &fakeRasterizer{pageCount: pageCount},
	}
	f.svc = NewIngestionService(
		f.pdfRepo, f.embedRepo, f.store, f.recognizer, f.embedder, f.raster,
		testRetryPolicy(), testBuckets(), t.TempDir(), nopLogger{},
	)
	return f
}

func TestIngestPdfHappyPath(t *testing.T) {
	f := newIngestionFixture(t, 3)

	res, err := f.svc.IngestPdf(context.Background(), "report.pdf", []byte("%PDF-1.4 data"))
	require.NoError(t, err)

	assert.Equal(t, "report.pdf", res.PdfName)
	assert.Equal(t, fmt.Sprintf("%s/report.pdf", res.PdfId), res.StoragePath)
	assert.Equal(t, []string{
		fmt.Sprintf("%s/page_001.jpg", res.PdfId),
		fmt.Sprintf("%s/page_002.jpg", res.PdfId),
		fmt.Sprintf("%s/page_003.jpg", res.PdfId),
	}, res.UploadedImages)
	assert.Equal(t, []string{
		fmt.Sprintf("%s/page_001_text.txt", res.PdfId),
		fmt.Sprintf("%s/page_002_text.txt", res.PdfId),
		fmt.Sprintf("%s/page_003_text.txt", res.PdfId),
	}, res.UploadedTexts)

	// Original bytes persisted and readable.
	stored, err := f.store.Download(context.Background(), "pdfs", res.StoragePath)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4 data"), stored)

	// One embedding per page, keyed on the explicit page number.
	require.Len(t, f.embedRepo.upserted, 3)
	for i, rec := range f.embedRepo.upserted {
		assert.Equal(t, res.PdfId, rec.PdfId)
		assert.Equal(t, i+1, rec.PageNumber)
		assert.Equal(t, fmt.Sprintf("text of img-%d", i+1), rec.Text)
	}

	// Metadata row survives with the storage path recorded.
	pdf, err := f.pdfRepo.FindById(context.Background(), res.PdfId)
	require.NoError(t, err)
	require.NotNil(t, pdf)
	require.NotNil(t, pdf.StoragePath)
	assert.Equal(t, res.StoragePath, *pdf.StoragePath)
	assert.Empty(t, f.pdfRepo.deleted)
}

func TestIngestPdfStorageFailureCompensates(t *testing.T) {
	f := newIngestionFixture(t, 3)
	f.store.failUpload = func(bucket, _ string) error {
		if bucket == "pdfs" {
			return errors.New("bucket unavailable")
		}
		return nil
	}

	res, err := f.svc.IngestPdf(context.Background(), "report.pdf", []byte("data"))
	require.Error(t, err)
	assert.Nil(t, res)

	var pipelineErr *PipelineError
	require.True(t, errors.As(err, &pipelineErr))
	assert.Equal(t, StageStored, pipelineErr.Stage)

	// The metadata row created at the start must not survive.
	require.Len(t, f.pdfRepo.deleted, 1)
	assert.Empty(t, f.pdfRepo.pdfs)
}

func TestIngestPdfRasterizeFailureCompensates(t *testing.T) {
	f := newIngestionFixture(t, 0)
	f.raster.err = errors.New("corrupt xref table")

	_, err := f.svc.IngestPdf(context.Background(), "broken.pdf", []byte("data"))
	require.Error(t, err)

	var pipelineErr *PipelineError
	require.True(t, errors.As(err, &pipelineErr))
	assert.Equal(t, StageRasterized, pipelineErr.Stage)
	assert.Len(t, f.pdfRepo.deleted, 1)
}

func TestIngestPdfImageUploadFailureDoesNotBlockPage(t *testing.T) {
	f := newIngestionFixture(t, 2)
	f.store.failUpload = func(bucket, path string) error {
		if bucket == "pdfimg" && strings.HasSuffix(path, "page_002.jpg") {
			return errors.New("image store down")
		}
		return nil
	}

	res, err := f.svc.IngestPdf(context.Background(), "doc.pdf", []byte("data"))
	require.NoError(t, err)

	// Page 2's image is missing but its text and embedding went through.
	assert.Len(t, res.UploadedImages, 1)
	assert.Len(t, res.UploadedTexts, 2)
	assert.Len(t, f.embedRepo.upserted, 2)
}

func TestIngestPdfTextUploadRetriesBeforeGivingUp(t *testing.T) {
	f := newIngestionFixture(t, 1)
	attempts := 0
	f.store.failUpload = func(bucket, _ string) error {
		if bucket == "pdftxt" {
			attempts++
			if attempts < 3 {
				return errors.New("transient")
			}
		}
		return nil
	}

	res, err := f.svc.IngestPdf(context.Background(), "doc.pdf", []byte("data"))
	require.NoError(t, err)

	assert.Equal(t, 3, attempts)
	assert.Len(t, res.UploadedTexts, 1)
}

func TestIngestPdfEmbeddingFailureSkipsUpsert(t *testing.T) {
	f := newIngestionFixture(t, 2)
	f.embedder.err = errors.New("embedding service down")

	res, err := f.svc.IngestPdf(context.Background(), "doc.pdf", []byte("data"))
	require.NoError(t, err)

	// Text artifacts still uploaded; no embeddings persisted.
	assert.Len(t, res.UploadedTexts, 2)
	assert.Empty(t, f.embedRepo.upserted)
}

func TestIngestPdfEmptyPageStoresSentinel(t *testing.T) {
	f := newIngestionFixture(t, 1)
	f.recognizer.results = map[string]ocr.Result{
		"img-1": ocr.EmptyResult(),
	}

	res, err := f.svc.IngestPdf(context.Background(), "blank.pdf", []byte("data"))
	require.NoError(t, err)

	content, err := f.store.Download(context.Background(), "pdftxt", res.UploadedTexts[0])
	require.NoError(t, err)
	assert.Equal(t, ocr.NoTextSentinel, string(content))

	// The sentinel is embedded like any other page text.
	require.Len(t, f.embedRepo.upserted, 1)
	assert.Equal(t, ocr.NoTextSentinel, f.embedRepo.upserted[0].Text)
}

func TestIngestPdfOcrFailureRidesAlongAsText(t *testing.T) {
	f := newIngestionFixture(t, 1)
	f.recognizer.results = map[string]ocr.Result{
		"img-1": ocr.FailureResult("vision rpc failed"),
	}

	res, err := f.svc.IngestPdf(context.Background(), "doc.pdf", []byte("data"))
	require.NoError(t, err)

	content, err := f.store.Download(context.Background(), "pdftxt", res.UploadedTexts[0])
	require.NoError(t, err)
	assert.Equal(t, "Error processing image: vision rpc failed", string(content))
}

func TestReprocessPdfUnknownId(t *testing.T) {
	f := newIngestionFixture(t, 0)

	_, err := f.svc.ReprocessPdf(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrPdfNotFound)
}

func TestReprocessPdfRebuildsTextAndEmbeddings(t *testing.T) {
	f := newIngestionFixture(t, 2)

	res, err := f.svc.IngestPdf(context.Background(), "doc.pdf", []byte("data"))
	require.NoError(t, err)

	f.embedRepo.upserted = nil

	rep, err := f.svc.ReprocessPdf(context.Background(), res.PdfId)
	require.NoError(t, err)

	assert.Equal(t, res.PdfId, rep.PdfId)
	assert.ElementsMatch(t, []string{
		fmt.Sprintf("%s/page_001_text.txt", res.PdfId),
		fmt.Sprintf("%s/page_002_text.txt", res.PdfId),
	}, rep.UploadedTexts)

	// Embeddings rebuilt with the page numbers recovered from artifact names.
	require.Len(t, f.embedRepo.upserted, 2)
	pageNumbers := []int{f.embedRepo.upserted[0].PageNumber, f.embedRepo.upserted[1].PageNumber}
	assert.ElementsMatch(t, []int{1, 2}, pageNumbers)
}
