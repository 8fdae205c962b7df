package ocr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResultContent(t *testing.T) {
	tests := []struct {
		name   string
		result Result
		want   string
	}{
		{"recognized text", TextResult("Hello world"), "Hello world"},
		{"empty page", EmptyResult(), "No text found in image"},
		{"recognition failure", FailureResult("rpc deadline exceeded"), "Error processing image: rpc deadline exceeded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.result.Content())
		})
	}
}

func TestEmptyResultUsesSentinel(t *testing.T) {
	// The sentinel is a stored artifact format; it must not drift.
	assert.Equal(t, NoTextSentinel, EmptyResult().Content())
	assert.Equal(t, "No text found in image", NoTextSentinel)
}
