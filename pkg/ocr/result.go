package ocr

// Kind classifies a recognition outcome. Recognition never fails loudly:
// a page with no text and a page that crashed the OCR call are both valid
// results whose content rides along as the page's text.
type Kind int

const (
	KindText Kind = iota
	KindEmpty
	KindFailure
)

// NoTextSentinel is the defined result for an image without detectable text.
const NoTextSentinel = "No text found in image"

type Result struct {
	Kind Kind
	// Text carries the recognized text for KindText, or the diagnostic
	// detail for KindFailure. Empty for KindEmpty.
	Text string
}

func TextResult(text string) Result {
	return Result{Kind: KindText, Text: text}
}

func EmptyResult() Result {
	return Result{Kind: KindEmpty}
}

func FailureResult(detail string) Result {
	return Result{Kind: KindFailure, Text: detail}
}

// Content renders the result as the page's text artifact content.
func (r Result) Content() string {
	switch r.Kind {
	case KindText:
		return r.Text
	case KindEmpty:
		return NoTextSentinel
	default:
		return "Error processing image: " + r.Text
	}
}
