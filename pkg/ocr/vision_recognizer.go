package ocr

import (
	"context"

	vision "cloud.google.com/go/vision/v2/apiv1"
	"cloud.google.com/go/vision/v2/apiv1/visionpb"
	"google.golang.org/api/option"
)

// TextRecognizer extracts text from a single page image.
type TextRecognizer interface {
	Recognize(ctx context.Context, image []byte) Result
}

// VisionRecognizer implements TextRecognizer using Google Cloud Vision.
type VisionRecognizer struct {
	client *vision.ImageAnnotatorClient
}

// NewVisionRecognizer creates the recognizer. With an empty credentialsPath
// the client uses the ambient/default service account (cloud deployment);
// otherwise the given service-account JSON file is used (local development).
func NewVisionRecognizer(ctx context.Context, credentialsPath string) (*VisionRecognizer, error) {
	var client *vision.ImageAnnotatorClient
	var err error

	if credentialsPath != "" {
		client, err = vision.NewImageAnnotatorClient(ctx, option.WithCredentialsFile(credentialsPath))
	} else {
		client, err = vision.NewImageAnnotatorClient(ctx)
	}
	if err != nil {
		return nil, err
	}

	return &VisionRecognizer{client: client}, nil
}

// NewVisionRecognizerWithClient creates a recognizer with an explicit client (for testing).
func NewVisionRecognizerWithClient(client *vision.ImageAnnotatorClient) *VisionRecognizer {
	return &VisionRecognizer{client: client}
}

// Recognize runs text detection on one image. It never returns an error:
// recognition faults become a failure Result so one bad page cannot abort
// the containing batch.
func (r *VisionRecognizer) Recognize(ctx context.Context, image []byte) Result {
	req := &visionpb.BatchAnnotateImagesRequest{
		Requests: []*visionpb.AnnotateImageRequest{
			{
				Image: &visionpb.Image{Content: image},
				Features: []*visionpb.Feature{
					{Type: visionpb.Feature_TEXT_DETECTION},
				},
			},
		},
	}

	resp, err := r.client.BatchAnnotateImages(ctx, req)
	if err != nil {
		return FailureResult(err.Error())
	}
	if len(resp.Responses) == 0 {
		return FailureResult("no response from Vision API")
	}

	annotated := resp.Responses[0]
	if annotated.Error != nil {
		return FailureResult(annotated.Error.Message)
	}
	if len(annotated.TextAnnotations) == 0 {
		return EmptyResult()
	}

	// The first annotation contains all detected text
	return TextResult(annotated.TextAnnotations[0].Description)
}

func (r *VisionRecognizer) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}
