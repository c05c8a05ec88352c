package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// Known verdict labels. Anything else coming back from the service is
// treated as a malformed response.
const (
	LabelHealthy  = "healthy"
	LabelDiseased = "diseased"
)

var (
	// ErrUnavailable means the endpoint refused the connection: the service
	// is down and the caller should try again later.
	ErrUnavailable = errors.New("classifier service unavailable")
	// ErrPrediction covers every other failure of the single attempt:
	// timeout, non-2xx status, or a response that does not parse/validate.
	ErrPrediction = errors.New("classifier request failed")
)

// Prediction is the external classifier's structured verdict.
type Prediction struct {
	Label         string             `json:"label"`
	Confidence    float64            `json:"confidence"`
	Probabilities map[string]float64 `json:"probabilities,omitempty"`
}

// Client sends stored images to the external inference service.
// One synchronous attempt per submission, bounded by the client timeout.
type Client struct {
	endpoint   string
	httpClient *http.Client
	log        *zap.Logger
}

func New(endpoint string, timeout time.Duration, log *zap.Logger) *Client {
	return &Client{
		endpoint:   strings.TrimRight(endpoint, "/"),
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

// Classify uploads the stored file's bytes and parses the verdict.
func (c *Client) Classify(ctx context.Context, filePath string) (*Prediction, error) {
	body, contentType, err := buildMultipartBody(filePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPrediction, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPrediction, err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, syscall.ECONNREFUSED) {
			c.log.Warn("classifier unreachable", zap.String("endpoint", c.endpoint))
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrPrediction, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %s", ErrPrediction, httpErrorDetail(resp))
	}

	var pred Prediction
	if err := json.NewDecoder(resp.Body).Decode(&pred); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrPrediction, err)
	}
	if err := normalize(&pred); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPrediction, err)
	}

	return &pred, nil
}

// normalize lowercases the label and checks the verdict is well-formed
// before it can reach persistence.
func normalize(p *Prediction) error {
	p.Label = strings.ToLower(strings.TrimSpace(p.Label))
	if p.Label != LabelHealthy && p.Label != LabelDiseased {
		return fmt.Errorf("unknown label %q", p.Label)
	}
	if p.Confidence < 0 || p.Confidence > 1 {
		return fmt.Errorf("confidence %v out of range", p.Confidence)
	}
	if p.Probabilities != nil {
		norm := make(map[string]float64, len(p.Probabilities))
		for label, prob := range p.Probabilities {
			if prob < 0 || prob > 1 {
				return fmt.Errorf("probability %v out of range for %q", prob, label)
			}
			norm[strings.ToLower(strings.TrimSpace(label))] = prob
		}
		p.Probabilities = norm
	}
	return nil
}

func buildMultipartBody(filePath string) (*bytes.Buffer, string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, "", fmt.Errorf("open stored file: %v", err)
	}
	defer file.Close()

	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)
	part, err := writer.CreateFormFile("image", filepath.Base(filePath))
	if err != nil {
		return nil, "", fmt.Errorf("create form file: %v", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, "", fmt.Errorf("read stored file: %v", err)
	}
	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return buf, writer.FormDataContentType(), nil
}

func httpErrorDetail(resp *http.Response) string {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		return resp.Status
	}
	return resp.Status + ": " + msg
}
