package inference

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"roundbread-bot/logging"
)

const predictPath = "/predict/predict"

// ImageData тело запроса к сервису распознавания
type ImageData struct {
	Image string `json:"image"`
}

// PredictResult ответ сервиса распознавания
type PredictResult struct {
	Image     *string            `json:"image"`
	Roundness *float64           `json:"roundness"`
	Labels    map[string]float64 `json:"labels"`
}

// PredictionError сервис ответил не 200, тело не разбирается
type PredictionError struct {
	StatusCode int
	Err        error
}

func (e *PredictionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("prediction failed: %v", e.Err)
	}
	return fmt.Sprintf("prediction failed: status %d", e.StatusCode)
}

func (e *PredictionError) Unwrap() error {
	return e.Err
}

// ErrNoImage в ответе нет перекодированного изображения
var ErrNoImage = errors.New("no image to save")

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
	}
}

// Predict один запрос без повторов
func (c *Client) Predict(ctx context.Context, image []byte) (*PredictResult, error) {
	payload, err := json.Marshal(ImageData{Image: base64.StdEncoding.EncodeToString(image)})
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+predictPath, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &PredictionError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logging.Log("Inference", logrus.ErrorLevel, fmt.Sprintf("Сервис распознавания вернул статус %d", resp.StatusCode))
		return nil, &PredictionError{StatusCode: resp.StatusCode}
	}

	var result PredictResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &PredictionError{StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}

	logging.Log("Inference", logrus.DebugLevel, fmt.Sprintf("Получен ответ: roundness=%v, labels=%v", result.Roundness, result.Labels))
	return &result, nil
}

// DecodeImage возвращает байты перекодированного изображения
func (r *PredictResult) DecodeImage() ([]byte, error) {
	if r.Image == nil {
		return nil, ErrNoImage
	}
	data, err := base64.StdEncoding.DecodeString(*r.Image)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return data, nil
}

// SaveImage записывает перекодированное изображение в файл
func (r *PredictResult) SaveImage(path string) error {
	data, err := r.DecodeImage()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
