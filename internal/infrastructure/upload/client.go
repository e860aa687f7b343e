package upload

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"print-watch/internal/domain/entity"
	"print-watch/internal/domain/port"
)

// Client отправляет кадры на сервер детекции.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient создаёт клиента с фиксированным таймаутом на каждый вызов.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// Health опрашивает сервер и возвращает признак загруженной модели.
func (c *Client) Health(ctx context.Context) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return false, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("server is not available: %d", resp.StatusCode)
	}

	var health struct {
		ModelLoaded bool `json:"model_loaded"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		return false, fmt.Errorf("decode health response: %w", err)
	}

	return health.ModelLoaded, nil
}

// SendFrame отправляет кадр основным транспортом: multipart-поле image.
func (c *Client) SendFrame(ctx context.Context, frame []byte) (*entity.Summary, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("image", "capture.jpg")
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, bytes.NewReader(frame)); err != nil {
		return nil, fmt.Errorf("copy frame: %w", err)
	}
	writer.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/detect", body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	return c.do(req)
}

// SendFrameBase64 отправляет кадр запасным транспортом: base64 в JSON.
func (c *Client) SendFrameBase64(ctx context.Context, frame []byte) (*entity.Summary, error) {
	payload, err := json.Marshal(map[string]string{
		"image": "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(frame),
	})
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/detect_base64", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req)
}

// do выполняет запрос и разбирает сводку или текст ошибки сервера.
func (c *Client) do(req *http.Request) (*entity.Summary, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		text, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server error %d: %s", resp.StatusCode, bytes.TrimSpace(text))
	}

	var summary entity.Summary
	if err := json.NewDecoder(resp.Body).Decode(&summary); err != nil {
		return nil, fmt.Errorf("decode summary: %w", err)
	}

	return &summary, nil
}

// Проверка реализации интерфейса
var _ port.Uploader = (*Client)(nil)
