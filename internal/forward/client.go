package forward

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/Vovarama1992/channel_adapter/internal/ports"
)

const (
	defaultTimeout    = 30 * time.Second
	defaultBatchLimit = 5
)

// Client шлёт JSON во внешние вебхуки. Ошибки сети и не-2xx не паникуют,
// а оседают в ForwardResult — батч не должен падать из-за одного таргета.
type Client struct {
	client *http.Client
}

func NewClient() *Client {
	return &Client{
		client: &http.Client{Timeout: defaultTimeout},
	}
}

func NewClientWithTimeout(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		client: &http.Client{Timeout: timeout},
	}
}

func (c *Client) Send(ctx context.Context, url string, payload map[string]any, headers map[string]string) ports.ForwardResult {
	result := ports.ForwardResult{
		URL:    url,
		Method: http.MethodPost,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		result.Error = fmt.Sprintf("encode payload: %v", err)
		return result
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		result.Error = fmt.Sprintf("build request: %v", err)
		return result
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", ports.ServiceName+"/"+ports.ServiceVersion)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		result.Error = fmt.Sprintf("client error: %v", err)
		return result
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	result.StatusCode = resp.StatusCode

	var data map[string]any
	if err := json.Unmarshal(respBody, &data); err != nil {
		data = map[string]any{"raw_response": string(respBody)}
	}
	result.ResponseData = data

	if resp.StatusCode >= 400 {
		result.Error = fmt.Sprintf("HTTP %d: %s", resp.StatusCode, respBody)
		return result
	}

	result.Success = true
	return result
}

// SendBatch отправляет пачку конкурентно, не больше limit запросов одновременно.
// Порядок результатов совпадает с порядком payloads.
func (c *Client) SendBatch(ctx context.Context, url string, payloads []map[string]any, headers map[string]string, limit int) []ports.ForwardResult {
	if limit <= 0 {
		limit = defaultBatchLimit
	}

	sem := make(chan struct{}, limit)
	results := make([]ports.ForwardResult, len(payloads))

	var wg sync.WaitGroup
	for i, payload := range payloads {
		wg.Add(1)
		go func(i int, payload map[string]any) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			result := c.Send(ctx, url, payload, headers)
			result.Index = i
			results[i] = result
		}(i, payload)
	}
	wg.Wait()

	return results
}
