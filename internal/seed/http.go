package seed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// HTTPClient wraps http.Client with a shared timeout.
type HTTPClient struct {
	client  *http.Client
	timeout time.Duration
}

// newHTTPClient creates a new HTTP client with timeout.
func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout: timeout,
		},
		timeout: timeout,
	}
}

// Get performs a GET request.
func (c *HTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// Post performs a POST request with a JSON body.
func (c *HTTPClient) Post(ctx context.Context, url string, body interface{}) (*http.Response, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}

// marshalJSON marshals a struct to JSON.
func marshalJSON(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

// postDecoded posts a JSON body and decodes the JSON response into out when
// the status matches want.
func (c *HTTPClient) postDecoded(ctx context.Context, url string, body, out interface{}, want int) error {
	resp, err := c.Post(ctx, url, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != want {
		return fmt.Errorf("unexpected status %d from %s: %s", resp.StatusCode, url, string(data))
	}
	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("failed to decode response from %s: %w", url, err)
		}
	}
	return nil
}

// getDecoded fetches a URL and decodes the JSON response into out.
func (c *HTTPClient) getDecoded(ctx context.Context, url string, out interface{}) error {
	resp, err := c.Get(ctx, url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != StatusOK {
		return fmt.Errorf("unexpected status %d from %s: %s", resp.StatusCode, url, string(data))
	}
	return json.Unmarshal(data, out)
}

// submitCheckins submits check-ins concurrently using a worker pool.
func submitCheckins(ctx context.Context, config *Config, checkins []Checkin, stats *Stats) error {
	log.Printf("submitting %d check-ins with %d workers...", len(checkins), config.Workers)

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/checkins"

	var (
		successful int64
		duplicate  int64
		failed     int64
		submitted  int64
	)

	var lastReport time.Time
	reportInterval := 1 * time.Second

	checkinChan := make(chan Checkin, config.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for checkin := range checkinChan {
				select {
				case <-ctx.Done():
					return
				default:
					result := submitSingleCheckin(ctx, client, url, checkin)

					atomic.AddInt64(&submitted, 1)
					switch result {
					case "success":
						atomic.AddInt64(&successful, 1)
					case "duplicate":
						atomic.AddInt64(&duplicate, 1)
					case "failed":
						atomic.AddInt64(&failed, 1)
					}

					if time.Since(lastReport) >= reportInterval {
						lastReport = time.Now()
						total := atomic.LoadInt64(&submitted)
						succ := atomic.LoadInt64(&successful)
						dup := atomic.LoadInt64(&duplicate)
						fail := atomic.LoadInt64(&failed)

						if config.Verbose {
							log.Printf("progress: %d/%d submitted (success: %d, duplicate: %d, failed: %d)",
								total, len(checkins), succ, dup, fail)
						} else {
							fmt.Printf("\rsubmitted: %d/%d (success: %d, duplicate: %d, failed: %d)",
								total, len(checkins), succ, dup, fail)
						}
					}
				}
			}
		}()
	}

	go func() {
		defer close(checkinChan)
		for _, checkin := range checkins {
			select {
			case <-ctx.Done():
				return
			case checkinChan <- checkin:
			}
		}
	}()

	wg.Wait()

	if !config.Verbose {
		fmt.Println()
	}

	stats.CheckinsSubmitted = int(atomic.LoadInt64(&submitted))
	stats.CheckinsSuccessful = int(atomic.LoadInt64(&successful))
	stats.CheckinsDuplicate = int(atomic.LoadInt64(&duplicate))
	stats.CheckinsFailed = int(atomic.LoadInt64(&failed))

	log.Printf(`check-in submission completed:
   Successful: %d
   Duplicate: %d
   Failed: %d
`, stats.CheckinsSuccessful, stats.CheckinsDuplicate, stats.CheckinsFailed)

	return nil
}

// submitSingleCheckin submits one check-in and classifies the outcome.
// 429 reads as failed; the run reports it rather than retrying.
func submitSingleCheckin(ctx context.Context, client *HTTPClient, url string, checkin Checkin) string {
	resp, err := client.Post(ctx, url, checkin)
	if err != nil {
		return "failed"
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "failed"
	}

	switch resp.StatusCode {
	case StatusAccepted:
		var ack AckResponse
		if err := json.Unmarshal(body, &ack); err == nil && ack.Status == "accepted" {
			return "success"
		}
		return "success"
	case StatusOK:
		var ack AckResponse
		if err := json.Unmarshal(body, &ack); err == nil && ack.Duplicate {
			return "duplicate"
		}
		return "duplicate"
	default:
		return "failed"
	}
}
