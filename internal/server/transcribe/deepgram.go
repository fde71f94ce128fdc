package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DeepgramClient calls the Deepgram prerecorded-audio REST API.
type DeepgramClient struct {
	apiKey       string
	baseEndpoint string
	httpClient   *http.Client
}

func NewDeepgramClient(apiKey, baseEndpoint string) *DeepgramClient {
	return &DeepgramClient{
		apiKey:       apiKey,
		baseEndpoint: baseEndpoint,
		httpClient:   &http.Client{Timeout: 60 * time.Second},
	}
}

type deepgramWord struct {
	Word  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

type deepgramResponse struct {
	Results struct {
		Channels []struct {
			Alternatives []struct {
				Transcript string         `json:"transcript"`
				Words      []deepgramWord `json:"words"`
			} `json:"alternatives"`
		} `json:"channels"`
	} `json:"results"`
}

func (c *DeepgramClient) Transcribe(ctx context.Context, audio []byte, mimeType string) (*Result, error) {
	url := c.baseEndpoint + "/v1/listen?punctuate=true"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(audio))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Authorization", "Token "+c.apiKey)
	req.Header.Set("Content-Type", mimeType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error calling deepgram: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("deepgram returned %d: %s", resp.StatusCode, body)
	}

	var decoded deepgramResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("error decoding deepgram response: %w", err)
	}

	if len(decoded.Results.Channels) == 0 || len(decoded.Results.Channels[0].Alternatives) == 0 {
		return &Result{}, nil
	}

	alt := decoded.Results.Channels[0].Alternatives[0]
	result := &Result{Transcript: alt.Transcript}
	for _, w := range alt.Words {
		result.Words = append(result.Words, Word{Word: w.Word, Start: w.Start, End: w.End})
	}

	return result, nil
}
