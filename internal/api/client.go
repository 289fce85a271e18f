package api

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"graphchat/internal/protocol"
)

// Client talks to a graphchat agent server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(server string) *Client {
	return &Client{
		baseURL: strings.TrimRight(server, "/"),
		httpClient: &http.Client{
			Timeout: 5 * time.Minute,
		},
	}
}

// StatusError is an application-level HTTP failure (non-2xx). Transport
// failures surface as plain wrapped errors instead.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server returned status %d", e.Code)
}

// ChunkCallback receives each decoded text chunk in arrival order.
type ChunkCallback func(text string)

// ChatStream sends one prompt to POST /chat and streams the response body
// through cb until end of stream. The request body is form-encoded with the
// user input and the conversation's thread id; the response is plain UTF-8
// text carrying the marker grammar. Bytes are decoded (never failing on bad
// input) and handed over exactly as the transport delivered them — marker
// matching downstream is per-chunk.
func (c *Client) ChatStream(userInput, threadID string, cb ChunkCallback) error {
	form := url.Values{}
	form.Set("user_input", userInput)
	form.Set("thread_id", threadID)

	req, err := http.NewRequest("POST", c.baseURL+"/chat", strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return &StatusError{Code: resp.StatusCode}
	}

	var dec protocol.Decoder
	buf := make([]byte, 4096)
	for {
		n, err := resp.Body.Read(buf)
		if n > 0 {
			if text := dec.Decode(buf[:n]); text != "" {
				cb(text)
			}
		}
		if err == io.EOF {
			if tail := dec.Flush(); tail != "" {
				cb(tail)
			}
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading stream: %w", err)
		}
	}
}
