// internal/fetch/fetch.go
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"seqsum-core/fasta"
	"seqsum/internal/version"
)

// DefaultBaseURL is the NCBI nucleotide text-retrieval endpoint.
const DefaultBaseURL = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/efetch.fcgi"

// apiKeyEnv names the optional credential appended to remote requests.
const apiKeyEnv = "NCBI_API_KEY"

// ProtocolError is a completed request answered with a non-success
// status. It is never retried.
type ProtocolError struct {
	Status int
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("HTTP response code: %d", e.Status)
}

// Client resolves sequence identifiers. A local path wins over a
// remote accession; remote requests retry transport failures with
// exponential backoff.
type Client struct {
	HTTP      *http.Client
	BaseURL   string
	UserAgent string
	Attempts  int
	Backoff   time.Duration
}

// NewClient returns a client with the fixed archive endpoint and the
// standard retry policy (3 attempts, 100 ms doubling backoff). timeout
// bounds each individual attempt.
func NewClient(timeout time.Duration) *Client {
	return &Client{
		HTTP:      &http.Client{Timeout: timeout},
		BaseURL:   DefaultBaseURL,
		UserAgent: "seqsum/" + version.Version,
		Attempts:  3,
		Backoff:   100 * time.Millisecond,
	}
}

// CloseIdle releases the client's pooled connections. Safe on every
// exit path.
func (c *Client) CloseIdle() {
	if c.HTTP != nil {
		c.HTTP.CloseIdleConnections()
	}
}

// Fetch resolves id to raw record text. An existing local path is read
// verbatim (gzip-aware); anything else is treated as a remote
// accession.
func (c *Client) Fetch(ctx context.Context, id string) ([]byte, error) {
	if _, err := os.Stat(id); err == nil {
		data, rerr := fasta.ReadFile(id)
		if rerr != nil {
			return nil, fmt.Errorf("read %s: %w", id, rerr)
		}
		return data, nil
	}
	return c.fetchRemote(ctx, id)
}

func (c *Client) url(accession string) string {
	u := c.BaseURL + "?db=nuccore&id=" + url.QueryEscape(accession) + "&rettype=fasta&retmode=text"
	if key := os.Getenv(apiKeyEnv); key != "" {
		u += "&api_key=" + url.QueryEscape(key)
	}
	return u
}

// fetchRemote performs the archive request. Transport failures are
// retried up to c.Attempts times; a completed request with a
// non-success status is a *ProtocolError and fails immediately.
func (c *Client) fetchRemote(ctx context.Context, accession string) ([]byte, error) {
	u := c.url(accession)

	var lastErr error
	for attempt := 0; attempt < c.Attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(c.Backoff << (attempt - 1)):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", accession, err)
		}
		req.Header.Set("User-Agent", c.UserAgent)

		resp, err := c.HTTP.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = err
			continue
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			_, _ = io.Copy(io.Discard, resp.Body)
			_ = resp.Body.Close()
			return nil, &ProtocolError{Status: resp.StatusCode}
		}
		body, err := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}
		return body, nil
	}
	return nil, fmt.Errorf("fetch %s: network error after %d attempts: %w", accession, c.Attempts, lastErr)
}
