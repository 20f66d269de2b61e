// Package insights calls an external text-generation service to turn
// an account's roster and shift log into a short plain-text summary.
//
// The call is strictly read-only and strictly best-effort: it never
// touches account state, and every failure path returns a fixed
// fallback string instead of an error the caller would have to handle.
package insights

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/wagetrack/wagetrack/internal/config"
	"github.com/wagetrack/wagetrack/internal/logging"
	"github.com/wagetrack/wagetrack/internal/model"
)

// Fallback is returned whenever the service is unconfigured,
// unreachable, or answers with garbage.
const Fallback = "The AI analyzer is currently unavailable. Please check your network or try again later."

// Analyzer sends wage data to the insights endpoint with retry logic.
type Analyzer struct {
	client     *http.Client
	url        string
	key        string
	maxRetries int
	retryDelay time.Duration
}

// NewAnalyzer creates an analyzer from the runtime config.
func NewAnalyzer() *Analyzer {
	cfg := config.Global.HTTP
	return &Analyzer{
		client:     &http.Client{Timeout: cfg.Timeout},
		url:        cfg.InsightsURL,
		key:        cfg.InsightsKey,
		maxRetries: cfg.MaxRetries,
		retryDelay: time.Second,
	}
}

type request struct {
	Prompt string `json:"prompt"`
}

type response struct {
	Text string `json:"text"`
}

// Summarize returns a plain-text analysis of the roster and shifts, or
// the fallback string. It never returns an error.
func (a *Analyzer) Summarize(ctx context.Context, state model.AppState) string {
	if a.url == "" {
		return Fallback
	}

	body, err := json.Marshal(request{Prompt: buildPrompt(state)})
	if err != nil {
		return Fallback
	}

	for attempt := 0; attempt <= a.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return Fallback
			case <-time.After(a.retryDelay):
			}
		}

		text, retry := a.send(ctx, body)
		if text != "" {
			return text
		}
		if !retry {
			break
		}
	}
	return Fallback
}

// send performs one request. It returns the summary text on success,
// or whether the failure is worth retrying.
func (a *Analyzer) send(ctx context.Context, body []byte) (text string, retry bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.url, bytes.NewReader(body))
	if err != nil {
		return "", false
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "WageTrack/1.0")
	if a.key != "" {
		req.Header.Set("Authorization", "Bearer "+a.key)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		logging.DebugLog("insights request failed", logging.KeyError, err.Error())
		return "", true
	}
	raw, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		var out response
		if err := json.Unmarshal(raw, &out); err != nil || strings.TrimSpace(out.Text) == "" {
			return "", false
		}
		return out.Text, false
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		logging.DebugLog("insights service error",
			logging.KeyStatus, fmt.Sprintf("%d", resp.StatusCode))
		return "", true
	default:
		// Client error, retrying won't help.
		return "", false
	}
}

// buildPrompt flattens the account data into the analysis prompt.
func buildPrompt(state model.AppState) string {
	var sb strings.Builder
	sb.WriteString("Analyze this wage tracking data and summarize hours, earnings, and anything notable.\n\nEmployees:\n")
	for _, e := range state.Employees {
		fmt.Fprintf(&sb, "- %s (%s), $%.2f/h\n", e.Name, e.Role, e.HourlyRate)
	}
	sb.WriteString("\nShifts:\n")
	for _, s := range state.Shifts {
		emp, _ := state.Employee(s.EmployeeID)
		fmt.Fprintf(&sb, "- %s on %s: %s-%s, %.2fh, $%.2f\n",
			emp.Name, s.Date, s.ClockIn, s.ClockOut, s.TotalHours, s.EarnedWage)
	}
	return sb.String()
}
