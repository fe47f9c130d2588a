package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultEndpoint = "https://api.resend.com/emails"

// resendClient is the concrete Sender backed by the Resend API.
type resendClient struct {
	apiKey     string
	fromAddr   string // e.g. "results@example.com"
	fromName   string // e.g. "Quiz Results"
	baseURL    string // result access URL base, e.g. "https://quiz.example.com"
	endpoint   string
	httpClient *http.Client
}

// Option configures a Resend client.
type Option func(*resendClient)

// WithEndpoint overrides the Resend API URL. Tests point it at httptest.
func WithEndpoint(url string) Option {
	return func(c *resendClient) { c.endpoint = url }
}

// WithHTTPClient replaces the default 15s-timeout client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *resendClient) { c.httpClient = hc }
}

// NewResendClient returns a Sender that delivers email via Resend.
func NewResendClient(apiKey, fromAddr, fromName, baseURL string, opts ...Option) Sender {
	c := &resendClient{
		apiKey:   apiKey,
		fromAddr: fromAddr,
		fromName: fromName,
		baseURL:  strings.TrimRight(baseURL, "/"),
		endpoint: defaultEndpoint,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// ─── RESEND API SHAPES ────────────────────────────────────────────────────────

type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

type resendResponse struct {
	ID    string `json:"id"`
	Error *struct {
		Name       string `json:"name"`
		Message    string `json:"message"`
		StatusCode int    `json:"statusCode"`
	} `json:"error"`
}

// ─── SENDER IMPLEMENTATION ────────────────────────────────────────────────────

// SendResultReady sends the "your result is ready" delivery email.
func (c *resendClient) SendResultReady(ctx context.Context, p ResultReadyParams) error {
	subject := "Your quiz result is ready"
	if p.QuizTitle != "" {
		subject = fmt.Sprintf("%s: your result is ready", p.QuizTitle)
	}

	html, err := render(resultReadyTmpl, mailData{
		Title: p.QuizTitle,
		URL:   resultURL(c.baseURL, p.AccessToken),
	})
	if err != nil {
		return err
	}
	return c.send(ctx, p.To, subject, html)
}

// SendReceipt sends the premium-unlock receipt email.
func (c *resendClient) SendReceipt(ctx context.Context, p ReceiptParams) error {
	subject := "Your payment was received"
	if p.QuizTitle != "" {
		subject = fmt.Sprintf("%s: full report unlocked", p.QuizTitle)
	}

	data := mailData{
		Title:  p.QuizTitle,
		Amount: formatAmount(p.AmountCents, p.Currency),
	}
	if p.AccessToken != "" {
		data.URL = resultURL(c.baseURL, p.AccessToken)
	}
	html, err := render(receiptTmpl, data)
	if err != nil {
		return err
	}
	return c.send(ctx, p.To, subject, html)
}

// ─── HTTP SEND ────────────────────────────────────────────────────────────────

func (c *resendClient) send(ctx context.Context, to, subject, html string) error {
	from := fmt.Sprintf("%s <%s>", c.fromName, c.fromAddr)

	bodyBytes, err := json.Marshal(resendRequest{
		From:    from,
		To:      []string{to},
		Subject: subject,
		HTML:    html,
	})
	if err != nil {
		return fmt.Errorf("email: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return fmt.Errorf("email: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("email: http request: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return fmt.Errorf("email: read response: %w", err)
	}

	var parsed resendResponse
	if err := json.Unmarshal(respBytes, &parsed); err != nil {
		return fmt.Errorf("email: unmarshal response (status %d): %w", resp.StatusCode, err)
	}
	if parsed.Error != nil {
		return fmt.Errorf("email: Resend error %s: %s", parsed.Error.Name, parsed.Error.Message)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("email: unexpected status %d: %.200s", resp.StatusCode, string(respBytes))
	}
	return nil
}

// ─── HTML TEMPLATES ───────────────────────────────────────────────────────────

type mailData struct {
	Title  string
	URL    string
	Amount string
}

func resultURL(baseURL, accessToken string) string {
	return fmt.Sprintf("%s/result/%s", baseURL, accessToken)
}

func formatAmount(cents int64, currency string) string {
	amount := fmt.Sprintf("%.2f", float64(cents)/100)
	if currency == "" || strings.EqualFold(currency, "usd") {
		return "$" + amount
	}
	return amount + " " + strings.ToUpper(currency)
}

func render(t *template.Template, data mailData) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("email: render %s: %w", t.Name(), err)
	}
	return buf.String(), nil
}

const footer = `
  <hr style="border: none; border-top: 1px solid #e5e7eb; margin: 32px 0;">
  <p style="color: #9ca3af; font-size: 12px;">No account required. Keep this email to return to your result.</p>
</body>
</html>`

var resultReadyTmpl = template.Must(template.New("result_ready").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"></head>
<body style="font-family: sans-serif; color: #1a1a1a; max-width: 560px; margin: 0 auto; padding: 24px;">
  <h2 style="margin-bottom: 8px;">Your result is ready</h2>
  <p>{{if .Title}}Thanks for taking <strong>{{.Title}}</strong>.{{else}}Thanks for taking the quiz.{{end}}
  Your scores and their interpretation are waiting for you.</p>
  <p style="margin: 32px 0;">
    <a href="{{.URL}}"
       style="background: #0f172a; color: #ffffff; padding: 12px 24px;
              border-radius: 6px; text-decoration: none; font-weight: 600;">
      View your result
    </a>
  </p>
  <p style="color: #6b7280; font-size: 14px;">
    If the button above does not work, copy this URL:<br>
    <a href="{{.URL}}" style="color: #6b7280;">{{.URL}}</a>
  </p>` + footer))

var receiptTmpl = template.Must(template.New("receipt").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"></head>
<body style="font-family: sans-serif; color: #1a1a1a; max-width: 560px; margin: 0 auto; padding: 24px;">
  <h2 style="margin-bottom: 8px;">Payment confirmed</h2>
  <p>We have received your payment of <strong>{{.Amount}}</strong>{{if .Title}} for {{.Title}}{{end}}.
  Personalised recommendations are now unlocked on your result.</p>
  {{if .URL}}<p><a href="{{.URL}}">Open your full result</a></p>
  {{else}}<p>Finish the quiz to see your full result.</p>{{end}}` + footer))
