package utils

import (
	"fmt"
	"html"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// RunSummary is what the end-of-run email reports
type RunSummary struct {
	Total    int
	Scraped  int
	NotFound int
	Failed   []string
	Output   string
}

// Subject returns the summary email subject line
func (s RunSummary) Subject() string {
	return fmt.Sprintf("Vessel registry scrape: %d scraped, %d failed, %d not found", s.Scraped, len(s.Failed), s.NotFound)
}

// Text renders the plain text body
func (s RunSummary) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Processed %d URLs.\n", s.Total)
	fmt.Fprintf(&b, "Scraped: %d\nNot found: %d\nFailed: %d\n", s.Scraped, s.NotFound, len(s.Failed))
	if s.Output != "" {
		fmt.Fprintf(&b, "Output: %s\n", s.Output)
	}
	if len(s.Failed) > 0 {
		b.WriteString("\nFailed URLs:\n")
		for _, u := range s.Failed {
			b.WriteString(u)
			b.WriteString("\n")
		}
	}
	return b.String()
}

// HTML renders the html body
func (s RunSummary) HTML() string {
	var b strings.Builder
	fmt.Fprintf(&b, "<p>Processed %d URLs: %d scraped, %d not found, %d failed.</p>", s.Total, s.Scraped, s.NotFound, len(s.Failed))
	if s.Output != "" {
		fmt.Fprintf(&b, "<p>Output: %s</p>", html.EscapeString(s.Output))
	}
	if len(s.Failed) > 0 {
		b.WriteString("<ul>")
		for _, u := range s.Failed {
			fmt.Fprintf(&b, "<li>%s</li>", html.EscapeString(u))
		}
		b.WriteString("</ul>")
	}
	return b.String()
}

// SendEmail sends an email using SendGrid
func SendEmail(apiKey, fromEmail, toEmail, subject, textContent, htmlContent string) error {
	if apiKey == "" {
		return fmt.Errorf("SENDGRID_API_KEY is not set in environment variables")
	}

	from := mail.NewEmail("Vessel Registry Scraper", fromEmail)
	to := mail.NewEmail("", toEmail)
	message := mail.NewSingleEmail(from, subject, to, textContent, htmlContent)
	client := sendgrid.NewSendClient(apiKey)

	response, err := client.Send(message)
	if err != nil {
		utilLog.Error().Err(err).Str("to", toEmail).Msg("error sending email")
		return err
	}

	if response.StatusCode >= 400 {
		utilLog.Error().Int("status", response.StatusCode).Str("body", response.Body).Msg("SendGrid API error")
		return fmt.Errorf("failed to send email, status code: %d", response.StatusCode)
	}

	utilLog.Info().Str("to", toEmail).Int("status", response.StatusCode).Msg("email sent")
	return nil
}
