package email

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"
)

// EmailConfig holds SMTP configuration
type EmailConfig struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromName     string
	FromEmail    string
}

// DocumentEmail is the render model for a document notification email.
type DocumentEmail struct {
	CompanyName  string
	DocumentKind string // "Invoice", "E-Invoice", "Quotation"
	Number       string
	CustomerName string
	IssueDate    string
	DueDate      string
	Currency     string
	Total        string
	Outstanding  string
	Lines        []DocumentEmailLine
}

// DocumentEmailLine is a single priced line in the email body.
type DocumentEmailLine struct {
	Description string
	Quantity    string
	UnitPrice   string
	Total       string
}

// EmailService handles email sending
type EmailService struct {
	config EmailConfig
}

// NewEmailService creates a new email service
func NewEmailService(config EmailConfig) *EmailService {
	return &EmailService{config: config}
}

// SendDocumentEmail sends a document summary to the customer.
func (s *EmailService) SendDocumentEmail(toEmail string, doc DocumentEmail) error {
	htmlContent, err := s.renderDocumentEmail(doc)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	subject := fmt.Sprintf("%s %s from %s", doc.DocumentKind, doc.Number, doc.CompanyName)
	message := s.buildHTMLEmail(toEmail, subject, htmlContent)

	return s.sendEmail(toEmail, message)
}

// sendEmail sends an email using SMTP
func (s *EmailService) sendEmail(to string, message []byte) error {
	addr := fmt.Sprintf("%s:%d", s.config.SMTPHost, s.config.SMTPPort)

	auth := smtp.PlainAuth("", s.config.SMTPUsername, s.config.SMTPPassword, s.config.SMTPHost)

	err := smtp.SendMail(addr, auth, s.config.FromEmail, []string{to}, message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

// buildHTMLEmail builds an HTML email message
func (s *EmailService) buildHTMLEmail(to, subject, htmlBody string) []byte {
	headers := fmt.Sprintf(
		"From: %s <%s>\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=\"UTF-8\"\r\n"+
			"\r\n",
		s.config.FromName,
		s.config.FromEmail,
		to,
		subject,
	)

	return []byte(headers + htmlBody)
}

// renderDocumentEmail renders the document summary email template
func (s *EmailService) renderDocumentEmail(doc DocumentEmail) (string, error) {
	tmpl, err := template.New("document").Parse(documentTemplate)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, doc); err != nil {
		return "", err
	}

	return buf.String(), nil
}

// documentTemplate is the HTML template for document summary emails
const documentTemplate = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.DocumentKind}} {{.Number}}</title>
</head>
<body style="margin: 0; padding: 0; font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; background-color: #f4f7fa;">
    <table role="presentation" style="width: 100%; border-collapse: collapse;">
        <tr>
            <td style="padding: 40px 0;">
                <table role="presentation" style="max-width: 600px; margin: 0 auto; background-color: #ffffff; border-radius: 12px; overflow: hidden; box-shadow: 0 4px 6px rgba(0, 0, 0, 0.1);">
                    <!-- Header -->
                    <tr>
                        <td style="background: linear-gradient(135deg, #2b5876 0%, #4e4376 100%); padding: 40px 30px; text-align: center;">
                            <h1 style="color: #ffffff; margin: 0; font-size: 28px; font-weight: 600;">{{.CompanyName}}</h1>
                        </td>
                    </tr>

                    <!-- Content -->
                    <tr>
                        <td style="padding: 40px 30px;">
                            <h2 style="color: #1a1a2e; margin: 0 0 20px 0; font-size: 24px; font-weight: 600;">{{.DocumentKind}} {{.Number}}</h2>

                            <p style="color: #4a5568; font-size: 16px; line-height: 1.6; margin: 0 0 20px 0;">
                                Dear {{.CustomerName}},
                            </p>

                            <p style="color: #4a5568; font-size: 16px; line-height: 1.6; margin: 0 0 20px 0;">
                                Please find the details of your {{.DocumentKind}} dated <strong>{{.IssueDate}}</strong> below.
                            </p>

                            <table role="presentation" style="width: 100%; border-collapse: collapse; margin: 0 0 20px 0;">
                                <tr style="background-color: #f8fafc;">
                                    <th style="text-align: left; padding: 10px; color: #4a5568; font-size: 14px; border-bottom: 1px solid #e2e8f0;">Description</th>
                                    <th style="text-align: right; padding: 10px; color: #4a5568; font-size: 14px; border-bottom: 1px solid #e2e8f0;">Qty</th>
                                    <th style="text-align: right; padding: 10px; color: #4a5568; font-size: 14px; border-bottom: 1px solid #e2e8f0;">Unit Price</th>
                                    <th style="text-align: right; padding: 10px; color: #4a5568; font-size: 14px; border-bottom: 1px solid #e2e8f0;">Total</th>
                                </tr>
                                {{range .Lines}}
                                <tr>
                                    <td style="padding: 10px; color: #4a5568; font-size: 14px; border-bottom: 1px solid #edf2f7;">{{.Description}}</td>
                                    <td style="text-align: right; padding: 10px; color: #4a5568; font-size: 14px; border-bottom: 1px solid #edf2f7;">{{.Quantity}}</td>
                                    <td style="text-align: right; padding: 10px; color: #4a5568; font-size: 14px; border-bottom: 1px solid #edf2f7;">{{.UnitPrice}}</td>
                                    <td style="text-align: right; padding: 10px; color: #4a5568; font-size: 14px; border-bottom: 1px solid #edf2f7;">{{.Total}}</td>
                                </tr>
                                {{end}}
                            </table>

                            <p style="color: #1a1a2e; font-size: 18px; text-align: right; margin: 0 0 10px 0;">
                                Total: <strong>{{.Total}} {{.Currency}}</strong>
                            </p>
                            {{if .DueDate}}
                            <p style="color: #718096; font-size: 14px; text-align: right; margin: 0 0 10px 0;">
                                Due by {{.DueDate}} &mdash; outstanding {{.Outstanding}} {{.Currency}}
                            </p>
                            {{end}}
                        </td>
                    </tr>

                    <!-- Footer -->
                    <tr>
                        <td style="background-color: #f8fafc; padding: 30px; text-align: center; border-top: 1px solid #e2e8f0;">
                            <p style="color: #a0aec0; font-size: 14px; margin: 0 0 10px 0;">
                                This email was sent by {{.CompanyName}}
                            </p>
                            <p style="color: #cbd5e0; font-size: 12px; margin: 0;">
                                Thank you for your business.
                            </p>
                        </td>
                    </tr>
                </table>
            </td>
        </tr>
    </table>
</body>
</html>
`
