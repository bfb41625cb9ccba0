package resend

// Config holds Resend email provider configuration.
type Config struct {
	APIKey      string `envconfig:"RESEND_API_KEY"`
	SenderEmail string `envconfig:"RESEND_FROM_EMAIL"`
	SenderName  string `envconfig:"RESEND_FROM_NAME"`
}
