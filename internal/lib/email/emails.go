package email

// SendWelcomeEmail sends the post-registration greeting.
func (c *Client) SendWelcomeEmail(to, name string) error {
	if name == "" {
		name = "there"
	}
	return c.SendEmail(to, "Welcome to Recipe API", TemplateWelcome, map[string]string{
		"Name": name,
	})
}
