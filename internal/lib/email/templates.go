package email

// Template names an embedded HTML email template.
type Template string

const (
	// TemplateWelcome greets a newly registered user.
	TemplateWelcome Template = "welcome"
)
