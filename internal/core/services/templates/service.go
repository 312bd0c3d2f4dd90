package templates

import (
	"context"

	"github.com/google/uuid"
)

// ITemplateService renders the starter code shown to a user
type ITemplateService interface {
	// Template returns the question's stored starter for the language when it
	// has one, otherwise a generated starter
	Template(ctx context.Context, req TemplateRequest) (*StarterTemplate, error)
}

type TemplateRequest struct {
	Language   string
	Title      string
	Params     []string
	QuestionID *uuid.UUID
}

type StarterTemplate struct {
	Language     string
	FunctionName string
	Template     string
	Stored       bool
}
