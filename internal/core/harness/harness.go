// Package harness wraps user code into runnable programs, one per test case.
//
// Each supported language is a LanguageProfile: it knows its backend id, how
// to find the solution entry point in user code, how to render a harness
// around it, and which starter template to show. Profiles are built once from
// the embedded language table and looked up through a Registry.
//
// A harness prints the result as a single JSON line. When the solution
// returns nothing, the (mutated) first argument is printed instead. Console
// output produced by the solution is buffered and printed after the result,
// below result.ConsoleDelimiter. Errors go to stderr with a non-zero exit.
package harness

import (
	"fmt"
	"strings"
	"text/template"

	"gitlab.com/jobprep-2025.net/internal/core/result"
	"gitlab.com/jobprep-2025.net/internal/domain"
	"gitlab.com/jobprep-2025.net/internal/static/errs"
)

// EntryPoint names the callable a harness invokes.
type EntryPoint struct {
	Name string
	// Receiver is the class declaring the method, empty for free functions.
	Receiver string
	// Fallback is called when Name turns out not to be callable at run time.
	// Set when Name was requested but not found by scanning the source.
	Fallback *EntryPoint
}

// EntryPointResolver finds the entry point in user source. The preferred
// name wins when it is declared; otherwise a language specific fallback is
// used. Interpreted languages keep an undetected preferred name and check it
// at run time. errs.EntryPointNotFound is returned when nothing callable exists.
type EntryPointResolver interface {
	Resolve(code, preferred string) (EntryPoint, error)
}

// LanguageProfile is everything the grader knows about one language.
type LanguageProfile interface {
	Name() string
	DisplayName() string
	LanguageID() int
	Resolver() EntryPointResolver
	BuildHarness(code string, input *Input, entry EntryPoint) (string, error)
	// DefaultTemplate renders starter code declaring functionName with the
	// given parameter names.
	DefaultTemplate(functionName string, params []string) string
}

type harnessData func(code string, input *Input, entry EntryPoint) (interface{}, error)

// profile is the shared LanguageProfile implementation; languages differ in
// resolver, templates and the data they feed the harness template.
type profile struct {
	spec     languageSpec
	resolver EntryPointResolver
	harness  *template.Template
	starter  *template.Template
	data     harnessData
}

func newProfile(spec languageSpec, resolver EntryPointResolver, harnessSrc string, data harnessData) (*profile, error) {
	h, err := template.New(spec.Name + "-harness").Parse(harnessSrc)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s harness: %w", spec.Name, err)
	}
	s, err := template.New(spec.Name + "-starter").Parse(spec.Starter)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s starter template: %w", spec.Name, err)
	}
	return &profile{
		spec:     spec,
		resolver: resolver,
		harness:  h,
		starter:  s,
		data:     data,
	}, nil
}

func (p *profile) Name() string                 { return p.spec.Name }
func (p *profile) DisplayName() string          { return p.spec.Display }
func (p *profile) LanguageID() int              { return p.spec.BackendID }
func (p *profile) Resolver() EntryPointResolver { return p.resolver }

func (p *profile) BuildHarness(code string, input *Input, entry EntryPoint) (string, error) {
	data, err := p.data(code, input, entry)
	if err != nil {
		return "", fmt.Errorf("failed to prepare %s harness: %w", p.spec.Name, err)
	}
	var sb strings.Builder
	if err := p.harness.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("failed to render %s harness: %w", p.spec.Name, err)
	}
	return sb.String(), nil
}

func (p *profile) DefaultTemplate(functionName string, params []string) string {
	if functionName == "" {
		functionName = domain.DefaultFunctionName
	}
	if len(params) == 0 {
		params = []string{defaultParam}
	}
	data := struct {
		FunctionName string
		Params       []string
	}{functionName, params}
	var sb strings.Builder
	if err := p.starter.Execute(&sb, data); err != nil {
		return ""
	}
	return sb.String()
}

// Generator renders harness programs for registered languages.
type Generator struct {
	registry *Registry
}

func NewGenerator(registry *Registry) *Generator {
	return &Generator{registry: registry}
}

// Generate returns a complete program running code against one test case input.
func (g *Generator) Generate(code string, languageID int, inputJSON string, functionName string) (string, error) {
	lang, ok := g.registry.ByID(languageID)
	if !ok {
		return "", fmt.Errorf("language id %d: %w", languageID, errs.UnsupportedLanguage)
	}
	if functionName == "" {
		functionName = domain.DefaultFunctionName
	}

	entry, err := lang.Resolver().Resolve(code, functionName)
	if err != nil {
		return "", err
	}

	input, err := ParseInput(inputJSON)
	if err != nil {
		return "", err
	}

	return lang.BuildHarness(code, input, entry)
}

// delimiter is shared by every harness template.
const delimiter = result.ConsoleDelimiter
