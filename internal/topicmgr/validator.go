package topicmgr

import (
	"fmt"
	"regexp"
	"strings"
)

// MaxNameLength bounds declared topic names.
const MaxNameLength = 100

// Validator checks topic definitions against the naming convention.
type Validator struct {
	namePattern   *regexp.Regexp
	modulePattern *regexp.Regexp
}

// NewValidator creates a new topic validator.
func NewValidator() *Validator {
	return &Validator{
		// <appNamespace>/<ModuleName>/<event>[/<sub>...]
		namePattern:   regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9]*(/[a-zA-Z][a-zA-Z0-9]*){2,}$`),
		modulePattern: regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`),
	}
}

// ValidateDefinition validates a topic definition.
func (v *Validator) ValidateDefinition(topic Topic) error {
	if topic == nil {
		return fmt.Errorf("topic cannot be nil")
	}

	if err := v.ValidateName(topic.Name()); err != nil {
		return fmt.Errorf("invalid topic name: %w", err)
	}

	if strings.TrimSpace(topic.Description()) == "" {
		return fmt.Errorf("topic description cannot be empty")
	}

	switch topic.Scope() {
	case ScopeFramework:
		if topic.Module() != "" {
			return fmt.Errorf("framework topics should not have a module")
		}
	case ScopeModule:
		if err := v.validateModuleTopic(topic); err != nil {
			return fmt.Errorf("module topic validation failed: %w", err)
		}
	default:
		return fmt.Errorf("invalid topic scope: %q", topic.Scope())
	}

	return nil
}

// ValidateName checks that name follows the namespaced naming convention.
func (v *Validator) ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("name cannot be empty")
	}
	if len(name) > MaxNameLength {
		return fmt.Errorf("name too long (max %d characters)", MaxNameLength)
	}
	if !v.namePattern.MatchString(name) {
		return fmt.Errorf("name must follow pattern: namespace/Module/event (alphanumeric segments separated by '/')")
	}
	return nil
}

func (v *Validator) validateModuleTopic(topic Topic) error {
	module := strings.TrimSpace(topic.Module())
	if module == "" {
		return fmt.Errorf("module topics must specify a module")
	}
	if len(module) > 50 {
		return fmt.Errorf("module name too long (max 50 characters)")
	}
	if !v.modulePattern.MatchString(module) {
		return fmt.Errorf("module name must be alphanumeric with underscores")
	}

	segments := strings.Split(topic.Name(), "/")
	if segments[1] != module {
		return fmt.Errorf("topic %q is not namespaced under module %q", topic.Name(), module)
	}
	return nil
}
