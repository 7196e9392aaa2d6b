package domain

import (
	"fmt"
	"go/token"
	"regexp"

	"github.com/go-playground/validator/v10"

	"ducktape.dev/pkg/ducktape/internal/adapter"
)

const (
	// DefaultFilePattern matches test_*.go and *_test.go.
	DefaultFilePattern = `(^test_.*\.go$)|(^.*_test\.go$)`

	// DefaultMethodPattern matches Run, Test* and *Test.
	DefaultMethodPattern = `(^Run$)|(^Test.*$)|(^.*Test$)`

	// DefaultFallbackMethod is scheduled when a type declares no test method
	// itself; some ancestor is expected to provide it.
	DefaultFallbackMethod = "Run"

	// DefaultCapability is the type every test type embeds.
	DefaultCapability = "ducktape.dev/pkg/ducktape/pkg/test.Test"
)

var optionsValidate *validator.Validate

func init() {
	optionsValidate = validator.New()

	_ = optionsValidate.RegisterValidation("regexp", validateRegexp)
	_ = optionsValidate.RegisterValidation("method_name", validateMethodName)
}

func validateRegexp(fl validator.FieldLevel) bool {
	_, err := regexp.Compile(fl.Field().String())
	return err == nil
}

// validateMethodName accepts names reflection can call: exported Go
// identifiers, underscores included.
func validateMethodName(fl validator.FieldLevel) bool {
	name := fl.Field().String()
	return token.IsIdentifier(name) && token.IsExported(name)
}

// Options tune discovery. Zero values are replaced by defaults in
// WithDefaults.
type Options struct {
	FilePattern    string `mapstructure:"file_pattern" yaml:"file_pattern" validate:"required,regexp"`
	MethodPattern  string `mapstructure:"method_pattern" yaml:"method_pattern" validate:"required,regexp"`
	PackageMarker  string `mapstructure:"package_marker" yaml:"package_marker" validate:"required,excludesall=/\\"`
	FallbackMethod string `mapstructure:"fallback_method" yaml:"fallback_method" validate:"required,method_name"`
	Capability     string `mapstructure:"capability" yaml:"capability" validate:"required"`
}

// DefaultOptions returns the stock configuration.
func DefaultOptions() Options {
	return Options{
		FilePattern:    DefaultFilePattern,
		MethodPattern:  DefaultMethodPattern,
		PackageMarker:  adapter.DefaultPackageMarker,
		FallbackMethod: DefaultFallbackMethod,
		Capability:     DefaultCapability,
	}
}

// WithDefaults fills empty fields from DefaultOptions.
func (o Options) WithDefaults() Options {
	d := DefaultOptions()

	if o.FilePattern == "" {
		o.FilePattern = d.FilePattern
	}

	if o.MethodPattern == "" {
		o.MethodPattern = d.MethodPattern
	}

	if o.PackageMarker == "" {
		o.PackageMarker = d.PackageMarker
	}

	if o.FallbackMethod == "" {
		o.FallbackMethod = d.FallbackMethod
	}

	if o.Capability == "" {
		o.Capability = d.Capability
	}

	return o
}

// Validate checks every field.
func (o Options) Validate() error {
	if err := optionsValidate.Struct(o); err != nil {
		return fmt.Errorf("invalid discovery options: %w", err)
	}

	return nil
}

type compiledOptions struct {
	Options
	filePattern   *regexp.Regexp
	methodPattern *regexp.Regexp
}

func (o Options) compile() (compiledOptions, error) {
	o = o.WithDefaults()
	if err := o.Validate(); err != nil {
		return compiledOptions{}, err
	}

	return compiledOptions{
		Options:       o,
		filePattern:   regexp.MustCompile(o.FilePattern),
		methodPattern: regexp.MustCompile(o.MethodPattern),
	}, nil
}
