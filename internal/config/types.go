package config

import (
	"errors"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-playground/validator/v10"
	"github.com/samber/oops"

	"github.com/g5becks/ahkdoc/internal/errcode"
)

const (
	DefaultBaseURI = "."
	DefaultFile    = "ahkdoc.toml"
	validationGlob = "class_glob"
)

type Config struct {
	InputFile            string   `koanf:"input_file"             validate:"required"`
	OutputDir            string   `koanf:"output_dir"             validate:"required"`
	EmitIntermediateJSON bool     `koanf:"emit_intermediate_json"`
	IncludeHeaderIDs     bool     `koanf:"include_header_ids"`
	BaseURI              string   `koanf:"base_uri"`
	Parallel             int      `koanf:"parallel"               validate:"gte=0"`
	Exclude              []string `koanf:"exclude"                validate:"dive,required,class_glob"`
	ConfigDir            string   `koanf:"-"`
}

// Overrides carries command-line values. Nil pointers leave the file value
// untouched.
type Overrides struct {
	InputFile            *string
	OutputDir            *string
	BaseURI              *string
	EmitIntermediateJSON *bool
	IncludeHeaderIDs     *bool
	Parallel             *int
	Exclude              []string
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	_ = v.RegisterValidation(validationGlob, func(fl validator.FieldLevel) bool {
		return doublestar.ValidatePattern(fl.Field().String())
	})

	return v
}

func (c *Config) ApplyDefaults() {
	if strings.TrimSpace(c.BaseURI) == "" {
		c.BaseURI = DefaultBaseURI
	}
}

// Workers is the render concurrency limit.
func (c *Config) Workers() int {
	if c.Parallel > 0 {
		return c.Parallel
	}

	return runtime.GOMAXPROCS(0)
}

func (c *Config) apply(o Overrides) error {
	if o.InputFile != nil {
		input, err := absFromWorkDir(*o.InputFile)
		if err != nil {
			return err
		}

		c.InputFile = input
	}

	if o.OutputDir != nil {
		out, err := absFromWorkDir(*o.OutputDir)
		if err != nil {
			return err
		}

		c.OutputDir = out
	}

	if o.BaseURI != nil {
		c.BaseURI = *o.BaseURI
	}

	if o.EmitIntermediateJSON != nil {
		c.EmitIntermediateJSON = *o.EmitIntermediateJSON
	}

	if o.IncludeHeaderIDs != nil {
		c.IncludeHeaderIDs = *o.IncludeHeaderIDs
	}

	if o.Parallel != nil {
		c.Parallel = *o.Parallel
	}

	if len(o.Exclude) > 0 {
		c.Exclude = append(c.Exclude, o.Exclude...)
	}

	c.ApplyDefaults()
	return nil
}

func absFromWorkDir(path string) (string, error) {
	if path == "" || isURL(path) || filepath.IsAbs(path) {
		return path, nil
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", oops.Wrapf(err, "resolving path %q", path)
	}

	return abs, nil
}

func (c *Config) Validate() error {
	return c.validate()
}

// validate checks every field except the named ones.
func (c *Config) validate(except ...string) error {
	v := newValidator()

	var valErr error
	if len(except) > 0 {
		valErr = v.StructExcept(c, except...)
	} else {
		valErr = v.Struct(c)
	}

	if valErr == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(valErr, &validationErrors) || len(validationErrors) == 0 {
		return oops.
			Code(errcode.ConfigInvalid).
			Wrapf(valErr, "validating config")
	}

	return mapValidationError(c, validationErrors[0])
}

func mapValidationError(c *Config, fe validator.FieldError) error {
	field := strings.ToLower(fe.Field())

	switch {
	case fe.Tag() == "required" && field == "inputfile":
		return oops.
			Code(errcode.InputNotFound).
			With("field", "input_file").
			Hint("Set input_file in ahkdoc.toml or pass --input").
			Errorf("no input file configured")

	case fe.Tag() == "required" && field == "outputdir":
		return oops.
			Code(errcode.OutputDirMissing).
			With("field", "output_dir").
			Hint("Set output_dir in ahkdoc.toml or pass --output").
			Errorf("no output directory configured")

	case fe.Tag() == "gte" && field == "parallel":
		return oops.
			Code(errcode.ConfigInvalid).
			With("field", "parallel").
			With("value", c.Parallel).
			Hint("Use 0 for one worker per CPU").
			Errorf("parallel must not be negative, got %d", c.Parallel)

	case fe.Tag() == validationGlob:
		return oops.
			Code(errcode.ConfigInvalid).
			With("field", "exclude").
			With("value", fe.Value()).
			Hint("Exclude entries are doublestar globs matched against class names").
			Errorf("invalid exclude pattern %q", fe.Value())

	default:
		return oops.
			Code(errcode.ConfigInvalid).
			With("field", field).
			With("tag", fe.Tag()).
			Errorf("validation failed for field %q", field)
	}
}

// Excluded reports whether className matches one of the exclude globs.
func (c *Config) Excluded(className string) bool {
	for _, pattern := range c.Exclude {
		if matched, _ := doublestar.Match(pattern, className); matched {
			return true
		}
	}

	return false
}

func isURL(path string) bool {
	lower := strings.ToLower(path)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
