package config

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/alexisbeaulieu97/rmenu/internal/model"
	rmenuerrors "github.com/alexisbeaulieu97/rmenu/pkg/errors"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate

	pluginNamePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]*$`)
)

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()

		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("yaml"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})

		_ = v.RegisterValidation("plugin_name", func(fl validator.FieldLevel) bool {
			return pluginNamePattern.MatchString(fl.Field().String())
		})

		_ = v.RegisterValidation("chord", func(fl validator.FieldLevel) bool {
			_, err := ParseChord(fl.Field().String())
			return err == nil
		})

		validateInst = v
	})

	return validateInst
}

// ValidateConfig performs schema and cross-field validation on the configuration.
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return rmenuerrors.NewValidationError("config", "configuration is nil", nil)
	}

	v := validatorInstance()
	if err := v.Struct(cfg); err != nil {
		return convertValidationError(err)
	}

	if err := validateSearch("search", cfg.Search.Restrict, cfg.Search.MinLength, cfg.Search.MaxLength); err != nil {
		return err
	}

	base := cfg.Keybinds.ByAction()
	if _, err := NewKeyTable(base); err != nil {
		return err
	}

	seen := make(map[string]bool, len(cfg.PluginOrder))
	for i, name := range cfg.PluginOrder {
		field := fmt.Sprintf("plugin_order[%d]", i)
		if _, ok := cfg.Plugins[name]; !ok {
			return rmenuerrors.NewValidationError(field, fmt.Sprintf("references unknown plugin %q", name), nil)
		}
		if seen[name] {
			return rmenuerrors.NewValidationError(field, fmt.Sprintf("plugin %q listed twice", name), nil)
		}
		seen[name] = true
	}

	for _, name := range sortedKeys(cfg.Plugins) {
		if err := ValidatePlugin(Plugin{Name: name, PluginConfig: cfg.Plugins[name]}, base); err != nil {
			return err
		}
	}

	return nil
}

// ValidatePlugin checks the reserved options of a single plugin against the
// global key bindings they layer onto.
func ValidatePlugin(p Plugin, base map[model.KeyAction][]string) error {
	if err := validatorInstance().Struct(p.PluginConfig); err != nil {
		return convertValidationError(err)
	}

	if v, ok := p.Options["timeout"]; ok {
		if secs, ok := v.AsInt(); !ok || secs <= 0 {
			return rmenuerrors.NewValidationError(pluginField(p.Name, "options.timeout"), "must be a positive number of seconds", nil)
		}
	}

	overrides := p.Overrides()
	for field, value := range map[string]*int{
		"options.page_size": overrides.PageSize,
		"options.jump_dist": overrides.JumpDist,
	} {
		if value != nil && *value < 1 {
			return rmenuerrors.NewValidationError(pluginField(p.Name, field), "must be at least 1", nil)
		}
	}

	restrict := ""
	if overrides.SearchRestrict != nil {
		restrict = *overrides.SearchRestrict
	}
	minLen, maxLen := 0, 0
	if overrides.SearchMinLength != nil {
		minLen = *overrides.SearchMinLength
	}
	if overrides.SearchMaxLength != nil {
		maxLen = *overrides.SearchMaxLength
	}
	if err := validateSearch(pluginField(p.Name, "options"), restrict, minLen, maxLen); err != nil {
		return err
	}

	if keys := overrides.Keys(); len(keys) > 0 {
		if _, err := NewKeyTable(base, keys); err != nil {
			var ve *rmenuerrors.ValidationError
			if errors.As(err, &ve) {
				ve.Field = pluginField(p.Name, "options."+strings.TrimPrefix(ve.Field, "keybinds."))
			}
			return err
		}
	}

	return nil
}

func validateSearch(prefix, restrict string, minLen, maxLen int) error {
	if restrict != "" {
		if _, err := regexp.Compile(restrict); err != nil {
			return rmenuerrors.NewValidationError(prefix+".restrict", "invalid pattern", err)
		}
	}
	if minLen < 0 || maxLen < 0 {
		return rmenuerrors.NewValidationError(prefix, "length limits cannot be negative", nil)
	}
	if maxLen > 0 && minLen > maxLen {
		return rmenuerrors.NewValidationError(prefix+".max_length", fmt.Sprintf("must not be below min_length (%d)", minLen), nil)
	}
	return nil
}

func convertValidationError(err error) error {
	if err == nil {
		return nil
	}

	if ves, ok := err.(validator.ValidationErrors); ok {
		ve := ves[0]
		field := yamlishFieldName(ve)
		msg := fmt.Sprintf("%s failed validation for tag '%s'", field, ve.Tag())
		return rmenuerrors.NewValidationError(field, msg, err)
	}

	return rmenuerrors.NewValidationError("config", err.Error(), err)
}

// yamlishFieldName drops the root struct name from the namespace, which is
// otherwise already built from yaml tags.
func yamlishFieldName(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		ns = ns[i+1:]
	}
	return ns
}

func pluginField(name, field string) string {
	return fmt.Sprintf("plugins.%s.%s", name, field)
}

func unknownPluginError(name string) error {
	return rmenuerrors.NewValidationError("plugins", fmt.Sprintf("unknown plugin %q", name), nil)
}

func sortedKeys(plugins map[string]PluginConfig) []string {
	names := make([]string, 0, len(plugins))
	for name := range plugins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
