package config

import (
	"reflect"
	"sync"
	"time"
)

// EnvMapping ties an environment variable to the config path it sets
type EnvMapping struct {
	EnvVar     string
	ConfigPath string
	Sensitive  bool
}

// configField describes one koanf path of Config as read from its tags
type configField struct {
	path      string
	env       string
	sensitive bool
}

var (
	sensitiveType = reflect.TypeFor[SensitiveString]()
	durationType  = reflect.TypeFor[time.Duration]()
)

// configFields is computed once; Config tags never change at runtime
var configFields = sync.OnceValue(func() []configField {
	return walkConfig(reflect.TypeFor[Config](), "", nil)
})

var fieldsByPath = sync.OnceValue(func() map[string]configField {
	fields := configFields()
	out := make(map[string]configField, len(fields))
	for _, f := range fields {
		out[f.path] = f
	}
	return out
})

// walkConfig appends every tagged field of t, depth first. Nested sections
// are listed before their children.
func walkConfig(t reflect.Type, prefix string, out []configField) []configField {
	for i := range t.NumField() {
		sf := t.Field(i)
		name := sf.Tag.Get("koanf")
		if !sf.IsExported() || name == "" || name == "-" {
			continue
		}
		path := name
		if prefix != "" {
			path = prefix + "." + name
		}
		f := configField{
			path:      path,
			sensitive: sf.Type == sensitiveType || sf.Tag.Get("sensitive") == "true",
		}
		if env := sf.Tag.Get("env"); env != "-" {
			f.env = env
		}
		out = append(out, f)
		if sf.Type.Kind() == reflect.Struct && sf.Type != durationType && sf.Type.PkgPath() != "time" {
			out = walkConfig(sf.Type, path, out)
		}
	}
	return out
}

// GenerateEnvMappings lists every config path that can be set from the
// environment, in declaration order.
func GenerateEnvMappings() []EnvMapping {
	var mappings []EnvMapping
	for _, f := range configFields() {
		if f.env == "" {
			continue
		}
		mappings = append(mappings, EnvMapping{EnvVar: f.env, ConfigPath: f.path, Sensitive: f.sensitive})
	}
	return mappings
}

// GenerateEnvToConfigMap maps env var names to config paths
func GenerateEnvToConfigMap() map[string]string {
	mappings := GenerateEnvMappings()
	out := make(map[string]string, len(mappings))
	for _, m := range mappings {
		out[m.EnvVar] = m.ConfigPath
	}
	return out
}

// IsSensitiveConfigPath reports whether a config path holds a secret.
// Unknown paths are not sensitive.
func IsSensitiveConfigPath(configPath string) bool {
	return fieldsByPath()[configPath].sensitive
}
