// Package convert turns schema descriptions into API-document field schemas.
//
// The conversion is a pure, synchronous tree transformation:
//
//	Classify   maps one descriptor to an output kind
//	Build      turns one descriptor into a Field, recursing into objects and arrays
//	Walk       builds every field of a tree and hoists required markers
//	Assemble   wraps a walked schema into a root object schema
//
// Descriptor graphs must be acyclic. Descent stops at the configured maximum
// depth and the offending node is rendered as a bare object.
package convert

import (
	"log/slog"
	"strings"

	"github.com/mark3labs/model2swagger/internal/model"
)

const (
	// DefaultVersionKey is the document version field excluded from root schemas.
	DefaultVersionKey = "__v"
	// DefaultMaxDepth bounds recursion through nested descriptors.
	DefaultMaxDepth = 64

	idKey          = "id"
	dateTimeFormat = "date-time"
)

// Settings configures a Converter.
type Settings struct {
	// VersionKey is excluded from root properties. Empty disables the filter.
	VersionKey string
	// OmitFields are additional root-level names to exclude.
	OmitFields []string
	// Props lists extra descriptor attributes copied to the output.
	// Only "example" and "default" have an output slot.
	Props []string
	// StrictKinds folds kinds outside the closed vocabulary to object.
	StrictKinds bool
	// MaxDepth bounds recursion.
	MaxDepth int
	// Logger receives debug and warning records. Nil uses slog.Default().
	Logger *slog.Logger
}

// DefaultSettings returns recommended defaults.
func DefaultSettings() Settings {
	return Settings{
		VersionKey: DefaultVersionKey,
		MaxDepth:   DefaultMaxDepth,
	}
}

// Option mutates Settings.
type Option func(*Settings)

func WithVersionKey(key string) Option { return func(s *Settings) { s.VersionKey = key } }
func WithStrictKinds(strict bool) Option { return func(s *Settings) { s.StrictKinds = strict } }
func WithMaxDepth(n int) Option { return func(s *Settings) { s.MaxDepth = n } }
func WithLogger(l *slog.Logger) Option { return func(s *Settings) { s.Logger = l } }
func WithOmitFields(names ...string) Option { return func(s *Settings) { s.OmitFields = append(s.OmitFields, names...) } }
func WithProps(keys ...string) Option { return func(s *Settings) { s.Props = append(s.Props, keys...) } }

// Converter holds immutable conversion settings. It is safe for concurrent use.
type Converter struct {
	versionKey string
	omit       map[string]struct{}
	props      []string
	strict     bool
	maxDepth   int
	logger     *slog.Logger
}

// New returns a Converter configured by opts.
func New(opts ...Option) *Converter {
	settings := DefaultSettings()
	for _, opt := range opts {
		opt(&settings)
	}
	c := &Converter{
		versionKey: settings.VersionKey,
		omit:       make(map[string]struct{}, len(settings.OmitFields)),
		strict:     settings.StrictKinds,
		maxDepth:   settings.MaxDepth,
		logger:     settings.Logger,
	}
	if c.maxDepth <= 0 {
		c.maxDepth = DefaultMaxDepth
	}
	for _, name := range settings.OmitFields {
		if name = strings.TrimSpace(name); name != "" {
			c.omit[name] = struct{}{}
		}
	}
	for _, key := range settings.Props {
		key = strings.ToLower(strings.TrimSpace(key))
		if key == "" || containsString(c.props, key) {
			continue
		}
		c.props = append(c.props, key)
	}
	return c
}

var defaultConverter = New()

// Classify maps d to an output kind using default settings.
func Classify(d *model.Descriptor) model.Kind { return defaultConverter.Classify(d) }

// Walk builds every field of tree using default settings.
func Walk(tree *model.Tree) []*Field { return defaultConverter.Walk(tree) }

// Assemble converts a root schema using default settings.
func Assemble(s *model.Schema) *model.FieldSchema { return defaultConverter.Assemble(s) }

func (c *Converter) log() *slog.Logger {
	if c.logger != nil {
		return c.logger
	}
	return slog.Default()
}

func containsString(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}

func appendOnce(list []string, name string) []string {
	if containsString(list, name) {
		return list
	}
	return append(list, name)
}
