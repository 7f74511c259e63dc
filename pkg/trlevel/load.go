package trlevel

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// LoadOptions carries the caller's explicit assertions and collaborators for
// one decode. The dispatcher never guesses a variant: Remastered, Demo and
// Platform are taken as given.
type LoadOptions struct {
	// Filename is a name hint. A .TRC extension selects Tomb5 for levels that
	// carry the TR4 version word.
	Filename   string
	Platform   Platform
	Remastered bool
	Demo       bool
	// Version asserts the engine generation of a PlayStation level. TR4 and
	// TR5 PlayStation levels have no version word and need it.
	Version LevelVersion

	// Decrypter is required for obfuscated levels.
	Decrypter Decrypter
	// Logger receives the section-by-section activity trail at debug level.
	Logger *zap.Logger
	// TypeInfo names item types and classifies pickups. Defaults to the
	// embedded table.
	TypeInfo *TypeInfoLookup
}

// Option configures a Load call.
type Option func(*LoadOptions)

// WithFilename sets the file name hint.
func WithFilename(name string) Option {
	return func(o *LoadOptions) { o.Filename = name }
}

// WithPlatform asserts the platform the level was built for.
func WithPlatform(p Platform) Option {
	return func(o *LoadOptions) { o.Platform = p }
}

// WithVersion asserts the engine generation of a PlayStation level.
func WithVersion(v LevelVersion) Option {
	return func(o *LoadOptions) { o.Version = v }
}

// WithRemastered asserts that the level comes from a remastered release.
func WithRemastered(remastered bool) Option {
	return func(o *LoadOptions) { o.Remastered = remastered }
}

// WithDemo asserts the TR1 demo layout.
func WithDemo(demo bool) Option {
	return func(o *LoadOptions) { o.Demo = demo }
}

// WithDecrypter sets the decrypter used for obfuscated level data.
func WithDecrypter(d Decrypter) Option {
	return func(o *LoadOptions) { o.Decrypter = d }
}

// WithLogger sets the activity logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *LoadOptions) { o.Logger = l }
}

// WithTypeInfo replaces the embedded type-info table.
func WithTypeInfo(t *TypeInfoLookup) Option {
	return func(o *LoadOptions) { o.TypeInfo = t }
}

func newLoadOptions(opts []Option) LoadOptions {
	var o LoadOptions
	for _, opt := range opts {
		opt(&o)
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.TypeInfo == nil {
		o.TypeInfo = DefaultTypeInfo()
	}
	return o
}

type decodeFunc func(d *decoder) error

// decoders is the exhaustive dispatch table. A Format missing here fails
// detection with ErrUnrecognisedFormat.
var decoders = map[Format]decodeFunc{
	{Version: Tomb1, Platform: PC}:                   decodeTR1,
	{Version: Tomb1, Platform: PC, Demo: true}:       decodeTR1,
	{Version: Tomb1, Platform: PC, Remastered: true}: decodeTR1,
	{Version: Tomb2, Platform: PC}:                   decodeTR2,
	{Version: Tomb2, Platform: PC, Remastered: true}: decodeTR2,
	{Version: Tomb3, Platform: PC}:                   decodeTR3,
	{Version: Tomb3, Platform: PC, Remastered: true}: decodeTR3,
	{Version: Tomb4, Platform: PC}:                   decodeTR4,
	{Version: Tomb4, Platform: PC, Obfuscated: true}: decodeTR4,
	{Version: Tomb4, Platform: PC, Remastered: true}: decodeTR4Remastered,
	{Version: Tomb5, Platform: PC}:                   decodeTR5,
	{Version: Tomb5, Platform: PC, Remastered: true}: decodeTR5Remastered,
	{Version: Tomb1, Platform: PlayStation}:          decodeTR1PSX,
	{Version: Tomb2, Platform: PlayStation}:          decodeTR2PSX,
	{Version: Tomb3, Platform: PlayStation}:          decodeTR3PSX,
	{Version: Tomb4, Platform: PlayStation}:          decodeTR4PSX,
	{Version: Tomb5, Platform: PlayStation}:          decodeTR5PSX,
}

// Load decodes a complete level held in memory. On any failure no Level is
// returned.
func Load(data []byte, opts ...Option) (*Level, error) {
	o := newLoadOptions(opts)
	r := NewReader(data)

	format, err := Detect(r, o)
	if err != nil {
		return nil, err
	}

	d := &decoder{
		r:     r,
		opts:  o,
		log:   o.Logger.With(zap.Stringer("format", format)),
		level: &Level{format: format, filename: filepath.Base(o.Filename)},
	}
	d.log.Debug("decoding level", zap.Int("size", len(data)))

	if err := decoders[format](d); err != nil && !errors.Is(err, errLevelEnd) {
		return nil, err
	}
	if err := d.level.finish(o.TypeInfo); err != nil {
		return nil, err
	}
	d.log.Debug("decoded level",
		zap.Int("rooms", len(d.level.rooms)),
		zap.Int("items", len(d.level.items)),
		zap.Int("meshes", d.level.meshes.Len()))
	return d.level, nil
}

// LoadFile reads a level from disk and decodes it. The file name is used as
// the name hint unless one is given.
func LoadFile(path string, opts ...Option) (*Level, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading level file: %w", err)
	}
	return Load(data, append([]Option{WithFilename(path)}, opts...)...)
}
