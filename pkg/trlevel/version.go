package trlevel

import (
	"fmt"
	"path/filepath"
	"strings"
)

// LevelVersion is the engine generation a level was built for.
type LevelVersion int

// Level versions, ordered so that comparisons such as v >= Tomb4 hold.
const (
	VersionUnknown LevelVersion = iota
	Tomb1
	Tomb2
	Tomb3
	Tomb4
	Tomb5
)

// String returns the version name.
func (v LevelVersion) String() string {
	switch v {
	case Tomb1:
		return "Tomb1"
	case Tomb2:
		return "Tomb2"
	case Tomb3:
		return "Tomb3"
	case Tomb4:
		return "Tomb4"
	case Tomb5:
		return "Tomb5"
	default:
		return "Unknown"
	}
}

// GameKey returns the short key used by lookup tables ("tr1".."tr5").
func (v LevelVersion) GameKey() string {
	if v < Tomb1 || v > Tomb5 {
		return ""
	}
	return fmt.Sprintf("tr%d", int(v))
}

// ParseVersion accepts a game key such as "tr4". The empty string gives
// VersionUnknown, which leaves detection to the version word.
func ParseVersion(s string) (LevelVersion, error) {
	if s == "" {
		return VersionUnknown, nil
	}
	for v := Tomb1; v <= Tomb5; v++ {
		if strings.EqualFold(s, v.GameKey()) {
			return v, nil
		}
	}
	return VersionUnknown, fmt.Errorf("unknown game %q", s)
}

// Platform is the platform a level was built for.
type Platform int

// Platforms.
const (
	PlatformUnknown Platform = iota
	PC
	PlayStation
	Macintosh
)

// String returns the platform name.
func (p Platform) String() string {
	switch p {
	case PC:
		return "PC"
	case PlayStation:
		return "PlayStation"
	case Macintosh:
		return "Macintosh"
	default:
		return "Unknown"
	}
}

// ParsePlatform accepts "pc", "psx" or "playstation". The empty string gives
// PlatformUnknown.
func ParsePlatform(s string) (Platform, error) {
	switch strings.ToLower(s) {
	case "":
		return PlatformUnknown, nil
	case "pc":
		return PC, nil
	case "psx", "playstation":
		return PlayStation, nil
	}
	return PlatformUnknown, fmt.Errorf("unknown platform %q", s)
}

// Format is the closed tag that selects a decoder. It is fixed once
// detection has run.
type Format struct {
	Version    LevelVersion
	Platform   Platform
	Remastered bool
	// Demo marks the TR1 demo layout, where the palette precedes the cameras.
	Demo bool
	// Obfuscated marks levels whose level-data block must pass through a
	// Decrypter before it can be inflated.
	Obfuscated bool
}

// String returns a readable form such as "Tomb4 PC (remastered)".
func (f Format) String() string {
	s := f.Version.String() + " " + f.Platform.String()
	var tags []string
	if f.Remastered {
		tags = append(tags, "remastered")
	}
	if f.Demo {
		tags = append(tags, "demo")
	}
	if f.Obfuscated {
		tags = append(tags, "obfuscated")
	}
	if len(tags) > 0 {
		s += " (" + strings.Join(tags, ", ") + ")"
	}
	return s
}

// AtLeast reports whether the format's version is v or newer.
func (f Format) AtLeast(v LevelVersion) bool {
	return f.Version >= v
}

// HasPalette reports whether textures use an indexed palette (TR1 to TR3 on
// PC). PlayStation levels index colour tables per page instead.
func (f Format) HasPalette() bool {
	return f.Platform != PlayStation && f.Version >= Tomb1 && f.Version <= Tomb3
}

// HasAIObjects reports whether the format carries a separate AI object list.
func (f Format) HasAIObjects() bool {
	return f.Version >= Tomb4
}

// HasFlybyCameras reports whether the format carries flyby camera nodes.
func (f Format) HasFlybyCameras() bool {
	return f.Version >= Tomb4
}

// Version words found at offset zero.
const (
	signatureTR1        uint32 = 0x00000020
	signatureTR2        uint32 = 0x0000002D
	signatureTR3        uint32 = 0xFF080038
	signatureTR3Alt     uint32 = 0xFF180038
	signatureTR4        uint32 = 0x00345254 // "TR4\0"
	signatureTR4Crypted uint32 = 0x63345254 // "TR4c"
)

type signature struct {
	word       uint32
	version    LevelVersion
	obfuscated bool
}

var signatures = []signature{
	{signatureTR1, Tomb1, false},
	{signatureTR2, Tomb2, false},
	{signatureTR3, Tomb3, false},
	{signatureTR3Alt, Tomb3, false},
	{signatureTR4, Tomb4, false},
	{signatureTR4Crypted, Tomb4, true},
}

func lookupSignature(word uint32) (signature, bool) {
	for _, s := range signatures {
		if s.word == word {
			return s, true
		}
	}
	return signature{}, false
}

// isTR5Name reports whether the file name carries the TR5 extension. TR5
// levels share the TR4 version word and can only be told apart this way.
func isTR5Name(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".trc")
}

// Detect reads the version word and resolves the Format from it and the
// caller's explicit assertions in opts. The reader is left just after the
// version word. No decoder runs here.
func Detect(r *Reader, opts LoadOptions) (Format, error) {
	if opts.Platform == PlayStation {
		return detectPSX(r, opts)
	}
	word, err := r.U32()
	if err != nil {
		return Format{}, fmt.Errorf("%w: reading version: %w", ErrUnrecognisedFormat, err)
	}
	sig, ok := lookupSignature(word)
	if !ok {
		return Format{}, fmt.Errorf("%w: version word 0x%08X", ErrUnrecognisedFormat, word)
	}

	f := Format{
		Version:    sig.version,
		Platform:   opts.Platform,
		Remastered: opts.Remastered,
		Demo:       opts.Demo,
		Obfuscated: sig.obfuscated,
	}
	if f.Platform == PlatformUnknown {
		f.Platform = PC
	}
	if f.Version == Tomb4 && isTR5Name(opts.Filename) {
		f.Version = Tomb5
	}
	if _, ok := decoders[f]; !ok {
		return Format{}, fmt.Errorf("%w: no decoder for %s", ErrUnrecognisedFormat, f)
	}
	return f, nil
}

// Formats returns every Format that has a decoder.
func Formats() []Format {
	out := make([]Format, 0, len(decoders))
	for f := range decoders {
		out = append(out, f)
	}
	return out
}

// tr1PSXTextiles is the size of the fixed TR1 PlayStation texture block: 13
// pages and 1024 colour tables.
const tr1PSXTextiles = 13*textile4Size + 1024*clutSize

// detectPSX resolves a PlayStation level. The version word sits after the
// sound bank (TR2) or after the sound bank and texture block (TR1), so it is
// looked for at those places. TR3 keeps it at offset zero. TR4 and TR5 have
// none and must be asserted with WithVersion. The reader is not moved; the
// PlayStation decoders start from offset zero.
func detectPSX(r *Reader, opts LoadOptions) (Format, error) {
	f := Format{
		Version:    opts.Version,
		Platform:   PlayStation,
		Remastered: opts.Remastered,
		Demo:       opts.Demo,
	}
	if f.Version == VersionUnknown {
		v, err := scanPSXVersion(NewReader(r.data))
		if err != nil {
			return Format{}, err
		}
		f.Version = v
	}
	if _, ok := decoders[f]; !ok {
		return Format{}, fmt.Errorf("%w: no decoder for %s", ErrUnrecognisedFormat, f)
	}
	return f, nil
}

func scanPSXVersion(scan *Reader) (LevelVersion, error) {
	word, err := scan.PeekU32()
	if err != nil {
		return VersionUnknown, fmt.Errorf("%w: reading version: %w", ErrUnrecognisedFormat, err)
	}
	if word == signatureTR3 || word == signatureTR3Alt {
		return Tomb3, nil
	}
	end, err := soundBankEnd(scan)
	if err != nil {
		return VersionUnknown, fmt.Errorf("%w: %w", ErrUnrecognisedFormat, err)
	}
	if wordAt(scan, end) == signatureTR2 {
		return Tomb2, nil
	}
	// Some TR1 cutscenes end their texture block eight bytes early.
	for _, at := range []int{end + tr1PSXTextiles, end + tr1PSXTextiles - 8} {
		if wordAt(scan, at) == signatureTR1 {
			return Tomb1, nil
		}
	}
	return VersionUnknown, fmt.Errorf("%w: no PlayStation version word found", ErrUnrecognisedFormat)
}

func wordAt(r *Reader, at int) uint32 {
	if err := r.SetPosition(at); err != nil {
		return 0
	}
	w, err := r.PeekU32()
	if err != nil {
		return 0
	}
	return w
}
