// Package plainguard decides whether a scalar's text would come back out of
// an implicit (untagged) YAML parse as the tag the caller intended, so the
// encoder knows when a plain style is safe and when it must quote or tag
// explicitly instead. It is presentation logic only: it never builds a
// document tree and never validates an incoming tag against a schema.
package plainguard

import (
	"encoding/base64"
	"strconv"
	"strings"
	"time"
)

// Short-form tags, as used by the emitter and by callers deciding whether a
// tag needs to be printed at all.
const (
	NullTag   = "!!null"
	BoolTag   = "!!bool"
	StrTag    = "!!str"
	IntTag    = "!!int"
	FloatTag  = "!!float"
	TimestampTag = "!!timestamp"
	SeqTag    = "!!seq"
	MapTag    = "!!map"
	BinaryTag = "!!binary"
	MergeTag  = "!!merge"
)

const longTagPrefix = "tag:yaml.org,2002:"

// LongTag expands a short-form tag such as "!!str" into its fully qualified
// form. Tags that already carry a scheme, or that are empty, pass through
// unchanged.
func LongTag(tag string) string {
	if strings.HasPrefix(tag, "!!") {
		return longTagPrefix + tag[2:]
	}
	return tag
}

// ShortTag collapses a fully qualified "tag:yaml.org,2002:xxx" tag back into
// its "!!xxx" short form. Any other tag is returned unchanged.
func ShortTag(tag string) string {
	if strings.HasPrefix(tag, longTagPrefix) {
		return "!!" + tag[len(longTagPrefix):]
	}
	return tag
}

// EncodeBase64 renders s as standard base64, the form the emitter writes for
// !!binary scalars. Output shorter than 70 characters is a single line with
// no line break; longer output is split into lines of at most 70
// characters, each ending in a line break.
func EncodeBase64(s string) string {
	const lineLen = 70
	enc := base64.StdEncoding.EncodeToString([]byte(s))
	if len(enc) < lineLen {
		return enc
	}
	var b strings.Builder
	for len(enc) > lineLen {
		b.WriteString(enc[:lineLen])
		b.WriteByte('\n')
		enc = enc[lineLen:]
	}
	b.WriteString(enc)
	b.WriteByte('\n')
	return b.String()
}

// Resolve guesses the short tag that an implicit (unquoted) parse of in
// would settle on, the same family of heuristics used by the teacher's own
// scanner-side resolver but scoped to exactly what the encoder needs: enough
// to tell a plain scalar from one that must be quoted to round-trip as a
// string. It never consults an external schema.
func Resolve(tag, in string) (rtag string, rv interface{}, err error) {
	if tag != "" && tag != StrTag {
		return tag, in, nil
	}

	if in == "" {
		return NullTag, nil, nil
	}

	c := in[0]
	if !(c == '-' || c == '+' || c == '.' || c == '~' || (c >= '0' && c <= '9') ||
		c == 'n' || c == 'N' || c == 't' || c == 'T' || c == 'f' || c == 'F' || c == 'y' || c == 'Y') {
		return StrTag, in, nil
	}

	switch strings.ToLower(in) {
	case "~", "null":
		return NullTag, nil, nil
	case "true", "yes":
		return BoolTag, true, nil
	case "false", "no":
		return BoolTag, false, nil
	case ".nan":
		return FloatTag, nil, nil
	case ".inf", "+.inf":
		return FloatTag, nil, nil
	case "-.inf":
		return FloatTag, nil, nil
	}

	if _, err := strconv.ParseInt(in, 0, 64); err == nil {
		return IntTag, nil, nil
	}
	if _, err := strconv.ParseUint(in, 0, 64); err == nil {
		return IntTag, nil, nil
	}
	if _, err := strconv.ParseFloat(in, 64); err == nil {
		return FloatTag, nil, nil
	}

	// A four-digit year followed by '-' that parses as a date or timestamp.
	if len(in) > 4 && in[4] == '-' && strings.Trim(in[:4], "0123456789") == "" {
		for _, layout := range []string{"2006-1-2T15:4:5.999999999Z07:00", "2006-1-2t15:4:5.999999999Z07:00", "2006-1-2 15:4:5.999999999", "2006-1-2"} {
			if _, err := time.Parse(layout, in); err == nil {
				return TimestampTag, nil, nil
			}
		}
	}

	return StrTag, in, nil
}
