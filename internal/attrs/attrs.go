// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package attrs

import (
	"fmt"
	"math"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/apex/log"
	"github.com/dustin/go-humanize"

	"github.com/staranto/ghstatsgo/internal/config"
)

// lengthRegex finds the width directives in a transform spec.
var lengthRegex = regexp.MustCompile(`-?\d+`)

// Attr is one column of output. Key is a dotted path into each API record,
// as understood by driller.Driller.
type Attr struct {
	// The JSON path to extract from each record.
	Key string
	// Include is false for attrs that only exist to filter or sort on.
	Include bool
	// OutputKey is the key in json/yaml output and the column title in text.
	OutputKey string
	// TransformSpec applied to the value before output.
	TransformSpec string
}

// Transform applies the TransformSpec to value. Spec letters:
//
//	t  convert an RFC3339 timestamp to the configured timezone
//	h  humanize: timestamps become relative ("3 days ago"), numbers get commas
//	l  lower case
//	u  upper case
//	n  truncate to n runes, -n elide the middle
func (a *Attr) Transform(value interface{}) interface{} {
	if num, ok := value.(float64); ok {
		if strings.ContainsAny(a.TransformSpec, "hH") {
			return humanize.Commaf(num)
		}
		return value
	}

	result, ok := value.(string)
	if !ok {
		return value
	}

	if strings.ContainsAny(a.TransformSpec, "hH") {
		if t, err := time.Parse(time.RFC3339, result); err == nil {
			return humanize.Time(t)
		}
	}

	if strings.ContainsAny(a.TransformSpec, "tT") {
		result = toLocal(result)
	}

	// The last case letter wins so a per-attr spec overrides the global one
	// prepended by SetGlobalTransformSpec.
	lastL := strings.LastIndexAny(a.TransformSpec, "lL")
	lastU := strings.LastIndexAny(a.TransformSpec, "uU")

	if lastL > lastU {
		result = strings.ToLower(result)
	} else if lastU > lastL {
		result = strings.ToUpper(result)
	}

	if match := lengthRegex.FindAllString(a.TransformSpec, -1); len(match) != 0 {
		l, _ := strconv.Atoi(match[len(match)-1])
		result = truncate(result, l)
	}

	return result
}

// toLocal renders an RFC3339 timestamp in the timezone named by the config
// key "timezone" or $TZ. Without either the value is returned unchanged.
func toLocal(value string) string {
	tz, _ := config.GetString("timezone", "")
	if tz == "" {
		tz = os.Getenv("TZ")
	}
	if tz == "" {
		return value
	}

	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.WithError(err).Errorf("unknown timezone: %s", tz)
		return value
	}

	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		log.Errorf("failed to parse time: %s", value)
		return value
	}

	return t.In(loc).Format("2006-01-02T15:04:05MST")
}

// truncate shortens s to l runes. A negative l keeps both ends joined by "..".
func truncate(s string, l int) string {
	runes := []rune(s)
	abs := int(math.Abs(float64(l)))
	if len(runes) <= abs {
		return s
	}
	if l >= 0 {
		return string(runes[:l])
	}

	side := abs/2 - 1
	if side < 1 {
		return string(runes[:abs])
	}
	return string(runes[:side]) + ".." + string(runes[len(runes)-side:])
}

type AttrList []Attr

// String renders the list in --attrs syntax.
func (a *AttrList) String() string {
	result := make([]string, 0, len(*a))
	for _, attr := range *a {
		result = append(result, fmt.Sprintf("%s:%s:%s", attr.Key, attr.OutputKey, attr.TransformSpec))
	}
	return strings.Join(result, ",")
}

// Set parses a comma separated --attrs value. Each spec is
// key[:outputKey[:transform]]; a leading ! keeps the key for filtering and
// sorting but drops it from output, and * carries a global transform.
func (a *AttrList) Set(value string) error {
	if value == "" || value == "*" {
		return nil
	}

	const (
		jsonIdx = iota
		outputIdx
		transformIdx
	)

specloop:
	for _, spec := range strings.Split(value, ",") {
		attr := Attr{Include: true}

		fields := strings.Split(spec, ":")

		attr.Key = strings.TrimSpace(fields[jsonIdx])
		if strings.HasPrefix(attr.Key, "!") {
			attr.Include = false
			attr.Key = attr.Key[1:]
		}
		// Keys are relative to the record root; a leading . is accepted.
		attr.Key = strings.TrimPrefix(attr.Key, ".")
		if attr.Key == "" {
			continue
		}

		if attr.Key == "*" {
			attr.Include = false
		}

		if len(fields) == 1 || fields[outputIdx] == "" {
			segments := strings.Split(attr.Key, ".")
			attr.OutputKey = segments[len(segments)-1]
		} else {
			attr.OutputKey = strings.TrimSpace(fields[outputIdx])
		}

		if len(fields) > transformIdx {
			attr.TransformSpec = strings.TrimSpace(fields[transformIdx])
		}

		// Respecifying a default (or repeating a key) updates it in place.
		for i := range *a {
			if (*a)[i].Key == attr.Key || (*a)[i].OutputKey == attr.Key {
				(*a)[i].Include = attr.Include
				(*a)[i].OutputKey = attr.OutputKey
				(*a)[i].TransformSpec = attr.TransformSpec
				continue specloop
			}
		}

		*a = append(*a, attr)
	}

	return nil
}

// SetGlobalTransformSpec prepends the * attr's transform spec to every attr.
func (a *AttrList) SetGlobalTransformSpec() error {
	spec := ""
	for i := range *a {
		if (*a)[i].Key == "*" {
			spec = (*a)[i].TransformSpec
			break
		}
	}

	if spec == "" {
		return nil
	}

	for i := range *a {
		(*a)[i].TransformSpec = spec + "," + (*a)[i].TransformSpec
	}

	return nil
}

// Type satisfies the flag value interface.
func (a *AttrList) Type() string {
	return "list"
}
