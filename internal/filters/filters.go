// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package filters

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/apex/log"
	"github.com/tidwall/gjson"

	"github.com/staranto/ghstatsgo/internal/attrs"
	"github.com/staranto/ghstatsgo/internal/driller"
)

// DelimEnv overrides the "," that separates filter expressions.
const DelimEnv = "GHSTATS_FILTER_DELIM"

// filterRegex splits an expression into key, operand and target. Operands are
// one of = ^ ~ < > @ /, optionally negated with a leading !.
var filterRegex = regexp.MustCompile(`^(.*?)(!?[=^~<>@/])(.*)$`)

// Filter is one parsed --filter expression.
type Filter struct {
	Key     string
	Negate  bool
	Operand string
	Target  string
}

// BuildFilters parses spec into filters. Malformed expressions are logged and
// skipped.
func BuildFilters(spec string) []Filter {
	//nolint:prealloc
	var filters []Filter

	if spec == "" {
		return filters
	}

	delim := ","
	if d, ok := os.LookupEnv(DelimEnv); ok && d != "" {
		delim = d
	}

	for _, expr := range strings.Split(spec, delim) {
		parts := filterRegex.FindStringSubmatch(expr)
		if parts == nil || parts[1] == "" {
			log.Error("invalid filter: " + expr)
			continue
		}

		operand, negate := strings.CutPrefix(parts[2], "!")
		filters = append(filters, Filter{
			Key:     strings.TrimSpace(parts[1]),
			Negate:  negate,
			Operand: operand,
			Target:  parts[3],
		})
	}

	return filters
}

// FilterDataset keeps the records of candidates that pass every filter in
// spec and projects each onto attrs, keyed by OutputKey. Transforms are left
// to the output phase.
func FilterDataset(candidates gjson.Result, attrs attrs.AttrList, spec string) []map[string]interface{} {
	//nolint:prealloc
	var filtered []map[string]interface{}

	filters := BuildFilters(spec)

	for _, candidate := range candidates.Array() {
		if !applyFilters(candidate, attrs, filters) {
			continue
		}

		row := make(map[string]interface{}, len(attrs))
		for _, attr := range attrs {
			if attr.Key == "*" {
				continue
			}
			row[attr.OutputKey] = driller.Driller(candidate.Raw, attr.Key).Value()
		}
		filtered = append(filtered, row)
	}

	return filtered
}

// applyFilters reports whether candidate satisfies all filters. A filter
// whose key names no attr is reported and ignored.
func applyFilters(candidate gjson.Result, attrs attrs.AttrList, filters []Filter) bool {
	for _, filter := range filters {
		key := resolveKey(attrs, filter.Key)
		if key == "" {
			msg := fmt.Sprintf("filter key not found: %s", filter.Key)
			log.Error(msg)
			fmt.Fprintf(os.Stderr, "warning: %s\n", msg)
			continue
		}

		value := driller.Driller(candidate.Raw, key).Value()
		if value == nil {
			return false
		}

		var ok bool
		switch v := value.(type) {
		case string:
			ok = checkStringOperand(v, filter)
		case bool:
			ok = checkStringOperand(strconv.FormatBool(v), filter)
		case float64:
			ok = checkNumericOperand(v, filter)
		default:
			ok = filter.Operand == "@" && checkContainsOperand(value, filter)
		}

		if !ok {
			return false
		}
	}

	return true
}

// resolveKey maps a filter key onto an attr path. Both the output key and the
// raw path are accepted.
func resolveKey(attrs attrs.AttrList, key string) string {
	for _, attr := range attrs {
		if attr.OutputKey == key || attr.Key == key {
			return attr.Key
		}
	}
	return ""
}

// checkContainsOperand handles @ against arrays (membership) and objects
// (key presence).
func checkContainsOperand(value interface{}, filter Filter) bool {
	var found bool
	switch val := value.(type) {
	case []interface{}:
		for _, item := range val {
			if fmt.Sprint(item) == filter.Target {
				found = true
				break
			}
		}
	case map[string]interface{}:
		_, found = val[filter.Target]
	default:
		log.Errorf("unsupported type for contains filtering: %T", value)
		return false
	}
	return found != filter.Negate
}

// checkNumericOperand compares numerically for = < >. Other operands fall
// back to comparing the formatted number as a string.
func checkNumericOperand(value float64, filter Filter) bool {
	switch filter.Operand {
	case "=", "<", ">":
	default:
		return checkStringOperand(strconv.FormatFloat(value, 'f', -1, 64), filter)
	}

	tgt, err := strconv.ParseFloat(strings.TrimSpace(filter.Target), 64)
	if err != nil {
		log.Error("invalid numeric target: " + filter.Target)
		return false
	}

	var result bool
	switch filter.Operand {
	case "=":
		result = value == tgt
	case ">":
		result = value > tgt
	case "<":
		result = value < tgt
	}
	return result != filter.Negate
}

// checkStringOperand compares value to the filter target:
//
//	=  equal          ~  equal ignoring case
//	^  prefix         @  substring
//	<  >  ordering    /  regular expression
func checkStringOperand(value string, filter Filter) bool {
	var result bool
	switch filter.Operand {
	case "=":
		result = value == filter.Target
	case "~":
		result = strings.EqualFold(value, filter.Target)
	case "^":
		result = strings.HasPrefix(value, filter.Target)
	case ">":
		result = value > filter.Target
	case "<":
		result = value < filter.Target
	case "@":
		result = strings.Contains(value, filter.Target)
	case "/":
		re, err := regexp.Compile(filter.Target)
		if err != nil {
			log.Error("invalid regex: " + filter.Target)
			return false
		}
		result = re.MatchString(value)
	default:
		log.Error("unsupported filtering operand: " + filter.Operand)
		return false
	}
	return result != filter.Negate
}
