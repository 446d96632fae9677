// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/apex/log"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/lipgloss/v2/table"
	"github.com/tidwall/gjson"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"
	"gopkg.in/yaml.v2"

	"github.com/staranto/ghstatsgo/internal/attrs"
	"github.com/staranto/ghstatsgo/internal/config"
	"github.com/staranto/ghstatsgo/internal/filters"
)

// Formats accepted by --output.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatRaw  = "raw"
)

// Formats lists the --output values in help order.
var Formats = []string{FormatText, FormatJSON, FormatYAML, FormatRaw}

// SliceDiceSpit filters, transforms, sorts and renders raw according to the
// command's --output, --filter, --sort, --local, --titles and --color flags.
// raw is a JSON array of records, or a single record that is treated as a one
// row dataset. parent, when set, selects a sub document of raw first.
func SliceDiceSpit(raw []byte,
	attrs attrs.AttrList,
	cmd *cli.Command,
	parent string,
	w io.Writer) error {

	if w == nil {
		w = os.Stdout
	}

	format := cmd.String("output")
	if format == FormatRaw {
		_, err := w.Write(raw)
		return err
	}

	doc := gjson.ParseBytes(raw)
	if parent != "" {
		doc = doc.Get(parent)
	}
	if !doc.IsArray() {
		doc = gjson.Parse("[" + doc.Raw + "]")
	}

	dataset := filters.FilterDataset(doc, attrs, cmd.String("filter"))

	if cmd.Bool("local") {
		for a := range attrs {
			attrs[a].TransformSpec += "t"
		}
	}

	for _, row := range dataset {
		for _, attr := range attrs {
			if attr.TransformSpec != "" {
				row[attr.OutputKey] = attr.Transform(row[attr.OutputKey])
			}
		}
	}

	SortDataset(dataset, cmd.String("sort"))

	visible := project(dataset, attrs)

	switch format {
	case FormatJSON:
		b, err := json.Marshal(visible)
		if err != nil {
			return fmt.Errorf("failed to marshal json output: %w", err)
		}
		_, err = fmt.Fprintln(w, string(b))
		return err
	case FormatYAML:
		b, err := yaml.Marshal(visible)
		if err != nil {
			return fmt.Errorf("failed to marshal yaml output: %w", err)
		}
		_, err = w.Write(b)
		return err
	default:
		TableWriter(dataset, attrs, cmd.Bool("titles"), cmd.Bool("color"), w)
		return nil
	}
}

// project drops the attrs that were only requested for filtering or sorting.
// The result is never nil so an empty dataset marshals as [].
func project(dataset []map[string]interface{}, attrs attrs.AttrList) []map[string]interface{} {
	visible := make([]map[string]interface{}, 0, len(dataset))
	for _, row := range dataset {
		out := make(map[string]interface{}, len(row))
		for _, attr := range attrs {
			if attr.Include {
				out[attr.OutputKey] = row[attr.OutputKey]
			}
		}
		visible = append(visible, out)
	}
	return visible
}

// TableWriter renders the result set as an unbordered table. Column order
// follows attrs.
func TableWriter(
	resultSet []map[string]interface{},
	attrs attrs.AttrList,
	titles bool,
	color bool,
	w io.Writer) {

	if len(resultSet) == 0 {
		return
	}

	var (
		headerStyle  = lipgloss.NewStyle().Align(lipgloss.Left)
		cellStyle    = lipgloss.NewStyle().Padding(0, 0).Align(lipgloss.Left)
		evenRowStyle = cellStyle
		oddRowStyle  = cellStyle
	)

	if color {
		headerColor, evenColor, oddColor := getColors("colors")

		headerStyle = headerStyle.Foreground(lipgloss.Color(headerColor))
		evenRowStyle = evenRowStyle.Foreground(lipgloss.Color(evenColor))
		oddRowStyle = oddRowStyle.Foreground(lipgloss.Color(oddColor))
	}

	pad, _ := config.GetInt("padding", 1)

	var rows [][]string
	for _, result := range resultSet {
		row := make([]string, 0, len(result))
		for _, attr := range attrs {
			if !attr.Include {
				continue
			}
			row = append(row, InterfaceToString(result[attr.OutputKey], "-"))
		}
		rows = append(rows, row)
	}

	t := table.New().
		BorderBottom(false).
		BorderTop(false).
		BorderLeft(false).
		BorderRight(false).
		Border(lipgloss.HiddenBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			var style lipgloss.Style
			switch {
			case row == table.HeaderRow:
				style = headerStyle
			case row%2 == 0:
				style = evenRowStyle
			default:
				style = oddRowStyle
			}

			if col > 0 {
				style = style.PaddingLeft(pad)
			}

			return style
		}).
		Headers().
		Rows(rows...)

	if titles {
		var headers []string
		for _, attr := range attrs {
			if attr.Include {
				headers = append(headers, attr.OutputKey)
			}
		}

		// https://github.com/charmbracelet/lipgloss/issues/261
		t = t.Headers(headers...).BorderHeader(false)
	}

	log.Debugf("rendering %d rows", len(rows))
	fmt.Fprintln(w, t)
}

// getColors returns the configured table colors.
func getColors(key string) (header string, even string, odd string) {
	header, _ = config.GetString(fmt.Sprintf("%s.title", key), "#f6be00")
	even, _ = config.GetString(fmt.Sprintf("%s.even", key), "#ffffff")
	odd, _ = config.GetString(fmt.Sprintf("%s.odd", key), "#00c8f0")
	return
}

// IsTerminal reports whether w is an interactive terminal. It decides the
// default of --color.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// InterfaceToString renders a dataset value for a table cell. nil and the
// empty string become emptyValue (default "").
func InterfaceToString(value interface{}, emptyValue ...string) string {
	empty := ""
	if len(emptyValue) > 0 {
		empty = emptyValue[0]
	}

	switch value := value.(type) {
	case nil:
		return empty
	case string:
		if value == "" {
			return empty
		}
		return value
	case int:
		return strconv.Itoa(value)
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(value)
	default:
		b, err := json.Marshal(value)
		if err != nil {
			return fmt.Sprintf("%v", value)
		}
		return string(b)
	}
}
