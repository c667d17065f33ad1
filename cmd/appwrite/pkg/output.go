// SPDX-FileCopyrightText: Copyright (c) 2026 NVIDIA CORPORATION & AFFILIATES. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package appwritecli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/alecthomas/chroma/v2/quick"
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/samber/lo"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

// OutputFormats lists the values accepted by --output.
var OutputFormats = mapset.NewSet("json", "yaml", "table")

// FormatOutput writes v to w in the requested format (json, yaml, table).
// JSON is syntax highlighted when color is set.
func FormatOutput(w io.Writer, v any, format string, color bool) error {
	switch format {
	case "yaml":
		return yaml.NewEncoder(w).Encode(v)
	case "table":
		return formatTable(w, v)
	default:
		return formatJSON(w, v, color)
	}
}

// IsTerminal reports whether w is attached to a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func formatJSON(w io.Writer, v any, color bool) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	if color {
		if err := quick.Highlight(w, string(data)+"\n", "json", "terminal256", "monokai"); err == nil {
			return nil
		}
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

var tableFields = []string{"$id", "name", "status", "$createdAt", "$updatedAt"}

func formatTable(w io.Writer, v any) error {
	obj, ok := asObject(v)
	if !ok {
		return formatJSON(w, v, false)
	}

	if items, ok := listItems(obj); ok {
		return writeListTable(w, items)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	keys := lo.Keys(obj)
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(tw, "%s\t%s\n", k, cell(obj[k]))
	}
	return tw.Flush()
}

// listItems unwraps the {"total": n, "<resources>": [...]} list envelope.
func listItems(obj map[string]any) ([]map[string]any, bool) {
	if _, ok := obj["total"]; !ok || len(obj) != 2 {
		return nil, false
	}
	for k, raw := range obj {
		if k == "total" {
			continue
		}
		list, ok := raw.([]any)
		if !ok {
			return nil, false
		}
		items := lo.FilterMap(list, func(item any, _ int) (map[string]any, bool) {
			return asObject(item)
		})
		return items, true
	}
	return nil, false
}

func writeListTable(w io.Writer, items []map[string]any) error {
	if len(items) == 0 {
		_, err := fmt.Fprintln(w, "(no results)")
		return err
	}

	cols := lo.Filter(tableFields, func(f string, _ int) bool {
		_, ok := items[0][f]
		return ok
	})
	if len(cols) == 0 {
		return formatJSON(w, items, false)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for i, c := range cols {
		if i > 0 {
			fmt.Fprint(tw, "\t")
		}
		fmt.Fprint(tw, c)
	}
	fmt.Fprintln(tw)

	for _, item := range items {
		for i, c := range cols {
			if i > 0 {
				fmt.Fprint(tw, "\t")
			}
			fmt.Fprint(tw, cell(item[c]))
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}

func asObject(v any) (map[string]any, bool) {
	switch o := v.(type) {
	case Response:
		return o, true
	case map[string]any:
		return o, true
	}
	return nil, false
}

func cell(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case map[string]any, []any:
		b, _ := json.Marshal(t)
		return string(b)
	}
	return fmt.Sprintf("%v", v)
}
