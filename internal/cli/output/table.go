package output

import (
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
)

// TableFormatter formats data as an aligned text table.
type TableFormatter struct {
	Wide      bool
	NoHeaders bool

	// Now anchors relative times. Defaults to time.Now.
	Now func() time.Time
}

// Format formats data as a table.
// Supports: Table, []T (slice of structs), T (struct), map[string]V.
// Anything else falls back to JSON.
func (f *TableFormatter) Format(w io.Writer, data any) error {
	if data == nil {
		return nil
	}

	switch t := data.(type) {
	case *Table:
		return t.RenderWithOptions(w, f.NoHeaders)
	case Table:
		return t.RenderWithOptions(w, f.NoHeaders)
	}

	table, err := f.toTable(data)
	if err != nil {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(data)
	}
	return table.RenderWithOptions(w, f.NoHeaders)
}

func (f *TableFormatter) now() time.Time {
	if f.Now != nil {
		return f.Now()
	}
	return time.Now()
}

func (f *TableFormatter) toTable(data any) (*Table, error) {
	v := reflect.ValueOf(data)
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return &Table{}, nil
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		return f.sliceToTable(v)
	case reflect.Map:
		return f.mapToTable(v)
	case reflect.Struct:
		return f.structToTable(v)
	default:
		return nil, fmt.Errorf("unsupported type: %s", v.Kind())
	}
}

// column describes one struct field rendered as a table column.
type column struct {
	index  int
	header string
	kind   string // "", "time", "bytes" or "count"
}

// columnsOf reads the `table:"HEADER,opts"` tags of t.
// Options: wide, time, bytes, count. A tag of "-" hides the field.
func columnsOf(t reflect.Type, wide bool) []column {
	var cols []column
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		tag := field.Tag.Get("table")
		if tag == "-" {
			continue
		}

		parts := strings.Split(tag, ",")
		col := column{index: i, header: parts[0]}
		if col.header == "" {
			col.header = strings.ToUpper(field.Name)
		}
		skip := false
		for _, opt := range parts[1:] {
			switch opt {
			case "wide":
				skip = !wide
			case "time", "bytes", "count":
				col.kind = opt
			}
		}
		if !skip {
			cols = append(cols, col)
		}
	}
	return cols
}

func (f *TableFormatter) sliceToTable(v reflect.Value) (*Table, error) {
	elemType := v.Type().Elem()
	if elemType.Kind() == reflect.Ptr {
		elemType = elemType.Elem()
	}
	if elemType.Kind() != reflect.Struct {
		table := &Table{Headers: []string{"VALUE"}}
		for i := 0; i < v.Len(); i++ {
			table.AddRow(f.cell(v.Index(i), ""))
		}
		return table, nil
	}

	cols := columnsOf(elemType, f.Wide)
	table := &Table{}
	for _, c := range cols {
		table.Headers = append(table.Headers, c.header)
	}

	for i := 0; i < v.Len(); i++ {
		elem := v.Index(i)
		if elem.Kind() == reflect.Ptr {
			if elem.IsNil() {
				continue
			}
			elem = elem.Elem()
		}
		row := make([]string, 0, len(cols))
		for _, c := range cols {
			row = append(row, f.cell(elem.Field(c.index), c.kind))
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

// mapToTable renders a map as KEY/VALUE rows sorted by key.
func (f *TableFormatter) mapToTable(v reflect.Value) (*Table, error) {
	table := &Table{Headers: []string{"KEY", "VALUE"}}

	iter := v.MapRange()
	for iter.Next() {
		table.AddRow(f.cell(iter.Key(), ""), f.cell(iter.Value(), ""))
	}
	sort.Slice(table.Rows, func(i, j int) bool {
		return table.Rows[i][0] < table.Rows[j][0]
	})
	return table, nil
}

// structToTable renders a single struct as FIELD/VALUE rows.
func (f *TableFormatter) structToTable(v reflect.Value) (*Table, error) {
	table := &Table{Headers: []string{"FIELD", "VALUE"}}
	for _, c := range columnsOf(v.Type(), f.Wide) {
		table.AddRow(c.header, f.cell(v.Field(c.index), c.kind))
	}
	return table, nil
}

var timeType = reflect.TypeOf(time.Time{})

// cell formats a reflect.Value for display.
func (f *TableFormatter) cell(v reflect.Value, kind string) string {
	if !v.IsValid() {
		return ""
	}
	for v.Kind() == reflect.Interface || v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return "-"
		}
		v = v.Elem()
	}

	if v.Type() == timeType {
		t := v.Interface().(time.Time)
		if t.IsZero() {
			return "-"
		}
		return humanize.RelTime(t, f.now(), "ago", "from now")
	}

	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n := v.Int()
		switch kind {
		case "time":
			return RelativeMillis(n, f.now())
		case "bytes":
			if n < 0 {
				return "-"
			}
			return humanize.Bytes(uint64(n))
		case "count":
			return humanize.Comma(n)
		}
		return fmt.Sprintf("%d", n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if kind == "bytes" {
			return humanize.Bytes(v.Uint())
		}
		return fmt.Sprintf("%d", v.Uint())
	case reflect.String:
		if v.String() == "" {
			return "-"
		}
		return v.String()
	case reflect.Bool:
		if v.Bool() {
			return "yes"
		}
		return "no"
	case reflect.Float32, reflect.Float64:
		return fmt.Sprintf("%.2f", v.Float())
	case reflect.Slice, reflect.Array:
		if v.Len() == 0 {
			return "-"
		}
		if v.Type().Elem().Kind() == reflect.String {
			parts := make([]string, v.Len())
			for i := range parts {
				parts[i] = v.Index(i).String()
			}
			return strings.Join(parts, ", ")
		}
		return fmt.Sprintf("[%d items]", v.Len())
	case reflect.Map:
		if v.Len() == 0 {
			return "-"
		}
		return fmt.Sprintf("{%d keys}", v.Len())
	default:
		return fmt.Sprintf("%v", v.Interface())
	}
}

// RelativeMillis renders a Unix millisecond timestamp relative to now.
// Zero renders as "-".
func RelativeMillis(ms int64, now time.Time) string {
	if ms == 0 {
		return "-"
	}
	return humanize.RelTime(time.UnixMilli(ms), now, "ago", "from now")
}

// Table represents tabular data.
type Table struct {
	Headers []string
	Rows    [][]string
}

// Render renders the table to the writer.
func (t *Table) Render(w io.Writer) error {
	return t.RenderWithOptions(w, false)
}

// RenderWithOptions renders the table with options.
func (t *Table) RenderWithOptions(w io.Writer, noHeaders bool) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	if !noHeaders && len(t.Headers) > 0 {
		fmt.Fprintln(tw, strings.Join(t.Headers, "\t"))
	}
	for _, row := range t.Rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

// AddRow adds a row to the table.
func (t *Table) AddRow(cells ...string) {
	t.Rows = append(t.Rows, cells)
}

// SetHeaders sets the table headers.
func (t *Table) SetHeaders(headers ...string) {
	t.Headers = headers
}
