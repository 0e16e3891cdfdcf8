// Command eventgen renders the Go event catalog and the TypeScript
// client typings from schema/event-catalog.json. The JSON file is the
// single source of truth for the wire protocol; regenerate with
//
//	go run ./cmd/eventgen
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
)

func main() {
	schemaPath := flag.String("schema", "schema/event-catalog.json", "event catalog schema")
	goOut := flag.String("go", "internal/events/catalog_gen.go", "generated Go file")
	tsOut := flag.String("ts", "web/events.generated.ts", "generated TypeScript file")
	flag.Parse()

	data, err := os.ReadFile(*schemaPath)
	if err != nil {
		log.Fatalf("read schema: %v", err)
	}
	schema, err := parseSchema(data)
	if err != nil {
		log.Fatalf("parse schema: %v", err)
	}

	if err := os.WriteFile(*goOut, generateGo(schema), 0o644); err != nil {
		log.Fatalf("write %s: %v", *goOut, err)
	}
	if err := os.WriteFile(*tsOut, generateTS(schema), 0o644); err != nil {
		log.Fatalf("write %s: %v", *tsOut, err)
	}
	fmt.Printf("eventgen: %d payload types, %d event types\n", len(schema.Payloads), len(schema.Events))
}

type schemaFile struct {
	Severities []string
	Payloads   []payloadDef
	Events     []eventDef
}

type payloadDef struct {
	Name   string
	Fields []fieldDef
}

type fieldDef struct {
	JSONName string
	Kind     string // string, int, float, boolean, datetime, any, record, array, enum, literal, ref
	Optional bool
	Values   []string // enum
	Literal  bool     // literal value
	Items    *fieldDef
	Ref      string
}

type eventDef struct {
	Type    string
	Payload string
}

// parseSchema walks the JSON token stream so that payload, field and
// event order in the generated files matches the schema file.
func parseSchema(data []byte) (*schemaFile, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	root, err := parseValue(dec)
	if err != nil {
		return nil, err
	}
	obj, ok := root.(*object)
	if !ok {
		return nil, fmt.Errorf("schema root must be an object")
	}

	out := &schemaFile{}

	envelope, _ := obj.get("envelope").(*object)
	if envelope == nil {
		return nil, fmt.Errorf("missing envelope section")
	}
	for _, v := range toArray(envelope.get("severityEnum")) {
		out.Severities = append(out.Severities, v.(string))
	}

	payloads, _ := obj.get("payloadTypes").(*object)
	if payloads == nil {
		return nil, fmt.Errorf("missing payloadTypes section")
	}
	for _, name := range payloads.keys {
		fieldsObj := payloads.get(name).(*object)
		def := payloadDef{Name: name}
		for _, fieldName := range fieldsObj.keys {
			field, err := parseField(fieldName, fieldsObj.get(fieldName).(*object))
			if err != nil {
				return nil, fmt.Errorf("%s.%s: %w", name, fieldName, err)
			}
			def.Fields = append(def.Fields, field)
		}
		out.Payloads = append(out.Payloads, def)
	}

	events, _ := obj.get("events").(*object)
	if events == nil {
		return nil, fmt.Errorf("missing events section")
	}
	for _, eventType := range events.keys {
		spec := events.get(eventType).(*object)
		payload, _ := spec.get("payload").(string)
		if payload == "" {
			return nil, fmt.Errorf("event %s has no payload", eventType)
		}
		out.Events = append(out.Events, eventDef{Type: eventType, Payload: payload})
	}
	return out, nil
}

func parseField(name string, spec *object) (fieldDef, error) {
	f := fieldDef{JSONName: name}
	f.Kind, _ = spec.get("type").(string)
	f.Optional, _ = spec.get("optional").(bool)

	switch f.Kind {
	case "string", "int", "float", "boolean", "datetime", "any", "record":
	case "enum":
		for _, v := range toArray(spec.get("values")) {
			f.Values = append(f.Values, v.(string))
		}
		if len(f.Values) == 0 {
			return f, fmt.Errorf("enum without values")
		}
	case "literal":
		v, ok := spec.get("value").(bool)
		if !ok {
			return f, fmt.Errorf("literal value must be a boolean")
		}
		f.Literal = v
	case "array":
		items, ok := spec.get("items").(*object)
		if !ok {
			return f, fmt.Errorf("array without items")
		}
		item, err := parseField(name, items)
		if err != nil {
			return f, err
		}
		f.Items = &item
	case "ref":
		f.Ref, _ = spec.get("name").(string)
		if f.Ref == "" {
			return f, fmt.Errorf("ref without name")
		}
	default:
		return f, fmt.Errorf("unknown field type %q", f.Kind)
	}
	return f, nil
}

// object is a JSON object with preserved key order.
type object struct {
	keys   []string
	values map[string]any
}

func (o *object) get(key string) any { return o.values[key] }

func parseValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			obj := &object{values: map[string]any{}}
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key := keyTok.(string)
				val, err := parseValue(dec)
				if err != nil {
					return nil, err
				}
				obj.keys = append(obj.keys, key)
				obj.values[key] = val
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return obj, nil
		case '[':
			var arr []any
			for dec.More() {
				val, err := parseValue(dec)
				if err != nil {
					return nil, err
				}
				arr = append(arr, val)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return arr, nil
		}
		return nil, fmt.Errorf("unexpected delimiter %v", t)
	default:
		return tok, nil
	}
}

func toArray(v any) []any {
	arr, _ := v.([]any)
	return arr
}

// --- naming ---

// goFieldName maps a camelCase wire name to an exported Go name,
// keeping Id and Ts as initialisms (streamId -> StreamID, ts -> TS).
func goFieldName(jsonName string) string {
	name := strings.ToUpper(jsonName[:1]) + jsonName[1:]
	if name == "Ts" {
		return "TS"
	}
	if strings.HasSuffix(name, "Id") && !strings.HasSuffix(name, "uid") {
		name = strings.TrimSuffix(name, "Id") + "ID"
	}
	return name
}

// constName maps an event type to its Go constant (stream.start ->
// TypeStreamStart, event.git.build_failed -> TypeEventGitBuildFailed).
func constName(eventType string) string {
	var sb strings.Builder
	sb.WriteString("Type")
	for _, part := range strings.FieldsFunc(eventType, func(r rune) bool { return r == '.' || r == '_' }) {
		sb.WriteString(strings.ToUpper(part[:1]) + part[1:])
	}
	return sb.String()
}

func goType(f fieldDef) string {
	switch f.Kind {
	case "string", "enum":
		return "string"
	case "int":
		return "int"
	case "float":
		return "float64"
	case "boolean", "literal":
		return "bool"
	case "datetime":
		return "time.Time"
	case "any":
		return "any"
	case "record":
		return "map[string]any"
	case "array":
		return "[]" + goType(*f.Items)
	case "ref":
		return f.Ref
	}
	return "any"
}

// --- Go output ---

func generateGo(s *schemaFile) []byte {
	var b bytes.Buffer
	b.WriteString("// Code generated by eventgen from schema/event-catalog.json. DO NOT EDIT.\n\n")
	b.WriteString("package events\n\n")
	if usesDatetime(s) {
		b.WriteString("import \"time\"\n\n")
	}

	writeSeverities(&b, s.Severities)
	writeTypeConsts(&b, s.Events)
	for _, p := range s.Payloads {
		writeStruct(&b, p)
	}
	writeCatalog(&b, s)
	return b.Bytes()
}

func usesDatetime(s *schemaFile) bool {
	for _, p := range s.Payloads {
		for _, f := range p.Fields {
			if f.Kind == "datetime" {
				return true
			}
		}
	}
	return false
}

func writeSeverities(b *bytes.Buffer, severities []string) {
	b.WriteString("type Severity string\n\nconst (\n")
	names := make([]string, len(severities))
	width := 0
	for i, sev := range severities {
		names[i] = "Severity" + strings.ToUpper(sev[:1]) + sev[1:]
		if len(names[i]) > width {
			width = len(names[i])
		}
	}
	for i, sev := range severities {
		fmt.Fprintf(b, "\t%-*s Severity = %q\n", width, names[i], sev)
	}
	b.WriteString(")\n\n")

	quoted := make([]string, len(severities))
	for i, sev := range severities {
		quoted[i] = fmt.Sprintf("%q", sev)
	}
	fmt.Fprintf(b, "var severities = []string{%s}\n\n", strings.Join(quoted, ", "))
}

func writeTypeConsts(b *bytes.Buffer, events []eventDef) {
	width := 0
	for _, e := range events {
		if n := len(constName(e.Type)); n > width {
			width = n
		}
	}
	b.WriteString("const (\n")
	for _, e := range events {
		fmt.Fprintf(b, "\t%-*s = %q\n", width, constName(e.Type), e.Type)
	}
	b.WriteString(")\n\n")
}

func writeStruct(b *bytes.Buffer, p payloadDef) {
	type row struct{ name, typ, tag string }
	rows := make([]row, 0, len(p.Fields))
	nameWidth, typeWidth := 0, 0
	for _, f := range p.Fields {
		tag := f.JSONName
		if f.Optional {
			tag += ",omitempty"
		}
		r := row{name: goFieldName(f.JSONName), typ: goType(f), tag: tag}
		if len(r.name) > nameWidth {
			nameWidth = len(r.name)
		}
		if len(r.typ) > typeWidth {
			typeWidth = len(r.typ)
		}
		rows = append(rows, r)
	}

	fmt.Fprintf(b, "type %s struct {\n", p.Name)
	for _, r := range rows {
		fmt.Fprintf(b, "\t%-*s %-*s `json:%q`\n", nameWidth, r.name, typeWidth, r.typ, r.tag)
	}
	b.WriteString("}\n\n")
}

func writeCatalog(b *bytes.Buffer, s *schemaFile) {
	byName := map[string]payloadDef{}
	for _, p := range s.Payloads {
		byName[p.Name] = p
	}

	b.WriteString("type payloadSpec struct {\n")
	b.WriteString("\tnewPayload func() any\n")
	b.WriteString("\trequired   []string\n")
	b.WriteString("\tcheck      func(any) error\n")
	b.WriteString("}\n\n")

	b.WriteString("var catalog = map[string]payloadSpec{\n")
	for _, e := range s.Events {
		p := byName[e.Payload]
		fmt.Fprintf(b, "\t%s: {\n", constName(e.Type))
		fmt.Fprintf(b, "\t\tnewPayload: func() any { return new(%s) },\n", p.Name)
		fmt.Fprintf(b, "\t\trequired:   []string{%s},\n", requiredList(p))
		writeChecks(b, p)
		b.WriteString("\t},\n")
	}
	b.WriteString("}\n")
}

func requiredList(p payloadDef) string {
	var quoted []string
	for _, f := range p.Fields {
		if !f.Optional {
			quoted = append(quoted, fmt.Sprintf("%q", f.JSONName))
		}
	}
	return strings.Join(quoted, ", ")
}

func writeChecks(b *bytes.Buffer, p payloadDef) {
	var checks []string
	for _, f := range p.Fields {
		switch f.Kind {
		case "enum":
			values := make([]string, len(f.Values))
			for i, v := range f.Values {
				values[i] = fmt.Sprintf("%q", v)
			}
			checks = append(checks, fmt.Sprintf("checkEnum(%q, p.%s, %s)",
				f.JSONName, goFieldName(f.JSONName), strings.Join(values, ", ")))
		case "literal":
			checks = append(checks, fmt.Sprintf("checkLiteralBool(%q, p.%s, %t)",
				f.JSONName, goFieldName(f.JSONName), f.Literal))
		}
	}
	if len(checks) == 0 {
		return
	}

	b.WriteString("\t\tcheck: func(v any) error {\n")
	fmt.Fprintf(b, "\t\t\tp := v.(*%s)\n", p.Name)
	for _, check := range checks[:len(checks)-1] {
		fmt.Fprintf(b, "\t\t\tif err := %s; err != nil {\n\t\t\t\treturn err\n\t\t\t}\n", check)
	}
	fmt.Fprintf(b, "\t\t\treturn %s\n", checks[len(checks)-1])
	b.WriteString("\t\t},\n")
}

// --- TypeScript output ---

func generateTS(s *schemaFile) []byte {
	var b bytes.Buffer
	b.WriteString("// Code generated by eventgen from schema/event-catalog.json. DO NOT EDIT.\n\n")

	quoted := make([]string, len(s.Severities))
	for i, sev := range s.Severities {
		quoted[i] = fmt.Sprintf("%q", sev)
	}
	fmt.Fprintf(&b, "export type Severity = %s;\n\n", strings.Join(quoted, " | "))

	for _, p := range s.Payloads {
		fmt.Fprintf(&b, "export interface %s {\n", p.Name)
		for _, f := range p.Fields {
			opt := ""
			if f.Optional {
				opt = "?"
			}
			fmt.Fprintf(&b, "  %s%s: %s;\n", f.JSONName, opt, tsType(f))
		}
		b.WriteString("}\n\n")
	}

	b.WriteString("export interface EventEnvelope<T extends EventType> {\n")
	b.WriteString("  type: T;\n  traceId: string;\n  ts: string;\n  source: string;\n")
	b.WriteString("  severity: Severity;\n  payload: EventPayloads[T];\n}\n\n")

	b.WriteString("export interface EventPayloads {\n")
	for _, e := range s.Events {
		fmt.Fprintf(&b, "  %q: %s;\n", e.Type, e.Payload)
	}
	b.WriteString("}\n\n")
	b.WriteString("export type EventType = keyof EventPayloads;\n")
	return b.Bytes()
}

func tsType(f fieldDef) string {
	switch f.Kind {
	case "string", "datetime":
		return "string"
	case "int", "float":
		return "number"
	case "boolean":
		return "boolean"
	case "literal":
		return fmt.Sprintf("%t", f.Literal)
	case "any":
		return "unknown"
	case "record":
		return "Record<string, unknown>"
	case "array":
		return tsType(*f.Items) + "[]"
	case "ref":
		return f.Ref
	case "enum":
		values := make([]string, len(f.Values))
		for i, v := range f.Values {
			values[i] = fmt.Sprintf("%q", v)
		}
		return strings.Join(values, " | ")
	}
	return "unknown"
}
