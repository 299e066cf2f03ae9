package robolt

// SchemaField is one node of a robogo model schema.
//
// Schemas of models that reference each other are cyclic. robogo breaks the
// cycles before sending them: the subfields of a given Ref are sent with its
// first occurrence only. RecycleSchema restores the shared structure.
type SchemaField struct {
	Name      string         `json:"name"               yaml:"name"`
	Key       string         `json:"key"                yaml:"key"`
	Type      string         `json:"type"               yaml:"type"`
	Enum      []string       `json:"enum,omitempty"     yaml:"enum,omitempty"`
	Required  bool           `json:"required,omitempty" yaml:"required,omitempty"`
	IsArray   bool           `json:"isArray,omitempty"  yaml:"isArray,omitempty"`
	Marked    bool           `json:"marked,omitempty"   yaml:"marked,omitempty"`
	Hidden    bool           `json:"hidden,omitempty"   yaml:"hidden,omitempty"`
	Default   any            `json:"default,omitempty"  yaml:"default,omitempty"`
	Props     map[string]any `json:"props,omitempty"    yaml:"props,omitempty"`
	Ref       string         `json:"ref,omitempty"      yaml:"ref,omitempty"`
	Subfields []*SchemaField `json:"subfields,omitempty" yaml:"subfields,omitempty"`
}

// RecycleSchema relinks every field whose Ref was already seen to the
// subfields of the first field with that Ref, in place, and returns fields.
//
// Afterwards all fields sharing a Ref share one Subfields slice, so the schema
// may contain cycles: it must not be marshaled or walked without a guard (see
// WalkSchema). A first occurrence without subfields does not claim its Ref,
// the next occurrence that carries subfields does.
func RecycleSchema(fields []*SchemaField) []*SchemaField {
	recycleField(&SchemaField{Subfields: fields}, make(map[string][]*SchemaField))

	return fields
}

func recycleField(field *SchemaField, processedRefs map[string][]*SchemaField) {
	if field.Ref != "" {
		subfields, seen := processedRefs[field.Ref]
		if seen {
			field.Subfields = subfields

			return
		}

		if field.Subfields != nil {
			processedRefs[field.Ref] = field.Subfields
		}
	}

	for _, subfield := range field.Subfields {
		recycleField(subfield, processedRefs)
	}
}

// WalkSchema calls fn for every field in depth-first order with the key path
// leading to it. It does not descend into a field whose Ref already appears
// among its ancestors, so it terminates on recycled schemas. Returning false
// from fn skips the field's subfields.
func WalkSchema(fields []*SchemaField, fn func(path []string, field *SchemaField) bool) {
	walkFields(fields, nil, map[string]bool{}, fn)
}

func walkFields(fields []*SchemaField, path []string, refsOnPath map[string]bool, fn func([]string, *SchemaField) bool) {
	for _, field := range fields {
		if field == nil {
			continue
		}

		fieldPath := append(path[:len(path):len(path)], field.Key)
		if !fn(fieldPath, field) {
			continue
		}

		if field.Ref != "" {
			if refsOnPath[field.Ref] {
				continue
			}

			refsOnPath[field.Ref] = true
			walkFields(field.Subfields, fieldPath, refsOnPath, fn)
			delete(refsOnPath, field.Ref)

			continue
		}

		walkFields(field.Subfields, fieldPath, refsOnPath, fn)
	}
}
