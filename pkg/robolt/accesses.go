package robolt

import (
	"maps"
	"os"
	"slices"
)

// ModelAccess holds the model level permission flags.
type ModelAccess struct {
	Read             bool `json:"read"             yaml:"read"`
	Write            bool `json:"write"            yaml:"write"`
	WriteAllRequired bool `json:"writeAllRequired" yaml:"writeAllRequired"`
}

// FieldAccess holds the permission flags of one field path.
type FieldAccess struct {
	Read  bool `json:"read,omitempty"  yaml:"read,omitempty"`
	Write bool `json:"write,omitempty" yaml:"write,omitempty"`
}

// AccessDescriptor is the body of the accesses route.
type AccessDescriptor struct {
	Model  ModelAccess            `json:"model"  yaml:"model"`
	Fields map[string]FieldAccess `json:"fields" yaml:"fields"`
}

// Accesses is a read-only view over the permissions of one model.
type Accesses struct {
	model  ModelAccess
	fields map[string]FieldAccess
}

// NewAccesses copies descriptor into a new Accesses.
func NewAccesses(descriptor AccessDescriptor) *Accesses {
	fields := maps.Clone(descriptor.Fields)
	if fields == nil {
		fields = map[string]FieldAccess{}
	}

	return &Accesses{
		model:  descriptor.Model,
		fields: fields,
	}
}

// CanReadModel reports whether documents of the model may be read.
func (a *Accesses) CanReadModel() bool {
	return a.model.Read
}

// CanWriteModel reports whether documents of the model may be written.
func (a *Accesses) CanWriteModel() bool {
	return a.model.Write
}

// CanCreateModel reports whether every required field may be written, which
// is what creating a document needs.
func (a *Accesses) CanCreateModel() bool {
	return a.model.WriteAllRequired
}

// CanReadField reports whether the field at path may be read. Unknown paths
// are not readable.
func (a *Accesses) CanReadField(path string) bool {
	return a.fields[path].Read
}

// CanWriteField reports whether the field at path may be written. Unknown
// paths are not writable.
func (a *Accesses) CanWriteField(path string) bool {
	return a.fields[path].Write
}

// Descriptor returns a copy of the underlying descriptor.
func (a *Accesses) Descriptor() AccessDescriptor {
	return AccessDescriptor{
		Model:  a.model,
		Fields: maps.Clone(a.fields),
	}
}

// AccessGroups is a read-only view over the access group names known to the server.
type AccessGroups struct {
	groups []string
	logger Logger
}

// NewAccessGroups copies groups into a new AccessGroups. Check reports unknown
// groups through logger; a nil logger writes them to stderr.
func NewAccessGroups(groups []string, logger Logger) *AccessGroups {
	if logger == nil {
		logger = NewWarnLogger(os.Stderr)
	}

	return &AccessGroups{
		groups: slices.Clone(groups),
		logger: logger,
	}
}

// Groups returns a copy of the known group names.
func (g *AccessGroups) Groups() []string {
	return slices.Clone(g.groups)
}

// Has reports whether group is known to the server.
func (g *AccessGroups) Has(group string) bool {
	return slices.Contains(g.groups, group)
}

// Check logs a warning for every group that is unknown to the server and
// returns the unknown ones. It never fails.
func (g *AccessGroups) Check(groups ...string) []string {
	var unknown []string

	for _, group := range groups {
		if g.Has(group) {
			continue
		}

		g.logger.Warn("Unknown access group", map[string]interface{}{
			"group": group,
		})

		unknown = append(unknown, group)
	}

	return unknown
}
