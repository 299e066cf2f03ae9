package robolt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fivetwenty-io/robolt-go/pkg/robolt"
)

func TestAccesses(t *testing.T) {
	t.Parallel()

	descriptor := robolt.AccessDescriptor{
		Model: robolt.ModelAccess{Read: true, Write: true, WriteAllRequired: false},
		Fields: map[string]robolt.FieldAccess{
			"name":         {Read: true, Write: true},
			"address.city": {Read: true},
			"secret":       {},
		},
	}

	accesses := robolt.NewAccesses(descriptor)

	tests := []struct {
		name     string
		got      bool
		expected bool
	}{
		{"read model", accesses.CanReadModel(), true},
		{"write model", accesses.CanWriteModel(), true},
		{"create model", accesses.CanCreateModel(), false},
		{"read field", accesses.CanReadField("name"), true},
		{"write field", accesses.CanWriteField("name"), true},
		{"read nested field", accesses.CanReadField("address.city"), true},
		{"write read-only field", accesses.CanWriteField("address.city"), false},
		{"read field without flags", accesses.CanReadField("secret"), false},
		{"read missing field", accesses.CanReadField("missing"), false},
		{"write missing field", accesses.CanWriteField("missing"), false},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, testCase.expected, testCase.got)
		})
	}

	t.Run("descriptor is copied", func(t *testing.T) {
		t.Parallel()

		source := robolt.AccessDescriptor{Fields: map[string]robolt.FieldAccess{"a": {Read: true}}}
		copied := robolt.NewAccesses(source)

		source.Fields["a"] = robolt.FieldAccess{}
		assert.True(t, copied.CanReadField("a"))

		snapshot := copied.Descriptor()
		snapshot.Fields["a"] = robolt.FieldAccess{}
		assert.True(t, copied.CanReadField("a"))
	})

	t.Run("zero descriptor denies everything", func(t *testing.T) {
		t.Parallel()

		empty := robolt.NewAccesses(robolt.AccessDescriptor{})
		assert.False(t, empty.CanReadModel())
		assert.False(t, empty.CanWriteModel())
		assert.False(t, empty.CanCreateModel())
		assert.False(t, empty.CanReadField("any"))
	})
}

type capturingLogger struct {
	robolt.NopLogger
	warnings []map[string]interface{}
}

func (l *capturingLogger) Warn(msg string, fields map[string]interface{}) {
	l.warnings = append(l.warnings, map[string]interface{}{"msg": msg, "group": fields["group"]})
}

func TestAccessGroups(t *testing.T) {
	t.Parallel()
	t.Run("warns for unknown groups", func(t *testing.T) {
		t.Parallel()

		logger := &capturingLogger{}
		groups := robolt.NewAccessGroups([]string{"admin", "editor"}, logger)

		unknown := groups.Check("admin", "guest", "robot")

		assert.Equal(t, []string{"guest", "robot"}, unknown)
		assert.Equal(t, []map[string]interface{}{
			{"msg": "Unknown access group", "group": "guest"},
			{"msg": "Unknown access group", "group": "robot"},
		}, logger.warnings)
	})

	t.Run("known groups are silent", func(t *testing.T) {
		t.Parallel()

		logger := &capturingLogger{}
		groups := robolt.NewAccessGroups([]string{"admin"}, logger)

		assert.Empty(t, groups.Check("admin"))
		assert.Empty(t, groups.Check())
		assert.Empty(t, logger.warnings)
		assert.True(t, groups.Has("admin"))
		assert.False(t, groups.Has("Admin"))
	})

	t.Run("nil logger", func(t *testing.T) {
		t.Parallel()

		groups := robolt.NewAccessGroups(nil, nil)
		assert.Equal(t, []string{"x"}, groups.Check("x"))
		assert.Empty(t, groups.Groups())
	})
}
