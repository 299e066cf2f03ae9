package robolt_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/robolt-go/pkg/robolt"
)

// compressedSchema is a User model whose "friend" field points back at User and
// whose "company" field points at a Company with an "owner" pointing at User.
const compressedSchema = `[
	{"name": "Name", "key": "name", "type": "String"},
	{"name": "Friend", "key": "friend", "type": "Object", "ref": "User", "subfields": [
		{"name": "Name", "key": "name", "type": "String"},
		{"name": "Friend", "key": "friend", "type": "Object", "ref": "User"}
	]},
	{"name": "Company", "key": "company", "type": "Object", "ref": "Company", "subfields": [
		{"name": "Title", "key": "title", "type": "String"},
		{"name": "Owner", "key": "owner", "type": "Object", "ref": "User"}
	]}
]`

func decodeSchema(t *testing.T, raw string) []*robolt.SchemaField {
	t.Helper()

	var fields []*robolt.SchemaField

	require.NoError(t, json.Unmarshal([]byte(raw), &fields))

	return fields
}

func sameSlice(a, b []*robolt.SchemaField) bool {
	return len(a) > 0 && len(a) == len(b) && &a[0] == &b[0]
}

func TestRecycleSchema(t *testing.T) {
	t.Parallel()
	t.Run("relinks repeated refs to the first occurrence", func(t *testing.T) {
		t.Parallel()

		fields := robolt.RecycleSchema(decodeSchema(t, compressedSchema))

		friend := fields[1]
		nestedFriend := friend.Subfields[1]
		owner := fields[2].Subfields[1]

		assert.True(t, sameSlice(friend.Subfields, nestedFriend.Subfields))
		assert.True(t, sameSlice(friend.Subfields, owner.Subfields))
		assert.Same(t, friend.Subfields[1], nestedFriend.Subfields[1])
	})

	t.Run("is idempotent", func(t *testing.T) {
		t.Parallel()

		fields := robolt.RecycleSchema(decodeSchema(t, compressedSchema))
		friendSubfields := fields[1].Subfields
		companySubfields := fields[2].Subfields

		again := robolt.RecycleSchema(fields)

		assert.True(t, sameSlice(friendSubfields, again[1].Subfields))
		assert.True(t, sameSlice(companySubfields, again[2].Subfields))
		assert.True(t, sameSlice(friendSubfields, again[2].Subfields[1].Subfields))
	})

	t.Run("leaves fields without refs alone", func(t *testing.T) {
		t.Parallel()

		fields := robolt.RecycleSchema(decodeSchema(t, `[
			{"key": "a", "type": "Object", "subfields": [{"key": "b", "type": "String"}]},
			{"key": "c", "type": "Object", "subfields": [{"key": "b", "type": "String"}]}
		]`))

		assert.False(t, sameSlice(fields[0].Subfields, fields[1].Subfields))
	})

	t.Run("first occurrence without subfields does not claim the ref", func(t *testing.T) {
		t.Parallel()

		fields := robolt.RecycleSchema(decodeSchema(t, `[
			{"key": "early", "type": "Object", "ref": "Tag"},
			{"key": "full", "type": "Object", "ref": "Tag", "subfields": [{"key": "label", "type": "String"}]},
			{"key": "late", "type": "Object", "ref": "Tag"}
		]`))

		assert.Nil(t, fields[0].Subfields)
		assert.True(t, sameSlice(fields[1].Subfields, fields[2].Subfields))
	})

	t.Run("empty input", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, robolt.RecycleSchema(nil))
	})
}

func TestWalkSchema(t *testing.T) {
	t.Parallel()
	t.Run("terminates on recycled cycles", func(t *testing.T) {
		t.Parallel()

		fields := robolt.RecycleSchema(decodeSchema(t, compressedSchema))

		var paths []string

		robolt.WalkSchema(fields, func(path []string, _ *robolt.SchemaField) bool {
			paths = append(paths, strings.Join(path, "."))

			return true
		})

		assert.Equal(t, []string{
			"name",
			"friend",
			"friend.name",
			"friend.friend",
			"company",
			"company.title",
			"company.owner",
			"company.owner.name",
			"company.owner.friend",
		}, paths)
	})

	t.Run("false skips subfields", func(t *testing.T) {
		t.Parallel()

		fields := decodeSchema(t, compressedSchema)

		var keys []string

		robolt.WalkSchema(fields, func(path []string, field *robolt.SchemaField) bool {
			keys = append(keys, field.Key)

			return field.Ref == ""
		})

		assert.Equal(t, []string{"name", "friend", "company"}, keys)
	})
}
