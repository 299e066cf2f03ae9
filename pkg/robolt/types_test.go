package robolt_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/robolt-go/pkg/robolt"
)

func TestSort_MarshalJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		sort     robolt.Sort
		expected string
	}{
		{"empty", robolt.Sort{}, `{}`},
		{"ascending", robolt.Ascending("name"), `{"name":1}`},
		{"descending keeps order", robolt.Descending("z", "a", "m"), `{"z":-1,"a":-1,"m":-1}`},
		{"mixed", robolt.Sort{{Field: "createdAt", Order: -1}, {Field: "_id", Order: 1}}, `{"createdAt":-1,"_id":1}`},
		{"escaped keys", robolt.Ascending(`we"ird`), `{"we\"ird":1}`},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			data, err := json.Marshal(testCase.sort)
			require.NoError(t, err)
			assert.Equal(t, testCase.expected, string(data))
		})
	}
}

func TestDocument_ID(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "abc", robolt.Document{"_id": "abc"}.ID())
	assert.Empty(t, robolt.Document{"_id": 12}.ID())
	assert.Empty(t, robolt.Document{}.ID())
}

func TestModelDescriptor_Name(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "User", robolt.ModelDescriptor{"name": "User", "displayName": "Users"}.Name())
	assert.Empty(t, robolt.ModelDescriptor{}.Name())
}

func TestRoboFile_JSON(t *testing.T) {
	t.Parallel()

	var file robolt.RoboFile

	err := json.Unmarshal([]byte(`{
		"_id": "f1",
		"name": "cat.png",
		"path": "a1b2.png",
		"size": 2048,
		"type": "image/png",
		"extension": "png",
		"isImage": true,
		"thumbnailPath": "a1b2_thumb.png",
		"uploadDate": "2024-01-02T03:04:05Z"
	}`), &file)
	require.NoError(t, err)

	assert.Equal(t, "f1", file.ID)
	assert.Equal(t, "image/png", file.MimeType)
	assert.Equal(t, int64(2048), file.Size)
	assert.True(t, file.IsImage)
	assert.Equal(t, "a1b2_thumb.png", file.ThumbnailPath)
	assert.Equal(t, 2024, file.UploadDate.Year())
}
