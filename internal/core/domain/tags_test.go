package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTag(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Go", "go"},
		{" Go Lang! ", "go-lang"},
		{"snake_case", "snake_case"},
		{"C++", "c"},
		{"!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeTag(tt.in))
		})
	}
}

func TestNormalizeTags_DropsEmptyAndDuplicates(t *testing.T) {
	assert.Equal(t, []string{"go", "web"}, NormalizeTags([]string{"Go", "", "!!", "web", "GO"}))
}

func TestParseTags(t *testing.T) {
	assert.Equal(t, []string{"go", "web-dev"}, ParseTags("Go, Web Dev"))
	assert.Equal(t, []string{"go", "web", "dev"}, ParseTags("go web  dev"))
	assert.Equal(t, []string{}, ParseTags(""))
	assert.Equal(t, []string{"solo"}, ParseTags("solo,"))
}

func TestTagCloud(t *testing.T) {
	cloud := TagCloud(map[string]int{"go": 3, "web": 1, "api": 1, "none": 0})

	assert.Len(t, cloud, 3)
	assert.Equal(t, "go", cloud[0].Tag)
	assert.InDelta(t, 0.6, cloud[0].Weight, 1e-9)
	// Ties are ordered by tag descending.
	assert.Equal(t, "web", cloud[1].Tag)
	assert.Equal(t, "api", cloud[2].Tag)
}

func TestTagCloud_Empty(t *testing.T) {
	assert.Empty(t, TagCloud(nil))
}
