package preview

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractIframeSrc(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "标准 oEmbed 片段",
			html: `<iframe src="https://www.figma.com/embed?url=abc" width="800"></iframe>`,
			want: "https://www.figma.com/embed?url=abc",
		},
		{
			name: "空片段",
			html: "",
			want: "",
		},
		{
			name: "无 iframe",
			html: `<div>nothing here</div>`,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractIframeSrc(tt.html))
		})
	}
}

func TestBuildFigmaEmbedURL(t *testing.T) {
	got := buildFigmaEmbedURL("https://www.figma.com/design/xyz/My-File")
	assert.Contains(t, got, "https://www.figma.com/embed?embed_host=byndlink&url=")
	assert.Contains(t, got, "My-File")
}
