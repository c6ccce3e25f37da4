package ytdlp

import (
	"reflect"
	"testing"
)

func TestRenderArgs(t *testing.T) {
	tests := []struct {
		name string
		opts map[string]any
		want []string
	}{
		{
			name: "empty map renders nothing",
			opts: map[string]any{},
			want: nil,
		},
		{
			name: "underscores become hyphens",
			opts: map[string]any{"audio_format": "mp3"},
			want: []string{"--audio-format", "mp3"},
		},
		{
			name: "true booleans are bare flags",
			opts: map[string]any{"embed_thumbnail": true},
			want: []string{"--embed-thumbnail"},
		},
		{
			name: "false booleans take the --no- form",
			opts: map[string]any{"continue": false},
			want: []string{"--no-continue"},
		},
		{
			name: "numbers are stringified",
			opts: map[string]any{"audio_quality": 0},
			want: []string{"--audio-quality", "0"},
		},
		{
			name: "lists repeat the flag",
			opts: map[string]any{"postprocessor_args": []any{"-ar", "44100"}},
			want: []string{"--postprocessor-args", "-ar", "--postprocessor-args", "44100"},
		},
		{
			name: "keys are sorted for reproducible invocations",
			opts: map[string]any{"format": "bestaudio", "audio_quality": 0},
			want: []string{"--audio-quality", "0", "--format", "bestaudio"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RenderArgs(tt.opts)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("RenderArgs(%v) = %v, want %v", tt.opts, got, tt.want)
			}
		})
	}
}
