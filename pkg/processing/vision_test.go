package processing

import "testing"

func TestMessageHasImage(t *testing.T) {
	tests := []struct {
		name string
		msg  RawMessage
		want bool
	}{
		{
			name: "image attachment by type",
			msg:  RawMessage{Role: "user", Content: "look", FileURL: "https://cdn.example/a.bin", FileType: "image/png"},
			want: true,
		},
		{
			name: "image data URI attachment",
			msg:  RawMessage{Role: "user", FileURL: "data:image/jpeg;base64,/9j/4AAQ"},
			want: true,
		},
		{
			name: "image hinted by url",
			msg:  RawMessage{Role: "user", FileURL: "https://cdn.example/uploads/image-42"},
			want: true,
		},
		{
			name: "pdf attachment",
			msg:  RawMessage{Role: "user", FileURL: "https://cdn.example/report.pdf", FileType: "application/pdf"},
			want: false,
		},
		{
			name: "inline image data URI in content",
			msg:  RawMessage{Role: "user", Content: "here data:image/png;base64,iVBORw0K"},
			want: true,
		},
		{
			name: "inline base64 payload in content",
			msg:  RawMessage{Role: "user", Content: "attached: base64,AAAA"},
			want: true,
		},
		{
			name: "plain text",
			msg:  RawMessage{Role: "user", Content: "hello there"},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MessageHasImage(&tt.msg); got != tt.want {
				t.Errorf("MessageHasImage() = %v, want %v", got, tt.want)
			}
		})
	}

	if MessageHasImage(nil) {
		t.Error("MessageHasImage(nil) = true")
	}
}

func TestResolveVision(t *testing.T) {
	imageMsg := RawMessage{Role: "user", Content: "see", FileURL: "data:image/png;base64,AAAA", FileType: "image/png"}
	textMsg := RawMessage{Role: "user", Content: "tell me more"}

	tests := []struct {
		name            string
		messages        []RawMessage
		visionHint      bool
		hasImageContext bool
		want            bool
	}{
		{
			name:     "current message has image",
			messages: []RawMessage{textMsg, imageMsg},
			want:     true,
		},
		{
			name:            "current image overrides cached context",
			messages:        []RawMessage{imageMsg},
			hasImageContext: true,
			want:            true,
		},
		{
			name:     "older image without cached context",
			messages: []RawMessage{imageMsg, textMsg},
			want:     true,
		},
		{
			name:            "older image with cached context",
			messages:        []RawMessage{imageMsg, textMsg},
			hasImageContext: true,
			want:            false,
		},
		{
			name:       "hint without cached context",
			messages:   []RawMessage{textMsg},
			visionHint: true,
			want:       true,
		},
		{
			name:            "hint with cached context",
			messages:        []RawMessage{textMsg},
			visionHint:      true,
			hasImageContext: true,
			want:            false,
		},
		{
			name:     "text only",
			messages: []RawMessage{textMsg},
			want:     false,
		},
		{
			name:       "empty messages with hint",
			visionHint: true,
			want:       true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveVision(tt.messages, tt.visionHint, tt.hasImageContext)
			if got != tt.want {
				t.Errorf("ResolveVision() = %v, want %v", got, tt.want)
			}
		})
	}
}
