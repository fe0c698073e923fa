package genai

import (
	"testing"

	"venty-hq/relay/pkg/providers"
)

func TestTransformRequestFoldsSystemIntoFirstUserTurn(t *testing.T) {
	messages := []providers.Message{
		{Role: providers.RoleSystem, Content: providers.TextContent("be brief")},
		{Role: providers.RoleUser, Content: providers.TextContent("hi")},
		{Role: providers.RoleAssistant, Content: providers.TextContent("hello")},
		{Role: providers.RoleUser, Content: providers.TextContent("more")},
	}

	req := transformRequest(messages)
	if len(req.Contents) != 3 {
		t.Fatalf("content count = %d, want 3 (system folded)", len(req.Contents))
	}

	first := req.Contents[0]
	if first.Role != "user" || len(first.Parts) != 2 {
		t.Fatalf("first turn = %+v, want user with prefixed system part", first)
	}
	if first.Parts[0].Text != "be brief" || first.Parts[1].Text != "hi" {
		t.Errorf("first turn parts = %+v", first.Parts)
	}

	if req.Contents[1].Role != "model" {
		t.Errorf("assistant role = %q, want model", req.Contents[1].Role)
	}
	if len(req.Contents[2].Parts) != 1 {
		t.Errorf("system prefix applied to more than one turn: %+v", req.Contents[2])
	}
}

func TestTransformRequestMultipleSystemMessages(t *testing.T) {
	messages := []providers.Message{
		{Role: providers.RoleSystem, Content: providers.TextContent("first")},
		{Role: providers.RoleSystem, Content: providers.TextContent("second")},
		{Role: providers.RoleUser, Content: providers.TextContent("hi")},
	}

	req := transformRequest(messages)
	if got := req.Contents[0].Parts[0].Text; got != "first\n\nsecond" {
		t.Errorf("folded system text = %q", got)
	}
}

func TestTransformPartsInlineData(t *testing.T) {
	content := providers.PartsContent(
		providers.ContentPart{Type: providers.PartText, Text: "what is this?"},
		providers.ContentPart{Type: providers.PartImageURL, ImageURL: "data:image/png;base64,iVBORw0K"},
	)

	parts := transformParts(content)
	if len(parts) != 2 {
		t.Fatalf("part count = %d, want 2", len(parts))
	}
	if parts[0].Text != "what is this?" {
		t.Errorf("text part = %+v", parts[0])
	}
	inline := parts[1].InlineData
	if inline == nil || inline.MimeType != "image/png" || inline.Data != "iVBORw0K" {
		t.Errorf("inline data = %+v", inline)
	}
}

func TestTransformPartsRemoteURLBecomesText(t *testing.T) {
	content := providers.PartsContent(
		providers.ContentPart{Type: providers.PartImageURL, ImageURL: "https://cdn.example/a.png"},
	)

	parts := transformParts(content)
	if len(parts) != 1 || parts[0].InlineData != nil {
		t.Fatalf("parts = %+v", parts)
	}
	if parts[0].Text != "[Image URL: https://cdn.example/a.png]" {
		t.Errorf("text = %q", parts[0].Text)
	}
}

func TestParseDataURI(t *testing.T) {
	tests := []struct {
		uri      string
		wantOK   bool
		wantMime string
		wantData string
	}{
		{"data:image/png;base64,AAAA", true, "image/png", "AAAA"},
		{"data:image/jpeg;base64,", true, "image/jpeg", ""},
		{"https://cdn.example/a.png", false, "", ""},
		{"data:image/png,rawdata", false, "", ""},
		{"data:;base64,AAAA", false, "", ""},
		{"data:image/png;base64", false, "", ""},
	}

	for _, tt := range tests {
		inline, ok := parseDataURI(tt.uri)
		if ok != tt.wantOK {
			t.Errorf("parseDataURI(%q) ok = %v, want %v", tt.uri, ok, tt.wantOK)
			continue
		}
		if !ok {
			continue
		}
		if inline.MimeType != tt.wantMime || inline.Data != tt.wantData {
			t.Errorf("parseDataURI(%q) = %+v", tt.uri, inline)
		}
	}
}

func TestCandidateText(t *testing.T) {
	resp := &GenerateResponse{
		Candidates: []Candidate{
			{Content: WireContent{Role: "model", Parts: []WirePart{{Text: "Hello"}, {Text: " there"}}}},
		},
	}

	text, err := candidateText(resp)
	if err != nil {
		t.Fatalf("candidateText() error = %v", err)
	}
	if text != "Hello there" {
		t.Errorf("text = %q", text)
	}

	if _, err := candidateText(&GenerateResponse{}); err == nil {
		t.Error("candidateText() accepted empty candidates")
	}
}
