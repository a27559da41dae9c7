package gemini

import (
	"context"
	"strings"
	"testing"

	"github.com/google/generative-ai-go/genai"

	"github.com/nathoo/storyseed/types"
)

func TestNew_RequiresKey(t *testing.T) {
	if _, err := New(context.Background(), " ", ""); err == nil {
		t.Fatal("expected an error without an api key")
	}
}

func TestPrompt(t *testing.T) {
	world := types.World{
		Genre: "gothic drama", Location: "a chapel with no bell", TimeOfDay: "dusk",
		Atmosphere: "hushed", Role: "courier", Destination: "the lighthouse at Vell",
		Tension: 0.25, Mystery: 0.5,
	}
	got := Prompt("The lamp gutters.", world)
	for _, want := range []string{"gothic drama", "a chapel with no bell", "courier", "Tension: 25%", "Mystery: 50%", "The lamp gutters."} {
		if !strings.Contains(got, want) {
			t.Errorf("prompt missing %q:\n%s", want, got)
		}
	}
}

func TestFirstText(t *testing.T) {
	resp := &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
		Content: &genai.Content{Parts: []genai.Part{genai.Text("One. "), genai.Text("Two.")}},
	}}}
	got, err := firstText(resp)
	if err != nil {
		t.Fatal(err)
	}
	if got != "One. Two." {
		t.Errorf("unexpected text %q", got)
	}

	for _, empty := range []*genai.GenerateContentResponse{
		nil,
		{},
		{Candidates: []*genai.Candidate{{}}},
		{Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: []genai.Part{genai.Blob{MIMEType: "image/png"}}}}}},
	} {
		if _, err := firstText(empty); err == nil {
			t.Errorf("expected an error for %+v", empty)
		}
	}
}
