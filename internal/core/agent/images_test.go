package agent

import (
	"strings"
	"testing"
)

func TestFormatAndParseImageMarker(t *testing.T) {
	marker := FormatImageMarker("https://cdn.test:8443/a/b.png", "Combo: Burger [Large]")
	if marker != "[IMAGE:https://cdn.test:8443/a/b.png:Combo - Burger (Large)]" {
		t.Fatalf("unexpected marker %q", marker)
	}

	_, markers := ExtractImageMarkers("hi " + marker)
	if len(markers) != 1 {
		t.Fatalf("expected one marker, got %d", len(markers))
	}
	if markers[0].URL != "https://cdn.test:8443/a/b.png" || markers[0].Caption != "Combo - Burger (Large)" {
		t.Errorf("unexpected parse %+v", markers[0])
	}

	bare := ParseImageMarker("https://cdn.test/x.png")
	if bare.URL != "https://cdn.test/x.png" || bare.Caption != "" {
		t.Errorf("a marker without caption keeps its url intact, got %+v", bare)
	}
}

func TestParseImageMarkerPortWithoutCaption(t *testing.T) {
	tests := []struct {
		body        string
		wantURL     string
		wantCaption string
	}{
		{"http://host:8080/a.png", "http://host:8080/a.png", ""},
		{"http://host:8080", "http://host:8080", ""},
		{"http://host:8080/a.png:Promo", "http://host:8080/a.png", "Promo"},
		{"https://cdn.test/a.png:Buy 1/2 price", "https://cdn.test/a.png", "Buy 1/2 price"},
		{"https://cdn.test/a.png:2024", "https://cdn.test/a.png", "2024"},
		{"https://cdn.test/a.png:", "https://cdn.test/a.png", ""},
	}
	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			got := ParseImageMarker(tt.body)
			if got.URL != tt.wantURL || got.Caption != tt.wantCaption {
				t.Errorf("ParseImageMarker(%q) = %+v, want url %q caption %q", tt.body, got, tt.wantURL, tt.wantCaption)
			}
		})
	}
}

func TestExtractImageMarkersCleansText(t *testing.T) {
	clean, markers := ExtractImageMarkers("Here you go!\n\n[IMAGE:https://x.test/1.png:One]\n\n\n[IMAGE:https://x.test/2.png:Two]\nAnything else?")
	if len(markers) != 2 || markers[1].Caption != "Two" {
		t.Fatalf("unexpected markers %+v", markers)
	}
	if strings.Contains(clean, "[IMAGE:") || strings.Contains(clean, "\n\n\n") {
		t.Errorf("markers should be stripped cleanly: %q", clean)
	}
}

func TestInjectFallbackImages(t *testing.T) {
	widget := CollectedImage{Ref: "product:1", URL: "https://x.test/w.png", Name: "Widget"}
	gadget := CollectedImage{Ref: "product:2", URL: "https://x.test/g.png", Name: "Gadget"}

	tests := []struct {
		name   string
		reply  string
		images []CollectedImage
		want   int
	}{
		{"mentioned name", "The Widget is great. Widget fans love it.", []CollectedImage{widget, gadget}, 1},
		{"single image always shown", "Sure, here it is.", []CollectedImage{gadget}, 1},
		{"nothing mentioned among many", "We have lots of items.", []CollectedImage{widget, gadget}, 0},
		{"reply already has a marker", "Look " + widget.Marker(), []CollectedImage{widget, gadget}, 0},
		{"duplicate collected images", "Widget!", []CollectedImage{widget, {Ref: "product:3", URL: widget.URL, Name: "Widget"}}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, n := InjectFallbackImages(tt.reply, tt.images)
			if n != tt.want {
				t.Fatalf("injected %d, want %d: %q", n, tt.want, out)
			}
			if tt.want == 1 && tt.images[0].Name == "Widget" && strings.Count(out, widget.Marker()) != 1 {
				t.Errorf("Widget marker should appear exactly once: %q", out)
			}
		})
	}
}

func TestResolveImageRefs(t *testing.T) {
	images := NewImageCollector()
	images.Add(CollectedImage{Ref: "promotion:p1", URL: "https://x.test/promo.png", Name: "Raya Sale"})
	images.Add(CollectedImage{Ref: "promotion:p1", URL: "https://x.test/other.png", Name: "dup"})
	images.Add(CollectedImage{Ref: "product:nourl"})

	if images.Len() != 1 {
		t.Fatalf("collector should dedup by ref and skip empty urls, got %d", images.Len())
	}

	out, n := ResolveImageRefs("Check this!\n[IMAGE_REF: promotion:p1 ]\n[IMAGE_REF:product:missing]", images)
	if n != 1 {
		t.Errorf("expected 1 resolved ref, got %d", n)
	}
	if out != "Check this!\n[IMAGE:https://x.test/promo.png:Raya Sale]" {
		t.Errorf("unexpected output %q", out)
	}
}
