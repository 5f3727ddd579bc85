package agent

import (
	"fmt"
	"regexp"
	"strings"
)

const imageMarkerPrefix = "[IMAGE:"

var (
	imageRefPattern    = regexp.MustCompile(`\[IMAGE_REF:\s*([^\]\s]+)\s*\]`)
	imageMarkerPattern = regexp.MustCompile(`\[IMAGE:([^\]]*)\]`)
	blankLinesPattern  = regexp.MustCompile(`\n{3,}`)
)

// CollectedImage is an image surfaced by a tool during the turn
type CollectedImage struct {
	Ref  string `json:"image_ref"`
	URL  string `json:"url"`
	Name string `json:"name"`
}

// Marker renders the image in the [IMAGE:<url>:<caption>] syntax
func (c CollectedImage) Marker() string {
	return FormatImageMarker(c.URL, c.Name)
}

// FormatImageMarker builds a marker. Colons and brackets in the caption are
// replaced so the marker stays parseable.
func FormatImageMarker(url, caption string) string {
	caption = strings.NewReplacer(":", " -", "]", ")", "[", "(", "\n", " ").Replace(caption)
	return fmt.Sprintf("[IMAGE:%s:%s]", url, strings.TrimSpace(caption))
}

// ImageMarker is a parsed [IMAGE:...] marker
type ImageMarker struct {
	URL     string
	Caption string
}

// ParseImageMarker splits the marker body on its last colon. When that colon
// is a port in the URL's authority (no caption was written) the whole body is the URL.
func ParseImageMarker(body string) ImageMarker {
	idx := strings.LastIndex(body, ":")
	if idx < 0 || strings.HasPrefix(body[idx:], "://") || isPortColon(body, idx) {
		return ImageMarker{URL: body}
	}
	return ImageMarker{URL: body[:idx], Caption: body[idx+1:]}
}

// isPortColon reports whether the colon at idx sits in host:port, i.e. digits
// follow it up to a slash or the end and no path started before it.
func isPortColon(body string, idx int) bool {
	head := body[:idx]
	if scheme := strings.Index(head, "://"); scheme >= 0 {
		head = head[scheme+3:]
	}
	if head == "" || strings.Contains(head, "/") {
		return false
	}

	tail := body[idx+1:]
	if slash := strings.Index(tail, "/"); slash >= 0 {
		tail = tail[:slash]
	}
	if tail == "" || len(tail) > 5 {
		return false
	}
	for _, r := range tail {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ExtractImageMarkers removes markers from text and returns them in order
func ExtractImageMarkers(text string) (string, []ImageMarker) {
	var markers []ImageMarker
	for _, m := range imageMarkerPattern.FindAllStringSubmatch(text, -1) {
		markers = append(markers, ParseImageMarker(m[1]))
	}
	clean := imageMarkerPattern.ReplaceAllString(text, "")
	return strings.TrimSpace(blankLinesPattern.ReplaceAllString(clean, "\n\n")), markers
}

// ImageCollector accumulates images across tool rounds, deduplicated by ref
type ImageCollector struct {
	order []string
	byRef map[string]CollectedImage
}

func NewImageCollector() *ImageCollector {
	return &ImageCollector{byRef: make(map[string]CollectedImage)}
}

func (c *ImageCollector) Add(img CollectedImage) {
	if img.Ref == "" || img.URL == "" {
		return
	}
	if _, ok := c.byRef[img.Ref]; ok {
		return
	}
	c.byRef[img.Ref] = img
	c.order = append(c.order, img.Ref)
}

func (c *ImageCollector) Lookup(ref string) (CollectedImage, bool) {
	img, ok := c.byRef[ref]
	return img, ok
}

func (c *ImageCollector) Images() []CollectedImage {
	out := make([]CollectedImage, 0, len(c.order))
	for _, ref := range c.order {
		out = append(out, c.byRef[ref])
	}
	return out
}

func (c *ImageCollector) Len() int {
	return len(c.order)
}

// ResolveImageRefs replaces [IMAGE_REF:id] citations with image markers.
// Each known ref renders once; repeats and unknown refs are dropped.
func ResolveImageRefs(reply string, images *ImageCollector) (string, int) {
	if !strings.Contains(reply, "[IMAGE_REF:") {
		return reply, 0
	}

	seen := make(map[string]bool)
	resolved := 0
	out := imageRefPattern.ReplaceAllStringFunc(reply, func(match string) string {
		ref := imageRefPattern.FindStringSubmatch(match)[1]
		img, ok := images.Lookup(ref)
		if !ok || seen[ref] {
			return ""
		}
		seen[ref] = true
		resolved++
		return img.Marker()
	})
	return strings.TrimSpace(blankLinesPattern.ReplaceAllString(out, "\n\n")), resolved
}

// InjectFallbackImages appends markers when the reply carries none: images
// whose name appears in the reply, or the only image collected. Each marker
// is appended once.
func InjectFallbackImages(reply string, images []CollectedImage) (string, int) {
	if len(images) == 0 || strings.Contains(reply, imageMarkerPrefix) {
		return reply, 0
	}

	lower := strings.ToLower(reply)
	single := len(images) == 1
	appended := make(map[string]bool)

	var sb strings.Builder
	sb.WriteString(reply)
	for _, img := range images {
		name := strings.ToLower(strings.TrimSpace(img.Name))
		mentioned := name != "" && strings.Contains(lower, name)
		if !single && !mentioned {
			continue
		}
		marker := img.Marker()
		if appended[marker] {
			continue
		}
		appended[marker] = true
		sb.WriteString("\n")
		sb.WriteString(marker)
	}
	return sb.String(), len(appended)
}
