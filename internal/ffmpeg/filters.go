package ffmpeg

import (
	"fmt"
	"strings"
)

// FilterBuilder helps construct ffmpeg filter chains
type FilterBuilder struct {
	filters []string
}

// NewFilterBuilder creates a new filter builder
func NewFilterBuilder() *FilterBuilder {
	return &FilterBuilder{
		filters: make([]string, 0),
	}
}

// Scale adds an exact scale filter
func (fb *FilterBuilder) Scale(width, height int) *FilterBuilder {
	if width <= 0 || height <= 0 {
		// Return self without adding filter - allows chaining to continue
		return fb
	}
	fb.filters = append(fb.filters, fmt.Sprintf("scale=%d:%d", width, height))
	return fb
}

// ScaleFit scales to fit inside width x height, preserving aspect ratio
func (fb *FilterBuilder) ScaleFit(width, height int) *FilterBuilder {
	if width <= 0 || height <= 0 {
		return fb
	}
	fb.filters = append(fb.filters,
		fmt.Sprintf("scale=%d:%d:force_original_aspect_ratio=decrease", width, height))
	return fb
}

// Pad centers the frame on a width x height canvas
func (fb *FilterBuilder) Pad(width, height int) *FilterBuilder {
	if width <= 0 || height <= 0 {
		return fb
	}
	fb.filters = append(fb.filters,
		fmt.Sprintf("pad=%d:%d:(ow-iw)/2:(oh-ih)/2", width, height))
	return fb
}

// SetSAR forces a square sample aspect ratio after scaling
func (fb *FilterBuilder) SetSAR() *FilterBuilder {
	fb.filters = append(fb.filters, "setsar=1")
	return fb
}

// FPS adds an fps filter
func (fb *FilterBuilder) FPS(fps float64) *FilterBuilder {
	if fps <= 0 {
		return fb
	}
	fb.filters = append(fb.filters, fmt.Sprintf("fps=%f", fps))
	return fb
}

// Format adds a pixel format filter
func (fb *FilterBuilder) Format(pixFmt string) *FilterBuilder {
	if pixFmt == "" {
		return fb
	}
	fb.filters = append(fb.filters, "format="+pixFmt)
	return fb
}

// DrawText burns a boxed caption into the frame, centered near the bottom
// edge. FontFile may be empty when the font is resolvable by fontconfig.
func (fb *FilterBuilder) DrawText(text, fontFile string, fontSize int) *FilterBuilder {
	return fb.DrawTextAt(text, fontFile, fontSize, "h-text_h-40", true)
}

// DrawTextAt burns horizontally centered text at the given vertical
// position expression, optionally on a translucent box.
func (fb *FilterBuilder) DrawTextAt(text, fontFile string, fontSize int, yExpr string, boxed bool) *FilterBuilder {
	if text == "" {
		return fb
	}
	if fontSize <= 0 {
		fontSize = 40
	}

	parts := []string{
		fmt.Sprintf("text='%s'", escapeDrawText(text)),
		fmt.Sprintf("fontsize=%d", fontSize),
		"fontcolor=white",
	}
	if boxed {
		parts = append(parts, "box=1", "boxcolor=black@0.5", "boxborderw=10")
	}
	parts = append(parts, "x=(w-text_w)/2", "y="+yExpr)
	if fontFile != "" {
		parts = append([]string{fmt.Sprintf("fontfile='%s'", fontFile)}, parts...)
	}

	fb.filters = append(fb.filters, "drawtext="+strings.Join(parts, ":"))
	return fb
}

// Custom adds a custom filter string
func (fb *FilterBuilder) Custom(filter string) *FilterBuilder {
	fb.filters = append(fb.filters, filter)
	return fb
}

// Build returns the complete filter string joined with commas
func (fb *FilterBuilder) Build() string {
	if len(fb.filters) == 0 {
		return ""
	}
	return strings.Join(fb.filters, ",")
}

// escapeDrawText quotes characters that drawtext treats specially.
func escapeDrawText(s string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		`'`, `\'`,
		`:`, `\:`,
		`%`, `\%`,
	)
	return r.Replace(s)
}
