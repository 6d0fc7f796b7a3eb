package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/aymerick/douceur/parser"
	colorful "github.com/lucasb-eyer/go-colorful"
)

type CardKind int

const (
	Unknown CardKind = iota
	Supplementary
	DrawPair
)

func (k CardKind) String() string {
	switch k {
	case Supplementary:
		return "supplementary"
	case DrawPair:
		return "draw"
	default:
		return "unknown"
	}
}

// Classifier decides what a .feature-card carries.
type Classifier interface {
	Classify(card *goquery.Selection) CardKind
}

// DefaultMarker is the background of supplementary (Modern/Internet) cards.
const DefaultMarker = "#b1e1e3"

// DefaultComputedAttr holds the computed background written by a rendering browser.
const DefaultComputedAttr = "data-computed-background"

var (
	rgbPattern = regexp.MustCompile(`rgba?\(\s*(\d{1,3})\s*,\s*(\d{1,3})\s*,\s*(\d{1,3})`)
	hexPattern = regexp.MustCompile(`#[0-9a-fA-F]{6}\b|#[0-9a-fA-F]{3}\b`)
)

// ColorClassifier marks a card supplementary when its inline style or its
// computed background equals Marker.
type ColorClassifier struct {
	Marker       colorful.Color
	ComputedAttr string
}

func NewColorClassifier(marker string, computedAttr string) (*ColorClassifier, error) {
	c, err := colorful.Hex(marker)
	if err != nil {
		return nil, err
	}
	if computedAttr == "" {
		computedAttr = DefaultComputedAttr
	}
	return &ColorClassifier{Marker: c, ComputedAttr: computedAttr}, nil
}

// DefaultClassifier matches #b1e1e3.
func DefaultClassifier() *ColorClassifier {
	c, _ := NewColorClassifier(DefaultMarker, DefaultComputedAttr)
	return c
}

func (c *ColorClassifier) Classify(card *goquery.Selection) CardKind {
	if card == nil || card.Length() == 0 {
		return Unknown
	}
	if style, ok := card.Attr("style"); ok && c.inlineMatches(style) {
		return Supplementary
	}
	if computed, ok := card.Attr(c.ComputedAttr); ok && c.colorMatches(computed) {
		return Supplementary
	}
	if card.Find(".blockLucky").Length() > 0 {
		return DrawPair
	}
	return Unknown
}

func (c *ColorClassifier) inlineMatches(style string) bool {
	// douceur leaves the value of an unterminated last declaration empty.
	style = strings.TrimSpace(style)
	if style != "" && !strings.HasSuffix(style, ";") {
		style += ";"
	}
	decls, err := parser.ParseDeclarations(style)
	if err != nil {
		return false
	}
	for _, d := range decls {
		prop := strings.ToLower(strings.TrimSpace(d.Property))
		if prop != "background-color" && prop != "background" {
			continue
		}
		if c.colorMatches(d.Value) {
			return true
		}
	}
	return false
}

func (c *ColorClassifier) colorMatches(value string) bool {
	for _, col := range parseColors(value) {
		if sameRGB(col, c.Marker) {
			return true
		}
	}
	return false
}

func parseColors(value string) []colorful.Color {
	var out []colorful.Color
	for _, m := range rgbPattern.FindAllStringSubmatch(value, -1) {
		var rgb [3]uint8
		valid := true
		for i := 0; i < 3; i++ {
			n, err := strconv.Atoi(m[i+1])
			if err != nil || n > 255 {
				valid = false
				break
			}
			rgb[i] = uint8(n)
		}
		if valid {
			out = append(out, colorful.Color{
				R: float64(rgb[0]) / 255,
				G: float64(rgb[1]) / 255,
				B: float64(rgb[2]) / 255,
			})
		}
	}
	for _, h := range hexPattern.FindAllString(value, -1) {
		if col, err := colorful.Hex(h); err == nil {
			out = append(out, col)
		}
	}
	return out
}

func sameRGB(a, b colorful.Color) bool {
	ar, ag, ab := a.RGB255()
	br, bg, bb := b.RGB255()
	return ar == br && ag == bg && ab == bb
}
