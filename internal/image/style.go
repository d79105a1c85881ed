package imagepkg

import (
	"image/color"
	"math/rand"
	"strings"
)

// StyleID names one of the built-in designs.
type StyleID string

const (
	StyleMinimal        StyleID = "minimal"
	StyleBright         StyleID = "bright"
	StyleElegant        StyleID = "elegant"
	StyleBold           StyleID = "bold"
	StyleModern         StyleID = "modern"
	StyleNeon           StyleID = "neon"
	StyleGradientSunset StyleID = "gradient_sunset"
	StyleProfessional   StyleID = "professional"
	StyleVintage        StyleID = "vintage"
	StyleNature         StyleID = "nature"
	StyleOcean          StyleID = "ocean"
	StyleCosmic         StyleID = "cosmic"
	StyleMinimalistDark StyleID = "minimalist_dark"
	StyleCreativeSplit  StyleID = "creative_split"
	StyleGeometric      StyleID = "geometric"
	StyleArtistic       StyleID = "artistic"
	StyleGlassmorphism  StyleID = "glassmorphism"
)

// DefaultStyle is used whenever a request names a style that does not exist.
const DefaultStyle = StyleMinimal

// BackgroundKind selects the strategy that paints the base canvas.
type BackgroundKind int

const (
	BackgroundSolid BackgroundKind = iota
	BackgroundGradient
	BackgroundDiagonalSplit
	BackgroundShapes
	BackgroundPaper
	BackgroundWatercolor
	BackgroundStarfield
	BackgroundGlowRings
)

// Pattern is a decoration painted over the base as part of the background.
type Pattern int

const (
	PatternNone Pattern = iota
	PatternLeaves
	PatternWaves
	PatternRuledLines
)

// Ornament is a fixed decoration drawn by the compositor before the text.
type Ornament int

const (
	OrnamentNone Ornament = iota
	OrnamentDoubleBorder
	OrnamentAccentCircle
	OrnamentAccentBar
	OrnamentCornerBrackets
	OrnamentAccentRules
	OrnamentGlassPanel
)

// TextTreatment controls how quote and author lines are drawn.
type TextTreatment int

const (
	TextPlain TextTreatment = iota
	TextShadow
	TextGlow
	TextPanel
)

// Palette is an ordered set of colors; index 0 is the primary/accent color.
type Palette []color.NRGBA

// At returns the i-th color, wrapping around short palettes.
func (p Palette) At(i int) color.NRGBA {
	if len(p) == 0 {
		return color.NRGBA{A: 0xff}
	}
	return p[i%len(p)]
}

// Style is a read-only design definition. Many styles share a background
// strategy; they differ only in data.
type Style struct {
	ID         StyleID
	Palettes   []Palette
	Base       color.NRGBA // A == 0 means "use the palette's first color"
	Background BackgroundKind
	Pattern    Pattern
	Ornament   Ornament
	Text       TextTreatment

	QuoteColor   color.NRGBA
	AuthorColor  color.NRGBA
	AuthorAccent bool // author drawn in the palette accent instead of AuthorColor
	QuoteBold    bool
	AuthorBold   bool
	AuthorFormat string
	UpperAuthor  bool

	TextInset int // horizontal room (at 1080px) kept free around wrapped lines
	AuthorGap int
	OffsetX   int

	WatermarkHalo bool
}

// PickPalette chooses one of the style's palettes using rng.
func (s Style) PickPalette(rng *rand.Rand) Palette {
	if len(s.Palettes) == 0 {
		return Palette{s.Base}
	}
	if len(s.Palettes) == 1 {
		return s.Palettes[0]
	}
	return s.Palettes[rng.Intn(len(s.Palettes))]
}

// AuthorText formats the author line for this style.
func (s Style) AuthorText(author string) string {
	author = strings.TrimSpace(author)
	if s.UpperAuthor {
		author = strings.ToUpper(author)
	}
	if s.AuthorFormat == "" {
		return author
	}
	return strings.ReplaceAll(s.AuthorFormat, "{author}", author)
}

var (
	styleOrder []StyleID
	styles     = map[StyleID]Style{}
)

func register(s Style) {
	if s.TextInset == 0 {
		s.TextInset = 220
	}
	if s.AuthorGap == 0 {
		s.AuthorGap = 44
	}
	if s.AuthorFormat == "" {
		s.AuthorFormat = "— {author}"
	}
	styles[s.ID] = s
	styleOrder = append(styleOrder, s.ID)
}

// LookupStyle resolves id (case and dash insensitive). The second return
// value is false when the default style was substituted.
func LookupStyle(id string) (Style, bool) {
	key := StyleID(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(id)), "-", "_"))
	if s, ok := styles[key]; ok {
		return s, true
	}
	return styles[DefaultStyle], false
}

// Styles lists every registered style in registration order.
func Styles() []StyleID {
	out := make([]StyleID, len(styleOrder))
	copy(out, styleOrder)
	return out
}

func singles(hexes ...string) []Palette {
	out := make([]Palette, 0, len(hexes))
	for _, h := range hexes {
		out = append(out, Palette{mustHex(h)})
	}
	return out
}

func palettes(groups ...[]string) []Palette {
	out := make([]Palette, 0, len(groups))
	for _, g := range groups {
		p := make(Palette, 0, len(g))
		for _, h := range g {
			p = append(p, mustHex(h))
		}
		out = append(out, p)
	}
	return out
}

// distinctPairs expands swatches into every ordered pair of two different colors.
func distinctPairs(hexes ...string) []Palette {
	var out []Palette
	for i, a := range hexes {
		for j, b := range hexes {
			if i != j {
				out = append(out, Palette{mustHex(a), mustHex(b)})
			}
		}
	}
	return out
}

func init() {
	white := mustHex("#FFFFFF")

	register(Style{
		ID:           StyleMinimal,
		Palettes:     singles("#FFFFFF"),
		Background:   BackgroundSolid,
		QuoteColor:   mustHex("#2C3E50"),
		AuthorColor:  mustHex("#7F8C8D"),
		AuthorFormat: "- {author}",
		TextInset:    200,
		AuthorGap:    40,
	})
	register(Style{
		ID: StyleBright,
		Palettes: palettes(
			[]string{"#FF6B6B", "#4ECDC4"},
			[]string{"#A8E6CF", "#FFD3B6"},
			[]string{"#FF8B94", "#FFAAA5"},
			[]string{"#FFA07A", "#FFD700"},
		),
		Background:   BackgroundGradient,
		QuoteColor:   white,
		AuthorColor:  mustHex("#F0F0F0"),
		QuoteBold:    true,
		AuthorFormat: "- {author}",
		TextInset:    200,
		AuthorGap:    50,
	})
	register(Style{
		ID:           StyleElegant,
		Palettes:     singles("#FFF5F7", "#F0F8FF", "#F5F5DC", "#FFF0F5", "#F0FFF0"),
		Background:   BackgroundSolid,
		Ornament:     OrnamentDoubleBorder,
		QuoteColor:   mustHex("#4A4A4A"),
		AuthorColor:  mustHex("#8B7D7D"),
		AuthorFormat: "— {author} —",
		TextInset:    280,
		AuthorGap:    45,
	})
	register(Style{
		ID:          StyleBold,
		Palettes:    singles("#FF4757", "#3742FA", "#2ED573", "#FFA502", "#5F27CD"),
		Background:  BackgroundSolid,
		QuoteColor:  white,
		AuthorColor: mustHex("#F0F0F0"),
		QuoteBold:   true,
		AuthorBold:  true,
		// bare upper-cased name
		AuthorFormat: "{author}",
		UpperAuthor:  true,
		TextInset:    180,
		AuthorGap:    55,
	})
	register(Style{
		ID:          StyleModern,
		Palettes:    singles("#00D2FF", "#FF6B9D", "#C471ED", "#12CBC4", "#FDA7DF"),
		Base:        mustHex("#F5F5F5"),
		Background:  BackgroundSolid,
		Ornament:    OrnamentAccentCircle,
		QuoteColor:  mustHex("#2C3E50"),
		AuthorColor: mustHex("#7F8C8D"),
		AuthorGap:   48,
	})
	register(Style{
		ID:            StyleNeon,
		Palettes:      distinctPairs("#00D2FF", "#FF6B9D", "#C471ED", "#12CBC4"),
		Background:    BackgroundGlowRings,
		Text:          TextGlow,
		QuoteColor:    mustHex("#F8FAFF"),
		AuthorColor:   mustHex("#DDE6FF"),
		QuoteBold:     true,
		TextInset:     240,
		WatermarkHalo: true,
	})
	register(Style{
		ID: StyleGradientSunset,
		Palettes: palettes(
			[]string{"#FF6B35", "#F7931E", "#FDC830"},
			[]string{"#FF512F", "#DD2476", "#8E2DE2"},
			[]string{"#FF6B6B", "#FFE66D", "#4ECDC4"},
		),
		Background:  BackgroundGradient,
		Text:        TextShadow,
		QuoteColor:  white,
		AuthorColor: white,
		QuoteBold:   true,
		TextInset:   200,
		AuthorGap:   50,
	})
	register(Style{
		ID:           StyleProfessional,
		Palettes:     singles("#2C3E50", "#34495E", "#1A252F", "#0F4C81"),
		Base:         mustHex("#FAFAFA"),
		Background:   BackgroundSolid,
		Pattern:      PatternRuledLines,
		Ornament:     OrnamentAccentBar,
		QuoteColor:   mustHex("#2C3E50"),
		AuthorAccent: true,
		TextInset:    280,
		AuthorGap:    40,
		OffsetX:      20,
	})
	register(Style{
		ID:           StyleVintage,
		Palettes:     singles("#F4E8C1", "#E8DCC3", "#F5E6D3", "#FFF8DC"),
		Background:   BackgroundPaper,
		Ornament:     OrnamentCornerBrackets,
		QuoteColor:   mustHex("#3E2723"),
		AuthorColor:  mustHex("#5D4037"),
		AuthorFormat: "~ {author} ~",
		TextInset:    250,
		AuthorGap:    45,
	})
	register(Style{
		ID: StyleNature,
		Palettes: palettes(
			[]string{"#134E5E", "#71B280"},
			[]string{"#0F2027", "#2C5364"},
			[]string{"#56AB2F", "#A8E063"},
		),
		Background:  BackgroundGradient,
		Pattern:     PatternLeaves,
		QuoteColor:  white,
		AuthorColor: mustHex("#E8F5E9"),
		QuoteBold:   true,
		AuthorGap:   48,
	})
	register(Style{
		ID: StyleOcean,
		Palettes: palettes(
			[]string{"#2E3192", "#1BFFFF"},
			[]string{"#0575E6", "#021B79"},
			[]string{"#00B4DB", "#0083B0"},
		),
		Background:  BackgroundGradient,
		Pattern:     PatternWaves,
		Text:        TextShadow,
		QuoteColor:  white,
		AuthorColor: white,
		QuoteBold:   true,
		TextInset:   200,
		AuthorGap:   50,
	})
	register(Style{
		ID:          StyleCosmic,
		Palettes:    palettes([]string{"#8E2DE2", "#4A00E0", "#FF6B6B", "#00D2FF"}),
		Base:        mustHex("#0A0A1A"),
		Background:  BackgroundStarfield,
		Text:        TextGlow,
		QuoteColor:  white,
		AuthorColor: mustHex("#E0E0E0"),
		QuoteBold:   true,
		AuthorGap:   50,
	})
	register(Style{
		ID:           StyleMinimalistDark,
		Palettes:     singles("#00D2FF", "#FF6B9D", "#00FF88", "#FFD700"),
		Base:         mustHex("#1A1A1A"),
		Background:   BackgroundSolid,
		Ornament:     OrnamentAccentRules,
		QuoteColor:   white,
		AuthorAccent: true,
		AuthorGap:    40,
	})
	register(Style{
		ID: StyleCreativeSplit,
		Palettes: palettes(
			[]string{"#FF6B6B", "#4ECDC4"},
			[]string{"#A8E6CF", "#3D5A80"},
			[]string{"#FFD93D", "#6BCF7F"},
			[]string{"#FF6B9D", "#C471ED"},
		),
		Background:  BackgroundDiagonalSplit,
		Text:        TextShadow,
		QuoteColor:  white,
		AuthorColor: white,
		QuoteBold:   true,
		TextInset:   240,
		AuthorGap:   48,
	})
	register(Style{
		ID:          StyleGeometric,
		Palettes:    palettes([]string{"#00D2FF", "#FF6B9D", "#C471ED", "#FFD700", "#00FF88"}),
		Base:        mustHex("#FAFAFA"),
		Background:  BackgroundShapes,
		Text:        TextPanel,
		QuoteColor:  mustHex("#2C3E50"),
		AuthorColor: mustHex("#7F8C8D"),
		QuoteBold:   true,
		AuthorGap:   40,
	})
	register(Style{
		ID: StyleArtistic,
		Palettes: palettes(
			[]string{"#FF6B6B", "#FFE66D"},
			[]string{"#4ECDC4", "#44A08D"},
			[]string{"#A8E6CF", "#FFD3B6"},
			[]string{"#C471ED", "#FF6B9D"},
		),
		Base:        white,
		Background:  BackgroundWatercolor,
		QuoteColor:  mustHex("#2C3E50"),
		AuthorColor: mustHex("#7F8C8D"),
		AuthorGap:   48,
	})
	register(Style{
		ID:          StyleGlassmorphism,
		Palettes:    palettes([]string{"#87CEFA", "#FFB6C1", "#DDA0DD"}),
		Background:  BackgroundGradient,
		Ornament:    OrnamentGlassPanel,
		Text:        TextShadow,
		QuoteColor:  white,
		AuthorColor: white,
		QuoteBold:   true,
		TextInset:   200,
		AuthorGap:   40,
	})
}
