package theme

import "github.com/charmbracelet/lipgloss"

// Token names a style value resolved from the ambient theme.
type Token string

const (
	TokenText   Token = "chart-text-color"
	TokenGrid   Token = "chart-grid-color"
	TokenBorder Token = "chart-border-color"
	TokenLine   Token = "chart-line-color"
)

// Tokens is the fixed set resolved on every recompute.
var Tokens = []Token{TokenText, TokenGrid, TokenBorder, TokenLine}

// Resolver resolves a token for the given theme.
type Resolver interface {
	Resolve(dark bool, token Token) string
}

// Palette maps tokens to light/dark color pairs.
type Palette map[Token]lipgloss.AdaptiveColor

// Resolve returns the dark or light variant of token, or "" if unknown.
func (p Palette) Resolve(dark bool, token Token) string {
	c, ok := p[token]
	if !ok {
		return ""
	}
	if dark {
		return c.Dark
	}
	return c.Light
}

// DefaultPalette is the chart palette. The line keeps the same pink in both themes.
var DefaultPalette = Palette{
	TokenText:   {Light: "#333333", Dark: "#e0e0e0"},
	TokenGrid:   {Light: "#dddddd", Dark: "#444444"},
	TokenBorder: {Light: "#bbbbbb", Dark: "#666666"},
	TokenLine:   {Light: "#f15186", Dark: "#f15186"},
}
