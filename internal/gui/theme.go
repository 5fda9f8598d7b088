package gui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// Dark theme palette
var (
	ColorBackground      = color.NRGBA{R: 0x1E, G: 0x1E, B: 0x2E, A: 0xFF}
	ColorCardBackground  = color.NRGBA{R: 0x2A, G: 0x2A, B: 0x3E, A: 0xFF}
	ColorPrimaryAccent   = color.NRGBA{R: 0x89, G: 0xB4, B: 0xFA, A: 0xFF}
	ColorSuccess         = color.NRGBA{R: 0xA6, G: 0xE3, B: 0xA1, A: 0xFF}
	ColorWarning         = color.NRGBA{R: 0xF9, G: 0xE2, B: 0xAF, A: 0xFF}
	ColorError           = color.NRGBA{R: 0xF3, G: 0x8B, B: 0xA8, A: 0xFF}
	ColorTextPrimary     = color.NRGBA{R: 0xCD, G: 0xD6, B: 0xF4, A: 0xFF}
	ColorTextSecondary   = color.NRGBA{R: 0xA6, G: 0xAD, B: 0xC8, A: 0xFF}
	ColorDisabled        = color.NRGBA{R: 0x58, G: 0x5B, B: 0x70, A: 0xFF}
	ColorInputBackground = color.NRGBA{R: 0x31, G: 0x32, B: 0x44, A: 0xFF}
	ColorBorder          = color.NRGBA{R: 0x45, G: 0x47, B: 0x5A, A: 0xFF}
	ColorStepInactive    = color.NRGBA{R: 0x45, G: 0x47, B: 0x5A, A: 0xFF}
	ColorStepComplete    = color.NRGBA{R: 0xA6, G: 0xE3, B: 0xA1, A: 0xFF}
)

// DarkTheme is the application theme.
type DarkTheme struct{}

var _ fyne.Theme = (*DarkTheme)(nil)

// Color returns the color for the given theme color name
func (m *DarkTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNameBackground:
		return ColorBackground
	case theme.ColorNameButton:
		return ColorPrimaryAccent
	case theme.ColorNameDisabledButton, theme.ColorNameDisabled:
		return ColorDisabled
	case theme.ColorNameError:
		return ColorError
	case theme.ColorNameFocus:
		return ColorPrimaryAccent
	case theme.ColorNameForeground:
		return ColorTextPrimary
	case theme.ColorNameHeaderBackground:
		return ColorCardBackground
	case theme.ColorNameInputBackground:
		return ColorInputBackground
	case theme.ColorNameInputBorder:
		return ColorBorder
	case theme.ColorNameOverlayBackground:
		return ColorCardBackground
	case theme.ColorNamePlaceHolder:
		return ColorTextSecondary
	case theme.ColorNamePrimary:
		return ColorPrimaryAccent
	case theme.ColorNameSeparator:
		return ColorBorder
	case theme.ColorNameSuccess:
		return ColorSuccess
	case theme.ColorNameWarning:
		return ColorWarning
	default:
		return theme.DefaultTheme().Color(name, theme.VariantDark)
	}
}

// Font returns the font for the given text style
func (m *DarkTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

// Icon returns the icon for the given icon name
func (m *DarkTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

// Size returns the size for the given size name
func (m *DarkTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNamePadding:
		return 8
	case theme.SizeNameInnerPadding:
		return 12
	case theme.SizeNameText:
		return 14
	case theme.SizeNameHeadingText:
		return 20
	case theme.SizeNameCaptionText:
		return 12
	default:
		return theme.DefaultTheme().Size(name)
	}
}
