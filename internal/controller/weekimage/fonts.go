package weekimage

import (
	"fmt"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
)

// cjkProbe иероглиф, по которому проверяем наличие японских глифов
const cjkProbe = '授'

// Fonts шрифты рендера. Японские подписи рисуются только если шрифт их содержит.
type Fonts struct {
	regular *opentype.Font
	bold    *opentype.Font
	cjk     bool
}

// DefaultFonts встроенные Go шрифты, только латиница
func DefaultFonts() (*Fonts, error) {
	regular, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse regular font: %w", err)
	}

	bold, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse bold font: %w", err)
	}

	return &Fonts{regular: regular, bold: bold, cjk: hasGlyph(regular, cjkProbe)}, nil
}

// LoadFonts читает TTF/OTF файл (например Noto Sans JP). Пустой путь даёт DefaultFonts.
func LoadFonts(path string) (*Fonts, error) {
	if path == "" {
		return DefaultFonts()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font %s: %w", path, err)
	}

	return ParseFonts(data)
}

// ParseFonts разбирает один шрифт для обычного и жирного начертания
func ParseFonts(data []byte) (*Fonts, error) {
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}

	return &Fonts{regular: f, bold: f, cjk: hasGlyph(f, cjkProbe)}, nil
}

// CJK сообщает, есть ли в шрифте японские глифы
func (f *Fonts) CJK() bool {
	return f.cjk
}

// face создаёт начертание нужного размера, basicfont если не получилось.
// Face не потокобезопасен, поэтому создаётся на каждый рендер.
func (f *Fonts) face(size float64, bold bool) font.Face {
	src := f.regular
	if bold {
		src = f.bold
	}

	face, err := opentype.NewFace(src, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return basicfont.Face7x13
	}
	return face
}

func hasGlyph(f *opentype.Font, r rune) bool {
	var buf sfnt.Buffer
	idx, err := f.GlyphIndex(&buf, r)
	return err == nil && idx != 0
}
