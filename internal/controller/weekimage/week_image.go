// Package weekimage рисует недельную сетку календаря или слотов собеседований в PNG.
package weekimage

import (
	"bytes"
	"fmt"
	"image/color"
	"time"

	"github.com/fogleman/gg"
	"github.com/tanqtrail-arch/Absence/internal/model"
)

// Kind вид блока на сетке, определяет цвет и подпись в легенде
type Kind int

const (
	KindClass Kind = iota
	KindEvent
	KindExam
	KindInterview
	KindCancelled
	KindSlotOpen
	KindSlotBooked
)

// Block прямоугольник на сетке недели
type Block struct {
	Start time.Time
	End   time.Time
	Label string
	Kind  Kind
}

// Константы размеров и отступов
const (
	imageWidth       = 1400
	imageHeight      = 900
	headerHeight     = 100
	leftLabelsWidth  = 80
	legendWidth      = 140
	dayPaddingX      = 8
	minBlockHeight   = 8.0
	blockRadius      = 6.0
	shadowOffset     = 3.0
	daysInWeek       = 7
	defaultStartHour = 9
	defaultEndHour   = 18
	hourPadding      = 1
	maxLabelRunes    = 12
)

// Константы шрифтов
const (
	titleFontSize     = 25.0
	dayFontSize       = 24.0
	hourLabelFontSize = 18.0
	blockFontSize     = 16.0
	legendFontSize    = 13.0
)

// Цветовая схема
var (
	bgColor          = color.RGBA{245, 246, 248, 255}
	textColor        = color.RGBA{80, 85, 90, 220}
	hourLabelColor   = color.RGBA{110, 115, 120, 200}
	hourLineColor    = color.NRGBA{150, 150, 150, 255}
	todayBgColor     = color.NRGBA{255, 99, 71, 125}
	evenDayColor     = color.NRGBA{240, 240, 240, 255}
	oddDayColor      = color.NRGBA{220, 220, 220, 255}
	currentTimeColor = color.NRGBA{255, 80, 80, 200}
	blockTextColor   = color.RGBA{20, 24, 28, 230}
	blockShadowColor = color.RGBA{0, 0, 0, 20}
	legendTextColor  = color.RGBA{70, 74, 78, 220}
)

var kindColors = map[Kind]color.RGBA{
	KindClass:      {120, 170, 230, 220},
	KindEvent:      {133, 193, 85, 220},
	KindExam:       {245, 180, 70, 230},
	KindInterview:  {190, 150, 220, 220},
	KindCancelled:  {158, 158, 158, 200},
	KindSlotOpen:   {133, 193, 85, 220},
	KindSlotBooked: {255, 182, 193, 255},
}

var kindNames = map[Kind][2]string{
	KindClass:      {"Class", "授業"},
	KindEvent:      {"Event", "行事"},
	KindExam:       {"Exam", "試験"},
	KindInterview:  {"Interview", "面談"},
	KindCancelled:  {"Cancelled", "休講"},
	KindSlotOpen:   {"Open", "空き"},
	KindSlotBooked: {"Booked", "予約済"},
}

var weekdaysJa = [daysInWeek]string{"月", "火", "水", "木", "金", "土", "日"}

// Renderer рисует недельные сетки
type Renderer struct {
	fonts *Fonts
}

func NewRenderer(fonts *Fonts) *Renderer {
	return &Renderer{fonts: fonts}
}

// CJK сообщает, рисуются ли японские подписи
func (r *Renderer) CJK() bool {
	return r.fonts.cjk
}

type weekBounds struct {
	start time.Time
	end   time.Time // начало следующего понедельника
}

type hourRange struct {
	start int
	end   int
}

func (h hourRange) total() int {
	return h.end - h.start
}

// canvas состояние одного рендера
type canvas struct {
	dc        *gg.Context
	fonts     *Fonts
	week      weekBounds
	hours     hourRange
	dayWidth  int
	dayHeight int
	cell      float64
}

// Render рисует неделю, содержащую day. now нужен для подсветки сегодняшнего дня.
func (r *Renderer) Render(day, now time.Time, blocks []Block) ([]byte, error) {
	week := weekOf(day)
	inWeek := blocksInWeek(blocks, week)

	c := &canvas{
		dc:        gg.NewContext(imageWidth, imageHeight),
		fonts:     r.fonts,
		week:      week,
		hours:     hoursFor(inWeek, week),
		dayWidth:  (imageWidth - leftLabelsWidth - legendWidth) / daysInWeek,
		dayHeight: imageHeight - headerHeight,
	}
	c.cell = float64(c.dayHeight) / float64(c.hours.total())

	c.dc.SetColor(bgColor)
	c.dc.Clear()

	now = now.In(week.start.Location())
	today := -1
	if !now.Before(week.start) && now.Before(week.end) {
		today = dayIndex(week, now)
	}

	c.drawHeader()
	c.drawHourLabels()
	for i := 0; i < daysInWeek; i++ {
		c.drawDay(i, i == today)
	}
	for _, b := range inWeek {
		c.drawBlock(b)
	}
	if today >= 0 {
		c.drawCurrentTime(now)
	}
	c.drawLegend(legendKinds(inWeek))

	var buf bytes.Buffer
	if err := c.dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode week image: %w", err)
	}
	return buf.Bytes(), nil
}

// weekOf границы недели Пн-Вс в часовом поясе day
func weekOf(day time.Time) weekBounds {
	d := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	offset := (int(d.Weekday()) + 6) % 7
	start := d.AddDate(0, 0, -offset)
	return weekBounds{start: start, end: start.AddDate(0, 0, daysInWeek)}
}

func dayIndex(week weekBounds, t time.Time) int {
	t = t.In(week.start.Location())
	for i := 0; i < daysInWeek; i++ {
		if t.Before(week.start.AddDate(0, 0, i+1)) {
			return i
		}
	}
	return daysInWeek - 1
}

func blocksInWeek(blocks []Block, week weekBounds) []Block {
	var result []Block
	for _, b := range blocks {
		if !b.Start.Before(week.start) && b.Start.Before(week.end) {
			result = append(result, b)
		}
	}
	return result
}

// hoursFor диапазон часов по блокам недели с запасом по краям
func hoursFor(blocks []Block, week weekBounds) hourRange {
	if len(blocks) == 0 {
		return hourRange{start: defaultStartHour, end: defaultEndHour}
	}

	loc := week.start.Location()
	minHour, maxHour := 24, 0
	for _, b := range blocks {
		start := b.Start.In(loc)
		end := b.End.In(loc)
		if start.Hour() < minHour {
			minHour = start.Hour()
		}
		endHour := end.Hour()
		if end.Minute() > 0 {
			endHour++
		}
		if end.Day() != start.Day() {
			endHour = 24
		}
		if endHour > maxHour {
			maxHour = endHour
		}
	}

	h := hourRange{start: max(minHour-hourPadding, 0), end: min(maxHour+hourPadding, 24)}
	if h.end <= h.start {
		h.end = min(h.start+1, 24)
		h.start = h.end - 1
	}
	return h
}

func legendKinds(blocks []Block) []Kind {
	seen := map[Kind]bool{}
	for _, b := range blocks {
		seen[b.Kind] = true
	}

	var kinds []Kind
	for k := KindClass; k <= KindSlotBooked; k++ {
		if seen[k] {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

// label подпись с учётом шрифта: без японских глифов остаются только латинские названия
func (c *canvas) label(text string, k Kind) string {
	if c.fonts.cjk {
		return truncate(text, maxLabelRunes)
	}
	for _, r := range text {
		if r > 0x7e {
			return kindNames[k][0]
		}
	}
	return truncate(text, maxLabelRunes)
}

func truncate(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit-1]) + "…"
}

func (c *canvas) kindName(k Kind) string {
	if c.fonts.cjk {
		return kindNames[k][1]
	}
	return kindNames[k][0]
}

func (c *canvas) title() string {
	start := c.week.start
	last := c.week.end.AddDate(0, 0, -1)
	if c.fonts.cjk {
		return fmt.Sprintf("%d年%d月%d日〜%d月%d日", start.Year(), start.Month(), start.Day(), last.Month(), last.Day())
	}
	return fmt.Sprintf("%s - %s", start.Format("Jan 2, 2006"), last.Format("Jan 2"))
}

func (c *canvas) weekdayLabel(i int, day time.Time) string {
	if c.fonts.cjk {
		return weekdaysJa[i]
	}
	return day.Format("Mon")
}

func (c *canvas) drawHeader() {
	c.dc.SetFontFace(c.fonts.face(titleFontSize, true))
	c.dc.SetColor(textColor)
	c.dc.DrawStringAnchored(c.title(), float64(leftLabelsWidth), float64(headerHeight)/4, 0, 0.5)
}

func (c *canvas) drawHourLabels() {
	c.dc.SetFontFace(c.fonts.face(hourLabelFontSize, false))
	c.dc.SetColor(hourLabelColor)

	for h := c.hours.start; h <= c.hours.end; h++ {
		y := float64(headerHeight) + float64(h-c.hours.start)*c.cell
		c.dc.DrawStringAnchored(fmt.Sprintf("%02d:00", h), float64(leftLabelsWidth)-10, y, 1, 0.5)
	}
}

func (c *canvas) dayX(i int) float64 {
	return float64(leftLabelsWidth + i*c.dayWidth)
}

func (c *canvas) drawDay(i int, isToday bool) {
	x := c.dayX(i)
	y := float64(headerHeight)

	switch {
	case isToday:
		c.dc.SetColor(todayBgColor)
	case i%2 == 0:
		c.dc.SetColor(evenDayColor)
	default:
		c.dc.SetColor(oddDayColor)
	}
	c.dc.DrawRectangle(x, y, float64(c.dayWidth), float64(c.dayHeight))
	c.dc.Fill()

	day := c.week.start.AddDate(0, 0, i)
	c.dc.SetFontFace(c.fonts.face(dayFontSize, true))
	c.dc.SetColor(textColor)
	center := x + float64(c.dayWidth)/2
	c.dc.DrawStringAnchored(day.Format("01/02"), center, y, 0.5, -1)
	c.dc.DrawStringAnchored(c.weekdayLabel(i, day), center, y, 0.5, -0.2)

	c.dc.SetLineWidth(0.3)
	c.dc.SetColor(hourLineColor)
	for h := 0; h <= c.hours.total(); h++ {
		hy := y + float64(h)*c.cell
		c.dc.DrawLine(x, hy, x+float64(c.dayWidth), hy)
		c.dc.Stroke()
	}
}

// hourOffset положение времени на сетке в часах от начала диапазона
func (c *canvas) hourOffset(t time.Time, i int) float64 {
	dayStart := c.week.start.AddDate(0, 0, i)
	hours := t.Sub(dayStart).Hours()
	return min(max(hours, float64(c.hours.start)), float64(c.hours.end)) - float64(c.hours.start)
}

func (c *canvas) drawBlock(b Block) {
	i := dayIndex(c.week, b.Start)
	x := c.dayX(i) + dayPaddingX
	top := float64(headerHeight) + c.hourOffset(b.Start, i)*c.cell
	height := (c.hourOffset(b.End, i) - c.hourOffset(b.Start, i)) * c.cell
	if height < minBlockHeight {
		height = minBlockHeight
	}
	width := float64(c.dayWidth) - dayPaddingX*2

	fill := kindColors[b.Kind]

	c.dc.SetColor(blockShadowColor)
	c.dc.DrawRoundedRectangle(x+shadowOffset, top+2+shadowOffset, width, height-4, blockRadius)
	c.dc.Fill()

	c.dc.SetColor(fill)
	c.dc.DrawRoundedRectangle(x, top+2, width, height-4, blockRadius)
	c.dc.Fill()

	c.dc.SetColor(darken(fill, 0.8))
	c.dc.SetLineWidth(1)
	c.dc.DrawRoundedRectangle(x, top+2, width, height-4, blockRadius)
	c.dc.Stroke()

	c.dc.SetFontFace(c.fonts.face(blockFontSize, false))
	c.dc.SetColor(blockTextColor)
	textY := top + 18
	c.dc.DrawStringAnchored(b.Start.In(c.week.start.Location()).Format(model.TimeLayout), x+8, textY, 0, 0)

	if label := c.label(b.Label, b.Kind); label != "" && height > 40 {
		c.dc.DrawStringAnchored(label, x+8, textY+18, 0, 0)
	}
}

func (c *canvas) drawCurrentTime(now time.Time) {
	i := dayIndex(c.week, now)
	hour := now.Sub(c.week.start.AddDate(0, 0, i)).Hours()
	if hour < float64(c.hours.start) || hour > float64(c.hours.end) {
		return
	}

	y := float64(headerHeight) + (hour-float64(c.hours.start))*c.cell
	c.dc.SetColor(currentTimeColor)
	c.dc.SetLineWidth(2.0)
	c.dc.DrawLine(float64(leftLabelsWidth), y, float64(leftLabelsWidth+daysInWeek*c.dayWidth), y)
	c.dc.Stroke()
}

func (c *canvas) drawLegend(kinds []Kind) {
	const boxW, boxH = 20.0, 14.0

	x := float64(leftLabelsWidth+daysInWeek*c.dayWidth) + 10
	y := float64(imageHeight) - float64(len(kinds))*(boxH+14) - 20

	c.dc.SetFontFace(c.fonts.face(legendFontSize, false))
	for _, k := range kinds {
		c.dc.SetColor(kindColors[k])
		c.dc.DrawRoundedRectangle(x, y, boxW, boxH, 3)
		c.dc.Fill()

		c.dc.SetColor(legendTextColor)
		c.dc.DrawStringAnchored(c.kindName(k), x+boxW+8, y+boxH/2+1, 0, 0.2)
		y += boxH + 14
	}
}

func darken(c color.RGBA, factor float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) * factor),
		G: uint8(float64(c.G) * factor),
		B: uint8(float64(c.B) * factor),
		A: c.A,
	}
}
