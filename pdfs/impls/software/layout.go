package software

import (
	"image"
	"math"
	"strings"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"github.com/zeptools/fichas/datauri"
	"github.com/zeptools/fichas/pdfs"
	"go.uber.org/zap"
)

const (
	lineHeightFactor = 1.4
	accentWidth      = 5.0
	underlineWidth   = 2.0
)

// inherited carries the text properties CSS would inherit
type inherited struct {
	size  float64
	bold  bool
	color string
	align pdfs.Align
}

var defaultInherited = inherited{size: 12, color: "#000000"}

func (in inherited) with(st pdfs.Style) inherited {
	if st.FontSize > 0 {
		in.size = st.FontSize
	}
	if st.Bold {
		in.bold = true
	}
	if st.Color != "" {
		in.color = st.Color
	}
	if st.Align != pdfs.AlignLeft {
		in.align = st.Align
	}
	return in
}

// item is one word, or a padded chip when its run has its own background
type item struct {
	text   string
	face   text.Face
	color  string
	bg     string
	pad    float64
	radius float64
	w, h   float64
	ascent float64
	space  float64 // width of the space that follows the item on its line
	x      float64
}

type line struct {
	items  []item
	w, h   float64
	ascent float64
}

// box is a laid out node. x and y are relative to the parent box.
type box struct {
	node       *pdfs.Node
	x, y, w, h float64
	inh        inherited
	lines      []line
	linesTop   float64
	img        *gg.ImageBuf
	imgX, imgY float64
	imgW, imgH float64
	children   []*box
}

type layouter struct {
	fonts  *fontSet
	logger *zap.Logger
}

type insets struct {
	top, right, bottom, left float64
}

func boxInsets(st pdfs.Style) insets {
	in := insets{st.Padding, st.Padding, st.Padding, st.Padding}
	if st.Border != "" && st.BorderWidth > 0 {
		in.top += st.BorderWidth
		in.right += st.BorderWidth
		in.bottom += st.BorderWidth
		in.left += st.BorderWidth
	}
	if st.AccentLeft != "" {
		in.left += accentWidth
	}
	if st.Underline != "" {
		in.bottom += underlineWidth
	}
	return in
}

// layout sizes n for the given outer width
func (l *layouter) layout(n *pdfs.Node, parent inherited, width float64) *box {
	b := &box{node: n, w: width, inh: parent.with(n.Style)}
	in := boxInsets(n.Style)
	inner := math.Max(width-in.left-in.right, 1)
	var content float64

	switch n.Kind {
	case pdfs.KindBlock:
		y := in.top
		for _, c := range n.Children {
			cb := l.layout(c, b.inh, inner)
			cb.x, cb.y = in.left, y
			y += cb.h + c.Style.MarginBottom
			b.children = append(b.children, cb)
		}
		content = y - in.top
	case pdfs.KindColumns:
		content = l.layoutColumns(b, in, inner)
	case pdfs.KindText:
		items := l.words(n.Text, b.inh, pdfs.Style{})
		b.lines = flow(items, inner, b.inh.align)
		b.linesTop = in.top
		content = linesHeight(b.lines)
	case pdfs.KindInline:
		var items []item
		for _, run := range n.Children {
			items = append(items, l.words(run.Text, b.inh.with(run.Style), run.Style)...)
		}
		b.lines = flow(items, inner, b.inh.align)
		b.linesTop = in.top
		content = linesHeight(b.lines)
	case pdfs.KindImage:
		content = l.layoutImage(b, in, inner)
	}
	b.h = in.top + content + in.bottom
	return b
}

func (l *layouter) layoutColumns(b *box, in insets, inner float64) float64 {
	n := b.node
	if len(n.Children) == 0 {
		return 0
	}
	avail := inner - n.Style.Gap*float64(len(n.Children)-1)
	weights := make([]float64, len(n.Children))
	var sum float64
	for i := range weights {
		weights[i] = 1
		if i < len(n.Style.Weights) && n.Style.Weights[i] > 0 {
			weights[i] = n.Style.Weights[i]
		}
		sum += weights[i]
	}
	x := in.left
	var rowH float64
	for i, c := range n.Children {
		w := avail * weights[i] / sum
		cb := l.layout(c, b.inh, w)
		cb.x, cb.y = x, in.top
		x += w + n.Style.Gap
		rowH = math.Max(rowH, cb.h)
		b.children = append(b.children, cb)
	}
	return rowH
}

func (l *layouter) layoutImage(b *box, in insets, inner float64) float64 {
	src, err := datauri.DecodeImage(b.node.Src)
	if err != nil {
		l.logger.Warn("skipping undecodable image", zap.String("role", string(b.node.Role)), zap.Error(err))
		return 0
	}
	w, h := fitImage(src.Bounds(), b.node.Style, inner)
	if w <= 0 || h <= 0 {
		return 0
	}
	b.img = gg.ImageBufFromImage(src)
	b.imgW, b.imgH = w, h
	b.imgY = in.top
	switch b.inh.align {
	case pdfs.AlignCenter:
		b.imgX = in.left + (inner-w)/2
	case pdfs.AlignRight:
		b.imgX = in.left + inner - w
	default:
		b.imgX = in.left
	}
	return h
}

// fitImage scales the natural size down, never up, to the max box
func fitImage(bounds image.Rectangle, st pdfs.Style, inner float64) (float64, float64) {
	nw, nh := float64(bounds.Dx()), float64(bounds.Dy())
	if nw <= 0 || nh <= 0 {
		return 0, 0
	}
	maxW := inner
	if st.MaxWidth > 0 {
		maxW = math.Min(maxW, st.MaxWidth)
	}
	scale := math.Min(1, maxW/nw)
	if st.MaxHeight > 0 {
		scale = math.Min(scale, st.MaxHeight/nh)
	}
	return nw * scale, nh * scale
}

// words splits s into flowable items. A run with a background stays one chip.
func (l *layouter) words(s string, in inherited, st pdfs.Style) []item {
	face := l.fonts.face(in.size, in.bold)
	m := face.Metrics()
	lh := in.size * lineHeightFactor
	ascent := (lh-(m.Ascent+m.Descent))/2 + m.Ascent
	space := face.Advance(" ")
	if st.Background != "" {
		s = strings.TrimSpace(s)
		return []item{{
			text: s, face: face, color: in.color, bg: st.Background, pad: st.Padding, radius: st.Radius,
			w: face.Advance(s) + 2*st.Padding, h: lh + 2*st.Padding, ascent: ascent + st.Padding, space: space,
		}}
	}
	trailing := strings.HasSuffix(s, " ")
	fields := strings.Fields(s)
	out := make([]item, 0, len(fields))
	for i, f := range fields {
		it := item{text: f, face: face, color: in.color, w: face.Advance(f), h: lh, ascent: ascent, space: space}
		if i == len(fields)-1 && !trailing {
			it.space = 0
		}
		out = append(out, it)
	}
	if len(out) > 0 && trailing {
		out[len(out)-1].space = space
	}
	return out
}

// flow greedily breaks items into lines no wider than width. A word wider than
// the line gets a line of its own.
func flow(items []item, width float64, align pdfs.Align) []line {
	var lines []line
	var cur line
	x := 0.0
	for _, it := range items {
		if len(cur.items) > 0 && x+it.w > width {
			lines = append(lines, finishLine(cur, width, align))
			cur, x = line{}, 0
		}
		it.x = x
		cur.items = append(cur.items, it)
		cur.w = x + it.w
		cur.h = math.Max(cur.h, it.h)
		cur.ascent = math.Max(cur.ascent, it.ascent)
		x += it.w + it.space
	}
	if len(cur.items) > 0 {
		lines = append(lines, finishLine(cur, width, align))
	}
	return lines
}

func finishLine(ln line, width float64, align pdfs.Align) line {
	var shift float64
	switch align {
	case pdfs.AlignCenter:
		shift = (width - ln.w) / 2
	case pdfs.AlignRight:
		shift = width - ln.w
	}
	if shift > 0 {
		for i := range ln.items {
			ln.items[i].x += shift
		}
	}
	return ln
}

func linesHeight(lines []line) float64 {
	var h float64
	for _, ln := range lines {
		h += ln.h
	}
	return h
}
