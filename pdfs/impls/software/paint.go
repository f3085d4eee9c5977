package software

import (
	"errors"

	"github.com/gogpu/gg"
)

type painter struct {
	dc  *gg.Context
	err error
}

func (p *painter) check(err error) {
	if err != nil {
		p.err = errors.Join(p.err, err)
	}
}

func (p *painter) fillRect(x, y, w, h, r float64, color string) {
	if w <= 0 || h <= 0 {
		return
	}
	p.dc.SetHexColor(color)
	if r > 0 {
		p.dc.DrawRoundedRectangle(x, y, w, h, r)
	} else {
		p.dc.DrawRectangle(x, y, w, h)
	}
	p.check(p.dc.Fill())
}

func (p *painter) strokeRect(x, y, w, h, r, lw float64, color string) {
	if w <= lw || h <= lw {
		return
	}
	p.dc.SetHexColor(color)
	p.dc.SetLineWidth(lw)
	x, y, w, h = x+lw/2, y+lw/2, w-lw, h-lw
	if r > 0 {
		p.dc.DrawRoundedRectangle(x, y, w, h, r)
	} else {
		p.dc.DrawRectangle(x, y, w, h)
	}
	p.check(p.dc.Stroke())
}

// paint draws b with its top left corner at (ox+b.x, oy+b.y)
func (p *painter) paint(b *box, ox, oy float64) {
	x, y := ox+b.x, oy+b.y
	st := b.node.Style

	if st.Background != "" {
		p.fillRect(x, y, b.w, b.h, st.Radius, st.Background)
	}
	if st.Border != "" && st.BorderWidth > 0 {
		p.strokeRect(x, y, b.w, b.h, st.Radius, st.BorderWidth, st.Border)
	}
	if st.AccentLeft != "" {
		p.fillRect(x, y, accentWidth, b.h, 0, st.AccentLeft)
	}
	if st.Underline != "" {
		p.fillRect(x, y+b.h-underlineWidth, b.w, underlineWidth, 0, st.Underline)
	}

	if len(b.lines) > 0 {
		in := boxInsets(st)
		top := y + b.linesTop
		for _, ln := range b.lines {
			baseline := top + ln.ascent
			for _, it := range ln.items {
				ix := x + in.left + it.x
				if it.bg != "" {
					p.fillRect(ix, baseline-it.ascent, it.w, it.h, it.radius, it.bg)
				}
				p.dc.SetFont(it.face)
				p.dc.SetHexColor(it.color)
				p.dc.DrawString(it.text, ix+it.pad, baseline)
			}
			top += ln.h
		}
	}

	if b.img != nil {
		p.dc.DrawImageEx(b.img, gg.DrawImageOptions{
			X:         x + b.imgX,
			Y:         y + b.imgY,
			DstWidth:  b.imgW,
			DstHeight: b.imgH,
			Opacity:   1,
		})
	}

	for _, c := range b.children {
		p.paint(c, x, y)
	}
}
