package main

import (
	"fmt"
	"image/color"

	"github.com/ebitenui/ebitenui"
	imageui "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/milk9111/layeredaudio/common"
	"github.com/milk9111/layeredaudio/ecs/system"
	"golang.org/x/image/font/basicfont"
)

// cuePanelHeight is the strip at the bottom of the screen owned by the panel.
// Clicks inside it go to the buttons, not to the hit effect.
const cuePanelHeight = 84

// cuePanel shows pool and cue status above one button per demo cue.
type cuePanel struct {
	ui     *ebitenui.UI
	voices *widget.Text
	status *widget.Text
}

func newCuePanel(g *Game) *cuePanel {
	panelImg := imageui.NewNineSliceColor(color.NRGBA{R: 0x00, G: 0x00, B: 0x00, A: 180})
	btnImg := imageui.NewNineSliceColor(color.NRGBA{R: 0x33, G: 0x33, B: 0x44, A: 255})
	pressedImg := imageui.NewNineSliceColor(color.NRGBA{R: 0x55, G: 0x55, B: 0x77, A: 255})

	var face ebtext.Face = ebtext.NewGoXFace(basicfont.Face7x13)
	white := color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	grey := color.NRGBA{R: 0xbb, G: 0xbb, B: 0xbb, A: 0xff}

	p := &cuePanel{
		voices: widget.NewText(widget.TextOpts.Text("", &face, grey)),
		status: widget.NewText(widget.TextOpts.Text("", &face, grey)),
	}

	buttons := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionHorizontal),
			widget.RowLayoutOpts.Spacing(6),
		)),
	)
	for _, k := range cueKeys {
		cue := k.cue
		buttons.AddChild(widget.NewButton(
			widget.ButtonOpts.Image(&widget.ButtonImage{Idle: btnImg, Pressed: pressedImg}),
			widget.ButtonOpts.Text(cue, &face, &widget.ButtonTextColor{Idle: white}),
			widget.ButtonOpts.WidgetOpts(widget.WidgetOpts.MinSize(64, 20)),
			widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
				system.RaiseCue(g.world, cue)
			}),
		))
	}

	panel := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(panelImg),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(4),
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: 6, Bottom: 6, Left: 12, Right: 12}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(common.BaseWidth, cuePanelHeight),
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{
				HorizontalPosition: widget.AnchorLayoutPositionCenter,
				VerticalPosition:   widget.AnchorLayoutPositionEnd,
				StretchHorizontal:  true,
			}),
		),
	)
	panel.AddChild(p.voices)
	panel.AddChild(p.status)
	panel.AddChild(buttons)
	panel.AddChild(widget.NewText(widget.TextOpts.Text("up/down layers  h hum  click hit", &face, grey)))

	root := widget.NewContainer(widget.ContainerOpts.Layout(widget.NewAnchorLayout()))
	root.AddChild(panel)
	p.ui = &ebitenui.UI{Container: root}
	return p
}

// refresh copies the game state into the labels before the UI updates.
func (p *cuePanel) refresh(g *Game) {
	pool := g.engine.Effects()
	p.voices.Label = fmt.Sprintf("voices %d   in use %d   free %d", pool.Len(), pool.InUse(), pool.Available())
	p.status.Label = "cue: " + g.lastCue + "   " + g.status
}

// contains reports whether a screen point falls inside the panel strip.
func (p *cuePanel) contains(y int) bool {
	return y >= common.BaseHeight-cuePanelHeight
}
