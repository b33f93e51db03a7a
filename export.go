package main

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"image/color"
	"math"
	"os"
	"sort"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// withUnitZoom runs fn with the canvas zoom normalized to 1.0 and
// restores the previous zoom afterwards, error or not.
func withUnitZoom(c *Canvas, fn func() error) error {
	prev := c.Zoom
	c.Zoom = 1.0
	defer func() {
		c.Zoom = prev
	}()
	return fn()
}

// renderPNG rasterizes the whole document at the given scale and
// returns the encoded PNG bytes.
func renderPNG(c *Canvas, scale float64) ([]byte, error) {
	if len(c.Instances()) == 0 && len(c.Connections()) == 0 {
		return nil, fmt.Errorf("nothing to export")
	}

	bounds := c.ContentBounds()
	imageWidth := int(bounds.W * scale)
	imageHeight := int(bounds.H * scale)
	if imageWidth < 1 || imageHeight < 1 {
		return nil, fmt.Errorf("empty drawing bounds")
	}

	dc := gg.NewContext(imageWidth, imageHeight)
	dc.SetColor(color.White)
	dc.Clear()
	dc.SetColor(color.Black)

	regular, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %v", err)
	}
	bold, err := truetype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %v", err)
	}

	labelFace := truetype.NewFace(regular, &truetype.Options{
		Size:    10 * scale,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	tagFace := truetype.NewFace(bold, &truetype.Options{
		Size:    11 * scale,
		DPI:     72,
		Hinting: font.HintingFull,
	})

	px := func(p Point) (float64, float64) {
		return (p.X - bounds.X) * scale, (p.Y - bounds.Y) * scale
	}

	// Connections first so symbols draw over them.
	dc.SetLineWidth(1.5 * scale)
	for _, conn := range c.Connections() {
		path := conn.Path
		for i := 0; i+1 < len(path); i++ {
			x1, y1 := px(path[i])
			x2, y2 := px(path[i+1])
			dc.DrawLine(x1, y1, x2, y2)
			dc.Stroke()
		}
		if len(path) >= 2 && conn.State() == StateConnected {
			drawArrowhead(dc, path[len(path)-2], path[len(path)-1], bounds, scale)
		}
	}

	for _, inst := range c.Instances() {
		x, y := px(Point{inst.X, inst.Y})
		w := inst.Width * scale
		h := inst.Height * scale

		content := inst.ContentRect()
		cx, cy := px(Point{inst.X + content.X, inst.Y + content.Y})
		dc.SetLineWidth(1.0 * scale)
		dc.DrawRectangle(cx, cy, content.W*scale, content.H*scale)
		dc.Stroke()

		dc.SetFontFace(labelFace)
		dc.DrawStringAnchored(inst.DisplayName(), x+w/2, cy+content.H*scale/2, 0.5, 0.5)

		if inst.Config.Label != "" {
			dc.SetFontFace(tagFace)
			dc.DrawStringAnchored(inst.Config.Label, x+w/2, y+h-6*scale, 0.5, 0.5)
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func drawArrowhead(dc *gg.Context, from, to Point, bounds Rect, scale float64) {
	fx := (from.X - bounds.X) * scale
	fy := (from.Y - bounds.Y) * scale
	tx := (to.X - bounds.X) * scale
	ty := (to.Y - bounds.Y) * scale

	dx := tx - fx
	dy := ty - fy
	length := math.Sqrt(dx*dx + dy*dy)
	if length < 0.1 {
		return
	}
	dx /= length
	dy /= length

	arrowSize := 6.0 * scale
	arrowAngle := 0.5

	baseX1 := tx - arrowSize*dx + arrowSize*dy*arrowAngle
	baseY1 := ty - arrowSize*dy - arrowSize*dx*arrowAngle
	baseX2 := tx - arrowSize*dx - arrowSize*dy*arrowAngle
	baseY2 := ty - arrowSize*dy + arrowSize*dx*arrowAngle

	dc.MoveTo(tx, ty)
	dc.LineTo(baseX1, baseY1)
	dc.LineTo(baseX2, baseY2)
	dc.ClosePath()
	dc.Fill()
}

// ExportToPNG writes the document as a PNG image.
func ExportToPNG(c *Canvas, filename string) error {
	return withUnitZoom(c, func() error {
		png, err := renderPNG(c, exportImageScale)
		if err != nil {
			return err
		}
		return os.WriteFile(filename, png, 0644)
	})
}

type equipmentRow struct {
	Tag  string
	Name string
	SNo  string
}

func equipmentList(c *Canvas) []equipmentRow {
	rows := make([]equipmentRow, 0, len(c.Instances()))
	for _, inst := range c.Instances() {
		if inst.Config.Label == "" {
			continue
		}
		rows = append(rows, equipmentRow{
			Tag:  inst.Config.Label,
			Name: inst.DisplayName(),
			SNo:  inst.Config.SNo,
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Tag < rows[j].Tag })
	return rows
}

// ExportToPDF writes a two-page report: the diagram on page one and
// the equipment table on page two.
func ExportToPDF(c *Canvas, filename, projectName string) error {
	return withUnitZoom(c, func() error {
		png, err := renderPNG(c, exportPDFScale)
		if err != nil {
			return err
		}

		pdf := gofpdf.New("L", "pt", "A4", "")
		pdf.SetAutoPageBreak(false, 0)
		pdf.SetMargins(36, 36, 36)

		pdf.AddPage()
		pdf.SetFont("Helvetica", "B", 16)
		pdf.CellFormat(0, 24, projectName, "", 1, "C", false, 0, "")

		var opt gofpdf.ImageOptions
		opt.ImageType = "png"
		info := pdf.RegisterImageOptionsReader("diagram", opt, bytes.NewReader(png))
		if pdf.Err() {
			return pdf.Error()
		}

		pageW, pageH := pdf.GetPageSize()
		availW := pageW - 72
		availH := pageH - 72 - 30
		drawW := availW
		drawH := drawW * info.Height() / info.Width()
		if drawH > availH {
			drawH = availH
			drawW = drawH * info.Width() / info.Height()
		}
		pdf.ImageOptions("diagram", (pageW-drawW)/2, 66, drawW, drawH, false, opt, 0, "")

		pdf.AddPage()
		pdf.SetFont("Helvetica", "B", 14)
		pdf.CellFormat(0, 22, "List of Equipment", "", 1, "C", false, 0, "")
		pdf.Ln(6)

		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(100, 18, "Tag", "1", 0, "C", false, 0, "")
		pdf.CellFormat(300, 18, "Equipment", "1", 0, "C", false, 0, "")
		pdf.CellFormat(100, 18, "Stream No.", "1", 1, "C", false, 0, "")

		pdf.SetFont("Helvetica", "", 10)
		for _, row := range equipmentList(c) {
			pdf.CellFormat(100, 16, row.Tag, "1", 0, "C", false, 0, "")
			pdf.CellFormat(300, 16, row.Name, "1", 0, "L", false, 0, "")
			pdf.CellFormat(100, 16, row.SNo, "1", 1, "C", false, 0, "")
		}

		return pdf.OutputFileAndClose(filename)
	})
}

// ExportEquipmentCSV writes the tag/equipment table as CSV.
func ExportEquipmentCSV(c *Canvas, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"Tag", "Equipment", "Stream No."}); err != nil {
		return err
	}
	for _, row := range equipmentList(c) {
		if err := w.Write([]string{row.Tag, row.Name, row.SNo}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// ExportEquipmentXLSX writes the equipment list as a spreadsheet.
func ExportEquipmentXLSX(c *Canvas, filename string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Equipment"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, "A1", &[]any{"Tag", "Equipment", "Stream No."}); err != nil {
		return err
	}
	for i, row := range equipmentList(c) {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &[]any{row.Tag, row.Name, row.SNo}); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(sheet, "A", "A", 12); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "B", "B", 36); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "C", "C", 12); err != nil {
		return err
	}
	return f.SaveAs(filename)
}

// ExportToTXT writes an ASCII snapshot of the drawing, rendered the
// same way the live view renders it but sized to the content bounds
// instead of the terminal.
func ExportToTXT(c *Canvas, filename string) error {
	bounds := c.ContentBounds()
	if bounds.W == 0 && bounds.H == 0 {
		return fmt.Errorf("nothing to export")
	}

	w := int(math.Ceil(bounds.W/cellWorldW)) + 1
	h := int(math.Ceil(bounds.H/cellWorldH)) + 1
	scr := newScreen(w, h)
	cell := func(p Point) (int, int) {
		return int((p.X - bounds.X) / cellWorldW), int((p.Y - bounds.Y) / cellWorldH)
	}
	for _, conn := range c.Connections() {
		drawConnectionCells(scr, conn, cell)
	}
	for _, inst := range c.Instances() {
		drawInstanceCells(scr, inst, cell)
	}

	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	for _, row := range scr.cells {
		if _, err := fmt.Fprintln(f, string(row)); err != nil {
			return err
		}
	}
	return nil
}
