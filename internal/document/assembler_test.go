package document

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/promo-missing-report/internal/layout"
	"github.com/ginjaninja78/promo-missing-report/internal/pdf"
)

type failingWriter struct{ n int }

func (w *failingWriter) Write(p []byte) (int, error) {
	w.n += len(p)
	return 0, errors.New("disk full")
}

func sampleResult() layout.Result {
	m := layout.NewManager(layout.Letter())
	tb := layout.NewTextBox("hello", 12)
	tb.Group = 0
	_ = m.Reserve(layout.Cols(0, 50), false).SetHeight(20).Draw(tb)
	res := m.Result()
	res.Borders = append(res.Borders, layout.Border{Rect: layout.Rect{X: 10, Y: 10, W: 20, H: 20}, Width: 2, Color: pdf.Black, Group: 0})
	res.Frames = layout.FrameStyle{Margin: 6, Width: 3, Palette: []pdf.Color{pdf.Red}}
	return res
}

func TestAssemble(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Assemble(sampleResult(), &buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-1.5")))

	var again bytes.Buffer
	require.NoError(t, Assemble(sampleResult(), &again))
	assert.Equal(t, buf.Bytes(), again.Bytes())
}

func TestEncodeDoesNotMutateResult(t *testing.T) {
	res := sampleResult()
	before := len(res.Pages[0])
	_, err := Encode(res)
	require.NoError(t, err)
	assert.Len(t, res.Pages[0], before)
}

func TestAssembleEncodingFailureWritesNothing(t *testing.T) {
	res := sampleResult()
	res.Pages[0] = append(res.Pages[0], pdf.Operation{Operator: "Tj", Operands: []any{complex(1, 1)}})

	w := &failingWriter{}
	err := Assemble(res, w)
	assert.ErrorIs(t, err, pdf.ErrEncoding)
	assert.Zero(t, w.n)
}

func TestAssembleBadPage(t *testing.T) {
	res := sampleResult()
	res.Borders = append(res.Borders, layout.Border{Page: 4, Width: 1, Group: layout.NoGroup})

	var buf bytes.Buffer
	assert.ErrorIs(t, Assemble(res, &buf), pdf.ErrEncoding)
	assert.Zero(t, buf.Len())
}

func TestAssembleWriteError(t *testing.T) {
	err := Assemble(sampleResult(), &failingWriter{})
	require.Error(t, err)
	assert.NotErrorIs(t, err, pdf.ErrEncoding)
}
