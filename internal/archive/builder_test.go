package archive

import (
	"archive/zip"
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/promo-missing-report/internal/layout"
	"github.com/ginjaninja78/promo-missing-report/internal/promo"
	"github.com/ginjaninja78/promo-missing-report/internal/report"
)

type memSink struct {
	names  []string
	closed bool
	failOn string
}

func (s *memSink) Add(name string, data []byte) error {
	if name == s.failOn {
		return errors.New("sink full")
	}
	s.names = append(s.names, name)
	return nil
}

func (s *memSink) Close() error {
	s.closed = true
	return nil
}

func line(needed, total int64, qty ...string) promo.TypeProd {
	found := make([]promo.Transaction, len(qty))
	for i, q := range qty {
		found[i] = promo.Transaction{ShipDate: "2023-01-01", Quantity: q, PartNumber: "P"}
	}
	return promo.TypeProd{QtyNeeded: needed, TotalQty: total, PartNumbers: []string{"P"}, Found: found}
}

func book() promo.Book {
	return promo.Book{
		"zeta": {Customer: "zeta", Sections: []*promo.PromoSection{
			promo.NewSection([]promo.Part{promo.NewPart(promo.And(), []promo.TypeProd{line(2, 4, "4")})}),
			promo.NewSection([]promo.Part{promo.NewPart(promo.And(), []promo.TypeProd{line(2, 1, "1")})}),
			promo.NewSection([]promo.Part{promo.NewPart(promo.Or(), []promo.TypeProd{line(1, 3, "3")})}),
		}},
		"Acme": {Customer: "Acme", Sections: []*promo.PromoSection{
			promo.NewSection([]promo.Part{promo.NewPart(promo.And(), []promo.TypeProd{line(5, 0)})}),
		}},
	}
}

func newBuilder() *Builder {
	return NewBuilder(report.NewComposer(layout.Letter(), []string{"2006-01-02"}), nil)
}

func TestBuildEntries(t *testing.T) {
	var master bytes.Buffer
	sink := &memSink{}

	stats, err := newBuilder().Build(book(), &master, sink)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Missing_Reports/Acme Missing Report.pdf",
		"Missing_Reports/zeta Missing Report.pdf",
		"zeta/Promo#0.pdf",
		"zeta/Promo#2.pdf",
	}, sink.names)
	assert.True(t, sink.closed)
	assert.Equal(t, 2, stats.Customers)
	assert.Equal(t, 2, stats.QualifiedPromos)
	assert.Equal(t, stats.Customers+stats.QualifiedPromos, stats.Entries)
	assert.True(t, bytes.HasPrefix(master.Bytes(), []byte("%PDF-")))
	assert.Equal(t, master.Len(), stats.MasterBytes)
}

func TestBuildInvalidDetailLeavesArchiveOpen(t *testing.T) {
	b := promo.Book{
		"Bob": {Customer: "Bob", Sections: []*promo.PromoSection{
			promo.NewSection([]promo.Part{promo.NewPart(promo.And(), []promo.TypeProd{line(1, 1, "lots")})}),
		}},
	}

	sink := &memSink{}
	stats, err := newBuilder().Build(b, &bytes.Buffer{}, sink)
	require.Error(t, err)
	assert.ErrorIs(t, err, report.ErrInvalidQuantity)

	require.Len(t, stats.Failed, 1)
	assert.Equal(t, "Bob/Promo#0.pdf", stats.Failed[0].Name)
	assert.ErrorIs(t, stats.Failed[0].Err, report.ErrInvalidQuantity)
	assert.Equal(t, []string{"Missing_Reports/Bob Missing Report.pdf"}, sink.names)
	assert.False(t, sink.closed)
}

func TestBuildSinkErrorAborts(t *testing.T) {
	sink := &memSink{failOn: "zeta/Promo#0.pdf"}
	_, err := newBuilder().Build(book(), &bytes.Buffer{}, sink)
	require.Error(t, err)
	assert.False(t, sink.closed)
}

func TestBuildZipDeterministic(t *testing.T) {
	build := func() []byte {
		var out bytes.Buffer
		_, err := newBuilder().Build(book(), &bytes.Buffer{}, NewZipWriter(&out))
		require.NoError(t, err)
		return out.Bytes()
	}

	a, b := build(), build()
	assert.Equal(t, a, b)

	zr, err := zip.NewReader(bytes.NewReader(a), int64(len(a)))
	require.NoError(t, err)
	require.Len(t, zr.File, 4)
	assert.Equal(t, "Missing_Reports/Acme Missing Report.pdf", zr.File[0].Name)
}
