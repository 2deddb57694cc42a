package roster_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/okian/simonev/internal/adapters/roster"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/xuri/excelize/v2"
)

func buildXLSX(rows [][]any) []byte {
	f := excelize.NewFile()
	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	for idx, row := range rows {
		axis, err := excelize.CoordinatesToCellName(1, idx+1)
		So(err, ShouldBeNil)
		cells := row
		So(f.SetSheetRow(sheet, axis, &cells), ShouldBeNil)
	}
	var buf bytes.Buffer
	So(f.Write(&buf), ShouldBeNil)
	So(f.Close(), ShouldBeNil)
	return buf.Bytes()
}

func TestXLSXExtractor(t *testing.T) {
	Convey("Given a workbook with an NPSN header in the second column", t, func() {
		data := buildXLSX([][]any{
			{"Nama Sekolah", "Kode NPSN", "Kota"},
			{"SMAK A", " 10001 ", "Kupang"},
			{"SMAK B", "", "Ende"},
			{"SMTK C", 10003, "Sumba"},
		})

		Convey("When extracted", func() {
			lines, err := roster.XLSXExtractor{}.Extract(data)

			Convey("Then that column is read from the second row, trimmed, without empties", func() {
				So(err, ShouldBeNil)
				So(lines, ShouldResemble, []string{"10001", "10003"})
			})
		})
	})

	Convey("Given a workbook without a header", t, func() {
		data := buildXLSX([][]any{
			{"10001", "ignored"},
			{"  "},
			{"SMTK Betel"},
		})

		Convey("When extracted", func() {
			lines, err := roster.XLSXExtractor{}.Extract(data)

			Convey("Then the first column is read from the first row", func() {
				So(err, ShouldBeNil)
				So(lines, ShouldResemble, []string{"10001", "SMTK Betel"})
			})
		})
	})

	Convey("Given bytes that are not a workbook", t, func() {
		_, err := roster.XLSXExtractor{}.Extract([]byte("plain text"))

		Convey("Then ErrUnreadableWorkbook is returned", func() {
			So(errors.Is(err, roster.ErrUnreadableWorkbook), ShouldBeTrue)
		})
	})
}

func TestForFilename(t *testing.T) {
	Convey("Given file names", t, func() {
		x, err := roster.ForFilename("Daftar Hadir.XLSX")
		So(err, ShouldBeNil)
		So(x, ShouldHaveSameTypeAs, roster.XLSXExtractor{})

		txt, err := roster.ForFilename("hadir.txt")
		So(err, ShouldBeNil)
		lines, _ := txt.Extract([]byte(" a \n\nb\n"))
		So(lines, ShouldResemble, []string{"a", "b"})

		_, err = roster.ForFilename("scan.pdf")
		So(errors.Is(err, roster.ErrUnsupportedFile), ShouldBeTrue)
	})
}
