package summary

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/okian/simonev/internal/domain/model"
)

var printer = message.NewPrinter(language.Indonesian)

// BuildPrompt renders the Indonesian analyst prompt.
func BuildPrompt(req Request) string {
	var b strings.Builder
	b.WriteString("Anda adalah analis AI untuk sebuah lembaga pendidikan.\n")
	printer.Fprintf(&b, "Analisis data partisipasi berikut untuk sekolah %s.\n\n", req.CategoryLabel)
	b.WriteString("Konteks:\n")
	b.WriteString("- Kami mencatat partisipasi sekolah dalam kegiatan (Sosialisasi, Permintaan Data).\n")
	b.WriteString("- Skor tinggi menunjukkan sekolah yang aktif dan patuh.\n\n")
	b.WriteString("Data:\n")
	printer.Fprintf(&b, "- Total kegiatan: %d\n", req.EventCount)
	printer.Fprintf(&b, "- 5 sekolah paling aktif: %s\n", schoolList(req.Top))
	printer.Fprintf(&b, "- 5 sekolah paling tidak aktif: %s\n\n", schoolList(req.Bottom))
	b.WriteString("Tugas:\n")
	b.WriteString("Tulis ringkasan eksekutif profesional (maksimal 150 kata) dalam Bahasa Indonesia. ")
	b.WriteString("Soroti kesenjangan antara sekolah teratas dan terbawah, lalu sarankan satu strategi ")
	b.WriteString("yang dapat dijalankan untuk meningkatkan partisipasi sekolah terbawah. ")
	b.WriteString("Jangan gunakan format markdown, cukup paragraf teks biasa.\n")
	return b.String()
}

func schoolList(schools []model.School) string {
	if len(schools) == 0 {
		return "-"
	}
	parts := make([]string, len(schools))
	for i, s := range schools {
		parts[i] = printer.Sprintf("%s (%v poin)", s.Name, number.Decimal(s.TotalScore, number.MaxFractionDigits(1)))
	}
	return strings.Join(parts, ", ")
}
