package skills

import (
	"strings"

	"github.com/skillflow/skillflow-server/internal/models"
)

// csvHeader is the fixed column order of the spreadsheet export.
const csvHeader = "Skill Name,Module,Date,Topic,Subject,Status,Video URL,Website URL,Docs URL,Other URL"

// ExportCSV renders one row per entry. Every field is double-quoted with
// inner quotes doubled, and the output starts with a UTF-8 BOM so
// spreadsheet tools pick the right encoding. encoding/csv quotes only when
// required, which would change the produced bytes, so the fields are quoted
// by hand.
func ExportCSV(list []models.Skill) []byte {
	var b strings.Builder
	b.WriteString("\uFEFF")
	b.WriteString(csvHeader)
	b.WriteString("\n")

	for _, skill := range list {
		for _, e := range skill.Entries {
			fields := []string{
				skill.Name,
				e.Module,
				e.Date,
				e.Topic,
				e.Subject,
				e.Progress,
				e.VideoURL,
				e.WebsiteURL,
				e.DocsURL,
				e.OtherURL,
			}
			for i, f := range fields {
				if i > 0 {
					b.WriteString(",")
				}
				b.WriteString(escapeCSV(f))
			}
			b.WriteString("\n")
		}
	}
	return []byte(b.String())
}

func escapeCSV(field string) string {
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}
