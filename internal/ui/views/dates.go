package views

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/language"

	"github.com/tgienger/taskflow/internal/ui/styles"
)

// dateFormat is how due dates are shown and typed for the user's locale
type dateFormat struct {
	DisplayLayout string
	Hint          string
	InputLayouts  []string
}

func detectDateFormat() dateFormat {
	return dateFormatForTag(detectLocaleTag())
}

func dateFormatForTag(tag language.Tag) dateFormat {
	if tag == language.Und {
		return dateFormatYMD()
	}
	region, _ := tag.Region()
	switch region.String() {
	case "US", "PH":
		return dateFormatMDY()
	case "CA", "CN", "JP", "KR", "HU", "LT", "SE", "TW":
		return dateFormatYMD()
	default:
		return dateFormatDMY()
	}
}

func detectLocaleTag() language.Tag {
	for _, key := range []string{"LC_ALL", "LC_TIME", "LANG"} {
		raw := normalizeLocale(os.Getenv(key))
		if raw == "" || raw == "C" || raw == "POSIX" {
			continue
		}
		if tag, err := language.Parse(raw); err == nil {
			return tag
		}
	}
	return language.Und
}

// normalizeLocale turns en_US.UTF-8@euro into en-US
func normalizeLocale(raw string) string {
	locale := strings.TrimSpace(raw)
	if idx := strings.IndexAny(locale, ".@"); idx >= 0 {
		locale = locale[:idx]
	}
	return strings.ReplaceAll(locale, "_", "-")
}

func dateFormatMDY() dateFormat {
	return dateFormat{
		DisplayLayout: "01/02/2006",
		Hint:          "MM/DD/YYYY",
		InputLayouts:  []string{"1/2/2006", "01/02/2006", "1-2-2006", "01-02-2006"},
	}
}

func dateFormatDMY() dateFormat {
	return dateFormat{
		DisplayLayout: "02/01/2006",
		Hint:          "DD/MM/YYYY",
		InputLayouts:  []string{"2/1/2006", "02/01/2006", "2.1.2006", "02.01.2006", "2-1-2006", "02-01-2006"},
	}
}

func dateFormatYMD() dateFormat {
	return dateFormat{
		DisplayLayout: "2006-01-02",
		Hint:          "YYYY-MM-DD",
		InputLayouts:  []string{"2006-1-2", "2006/01/02", "2006/1/2", "2006.01.02"},
	}
}

func (f dateFormat) format(t time.Time) string {
	return t.UTC().Format(f.DisplayLayout)
}

// normalizeInput converts a locale formatted date to YYYY-MM-DD. Input that
// does not match any layout is returned trimmed so validation can report it.
func (f dateFormat) normalizeInput(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	layouts := append([]string{time.DateOnly}, f.InputLayouts...)
	for _, layout := range layouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format(time.DateOnly)
		}
	}
	return raw
}

func dateOnlyUTC(t time.Time) time.Time {
	v := t.UTC()
	return time.Date(v.Year(), v.Month(), v.Day(), 0, 0, 0, 0, time.UTC)
}

// dueDisplay returns the label and color for a due date relative to now.
// Completed tasks are never shown as overdue.
func (f dateFormat) dueDisplay(due time.Time, completed bool, now time.Time) (string, lipgloss.Color) {
	days := int(dateOnlyUTC(due).Sub(dateOnlyUTC(now)).Hours() / 24)
	switch {
	case completed:
		return f.format(due), styles.Current.ForegroundDim
	case days == 0:
		return "Today", styles.Current.DueToday
	case days == 1:
		return "Tomorrow", styles.Current.Foreground
	case days < 0 && days >= -7:
		return fmt.Sprintf("%dd overdue", -days), styles.Current.DueOverdue
	case days < 0:
		return f.format(due), styles.Current.DueOverdue
	}
	return f.format(due), styles.Current.Foreground
}
