// Package export serializes study sessions for download and archival.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/dukerupert/studytracker/internal/model"
)

// Filename is the suggested download name.
const Filename = "study_sessions.csv"

const timeLayout = "2006-01-02 15:04:05"

var header = []string{"Subject", "Date & Time", "Duration (hours)", "Productivity Rating"}

// WriteCSV writes a header row followed by one row per session, in the
// order given. Timestamps are rendered in loc.
func WriteCSV(w io.Writer, sessions []model.StudySession, loc *time.Location) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, s := range sessions {
		row := []string{
			s.Subject,
			s.StartedAt.In(loc).Format(timeLayout),
			strconv.FormatFloat(s.DurationHours, 'f', -1, 64),
			strconv.Itoa(s.ProductivityRating),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
