// Package report renders aggregated statistics: CSV files for spreadsheets
// and plain-text summaries for posting back into a channel.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/mkurata/slack-pulse/pkg/models"
)

// utf8BOM makes spreadsheet applications detect the encoding correctly.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// WriteUserStatsCSV writes the user activity report as CSV with a UTF-8
// byte-order marker and a header row. Rows are written in input order,
// which the aggregation already sorted by active days.
func WriteUserStatsCSV(w io.Writer, stats []models.UserStat) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return fmt.Errorf("failed to write BOM: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"display_name", "active_days", "total_posts", "posts_reply_included"}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, s := range stats {
		row := []string{
			s.DisplayName,
			strconv.Itoa(s.ActiveDays),
			strconv.Itoa(s.TotalPosts),
			strconv.Itoa(s.PostsWithReplies),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// SaveUserStatsCSV writes the report to path atomically.
func SaveUserStatsCSV(path string, stats []models.UserStat) error {
	tmpPath := path + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}

	if err := WriteUserStatsCSV(f, stats); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close report file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename report file: %w", err)
	}
	return nil
}
