package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/mail"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/mahudhurio/core"
)

// RenderText renders the report for terminal display.
func (r Report) RenderText() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Attendance report - class %s (%d students)\n", r.ClassID, r.TotalStudents)
	fmt.Fprintf(&b, "Average: %.1f%%  Max: %.1f%%  Min: %.1f%%\n", r.AverageRate, r.MaxRate, r.MinRate)
	if len(r.Days) == 0 {
		b.WriteString("No attendance recorded yet.\n")
		return b.String()
	}
	b.WriteString("\nDate        Present  Absent  Rate\n")
	for _, d := range r.Days {
		fmt.Fprintf(&b, "%-12s %6d  %6d  %5.1f%%\n", d.Date, d.PresentCount, d.AbsentCount, d.Rate)
	}
	return b.String()
}

// RenderCSV renders the per-day breakdown as a CSV document.
func (r Report) RenderCSV() (*bytes.Buffer, error) {
	buf := new(bytes.Buffer)
	w := csv.NewWriter(buf)

	records := [][]string{{"date", "present", "absent", "rate"}}
	for _, d := range r.Days {
		records = append(records, []string{
			d.Date,
			strconv.Itoa(d.PresentCount),
			strconv.Itoa(d.AbsentCount),
			strconv.FormatFloat(d.Rate, 'f', 1, 64),
		})
	}
	if err := w.WriteAll(records); err != nil {
		return nil, errors.Wrap(err, "writing report CSV")
	}
	return buf, nil
}

// Deliver renders the report and sends it with the CSV breakdown attached.
// The send is synchronous: callers (the CLI in particular) may exit as soon
// as Deliver returns.
func Deliver(r Report, mailSvc core.EmailService, to ...mail.Address) error {
	csvBuf, err := r.RenderCSV()
	if err != nil {
		return err
	}

	msg := &core.EmailMessage{
		To:          to,
		Subject:     fmt.Sprintf("Attendance report - class %s", r.ClassID),
		TextContent: r.RenderText(),
	}
	filename := fmt.Sprintf("class_%s_attendance.csv", r.ClassID)
	if err := msg.Attach(csvBuf, filename, "text/csv"); err != nil {
		return errors.Wrap(err, "attaching report CSV")
	}

	mailSvc.SendMessagesAndWait(msg)
	return nil
}
