package backendapi

import (
	"context"
	"net/http"

	"github.com/trezcool/mahudhurio/core/attendance"
)

var _ attendance.Repository = (*Client)(nil)

type saveAttendanceRequest struct {
	Date       string   `json:"date"`
	Attendance []string `json:"attendance"` // IDs of students marked present
}

func (c *Client) SaveAttendance(ctx context.Context, classID, date string, presentIDs []string) error {
	if presentIDs == nil {
		presentIDs = []string{} // an all-absent day is still a record
	}
	body := saveAttendanceRequest{Date: date, Attendance: presentIDs}
	return c.do(ctx, http.MethodPost, "/api/attendance/"+classID, body, nil)
}
