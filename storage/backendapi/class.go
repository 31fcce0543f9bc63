package backendapi

import (
	"context"
	"net/http"

	"github.com/trezcool/mahudhurio/core/class"
)

var _ class.Repository = (*Client)(nil)

func (c *Client) QueryAllClasses(ctx context.Context) ([]class.Class, error) {
	var classes []class.Class
	if err := c.do(ctx, http.MethodGet, "/api/classes", nil, &classes); err != nil {
		return nil, err
	}
	return classes, nil
}

func (c *Client) CreateClass(ctx context.Context, nc class.NewClass) (class.Class, error) {
	var created class.Class
	if err := c.do(ctx, http.MethodPost, "/api/classes", nc, &created); err != nil {
		return class.Class{}, err
	}
	return created, nil
}

func (c *Client) DeleteClass(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/classes/"+id, nil, nil)
}

func (c *Client) QueryStudents(ctx context.Context, classID string) ([]class.Student, error) {
	var students []class.Student
	if err := c.do(ctx, http.MethodGet, "/api/students/"+classID, nil, &students); err != nil {
		return nil, err
	}
	return students, nil
}

// CreateStudent returns a zero Student when the backend responds without a
// body; the service layer synthesizes a placeholder in that case.
func (c *Client) CreateStudent(ctx context.Context, classID string, ns class.NewStudent) (class.Student, error) {
	var created class.Student
	if err := c.do(ctx, http.MethodPost, "/api/students/"+classID, ns, &created); err != nil {
		return class.Student{}, err
	}
	return created, nil
}
