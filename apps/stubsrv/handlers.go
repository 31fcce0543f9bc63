package main

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/class"
)

type attendanceApi struct {
	store *memoryStore
}

func registerAttendanceAPI(g *echo.Group, store *memoryStore) {
	api := attendanceApi{store: store}

	g.POST("/auth/login", api.login)

	g.GET("/classes", api.queryClasses)
	g.POST("/classes", api.createClass)
	g.DELETE("/classes/:id", api.destroyClass)

	g.GET("/students/:classId", api.queryStudents)
	g.POST("/students/:classId", api.createStudent)

	g.POST("/attendance/:classId", api.saveAttendance)
	g.GET("/analytics/:classId", api.queryAnalytics)
}

// Handlers

type (
	loginRequest struct {
		Email string `json:"email" validate:"required,email"`
	}

	loginTeacher struct {
		ID string `json:"id"`
	}
	loginResponse struct {
		Teacher loginTeacher `json:"teacher"`
	}

	saveAttendanceRequest struct {
		Date       string   `json:"date" validate:"required,len=10"`
		Attendance []string `json:"attendance"`
	}
)

// login pairs a verified ID token with its backend teacher record.
func (api *attendanceApi) login(ctx echo.Context) error {
	var data loginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to loginRequest")
	}
	if err := core.Validate.Struct(&data); err != nil {
		return err
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	if claims.Email != data.Email {
		return core.NewValidationError(errors.New("email does not match token"))
	}
	acc, ok := api.store.findAccount(data.Email)
	if !ok {
		return errUnauthorized
	}
	return ctx.JSON(http.StatusOK, loginResponse{Teacher: loginTeacher{ID: acc.TeacherID}})
}

func (api *attendanceApi) queryClasses(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	classes := make([]class.Class, 0)
	for _, cls := range api.store.allClasses() {
		if cls.TeacherID == claims.Subject {
			classes = append(classes, cls)
		}
	}
	return ctx.JSON(http.StatusOK, classes)
}

func (api *attendanceApi) createClass(ctx echo.Context) error {
	var data class.NewClass
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewClass")
	}
	if err := data.Validate(); err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, api.store.createClass(data))
}

func (api *attendanceApi) destroyClass(ctx echo.Context) error {
	if !api.store.deleteClass(ctx.Param("id")) {
		return errHttpNotFound
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *attendanceApi) queryStudents(ctx echo.Context) error {
	roster, ok := api.store.roster(ctx.Param("classId"))
	if !ok {
		return errHttpNotFound
	}
	return ctx.JSON(http.StatusOK, roster)
}

func (api *attendanceApi) createStudent(ctx echo.Context) error {
	var data class.NewStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStudent")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	classID := ctx.Param("classId")
	roster, ok := api.store.roster(classID)
	if !ok {
		return errHttpNotFound
	}
	if want := class.NextRollNo(roster); data.RollNo != want {
		return core.NewValidationError(nil, core.FieldError{Field: "rollNo", Error: "roll numbers must be sequential"})
	}

	student, ok := api.store.addStudent(classID, data)
	if !ok {
		return errHttpNotFound
	}
	return ctx.JSON(http.StatusCreated, student)
}

func (api *attendanceApi) saveAttendance(ctx echo.Context) error {
	var data saveAttendanceRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to saveAttendanceRequest")
	}
	if err := core.Validate.Struct(&data); err != nil {
		return err
	}
	if data.Attendance == nil {
		data.Attendance = []string{}
	}
	if !api.store.saveAttendance(ctx.Param("classId"), data.Date, data.Attendance) {
		return errHttpNotFound
	}
	return ctx.NoContent(http.StatusCreated)
}

func (api *attendanceApi) queryAnalytics(ctx echo.Context) error {
	series, ok := api.store.analytics(ctx.Param("classId"))
	if !ok {
		return errHttpNotFound
	}
	return ctx.JSON(http.StatusOK, series)
}
