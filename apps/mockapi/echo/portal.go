package echoapi

import (
	"math/rand"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Hanish3/college-portal/core"
	"github.com/Hanish3/college-portal/core/access"
	"github.com/Hanish3/college-portal/core/attendance"
	"github.com/Hanish3/college-portal/core/gradebook"
	"github.com/Hanish3/college-portal/core/roster"
	"github.com/Hanish3/college-portal/core/survey"
	"github.com/Hanish3/college-portal/storage/database"
)

type portalApi struct {
	repo database.Repository
}

func registerPortalAPI(g *echo.Group, jwt echo.MiddlewareFunc, repo database.Repository) {
	api := portalApi{repo: repo}

	// un-authed endpoints
	g.POST("/auth/token", api.tokenObtain)

	// authed endpoints
	ag := g.Group("", jwt, activeUserMiddleware())

	cg := ag.Group("/courses/:id")
	cg.GET("/roster", api.courseRoster, elevatedMiddleware())
	cg.POST("/attendance", api.attendanceCommit, elevatedMiddleware())
	cg.GET("/attendance/months", api.attendanceMonths)
	cg.GET("/attendance/days", api.attendanceDays)
	cg.GET("/assessments/:aid/marks", api.marksRetrieve, elevatedMiddleware())
	cg.POST("/assessments/:aid/marks", api.marksCommit, elevatedMiddleware())

	sg := ag.Group("/survey")
	sg.GET("/today", api.surveyToday)
	sg.GET("/questions", api.surveyQuestions)
	sg.POST("", api.surveySubmit)
}

// activeUserMiddleware rejects suspended accounts on every authed call,
// even when their token is otherwise valid.
func activeUserMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return err
			}
			if claims.Suspended {
				return errAccountSuspended
			}
			return next(ctx)
		}
	}
}

// elevatedMiddleware restricts an endpoint to faculty and admin users.
func elevatedMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return err
			}
			if !access.IsElevated(claims.Role) {
				return errHTTPForbidden
			}
			return next(ctx)
		}
	}
}

// Handlers

func (api *portalApi) tokenObtain(ctx echo.Context) error {
	data := new(tokenRequest)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	if err := core.CheckStruct(data); err != nil {
		return err
	}

	claims, err := authenticate(ctx.Request().Context(), data.Username, data.Password, api.repo)
	if err != nil {
		return err
	}
	token, err := GenerateToken(claims)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, tokenResponse{Token: token})
}

func (api *portalApi) courseRoster(ctx echo.Context) error {
	courseID, err := pathUUID(ctx, "id")
	if err != nil {
		return err
	}
	date, err := queryDate(ctx)
	if err != nil {
		return err
	}

	rctx := ctx.Request().Context()
	if _, err = api.repo.GetCourse(rctx, courseID); err != nil {
		return notFoundOr(err)
	}
	students, err := api.repo.CourseRoster(rctx, courseID)
	if err != nil {
		return errors.Wrap(err, "querying roster")
	}
	recs, err := api.repo.AttendanceForDate(rctx, courseID, date)
	if err != nil {
		return errors.Wrap(err, "querying attendance")
	}
	saved := make(map[uuid.UUID]string, len(recs))
	for _, rec := range recs {
		saved[rec.StudentID] = rec.Status
	}

	rows := make([]rosterRow, 0, len(students))
	for _, s := range students {
		row := rosterRow{StudentID: s.ID, Name: s.Name}
		if status, ok := saved[s.ID]; ok {
			row.Status = &status
		}
		rows = append(rows, row)
	}
	return ctx.JSON(http.StatusOK, rows)
}

func (api *portalApi) attendanceCommit(ctx echo.Context) error {
	courseID, err := pathUUID(ctx, "id")
	if err != nil {
		return err
	}
	data := new(attendanceBatchRequest)
	if err = ctx.Bind(data); err != nil {
		return err
	}
	if err = core.CheckStruct(data); err != nil {
		return err
	}
	date, err := time.Parse(attendance.DateLayout, data.Date)
	if err != nil {
		return core.NewValidationError(nil, core.FieldError{Field: "date", Error: "invalid date"})
	}
	for _, e := range data.Entries {
		if !e.Value.Valid() {
			return core.NewValidationError(nil, core.FieldError{Field: "entries", Error: "invalid status " + string(e.Value)})
		}
	}

	rctx := ctx.Request().Context()
	if _, err = api.repo.GetCourse(rctx, courseID); err != nil {
		return notFoundOr(err)
	}
	recs := make([]database.AttendanceRecord, 0, len(data.Entries))
	for _, e := range data.Entries {
		recs = append(recs, database.AttendanceRecord{
			CourseID:  courseID,
			StudentID: e.MemberID,
			Date:      date,
			Status:    string(e.Value),
		})
	}
	if err = api.repo.UpsertAttendance(rctx, recs); err != nil {
		return errors.Wrap(err, "saving attendance")
	}
	return ctx.JSON(http.StatusOK, core.Ack{
		Message: "attendance saved for " + strconv.Itoa(len(recs)) + " students",
	})
}

func (api *portalApi) attendanceMonths(ctx echo.Context) error {
	courseID, err := pathUUID(ctx, "id")
	if err != nil {
		return err
	}
	studentID, err := contextSubject(ctx)
	if err != nil {
		return err
	}

	recs, err := api.repo.StudentAttendance(ctx.Request().Context(), courseID, studentID)
	if err != nil {
		return errors.Wrap(err, "querying student attendance")
	}

	type ym struct {
		year  int
		month time.Month
	}
	byMonth := make(map[ym]*attendance.MonthlyAggregate)
	order := make([]ym, 0)
	for _, rec := range recs {
		key := ym{rec.Date.Year(), rec.Date.Month()}
		agg, ok := byMonth[key]
		if !ok {
			agg = &attendance.MonthlyAggregate{Year: key.year, Month: key.month}
			byMonth[key] = agg
			order = append(order, key)
		}
		switch attendance.Status(rec.Status) {
		case attendance.StatusPresent:
			agg.Present++
		case attendance.StatusAbsent:
			agg.Absent++
		case attendance.StatusLate:
			agg.Late++
		}
		agg.Total++
	}
	sort.Slice(order, func(i, j int) bool {
		if order[i].year != order[j].year {
			return order[i].year < order[j].year
		}
		return order[i].month < order[j].month
	})

	months := make([]attendance.MonthlyAggregate, 0, len(order))
	for _, key := range order {
		months = append(months, *byMonth[key])
	}
	return ctx.JSON(http.StatusOK, months)
}

func (api *portalApi) attendanceDays(ctx echo.Context) error {
	courseID, err := pathUUID(ctx, "id")
	if err != nil {
		return err
	}
	studentID, err := contextSubject(ctx)
	if err != nil {
		return err
	}
	year, err := strconv.Atoi(ctx.QueryParam("year"))
	if err != nil {
		return core.NewValidationError(nil, core.FieldError{Field: "year", Error: "invalid year"})
	}
	month, err := strconv.Atoi(ctx.QueryParam("month"))
	if err != nil || month < 1 || month > 12 {
		return core.NewValidationError(nil, core.FieldError{Field: "month", Error: "invalid month"})
	}

	recs, err := api.repo.StudentAttendance(ctx.Request().Context(), courseID, studentID)
	if err != nil {
		return errors.Wrap(err, "querying student attendance")
	}
	days := make([]attendance.DailyRecord, 0)
	for _, rec := range recs {
		if rec.Date.Year() == year && rec.Date.Month() == time.Month(month) {
			days = append(days, attendance.DailyRecord{Date: rec.Date, Status: attendance.Status(rec.Status)})
		}
	}
	return ctx.JSON(http.StatusOK, days)
}

func (api *portalApi) marksRetrieve(ctx echo.Context) error {
	courseID, assessment, err := api.assessmentFromPath(ctx)
	if err != nil {
		return err
	}

	rctx := ctx.Request().Context()
	students, err := api.repo.CourseRoster(rctx, courseID)
	if err != nil {
		return errors.Wrap(err, "querying roster")
	}
	recs, err := api.repo.MarksFor(rctx, assessment.ID)
	if err != nil {
		return errors.Wrap(err, "querying marks")
	}
	saved := make(map[uuid.UUID]float64, len(recs))
	for _, rec := range recs {
		saved[rec.StudentID] = rec.Marks
	}

	rows := make([]marksRow, 0, len(students))
	for _, s := range students {
		row := marksRow{StudentID: s.ID, Name: s.Name}
		if marks, ok := saved[s.ID]; ok {
			row.Marks = &marks
		}
		rows = append(rows, row)
	}
	return ctx.JSON(http.StatusOK, rows)
}

func (api *portalApi) marksCommit(ctx echo.Context) error {
	_, assessment, err := api.assessmentFromPath(ctx)
	if err != nil {
		return err
	}

	data := new(marksBatchRequest)
	if err = ctx.Bind(data); err != nil {
		return err
	}
	if err = core.CheckStruct(data); err != nil {
		return err
	}
	for _, e := range data.Entries {
		if float64(e.Value) < 0 || float64(e.Value) > assessment.MaxMarks {
			return core.NewValidationError(nil, core.FieldError{Field: "entries", Error: "marks out of range"})
		}
	}

	recs := make([]database.MarkRecord, 0, len(data.Entries))
	for _, e := range data.Entries {
		recs = append(recs, database.MarkRecord{
			AssessmentID: assessment.ID,
			StudentID:    e.MemberID,
			Marks:        float64(e.Value),
		})
	}
	if err = api.repo.UpsertMarks(ctx.Request().Context(), recs); err != nil {
		return errors.Wrap(err, "saving marks")
	}
	return ctx.JSON(http.StatusOK, core.Ack{
		Message: "marks saved for " + strconv.Itoa(len(recs)) + " students",
	})
}

func (api *portalApi) surveyToday(ctx echo.Context) error {
	userID, err := contextSubject(ctx)
	if err != nil {
		return err
	}
	submitted, err := api.repo.HasSurveyResponse(ctx.Request().Context(), userID, time.Now())
	if err != nil {
		return errors.Wrap(err, "checking survey response")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"submitted": submitted})
}

func (api *portalApi) surveyQuestions(ctx echo.Context) error {
	questions, err := api.repo.SurveyQuestions(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying survey questions")
	}
	// fresh order per fetch
	rand.Shuffle(len(questions), func(i, j int) {
		questions[i], questions[j] = questions[j], questions[i]
	})

	out := make([]survey.Question, 0, len(questions))
	for _, q := range questions {
		answers := make([]survey.Answer, 0, len(q.Answers))
		for _, a := range q.Answers {
			answers = append(answers, survey.Answer{Text: a.Text, Score: a.Score})
		}
		out = append(out, survey.Question{ID: q.ID, Text: q.Text, Answers: answers})
	}
	return ctx.JSON(http.StatusOK, out)
}

func (api *portalApi) surveySubmit(ctx echo.Context) error {
	userID, err := contextSubject(ctx)
	if err != nil {
		return err
	}
	data := new(survey.Submission)
	if err = ctx.Bind(data); err != nil {
		return err
	}

	rctx := ctx.Request().Context()
	now := time.Now()
	submitted, err := api.repo.HasSurveyResponse(rctx, userID, now)
	if err != nil {
		return errors.Wrap(err, "checking survey response")
	}
	if submitted {
		return core.NewValidationError(errors.New("survey already submitted today"))
	}
	questions, err := api.repo.SurveyQuestions(rctx)
	if err != nil {
		return errors.Wrap(err, "querying survey questions")
	}
	if len(data.Responses) != len(questions) {
		return core.NewValidationError(errors.New("all questions must be answered"))
	}

	var score int
	for _, resp := range data.Responses {
		score += resp.Answer.Score
	}
	err = api.repo.CreateSurveyResponse(rctx, database.SurveyResponse{
		UserID:   userID,
		Date:     now,
		Score:    score,
		Comments: core.CleanString(data.Comments),
	})
	if err != nil {
		if err == database.ErrExists {
			return core.NewValidationError(errors.New("survey already submitted today"))
		}
		return errors.Wrap(err, "saving survey response")
	}
	return ctx.JSON(http.StatusOK, core.Ack{Message: "thanks for checking in"})
}

// helpers

func (api *portalApi) assessmentFromPath(ctx echo.Context) (uuid.UUID, database.Assessment, error) {
	courseID, err := pathUUID(ctx, "id")
	if err != nil {
		return uuid.Nil, database.Assessment{}, err
	}
	assessmentID, err := pathUUID(ctx, "aid")
	if err != nil {
		return uuid.Nil, database.Assessment{}, err
	}
	a, err := api.repo.GetAssessment(ctx.Request().Context(), assessmentID)
	if err != nil {
		return uuid.Nil, database.Assessment{}, notFoundOr(err)
	}
	if a.CourseID != courseID {
		return uuid.Nil, database.Assessment{}, errHTTPNotFound
	}
	return courseID, a, nil
}

func notFoundOr(err error) error {
	if errors.Cause(err) == database.ErrNotFound {
		return errHTTPNotFound
	}
	return err
}

func contextSubject(ctx echo.Context) (uuid.UUID, error) {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return uuid.Nil, err
	}
	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, errUnauthorized
	}
	return id, nil
}

func pathUUID(ctx echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Param(name))
	if err != nil {
		return uuid.Nil, errHTTPNotFound
	}
	return id, nil
}

func queryDate(ctx echo.Context) (time.Time, error) {
	date, err := time.Parse(attendance.DateLayout, ctx.QueryParam("date"))
	if err != nil {
		return time.Time{}, core.NewValidationError(nil, core.FieldError{Field: "date", Error: "invalid date"})
	}
	return date, nil
}

// Bindings

type (
	tokenRequest struct {
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required"`
	}
	tokenResponse struct {
		Token string `json:"token"`
	}

	rosterRow struct {
		StudentID uuid.UUID `json:"student_id"`
		Name      string    `json:"name"`
		Status    *string   `json:"status"`
	}

	attendanceBatchRequest struct {
		Date    string                                 `json:"date" validate:"required"`
		Entries []roster.BatchEntry[attendance.Status] `json:"entries" validate:"required"`
	}

	marksRow struct {
		StudentID uuid.UUID `json:"student_id"`
		Name      string    `json:"name"`
		Marks     *float64  `json:"marks"`
	}

	marksBatchRequest struct {
		Entries []roster.BatchEntry[gradebook.Mark] `json:"entries" validate:"required"`
	}
)
