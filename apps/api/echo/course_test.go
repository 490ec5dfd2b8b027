package echoapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"testing"

	"github.com/saikalpataru/sadhana/core/course"
	testutil "github.com/saikalpataru/sadhana/tests"
)

func Test_courseApi_query(t *testing.T) {
	env := setup(t)

	admin := testutil.CreateUser(t, env.usrRepo, "Admin", "Ji", "admin@test.cd", "pwd", true)
	student := testutil.CreateUser(t, env.usrRepo, "Asha", "Devi", "asha@test.cd", "pwd", false)

	crs1 := testutil.CreateCourse(t, env.db, 1, "Kirtanam", "chanting")
	crs2 := testutil.CreateCourse(t, env.db, 2, "Smaranam", "remembering")
	testutil.CreateEnrollment(t, env.courseRepo, student.ID, crs1.ID)

	empty := marchallList(t, []interface{}{}...)
	tests := []httpTest{
		{name: "Auth required", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{name: "Student sees assigned courses only", token: getToken(t, student), wantData: marchallList(t, crs1)},
		{name: "Admin sees all courses", token: getToken(t, admin), wantData: marchallList(t, crs1, crs2)},
	}
	for _, tt := range tests {
		tt.method = http.MethodGet
		tt.path = "/api/courses"
		if tt.wantCode == 0 {
			tt.wantCode = http.StatusOK
		}

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			env.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	// a student with no assignments gets an empty list, not null
	lonely := testutil.CreateUser(t, env.usrRepo, "Bala", "Das", "bala@test.cd", "pwd", false)
	tt := httpTest{name: "No assignments", wantCode: http.StatusOK, wantData: empty}
	t.Run(tt.name, func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/api/courses", getToken(t, lonely))
		env.server.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})
}

func Test_courseApi_assign(t *testing.T) {
	env := setup(t)

	admin := testutil.CreateUser(t, env.usrRepo, "Admin", "Ji", "admin@test.cd", "pwd", true)
	student := testutil.CreateUser(t, env.usrRepo, "Asha", "Devi", "asha@test.cd", "pwd", false)
	crs := testutil.CreateCourse(t, env.db, 1, "Kirtanam", "chanting")

	form := func(studentID, courseID string) string {
		v := make(url.Values)
		v.Set("student_id", studentID)
		v.Set("course_id", courseID)
		return v.Encode()
	}
	assigned := marchallObj(t, MessageResponse{Message: "Course assigned successfully"})
	adminToken := getToken(t, admin)

	tests := []httpTest{
		{name: "Auth required", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "Admin required", token: getToken(t, student), extra: form(strconv.Itoa(student.ID), "1"),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "Admin access required"}),
		},
		{
			name: "student_id must be an int", token: adminToken, extra: form("lol", "1"),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"student_id": "must be an integer"}),
		},
		{
			name: "course_id must be an int", token: adminToken, extra: form(strconv.Itoa(student.ID), "lol"),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"course_id": "must be an integer"}),
		},
		{
			name: "Assigned", token: adminToken, extra: form(strconv.Itoa(student.ID), strconv.Itoa(crs.ID)),
			wantCode: http.StatusOK, wantData: assigned,
		},
		{
			// assigning the same pair again is a no-op
			name: "Assign twice", token: adminToken, extra: form(strconv.Itoa(student.ID), strconv.Itoa(crs.ID)),
			wantCode: http.StatusOK, wantData: assigned,
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodPost
		tt.path = "/api/assign-course"

		t.Run(tt.name, func(t *testing.T) {
			body, _ := tt.extra.(string)
			req, rec := newFormRequest(tt.method, tt.path, tt.token, body)
			env.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	var count int
	if err := env.db.Get(&count, env.db.Rebind(`SELECT COUNT(*) FROM student_courses WHERE student_id = ? AND course_id = ?`), student.ID, crs.ID); err != nil {
		t.Fatalf("counting enrollments failed: %v", err)
	}
	if count != 1 {
		t.Errorf("enrollments = %d; want 1", count)
	}
}

func Test_courseApi_updateStudentCourses(t *testing.T) {
	env := setup(t)
	ctx := context.Background()

	admin := testutil.CreateUser(t, env.usrRepo, "Admin", "Ji", "admin@test.cd", "pwd", true)
	student := testutil.CreateUser(t, env.usrRepo, "Asha", "Devi", "asha@test.cd", "pwd", false)
	crs1 := testutil.CreateCourse(t, env.db, 1, "Kirtanam", "chanting")
	crs2 := testutil.CreateCourse(t, env.db, 2, "Smaranam", "remembering")
	crs3 := testutil.CreateCourse(t, env.db, 3, "Vandanam", "prayer")
	testutil.CreateEnrollment(t, env.courseRepo, student.ID, crs1.ID)

	form := func(studentID int, courseIDs string) string {
		v := make(url.Values)
		v.Set("student_id", strconv.Itoa(studentID))
		v.Set("course_ids", courseIDs)
		return v.Encode()
	}
	updated := marchallObj(t, MessageResponse{Message: "Student courses updated successfully"})
	adminToken := getToken(t, admin)

	tests := []httpTest{
		{name: "Auth required", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "Admin required", token: getToken(t, student), extra: form(student.ID, "[]"),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "Admin access required"}),
		},
		{
			name: "course_ids must be a JSON array", token: adminToken, extra: form(student.ID, "lol"),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"course_ids": "must be a JSON array of integers"}),
		},
		{
			name: "Replaced", token: adminToken, extra: form(student.ID, fmt.Sprintf("[%d,%d]", crs2.ID, crs3.ID)),
			wantCode: http.StatusOK, wantData: updated,
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodPost
		tt.path = "/api/update-student-courses"

		t.Run(tt.name, func(t *testing.T) {
			body, _ := tt.extra.(string)
			req, rec := newFormRequest(tt.method, tt.path, tt.token, body)
			env.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	// crs1 was dropped, crs2 and crs3 now assigned
	assignments, err := env.courseRepo.QueryAssignmentsByStudent(ctx, student.ID)
	if err != nil {
		t.Fatalf("QueryAssignmentsByStudent() failed: %v", err)
	}
	want := []course.Assignment{
		{CourseID: crs2.ID, CourseName: crs2.Name},
		{CourseID: crs3.ID, CourseName: crs3.Name},
	}
	if len(assignments) != len(want) {
		t.Fatalf("assignments = %+v; want %+v", assignments, want)
	}
	for i := range want {
		if assignments[i] != want[i] {
			t.Errorf("assignments[%d] = %+v; want %+v", i, assignments[i], want[i])
		}
	}
}

func Test_courseApi_queryAssignments(t *testing.T) {
	env := setup(t)

	admin := testutil.CreateUser(t, env.usrRepo, "Admin", "Ji", "admin@test.cd", "pwd", true)
	student := testutil.CreateUser(t, env.usrRepo, "Asha", "Devi", "asha@test.cd", "pwd", false)
	crs := testutil.CreateCourse(t, env.db, 1, "Kirtanam", "chanting")
	testutil.CreateEnrollment(t, env.courseRepo, student.ID, crs.ID)

	tests := []httpTest{
		{name: "Auth required", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "Admin required", token: getToken(t, student), wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "Admin access required"}),
		},
		{
			name: "Get assignments", token: getToken(t, admin), wantCode: http.StatusOK,
			wantData: marchallList(t, course.Assignment{CourseID: crs.ID, CourseName: crs.Name}),
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodGet
		tt.path = "/api/student-assignments/" + strconv.Itoa(student.ID)

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			env.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}
