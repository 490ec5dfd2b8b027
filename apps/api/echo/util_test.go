package echoapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"

	"github.com/saikalpataru/sadhana/core"
	"github.com/saikalpataru/sadhana/core/course"
	"github.com/saikalpataru/sadhana/core/material"
	"github.com/saikalpataru/sadhana/core/practice"
	"github.com/saikalpataru/sadhana/core/user"
	emailsvc "github.com/saikalpataru/sadhana/services/email"
	"github.com/saikalpataru/sadhana/storage/database"
	testutil "github.com/saikalpataru/sadhana/tests"
)

var errMissingToken = httpErr{Error: "missing or malformed jwt"}

func testConfig() *core.Config {
	return &core.Config{
		Env:                         "TEST",
		Debug:                       false,
		TestMode:                    true,
		AppName:                     "Sadhana",
		SecretKey:                   []byte("test-secret"),
		SigningAlgorithm:            "HS256",
		AccessTokenExpirationDelta:  30 * time.Minute,
		DefaultTokenExpirationDelta: 15 * time.Minute,
	}
}

type testEnv struct {
	server     Server
	db         *sqlx.DB
	conf       *core.Config
	usrRepo    user.Repository
	courseRepo course.Repository
	usrSvc     user.Service
}

func setup(t *testing.T) *testEnv {
	t.Helper()

	// set up DB & repos
	db := testutil.PrepareDB(t)
	usrRepo := database.NewUserRepository(db)
	courseRepo := database.NewCourseRepository(db)

	// set up services
	conf := testConfig()
	mailSvc := emailsvc.NewConsoleServiceMock(conf)
	usrSvc := user.NewService(conf, usrRepo, mailSvc)
	courseSvc := course.NewService(courseRepo)
	practiceSvc := practice.NewService(database.NewPracticeRepository(db))
	materialSvc := material.NewService(database.NewMaterialRepository(db))

	validate, translator := core.NewValidator()

	// set up server
	logger := testLogger{}
	srv := NewServer(ServerDeps{
		Conf:        conf,
		Logger:      logger,
		DB:          db,
		UserSvc:     usrSvc,
		CourseSvc:   courseSvc,
		PracticeSvc: practiceSvc,
		MaterialSvc: materialSvc,
		Validate:    validate,
		Translator:  translator,
	})

	return &testEnv{
		server:     srv,
		db:         db,
		conf:       conf,
		usrRepo:    usrRepo,
		courseRepo: courseRepo,
		usrSvc:     usrSvc,
	}
}

type testLogger struct{}

func (testLogger) Enable(bool)                  {}
func (testLogger) Debug(string, ...interface{}) {}
func (testLogger) Info(string, ...interface{})  {}
func (testLogger) Warn(string, ...interface{})  {}
func (testLogger) Error(string, ...interface{}) {}
func (testLogger) Fatal(string, ...interface{}) {}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
	extra    interface{}
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func newFormRequest(method, path, token, form string) (*http.Request, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(form))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func recordEntry(t *testing.T, env *testEnv, studentID, courseID int, duration int64) {
	t.Helper()

	var id int
	if err := env.db.Get(&id, `SELECT COALESCE(MAX(id), 0) + 1 FROM time_tracking`); err != nil {
		t.Fatalf("recordEntry() failed: %v", err)
	}
	now := time.Now().UTC()
	q := env.db.Rebind(`
		INSERT INTO time_tracking (id, student_id, course_id, start_time, end_time, duration, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	start := now.Add(-time.Duration(duration) * time.Second)
	if _, err := env.db.Exec(q, id, studentID, courseID, start, now, duration, now); err != nil {
		t.Fatalf("recordEntry() failed: %v", err)
	}
}

func getToken(t *testing.T, usr user.User, ttl ...time.Duration) string {
	claims := GetUserClaims(usr, ttl...)
	token, err := GenerateToken(claims)
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

// nolint
func marchallList(t *testing.T, objs ...interface{}) []byte {
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marchallList() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if j1 == nil || j2 == nil {
		return false, nil
	}
	return assert.ElementsMatch(t, j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
