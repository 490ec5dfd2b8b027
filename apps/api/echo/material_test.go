package echoapi

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/saikalpataru/sadhana/core/material"
	testutil "github.com/saikalpataru/sadhana/tests"
)

func newUploadRequest(t *testing.T, path, token, matType, filename string, content []byte) (*http.Request, *httptest.ResponseRecorder) {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	if matType != "" {
		if err := w.WriteField("material_type", matType); err != nil {
			t.Fatalf("newUploadRequest() failed: %v", err)
		}
	}
	if filename != "" {
		fw, err := w.CreateFormFile("file", filename)
		if err != nil {
			t.Fatalf("newUploadRequest() failed: %v", err)
		}
		if _, err = fw.Write(content); err != nil {
			t.Fatalf("newUploadRequest() failed: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("newUploadRequest() failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func Test_materialApi_upload(t *testing.T) {
	env := setup(t)

	admin := testutil.CreateUser(t, env.usrRepo, "Admin", "Ji", "admin@test.cd", "pwd", true)
	student := testutil.CreateUser(t, env.usrRepo, "Asha", "Devi", "asha@test.cd", "pwd", false)
	crs := testutil.CreateCourse(t, env.db, 1, "Kirtanam", "chanting")

	path := "/api/upload-material/" + strconv.Itoa(crs.ID)
	adminToken := getToken(t, admin)

	type uploadTest struct {
		matType  string
		filename string
		content  []byte
	}
	tests := []httpTest{
		{name: "Auth required", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "Admin required", token: getToken(t, student), extra: uploadTest{matType: "lyrics", filename: "song.txt", content: []byte("om")},
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "Admin access required"}),
		},
		{
			name: "Unknown material type", token: adminToken, extra: uploadTest{matType: "video", filename: "clip.mp4", content: []byte{1}},
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"material_type": "must be one of: lyrics, recording"}),
		},
		{
			name: "Material type required", token: adminToken, extra: uploadTest{filename: "clip.mp4", content: []byte{1}},
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"material_type": "must be one of: lyrics, recording"}),
		},
		{
			name: "File required", token: adminToken, extra: uploadTest{matType: "lyrics"},
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"file": "a file is required"}),
		},
		{
			name: "Uploaded", token: adminToken, extra: uploadTest{matType: "lyrics", filename: "song.txt", content: []byte("om namah")},
			wantCode: http.StatusOK, wantData: marchallObj(t, MessageResponse{Message: "Material uploaded successfully"}),
		},
		{
			// re-uploading the same filename appends a new row
			name: "Uploaded again", token: adminToken, extra: uploadTest{matType: "recording", filename: "song.txt", content: []byte{0xff, 0x00}},
			wantCode: http.StatusOK, wantData: marchallObj(t, MessageResponse{Message: "Material uploaded successfully"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			up, _ := tt.extra.(uploadTest)
			req, rec := newUploadRequest(t, path, tt.token, up.matType, up.filename, up.content)
			env.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	var count int
	if err := env.db.Get(&count, env.db.Rebind(`SELECT COUNT(*) FROM course_materials WHERE course_id = ?`), crs.ID); err != nil {
		t.Fatalf("counting materials failed: %v", err)
	}
	if count != 2 {
		t.Errorf("materials = %d; want 2", count)
	}
}

func Test_materialApi_queryAndDownload(t *testing.T) {
	env := setup(t)

	admin := testutil.CreateUser(t, env.usrRepo, "Admin", "Ji", "admin@test.cd", "pwd", true)
	student := testutil.CreateUser(t, env.usrRepo, "Asha", "Devi", "asha@test.cd", "pwd", false)
	crs := testutil.CreateCourse(t, env.db, 1, "Kirtanam", "chanting")

	content := []byte("om namah shivaya")
	req, rec := newUploadRequest(t, "/api/upload-material/"+strconv.Itoa(crs.ID), getToken(t, admin), "lyrics", "song.txt", content)
	env.server.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("upload code = %v; body %s", rec.Code, rec.Body.String())
	}

	studentToken := getToken(t, student)

	// listing omits the blob
	req, rec = newAuthRequest(http.MethodGet, "/api/course-materials/"+strconv.Itoa(crs.ID), studentToken)
	env.server.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("list code = %v; body %s", rec.Code, rec.Body.String())
	}
	var infos []material.Info
	if err := json.Unmarshal(rec.Body.Bytes(), &infos); err != nil {
		t.Fatalf("json.Unmarshal() failed: %v", err)
	}
	if len(infos) != 1 {
		t.Fatalf("infos = %+v; want 1 entry", infos)
	}
	if infos[0].Type != material.TypeLyrics || infos[0].Filename != "song.txt" {
		t.Errorf("info = %+v; want lyrics song.txt", infos[0])
	}

	// any authenticated user may download
	tests := []httpTest{
		{name: "Auth required", path: "/api/download-material/" + strconv.Itoa(infos[0].ID), wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "Downloaded", path: "/api/download-material/" + strconv.Itoa(infos[0].ID), token: studentToken,
			wantCode: http.StatusOK,
			wantData: marchallObj(t, DownloadResponse{Filename: "song.txt", Content: base64.StdEncoding.EncodeToString(content)}),
		},
		{
			name: "Unknown material", path: "/api/download-material/999", token: studentToken,
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "Material not found"}),
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodGet

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			env.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}
