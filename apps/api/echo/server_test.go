package echoapi

import (
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
)

func Test_home(t *testing.T) {
	env := setup(t)

	req, rec := newRequest(http.MethodGet, "/")
	env.server.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{
		wantCode: http.StatusOK,
		wantData: marchallObj(t, echo.Map{"message": "Welcome to Sadhana API!"}),
	}, rec)
}

func Test_healthz(t *testing.T) {
	env := setup(t)

	req, rec := newRequest(http.MethodGet, "/healthz")
	env.server.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{
		wantCode: http.StatusOK,
		wantData: marchallObj(t, echo.Map{"status": "ok"}),
	}, rec)

	// a dead pool fails the check and requests a shutdown
	if err := env.db.Close(); err != nil {
		t.Fatalf("db.Close() failed: %v", err)
	}
	req, rec = newRequest(http.MethodGet, "/healthz")
	env.server.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{
		wantCode: http.StatusInternalServerError,
		wantData: marchallObj(t, httpErr{Error: http.StatusText(http.StatusInternalServerError)}),
	}, rec)

	select {
	case <-env.server.ShutdownSignal():
	default:
		t.Error("no shutdown signal received")
	}
}
