package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/pocketbase/pocketbase/core"
)

func newBareEvent() (*core.RequestEvent, *httptest.ResponseRecorder) {
	rec := httptest.NewRecorder()
	e := &core.RequestEvent{}
	e.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	e.Response = rec
	return e, rec
}

// decodeTrigger parses the HX-Trigger header into its top-level events.
func decodeTrigger(t *testing.T, header string) map[string]json.RawMessage {
	t.Helper()
	var parsed map[string]json.RawMessage
	if err := json.Unmarshal([]byte(header), &parsed); err != nil {
		t.Fatalf("HX-Trigger %q is not valid JSON: %v", header, err)
	}
	return parsed
}

func decodeToast(t *testing.T, header string) map[string]string {
	t.Helper()
	raw, ok := decodeTrigger(t, header)["showToast"]
	if !ok {
		t.Fatalf("HX-Trigger %q has no showToast event", header)
	}
	var toast map[string]string
	if err := json.Unmarshal(raw, &toast); err != nil {
		t.Fatalf("showToast payload is not valid JSON: %v", err)
	}
	return toast
}

func TestSetToast(t *testing.T) {
	tests := []struct {
		toastType string
		message   string
	}{
		{"success", "Line item added"},
		{"warning", "Please fix the errors below"},
		{"error", `Vendor "Acme & Sons" <has> quotes`},
		{"info", "Target margin set to 25%"},
	}
	for _, tt := range tests {
		t.Run(tt.toastType, func(t *testing.T) {
			e, rec := newBareEvent()
			SetToast(e, tt.toastType, tt.message)

			toast := decodeToast(t, rec.Header().Get("HX-Trigger"))
			if toast["message"] != tt.message || toast["type"] != tt.toastType {
				t.Errorf("toast = %v, want %s/%q", toast, tt.toastType, tt.message)
			}
		})
	}
}

func TestSetToast_MergesExistingTrigger(t *testing.T) {
	e, rec := newBareEvent()
	rec.Header().Set("HX-Trigger", `{"estimateUpdated":{"id":"abc"}}`)

	SetToast(e, "success", "Saved")

	events := decodeTrigger(t, rec.Header().Get("HX-Trigger"))
	if _, ok := events["estimateUpdated"]; !ok {
		t.Error("existing estimateUpdated event was dropped")
	}
	if decodeToast(t, rec.Header().Get("HX-Trigger"))["message"] != "Saved" {
		t.Error("showToast not merged")
	}
}

func TestSetToast_OverwritesInvalidTrigger(t *testing.T) {
	e, rec := newBareEvent()
	rec.Header().Set("HX-Trigger", "refresh")

	SetToast(e, "info", "Hello")

	if decodeToast(t, rec.Header().Get("HX-Trigger"))["message"] != "Hello" {
		t.Error("expected showToast to replace the invalid header")
	}
}

func TestSetToast_SetsFlashCookie(t *testing.T) {
	e, rec := newBareEvent()
	SetToast(e, "success", "Quote accepted")

	var flash *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == "flash_toast" {
			flash = c
		}
	}
	if flash == nil {
		t.Fatal("expected flash_toast cookie")
	}
	val, err := url.QueryUnescape(flash.Value)
	if err != nil {
		t.Fatalf("unescape cookie: %v", err)
	}
	var toast map[string]string
	if err := json.Unmarshal([]byte(val), &toast); err != nil {
		t.Fatalf("cookie is not JSON: %v", err)
	}
	if toast["message"] != "Quote accepted" {
		t.Errorf("cookie message = %q", toast["message"])
	}
}

func TestErrorToast(t *testing.T) {
	for _, code := range []int{http.StatusBadRequest, http.StatusNotFound, http.StatusConflict, http.StatusInternalServerError} {
		e, rec := newBareEvent()
		if err := ErrorToast(e, code, "Estimate not found"); err != nil {
			t.Fatalf("ErrorToast returned %v", err)
		}
		if rec.Code != code {
			t.Errorf("status = %d, want %d", rec.Code, code)
		}
		if rec.Header().Get("HX-Reswap") != "none" {
			t.Error("expected HX-Reswap: none")
		}
		if decodeToast(t, rec.Header().Get("HX-Trigger"))["type"] != "error" {
			t.Error("expected an error toast")
		}
		if rec.Body.String() != "Estimate not found" {
			t.Errorf("body = %q", rec.Body.String())
		}
	}
}
