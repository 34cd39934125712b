package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap/zaptest"

	"github.com/ayusman/signscribe/internal/events"
	"github.com/ayusman/signscribe/internal/landmark"
	"github.com/ayusman/signscribe/internal/session"
	"github.com/ayusman/signscribe/internal/sign"
	"github.com/ayusman/signscribe/internal/store"
)

// newTestSession creates a stopped session wired to the optional bus.
func newTestSession(t *testing.T, bus session.Publisher) *session.Session {
	t.Helper()

	classifier, err := sign.NewClassifier(sign.DefaultThresholds())
	if err != nil {
		t.Fatalf("failed to create classifier: %v", err)
	}
	s, err := session.New(session.Config{
		Classifier: classifier,
		Debounce:   sign.DefaultDebounceConfig(),
		Bus:        bus,
	})
	if err != nil {
		t.Fatalf("failed to create session: %v", err)
	}
	return s
}

func postJSON(t *testing.T, client *http.Client, url, body string) *http.Response {
	t.Helper()
	resp, err := client.Post(url, "application/json", bytes.NewBufferString(body))
	if err != nil {
		t.Fatalf("POST %s error = %v", url, err)
	}
	return resp
}

func frameBody(t *testing.T, hand landmark.HandLandmarks, ms int64) string {
	t.Helper()
	data, err := json.Marshal(map[string]any{
		"hands":        []landmark.HandLandmarks{hand},
		"timestamp_ms": ms,
	})
	if err != nil {
		t.Fatalf("failed to encode frame: %v", err)
	}
	return string(data)
}

func TestAPI_TranscriptWorkflow(t *testing.T) {
	// Setup
	logger := zaptest.NewLogger(t)
	st, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer st.Close()

	bus := events.NewBus(nil)
	defer bus.Close()

	classifier, _ := sign.NewClassifier(sign.DefaultThresholds())
	sess, err := session.New(session.Config{
		Classifier: classifier,
		Debounce:   sign.DefaultDebounceConfig(),
		Store:      st,
		Bus:        bus,
		Logger:     logger,
	})
	if err != nil {
		t.Fatalf("session.New() error = %v", err)
	}

	srv := New(Config{Session: sess, Store: st, Bus: bus})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	client := ts.Client()

	// 1. Frames are refused before start
	resp := postJSON(t, client, ts.URL+"/api/frames", `{"hands":[]}`)
	resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("frame before start: status = %d, want %d", resp.StatusCode, http.StatusConflict)
	}

	// 2. Connect the event stream, then start
	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/events"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("websocket dial error = %v", err)
	}
	defer conn.Close()

	resp = postJSON(t, client, ts.URL+"/api/session/start", "")
	var status session.Status
	json.NewDecoder(resp.Body).Decode(&status)
	resp.Body.Close()
	if !status.Running {
		t.Fatal("session should be running after start")
	}

	// 3. Sign "I Love You" three times past the cooldown
	for _, ms := range []int64{0, 400, 1200} {
		resp = postJSON(t, client, ts.URL+"/api/frames", frameBody(t, landmark.ILoveYouLandmarks(), 1_700_000_000_000+ms))
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("POST /api/frames status = %d", resp.StatusCode)
		}
	}

	// 4. The commit arrives on the event stream
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var commit events.Event
	for commit.Type != events.TypeCommit {
		if err := conn.ReadJSON(&commit); err != nil {
			t.Fatalf("read event error = %v", err)
		}
	}
	if commit.Gesture != sign.ILoveYou || commit.Text != "I Love You" || commit.Seq != 1 {
		t.Errorf("commit event = %+v", commit)
	}
	if commit.SessionID != status.SessionID {
		t.Errorf("commit session = %q, want %q", commit.SessionID, status.SessionID)
	}

	// 5. Transcript is served as text
	resp, err = client.Get(ts.URL + "/api/transcript")
	if err != nil {
		t.Fatalf("GET /api/transcript error = %v", err)
	}
	text, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if string(text) != "I Love You" {
		t.Errorf("transcript = %q, want %q", text, "I Love You")
	}

	// 6. Stop, then read the session back from history
	resp = postJSON(t, client, ts.URL+"/api/session/stop", "")
	resp.Body.Close()

	resp, err = client.Get(fmt.Sprintf("%s/api/sessions/%s", ts.URL, status.SessionID))
	if err != nil {
		t.Fatalf("GET /api/sessions/{id} error = %v", err)
	}
	var detail struct {
		ID         string  `json:"id"`
		EndedAt    *string `json:"ended_at"`
		Transcript string  `json:"transcript"`
	}
	json.NewDecoder(resp.Body).Decode(&detail)
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET /api/sessions/{id} status = %d", resp.StatusCode)
	}
	if detail.EndedAt == nil {
		t.Error("stopped session should have ended_at")
	}
	if detail.Transcript != "I Love You" {
		t.Errorf("persisted transcript = %q", detail.Transcript)
	}
}

func TestAPI_ThresholdsRoundTrip(t *testing.T) {
	sess := newTestSession(t, nil)
	ts := httptest.NewServer(New(Config{Session: sess}))
	defer ts.Close()

	req, _ := http.NewRequest(http.MethodPut, ts.URL+"/api/settings/thresholds", strings.NewReader(`{"mirror_left":true}`))
	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatalf("PUT error = %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("PUT status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	if !sess.Thresholds().MirrorLeft {
		t.Error("mirror_left should be enabled")
	}
}
