package handlers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/jflessau/catenary/internal/api"
	"github.com/jflessau/catenary/internal/config"
	"github.com/jflessau/catenary/internal/names"
	"github.com/jflessau/catenary/internal/plane"
)

type testServer struct {
	router http.Handler
	plane  *plane.Plane
	queue  chan plane.Inbound
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	cfg := config.Default("8080", "test")
	p := plane.New(cfg, &names.Static{Names: []string{"brave-otter", "mellow-finch"}}, zerolog.Nop())
	queue := make(chan plane.Inbound, 16)
	return &testServer{
		router: api.NewRouter(zerolog.Nop(), cfg, p, queue),
		plane:  p,
		queue:  queue,
	}
}

// drain applies every queued message, standing in for the ingest
// writer goroutine.
func (s *testServer) drain(t *testing.T) {
	t.Helper()
	for {
		select {
		case msg := <-s.queue:
			s.plane.AddMessage(msg)
		default:
			return
		}
	}
}

func (s *testServer) do(t *testing.T, method, target, body string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

const (
	sendBody = `{"text":"hello","trace":{"lat":53.552196,"lon":9.994872,"speed":12,"slope":0}}`
	// ~516 m from the author, within a 6 m/s viewer's horizon
	nearQuery = "/api/messages?lat=53.555574&lon=10.000226&speed=6&slope=0"
	// ~1914 m away, beyond a 10 m/s viewer's horizon
	farQuery = "/api/messages?lat=53.564007&lon=10.015946&speed=10&slope=0"
)

func TestSendMessageIssuesIdentityCookie(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/messages", sendBody, nil)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", rec.Code)
	}

	var found bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == "user" && c.Value != "" {
			found = true
		}
	}
	if !found {
		t.Error("no identity cookie issued")
	}

	var resp struct {
		ID string `json:"id"`
		TS int64  `json:"ts"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.ID == "" || resp.TS == 0 {
		t.Errorf("response = %+v, want id and ts assigned", resp)
	}
}

func TestSendAndListMessages(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/messages", sendBody, nil)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("send status = %d, want 202", rec.Code)
	}
	s.drain(t)

	rec = s.do(t, http.MethodGet, nearQuery, "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d, want 200", rec.Code)
	}

	var resp struct {
		Messages []plane.View `json:"messages"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Messages) != 1 {
		t.Fatalf("got %d messages, want 1", len(resp.Messages))
	}
	msg := resp.Messages[0]
	if msg.Text != "hello" || msg.DisplayName != "brave-otter" || msg.ViewerVote != plane.VoteNone {
		t.Errorf("unexpected message: %+v", msg)
	}

	// A viewer too far away for their speed sees nothing.
	rec = s.do(t, http.MethodGet, farQuery, "", nil)
	resp.Messages = nil
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Messages) != 0 {
		t.Errorf("far viewer got %d messages, want 0", len(resp.Messages))
	}
}

func TestSendMessageBlankTextDropped(t *testing.T) {
	s := newTestServer(t)

	body := `{"text":"   ","trace":{"lat":53.55,"lon":9.99,"speed":12,"slope":0}}`
	rec := s.do(t, http.MethodPost, "/api/messages", body, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}

	select {
	case msg := <-s.queue:
		t.Errorf("blank message was enqueued: %+v", msg)
	default:
	}
}

func TestSendMessageInvalidJSON(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/messages", `{"text":`, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestListMessagesInvalidTrace(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/messages?lat=north&lon=10&speed=5&slope=0", "", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestVoteLifecycle(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/messages", sendBody, nil)
	var sent struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&sent); err != nil {
		t.Fatal(err)
	}
	s.drain(t)

	// Keep one viewer identity across requests.
	rec = s.do(t, http.MethodGet, nearQuery, "", nil)
	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("no identity cookie to reuse")
	}

	voteURL := fmt.Sprintf("/api/messages/%s/vote", sent.ID)

	rec = s.do(t, http.MethodPost, voteURL, `{"up":true}`, cookies)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("vote status = %d, want 204", rec.Code)
	}

	listVote := func() plane.View {
		rec := s.do(t, http.MethodGet, nearQuery, "", cookies)
		var resp struct {
			Messages []plane.View `json:"messages"`
		}
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatal(err)
		}
		if len(resp.Messages) != 1 {
			t.Fatalf("got %d messages, want 1", len(resp.Messages))
		}
		return resp.Messages[0]
	}

	v := listVote()
	if v.ViewerVote != plane.VoteUp || v.Upvotes != 1 {
		t.Fatalf("after upvote: vote=%q up=%d", v.ViewerVote, v.Upvotes)
	}

	// Same vote again retracts it.
	s.do(t, http.MethodPost, voteURL, `{"up":true}`, cookies)
	v = listVote()
	if v.ViewerVote != plane.VoteNone || v.Upvotes != 0 {
		t.Fatalf("after retract: vote=%q up=%d", v.ViewerVote, v.Upvotes)
	}

	// Switching to a downvote moves the viewer over.
	s.do(t, http.MethodPost, voteURL, `{"up":true}`, cookies)
	s.do(t, http.MethodPost, voteURL, `{"up":false}`, cookies)
	v = listVote()
	if v.ViewerVote != plane.VoteDown || v.Upvotes != 0 || v.Downvotes != 1 {
		t.Fatalf("after switch: vote=%q up=%d down=%d", v.ViewerVote, v.Upvotes, v.Downvotes)
	}
}

func TestVoteInvalidID(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/messages/not-a-ulid/vote", `{"up":true}`, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestVoteUnknownIDSucceedsSilently(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/messages/01HV3AMXX8Y6B8Q0FV0NJ7R2ZC/vote", `{"up":true}`, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204 for unknown id", rec.Code)
	}
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/health", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Status != "healthy" {
		t.Errorf("status = %q, want healthy", resp.Status)
	}
}
