package http

import (
	"net/http"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
)

func TestWebSocketQuestionnaireFlow(t *testing.T) {
	server, _ := newTestServer(t)

	u := "ws" + server.URL[len("http"):] + "/ws?childId=child-1&conditions=ASD&region=California"
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// Expect the administered questions first.
	_, payload := readNext(conn, t, "questions")
	questions, _ := payload["questions"].([]any)
	if len(questions) != 2 {
		t.Fatalf("expected 2 ASD questions, got %v", payload["questions"])
	}

	// Submitting early reports what is missing and keeps the session open.
	writeMessage(t, conn, "submit", nil)
	_, payload = readNext(conn, t, "error")
	if payload["code"] != "missing_questions" {
		t.Fatalf("expected missing_questions, got %v", payload)
	}

	// An answer without a score is rejected, not recorded as zero.
	writeMessage(t, conn, "answer", map[string]any{"questionId": "asd-01"})
	_, payload = readNext(conn, t, "error")
	if payload["code"] != "bad_request" {
		t.Fatalf("expected bad_request for a missing score, got %v", payload)
	}

	writeMessage(t, conn, "answer", map[string]any{"questionId": "asd-01", "score": 9})
	_, payload = readNext(conn, t, "error")
	if payload["code"] != "invalid_answer_score" {
		t.Fatalf("expected invalid_answer_score, got %v", payload)
	}

	writeMessage(t, conn, "answer", map[string]any{"questionId": "adhd-01", "score": 1})
	_, payload = readNext(conn, t, "error")
	if payload["code"] != "unknown_question" {
		t.Fatalf("expected unknown_question for a question outside the session, got %v", payload)
	}

	for i, id := range []string{"asd-01", "asd-02"} {
		writeMessage(t, conn, "answer", map[string]any{"questionId": id, "score": 3})
		_, payload = readNext(conn, t, "progress")
		if int(payload["answered"].(float64)) != i+1 {
			t.Fatalf("expected %d answered, got %v", i+1, payload)
		}
	}
	if payload["completionPercent"].(float64) != 100 {
		t.Fatalf("expected full completion, got %v", payload)
	}

	writeMessage(t, conn, "submit", map[string]any{})
	_, payload = readNext(conn, t, "result")
	interps, _ := payload["interpretations"].([]any)
	if len(interps) != 1 {
		t.Fatalf("expected one interpretation, got %v", payload["interpretations"])
	}
	if tier := interps[0].(map[string]any)["tier"]; tier != "High" {
		t.Fatalf("expected High tier, got %v", tier)
	}
	recs, _ := payload["recommendations"].([]any)
	if len(recs) != 2 {
		t.Fatalf("expected two California ASD recommendations, got %v", payload["recommendations"])
	}

	// The server closes the session after a successful submission.
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if _, _, err := conn.ReadMessage(); !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
		t.Fatalf("expected normal close, got %v", err)
	}
}

func TestWebSocketUnknownCondition(t *testing.T) {
	server, _ := newTestServer(t)

	u := "ws" + server.URL[len("http"):] + "/ws?childId=child-1&conditions=OCD"
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	_, payload := readNext(conn, t, "error")
	if payload["code"] != "unknown_condition" {
		t.Fatalf("expected unknown_condition, got %v", payload)
	}
}

func TestWebSocketRequiresChild(t *testing.T) {
	server, _ := newTestServer(t)

	u := "ws" + server.URL[len("http"):] + "/ws"
	_, resp, err := websocket.DefaultDialer.Dial(u, nil)
	if err == nil {
		t.Fatalf("expected handshake failure")
	}
	if resp == nil || resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %+v", resp)
	}
}

func writeMessage(t *testing.T, conn *websocket.Conn, typ string, payload any) {
	t.Helper()
	raw, err := json.Marshal(map[string]any{"type": typ, "payload": payload})
	if err != nil {
		t.Fatalf("encode %s: %v", typ, err)
	}
	if err := conn.WriteMessage(websocket.TextMessage, raw); err != nil {
		t.Fatalf("write %s: %v", typ, err)
	}
}

func readNext(conn *websocket.Conn, t *testing.T, expect string) (string, map[string]any) {
	t.Helper()
	var msg struct {
		Type    string         `json:"type"`
		Payload map[string]any `json:"payload"`
	}
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, raw, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if err := json.Unmarshal(raw, &msg); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if expect != "" && msg.Type != expect {
		t.Fatalf("expected type %s, got %s (%v)", expect, msg.Type, msg.Payload)
	}
	return msg.Type, msg.Payload
}
