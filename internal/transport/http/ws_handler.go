package http

import (
	"net/http"
	"strconv"
	"time"

	"screening-service/internal/app"
	"screening-service/internal/domain"
	"screening-service/internal/screening"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait       = 10 * time.Second
	pongWait        = 60 * time.Second
	pingPeriod      = pongWait * 9 / 10
	maxMessageBytes = 64 << 10
)

// WSHandler runs an interactive questionnaire over a websocket: the client answers one
// question at a time, sees its progress and finally submits.
type WSHandler struct {
	service  *app.ScreeningService
	upgrader websocket.Upgrader
	log      *zap.Logger
}

func NewWSHandler(service *app.ScreeningService, log *zap.Logger) *WSHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &WSHandler{
		service: service,
		log:     log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type answerPayload struct {
	QuestionID string `json:"questionId"`
	Score      *int   `json:"score"`
	Condition  string `json:"condition"`
}

type submitPayload struct {
	Region   string           `json:"region"`
	Location *locationRequest `json:"location"`
}

type questionsPayload struct {
	ChildID   string             `json:"childId"`
	Questions []domain.Question  `json:"questions"`
	Progress  screening.Progress `json:"progress"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

// ServeWS upgrades the request and drives a questionnaire draft until it is submitted
// or the client goes away.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	childID := q.Get("childId")
	if childID == "" {
		http.Error(w, "missing childId", http.StatusBadRequest)
		return
	}
	region := q.Get("region")
	location, err := parseLocation(q.Get("lat"), q.Get("lng"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("ws upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	send := make(chan outboundMessage[any], 16)
	writerDone := make(chan struct{})
	go h.writeLoop(conn, send, writerDone)
	defer func() {
		close(send)
		<-writerDone
	}()

	emit := func(typ string, payload any) bool {
		select {
		case send <- outboundMessage[any]{Type: typ, Payload: payload}:
			return true
		case <-writerDone:
			return false
		}
	}
	fail := func(err error) bool {
		status, body := classify(err)
		if status == http.StatusInternalServerError {
			h.log.Error("ws request failed", zap.String("child_id", childID), zap.Error(err))
		}
		return emit("error", body)
	}

	draft, err := h.service.StartDraft(r.Context(), childID, parseConditions(q["conditions"]))
	if err != nil {
		fail(err)
		return
	}
	if !emit("questions", questionsPayload{ChildID: childID, Questions: draft.Questions(), Progress: draft.Progress()}) {
		return
	}

	conn.SetReadLimit(maxMessageBytes)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var inbound inboundMessage
		if err := json.Unmarshal(raw, &inbound); err != nil {
			if !fail(badRequest{msg: "invalid message"}) {
				return
			}
			continue
		}

		switch inbound.Type {
		case "answer":
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				fail(badRequest{msg: "invalid answer payload"})
				continue
			}
			if payload.QuestionID == "" || payload.Score == nil {
				fail(badRequest{msg: "answer requires questionId and score"})
				continue
			}
			answer := domain.Answer{QuestionID: payload.QuestionID, Score: *payload.Score}
			if payload.Condition != "" {
				answer.Condition = domain.ParseCondition(payload.Condition)
			}
			progress, err := draft.Record(answer)
			if err != nil {
				fail(err)
				continue
			}
			emit("progress", progress)
		case "submit":
			var payload submitPayload
			if len(inbound.Payload) > 0 {
				if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
					fail(badRequest{msg: "invalid submit payload"})
					continue
				}
			}
			subRegion, subLocation := region, location
			if payload.Region != "" {
				subRegion = payload.Region
			}
			if payload.Location != nil {
				subLocation = &domain.Coordinates{Lat: payload.Location.Lat, Lng: payload.Location.Lng}
			}
			result, err := h.service.Submit(r.Context(), draft.Submission(subRegion, subLocation))
			if err != nil {
				fail(err)
				continue
			}
			emit("result", result)
			return
		default:
			fail(badRequest{msg: "unsupported message type"})
		}
	}
}

// writeLoop is the only writer on conn. Closing send ends the session with a close frame.
func (h *WSHandler) writeLoop(conn *websocket.Conn, send <-chan outboundMessage[any], done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-send:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			raw, err := json.Marshal(msg)
			if err != nil {
				h.log.Error("ws encode failed", zap.String("type", msg.Type), zap.Error(err))
				continue
			}
			if err := conn.WriteMessage(websocket.TextMessage, raw); err != nil {
				h.log.Debug("ws write error", zap.Error(err))
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func parseLocation(lat, lng string) (*domain.Coordinates, error) {
	if lat == "" && lng == "" {
		return nil, nil
	}
	la, err := strconv.ParseFloat(lat, 64)
	if err != nil || la < -90 || la > 90 {
		return nil, badRequest{msg: "invalid lat"}
	}
	ln, err := strconv.ParseFloat(lng, 64)
	if err != nil || ln < -180 || ln > 180 {
		return nil, badRequest{msg: "invalid lng"}
	}
	return &domain.Coordinates{Lat: la, Lng: ln}, nil
}
