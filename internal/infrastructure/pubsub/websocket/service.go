// Package wspubsub implements ports.PubSub by streaming the published
// messages to the websocket clients subscribed to their topic.
package wspubsub

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/tdex-amm/internal/core/ports"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	sendBufferSize = 256
)

// Service is both the publisher and the http.Handler that upgrades the
// connections of the subscribers. Subscribers choose topics with a comma
// separated topics query param, none means every topic.
type Service struct {
	lock        sync.RWMutex
	upgrader    websocket.Upgrader
	subscribers map[*subscriber]struct{}
	closed      bool
}

func NewService() *Service {
	return &Service{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		subscribers: make(map[*subscriber]struct{}),
	}
}

func (s *Service) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).Debug("failed to upgrade events connection")
		return
	}

	sub := newSubscriber(conn, r.URL.Query().Get("topics"))
	if !s.addSubscriber(sub) {
		conn.Close()
		return
	}
	log.Debugf("new events subscriber %s", conn.RemoteAddr())

	go sub.writePump()
	sub.readPump()
	s.removeSubscriber(sub)
}

// Publish sends the message to every subscriber of topic. Subscribers that
// can't keep up are disconnected.
func (s *Service) Publish(topic ports.Topic, message string) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	for sub := range s.subscribers {
		if !sub.isSubscribed(topic) {
			continue
		}
		select {
		case sub.send <- []byte(message):
		default:
			log.Warnf("events subscriber %s is too slow, dropping", sub.conn.RemoteAddr())
			delete(s.subscribers, sub)
			close(sub.send)
		}
	}
	return nil
}

func (s *Service) NumSubscribers() int {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return len(s.subscribers)
}

// Close disconnects all subscribers and refuses new ones.
func (s *Service) Close() {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.closed = true
	for sub := range s.subscribers {
		delete(s.subscribers, sub)
		close(sub.send)
	}
}

func (s *Service) addSubscriber(sub *subscriber) bool {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.closed {
		return false
	}
	s.subscribers[sub] = struct{}{}
	return true
}

func (s *Service) removeSubscriber(sub *subscriber) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if _, ok := s.subscribers[sub]; ok {
		delete(s.subscribers, sub)
		close(sub.send)
	}
}

type subscriber struct {
	conn   *websocket.Conn
	topics map[ports.Topic]struct{}
	send   chan []byte
}

func newSubscriber(conn *websocket.Conn, topicsParam string) *subscriber {
	topics := make(map[ports.Topic]struct{})
	for _, t := range strings.Split(topicsParam, ",") {
		if t = strings.TrimSpace(t); t != "" {
			topics[ports.Topic(strings.ToUpper(t))] = struct{}{}
		}
	}
	return &subscriber{
		conn:   conn,
		topics: topics,
		send:   make(chan []byte, sendBufferSize),
	}
}

func (s *subscriber) isSubscribed(topic ports.Topic) bool {
	if len(s.topics) <= 0 {
		return true
	}
	if _, ok := s.topics[ports.AnyTopic]; ok {
		return true
	}
	_, ok := s.topics[topic]
	return ok
}

// readPump only serves to detect the subscriber going away, any message
// sent by it is discarded.
func (s *subscriber) readPump() {
	defer s.conn.Close()

	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(
				err, websocket.CloseGoingAway, websocket.CloseNormalClosure,
			) {
				log.WithError(err).Debug("events subscriber dropped")
			}
			return
		}
	}
}

func (s *subscriber) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := s.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
