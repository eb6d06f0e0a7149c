// Package mjpeg streams crop previews to browsers as multipart JPEG.
package mjpeg

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"net/http"
	"strconv"
	"sync"
	"time"
)

const (
	boundary       = "frame"
	defaultQuality = 75
	resendInterval = time.Second
)

// Stream broadcasts JPEG frames to connected HTTP clients. Frames published
// faster than the minimum interval replace the pending frame and are resent
// on the next keepalive tick.
type Stream struct {
	mu          sync.RWMutex
	subs        map[chan []byte]struct{}
	last        []byte
	quality     int
	minInterval time.Duration
	lastPush    time.Time
	now         func() time.Time
}

// NewStream creates a stream encoding at quality with a minimum publish
// interval. Out-of-range qualities fall back to a default.
func NewStream(minInterval time.Duration, quality int) *Stream {
	if quality <= 0 || quality > 100 {
		quality = defaultQuality
	}
	return &Stream{
		subs:        make(map[chan []byte]struct{}),
		quality:     quality,
		minInterval: minInterval,
		now:         time.Now,
	}
}

// SetNowFunc overrides the clock used for throttling.
func (s *Stream) SetNowFunc(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if now == nil {
		now = time.Now
	}
	s.now = now
}

// PublishImage encodes img and publishes it.
func (s *Stream) PublishImage(img image.Image) error {
	s.mu.RLock()
	q := s.quality
	s.mu.RUnlock()
	jpg, err := EncodeJPEG(img, q)
	if err != nil {
		return err
	}
	s.Publish(jpg)
	return nil
}

// Publish sends a JPEG frame to all subscribers with throttling.
func (s *Stream) Publish(jpg []byte) {
	frame := append([]byte(nil), jpg...)
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	s.last = frame
	if s.minInterval > 0 && now.Sub(s.lastPush) < s.minInterval {
		return
	}
	s.lastPush = now
	for ch := range s.subs {
		// Drop a frame the client has not read yet.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- frame:
		default:
		}
	}
}

// Last returns a copy of the most recent frame, nil when none.
func (s *Stream) Last() []byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.last) == 0 {
		return nil
	}
	return append([]byte(nil), s.last...)
}

// Handler serves the MJPEG multipart stream to the HTTP client.
func (s *Stream) Handler(w http.ResponseWriter, r *http.Request) {
	fl, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary="+boundary)
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Pragma", "no-cache")

	ch := s.subscribe()
	defer s.unsubscribe(ch)

	keep := time.NewTicker(resendInterval)
	defer keep.Stop()

	for {
		var jpg []byte
		select {
		case <-r.Context().Done():
			return
		case jpg = <-ch:
		case <-keep.C:
			jpg = s.Last()
		}
		if len(jpg) == 0 {
			continue
		}
		if err := writePart(w, jpg); err != nil {
			return
		}
		fl.Flush()
	}
}

// EncodeJPEG encodes img at the given quality.
func EncodeJPEG(img image.Image, quality int) ([]byte, error) {
	if img == nil {
		return nil, fmt.Errorf("encode jpeg: nil image")
	}
	if quality <= 0 || quality > 100 {
		quality = defaultQuality
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// subscribe registers a new client and primes it with the latest frame.
func (s *Stream) subscribe() chan []byte {
	ch := make(chan []byte, 1)
	s.mu.Lock()
	s.subs[ch] = struct{}{}
	if len(s.last) > 0 {
		ch <- s.last
	}
	s.mu.Unlock()
	return ch
}

// unsubscribe removes a client subscription.
func (s *Stream) unsubscribe(ch chan []byte) {
	s.mu.Lock()
	delete(s.subs, ch)
	close(ch)
	s.mu.Unlock()
}

// writePart writes a single JPEG frame to the multipart response.
func writePart(w http.ResponseWriter, jpg []byte) error {
	header := "\r\n--" + boundary + "\r\n" +
		"Content-Type: image/jpeg\r\n" +
		"Content-Length: " + strconv.Itoa(len(jpg)) + "\r\n\r\n"
	if _, err := w.Write([]byte(header)); err != nil {
		return err
	}
	_, err := w.Write(jpg)
	return err
}
