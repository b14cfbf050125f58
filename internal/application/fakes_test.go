package app

import (
	"context"
	"errors"
	"image"
	"sync"
	"sync/atomic"
	"time"

	"line-inspector/internal/domain/entity"
	"line-inspector/internal/domain/port"
)

type fakeSource struct {
	mu        sync.Mutex
	limit     int // 0 — бесконечный поток
	reads     int
	closed    bool
	readAfter atomic.Int32
	onClose   func()
}

func (s *fakeSource) Read() (*entity.Frame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		s.readAfter.Add(1)
		return nil, port.ErrCaptureClosed
	}
	if s.limit > 0 && s.reads >= s.limit {
		return nil, errors.New("camera unplugged")
	}
	s.reads++
	return &entity.Frame{
		Image:      image.NewRGBA(image.Rect(0, 0, 8, 8)),
		Seq:        uint64(s.reads),
		CapturedAt: time.Now(),
	}, nil
}

func (s *fakeSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed && s.onClose != nil {
		s.onClose()
	}
	s.closed = true
	return nil
}

func (s *fakeSource) Reads() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reads
}

func (s *fakeSource) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

type fakeOpener struct {
	mu        sync.Mutex
	err       error
	limit     int
	opens     int
	sources   []*fakeSource
	active    int
	maxActive int
}

func (o *fakeOpener) Open(int, port.CaptureOptions) (port.CaptureSource, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.opens++
	if o.err != nil {
		return nil, o.err
	}
	o.active++
	if o.active > o.maxActive {
		o.maxActive = o.active
	}
	src := &fakeSource{limit: o.limit}
	src.onClose = func() {
		o.mu.Lock()
		o.active--
		o.mu.Unlock()
	}
	o.sources = append(o.sources, src)
	return src, nil
}

func (o *fakeOpener) Opens() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.opens
}

func (o *fakeOpener) MaxActive() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.maxActive
}

func (o *fakeOpener) Last() *fakeSource {
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.sources) == 0 {
		return nil
	}
	return o.sources[len(o.sources)-1]
}

type detectorFunc func(ctx context.Context, frame *entity.Frame, threshold float64) ([]entity.Detection, error)

func (f detectorFunc) Detect(ctx context.Context, frame *entity.Frame, threshold float64) ([]entity.Detection, error) {
	return f(ctx, frame, threshold)
}

func staticDetector(dets ...entity.Detection) detectorFunc {
	return func(context.Context, *entity.Frame, float64) ([]entity.Detection, error) {
		return dets, nil
	}
}

type fakeAnnotator struct {
	mu      sync.Mutex
	banners []port.Banner
}

func (a *fakeAnnotator) Annotate(frame *image.RGBA, _ []entity.Detection, banner port.Banner) *image.RGBA {
	a.mu.Lock()
	a.banners = append(a.banners, banner)
	a.mu.Unlock()
	out := image.NewRGBA(frame.Bounds())
	copy(out.Pix, frame.Pix)
	return out
}

type fakeEncoder struct {
	err error
}

func (e fakeEncoder) Encode(image.Image) ([]byte, error) {
	if e.err != nil {
		return nil, e.err
	}
	return []byte("jpeg"), nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []entity.Event
}

func (p *recordingPublisher) Publish(event entity.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordingPublisher) Named(name entity.EventName) []entity.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []entity.Event
	for _, e := range p.events {
		if e.Name == name {
			out = append(out, e)
		}
	}
	return out
}

type countingMetrics struct {
	nopMetrics
	inferenceFaults atomic.Int32
	encodeFaults    atomic.Int32
	readFaults      atomic.Int32
	items           atomic.Int32
}

func (m *countingMetrics) InferenceFault() { m.inferenceFaults.Add(1) }
func (m *countingMetrics) EncodeFault() { m.encodeFaults.Add(1) }
func (m *countingMetrics) ReadFault() { m.readFaults.Add(1) }
func (m *countingMetrics) ItemInspected(entity.InspectionStatus) {
	m.items.Add(1)
}
