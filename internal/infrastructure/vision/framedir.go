package vision

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"line-inspector/internal/domain/entity"
	"line-inspector/internal/domain/port"
)

var frameExtensions = map[string]struct{}{
	".jpg": {}, ".jpeg": {}, ".png": {}, ".gif": {},
	".bmp": {}, ".tif": {}, ".tiff": {}, ".webp": {},
}

// DirOpener виртуальная камера: отдаёт по кругу изображения из каталога.
// Подходит для наладки без линии и камеры.
type DirOpener struct {
	Dir  string
	Loop bool // false — после последнего файла поток заканчивается
}

// NewDirOpener создаёт виртуальную камеру над каталогом
func NewDirOpener(dir string, loop bool) *DirOpener {
	return &DirOpener{Dir: dir, Loop: loop}
}

// Open индекс устройства не используется: каталог один
func (o *DirOpener) Open(deviceIndex int, opts port.CaptureOptions) (port.CaptureSource, error) {
	_ = deviceIndex

	entries, err := os.ReadDir(o.Dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", port.ErrDeviceOpen, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if _, ok := frameExtensions[strings.ToLower(filepath.Ext(e.Name()))]; ok {
			files = append(files, filepath.Join(o.Dir, e.Name()))
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no images in %s", port.ErrDeviceOpen, o.Dir)
	}
	sort.Strings(files)

	return &DirSource{files: files, loop: o.Loop, opts: opts}, nil
}

// DirSource открытая виртуальная камера
type DirSource struct {
	mu     sync.Mutex
	files  []string
	next   int
	seq    uint64
	loop   bool
	opts   port.CaptureOptions
	closed bool
}

// Read декодирует следующий файл
func (s *DirSource) Read() (*entity.Frame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, port.ErrCaptureClosed
	}
	if s.next >= len(s.files) {
		if !s.loop {
			return nil, port.ErrEndOfStream
		}
		s.next = 0
	}

	path := s.files[s.next]
	s.next++

	img, err := decodeFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", port.ErrEndOfStream, err)
	}

	s.seq++
	return &entity.Frame{
		Image:      resizeRGBA(toRGBA(img), s.opts.Width, s.opts.Height),
		Seq:        s.seq,
		CapturedAt: time.Now(),
	}, nil
}

// Close повторный вызов безопасен
func (s *DirSource) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}

// Properties параметры виртуальной камеры
func (s *DirSource) Properties() map[string]float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return map[string]float64{
		"frames": float64(len(s.files)),
		"width":  float64(s.opts.Width),
		"height": float64(s.opts.Height),
		"fps":    float64(s.opts.FPS),
	}
}

func decodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return img, nil
}

var (
	_ port.CaptureOpener     = (*DirOpener)(nil)
	_ port.CaptureProperties = (*DirSource)(nil)
)
