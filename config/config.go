package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr string

	CameraIndex int
	// CameraDir каталог с кадрами вместо камеры (виртуальная камера)
	CameraDir   string
	FrameWidth  int
	FrameHeight int
	CameraFPS   int

	ModelPath           string
	ModelClasses        []string
	ModelInputSize      int
	ConfidenceThreshold float64
	NMSThreshold        float64
	DefectLabel         string

	Debounce      time.Duration
	TargetFPS     int
	JPEGQuality   int
	RestartSettle time.Duration

	LogLevel  string
	LogPretty bool

	TelegramToken string
}

func Default() *Config {
	return &Config{
		HTTPAddr:            ":5000",
		FrameWidth:          1280,
		FrameHeight:         720,
		CameraFPS:           30,
		ModelPath:           "models/best.onnx",
		ModelClasses:        []string{"sg"},
		ModelInputSize:      640,
		ConfidenceThreshold: 0.5,
		NMSThreshold:        0.45,
		DefectLabel:         "sg",
		Debounce:            3 * time.Second,
		TargetFPS:           30,
		JPEGQuality:         85,
		RestartSettle:       500 * time.Millisecond,
		LogLevel:            "info",
	}
}

func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	return FromEnv(os.LookupEnv)
}

// FromEnv читает конфигурацию через lookup; пустые значения оставляют умолчания
func FromEnv(lookup func(string) (string, bool)) (*Config, error) {
	cfg := Default()
	p := parser{lookup: lookup}

	p.str("HTTP_ADDR", &cfg.HTTPAddr)
	p.integer("CAMERA_INDEX", &cfg.CameraIndex)
	p.str("CAMERA_DIR", &cfg.CameraDir)
	p.integer("FRAME_WIDTH", &cfg.FrameWidth)
	p.integer("FRAME_HEIGHT", &cfg.FrameHeight)
	p.integer("CAMERA_FPS", &cfg.CameraFPS)
	p.str("MODEL_PATH", &cfg.ModelPath)
	p.list("MODEL_CLASSES", &cfg.ModelClasses)
	p.integer("MODEL_INPUT_SIZE", &cfg.ModelInputSize)
	p.float("CONFIDENCE_THRESHOLD", &cfg.ConfidenceThreshold)
	p.float("NMS_THRESHOLD", &cfg.NMSThreshold)
	p.str("DEFECT_LABEL", &cfg.DefectLabel)
	p.duration("DEBOUNCE", &cfg.Debounce)
	p.integer("TARGET_FPS", &cfg.TargetFPS)
	p.integer("JPEG_QUALITY", &cfg.JPEGQuality)
	p.duration("RESTART_SETTLE", &cfg.RestartSettle)
	p.str("LOG_LEVEL", &cfg.LogLevel)
	p.boolean("LOG_PRETTY", &cfg.LogPretty)
	p.str("TELEGRAM_TOKEN", &cfg.TelegramToken)

	if err := errors.Join(p.errs...); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.CameraIndex < 0 {
		errs = append(errs, fmt.Errorf("CAMERA_INDEX must be >= 0, got %d", c.CameraIndex))
	}
	if c.FrameWidth < 0 || c.FrameHeight < 0 || c.CameraFPS < 0 {
		errs = append(errs, fmt.Errorf("capture properties must be >= 0"))
	}
	if c.ConfidenceThreshold < 0 || c.ConfidenceThreshold > 1 {
		errs = append(errs, fmt.Errorf("CONFIDENCE_THRESHOLD must be in [0,1], got %v", c.ConfidenceThreshold))
	}
	if c.NMSThreshold < 0 || c.NMSThreshold > 1 {
		errs = append(errs, fmt.Errorf("NMS_THRESHOLD must be in [0,1], got %v", c.NMSThreshold))
	}
	if c.TargetFPS <= 0 {
		errs = append(errs, fmt.Errorf("TARGET_FPS must be > 0, got %d", c.TargetFPS))
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		errs = append(errs, fmt.Errorf("JPEG_QUALITY must be in [1,100], got %d", c.JPEGQuality))
	}
	if c.Debounce <= 0 {
		errs = append(errs, fmt.Errorf("DEBOUNCE must be > 0, got %s", c.Debounce))
	}
	if c.RestartSettle < 0 {
		errs = append(errs, fmt.Errorf("RESTART_SETTLE must be >= 0, got %s", c.RestartSettle))
	}
	if strings.TrimSpace(c.DefectLabel) == "" {
		errs = append(errs, fmt.Errorf("DEFECT_LABEL must not be empty"))
	}
	return errors.Join(errs...)
}

type parser struct {
	lookup func(string) (string, bool)
	errs   []error
}

func (p *parser) value(key string) (string, bool) {
	v, ok := p.lookup(key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

func (p *parser) fail(key, v string, err error) {
	p.errs = append(p.errs, fmt.Errorf("%s=%q: %w", key, v, err))
}

func (p *parser) str(key string, dst *string) {
	if v, ok := p.value(key); ok {
		*dst = v
	}
}

func (p *parser) integer(key string, dst *int) {
	v, ok := p.value(key)
	if !ok {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		p.fail(key, v, err)
		return
	}
	*dst = n
}

func (p *parser) float(key string, dst *float64) {
	v, ok := p.value(key)
	if !ok {
		return
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		p.fail(key, v, err)
		return
	}
	*dst = f
}

func (p *parser) boolean(key string, dst *bool) {
	v, ok := p.value(key)
	if !ok {
		return
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		p.fail(key, v, err)
		return
	}
	*dst = b
}

// duration принимает "3s", "500ms" или число секунд
func (p *parser) duration(key string, dst *time.Duration) {
	v, ok := p.value(key)
	if !ok {
		return
	}
	if secs, err := strconv.ParseFloat(v, 64); err == nil {
		*dst = time.Duration(secs * float64(time.Second))
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		p.fail(key, v, err)
		return
	}
	*dst = d
}

func (p *parser) list(key string, dst *[]string) {
	v, ok := p.value(key)
	if !ok {
		return
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	*dst = out
}
