package entity

import (
	"image"
	"strings"
)

// BoundingBox прямоугольник детекции в пиксельных координатах кадра
type BoundingBox struct {
	X1 int `json:"x1"` // левая граница
	Y1 int `json:"y1"` // верхняя граница
	X2 int `json:"x2"` // правая граница (X2 > X1)
	Y2 int `json:"y2"` // нижняя граница (Y2 > Y1)
}

// Width возвращает ширину прямоугольника
func (b BoundingBox) Width() int {
	return b.X2 - b.X1
}

// Height возвращает высоту прямоугольника
func (b BoundingBox) Height() int {
	return b.Y2 - b.Y1
}

// Center возвращает координаты центра прямоугольника
func (b BoundingBox) Center() (x, y int) {
	return b.X1 + b.Width()/2, b.Y1 + b.Height()/2
}

// Valid сообщает, что прямоугольник не вырожден
func (b BoundingBox) Valid() bool {
	return b.X1 < b.X2 && b.Y1 < b.Y2
}

// Rect переводит прямоугольник в image.Rectangle
func (b BoundingBox) Rect() image.Rectangle {
	return image.Rect(b.X1, b.Y1, b.X2, b.Y2)
}

// Detection объект, найденный моделью на одном кадре
type Detection struct {
	Label      string      `json:"label"`
	Confidence float64     `json:"confidence"`
	Box        BoundingBox `json:"box"`
}

// Is сравнивает метку детекции с классом без учёта регистра
func (d Detection) Is(label string) bool {
	return strings.EqualFold(d.Label, label)
}

// HasLabel сообщает, есть ли среди детекций хотя бы одна с указанной меткой
func HasLabel(detections []Detection, label string) bool {
	for _, d := range detections {
		if d.Is(label) {
			return true
		}
	}
	return false
}
