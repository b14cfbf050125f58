package port

import "line-inspector/internal/domain/entity"

// EventPublisher рассылает события всем подписчикам.
// Publish не должен блокироваться на медленных получателях.
type EventPublisher interface {
	Publish(event entity.Event)
}

// Publishers рассылает событие нескольким получателям по очереди
type Publishers []EventPublisher

// Publish реализует EventPublisher
func (p Publishers) Publish(event entity.Event) {
	for _, pub := range p {
		if pub != nil {
			pub.Publish(event)
		}
	}
}
