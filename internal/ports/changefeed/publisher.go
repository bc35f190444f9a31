// Package changefeed es el puerto de salida del historial: cada cambio de mascota/registro
// se publica para consumidores externos (sync en otros dispositivos, auditoría).
package changefeed

import "context"

// Message: Key agrupa por mascota (misma partición/orden por pet). Body se serializa a JSON.
type Message struct {
	Key  string
	Type string
	Body any
}

type Publisher interface {
	Name() string
	Publish(ctx context.Context, m Message) error
	Close() error
}

// Noop es el default cuando CHANGEFEED_DRIVER no está seteado.
type Noop struct{}

func (Noop) Name() string                           { return "noop" }
func (Noop) Publish(context.Context, Message) error { return nil }
func (Noop) Close() error                           { return nil }
