package session

import (
	"context"
	"encoding/json"
	"strings"

	"pet-medical-records/internal/domain/users"
	"pet-medical-records/internal/platform/logger"
)

// Key es el slot fijo donde vive la sesión.
const Key = "user"

// Session es lo que se persiste: la identidad y, en modo JWT, el token.
type Session struct {
	User  users.User `json:"user"`
	Token string     `json:"token,omitempty"`
}

func (s Session) Valid() bool {
	return strings.TrimSpace(s.User.ID) != ""
}

type Manager struct {
	kv  KV
	log logger.Logger
}

func NewManager(kv KV, log logger.Logger) *Manager {
	if log == nil {
		log = logger.Nop()
	}
	return &Manager{kv: kv, log: log}
}

func (m *Manager) Save(ctx context.Context, s Session) error {
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return m.kv.Set(ctx, Key, b)
}

func (m *Manager) Clear(ctx context.Context) error {
	return m.kv.Delete(ctx, Key)
}

// Restore devuelve la sesión guardada o nil si no hay.
// Un slot ilegible se borra y se trata como "sin sesión".
func (m *Manager) Restore(ctx context.Context) (*Session, error) {
	b, ok, err := m.kv.Get(ctx, Key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	var s Session
	if err := json.Unmarshal(b, &s); err != nil || !s.Valid() {
		m.log.Warn("discarding corrupt session slot", map[string]any{"error": err})
		if err := m.kv.Delete(ctx, Key); err != nil {
			return nil, err
		}
		return nil, nil
	}
	return &s, nil
}
