package syncclient

import (
	"context"
	"errors"
	"sync"

	"pet-medical-records/internal/apperr"
	"pet-medical-records/internal/domain/pets"
	"pet-medical-records/internal/domain/records"
	"pet-medical-records/internal/domain/users"
	"pet-medical-records/internal/platform/logger"
	"pet-medical-records/internal/session"
)

// ErrStaleResponse: la respuesta llegó después de un login/signOut; no se aplicó al cache.
var ErrStaleResponse = errors.New("syncclient: stale response discarded")

// Client aplica al cache solo respuestas exitosas y vigentes. No reintenta.
type Client struct {
	tr       Transport
	sessions *session.Manager
	cache    *Cache
	log      logger.Logger

	mu   sync.RWMutex
	gen  uint64
	user *users.User
	cred Credentials
}

func New(tr Transport, sessions *session.Manager, log logger.Logger) *Client {
	if log == nil {
		log = logger.Nop()
	}
	return &Client{
		tr:       tr,
		sessions: sessions,
		cache:    NewCache(),
		log:      log,
	}
}

// snapshot devuelve la generación vigente y las credenciales con que salió el request.
func (c *Client) snapshot() (uint64, Credentials) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.gen, c.cred
}

// apply ejecuta fn solo si la generación no cambió desde que salió el request.
func (c *Client) apply(gen uint64, fn func()) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.gen != gen {
		return ErrStaleResponse
	}
	fn()
	return nil
}

func (c *Client) requireSession() (uint64, Credentials, error) {
	gen, cred := c.snapshot()
	if cred.UserID == "" && cred.Token == "" {
		return gen, cred, apperr.ErrUnauthorized
	}
	return gen, cred, nil
}

// Register crea la cuenta pero no inicia sesión.
func (c *Client) Register(ctx context.Context, email, name, password string) (users.User, error) {
	return c.tr.Register(ctx, email, name, password)
}

// Login: login → guarda sesión → carga mascotas.
func (c *Client) Login(ctx context.Context, email, password string) (users.User, error) {
	s, err := c.tr.Login(ctx, email, password)
	if err != nil {
		return users.User{}, err
	}
	if err := c.sessions.Save(ctx, s); err != nil {
		return users.User{}, err
	}
	c.signIn(s)

	if _, err := c.LoadPets(ctx); err != nil {
		return s.User, err
	}
	return s.User, nil
}

func (c *Client) signIn(s session.Session) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gen++
	u := s.User
	c.user = &u
	c.cred = Credentials{UserID: s.User.ID, Token: s.Token}
	c.cache.Clear()
}

// SignOut invalida los requests en vuelo y borra sesión y cache.
func (c *Client) SignOut(ctx context.Context) error {
	c.mu.Lock()
	c.gen++
	c.user = nil
	c.cred = Credentials{}
	c.cache.Clear()
	c.mu.Unlock()

	return c.sessions.Clear(ctx)
}

// Restore levanta la sesión guardada y recarga mascotas.
//   - sin sesión: nil, nil
//   - Unauthorized: sesión inválida, se borra todo; nil + error
//   - otro error: se conserva el usuario con lista vacía; usuario + error
func (c *Client) Restore(ctx context.Context) (*users.User, error) {
	s, err := c.sessions.Restore(ctx)
	if err != nil || s == nil {
		return nil, err
	}
	c.signIn(*s)

	if _, err := c.LoadPets(ctx); err != nil {
		if apperr.Is(err, apperr.KindUnauthorized) {
			c.log.Info("stored session rejected, signing out", map[string]any{"user_id": s.User.ID})
			if cerr := c.SignOut(ctx); cerr != nil {
				return nil, errors.Join(err, cerr)
			}
			return nil, err
		}
		c.log.Warn("restore: loading pets failed", map[string]any{"error": err})
		u := s.User
		return &u, err
	}
	u := s.User
	return &u, nil
}

func (c *Client) CurrentUser() *users.User {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.user == nil {
		return nil
	}
	u := *c.user
	return &u
}

func (c *Client) Pets() []pets.Pet { return c.cache.Pets() }

func (c *Client) Records(petID string) []records.Record { return c.cache.Records(petID) }

func (c *Client) LoadPets(ctx context.Context) ([]pets.Pet, error) {
	gen, cred, err := c.requireSession()
	if err != nil {
		return nil, err
	}
	ps, err := c.tr.ListPets(ctx, cred)
	if err != nil {
		return nil, err
	}
	if err := c.apply(gen, func() { c.cache.ReplacePets(ps) }); err != nil {
		return nil, err
	}
	return ps, nil
}

func (c *Client) LoadRecords(ctx context.Context, petID string) ([]records.Record, error) {
	gen, cred, err := c.requireSession()
	if err != nil {
		return nil, err
	}
	rs, err := c.tr.ListRecords(ctx, cred, petID)
	if err != nil {
		return nil, err
	}
	if err := c.apply(gen, func() { c.cache.ReplaceRecords(petID, rs) }); err != nil {
		return nil, err
	}
	return rs, nil
}

func (c *Client) CreatePet(ctx context.Context, in pets.Input) (pets.Pet, error) {
	gen, cred, err := c.requireSession()
	if err != nil {
		return pets.Pet{}, err
	}
	p, err := c.tr.CreatePet(ctx, cred, in)
	if err != nil {
		return pets.Pet{}, err
	}
	return p, c.apply(gen, func() { c.cache.UpsertPet(p) })
}

func (c *Client) UpdatePet(ctx context.Context, petID string, patch pets.Patch) (pets.Pet, error) {
	gen, cred, err := c.requireSession()
	if err != nil {
		return pets.Pet{}, err
	}
	p, err := c.tr.UpdatePet(ctx, cred, petID, patch)
	if err != nil {
		return pets.Pet{}, err
	}
	return p, c.apply(gen, func() { c.cache.UpsertPet(p) })
}

func (c *Client) DeletePet(ctx context.Context, petID string) error {
	gen, cred, err := c.requireSession()
	if err != nil {
		return err
	}
	if err := c.tr.DeletePet(ctx, cred, petID); err != nil {
		return err
	}
	return c.apply(gen, func() { c.cache.RemovePet(petID) })
}

func (c *Client) CreateRecord(ctx context.Context, petID string, in records.Input) (records.Record, error) {
	gen, cred, err := c.requireSession()
	if err != nil {
		return records.Record{}, err
	}
	r, err := c.tr.CreateRecord(ctx, cred, petID, in)
	if err != nil {
		return records.Record{}, err
	}
	return r, c.apply(gen, func() { c.cache.UpsertRecord(r) })
}

func (c *Client) UpdateRecord(ctx context.Context, recordID string, in records.Input) (records.Record, error) {
	gen, cred, err := c.requireSession()
	if err != nil {
		return records.Record{}, err
	}
	r, err := c.tr.UpdateRecord(ctx, cred, recordID, in)
	if err != nil {
		return records.Record{}, err
	}
	return r, c.apply(gen, func() { c.cache.UpsertRecord(r) })
}

func (c *Client) DeleteRecord(ctx context.Context, recordID string) error {
	gen, cred, err := c.requireSession()
	if err != nil {
		return err
	}
	if err := c.tr.DeleteRecord(ctx, cred, recordID); err != nil {
		return err
	}
	return c.apply(gen, func() { c.cache.RemoveRecord(recordID) })
}
